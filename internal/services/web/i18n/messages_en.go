package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	// Layout
	message.SetString(lang, "layout.title", "Sreyka – IFC AI Concierge")
	message.SetString(lang, "layout.meta_description", "Sreyka, the AI concierge of the French Institute of Cambodia.")
	message.SetString(lang, "nav.home", "Home")
	message.SetString(lang, "nav.sign_in", "Sign in")
	message.SetString(lang, "nav.sign_out", "Sign out")
	message.SetString(lang, "nav.register", "Create account")
	message.SetString(lang, "nav.lang_en", "EN")
	message.SetString(lang, "nav.lang_fr", "FR")

	// Home
	message.SetString(lang, "home.title", "Sreyka")
	message.SetString(lang, "home.heading", "Welcome to Sreyka")
	message.SetString(lang, "home.signed_in_as", "Signed in as %s")
	message.SetString(lang, "home.anonymous", "Sign in or create an account to chat with Sreyka.")

	// Register page
	message.SetString(lang, "register.title", "Create an account")
	message.SetString(lang, "register.heading", "Create your Sreyka account")
	message.SetString(lang, "register.email", "Email")
	message.SetString(lang, "register.password", "Password")
	message.SetString(lang, "register.password_hint", "At least 6 characters.")
	message.SetString(lang, "register.submit", "Create account")
	message.SetString(lang, "register.have_account", "Already have an account?")
	message.SetString(lang, "register.login_link", "Sign in")
	message.SetString(lang, "Account already exists!", "Account already exists!")
	message.SetString(lang, "Failed to create account!", "Failed to create account!")
	message.SetString(lang, "Failed validating your submission!", "Failed validating your submission!")
	message.SetString(lang, "Account created successfully!", "Account created successfully!")

	// Login page
	message.SetString(lang, "login.title", "Sign in")
	message.SetString(lang, "login.heading", "Sign in to Sreyka")
	message.SetString(lang, "login.submit", "Sign in")
	message.SetString(lang, "login.no_account", "No account yet?")
	message.SetString(lang, "login.invalid_credentials", "Invalid email or password.")
	message.SetString(lang, "login.signed_out", "You have been signed out.")

	// Errors
	message.SetString(lang, "error.title", "Something went wrong")
	message.SetString(lang, "error.not_found", "This page does not exist.")
	message.SetString(lang, "error.internal", "An unexpected error occurred. Please try again.")
	message.SetString(lang, "error.unavailable", "The service is unavailable. Please try again later.")
}
