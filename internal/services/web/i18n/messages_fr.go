package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.French

	// Layout
	message.SetString(lang, "layout.title", "Sreyka – IFC AI Concierge")
	message.SetString(lang, "layout.meta_description", "Sreyka, la concierge IA de l'Institut français du Cambodge.")
	message.SetString(lang, "nav.home", "Accueil")
	message.SetString(lang, "nav.sign_in", "Se connecter")
	message.SetString(lang, "nav.sign_out", "Se déconnecter")
	message.SetString(lang, "nav.register", "Créer un compte")
	message.SetString(lang, "nav.lang_en", "EN")
	message.SetString(lang, "nav.lang_fr", "FR")

	// Home
	message.SetString(lang, "home.title", "Sreyka")
	message.SetString(lang, "home.heading", "Bienvenue sur Sreyka")
	message.SetString(lang, "home.signed_in_as", "Connecté en tant que %s")
	message.SetString(lang, "home.anonymous", "Connectez-vous ou créez un compte pour discuter avec Sreyka.")

	// Register page
	message.SetString(lang, "register.title", "Créer un compte")
	message.SetString(lang, "register.heading", "Créez votre compte Sreyka")
	message.SetString(lang, "register.email", "Adresse e-mail")
	message.SetString(lang, "register.password", "Mot de passe")
	message.SetString(lang, "register.password_hint", "Au moins 6 caractères.")
	message.SetString(lang, "register.submit", "Créer le compte")
	message.SetString(lang, "register.have_account", "Vous avez déjà un compte ?")
	message.SetString(lang, "register.login_link", "Se connecter")
	message.SetString(lang, "Account already exists!", "Ce compte existe déjà !")
	message.SetString(lang, "Failed to create account!", "La création du compte a échoué !")
	message.SetString(lang, "Failed validating your submission!", "Votre saisie n'est pas valide !")
	message.SetString(lang, "Account created successfully!", "Compte créé avec succès !")

	// Login page
	message.SetString(lang, "login.title", "Se connecter")
	message.SetString(lang, "login.heading", "Connexion à Sreyka")
	message.SetString(lang, "login.submit", "Se connecter")
	message.SetString(lang, "login.no_account", "Pas encore de compte ?")
	message.SetString(lang, "login.invalid_credentials", "Adresse e-mail ou mot de passe incorrect.")
	message.SetString(lang, "login.signed_out", "Vous êtes déconnecté.")

	// Errors
	message.SetString(lang, "error.title", "Une erreur est survenue")
	message.SetString(lang, "error.not_found", "Cette page n'existe pas.")
	message.SetString(lang, "error.internal", "Une erreur inattendue est survenue. Veuillez réessayer.")
	message.SetString(lang, "error.unavailable", "Le service est indisponible. Veuillez réessayer plus tard.")
}
