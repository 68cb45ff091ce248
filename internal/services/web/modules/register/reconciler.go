package register

import (
	"log"
	"sync"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/flash"
)

// NoticeKind classifies a user notice. It is the flash kind so web notices
// need no translation between the two.
type NoticeKind = flash.Kind

const (
	NoticeSuccess = flash.KindSuccess
	NoticeError   = flash.KindError
)

// Notice messages shown for each outcome. They double as localization keys.
const (
	MessageUserExists    = "Account already exists!"
	MessageFailed        = "Failed to create account!"
	MessageInvalidData   = "Failed validating your submission!"
	MessageAccountCreate = "Account created successfully!"
)

// Notifier shows a transient notice to the user.
type Notifier interface {
	Notify(kind NoticeKind, message string)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(kind NoticeKind, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(kind NoticeKind, message string) {
	if f != nil {
		f(kind, message)
	}
}

// SessionRefresher re-reads the authenticated identity after sign-up.
type SessionRefresher interface {
	RefreshSession()
}

// RouteRefresher re-renders the current route.
type RouteRefresher interface {
	RefreshRoute()
}

// SuccessMarker records that registration has succeeded.
type SuccessMarker interface {
	MarkSuccessful()
}

// Collaborators are the effect targets of a Reconciler. Nil members are skipped.
type Collaborators struct {
	Notifier Notifier
	Session  SessionRefresher
	Route    RouteRefresher
	Success  SuccessMarker
}

// Reconciler maps applied outcomes onto collaborator effects.
//
// It reacts once per State revision and ignores revisions it has already
// seen, so redelivery of the same State has no effect.
type Reconciler struct {
	collaborators Collaborators

	mu   sync.Mutex
	seen uint64
}

// NewReconciler builds a Reconciler over collaborators.
func NewReconciler(collaborators Collaborators) *Reconciler {
	return &Reconciler{collaborators: collaborators}
}

// Observe implements Observer.
func (r *Reconciler) Observe(state State) {
	r.mu.Lock()
	if state.Revision <= r.seen {
		r.mu.Unlock()
		return
	}
	r.seen = state.Revision
	r.mu.Unlock()

	if err := state.Status.Accept(outcome{c: r.collaborators}); err != nil {
		log.Printf("register: reconcile: %v", err)
	}
}

// Attach subscribes a Reconciler to controller. The controller itself is the
// success marker unless collaborators names another one.
func Attach(controller *Controller, collaborators Collaborators) (cancel func()) {
	if collaborators.Success == nil {
		collaborators.Success = controller
	}
	return controller.Subscribe(NewReconciler(collaborators))
}

// outcome carries out the effects of one status.
type outcome struct {
	c Collaborators
}

func (o outcome) VisitIdle() {}

func (o outcome) VisitInvalidData() {
	o.notify(NoticeError, MessageInvalidData)
}

func (o outcome) VisitUserExists() {
	o.notify(NoticeError, MessageUserExists)
}

func (o outcome) VisitFailed() {
	o.notify(NoticeError, MessageFailed)
}

// VisitSuccess issues its effects in order and does not wait on the refreshes.
func (o outcome) VisitSuccess() {
	o.notify(NoticeSuccess, MessageAccountCreate)
	if o.c.Success != nil {
		o.c.Success.MarkSuccessful()
	}
	if o.c.Session != nil {
		o.c.Session.RefreshSession()
	}
	if o.c.Route != nil {
		o.c.Route.RefreshRoute()
	}
}

func (o outcome) notify(kind NoticeKind, message string) {
	if o.c.Notifier != nil {
		o.c.Notifier.Notify(kind, message)
	}
}

var _ registration.Visitor = outcome{}
