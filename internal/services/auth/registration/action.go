package registration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/ifc-cambodge/sreyka/internal/platform/errors"
	"github.com/ifc-cambodge/sreyka/internal/platform/otel"
	"github.com/ifc-cambodge/sreyka/internal/platform/timeouts"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/user"
)

const tracerName = "github.com/ifc-cambodge/sreyka/internal/services/auth/registration"

// Store is the persistence surface registration needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	storage.AccountStore
}

// SessionFactory builds, without persisting, the first session of an account.
type SessionFactory interface {
	New(userID string) (storage.WebSession, error)
}

// SessionSink receives the session established by a successful registration.
// The web layer uses it to write the session cookie.
type SessionSink interface {
	EstablishSession(session storage.WebSession)
}

// SessionSinkFunc adapts a function into a SessionSink.
type SessionSinkFunc func(session storage.WebSession)

// EstablishSession implements SessionSink.
func (f SessionSinkFunc) EstablishSession(session storage.WebSession) {
	if f != nil {
		f(session)
	}
}

// Action is one bound registration entry point.
type Action func(ctx context.Context, form Form) Status

// Service runs registration attempts.
type Service struct {
	store       Store
	sessions    SessionFactory
	hasher      user.Hasher
	clock       func() time.Time
	idGenerator func() (string, error)
	tracer      trace.Tracer
	timeout     time.Duration
}

// Option customizes a Service.
type Option func(*Service)

// WithHasher overrides the bcrypt hasher.
func WithHasher(hasher user.Hasher) Option {
	return func(s *Service) {
		if hasher != nil {
			s.hasher = hasher
		}
	}
}

// WithClock overrides time.Now for user timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides the user ID generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.idGenerator = gen
		}
	}
}

// WithTimeout bounds one attempt. Non-positive values disable the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// NewService builds a registration service.
func NewService(store Store, sessions SessionFactory, opts ...Option) *Service {
	s := &Service{
		store:    store,
		sessions: sessions,
		hasher:   user.DefaultHasher(),
		clock:    time.Now,
		tracer:   otel.Tracer(tracerName),
		timeout:  timeouts.RegistrationAction,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Action binds sink into an Action.
func (s *Service) Action(sink SessionSink) Action {
	return func(ctx context.Context, form Form) Status {
		return s.Register(ctx, form, sink)
	}
}

// Register attempts to create an account for form.
//
// Validation runs before any lookup or write, and the existence check runs
// before the account transaction. On success the new session is handed to
// sink. Errors and panics are translated into StatusFailed.
func (s *Service) Register(ctx context.Context, form Form, sink SessionSink) (status Status) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := s.tracerOrDefault().Start(ctx, "registration.Register")
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("registration: recovered panic: %v\n%s", recovered, debug.Stack())
			span.SetStatus(codes.Error, "panic")
			status = StatusFailed
		}
		span.SetAttributes(attribute.String("registration.status", status.String()))
		span.End()
	}()

	if s == nil || s.store == nil || s.sessions == nil {
		log.Printf("registration: service is not configured")
		return StatusFailed
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	input, err := user.NormalizeRegistrationInput(user.RegistrationInput{Email: form.Email, Password: form.Password})
	if err != nil {
		span.SetAttributes(attribute.String("registration.invalid_code", string(apperrors.GetCode(err))))
		return StatusInvalidData
	}

	_, err = s.store.GetUserByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return StatusUserExists
	case !errors.Is(err, storage.ErrNotFound):
		s.fail(span, fmt.Errorf("lookup existing user: %w", err))
		return StatusFailed
	}

	created, err := user.CreateUser(input, s.clock, s.idGenerator, s.hasher)
	if err != nil {
		s.fail(span, fmt.Errorf("create user: %w", err))
		return StatusFailed
	}
	session, err := s.sessions.New(created.ID)
	if err != nil {
		s.fail(span, fmt.Errorf("new web session: %w", err))
		return StatusFailed
	}
	if err := s.store.CreateAccount(ctx, created, session); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return StatusUserExists
		}
		s.fail(span, fmt.Errorf("create account: %w", err))
		return StatusFailed
	}

	span.SetAttributes(attribute.String("user.id", created.ID))
	log.Printf("registration: created user %s", created.ID)
	establish(sink, session)
	return StatusSuccess
}

// establish hands the committed session to sink. The account already exists
// at this point, so a misbehaving sink cannot turn the outcome into a failure.
func establish(sink SessionSink, session storage.WebSession) {
	if sink == nil {
		return
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("registration: session sink panic: %v", recovered)
		}
	}()
	sink.EstablishSession(session)
}

func (s *Service) fail(span trace.Span, err error) {
	log.Printf("registration: %v", err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (s *Service) tracerOrDefault() trace.Tracer {
	if s == nil || s.tracer == nil {
		return otel.Tracer(tracerName)
	}
	return s.tracer
}
