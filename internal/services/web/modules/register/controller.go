package register

import (
	"context"
	"log"
	"runtime/debug"
	"sync"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
)

// State is the latest applied registration outcome.
//
// Revision increases by one on every applied outcome, so two consecutive
// outcomes with the same Status are still distinguishable.
type State struct {
	Status   registration.Status
	Revision uint64
}

// Observer is notified once per applied State.
type Observer interface {
	Observe(state State)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(state State)

// Observe implements Observer.
func (f ObserverFunc) Observe(state State) {
	if f != nil {
		f(state)
	}
}

type subscription struct {
	id       uint64
	observer Observer
}

// Controller runs registration submissions against an action.
//
// Each Submit runs on its own goroutine. Submissions are numbered in call
// order and a completed outcome is applied only when no later submission has
// been applied already, so the visible state always belongs to the most
// recent submission that has finished.
type Controller struct {
	action registration.Action

	mu         sync.Mutex
	state      State
	email      string
	successful bool
	issued     uint64
	applied    uint64
	observers  []subscription
	nextID     uint64

	// inflight counts started submissions not yet applied or dropped.
	// settled is signalled under mu whenever it drops to zero.
	inflight int
	settled  *sync.Cond

	// delivery serializes observer notification in application order.
	delivery sync.Mutex
}

// NewController builds an idle controller for action.
func NewController(action registration.Action) *Controller {
	c := &Controller{
		action: action,
		state:  State{Status: registration.StatusIdle},
	}
	c.settled = sync.NewCond(&c.mu)
	return c
}

// Submit records the submitted email and starts the action.
// It returns immediately; use Wait or an Observer to learn the outcome.
func (c *Controller) Submit(ctx context.Context, form registration.Form) {
	if ctx == nil {
		ctx = context.Background()
	}
	// In-flight actions are never cancelled by the caller going away.
	ctx = context.WithoutCancel(ctx)

	c.mu.Lock()
	c.email = form.Email
	c.issued++
	seq := c.issued
	c.inflight++
	c.mu.Unlock()

	go func() {
		defer c.done()
		c.apply(seq, c.run(ctx, form))
	}()
}

func (c *Controller) run(ctx context.Context, form registration.Form) (status registration.Status) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("register: action panic: %v\n%s", recovered, debug.Stack())
			status = registration.StatusFailed
		}
	}()
	if c.action == nil {
		return registration.StatusFailed
	}
	status = c.action(ctx, form)
	if !status.Valid() {
		log.Printf("register: action returned %v", status)
		return registration.StatusFailed
	}
	return status
}

func (c *Controller) apply(seq uint64, status registration.Status) {
	c.delivery.Lock()
	defer c.delivery.Unlock()

	c.mu.Lock()
	if seq < c.applied {
		c.mu.Unlock()
		log.Printf("register: dropped %s from superseded submission %d", status, seq)
		return
	}
	c.applied = seq
	c.state = State{Status: status, Revision: c.state.Revision + 1}
	state := c.state
	observers := append([]subscription(nil), c.observers...)
	c.mu.Unlock()

	for _, sub := range observers {
		sub.observer.Observe(state)
	}
}

// Subscribe registers observer for every later applied State.
// The returned function removes it.
func (c *Controller) Subscribe(observer Observer) (cancel func()) {
	if observer == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, subscription{id: id, observer: observer})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, sub := range c.observers {
				if sub.id == id {
					c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *Controller) done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.inflight == 0 {
		c.settled.Broadcast()
	}
}

// Wait blocks until no submission is in flight, including observer delivery.
// It may run concurrently with Submit; it then returns at the first moment
// nothing is in flight, which can precede a Submit racing with it.
//
// Wait must not be called from an Observer: the delivering submission is
// still in flight until its observers return, so Wait would block forever.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.inflight > 0 {
		c.settled.Wait()
	}
}

// State returns the latest applied state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Email returns the email of the most recent submission.
func (c *Controller) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

// Successful reports whether a registration has succeeded.
func (c *Controller) Successful() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successful
}

// MarkSuccessful sets the success flag. The flag is never cleared.
func (c *Controller) MarkSuccessful() {
	c.mu.Lock()
	c.successful = true
	c.mu.Unlock()
}
