package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/bennettchamberlain/superhot-fab/internal/cart"
)

type Status string

const (
	StatusIdle             Status = "IDLE"
	StatusCreatingSession  Status = "CREATING_SESSION"
	StatusRetrievingSecret Status = "RETRIEVING_SECRET"
	StatusMountingWidget   Status = "MOUNTING_WIDGET"
	StatusMounted          Status = "MOUNTED"
	StatusFailed           Status = "FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusMounted || s == StatusFailed
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

// Widget is a mounted embedded payment surface. Unmount releases it.
type Widget interface {
	Unmount()
}

// WidgetHost owns the mount target for the embedded widget. The target may
// not exist yet when the checkout data arrives; Ready flips once it does.
type WidgetHost interface {
	Ready() bool
	Mount(clientSecret string) (Widget, error)
}

// Orchestrator sequences one checkout attempt: create a provider session
// from a cart snapshot, fetch its client secret, wait for the widget host,
// mount the widget. Steps run strictly in order. Every failure is terminal
// for the attempt; the host wait is the only bounded retry loop, and it is
// a readiness wait, not error recovery. A failed attempt never mutates the
// cart.
type Orchestrator struct {
	api  SessionAPI
	host WidgetHost

	attempts int
	interval time.Duration

	mu      sync.Mutex
	status  Status
	failure string
	widget  Widget
}

func NewOrchestrator(api SessionAPI, host WidgetHost) *Orchestrator {
	return &Orchestrator{
		api:      api,
		host:     host,
		attempts: 30,
		interval: 35 * time.Millisecond,
		status:   StatusIdle,
	}
}

// Run executes the attempt against a point-in-time cart snapshot.
//
// Cancelling ctx discards whatever step is in flight: the attempt stops
// before its next transition, an already mounted widget is unmounted, and
// ctx.Err() is returned. Cancellation is not a Failed state; the shopper
// navigated away or the cart changed, nothing to surface.
func (o *Orchestrator) Run(ctx context.Context, items []cart.CartItem, currency string) error {
	// Release any widget left over from a previous attempt before
	// starting a new one.
	o.unmountWidget()

	if len(items) == 0 {
		return o.fail(ErrEmptyCart)
	}

	o.setStatus(StatusCreatingSession)
	sessionID, err := o.api.CreateSession(ctx, items, currency)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return o.fail(err)
	}

	o.setStatus(StatusRetrievingSecret)
	secret, err := o.api.ClientSecret(ctx, sessionID)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil || secret == "" {
		return o.fail(ErrNoClientSecret)
	}

	o.setStatus(StatusMountingWidget)
	if err := o.awaitHost(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return o.fail(err)
	}

	widget, err := o.host.Mount(secret)
	if err != nil {
		return o.fail(err)
	}
	if ctx.Err() != nil {
		widget.Unmount()
		return ctx.Err()
	}

	o.mu.Lock()
	o.widget = widget
	o.status = StatusMounted
	o.mu.Unlock()
	return nil
}

// awaitHost polls for the mount target across a bounded number of attempts,
// tolerating the race between data-fetch completion and host readiness.
func (o *Orchestrator) awaitHost(ctx context.Context) error {
	for attempt := 0; attempt < o.attempts; attempt++ {
		if o.host.Ready() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.interval):
		}
	}
	return ErrContainerNotFound
}

// Close unmounts the widget if one is mounted. Safe to call more than
// once; the widget instance is unmounted exactly once.
func (o *Orchestrator) Close() {
	o.unmountWidget()
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Failure returns the terminal error message, empty unless status is FAILED.
func (o *Orchestrator) Failure() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failure
}

func (o *Orchestrator) setStatus(status Status) {
	o.mu.Lock()
	o.status = status
	o.mu.Unlock()
}

func (o *Orchestrator) fail(err error) error {
	o.mu.Lock()
	o.status = StatusFailed
	o.failure = err.Error()
	o.mu.Unlock()
	return err
}

func (o *Orchestrator) unmountWidget() {
	o.mu.Lock()
	widget := o.widget
	o.widget = nil
	o.mu.Unlock()
	if widget != nil {
		widget.Unmount()
	}
}
