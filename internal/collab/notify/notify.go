// Package notify delivers invitation emails outside the request path.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/collab/pkg/slogx"
)

// Invite is everything a sink needs to tell someone they were invited.
type Invite struct {
	Recipient   string
	ProjectName string
	Inviter     string
	JoinLink    string
	ExpiresAt   time.Time
}

// Sink sends one invitation. Implementations may block on the network.
type Sink interface {
	SendInvite(ctx context.Context, inv Invite) error
}

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 10 * time.Second

// Dispatcher runs sink deliveries on their own goroutines. A failed
// delivery is logged and otherwise ignored; the invitation itself is already
// committed and its link was returned to the caller.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(sink Sink, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{sink: sink, timeout: timeout}
}

// Dispatch returns immediately. The delivery keeps the request's logger but
// not its cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invite) {
	log := slogx.FromContext(ctx)
	ctx = slogx.WithContext(context.WithoutCancel(ctx), log)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		if err := d.sink.SendInvite(ctx, inv); err != nil {
			log.Warn("invite notification failed",
				slog.String("project", inv.ProjectName),
				slog.Any("err", err),
			)
			return
		}
		log.Debug("invite notification sent", slog.String("project", inv.ProjectName))
	}()
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
