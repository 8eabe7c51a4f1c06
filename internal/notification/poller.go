// Package notification surfaces reservation-status changes to a logged-in
// customer. There is no timer: the poller reacts to session transitions and
// fetches the backend-computed pending set once per transition.
package notification

import (
	"context"
	"errors"
	"log"
	"sync"

	"vitrine/internal/model"
	"vitrine/internal/session"
)

// API is the slice of the gateway the poller needs.
type API interface {
	PendingNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, reservationID int64) error
}

// Poller holds the currently displayed notification batch.
type Poller struct {
	api API

	mu    sync.Mutex
	batch []model.Notification
}

// NewPoller creates a poller with an empty batch.
func NewPoller(api API) *Poller {
	return &Poller{api: api}
}

// Run consumes session transitions until ctx is done. On every transition
// into (authenticated, CLIENTE), including re-logins, the pending set is
// refetched; any other state clears the batch so no stale view lingers.
func (p *Poller) Run(ctx context.Context, states <-chan session.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if st.IsAuthenticated && st.Role == session.RoleCliente {
				p.refresh(ctx)
			} else {
				p.clear()
			}
		}
	}
}

// Pending returns the batch currently owed to the view.
func (p *Poller) Pending() []model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Notification, len(p.batch))
	copy(out, p.batch)
	return out
}

// AcknowledgeAll marks every notification in the displayed batch as read.
// The acknowledgement is all-or-nothing: one marcar-vista call per
// notification, and the batch is dismissed only after all of them succeed.
// On any failure the batch stays open, with the error, so the user can retry
// the bulk acknowledgement.
func (p *Poller) AcknowledgeAll(ctx context.Context) error {
	p.mu.Lock()
	batch := make([]model.Notification, len(p.batch))
	copy(batch, p.batch)
	p.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	var errs []error
	for _, n := range batch {
		if err := p.api.MarkNotificationRead(ctx, n.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	p.clear()
	return nil
}

func (p *Poller) refresh(ctx context.Context) {
	pending, err := p.api.PendingNotifications(ctx)
	if err != nil {
		log.Printf("Error fetching pending notifications: %v", err)
		return
	}

	p.mu.Lock()
	p.batch = pending
	p.mu.Unlock()
}

func (p *Poller) clear() {
	p.mu.Lock()
	p.batch = nil
	p.mu.Unlock()
}
