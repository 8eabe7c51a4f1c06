package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vitrine/internal/model"
	"vitrine/internal/session"
)

// ErrCancelAborted is returned when the admin declines the cancellation
// reason prompt; no status change is sent in that case.
var ErrCancelAborted = errors.New("cancelamento abortado pelo administrador")

// PreconditionError is a client-side rejection: the action was blocked before
// any request was made and the message belongs inline next to the control.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// API is the slice of the gateway the workflow needs.
type API interface {
	CreateReservation(ctx context.Context, produtoCustomID int64, tamanho string) (*model.Reservation, error)
	CancelReservation(ctx context.Context, reservationID int64) (*model.Reservation, error)
	AdminUpdateReservation(ctx context.Context, reservationID int64, status model.ReservationStatus, observacao string) (*model.Reservation, error)
}

// Sessions exposes the current session state to the workflow.
type Sessions interface {
	Snapshot() session.State
}

// Workflow drives reservation actions. Each action is single-flight per
// entity: while a request for a given entity is on the wire, repeat actions
// on that entity are rejected locally; unrelated entities stay independent.
type Workflow struct {
	api      API
	sessions Sessions

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewWorkflow creates a workflow over the given gateway and session source.
func NewWorkflow(api API, sessions Sessions) *Workflow {
	return &Workflow{
		api:      api,
		sessions: sessions,
		inFlight: make(map[string]bool),
	}
}

// Reserve creates a reservation for the selected variant+size. Preconditions
// are checked before any network call: the user must be authenticated, a size
// must be selected and the selected size must have stock.
func (w *Workflow) Reserve(ctx context.Context, sel Selection) (*model.Reservation, error) {
	if !w.sessions.Snapshot().IsAuthenticated {
		return nil, &PreconditionError{Message: "Faça login para reservar um produto."}
	}
	if sel.Customization == nil || sel.Tamanho == "" {
		return nil, &PreconditionError{Message: "Selecione um tamanho para reservar."}
	}
	entry, ok := sel.Stock()
	if !ok || entry.Quantidade <= 0 {
		return nil, &PreconditionError{Message: "Tamanho selecionado sem estoque disponível."}
	}

	key := fmt.Sprintf("reserva:%d:%s", sel.Customization.ID, sel.Tamanho)
	if !w.acquire(key) {
		return nil, &PreconditionError{Message: "Reserva já em andamento para este item."}
	}
	defer w.release(key)

	return w.api.CreateReservation(ctx, sel.Customization.ID, sel.Tamanho)
}

// CancelMine cancels one of the customer's own reservations. Only a
// reservation still awaiting approval can be cancelled by its owner.
func (w *Workflow) CancelMine(ctx context.Context, r *model.Reservation) (*model.Reservation, error) {
	if !CanClientCancel(r.Status) {
		return nil, &PreconditionError{Message: "Esta reserva não pode mais ser cancelada."}
	}

	key := fmt.Sprintf("cancelar:%d", r.ID)
	if !w.acquire(key) {
		return nil, &PreconditionError{Message: "Cancelamento já em andamento."}
	}
	defer w.release(key)

	return w.api.CancelReservation(ctx, r.ID)
}

// PromptFunc supplies the optional admin cancellation reason. Returning nil
// means the prompt was dismissed and the whole transition must be aborted.
type PromptFunc func() *string

// AdminUpdate transitions a reservation to newStatus. Transitions outside
// the state machine are rejected locally. Moving to CANCELADA_PELO_ADMIN asks
// prompt for a reason; a dismissed prompt aborts with ErrCancelAborted and
// nothing is sent.
func (w *Workflow) AdminUpdate(ctx context.Context, r *model.Reservation, newStatus model.ReservationStatus, prompt PromptFunc) (*model.Reservation, error) {
	if !CanTransition(r.Status, newStatus) {
		return nil, &PreconditionError{
			Message: fmt.Sprintf("Transição de %s para %s não é permitida.", r.Status, newStatus),
		}
	}

	observacao := r.ObservacaoAdmin
	if newStatus == model.StatusCanceladaPeloAdmin {
		if prompt == nil {
			return nil, ErrCancelAborted
		}
		reason := prompt()
		if reason == nil {
			return nil, ErrCancelAborted
		}
		observacao = *reason
	}

	key := fmt.Sprintf("admin:%d", r.ID)
	if !w.acquire(key) {
		return nil, &PreconditionError{Message: "Atualização já em andamento para esta reserva."}
	}
	defer w.release(key)

	return w.api.AdminUpdateReservation(ctx, r.ID, newStatus, observacao)
}

// SaveObservation rewrites the admin note alone, re-sending the current
// status unchanged.
func (w *Workflow) SaveObservation(ctx context.Context, r *model.Reservation, observacao string) (*model.Reservation, error) {
	key := fmt.Sprintf("admin:%d", r.ID)
	if !w.acquire(key) {
		return nil, &PreconditionError{Message: "Atualização já em andamento para esta reserva."}
	}
	defer w.release(key)

	return w.api.AdminUpdateReservation(ctx, r.ID, r.Status, observacao)
}

func (w *Workflow) acquire(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[key] {
		return false
	}
	w.inFlight[key] = true
	return true
}

func (w *Workflow) release(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, key)
}
