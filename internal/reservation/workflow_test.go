package reservation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/model"
	"vitrine/internal/session"
)

// mockAPI is a mock implementation of the API interface.
type mockAPI struct {
	CreateReservationFunc      func(ctx context.Context, produtoCustomID int64, tamanho string) (*model.Reservation, error)
	CancelReservationFunc      func(ctx context.Context, reservationID int64) (*model.Reservation, error)
	AdminUpdateReservationFunc func(ctx context.Context, reservationID int64, status model.ReservationStatus, observacao string) (*model.Reservation, error)

	calls atomic.Int32
}

func (m *mockAPI) CreateReservation(ctx context.Context, produtoCustomID int64, tamanho string) (*model.Reservation, error) {
	m.calls.Add(1)
	return m.CreateReservationFunc(ctx, produtoCustomID, tamanho)
}

func (m *mockAPI) CancelReservation(ctx context.Context, reservationID int64) (*model.Reservation, error) {
	m.calls.Add(1)
	return m.CancelReservationFunc(ctx, reservationID)
}

func (m *mockAPI) AdminUpdateReservation(ctx context.Context, reservationID int64, status model.ReservationStatus, observacao string) (*model.Reservation, error) {
	m.calls.Add(1)
	return m.AdminUpdateReservationFunc(ctx, reservationID, status, observacao)
}

// fixedSession always reports the same session state.
type fixedSession struct {
	state session.State
}

func (f *fixedSession) Snapshot() session.State {
	return f.state
}

func loggedIn() *fixedSession {
	return &fixedSession{state: session.State{IsAuthenticated: true, Role: session.RoleCliente}}
}

func sellableSelection() Selection {
	return DefaultSelection(productWithStock(model.StockEntry{Tamanho: "M", Quantidade: 3}))
}

func TestWorkflow_Reserve_Preconditions(t *testing.T) {
	api := &mockAPI{}

	t.Run("requires authentication", func(t *testing.T) {
		w := NewWorkflow(api, &fixedSession{})
		_, err := w.Reserve(context.Background(), sellableSelection())

		var pre *PreconditionError
		require.ErrorAs(t, err, &pre)
		assert.Equal(t, "Faça login para reservar um produto.", pre.Message)
	})

	t.Run("requires a selected size", func(t *testing.T) {
		w := NewWorkflow(api, loggedIn())
		sel := sellableSelection().WithTamanho("")
		_, err := w.Reserve(context.Background(), sel)

		var pre *PreconditionError
		require.ErrorAs(t, err, &pre)
		assert.Equal(t, "Selecione um tamanho para reservar.", pre.Message)
	})

	t.Run("requires stock in the selected size", func(t *testing.T) {
		w := NewWorkflow(api, loggedIn())
		sel := DefaultSelection(productWithStock(
			model.StockEntry{Tamanho: "M", Quantidade: 1},
			model.StockEntry{Tamanho: "G", Quantidade: 0},
		)).WithTamanho("G")
		_, err := w.Reserve(context.Background(), sel)

		var pre *PreconditionError
		require.ErrorAs(t, err, &pre)
		assert.Equal(t, "Tamanho selecionado sem estoque disponível.", pre.Message)
	})

	assert.Zero(t, api.calls.Load(), "precondition failures must never reach the backend")
}

func TestWorkflow_Reserve(t *testing.T) {
	var gotCustomID int64
	var gotTamanho string
	api := &mockAPI{
		CreateReservationFunc: func(ctx context.Context, produtoCustomID int64, tamanho string) (*model.Reservation, error) {
			gotCustomID = produtoCustomID
			gotTamanho = tamanho
			return &model.Reservation{ID: 55, Status: model.StatusAguardandoAprovacao}, nil
		},
	}
	w := NewWorkflow(api, loggedIn())

	created, err := w.Reserve(context.Background(), sellableSelection())
	require.NoError(t, err)
	assert.Equal(t, int64(55), created.ID)
	assert.Equal(t, int64(10), gotCustomID)
	assert.Equal(t, "M", gotTamanho)
}

func TestWorkflow_Reserve_SingleFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var enteredOnce sync.Once
	api := &mockAPI{
		CreateReservationFunc: func(ctx context.Context, produtoCustomID int64, tamanho string) (*model.Reservation, error) {
			enteredOnce.Do(func() { close(entered) })
			<-release
			return &model.Reservation{ID: 1}, nil
		},
	}
	w := NewWorkflow(api, loggedIn())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := w.Reserve(context.Background(), sellableSelection())
		assert.NoError(t, err)
	}()
	<-entered

	// Same variant+size while the first request is on the wire: rejected
	// locally.
	_, err := w.Reserve(context.Background(), sellableSelection())
	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, int32(1), api.calls.Load())

	close(release)
	wg.Wait()

	// After the first completes the key is free again.
	_, err = w.Reserve(context.Background(), sellableSelection())
	assert.NoError(t, err)
}

func TestWorkflow_CancelMine(t *testing.T) {
	api := &mockAPI{
		CancelReservationFunc: func(ctx context.Context, reservationID int64) (*model.Reservation, error) {
			return &model.Reservation{ID: reservationID, Status: model.StatusCanceladaPeloCliente}, nil
		},
	}
	w := NewWorkflow(api, loggedIn())

	t.Run("pending reservation cancels", func(t *testing.T) {
		out, err := w.CancelMine(context.Background(), &model.Reservation{ID: 9, Status: model.StatusAguardandoAprovacao})
		require.NoError(t, err)
		assert.Equal(t, model.StatusCanceladaPeloCliente, out.Status)
	})

	t.Run("confirmed reservation is rejected locally", func(t *testing.T) {
		before := api.calls.Load()
		_, err := w.CancelMine(context.Background(), &model.Reservation{ID: 9, Status: model.StatusConfirmada})

		var pre *PreconditionError
		require.ErrorAs(t, err, &pre)
		assert.Equal(t, before, api.calls.Load())
	})
}

func TestWorkflow_AdminUpdate(t *testing.T) {
	var gotStatus model.ReservationStatus
	var gotObservacao string
	api := &mockAPI{
		AdminUpdateReservationFunc: func(ctx context.Context, reservationID int64, status model.ReservationStatus, observacao string) (*model.Reservation, error) {
			gotStatus = status
			gotObservacao = observacao
			return &model.Reservation{ID: reservationID, Status: status, ObservacaoAdmin: observacao}, nil
		},
	}
	w := NewWorkflow(api, loggedIn())
	pending := &model.Reservation{ID: 4, Status: model.StatusAguardandoAprovacao, ObservacaoAdmin: "nota antiga"}

	t.Run("invalid transition is rejected locally", func(t *testing.T) {
		before := api.calls.Load()
		_, err := w.AdminUpdate(context.Background(), pending, model.StatusRetirado, nil)

		var pre *PreconditionError
		require.ErrorAs(t, err, &pre)
		assert.Equal(t, before, api.calls.Load())
	})

	t.Run("confirmation keeps the existing note", func(t *testing.T) {
		out, err := w.AdminUpdate(context.Background(), pending, model.StatusConfirmada, nil)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmada, out.Status)
		assert.Equal(t, "nota antiga", gotObservacao)
	})

	t.Run("admin cancellation records the prompted reason", func(t *testing.T) {
		reason := "Cliente solicitou por telefone"
		prompt := func() *string { return &reason }

		out, err := w.AdminUpdate(context.Background(), pending, model.StatusCanceladaPeloAdmin, prompt)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCanceladaPeloAdmin, gotStatus)
		assert.Equal(t, reason, out.ObservacaoAdmin)
	})

	t.Run("dismissed prompt aborts without any request", func(t *testing.T) {
		before := api.calls.Load()
		_, err := w.AdminUpdate(context.Background(), pending, model.StatusCanceladaPeloAdmin, func() *string { return nil })
		assert.ErrorIs(t, err, ErrCancelAborted)
		assert.Equal(t, before, api.calls.Load())
	})
}

func TestWorkflow_SaveObservation(t *testing.T) {
	var gotStatus model.ReservationStatus
	api := &mockAPI{
		AdminUpdateReservationFunc: func(ctx context.Context, reservationID int64, status model.ReservationStatus, observacao string) (*model.Reservation, error) {
			gotStatus = status
			return &model.Reservation{ID: reservationID, Status: status, ObservacaoAdmin: observacao}, nil
		},
	}
	w := NewWorkflow(api, loggedIn())

	out, err := w.SaveObservation(context.Background(), &model.Reservation{ID: 3, Status: model.StatusConfirmada}, "separar na loja 2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmada, gotStatus, "saving a note must not move the status")
	assert.Equal(t, "separar na loja 2", out.ObservacaoAdmin)
}
