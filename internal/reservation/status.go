// Package reservation implements the customer and admin reservation
// workflows: variant/size selection, stock preconditions, creation,
// cancellation and admin status transitions.
package reservation

import "vitrine/internal/model"

// adminTransitions lists every status an admin may move a reservation to.
// Terminal statuses map to an empty slice.
var adminTransitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.StatusAguardandoAprovacao: {
		model.StatusConfirmada,
		model.StatusCanceladaPeloAdmin,
	},
	model.StatusConfirmada: {
		model.StatusRetirado,
		model.StatusNaoCompareceu,
		model.StatusCanceladaPeloAdmin,
	},
	model.StatusCanceladaPeloCliente: {},
	model.StatusCanceladaPeloAdmin:   {},
	model.StatusRetirado:             {},
	model.StatusNaoCompareceu:        {},
}

// AdminActions returns the statuses an admin may transition from the given
// one. Unknown statuses yield no actions.
func AdminActions(from model.ReservationStatus) []model.ReservationStatus {
	actions := adminTransitions[from]
	out := make([]model.ReservationStatus, len(actions))
	copy(out, actions)
	return out
}

// CanTransition reports whether an admin may move a reservation from one
// status to another.
func CanTransition(from, to model.ReservationStatus) bool {
	for _, s := range adminTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanClientCancel reports whether the customer may still cancel: only while
// the reservation awaits approval.
func CanClientCancel(status model.ReservationStatus) bool {
	return status == model.StatusAguardandoAprovacao
}
