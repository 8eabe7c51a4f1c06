package model

import "time"

// ReservationStatus enumerates the lifecycle of a reservation. A reservation
// is never deleted, only transitioned; the allowed transitions live in the
// reservation package.
type ReservationStatus string

const (
	StatusAguardandoAprovacao  ReservationStatus = "AGUARDANDO_APROVACAO"
	StatusConfirmada           ReservationStatus = "CONFIRMADA"
	StatusCanceladaPeloCliente ReservationStatus = "CANCELADA_PELO_CLIENTE"
	StatusCanceladaPeloAdmin   ReservationStatus = "CANCELADA_PELO_ADMIN"
	StatusRetirado             ReservationStatus = "RETIRADO"
	StatusNaoCompareceu        ReservationStatus = "NAO_COMPARECEU"
)

// Reservation is a customer's claim on one unit of a specific size within a
// customization, pending store fulfillment.
type Reservation struct {
	ID              int64             `json:"id"`
	ProdutoCustomID int64             `json:"produtoCustomId"`
	NomeProduto     string            `json:"nomeProduto,omitempty"`
	NomeCliente     string            `json:"nomeCliente,omitempty"`
	ImagemURL       string            `json:"imagemUrl,omitempty"`
	Tamanho         string            `json:"tamanho"`
	Status          ReservationStatus `json:"status"`
	DataReserva     time.Time         `json:"dataReserva"`
	ObservacaoAdmin string            `json:"observacaoAdmin,omitempty"`
}

// Notification is a reservation whose status changed and has not yet been
// acknowledged by the customer. It is a backend-computed view, never stored
// locally; acknowledging removes it from the pending set.
type Notification struct {
	ID              int64             `json:"id"`
	NomeProduto     string            `json:"nomeProduto,omitempty"`
	Tamanho         string            `json:"tamanho,omitempty"`
	Status          ReservationStatus `json:"status"`
	ObservacaoAdmin string            `json:"observacaoAdmin,omitempty"`
}
