package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitrine/internal/catalog"
	"vitrine/internal/gateway"
	"vitrine/internal/model"
	"vitrine/internal/notification"
	"vitrine/internal/reservation"
	"vitrine/internal/session"
	"vitrine/internal/store"
)

// Handler holds the core components the view layer renders from.
type Handler struct {
	sessions         *session.Manager
	state            store.Store
	gw               *gateway.Client
	products         *catalog.Controller[model.Product]
	manageProducts   *catalog.Controller[model.Product]
	manageCategories *catalog.Controller[model.Category]
	reservations     *reservation.Workflow
	notifications    *notification.Poller
}

// NewHandler wires the view layer to the core.
func NewHandler(
	sessions *session.Manager,
	state store.Store,
	gw *gateway.Client,
	products *catalog.Controller[model.Product],
	manageProducts *catalog.Controller[model.Product],
	manageCategories *catalog.Controller[model.Category],
	reservations *reservation.Workflow,
	notifications *notification.Poller,
) *Handler {
	return &Handler{
		sessions:         sessions,
		state:            state,
		gw:               gw,
		products:         products,
		manageProducts:   manageProducts,
		manageCategories: manageCategories,
		reservations:     reservations,
		notifications:    notifications,
	}
}

// renderError maps core failures onto the view contract. Backend failures
// keep their status; client-side precondition rejections are 422 so the UI
// shows them inline; an aborted admin cancellation is a no-op conflict.
func renderError(c *gin.Context, err error) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"message": apiErr.Message})
		return
	}

	var pre *reservation.PreconditionError
	if errors.As(err, &pre) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": pre.Message})
		return
	}

	if errors.Is(err, reservation.ErrCancelAborted) {
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
}

// listingResponse is the wire form of a controller snapshot.
type listingResponse[T any] struct {
	Filters  catalog.FilterState `json:"filtros"`
	Loading  bool                `json:"carregando"`
	Content  []T                 `json:"content"`
	Page     int                 `json:"number"`
	Pages    int                 `json:"totalPages"`
	First    bool                `json:"first"`
	Last     bool                `json:"last"`
	ErrorMsg string              `json:"erro,omitempty"`
}

func renderListing[T any](c *gin.Context, snap catalog.Snapshot[T]) {
	resp := listingResponse[T]{
		Filters: snap.Filters,
		Loading: snap.Loading,
		Content: snap.Result.Content,
		Page:    snap.Result.CurrentPage,
		Pages:   snap.Result.TotalPages,
		First:   snap.Result.IsFirst,
		Last:    snap.Result.IsLast,
	}
	if resp.Content == nil {
		resp.Content = []T{}
	}
	if snap.Err != nil {
		resp.ErrorMsg = snap.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// filterUpdate carries filter edits from the view. Only present fields are
// applied, so a page turn does not disturb the other filters.
type filterUpdate struct {
	Nome        *string `json:"nome"`
	Descricao   *string `json:"descricao"`
	CategoriaID *string `json:"categoriaId"`
	Tamanho     *string `json:"tamanho"`
	Situacao    *string `json:"situacao"`
	Page        *int    `json:"page"`
}

func applyFilterUpdate[T any](ctrl *catalog.Controller[T], upd filterUpdate) {
	if upd.Nome != nil {
		ctrl.SetNome(*upd.Nome)
	}
	if upd.Descricao != nil {
		ctrl.SetDescricao(*upd.Descricao)
	}
	if upd.CategoriaID != nil {
		ctrl.SetCategoriaID(*upd.CategoriaID)
	}
	if upd.Tamanho != nil {
		ctrl.SetTamanho(*upd.Tamanho)
	}
	if upd.Situacao != nil {
		ctrl.SetSituacao(*upd.Situacao)
	}
	if upd.Page != nil {
		ctrl.SetPage(*upd.Page)
	}
}
