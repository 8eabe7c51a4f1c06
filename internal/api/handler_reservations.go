package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitrine/internal/model"
	"vitrine/internal/reservation"
)

type createReservationRequest struct {
	ProdutoID int64  `json:"produtoId" binding:"required"`
	CustomID  int64  `json:"produtoCustomId"`
	Tamanho   string `json:"tamanho"`
}

// CreateReservation reserves one unit of a variant+size. The product detail
// is refetched so stock preconditions are checked against current data, not
// whatever the view last rendered.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "informe o produto e o tamanho"})
		return
	}

	ctx := c.Request.Context()
	product, err := h.gw.ProductDetail(ctx, req.ProdutoID)
	if err != nil {
		renderError(c, err)
		return
	}

	sel := reservation.DefaultSelection(product)
	if req.CustomID != 0 {
		sel.Customization = nil
		for i := range product.Customizations {
			if product.Customizations[i].ID == req.CustomID {
				sel.Customization = &product.Customizations[i]
				break
			}
		}
		if sel.Customization == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("variação %d não encontrada", req.CustomID)})
			return
		}
	}
	if req.Tamanho != "" {
		sel = sel.WithTamanho(req.Tamanho)
	}

	created, err := h.reservations.Reserve(ctx, sel)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// MyReservations lists the customer's reservations with resolved image URLs.
func (h *Handler) MyReservations(c *gin.Context) {
	list, err := h.gw.MyReservations(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	for i := range list {
		list[i].ImagemURL = h.gw.ImageURL(list[i].ImagemURL)
	}
	if list == nil {
		list = []model.Reservation{}
	}
	c.JSON(http.StatusOK, list)
}

// CancelReservation cancels one of the customer's reservations after
// re-reading its current status.
func (h *Handler) CancelReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id de reserva inválido"})
		return
	}

	ctx := c.Request.Context()
	list, err := h.gw.MyReservations(ctx)
	if err != nil {
		renderError(c, err)
		return
	}

	var target *model.Reservation
	for i := range list {
		if list[i].ID == id {
			target = &list[i]
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "reserva não encontrada"})
		return
	}

	cancelled, err := h.reservations.CancelMine(ctx, target)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// GetNotifications returns the pending notification batch for the logged-in
// customer.
func (h *Handler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notificacoes": h.notifications.Pending()})
}

// AcknowledgeNotifications marks the displayed batch as read, all or nothing:
// if any call fails the batch stays pending and the view keeps it open.
func (h *Handler) AcknowledgeNotifications(c *gin.Context) {
	if err := h.notifications.AcknowledgeAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"message":      "Erro ao marcar notificações como lidas. Tente novamente.",
			"notificacoes": h.notifications.Pending(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}
