package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitrine/internal/gateway"
	"vitrine/internal/model"
	"vitrine/internal/reservation"
)

// GetManageProducts renders the admin product listing snapshot.
func (h *Handler) GetManageProducts(c *gin.Context) {
	renderListing(c, h.manageProducts.Snapshot())
}

// SetManageProductFilters applies filter edits to the admin product listing.
func (h *Handler) SetManageProductFilters(c *gin.Context) {
	var upd filterUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "filtros inválidos"})
		return
	}
	applyFilterUpdate(h.manageProducts, upd)
	renderListing(c, h.manageProducts.Snapshot())
}

// customizationInput is one variant in an incoming product submission. Stock
// maps size labels to quantities; the variant image arrives as a separate
// file field keyed by the variant index.
type customizationInput struct {
	Cores   []string       `json:"cores"`
	Estoque map[string]int `json:"estoque"`
}

// parseProductForm reads a product multipart submission from the admin form.
// The "customizacoes" field carries the variant array as JSON; each variant's
// image file, if present, is named imagem_<index>.
func parseProductForm(c *gin.Context) (gateway.ProductForm, error) {
	var form gateway.ProductForm

	form.Nome = c.PostForm("nome")
	form.Descricao = c.PostForm("descricao")

	if raw := c.PostForm("preco"); raw != "" {
		preco, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return form, fmt.Errorf("invalid preco %q: %w", raw, err)
		}
		form.Preco = preco
	}
	if raw := c.PostForm("categoriaId"); raw != "" {
		categoriaID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return form, fmt.Errorf("invalid categoriaId %q: %w", raw, err)
		}
		form.CategoriaID = categoriaID
	}

	var variants []customizationInput
	if raw := c.PostForm("customizacoes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &variants); err != nil {
			return form, fmt.Errorf("invalid customizacoes field: %w", err)
		}
	}

	for i, v := range variants {
		cust := gateway.CustomizationForm{Cores: v.Cores, Estoque: v.Estoque}
		file, err := c.FormFile(fmt.Sprintf("imagem_%d", i))
		if err == nil {
			part, err := readUpload(file)
			if err != nil {
				return form, err
			}
			cust.Imagem = part
		}
		form.Customizations = append(form.Customizations, cust)
	}
	return form, nil
}

func readUpload(file *multipart.FileHeader) (*gateway.FilePart, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %q: %w", file.Filename, err)
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %q: %w", file.Filename, err)
	}
	return &gateway.FilePart{Filename: file.Filename, Content: content}, nil
}

// CreateProduct forwards a new product submission and refreshes the admin
// listing so the new row appears.
func (h *Handler) CreateProduct(c *gin.Context) {
	form, err := parseProductForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := h.gw.CreateProduct(c.Request.Context(), form); err != nil {
		renderError(c, err)
		return
	}
	h.manageProducts.Refresh()
	c.Status(http.StatusCreated)
}

// UpdateProduct forwards product changes and refreshes the admin listing.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id de produto inválido"})
		return
	}
	form, err := parseProductForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := h.gw.UpdateProduct(c.Request.Context(), id, form); err != nil {
		renderError(c, err)
		return
	}
	h.manageProducts.Refresh()
	c.Status(http.StatusNoContent)
}

// ActivateProduct marks a product ATIVO and refreshes the admin listing.
func (h *Handler) ActivateProduct(c *gin.Context) {
	h.toggleProduct(c, h.gw.ActivateProduct)
}

// DeactivateProduct marks a product INATIVO and refreshes the admin listing.
func (h *Handler) DeactivateProduct(c *gin.Context) {
	h.toggleProduct(c, h.gw.DeactivateProduct)
}

func (h *Handler) toggleProduct(c *gin.Context, toggle func(context.Context, int64) error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id de produto inválido"})
		return
	}
	if err := toggle(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	h.manageProducts.Refresh()
	c.Status(http.StatusNoContent)
}

// GetManageCategories renders the admin category listing snapshot.
func (h *Handler) GetManageCategories(c *gin.Context) {
	renderListing(c, h.manageCategories.Snapshot())
}

// SetManageCategoryFilters applies filter edits to the admin category
// listing.
func (h *Handler) SetManageCategoryFilters(c *gin.Context) {
	var upd filterUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "filtros inválidos"})
		return
	}
	applyFilterUpdate(h.manageCategories, upd)
	renderListing(c, h.manageCategories.Snapshot())
}

// GetManageCategoryOptions returns every category, any situação, for the
// admin product form select.
func (h *Handler) GetManageCategoryOptions(c *gin.Context) {
	options, err := h.gw.ManageCategoriesForSelect(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	if options == nil {
		options = []model.SelectOption{}
	}
	c.JSON(http.StatusOK, options)
}

// GetCategoryDetail fetches one category for the edit form.
func (h *Handler) GetCategoryDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id de categoria inválido"})
		return
	}
	category, err := h.gw.CategoryDetail(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	category.ImagemPath = h.gw.ImageURL(category.ImagemPath)
	c.JSON(http.StatusOK, category)
}

func parseCategoryForm(c *gin.Context) (gateway.CategoryForm, error) {
	form := gateway.CategoryForm{Nome: c.PostForm("nome")}
	file, err := c.FormFile("imagem")
	if err == nil {
		part, err := readUpload(file)
		if err != nil {
			return form, err
		}
		form.Imagem = part
	}
	return form, nil
}

// CreateCategory forwards a new category submission and refreshes the admin
// listing.
func (h *Handler) CreateCategory(c *gin.Context) {
	form, err := parseCategoryForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	created, err := h.gw.CreateCategory(c.Request.Context(), form)
	if err != nil {
		renderError(c, err)
		return
	}
	h.manageCategories.Refresh()
	c.JSON(http.StatusCreated, created)
}

// UpdateCategory forwards category changes and refreshes the admin listing.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id de categoria inválido"})
		return
	}
	form, err := parseCategoryForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	updated, err := h.gw.UpdateCategory(c.Request.Context(), id, form)
	if err != nil {
		renderError(c, err)
		return
	}
	h.manageCategories.Refresh()
	c.JSON(http.StatusOK, updated)
}

// ActivateCategory marks a category ATIVO and refreshes the admin listing.
func (h *Handler) ActivateCategory(c *gin.Context) {
	h.toggleCategory(c, h.gw.ActivateCategory)
}

// DeactivateCategory marks a category INATIVO and refreshes the admin
// listing.
func (h *Handler) DeactivateCategory(c *gin.Context) {
	h.toggleCategory(c, h.gw.DeactivateCategory)
}

func (h *Handler) toggleCategory(c *gin.Context, toggle func(context.Context, int64) error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id de categoria inválido"})
		return
	}
	if err := toggle(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	h.manageCategories.Refresh()
	c.Status(http.StatusNoContent)
}

// adminReservationRow pairs a reservation with the transitions the state
// machine allows from its current status.
type adminReservationRow struct {
	model.Reservation
	AcoesPermitidas []model.ReservationStatus `json:"acoesPermitidas"`
}

// AdminReservations lists every reservation with the actions available on
// each row.
func (h *Handler) AdminReservations(c *gin.Context) {
	list, err := h.gw.AdminReservations(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	rows := make([]adminReservationRow, 0, len(list))
	for i := range list {
		list[i].ImagemURL = h.gw.ImageURL(list[i].ImagemURL)
		rows = append(rows, adminReservationRow{
			Reservation:     list[i],
			AcoesPermitidas: reservation.AdminActions(list[i].Status),
		})
	}
	c.JSON(http.StatusOK, rows)
}

type adminUpdateRequest struct {
	Status          model.ReservationStatus `json:"status" binding:"required"`
	ObservacaoAdmin *string                 `json:"observacaoAdmin"`
	Motivo          *string                 `json:"motivo"`
}

// AdminUpdateReservation handles the admin row actions. Sending the current
// status with an observacaoAdmin rewrites the note alone; sending
// CANCELADA_PELO_ADMIN requires motivo, and a missing motivo aborts the whole
// transition.
func (h *Handler) AdminUpdateReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id de reserva inválido"})
		return
	}
	var req adminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "informe o status desejado"})
		return
	}

	ctx := c.Request.Context()
	list, err := h.gw.AdminReservations(ctx)
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

	var updated *model.Reservation
	if req.Status == target.Status && req.ObservacaoAdmin != nil {
		updated, err = h.reservations.SaveObservation(ctx, target, *req.ObservacaoAdmin)
	} else {
		var prompt reservation.PromptFunc
		if req.Motivo != nil {
			motivo := *req.Motivo
			prompt = func() *string { return &motivo }
		}
		updated, err = h.reservations.AdminUpdate(ctx, target, req.Status, prompt)
	}
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
