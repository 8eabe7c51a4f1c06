package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vitrine/internal/model"
)

// ProductQuery maps the listing filter fields to query parameters. Empty
// string fields are omitted from the request.
type ProductQuery struct {
	Nome        string
	Descricao   string
	CategoriaID string
	Tamanho     string
	Situacao    string
	Page        int
	Size        int
}

func (q ProductQuery) values() url.Values {
	params := url.Values{}
	if q.CategoriaID != "" {
		params.Set("categoriaId", q.CategoriaID)
	}
	if q.Tamanho != "" {
		params.Set("tamanho", q.Tamanho)
	}
	if q.Nome != "" {
		params.Set("nome", q.Nome)
	}
	if q.Descricao != "" {
		params.Set("descricao", q.Descricao)
	}
	if q.Situacao != "" {
		params.Set("situacao", q.Situacao)
	}
	params.Set("page", strconv.Itoa(q.Page))
	size := q.Size
	if size <= 0 {
		size = 10
	}
	params.Set("size", strconv.Itoa(size))
	return params
}

// CategoryQuery maps the admin category filter fields to query parameters.
type CategoryQuery struct {
	Nome     string
	Situacao string
	Page     int
	Size     int
}

func (q CategoryQuery) values() url.Values {
	params := url.Values{}
	if q.Nome != "" {
		params.Set("nome", q.Nome)
	}
	if q.Situacao != "" {
		params.Set("situacao", q.Situacao)
	}
	params.Set("page", strconv.Itoa(q.Page))
	size := q.Size
	if size <= 0 {
		size = 10
	}
	params.Set("size", strconv.Itoa(size))
	return params
}

// CategoriesWithProducts fetches the home page data: active categories with
// their products.
func (c *Client) CategoriesWithProducts(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := c.doJSON(ctx, http.MethodGet, "/api/categoria", nil, nil, false, &out)
	return out, err
}

// ProductDetail fetches a single product with its customizations and stock.
func (c *Client) ProductDetail(ctx context.Context, productID int64) (*model.Product, error) {
	var out model.Product
	path := fmt.Sprintf("/api/produto/%d/detalhar", productID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoriesForSelect fetches active categories formatted for filter selects.
func (c *Client) CategoriesForSelect(ctx context.Context) ([]model.SelectOption, error) {
	var out []model.SelectOption
	err := c.doJSON(ctx, http.MethodGet, "/api/categoria/select-response", nil, nil, false, &out)
	return out, err
}

// ManageCategoriesForSelect fetches all categories (any situação) for the
// admin filter select.
func (c *Client) ManageCategoriesForSelect(ctx context.Context) ([]model.SelectOption, error) {
	var out []model.SelectOption
	err := c.doJSON(ctx, http.MethodGet, "/api/categoria/gerenciar/select-response", nil, nil, true, &out)
	return out, err
}

// FilteredProducts fetches the customer-facing paginated product listing.
func (c *Client) FilteredProducts(ctx context.Context, q ProductQuery) (model.Page[model.Product], error) {
	var out model.Page[model.Product]
	err := c.doJSON(ctx, http.MethodGet, "/api/produto", q.values(), nil, false, &out)
	return out, err
}

// ManageProducts fetches the admin product listing, which also filters by
// situação.
func (c *Client) ManageProducts(ctx context.Context, q ProductQuery) (model.Page[model.Product], error) {
	var out model.Page[model.Product]
	err := c.doJSON(ctx, http.MethodGet, "/api/produto/gerenciar", q.values(), nil, true, &out)
	return out, err
}

// ManageCategories fetches the admin category listing.
func (c *Client) ManageCategories(ctx context.Context, q CategoryQuery) (model.Page[model.Category], error) {
	var out model.Page[model.Category]
	err := c.doJSON(ctx, http.MethodGet, "/api/categoria/gerenciar", q.values(), nil, true, &out)
	return out, err
}

// CategoryDetail fetches one category for the admin edit form.
func (c *Client) CategoryDetail(ctx context.Context, categoryID int64) (*model.Category, error) {
	var out model.Category
	path := fmt.Sprintf("/api/categoria/%d", categoryID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCategory submits a new category as multipart form data.
func (c *Client) CreateCategory(ctx context.Context, form CategoryForm) (*model.Category, error) {
	body, contentType, err := encodeCategoryForm(form)
	if err != nil {
		return nil, err
	}
	var out model.Category
	if err := c.do(ctx, http.MethodPost, "/api/categoria", nil, body, contentType, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory submits category changes as multipart form data.
func (c *Client) UpdateCategory(ctx context.Context, categoryID int64, form CategoryForm) (*model.Category, error) {
	body, contentType, err := encodeCategoryForm(form)
	if err != nil {
		return nil, err
	}
	var out model.Category
	path := fmt.Sprintf("/api/categoria/%d", categoryID)
	if err := c.do(ctx, http.MethodPut, path, nil, body, contentType, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivateCategory marks a category ATIVO. The backend answers 204.
func (c *Client) ActivateCategory(ctx context.Context, categoryID int64) error {
	path := fmt.Sprintf("/api/categoria/%d/ativar", categoryID)
	return c.doJSON(ctx, http.MethodPut, path, nil, nil, true, nil)
}

// DeactivateCategory marks a category INATIVO. The backend answers 204.
func (c *Client) DeactivateCategory(ctx context.Context, categoryID int64) error {
	path := fmt.Sprintf("/api/categoria/%d/inativar", categoryID)
	return c.doJSON(ctx, http.MethodPut, path, nil, nil, true, nil)
}

// CreateProduct submits a new product with its variants as multipart form
// data.
func (c *Client) CreateProduct(ctx context.Context, form ProductForm) error {
	body, contentType, err := encodeProductForm(form)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/produto", nil, body, contentType, true, nil)
}

// UpdateProduct submits product changes as multipart form data.
func (c *Client) UpdateProduct(ctx context.Context, productID int64, form ProductForm) error {
	body, contentType, err := encodeProductForm(form)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/api/produto/%d", productID)
	return c.do(ctx, http.MethodPut, path, nil, body, contentType, true, nil)
}

// ActivateProduct marks a product ATIVO.
func (c *Client) ActivateProduct(ctx context.Context, productID int64) error {
	path := fmt.Sprintf("/api/produto/%d/ativar", productID)
	return c.doJSON(ctx, http.MethodPut, path, nil, nil, true, nil)
}

// DeactivateProduct marks a product INATIVO.
func (c *Client) DeactivateProduct(ctx context.Context, productID int64) error {
	path := fmt.Sprintf("/api/produto/%d/inativar", productID)
	return c.doJSON(ctx, http.MethodPut, path, nil, nil, true, nil)
}

// CreateReservation claims one unit of a size within a customization.
func (c *Client) CreateReservation(ctx context.Context, produtoCustomID int64, tamanho string) (*model.Reservation, error) {
	payload := map[string]any{
		"produtoCustomId": produtoCustomID,
		"tamanho":         tamanho,
	}
	var out model.Reservation
	if err := c.doJSON(ctx, http.MethodPost, "/api/reserva", nil, payload, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyReservations lists the logged-in customer's reservations.
func (c *Client) MyReservations(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	err := c.doJSON(ctx, http.MethodGet, "/api/reserva/minhas-reservas", nil, nil, true, &out)
	return out, err
}

// CancelReservation cancels one of the customer's own reservations.
func (c *Client) CancelReservation(ctx context.Context, reservationID int64) (*model.Reservation, error) {
	var out model.Reservation
	path := fmt.Sprintf("/api/reserva/%d/cancelar", reservationID)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminReservations lists every reservation in the system.
func (c *Client) AdminReservations(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	err := c.doJSON(ctx, http.MethodGet, "/api/reserva/admin", nil, nil, true, &out)
	return out, err
}

// AdminUpdateReservation transitions a reservation's status and/or rewrites
// its admin observation.
func (c *Client) AdminUpdateReservation(ctx context.Context, reservationID int64, status model.ReservationStatus, observacao string) (*model.Reservation, error) {
	payload := map[string]any{
		"status":          status,
		"observacaoAdmin": observacao,
	}
	var out model.Reservation
	path := fmt.Sprintf("/api/reserva/admin/%d", reservationID)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, payload, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingNotifications fetches the reservations whose status changed since
// the customer last acknowledged them.
func (c *Client) PendingNotifications(ctx context.Context) ([]model.Notification, error) {
	var out []model.Notification
	err := c.doJSON(ctx, http.MethodGet, "/api/reserva/minhas-notificacoes-pendentes", nil, nil, true, &out)
	return out, err
}

// MarkNotificationRead acknowledges a single notification. The backend
// answers 204.
func (c *Client) MarkNotificationRead(ctx context.Context, reservationID int64) error {
	path := fmt.Sprintf("/api/reserva/%d/marcar-vista", reservationID)
	return c.doJSON(ctx, http.MethodPut, path, nil, nil, true, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, login, senha string) (string, error) {
	payload := map[string]string{"login": login, "senha": senha}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, payload, false, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// RegisterClient creates a new customer account.
func (c *Client) RegisterClient(ctx context.Context, nome, login, senha string) error {
	payload := map[string]string{"nome": nome, "login": login, "senha": senha}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register/cliente", nil, payload, false, nil)
}

// ImageURL resolves a stored image path to its serving URL. Paths under the
// CATEGORIA prefix route to the category image endpoint, everything else to
// the product one. Absolute URLs pass through untouched.
func (c *Client) ImageURL(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	if strings.HasPrefix(imagePath, "http://") || strings.HasPrefix(imagePath, "https://") {
		return imagePath
	}
	base := strings.TrimSuffix(c.base.String(), "/")
	if strings.HasPrefix(strings.ToUpper(imagePath), "CATEGORIA") {
		return base + "/api/categoria/imagem/" + imagePath
	}
	return base + "/api/produto/imagem/" + imagePath
}
