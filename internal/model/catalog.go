package model

// Situacao is the active/inactive flag applied to products and categories.
// Inactive entries are hidden from customers but still manageable by admins.
type Situacao string

const (
	SituacaoAtivo   Situacao = "ATIVO"
	SituacaoInativo Situacao = "INATIVO"
)

// StockEntry is the per-size stock of one product customization.
type StockEntry struct {
	Tamanho    string `json:"tamanho"`
	Quantidade int    `json:"quantidade"`
}

// Customization is a purchasable variant of a product: its own image and
// colors, broken into per-size stock entries.
type Customization struct {
	ID       int64        `json:"id"`
	Imagem   string       `json:"imagem"`
	Cores    []string     `json:"cores"`
	Situacao Situacao     `json:"situacao"`
	Estoque  []StockEntry `json:"estoque"`
}

// Product as returned by the backend detail and listing endpoints.
type Product struct {
	ID             int64           `json:"id"`
	Nome           string          `json:"nome"`
	Descricao      string          `json:"descricao"`
	Preco          float64         `json:"preco"`
	CategoriaID    int64           `json:"categoriaId"`
	Categoria      string          `json:"categoria,omitempty"`
	Situacao       Situacao        `json:"situacao"`
	Customizations []Customization `json:"customizacoes"`
}

// Category groups products. Produtos is populated only by the home endpoint.
type Category struct {
	ID         int64     `json:"id"`
	Nome       string    `json:"nome"`
	ImagemPath string    `json:"imagemPath"`
	Situacao   Situacao  `json:"situacao"`
	Produtos   []Product `json:"produtos,omitempty"`
}

// SelectOption is the backend's value/label pair for filter selects.
type SelectOption struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// Page is one read-only snapshot of a paginated listing, in the backend's
// Spring-style envelope. It is replaced wholesale on every successful fetch.
type Page[T any] struct {
	Content     []T  `json:"content"`
	CurrentPage int  `json:"number"`
	TotalPages  int  `json:"totalPages"`
	IsFirst     bool `json:"first"`
	IsLast      bool `json:"last"`
}

// EmptyPage is the degraded result committed when a listing fetch fails.
func EmptyPage[T any]() Page[T] {
	return Page[T]{Content: []T{}, TotalPages: 0, IsFirst: true, IsLast: true}
}
