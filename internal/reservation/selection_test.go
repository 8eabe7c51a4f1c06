package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vitrine/internal/model"
)

func productWithStock(entries ...model.StockEntry) *model.Product {
	return &model.Product{
		ID:   1,
		Nome: "Camiseta",
		Customizations: []model.Customization{
			{ID: 10, Estoque: entries},
		},
	}
}

func TestDefaultSelection(t *testing.T) {
	t.Run("skips leading sizes without stock", func(t *testing.T) {
		p := productWithStock(
			model.StockEntry{Tamanho: "P", Quantidade: 0},
			model.StockEntry{Tamanho: "M", Quantidade: 0},
			model.StockEntry{Tamanho: "G", Quantidade: 4},
		)
		sel := DefaultSelection(p)
		assert.Equal(t, "G", sel.Tamanho)
		assert.True(t, sel.CanReserve())
	})

	t.Run("no stock anywhere leaves size empty", func(t *testing.T) {
		p := productWithStock(
			model.StockEntry{Tamanho: "P", Quantidade: 0},
			model.StockEntry{Tamanho: "M", Quantidade: 0},
		)
		sel := DefaultSelection(p)
		assert.Empty(t, sel.Tamanho)
		assert.False(t, sel.CanReserve())
	})

	t.Run("product without customizations yields empty selection", func(t *testing.T) {
		sel := DefaultSelection(&model.Product{ID: 2})
		assert.Nil(t, sel.Customization)
		assert.False(t, sel.CanReserve())
	})

	t.Run("nil product is safe", func(t *testing.T) {
		assert.False(t, DefaultSelection(nil).CanReserve())
	})
}

func TestSelection_WithTamanho(t *testing.T) {
	p := productWithStock(
		model.StockEntry{Tamanho: "M", Quantidade: 2},
		model.StockEntry{Tamanho: "G", Quantidade: 0},
	)
	sel := DefaultSelection(p)
	assert.Equal(t, "M", sel.Tamanho)

	// Switching to a size without stock keeps the selection but disables
	// reserving.
	out := sel.WithTamanho("G")
	assert.Equal(t, "G", out.Tamanho)
	assert.False(t, out.CanReserve())

	entry, ok := out.Stock()
	assert.True(t, ok)
	assert.Zero(t, entry.Quantidade)

	// Unknown sizes have no stock entry at all.
	_, ok = sel.WithTamanho("XG").Stock()
	assert.False(t, ok)
}
