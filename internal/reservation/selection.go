package reservation

import "vitrine/internal/model"

// Selection is the customer's current variant+size choice on a product
// detail view.
type Selection struct {
	Customization *model.Customization
	Tamanho       string
}

// DefaultSelection picks the product's first customization and, within it,
// the first size that actually has stock. A product with no stock anywhere
// yields a selection with an empty size, which blocks reserving.
func DefaultSelection(p *model.Product) Selection {
	if p == nil || len(p.Customizations) == 0 {
		return Selection{}
	}
	cust := &p.Customizations[0]
	sel := Selection{Customization: cust}
	for _, entry := range cust.Estoque {
		if entry.Quantidade > 0 {
			sel.Tamanho = entry.Tamanho
			break
		}
	}
	return sel
}

// WithTamanho returns the selection switched to another size of the same
// customization.
func (s Selection) WithTamanho(tamanho string) Selection {
	s.Tamanho = tamanho
	return s
}

// Stock returns the stock entry for the selected size, if it exists.
func (s Selection) Stock() (model.StockEntry, bool) {
	if s.Customization == nil {
		return model.StockEntry{}, false
	}
	for _, entry := range s.Customization.Estoque {
		if entry.Tamanho == s.Tamanho {
			return entry, true
		}
	}
	return model.StockEntry{}, false
}

// CanReserve reports whether the reserve control should be enabled: a size is
// selected and its stock entry has at least one unit.
func (s Selection) CanReserve() bool {
	if s.Tamanho == "" {
		return false
	}
	entry, ok := s.Stock()
	return ok && entry.Quantidade > 0
}
