package catalog

// Variant configures one listing page over the shared catalog.
type Variant struct {
	Name string
	// Tag restricts the page to products carrying it; empty keeps everything.
	Tag string
	// NormalizeDiscounts fills in Discount for marked-down products.
	NormalizeDiscounts bool
	AllowCategory      bool
	Brackets           BracketTable
}

var (
	AllProducts = Variant{
		Name:               "all-products",
		NormalizeDiscounts: true,
		AllowCategory:      true,
		Brackets:           GeneralBrackets,
	}

	CutFruit = Variant{
		Name:     "cut-fruit",
		Tag:      TagCutFruit,
		Brackets: CutFruitBrackets,
	}
)

func VariantByName(name string) (Variant, bool) {
	switch name {
	case AllProducts.Name, "":
		return AllProducts, true
	case CutFruit.Name:
		return CutFruit, true
	}
	return Variant{}, false
}

// Prepare derives the page's catalog: tag restriction first, then price
// normalization on the kept copies.
func (v Variant) Prepare(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for i := range products {
		p := products[i]
		if v.Tag != "" && !p.HasTag(v.Tag) {
			continue
		}
		p.normalize(v.NormalizeDiscounts)
		out = append(out, p)
	}
	return out
}

func (v Variant) Engine(products []Product) *Engine {
	return NewEngine(v.Prepare(products), v.Brackets)
}
