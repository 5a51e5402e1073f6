package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

func ParseSort(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case "", SortDefault:
		return SortDefault, true
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return k, true
	}
	return SortDefault, false
}

type Filter struct {
	Category string  `json:"category,omitempty"`
	Bracket  string  `json:"price,omitempty"`
	Sort     SortKey `json:"sort,omitempty"`
}

// Engine answers queries over one page's catalog. It is read-only after
// construction and safe for concurrent use.
type Engine struct {
	catalog  []Product
	brackets BracketTable
	lang     language.Tag
}

func NewEngine(products []Product, brackets BracketTable) *Engine {
	return &Engine{
		catalog:  products,
		brackets: brackets,
		lang:     language.Vietnamese,
	}
}

func (e *Engine) Len() int { return len(e.catalog) }

func (e *Engine) Brackets() BracketTable { return e.brackets }

func (e *Engine) Find(id int64) (Product, bool) {
	i := slices.IndexFunc(e.catalog, func(p Product) bool { return p.ID == id })
	if i < 0 {
		return Product{}, false
	}
	return e.catalog[i], true
}

// Apply filters then sorts, always starting from the full catalog so that
// successive calls never compound.
func (e *Engine) Apply(f Filter) []Product {
	bracket, hasBracket := e.brackets.Lookup(f.Bracket)

	out := make([]Product, 0, len(e.catalog))
	for _, p := range e.catalog {
		if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
			continue
		}
		if hasBracket && !bracket.Contains(p.EffectivePrice) {
			continue
		}
		out = append(out, p)
	}

	e.sort(out, f.Sort)
	return out
}

func (e *Engine) sort(ps []Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(ps, func(a, b Product) int { return cmp.Compare(a.EffectivePrice, b.EffectivePrice) })
	case SortPriceDesc:
		slices.SortStableFunc(ps, func(a, b Product) int { return cmp.Compare(b.EffectivePrice, a.EffectivePrice) })
	case SortNameAsc, SortNameDesc:
		// collators keep scratch buffers, one per call
		c := collate.New(e.lang)
		dir := 1
		if key == SortNameDesc {
			dir = -1
		}
		slices.SortStableFunc(ps, func(a, b Product) int { return dir * c.CompareString(a.Name, b.Name) })
	}
}

// NotFoundText is shown in place of an empty result list.
const NotFoundText = "Không tìm thấy sản phẩm"

type SearchResult struct {
	Visible  bool      `json:"visible"`
	Matches  []Product `json:"matches"`
	NotFound bool      `json:"not_found,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// Search is the live, case-insensitive name search. It ignores the current
// filters and runs over the whole page catalog; an empty query hides the
// result panel.
func (e *Engine) Search(query string) SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return SearchResult{}
	}

	matches := make([]Product, 0)
	for _, p := range e.catalog {
		if strings.Contains(strings.ToLower(p.Name), q) {
			matches = append(matches, p)
		}
	}

	if len(matches) == 0 {
		return SearchResult{Visible: true, Matches: matches, NotFound: true, Message: NotFoundText}
	}
	return SearchResult{Visible: true, Matches: matches}
}
