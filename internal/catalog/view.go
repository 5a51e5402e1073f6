package catalog

import "fmt"

const PageSize = 16

// Page is what the presenter needs after every filter, sort or page change.
// Start and End are 1-based and inclusive; both are 0 when Total is 0.
type Page struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Current    int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	Start      int       `json:"start"`
	End        int       `json:"end"`
}

func (p Page) Summary() string {
	if p.Total == 0 {
		return "No products"
	}
	return fmt.Sprintf("Showing %d-%d of %d products", p.Start, p.End, p.Total)
}

func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// View is the per-page-load state: the current filter, its result and the
// current page. It is owned by a single caller.
type View struct {
	engine   *Engine
	filter   Filter
	filtered []Product
	current  int

	// OnChange, when set, receives every new page so the presenter can
	// re-render the grid, the controls and the count line.
	OnChange func(Page, Controls)
}

// NewView applies the navigation filter once, before anything is rendered.
func NewView(e *Engine, initial Filter) *View {
	v := &View{engine: e}
	v.filter = initial
	v.filtered = e.Apply(initial)
	v.current = 1
	return v
}

func (v *View) Filter() Filter { return v.filter }

func (v *View) Filtered() []Product { return v.filtered }

// ApplyFilters recomputes the view from the full catalog and resets to the
// first page.
func (v *View) ApplyFilters(f Filter) Page {
	v.filter = f
	v.filtered = v.engine.Apply(f)
	v.current = 1
	return v.refresh()
}

// ChangePage moves to page n. Pages outside [1, TotalPages] are ignored and
// reported with ok=false.
func (v *View) ChangePage(n int) (Page, bool) {
	if n < 1 || n > TotalPages(len(v.filtered)) {
		return v.Page(), false
	}
	v.current = n
	return v.refresh(), true
}

func (v *View) Page() Page {
	total := len(v.filtered)
	p := Page{
		Total:      total,
		Current:    v.current,
		TotalPages: TotalPages(total),
		Items:      []Product{},
	}
	if total == 0 {
		return p
	}

	start := (v.current - 1) * PageSize
	end := min(start+PageSize, total)
	p.Items = v.filtered[start:end]
	p.Start = start + 1
	p.End = end
	return p
}

func (v *View) Controls() Controls {
	return Paginate(v.current, TotalPages(len(v.filtered)))
}

func (v *View) refresh() Page {
	p := v.Page()
	if v.OnChange != nil {
		v.OnChange(p, v.Controls())
	}
	return p
}
