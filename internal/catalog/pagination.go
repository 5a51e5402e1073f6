package catalog

// Marker is one slot of the pagination bar: a page number or an ellipsis.
type Marker struct {
	Page     int  `json:"page,omitempty"`
	Active   bool `json:"active,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

type Controls struct {
	Prev    bool     `json:"prev"`
	Next    bool     `json:"next"`
	Markers []Marker `json:"markers"`
}

// Paginate lays out the pagination bar from the current page alone. First and
// last pages and current±1 are always shown; a gap of two or more pages
// becomes a single ellipsis, a gap of exactly one page shows that page.
// A single page needs no controls.
func Paginate(current, total int) Controls {
	if total <= 1 {
		return Controls{Markers: []Marker{}}
	}
	current = max(1, min(current, total))

	shown := make([]int, 0, 7)
	add := func(n int) {
		if n < 1 || n > total {
			return
		}
		if len(shown) > 0 && shown[len(shown)-1] >= n {
			return
		}
		shown = append(shown, n)
	}
	add(1)
	for n := current - 1; n <= current+1; n++ {
		add(n)
	}
	add(total)

	c := Controls{
		Prev:    current > 1,
		Next:    current < total,
		Markers: make([]Marker, 0, len(shown)+2),
	}
	prev := 0
	for _, n := range shown {
		switch gap := n - prev - 1; {
		case prev == 0 || gap == 0:
		case gap == 1:
			c.Markers = append(c.Markers, Marker{Page: n - 1})
		default:
			c.Markers = append(c.Markers, Marker{Ellipsis: true})
		}
		c.Markers = append(c.Markers, Marker{Page: n, Active: n == current})
		prev = n
	}
	return c
}
