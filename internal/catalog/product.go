package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

const (
	TagFlashSale  = "flash-sale"
	TagGift       = "gift"
	TagCutFruit   = "cut-fruit"
	TagBestSeller = "best-seller"
)

const (
	placeholderImage = "img/placeholder.jpg"
	zeroPrice        = "0₫"
)

// Product mirrors a record of the seed document. Prices stay formatted for
// display; EffectivePrice is the numeric value filters and sorts use.
type Product struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Image    string   `json:"image,omitempty"`
	Category string   `json:"category,omitempty"`
	Price    string   `json:"price,omitempty"`
	NewPrice string   `json:"newPrice,omitempty"`
	OldPrice string   `json:"oldPrice,omitempty"`
	Discount string   `json:"discount,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	EffectivePrice int64 `json:"effectivePrice"`
}

// UnmarshalJSON accepts ids and prices written as JSON numbers or strings.
// Other tools sharing the snapshot key write both forms.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	aux := struct {
		*plain
		ID       looseInt    `json:"id"`
		Price    looseString `json:"price"`
		NewPrice looseString `json:"newPrice"`
		OldPrice looseString `json:"oldPrice"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ID = int64(aux.ID)
	p.Price = string(aux.Price)
	p.NewPrice = string(aux.NewPrice)
	p.OldPrice = string(aux.OldPrice)
	return nil
}

type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("want string or number, got %s", b)
		}
		*s = looseString(n.String())
	}
	return nil
}

type looseInt int64

func (n *looseInt) UnmarshalJSON(b []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(s)), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
			return fmt.Errorf("id %q is not an integer", string(s))
		}
		v = int64(f)
	}
	*n = looseInt(v)
	return nil
}

// ParsePrice drops every non-digit and parses the rest. Empty or
// unparsable input is 0.
func ParsePrice(s string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// DisplayPrice is the formatted price shown to shoppers: the sale price when
// there is one, else the list price.
func (p Product) DisplayPrice() string {
	if p.NewPrice != "" {
		return p.NewPrice
	}
	return p.Price
}

func (p Product) effectivePrice() int64 {
	return ParsePrice(p.DisplayPrice())
}

func (p Product) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

func (p Product) OnSale() bool {
	return p.NewPrice != "" && p.OldPrice != ""
}

// Badge picks the card style. flash-sale wins over gift, gift over
// cut-fruit, cut-fruit over best-seller.
func (p Product) Badge() string {
	for _, tag := range []string{TagFlashSale, TagGift, TagCutFruit, TagBestSeller} {
		if p.HasTag(tag) {
			return tag
		}
	}
	return ""
}

// CalculateDiscount returns "-N%" for a real markdown and false when the old
// price is not above the new one.
func CalculateDiscount(oldPrice, newPrice string) (string, bool) {
	if oldPrice == "" || newPrice == "" {
		return "", false
	}
	o, n := ParsePrice(oldPrice), ParsePrice(newPrice)
	if o <= n {
		return "", false
	}
	pct := math.Round(float64(o-n) / float64(o) * 100)
	return fmt.Sprintf("-%d%%", int64(pct)), true
}

func (p *Product) normalize(withDiscount bool) {
	p.EffectivePrice = p.effectivePrice()
	if !withDiscount || p.Discount != "" || !p.OnSale() {
		return
	}
	if d, ok := CalculateDiscount(p.OldPrice, p.NewPrice); ok {
		p.Discount = d
	}
}

func (p Product) cartPrice() string {
	if s := p.DisplayPrice(); s != "" {
		return s
	}
	return zeroPrice
}

func (p Product) cartImage() string {
	if p.Image != "" {
		return p.Image
	}
	return placeholderImage
}
