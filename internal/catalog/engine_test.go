package catalog_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"FruitStore/internal/catalog"
)

func product(id int64, name, category, price string, tags ...string) catalog.Product {
	return catalog.Product{ID: id, Name: name, Category: category, Price: price, Tags: tags}
}

func fixture() []catalog.Product {
	return []catalog.Product{
		product(1, "Táo Envy", "imported", "499.999₫"),
		product(2, "Nho mẫu đơn", "imported", "500.000₫"),
		product(3, "Cherry đỏ", "imported", "999.999₫"),
		product(4, "Sầu riêng", "domestic", "1.000.000₫"),
		product(5, "Giỏ quà An Khang", "gift-basket", "2.000.000₫", catalog.TagGift),
		product(6, "Giỏ quà Thịnh Vượng", "gift-basket", "2.000.001₫", catalog.TagGift),
		{ID: 7, Name: "Bưởi da xanh", Category: "domestic", NewPrice: "75.000₫", OldPrice: "90.000₫"},
		product(8, "Hộp dưa hấu", "cut-fruit", "100.000₫", catalog.TagCutFruit),
		product(9, "Mix nhiệt đới", "cut-fruit", "200.000₫", catalog.TagCutFruit),
		product(10, "Khay tiệc", "cut-fruit", "200.001₫", catalog.TagCutFruit),
		product(11, "Hộp ổi", "cut-fruit", "99.999₫", catalog.TagCutFruit),
		{ID: 12, Name: "Liên hệ", Category: "domestic"},
	}
}

func ids(ps []catalog.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestEngine_GeneralBracketEdges(t *testing.T) {
	e := catalog.AllProducts.Engine(fixture())

	cases := map[string][]int64{
		"under-500k": {1, 7, 8, 9, 10, 11, 12},
		"500k-1m":    {2, 3},
		"1m-2m":      {4, 5},
		"above-2m":   {6},
	}
	for key, want := range cases {
		got := ids(e.Apply(catalog.Filter{Bracket: key}))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", key, diff)
		}
	}

	require.Len(t, e.Apply(catalog.Filter{Bracket: catalog.BracketAll}), 12)
	require.Len(t, e.Apply(catalog.Filter{Bracket: "bogus"}), 12, "unknown brackets filter nothing")
}

func TestEngine_CutFruitBracketEdges(t *testing.T) {
	e := catalog.CutFruit.Engine(fixture())
	require.Equal(t, 4, e.Len(), "only cut-fruit tagged products")

	require.Equal(t, []int64{11}, ids(e.Apply(catalog.Filter{Bracket: "under-100k"})))
	require.Equal(t, []int64{8, 9}, ids(e.Apply(catalog.Filter{Bracket: "100k-200k"})))
	require.Equal(t, []int64{10}, ids(e.Apply(catalog.Filter{Bracket: "above-200k"})))
}

func TestEngine_ApplyIsIdempotentAndNonCompounding(t *testing.T) {
	e := catalog.AllProducts.Engine(fixture())

	narrow := catalog.Filter{Category: "imported", Bracket: "500k-1m", Sort: catalog.SortPriceDesc}
	first := e.Apply(narrow)
	second := e.Apply(narrow)
	require.Equal(t, first, second)

	wide := catalog.Filter{Category: "domestic"}
	require.Equal(t, []int64{4, 7, 12}, ids(e.Apply(wide)), "the previous narrow result must not leak in")
	require.Len(t, e.Apply(catalog.Filter{Category: catalog.CategoryAll}), 12)
}

func TestEngine_SortByPrice(t *testing.T) {
	e := catalog.AllProducts.Engine(fixture())

	asc := e.Apply(catalog.Filter{Category: "domestic", Sort: catalog.SortPriceAsc})
	require.Equal(t, []int64{12, 7, 4}, ids(asc), "missing price sorts as 0, sale price wins over list")

	desc := e.Apply(catalog.Filter{Category: "domestic", Sort: catalog.SortPriceDesc})
	require.Equal(t, []int64{4, 7, 12}, ids(desc))
}

func TestEngine_SortIsStable(t *testing.T) {
	ps := []catalog.Product{
		product(1, "B", "x", "10₫"),
		product(2, "A", "x", "10₫"),
		product(3, "C", "x", "5₫"),
		product(4, "D", "x", "10₫"),
	}
	e := catalog.AllProducts.Engine(ps)

	require.Equal(t, []int64{3, 1, 2, 4}, ids(e.Apply(catalog.Filter{Sort: catalog.SortPriceAsc})))
	require.Equal(t, []int64{1, 2, 4, 3}, ids(e.Apply(catalog.Filter{Sort: catalog.SortPriceDesc})))
	require.Equal(t, []int64{1, 2, 3, 4}, ids(e.Apply(catalog.Filter{Sort: catalog.SortDefault})))
}

func TestEngine_SortByNameUsesVietnameseCollation(t *testing.T) {
	ps := []catalog.Product{
		product(1, "Đào", "x", ""),
		product(2, "bơ", "x", ""),
		product(4, "Ấn Độ xoài", "x", ""),
		product(5, "Cam", "x", ""),
	}
	e := catalog.AllProducts.Engine(ps)

	asc := e.Apply(catalog.Filter{Sort: catalog.SortNameAsc})
	require.Equal(t, []int64{4, 2, 5, 1}, ids(asc))

	desc := e.Apply(catalog.Filter{Sort: catalog.SortNameDesc})
	require.Equal(t, []int64{1, 5, 2, 4}, ids(desc))
}

func TestEngine_DiscountNormalizationPerVariant(t *testing.T) {
	ps := []catalog.Product{
		{ID: 1, Name: "Hộp xoài", NewPrice: "85.000₫", OldPrice: "99.000₫", Tags: []string{catalog.TagCutFruit}},
	}

	all, ok := catalog.AllProducts.Engine(ps).Find(1)
	require.True(t, ok)
	require.Equal(t, "-14%", all.Discount)

	cut, ok := catalog.CutFruit.Engine(ps).Find(1)
	require.True(t, ok)
	require.Empty(t, cut.Discount, "the cut-fruit page does not compute discounts")
	require.EqualValues(t, 85000, cut.EffectivePrice)
}

func TestEngine_Search(t *testing.T) {
	e := catalog.AllProducts.Engine(fixture())

	require.False(t, e.Search("").Visible)
	require.False(t, e.Search("   ").Visible)

	res := e.Search("  GIỎ QUÀ ")
	require.True(t, res.Visible)
	require.Equal(t, []int64{5, 6}, ids(res.Matches))
	require.False(t, res.NotFound)

	res = e.Search("kiwi")
	require.True(t, res.Visible)
	require.True(t, res.NotFound)
	require.Equal(t, catalog.NotFoundText, res.Message)
	require.Empty(t, res.Matches)
}

func TestEngine_SearchIgnoresCurrentFilters(t *testing.T) {
	e := catalog.AllProducts.Engine(fixture())
	v := catalog.NewView(e, catalog.Filter{Category: "cut-fruit"})
	require.Len(t, v.Filtered(), 4)

	res := e.Search("táo")
	require.Equal(t, []int64{1}, ids(res.Matches))
}

func TestParseSort(t *testing.T) {
	for _, s := range []string{"", "default", "price-asc", "price-desc", "name-asc", "name-desc"} {
		_, ok := catalog.ParseSort(s)
		require.True(t, ok, s)
	}
	_, ok := catalog.ParseSort("rating")
	require.False(t, ok)
}

func TestBracketTable_Valid(t *testing.T) {
	require.True(t, catalog.GeneralBrackets.Valid(""))
	require.True(t, catalog.GeneralBrackets.Valid("all"))
	require.True(t, catalog.GeneralBrackets.Valid("1m-2m"))
	require.False(t, catalog.GeneralBrackets.Valid("100k-200k"))
	require.True(t, catalog.CutFruitBrackets.Valid("100k-200k"))
}

func ExamplePage_Summary() {
	p := catalog.Page{Total: 40, Current: 3, TotalPages: 3, Start: 33, End: 40}
	fmt.Println(p.Summary())
	fmt.Println(catalog.Page{TotalPages: 1}.Summary())
	// Output:
	// Showing 33-40 of 40 products
	// No products
}
