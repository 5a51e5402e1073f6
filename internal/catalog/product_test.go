package catalog

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := map[string]int64{
		"189.000₫":   189000,
		"1.200.000đ": 1200000,
		"$12.50":     1250,
		"":           0,
		"liên hệ":    0,
		"99999999999999999999999": 0,
	}
	for in, want := range cases {
		require.Equal(t, want, ParsePrice(in), "input %q", in)
	}
}

func TestCalculateDiscount(t *testing.T) {
	for _, tc := range []struct {
		old, new string
		want     string
		ok       bool
	}{
		{"249.000₫", "189.000₫", "-24%", true},
		{"1.200.000₫", "890.000₫", "-26%", true},
		{"200.000₫", "100.000₫", "-50%", true},
		{"99.000₫", "85.000₫", "-14%", true},
		{"110.000₫", "110.000₫", "", false},
		{"100.000₫", "120.000₫", "", false},
		{"", "100.000₫", "", false},
		{"100.000₫", "", "", false},
	} {
		got, ok := CalculateDiscount(tc.old, tc.new)
		require.Equal(t, tc.ok, ok, "%s -> %s", tc.old, tc.new)
		require.Equal(t, tc.want, got)
	}
}

func TestCalculateDiscount_MatchesRoundedRatio(t *testing.T) {
	for old := int64(1); old <= 400; old += 7 {
		for n := int64(0); n <= 420; n += 13 {
			got, ok := CalculateDiscount(formatVND(old), formatVND(n))
			if old <= n {
				require.False(t, ok)
				continue
			}
			want := int64(math.Round(float64(old-n) / float64(old) * 100))
			require.True(t, ok)
			require.Equal(t, "-"+strconv.FormatInt(want, 10)+"%", got)
		}
	}
}

func TestNormalize(t *testing.T) {
	p := Product{NewPrice: "75.000₫", OldPrice: "90.000₫"}
	p.normalize(true)
	require.Equal(t, "-17%", p.Discount)
	require.EqualValues(t, 75000, p.EffectivePrice)

	kept := Product{NewPrice: "75.000₫", OldPrice: "90.000₫", Discount: "-50%"}
	kept.normalize(true)
	require.Equal(t, "-50%", kept.Discount, "an existing discount is never recomputed")

	skipped := Product{NewPrice: "75.000₫", OldPrice: "90.000₫"}
	skipped.normalize(false)
	require.Empty(t, skipped.Discount)

	none := Product{}
	none.normalize(true)
	require.Zero(t, none.EffectivePrice)
}

func TestEffectivePrice_PrefersNewPrice(t *testing.T) {
	p := Product{Price: "300.000₫", NewPrice: "250.000₫"}
	require.EqualValues(t, 250000, p.effectivePrice())

	p = Product{Price: "300.000₫"}
	require.EqualValues(t, 300000, p.effectivePrice())
}

func TestBadgeAndCartFallbacks(t *testing.T) {
	require.Equal(t, TagFlashSale, Product{Tags: []string{TagBestSeller, TagFlashSale}}.Badge())
	require.Equal(t, TagGift, Product{Tags: []string{TagGift, TagCutFruit}}.Badge())
	require.Equal(t, "", Product{}.Badge())

	p := Product{}
	require.Equal(t, "0₫", p.cartPrice())
	require.Equal(t, "img/placeholder.jpg", p.cartImage())
}

func formatVND(n int64) string { return strconv.FormatInt(n, 10) + ".000₫" }
