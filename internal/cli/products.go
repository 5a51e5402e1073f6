package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"FruitStore/internal/catalog"
)

var errBadFilter = errors.New("bad filter")

type productsOpts struct {
	variant  string
	category string
	price    string
	sort     string
	page     int
	json     bool
}

func newProductsCommand(v *viper.Viper) *cobra.Command {
	var o productsOpts
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List one page of the catalog",
		Args:  cobra.NoArgs,
		RunE: withApp(v, func(ctx context.Context, a *app, out io.Writer, _ []string) error {
			return runProducts(ctx, a, out, o)
		}),
	}
	f := cmd.Flags()
	f.StringVar(&o.variant, "variant", catalog.AllProducts.Name, "page variant (all-products|cut-fruit)")
	f.StringVar(&o.category, "category", "", "category filter, all-products only")
	f.StringVar(&o.price, "price", "", "price bracket key")
	f.StringVar(&o.sort, "sort", "", "default|price-asc|price-desc|name-asc|name-desc")
	f.IntVar(&o.page, "page", 1, "page number")
	f.BoolVar(&o.json, "json", false, "print JSON instead of a table")
	return cmd
}

func runProducts(ctx context.Context, a *app, out io.Writer, o productsOpts) error {
	variant, ok := catalog.VariantByName(o.variant)
	if !ok {
		return fmt.Errorf("%w: unknown variant %q", errBadFilter, o.variant)
	}
	if !variant.Brackets.Valid(o.price) {
		return fmt.Errorf("%w: unknown price bracket %q", errBadFilter, o.price)
	}
	sortKey, ok := catalog.ParseSort(o.sort)
	if !ok {
		return fmt.Errorf("%w: unknown sort %q", errBadFilter, o.sort)
	}

	e, err := a.loader.LoadVariant(ctx, variant)
	if err != nil {
		return err
	}

	f := catalog.Filter{Bracket: o.price, Sort: sortKey}
	if variant.AllowCategory {
		f.Category = o.category
	}
	view := catalog.NewView(e, f)
	page, ok := view.ChangePage(o.page)
	if !ok {
		fmt.Fprintf(out, "page %d is out of range, showing page %d\n", o.page, page.Current)
	}

	if o.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	return printPage(out, page, view.Controls())
}

func printPage(out io.Writer, page catalog.Page, c catalog.Controls) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tWAS\tBADGE")
	for _, p := range page.Items {
		was := ""
		if p.OnSale() {
			was = strings.TrimSpace(p.OldPrice + " " + p.Discount)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.DisplayPrice(), was, p.Badge())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, page.Summary())
	if line := renderControls(c); line != "" {
		fmt.Fprintln(out, line)
	}
	return nil
}

func renderControls(c catalog.Controls) string {
	if len(c.Markers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c.Markers)+2)
	if c.Prev {
		parts = append(parts, "«")
	}
	for _, m := range c.Markers {
		switch {
		case m.Ellipsis:
			parts = append(parts, "…")
		case m.Active:
			parts = append(parts, "["+strconv.Itoa(m.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(m.Page))
		}
	}
	if c.Next {
		parts = append(parts, "»")
	}
	return strings.Join(parts, " ")
}

func newSearchCommand(v *viper.Viper) *cobra.Command {
	var variantName string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Live-search product names",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(v, func(ctx context.Context, a *app, out io.Writer, args []string) error {
			variant, ok := catalog.VariantByName(variantName)
			if !ok {
				return fmt.Errorf("%w: unknown variant %q", errBadFilter, variantName)
			}
			e, err := a.loader.LoadVariant(ctx, variant)
			if err != nil {
				return err
			}

			res := e.Search(args[0])
			switch {
			case !res.Visible:
				return nil
			case res.NotFound:
				fmt.Fprintln(out, res.Message)
				return nil
			}
			for _, p := range res.Matches {
				fmt.Fprintf(out, "%d\t%s\t%s\n", p.ID, p.Name, p.DisplayPrice())
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&variantName, "variant", catalog.AllProducts.Name, "page variant (all-products|cut-fruit)")
	return cmd
}
