package catalog

import (
	"context"
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

// ProductNotFoundNotice is raised when an add-to-cart id is not in the catalog.
const ProductNotFoundNotice = "Không tìm thấy sản phẩm!"

// Cart is the external cart the listing pages add to.
type Cart interface {
	AddToCart(ctx context.Context, productID int64, name, price, image string) error
}

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notifier shows a short message to the shopper.
type Notifier interface {
	Notify(ctx context.Context, level NoticeLevel, msg string)
}

// AddToCart looks the product up in this page's catalog and hands its display
// name, price and image to the cart. Unknown ids only raise a notice.
func (e *Engine) AddToCart(ctx context.Context, cart Cart, n Notifier, productID int64) (Product, error) {
	p, ok := e.Find(productID)
	if !ok {
		n.Notify(ctx, NoticeError, ProductNotFoundNotice)
		return Product{}, fmt.Errorf("%w: id=%d", ErrProductNotFound, productID)
	}

	if err := cart.AddToCart(ctx, p.ID, p.Name, p.cartPrice(), p.cartImage()); err != nil {
		return Product{}, err
	}
	return p, nil
}
