package order

import (
	"errors"

	"MiniShop/internal/product"
)

// ErrUnknownProduct is returned when an order names a product the catalog
// cannot resolve.
var ErrUnknownProduct = errors.New("product not found")

// Resolver looks a product up by case-insensitive name.
type Resolver interface {
	FindByName(name string) (product.Product, error)
}

// UpdateFields carries the optional fields of an order update. Nil means
// absent; an empty product name is also treated as absent.
type UpdateFields struct {
	ProductName *string
	Quantity    *int
	Price       *float64
	Status      *string
}

// Permissions is the slice of the authorization decision that pricing needs.
// The handler derives it from the caller's role before calling ApplyUpdate.
type Permissions struct {
	OverridePrice bool
	// StatusAllowed reports whether a requested status value may be applied.
	// Disallowed values are dropped, not rejected.
	StatusAllowed func(requested string) bool
}

// New builds an order at creation-time prices: the product is resolved by
// name and price = product.price × quantity. Admin callers may pre-set
// status (and later price); everyone else starts at pending.
func New(productName string, quantity int, userID int, status string, resolve Resolver) (Order, error) {
	p, err := resolve.FindByName(productName)
	if err != nil {
		return Order{}, ErrUnknownProduct
	}

	if status == "" {
		status = StatusPending
	}

	return Order{
		ProductName: productName,
		Quantity:    quantity,
		Price:       p.Price * float64(quantity),
		Status:      status,
		UserID:      userID,
	}, nil
}

// ApplyUpdate mutates o in place following the recompute rules:
//
//   - a product name change re-resolves and reprices against the current
//     quantity; an unresolvable name fails the whole update;
//   - a quantity change reprices against the (possibly just updated)
//     product; if that product has meanwhile vanished from the catalog the
//     quantity still changes and the stale price is kept;
//   - an explicit price is applied last, and only with OverridePrice;
//   - a status value passes through Permissions.StatusAllowed or is dropped.
func ApplyUpdate(o *Order, f UpdateFields, perms Permissions, resolve Resolver) error {
	if f.ProductName != nil && *f.ProductName != "" {
		p, err := resolve.FindByName(*f.ProductName)
		if err != nil {
			return ErrUnknownProduct
		}
		o.ProductName = *f.ProductName
		o.Price = p.Price * float64(o.Quantity)
	}

	if f.Quantity != nil {
		o.Quantity = *f.Quantity
		if p, err := resolve.FindByName(o.ProductName); err == nil {
			o.Price = p.Price * float64(*f.Quantity)
		}
	}

	if f.Price != nil && perms.OverridePrice {
		o.Price = *f.Price
	}

	if f.Status != nil && perms.StatusAllowed(*f.Status) {
		o.Status = *f.Status
	}

	return nil
}
