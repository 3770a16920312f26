package order

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"MiniShop/internal/product"
)

type fakeCatalog map[string]float64

func (f fakeCatalog) FindByName(name string) (product.Product, error) {
	for n, price := range f {
		if strings.EqualFold(n, name) {
			return product.Product{ID: 1, Name: n, Price: price}, nil
		}
	}
	return product.Product{}, product.ErrNotFound
}

func adminPerms() Permissions {
	return Permissions{
		OverridePrice: true,
		StatusAllowed: func(string) bool { return true },
	}
}

func userPerms() Permissions {
	return Permissions{
		OverridePrice: false,
		StatusAllowed: func(s string) bool { return s == StatusCanceled },
	}
}

func TestNewComputesPrice(t *testing.T) {
	catalog := fakeCatalog{"Widget": 10}

	o, err := New("widget", 3, 7, "", catalog)
	require.NoError(t, err)
	require.Equal(t, 30.0, o.Price)
	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, 7, o.UserID)
	require.Equal(t, "widget", o.ProductName, "name stored as submitted, not canonicalized")
}

func TestNewUnknownProduct(t *testing.T) {
	_, err := New("gadget", 1, 1, "", fakeCatalog{"Widget": 10})
	require.ErrorIs(t, err, ErrUnknownProduct)
}

func TestApplyUpdateProductChangeReprices(t *testing.T) {
	catalog := fakeCatalog{"Widget": 10, "Gadget": 25}
	o := Order{ProductName: "Widget", Quantity: 2, Price: 20, Status: StatusPending}

	name := "Gadget"
	err := ApplyUpdate(&o, UpdateFields{ProductName: &name}, userPerms(), catalog)
	require.NoError(t, err)
	require.Equal(t, "Gadget", o.ProductName)
	require.Equal(t, 50.0, o.Price, "new product price times existing quantity")
}

func TestApplyUpdateQuantityChangeReprices(t *testing.T) {
	catalog := fakeCatalog{"Widget": 10}
	o := Order{ProductName: "Widget", Quantity: 2, Price: 20, Status: StatusPending}

	qty := 5
	err := ApplyUpdate(&o, UpdateFields{Quantity: &qty}, userPerms(), catalog)
	require.NoError(t, err)
	require.Equal(t, 50.0, o.Price)
}

func TestApplyUpdateBothFieldsReprices(t *testing.T) {
	catalog := fakeCatalog{"Widget": 10, "Gadget": 25}
	o := Order{ProductName: "Widget", Quantity: 2, Price: 20, Status: StatusPending}

	name := "Gadget"
	qty := 4
	err := ApplyUpdate(&o, UpdateFields{ProductName: &name, Quantity: &qty}, userPerms(), catalog)
	require.NoError(t, err)
	require.Equal(t, 100.0, o.Price, "new product times new quantity")
}

func TestApplyUpdateQuantityKeepsStalePriceWhenProductGone(t *testing.T) {
	o := Order{ProductName: "Retired", Quantity: 2, Price: 18, Status: StatusPending}

	qty := 3
	err := ApplyUpdate(&o, UpdateFields{Quantity: &qty}, userPerms(), fakeCatalog{})
	require.NoError(t, err)
	require.Equal(t, 3, o.Quantity)
	require.Equal(t, 18.0, o.Price, "price untouched when the product vanished")
}

func TestApplyUpdateUnknownProductFails(t *testing.T) {
	o := Order{ProductName: "Widget", Quantity: 2, Price: 20}

	name := "Nope"
	err := ApplyUpdate(&o, UpdateFields{ProductName: &name}, userPerms(), fakeCatalog{"Widget": 10})
	require.ErrorIs(t, err, ErrUnknownProduct)
	require.Equal(t, "Widget", o.ProductName, "failed update leaves the order alone")
}

func TestApplyUpdatePriceOverride(t *testing.T) {
	catalog := fakeCatalog{"Widget": 10}
	price := 1.5

	o := Order{ProductName: "Widget", Quantity: 2, Price: 20}
	require.NoError(t, ApplyUpdate(&o, UpdateFields{Price: &price}, adminPerms(), catalog))
	require.Equal(t, 1.5, o.Price)

	o = Order{ProductName: "Widget", Quantity: 2, Price: 20}
	require.NoError(t, ApplyUpdate(&o, UpdateFields{Price: &price}, userPerms(), catalog))
	require.Equal(t, 20.0, o.Price, "non-admin price is ignored")
}

func TestApplyUpdatePriceOverrideWinsOverRecompute(t *testing.T) {
	catalog := fakeCatalog{"Widget": 10}
	qty := 5
	price := 7.0

	o := Order{ProductName: "Widget", Quantity: 2, Price: 20}
	err := ApplyUpdate(&o, UpdateFields{Quantity: &qty, Price: &price}, adminPerms(), catalog)
	require.NoError(t, err)
	require.Equal(t, 7.0, o.Price, "explicit price applies after the recompute")
}

func TestApplyUpdateStatusRules(t *testing.T) {
	catalog := fakeCatalog{"Widget": 10}

	shipped := "shipped"
	o := Order{ProductName: "Widget", Quantity: 1, Price: 10, Status: StatusPending}
	require.NoError(t, ApplyUpdate(&o, UpdateFields{Status: &shipped}, userPerms(), catalog))
	require.Equal(t, StatusPending, o.Status, "non-canceled status silently ignored")

	canceled := StatusCanceled
	require.NoError(t, ApplyUpdate(&o, UpdateFields{Status: &canceled}, userPerms(), catalog))
	require.Equal(t, StatusCanceled, o.Status)

	o.Status = StatusPending
	require.NoError(t, ApplyUpdate(&o, UpdateFields{Status: &shipped}, adminPerms(), catalog))
	require.Equal(t, "shipped", o.Status)
}
