package shipping

import (
	"github.com/obuzietter/Messah-Enterprise/internal/domain"
)

// FlatRate charges a fixed amount per stockable unit in the cart.
type FlatRate struct {
	RatePerUnit int64
}

// Quote implements Carrier.
func (f FlatRate) Quote(cart *domain.Cart) (domain.ShippingRate, bool) {
	var units int64
	for _, item := range cart.Items {
		if item.IsStockable {
			units += int64(item.Quantity)
		}
	}
	if units == 0 {
		return domain.ShippingRate{}, false
	}

	return domain.ShippingRate{
		Carrier:      "flatrate",
		CarrierTitle: "Flat Rate",
		Method:       "flatrate_flatrate",
		MethodTitle:  "Flat Rate Shipping",
		Description:  "Fixed rate per unit",
		Amount:       f.RatePerUnit * units,
	}, true
}

// FreeShipping applies when the cart subtotal reaches the threshold.
type FreeShipping struct {
	MinSubtotal int64
}

// Quote implements Carrier.
func (f FreeShipping) Quote(cart *domain.Cart) (domain.ShippingRate, bool) {
	if !cart.HasStockableItems() || cart.SubtotalAmount < f.MinSubtotal {
		return domain.ShippingRate{}, false
	}

	return domain.ShippingRate{
		Carrier:      "free",
		CarrierTitle: "Free Shipping",
		Method:       "free_free",
		MethodTitle:  "Free Shipping",
		Amount:       0,
	}, true
}
