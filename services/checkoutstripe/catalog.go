package checkoutstripe

import (
	"fmt"

	"github.com/skysightdata/checkout/lib/myerrors"
)

const DefaultProductUID = "roof_report"

type Product struct {
	UID        string
	Name       string
	Currency   string
	UnitAmount int64
}

func (p Product) Price() Amount {
	return Amount{Currency: p.Currency, Value: p.UnitAmount}
}

// catalog is the allow-list of what can be bought. Prices never come from the caller.
var catalog = map[string]Product{
	DefaultProductUID: {
		UID:        DefaultProductUID,
		Name:       "Roof Report",
		Currency:   "usd",
		UnitAmount: 1500,
	},
}

func lookupProduct(uid string) (Product, error) {
	if uid == "" {
		uid = DefaultProductUID
	}
	product, found := catalog[uid]
	if !found {
		return Product{}, myerrors.NewInvalidInputError(fmt.Errorf("unknown product '%s'", uid))
	}
	return product, nil
}
