package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// TaxRate is applied to the cart subtotal.
var TaxRate = decimal.RequireFromString("0.1")

type Cart struct {
	Items    []CartItem
	Currency currency.Unit
}

type CartItem struct {
	ID       string
	Title    string
	Price    decimal.Decimal
	Seller   string
	Subject  string
	Quantity int

	AddedAt time.Time
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Totals struct {
	Items    int
	Subtotal Money
	Tax      Money
	Total    Money
}

// Tax returns the tax owed on subtotal.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

func (c Cart) Totals() Totals {
	count := 0
	subtotal := decimal.Zero

	for _, item := range c.Items {
		count += item.Quantity
		subtotal = subtotal.Add(item.LineTotal())
	}

	tax := Tax(subtotal)

	return Totals{
		Items:    count,
		Subtotal: NewMoney(subtotal, c.Currency),
		Tax:      NewMoney(tax, c.Currency),
		Total:    NewMoney(subtotal.Add(tax), c.Currency),
	}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
