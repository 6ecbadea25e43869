package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/notesmarket/internal/validate"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodPayPal     PaymentMethod = "paypal"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "net_banking"
)

var PaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodPayPal,
	PaymentMethodUPI,
	PaymentMethodNetBanking,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("payment method[%s] is not valid", s)
	}
	return m, nil
}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

type LineItem struct {
	ID       string
	Title    string
	Price    decimal.Decimal
	Quantity int
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

type PaymentRequest struct {
	Amount   Money
	Method   PaymentMethod
	Items    []LineItem
	Customer Customer
}

// ExpectedAmount is the sum of price×quantity plus tax.
func ExpectedAmount(items []LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal.Add(Tax(subtotal))
}

// Validate returns a *ValidationError of kind ErrInvalidPayment, or nil.
func (r PaymentRequest) Validate() error {
	errs := validate.Errors{}

	errs.Check("items", len(r.Items) > 0, validate.RequiredMessage("items"))
	for i, item := range r.Items {
		field := fmt.Sprintf("items[%d]", i)
		errs.Check(field, validate.Required(item.ID), validate.RequiredMessage(field+".id"))
		errs.Check(field, item.Quantity > 0, fmt.Sprintf("The %s quantity must be at least 1.", field))
		errs.Check(field, !item.Price.IsNegative(), fmt.Sprintf("The %s price must not be negative.", field))
	}

	errs.Check("amount", r.Amount.Amount.IsPositive(), "The amount must be greater than 0.")
	if len(r.Items) > 0 {
		expected := ExpectedAmount(r.Items)
		errs.Check("amount", r.Amount.Amount.Equal(expected),
			fmt.Sprintf("The amount must equal %s.", expected.String()))
	}
	errs.Check("currency", r.Amount.Currency != currency.Unit{}, validate.RequiredMessage("currency"))

	errs.Check("method", r.Method.Valid(), "The selected method is invalid.")

	errs.Check("customer.name", validate.Required(r.Customer.Name), validate.RequiredMessage("customer.name"))
	errs.Check("customer.email", validate.Required(r.Customer.Email), validate.RequiredMessage("customer.email"))
	errs.Check("customer.email", validate.Email(r.Customer.Email), validate.EmailMessage("customer.email"))

	if errs.Has() {
		return &ValidationError{Kind: ErrInvalidPayment, Fields: errs}
	}
	return nil
}

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type FailureReason string

const (
	FailureInsufficientFunds FailureReason = "insufficient_funds"
	FailureCardDeclined      FailureReason = "card_declined"
	FailureNetworkTimeout    FailureReason = "network_timeout"
	FailureInvalidDetails    FailureReason = "invalid_details"
)

var FailureReasons = []FailureReason{
	FailureInsufficientFunds,
	FailureCardDeclined,
	FailureNetworkTimeout,
	FailureInvalidDetails,
}

func (r FailureReason) Message() string {
	switch r {
	case FailureInsufficientFunds:
		return "Insufficient funds. Please try another payment method."
	case FailureCardDeclined:
		return "Your payment was declined by the issuer."
	case FailureNetworkTimeout:
		return "The payment provider timed out. Please try again."
	case FailureInvalidDetails:
		return "The payment details are invalid."
	default:
		return "Payment failed."
	}
}

type PaymentResult struct {
	Status        PaymentStatus
	TransactionID string
	Method        PaymentMethod
	Amount        Money
	FailureReason FailureReason

	ProcessedAt time.Time
}

func (r PaymentResult) Succeeded() bool {
	return r.Status == PaymentStatusCompleted
}
