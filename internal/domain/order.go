package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusFailed     OrderStatus = "failed"
)

type Order struct {
	ID            uuid.UUID
	TransactionID string
	Items         []LineItem
	Total         Money
	PaymentMethod PaymentMethod
	Status        OrderStatus

	Date time.Time
}
