package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type lineItemRecord struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type moneyRecord struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type orderRecord struct {
	ID            uuid.UUID        `json:"id"`
	TransactionID string           `json:"transactionId"`
	Items         []lineItemRecord `json:"items"`
	Total         moneyRecord      `json:"total"`
	PaymentMethod string           `json:"paymentMethod"`
	Status        string           `json:"status"`
	Date          time.Time        `json:"date"`
}

type orderRepository struct {
	kv port.KVStore
}

func NewOrder(kv port.KVStore) port.OrderRepository {
	return &orderRepository{kv: kv}
}

func (r *orderRepository) GetOrders(ctx context.Context) ([]domain.Order, error) {
	data, err := r.kv.Get(ctx, KeyOrders)
	if err != nil {
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	return decodeOrders(data)
}

// PrependOrder discards a corrupt persisted history rather than failing the
// write, so a completed checkout is never lost to a bad record.
func (r *orderRepository) PrependOrder(ctx context.Context, order domain.Order) ([]domain.Order, error) {
	var result []domain.Order

	err := r.kv.Update(ctx, KeyOrders, func(current []byte, found bool) ([]byte, error) {
		var existing []domain.Order
		if found {
			decoded, err := decodeOrders(current)
			if err == nil {
				existing = decoded
			}
		}

		result = append([]domain.Order{order}, existing...)

		data, err := json.Marshal(mapOrdersToRecords(result))
		if err != nil {
			return nil, fmt.Errorf("json.Marshal: %w", err)
		}

		return data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("kv.Update: %w", err)
	}

	return result, nil
}

func decodeOrders(data []byte) ([]domain.Order, error) {
	var records []orderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: json.Unmarshal: %w", port.ErrCorrupt, err)
	}

	orders, err := mapOrderRecordsToDomain(records)
	if err != nil {
		return nil, fmt.Errorf("%w: mapOrderRecordsToDomain: %w", port.ErrCorrupt, err)
	}

	return orders, nil
}

func mapOrderRecordToDomain(rec orderRecord) (domain.Order, error) {
	if rec.ID == uuid.Nil {
		return domain.Order{}, fmt.Errorf("id is empty")
	}

	parsedCurrency, err := currency.ParseISO(rec.Total.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", rec.Total.Currency, err)
	}

	method, err := domain.ParsePaymentMethod(rec.PaymentMethod)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ParsePaymentMethod: %w", err)
	}

	items := make([]domain.LineItem, 0, len(rec.Items))
	for _, item := range rec.Items {
		items = append(items, domain.LineItem{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	return domain.Order{
		ID:            rec.ID,
		TransactionID: rec.TransactionID,
		Items:         items,
		Total:         domain.Money{Amount: rec.Total.Amount, Currency: parsedCurrency},
		PaymentMethod: method,
		Status:        domain.OrderStatus(rec.Status),
		Date:          rec.Date,
	}, nil
}

func mapOrderRecordsToDomain(records []orderRecord) ([]domain.Order, error) {
	var orders []domain.Order

	for _, rec := range records {
		order, err := mapOrderRecordToDomain(rec)
		if err != nil {
			return nil, fmt.Errorf("mapOrderRecordToDomain: %w", err)
		}

		orders = append(orders, order)
	}

	return orders, nil
}

func mapOrdersToRecords(orders []domain.Order) []orderRecord {
	records := make([]orderRecord, 0, len(orders))

	for _, order := range orders {
		items := make([]lineItemRecord, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, lineItemRecord{
				ID:       item.ID,
				Title:    item.Title,
				Price:    item.Price,
				Quantity: item.Quantity,
			})
		}

		records = append(records, orderRecord{
			ID:            order.ID,
			TransactionID: order.TransactionID,
			Items:         items,
			Total:         moneyRecord{Amount: order.Total.Amount, Currency: order.Total.Currency.String()},
			PaymentMethod: string(order.PaymentMethod),
			Status:        string(order.Status),
			Date:          order.Date,
		})
	}

	return records
}
