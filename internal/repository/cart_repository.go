package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/shopspring/decimal"
)

type cartItemRecord struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Seller   string          `json:"seller"`
	Subject  string          `json:"subject"`
	Quantity int             `json:"quantity"`
	AddedAt  time.Time       `json:"addedAt"`
}

type cartRepository struct {
	kv port.KVStore
}

func NewCart(kv port.KVStore) port.CartRepository {
	return &cartRepository{kv: kv}
}

// GetCart returns nil items when nothing is persisted and an error wrapping
// port.ErrCorrupt when the persisted value cannot be decoded.
func (r *cartRepository) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	data, err := r.kv.Get(ctx, KeyCart)
	if err != nil {
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	var records []cartItemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: json.Unmarshal: %w", port.ErrCorrupt, err)
	}

	items, err := mapCartRecordsToDomain(records)
	if err != nil {
		return nil, fmt.Errorf("%w: mapCartRecordsToDomain: %w", port.ErrCorrupt, err)
	}

	return items, nil
}

func (r *cartRepository) SaveCart(ctx context.Context, items []domain.CartItem) error {
	data, err := json.Marshal(mapCartItemsToRecords(items))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.kv.Set(ctx, KeyCart, data); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

func mapCartRecordToDomain(rec cartItemRecord) (domain.CartItem, error) {
	if rec.ID == "" {
		return domain.CartItem{}, fmt.Errorf("id is empty")
	}
	if rec.Quantity < 1 {
		return domain.CartItem{}, fmt.Errorf("item[%s] quantity[%d] is not positive", rec.ID, rec.Quantity)
	}
	if rec.Price.IsNegative() {
		return domain.CartItem{}, fmt.Errorf("item[%s] price[%s] is negative", rec.ID, rec.Price)
	}

	return domain.CartItem{
		ID:       rec.ID,
		Title:    rec.Title,
		Price:    rec.Price,
		Seller:   rec.Seller,
		Subject:  rec.Subject,
		Quantity: rec.Quantity,
		AddedAt:  rec.AddedAt,
	}, nil
}

func mapCartRecordsToDomain(records []cartItemRecord) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, rec := range records {
		item, err := mapCartRecordToDomain(rec)
		if err != nil {
			return nil, fmt.Errorf("mapCartRecordToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func mapCartItemsToRecords(items []domain.CartItem) []cartItemRecord {
	records := make([]cartItemRecord, 0, len(items))

	for _, item := range items {
		records = append(records, cartItemRecord{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Seller:   item.Seller,
			Subject:  item.Subject,
			Quantity: item.Quantity,
			AddedAt:  item.AddedAt,
		})
	}

	return records
}
