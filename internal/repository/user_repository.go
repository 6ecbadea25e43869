package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/nikolayk812/notesmarket/internal/validate"
)

type userRecord struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}

type userRepository struct {
	kv port.KVStore
}

func NewUser(kv port.KVStore) port.UserRepository {
	return &userRepository{kv: kv}
}

func (r *userRepository) GetUser(ctx context.Context) (domain.User, error) {
	data, err := r.kv.Get(ctx, KeyUser)
	if err != nil {
		return domain.User{}, fmt.Errorf("kv.Get: %w", err)
	}

	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.User{}, fmt.Errorf("%w: json.Unmarshal: %w", port.ErrCorrupt, err)
	}

	user, err := mapUserRecordToDomain(rec)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: mapUserRecordToDomain: %w", port.ErrCorrupt, err)
	}

	return user, nil
}

func (r *userRepository) SaveUser(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(userRecord{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role.String(),
		Avatar:      user.Avatar,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.kv.Set(ctx, KeyUser, data); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeyUser); err != nil {
		return fmt.Errorf("kv.Delete: %w", err)
	}
	return nil
}

func mapUserRecordToDomain(rec userRecord) (domain.User, error) {
	if rec.ID == uuid.Nil {
		return domain.User{}, fmt.Errorf("id is empty")
	}

	if !validate.Email(rec.Email) {
		return domain.User{}, fmt.Errorf("email[%s] is not valid", rec.Email)
	}

	role, err := domain.ParseRole(rec.Role)
	if err != nil {
		return domain.User{}, fmt.Errorf("domain.ParseRole: %w", err)
	}

	return domain.User{
		ID:          rec.ID,
		Email:       rec.Email,
		Name:        rec.Name,
		Role:        role,
		Avatar:      rec.Avatar,
		CreatedAt:   rec.CreatedAt,
		LastLoginAt: rec.LastLoginAt,
	}, nil
}
