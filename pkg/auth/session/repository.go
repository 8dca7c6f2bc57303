package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/scootershop-backend/pkg/db/models"
	"github.com/angelmondragon/scootershop-backend/pkg/enums"
)

// Repository persists sessions through GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, sess *models.Session) error {
	return r.db.WithContext(ctx).Create(sess).Error
}

// FindActive joins the owning user so role checks need no second query.
func (r *Repository) FindActive(ctx context.Context, token string, now time.Time) (*Principal, error) {
	var row struct {
		Token     string
		UserID    uint64
		Role      string
		ExpiresAt time.Time
	}
	err := r.db.WithContext(ctx).
		Table("sessions").
		Select("sessions.token, sessions.user_id, users.role, sessions.expires_at").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.token = ? AND sessions.expires_at > ?", token, now).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Principal{
		Token:     row.Token,
		UserID:    row.UserID,
		Role:      enums.UserRole(row.Role),
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *Repository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

// PruneUser keeps the newest keep sessions for userID and deletes the rest.
func (r *Repository) PruneUser(ctx context.Context, userID uint64, keep int) (int64, error) {
	newest := r.db.Model(&models.Session{}).
		Select("token").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("token DESC").
		Limit(keep)
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND token NOT IN (?)", userID, newest).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
