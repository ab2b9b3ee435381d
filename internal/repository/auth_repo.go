package repository

import (
	"context"
	"time"

	"go-inventory-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthAuditRepository interface {
	RecordAttempt(ctx context.Context, attempt *model.LoginAttempt) error
	FindAttempts(ctx context.Context, filter model.AttemptFilter) ([]model.LoginAttempt, error)

	Revoke(ctx context.Context, token string, userID uint) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	FindRevoked(ctx context.Context, limit int) ([]model.RevokedTokenView, error)
	PurgeRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type authAuditRepo struct {
	db *gorm.DB
}

func NewAuthAuditRepo(db *gorm.DB) AuthAuditRepository {
	return &authAuditRepo{db}
}

func (r *authAuditRepo) RecordAttempt(ctx context.Context, attempt *model.LoginAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

// FindAttempts lists attempts newest first.
func (r *authAuditRepo) FindAttempts(ctx context.Context, filter model.AttemptFilter) ([]model.LoginAttempt, error) {
	q := r.db.WithContext(ctx).Model(&model.LoginAttempt{})
	if filter.Username != "" {
		q = q.Where("username = ?", filter.Username)
	}
	if filter.Succeeded != nil {
		q = q.Where("succeeded = ?", *filter.Succeeded)
	}
	attempts := []model.LoginAttempt{}
	err := q.Order("created_at DESC, id DESC").Limit(filter.Limit).Find(&attempts).Error
	return attempts, err
}

// Revoke blacklists token. Revoking the same token twice is a no-op.
func (r *authAuditRepo) Revoke(ctx context.Context, token string, userID uint) error {
	row := &model.RevokedToken{Token: token, RevokedBy: userID, RevokedAt: r.db.NowFunc()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(row).Error
}

func (r *authAuditRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RevokedToken{}).Where("token = ?", token).Count(&n).Error
	return n > 0, err
}

func (r *authAuditRepo) FindRevoked(ctx context.Context, limit int) ([]model.RevokedTokenView, error) {
	views := []model.RevokedTokenView{}
	err := r.db.WithContext(ctx).Table("revoked_tokens AS rt").
		Select("rt.id, rt.token, rt.revoked_at, u.username").
		Joins("JOIN users u ON u.id = rt.revoked_by").
		Order("rt.revoked_at DESC, rt.id DESC").
		Limit(limit).
		Scan(&views).Error
	return views, err
}

func (r *authAuditRepo) PurgeRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("revoked_at < ?", cutoff.UTC()).Delete(&model.RevokedToken{})
	return res.RowsAffected, res.Error
}
