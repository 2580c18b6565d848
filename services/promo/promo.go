// Package promo validates and administers promo codes.
package promo

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/logger"
	"coursehub/models"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Validated is a code that may be applied to a purchase right now.
type Validated struct {
	ID              uint   `json:"id"`
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percent"`
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Normalize trims and uppercases a code; codes are case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate looks up code and checks usage limit, active flag and expiry, in that order.
// It never changes used_count.
func (s *Service) Validate(ctx context.Context, code string) (*Validated, error) {
	code = Normalize(code)
	if code == "" {
		return nil, apperror.ValidationFields(map[string]string{"code": "Promo code is required!"})
	}

	var p models.PromoCode
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&p).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonPromoNotFound, "Promo code not found!")
		}
		return nil, apperror.Transient(err, "Failed to look up promo code!")
	}
	return s.check(p)
}

// ValidateID applies the same checks to a code referenced by ID.
func (s *Service) ValidateID(ctx context.Context, id uint) (*Validated, error) {
	var p models.PromoCode
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonPromoNotFound, "Promo code not found!")
		}
		return nil, apperror.Transient(err, "Failed to look up promo code!")
	}
	return s.check(p)
}

func (s *Service) check(p models.PromoCode) (*Validated, error) {
	if p.Exhausted() {
		return nil, apperror.Conflict(apperror.ReasonLimitExceeded, "Promo code usage limit reached!")
	}
	if !p.IsActive {
		return nil, apperror.NotFound(apperror.ReasonPromoNotFound, "Promo code not found!")
	}
	if p.Expired(s.now()) {
		return nil, apperror.NotFound(apperror.ReasonPromoExpired, "Promo code has expired!")
	}
	return &Validated{ID: p.ID, Code: p.Code, DiscountPercent: p.DiscountPercent}, nil
}

// Redeem consumes one use of the code. The increment is conditional on the
// limit, so used_count never passes usage_limit; false means the code was
// exhausted by a concurrent redemption.
func (s *Service) Redeem(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", id).
		UpdateColumns(map[string]interface{}{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": s.now(),
		})
	if res.Error != nil {
		return false, apperror.Transient(res.Error, "Failed to redeem promo code!")
	}
	return res.RowsAffected == 1, nil
}

// DeactivateExpired switches off active codes whose expiry has passed.
func (s *Service) DeactivateExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, s.now()).
		UpdateColumns(map[string]interface{}{"is_active": false, "updated_at": s.now()})
	if res.Error != nil {
		return 0, apperror.Transient(res.Error, "Failed to deactivate expired promo codes!")
	}
	if res.RowsAffected > 0 {
		logger.Info("PROMO", "Deactivated %d expired promo codes", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
