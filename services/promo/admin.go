package promo

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/models"
	"time"
)

// Input is the admin-editable part of a promo code.
type Input struct {
	Code            string     `json:"code" validate:"required,max=64"`
	DiscountPercent int        `json:"discount_percent" validate:"required,min=1,max=100"`
	IsActive        *bool      `json:"is_active"`
	UsageLimit      *int       `json:"usage_limit" validate:"omitempty,min=1"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

func (s *Service) List(ctx context.Context) ([]models.PromoCode, error) {
	var codes []models.PromoCode
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&codes).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to fetch promo codes!")
	}
	return codes, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*models.PromoCode, error) {
	p := models.PromoCode{
		Code:            Normalize(in.Code),
		DiscountPercent: in.DiscountPercent,
		IsActive:        in.IsActive == nil || *in.IsActive,
		UsageLimit:      in.UsageLimit,
		ExpiresAt:       in.ExpiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict(apperror.ReasonPromoCodeExists, "Promo code already exists!")
		}
		return nil, apperror.Transient(err, "Failed to create promo code!")
	}
	return &p, nil
}

func (s *Service) get(ctx context.Context, id uint) (*models.PromoCode, error) {
	var p models.PromoCode
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonPromoNotFound, "Promo code not found!")
		}
		return nil, apperror.Transient(err, "Failed to fetch promo code!")
	}
	return &p, nil
}

// Update replaces the editable fields. used_count is left alone.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*models.PromoCode, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Code = Normalize(in.Code)
	p.DiscountPercent = in.DiscountPercent
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.UsageLimit = in.UsageLimit
	p.ExpiresAt = in.ExpiresAt

	err = s.db.WithContext(ctx).Model(p).Select("code", "discount_percent", "is_active", "usage_limit", "expires_at", "updated_at").Updates(p).Error
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict(apperror.ReasonPromoCodeExists, "Promo code already exists!")
		}
		return nil, apperror.Transient(err, "Failed to update promo code!")
	}
	return p, nil
}

// Toggle flips is_active.
func (s *Service) Toggle(ctx context.Context, id uint) (*models.PromoCode, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = !p.IsActive
	if err := s.db.WithContext(ctx).Model(p).Update("is_active", p.IsActive).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to update promo code!")
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.PromoCode{}, id)
	if res.Error != nil {
		return apperror.Transient(res.Error, "Failed to delete promo code!")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(apperror.ReasonPromoNotFound, "Promo code not found!")
	}
	return nil
}
