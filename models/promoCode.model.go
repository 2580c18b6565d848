package models

import "time"

// PromoCode is a percentage discount redeemable on any course purchase.
// UsedCount never exceeds UsageLimit when a limit is set.
type PromoCode struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Code            string     `json:"code" gorm:"type:varchar(64);uniqueIndex;not null"`
	DiscountPercent int        `json:"discount_percent" gorm:"not null"`
	IsActive        bool       `json:"is_active" gorm:"not null"`
	UsageLimit      *int       `json:"usage_limit"`
	UsedCount       int        `json:"used_count" gorm:"default:0"`
	ExpiresAt       *time.Time `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (PromoCode) TableName() string {
	return "promo_codes"
}

// Exhausted reports whether a limited code has no redemptions left.
func (p PromoCode) Exhausted() bool {
	return p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit
}

// Expired reports whether the code's expiry is at or before now.
func (p PromoCode) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}
