package models

import "time"

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
)

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPromoCode    PaymentMethod = "promo_code"
)

// Purchase grants course access once completed. The (user_id, course_id)
// unique index is what makes duplicate submissions fail. Rejected purchases
// are hard-deleted so the learner can resubmit.
type Purchase struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_purchases_user_course"`
	CourseID      uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_purchases_user_course;index"`
	Amount        int64          `json:"amount" gorm:"not null"`
	PaymentMethod PaymentMethod  `json:"payment_method" gorm:"type:varchar(20);not null"`
	PaymentID     string         `json:"payment_id" gorm:"type:varchar(255)"`
	TransferCode  string         `json:"transfer_code" gorm:"type:varchar(16)"`
	Status        PurchaseStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	PromoCodeID   *uint          `json:"promo_code_id"`
	PurchasedAt   time.Time      `json:"purchased_at" gorm:"not null"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Purchase) TableName() string {
	return "purchases"
}

func (p Purchase) IsCompleted() bool {
	return p.Status == PurchaseStatusCompleted
}
