// Package purchase records bank-transfer and promo purchases and runs the
// admin approval workflow. A completed purchase is the only thing that grants
// course access.
package purchase

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/logger"
	"coursehub/models"
	"coursehub/models/course"
	"coursehub/services/notify"
	"coursehub/services/pricing"
	"coursehub/services/promo"
	"coursehub/utils"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Service struct {
	db             *gorm.DB
	promos         *promo.Service
	mailer         *notify.Mailer
	transferDigits int
	now            func() time.Time
}

func NewService(db *gorm.DB, promos *promo.Service, mailer *notify.Mailer, transferDigits int) *Service {
	return &Service{db: db, promos: promos, mailer: mailer, transferDigits: transferDigits, now: time.Now}
}

// RecordInput is a learner's purchase submission. PromoCode and PromoCodeID
// are alternatives; Amount, when sent, must match the server price.
type RecordInput struct {
	UserID           uint
	CourseID         uint
	PromoCodeID      *uint
	PromoCode        string
	Amount           *int64
	PaymentReference string
	TransferCode     string
}

func (s *Service) publishedCourse(ctx context.Context, courseID uint) (*course.Course, error) {
	var c course.Course
	err := s.db.WithContext(ctx).Where("id = ? AND is_published = ?", courseID, true).First(&c).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonCourseNotFound, "Course not found!")
		}
		return nil, apperror.Transient(err, "Failed to fetch course!")
	}
	return &c, nil
}

func (s *Service) resolvePromo(ctx context.Context, id *uint, code string) (*promo.Validated, error) {
	switch {
	case id != nil:
		return s.promos.ValidateID(ctx, *id)
	case strings.TrimSpace(code) != "":
		return s.promos.Validate(ctx, code)
	default:
		return nil, nil
	}
}

// Intent prices a course for the learner and issues a fresh transfer code.
// Nothing is persisted.
func (s *Service) Intent(ctx context.Context, courseID uint, promoCode string) (*pricing.Intent, error) {
	c, err := s.publishedCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	p, err := s.resolvePromo(ctx, nil, promoCode)
	if err != nil {
		return nil, err
	}
	intent := buildIntent(c, p, utils.GenerateTransferCode(s.transferDigits))
	return &intent, nil
}

func buildIntent(c *course.Course, p *promo.Validated, transferCode string) pricing.Intent {
	if p == nil {
		return pricing.BuildIntent(c.ID, c.Price, 0, nil, "", transferCode)
	}
	id := p.ID
	return pricing.BuildIntent(c.ID, c.Price, p.DiscountPercent, &id, p.Code, transferCode)
}

// Record creates the learner's purchase. Free purchases complete immediately;
// paid ones wait for admin approval. A second submission for the same course
// fails with Conflict/already_submitted.
func (s *Service) Record(ctx context.Context, in RecordInput) (*models.Purchase, error) {
	c, err := s.publishedCourse(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}
	p, err := s.resolvePromo(ctx, in.PromoCodeID, in.PromoCode)
	if err != nil {
		return nil, err
	}

	transferCode := strings.TrimSpace(in.TransferCode)
	if transferCode == "" {
		transferCode = utils.GenerateTransferCode(s.transferDigits)
	}
	intent := buildIntent(c, p, transferCode)

	if in.Amount != nil && *in.Amount != intent.FinalAmount {
		return nil, apperror.Validation(apperror.ReasonAmountMismatch, "Amount does not match the course price!")
	}

	reference := strings.TrimSpace(in.PaymentReference)
	if !intent.IsFree && reference == "" {
		return nil, apperror.ValidationFields(map[string]string{
			"payment_reference": "Payment reference is required for bank transfers!",
		})
	}

	purchase := models.Purchase{
		UserID:       in.UserID,
		CourseID:     c.ID,
		Amount:       intent.FinalAmount,
		TransferCode: transferCode,
		PromoCodeID:  intent.PromoCodeID,
		PurchasedAt:  s.now(),
	}
	if intent.IsFree {
		purchase.Status = models.PurchaseStatusCompleted
		purchase.PaymentMethod = models.PaymentMethodPromoCode
		purchase.PaymentID = transferCode
		if reference != "" {
			purchase.PaymentID = reference
		}
	} else {
		purchase.Status = models.PurchaseStatusPending
		purchase.PaymentMethod = models.PaymentMethodBankTransfer
		purchase.PaymentID = reference
	}

	if err := s.db.WithContext(ctx).Create(&purchase).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict(apperror.ReasonAlreadySubmitted, "You have already submitted a purchase for this course!")
		}
		return nil, apperror.Transient(err, "Failed to record purchase!")
	}

	// The purchase is durable at this point; the counter is best-effort.
	if purchase.PromoCodeID != nil {
		ok, err := s.promos.Redeem(ctx, *purchase.PromoCodeID)
		if err != nil {
			logger.Error("PURCHASE", err, "redeeming promo %d for purchase %d", *purchase.PromoCodeID, purchase.ID)
		} else if !ok {
			logger.Warn("PURCHASE", "Promo %d hit its usage limit before purchase %d was counted", *purchase.PromoCodeID, purchase.ID)
		}
	}

	logger.Info("PURCHASE", "User %d submitted purchase %d for course %d (%s, amount %d)",
		purchase.UserID, purchase.ID, purchase.CourseID, purchase.Status, purchase.Amount)
	return &purchase, nil
}

// Status returns "none", "pending" or "completed" for the learner and course.
func (s *Service) Status(ctx context.Context, userID, courseID uint) (string, error) {
	var p models.Purchase
	err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&p).Error
	if err != nil {
		if database.IsNotFound(err) {
			return "none", nil
		}
		return "", apperror.Transient(err, "Failed to fetch purchase!")
	}
	return string(p.Status), nil
}

// HasAccess reports whether the learner holds a completed purchase for the course.
func HasAccess(ctx context.Context, db *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Purchase{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.PurchaseStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, apperror.Transient(err, "Failed to check course access!")
	}
	return count > 0, nil
}

func (s *Service) HasAccess(ctx context.Context, userID, courseID uint) (bool, error) {
	return HasAccess(ctx, s.db, userID, courseID)
}
