package purchase

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/logger"
	"coursehub/models"
	"coursehub/models/course"
)

// Approve completes a pending purchase. Approving a completed purchase is a no-op.
func (s *Service) Approve(ctx context.Context, id uint) (*models.Purchase, error) {
	db := s.db.WithContext(ctx)

	var p models.Purchase
	if err := db.First(&p, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonPurchaseNotFound, "Purchase not found!")
		}
		return nil, apperror.Transient(err, "Failed to fetch purchase!")
	}
	if p.IsCompleted() {
		return &p, nil
	}

	res := db.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, models.PurchaseStatusPending).
		Updates(map[string]interface{}{"status": models.PurchaseStatusCompleted, "updated_at": s.now()})
	if res.Error != nil {
		return nil, apperror.Transient(res.Error, "Failed to approve purchase!")
	}
	p.Status = models.PurchaseStatusCompleted

	if res.RowsAffected == 1 {
		logger.Info("PURCHASE", "Approved purchase %d (user %d, course %d)", p.ID, p.UserID, p.CourseID)
		s.notifyApproved(ctx, p)
	}
	return &p, nil
}

func (s *Service) notifyApproved(ctx context.Context, p models.Purchase) {
	if s.mailer == nil {
		return
	}
	var user models.User
	var c course.Course
	if err := s.db.WithContext(ctx).First(&user, p.UserID).Error; err != nil {
		logger.Error("PURCHASE", err, "loading user %d for approval email", p.UserID)
		return
	}
	if err := s.db.WithContext(ctx).Unscoped().First(&c, p.CourseID).Error; err != nil {
		logger.Error("PURCHASE", err, "loading course %d for approval email", p.CourseID)
		return
	}
	s.mailer.PurchaseApproved(user.Email, user.Name, c.Title)
}

// Reject deletes a pending purchase so the learner can submit again. Completed
// purchases are final.
func (s *Service) Reject(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	res := db.Where("id = ? AND status = ?", id, models.PurchaseStatusPending).Delete(&models.Purchase{})
	if res.Error != nil {
		return apperror.Transient(res.Error, "Failed to reject purchase!")
	}
	if res.RowsAffected == 0 {
		var p models.Purchase
		if err := db.First(&p, id).Error; err != nil {
			if database.IsNotFound(err) {
				return apperror.NotFound(apperror.ReasonPurchaseNotFound, "Purchase not found!")
			}
			return apperror.Transient(err, "Failed to fetch purchase!")
		}
		return apperror.Conflict(apperror.ReasonPurchaseCompleted, "A completed purchase cannot be rejected!")
	}
	logger.Info("PURCHASE", "Rejected purchase %d", id)
	return nil
}
