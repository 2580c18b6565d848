package purchase

import (
	"context"
	"coursehub/apperror"
	"coursehub/models"
	"time"

	"github.com/jinzhu/now"
)

// Row is a purchase joined with the buyer and course for the admin list.
type Row struct {
	models.Purchase
	CourseTitle string `json:"course_title"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
}

type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// List returns purchases newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Row, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Purchase{})
	if f.Status != "" {
		q = q.Where("purchases.status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.Transient(err, "Failed to count purchases!")
	}

	var rows []Row
	err := q.Select("purchases.*, courses.title AS course_title, users.name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN courses ON courses.id = purchases.course_id").
		Joins("LEFT JOIN users ON users.id = purchases.user_id").
		Order("purchases.purchased_at DESC, purchases.id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, apperror.Transient(err, "Failed to fetch purchases!")
	}
	return rows, total, nil
}

// Summary is computed from the purchases table on every call.
type Summary struct {
	TotalRevenue        int64 `json:"total_revenue"`
	CompletedCount      int64 `json:"completed_count"`
	PendingRevenue      int64 `json:"pending_revenue"`
	PendingCount        int64 `json:"pending_count"`
	MonthToDateRevenue  int64 `json:"month_to_date_revenue"`
	MonthToDatePurchase int64 `json:"month_to_date_purchases"`
}

type totals struct {
	Count  int64
	Amount int64
}

func (s *Service) totals(ctx context.Context, status models.PurchaseStatus, since *time.Time) (totals, error) {
	var t totals
	q := s.db.WithContext(ctx).Model(&models.Purchase{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("status = ?", status)
	if since != nil {
		q = q.Where("purchased_at >= ?", *since)
	}
	err := q.Scan(&t).Error
	return t, err
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	completed, err := s.totals(ctx, models.PurchaseStatusCompleted, nil)
	if err != nil {
		return nil, apperror.Transient(err, "Failed to compute revenue!")
	}
	pending, err := s.totals(ctx, models.PurchaseStatusPending, nil)
	if err != nil {
		return nil, apperror.Transient(err, "Failed to compute revenue!")
	}
	monthStart := now.With(s.now()).BeginningOfMonth()
	month, err := s.totals(ctx, models.PurchaseStatusCompleted, &monthStart)
	if err != nil {
		return nil, apperror.Transient(err, "Failed to compute revenue!")
	}

	return &Summary{
		TotalRevenue:        completed.Amount,
		CompletedCount:      completed.Count,
		PendingRevenue:      pending.Amount,
		PendingCount:        pending.Count,
		MonthToDateRevenue:  month.Amount,
		MonthToDatePurchase: month.Count,
	}, nil
}

// CourseRevenue is one line of the per-course breakdown.
type CourseRevenue struct {
	CourseID         uint   `json:"course_id"`
	Title            string `json:"title"`
	CompletedSales   int64  `json:"completed_sales"`
	CompletedRevenue int64  `json:"completed_revenue"`
	PendingSales     int64  `json:"pending_sales"`
	PendingRevenue   int64  `json:"pending_revenue"`
}

// ByCourse lists every course with its sales, highest completed revenue first.
func (s *Service) ByCourse(ctx context.Context) ([]CourseRevenue, error) {
	var out []CourseRevenue
	err := s.db.WithContext(ctx).Table("courses").
		Select(`courses.id AS course_id, courses.title AS title,
			COALESCE(SUM(CASE WHEN purchases.status = ? THEN 1 ELSE 0 END), 0) AS completed_sales,
			COALESCE(SUM(CASE WHEN purchases.status = ? THEN purchases.amount ELSE 0 END), 0) AS completed_revenue,
			COALESCE(SUM(CASE WHEN purchases.status = ? THEN 1 ELSE 0 END), 0) AS pending_sales,
			COALESCE(SUM(CASE WHEN purchases.status = ? THEN purchases.amount ELSE 0 END), 0) AS pending_revenue`,
			models.PurchaseStatusCompleted, models.PurchaseStatusCompleted,
			models.PurchaseStatusPending, models.PurchaseStatusPending).
		Joins("LEFT JOIN purchases ON purchases.course_id = courses.id").
		Where("courses.deleted_at IS NULL").
		Group("courses.id, courses.title").
		Order("completed_revenue DESC, courses.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperror.Transient(err, "Failed to compute course revenue!")
	}
	return out, nil
}

// SendPendingDigest mails the admin a count of purchases awaiting approval.
func (s *Service) SendPendingDigest(ctx context.Context) error {
	pending, err := s.totals(ctx, models.PurchaseStatusPending, nil)
	if err != nil {
		return apperror.Transient(err, "Failed to compute pending purchases!")
	}
	if s.mailer != nil {
		s.mailer.PendingDigest(pending.Count, pending.Amount)
	}
	return nil
}
