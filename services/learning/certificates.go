package learning

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/models"
	"coursehub/models/course"
	"time"
)

// IssuedCertificate joins a certificate with its course title.
type IssuedCertificate struct {
	course.Certificate
	CourseTitle string `json:"course_title"`
}

func (s *Service) certificates(ctx context.Context, where string, args ...interface{}) ([]IssuedCertificate, error) {
	out := []IssuedCertificate{}
	err := s.db.WithContext(ctx).Model(&course.Certificate{}).
		Select("certificates.*, courses.title AS course_title").
		Joins("LEFT JOIN courses ON courses.id = certificates.course_id").
		Where(where, args...).
		Order("certificates.issued_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperror.Transient(err, "Failed to fetch certificates!")
	}
	return out, nil
}

// Certificates lists every certificate the learner holds.
func (s *Service) Certificates(ctx context.Context, userID uint) ([]IssuedCertificate, error) {
	return s.certificates(ctx, "certificates.user_id = ?", userID)
}

// Certificate returns the learner's certificate for one course.
func (s *Service) Certificate(ctx context.Context, userID, courseID uint) (*IssuedCertificate, error) {
	certs, err := s.certificates(ctx, "certificates.user_id = ? AND certificates.course_id = ?", userID, courseID)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, apperror.NotFound(apperror.ReasonCertificateNone, "Certificate not found!")
	}
	return &certs[0], nil
}

// Verification is the public view of a certificate.
type Verification struct {
	CertificateNumber string    `json:"certificate_number"`
	RecipientName     string    `json:"recipient_name"`
	CourseTitle       string    `json:"course_title"`
	IssuedAt          time.Time `json:"issued_at"`
	Score             int       `json:"score"`
	TotalQuestions    int       `json:"total_questions"`
}

func (s *Service) Verify(ctx context.Context, number string) (*Verification, error) {
	certs, err := s.certificates(ctx, "certificates.certificate_number = ?", number)
	if err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, apperror.NotFound(apperror.ReasonCertificateNone, "Certificate not found!")
	}
	c := certs[0]
	return &Verification{
		CertificateNumber: c.CertificateNumber,
		RecipientName:     c.RecipientName,
		CourseTitle:       c.CourseTitle,
		IssuedAt:          c.IssuedAt,
		Score:             c.Score,
		TotalQuestions:    c.TotalQuestions,
	}, nil
}

// UserCourseProgress is one row of the admin view of a learner.
type UserCourseProgress struct {
	CourseID     uint                  `json:"course_id"`
	CourseTitle  string                `json:"course_title"`
	Status       models.PurchaseStatus `json:"status"`
	Progress     *CourseProgress       `json:"progress"`
	QuizAttempts []course.QuizAttempt  `json:"quiz_attempts"`
	Certificate  *course.Certificate   `json:"certificate"`
}

// UserProgress reports a learner's standing in every course they bought.
func (s *Service) UserProgress(ctx context.Context, userID uint) (*models.User, []UserCourseProgress, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, nil, apperror.NotFound(apperror.ReasonUserNotFound, "User not found!")
		}
		return nil, nil, apperror.Transient(err, "Failed to fetch user!")
	}

	dashboard, err := s.Dashboard(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	out := make([]UserCourseProgress, 0, len(dashboard))
	for _, d := range dashboard {
		row := UserCourseProgress{CourseID: d.Course.ID, CourseTitle: d.Course.Title, Status: d.Status, Progress: d.Progress, QuizAttempts: []course.QuizAttempt{}}

		err := db.Where("user_id = ? AND lesson_id IN (?)", userID,
			db.Model(&course.Lesson{}).Select("id").Where("course_id = ?", d.Course.ID)).
			Order("completed_at DESC").Find(&row.QuizAttempts).Error
		if err != nil {
			return nil, nil, apperror.Transient(err, "Failed to fetch quiz attempts!")
		}

		if d.HasCertificate {
			var cert course.Certificate
			if err := db.Where("user_id = ? AND course_id = ?", userID, d.Course.ID).First(&cert).Error; err != nil {
				return nil, nil, apperror.Transient(err, "Failed to fetch certificate!")
			}
			row.Certificate = &cert
		}
		out = append(out, row)
	}
	return &user, out, nil
}
