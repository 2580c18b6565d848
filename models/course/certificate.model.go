package course

import (
	"time"

	"gorm.io/datatypes"
)

// CertificateExam is the single course-level exam that gates certificates.
type CertificateExam struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CourseID     uint      `json:"course_id" gorm:"uniqueIndex;not null"`
	PassingScore int       `json:"passing_score" gorm:"not null;default:70"` // percent
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExamQuestion mirrors QuizQuestion for certificate exams.
type ExamQuestion struct {
	ID                 uint                        `json:"id" gorm:"primaryKey"`
	ExamID             uint                        `json:"exam_id" gorm:"index;not null"`
	Question           string                      `json:"question" gorm:"type:text;not null"`
	Options            datatypes.JSONSlice[string] `json:"options"`
	CorrectOptionIndex int                         `json:"correct_option_index" gorm:"not null"`
	OrderIndex         int                         `json:"order_index" gorm:"default:0"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

func (ExamQuestion) TableName() string {
	return "certificate_exam_questions"
}

// Certificate is issued at most once per (user, course) and never modified.
type Certificate struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	CertificateNumber string    `json:"certificate_number" gorm:"type:varchar(64);uniqueIndex;not null"`
	RecipientName     string    `json:"recipient_name" gorm:"not null"`
	Score             int       `json:"score"`
	TotalQuestions    int       `json:"total_questions"`
	IssuedAt          time.Time `json:"issued_at" gorm:"not null"`
}
