package course

import (
	"time"

	"gorm.io/datatypes"
)

// QuizQuestion belongs to a lesson. CorrectOptionIndex is only ever served
// through admin and grading paths.
type QuizQuestion struct {
	ID                 uint                        `json:"id" gorm:"primaryKey"`
	LessonID           uint                        `json:"lesson_id" gorm:"index;not null"`
	Question           string                      `json:"question" gorm:"type:text;not null"`
	Options            datatypes.JSONSlice[string] `json:"options"`
	CorrectOptionIndex int                         `json:"correct_option_index" gorm:"not null"`
	OrderIndex         int                         `json:"order_index" gorm:"default:0"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

// QuizAttempt keeps the latest attempt per (user, lesson). A passed attempt is final.
type QuizAttempt struct {
	ID             uint                               `json:"id" gorm:"primaryKey"`
	UserID         uint                               `json:"user_id" gorm:"not null;uniqueIndex:idx_quiz_attempts_user_lesson"`
	LessonID       uint                               `json:"lesson_id" gorm:"not null;uniqueIndex:idx_quiz_attempts_user_lesson"`
	Score          int                                `json:"score"`
	TotalQuestions int                                `json:"total_questions"`
	Passed         bool                               `json:"passed" gorm:"default:false"`
	Answers        datatypes.JSONType[map[string]int] `json:"answers"`
	CompletedAt    time.Time                          `json:"completed_at"`
}
