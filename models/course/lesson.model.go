package course

import "time"

// Lesson is ordered within its course by OrderIndex.
type Lesson struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	CourseID        uint      `json:"course_id" gorm:"index;not null"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"type:text"`
	VimeoVideoID    string    `json:"vimeo_video_id" gorm:"type:varchar(32)"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:0"`
	OrderIndex      int       `json:"order_index" gorm:"index;default:0"`
	IsPreview       bool      `json:"is_preview" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LessonProgress tracks a learner's position in a course, one row per lesson.
type LessonProgress struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_lesson_progress_user_lesson"`
	LessonID      uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_lesson_progress_user_lesson"`
	CourseID      uint      `json:"course_id" gorm:"not null;index"`
	Completed     bool      `json:"completed" gorm:"default:false"`
	LastWatchedAt time.Time `json:"last_watched_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
