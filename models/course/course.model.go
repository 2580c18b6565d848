package course

import "gorm.io/gorm"

// Course represents a purchasable course in the catalog
type Course struct {
	gorm.Model
	Title            string `json:"title" gorm:"not null"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description" gorm:"type:text"`
	Author           string `json:"author"`
	Price            int64  `json:"price" gorm:"not null;default:0"` // whole currency units
	Category         string `json:"category" gorm:"index"`
	Level            string `json:"level"`
	DurationHours    int    `json:"duration_hours" gorm:"default:0"`
	LessonsCount     int    `json:"lessons_count" gorm:"default:0"`
	ThumbnailURL     string `json:"thumbnail_url"`
	IsPublished      bool   `json:"is_published" gorm:"default:false;index"`
}
