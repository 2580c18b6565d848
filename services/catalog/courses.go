// Package catalog manages courses and lessons: the public catalog and the
// admin editing screens.
package catalog

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/logger"
	"coursehub/models/course"
	"coursehub/utils"
	"strings"

	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	vimeo *utils.VimeoClient
}

// NewService builds the catalog. vimeo may be nil to skip duration lookups.
func NewService(db *gorm.DB, vimeo *utils.VimeoClient) *Service {
	return &Service{db: db, vimeo: vimeo}
}

type CourseInput struct {
	Title            string `json:"title" validate:"required,max=200"`
	ShortDescription string `json:"short_description" validate:"max=500"`
	Description      string `json:"description"`
	Author           string `json:"author"`
	Price            int64  `json:"price" validate:"min=0"`
	Category         string `json:"category"`
	Level            string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationHours    int    `json:"duration_hours" validate:"min=0"`
	ThumbnailURL     string `json:"thumbnail_url" validate:"omitempty,url"`
	IsPublished      bool   `json:"is_published"`
}

type CourseFilter struct {
	Category string
	Level    string
	Limit    int
	Offset   int
}

func courseNotFound() error {
	return apperror.NotFound(apperror.ReasonCourseNotFound, "Course not found!")
}

// ListPublished returns published courses, newest first.
func (s *Service) ListPublished(ctx context.Context, f CourseFilter) ([]course.Course, int64, error) {
	q := s.db.WithContext(ctx).Model(&course.Course{}).Where("is_published = ?", true)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.Transient(err, "Failed to count courses!")
	}
	courses := []course.Course{}
	if err := q.Order("created_at DESC, id DESC").Limit(f.Limit).Offset(f.Offset).Find(&courses).Error; err != nil {
		return nil, 0, apperror.Transient(err, "Failed to fetch courses!")
	}
	return courses, total, nil
}

// LessonOutline is a catalog view of a lesson. The video is only exposed for previews.
type LessonOutline struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	OrderIndex      int    `json:"order_index"`
	IsPreview       bool   `json:"is_preview"`
	VimeoVideoID    string `json:"vimeo_video_id,omitempty"`
}

type CourseDetail struct {
	course.Course
	Lessons []LessonOutline `json:"lessons"`
}

// PublishedCourse returns a published course with its lesson outline.
func (s *Service) PublishedCourse(ctx context.Context, id uint) (*CourseDetail, error) {
	var c course.Course
	if err := s.db.WithContext(ctx).Where("id = ? AND is_published = ?", id, true).First(&c).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, courseNotFound()
		}
		return nil, apperror.Transient(err, "Failed to fetch course!")
	}

	lessons, err := s.Lessons(ctx, id)
	if err != nil {
		return nil, err
	}
	outline := make([]LessonOutline, 0, len(lessons))
	for _, l := range lessons {
		o := LessonOutline{ID: l.ID, Title: l.Title, Description: l.Description, DurationMinutes: l.DurationMinutes, OrderIndex: l.OrderIndex, IsPreview: l.IsPreview}
		if l.IsPreview {
			o.VimeoVideoID = l.VimeoVideoID
		}
		outline = append(outline, o)
	}
	return &CourseDetail{Course: c, Lessons: outline}, nil
}

// Course returns any course, published or not.
func (s *Service) Course(ctx context.Context, id uint) (*course.Course, error) {
	var c course.Course
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, courseNotFound()
		}
		return nil, apperror.Transient(err, "Failed to fetch course!")
	}
	return &c, nil
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]course.Course, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&course.Course{}).Count(&total).Error; err != nil {
		return nil, 0, apperror.Transient(err, "Failed to count courses!")
	}
	courses := []course.Course{}
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&courses).Error; err != nil {
		return nil, 0, apperror.Transient(err, "Failed to fetch courses!")
	}
	return courses, total, nil
}

func (in CourseInput) apply(c *course.Course) {
	c.Title = strings.TrimSpace(in.Title)
	c.ShortDescription = in.ShortDescription
	c.Description = in.Description
	c.Author = in.Author
	c.Price = in.Price
	c.Category = in.Category
	c.Level = in.Level
	c.DurationHours = in.DurationHours
	c.ThumbnailURL = in.ThumbnailURL
	c.IsPublished = in.IsPublished
}

func (s *Service) CreateCourse(ctx context.Context, in CourseInput) (*course.Course, error) {
	var c course.Course
	in.apply(&c)
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to create course!")
	}
	logger.Info("CATALOG", "Created course %d %q", c.ID, c.Title)
	return &c, nil
}

func (s *Service) UpdateCourse(ctx context.Context, id uint, in CourseInput) (*course.Course, error) {
	c, err := s.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(c)
	if err := s.db.WithContext(ctx).Select("*").Omit("created_at", "deleted_at", "lessons_count").Updates(c).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to update course!")
	}
	return c, nil
}

// TogglePublish flips is_published.
func (s *Service) TogglePublish(ctx context.Context, id uint) (*course.Course, error) {
	c, err := s.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsPublished = !c.IsPublished
	if err := s.db.WithContext(ctx).Model(c).Update("is_published", c.IsPublished).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to update course!")
	}
	return c, nil
}

// DeleteCourse soft-deletes the course; purchases and certificates keep pointing at it.
func (s *Service) DeleteCourse(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&course.Course{}, id)
	if res.Error != nil {
		return apperror.Transient(res.Error, "Failed to delete course!")
	}
	if res.RowsAffected == 0 {
		return courseNotFound()
	}
	return nil
}
