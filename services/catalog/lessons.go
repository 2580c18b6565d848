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

type LessonInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description"`
	VimeoVideo      string `json:"vimeo_video_id"` // ID or URL
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
	IsPreview       bool   `json:"is_preview"`
}

func lessonNotFound() error {
	return apperror.NotFound(apperror.ReasonLessonNotFound, "Lesson not found!")
}

// Lessons returns a course's lessons in order.
func (s *Service) Lessons(ctx context.Context, courseID uint) ([]course.Lesson, error) {
	lessons := []course.Lesson{}
	err := s.db.WithContext(ctx).Where("course_id = ?", courseID).Order("order_index ASC, id ASC").Find(&lessons).Error
	if err != nil {
		return nil, apperror.Transient(err, "Failed to fetch lessons!")
	}
	return lessons, nil
}

func (s *Service) Lesson(ctx context.Context, id uint) (*course.Lesson, error) {
	var l course.Lesson
	if err := s.db.WithContext(ctx).First(&l, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, lessonNotFound()
		}
		return nil, apperror.Transient(err, "Failed to fetch lesson!")
	}
	return &l, nil
}

// lookupDuration fills a missing duration from Vimeo. Failures only log.
func (s *Service) lookupDuration(ctx context.Context, l *course.Lesson) {
	if s.vimeo == nil || l.DurationMinutes > 0 || l.VimeoVideoID == "" {
		return
	}
	minutes, err := s.vimeo.DurationMinutes(ctx, l.VimeoVideoID)
	if err != nil {
		logger.Warn("CATALOG", "Vimeo duration lookup for %s failed: %v", l.VimeoVideoID, err)
		return
	}
	l.DurationMinutes = minutes
}

func syncLessonCount(tx *gorm.DB, courseID uint) error {
	var n int64
	if err := tx.Model(&course.Lesson{}).Where("course_id = ?", courseID).Count(&n).Error; err != nil {
		return err
	}
	return tx.Model(&course.Course{}).Where("id = ?", courseID).Update("lessons_count", n).Error
}

// renumber writes 0..n-1 into order_index following the slice order.
func renumber(tx *gorm.DB, lessons []course.Lesson) error {
	for i, l := range lessons {
		if l.OrderIndex == i {
			continue
		}
		if err := tx.Model(&course.Lesson{}).Where("id = ?", l.ID).Update("order_index", i).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateLesson appends a lesson after the course's last one.
func (s *Service) CreateLesson(ctx context.Context, courseID uint, in LessonInput) (*course.Lesson, error) {
	if _, err := s.Course(ctx, courseID); err != nil {
		return nil, err
	}

	l := course.Lesson{
		CourseID:        courseID,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		VimeoVideoID:    utils.ExtractVimeoID(in.VimeoVideo),
		DurationMinutes: in.DurationMinutes,
		IsPreview:       in.IsPreview,
	}
	s.lookupDuration(ctx, &l)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&course.Lesson{}).Where("course_id = ?", courseID).
			Select("COALESCE(MAX(order_index) + 1, 0)").Scan(&next).Error; err != nil {
			return err
		}
		l.OrderIndex = next
		if err := tx.Create(&l).Error; err != nil {
			return err
		}
		return syncLessonCount(tx, courseID)
	})
	if err != nil {
		return nil, apperror.Transient(err, "Failed to create lesson!")
	}
	return &l, nil
}

func (s *Service) UpdateLesson(ctx context.Context, id uint, in LessonInput) (*course.Lesson, error) {
	l, err := s.Lesson(ctx, id)
	if err != nil {
		return nil, err
	}

	l.Title = strings.TrimSpace(in.Title)
	l.Description = in.Description
	l.VimeoVideoID = utils.ExtractVimeoID(in.VimeoVideo)
	l.DurationMinutes = in.DurationMinutes
	l.IsPreview = in.IsPreview
	s.lookupDuration(ctx, l)

	err = s.db.WithContext(ctx).Model(l).
		Select("title", "description", "vimeo_video_id", "duration_minutes", "is_preview", "updated_at").
		Updates(l).Error
	if err != nil {
		return nil, apperror.Transient(err, "Failed to update lesson!")
	}
	return l, nil
}

// DeleteLesson removes a lesson with its quiz and progress rows.
func (s *Service) DeleteLesson(ctx context.Context, id uint) error {
	l, err := s.Lesson(ctx, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&course.QuizQuestion{}, &course.QuizAttempt{}, &course.LessonProgress{}} {
			if err := tx.Where("lesson_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&course.Lesson{}, id).Error; err != nil {
			return err
		}
		var rest []course.Lesson
		if err := tx.Where("course_id = ?", l.CourseID).Order("order_index ASC, id ASC").Find(&rest).Error; err != nil {
			return err
		}
		if err := renumber(tx, rest); err != nil {
			return err
		}
		return syncLessonCount(tx, l.CourseID)
	})
	if err != nil {
		return apperror.Transient(err, "Failed to delete lesson!")
	}
	return nil
}

// MoveLesson swaps a lesson with its neighbour and leaves the course densely
// numbered. Moving past either end is a no-op.
func (s *Service) MoveLesson(ctx context.Context, id uint, direction string) ([]course.Lesson, error) {
	if direction != "up" && direction != "down" {
		return nil, apperror.ValidationFields(map[string]string{"direction": "Direction must be up or down!"})
	}
	l, err := s.Lesson(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lessons []course.Lesson
		if err := tx.Where("course_id = ?", l.CourseID).Order("order_index ASC, id ASC").Find(&lessons).Error; err != nil {
			return err
		}
		pos := -1
		for i := range lessons {
			if lessons[i].ID == id {
				pos = i
			}
		}
		target := pos - 1
		if direction == "down" {
			target = pos + 1
		}
		if pos < 0 || target < 0 || target >= len(lessons) {
			return nil
		}

		lessons[pos], lessons[target] = lessons[target], lessons[pos]
		return renumber(tx, lessons)
	})
	if err != nil {
		return nil, apperror.Transient(err, "Failed to reorder lessons!")
	}
	return s.Lessons(ctx, l.CourseID)
}
