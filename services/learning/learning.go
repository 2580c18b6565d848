// Package learning covers what a learner does after buying: watching lessons,
// tracking progress and collecting certificates.
package learning

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/models"
	"coursehub/models/course"
	"coursehub/services/purchase"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// PlayerLesson is a lesson as the player shows it. Locked lessons carry no video.
type PlayerLesson struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	OrderIndex      int    `json:"order_index"`
	IsPreview       bool   `json:"is_preview"`
	Locked          bool   `json:"locked"`
	Completed       bool   `json:"completed"`
	VimeoVideoID    string `json:"vimeo_video_id,omitempty"`
}

// Lessons lists a published course's lessons for the learner with video
// references only where they have access.
func (s *Service) Lessons(ctx context.Context, userID, courseID uint) ([]PlayerLesson, bool, error) {
	db := s.db.WithContext(ctx)

	var c course.Course
	if err := db.Where("id = ? AND is_published = ?", courseID, true).First(&c).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, false, apperror.NotFound(apperror.ReasonCourseNotFound, "Course not found!")
		}
		return nil, false, apperror.Transient(err, "Failed to fetch course!")
	}

	access, err := purchase.HasAccess(ctx, s.db, userID, courseID)
	if err != nil {
		return nil, false, err
	}

	var lessons []course.Lesson
	if err := db.Where("course_id = ?", courseID).Order("order_index ASC, id ASC").Find(&lessons).Error; err != nil {
		return nil, false, apperror.Transient(err, "Failed to fetch lessons!")
	}

	var done []uint
	err = db.Model(&course.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Pluck("lesson_id", &done).Error
	if err != nil {
		return nil, false, apperror.Transient(err, "Failed to fetch progress!")
	}
	completed := make(map[uint]bool, len(done))
	for _, id := range done {
		completed[id] = true
	}

	out := make([]PlayerLesson, 0, len(lessons))
	for _, l := range lessons {
		pl := PlayerLesson{
			ID: l.ID, Title: l.Title, Description: l.Description, DurationMinutes: l.DurationMinutes,
			OrderIndex: l.OrderIndex, IsPreview: l.IsPreview, Completed: completed[l.ID],
			Locked: !access && !l.IsPreview,
		}
		if !pl.Locked {
			pl.VimeoVideoID = l.VimeoVideoID
		}
		out = append(out, pl)
	}
	return out, access, nil
}

// lessonFor loads a lesson and checks it belongs to the course and is unlocked.
func (s *Service) lessonFor(ctx context.Context, userID, courseID, lessonID uint) (*course.Lesson, error) {
	var l course.Lesson
	err := s.db.WithContext(ctx).Where("id = ? AND course_id = ?", lessonID, courseID).First(&l).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonLessonNotFound, "Lesson not found!")
		}
		return nil, apperror.Transient(err, "Failed to fetch lesson!")
	}
	if l.IsPreview {
		return &l, nil
	}
	ok, err := purchase.HasAccess(ctx, s.db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Forbidden(apperror.ReasonNotPurchased, "Purchase this course to watch this lesson!")
	}
	return &l, nil
}

// MarkProgress records that the learner opened or finished a lesson. Once
// completed, a lesson stays completed.
func (s *Service) MarkProgress(ctx context.Context, userID, courseID, lessonID uint, completed bool) (*course.LessonProgress, error) {
	if _, err := s.lessonFor(ctx, userID, courseID, lessonID); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	now := s.now()
	row := course.LessonProgress{UserID: userID, LessonID: lessonID, CourseID: courseID, Completed: completed, LastWatchedAt: now}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_watched_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, apperror.Transient(err, "Failed to save progress!")
	}
	if completed {
		err = db.Model(&course.LessonProgress{}).
			Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			Update("completed", true).Error
		if err != nil {
			return nil, apperror.Transient(err, "Failed to save progress!")
		}
	}

	var stored course.LessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&stored).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to fetch progress!")
	}
	return &stored, nil
}

// CourseProgress is the learner's position in a course.
type CourseProgress struct {
	CourseID          uint  `json:"course_id"`
	CompletedLessons  int64 `json:"completed_lessons"`
	TotalLessons      int64 `json:"total_lessons"`
	Percent           int   `json:"percent"`
	LastWatchedLesson *uint `json:"last_watched_lesson_id"`
}

func (s *Service) Progress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	db := s.db.WithContext(ctx)
	p := CourseProgress{CourseID: courseID}

	if err := db.Model(&course.Lesson{}).Where("course_id = ?", courseID).Count(&p.TotalLessons).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to count lessons!")
	}
	err := db.Model(&course.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Where("lesson_id IN (?)", db.Model(&course.Lesson{}).Select("id").Where("course_id = ?", courseID)).
		Count(&p.CompletedLessons).Error
	if err != nil {
		return nil, apperror.Transient(err, "Failed to count completed lessons!")
	}
	if p.TotalLessons > 0 {
		p.Percent = int(p.CompletedLessons * 100 / p.TotalLessons)
	}

	var last course.LessonProgress
	err = db.Where("user_id = ? AND course_id = ?", userID, courseID).Order("last_watched_at DESC").First(&last).Error
	switch {
	case err == nil:
		p.LastWatchedLesson = &last.LessonID
	case !database.IsNotFound(err):
		return nil, apperror.Transient(err, "Failed to fetch progress!")
	}
	return &p, nil
}

// DashboardCourse is one purchased course on the learner dashboard.
type DashboardCourse struct {
	Course         course.Course         `json:"course"`
	Status         models.PurchaseStatus `json:"status"`
	PurchasedAt    time.Time             `json:"purchased_at"`
	Progress       *CourseProgress       `json:"progress"`
	HasCertificate bool                  `json:"has_certificate"`
}

// Dashboard lists the learner's purchases, newest first.
func (s *Service) Dashboard(ctx context.Context, userID uint) ([]DashboardCourse, error) {
	db := s.db.WithContext(ctx)

	var purchases []models.Purchase
	if err := db.Where("user_id = ?", userID).Order("purchased_at DESC").Find(&purchases).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to fetch purchases!")
	}

	out := make([]DashboardCourse, 0, len(purchases))
	for _, p := range purchases {
		var c course.Course
		if err := db.Unscoped().First(&c, p.CourseID).Error; err != nil {
			if database.IsNotFound(err) {
				continue
			}
			return nil, apperror.Transient(err, "Failed to fetch course!")
		}
		progress, err := s.Progress(ctx, userID, p.CourseID)
		if err != nil {
			return nil, err
		}
		var certs int64
		if err := db.Model(&course.Certificate{}).Where("user_id = ? AND course_id = ?", userID, p.CourseID).Count(&certs).Error; err != nil {
			return nil, apperror.Transient(err, "Failed to fetch certificates!")
		}
		out = append(out, DashboardCourse{Course: c, Status: p.Status, PurchasedAt: p.PurchasedAt, Progress: progress, HasCertificate: certs > 0})
	}
	return out, nil
}

// CheckLessonAccess resolves a lesson and confirms the learner may open it.
func (s *Service) CheckLessonAccess(ctx context.Context, userID, lessonID uint) (*course.Lesson, error) {
	var l course.Lesson
	if err := s.db.WithContext(ctx).First(&l, lessonID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonLessonNotFound, "Lesson not found!")
		}
		return nil, apperror.Transient(err, "Failed to fetch lesson!")
	}
	return s.lessonFor(ctx, userID, l.CourseID, l.ID)
}
