// Package tests holds database fixtures shared by package tests.
package tests

import (
	"coursehub/config"
	"coursehub/database"
	"coursehub/models"
	"coursehub/models/course"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// OpenDB returns a migrated in-memory SQLite database private to the test.
// A single connection serializes concurrent callers the way row locks would.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	if config.AppConfig == nil {
		config.AppConfig = config.Defaults()
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	u := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// SeedCourse creates a published course.
func SeedCourse(t *testing.T, db *gorm.DB, title string, price int64) course.Course {
	t.Helper()
	c := course.Course{Title: title, Price: price, Category: "dev", Level: "beginner", IsPublished: true}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// SeedLessons appends n lessons to the course, the first one a preview.
func SeedLessons(t *testing.T, db *gorm.DB, courseID uint, n int) []course.Lesson {
	t.Helper()
	lessons := make([]course.Lesson, 0, n)
	for i := 0; i < n; i++ {
		l := course.Lesson{
			CourseID:        courseID,
			Title:           fmt.Sprintf("Lesson %d", i+1),
			OrderIndex:      i,
			DurationMinutes: 10,
			VimeoVideoID:    fmt.Sprintf("%d", 1000+i),
			IsPreview:       i == 0,
		}
		require.NoError(t, db.Create(&l).Error)
		lessons = append(lessons, l)
	}
	require.NoError(t, db.Model(&course.Course{}).Where("id = ?", courseID).Update("lessons_count", n).Error)
	return lessons
}

func SeedPromo(t *testing.T, db *gorm.DB, code string, percent int, limit *int, used int) models.PromoCode {
	t.Helper()
	p := models.PromoCode{Code: code, DiscountPercent: percent, IsActive: true, UsageLimit: limit, UsedCount: used}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// SeedPurchase inserts a purchase directly with the given status.
func SeedPurchase(t *testing.T, db *gorm.DB, userID, courseID uint, status models.PurchaseStatus) models.Purchase {
	t.Helper()
	p := models.Purchase{
		UserID:        userID,
		CourseID:      courseID,
		Amount:        1000,
		PaymentMethod: models.PaymentMethodBankTransfer,
		PaymentID:     "seed",
		Status:        status,
		PurchasedAt:   time.Now(),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// SeedQuiz adds n four-option questions; question i has correct index i%4.
func SeedQuiz(t *testing.T, db *gorm.DB, lessonID uint, n int) []course.QuizQuestion {
	t.Helper()
	qs := make([]course.QuizQuestion, 0, n)
	for i := 0; i < n; i++ {
		q := course.QuizQuestion{
			LessonID:           lessonID,
			Question:           fmt.Sprintf("Question %d?", i+1),
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: i % 4,
			OrderIndex:         i,
		}
		require.NoError(t, db.Create(&q).Error)
		qs = append(qs, q)
	}
	return qs
}

// SeedExam creates the course exam with n questions; question i has correct index i%4.
func SeedExam(t *testing.T, db *gorm.DB, courseID uint, passingScore, n int) (course.CertificateExam, []course.ExamQuestion) {
	t.Helper()
	exam := course.CertificateExam{CourseID: courseID, PassingScore: passingScore}
	require.NoError(t, db.Create(&exam).Error)

	qs := make([]course.ExamQuestion, 0, n)
	for i := 0; i < n; i++ {
		q := course.ExamQuestion{
			ExamID:             exam.ID,
			Question:           fmt.Sprintf("Exam question %d?", i+1),
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: i % 4,
			OrderIndex:         i,
		}
		require.NoError(t, db.Create(&q).Error)
		qs = append(qs, q)
	}
	return exam, qs
}

// CompleteLessons marks every given lesson completed for the user.
func CompleteLessons(t *testing.T, db *gorm.DB, userID uint, lessons []course.Lesson) {
	t.Helper()
	for _, l := range lessons {
		p := course.LessonProgress{UserID: userID, LessonID: l.ID, CourseID: l.CourseID, Completed: true, LastWatchedAt: time.Now()}
		require.NoError(t, db.Create(&p).Error)
	}
}

// Answers answers the first `correct` questions right and the rest wrong.
// ids and keys are parallel slices of question IDs and correct indices.
func Answers(ids []uint, keys []int, correct int) map[uint]int {
	out := make(map[uint]int, len(ids))
	for i, id := range ids {
		if i < correct {
			out[id] = keys[i]
		} else {
			out[id] = (keys[i] + 1) % 4
		}
	}
	return out
}

func QuizAnswers(qs []course.QuizQuestion, correct int) map[uint]int {
	ids, keys := make([]uint, len(qs)), make([]int, len(qs))
	for i, q := range qs {
		ids[i], keys[i] = q.ID, q.CorrectOptionIndex
	}
	return Answers(ids, keys, correct)
}

func ExamAnswers(qs []course.ExamQuestion, correct int) map[uint]int {
	ids, keys := make([]uint, len(qs)), make([]int, len(qs))
	for i, q := range qs {
		ids[i], keys[i] = q.ID, q.CorrectOptionIndex
	}
	return Answers(ids, keys, correct)
}

func IntPtr(v int) *int { return &v }
