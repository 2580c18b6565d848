// Package questions is the only way to read quiz and exam questions. Learner
// reads never select the answer key; keyed reads require an admin or the
// grading engine.
package questions

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/models"
	"coursehub/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoleGrader identifies the grading engine when it reads answer keys.
const RoleGrader = "GRADER"

type Kind string

const (
	KindQuiz Kind = "quiz"
	KindExam Kind = "exam"
)

// Ref names a question set: a lesson quiz or a course exam.
type Ref struct {
	Kind Kind
	ID   uint // lesson ID for quizzes, course ID for exams
}

func LessonQuiz(lessonID uint) Ref { return Ref{Kind: KindQuiz, ID: lessonID} }

func CourseExam(courseID uint) Ref { return Ref{Kind: KindExam, ID: courseID} }

// PublicQuestion is the learner-facing shape. It has no answer field.
type PublicQuestion struct {
	ID         uint                        `json:"id"`
	Question   string                      `json:"question"`
	Options    datatypes.JSONSlice[string] `json:"options"`
	OrderIndex int                         `json:"order_index"`
}

// KeyedQuestion carries the correct option and is never sent to learners.
type KeyedQuestion struct {
	ID                 uint                        `json:"id"`
	Question           string                      `json:"question"`
	Options            datatypes.JSONSlice[string] `json:"options"`
	CorrectOptionIndex int                         `json:"correct_option_index"`
	OrderIndex         int                         `json:"order_index"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// scope resolves the question table and parent filter for ref.
func (r *Repository) scope(ctx context.Context, ref Ref) (*gorm.DB, error) {
	db := r.db.WithContext(ctx)
	switch ref.Kind {
	case KindQuiz:
		return db.Model(&course.QuizQuestion{}).Where("lesson_id = ?", ref.ID), nil
	case KindExam:
		exam, err := r.Exam(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return db.Model(&course.ExamQuestion{}).Where("exam_id = ?", exam.ID), nil
	default:
		return nil, apperror.Validation(apperror.ReasonInvalidInput, "Unknown question set!")
	}
}

// ListForLearner returns the questions in order without the answer key.
func (r *Repository) ListForLearner(ctx context.Context, ref Ref) ([]PublicQuestion, error) {
	q, err := r.scope(ctx, ref)
	if err != nil {
		return nil, err
	}
	out := []PublicQuestion{}
	err = q.Select("id", "question", "options", "order_index").
		Order("order_index ASC, id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperror.Transient(err, "Failed to fetch questions!")
	}
	return out, nil
}

// ListWithAnswers returns the questions including the answer key. Only admins
// and the grading engine may call it.
func (r *Repository) ListWithAnswers(ctx context.Context, role string, ref Ref) ([]KeyedQuestion, error) {
	if role != models.RoleAdmin && role != RoleGrader {
		return nil, apperror.Forbidden(apperror.ReasonForbidden, "You do not have permission to view answers!")
	}
	q, err := r.scope(ctx, ref)
	if err != nil {
		return nil, err
	}
	out := []KeyedQuestion{}
	err = q.Select("id", "question", "options", "correct_option_index", "order_index").
		Order("order_index ASC, id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperror.Transient(err, "Failed to fetch questions!")
	}
	return out, nil
}

// Exam returns the certificate exam configured for a course.
func (r *Repository) Exam(ctx context.Context, courseID uint) (*course.CertificateExam, error) {
	var exam course.CertificateExam
	if err := r.db.WithContext(ctx).Where("course_id = ?", courseID).First(&exam).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonExamNotFound, "Exam not found for this course!")
		}
		return nil, apperror.Transient(err, "Failed to fetch exam!")
	}
	return &exam, nil
}

// Count returns the number of questions in the set.
func (r *Repository) Count(ctx context.Context, ref Ref) (int64, error) {
	q, err := r.scope(ctx, ref)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, apperror.Transient(err, "Failed to count questions!")
	}
	return n, nil
}
