// Package grading scores quiz and exam submissions against the answer key and
// issues certificates.
package grading

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/logger"
	"coursehub/models"
	"coursehub/models/course"
	"coursehub/services/notify"
	"coursehub/services/purchase"
	"coursehub/services/questions"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db                 *gorm.DB
	questions          *questions.Repository
	mailer             *notify.Mailer
	quizPassingPercent int
	now                func() time.Time
}

func NewService(db *gorm.DB, repo *questions.Repository, mailer *notify.Mailer, quizPassingPercent int) *Service {
	if quizPassingPercent <= 0 {
		quizPassingPercent = 70
	}
	return &Service{db: db, questions: repo, mailer: mailer, quizPassingPercent: quizPassingPercent, now: time.Now}
}

// Answers maps question ID to the chosen option index.
type Answers map[uint]int

// QuizThreshold is the number of correct answers needed: ceil(percent * total / 100).
func QuizThreshold(percent, total int) int {
	return (percent*total + 99) / 100
}

// Percentage is 100*score/total rounded half-up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}

func score(keys []questions.KeyedQuestion, answers Answers) int {
	n := 0
	for _, q := range keys {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectOptionIndex {
			n++
		}
	}
	return n
}

func (a Answers) stored() datatypes.JSONType[map[string]int] {
	m := make(map[string]int, len(a))
	for id, idx := range a {
		m[strconv.FormatUint(uint64(id), 10)] = idx
	}
	return datatypes.NewJSONType(m)
}

// QuizResult is the outcome of a lesson quiz submission.
type QuizResult struct {
	Score          int  `json:"score"`
	TotalQuestions int  `json:"total_questions"`
	Passed         bool `json:"passed"`
	// AlreadyPassed means an earlier passing attempt was kept and this submission was not recorded.
	AlreadyPassed bool `json:"already_passed"`
}

func fromAttempt(a course.QuizAttempt, alreadyPassed bool) *QuizResult {
	return &QuizResult{Score: a.Score, TotalQuestions: a.TotalQuestions, Passed: a.Passed, AlreadyPassed: alreadyPassed}
}

func (s *Service) lessonAccess(ctx context.Context, userID, lessonID uint) error {
	var lesson course.Lesson
	if err := s.db.WithContext(ctx).First(&lesson, lessonID).Error; err != nil {
		if database.IsNotFound(err) {
			return apperror.NotFound(apperror.ReasonLessonNotFound, "Lesson not found!")
		}
		return apperror.Transient(err, "Failed to fetch lesson!")
	}
	if lesson.IsPreview {
		return nil
	}
	ok, err := purchase.HasAccess(ctx, s.db, userID, lesson.CourseID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Forbidden(apperror.ReasonNotPurchased, "Purchase this course to take the quiz!")
	}
	return nil
}

// SubmitQuiz grades a lesson quiz and upserts the learner's attempt. A passed
// attempt is never overwritten.
func (s *Service) SubmitQuiz(ctx context.Context, userID, lessonID uint, answers Answers) (*QuizResult, error) {
	if err := s.lessonAccess(ctx, userID, lessonID); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var existing course.QuizAttempt
	err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&existing).Error
	if err == nil && existing.Passed {
		return fromAttempt(existing, true), nil
	}
	if err != nil && !database.IsNotFound(err) {
		return nil, apperror.Transient(err, "Failed to fetch quiz attempt!")
	}

	keys, err := s.questions.ListWithAnswers(ctx, questions.RoleGrader, questions.LessonQuiz(lessonID))
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, apperror.NotFound(apperror.ReasonNoQuestions, "This lesson has no quiz!")
	}

	correct := score(keys, answers)
	attempt := course.QuizAttempt{
		UserID:         userID,
		LessonID:       lessonID,
		Score:          correct,
		TotalQuestions: len(keys),
		Passed:         correct >= QuizThreshold(s.quizPassingPercent, len(keys)),
		Answers:        answers.stored(),
		CompletedAt:    s.now(),
	}

	// Only a failed attempt may be replaced.
	res := db.Model(&course.QuizAttempt{}).
		Where("user_id = ? AND lesson_id = ? AND passed = ?", userID, lessonID, false).
		Updates(map[string]interface{}{
			"score":           attempt.Score,
			"total_questions": attempt.TotalQuestions,
			"passed":          attempt.Passed,
			"answers":         attempt.Answers,
			"completed_at":    attempt.CompletedAt,
		})
	if res.Error != nil {
		return nil, apperror.Transient(res.Error, "Failed to save quiz attempt!")
	}
	if res.RowsAffected == 0 {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&attempt).Error
		if err != nil {
			return nil, apperror.Transient(err, "Failed to save quiz attempt!")
		}
	}

	var stored course.QuizAttempt
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&stored).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to fetch quiz attempt!")
	}
	if stored.Passed && !attempt.Passed {
		// a concurrent submission passed first
		return fromAttempt(stored, true), nil
	}
	return fromAttempt(stored, false), nil
}

// ExamResult is the outcome of a certificate exam submission.
type ExamResult struct {
	Passed         bool                `json:"passed"`
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	Percentage     int                 `json:"percentage"`
	PassingScore   int                 `json:"passing_score,omitempty"`
	IssuedAt       *time.Time          `json:"issued_at,omitempty"`
	Certificate    *course.Certificate `json:"certificate,omitempty"`
	// AlreadyCertified means the stored certificate was returned without grading.
	AlreadyCertified bool `json:"already_certified"`
}

func fromCertificate(cert *course.Certificate, already bool) *ExamResult {
	issued := cert.IssuedAt
	return &ExamResult{
		Passed:           true,
		Score:            cert.Score,
		TotalQuestions:   cert.TotalQuestions,
		Percentage:       Percentage(cert.Score, cert.TotalQuestions),
		IssuedAt:         &issued,
		Certificate:      cert,
		AlreadyCertified: already,
	}
}

// Certificate returns the learner's certificate for a course, or nil.
func (s *Service) Certificate(ctx context.Context, userID, courseID uint) (*course.Certificate, error) {
	var cert course.Certificate
	err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperror.Transient(err, "Failed to fetch certificate!")
	}
	return &cert, nil
}

// SubmitExam grades the course exam. An existing certificate short-circuits
// grading; a failed exam persists nothing.
func (s *Service) SubmitExam(ctx context.Context, userID, courseID uint, answers Answers, recipientName string) (*ExamResult, error) {
	recipientName = strings.Join(strings.Fields(recipientName), " ")
	if recipientName == "" {
		return nil, apperror.ValidationFields(map[string]string{"recipient_name": "Name on the certificate is required!"})
	}

	cert, err := s.Certificate(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if cert != nil {
		return fromCertificate(cert, true), nil
	}

	progress, err := s.eligibility(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if progress.reason != "" {
		return nil, apperror.Forbidden(progress.reason, progress.message())
	}

	exam, err := s.questions.Exam(ctx, courseID)
	if err != nil {
		return nil, err
	}
	keys, err := s.questions.ListWithAnswers(ctx, questions.RoleGrader, questions.CourseExam(courseID))
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, apperror.NotFound(apperror.ReasonNoQuestions, "This exam has no questions!")
	}

	correct := score(keys, answers)
	pct := Percentage(correct, len(keys))
	if pct < exam.PassingScore {
		return &ExamResult{
			Passed:         false,
			Score:          correct,
			TotalQuestions: len(keys),
			Percentage:     pct,
			PassingScore:   exam.PassingScore,
		}, nil
	}

	issued := s.now()
	cert = &course.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: newCertificateNumber(issued),
		RecipientName:     recipientName,
		Score:             correct,
		TotalQuestions:    len(keys),
		IssuedAt:          issued,
	}
	if err := s.db.WithContext(ctx).Create(cert).Error; err != nil {
		if database.IsUniqueViolation(err) {
			existing, lookupErr := s.Certificate(ctx, userID, courseID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if existing != nil {
				return fromCertificate(existing, true), nil
			}
		}
		return nil, apperror.Transient(err, "Failed to issue certificate!")
	}

	logger.Info("EXAM", "Issued certificate %s to user %d for course %d (%d%%)", cert.CertificateNumber, userID, courseID, pct)
	s.notifyIssued(ctx, cert, pct)
	return fromCertificate(cert, false), nil
}

func newCertificateNumber(issued time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("CERT-%d-%s", issued.Year(), id[:12])
}

func (s *Service) notifyIssued(ctx context.Context, cert *course.Certificate, pct int) {
	if s.mailer == nil {
		return
	}
	var user models.User
	var c course.Course
	if err := s.db.WithContext(ctx).First(&user, cert.UserID).Error; err != nil {
		logger.Error("EXAM", err, "loading user %d for certificate email", cert.UserID)
		return
	}
	if err := s.db.WithContext(ctx).First(&c, cert.CourseID).Error; err != nil {
		logger.Error("EXAM", err, "loading course %d for certificate email", cert.CourseID)
		return
	}
	s.mailer.CertificateIssued(user.Email, cert.RecipientName, c.Title, cert.CertificateNumber, pct)
}
