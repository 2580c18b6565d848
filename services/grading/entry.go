package grading

import (
	"context"
	"coursehub/apperror"
	"coursehub/models/course"
	"coursehub/services/purchase"
	"coursehub/services/questions"
	"fmt"
)

type EntryKind string

const (
	EntryNotEligible EntryKind = "not_eligible"
	EntryEligible    EntryKind = "eligible"
	EntryCertified   EntryKind = "certified"
)

// EntryState is what the learner sees when opening the course exam. Exactly
// one of NotEligible, Eligible and Certified is set, matching State.
type EntryState struct {
	State       EntryKind    `json:"state"`
	NotEligible *NotEligible `json:"not_eligible,omitempty"`
	Eligible    *Eligible    `json:"eligible,omitempty"`
	Certified   *Certified   `json:"certified,omitempty"`
}

type NotEligible struct {
	Reason           string `json:"reason"`
	CompletedLessons int64  `json:"completed_lessons"`
	TotalLessons     int64  `json:"total_lessons"`
}

type Eligible struct {
	PassingScore  int   `json:"passing_score"`
	QuestionCount int64 `json:"question_count"`
}

type Certified struct {
	Certificate *course.Certificate `json:"certificate"`
	Percentage  int                 `json:"percentage"`
}

type courseProgress struct {
	completed int64
	total     int64
	reason    string
}

func (p courseProgress) message() string {
	if p.reason == apperror.ReasonNotPurchased {
		return "Purchase this course to take the exam!"
	}
	return fmt.Sprintf("Complete all lessons to unlock the exam (%d/%d done)!", p.completed, p.total)
}

// eligibility requires a completed purchase and every lesson of a non-empty
// course to be completed.
func (s *Service) eligibility(ctx context.Context, userID, courseID uint) (courseProgress, error) {
	var p courseProgress

	ok, err := purchase.HasAccess(ctx, s.db, userID, courseID)
	if err != nil {
		return p, err
	}

	db := s.db.WithContext(ctx)
	if err := db.Model(&course.Lesson{}).Where("course_id = ?", courseID).Count(&p.total).Error; err != nil {
		return p, apperror.Transient(err, "Failed to count lessons!")
	}
	err = db.Model(&course.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Where("lesson_id IN (?)", db.Model(&course.Lesson{}).Select("id").Where("course_id = ?", courseID)).
		Count(&p.completed).Error
	if err != nil {
		return p, apperror.Transient(err, "Failed to count completed lessons!")
	}

	switch {
	case !ok:
		p.reason = apperror.ReasonNotPurchased
	case p.total == 0 || p.completed < p.total:
		p.reason = apperror.ReasonExamLocked
	}
	return p, nil
}

// EntryState resolves whether the learner is certified, may sit the exam, or
// is not yet eligible.
func (s *Service) EntryState(ctx context.Context, userID, courseID uint) (*EntryState, error) {
	cert, err := s.Certificate(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if cert != nil {
		return &EntryState{
			State:     EntryCertified,
			Certified: &Certified{Certificate: cert, Percentage: Percentage(cert.Score, cert.TotalQuestions)},
		}, nil
	}

	p, err := s.eligibility(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	exam, err := s.questions.Exam(ctx, courseID)
	if apperror.Is(err, apperror.KindNotFound, apperror.ReasonExamNotFound) && p.reason == "" {
		p.reason = apperror.ReasonExamNotFound
	} else if err != nil && p.reason == "" {
		return nil, err
	}

	if p.reason != "" {
		return &EntryState{
			State:       EntryNotEligible,
			NotEligible: &NotEligible{Reason: p.reason, CompletedLessons: p.completed, TotalLessons: p.total},
		}, nil
	}

	n, err := s.questions.Count(ctx, questions.CourseExam(courseID))
	if err != nil {
		return nil, err
	}
	return &EntryState{
		State:    EntryEligible,
		Eligible: &Eligible{PassingScore: exam.PassingScore, QuestionCount: n},
	}, nil
}

// ExamQuestions returns the exam without its answer key to an eligible learner.
func (s *Service) ExamQuestions(ctx context.Context, userID, courseID uint) (*Eligible, []questions.PublicQuestion, error) {
	state, err := s.EntryState(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	switch state.State {
	case EntryCertified:
		return nil, nil, apperror.Conflict(apperror.ReasonCertificateExists, "You already hold a certificate for this course!")
	case EntryNotEligible:
		p := courseProgress{completed: state.NotEligible.CompletedLessons, total: state.NotEligible.TotalLessons, reason: state.NotEligible.Reason}
		if p.reason == apperror.ReasonExamNotFound {
			return nil, nil, apperror.NotFound(apperror.ReasonExamNotFound, "Exam not found for this course!")
		}
		return nil, nil, apperror.Forbidden(p.reason, p.message())
	}

	qs, err := s.questions.ListForLearner(ctx, questions.CourseExam(courseID))
	if err != nil {
		return nil, nil, err
	}
	return state.Eligible, qs, nil
}
