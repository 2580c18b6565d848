package questions

import (
	"context"
	"coursehub/apperror"
	"coursehub/database"
	"coursehub/models/course"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// Input is an admin-authored question.
type Input struct {
	Question           string   `json:"question" validate:"required"`
	Options            []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectOptionIndex int      `json:"correct_option_index" validate:"min=0"`
	OrderIndex         *int     `json:"order_index" validate:"omitempty,min=0"`
}

// Check enforces what struct tags cannot: the answer must point at an option.
func (in Input) Check() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Question) == "" {
		fields["question"] = "Question is required!"
	}
	if len(in.Options) < 2 {
		fields["options"] = "At least two options are required!"
	}
	if in.CorrectOptionIndex < 0 || in.CorrectOptionIndex >= len(in.Options) {
		fields["correct_option_index"] = fmt.Sprintf("Correct option must be between 0 and %d!", max(len(in.Options)-1, 0))
	}
	if len(fields) > 0 {
		return apperror.ValidationFields(fields)
	}
	return nil
}

func (r *Repository) nextOrder(ctx context.Context, ref Ref) (int, error) {
	q, err := r.scope(ctx, ref)
	if err != nil {
		return 0, err
	}
	var next int
	err = q.Select("COALESCE(MAX(order_index) + 1, 0)").Scan(&next).Error
	return next, err
}

// AddQuizQuestion appends a question to a lesson quiz.
func (r *Repository) AddQuizQuestion(ctx context.Context, lessonID uint, in Input) (*KeyedQuestion, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}
	var lesson course.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, lessonID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonLessonNotFound, "Lesson not found!")
		}
		return nil, apperror.Transient(err, "Failed to fetch lesson!")
	}

	order, err := r.orderFor(ctx, LessonQuiz(lessonID), in.OrderIndex)
	if err != nil {
		return nil, err
	}
	q := course.QuizQuestion{
		LessonID:           lessonID,
		Question:           strings.TrimSpace(in.Question),
		Options:            in.Options,
		CorrectOptionIndex: in.CorrectOptionIndex,
		OrderIndex:         order,
	}
	if err := r.db.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to create question!")
	}
	return &KeyedQuestion{ID: q.ID, Question: q.Question, Options: q.Options, CorrectOptionIndex: q.CorrectOptionIndex, OrderIndex: q.OrderIndex}, nil
}

// AddExamQuestion appends a question to the course exam, creating the exam
// with defaultPassing when the course has none yet.
func (r *Repository) AddExamQuestion(ctx context.Context, courseID uint, defaultPassing int, in Input) (*KeyedQuestion, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}
	exam, err := r.Exam(ctx, courseID)
	if apperror.Is(err, apperror.KindNotFound, apperror.ReasonExamNotFound) {
		exam, err = r.SaveExam(ctx, courseID, defaultPassing)
	}
	if err != nil {
		return nil, err
	}

	order, err := r.orderFor(ctx, CourseExam(courseID), in.OrderIndex)
	if err != nil {
		return nil, err
	}
	q := course.ExamQuestion{
		ExamID:             exam.ID,
		Question:           strings.TrimSpace(in.Question),
		Options:            in.Options,
		CorrectOptionIndex: in.CorrectOptionIndex,
		OrderIndex:         order,
	}
	if err := r.db.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, apperror.Transient(err, "Failed to create question!")
	}
	return &KeyedQuestion{ID: q.ID, Question: q.Question, Options: q.Options, CorrectOptionIndex: q.CorrectOptionIndex, OrderIndex: q.OrderIndex}, nil
}

func (r *Repository) orderFor(ctx context.Context, ref Ref, requested *int) (int, error) {
	if requested != nil {
		return *requested, nil
	}
	order, err := r.nextOrder(ctx, ref)
	if err != nil {
		return 0, apperror.Transient(err, "Failed to order question!")
	}
	return order, nil
}

func (r *Repository) model(kind Kind) (interface{}, error) {
	switch kind {
	case KindQuiz:
		return &course.QuizQuestion{}, nil
	case KindExam:
		return &course.ExamQuestion{}, nil
	default:
		return nil, apperror.Validation(apperror.ReasonInvalidInput, "Unknown question set!")
	}
}

// UpdateQuestion replaces a quiz or exam question's content.
func (r *Repository) UpdateQuestion(ctx context.Context, kind Kind, id uint, in Input) error {
	if err := in.Check(); err != nil {
		return err
	}
	model, err := r.model(kind)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"question":             strings.TrimSpace(in.Question),
		"options":              datatypes.JSONSlice[string](in.Options),
		"correct_option_index": in.CorrectOptionIndex,
	}
	if in.OrderIndex != nil {
		updates["order_index"] = *in.OrderIndex
	}
	res := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return apperror.Transient(res.Error, "Failed to update question!")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(apperror.ReasonNoQuestions, "Question not found!")
	}
	return nil
}

func (r *Repository) DeleteQuestion(ctx context.Context, kind Kind, id uint) error {
	model, err := r.model(kind)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return apperror.Transient(res.Error, "Failed to delete question!")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(apperror.ReasonNoQuestions, "Question not found!")
	}
	return nil
}

// SaveExam creates or updates the course exam's passing score.
func (r *Repository) SaveExam(ctx context.Context, courseID uint, passingScore int) (*course.CertificateExam, error) {
	if passingScore < 1 || passingScore > 100 {
		return nil, apperror.ValidationFields(map[string]string{"passing_score": "Passing score must be between 1 and 100!"})
	}
	var c course.Course
	if err := r.db.WithContext(ctx).First(&c, courseID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.NotFound(apperror.ReasonCourseNotFound, "Course not found!")
		}
		return nil, apperror.Transient(err, "Failed to fetch course!")
	}

	exam, err := r.Exam(ctx, courseID)
	switch {
	case err == nil:
		exam.PassingScore = passingScore
		if err := r.db.WithContext(ctx).Model(exam).Update("passing_score", passingScore).Error; err != nil {
			return nil, apperror.Transient(err, "Failed to update exam!")
		}
		return exam, nil
	case apperror.KindOf(err) == apperror.KindNotFound:
		exam = &course.CertificateExam{CourseID: courseID, PassingScore: passingScore}
		if err := r.db.WithContext(ctx).Create(exam).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return r.Exam(ctx, courseID)
			}
			return nil, apperror.Transient(err, "Failed to create exam!")
		}
		return exam, nil
	default:
		return nil, err
	}
}
