package grading

import (
	"context"
	"coursehub/apperror"
	"coursehub/models"
	"coursehub/models/course"
	"coursehub/services/notify"
	"coursehub/services/questions"
	"coursehub/tests"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB, *notify.Recorder) {
	db := tests.OpenDB(t)
	rec := &notify.Recorder{}
	return NewService(db, questions.NewRepository(db), notify.NewSync(rec, "CourseHub", ""), 70), db, rec
}

func TestThresholds(t *testing.T) {
	assert.Equal(t, 7, QuizThreshold(70, 10))
	assert.Equal(t, 3, QuizThreshold(70, 3))
	assert.Equal(t, 1, QuizThreshold(70, 1))

	assert.Equal(t, 80, Percentage(8, 10))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 13, Percentage(1, 8))
	assert.Equal(t, 0, Percentage(0, 0))
}

func TestSubmitQuizThreshold(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "ada", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 2)
	tests.SeedPurchase(t, db, user.ID, c.ID, models.PurchaseStatusCompleted)
	qs := tests.SeedQuiz(t, db, lessons[1].ID, 10)

	res, err := svc.SubmitQuiz(ctx, user.ID, lessons[1].ID, tests.QuizAnswers(qs, 6))
	require.NoError(t, err)
	assert.Equal(t, 6, res.Score)
	assert.Equal(t, 10, res.TotalQuestions)
	assert.False(t, res.Passed)

	again, err := svc.SubmitQuiz(ctx, user.ID, lessons[1].ID, tests.QuizAnswers(qs, 6))
	require.NoError(t, err)
	assert.Equal(t, res, again, "same answers grade the same")

	res, err = svc.SubmitQuiz(ctx, user.ID, lessons[1].ID, tests.QuizAnswers(qs, 7))
	require.NoError(t, err)
	assert.Equal(t, 7, res.Score)
	assert.True(t, res.Passed)
	assert.False(t, res.AlreadyPassed)

	var count int64
	require.NoError(t, db.Model(&course.QuizAttempt{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "attempts upsert on (user, lesson)")
}

func TestSubmitQuizNeverDowngrades(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "bob", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 1)
	qs := tests.SeedQuiz(t, db, lessons[0].ID, 10) // lesson 0 is a preview

	_, err := svc.SubmitQuiz(ctx, user.ID, lessons[0].ID, tests.QuizAnswers(qs, 9))
	require.NoError(t, err)

	res, err := svc.SubmitQuiz(ctx, user.ID, lessons[0].ID, tests.QuizAnswers(qs, 2))
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.True(t, res.AlreadyPassed)
	assert.Equal(t, 9, res.Score)

	var stored course.QuizAttempt
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, lessons[0].ID).First(&stored).Error)
	assert.Equal(t, 9, stored.Score)
	assert.True(t, stored.Passed)
	assert.Len(t, stored.Answers.Data(), 10)
}

func TestSubmitQuizRequiresAccess(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "cy", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 2)
	qs := tests.SeedQuiz(t, db, lessons[1].ID, 3)

	_, err := svc.SubmitQuiz(ctx, user.ID, lessons[1].ID, tests.QuizAnswers(qs, 3))
	assert.True(t, apperror.Is(err, apperror.KindAuthorization, apperror.ReasonNotPurchased))

	tests.SeedPurchase(t, db, user.ID, c.ID, models.PurchaseStatusPending)
	_, err = svc.SubmitQuiz(ctx, user.ID, lessons[1].ID, tests.QuizAnswers(qs, 3))
	assert.True(t, apperror.Is(err, apperror.KindAuthorization, apperror.ReasonNotPurchased), "pending grants nothing")

	_, err = svc.SubmitQuiz(ctx, user.ID, lessons[0].ID, nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound, apperror.ReasonNoQuestions))

	_, err = svc.SubmitQuiz(ctx, user.ID, 9999, nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound, apperror.ReasonLessonNotFound))
}

func TestExamEndToEnd(t *testing.T) {
	svc, db, rec := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "dee", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 5)
	_, qs := tests.SeedExam(t, db, c.ID, 70, 10)
	tests.SeedPurchase(t, db, user.ID, c.ID, models.PurchaseStatusCompleted)

	state, err := svc.EntryState(ctx, user.ID, c.ID)
	require.NoError(t, err)
	require.Equal(t, EntryNotEligible, state.State)
	assert.Equal(t, apperror.ReasonExamLocked, state.NotEligible.Reason)
	assert.Equal(t, int64(5), state.NotEligible.TotalLessons)

	_, err = svc.SubmitExam(ctx, user.ID, c.ID, tests.ExamAnswers(qs, 10), "Dee Dee")
	assert.True(t, apperror.Is(err, apperror.KindAuthorization, apperror.ReasonExamLocked))

	tests.CompleteLessons(t, db, user.ID, lessons)

	state, err = svc.EntryState(ctx, user.ID, c.ID)
	require.NoError(t, err)
	require.Equal(t, EntryEligible, state.State)
	assert.Equal(t, 70, state.Eligible.PassingScore)
	assert.Equal(t, int64(10), state.Eligible.QuestionCount)

	res, err := svc.SubmitExam(ctx, user.ID, c.ID, tests.ExamAnswers(qs, 8), "  Dee   Dee ")
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, 8, res.Score)
	assert.Equal(t, 10, res.TotalQuestions)
	assert.Equal(t, 80, res.Percentage)
	require.NotNil(t, res.IssuedAt)
	require.NotNil(t, res.Certificate)
	assert.Equal(t, "Dee Dee", res.Certificate.RecipientName)
	assert.Len(t, rec.Sent(), 1)

	again, err := svc.SubmitExam(ctx, user.ID, c.ID, tests.ExamAnswers(qs, 10), "Someone Else")
	require.NoError(t, err)
	assert.True(t, again.AlreadyCertified)
	assert.Equal(t, 8, again.Score)
	assert.Equal(t, res.Certificate.ID, again.Certificate.ID)
	assert.Equal(t, res.Certificate.CertificateNumber, again.Certificate.CertificateNumber)
	assert.Equal(t, "Dee Dee", again.Certificate.RecipientName)

	state, err = svc.EntryState(ctx, user.ID, c.ID)
	require.NoError(t, err)
	require.Equal(t, EntryCertified, state.State)
	assert.Equal(t, 80, state.Certified.Percentage)
}

func TestExamFailPersistsNothing(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "eve", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 2)
	_, qs := tests.SeedExam(t, db, c.ID, 70, 10)
	tests.SeedPurchase(t, db, user.ID, c.ID, models.PurchaseStatusCompleted)
	tests.CompleteLessons(t, db, user.ID, lessons)

	res, err := svc.SubmitExam(ctx, user.ID, c.ID, tests.ExamAnswers(qs, 6), "Eve")
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, 60, res.Percentage)
	assert.Equal(t, 70, res.PassingScore)
	assert.Nil(t, res.Certificate)

	var count int64
	require.NoError(t, db.Model(&course.Certificate{}).Count(&count).Error)
	assert.Zero(t, count)

	res, err = svc.SubmitExam(ctx, user.ID, c.ID, tests.ExamAnswers(qs, 7), "Eve")
	require.NoError(t, err)
	assert.True(t, res.Passed, "retries start from a clean slate")
}

func TestExamRequiresPurchaseAndName(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "fay", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 1)
	_, qs := tests.SeedExam(t, db, c.ID, 70, 4)
	tests.CompleteLessons(t, db, user.ID, lessons)

	_, err := svc.SubmitExam(ctx, user.ID, c.ID, tests.ExamAnswers(qs, 4), "   ")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.SubmitExam(ctx, user.ID, c.ID, tests.ExamAnswers(qs, 4), "Fay")
	assert.True(t, apperror.Is(err, apperror.KindAuthorization, apperror.ReasonNotPurchased))

	state, err := svc.EntryState(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, apperror.ReasonNotPurchased, state.NotEligible.Reason)
}

func TestExamCertificateIssuedOnce(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "gus", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 1)
	_, qs := tests.SeedExam(t, db, c.ID, 50, 4)
	tests.SeedPurchase(t, db, user.ID, c.ID, models.PurchaseStatusCompleted)
	tests.CompleteLessons(t, db, user.ID, lessons)

	const n = 4
	results := make([]*ExamResult, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.SubmitExam(ctx, user.ID, c.ID, tests.ExamAnswers(qs, 4), "Gus")
		}(i)
	}
	wg.Wait()

	var number string
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.True(t, results[i].Passed)
		if number == "" {
			number = results[i].Certificate.CertificateNumber
		}
		assert.Equal(t, number, results[i].Certificate.CertificateNumber)
	}

	var count int64
	require.NoError(t, db.Model(&course.Certificate{}).Where("user_id = ? AND course_id = ?", user.ID, c.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEntryStateWithoutExam(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "hal", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 1)
	tests.SeedPurchase(t, db, user.ID, c.ID, models.PurchaseStatusCompleted)
	tests.CompleteLessons(t, db, user.ID, lessons)

	state, err := svc.EntryState(ctx, user.ID, c.ID)
	require.NoError(t, err)
	require.Equal(t, EntryNotEligible, state.State)
	assert.Equal(t, apperror.ReasonExamNotFound, state.NotEligible.Reason)
}

func TestExamQuestionsGated(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "ivy", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 2)
	_, qs := tests.SeedExam(t, db, c.ID, 70, 4)
	tests.SeedPurchase(t, db, user.ID, c.ID, models.PurchaseStatusCompleted)

	_, _, err := svc.ExamQuestions(ctx, user.ID, c.ID)
	assert.True(t, apperror.Is(err, apperror.KindAuthorization, apperror.ReasonExamLocked))

	tests.CompleteLessons(t, db, user.ID, lessons)
	eligible, list, err := svc.ExamQuestions(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, eligible.PassingScore)
	require.Len(t, list, 4)
	assert.Equal(t, qs[0].ID, list[0].ID)

	_, err = svc.SubmitExam(ctx, user.ID, c.ID, tests.ExamAnswers(qs, 4), "Ivy")
	require.NoError(t, err)
	_, _, err = svc.ExamQuestions(ctx, user.ID, c.ID)
	assert.True(t, apperror.Is(err, apperror.KindConflict, apperror.ReasonCertificateExists))
}
