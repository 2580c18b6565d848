package questions

import (
	"context"
	"coursehub/apperror"
	"coursehub/models"
	"coursehub/models/course"
	"coursehub/tests"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnerReadsHideAnswerKey(t *testing.T) {
	db := tests.OpenDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 1)
	tests.SeedQuiz(t, db, lessons[0].ID, 3)
	tests.SeedExam(t, db, c.ID, 70, 2)

	for _, ref := range []Ref{LessonQuiz(lessons[0].ID), CourseExam(c.ID)} {
		t.Run(string(ref.Kind), func(t *testing.T) {
			qs, err := repo.ListForLearner(ctx, ref)
			require.NoError(t, err)
			require.NotEmpty(t, qs)
			assert.Equal(t, []string{"a", "b", "c", "d"}, []string(qs[0].Options))

			raw, err := json.Marshal(qs)
			require.NoError(t, err)

			var decoded []map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &decoded))
			for _, q := range decoded {
				assert.ElementsMatch(t, []string{"id", "question", "options", "order_index"}, keys(q))
			}
		})
	}
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestListWithAnswersRequiresRole(t *testing.T) {
	db := tests.OpenDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 1)
	seeded := tests.SeedQuiz(t, db, lessons[0].ID, 5)
	ref := LessonQuiz(lessons[0].ID)

	_, err := repo.ListWithAnswers(ctx, models.RoleUser, ref)
	assert.True(t, apperror.Is(err, apperror.KindAuthorization, apperror.ReasonForbidden))

	_, err = repo.ListWithAnswers(ctx, "", ref)
	assert.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

	for _, role := range []string{models.RoleAdmin, RoleGrader} {
		qs, err := repo.ListWithAnswers(ctx, role, ref)
		require.NoError(t, err)
		require.Len(t, qs, 5)
		for i, q := range qs {
			assert.Equal(t, seeded[i].CorrectOptionIndex, q.CorrectOptionIndex)
		}
	}
}

func TestExamWithoutConfig(t *testing.T) {
	db := tests.OpenDB(t)
	repo := NewRepository(db)

	c := tests.SeedCourse(t, db, "Go", 1000)
	_, err := repo.ListForLearner(context.Background(), CourseExam(c.ID))
	assert.True(t, apperror.Is(err, apperror.KindNotFound, apperror.ReasonExamNotFound))
}

func TestAuthoring(t *testing.T) {
	db := tests.OpenDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 1)

	t.Run("rejects out of range answer", func(t *testing.T) {
		_, err := repo.AddQuizQuestion(ctx, lessons[0].ID, Input{Question: "Q?", Options: []string{"a", "b"}, CorrectOptionIndex: 2})
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Contains(t, appErr.Fields, "correct_option_index")
	})

	t.Run("rejects single option", func(t *testing.T) {
		_, err := repo.AddQuizQuestion(ctx, lessons[0].ID, Input{Question: "Q?", Options: []string{"a"}})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("appends in order", func(t *testing.T) {
		first, err := repo.AddQuizQuestion(ctx, lessons[0].ID, Input{Question: "One?", Options: []string{"a", "b"}, CorrectOptionIndex: 1})
		require.NoError(t, err)
		second, err := repo.AddQuizQuestion(ctx, lessons[0].ID, Input{Question: "Two?", Options: []string{"a", "b"}})
		require.NoError(t, err)
		assert.Equal(t, 0, first.OrderIndex)
		assert.Equal(t, 1, second.OrderIndex)
	})

	t.Run("exam created on first question", func(t *testing.T) {
		q, err := repo.AddExamQuestion(ctx, c.ID, 70, Input{Question: "E?", Options: []string{"x", "y", "z"}, CorrectOptionIndex: 2})
		require.NoError(t, err)

		exam, err := repo.Exam(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 70, exam.PassingScore)

		require.NoError(t, repo.UpdateQuestion(ctx, KindExam, q.ID, Input{Question: "E2?", Options: []string{"x", "y"}, CorrectOptionIndex: 0}))
		keyed, err := repo.ListWithAnswers(ctx, models.RoleAdmin, CourseExam(c.ID))
		require.NoError(t, err)
		require.Len(t, keyed, 1)
		assert.Equal(t, "E2?", keyed[0].Question)
		assert.Equal(t, 0, keyed[0].CorrectOptionIndex)

		require.NoError(t, repo.DeleteQuestion(ctx, KindExam, q.ID))
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(repo.DeleteQuestion(ctx, KindExam, q.ID)))
	})

	t.Run("save exam validates and updates", func(t *testing.T) {
		_, err := repo.SaveExam(ctx, c.ID, 0)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		exam, err := repo.SaveExam(ctx, c.ID, 85)
		require.NoError(t, err)
		assert.Equal(t, 85, exam.PassingScore)

		var count int64
		require.NoError(t, db.Model(&course.CertificateExam{}).Where("course_id = ?", c.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}
