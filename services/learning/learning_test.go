package learning

import (
	"context"
	"coursehub/apperror"
	"coursehub/models"
	"coursehub/models/course"
	"coursehub/tests"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonsHideLockedVideos(t *testing.T) {
	db := tests.OpenDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "ada", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	tests.SeedLessons(t, db, c.ID, 3)

	lessons, access, err := svc.Lessons(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, access)
	require.Len(t, lessons, 3)
	assert.False(t, lessons[0].Locked)
	assert.NotEmpty(t, lessons[0].VimeoVideoID)
	assert.True(t, lessons[1].Locked)
	assert.Empty(t, lessons[1].VimeoVideoID)

	tests.SeedPurchase(t, db, user.ID, c.ID, models.PurchaseStatusCompleted)
	lessons, access, err = svc.Lessons(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, access)
	for _, l := range lessons {
		assert.False(t, l.Locked)
		assert.NotEmpty(t, l.VimeoVideoID)
	}
}

func TestMarkProgress(t *testing.T) {
	db := tests.OpenDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "bob", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 1000)
	lessons := tests.SeedLessons(t, db, c.ID, 4)

	_, err := svc.MarkProgress(ctx, user.ID, c.ID, lessons[1].ID, true)
	assert.True(t, apperror.Is(err, apperror.KindAuthorization, apperror.ReasonNotPurchased))

	p, err := svc.MarkProgress(ctx, user.ID, c.ID, lessons[0].ID, true)
	require.NoError(t, err, "previews are open")
	assert.True(t, p.Completed)

	tests.SeedPurchase(t, db, user.ID, c.ID, models.PurchaseStatusCompleted)

	t0 := time.Now()
	svc.now = func() time.Time { return t0 }
	_, err = svc.MarkProgress(ctx, user.ID, c.ID, lessons[1].ID, true)
	require.NoError(t, err)

	svc.now = func() time.Time { return t0.Add(time.Minute) }
	p, err = svc.MarkProgress(ctx, user.ID, c.ID, lessons[1].ID, false)
	require.NoError(t, err)
	assert.True(t, p.Completed, "reopening a finished lesson keeps it completed")

	svc.now = func() time.Time { return t0.Add(2 * time.Minute) }
	_, err = svc.MarkProgress(ctx, user.ID, c.ID, lessons[2].ID, false)
	require.NoError(t, err)

	var rows int64
	require.NoError(t, db.Model(&course.LessonProgress{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Equal(t, int64(3), rows)

	progress, err := svc.Progress(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), progress.CompletedLessons)
	assert.Equal(t, int64(4), progress.TotalLessons)
	assert.Equal(t, 50, progress.Percent)
	require.NotNil(t, progress.LastWatchedLesson)
	assert.Equal(t, lessons[2].ID, *progress.LastWatchedLesson)

	_, err = svc.MarkProgress(ctx, user.ID, c.ID+1, lessons[2].ID, true)
	assert.True(t, apperror.Is(err, apperror.KindNotFound, apperror.ReasonLessonNotFound))
}

func TestDashboardAndCertificates(t *testing.T) {
	db := tests.OpenDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "cy", models.RoleUser)
	done := tests.SeedCourse(t, db, "Done", 1000)
	waiting := tests.SeedCourse(t, db, "Waiting", 1000)
	lessons := tests.SeedLessons(t, db, done.ID, 2)
	quiz := tests.SeedQuiz(t, db, lessons[1].ID, 1)

	tests.SeedPurchase(t, db, user.ID, done.ID, models.PurchaseStatusCompleted)
	tests.SeedPurchase(t, db, user.ID, waiting.ID, models.PurchaseStatusPending)
	tests.CompleteLessons(t, db, user.ID, lessons)

	attempt := course.QuizAttempt{UserID: user.ID, LessonID: quiz[0].LessonID, Score: 1, TotalQuestions: 1, Passed: true, CompletedAt: time.Now()}
	require.NoError(t, db.Create(&attempt).Error)
	cert := course.Certificate{UserID: user.ID, CourseID: done.ID, CertificateNumber: "CERT-2026-X", RecipientName: "Cy", Score: 9, TotalQuestions: 10, IssuedAt: time.Now()}
	require.NoError(t, db.Create(&cert).Error)

	dash, err := svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, dash, 2)
	byTitle := map[string]DashboardCourse{}
	for _, d := range dash {
		byTitle[d.Course.Title] = d
	}
	assert.Equal(t, models.PurchaseStatusCompleted, byTitle["Done"].Status)
	assert.True(t, byTitle["Done"].HasCertificate)
	assert.Equal(t, 100, byTitle["Done"].Progress.Percent)
	assert.Equal(t, models.PurchaseStatusPending, byTitle["Waiting"].Status)
	assert.False(t, byTitle["Waiting"].HasCertificate)

	certs, err := svc.Certificates(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, "Done", certs[0].CourseTitle)

	one, err := svc.Certificate(ctx, user.ID, done.ID)
	require.NoError(t, err)
	assert.Equal(t, "CERT-2026-X", one.CertificateNumber)

	_, err = svc.Certificate(ctx, user.ID, waiting.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound, apperror.ReasonCertificateNone))

	v, err := svc.Verify(ctx, "CERT-2026-X")
	require.NoError(t, err)
	assert.Equal(t, "Cy", v.RecipientName)
	assert.Equal(t, "Done", v.CourseTitle)

	_, err = svc.Verify(ctx, "nope")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	u, rows, err := svc.UserProgress(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, u.ID)
	require.Len(t, rows, 2)
	for _, r := range rows {
		if r.CourseID == done.ID {
			assert.Len(t, r.QuizAttempts, 1)
			require.NotNil(t, r.Certificate)
		} else {
			assert.Empty(t, r.QuizAttempts)
			assert.Nil(t, r.Certificate)
		}
	}

	_, _, err = svc.UserProgress(ctx, 9999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound, apperror.ReasonUserNotFound))
}
