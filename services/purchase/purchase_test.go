package purchase

import (
	"context"
	"coursehub/apperror"
	"coursehub/models"
	"coursehub/services/notify"
	"coursehub/services/promo"
	"coursehub/tests"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB, *notify.Recorder) {
	db := tests.OpenDB(t)
	rec := &notify.Recorder{}
	svc := NewService(db, promo.NewService(db), notify.NewSync(rec, "CourseHub", "admin@example.com"), 4)
	return svc, db, rec
}

func amount(v int64) *int64 { return &v }

func TestRecordFreeWithFullDiscount(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "ada", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 100000)
	code := tests.SeedPromo(t, db, "FREE100", 100, tests.IntPtr(10), 0)

	p, err := svc.Record(ctx, RecordInput{UserID: user.ID, CourseID: c.ID, PromoCode: "free100", Amount: amount(0)})
	require.NoError(t, err)

	assert.Equal(t, int64(0), p.Amount)
	assert.Equal(t, models.PurchaseStatusCompleted, p.Status)
	assert.Equal(t, models.PaymentMethodPromoCode, p.PaymentMethod)
	assert.NotEmpty(t, p.PaymentID)
	require.NotNil(t, p.PromoCodeID)
	assert.Equal(t, code.ID, *p.PromoCodeID)

	var got models.PromoCode
	require.NoError(t, db.First(&got, code.ID).Error)
	assert.Equal(t, 1, got.UsedCount)

	ok, err := svc.HasAccess(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecordPartialDiscountIsPending(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "bob", models.RoleUser)
	c := tests.SeedCourse(t, db, "Rust", 50000)
	code := tests.SeedPromo(t, db, "SAVE20", 20, nil, 0)

	p, err := svc.Record(ctx, RecordInput{
		UserID: user.ID, CourseID: c.ID, PromoCodeID: &code.ID,
		Amount: amount(40000), PaymentReference: "TRX-991", TransferCode: "1234",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(40000), p.Amount)
	assert.Equal(t, models.PurchaseStatusPending, p.Status)
	assert.Equal(t, models.PaymentMethodBankTransfer, p.PaymentMethod)
	assert.Equal(t, "TRX-991", p.PaymentID)
	assert.Equal(t, "1234", p.TransferCode)

	status, err := svc.Status(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", status)

	ok, err := svc.HasAccess(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordRejectsBadInput(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "cy", models.RoleUser)
	c := tests.SeedCourse(t, db, "SQL", 30000)

	t.Run("amount mismatch", func(t *testing.T) {
		_, err := svc.Record(ctx, RecordInput{UserID: user.ID, CourseID: c.ID, Amount: amount(1), PaymentReference: "x"})
		assert.True(t, apperror.Is(err, apperror.KindValidation, apperror.ReasonAmountMismatch))
	})

	t.Run("paid purchase needs a reference", func(t *testing.T) {
		_, err := svc.Record(ctx, RecordInput{UserID: user.ID, CourseID: c.ID})
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Contains(t, appErr.Fields, "payment_reference")
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.Record(ctx, RecordInput{UserID: user.ID, CourseID: 9999, PaymentReference: "x"})
		assert.True(t, apperror.Is(err, apperror.KindNotFound, apperror.ReasonCourseNotFound))
	})

	t.Run("exhausted promo", func(t *testing.T) {
		tests.SeedPromo(t, db, "USED", 50, tests.IntPtr(1), 1)
		_, err := svc.Record(ctx, RecordInput{UserID: user.ID, CourseID: c.ID, PromoCode: "USED", PaymentReference: "x"})
		assert.True(t, apperror.Is(err, apperror.KindConflict, apperror.ReasonLimitExceeded))
	})

	var count int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecordDuplicateIsConflict(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "dee", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 20000)
	code := tests.SeedPromo(t, db, "TEN", 10, nil, 0)

	in := RecordInput{UserID: user.ID, CourseID: c.ID, PromoCode: "TEN", PaymentReference: "ref-1"}
	_, err := svc.Record(ctx, in)
	require.NoError(t, err)

	_, err = svc.Record(ctx, in)
	assert.True(t, apperror.Is(err, apperror.KindConflict, apperror.ReasonAlreadySubmitted))

	var got models.PromoCode
	require.NoError(t, db.First(&got, code.ID).Error)
	assert.Equal(t, 1, got.UsedCount, "a rejected duplicate must not consume the promo")
}

func TestRecordConcurrentDuplicates(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "eve", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 20000)

	const n = 5
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Record(ctx, RecordInput{UserID: user.ID, CourseID: c.ID, PaymentReference: "ref"})
		}(i)
	}
	wg.Wait()

	succeeded, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperror.Is(err, apperror.KindConflict, apperror.ReasonAlreadySubmitted):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)

	var count int64
	require.NoError(t, db.Model(&models.Purchase{}).Where("user_id = ? AND course_id = ?", user.ID, c.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestApproveAndReject(t *testing.T) {
	svc, db, rec := newService(t)
	ctx := context.Background()

	user := tests.SeedUser(t, db, "fay", models.RoleUser)
	c := tests.SeedCourse(t, db, "Go", 20000)

	p, err := svc.Record(ctx, RecordInput{UserID: user.ID, CourseID: c.ID, PaymentReference: "ref"})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusCompleted, approved.Status)

	again, err := svc.Approve(ctx, p.ID)
	require.NoError(t, err, "approving twice is a no-op")
	assert.Equal(t, models.PurchaseStatusCompleted, again.Status)
	assert.Len(t, rec.Sent(), 1, "only the first approval emails the learner")

	_, err = svc.Approve(ctx, 9999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound, apperror.ReasonPurchaseNotFound))

	err = svc.Reject(ctx, p.ID)
	assert.True(t, apperror.Is(err, apperror.KindConflict, apperror.ReasonPurchaseCompleted), "completed purchases are final")
	hasAccess, err := svc.HasAccess(ctx, user.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, hasAccess)

	assert.True(t, apperror.Is(svc.Reject(ctx, 9999), apperror.KindNotFound, apperror.ReasonPurchaseNotFound))

	other := tests.SeedUser(t, db, "gil", models.RoleUser)
	pending, err := svc.Record(ctx, RecordInput{UserID: other.ID, CourseID: c.ID, PaymentReference: "ref"})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, pending.ID))
	assert.True(t, apperror.Is(svc.Reject(ctx, pending.ID), apperror.KindNotFound, apperror.ReasonPurchaseNotFound))

	status, err := svc.Status(ctx, other.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "none", status)

	_, err = svc.Record(ctx, RecordInput{UserID: other.ID, CourseID: c.ID, PaymentReference: "ref-2"})
	assert.NoError(t, err, "a rejected learner can resubmit")
}

func TestIntent(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	c := tests.SeedCourse(t, db, "Go", 50000)
	tests.SeedPromo(t, db, "SAVE20", 20, nil, 0)

	in, err := svc.Intent(ctx, c.ID, "save20")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), in.Discount)
	assert.Equal(t, int64(40000), in.FinalAmount)
	assert.Len(t, in.TransferCode, 4)

	plain, err := svc.Intent(ctx, c.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(50000), plain.FinalAmount)
	assert.Nil(t, plain.PromoCodeID)
}

func TestReports(t *testing.T) {
	svc, db, rec := newService(t)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Now() }

	a := tests.SeedCourse(t, db, "Alpha", 1000)
	b := tests.SeedCourse(t, db, "Beta", 1000)
	idle := tests.SeedCourse(t, db, "Idle", 1000)

	u1 := tests.SeedUser(t, db, "u1", models.RoleUser)
	u2 := tests.SeedUser(t, db, "u2", models.RoleUser)
	u3 := tests.SeedUser(t, db, "u3", models.RoleUser)

	tests.SeedPurchase(t, db, u1.ID, a.ID, models.PurchaseStatusCompleted)
	tests.SeedPurchase(t, db, u2.ID, a.ID, models.PurchaseStatusCompleted)
	tests.SeedPurchase(t, db, u3.ID, a.ID, models.PurchaseStatusPending)
	tests.SeedPurchase(t, db, u1.ID, b.ID, models.PurchaseStatusCompleted)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), sum.TotalRevenue)
	assert.Equal(t, int64(3), sum.CompletedCount)
	assert.Equal(t, int64(1000), sum.PendingRevenue)
	assert.Equal(t, int64(1), sum.PendingCount)
	assert.Equal(t, int64(3000), sum.MonthToDateRevenue)

	rows, err := svc.ByCourse(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, a.ID, rows[0].CourseID)
	assert.Equal(t, int64(2), rows[0].CompletedSales)
	assert.Equal(t, int64(2000), rows[0].CompletedRevenue)
	assert.Equal(t, int64(1), rows[0].PendingSales)
	assert.Equal(t, b.ID, rows[1].CourseID)
	assert.Equal(t, idle.ID, rows[2].CourseID)
	assert.Zero(t, rows[2].CompletedRevenue)

	list, total, err := svc.List(ctx, ListFilter{Status: "pending", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Alpha", list[0].CourseTitle)
	assert.Equal(t, u3.Email, list[0].UserEmail)

	require.NoError(t, svc.SendPendingDigest(ctx))
	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "admin@example.com", sent[0].To)
}
