package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fee-tracker-console/internal/dto"
	"github.com/noah-isme/fee-tracker-console/internal/models"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
)

func sampleActivities() []models.Activity {
	return []models.Activity{
		{ID: 1, FirstName: "Amina", LastName: "Otieno", AdmissionNumber: "ADM001", Grade: "Grade 4", ActivityID: 4, ActivityName: "Drama Club", AmountPaid: amountPtr(400)},
		{ID: 2, FirstName: "Brian", LastName: "Kamau", AdmissionNumber: "ADM007", Grade: "Grade 5", ActivityID: 10, ActivityName: "Swimming", AmountPaid: amountPtr(1800)},
		{ID: 3, AdmissionNumber: "ADM009", Grade: "Grade 4", ActivityID: 7, ActivityName: "Chess Club", ActivityFee: amountPtr(650)},
	}
}

func newLoadedActivityView(t *testing.T, repo *fakeActivityRepo) *ActivityView {
	t.Helper()
	if repo.activities == nil {
		repo.activities = sampleActivities()
	}
	view := NewActivityView("act-1", repo, testPolicy(), nil, nil, nil)
	require.NoError(t, view.Load(context.Background()))
	return view
}

func TestActivityViewVisibleDerivesDeficit(t *testing.T) {
	view := newLoadedActivityView(t, &fakeActivityRepo{})
	rows := view.Visible()
	require.Len(t, rows, 3)

	assert.EqualValues(t, 1000, rows[0].Fee)
	assert.EqualValues(t, 600, rows[0].Deficit)
	assert.Equal(t, "Amina Otieno", rows[0].FullName)

	assert.EqualValues(t, 1500, rows[1].Fee)
	assert.EqualValues(t, -300, rows[1].Deficit)

	assert.EqualValues(t, 650, rows[2].Fee)
	assert.EqualValues(t, 0, rows[2].Paid)
	assert.EqualValues(t, 650, rows[2].Deficit)
}

func TestActivityViewFilter(t *testing.T) {
	repo := &fakeActivityRepo{}
	view := newLoadedActivityView(t, repo)

	require.NoError(t, view.SetGrade("Grade 4"))
	assert.Len(t, view.Visible(), 2)
	view.SetSearch("009")
	rows := view.Visible()
	require.Len(t, rows, 1)
	assert.EqualValues(t, 3, rows[0].ID)

	view.ClearFilter()
	assert.Len(t, view.Visible(), 3)
	assert.Equal(t, 1, repo.listCalls)
}

func TestActivityViewLoadFailure(t *testing.T) {
	repo := &fakeActivityRepo{listErr: appErrors.Clone(appErrors.ErrTransport, "")}
	view := NewActivityView("act", repo, testPolicy(), nil, nil, nil)
	require.Error(t, view.Load(context.Background()))
	assert.Empty(t, view.Visible())
	assert.Equal(t, 1, view.Notifications().Len())
}

func TestActivityViewLookupStudent(t *testing.T) {
	repo := &fakeActivityRepo{student: &models.StudentActivities{FirstName: "Brian", AdmissionNumber: "ADM007", Grade: "Grade 5"}}
	view := newLoadedActivityView(t, repo)

	student, err := view.LookupStudent(context.Background(), "ADM007")
	require.NoError(t, err)
	assert.Equal(t, "Brian", student.FullName())
	assert.Equal(t, "Grade 5", view.Filter().Grade)

	repo.student = nil
	_, err = view.LookupStudent(context.Background(), "ADM404")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestActivityViewUpdatePaymentResolvesCatalogName(t *testing.T) {
	repo := &fakeActivityRepo{}
	view := newLoadedActivityView(t, repo)
	ctx := context.Background()

	_, err := view.UpdatePayment(ctx, "ADM001", dto.UpdateActivityPaymentRequest{ActivityID: 42, AmountPaid: floatPtr(100)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.updateCalls)

	_, err = view.UpdatePayment(ctx, " ", dto.UpdateActivityPaymentRequest{ActivityID: 4, AmountPaid: floatPtr(100)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	msg, err := view.UpdatePayment(ctx, "ADM001", dto.UpdateActivityPaymentRequest{ActivityID: 5, AmountPaid: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, "Payment updated successfully!", msg)
	require.Len(t, repo.updateCalls, 1)
	assert.Equal(t, "Music Club", repo.updateCalls[0].ActivityName)
	require.NotNil(t, repo.updateCalls[0].AmountPaid)
	assert.Zero(t, *repo.updateCalls[0].AmountPaid)
}

func TestActivityViewUpdatePaymentRequiresAmount(t *testing.T) {
	repo := &fakeActivityRepo{}
	view := newLoadedActivityView(t, repo)

	_, err := view.UpdatePayment(context.Background(), "ADM001", dto.UpdateActivityPaymentRequest{ActivityID: 5})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.updateCalls)

	_, err = view.UpdatePayment(context.Background(), "ADM001", dto.UpdateActivityPaymentRequest{ActivityID: 5, AmountPaid: floatPtr(-1)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.updateCalls)
}

func TestActivityViewRecordPaymentDefaultsStatus(t *testing.T) {
	repo := &fakeActivityRepo{}
	view := newLoadedActivityView(t, repo)

	msg, err := view.RecordPayment(context.Background(), "ADM001", dto.RecordActivityPaymentRequest{ActivityID: 8, AmountPaid: 700})
	require.NoError(t, err)
	assert.Equal(t, "Activity payment saved!", msg)
	require.Len(t, repo.recordCalls, 1)
	assert.Equal(t, "pending", repo.recordCalls[0].PaymentStatus)

	_, err = view.RecordPayment(context.Background(), "ADM001", dto.RecordActivityPaymentRequest{ActivityID: 8})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Len(t, repo.recordCalls, 1)
}

func TestActivityViewDeleteFlow(t *testing.T) {
	repo := &fakeActivityRepo{}
	view := newLoadedActivityView(t, repo)
	ctx := context.Background()

	assert.True(t, errors.Is(view.ConfirmDelete(ctx), appErrors.ErrPreconditionFailed))

	staged, err := view.StageDelete(3)
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", staged.DisplayName)

	repo.deleteErr = appErrors.Remote(503, "")
	require.Error(t, view.ConfirmDelete(ctx))
	staged, ok := view.StagedDelete()
	require.True(t, ok)
	assert.NotEmpty(t, staged.Error)
	assert.Len(t, view.Visible(), 3)

	repo.deleteErr = nil
	require.NoError(t, view.ConfirmDelete(ctx))
	assert.Len(t, view.Visible(), 2)
	assert.Equal(t, []int64{3, 3}, repo.deleteCalls)
}
