package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/fee-tracker-console/internal/models"
)

func TestFeePolicyStatus(t *testing.T) {
	policy := testPolicy()

	assert.Equal(t, models.FeeStatusPending, policy.Status(0))
	assert.Equal(t, models.FeeStatusPaid, policy.Status(50000))
	for _, amount := range []models.Amount{1, 100, 49999, 50001, 120000} {
		assert.Equal(t, models.FeeStatusPartial, policy.Status(amount), "amount %d", amount)
	}
}

func TestFeePolicyStatusIsPureFunctionOfAmount(t *testing.T) {
	policy := testPolicy()
	for amount := models.Amount(0); amount <= 100000; amount += 250 {
		want := models.FeeStatusPartial
		switch {
		case amount == 50000:
			want = models.FeeStatusPaid
		case amount == 0:
			want = models.FeeStatusPending
		}
		assert.Equal(t, want, policy.Status(amount))
		assert.Equal(t, policy.Status(amount), policy.Status(amount))
	}
}

func TestFeePolicyStudentRow(t *testing.T) {
	row := testPolicy().StudentRow(models.Student{ID: 1, FirstName: "Amina", LastName: "Otieno", AmountPaid: 50000, Deficit: amountPtr(0)})
	assert.Equal(t, "Amina Otieno", row.FullName)
	assert.Equal(t, models.FeeStatusPaid, row.FeeStatus)
	assert.EqualValues(t, 50000, row.AmountPaid)
}

func TestFeePolicyActivityFeeResolution(t *testing.T) {
	policy := testPolicy()

	own := models.Activity{ActivityID: 4, ActivityName: "Drama Club", ActivityFee: amountPtr(1100)}
	assert.EqualValues(t, 1100, policy.ActivityFee(own))

	byID := models.Activity{ActivityID: 10, ActivityName: "Renamed"}
	assert.EqualValues(t, 1500, policy.ActivityFee(byID))

	byName := models.Activity{ActivityID: 99, ActivityName: "Chess Club"}
	assert.EqualValues(t, 600, policy.ActivityFee(byName))

	unknown := models.Activity{ActivityID: 99, ActivityName: "Archery"}
	assert.EqualValues(t, 0, policy.ActivityFee(unknown))
}

func TestFeePolicyActivityDeficitIsNotClamped(t *testing.T) {
	policy := testPolicy()
	cases := []struct {
		fee, paid *models.Amount
		want      models.Amount
	}{
		{fee: amountPtr(1000), paid: nil, want: 1000},
		{fee: amountPtr(1000), paid: amountPtr(400), want: 600},
		{fee: amountPtr(1000), paid: amountPtr(1000), want: 0},
		{fee: amountPtr(1000), paid: amountPtr(1300), want: -300},
	}
	for _, tc := range cases {
		a := models.Activity{ActivityFee: tc.fee, AmountPaid: tc.paid}
		assert.Equal(t, tc.want, policy.ActivityDeficit(a))
		assert.Equal(t, tc.want, policy.ActivityRow(a).Deficit)
	}
}

func TestNewCatalog(t *testing.T) {
	catalog := testCatalog()
	assert.Len(t, catalog.Grades, 12)
	assert.Equal(t, "Grade 1", catalog.Grades[0])
	assert.Equal(t, "Grade 12", catalog.Grades[11])
	assert.Len(t, catalog.Activities, 7)
	assert.EqualValues(t, 50000, catalog.FeeTarget)
	assert.True(t, catalog.HasTerm("Term 2"))
}
