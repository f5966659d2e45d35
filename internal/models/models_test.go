package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshal(t *testing.T) {
	cases := map[string]Amount{
		`1200`:      1200,
		`1200.0`:    1200,
		`"2500"`:    2500,
		`"2500.50"`: 2501,
		`null`:      0,
		`""`:        0,
	}
	for raw, want := range cases {
		var got Amount
		require.NoError(t, json.Unmarshal([]byte(raw), &got), raw)
		assert.Equal(t, want, got, raw)
	}

	var bad Amount
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &bad))
}

func TestAmountUnmarshalRejectsOutOfRange(t *testing.T) {
	for _, raw := range []string{`-500`, `"-1"`, `-0.6`, `1e30`, `-1e30`, `9223372036854775808`, `"NaN"`, `"Inf"`} {
		var got Amount
		assert.Error(t, json.Unmarshal([]byte(raw), &got), raw)
	}

	var maxInt Amount
	require.NoError(t, json.Unmarshal([]byte(`9223372036854775807`), &maxInt))
	assert.Equal(t, Amount(9223372036854775807), maxInt)

	var negZero Amount
	require.NoError(t, json.Unmarshal([]byte(`-0.2`), &negZero))
	assert.Equal(t, Amount(0), negZero)
}

func TestStudentUnmarshalRejectsOverflowingAmount(t *testing.T) {
	var s Student
	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"amount_paid":1e30}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"amount_paid":-500}`), &s))
}

func TestStudentUnmarshalAcceptsAmountAliases(t *testing.T) {
	var snake, camel, short, none Student
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"amount_paid":100}`), &snake))
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"amountPaid":200}`), &camel))
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"amount":300}`), &short))
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"firstname":"A"}`), &none))

	assert.Equal(t, Amount(100), snake.AmountPaid)
	assert.Equal(t, Amount(200), camel.AmountPaid)
	assert.Equal(t, Amount(300), short.AmountPaid)
	assert.Equal(t, Amount(0), none.AmountPaid)
	assert.Equal(t, "A", none.FirstName)
}

func TestStudentFullNameSkipsEmptyMiddle(t *testing.T) {
	s := Student{FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", s.FullName())
	s.MiddleName = "W"
	assert.Equal(t, "Jane W Doe", s.FullName())
}

func TestStudentCloneDetachesPointers(t *testing.T) {
	deficit := Amount(10)
	s := Student{ID: 1, Deficit: &deficit}
	c := s.Clone()
	*c.Deficit = 99
	assert.Equal(t, Amount(10), *s.Deficit)
}

func TestStudentFilterMatches(t *testing.T) {
	f := StudentFilter{AdmissionNumber: " ADM0", Grade: "Grade 1"}
	assert.True(t, f.Matches("ADM001", "Grade 1"))
	assert.False(t, f.Matches("ADM001", "Grade 2"))
	assert.False(t, f.Matches("adm001", "Grade 1"))
	assert.True(t, StudentFilter{}.Matches("x", "y"))
	assert.True(t, StudentFilter{}.IsZero())
}

func TestCatalogLookups(t *testing.T) {
	c := Catalog{
		Grades:     GradeLabels(12),
		Terms:      []string{"Term 1", "Term 2", "Term 3"},
		Activities: []CatalogActivity{{ID: 4, Name: "Drama Club", Fee: 1000}},
	}
	assert.Len(t, c.Grades, 12)
	assert.Equal(t, "Grade 12", c.Grades[11])
	assert.True(t, c.HasGrade("Grade 3"))
	assert.False(t, c.HasTerm("Term 4"))

	a, ok := c.ActivityByID(4)
	require.True(t, ok)
	assert.Equal(t, "Drama Club : 1000", a.Label())
	_, ok = c.ActivityByName("Chess Club")
	assert.False(t, ok)
}

func TestGradeLabels(t *testing.T) {
	assert.Equal(t, []string{"Grade 1", "Grade 2"}, GradeLabels(2))
	assert.Empty(t, GradeLabels(0))
	assert.NotPanics(t, func() { assert.Empty(t, GradeLabels(-3)) })
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, "dark-mode", ThemeDark.BodyClass())
	assert.False(t, Theme("blue").Valid())
}
