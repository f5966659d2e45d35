package models

import "fmt"

// CatalogActivity is an entry of the fixed activity catalog.
type CatalogActivity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Fee  Amount `json:"fee"`
}

// Label renders the option label used by the activity selector.
func (a CatalogActivity) Label() string {
	return fmt.Sprintf("%s : %d", a.Name, a.Fee)
}

// Catalog holds the enumerations the console is parameterised with.
type Catalog struct {
	Grades     []string          `json:"grades"`
	Activities []CatalogActivity `json:"activities"`
	Terms      []string          `json:"terms"`
	FeeTarget  Amount            `json:"fee_target"`
	Currency   string            `json:"currency"`
}

// GradeLabels builds "Grade 1".."Grade n". It is empty for n <= 0.
func GradeLabels(n int) []string {
	if n <= 0 {
		return []string{}
	}
	labels := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		labels = append(labels, fmt.Sprintf("Grade %d", i))
	}
	return labels
}

// HasGrade reports whether label is a known grade.
func (c Catalog) HasGrade(label string) bool {
	return contains(c.Grades, label)
}

// HasTerm reports whether term is a known term.
func (c Catalog) HasTerm(term string) bool {
	return contains(c.Terms, term)
}

// ActivityByID looks up a catalog activity by id.
func (c Catalog) ActivityByID(id int64) (CatalogActivity, bool) {
	for _, a := range c.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return CatalogActivity{}, false
}

// ActivityByName looks up a catalog activity by its exact name.
func (c Catalog) ActivityByName(name string) (CatalogActivity, bool) {
	for _, a := range c.Activities {
		if a.Name == name {
			return a, true
		}
	}
	return CatalogActivity{}, false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
