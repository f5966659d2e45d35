package dto

import "github.com/noah-isme/fee-tracker-console/internal/models"

// FilterPatch updates one or both filter predicates. Nil leaves a predicate as is.
type FilterPatch struct {
	AdmissionNumber *string `json:"admission_number"`
	Grade           *string `json:"grade"`
}

// StudentViewState is returned by the students view endpoints.
type StudentViewState struct {
	ViewID   string               `json:"view_id"`
	Loaded   bool                 `json:"loaded"`
	Total    int                  `json:"total"`
	Filter   models.StudentFilter `json:"filter"`
	Students []models.StudentRow  `json:"students"`
}

// ActivityViewState is returned by the activities view endpoints.
type ActivityViewState struct {
	ViewID     string               `json:"view_id"`
	Loaded     bool                 `json:"loaded"`
	Total      int                  `json:"total"`
	Filter     models.StudentFilter `json:"filter"`
	Activities []models.ActivityRow `json:"activities"`
}

// StagedDelete describes the candidate awaiting confirmation.
type StagedDelete struct {
	ID              int64  `json:"id"`
	DisplayName     string `json:"display_name"`
	AdmissionNumber string `json:"admission_number"`
	Error           string `json:"error,omitempty"`
}

// ThemeRequest sets the display theme.
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}

// TermRequest selects the active term.
type TermRequest struct {
	Term string `json:"term" validate:"required"`
}

// TokenRequest stores the bearer credential.
type TokenRequest struct {
	Token string `json:"token"`
}
