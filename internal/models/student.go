package models

import (
	"encoding/json"
	"strings"
)

// FeeStatus classifies a student's payment state. It is always derived from the
// paid amount and never persisted alongside it.
type FeeStatus string

const (
	FeeStatusPaid    FeeStatus = "paid"
	FeeStatusPartial FeeStatus = "partial"
	FeeStatusPending FeeStatus = "pending"
)

// Student is a fee record as held by the fee service.
type Student struct {
	ID              int64   `json:"id"`
	FirstName       string  `json:"firstname"`
	MiddleName      string  `json:"middlename"`
	LastName        string  `json:"lastname"`
	AdmissionNumber string  `json:"admission_number"`
	Grade           string  `json:"grade"`
	AmountPaid      Amount  `json:"amount_paid"`
	Deficit         *Amount `json:"deficit,omitempty"`
	Overpayment     *Amount `json:"overpayment,omitempty"`
}

// UnmarshalJSON accepts the amount under amount_paid, amountPaid or amount.
func (s *Student) UnmarshalJSON(data []byte) error {
	type plain Student
	aux := struct {
		*plain
		AmountPaid      *Amount `json:"amount_paid"`
		AmountPaidCamel *Amount `json:"amountPaid"`
		Amount          *Amount `json:"amount"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.AmountPaid != nil:
		s.AmountPaid = *aux.AmountPaid
	case aux.AmountPaidCamel != nil:
		s.AmountPaid = *aux.AmountPaidCamel
	case aux.Amount != nil:
		s.AmountPaid = *aux.Amount
	default:
		s.AmountPaid = 0
	}
	return nil
}

// FullName joins the name parts, skipping an empty middle name.
func (s Student) FullName() string {
	return joinName(s.FirstName, s.MiddleName, s.LastName)
}

// Clone returns a copy that shares no pointers with the receiver.
func (s Student) Clone() Student {
	out := s
	if s.Deficit != nil {
		v := *s.Deficit
		out.Deficit = &v
	}
	if s.Overpayment != nil {
		v := *s.Overpayment
		out.Overpayment = &v
	}
	return out
}

// StudentRow is the presentation form of a student with derived fields filled in.
type StudentRow struct {
	Student
	FullName  string    `json:"full_name"`
	FeeStatus FeeStatus `json:"fee_status"`
}

// StudentFilter narrows a cached collection without touching it.
type StudentFilter struct {
	AdmissionNumber string `json:"admission_number"`
	Grade           string `json:"grade"`
}

// IsZero reports whether no predicate is active.
func (f StudentFilter) IsZero() bool {
	return strings.TrimSpace(f.AdmissionNumber) == "" && f.Grade == ""
}

// Matches applies both predicates independently.
func (f StudentFilter) Matches(admissionNumber, grade string) bool {
	if f.Grade != "" && grade != f.Grade {
		return false
	}
	if q := strings.TrimSpace(f.AdmissionNumber); q != "" && !strings.Contains(admissionNumber, q) {
		return false
	}
	return true
}

// StudentCreated is the fee service response to a create request.
type StudentCreated struct {
	StudentID int64 `json:"student_id"`
}

func joinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}
