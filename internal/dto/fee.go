package dto

import "github.com/noah-isme/fee-tracker-console/internal/models"

// PatchFeeRequest is the body of PATCH /students/fees/{id}.
type PatchFeeRequest struct {
	AmountPaid int64 `json:"amountPaid"`
}

// UpdatePaymentRequest is the body of PATCH /students/fees/{admission}/update_payment.
type UpdatePaymentRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentStatus string  `json:"payment_status"`
	Date          string  `json:"date" validate:"required"`
}

// FeePaymentRequest is the body of POST /students/fees/{admission}/fees.
type FeePaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Date   string  `json:"date" validate:"required"`
}

// CreateStudentRequest is the body of POST /students/add. Every field is required.
type CreateStudentRequest struct {
	FirstName       string `json:"firstname" validate:"required"`
	MiddleName      string `json:"middlename" validate:"required"`
	LastName        string `json:"lastname" validate:"required"`
	AdmissionNumber string `json:"admission_number" validate:"required"`
	Grade           string `json:"grade" validate:"required"`
}

// ToStudent builds the cached record for a freshly created student.
func (r CreateStudentRequest) ToStudent(id int64) models.Student {
	return models.Student{
		ID:              id,
		FirstName:       r.FirstName,
		MiddleName:      r.MiddleName,
		LastName:        r.LastName,
		AdmissionNumber: r.AdmissionNumber,
		Grade:           r.Grade,
	}
}

// UpdateFeeRequest is the console body for an optimistic fee patch.
type UpdateFeeRequest struct {
	AmountPaid *int64 `json:"amountPaid" validate:"required"`
}

// RemoteMessage is the best-effort acknowledgement returned by write endpoints.
type RemoteMessage struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
