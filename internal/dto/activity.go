package dto

// UpdateActivityPaymentRequest is the body of
// PATCH /students/activities/student/{admission}/update_payment.
type UpdateActivityPaymentRequest struct {
	ActivityID   int64    `json:"activity_id" validate:"required"`
	ActivityName string   `json:"activity_name"`
	AmountPaid   *float64 `json:"amount_paid" validate:"required,gte=0"`
}

// RecordActivityPaymentRequest is the body of
// POST /students/activities/student/{admission}/activities.
type RecordActivityPaymentRequest struct {
	ActivityID    int64   `json:"activity_id" validate:"required"`
	AmountPaid    float64 `json:"amount_paid" validate:"required,gt=0"`
	PaymentStatus string  `json:"payment_status"`
}
