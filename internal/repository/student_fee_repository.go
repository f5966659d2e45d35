package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/noah-isme/fee-tracker-console/internal/dto"
	"github.com/noah-isme/fee-tracker-console/internal/models"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
)

// StudentFeeRepository reads and writes student fee records on the fee service.
type StudentFeeRepository struct {
	client *BackendClient
}

// NewStudentFeeRepository constructs a StudentFeeRepository.
func NewStudentFeeRepository(client *BackendClient) *StudentFeeRepository {
	return &StudentFeeRepository{client: client}
}

// List returns every student fee record in server order.
func (r *StudentFeeRepository) List(ctx context.Context) ([]models.Student, error) {
	payload, err := r.client.do(ctx, remoteCall{operation: "list_students", method: http.MethodGet, path: "/students/fees/"})
	if err != nil {
		return nil, err
	}
	var students []models.Student
	if _, err := decodeJSON(payload, &students); err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// FindByAdmission fetches a single student by admission number.
func (r *StudentFeeRepository) FindByAdmission(ctx context.Context, admission string) (*models.Student, error) {
	payload, err := r.client.do(ctx, remoteCall{
		operation: "find_student",
		method:    http.MethodGet,
		path:      "/students/fees/" + url.PathEscape(admission),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, err
	}
	var student models.Student
	found, err := decodeJSON(payload, &student)
	if err != nil {
		return nil, err
	}
	if !found || (student.ID == 0 && student.AdmissionNumber == "") {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// PatchAmount sets the paid amount of a student. The returned record is nil when
// the fee service does not echo one back.
func (r *StudentFeeRepository) PatchAmount(ctx context.Context, id int64, amount int64) (*models.Student, error) {
	payload, err := r.client.do(ctx, remoteCall{
		operation: "patch_fee",
		method:    http.MethodPatch,
		path:      fmt.Sprintf("/students/fees/%d", id),
		body:      dto.PatchFeeRequest{AmountPaid: amount},
	})
	if err != nil {
		return nil, err
	}
	var updated models.Student
	if found, err := decodeJSON(payload, &updated); err != nil || !found || updated.ID == 0 {
		return nil, nil
	}
	return &updated, nil
}

// UpdatePayment records a payment against an admission number.
func (r *StudentFeeRepository) UpdatePayment(ctx context.Context, admission string, req dto.UpdatePaymentRequest) (string, error) {
	payload, err := r.client.do(ctx, remoteCall{
		operation: "update_payment",
		method:    http.MethodPatch,
		path:      "/students/fees/" + url.PathEscape(admission) + "/update_payment",
		body:      req,
	})
	if err != nil {
		return "", err
	}
	return ackMessage(payload), nil
}

// RecordFeePayment posts a general fee payment for an admission number.
func (r *StudentFeeRepository) RecordFeePayment(ctx context.Context, admission string, req dto.FeePaymentRequest) (string, error) {
	payload, err := r.client.do(ctx, remoteCall{
		operation: "record_fee_payment",
		method:    http.MethodPost,
		path:      "/students/fees/" + url.PathEscape(admission) + "/fees",
		body:      req,
	})
	if err != nil {
		return "", err
	}
	return ackMessage(payload), nil
}

// Create registers a new student and returns the id assigned by the fee service.
func (r *StudentFeeRepository) Create(ctx context.Context, req dto.CreateStudentRequest) (int64, error) {
	payload, err := r.client.do(ctx, remoteCall{
		operation: "create_student",
		method:    http.MethodPost,
		path:      "/students/add",
		body:      req,
		auth:      true,
	})
	if err != nil {
		return 0, err
	}
	var created models.StudentCreated
	if _, err := decodeJSON(payload, &created); err != nil {
		return 0, err
	}
	if created.StudentID == 0 {
		return 0, appErrors.Clone(appErrors.ErrRemote, "fee service did not return a student id")
	}
	return created.StudentID, nil
}

// Delete removes the fee record of a student.
func (r *StudentFeeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.client.do(ctx, remoteCall{
		operation: "delete_student",
		method:    http.MethodDelete,
		path:      fmt.Sprintf("/students/fees/delete_fee_by_student_id/%d", id),
	})
	return err
}

func ackMessage(payload []byte) string {
	var ack dto.RemoteMessage
	if found, err := decodeJSON(payload, &ack); err != nil || !found {
		return ""
	}
	return ack.Message
}
