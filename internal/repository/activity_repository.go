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

// ActivityRepository reads and writes activity payment lines on the fee service.
type ActivityRepository struct {
	client *BackendClient
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(client *BackendClient) *ActivityRepository {
	return &ActivityRepository{client: client}
}

// List returns every activity line in server order.
func (r *ActivityRepository) List(ctx context.Context) ([]models.Activity, error) {
	payload, err := r.client.do(ctx, remoteCall{operation: "list_activities", method: http.MethodGet, path: "/students/activities/"})
	if err != nil {
		return nil, err
	}
	var activities []models.Activity
	if _, err := decodeJSON(payload, &activities); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

// FindStudent fetches a student and their activities by admission number.
func (r *ActivityRepository) FindStudent(ctx context.Context, admission string) (*models.StudentActivities, error) {
	payload, err := r.client.do(ctx, remoteCall{
		operation: "find_student_activities",
		method:    http.MethodGet,
		path:      "/students/activities/student/" + url.PathEscape(admission),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, err
	}
	var student models.StudentActivities
	found, err := decodeJSON(payload, &student)
	if err != nil {
		return nil, err
	}
	if !found || (student.AdmissionNumber == "" && student.FullName() == "") {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// UpdatePayment changes the paid amount of an activity for a student.
func (r *ActivityRepository) UpdatePayment(ctx context.Context, admission string, req dto.UpdateActivityPaymentRequest) (string, error) {
	payload, err := r.client.do(ctx, remoteCall{
		operation: "update_activity_payment",
		method:    http.MethodPatch,
		path:      "/students/activities/student/" + url.PathEscape(admission) + "/update_payment",
		body:      req,
	})
	if err != nil {
		return "", err
	}
	return ackMessage(payload), nil
}

// RecordPayment enrolls a student in an activity with an initial payment.
func (r *ActivityRepository) RecordPayment(ctx context.Context, admission string, req dto.RecordActivityPaymentRequest) (string, error) {
	payload, err := r.client.do(ctx, remoteCall{
		operation: "record_activity_payment",
		method:    http.MethodPost,
		path:      "/students/activities/student/" + url.PathEscape(admission) + "/activities",
		body:      req,
		auth:      true,
	})
	if err != nil {
		return "", err
	}
	return ackMessage(payload), nil
}

// Delete removes an activity line.
func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.client.do(ctx, remoteCall{
		operation: "delete_activity",
		method:    http.MethodDelete,
		path:      fmt.Sprintf("/students/activities/%d", id),
	})
	return err
}
