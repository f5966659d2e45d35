package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/fee-tracker-console/internal/models"
	"github.com/noah-isme/fee-tracker-console/internal/repository"
	"github.com/noah-isme/fee-tracker-console/internal/service"
	"github.com/noah-isme/fee-tracker-console/pkg/config"
)

// fakeFeeService is an in-memory stand-in for the remote fee service.
type fakeFeeService struct {
	mu         sync.Mutex
	students   []models.Student
	activities []models.Activity
	failPatch  bool
	down       bool
	deleted    []int64
}

func newFakeFeeService() *fakeFeeService {
	return &fakeFeeService{
		students: []models.Student{
			{ID: 1, FirstName: "Amina", LastName: "Otieno", AdmissionNumber: "ADM-100", Grade: "Grade 1", AmountPaid: 50000},
			{ID: 2, FirstName: "Brian", LastName: "Kamau", AdmissionNumber: "ADM-200", Grade: "Grade 2", AmountPaid: 1000},
		},
		activities: []models.Activity{
			{ID: 30, FirstName: "Amina", LastName: "Otieno", AdmissionNumber: "ADM-100", Grade: "Grade 1", ActivityID: 4, ActivityName: "Drama Club"},
		},
	}
}

func (f *fakeFeeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.down {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"maintenance"}`))
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/students/fees/":
		_ = json.NewEncoder(w).Encode(f.students)
	case r.Method == http.MethodGet && path == "/students/activities/":
		_ = json.NewEncoder(w).Encode(f.activities)
	case r.Method == http.MethodPatch && strings.HasPrefix(path, "/students/fees/"):
		if f.failPatch {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"db down"}`))
			return
		}
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, "/students/fees/"), 10, 64)
		var body struct {
			AmountPaid int64 `json:"amountPaid"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for i := range f.students {
			if f.students[i].ID == id {
				f.students[i].AmountPaid = models.Amount(body.AmountPaid)
				_ = json.NewEncoder(w).Encode(f.students[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/students/fees/delete_fee_by_student_id/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, "/students/fees/delete_fee_by_student_id/"), 10, 64)
		f.deleted = append(f.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no route"}`))
	}
}

type consoleFixture struct {
	router *gin.Engine
	fees   *fakeFeeService
}

func newConsoleFixture(t *testing.T) *consoleFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fees := newFakeFeeService()
	server := httptest.NewServer(fees)
	t.Cleanup(server.Close)

	client := repository.NewBackendClient(config.BackendConfig{BaseURL: server.URL}, nil, nil, zap.NewNop())
	policy := service.NewFeePolicy(service.NewCatalog(config.CatalogConfig{
		Terms:      []string{"Term 1"},
		GradeCount: 12,
		FeeTarget:  50000,
		Activities: []config.ActivityEntry{{ID: 4, Name: "Drama Club", Fee: 1000}},
	}))
	studentRepo := repository.NewStudentFeeRepository(client)
	registry := service.NewViewRegistry(studentRepo, repository.NewActivityRepository(client), policy,
		service.ViewRegistryConfig{MaxViews: 4}, nil, nil, zap.NewNop())
	reports := service.NewReportService(studentRepo, policy, nil, zap.NewNop(), nil, nil, nil)

	router := gin.New()
	RegisterViewRoutes(router.Group(""), NewStudentViewHandler(registry, reports), NewActivityViewHandler(registry))
	return &consoleFixture{router: router, fees: fees}
}

func (f *consoleFixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var envelope map[string]interface{}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	}
	return w, envelope
}

func (f *consoleFixture) mountStudents(t *testing.T) string {
	t.Helper()
	w, envelope := f.do(t, http.MethodPost, "/views/students", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return envelope["data"].(map[string]interface{})["view_id"].(string)
}

func rowsOf(envelope map[string]interface{}, key string) []interface{} {
	data := envelope["data"].(map[string]interface{})
	rows, _ := data[key].([]interface{})
	return rows
}

func TestStudentViewMountAndFilter(t *testing.T) {
	fx := newConsoleFixture(t)
	viewID := fx.mountStudents(t)

	w, envelope := fx.do(t, http.MethodGet, "/views/students/"+viewID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := rowsOf(envelope, "students")
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "Amina Otieno", first["full_name"])
	assert.Equal(t, "paid", first["fee_status"])

	w, envelope = fx.do(t, http.MethodPatch, "/views/students/"+viewID+"/filter", map[string]string{"grade": "Grade 2"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, rowsOf(envelope, "students"), 1)
	assert.EqualValues(t, 2, envelope["data"].(map[string]interface{})["total"])

	w, _ = fx.do(t, http.MethodPatch, "/views/students/"+viewID+"/filter", map[string]string{"grade": "Grade 13"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, envelope = fx.do(t, http.MethodDelete, "/views/students/"+viewID+"/filter/grade", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, rowsOf(envelope, "students"), 2)
}

func TestStudentViewUpdateFeeRollsBackOnRemoteFailure(t *testing.T) {
	fx := newConsoleFixture(t)
	viewID := fx.mountStudents(t)

	w, envelope := fx.do(t, http.MethodPatch, "/views/students/"+viewID+"/students/2/fee", map[string]int64{"amountPaid": 20000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 20000, envelope["data"].(map[string]interface{})["amount_paid"])

	fx.fees.mu.Lock()
	fx.fees.failPatch = true
	fx.fees.mu.Unlock()

	w, envelope = fx.do(t, http.MethodPatch, "/views/students/"+viewID+"/students/2/fee", map[string]int64{"amountPaid": 45000})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "REMOTE_ERROR", envelope["error"].(map[string]interface{})["code"])
	notes := envelope["meta"].(map[string]interface{})["notifications"].([]interface{})
	require.NotEmpty(t, notes)
	assert.Equal(t, "error", notes[0].(map[string]interface{})["level"])

	_, envelope = fx.do(t, http.MethodGet, "/views/students/"+viewID, nil)
	for _, row := range rowsOf(envelope, "students") {
		r := row.(map[string]interface{})
		if r["id"].(float64) == 2 {
			assert.EqualValues(t, 20000, r["amount_paid"])
		}
	}
}

func TestStudentViewUpdateFeeRequiresAmount(t *testing.T) {
	fx := newConsoleFixture(t)
	viewID := fx.mountStudents(t)

	w, _ := fx.do(t, http.MethodPatch, "/views/students/"+viewID+"/students/2/fee", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = fx.do(t, http.MethodPatch, "/views/students/"+viewID+"/students/abc/fee", map[string]int64{"amountPaid": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentViewTwoStepDelete(t *testing.T) {
	fx := newConsoleFixture(t)
	viewID := fx.mountStudents(t)

	w, _ := fx.do(t, http.MethodPost, "/views/students/"+viewID+"/delete/confirm", nil)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)

	w, envelope := fx.do(t, http.MethodPost, "/views/students/"+viewID+"/students/1/delete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Amina Otieno", envelope["data"].(map[string]interface{})["display_name"])

	w, envelope = fx.do(t, http.MethodGet, "/views/students/"+viewID+"/delete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, envelope["data"])

	w, envelope = fx.do(t, http.MethodPost, "/views/students/"+viewID+"/delete/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, rowsOf(envelope, "students"), 1)
	fx.fees.mu.Lock()
	assert.Equal(t, []int64{1}, fx.fees.deleted)
	fx.fees.mu.Unlock()

	w, envelope = fx.do(t, http.MethodGet, "/views/students/"+viewID+"/delete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, envelope["data"])
}

func TestStudentViewMountWithUnreachableService(t *testing.T) {
	fx := newConsoleFixture(t)
	fx.fees.mu.Lock()
	fx.fees.down = true
	fx.fees.mu.Unlock()

	w, envelope := fx.do(t, http.MethodPost, "/views/students", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, false, data["loaded"])
	meta := envelope["meta"].(map[string]interface{})
	assert.Equal(t, "maintenance", meta["load_error"].(map[string]interface{})["message"])
}

func TestStudentViewUnknownAndUnmounted(t *testing.T) {
	fx := newConsoleFixture(t)
	w, _ := fx.do(t, http.MethodGet, "/views/students/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	viewID := fx.mountStudents(t)
	w, _ = fx.do(t, http.MethodDelete, "/views/students/"+viewID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = fx.do(t, http.MethodGet, "/views/students/"+viewID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentViewTooManyViews(t *testing.T) {
	fx := newConsoleFixture(t)
	for i := 0; i < 4; i++ {
		fx.mountStudents(t)
	}
	w, envelope := fx.do(t, http.MethodPost, "/views/activities", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_VIEWS", envelope["error"].(map[string]interface{})["code"])
}

func TestStudentViewExport(t *testing.T) {
	fx := newConsoleFixture(t)
	viewID := fx.mountStudents(t)

	w, _ := fx.do(t, http.MethodGet, "/views/students/"+viewID+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), service.StudentDataFilename)

	var students []models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &students))
	assert.Len(t, students, 2)
}

func TestActivityViewMountAndDelete(t *testing.T) {
	fx := newConsoleFixture(t)

	w, envelope := fx.do(t, http.MethodPost, "/views/activities", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := envelope["data"].(map[string]interface{})
	viewID := data["view_id"].(string)
	rows := rowsOf(envelope, "activities")
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.EqualValues(t, 1000, row["fee"])
	assert.EqualValues(t, 1000, row["deficit"])

	w, _ = fx.do(t, http.MethodPost, "/views/activities/"+viewID+"/activities/99/delete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = fx.do(t, http.MethodPost, "/views/activities/"+viewID+"/activities/30/delete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = fx.do(t, http.MethodDelete, "/views/activities/"+viewID+"/delete", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = fx.do(t, http.MethodPost, "/views/activities/"+viewID+"/delete/confirm", nil)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}
