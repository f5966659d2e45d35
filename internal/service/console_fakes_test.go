package service

import (
	"context"
	"sync"

	"github.com/noah-isme/fee-tracker-console/internal/dto"
	"github.com/noah-isme/fee-tracker-console/internal/models"
	"github.com/noah-isme/fee-tracker-console/pkg/config"
	appErrors "github.com/noah-isme/fee-tracker-console/pkg/errors"
)

func testCatalog() models.Catalog {
	entries, err := config.ParseActivityCatalog(config.DefaultActivityCatalog)
	if err != nil {
		panic(err)
	}
	return NewCatalog(config.CatalogConfig{
		Terms:      []string{"Term 1", "Term 2", "Term 3"},
		GradeCount: 12,
		FeeTarget:  50000,
		Currency:   "KES",
		Activities: entries,
	})
}

func testPolicy() FeePolicy {
	return NewFeePolicy(testCatalog())
}

func floatPtr(v float64) *float64 {
	return &v
}

func amountPtr(v int64) *models.Amount {
	a := models.Amount(v)
	return &a
}

type patchCall struct {
	id     int64
	amount int64
}

type fakeStudentRepo struct {
	mu sync.Mutex

	students  []models.Student
	listErr   error
	listCalls int

	found   *models.Student
	findErr error

	patchCalls   []patchCall
	patchStarted chan struct{}
	patchRelease chan struct{}
	patchErr     error
	patchResult  *models.Student

	createCalls []dto.CreateStudentRequest
	createID    int64
	createErr   error

	deleteCalls []int64
	deleteErr   error

	paymentCalls []dto.UpdatePaymentRequest
	feeCalls     []dto.FeePaymentRequest
	paymentMsg   string
	paymentErr   error
}

func (f *fakeStudentRepo) List(context.Context) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Student, len(f.students))
	for i, s := range f.students {
		out[i] = s.Clone()
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByAdmission(_ context.Context, admission string) (*models.Student, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.found == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s := f.found.Clone()
	return &s, nil
}

func (f *fakeStudentRepo) PatchAmount(ctx context.Context, id int64, amount int64) (*models.Student, error) {
	f.mu.Lock()
	f.patchCalls = append(f.patchCalls, patchCall{id: id, amount: amount})
	started, release := f.patchStarted, f.patchRelease
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	if f.patchResult != nil {
		s := f.patchResult.Clone()
		return &s, nil
	}
	return nil, nil
}

func (f *fakeStudentRepo) UpdatePayment(_ context.Context, _ string, req dto.UpdatePaymentRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentCalls = append(f.paymentCalls, req)
	return f.paymentMsg, f.paymentErr
}

func (f *fakeStudentRepo) RecordFeePayment(_ context.Context, _ string, req dto.FeePaymentRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeCalls = append(f.feeCalls, req)
	return f.paymentMsg, f.paymentErr
}

func (f *fakeStudentRepo) Create(_ context.Context, req dto.CreateStudentRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, req)
	return f.createID, f.createErr
}

func (f *fakeStudentRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func (f *fakeStudentRepo) remoteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls + len(f.patchCalls) + len(f.createCalls) + len(f.deleteCalls) + len(f.paymentCalls) + len(f.feeCalls)
}

type fakeActivityRepo struct {
	mu sync.Mutex

	activities []models.Activity
	listErr    error
	listCalls  int

	student *models.StudentActivities
	findErr error

	updateCalls []dto.UpdateActivityPaymentRequest
	recordCalls []dto.RecordActivityPaymentRequest
	writeMsg    string
	writeErr    error

	deleteCalls []int64
	deleteErr   error
}

func (f *fakeActivityRepo) List(context.Context) ([]models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Activity, len(f.activities))
	for i, a := range f.activities {
		out[i] = a.Clone()
	}
	return out, nil
}

func (f *fakeActivityRepo) FindStudent(context.Context, string) (*models.StudentActivities, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s := *f.student
	return &s, nil
}

func (f *fakeActivityRepo) UpdatePayment(_ context.Context, _ string, req dto.UpdateActivityPaymentRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, req)
	return f.writeMsg, f.writeErr
}

func (f *fakeActivityRepo) RecordPayment(_ context.Context, _ string, req dto.RecordActivityPaymentRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordCalls = append(f.recordCalls, req)
	return f.writeMsg, f.writeErr
}

func (f *fakeActivityRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	setErr error
	writes []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	m.writes = append(m.writes, key+"="+value)
	return nil
}
