package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	typeRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/transactiontype"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAuditor struct {
	actions []string
}

func (a *fakeAuditor) Audit(_ context.Context, action, _, _ string) {
	a.actions = append(a.actions, action)
}

type fakeTypeRepo struct {
	types map[int64]*domain.TransactionType
}

func (r *fakeTypeRepo) GetByID(_ context.Context, id int64) (*domain.TransactionType, error) {
	if tt, ok := r.types[id]; ok {
		return tt, nil
	}
	return nil, typeRepo.ErrTypeNotFound
}

type fakeAvailabilityRepo struct {
	nextID     int64
	windows    map[int64]*domain.AvailabilityWindow
	activeByID map[int64]bool
	deleted    []int64
	updateErr  error
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{
		nextID:     1,
		windows:    make(map[int64]*domain.AvailabilityWindow),
		activeByID: make(map[int64]bool),
	}
}

func (r *fakeAvailabilityRepo) Create(_ context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	created := *w
	created.ID = r.nextID
	for i := range created.TimeWindows {
		created.TimeWindows[i].ID = r.nextID*100 + int64(i)
		created.TimeWindows[i].AvailabilityID = created.ID
	}
	r.nextID++
	r.windows[created.ID] = &created
	return &created, nil
}

func (r *fakeAvailabilityRepo) Update(_ context.Context, w *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.windows[w.ID]; !ok {
		return nil, availabilityRepo.ErrAvailabilityNotFound
	}
	updated := *w
	r.windows[w.ID] = &updated
	return &updated, nil
}

func (r *fakeAvailabilityRepo) GetWithFilter(_ context.Context, _ domain.AvailabilityFilter) ([]*domain.AvailabilityWindow, error) {
	out := make([]*domain.AvailabilityWindow, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, w)
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.windows[id]; !ok {
		return availabilityRepo.ErrAvailabilityNotFound
	}
	delete(r.windows, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeAvailabilityRepo) HasActiveAppointments(_ context.Context, id int64) (bool, error) {
	return r.activeByID[id], nil
}

func date(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func newService(repo *fakeAvailabilityRepo) (*Service, *fakeAuditor) {
	auditor := &fakeAuditor{}
	svc := NewService(
		repo,
		&fakeTypeRepo{types: map[int64]*domain.TransactionType{2: {ID: 2, Title: "Clearance"}}},
		fakeTxManager{},
		auditor,
		nopLogger{},
	)
	return svc, auditor
}

func createRequest() *models.CreateRequest {
	return &models.CreateRequest{
		TransactionTypeID: 2,
		College:           ptr.Ptr("CICT"),
		Semester:          "1",
		SchoolYear:        "2024-2025",
		StartDate:         date("2024-11-01"),
		EndDate:           date("2024-11-01"),
		CreatedBy:         "admin-01",
		CreatedAt:         time.Now(),
		TimeWindows: []models.TimeWindowInput{
			{AvailabilityDate: date("2024-11-01"), CapacityPerDay: 2, AvailabilityType: "full"},
		},
	}
}

// Один день, capacity_per_day=2: одна дневная запись со свободными слотами
func TestInsert_SingleDayWindow(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc, auditor := newService(repo)

	resp, err := svc.Insert(context.Background(), createRequest())
	require.NoError(t, err)

	require.Len(t, resp.TimeWindows, 1)
	tw := resp.TimeWindows[0]
	assert.Equal(t, "full", tw.AvailabilityType)
	assert.Equal(t, 2, tw.CapacityPerDay)
	assert.Equal(t, 0, tw.TotalAMAppointments)
	assert.Equal(t, 0, tw.TotalPMAppointments)
	assert.Equal(t, 2, tw.TotalSlotsLeft)
	assert.Equal(t, []string{"insertAvailability"}, auditor.actions)
}

func TestInsert_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateRequest)
	}{
		{"end before start", func(r *models.CreateRequest) { r.EndDate = date("2024-10-01") }},
		{"no time windows", func(r *models.CreateRequest) { r.TimeWindows = nil }},
		{"odd capacity", func(r *models.CreateRequest) { r.TimeWindows[0].CapacityPerDay = 3 }},
		{"zero capacity", func(r *models.CreateRequest) { r.TimeWindows[0].CapacityPerDay = 0 }},
		{"unknown type", func(r *models.CreateRequest) { r.TimeWindows[0].AvailabilityType = "evening" }},
		{"date outside range", func(r *models.CreateRequest) { r.TimeWindows[0].AvailabilityDate = date("2024-12-01") }},
		{"duplicate day", func(r *models.CreateRequest) {
			r.TimeWindows = append(r.TimeWindows, r.TimeWindows[0])
		}},
	}

	svc, _ := newService(newFakeAvailabilityRepo())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest()
			tt.mutate(req)
			_, err := svc.Insert(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestInsert_UnknownTransactionType(t *testing.T) {
	svc, auditor := newService(newFakeAvailabilityRepo())

	req := createRequest()
	req.TransactionTypeID = 99
	_, err := svc.Insert(context.Background(), req)
	assert.ErrorIs(t, err, ErrTransactionTypeNotFound)
	assert.Equal(t, []string{"insertAvailability"}, auditor.actions)
}

func updateRequest(id int64) *models.UpdateRequest {
	return &models.UpdateRequest{
		AvailabilityID:    id,
		TransactionTypeID: 2,
		Semester:          "1",
		SchoolYear:        "2024-2025",
		StartDate:         date("2024-11-01"),
		EndDate:           date("2024-11-01"),
		UserID:            "admin-01",
		TimeWindows: []models.TimeWindowInput{
			{AvailabilityDate: date("2024-11-01"), CapacityPerDay: 4, AvailabilityType: "full"},
		},
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newService(newFakeAvailabilityRepo())

	_, err := svc.Update(context.Background(), updateRequest(42))
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)
}

// Сжатие емкости ниже числа уже забронированных слотов дает конфликт,
// а не непрозрачную ошибку хранилища
func TestUpdate_CapacityConflict(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc, auditor := newService(repo)

	resp, err := svc.Insert(context.Background(), createRequest())
	require.NoError(t, err)

	repo.updateErr = availabilityRepo.ErrCapacityConflict
	_, err = svc.Update(context.Background(), updateRequest(resp.ID))
	assert.ErrorIs(t, err, ErrConflict)
	// неудачное обновление тоже фиксируется в журнале аудита
	assert.Contains(t, auditor.actions, "updateAvailability")
}

func TestDelete_BlockedByActiveAppointments(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc, _ := newService(repo)

	resp, err := svc.Insert(context.Background(), createRequest())
	require.NoError(t, err)
	repo.activeByID[resp.ID] = true

	err = svc.Delete(context.Background(), resp.ID, "admin-01")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, repo.deleted)
}

func TestDelete_Success(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc, auditor := newService(repo)

	resp, err := svc.Insert(context.Background(), createRequest())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), resp.ID, "admin-01")
	require.NoError(t, err)
	assert.Equal(t, []int64{resp.ID}, repo.deleted)
	assert.Contains(t, auditor.actions, "deleteAvailability")
}
