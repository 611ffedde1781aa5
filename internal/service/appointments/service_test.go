package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	timewindowRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/timewindow"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
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

type fakeAppointmentRepo struct {
	rows    map[int64]*domain.Appointment
	pending map[int64]int
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if appt, ok := r.rows[id]; ok {
		out := *appt
		return &out, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (r *fakeAppointmentRepo) GetWithFilter(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, appt := range r.rows {
		if filter.UserID != nil && appt.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && appt.Status != *filter.Status {
			continue
		}
		if filter.TransactionTypeID != nil && appt.TransactionTypeID != *filter.TransactionTypeID {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeAppointmentRepo) CountPending(_ context.Context, typeID int64) (int, error) {
	return r.pending[typeID], nil
}

type fakeTimeWindowRepo struct {
	window *domain.TimeWindow
	totals map[int64]int
}

func (r *fakeTimeWindowRepo) GetByDate(_ context.Context, date time.Time) ([]*domain.TimeWindow, error) {
	if r.window != nil && r.window.AvailabilityDate.Equal(date) {
		return []*domain.TimeWindow{r.window}, nil
	}
	return nil, nil
}

func (r *fakeTimeWindowRepo) Release(_ context.Context, id int64, frame domain.TimeFrame) (*domain.TimeWindow, error) {
	if r.window == nil || r.window.ID != id {
		return nil, timewindowRepo.ErrWindowNotFound
	}
	if r.window.HalfDayCount(frame) == 0 {
		return nil, timewindowRepo.ErrNothingToRelease
	}
	if frame == domain.TimeFrameAM {
		r.window.TotalAMAppointments--
	} else {
		r.window.TotalPMAppointments--
	}
	r.window.TotalSlotsLeft++
	out := *r.window
	return &out, nil
}

func (r *fakeTimeWindowRepo) TotalSlotsLeft(_ context.Context, typeID int64) (int, error) {
	return r.totals[typeID], nil
}

func testDate() time.Time {
	return time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
}

func activeAppointment(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:                5,
		TransactionTypeID: 2,
		TimeWindowID:      ptr.Ptr(int64(10)),
		UserID:            "21-A-01720",
		AppointmentDate:   testDate(),
		TimeFrame:         domain.TimeFrameAM,
		Semester:          "1",
		SchoolYear:        "2024-2025",
		Status:            status,
	}
}

func reservedWindow() *domain.TimeWindow {
	return &domain.TimeWindow{
		ID:                  10,
		TransactionTypeID:   2,
		AvailabilityDate:    testDate(),
		CapacityPerDay:      2,
		AvailabilityType:    domain.AvailabilityFull,
		TotalAMAppointments: 1,
		TotalSlotsLeft:      1,
	}
}

func TestRemove_PendingReleasesSlot(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{5: activeAppointment(domain.StatusPending)}}
	twRepo := &fakeTimeWindowRepo{window: reservedWindow()}
	auditor := &fakeAuditor{}
	svc := NewService(apptRepo, twRepo, fakeTxManager{}, auditor, nopLogger{})

	resp, err := svc.Remove(context.Background(), 5, "admin-01")
	require.NoError(t, err)

	assert.True(t, resp.SlotReleased)
	assert.Equal(t, 0, twRepo.window.TotalAMAppointments)
	assert.Equal(t, 2, twRepo.window.TotalSlotsLeft)
	assert.NotContains(t, apptRepo.rows, int64(5))
	assert.Equal(t, []string{"deleteAppointment"}, auditor.actions)
}

func TestRemove_ApprovedReleasesSlot(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{5: activeAppointment(domain.StatusApproved)}}
	twRepo := &fakeTimeWindowRepo{window: reservedWindow()}
	svc := NewService(apptRepo, twRepo, fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	resp, err := svc.Remove(context.Background(), 5, "admin-01")
	require.NoError(t, err)
	assert.True(t, resp.SlotReleased)
	assert.Equal(t, 2, twRepo.window.TotalSlotsLeft)
}

func TestRemove_DeclinedKeepsCounters(t *testing.T) {
	// терминальная запись слот не держит
	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{5: activeAppointment(domain.StatusDeclined)}}
	twRepo := &fakeTimeWindowRepo{window: reservedWindow()}
	svc := NewService(apptRepo, twRepo, fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	resp, err := svc.Remove(context.Background(), 5, "admin-01")
	require.NoError(t, err)
	assert.False(t, resp.SlotReleased)
	assert.Equal(t, 1, twRepo.window.TotalAMAppointments)
	assert.Equal(t, 1, twRepo.window.TotalSlotsLeft)
}

func TestRemove_NotFound(t *testing.T) {
	auditor := &fakeAuditor{}
	svc := NewService(&fakeAppointmentRepo{rows: map[int64]*domain.Appointment{}}, &fakeTimeWindowRepo{}, fakeTxManager{}, auditor, nopLogger{})

	_, err := svc.Remove(context.Background(), 99, "admin-01")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	// неудачное удаление тоже фиксируется в журнале аудита
	assert.Equal(t, []string{"deleteAppointment"}, auditor.actions)
}

func TestGet_WildcardFilters(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{
		5: activeAppointment(domain.StatusPending),
		6: func() *domain.Appointment {
			a := activeAppointment(domain.StatusApproved)
			a.ID = 6
			a.UserID = "22-B-00001"
			return a
		}(),
	}}
	svc := NewService(apptRepo, &fakeTimeWindowRepo{}, fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	// без фильтров возвращаются все записи
	all, err := svc.Get(context.Background(), &models.QueryRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Appointments, 2)

	// фильтр по пользователю сужает выборку
	one, err := svc.Get(context.Background(), &models.QueryRequest{UserID: ptr.Ptr("21-A-01720")})
	require.NoError(t, err)
	require.Len(t, one.Appointments, 1)
	assert.Equal(t, int64(5), one.Appointments[0].ID)
}

func TestGet_UnknownStatus(t *testing.T) {
	svc := NewService(&fakeAppointmentRepo{}, &fakeTimeWindowRepo{}, fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	_, err := svc.Get(context.Background(), &models.QueryRequest{Status: ptr.Ptr("Archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetTimewindow(t *testing.T) {
	twRepo := &fakeTimeWindowRepo{window: reservedWindow()}
	svc := NewService(&fakeAppointmentRepo{}, twRepo, fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	resp, err := svc.GetTimewindow(context.Background(), testDate())
	require.NoError(t, err)
	require.Len(t, resp.TimeWindows, 1)
	assert.Equal(t, 1, resp.TimeWindows[0].TotalAMAppointments)

	empty, err := svc.GetTimewindow(context.Background(), testDate().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, empty.TimeWindows)
}

func TestFetchTotals_ZeroDefaults(t *testing.T) {
	twRepo := &fakeTimeWindowRepo{totals: map[int64]int{2: 7}}
	apptRepo := &fakeAppointmentRepo{pending: map[int64]int{2: 3}}
	svc := NewService(apptRepo, twRepo, fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	slots, err := svc.FetchTotalSlots(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 7, slots.TotalSlotsLeft)

	noSlots, err := svc.FetchTotalSlots(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 0, noSlots.TotalSlotsLeft)

	pendings, err := svc.FetchTotalPendings(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, pendings.TotalPendings)

	noPendings, err := svc.FetchTotalPendings(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 0, noPendings.TotalPendings)
}
