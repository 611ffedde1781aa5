package decide_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	timewindowRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/timewindow"
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

type notification struct {
	studentID     string
	appointmentID int64
	status        domain.AppointmentStatus
}

type fakeNotifier struct {
	sent []notification
}

func (n *fakeNotifier) AppointmentDecided(_ context.Context, studentID string, appointmentID int64, status domain.AppointmentStatus, _ string) {
	n.sent = append(n.sent, notification{studentID, appointmentID, status})
}

type auditEntry struct {
	action  string
	actor   string
	details string
}

type fakeAuditor struct {
	entries []auditEntry
}

func (a *fakeAuditor) Audit(_ context.Context, action, actor, details string) {
	a.entries = append(a.entries, auditEntry{action, actor, details})
}

type fakeAppointmentRepo struct {
	rows map[int64]*domain.Appointment
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if appt, ok := r.rows[id]; ok {
		out := *appt
		return &out, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (r *fakeAppointmentRepo) Decide(_ context.Context, id int64, status domain.AppointmentStatus, approvedBy string, studentEmail, studentID *string) (*domain.Appointment, error) {
	appt, ok := r.rows[id]
	if !ok || appt.Status != domain.StatusPending {
		return nil, appointmentRepo.ErrNotPending
	}
	appt.Status = status
	appt.ApprovedBy = &approvedBy
	if studentEmail != nil {
		appt.StudentEmail = studentEmail
	}
	if studentID != nil {
		appt.StudentID = studentID
	}
	appt.UpdatedAt = time.Now()
	out := *appt
	return &out, nil
}

type fakeTimeWindowRepo struct {
	windows map[int64]*domain.TimeWindow
}

func (r *fakeTimeWindowRepo) Release(_ context.Context, id int64, frame domain.TimeFrame) (*domain.TimeWindow, error) {
	w, ok := r.windows[id]
	if !ok {
		return nil, timewindowRepo.ErrWindowNotFound
	}
	if w.HalfDayCount(frame) == 0 {
		return nil, timewindowRepo.ErrNothingToRelease
	}
	if frame == domain.TimeFrameAM {
		w.TotalAMAppointments--
	} else {
		w.TotalPMAppointments--
	}
	w.TotalSlotsLeft++
	out := *w
	return &out, nil
}

func testDate() time.Time {
	return time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
}

func pendingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:                5,
		TransactionTypeID: 2,
		TimeWindowID:      ptr.Ptr(int64(10)),
		UserID:            "21-A-01720",
		AppointmentDate:   testDate(),
		TimeFrame:         domain.TimeFrameAM,
		Semester:          "1",
		SchoolYear:        "2024-2025",
		Status:            domain.StatusPending,
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

func decideRequest(decision string) *Request {
	return &Request{
		AppointmentID: 5,
		Decision:      decision,
		ApprovedBy:    "admin-01",
		StudentEmail:  ptr.Ptr("student@wvsu.edu.ph"),
		StudentID:     ptr.Ptr("21-A-01720"),
	}
}

func TestExecute_ApproveKeepsSlot(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{5: pendingAppointment()}}
	twRepo := &fakeTimeWindowRepo{windows: map[int64]*domain.TimeWindow{10: reservedWindow()}}
	notifier := &fakeNotifier{}
	uc := NewUseCase(apptRepo, twRepo, fakeTxManager{}, notifier, &fakeAuditor{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), decideRequest("Approved"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	assert.False(t, resp.SlotReleased)
	// решение Approved не трогает счетчики
	assert.Equal(t, 1, twRepo.windows[10].TotalAMAppointments)
	assert.Equal(t, 1, twRepo.windows[10].TotalSlotsLeft)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "21-A-01720", notifier.sent[0].studentID)
	assert.Equal(t, domain.StatusApproved, notifier.sent[0].status)
}

func TestExecute_DeclineReleasesSlot(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{5: pendingAppointment()}}
	twRepo := &fakeTimeWindowRepo{windows: map[int64]*domain.TimeWindow{10: reservedWindow()}}
	notifier := &fakeNotifier{}
	uc := NewUseCase(apptRepo, twRepo, fakeTxManager{}, notifier, &fakeAuditor{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), decideRequest("Declined"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusDeclined), resp.Status)
	assert.True(t, resp.SlotReleased)
	assert.Equal(t, 0, twRepo.windows[10].TotalAMAppointments)
	assert.Equal(t, 2, twRepo.windows[10].TotalSlotsLeft)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, domain.StatusDeclined, notifier.sent[0].status)
}

func TestExecute_DeclineReleasesReservedWindow(t *testing.T) {
	// на той же дате и типе позже появилось второе окно: слот должен
	// вернуться именно зарезервированному окну, а не найденному по области
	other := reservedWindow()
	other.ID = 11
	other.College = ptr.Ptr("CICT")
	other.TotalAMAppointments = 1
	other.TotalSlotsLeft = 1

	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{5: pendingAppointment()}}
	twRepo := &fakeTimeWindowRepo{windows: map[int64]*domain.TimeWindow{
		10: reservedWindow(),
		11: other,
	}}
	uc := NewUseCase(apptRepo, twRepo, fakeTxManager{}, &fakeNotifier{}, &fakeAuditor{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), decideRequest("Declined"))
	require.NoError(t, err)
	assert.True(t, resp.SlotReleased)

	assert.Equal(t, 0, twRepo.windows[10].TotalAMAppointments)
	assert.Equal(t, 2, twRepo.windows[10].TotalSlotsLeft)
	// чужое окно не тронуто
	assert.Equal(t, 1, twRepo.windows[11].TotalAMAppointments)
	assert.Equal(t, 1, twRepo.windows[11].TotalSlotsLeft)
}

func TestExecute_AlreadyDecided(t *testing.T) {
	approved := pendingAppointment()
	approved.Status = domain.StatusApproved
	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{5: approved}}
	uc := NewUseCase(apptRepo, &fakeTimeWindowRepo{}, fakeTxManager{}, &fakeNotifier{}, &fakeAuditor{}, nopLogger{})

	_, err := uc.Execute(context.Background(), decideRequest("Declined"))
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_NotFound(t *testing.T) {
	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{}}
	uc := NewUseCase(apptRepo, &fakeTimeWindowRepo{}, fakeTxManager{}, &fakeNotifier{}, &fakeAuditor{}, nopLogger{})

	_, err := uc.Execute(context.Background(), decideRequest("Approved"))
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_DeclineWithoutWindow(t *testing.T) {
	// окно удалили после создания записи: ссылки больше нет, решение все равно проходит
	orphan := pendingAppointment()
	orphan.TimeWindowID = nil
	apptRepo := &fakeAppointmentRepo{rows: map[int64]*domain.Appointment{5: orphan}}
	uc := NewUseCase(apptRepo, &fakeTimeWindowRepo{}, fakeTxManager{}, &fakeNotifier{}, &fakeAuditor{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), decideRequest("Declined"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDeclined), resp.Status)
	assert.False(t, resp.SlotReleased)
}

func TestExecute_InvalidDecision(t *testing.T) {
	auditor := &fakeAuditor{}
	uc := NewUseCase(&fakeAppointmentRepo{}, &fakeTimeWindowRepo{}, fakeTxManager{}, &fakeNotifier{}, auditor, nopLogger{})

	_, err := uc.Execute(context.Background(), decideRequest("Pending"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	// неудачная попытка тоже попадает в журнал аудита
	require.Len(t, auditor.entries, 1)
	assert.Equal(t, "approveAppointment", auditor.entries[0].action)
	assert.Equal(t, "admin-01", auditor.entries[0].actor)
	assert.Contains(t, auditor.entries[0].details, "failed")
}
