package submit_appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	timewindowRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/timewindow"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// Фейки контрактов use case

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAuditor struct {
	mu      sync.Mutex
	actions []string
}

func (a *fakeAuditor) Audit(_ context.Context, action, _, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

type fakeAppointmentRepo struct {
	mu     sync.Mutex
	nextID int64
	active map[string]*domain.Appointment
	rows   []*domain.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{nextID: 1, active: make(map[string]*domain.Appointment)}
}

func activeKey(userID string, typeID int64, semester, schoolYear string) string {
	return fmt.Sprintf("%s|%d|%s|%s", userID, typeID, semester, schoolYear)
}

func (r *fakeAppointmentRepo) GetActive(_ context.Context, userID string, typeID int64, semester, schoolYear string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt, ok := r.active[activeKey(userID, typeID, semester, schoolYear)]; ok {
		return appt, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *appt
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.nextID++
	r.rows = append(r.rows, &created)
	r.active[activeKey(created.UserID, created.TransactionTypeID, created.Semester, created.SchoolYear)] = &created
	return &created, nil
}

type fakeTimeWindowRepo struct {
	mu      sync.Mutex
	windows map[int64]*domain.TimeWindow
}

func newFakeTimeWindowRepo(windows ...*domain.TimeWindow) *fakeTimeWindowRepo {
	repo := &fakeTimeWindowRepo{windows: make(map[int64]*domain.TimeWindow)}
	for _, w := range windows {
		repo.windows[w.ID] = w
	}
	return repo
}

func (r *fakeTimeWindowRepo) GetForDateScope(_ context.Context, date time.Time, typeID int64, college *string) (*domain.TimeWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var fallback *domain.TimeWindow
	for _, w := range r.windows {
		if !w.AvailabilityDate.Equal(date) || w.TransactionTypeID != typeID {
			continue
		}
		if college != nil && w.College != nil && *w.College == *college {
			copy := *w
			return &copy, nil
		}
		if w.College == nil {
			fallback = w
		}
	}
	if fallback != nil {
		copy := *fallback
		return &copy, nil
	}
	return nil, timewindowRepo.ErrWindowNotFound
}

// Reserve повторяет семантику условного обновления: проверка и инкремент
// счетчиков атомарны под мьютексом
func (r *fakeTimeWindowRepo) Reserve(_ context.Context, id int64, frame domain.TimeFrame) (*domain.TimeWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil, timewindowRepo.ErrWindowNotFound
	}
	if !w.CanReserve(frame) {
		return nil, timewindowRepo.ErrSlotNotAvailable
	}
	if frame == domain.TimeFrameAM {
		w.TotalAMAppointments++
	} else {
		w.TotalPMAppointments++
	}
	w.TotalSlotsLeft--
	copy := *w
	return &copy, nil
}

func testDate() time.Time {
	return time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
}

func validRequest() *Request {
	return &Request{
		UserID:            "21-A-01720",
		TransactionTypeID: 2,
		College:           ptr.Ptr("CICT"),
		Date:              testDate(),
		TimeFrame:         "AM",
		Semester:          "1",
		SchoolYear:        "2024-2025",
	}
}

func fullWindow(id int64, capacity int) *domain.TimeWindow {
	return &domain.TimeWindow{
		ID:                id,
		AvailabilityID:    1,
		TransactionTypeID: 2,
		College:           ptr.Ptr("CICT"),
		AvailabilityDate:  testDate(),
		CapacityPerDay:    capacity,
		AvailabilityType:  domain.AvailabilityFull,
		TotalSlotsLeft:    capacity,
	}
}

func TestExecute_Success(t *testing.T) {
	apptRepo := newFakeAppointmentRepo()
	twRepo := newFakeTimeWindowRepo(fullWindow(10, 2))
	auditor := &fakeAuditor{}
	uc := NewUseCase(apptRepo, twRepo, fakeTxManager{}, auditor, nopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, int64(10), resp.TimeWindowID)
	assert.Equal(t, 1, resp.TotalSlotsLeft)

	w := twRepo.windows[10]
	assert.Equal(t, 1, w.TotalAMAppointments)
	assert.Equal(t, 0, w.TotalPMAppointments)
	assert.Equal(t, 1, w.TotalSlotsLeft)
	assert.Equal(t, []string{"insertAppointment"}, auditor.actions)

	// запись хранит ссылку на зарезервированное окно
	require.Len(t, apptRepo.rows, 1)
	require.NotNil(t, apptRepo.rows[0].TimeWindowID)
	assert.Equal(t, int64(10), *apptRepo.rows[0].TimeWindowID)
}

func TestExecute_DuplicateActiveAppointment(t *testing.T) {
	apptRepo := newFakeAppointmentRepo()
	twRepo := newFakeTimeWindowRepo(fullWindow(10, 4))
	uc := NewUseCase(apptRepo, twRepo, fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// вторая запись для того же пользователя в той же области
	second := validRequest()
	second.TimeFrame = "PM"
	_, err = uc.Execute(context.Background(), second)
	assert.ErrorIs(t, err, ErrDuplicateActiveAppointment)

	// счетчики второй попытки не изменились
	assert.Equal(t, 1, twRepo.windows[10].TotalAMAppointments)
	assert.Equal(t, 0, twRepo.windows[10].TotalPMAppointments)
}

func TestExecute_NoWindowForDate(t *testing.T) {
	auditor := &fakeAuditor{}
	uc := NewUseCase(newFakeAppointmentRepo(), newFakeTimeWindowRepo(), fakeTxManager{}, auditor, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrWindowNotFound)
	// неудачная попытка тоже фиксируется в журнале аудита
	assert.Equal(t, []string{"insertAppointment"}, auditor.actions)
}

func TestExecute_FrameNotAllowed(t *testing.T) {
	w := fullWindow(10, 2)
	w.AvailabilityType = domain.AvailabilityHalfPM
	uc := NewUseCase(newFakeAppointmentRepo(), newFakeTimeWindowRepo(w), fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTimeFrameNotAllowed)
}

func TestExecute_SlotExhausted(t *testing.T) {
	w := fullWindow(10, 2)
	w.TotalAMAppointments = 1
	w.TotalSlotsLeft = 1
	uc := NewUseCase(newFakeAppointmentRepo(), newFakeTimeWindowRepo(w), fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_DateInPast(t *testing.T) {
	req := validRequest()
	req.Date = time.Now().AddDate(0, 0, -1)
	uc := NewUseCase(newFakeAppointmentRepo(), newFakeTimeWindowRepo(), fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty user_id", func(r *Request) { r.UserID = "" }},
		{"bad transaction_type_id", func(r *Request) { r.TransactionTypeID = 0 }},
		{"bad time_frame", func(r *Request) { r.TimeFrame = "EVENING" }},
		{"empty semester", func(r *Request) { r.Semester = "" }},
		{"empty school_year", func(r *Request) { r.SchoolYear = "" }},
	}

	uc := NewUseCase(newFakeAppointmentRepo(), newFakeTimeWindowRepo(), fakeTxManager{}, &fakeAuditor{}, nopLogger{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// Два одновременных запроса на последний AM слот: ровно один проходит
func TestExecute_TwoRacersOneSlot(t *testing.T) {
	apptRepo := newFakeAppointmentRepo()
	twRepo := newFakeTimeWindowRepo(fullWindow(10, 2))
	uc := NewUseCase(apptRepo, twRepo, fakeTxManager{}, &fakeAuditor{}, nopLogger{})

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := validRequest()
			req.UserID = fmt.Sprintf("user-%d", n)
			_, err := uc.Execute(context.Background(), req)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, notAvailable int
	for err := range results {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, ErrSlotNotAvailable)
			notAvailable++
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, notAvailable)
	assert.Equal(t, 1, twRepo.windows[10].TotalAMAppointments)
	assert.Equal(t, 1, twRepo.windows[10].TotalSlotsLeft)
}
