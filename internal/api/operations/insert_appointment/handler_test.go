package insert_appointment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	submitAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/submit_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	gotReq *submitAppointment.Request
	resp   *submitAppointment.Response
	err    error
}

func (u *fakeUseCase) Execute(_ context.Context, req *submitAppointment.Request) (*submitAppointment.Response, error) {
	u.gotReq = req
	if u.err != nil {
		return nil, u.err
	}
	return u.resp, nil
}

func validPayload() json.RawMessage {
	return json.RawMessage(`{
		"transaction_type_id": 2,
		"user_id": "21-A-01720",
		"appointment_date": "2024-11-01",
		"time_frame": "AM",
		"school_year": "2024-2025",
		"semester": "1"
	}`)
}

func TestHandle_Success(t *testing.T) {
	useCase := &fakeUseCase{resp: &submitAppointment.Response{
		ID:                7,
		UserID:            "21-A-01720",
		TransactionTypeID: 2,
		AppointmentDate:   time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		TimeFrame:         "AM",
		Semester:          "1",
		SchoolYear:        "2024-2025",
		Status:            "Pending",
		TimeWindowID:      10,
		TotalSlotsLeft:    1,
	}}
	h := NewHandler(useCase, nopLogger{})

	resp := h.Handle(context.Background(), validPayload())

	require.True(t, resp.Success)
	require.NotNil(t, useCase.gotReq)
	assert.Equal(t, "21-A-01720", useCase.gotReq.UserID)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), useCase.gotReq.Date)

	data, ok := resp.Data.(*Response)
	require.True(t, ok)
	assert.Equal(t, int64(7), data.ID)
	assert.Equal(t, "2024-11-01", data.AppointmentDate)
	assert.Equal(t, 1, data.TotalSlotsLeft)
}

func TestHandle_MissingFields(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nopLogger{})
	payload := json.RawMessage(`{"transaction_type_id": 2}`)

	resp := h.Handle(context.Background(), payload)

	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dispatch.KindValidation, resp.Error.Kind)
	// перечисляются все недостающие обязательные поля, опциональные не трогаем
	assert.Equal(t,
		[]string{"user_id", "appointment_date", "time_frame", "school_year", "semester"},
		resp.Error.MissingFields)
	assert.JSONEq(t, string(payload), string(resp.Error.ReceivedPayload))
}

func TestHandle_MalformedPayload(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nopLogger{})

	resp := h.Handle(context.Background(), json.RawMessage(`{"user_id": 42}`))

	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dispatch.KindValidation, resp.Error.Kind)
}

func TestHandle_BadDateFormat(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nopLogger{})
	payload := json.RawMessage(`{
		"transaction_type_id": 2,
		"user_id": "21-A-01720",
		"appointment_date": "01/11/2024",
		"time_frame": "AM",
		"school_year": "2024-2025",
		"semester": "1"
	}`)

	resp := h.Handle(context.Background(), payload)

	require.False(t, resp.Success)
	assert.Equal(t, dispatch.KindValidation, resp.Error.Kind)
}

func TestHandle_UseCaseErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"duplicate", submitAppointment.ErrDuplicateActiveAppointment, dispatch.KindDuplicateActiveAppointment},
		{"no window", submitAppointment.ErrWindowNotFound, dispatch.KindNotAvailable},
		{"frame not allowed", submitAppointment.ErrTimeFrameNotAllowed, dispatch.KindNotAvailable},
		{"slot exhausted", submitAppointment.ErrSlotNotAvailable, dispatch.KindNotAvailable},
		{"past date", submitAppointment.ErrInvalidDate, dispatch.KindValidation},
		{"storage failure", submitAppointment.ErrInternal, dispatch.KindPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nopLogger{})

			resp := h.Handle(context.Background(), validPayload())

			require.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.kind, resp.Error.Kind)
		})
	}
}
