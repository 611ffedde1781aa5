package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func day(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func freshWindow(date string, capacity int) domain.TimeWindow {
	return domain.TimeWindow{
		AvailabilityDate: day(date),
		CapacityPerDay:   capacity,
		AvailabilityType: domain.AvailabilityFull,
		TotalSlotsLeft:   capacity,
	}
}

// Замена дневных записей переносит счетчики забронированных дней по дате
func TestCarryBookedCounters_SurvivingDateKeepsCounters(t *testing.T) {
	windows := []domain.TimeWindow{
		freshWindow("2024-11-01", 4),
		freshWindow("2024-11-02", 4),
	}
	booked := map[string]bookedCounters{
		"2024-11-01": {am: 2, pm: 1},
	}

	require.NoError(t, carryBookedCounters(windows, booked))

	assert.Equal(t, 2, windows[0].TotalAMAppointments)
	assert.Equal(t, 1, windows[0].TotalPMAppointments)
	assert.Equal(t, 1, windows[0].TotalSlotsLeft)

	// день без бронирований остается со свежими счетчиками
	assert.Equal(t, 0, windows[1].TotalAMAppointments)
	assert.Equal(t, 0, windows[1].TotalPMAppointments)
	assert.Equal(t, 4, windows[1].TotalSlotsLeft)
}

func TestCarryBookedCounters_DroppedDateDiscardsCounters(t *testing.T) {
	// дата со старыми бронированиями в новый набор не входит
	windows := []domain.TimeWindow{freshWindow("2024-11-02", 2)}
	booked := map[string]bookedCounters{
		"2024-11-01": {am: 1, pm: 1},
	}

	require.NoError(t, carryBookedCounters(windows, booked))

	assert.Equal(t, 0, windows[0].TotalAMAppointments)
	assert.Equal(t, 0, windows[0].TotalPMAppointments)
	assert.Equal(t, 2, windows[0].TotalSlotsLeft)
}

// Новая емкость не покрывает уже забронированные слоты: структурный конфликт
// вместо нарушения ограничения на уровне БД
func TestCarryBookedCounters_ShrinkBelowBooked(t *testing.T) {
	windows := []domain.TimeWindow{freshWindow("2024-11-01", 2)}
	booked := map[string]bookedCounters{
		"2024-11-01": {am: 2},
	}

	err := carryBookedCounters(windows, booked)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityConflict)
}

func TestCarryBookedCounters_ShrinkToExactBooked(t *testing.T) {
	// граничный случай: новая половинная емкость ровно равна забронированному
	windows := []domain.TimeWindow{freshWindow("2024-11-01", 4)}
	booked := map[string]bookedCounters{
		"2024-11-01": {am: 2, pm: 2},
	}

	require.NoError(t, carryBookedCounters(windows, booked))
	assert.Equal(t, 0, windows[0].TotalSlotsLeft)
}
