package timewindow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var windowColumns = []string{
	"id",
	"availability_id",
	"transaction_type_id",
	"college",
	"availability_date",
	"capacity_per_day",
	"availability_type",
	"total_am_appointments",
	"total_pm_appointments",
	"total_slots_left",
}

// Repository репозиторий журнала слотов (time_windows).
// Резервирование и освобождение выполняются одним условным UPDATE:
// предусловие проверяется в WHERE, поэтому два конкурирующих резервирования
// последнего слота не могут пройти оба.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetForDateScope находит окно на дату для области (тип транзакции, колледж).
// Окно с college = NULL обслуживает все колледжи; при наличии обоих вариантов
// предпочитается окно конкретного колледжа.
// Внутри транзакции строка блокируется через FOR UPDATE.
func (r *Repository) GetForDateScope(ctx context.Context, date time.Time, transactionTypeID int64, college *string) (*domain.TimeWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(windowColumns...).
		From("time_windows").
		Where(squirrel.Eq{"availability_date": date}).
		Where(squirrel.Eq{"transaction_type_id": transactionTypeID})

	if college != nil {
		selectBuilder = selectBuilder.
			Where(squirrel.Or{
				squirrel.Eq{"college": *college},
				squirrel.Eq{"college": nil},
			}).
			OrderBy("college NULLS LAST")
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"college": nil})
	}

	selectBuilder = selectBuilder.Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetForDateScope - build select query: %v", ErrBuildQuery, err)
	}

	window, err := scanWindow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetForDateScope - scan window: %v", ErrScanRow, err)
	}

	return window, nil
}

// GetByDate получает все окна на указанную дату
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.TimeWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("time_windows").
		Where(squirrel.Eq{"availability_date": date}).
		OrderBy("transaction_type_id ASC, college NULLS LAST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanWindows(rows)
}

// Reserve атомарно занимает один слот в указанной половине дня.
// Предусловия (разрешенная половина дня, счетчик < capacity/2, слоты остались)
// входят в WHERE; если строка не обновлена - слот недоступен.
func (r *Repository) Reserve(ctx context.Context, id int64, frame domain.TimeFrame) (*domain.TimeWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	counter, permitted := frameColumn(frame)

	query, args, err := psqlbuilder.Update("time_windows").
		Set(counter, squirrel.Expr(counter+" + 1")).
		Set("total_slots_left", squirrel.Expr("total_slots_left - 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"availability_type": permitted}).
		Where(squirrel.Expr(counter + " < capacity_per_day / 2")).
		Where(squirrel.Gt{"total_slots_left": 0}).
		Suffix("RETURNING " + columnList()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	window, err := scanWindow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	return window, nil
}

// Release атомарно освобождает один слот в указанной половине дня.
// Счетчик не может уйти ниже нуля: предусловие в WHERE.
func (r *Repository) Release(ctx context.Context, id int64, frame domain.TimeFrame) (*domain.TimeWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	counter, _ := frameColumn(frame)

	query, args, err := psqlbuilder.Update("time_windows").
		Set(counter, squirrel.Expr(counter+" - 1")).
		Set("total_slots_left", squirrel.Expr("total_slots_left + 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{counter: 0}).
		Suffix("RETURNING " + columnList()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	window, err := scanWindow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNothingToRelease
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	return window, nil
}

// TotalSlotsLeft суммирует оставшиеся слоты по всем окнам типа транзакции.
// Отсутствие окон - это ноль, а не ошибка.
func (r *Repository) TotalSlotsLeft(ctx context.Context, transactionTypeID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(total_slots_left), 0)").
		From("time_windows").
		Where(squirrel.Eq{"transaction_type_id": transactionTypeID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: TotalSlotsLeft - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: TotalSlotsLeft - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}

// frameColumn возвращает имя счетчика половины дня и список типов доступности,
// разрешающих бронирование в этой половине
func frameColumn(frame domain.TimeFrame) (string, []string) {
	if frame == domain.TimeFrameAM {
		return "total_am_appointments", []string{string(domain.AvailabilityFull), string(domain.AvailabilityHalfAM)}
	}
	return "total_pm_appointments", []string{string(domain.AvailabilityFull), string(domain.AvailabilityHalfPM)}
}

func columnList() string {
	list := windowColumns[0]
	for _, c := range windowColumns[1:] {
		list += ", " + c
	}
	return list
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWindow(row rowScanner) (*domain.TimeWindow, error) {
	var window domain.TimeWindow
	err := row.Scan(
		&window.ID,
		&window.AvailabilityID,
		&window.TransactionTypeID,
		&window.College,
		&window.AvailabilityDate,
		&window.CapacityPerDay,
		&window.AvailabilityType,
		&window.TotalAMAppointments,
		&window.TotalPMAppointments,
		&window.TotalSlotsLeft,
	)
	if err != nil {
		return nil, err
	}
	return &window, nil
}

func scanWindows(rows *sql.Rows) ([]*domain.TimeWindow, error) {
	windows := make([]*domain.TimeWindow, 0)

	for rows.Next() {
		window, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanWindows - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}
