package availability

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий окон доступности и их дневных записей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает окно доступности вместе с дневными записями.
// Вызывается внутри транзакции: либо записывается всё, либо ничего.
func (r *Repository) Create(ctx context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availabilities").
		Columns(
			"transaction_type_id",
			"college",
			"semester",
			"school_year",
			"start_date",
			"end_date",
			"created_by",
			"created_at",
		).
		Values(
			window.TransactionTypeID,
			window.College,
			window.Semester,
			window.SchoolYear,
			window.StartDate,
			window.EndDate,
			window.CreatedBy,
			window.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&window.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.insertTimeWindows(ctx, window); err != nil {
		return nil, err
	}

	return window, nil
}

// Update обновляет шапку окна доступности и полностью заменяет его дневные
// записи. Счетчики занятых слотов для дат, переживших замену, переносятся
// в новые записи (replaceTimeWindows), чтобы замена не "разбронировала"
// существующие записи.
func (r *Repository) Update(ctx context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availabilities").
		Set("transaction_type_id", window.TransactionTypeID).
		Set("college", window.College).
		Set("semester", window.Semester).
		Set("school_year", window.SchoolYear).
		Set("start_date", window.StartDate).
		Set("end_date", window.EndDate).
		Where(squirrel.Eq{"id": window.ID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrAvailabilityNotFound
	}

	if err := r.replaceTimeWindows(ctx, window); err != nil {
		return nil, err
	}

	return window, nil
}

// GetWithFilter получает окна доступности с вложенными дневными записями.
// Отсутствующие фильтры расширяют выборку; пустой результат - не ошибка.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"a.id",
		"a.transaction_type_id",
		"a.college",
		"a.semester",
		"a.school_year",
		"a.start_date",
		"a.end_date",
		"a.created_by",
		"a.created_at",
	).
		From("availabilities a").
		Join("transaction_types tt ON tt.id = a.transaction_type_id").
		OrderBy("a.start_date ASC, a.id ASC")

	if filter.SearchKey != nil && *filter.SearchKey != "" {
		selectBuilder = selectBuilder.Where(squirrel.ILike{"tt.title": "%" + *filter.SearchKey + "%"})
	}
	if filter.College != nil && *filter.College != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.college": *filter.College})
	}
	if filter.Semester != nil && *filter.Semester != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.semester": *filter.Semester})
	}
	if filter.SchoolYear != nil && *filter.SchoolYear != "" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.school_year": *filter.SchoolYear})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.AvailabilityWindow, 0)
	ids := make([]int64, 0)

	for rows.Next() {
		var window domain.AvailabilityWindow
		err := rows.Scan(
			&window.ID,
			&window.TransactionTypeID,
			&window.College,
			&window.Semester,
			&window.SchoolYear,
			&window.StartDate,
			&window.EndDate,
			&window.CreatedBy,
			&window.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWithFilter - scan availability: %v", ErrScanRow, err)
		}
		window.TimeWindows = make([]domain.TimeWindow, 0)
		windows = append(windows, &window)
		ids = append(ids, window.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - rows error: %v", ErrScanRow, err)
	}

	if len(windows) == 0 {
		return windows, nil
	}

	if err := r.attachTimeWindows(ctx, windows, ids); err != nil {
		return nil, err
	}

	return windows, nil
}

// GetByID получает окно доступности с дневными записями по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"transaction_type_id",
		"college",
		"semester",
		"school_year",
		"start_date",
		"end_date",
		"created_by",
		"created_at",
	).
		From("availabilities").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var window domain.AvailabilityWindow
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&window.ID,
		&window.TransactionTypeID,
		&window.College,
		&window.Semester,
		&window.SchoolYear,
		&window.StartDate,
		&window.EndDate,
		&window.CreatedBy,
		&window.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan availability: %v", ErrScanRow, err)
	}

	window.TimeWindows = make([]domain.TimeWindow, 0)
	if err := r.attachTimeWindows(ctx, []*domain.AvailabilityWindow{&window}, []int64{window.ID}); err != nil {
		return nil, err
	}

	return &window, nil
}

// Delete удаляет окно доступности; дневные записи каскадируются по FK
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availabilities").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAvailabilityNotFound
	}

	return nil
}

// HasActiveAppointments проверяет, ссылается ли на дневные записи окна
// хотя бы одна активная (Pending/Approved) запись на прием
func (r *Repository) HasActiveAppointments(ctx context.Context, availabilityID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("1").
		From("appointments ap").
		JoinClause(
			"JOIN time_windows tw ON tw.availability_id = ?"+
				" AND tw.availability_date = ap.appointment_date"+
				" AND tw.transaction_type_id = ap.transaction_type_id"+
				" AND (tw.college IS NULL OR tw.college = ap.college)",
			availabilityID,
		).
		Where(squirrel.Eq{"ap.appointment_status": activeStatuses}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasActiveAppointments - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveAppointments - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// insertTimeWindows вставляет дневные записи окна одной командой
func (r *Repository) insertTimeWindows(ctx context.Context, window *domain.AvailabilityWindow) error {
	if len(window.TimeWindows) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("time_windows").
		Columns(
			"availability_id",
			"transaction_type_id",
			"college",
			"availability_date",
			"capacity_per_day",
			"availability_type",
			"total_am_appointments",
			"total_pm_appointments",
			"total_slots_left",
		)

	for i := range window.TimeWindows {
		tw := &window.TimeWindows[i]
		tw.AvailabilityID = window.ID
		tw.TransactionTypeID = window.TransactionTypeID
		tw.College = window.College
		insertBuilder = insertBuilder.Values(
			tw.AvailabilityID,
			tw.TransactionTypeID,
			tw.College,
			tw.AvailabilityDate,
			tw.CapacityPerDay,
			tw.AvailabilityType,
			tw.TotalAMAppointments,
			tw.TotalPMAppointments,
			tw.TotalSlotsLeft,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertTimeWindows - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertTimeWindows - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// replaceTimeWindows заменяет дневные записи окна, перенося счетчики занятых
// слотов для совпадающих дат. Новая емкость, не вмещающая уже забронированные
// слоты даты, отклоняется с ErrCapacityConflict до каких-либо изменений схемы.
func (r *Repository) replaceTimeWindows(ctx context.Context, window *domain.AvailabilityWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Снимаем текущие счетчики по датам
	query, args, err := psqlbuilder.Select(
		"availability_date",
		"total_am_appointments",
		"total_pm_appointments",
	).
		From("time_windows").
		Where(squirrel.Eq{"availability_id": window.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceTimeWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: replaceTimeWindows - execute select: %v", ErrExecQuery, err)
	}

	booked := make(map[string]bookedCounters)

	for rows.Next() {
		var date sql.NullTime
		var c bookedCounters
		if err := rows.Scan(&date, &c.am, &c.pm); err != nil {
			rows.Close()
			return fmt.Errorf("%w: replaceTimeWindows - scan counters: %v", ErrScanRow, err)
		}
		booked[date.Time.Format(domain.DateFormat)] = c
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("%w: replaceTimeWindows - rows error: %v", ErrScanRow, err)
	}
	rows.Close()

	// Удаляем старые записи
	query, args, err = psqlbuilder.Delete("time_windows").
		Where(squirrel.Eq{"availability_id": window.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceTimeWindows - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceTimeWindows - execute delete: %v", ErrExecQuery, err)
	}

	// Переносим счетчики в новые записи
	if err := carryBookedCounters(window.TimeWindows, booked); err != nil {
		return err
	}

	return r.insertTimeWindows(ctx, window)
}

// bookedCounters занятые AM/PM слоты одной даты
type bookedCounters struct{ am, pm int }

// carryBookedCounters переносит счетчики занятых слотов в новые дневные записи
// по дате и пересчитывает остаток от новой емкости. Счетчики дат, выпавших из
// нового набора, отбрасываются. Емкость, не вмещающая перенесенные счетчики
// (в том числе по половинам дня), дает ErrCapacityConflict.
func carryBookedCounters(windows []domain.TimeWindow, booked map[string]bookedCounters) error {
	for i := range windows {
		tw := &windows[i]
		c, ok := booked[tw.AvailabilityDate.Format(domain.DateFormat)]
		if !ok {
			continue
		}

		if c.am > tw.CapacityPerDay/2 || c.pm > tw.CapacityPerDay/2 {
			return fmt.Errorf("%w: date %s has %d AM and %d PM appointments, new capacity is %d",
				ErrCapacityConflict, tw.AvailabilityDate.Format(domain.DateFormat), c.am, c.pm, tw.CapacityPerDay)
		}

		tw.TotalAMAppointments = c.am
		tw.TotalPMAppointments = c.pm
		tw.TotalSlotsLeft = tw.CapacityPerDay - c.am - c.pm
	}

	return nil
}

// attachTimeWindows загружает дневные записи для набора окон одной выборкой
func (r *Repository) attachTimeWindows(ctx context.Context, windows []*domain.AvailabilityWindow, ids []int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
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
	).
		From("time_windows").
		Where(squirrel.Eq{"availability_id": ids}).
		OrderBy("availability_date ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachTimeWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachTimeWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	byID := make(map[int64]*domain.AvailabilityWindow, len(windows))
	for _, w := range windows {
		byID[w.ID] = w
	}

	for rows.Next() {
		var tw domain.TimeWindow
		err := rows.Scan(
			&tw.ID,
			&tw.AvailabilityID,
			&tw.TransactionTypeID,
			&tw.College,
			&tw.AvailabilityDate,
			&tw.CapacityPerDay,
			&tw.AvailabilityType,
			&tw.TotalAMAppointments,
			&tw.TotalPMAppointments,
			&tw.TotalSlotsLeft,
		)
		if err != nil {
			return fmt.Errorf("%w: attachTimeWindows - scan time window: %v", ErrScanRow, err)
		}
		if parent, ok := byID[tw.AvailabilityID]; ok {
			parent.TimeWindows = append(parent.TimeWindows, tw)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachTimeWindows - rows error: %v", ErrScanRow, err)
	}

	return nil
}
