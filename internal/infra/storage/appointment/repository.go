package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"id",
	"transaction_type_id",
	"time_window_id",
	"user_id",
	"college",
	"appointment_date",
	"time_frame",
	"semester",
	"school_year",
	"appointment_status",
	"approved_by",
	"student_email",
	"student_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись на прием в статусе Pending.
// Вызывается в одной транзакции с резервированием слота: запись без слота
// или слот без записи существовать не могут.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"transaction_type_id",
			"time_window_id",
			"user_id",
			"college",
			"appointment_date",
			"time_frame",
			"semester",
			"school_year",
			"appointment_status",
			"student_email",
			"student_id",
		).
		Values(
			appt.TransactionTypeID,
			appt.TimeWindowID,
			appt.UserID,
			appt.College,
			appt.AppointmentDate,
			appt.TimeFrame,
			appt.Semester,
			appt.SchoolYear,
			appt.Status,
			appt.StudentEmail,
			appt.StudentID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID.
// Внутри транзакции строка блокируется через FOR UPDATE: переходы состояния
// одной записи взаимно исключены.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetActive находит активную (Pending/Approved) запись студента по ключу
// (user_id, transaction_type_id, semester, school_year)
func (r *Repository) GetActive(ctx context.Context, userID string, transactionTypeID int64, semester, schoolYear string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{
			"user_id":             userID,
			"transaction_type_id": transactionTypeID,
			"semester":            semester,
			"school_year":         schoolYear,
		}).
		Where(squirrel.Eq{"appointment_status": activeStatuses}).
		Limit(1)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetWithFilter получает записи по гибкому фильтру; nil-поля совпадают со всем
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		OrderBy("appointment_date DESC, id DESC")

	if filter.AppointmentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"id": *filter.AppointmentID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_status": *filter.Status})
	}
	if filter.TransactionTypeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"transaction_type_id": *filter.TransactionTypeID})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.AppointmentDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_date": *filter.AppointmentDate})
	}
	if filter.SchoolYear != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"school_year": *filter.SchoolYear})
	}
	if filter.Semester != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"semester": *filter.Semester})
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

	return scanAppointments(rows)
}

// Decide переводит Pending запись в терминальный статус (Approved/Declined).
// Предусловие Pending входит в WHERE: запись, уже решенная параллельным
// переходом, не будет перезаписана.
func (r *Repository) Decide(ctx context.Context, id int64, status domain.AppointmentStatus, approvedBy string, studentEmail, studentID *string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("appointments").
		Set("appointment_status", status).
		Set("approved_by", approvedBy).
		Set("updated_at", squirrel.Expr("NOW()"))

	// Контактные данные студента фиксируются в момент решения
	if studentEmail != nil {
		builder = builder.Set("student_email", *studentEmail)
	}
	if studentID != nil {
		builder = builder.Set("student_id", *studentID)
	}

	query, args, err := builder.
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"appointment_status": domain.StatusPending}).
		Suffix("RETURNING " + columnList()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Decide - build update query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Decide - execute update: %v", ErrExecQuery, err)
	}

	return appt, nil
}

// Delete физически удаляет запись (административное действие)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
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
		return ErrAppointmentNotFound
	}

	return nil
}

// CountPending считает ожидающие решения записи по типу транзакции.
// Отсутствие записей - это ноль, а не ошибка.
func (r *Repository) CountPending(ctx context.Context, transactionTypeID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{
			"transaction_type_id": transactionTypeID,
			"appointment_status":  domain.StatusPending,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountPending - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountPending - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

func columnList() string {
	list := appointmentColumns[0]
	for _, c := range appointmentColumns[1:] {
		list += ", " + c
	}
	return list
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.TransactionTypeID,
		&appt.TimeWindowID,
		&appt.UserID,
		&appt.College,
		&appt.AppointmentDate,
		&appt.TimeFrame,
		&appt.Semester,
		&appt.SchoolYear,
		&appt.Status,
		&appt.ApprovedBy,
		&appt.StudentEmail,
		&appt.StudentID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
