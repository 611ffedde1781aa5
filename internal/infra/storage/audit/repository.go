package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// DBExecutor интерфейс исполнителя запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository append-only репозиторий журнала аудита.
// Журнал - долговременный источник правды о переходах состояний;
// живая доставка уведомлений надстраивается поверх него.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аудита
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал. ID и timestamp заполняются здесь,
// если вызывающий их не задал.
func (r *Repository) Append(ctx context.Context, record *domain.AuditRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	query, args, err := psqlbuilder.Insert("audit_logs").
		Columns("id", "action", "actor", "details", "created_at").
		Values(record.ID, record.Action, record.Actor, record.Details, record.Timestamp).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetRecent возвращает последние записи журнала (для админской страницы)
func (r *Repository) GetRecent(ctx context.Context, limit uint64) ([]*domain.AuditRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "action", "actor", "details", "created_at").
		From("audit_logs").
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRecent - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRecent - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.AuditRecord, 0)
	for rows.Next() {
		var rec domain.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.Action, &rec.Actor, &rec.Details, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: GetRecent - scan record: %v", ErrScanRow, err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRecent - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}
