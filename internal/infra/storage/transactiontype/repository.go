package transactiontype

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// DBExecutor интерфейс исполнителя запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий каталога типов транзакций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов транзакций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет тип транзакции в каталог
func (r *Repository) Create(ctx context.Context, tt *domain.TransactionType) (*domain.TransactionType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("transaction_types").
		Columns("title", "detail").
		Values(tt.Title, tt.Detail).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&tt.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	tt.CreatedAt = createdAt.Time

	return tt, nil
}

// GetByID получает тип транзакции по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TransactionType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "title", "detail", "created_at").
		From("transaction_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var tt domain.TransactionType
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&tt.ID, &tt.Title, &tt.Detail, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan type: %v", ErrScanRow, err)
	}
	tt.CreatedAt = createdAt.Time

	return &tt, nil
}

// GetAll возвращает весь каталог типов транзакций
func (r *Repository) GetAll(ctx context.Context) ([]*domain.TransactionType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "title", "detail", "created_at").
		From("transaction_types").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	types := make([]*domain.TransactionType, 0)
	for rows.Next() {
		var tt domain.TransactionType
		var createdAt sql.NullTime
		if err := rows.Scan(&tt.ID, &tt.Title, &tt.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetAll - scan type: %v", ErrScanRow, err)
		}
		tt.CreatedAt = createdAt.Time
		types = append(types, &tt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAll - rows error: %v", ErrScanRow, err)
	}

	return types, nil
}
