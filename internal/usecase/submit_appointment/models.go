package submit_appointment

import "time"

// Request модель запроса на создание записи на прием
type Request struct {
	UserID            string     // Идентификатор студента
	TransactionTypeID int64      // Тип транзакции из каталога
	College           *string    // Колледж студента (nil = без привязки)
	Date              time.Time  // Дата записи (без времени)
	TimeFrame         string     // Половина дня: AM или PM
	Semester          string     // Семестр
	SchoolYear        string     // Учебный год
	StudentEmail      *string    // Email студента (опционально)
	StudentID         *string    // Студенческий номер (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID                int64     // ID созданной записи
	UserID            string    // Идентификатор студента
	TransactionTypeID int64     // Тип транзакции
	College           *string   // Колледж
	AppointmentDate   time.Time // Дата записи
	TimeFrame         string    // Половина дня
	Semester          string    // Семестр
	SchoolYear        string    // Учебный год
	Status            string    // Статус записи (Pending)

	// Состояние леджера после резервирования
	TimeWindowID   int64 // ID дневной записи, в которой занят слот
	TotalSlotsLeft int   // Остаток слотов дневной записи

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
