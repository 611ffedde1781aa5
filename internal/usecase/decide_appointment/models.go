package decide_appointment

import "time"

// Request модель запроса на решение по записи
type Request struct {
	AppointmentID int64   // ID записи на прием
	Decision      string  // Решение: Approved или Declined
	ApprovedBy    string  // Идентификатор администратора
	StudentEmail  *string // Email студента (фиксируется при решении)
	StudentID     *string // Студенческий номер
}

// Response модель ответа с решенной записью
type Response struct {
	ID                int64     // ID записи
	UserID            string    // Идентификатор студента
	TransactionTypeID int64     // Тип транзакции
	AppointmentDate   time.Time // Дата записи
	TimeFrame         string    // Половина дня
	Status            string    // Итоговый статус
	ApprovedBy        string    // Кто принял решение
	SlotReleased      bool      // Освобожден ли слот (только для Declined)
	UpdatedAt         time.Time // Время обновления
}
