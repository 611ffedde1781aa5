// Package validate содержит общий тип ошибки валидации обязательных полей.
//
// Контракт API требует возвращать точный список отсутствующих ключей
// payload'а вместе с самим payload'ом, поэтому обязательные поля моделей
// запросов объявляются указателями, а проверки собирают имена nil-полей.
package validate

import (
	"fmt"
	"strings"
)

// MissingFieldsError ошибка валидации: в payload отсутствуют обязательные поля
type MissingFieldsError struct {
	Fields []string
}

// NewMissingFields создает ошибку по списку отсутствующих полей.
// Возвращает nil, если список пуст.
func NewMissingFields(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	return &MissingFieldsError{Fields: fields}
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Checker накапливает имена отсутствующих обязательных полей
type Checker struct {
	missing []string
}

// Require добавляет поле в список отсутствующих, если present == false
func (c *Checker) Require(field string, present bool) {
	if !present {
		c.missing = append(c.missing, field)
	}
}

// Err возвращает *MissingFieldsError или nil, если все поля на месте
func (c *Checker) Err() error {
	return NewMissingFields(c.missing)
}
