package common

import (
	"errors"

	"github.com/lib/pq"
)

// Общие ошибки для всех репозиториев
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// IsSerializationFailure распознаёт ошибки сериализации Postgres,
// при которых транзакцию можно безопасно повторить.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 40001 — serialization_failure, 40P01 — deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// IsUniqueViolation распознаёт нарушение уникального ограничения.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
