package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation оборачивает нарушения инвариантов сущности.
	ErrValidation = errors.New("validation failed")
	// ErrUnresolvedReference возвращается, если продажа ссылается на несуществующий товар или клиента.
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrDuplicateID возвращается репозиторием, если ID уже занят.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrForbidden — операция требует роли администратора.
	ErrForbidden = errors.New("forbidden")

	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrUserNotFound     = errors.New("user not found")

	// Ошибка пустого названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены.
	ErrPriceNegative = errors.New("price must be non-negative")
	// Ошибка отрицательного остатка.
	ErrStockNegative = errors.New("stock must be non-negative")

	ErrCustomerNameRequired  = errors.New("customer name is required")
	ErrCustomerStatusInvalid = errors.New("customer status must be active or inactive")

	// Ошибка отсутствующего товара в продаже.
	ErrProductRequired = errors.New("product is required")
	// Ошибка отсутствующего клиента в продаже.
	ErrCustomerRequired = errors.New("customer is required")
	// Ошибка при некорректном количестве (<= 0).
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")

	ErrSaleDateRequired     = errors.New("sale date is required")
	ErrDeliveryDateRequired = errors.New("delivery date is required")
	ErrSaleStatusInvalid    = errors.New("sale status must be one of pending, confirmed, delivered, overdue")

	ErrUserNameRequired  = errors.New("user name is required")
	ErrUserEmailInvalid  = errors.New("user email must contain @")
	ErrUserRoleInvalid   = errors.New("user role must be one of admin, manager, sales")
	ErrUserStatusInvalid = errors.New("user status must be active or inactive")

	// Ошибка несоответствия суммы продажи произведению количества на цену.
	ErrAmountMismatch = errors.New("total amount does not match quantity * unit price")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// NewValidationError объединяет нарушения инвариантов в одну ошибку, совместимую с errors.Is(err, ErrValidation).
func NewValidationError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
}

// IsNotFound проверяет, является ли ошибка отсутствием сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrSaleNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
