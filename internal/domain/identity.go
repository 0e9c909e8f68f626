package domain

// Role — роль пользователя панели.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSales   Role = "sales"
)

// Identity — действующий пользователь, переданный провайдером аутентификации.
// Ядро не проверяет его содержимое.
type Identity struct {
	ID   string
	Name string
	Role Role
}

// IsAdmin — единственная проверка роли в системе.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
