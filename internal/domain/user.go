package domain

import (
	"strings"
	"time"
)

// UserStatus отражает, может ли пользователь работать в панели.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleSales
}

// User описывает запись справочника пользователей панели.
// Учётные данные здесь не хранятся: аутентификация внешняя.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Status    UserStatus
	CreatedAt time.Time
}

// UserInput содержит данные для создания пользователя. Пустой статус становится active.
type UserInput struct {
	Name   string
	Email  string
	Role   Role
	Status UserStatus
}

func (in UserInput) ToUser(id string, createdAt time.Time) User {
	status := in.Status
	if status == "" {
		status = UserStatusActive
	}
	return User{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		Status:    status,
		CreatedAt: createdAt,
	}
}

// UserPatch описывает частичное изменение пользователя: nil поля не меняются.
type UserPatch struct {
	Name   *string
	Email  *string
	Role   *Role
	Status *UserStatus
}

// Apply возвращает копию пользователя с применёнными полями. ID и CreatedAt не меняются.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	return u
}

// ValidateInvariants проверяет инварианты пользователя.
func (u *User) ValidateInvariants() []error {
	var errs []error

	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, ErrUserNameRequired)
	}
	if !strings.Contains(u.Email, "@") {
		errs = append(errs, ErrUserEmailInvalid)
	}
	if !u.Role.Valid() {
		errs = append(errs, ErrUserRoleInvalid)
	}
	if !u.Status.Valid() {
		errs = append(errs, ErrUserStatusInvalid)
	}

	return errs
}
