package users

import "github.com/vladislavdragonenkov/salesdash/internal/domain"

var demoUsers = []domain.UserInput{
	{Name: "Admin User", Email: "admin@erp.com", Role: domain.RoleAdmin},
	{Name: "John Manager", Email: "john.manager@erp.com", Role: domain.RoleManager},
	{Name: "Sarah Sales", Email: "sarah.sales@erp.com", Role: domain.RoleSales},
	{Name: "Mike Johnson", Email: "mike.johnson@erp.com", Role: domain.RoleSales, Status: domain.UserStatusInactive},
}

// SeedDemo добавляет демонстрационных пользователей.
func (d *Directory) SeedDemo() ([]domain.User, error) {
	created := make([]domain.User, 0, len(demoUsers))
	for _, in := range demoUsers {
		user, err := d.Add(in)
		if err != nil {
			return created, err
		}
		created = append(created, user)
	}
	return created, nil
}
