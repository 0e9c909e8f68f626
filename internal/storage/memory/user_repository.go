package memory

import "github.com/vladislavdragonenkov/salesdash/internal/domain"

type userRepositoryInMemory struct {
	items *collection[domain.User]
}

// NewUserRepository возвращает in-memory справочник пользователей.
func NewUserRepository() domain.UserRepository {
	return &userRepositoryInMemory{items: newCollection[domain.User](domain.ErrUserNotFound)}
}

func (r *userRepositoryInMemory) Create(user domain.User) error {
	return r.items.create(user.ID, user)
}

func (r *userRepositoryInMemory) Get(id string) (domain.User, error) {
	return r.items.get(id)
}

func (r *userRepositoryInMemory) List() ([]domain.User, error) {
	return r.items.list(), nil
}

func (r *userRepositoryInMemory) Save(user domain.User) error {
	return r.items.save(user.ID, user)
}

func (r *userRepositoryInMemory) Delete(id string) error {
	return r.items.delete(id)
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
