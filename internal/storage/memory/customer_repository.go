package memory

import "github.com/vladislavdragonenkov/salesdash/internal/domain"

// customerRepositoryInMemory — in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	items *collection[domain.Customer]
}

// NewCustomerRepository возвращает in-memory репозиторий клиентов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{items: newCollection[domain.Customer](domain.ErrCustomerNotFound)}
}

func (r *customerRepositoryInMemory) Create(customer domain.Customer) error {
	return r.items.create(customer.ID, customer)
}

func (r *customerRepositoryInMemory) Get(id string) (domain.Customer, error) {
	return r.items.get(id)
}

func (r *customerRepositoryInMemory) List() ([]domain.Customer, error) {
	return r.items.list(), nil
}

func (r *customerRepositoryInMemory) Save(customer domain.Customer) error {
	return r.items.save(customer.ID, customer)
}

func (r *customerRepositoryInMemory) Delete(id string) error {
	return r.items.delete(id)
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
