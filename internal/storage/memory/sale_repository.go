package memory

import "github.com/vladislavdragonenkov/salesdash/internal/domain"

// saleRepositoryInMemory — in-memory реализация SaleRepository.
type saleRepositoryInMemory struct {
	items *collection[domain.Sale]
}

// NewSaleRepository возвращает in-memory репозиторий продаж.
func NewSaleRepository() domain.SaleRepository {
	return &saleRepositoryInMemory{items: newCollection[domain.Sale](domain.ErrSaleNotFound)}
}

// Create сохраняет новую продажу, если ID ещё не занят.
func (r *saleRepositoryInMemory) Create(sale domain.Sale) error {
	return r.items.create(sale.ID, sale)
}

// Get возвращает продажу или ErrSaleNotFound.
func (r *saleRepositoryInMemory) Get(id string) (domain.Sale, error) {
	return r.items.get(id)
}

// List возвращает продажи в порядке оформления.
func (r *saleRepositoryInMemory) List() ([]domain.Sale, error) {
	return r.items.list(), nil
}

// Save заменяет продажу целиком.
func (r *saleRepositoryInMemory) Save(sale domain.Sale) error {
	return r.items.save(sale.ID, sale)
}

// Delete удаляет продажу.
func (r *saleRepositoryInMemory) Delete(id string) error {
	return r.items.delete(id)
}

var _ domain.SaleRepository = (*saleRepositoryInMemory)(nil)
