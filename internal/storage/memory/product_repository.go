package memory

import "github.com/vladislavdragonenkov/salesdash/internal/domain"

// productRepositoryInMemory — in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	items *collection[domain.Product]
}

// NewProductRepository возвращает in-memory репозиторий товаров.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{items: newCollection[domain.Product](domain.ErrProductNotFound)}
}

// Create сохраняет новый товар, если ID ещё не занят.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	return r.items.create(product.ID, product)
}

// Get возвращает товар или ErrProductNotFound.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	return r.items.get(id)
}

// List возвращает товары в порядке добавления.
func (r *productRepositoryInMemory) List() ([]domain.Product, error) {
	return r.items.list(), nil
}

// Save заменяет товар целиком.
func (r *productRepositoryInMemory) Save(product domain.Product) error {
	return r.items.save(product.ID, product)
}

// Delete удаляет товар без каскада на продажи.
func (r *productRepositoryInMemory) Delete(id string) error {
	return r.items.delete(id)
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
