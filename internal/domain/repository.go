package domain

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrDuplicateID, если ID занят.
	Create(product Product) error
	// Get возвращает товар или ErrProductNotFound.
	Get(id string) (Product, error)
	// List возвращает все товары в порядке добавления.
	List() ([]Product, error)
	// Save заменяет товар целиком или возвращает ErrProductNotFound.
	Save(product Product) error
	// Delete удаляет товар или возвращает ErrProductNotFound.
	Delete(id string) error
}

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	Create(customer Customer) error
	Get(id string) (Customer, error)
	List() ([]Customer, error)
	Save(customer Customer) error
	Delete(id string) error
}

// SaleRepository описывает требования к хранилищу продаж.
type SaleRepository interface {
	Create(sale Sale) error
	Get(id string) (Sale, error)
	// List возвращает продажи в порядке оформления.
	List() ([]Sale, error)
	Save(sale Sale) error
	Delete(id string) error
}

// UserRepository описывает требования к справочнику пользователей.
type UserRepository interface {
	Create(user User) error
	// Get возвращает пользователя или ErrUserNotFound.
	Get(id string) (User, error)
	List() ([]User, error)
	Save(user User) error
	Delete(id string) error
}
