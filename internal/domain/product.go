package domain

// Product описывает позицию каталога.
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       float64
	Stock       int
	Description string
}

// ProductInput содержит данные для создания товара; ID назначает хранилище.
type ProductInput struct {
	Name        string
	Category    string
	Price       float64
	Stock       int
	Description string
}

// ToProduct собирает товар с заданным идентификатором.
func (in ProductInput) ToProduct(id string) Product {
	return Product{
		ID:          id,
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		Description: in.Description,
	}
}

// ValidateInvariants проверяет инварианты товара: имя обязательно, цена и остаток неотрицательны.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}
