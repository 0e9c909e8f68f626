package sales

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// AllCategories отключает фильтр по категории.
const AllCategories = "all"

// ProductSortField — поле сортировки товаров.
type ProductSortField string

const (
	SortByName     ProductSortField = "name"
	SortByCategory ProductSortField = "category"
	SortByPrice    ProductSortField = "price"
	SortByStock    ProductSortField = "stock"
)

// ProductQuery описывает фильтр и сортировку списка товаров.
type ProductQuery struct {
	Category   string
	SortBy     ProductSortField
	Descending bool
}

// FilterProducts применяет фильтр по категории и стабильную сортировку.
// Неизвестное поле сортировки сохраняет порядок добавления.
func FilterProducts(products []domain.Product, q ProductQuery) []domain.Product {
	var result []domain.Product
	if q.Category != "" && q.Category != AllCategories {
		result = lo.Filter(products, func(p domain.Product, _ int) bool {
			return p.Category == q.Category
		})
	} else {
		result = slices.Clone(products)
	}

	compare := productComparator(q.SortBy)
	if compare == nil {
		return result
	}
	slices.SortStableFunc(result, func(a, b domain.Product) int {
		if q.Descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return result
}

func productComparator(field ProductSortField) func(a, b domain.Product) int {
	switch field {
	case SortByName:
		return func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortByCategory:
		return func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
		}
	case SortByPrice:
		return func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		}
	case SortByStock:
		return func(a, b domain.Product) int {
			return cmp.Compare(a.Stock, b.Stock)
		}
	default:
		return nil
	}
}

// Categories возвращает отсортированный список различных непустых категорий.
func Categories(products []domain.Product) []string {
	categories := lo.Uniq(lo.FilterMap(products, func(p domain.Product, _ int) (string, bool) {
		return p.Category, p.Category != ""
	}))
	slices.Sort(categories)
	return categories
}

// SortCustomersByName сортирует копию списка клиентов по имени без учёта регистра.
func SortCustomersByName(customers []domain.Customer) []domain.Customer {
	result := slices.Clone(customers)
	slices.SortStableFunc(result, func(a, b domain.Customer) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return result
}
