package sales

import (
	"fmt"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// DemoSalesPerson оформляет демонстрационные продажи.
var DemoSalesPerson = domain.Identity{ID: "demo-admin", Name: "Admin User", Role: domain.RoleAdmin}

type demoSale struct {
	product       int
	customer      int
	quantity      int
	saleOffset    int
	deliverOffset int
	status        domain.SaleStatus
}

var (
	demoProducts = []domain.ProductInput{
		{Name: "Laptop Pro", Category: "Electronics", Price: 1299.99, Stock: 50},
		{Name: "Wireless Mouse", Category: "Electronics", Price: 29.99, Stock: 200},
		{Name: "Office Chair", Category: "Furniture", Price: 299.99, Stock: 25},
		{Name: `Monitor 27"`, Category: "Electronics", Price: 399.99, Stock: 30},
		{Name: "Mechanical Keyboard", Category: "Electronics", Price: 149.99, Stock: 75},
		{Name: "Standing Desk", Category: "Furniture", Price: 599.99, Stock: 15},
	}

	demoCustomers = []domain.CustomerInput{
		{Name: "Acme Corp", Email: "contact@acme.com", Phone: "+1-555-0101", Address: "123 Business St, New York, NY 10001"},
		{Name: "Tech Solutions", Email: "info@techsol.com", Phone: "+1-555-0102", Address: "456 Innovation Ave, San Francisco, CA 94102"},
		{Name: "Global Enterprises", Email: "sales@global.com", Phone: "+1-555-0103", Address: "789 Commerce Blvd, Chicago, IL 60601"},
		{Name: "StartupXYZ", Email: "hello@startupxyz.com", Phone: "+1-555-0104", Address: "321 Venture Way, Austin, TX 78701"},
	}

	// Даты задаются смещением в днях от текущей даты.
	demoSales = []demoSale{
		{product: 0, customer: 0, quantity: 2, saleOffset: -1, deliverOffset: 4, status: domain.SaleStatusPending},
		{product: 1, customer: 1, quantity: 10, saleOffset: -2, deliverOffset: 2, status: domain.SaleStatusDelivered},
		{product: 2, customer: 2, quantity: 5, saleOffset: -11, deliverOffset: -6, status: domain.SaleStatusOverdue},
		{product: 3, customer: 3, quantity: 3, saleOffset: 0, deliverOffset: 6, status: domain.SaleStatusConfirmed},
		{product: 4, customer: 0, quantity: 8, saleOffset: -3, deliverOffset: 3, status: domain.SaleStatusDelivered},
	}
)

// SeedResult перечисляет созданные записи.
type SeedResult struct {
	Products  []domain.Product
	Customers []domain.Customer
	Sales     []domain.Sale
}

// SeedDemo наполняет хранилище демонстрационными данными через обычные операции Store.
func (s *Store) SeedDemo() (SeedResult, error) {
	var result SeedResult

	for _, in := range demoProducts {
		product, err := s.AddProduct(in)
		if err != nil {
			return result, fmt.Errorf("seed product %q: %w", in.Name, err)
		}
		result.Products = append(result.Products, product)
	}

	for _, in := range demoCustomers {
		customer, err := s.AddCustomer(in)
		if err != nil {
			return result, fmt.Errorf("seed customer %q: %w", in.Name, err)
		}
		result.Customers = append(result.Customers, customer)
	}

	today := domain.DateOf(s.now())
	for _, demo := range demoSales {
		sale, err := s.AddSale(domain.SaleInput{
			ProductID:    result.Products[demo.product].ID,
			CustomerID:   result.Customers[demo.customer].ID,
			Quantity:     demo.quantity,
			SaleDate:     today.AddDate(0, 0, demo.saleOffset),
			DeliveryDate: today.AddDate(0, 0, demo.deliverOffset),
		}, DemoSalesPerson)
		if err != nil {
			return result, fmt.Errorf("seed sale: %w", err)
		}

		if demo.status != domain.SaleStatusPending {
			sale, _, err = s.UpdateSaleStatus(sale.ID, demo.status)
			if err != nil {
				return result, fmt.Errorf("seed sale status: %w", err)
			}
		}
		result.Sales = append(result.Sales, sale)
	}

	s.logger.WithField("sales", len(result.Sales)).Info("demo data seeded")
	return result, nil
}
