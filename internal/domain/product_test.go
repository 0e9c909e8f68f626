package domain_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

func TestProductValidateInvariants(t *testing.T) {
	product := domain.ProductInput{Name: "Office Chair", Category: "Furniture", Price: 299.99, Stock: 25}.ToProduct("p-1")
	if errs := product.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	product.Name = ""
	product.Price = -1
	product.Stock = -5
	errs := product.ValidateInvariants()
	if len(errs) != 3 {
		t.Fatalf("expected 3 validation errors, got %v", errs)
	}
}

func TestCustomerInput_DefaultsToActive(t *testing.T) {
	customer := domain.CustomerInput{Name: "Acme Corp"}.ToCustomer("c-1")
	if customer.Status != domain.CustomerStatusActive {
		t.Fatalf("expected active status, got %s", customer.Status)
	}
	if errs := customer.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	customer.Status = "archived"
	errs := customer.ValidateInvariants()
	if len(errs) != 1 || !errors.Is(errs[0], domain.ErrCustomerStatusInvalid) {
		t.Fatalf("expected ErrCustomerStatusInvalid, got %v", errs)
	}
}

func TestNewValidationError(t *testing.T) {
	if domain.NewValidationError(nil) != nil {
		t.Fatal("expected nil for empty list")
	}

	err := domain.NewValidationError([]error{domain.ErrPriceNegative, domain.ErrStockNegative})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatal("expected ErrValidation")
	}
	if !errors.Is(err, domain.ErrStockNegative) {
		t.Fatal("expected wrapped ErrStockNegative")
	}
}

func TestIsNotFound(t *testing.T) {
	if !domain.IsNotFound(errors.Join(domain.ErrSaleNotFound, errors.New("ctx"))) {
		t.Fatal("expected wrapped not found to match")
	}
	if domain.IsNotFound(domain.ErrValidation) {
		t.Fatal("validation must not be treated as not found")
	}
}

func TestIdentityIsAdmin(t *testing.T) {
	if !(domain.Identity{ID: "1", Role: domain.RoleAdmin}).IsAdmin() {
		t.Fatal("admin expected")
	}
	if (domain.Identity{ID: "2", Role: domain.RoleSales}).IsAdmin() {
		t.Fatal("sales role must not be admin")
	}
}
