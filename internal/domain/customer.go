package domain

// CustomerStatus отражает активность клиента.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Valid сообщает, является ли статус одним из допустимых значений.
func (s CustomerStatus) Valid() bool {
	return s == CustomerStatusActive || s == CustomerStatusInactive
}

// Customer описывает клиента.
type Customer struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
	Status  CustomerStatus
}

// CustomerInput содержит данные для создания клиента.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Status  CustomerStatus
}

// ToCustomer собирает клиента с заданным идентификатором; пустой статус становится active.
func (in CustomerInput) ToCustomer(id string) Customer {
	status := in.Status
	if status == "" {
		status = CustomerStatusActive
	}
	return Customer{
		ID:      id,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		Status:  status,
	}
}

// ValidateInvariants проверяет инварианты клиента.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if !c.Status.Valid() {
		errs = append(errs, ErrCustomerStatusInvalid)
	}

	return errs
}
