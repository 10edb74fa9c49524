package service

import (
	"context"
	"strings"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// CustomerService manages customer records.
type CustomerService struct {
	customers repository.CustomerRepository
}

// CustomerInput carries customer fields. Nil pointers leave a field unchanged
// on update.
type CustomerInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Company   *string
	Address   *string
}

// CustomerQuery describes list filters.
type CustomerQuery struct {
	Name *string
	Pagination
}

// NewCustomerService constructs the service.
func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// CreateCustomer adds a customer. Email must be unique.
func (s *CustomerService) CreateCustomer(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	if err := required(map[string]bool{
		"first_name": input.FirstName != nil && !blank(*input.FirstName),
		"last_name":  input.LastName != nil && !blank(*input.LastName),
		"email":      input.Email != nil && !blank(*input.Email),
	}); err != nil {
		return nil, err
	}
	customer := &domain.Customer{}
	applyCustomerInput(customer, input)
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, storeError("customer", err)
	}
	return customer, nil
}

// GetCustomer fetches a customer.
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("customer", err)
	}
	return customer, nil
}

// UpdateCustomer applies a partial update.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, input CustomerInput) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("customer", err)
	}
	applyCustomerInput(customer, input)
	if blank(customer.FirstName) || blank(customer.LastName) || blank(customer.Email) {
		return nil, apperrors.NewValidationError("first_name, last_name and email cannot be empty", nil)
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, storeError("customer", err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer together with its leads, interactions,
// tickets and analytics.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	return storeError("customer", s.customers.Delete(ctx, id))
}

// ListCustomers returns one page of customers matching q.
func (s *CustomerService) ListCustomers(ctx context.Context, q CustomerQuery) (PageResult[domain.Customer], error) {
	items, total, err := s.customers.List(ctx, repository.CustomerFilter{Name: q.Name, Page: q.repoPage()})
	if err != nil {
		return PageResult[domain.Customer]{}, storeError("customer", err)
	}
	return newPageResult(items, total, q.Pagination), nil
}

func applyCustomerInput(c *domain.Customer, input CustomerInput) {
	if input.FirstName != nil {
		c.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		c.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		c.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		c.Phone = input.Phone
	}
	if input.Company != nil {
		c.Company = input.Company
	}
	if input.Address != nil {
		c.Address = input.Address
	}
}
