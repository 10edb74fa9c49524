package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CustomerRequest is used for both create and update. Omitted fields are left
// unchanged on update.
type CustomerRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Company   *string `json:"company"`
	Address   *string `json:"address"`
}

// CustomerResponse renders a customer.
type CustomerResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomerResponse maps a customer to its response.
func NewCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewCustomerResponses maps a slice of customers.
func NewCustomerResponses(customers []domain.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		resp = append(resp, NewCustomerResponse(&customers[i]))
	}
	return resp
}
