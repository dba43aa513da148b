package service

import (
	"context"
	"time"
)

// EmployeeInput carries the full mutable field set of an employee; both
// create and update overwrite every field.
type EmployeeInput struct {
	FirstName string
	LastName  string
	Email     string
	BirthDate *time.Time
	Position  string
	Salary    *int
}

type AddressInput struct {
	City     string
	PostCode string
	Street   string
	Number   *int
}

type EmployeeDTO struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	BirthDate *string   `json:"birthDate"`
	Position  string    `json:"position"`
	Salary    int       `json:"salary"`
	Created   time.Time `json:"created"`
}

type AddressDTO struct {
	ID         uint   `json:"id"`
	City       string `json:"city"`
	PostCode   string `json:"postCode"`
	Street     string `json:"street"`
	Number     int    `json:"number"`
	EmployeeID uint   `json:"employeeId"`
}

type Manager interface {
	CreateEmployee(ctx context.Context, input EmployeeInput) (EmployeeDTO, error)
	GetEmployee(ctx context.Context, employeeID uint) (EmployeeDTO, error)
	ListEmployees(ctx context.Context) ([]EmployeeDTO, error)
	UpdateEmployee(ctx context.Context, employeeID uint, input EmployeeInput) (EmployeeDTO, error)
	DeleteEmployee(ctx context.Context, employeeID uint) error
	CreateAddress(ctx context.Context, employeeID uint, input AddressInput) (AddressDTO, error)
	GetEmployeeAddress(ctx context.Context, employeeID uint) (AddressDTO, error)
	UpdateEmployeeAddress(ctx context.Context, employeeID uint, input AddressInput) (AddressDTO, error)
}
