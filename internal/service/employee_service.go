package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aleksandergalganski/employee-api/internal/apperror"
	"github.com/aleksandergalganski/employee-api/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type EmployeeService struct {
	db *gorm.DB
}

func NewEmployeeService(db *gorm.DB) *EmployeeService {
	return &EmployeeService{db: db}
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, input EmployeeInput) (EmployeeDTO, error) {
	normalized, err := validateEmployeeInput(input)
	if err != nil {
		return EmployeeDTO{}, err
	}

	employee := models.Employee{
		FirstName: normalized.FirstName,
		LastName:  normalized.LastName,
		Email:     normalized.Email,
		BirthDate: normalized.BirthDate,
		Position:  normalized.Position,
		Salary:    *normalized.Salary,
		Created:   time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&employee).Error; err != nil {
		return EmployeeDTO{}, mapDatabaseError(err)
	}

	return employeeToDTO(employee), nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, employeeID uint) (EmployeeDTO, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
		}
		return EmployeeDTO{}, fmt.Errorf("load employee: %w", err)
	}

	return employeeToDTO(employee), nil
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]EmployeeDTO, error) {
	var employees []models.Employee
	if err := s.db.WithContext(ctx).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	result := make([]EmployeeDTO, 0, len(employees))
	for _, employee := range employees {
		result = append(result, employeeToDTO(employee))
	}
	return result, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, employeeID uint, input EmployeeInput) (EmployeeDTO, error) {
	normalized, err := validateEmployeeInput(input)
	if err != nil {
		return EmployeeDTO{}, err
	}

	var employee models.Employee
	if err := s.db.WithContext(ctx).First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
		}
		return EmployeeDTO{}, fmt.Errorf("load employee: %w", err)
	}

	// Single UPDATE over every mutable column; created is never touched.
	updates := map[string]interface{}{
		"first_name": normalized.FirstName,
		"last_name":  normalized.LastName,
		"email":      normalized.Email,
		"birth_date": normalized.BirthDate,
		"position":   normalized.Position,
		"salary":     *normalized.Salary,
	}

	if err := s.db.WithContext(ctx).Model(&employee).Updates(updates).Error; err != nil {
		return EmployeeDTO{}, mapDatabaseError(err)
	}
	if err := s.db.WithContext(ctx).First(&employee, employeeID).Error; err != nil {
		return EmployeeDTO{}, fmt.Errorf("reload employee: %w", err)
	}

	return employeeToDTO(employee), nil
}

// DeleteEmployee removes the employee row and any address owned by it as one
// transaction; a missing address is a no-op, not an error.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, employeeID uint) error {
	if err := s.ensureEmployeeExists(ctx, employeeID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).Delete(&models.Address{}).Error; err != nil {
			return mapDatabaseError(err)
		}
		if err := tx.Delete(&models.Employee{}, employeeID).Error; err != nil {
			return mapDatabaseError(err)
		}
		return nil
	})
}

func (s *EmployeeService) CreateAddress(ctx context.Context, employeeID uint, input AddressInput) (AddressDTO, error) {
	normalized, err := validateAddressInput(input)
	if err != nil {
		return AddressDTO{}, err
	}

	if err := s.ensureEmployeeExists(ctx, employeeID); err != nil {
		return AddressDTO{}, err
	}

	address := models.Address{
		City:       normalized.City,
		PostCode:   normalized.PostCode,
		Street:     normalized.Street,
		Number:     *normalized.Number,
		EmployeeID: employeeID,
	}

	if err := s.db.WithContext(ctx).Create(&address).Error; err != nil {
		return AddressDTO{}, mapDatabaseError(err)
	}

	return addressToDTO(address), nil
}

func (s *EmployeeService) GetEmployeeAddress(ctx context.Context, employeeID uint) (AddressDTO, error) {
	if err := s.ensureEmployeeExists(ctx, employeeID); err != nil {
		return AddressDTO{}, err
	}

	address, err := s.loadAddress(ctx, employeeID)
	if err != nil {
		return AddressDTO{}, err
	}

	return addressToDTO(address), nil
}

func (s *EmployeeService) UpdateEmployeeAddress(ctx context.Context, employeeID uint, input AddressInput) (AddressDTO, error) {
	normalized, err := validateAddressInput(input)
	if err != nil {
		return AddressDTO{}, err
	}

	if err := s.ensureEmployeeExists(ctx, employeeID); err != nil {
		return AddressDTO{}, err
	}

	address, err := s.loadAddress(ctx, employeeID)
	if err != nil {
		return AddressDTO{}, err
	}

	updates := map[string]interface{}{
		"city":      normalized.City,
		"post_code": normalized.PostCode,
		"street":    normalized.Street,
		"number":    *normalized.Number,
	}

	if err := s.db.WithContext(ctx).Model(&address).Updates(updates).Error; err != nil {
		return AddressDTO{}, mapDatabaseError(err)
	}
	if err := s.db.WithContext(ctx).First(&address, address.ID).Error; err != nil {
		return AddressDTO{}, fmt.Errorf("reload address: %w", err)
	}

	return addressToDTO(address), nil
}

func (s *EmployeeService) ensureEmployeeExists(ctx context.Context, employeeID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", employeeID).Count(&count).Error; err != nil {
		return fmt.Errorf("check employee existence: %w", err)
	}
	if count == 0 {
		return apperror.New(apperror.CodeNotFound, "employee not found")
	}
	return nil
}

// loadAddress returns the employee's address; ordering by id keeps the result
// deterministic even against a legacy table without the unique index.
func (s *EmployeeService) loadAddress(ctx context.Context, employeeID uint) (models.Address, error) {
	var address models.Address
	err := s.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id ASC").
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Address{}, apperror.New(apperror.CodeNotFound, "address not found")
		}
		return models.Address{}, fmt.Errorf("load address: %w", err)
	}
	return address, nil
}

func validateEmployeeInput(input EmployeeInput) (EmployeeInput, error) {
	firstName, err := normalizeRequiredString(input.FirstName, "firstName", 100)
	if err != nil {
		return EmployeeInput{}, err
	}

	lastName, err := normalizeRequiredString(input.LastName, "lastName", 100)
	if err != nil {
		return EmployeeInput{}, err
	}

	email, err := normalizeRequiredString(input.Email, "email", 200)
	if err != nil {
		return EmployeeInput{}, err
	}

	position, err := normalizeRequiredString(input.Position, "position", 200)
	if err != nil {
		return EmployeeInput{}, err
	}

	if input.Salary == nil {
		return EmployeeInput{}, apperror.New(apperror.CodeValidation, "salary is required")
	}

	return EmployeeInput{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		BirthDate: input.BirthDate,
		Position:  position,
		Salary:    input.Salary,
	}, nil
}

func validateAddressInput(input AddressInput) (AddressInput, error) {
	city, err := normalizeRequiredString(input.City, "city", 100)
	if err != nil {
		return AddressInput{}, err
	}

	postCode, err := normalizeRequiredString(input.PostCode, "postCode", 6)
	if err != nil {
		return AddressInput{}, err
	}

	street, err := normalizeRequiredString(input.Street, "street", 100)
	if err != nil {
		return AddressInput{}, err
	}

	if input.Number == nil {
		return AddressInput{}, apperror.New(apperror.CodeValidation, "number is required")
	}

	return AddressInput{
		City:     city,
		PostCode: postCode,
		Street:   street,
		Number:   input.Number,
	}, nil
}

func employeeToDTO(employee models.Employee) EmployeeDTO {
	var birthDate *string
	if employee.BirthDate != nil {
		formatted := employee.BirthDate.Format(dateLayout)
		birthDate = &formatted
	}

	return EmployeeDTO{
		ID:        employee.ID,
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Email:     employee.Email,
		BirthDate: birthDate,
		Position:  employee.Position,
		Salary:    employee.Salary,
		Created:   employee.Created,
	}
}

func addressToDTO(address models.Address) AddressDTO {
	return AddressDTO{
		ID:         address.ID,
		City:       address.City,
		PostCode:   address.PostCode,
		Street:     address.Street,
		Number:     address.Number,
		EmployeeID: address.EmployeeID,
	}
}

func normalizeRequiredString(raw string, field string, maxLength int) (string, error) {
	value := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(value)
	if length < 1 || length > maxLength {
		return "", apperror.Errorf(apperror.CodeValidation, "%s length must be in range 1..%d", field, maxLength)
	}
	return value, nil
}

func mapDatabaseError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return apperror.New(apperror.CodeConflict, "resource with the same unique attributes already exists")
		}
		if pgErr.Code == "23503" {
			return apperror.New(apperror.CodeValidation, "invalid foreign key reference")
		}
	}
	return err
}
