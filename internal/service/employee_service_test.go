package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aleksandergalganski/employee-api/internal/apperror"
	"github.com/aleksandergalganski/employee-api/internal/models"
	"github.com/aleksandergalganski/employee-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(&models.Employee{}, &models.Address{}))
	return database
}

func intPtr(v int) *int {
	return &v
}

func timePtr(v time.Time) *time.Time {
	return &v
}

func validEmployeeInput() service.EmployeeInput {
	return service.EmployeeInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		BirthDate: timePtr(time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)),
		Position:  "Engineer",
		Salary:    intPtr(90000),
	}
}

func TestCreateEmployeeAndGet(t *testing.T) {
	svc := service.NewEmployeeService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, validEmployeeInput())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Jane", created.FirstName)
	assert.Equal(t, "Doe", created.LastName)
	assert.Equal(t, "jane@x.com", created.Email)
	require.NotNil(t, created.BirthDate)
	assert.Equal(t, "1990-05-10", *created.BirthDate)
	assert.Equal(t, "Engineer", created.Position)
	assert.Equal(t, 90000, created.Salary)
	assert.False(t, created.Created.IsZero())

	loaded, err := svc.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, created.Created.Equal(loaded.Created), "created timestamp changed on reload")
	created.Created = time.Time{}
	loaded.Created = time.Time{}
	assert.Equal(t, created, loaded)
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc := service.NewEmployeeService(newTestDB(t))
	ctx := context.Background()

	missingFirstName := validEmployeeInput()
	missingFirstName.FirstName = "  "
	_, err := svc.CreateEmployee(ctx, missingFirstName)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))

	missingSalary := validEmployeeInput()
	missingSalary.Salary = nil
	_, err = svc.CreateEmployee(ctx, missingSalary)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))

	employees, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestCreateEmployeeWithoutBirthDate(t *testing.T) {
	svc := service.NewEmployeeService(newTestDB(t))
	ctx := context.Background()

	input := validEmployeeInput()
	input.BirthDate = nil

	created, err := svc.CreateEmployee(ctx, input)
	require.NoError(t, err)
	assert.Nil(t, created.BirthDate)
}

func TestListEmployees(t *testing.T) {
	svc := service.NewEmployeeService(newTestDB(t))
	ctx := context.Background()

	employees, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)

	first := validEmployeeInput()
	_, err = svc.CreateEmployee(ctx, first)
	require.NoError(t, err)

	second := validEmployeeInput()
	second.Email = "john@x.com"
	second.FirstName = "John"
	_, err = svc.CreateEmployee(ctx, second)
	require.NoError(t, err)

	employees, err = svc.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 2)
}

func TestUpdateEmployee(t *testing.T) {
	svc := service.NewEmployeeService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, validEmployeeInput())
	require.NoError(t, err)

	update := validEmployeeInput()
	update.FirstName = "Janet"
	update.Position = "Staff Engineer"
	update.Salary = intPtr(120000)

	updated, err := svc.UpdateEmployee(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "Staff Engineer", updated.Position)
	assert.Equal(t, 120000, updated.Salary)
	assert.True(t, created.Created.Equal(updated.Created), "created timestamp must never change")

	loaded, err := svc.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, loaded)
}

func TestUpdateEmployeeNotFound(t *testing.T) {
	svc := service.NewEmployeeService(newTestDB(t))

	_, err := svc.UpdateEmployee(context.Background(), 42, validEmployeeInput())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))
}

func TestGetEmployeeNotFound(t *testing.T) {
	svc := service.NewEmployeeService(newTestDB(t))

	_, err := svc.GetEmployee(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))
}

func TestDeleteEmployeeNotFound(t *testing.T) {
	svc := service.NewEmployeeService(newTestDB(t))

	err := svc.DeleteEmployee(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))
}

func TestDeleteEmployeeWithoutAddress(t *testing.T) {
	svc := service.NewEmployeeService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, validEmployeeInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmployee(ctx, created.ID))

	_, err = svc.GetEmployee(ctx, created.ID)
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))
}

func TestDeleteEmployeeCascadesToAddress(t *testing.T) {
	database := newTestDB(t)
	svc := service.NewEmployeeService(database)
	ctx := context.Background()

	employee, err := svc.CreateEmployee(ctx, validEmployeeInput())
	require.NoError(t, err)

	_, err = svc.CreateAddress(ctx, employee.ID, service.AddressInput{
		City:     "Metropolis",
		PostCode: "12345",
		Street:   "Main",
		Number:   intPtr(42),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmployee(ctx, employee.ID))

	_, err = svc.GetEmployee(ctx, employee.ID)
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))

	_, err = svc.GetEmployeeAddress(ctx, employee.ID)
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))

	var count int64
	require.NoError(t, database.Model(&models.Address{}).Count(&count).Error)
	assert.Zero(t, count)
}
