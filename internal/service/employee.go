// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/empproxy/empproxy/internal/metrics"
	"github.com/empproxy/empproxy/internal/model"
)

// Service errors.
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDeleteFailed     = errors.New("upstream failed to delete employee")
)

// EmployeeClient is the upstream access the service needs.
// A nil employee with a nil error from FetchByID means "absent".
type EmployeeClient interface {
	FetchAll(ctx context.Context) ([]model.Employee, error)
	FetchByID(ctx context.Context, id string) (*model.Employee, error)
	Create(ctx context.Context, input model.CreateEmployeeInput) (*model.Employee, error)
	DeleteByName(ctx context.Context, name string) (bool, error)
}

// EmployeeService aggregates and mutates employees held by the upstream.
// It keeps no state between calls; every read fetches a fresh collection.
type EmployeeService struct {
	client    EmployeeClient
	validator *Validator
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(client EmployeeClient, logger *slog.Logger, recorder metrics.Recorder) (*EmployeeService, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &EmployeeService{
		client:    client,
		validator: v,
		logger:    logger.With("component", "employee.service"),
		metrics:   recorder,
	}, nil
}

// ListEmployees returns every employee.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	employees, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch employees: %w", err)
	}
	return employees, nil
}

// SearchByName returns employees whose name contains query, ignoring case.
func (s *EmployeeService) SearchByName(ctx context.Context, query string) ([]model.Employee, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}

	matches := FilterByName(employees, query)
	s.logger.Info("employee_search", "query", query, "matches", len(matches))
	return matches, nil
}

// GetEmployee returns one employee or ErrEmployeeNotFound.
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	emp, err := s.client.FetchByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch employee %s: %w", id, err)
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	return emp, nil
}

// HighestSalary returns the highest salary, or 0 when no employee has one.
func (s *EmployeeService) HighestSalary(ctx context.Context) (int, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return 0, err
	}
	return MaxSalary(employees), nil
}

// TopEarningNames returns the names of the n best-paid employees.
func (s *EmployeeService) TopEarningNames(ctx context.Context, n int) ([]string, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return TopEarnerNames(employees, n), nil
}

// CreateEmployee validates input and creates the employee upstream.
// Invalid input never reaches the network.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input model.CreateEmployeeInput) (*model.Employee, error) {
	if err := s.validator.ValidateCreate(input); err != nil {
		return nil, err
	}

	emp, err := s.client.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	s.metrics.IncEmployeeCreated()
	s.logger.Info("employee_created", "employee_id", emp.ID)
	return emp, nil
}

// DeleteEmployee resolves id to a name and deletes that name upstream.
// It returns the deleted employee's name. An unknown id yields ErrEmployeeNotFound
// without any delete call; an upstream refusal yields ErrDeleteFailed.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) (string, error) {
	emp, err := s.client.FetchByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolve employee %s: %w", id, err)
	}
	if emp == nil {
		return "", fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}

	deleted, err := s.client.DeleteByName(ctx, emp.Name)
	if err != nil {
		return "", fmt.Errorf("delete employee %s: %w", id, err)
	}
	if !deleted {
		return "", fmt.Errorf("%w: %s", ErrDeleteFailed, id)
	}

	s.metrics.IncEmployeeDeleted()
	s.logger.Info("employee_deleted", "employee_id", id)
	return emp.Name, nil
}
