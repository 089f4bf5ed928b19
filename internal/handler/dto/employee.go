// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/empproxy/empproxy/internal/model"

// CreateEmployeeRequest represents the request body for creating an employee.
type CreateEmployeeRequest struct {
	Name   string `json:"name"`
	Salary *int   `json:"salary"`
	Age    *int   `json:"age"`
	Title  string `json:"title"`
}

// ToInput converts the request into the service input.
func (r CreateEmployeeRequest) ToInput() model.CreateEmployeeInput {
	return model.CreateEmployeeInput{
		Name:   r.Name,
		Salary: r.Salary,
		Age:    r.Age,
		Title:  r.Title,
	}
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}
