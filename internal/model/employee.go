// Package model defines domain entities for the application.
package model

import "encoding/json"

// Employee is an employee record as served by the upstream directory.
// Salary and Age are pointers because the upstream may send null for either.
type Employee struct {
	ID     string `json:"id"`
	Name   string `json:"employee_name"`
	Salary *int   `json:"employee_salary"`
	Age    *int   `json:"employee_age"`
	Title  string `json:"employee_title"`
	Email  string `json:"employee_email,omitempty"`
}

// HasSalary reports whether the upstream supplied a salary.
func (e Employee) HasSalary() bool {
	return e.Salary != nil
}

// CreateEmployeeInput is the body sent upstream to create an employee.
// It is validated before any network call is made.
type CreateEmployeeInput struct {
	Name   string `json:"name" validate:"notblank"`
	Salary *int   `json:"salary" validate:"required,gt=0"`
	Age    *int   `json:"age" validate:"required,gte=16,lte=75"`
	Title  string `json:"title" validate:"notblank"`
}

// Envelope is the upstream response wrapper.
// Data is kept raw so that a missing or null payload can be told apart
// from an empty one.
type Envelope struct {
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
}

// HasData reports whether the envelope carried a non-null payload.
func (e Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
