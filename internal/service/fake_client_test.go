package service

import (
	"context"
	"sync"

	"github.com/empproxy/empproxy/internal/model"
)

// fakeClient is an in-memory EmployeeClient that counts calls per operation.
type fakeClient struct {
	mu        sync.Mutex
	employees []model.Employee
	fetchErr  error
	createErr error
	deleteOK  bool
	deleteErr error

	fetchAllCalls  int
	fetchByIDCalls int
	createCalls    int
	deleteCalls    int
	deletedNames   []string
	created        []model.CreateEmployeeInput
}

func newFakeClient(employees ...model.Employee) *fakeClient {
	return &fakeClient{employees: employees, deleteOK: true}
}

func (f *fakeClient) FetchAll(_ context.Context) ([]model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchAllCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]model.Employee, len(f.employees))
	copy(out, f.employees)
	return out, nil
}

func (f *fakeClient) FetchByID(_ context.Context, id string) (*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchByIDCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	for i := range f.employees {
		if f.employees[i].ID == id {
			emp := f.employees[i]
			return &emp, nil
		}
	}
	return nil, nil
}

func (f *fakeClient) Create(_ context.Context, input model.CreateEmployeeInput) (*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.created = append(f.created, input)
	if f.createErr != nil {
		return nil, f.createErr
	}
	emp := model.Employee{
		ID:     "new-id",
		Name:   input.Name,
		Salary: input.Salary,
		Age:    input.Age,
		Title:  input.Title,
	}
	f.employees = append(f.employees, emp)
	return &emp, nil
}

func (f *fakeClient) DeleteByName(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	f.deletedNames = append(f.deletedNames, name)
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	return f.deleteOK, nil
}

func newEmployee(id, name string, salary int) model.Employee {
	return model.Employee{ID: id, Name: name, Salary: model.IntPtr(salary), Age: model.IntPtr(30), Title: "Engineer"}
}
