// Package testutil holds shared test fixtures: a fake upstream directory
// speaking the envelope protocol, employee factories and Redis helpers.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/empproxy/empproxy/internal/model"
)

// DirectoryPath is the collection path served by Directory.
const DirectoryPath = "/api/v1/employee"

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// Directory is an in-memory upstream employee directory.
type Directory struct {
	mu          sync.Mutex
	employees   []model.Employee
	rateLimited bool
	calls       int
	deletes     int
	nextID      int
}

// NewDirectory starts a Directory behind an httptest server and returns it
// together with the collection base URL. The server is closed on cleanup.
func NewDirectory(t testing.TB, employees ...model.Employee) (*Directory, string) {
	t.Helper()

	d := &Directory{employees: employees, nextID: 1000}
	srv := httptest.NewServer(d)
	t.Cleanup(srv.Close)
	return d, srv.URL + DirectoryPath
}

// SetRateLimited makes every subsequent request answer 429.
func (d *Directory) SetRateLimited(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rateLimited = v
}

// Calls returns the number of requests served.
func (d *Directory) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Deletes returns the number of DELETE requests served.
func (d *Directory) Deletes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deletes
}

// Employees returns a copy of the current directory content.
func (d *Directory) Employees() []model.Employee {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Employee, len(d.employees))
	copy(out, d.employees)
	return out
}

func (d *Directory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++

	if d.rateLimited {
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}
	if !strings.HasPrefix(r.URL.Path, DirectoryPath) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, DirectoryPath), "/")
	switch {
	case id == "" && r.Method == http.MethodGet:
		reply(w, d.employees)
	case id == "" && r.Method == http.MethodPost:
		d.create(w, r)
	case id == "" && r.Method == http.MethodDelete:
		d.deleteByName(w, r)
	case id != "" && r.Method == http.MethodGet:
		for _, emp := range d.employees {
			if emp.ID == id {
				reply(w, emp)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (d *Directory) create(w http.ResponseWriter, r *http.Request) {
	var in model.CreateEmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	d.nextID++
	emp := model.Employee{
		ID:     fmt.Sprintf("%d", d.nextID),
		Name:   in.Name,
		Salary: in.Salary,
		Age:    in.Age,
		Title:  in.Title,
		Email:  strings.ToLower(strings.ReplaceAll(in.Name, " ", ".")) + "@company.com",
	}
	d.employees = append(d.employees, emp)
	reply(w, emp)
}

func (d *Directory) deleteByName(w http.ResponseWriter, r *http.Request) {
	d.deletes++

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	for i, emp := range d.employees {
		if emp.Name == body.Name {
			d.employees = append(d.employees[:i], d.employees[i+1:]...)
			reply(w, true)
			return
		}
	}
	reply(w, false)
}

func reply(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":   data,
		"status": "Successfully processed request.",
	})
}

var idSeq atomic.Int64

// NewTestEmployee creates an employee with sensible defaults and a unique ID.
func NewTestEmployee(name string, salary int) model.Employee {
	return model.Employee{
		ID:     fmt.Sprintf("emp-%d", idSeq.Add(1)),
		Name:   name,
		Salary: model.IntPtr(salary),
		Age:    model.IntPtr(30),
		Title:  "Engineer",
	}
}
