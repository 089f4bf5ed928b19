package service

import (
	"sort"
	"strings"

	"github.com/empproxy/empproxy/internal/model"
)

// DefaultTopEarnersLimit is the ranking size served over HTTP.
const DefaultTopEarnersLimit = 10

// FilterByName returns employees whose name contains query, ignoring case,
// in their original order. Employees without a name never match.
func FilterByName(employees []model.Employee, query string) []model.Employee {
	needle := strings.ToLower(query)

	matches := make([]model.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.Name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(emp.Name), needle) {
			matches = append(matches, emp)
		}
	}
	return matches
}

// MaxSalary returns the highest non-null salary, or 0 when there is none.
func MaxSalary(employees []model.Employee) int {
	highest := 0
	found := false
	for _, emp := range employees {
		if !emp.HasSalary() {
			continue
		}
		if !found || *emp.Salary > highest {
			highest = *emp.Salary
			found = true
		}
	}
	return highest
}

// TopEarnerNames ranks employees with a salary from highest to lowest and
// returns the first n names. Ties keep the input order.
func TopEarnerNames(employees []model.Employee, n int) []string {
	if n <= 0 {
		return []string{}
	}

	ranked := make([]model.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.HasSalary() {
			ranked = append(ranked, emp)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Salary > *ranked[j].Salary
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	names := make([]string, len(ranked))
	for i, emp := range ranked {
		names[i] = emp.Name
	}
	return names
}
