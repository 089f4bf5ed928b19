package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/empproxy/empproxy/internal/model"
)

func TestFilterByName(t *testing.T) {
	employees := []model.Employee{
		newEmployee("1", "Tiger Nixon", 1),
		{ID: "2"},
		newEmployee("3", "Ashton Cox", 3),
	}

	assert.Len(t, FilterByName(employees, ""), 2)
	assert.Equal(t, []model.Employee{employees[2]}, FilterByName(employees, "COX"))

	none := FilterByName(employees, "zzz")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMaxSalary(t *testing.T) {
	assert.Equal(t, 0, MaxSalary(nil))
	assert.Equal(t, 200, MaxSalary([]model.Employee{newEmployee("1", "A", 100), newEmployee("2", "B", 200)}))
}

func TestTopEarnerNamesStrictlyDescending(t *testing.T) {
	salaries := []int{5, 90, 12, 77, 1, 300, 64, 18, 250, 3, 41, 99}
	var employees []model.Employee
	for i, s := range salaries {
		employees = append(employees, newEmployee(string(rune('a'+i)), string(rune('A'+i)), s))
	}

	names := TopEarnerNames(employees, 10)
	assert.Len(t, names, 10)

	bySalary := map[string]int{}
	for _, e := range employees {
		bySalary[e.Name] = *e.Salary
	}
	for i := 1; i < len(names); i++ {
		assert.Greater(t, bySalary[names[i-1]], bySalary[names[i]])
	}
}

func TestTopEarnerNamesTiesKeepOrder(t *testing.T) {
	employees := []model.Employee{
		newEmployee("1", "first", 100),
		newEmployee("2", "second", 100),
		newEmployee("3", "low", 10),
		{ID: "4", Name: "unpaid"},
	}

	assert.Equal(t, []string{"first", "second", "low"}, TopEarnerNames(employees, 10))
	assert.Equal(t, []string{"first"}, TopEarnerNames(employees, 1))
	assert.Empty(t, TopEarnerNames(employees, 0))
}
