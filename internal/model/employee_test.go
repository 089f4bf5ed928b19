package model

import (
	"encoding/json"
	"testing"
)

func TestEmployee_UnmarshalUpstreamFields(t *testing.T) {
	raw := `{
		"id": "4a3a170b-22cd-4ac2-aad1-9bb5b34a1507",
		"employee_name": "Tiger Nixon",
		"employee_salary": 320800,
		"employee_age": 61,
		"employee_title": "Vice Chair Executive Principal of Chief Operations Implementation Specialist",
		"employee_email": "tnixon@company.com",
		"unknown_field": true
	}`

	var emp Employee
	if err := json.Unmarshal([]byte(raw), &emp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if emp.Name != "Tiger Nixon" {
		t.Errorf("expected name Tiger Nixon, got %q", emp.Name)
	}
	if emp.Salary == nil || *emp.Salary != 320800 {
		t.Errorf("unexpected salary: %v", emp.Salary)
	}
	if emp.Age == nil || *emp.Age != 61 {
		t.Errorf("unexpected age: %v", emp.Age)
	}
	if emp.Email != "tnixon@company.com" {
		t.Errorf("unexpected email: %q", emp.Email)
	}
}

func TestEmployee_NullSalary(t *testing.T) {
	var emp Employee
	if err := json.Unmarshal([]byte(`{"id":"1","employee_name":"A","employee_salary":null}`), &emp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if emp.HasSalary() {
		t.Error("expected HasSalary to be false for null salary")
	}
}

func TestEnvelope_HasData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"missing data", `{"status":"ok"}`, false},
		{"null data", `{"data":null,"status":"ok"}`, false},
		{"empty array", `{"data":[],"status":"ok"}`, true},
		{"object", `{"data":{"id":"1"},"status":"ok"}`, true},
		{"boolean", `{"data":true,"status":"ok"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			if err := json.Unmarshal([]byte(tt.raw), &env); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if got := env.HasData(); got != tt.want {
				t.Errorf("HasData() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateEmployeeInput_MarshalsUpstreamBody(t *testing.T) {
	in := CreateEmployeeInput{Name: "Jill Jenkins", Salary: IntPtr(139082), Age: IntPtr(48), Title: "Financial Advisor"}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"name":"Jill Jenkins","salary":139082,"age":48,"title":"Financial Advisor"}`
	if string(data) != want {
		t.Errorf("unexpected body:\n got %s\nwant %s", data, want)
	}
}
