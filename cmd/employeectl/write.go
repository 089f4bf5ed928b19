package main

import (
	"github.com/spf13/cobra"

	"github.com/empproxy/empproxy/internal/model"
)

func (c *cli) createCmd() *cobra.Command {
	var (
		name   string
		salary int
		age    int
		title  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		Long: `Create validates the employee and sends it to the directory.
Invalid input is rejected without contacting the directory.

Example:
  employeectl create --name "Jill Jenkins" --salary 139082 --age 48 --title "Financial Advisor"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := model.CreateEmployeeInput{
				Name:  name,
				Title: title,
			}
			// Unset flags stay nil so validation reports them as missing.
			if cmd.Flags().Changed("salary") {
				input.Salary = model.IntPtr(salary)
			}
			if cmd.Flags().Changed("age") {
				input.Age = model.IntPtr(age)
			}

			emp, err := c.svc.CreateEmployee(cmd.Context(), input)
			if err != nil {
				return err
			}
			return c.printJSON(emp)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "employee name")
	cmd.Flags().IntVar(&salary, "salary", 0, "salary, greater than zero")
	cmd.Flags().IntVar(&age, "age", 0, "age, between 16 and 75")
	cmd.Flags().StringVar(&title, "title", "", "job title")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee by ID and print the deleted name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := c.svc.DeleteEmployee(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(name)
		},
	}
}
