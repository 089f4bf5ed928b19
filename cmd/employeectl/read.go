package main

import (
	"github.com/spf13/cobra"

	"github.com/empproxy/empproxy/internal/service"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := c.svc.ListEmployees(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(employees)
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search employees by name, ignoring case",
		Long: `Search lists employees whose name contains the query, ignoring case,
in directory order.

Example:
  employeectl search nixon
  employeectl search "tiger nix"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := c.svc.SearchByName(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}
			return c.printJSON(employees)
		},
	}
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an employee by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := c.svc.GetEmployee(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(emp)
		},
	}
}

func (c *cli) highestSalaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "highest-salary",
		Short: "Print the highest salary (0 when no employee has one)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			salary, err := c.svc.HighestSalary(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(salary)
		},
	}
}

func (c *cli) topEarnersCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top-earners",
		Short: "Print the names of the best-paid employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.svc.TopEarningNames(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return c.printJSON(names)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", service.DefaultTopEarnersLimit, "number of names to print")
	return cmd
}
