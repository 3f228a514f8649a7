package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/questra-ai/questra/internal/config"
	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/repository"
)

func EmployeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage the escalation directory",
		Long:  "Add, list, and seed the employees that escalations route to",
	}

	cmd.AddCommand(EmployeeAddCmd())
	cmd.AddCommand(EmployeeListCmd())
	cmd.AddCommand(EmployeeSeedCmd())

	return cmd
}

func EmployeeAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <email> <department>",
		Short: "Add an employee",
		Args:  cobra.ExactArgs(3),
		RunE:  runEmployeeAdd,
	}

	cmd.Flags().String("role", "", "Job title")
	cmd.Flags().StringSlice("expertise", nil, "Comma-separated expertise areas")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runEmployeeAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	outputFormat, _ := cmd.Flags().GetString("output")
	role, _ := cmd.Flags().GetString("role")
	expertise, _ := cmd.Flags().GetStringSlice("expertise")

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	emp := &domain.Employee{
		Name:           args[0],
		Email:          args[1],
		Department:     args[2],
		Role:           role,
		ExpertiseAreas: expertise,
	}
	if err := emp.Validate(); err != nil {
		return err
	}

	repo := repository.NewEmployeeRepository(pool)
	if err := repo.Create(ctx, emp); err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd, emp)
	}

	cmd.Printf("created employee %s (%s, %s)\n", emp.Name, emp.Email, emp.Department)
	return nil
}

func EmployeeListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE:  runEmployeeList,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runEmployeeList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	outputFormat, _ := cmd.Flags().GetString("output")

	pool, err := getDBPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := repository.NewEmployeeRepository(pool)
	employees, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd, employees)
	}

	for _, e := range employees {
		cmd.Printf("%-36s  %-24s  %-16s  %s\n", e.ID, e.Name, e.Department, strings.Join(e.ExpertiseAreas, ","))
	}
	cmd.Printf("%d employee(s)\n", len(employees))
	return nil
}

// seedEmployees is a starter directory so routing works out of the box.
var seedEmployees = []domain.Employee{
	{
		Name: "Sarah Chen", Email: "sarah.chen@example.com", Role: "Security Engineer",
		Department: "Security", ExpertiseAreas: []string{"encryption", "authentication", "network-security"},
	},
	{
		Name: "Marcus Webb", Email: "marcus.webb@example.com", Role: "Compliance Manager",
		Department: "Compliance", ExpertiseAreas: []string{"compliance", "incident-response", "data-protection"},
	},
	{
		Name: "Priya Nair", Email: "priya.nair@example.com", Role: "Platform Engineer",
		Department: "Engineering", ExpertiseAreas: []string{"api-security", "infrastructure", "database"},
	},
}

func EmployeeSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed a starter escalation directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := getDBPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := repository.NewEmployeeRepository(pool)
			for i := range seedEmployees {
				emp := seedEmployees[i]
				if err := repo.Create(ctx, &emp); err != nil {
					return fmt.Errorf("failed to seed %s: %w", emp.Email, err)
				}
				cmd.Printf("seeded %s (%s)\n", emp.Name, emp.Department)
			}
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

func getDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
