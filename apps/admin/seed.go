package main

import (
	"context"
	"time"

	"github.com/nafasihq/nafasi/core/employee"
	"github.com/nafasihq/nafasi/core/project"
)

// seed loads a small demo workforce and two projects so a fresh install has
// something to assign.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	// open for assignment
	_, err := cli.projRepo.CreateProject(ctx, project.Project{
		Name:             "Website Redesign",
		Status:           project.StatusActive,
		ShortDescription: "Rebuild the marketing site on the new design system.",
		RequiredSkills:   []string{"Go", "React", "CSS"},
		RoleQuotas: []project.RoleQuota{
			{Role: "Backend Developer", Count: 2},
			{Role: "Frontend Developer", Count: 1},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	dbopt, err := cli.projRepo.CreateProject(ctx, project.Project{
		Name:             "Database Optimization",
		Status:           project.StatusActive,
		ShortDescription: "Query tuning and index review of the reporting cluster.",
		RequiredSkills:   []string{"PostgreSQL", "Go"},
		RoleQuotas: []project.RoleQuota{
			{Role: "Backend Developer", Count: 2},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	// Dilkini stays on the bench, full capacity
	if _, err = cli.empRepo.CreateEmployee(ctx, employee.Employee{
		Name:      "Dilkini",
		Title:     "Software Engineer",
		Skills:    []string{"Go", "PostgreSQL"},
		Status:    employee.StatusActive,
		Projects:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	asitha, err := cli.empRepo.CreateEmployee(ctx, employee.Employee{
		Name:      "Asitha",
		Title:     "Software Engineer",
		Skills:    []string{"Go", "React"},
		Status:    employee.StatusActive,
		Projects:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	// Asitha starts 60% committed elsewhere
	if _, err = cli.projRepo.AddAssignments(ctx, dbopt.ID, project.Assignment{
		EmployeeID: asitha.ID,
		Role:       "Backend Developer",
		Workload:   60,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return err
	}
	if _, err = cli.empRepo.UpdateEmployee(ctx, employee.Employee{
		ID:        asitha.ID,
		Projects:  []string{dbopt.Name},
		UpdatedAt: now,
	}); err != nil {
		return err
	}
	return nil
}
