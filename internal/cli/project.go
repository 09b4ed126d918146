package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkarpov/plank/internal/types"
	projectservice "github.com/dkarpov/plank/internal/services/project"
)

// ProjectCmd returns the project command group.
//
// e.g., plank project create --name="Backend API"
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		projectCreateCmd(),
		projectListCmd(),
		projectShowCmd(),
		projectUpdateCmd(),
		projectDeleteCmd(),
	)
	return cmd
}

func projectCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		Long: `Create a new project with specified attributes.

Examples:
  # Simple project (human-readable output)
  plank project create --name="Backend API"

  # JSON output for agents
  plank project create --name="Backend API" --json

  # Quiet mode for shell capture
  PROJECT_ID=$(plank project create --name="Backend API" --quiet)
`,
		RunE: runProjectCreate,
	}

	cmd.Flags().String("name", "", "Project name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("description", "", "Project description")
	addOutputFlags(cmd)

	return cmd
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")

	if strings.TrimSpace(name) == "" {
		if err := formatter.Error("VALIDATION_ERROR", "project name cannot be empty"); err != nil {
			slog.Error("failed to format error", "error", err)
		}
		os.Exit(ExitValidation)
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	project, err := cliInstance.App.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return fail(formatter, "PROJECT_CREATE_ERROR", err)
	}

	if formatter.Quiet {
		fmt.Printf("%s\n", project.ID)
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"project": project,
		})
	}

	fmt.Printf("Project %q created (ID: %s)\n", project.Name, project.ID)
	if project.Description != "" {
		fmt.Printf("  Description: %s\n", project.Description)
	}
	return nil
}

func projectListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE:  runProjectList,
	}
	addOutputFlags(cmd)
	return cmd
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	projects, err := cliInstance.App.ProjectService.GetAllProjects(ctx)
	if err != nil {
		return fail(formatter, "PROJECT_LIST_ERROR", err)
	}

	if formatter.Quiet {
		for _, p := range projects {
			fmt.Printf("%s\n", p.ID)
		}
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success":  true,
			"projects": projects,
		})
	}

	if len(projects) == 0 {
		fmt.Println("No projects yet. Create one with: plank project create --name=...")
		return nil
	}
	for _, p := range projects {
		active := p.ActiveItemCount()
		fmt.Printf("%s  %s (%d active item(s))\n", p.ID, p.Name, active)
	}
	return nil
}

func projectShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project with its task items",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectShow,
	}
	addOutputFlags(cmd)
	return cmd
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	project, err := cliInstance.App.ProjectService.GetProjectByID(ctx, types.ID(args[0]))
	if err != nil {
		return fail(formatter, "PROJECT_SHOW_ERROR", err)
	}

	if formatter.Quiet {
		fmt.Printf("%s\n", project.ID)
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"project": project,
		})
	}

	fmt.Printf("%s  %s\n", project.ID, project.Name)
	if project.Description != "" {
		fmt.Printf("  %s\n", project.Description)
	}
	for _, item := range project.TaskItems {
		fmt.Printf("  %s  [%s] %s\n", item.ID, item.Status, item.Title)
	}
	return nil
}

func projectUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project's name or description",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectUpdate,
	}
	cmd.Flags().String("name", "", "New project name")
	cmd.Flags().String("description", "", "New project description")
	addOutputFlags(cmd)
	return cmd
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	req := projectservice.UpdateProjectRequest{ID: types.ID(args[0])}
	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
	}
	if cmd.Flags().Changed("description") {
		description, _ := cmd.Flags().GetString("description")
		req.Description = &description
	}
	if req.Name == nil && req.Description == nil {
		if err := formatter.Error("VALIDATION_ERROR", "nothing to update: pass --name or --description"); err != nil {
			slog.Error("failed to format error", "error", err)
		}
		os.Exit(ExitUsage)
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	project, err := cliInstance.App.ProjectService.UpdateProject(ctx, req)
	if err != nil {
		return fail(formatter, "PROJECT_UPDATE_ERROR", err)
	}

	return formatter.Success(project)
}

func projectDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectDelete,
	}
	addOutputFlags(cmd)
	return cmd
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	if err := cliInstance.App.ProjectService.DeleteProject(ctx, types.ID(args[0])); err != nil {
		return fail(formatter, "PROJECT_DELETE_ERROR", err)
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"success": true})
	}
	if !formatter.Quiet {
		fmt.Println("Project deleted")
	}
	return nil
}

// closeCLI closes the CLI, logging rather than surfacing close errors.
func closeCLI(c *CLI) {
	if err := c.Close(); err != nil {
		slog.Error("error closing cli", "error", err)
	}
}
