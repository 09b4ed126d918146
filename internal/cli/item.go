package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkarpov/plank/internal/models"
	itemservice "github.com/dkarpov/plank/internal/services/item"
	"github.com/dkarpov/plank/internal/types"
)

// ItemCmd returns the task item command group.
//
// e.g., plank item create --project=<id> --title="Ship v1"
func ItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage a project's task items",
	}
	cmd.AddCommand(
		itemCreateCmd(),
		itemListCmd(),
		itemUpdateCmd(),
		itemDeleteCmd(),
	)
	return cmd
}

func itemCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task item in a project",
		Long: `Create a task item in a project. New items start active with no board;
the board is created the first time it is opened.

Examples:
  plank item create --project=$PROJECT_ID --title="Ship v1"
  ITEM_ID=$(plank item create --project=$PROJECT_ID --title="Ship v1" --quiet)
`,
		RunE: runItemCreate,
	}

	cmd.Flags().String("project", "", "Project ID (required)")
	if err := cmd.MarkFlagRequired("project"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("title", "", "Item title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("description", "", "Item description")
	addOutputFlags(cmd)

	return cmd
}

func runItemCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	projectID, _ := cmd.Flags().GetString("project")
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")

	if strings.TrimSpace(title) == "" {
		if err := formatter.Error("VALIDATION_ERROR", "item title cannot be empty"); err != nil {
			slog.Error("failed to format error", "error", err)
		}
		os.Exit(ExitValidation)
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	item, err := cliInstance.App.ItemService.CreateTaskItem(ctx, itemservice.CreateTaskItemRequest{
		ProjectID:   types.ID(projectID),
		Title:       title,
		Description: description,
	})
	if err != nil {
		return fail(formatter, "ITEM_CREATE_ERROR", err)
	}

	if formatter.Quiet {
		fmt.Printf("%s\n", item.ID)
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"item":    item,
		})
	}

	fmt.Printf("Item %q created (ID: %s)\n", item.Title, item.ID)
	return nil
}

func itemListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's task items",
		RunE:  runItemList,
	}
	cmd.Flags().String("project", "", "Project ID (required)")
	if err := cmd.MarkFlagRequired("project"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("status", "", "Filter by status (active, completed, revision)")
	addOutputFlags(cmd)
	return cmd
}

func runItemList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	projectID, _ := cmd.Flags().GetString("project")
	statusFilter, _ := cmd.Flags().GetString("status")

	if statusFilter != "" && !models.ValidTaskStatus(models.TaskStatus(statusFilter)) {
		if err := formatter.Error("VALIDATION_ERROR", fmt.Sprintf("unknown status %q", statusFilter)); err != nil {
			slog.Error("failed to format error", "error", err)
		}
		os.Exit(ExitValidation)
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	project, err := cliInstance.App.ProjectService.GetProjectByID(ctx, types.ID(projectID))
	if err != nil {
		return fail(formatter, "ITEM_LIST_ERROR", err)
	}

	items := project.TaskItems
	if statusFilter != "" {
		filtered := items[:0:0]
		for _, item := range items {
			if item.Status == models.TaskStatus(statusFilter) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	if formatter.Quiet {
		for _, item := range items {
			fmt.Printf("%s\n", item.ID)
		}
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"items":   items,
		})
	}

	if len(items) == 0 {
		fmt.Println("No task items")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%s  [%s] %s\n", item.ID, item.Status, item.Title)
	}
	return nil
}

func itemUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Update a task item",
		Args:  cobra.ExactArgs(1),
		RunE:  runItemUpdate,
	}
	cmd.Flags().String("project", "", "Project ID (required)")
	if err := cmd.MarkFlagRequired("project"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("status", "", "New status (active, completed, revision)")
	addOutputFlags(cmd)
	return cmd
}

func runItemUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	projectID, _ := cmd.Flags().GetString("project")

	req := itemservice.UpdateTaskItemRequest{
		ProjectID: types.ID(projectID),
		ItemID:    types.ID(args[0]),
	}
	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		req.Title = &title
	}
	if cmd.Flags().Changed("description") {
		description, _ := cmd.Flags().GetString("description")
		req.Description = &description
	}
	if cmd.Flags().Changed("status") {
		statusStr, _ := cmd.Flags().GetString("status")
		status := models.TaskStatus(statusStr)
		req.Status = &status
	}
	if req.Title == nil && req.Description == nil && req.Status == nil {
		if err := formatter.Error("VALIDATION_ERROR", "nothing to update: pass --title, --description or --status"); err != nil {
			slog.Error("failed to format error", "error", err)
		}
		os.Exit(ExitUsage)
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	item, err := cliInstance.App.ItemService.UpdateTaskItem(ctx, req)
	if err != nil {
		return fail(formatter, "ITEM_UPDATE_ERROR", err)
	}

	return formatter.Success(item)
}

func itemDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete a task item, its board, and its cards' history",
		Args:  cobra.ExactArgs(1),
		RunE:  runItemDelete,
	}
	cmd.Flags().String("project", "", "Project ID (required)")
	if err := cmd.MarkFlagRequired("project"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	addOutputFlags(cmd)
	return cmd
}

func runItemDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	projectID, _ := cmd.Flags().GetString("project")

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	if err := cliInstance.App.ItemService.DeleteTaskItem(ctx, types.ID(projectID), types.ID(args[0])); err != nil {
		return fail(formatter, "ITEM_DELETE_ERROR", err)
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"success": true})
	}
	if !formatter.Quiet {
		fmt.Println("Item deleted")
	}
	return nil
}
