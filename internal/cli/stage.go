package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkarpov/plank/internal/config"
	boardservice "github.com/dkarpov/plank/internal/services/board"
	"github.com/dkarpov/plank/internal/types"
)

// StageCmd returns the stage command group. Stages belong to one task
// item's board, so every subcommand takes --project and --item.
func StageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage a board's stages",
	}
	cmd.AddCommand(
		stageCreateCmd(),
		stageListCmd(),
		stageUpdateCmd(),
		stageDeleteCmd(),
	)
	return cmd
}

func addBoardFlags(cmd *cobra.Command) {
	cmd.Flags().String("project", "", "Project ID (required)")
	if err := cmd.MarkFlagRequired("project"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("item", "", "Task item ID (required)")
	if err := cmd.MarkFlagRequired("item"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
}

func boardFlags(cmd *cobra.Command) (types.ID, types.ID) {
	projectID, _ := cmd.Flags().GetString("project")
	itemID, _ := cmd.Flags().GetString("item")
	return types.ID(projectID), types.ID(itemID)
}

func stageCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a stage at the end of the board",
		RunE:  runStageCreate,
	}
	addBoardFlags(cmd)
	cmd.Flags().String("name", "", "Stage name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("color", "", "Stage color (hex, defaults from config)")
	addOutputFlags(cmd)
	return cmd
}

func runStageCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	name, _ := cmd.Flags().GetString("name")
	color, _ := cmd.Flags().GetString("color")

	if strings.TrimSpace(name) == "" {
		if err := formatter.Error("VALIDATION_ERROR", "stage name cannot be empty"); err != nil {
			slog.Error("failed to format error", "error", err)
		}
		os.Exit(ExitValidation)
	}
	if color == "" {
		cfg, err := config.Load()
		if err != nil {
			return fail(formatter, "CONFIG_ERROR", err)
		}
		color = cfg.Board.NewStageColor
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	// The board must exist before a stage can be added.
	if _, err := cliInstance.App.BoardService.Open(ctx, projectID, itemID); err != nil {
		return fail(formatter, "BOARD_OPEN_ERROR", err)
	}

	stage, err := cliInstance.App.BoardService.CreateStage(ctx, boardservice.CreateStageRequest{
		ProjectID: projectID,
		ItemID:    itemID,
		Name:      name,
		Color:     color,
	})
	if err != nil {
		return fail(formatter, "STAGE_CREATE_ERROR", err)
	}

	if formatter.Quiet {
		fmt.Printf("%s\n", stage.ID)
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"stage":   stage,
		})
	}

	fmt.Printf("Stage %q created at position %d (ID: %s)\n", stage.Name, stage.Order, stage.ID)
	return nil
}

func stageListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the board's stages in display order",
		RunE:  runStageList,
	}
	addBoardFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runStageList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	board, err := cliInstance.App.BoardService.Open(ctx, projectID, itemID)
	if err != nil {
		return fail(formatter, "BOARD_OPEN_ERROR", err)
	}

	stages := make([]stageListEntry, 0, len(board.Stages))
	for _, s := range board.Stages {
		stages = append(stages, stageListEntry{
			ID:    s.ID,
			Name:  s.Name,
			Color: s.Color,
			Order: s.Order,
			Cards: len(board.TasksInStage(s.ID)),
		})
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].Order < stages[j].Order })

	if formatter.Quiet {
		for _, s := range stages {
			fmt.Printf("%s\n", s.ID)
		}
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"stages":  stages,
		})
	}

	for _, s := range stages {
		fmt.Printf("%s  %d. %s (%d card(s))\n", s.ID, s.Order, s.Name, s.Cards)
	}
	return nil
}

// stageListEntry is the list view of a stage, with its card count.
type stageListEntry struct {
	ID    types.ID `json:"id"`
	Name  string   `json:"name"`
	Color string   `json:"color"`
	Order int      `json:"order"`
	Cards int      `json:"cards"`
}

func stageUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <stage-id>",
		Short: "Rename or recolor a stage",
		Args:  cobra.ExactArgs(1),
		RunE:  runStageUpdate,
	}
	addBoardFlags(cmd)
	cmd.Flags().String("name", "", "New stage name")
	cmd.Flags().String("color", "", "New stage color")
	addOutputFlags(cmd)
	return cmd
}

func runStageUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	req := boardservice.UpdateStageRequest{
		ProjectID: projectID,
		ItemID:    itemID,
		StageID:   types.ID(args[0]),
	}
	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
	}
	if cmd.Flags().Changed("color") {
		color, _ := cmd.Flags().GetString("color")
		req.Color = &color
	}
	if req.Name == nil && req.Color == nil {
		if err := formatter.Error("VALIDATION_ERROR", "nothing to update: pass --name or --color"); err != nil {
			slog.Error("failed to format error", "error", err)
		}
		os.Exit(ExitUsage)
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	if err := cliInstance.App.BoardService.UpdateStage(ctx, req); err != nil {
		return fail(formatter, "STAGE_UPDATE_ERROR", err)
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"success": true})
	}
	if !formatter.Quiet {
		fmt.Println("Stage updated")
	}
	return nil
}

func stageDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <stage-id>",
		Short: "Delete a stage and every card on it",
		Args:  cobra.ExactArgs(1),
		RunE:  runStageDelete,
	}
	addBoardFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runStageDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	if err := cliInstance.App.BoardService.DeleteStage(ctx, projectID, itemID, types.ID(args[0])); err != nil {
		return fail(formatter, "STAGE_DELETE_ERROR", err)
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"success": true})
	}
	if !formatter.Quiet {
		fmt.Println("Stage deleted")
	}
	return nil
}
