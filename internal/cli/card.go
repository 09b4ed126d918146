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
	boardservice "github.com/dkarpov/plank/internal/services/board"
	"github.com/dkarpov/plank/internal/types"
)

// CardCmd returns the card command group. Cards live on one task item's
// board, so every subcommand takes --project and --item.
func CardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage a board's cards",
	}
	cmd.AddCommand(
		cardCreateCmd(),
		cardListCmd(),
		cardShowCmd(),
		cardUpdateCmd(),
		cardMoveCmd(),
		cardTypeCmd(),
		cardDeleteCmd(),
	)
	return cmd
}

func cardCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a card on a stage",
		Long: `Create a card on a stage of the item's board.

Examples:
  plank card create --project=$P --item=$I --stage=$S --title="Fix login"
  plank card create --project=$P --item=$I --stage=$S --title="Fix login" --type=bug --type=security
`,
		RunE: runCardCreate,
	}
	addBoardFlags(cmd)
	cmd.Flags().String("stage", "", "Stage ID (required)")
	if err := cmd.MarkFlagRequired("stage"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().String("title", "", "Card title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	cmd.Flags().StringArray("type", nil, "Card type tag (repeatable)")
	addOutputFlags(cmd)
	return cmd
}

func runCardCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	stageID, _ := cmd.Flags().GetString("stage")
	title, _ := cmd.Flags().GetString("title")
	typeFlags, _ := cmd.Flags().GetStringArray("type")

	if strings.TrimSpace(title) == "" {
		if err := formatter.Error("VALIDATION_ERROR", "card title cannot be empty"); err != nil {
			slog.Error("failed to format error", "error", err)
		}
		os.Exit(ExitValidation)
	}

	cardTypes := make([]models.CardType, 0, len(typeFlags))
	for _, t := range typeFlags {
		cardTypes = append(cardTypes, models.CardType(t))
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	task, err := cliInstance.App.BoardService.CreateTask(ctx, boardservice.CreateTaskRequest{
		ProjectID: projectID,
		ItemID:    itemID,
		StageID:   types.ID(stageID),
		Title:     title,
		CardTypes: cardTypes,
	})
	if err != nil {
		return fail(formatter, "CARD_CREATE_ERROR", err)
	}

	if formatter.Quiet {
		fmt.Printf("%s\n", task.ID)
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"card":    task,
		})
	}

	fmt.Printf("Card %q created (ID: %s)\n", task.Title, task.ID)
	return nil
}

func cardListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the board's cards, grouped by stage",
		RunE:  runCardList,
	}
	addBoardFlags(cmd)
	cmd.Flags().String("stage", "", "Only cards on this stage")
	addOutputFlags(cmd)
	return cmd
}

func runCardList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)
	stageFilter, _ := cmd.Flags().GetString("stage")

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	board, err := cliInstance.App.BoardService.Open(ctx, projectID, itemID)
	if err != nil {
		return fail(formatter, "BOARD_OPEN_ERROR", err)
	}

	tasks := board.Tasks
	if stageFilter != "" {
		filtered := make([]models.Task, 0, len(tasks))
		for _, task := range tasks {
			if task.StageID == types.ID(stageFilter) {
				filtered = append(filtered, task)
			}
		}
		tasks = filtered
	}

	if formatter.Quiet {
		for _, task := range tasks {
			fmt.Printf("%s\n", task.ID)
		}
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"cards":   tasks,
		})
	}

	for _, stage := range board.Stages {
		if stageFilter != "" && stage.ID != types.ID(stageFilter) {
			continue
		}
		fmt.Printf("%s:\n", stage.Name)
		for _, task := range tasks {
			if task.StageID != stage.ID {
				continue
			}
			line := fmt.Sprintf("  %s  %s", task.ID, task.Title)
			if len(task.CardTypes) > 0 {
				tags := make([]string, len(task.CardTypes))
				for i, ct := range task.CardTypes {
					tags[i] = string(ct)
				}
				line += " [" + strings.Join(tags, ", ") + "]"
			}
			fmt.Println(line)
		}
	}
	return nil
}

func cardShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <card-id>",
		Short: "Show one card with its notes",
		Args:  cobra.ExactArgs(1),
		RunE:  runCardShow,
	}
	addBoardFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runCardShow(cmd *cobra.Command, args []string) error {
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

	task := board.FindTask(types.ID(args[0]))
	if task == nil {
		return fail(formatter, "CARD_SHOW_ERROR", boardservice.ErrTaskNotFound)
	}

	if formatter.Quiet {
		fmt.Printf("%s\n", task.ID)
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"card":    task,
		})
	}

	stageName := "unknown stage"
	if stage := board.FindStage(task.StageID); stage != nil {
		stageName = stage.Name
	}
	fmt.Printf("%s  %s (on %s)\n", task.ID, task.Title, stageName)
	if task.Description != "" {
		fmt.Printf("  %s\n", task.Description)
	}
	for i, note := range task.Notes {
		fmt.Printf("  note #%d  %s\n", i+1, note.Title)
	}
	return nil
}

func cardUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <card-id>",
		Short: "Update a card's title or description",
		Args:  cobra.ExactArgs(1),
		RunE:  runCardUpdate,
	}
	addBoardFlags(cmd)
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description (markdown)")
	addOutputFlags(cmd)
	return cmd
}

func runCardUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	req := boardservice.UpdateTaskRequest{
		ProjectID: projectID,
		ItemID:    itemID,
		TaskID:    types.ID(args[0]),
	}
	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		req.Title = &title
	}
	if cmd.Flags().Changed("description") {
		description, _ := cmd.Flags().GetString("description")
		req.Description = &description
	}
	if req.Title == nil && req.Description == nil {
		if err := formatter.Error("VALIDATION_ERROR", "nothing to update: pass --title or --description"); err != nil {
			slog.Error("failed to format error", "error", err)
		}
		os.Exit(ExitUsage)
	}

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	task, err := cliInstance.App.BoardService.UpdateTask(ctx, req)
	if err != nil {
		return fail(formatter, "CARD_UPDATE_ERROR", err)
	}

	return formatter.Success(task)
}

func cardMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <card-id>",
		Short: "Move a card to another stage",
		Args:  cobra.ExactArgs(1),
		RunE:  runCardMove,
	}
	addBoardFlags(cmd)
	cmd.Flags().String("to", "", "Destination stage ID (required)")
	if err := cmd.MarkFlagRequired("to"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
	addOutputFlags(cmd)
	return cmd
}

func runCardMove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	toStage, _ := cmd.Flags().GetString("to")
	dest := types.ID(toStage)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	task, err := cliInstance.App.BoardService.UpdateTask(ctx, boardservice.UpdateTaskRequest{
		ProjectID: projectID,
		ItemID:    itemID,
		TaskID:    types.ID(args[0]),
		StageID:   &dest,
	})
	if err != nil {
		return fail(formatter, "CARD_MOVE_ERROR", err)
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"card":    task,
		})
	}
	if !formatter.Quiet {
		fmt.Printf("Card %q moved\n", task.Title)
	}
	return nil
}

func cardTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type <card-id> <type>",
		Short: "Toggle a type tag on a card",
		Long: `Toggle a type tag on a card: adds the tag if absent, removes it if
present. Valid types: ` + cardTypeNames() + `.`,
		Args: cobra.ExactArgs(2),
		RunE: runCardType,
	}
	addBoardFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func cardTypeNames() string {
	names := make([]string, len(models.AllCardTypes))
	for i, ct := range models.AllCardTypes {
		names[i] = string(ct)
	}
	return strings.Join(names, ", ")
}

func runCardType(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	task, err := cliInstance.App.BoardService.ToggleCardType(ctx, projectID, itemID,
		types.ID(args[0]), models.CardType(args[1]))
	if err != nil {
		return fail(formatter, "CARD_TYPE_ERROR", err)
	}

	return formatter.Success(task)
}

func cardDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card and its notes",
		Args:  cobra.ExactArgs(1),
		RunE:  runCardDelete,
	}
	addBoardFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runCardDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	if err := cliInstance.App.BoardService.DeleteTask(ctx, projectID, itemID, types.ID(args[0])); err != nil {
		return fail(formatter, "CARD_DELETE_ERROR", err)
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"success": true})
	}
	if !formatter.Quiet {
		fmt.Println("Card deleted")
	}
	return nil
}
