package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	boardservice "github.com/dkarpov/plank/internal/services/board"
	"github.com/dkarpov/plank/internal/types"
)

// NoteCmd returns the note command group. Notes belong to one card.
func NoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage a card's notes",
	}
	cmd.AddCommand(
		noteAddCmd(),
		noteListCmd(),
		noteUpdateCmd(),
		noteDeleteCmd(),
	)
	return cmd
}

func addCardFlags(cmd *cobra.Command) {
	addBoardFlags(cmd)
	cmd.Flags().String("card", "", "Card ID (required)")
	if err := cmd.MarkFlagRequired("card"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}
}

func cardFlag(cmd *cobra.Command) types.ID {
	cardID, _ := cmd.Flags().GetString("card")
	return types.ID(cardID)
}

func noteAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note to a card",
		Long: `Add a note to a card. A note without a title is called "Untitled".

Examples:
  plank note add --project=$P --item=$I --card=$C --title="Standup" --content="..."
`,
		RunE: runNoteAdd,
	}
	addCardFlags(cmd)
	cmd.Flags().String("title", "", "Note title")
	cmd.Flags().String("content", "", "Note content (markdown)")
	addOutputFlags(cmd)
	return cmd
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	title, _ := cmd.Flags().GetString("title")
	content, _ := cmd.Flags().GetString("content")

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	note, err := cliInstance.App.BoardService.AddNote(ctx, boardservice.AddNoteRequest{
		ProjectID: projectID,
		ItemID:    itemID,
		TaskID:    cardFlag(cmd),
		Title:     title,
		Content:   content,
	})
	if err != nil {
		return fail(formatter, "NOTE_ADD_ERROR", err)
	}

	if formatter.Quiet {
		fmt.Printf("%s\n", note.ID)
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"note":    note,
		})
	}

	fmt.Printf("Note %q added (ID: %s)\n", note.Title, note.ID)
	return nil
}

func noteListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a card's notes in order",
		RunE:  runNoteList,
	}
	addCardFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runNoteList(cmd *cobra.Command, args []string) error {
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

	task := board.FindTask(cardFlag(cmd))
	if task == nil {
		return fail(formatter, "NOTE_LIST_ERROR", boardservice.ErrTaskNotFound)
	}

	if formatter.Quiet {
		for _, note := range task.Notes {
			fmt.Printf("%s\n", note.ID)
		}
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"notes":   task.Notes,
		})
	}

	for i, note := range task.Notes {
		fmt.Printf("#%d  %s  %s\n", i+1, note.ID, note.Title)
	}
	return nil
}

func noteUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <note-id>",
		Short: "Replace a note's title and content",
		Args:  cobra.ExactArgs(1),
		RunE:  runNoteUpdate,
	}
	addCardFlags(cmd)
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("content", "", "New content (markdown)")
	addOutputFlags(cmd)
	return cmd
}

func runNoteUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	title, _ := cmd.Flags().GetString("title")
	content, _ := cmd.Flags().GetString("content")

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	err = cliInstance.App.BoardService.UpdateNote(ctx, boardservice.UpdateNoteRequest{
		ProjectID: projectID,
		ItemID:    itemID,
		TaskID:    cardFlag(cmd),
		NoteID:    types.ID(args[0]),
		Title:     title,
		Content:   content,
	})
	if err != nil {
		return fail(formatter, "NOTE_UPDATE_ERROR", err)
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"success": true})
	}
	if !formatter.Quiet {
		fmt.Println("Note updated")
	}
	return nil
}

func noteDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a note from a card",
		Args:  cobra.ExactArgs(1),
		RunE:  runNoteDelete,
	}
	addCardFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)
	projectID, itemID := boardFlags(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	err = cliInstance.App.BoardService.DeleteNote(ctx, projectID, itemID, cardFlag(cmd), types.ID(args[0]))
	if err != nil {
		return fail(formatter, "NOTE_DELETE_ERROR", err)
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"success": true})
	}
	if !formatter.Quiet {
		fmt.Println("Note deleted")
	}
	return nil
}
