package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkarpov/plank/internal/types"
)

// HistoryCmd returns the history command group. History is keyed by card,
// so no board addressing is needed.
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect a card's audit log",
	}
	cmd.AddCommand(
		historyShowCmd(),
		historyClearCmd(),
	)
	return cmd
}

func historyShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <card-id>",
		Short: "Show a card's history, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}
	addOutputFlags(cmd)
	return cmd
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	entries, err := cliInstance.App.HistoryService.GetTaskHistory(ctx, types.ID(args[0]))
	if err != nil {
		return fail(formatter, "HISTORY_SHOW_ERROR", err)
	}

	if formatter.Quiet {
		for _, entry := range entries {
			fmt.Printf("%s\n", entry.ID)
		}
		return nil
	}
	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"history": entries,
		})
	}

	if len(entries) == 0 {
		fmt.Println("No history for this card")
		return nil
	}
	for _, entry := range entries {
		fmt.Printf("%s  [%s] %s\n",
			entry.Timestamp.Format(time.RFC3339), entry.Operation, entry.Description)
	}
	return nil
}

func historyClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear <card-id>",
		Short: "Delete a card's entire history",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryClear,
	}
	addOutputFlags(cmd)
	return cmd
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	formatter := formatterFrom(cmd)

	cliInstance, err := NewCLI(ctx)
	if err != nil {
		return fail(formatter, "INITIALIZATION_ERROR", err)
	}
	defer closeCLI(cliInstance)

	if err := cliInstance.App.HistoryService.ClearTaskHistory(ctx, types.ID(args[0])); err != nil {
		return fail(formatter, "HISTORY_CLEAR_ERROR", err)
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"success": true})
	}
	if !formatter.Quiet {
		fmt.Println("History cleared")
	}
	return nil
}
