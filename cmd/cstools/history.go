// History commands list and show past sync runs.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paramify/client-success/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past sync runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sync runs, most recent first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the full report of one sync run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list (0 for all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}

// openHistory opens the history store in the resolved data directory.
// The caller must defer store.Close().
func openHistory() (*history.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	store, err := history.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if flagJSON {
		if runs == nil {
			runs = []history.Run{}
		}
		return printJSON(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No sync runs recorded.")
		return nil
	}
	for _, run := range runs {
		mode := ""
		if run.DryRun {
			mode = " (dry run)"
		}
		fmt.Printf("%s  %s  %s -> updated %d row(s), added %d mapping(s)%s\n",
			run.RunID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.TargetPath,
			run.RowsUpdated,
			run.MappingsAdded,
			mode,
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(args[0])
	if err != nil {
		return fmt.Errorf("show run %s: %w", args[0], err)
	}

	if flagJSON {
		return printJSON(run)
	}

	fmt.Printf("Run:      %s\n", run.RunID)
	fmt.Printf("Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Master:   %s\n", run.MasterPath)
	fmt.Printf("Target:   %s\n", run.TargetPath)
	if run.OutputPath != "" {
		fmt.Printf("Output:   %s\n", run.OutputPath)
	}
	if run.DryRun {
		fmt.Println("Mode:     dry run")
	}
	fmt.Printf("Updated:  %d row(s), %d mapping(s) added\n", run.RowsUpdated, run.MappingsAdded)

	for _, c := range run.Changes {
		fmt.Printf("  row %d  %q  +%d\n", c.Row, c.Capability, c.Added)
	}
	if len(run.Unresolved) > 0 {
		fmt.Printf("Not in master (%d):\n", len(run.Unresolved))
		for _, name := range run.Unresolved {
			fmt.Printf("  - %s\n", name)
		}
	}
	return nil
}
