// Sync command merges missing suggested mappings from the master
// solution capabilities CSV into a target CSV.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paramify/client-success/internal/history"
	"github.com/paramify/client-success/pkg/mapping"
)

var (
	syncMaster         string
	syncTarget         string
	syncOutput         string
	syncDryRun         bool
	syncPrimaryColumn  string
	syncFallbackColumn string
	syncMappingColumn  string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add missing suggested mappings from the master to a target CSV",
	Long: `Sync compares solution capabilities between the master file and a
target CSV and adds any control mappings the target is missing. Existing
mappings are never removed or modified, and no cell outside the mapping
column is touched.

With --dry-run the report is printed and nothing is written. Otherwise,
when at least one row changed, the updated CSV is written to --output
(default: UPDATED_<target name> next to the target) and the run is
recorded in the local history.

Example:
  cstools sync --master "Master Solution Capabilities.csv" --target export.csv
  cstools sync --master master.csv --target export.csv --dry-run
  cstools sync --master master.csv --target export.csv --primary-key-column "3.5 Title"`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncMaster, "master", "", "master solution capabilities CSV (required)")
	syncCmd.Flags().StringVar(&syncTarget, "target", "", "target CSV to update (required)")
	syncCmd.Flags().StringVar(&syncOutput, "output", "", "output path (default: UPDATED_<target name>)")
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false, "report changes without writing anything")
	syncCmd.Flags().StringVar(&syncPrimaryColumn, "primary-key-column", "", "capability column name")
	syncCmd.Flags().StringVar(&syncFallbackColumn, "fallback-key-column", "", `legacy capability column name ("-" disables the fallback)`)
	syncCmd.Flags().StringVar(&syncMappingColumn, "mapping-column", "", "suggested mappings column name")
	_ = syncCmd.MarkFlagRequired("master")
	_ = syncCmd.MarkFlagRequired("target")
}

func runSync(cmd *cobra.Command, args []string) error {
	masterText, err := os.ReadFile(syncMaster)
	if err != nil {
		return fmt.Errorf("read master: %w", err)
	}
	targetText, err := os.ReadFile(syncTarget)
	if err != nil {
		return fmt.Errorf("read target: %w", err)
	}

	cfg := syncConfig()
	log.Debug().
		Str("primary_key_column", cfg.PrimaryKeyColumn).
		Str("fallback_key_column", cfg.FallbackKeyColumn).
		Str("mapping_column", cfg.MappingColumn).
		Msg("reconciling")

	output, report, err := mapping.Sync(string(masterText), string(targetText), cfg)
	if err != nil {
		return err
	}

	outputPath := syncOutput
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(syncTarget), "UPDATED_"+filepath.Base(syncTarget))
	}

	wrote := false
	if !syncDryRun && report.RowsUpdated > 0 {
		if err := os.WriteFile(outputPath, []byte(output), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		wrote = true
	}

	recordSyncRun(report, outputPath, wrote)

	if flagJSON {
		return printJSON(syncResultJSON(report, outputPath, wrote))
	}
	printSyncReport(report, outputPath, wrote)
	return nil
}

// syncConfig applies the flag > config file > default precedence to the
// column names.
func syncConfig() mapping.Config {
	pick := func(flag, key string) string {
		if flag != "" {
			return flag
		}
		return appConfig.GetString(key)
	}
	return mapping.Config{
		PrimaryKeyColumn:  pick(syncPrimaryColumn, cfgKeyPrimaryKeyColumn),
		FallbackKeyColumn: pick(syncFallbackColumn, cfgKeyFallbackKeyColumn),
		MappingColumn:     pick(syncMappingColumn, cfgKeyMappingColumn),
	}
}

// recordSyncRun appends the run to the local history store. History
// failures are logged, not fatal: the sync output already exists.
func recordSyncRun(report *mapping.Report, outputPath string, wrote bool) {
	dataDir, err := resolveDataDir()
	if err != nil {
		log.Warn().Err(err).Msg("resolve data dir; run not recorded")
		return
	}
	store, err := history.Open(dataDir)
	if err != nil {
		log.Warn().Err(err).Msg("open history store; run not recorded")
		return
	}
	defer store.Close()

	run := history.Run{
		MasterPath:    syncMaster,
		TargetPath:    syncTarget,
		DryRun:        syncDryRun,
		RowsUpdated:   report.RowsUpdated,
		MappingsAdded: report.MappingsAdded,
		Changes:       report.Changes,
		Unresolved:    report.Unresolved,
	}
	if wrote {
		run.OutputPath = outputPath
	}

	runID, err := store.Record(run)
	if err != nil {
		log.Warn().Err(err).Msg("record run")
		return
	}
	log.Debug().Str("run_id", runID).Msg("run recorded")
}

func printSyncReport(report *mapping.Report, outputPath string, wrote bool) {
	verb := "Updated"
	if syncDryRun {
		verb = "Would update"
	}
	for _, c := range report.Changes {
		fmt.Printf("  %s %q (row %d): +%d mapping(s)\n", verb, c.Capability, c.Row, c.Added)
	}

	if report.RowsUpdated == 0 {
		fmt.Println("No updates needed - all mappings are already in sync.")
	} else {
		fmt.Println("\n--- Summary ---")
		fmt.Printf("Capabilities updated: %d\n", report.RowsUpdated)
		fmt.Printf("Total mappings added: %d\n", report.MappingsAdded)
		if wrote {
			fmt.Printf("File saved: %s\n", outputPath)
		} else if syncDryRun {
			fmt.Println("\nNo changes were made. Run without --dry-run to apply changes.")
		}
	}

	if len(report.Unresolved) > 0 {
		fmt.Printf("\n--- Not in Master (%d) ---\n", len(report.Unresolved))
		for _, name := range report.Unresolved {
			fmt.Printf("  - %s\n", name)
		}
	}
}

func syncResultJSON(report *mapping.Report, outputPath string, wrote bool) any {
	result := map[string]any{
		"dry_run":        syncDryRun,
		"rows_updated":   report.RowsUpdated,
		"mappings_added": report.MappingsAdded,
		"changes":        report.Changes,
		"unresolved":     report.Unresolved,
	}
	if wrote {
		result["output_path"] = outputPath
	}
	return result
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
