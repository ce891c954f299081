// Evidence commands prepare evidence files for bulk import: validation,
// duplicate planning against a snapshot, format conversion, and
// connection settings inspection.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paramify/client-success/pkg/evidence"
)

var (
	evidencePlanExisting string
	evidenceEnvFile      string
)

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Work with evidence request files",
}

var evidenceValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that every record in an evidence file can be imported",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvidenceValidate,
}

var evidencePlanCmd = &cobra.Command{
	Use:   "plan <file>",
	Short: "Plan a bulk import against an exported evidence snapshot",
	Long: `Plan reads an evidence file and partitions its records into those a
bulk import would create and those it would skip as duplicates of the
snapshot (matched by reference ID, then case-insensitive name). Nothing
is sent anywhere; the snapshot is a prior export (CSV or JSON).

Example:
  cstools evidence plan new_evidence.csv --existing evidence_export.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEvidencePlan,
}

var evidenceConvertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert an evidence file between CSV and JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  runEvidenceConvert,
}

var evidenceConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the Paramify connection settings from the .env file",
	RunE:  runEvidenceConfig,
}

func init() {
	evidencePlanCmd.Flags().StringVar(&evidencePlanExisting, "existing", "", "exported evidence snapshot to check duplicates against (required)")
	_ = evidencePlanCmd.MarkFlagRequired("existing")

	evidenceConfigCmd.Flags().StringVar(&evidenceEnvFile, "env-file", "", ".env file path (default: from config)")

	evidenceCmd.AddCommand(evidenceValidateCmd)
	evidenceCmd.AddCommand(evidencePlanCmd)
	evidenceCmd.AddCommand(evidenceConvertCmd)
	evidenceCmd.AddCommand(evidenceConfigCmd)
}

func runEvidenceValidate(cmd *cobra.Command, args []string) error {
	records, err := evidence.ReadFile(args[0])
	if err != nil {
		return err
	}

	var failed []evidence.FailedItem
	for i, rec := range records {
		if _, err := rec.Build(); err != nil {
			failed = append(failed, evidence.FailedItem{
				Name:  fmt.Sprintf("record %d", i+1),
				Error: err.Error(),
			})
		}
	}

	if flagJSON {
		return printJSON(map[string]any{
			"total":   len(records),
			"valid":   len(records) - len(failed),
			"invalid": failed,
		})
	}

	fmt.Printf("Read %d record(s) from %s\n", len(records), args[0])
	if len(failed) == 0 {
		fmt.Println("All records are valid.")
		return nil
	}
	for _, f := range failed {
		fmt.Printf("  %s: %s\n", f.Name, f.Error)
	}
	return fmt.Errorf("%d of %d record(s) failed validation", len(failed), len(records))
}

func runEvidencePlan(cmd *cobra.Command, args []string) error {
	records, err := evidence.ReadFile(args[0])
	if err != nil {
		return err
	}
	existing, err := evidence.ReadSnapshot(evidencePlanExisting)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	log.Debug().Int("records", len(records)).Int("existing", len(existing)).Msg("planning import")

	plan := evidence.Plan(records, existing)

	if flagJSON {
		return printJSON(plan)
	}

	fmt.Printf("Planned import of %d record(s):\n", plan.Total)
	fmt.Printf("  create: %d\n", len(plan.Create))
	fmt.Printf("  skip:   %d\n", len(plan.Skipped))
	fmt.Printf("  failed: %d\n", len(plan.Failed))
	for _, e := range plan.Create {
		fmt.Printf("  + %s\n", e.Name)
	}
	for _, s := range plan.Skipped {
		if s.ExistingID != "" {
			fmt.Printf("  ~ %s (%s, existing id %s)\n", s.Name, s.Reason, s.ExistingID)
		} else {
			fmt.Printf("  ~ %s (%s)\n", s.Name, s.Reason)
		}
	}
	for _, f := range plan.Failed {
		fmt.Printf("  x %s: %s\n", f.Name, f.Error)
	}
	return nil
}

func runEvidenceConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	list, err := evidence.ReadSnapshot(in)
	if err != nil {
		return err
	}

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".csv":
		data = []byte(evidence.ExportCSV(list))
	case ".json":
		data, err = evidence.ExportJSON(list)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format %q (supported: .csv, .json)", ext)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("Exported %d record(s) to %s\n", len(list), out)
	return nil
}

func runEvidenceConfig(cmd *cobra.Command, args []string) error {
	envFile := evidenceEnvFile
	if envFile == "" {
		envFile = appConfig.GetString(cfgKeyEnvFile)
	}

	cfg, err := evidence.LoadEnv(envFile)
	if err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	if flagJSON {
		return printJSON(map[string]any{
			"api_url":   cfg.APIURL,
			"api_key":   maskKey(cfg.APIKey),
			"workspace": cfg.Workspace,
			"valid":     cfg.Validate() == nil,
		})
	}

	fmt.Printf("API URL:   %s\n", orUnset(cfg.APIURL))
	fmt.Printf("API key:   %s\n", orUnset(maskKey(cfg.APIKey)))
	fmt.Printf("Workspace: %s\n", orUnset(cfg.Workspace))
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Println("Configuration is valid.")
	return nil
}

// maskKey hides all but the last four characters of a credential.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
