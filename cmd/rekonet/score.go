package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rekonet-workers/internal/common/validation"
	"rekonet-workers/internal/locale"
	"rekonet-workers/internal/readiness"
	"rekonet-workers/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a readiness result from an answers file",
	Long:  "Reads answers and optional external signals from a JSON file and prints the full readiness result, role suggestions included.",
	RunE:  runScore,
}

var (
	scoreInput    string
	scoreCatalog  string
	scoreLanguage string
	scoreLocales  string
	scoreOutput   string
)

// scoreFile is the JSON accepted by the score command.
type scoreFile struct {
	Language string                    `json:"language"`
	Answers  []readiness.Answer        `json:"answers"`
	Signals  readiness.ExternalSignals `json:"signals"`
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreInput, "input", "i", "", "Path to answers JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreCatalog, "catalog", "c", "configs/role-catalog.yaml", "Path to role catalog YAML")
	scoreCmd.Flags().StringVarP(&scoreLanguage, "lang", "l", "", "Result language, overrides the file")
	scoreCmd.Flags().StringVar(&scoreLocales, "locales", "", "Directory of locale YAML overrides")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Output file, stdout when empty")

	if err := scoreCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	content, err := os.ReadFile(scoreInput)
	if err != nil {
		return fmt.Errorf("failed to read answers file %s: %w", scoreInput, err)
	}
	var in scoreFile
	if err := json.Unmarshal(content, &in); err != nil {
		return fmt.Errorf("failed to unmarshal answers JSON: %w", err)
	}

	messages := locale.MustNew()
	if scoreLocales != "" {
		if err := messages.LoadDir(scoreLocales); err != nil {
			return err
		}
	}
	engine, err := readiness.New(readiness.DefaultSettings(), messages)
	if err != nil {
		return err
	}

	var roles []readiness.RoleProfile
	if scoreCatalog != "" {
		catalog, err := store.LoadCatalogFile(scoreCatalog)
		if err != nil {
			return err
		}
		roles = catalog.Roles
	}

	lang := in.Language
	if scoreLanguage != "" {
		lang = scoreLanguage
	}
	if lang != "" && !messages.Supported(lang) {
		return fmt.Errorf("unsupported language %q (have %v)", lang, messages.Languages())
	}

	result := engine.ComputeResult(in.Answers, roles, in.Signals, locale.Canonical(lang))
	if err := validation.Validate(validation.SchemaReadinessResult, result); err != nil {
		return fmt.Errorf("result failed schema check: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), scoreOutput, result)
}
