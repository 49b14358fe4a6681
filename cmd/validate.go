package cmd

import (
	"fmt"

	"ceiba/feature/dataset"

	"github.com/spf13/cobra"
)

var validateSpecPath string

// validateCmd checks a spec file without touching the remote store.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a dataset spec file",
	Long: `Validate parses a dataset spec file and runs the model validation
predicates: recognized field types and modes, unique sibling names, and the
type-appropriate authoritative attribute per table. No remote calls are
made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := dataset.LoadSpecFile(validateSpecPath)
		if err != nil {
			return err
		}
		fmt.Printf("spec ok: dataset %s with %d table(s)\n", spec.ID, len(spec.Tables))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateSpecPath, "spec", "", "Path to the dataset spec file (JSON)")
	_ = validateCmd.MarkFlagRequired("spec")

	RootCmd.AddCommand(validateCmd)
}
