// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/craftgraph/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the quality of the exported items and transformations",
	Long: `Validate reads items.csv, transformations.csv and transformations.json
from the output directory and reports duplicate or empty item names,
malformed URLs, rows that break the transformation schema, items missing
from the item table and content that looks like another edition's.

The command fails when any error-severity issue is found; warnings are
reported only.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("output-dir", "output", "directory holding the exported files")
	validateCmd.Flags().Bool("json", false, "print the report as JSON")
	bindFlag(validateCmd.Flags(), "validate.output_dir", "output-dir")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	rep, err := validate.Run(viper.GetString("validate.output_dir"), logger)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		validate.WriteReport(cmd.OutOrStdout(), rep)
	}

	if rep.HasErrors() {
		return fmt.Errorf("validation found %d error(s)", rep.Count(validate.SeverityError))
	}
	return nil
}
