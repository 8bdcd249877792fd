package cmd

import (
	"fmt"

	"github.com/marcus/ordr/internal/features"
	"github.com/marcus/ordr/internal/output"
	"github.com/spf13/cobra"
)

type decisionSource struct {
	Decision string `json:"decision"`
	Feature  string `json:"feature"`
	Value    bool   `json:"value"`
	Source   string `json:"source"`
}

type decisionsReport struct {
	Decisions features.Decisions `json:"decisions"`
	Sources   []decisionSource   `json:"sources"`
}

// buildDecisionsReport resolves decisions from source and records which layer
// supplied each backing toggle.
func buildDecisionsReport(cmd *cobra.Command, source *features.Layered) (decisionsReport, error) {
	d, err := features.NewResolver(source).Resolve(cmd.Context())
	if err != nil {
		return decisionsReport{}, err
	}
	report := decisionsReport{Decisions: d}
	for _, b := range features.Bindings {
		value, from, err := source.Explain(cmd.Context(), b.Feature.Name)
		if err != nil {
			return decisionsReport{}, err
		}
		report.Sources = append(report.Sources, decisionSource{
			Decision: b.Decision,
			Feature:  b.Feature.Name,
			Value:    value,
			Source:   from,
		})
	}
	return report, nil
}

var decisionsCmd = &cobra.Command{
	Use:     "decisions",
	Short:   "Show the feature decisions the next operation would use",
	GroupID: "features",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := buildDecisionsReport(cmd, features.ProjectSource(getBaseDir()))
		if err != nil {
			output.Error("resolve decisions: %v", err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(report)
		}
		for _, s := range report.Sources {
			fmt.Printf("%-32s %s  <- %s (%s)\n", s.Decision, output.FormatBool(s.Value), s.Feature, s.Source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decisionsCmd)
	decisionsCmd.Flags().Bool("json", false, "Output as JSON")
}
