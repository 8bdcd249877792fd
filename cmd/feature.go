package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/marcus/ordr/internal/config"
	"github.com/marcus/ordr/internal/features"
	"github.com/marcus/ordr/internal/output"
	"github.com/marcus/ordr/internal/suggest"
	"github.com/spf13/cobra"
)

// featureState is the JSON shape of one resolved toggle.
type featureState struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Default     bool   `json:"default"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

func explainFeature(cmd *cobra.Command, f features.Feature) (featureState, error) {
	enabled, source, err := features.ProjectSource(getBaseDir()).Explain(cmd.Context(), f.Name)
	if err != nil {
		return featureState{}, err
	}
	return featureState{
		Name:        f.Name,
		Enabled:     enabled,
		Default:     f.Default,
		Source:      source,
		Description: f.Description,
	}, nil
}

// lookupFeature resolves name against the registry, reporting unknown names.
func lookupFeature(name string, jsonOut bool) (features.Feature, error) {
	f, err := features.Lookup(name)
	if err != nil {
		if jsonOut {
			output.JSONError(output.ErrCodeUnknownFeature, err.Error())
			return features.Feature{}, err
		}
		output.Error("%v", err)
		if hints := suggest.Names(name, featureNames()); len(hints) > 0 {
			output.Info("Did you mean: %s?", strings.Join(hints, ", "))
		}
		return features.Feature{}, err
	}
	return f, nil
}

func featureNames() []string {
	all := features.ListAll()
	names := make([]string, len(all))
	for i, f := range all {
		names[i] = f.Name
	}
	return names
}

var featureCmd = &cobra.Command{
	Use:     "feature",
	Aliases: []string{"features"},
	Short:   "Inspect and change feature toggles",
	Long: `Inspect and change feature toggles.

Toggles resolve with this precedence: environment, then .ordr/config.json,
then the built-in default. Environment overrides:

  ORDR_FEATURE_<NAME>=true|false
  ORDR_ENABLE_FEATURES=name1,name2
  ORDR_DISABLE_FEATURES=name1,name2
  ORDR_DISABLE_EXPERIMENTAL=1`,
	GroupID: "features",
}

var featureListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List known feature toggles and their resolved state",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := features.ListAll()
		states := make([]featureState, 0, len(all))
		for _, f := range all {
			st, err := explainFeature(cmd, f)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			states = append(states, st)
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(states)
		}
		for i, st := range states {
			fmt.Println(output.FormatFeature(all[i], st.Enabled, st.Source))
		}
		return nil
	},
}

var featureGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show the resolved state of one feature toggle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		f, err := lookupFeature(args[0], jsonOut)
		if err != nil {
			return err
		}
		st, err := explainFeature(cmd, f)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if jsonOut {
			return output.JSON(st)
		}
		fmt.Println(output.FormatFeature(f, st.Enabled, st.Source))
		return nil
	},
}

var featureSetCmd = &cobra.Command{
	Use:   "set <name> [true|false]",
	Short: "Persist a feature toggle in .ordr/config.json",
	Long: `Persist a feature toggle in .ordr/config.json.

Without a value, asks for confirmation interactively.`,
	Example: `  ordr feature set new_awesome_feature true
  ordr feature set new_awesome_feature`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := lookupFeature(args[0], false)
		if err != nil {
			return err
		}

		var enabled bool
		if len(args) == 2 {
			v, ok := features.ParseBool(args[1])
			if !ok {
				err := fmt.Errorf("invalid value %q: use true or false", args[1])
				output.Error("%v", err)
				return err
			}
			enabled = v
		} else {
			enabled, err = confirmFeature(f)
			if err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					output.Warning("aborted")
					return nil
				}
				output.Error("%v", err)
				return err
			}
		}

		if err := config.SetFeatureFlag(getBaseDir(), f.Name, enabled); err != nil {
			output.Error("failed to save feature: %v", err)
			return err
		}
		output.Success("%s = %s", f.Name, output.FormatBool(enabled))
		return nil
	},
}

// confirmFeature prompts for the value of f, starting from its current state.
func confirmFeature(f features.Feature) (bool, error) {
	current, _, err := config.GetFeatureFlag(getBaseDir(), f.Name)
	if err != nil {
		return false, err
	}
	value := current
	err = huh.NewConfirm().
		Title(fmt.Sprintf("Enable %s?", f.Name)).
		Description(f.Description).
		Affirmative("Enable").
		Negative("Disable").
		Value(&value).
		Run()
	return value, err
}

var featureUnsetCmd = &cobra.Command{
	Use:   "unset <name>",
	Short: "Remove a feature toggle from .ordr/config.json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := lookupFeature(args[0], false)
		if err != nil {
			return err
		}
		if err := config.UnsetFeatureFlag(getBaseDir(), f.Name); err != nil {
			output.Error("failed to update config: %v", err)
			return err
		}
		output.Success("%s unset (default %s)", f.Name, output.FormatBool(f.Default))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(featureCmd)
	featureCmd.AddCommand(featureListCmd)
	featureCmd.AddCommand(featureGetCmd)
	featureCmd.AddCommand(featureSetCmd)
	featureCmd.AddCommand(featureUnsetCmd)

	featureListCmd.Flags().Bool("json", false, "Output as JSON")
	featureGetCmd.Flags().Bool("json", false, "Output as JSON")
}
