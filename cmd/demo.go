package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/marcus/ordr/internal/console"
	"github.com/marcus/ordr/internal/features"
	"github.com/marcus/ordr/internal/models"
	"github.com/marcus/ordr/internal/ordering"
	"github.com/marcus/ordr/internal/output"
	"github.com/spf13/cobra"
)

const demoExplanation = `# Feature decisions

Order creation never reads a toggle directly. Each operation:

1. reads one **toggle snapshot** (environment, then ` + "`.ordr/config.json`" + `, then defaults)
2. projects it into named **decisions**, e.g. ` + "`send_email_on_order_creation`" + `
3. hands the decisions to ` + "`Select`" + `, which returns the **base** or **extended** creator

The base creator saves the order and then its items. The extended creator does
the same and only then sends the creation notice, so a failed save never
produces a notification.

| toggle ` + "`new_awesome_feature`" + ` | decision | variant |
|---|---|---|
| true | send email | extended |
| false or unset | no email | base |

Try it:

` + "```" + `
ordr feature set new_awesome_feature true
ordr decisions
ordr order create --id 1 --client 1 --item 1:1:10 --item 2:15:25
` + "```" + `
`

type demoScenario struct {
	name    string
	toggles features.StaticSource
}

var demoScenarios = []demoScenario{
	{name: "new_awesome_feature = true", toggles: features.StaticSource{features.NewAwesomeFeature.Name: true}},
	{name: "new_awesome_feature = false", toggles: features.StaticSource{features.NewAwesomeFeature.Name: false}},
}

func demoOrder() models.Order {
	return models.Order{
		ID:       1,
		ClientID: 1,
		Items: []models.OrderItem{
			{ID: 1, ProductID: 1, Quantity: 10},
			{ID: 2, ProductID: 15, Quantity: 25},
		},
	}
}

// runDemo creates the sample order once per scenario with console collaborators.
func runDemo(ctx context.Context, w io.Writer, logger *slog.Logger) error {
	collab := ordering.Collaborators{
		Orders:   console.OrderStore{W: w},
		Items:    console.ItemStore{W: w},
		Notifier: console.EmailNotifier{W: w},
	}
	for i, sc := range demoScenarios {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s ==\n", sc.name)
		svc := ordering.NewService(features.NewResolver(sc.toggles), collab, logger)
		res, err := svc.CreateOrder(ctx, demoOrder())
		if err != nil {
			return fmt.Errorf("scenario %q: %w", sc.name, err)
		}
		fmt.Fprintf(w, "variant: %s\n", res.Variant)
	}
	return nil
}

var demoCmd = &cobra.Command{
	Use:     "demo",
	Short:   "Create a sample order with the feature on and off",
	GroupID: "core",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if explain, _ := cmd.Flags().GetBool("explain"); explain {
			output.Markdown(cmd.OutOrStdout(), demoExplanation)
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if err := runDemo(cmd.Context(), cmd.OutOrStdout(), slog.Default()); err != nil {
			output.Error("%v", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Bool("explain", false, "Print a walkthrough of how decisions select the variant")
}
