package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/marcus/ordr/internal/db"
	"github.com/marcus/ordr/internal/features"
	"github.com/marcus/ordr/internal/input"
	"github.com/marcus/ordr/internal/models"
	"github.com/marcus/ordr/internal/ordering"
	"github.com/marcus/ordr/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// itemsValue collects repeated --item ID:PRODUCT:QTY flags. A value of
// "-" or "@file" reads one item spec per line.
type itemsValue struct {
	items *[]models.OrderItem
	stdin io.Reader
}

var _ pflag.Value = (*itemsValue)(nil)

func newItemsValue(items *[]models.OrderItem) *itemsValue {
	return &itemsValue{items: items, stdin: os.Stdin}
}

func (v *itemsValue) String() string {
	if v.items == nil || len(*v.items) == 0 {
		return ""
	}
	parts := make([]string, len(*v.items))
	for i, item := range *v.items {
		parts[i] = fmt.Sprintf("%d:%d:%d", item.ID, item.ProductID, item.Quantity)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (v *itemsValue) Set(raw string) error {
	values, err := input.ExpandValue(raw, v.stdin)
	if err != nil {
		return err
	}
	for _, value := range values {
		for _, spec := range strings.Split(value, ",") {
			item, err := parseItem(spec)
			if err != nil {
				return err
			}
			*v.items = append(*v.items, item)
		}
	}
	return nil
}

func (v *itemsValue) Type() string {
	return "id:product:qty"
}

// parseItem parses "ID:PRODUCT:QTY".
func parseItem(spec string) (models.OrderItem, error) {
	fields := strings.Split(strings.TrimSpace(spec), ":")
	if len(fields) != 3 {
		return models.OrderItem{}, fmt.Errorf("invalid item %q: want ID:PRODUCT:QTY", spec)
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("invalid item id %q: %w", fields[0], err)
	}
	product, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("invalid product id %q: %w", fields[1], err)
	}
	qty, err := strconv.Atoi(fields[2])
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("invalid quantity %q: %w", fields[2], err)
	}
	return models.OrderItem{ID: id, ProductID: product, Quantity: qty}, nil
}

var orderCmd = &cobra.Command{
	Use:     "order",
	Short:   "Create and list orders",
	GroupID: "core",
}

var orderItems []models.OrderItem

var orderCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an order using the variant selected by current feature decisions",
	Example: `  ordr order create --id 1 --client 1 --item 1:1:10 --item 2:15:25
  ordr order create --id 2 --client 1 --item 1:3:1 --store sqlite --notify webhook`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() { orderItems = nil }()
		dir := getBaseDir()

		id, _ := cmd.Flags().GetInt64("id")
		client, _ := cmd.Flags().GetInt64("client")
		storeFlag, _ := cmd.Flags().GetString("store")
		notifyFlag, _ := cmd.Flags().GetString("notify")
		jsonOut, _ := cmd.Flags().GetBool("json")

		order := models.Order{ID: id, ClientID: client, Items: append([]models.OrderItem(nil), orderItems...)}

		storeName, err := resolveStoreName(dir, storeFlag)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		notifyName, err := resolveNotifyName(dir, notifyFlag)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		// Console collaborators narrate to stderr so --json keeps stdout parseable.
		narration := cmd.OutOrStdout()
		if jsonOut {
			narration = cmd.ErrOrStderr()
		}
		collab, closeFn, err := openCollaborators(dir, narration, storeName, notifyName)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer closeFn()

		svc := ordering.NewService(features.NewResolver(features.ProjectSource(dir)), collab, slog.Default())
		res, err := svc.CreateOrder(cmd.Context(), order)
		if err != nil {
			if jsonOut {
				output.JSONError(errorCode(err), err.Error())
			} else {
				output.Error("%v", err)
			}
			return err
		}

		if jsonOut {
			return output.JSON(res)
		}
		output.Success("Created order %d %s", res.Order.ID, output.FormatVariant(string(res.Variant)))
		return nil
	},
}

var orderListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List orders stored in the sqlite database",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		orders, err := database.ListOrders(cmd.Context())
		if err != nil {
			output.Error("list orders: %v", err)
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			if orders == nil {
				orders = []models.Order{}
			}
			return output.JSON(orders)
		}

		if len(orders) == 0 {
			fmt.Println("No orders")
			return nil
		}
		long, _ := cmd.Flags().GetBool("long")
		for _, o := range orders {
			if long {
				fmt.Println(output.FormatOrderLong(o))
				fmt.Println()
				continue
			}
			fmt.Println(output.FormatOrderShort(o))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
	orderCmd.AddCommand(orderCreateCmd)
	orderCmd.AddCommand(orderListCmd)

	orderCreateCmd.Flags().Int64("id", 0, "Order id (required)")
	orderCreateCmd.Flags().Int64("client", 0, "Client id (required)")
	orderCreateCmd.Flags().Var(newItemsValue(&orderItems), "item", "Line item as ID:PRODUCT:QTY (repeatable; - or @file reads one per line)")
	orderCreateCmd.Flags().String("store", "", "Order store: console or sqlite (default from config, else console)")
	orderCreateCmd.Flags().String("notify", "", "Notifier: email or webhook (default webhook when configured, else email)")
	orderCreateCmd.Flags().Bool("json", false, "Output as JSON")
	orderCreateCmd.MarkFlagRequired("id")
	orderCreateCmd.MarkFlagRequired("client")

	orderListCmd.Flags().Bool("json", false, "Output as JSON")
	orderListCmd.Flags().BoolP("long", "l", false, "Show line items")
}
