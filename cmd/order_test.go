package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/marcus/ordr/internal/config"
	"github.com/marcus/ordr/internal/db"
	"github.com/marcus/ordr/internal/features"
	"github.com/marcus/ordr/internal/models"
	"github.com/marcus/ordr/internal/ordering"
	"github.com/marcus/ordr/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// clearOrdrEnv blanks every environment override the CLI reads.
func clearOrdrEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ORDR_FEATURE_NEW_AWESOME_FEATURE",
		"ORDR_ENABLE_FEATURES",
		"ORDR_DISABLE_FEATURES",
		"ORDR_DISABLE_EXPERIMENTAL",
		"ORDR_WEBHOOK_URL",
		"ORDR_WEBHOOK_SECRET",
		"ORDR_WEBHOOK_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

// resetOrderCreateFlags restores flag defaults left behind by earlier
// rootCmd executions. --item is cleared through orderItems instead.
func resetOrderCreateFlags(t *testing.T) {
	t.Helper()
	orderCreateCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "item" {
			return
		}
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("reset --%s: %v", f.Name, err)
		}
		f.Changed = false
	})
	orderItems = nil
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		spec    string
		want    models.OrderItem
		wantErr bool
	}{
		{spec: "1:1:10", want: models.OrderItem{ID: 1, ProductID: 1, Quantity: 10}},
		{spec: " 2:15:25 ", want: models.OrderItem{ID: 2, ProductID: 15, Quantity: 25}},
		{spec: "1:1", wantErr: true},
		{spec: "a:1:1", wantErr: true},
		{spec: "1:b:1", wantErr: true},
		{spec: "1:1:c", wantErr: true},
		{spec: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseItem(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseItem(%q) = %+v, want error", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseItem(%q): %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("parseItem(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestItemsValue(t *testing.T) {
	var items []models.OrderItem
	v := newItemsValue(&items)

	if v.String() != "" {
		t.Errorf("empty String() = %q", v.String())
	}
	if err := v.Set("1:1:10"); err != nil {
		t.Fatal(err)
	}
	if err := v.Set("2:15:25,3:7:1"); err != nil {
		t.Fatal(err)
	}
	want := []models.OrderItem{
		{ID: 1, ProductID: 1, Quantity: 10},
		{ID: 2, ProductID: 15, Quantity: 25},
		{ID: 3, ProductID: 7, Quantity: 1},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("items = %+v, want %+v", items, want)
	}
	if got := v.String(); got != "[1:1:10,2:15:25,3:7:1]" {
		t.Errorf("String() = %q", got)
	}
	if err := v.Set("bad"); err == nil {
		t.Error("Set(bad) should fail")
	}
}

func TestItemsValueFromStdinAndFile(t *testing.T) {
	var items []models.OrderItem
	v := newItemsValue(&items)
	v.stdin = strings.NewReader("1:1:10\n# skipped\n2:15:25\n")
	if err := v.Set("-"); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "items.txt")
	if err := os.WriteFile(path, []byte("3:7:1,4:8:2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := v.Set("@" + path); err != nil {
		t.Fatal(err)
	}

	if len(items) != 4 || items[3] != (models.OrderItem{ID: 4, ProductID: 8, Quantity: 2}) {
		t.Errorf("items = %+v", items)
	}
}

func TestFeatureNames(t *testing.T) {
	names := featureNames()
	if len(names) == 0 || names[0] != features.NewAwesomeFeature.Name {
		t.Errorf("featureNames() = %v", names)
	}
}

func TestResolveStoreName(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveStoreName(dir, "")
	if err != nil || got != storeConsole {
		t.Fatalf("default store = %q, %v; want console", got, err)
	}

	if err := config.SetDefaultStore(dir, storeSQLite); err != nil {
		t.Fatal(err)
	}
	if got, _ := resolveStoreName(dir, ""); got != storeSQLite {
		t.Errorf("configured store = %q, want sqlite", got)
	}
	if got, _ := resolveStoreName(dir, storeConsole); got != storeConsole {
		t.Errorf("flag store = %q, want console", got)
	}
	if _, err := resolveStoreName(dir, "postgres"); err == nil {
		t.Error("unknown store should fail")
	}
}

func TestResolveNotifyName(t *testing.T) {
	clearOrdrEnv(t)
	dir := t.TempDir()

	if got, _ := resolveNotifyName(dir, ""); got != notifyEmail {
		t.Errorf("default notifier = %q, want email", got)
	}
	t.Setenv("ORDR_WEBHOOK_URL", "http://127.0.0.1:1/hook")
	if got, _ := resolveNotifyName(dir, ""); got != notifyWebhook {
		t.Errorf("notifier with webhook url = %q, want webhook", got)
	}
	if got, _ := resolveNotifyName(dir, notifyEmail); got != notifyEmail {
		t.Errorf("flag notifier = %q, want email", got)
	}
	if _, err := resolveNotifyName(dir, "sms"); err == nil {
		t.Error("unknown notifier should fail")
	}
}

func TestOpenCollaborators(t *testing.T) {
	clearOrdrEnv(t)
	dir := t.TempDir()
	var buf bytes.Buffer

	if _, _, err := openCollaborators(dir, &buf, storeSQLite, notifyEmail); err == nil {
		t.Fatal("sqlite store without init should fail")
	}
	if _, _, err := openCollaborators(dir, &buf, storeConsole, notifyWebhook); err == nil {
		t.Fatal("webhook notifier without url should fail")
	}

	database, err := db.Initialize(dir)
	if err != nil {
		t.Fatal(err)
	}
	database.Close()

	collab, closeFn, err := openCollaborators(dir, &buf, storeSQLite, notifyEmail)
	if err != nil {
		t.Fatalf("openCollaborators: %v", err)
	}
	defer closeFn()
	if _, ok := collab.Orders.(*db.DB); !ok {
		t.Errorf("Orders = %T, want *db.DB", collab.Orders)
	}
	if collab.Notifier == nil {
		t.Error("Notifier is nil")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("validate: %w", models.ErrInvalidOrder), output.ErrCodeInvalidInput},
		{fmt.Errorf("save order 1: %w", db.ErrOrderExists), output.ErrCodeConflict},
		{db.ErrOrderNotFound, output.ErrCodeNotFound},
		{fmt.Errorf("%w: %q", features.ErrUnknownFeature, "x"), output.ErrCodeUnknownFeature},
		{fmt.Errorf("notify order 1: %w: %w", ordering.ErrNotify, errors.New("503")), output.ErrCodeNotifyError},
		{errors.New("disk I/O error"), output.ErrCodeDatabaseError},
	}
	for _, tt := range tests {
		if got := errorCode(tt.err); got != tt.want {
			t.Errorf("errorCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRunDemo(t *testing.T) {
	var buf bytes.Buffer
	if err := runDemo(context.Background(), &buf, nil); err != nil {
		t.Fatalf("runDemo: %v", err)
	}
	want := `== new_awesome_feature = true ==
Saving order 1 for client 1
Saving 2 items for order 1
  item 1: product 1 x 10
  item 2: product 15 x 25
Sending email about order 1 to client 1
variant: extended

== new_awesome_feature = false ==
Saving order 1 for client 1
Saving 2 items for order 1
  item 1: product 1 x 10
  item 2: product 15 x 25
variant: base
`
	if buf.String() != want {
		t.Errorf("demo output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestBuildDecisionsReport(t *testing.T) {
	clearOrdrEnv(t)
	dir := t.TempDir()
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	report, err := buildDecisionsReport(cmd, features.ProjectSource(dir))
	if err != nil {
		t.Fatal(err)
	}
	if report.Decisions.SendEmailOnOrderCreation {
		t.Error("default decision should be false")
	}
	if len(report.Sources) != len(features.Bindings) || report.Sources[0].Source != features.SourceDefault {
		t.Errorf("sources = %+v, want one default source", report.Sources)
	}

	if err := config.SetFeatureFlag(dir, features.NewAwesomeFeature.Name, true); err != nil {
		t.Fatal(err)
	}
	report, err = buildDecisionsReport(cmd, features.ProjectSource(dir))
	if err != nil {
		t.Fatal(err)
	}
	if !report.Decisions.SendEmailOnOrderCreation || report.Sources[0].Source != features.SourceConfig {
		t.Errorf("report = %+v, want enabled from config", report)
	}

	t.Setenv("ORDR_DISABLE_EXPERIMENTAL", "1")
	report, err = buildDecisionsReport(cmd, features.ProjectSource(dir))
	if err != nil {
		t.Fatal(err)
	}
	if report.Decisions.SendEmailOnOrderCreation || report.Sources[0].Source != features.SourceEnv {
		t.Errorf("report = %+v, want disabled from env", report)
	}
}

func TestOrderCreateCommandSQLite(t *testing.T) {
	clearOrdrEnv(t)
	resetOrderCreateFlags(t)
	t.Setenv("ORDR_FEATURE_NEW_AWESOME_FEATURE", "true")
	dir := t.TempDir()

	database, err := db.Initialize(dir)
	if err != nil {
		t.Fatal(err)
	}
	database.Close()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{
		"--dir", dir,
		"order", "create",
		"--id", "1", "--client", "1",
		"--item", "1:1:10", "--item", "2:15:25",
		"--store", "sqlite", "--notify", "email",
	})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("order create: %v", err)
	}

	if got := buf.String(); got != "Sending email about order 1 to client 1\n" {
		t.Errorf("output = %q, want only the email line", got)
	}

	database, err = db.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	order, err := database.GetOrder(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if len(order.Items) != 2 || order.TotalQuantity() != 35 {
		t.Errorf("stored order = %+v", order)
	}
	if !strings.Contains(database.Path(), ".ordr") {
		t.Errorf("db path = %q", database.Path())
	}
}

func TestOrderCreateJSONKeepsStdoutParseable(t *testing.T) {
	clearOrdrEnv(t)
	resetOrderCreateFlags(t)
	dir := t.TempDir()

	var narration bytes.Buffer
	rootCmd.SetErr(&narration)
	rootCmd.SetArgs([]string{
		"--dir", dir,
		"order", "create",
		"--id", "1", "--client", "1",
		"--item", "1:1:10",
		"--json",
	})
	defer func() {
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	oldOut := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := rootCmd.Execute()

	w.Close()
	os.Stdout = oldOut

	if err != nil {
		t.Fatalf("order create --json: %v", err)
	}

	var stdout bytes.Buffer
	stdout.ReadFrom(r)

	var res ordering.Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	if res.Order.ID != 1 || res.Variant != ordering.VariantBase {
		t.Errorf("result = %+v, want order 1 with base variant", res)
	}
	if !strings.Contains(narration.String(), "Saving order 1 for client 1") {
		t.Errorf("console narration = %q, want it on stderr", narration.String())
	}
}
