package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/marcus/ordr/internal/config"
	"github.com/marcus/ordr/internal/console"
	"github.com/marcus/ordr/internal/db"
	"github.com/marcus/ordr/internal/ordering"
	"github.com/marcus/ordr/internal/webhook"
)

const (
	storeConsole = "console"
	storeSQLite  = "sqlite"

	notifyEmail   = "email"
	notifyWebhook = "webhook"
)

// resolveStoreName picks the store: flag, then config default_store, then console.
func resolveStoreName(dir, flagValue string) (string, error) {
	name := flagValue
	if name == "" {
		cfg, err := config.Load(dir)
		if err != nil {
			return "", err
		}
		name = cfg.DefaultStore
	}
	switch name {
	case "":
		return storeConsole, nil
	case storeConsole, storeSQLite:
		return name, nil
	default:
		return "", fmt.Errorf("unknown store %q (use %s or %s)", name, storeConsole, storeSQLite)
	}
}

// resolveNotifyName picks the notifier: flag, then webhook when configured, then email.
func resolveNotifyName(dir, flagValue string) (string, error) {
	switch flagValue {
	case "":
		if webhook.IsEnabled(dir) {
			return notifyWebhook, nil
		}
		return notifyEmail, nil
	case notifyEmail, notifyWebhook:
		return flagValue, nil
	default:
		return "", fmt.Errorf("unknown notifier %q (use %s or %s)", flagValue, notifyEmail, notifyWebhook)
	}
}

// openCollaborators builds the collaborators for one command run.
// The returned close function releases the database when one was opened.
func openCollaborators(dir string, w io.Writer, storeName, notifyName string) (ordering.Collaborators, func() error, error) {
	noop := func() error { return nil }
	var collab ordering.Collaborators
	closeFn := noop

	switch storeName {
	case storeSQLite:
		database, err := db.Open(dir)
		if err != nil {
			return collab, noop, err
		}
		collab.Orders = database
		collab.Items = database
		closeFn = database.Close
	default:
		collab.Orders = console.OrderStore{W: w}
		collab.Items = console.ItemStore{W: w}
	}

	switch notifyName {
	case notifyWebhook:
		n := webhook.FromProject(dir)
		if n == nil {
			closeFn()
			return collab, noop, fmt.Errorf("webhook notifier requested but no webhook url is configured (set ORDR_WEBHOOK_URL)")
		}
		collab.Notifier = n
	default:
		collab.Notifier = console.EmailNotifier{W: w}
	}

	slog.Debug("collaborators: opened", "store", storeName, "notify", notifyName)
	return collab, closeFn, nil
}
