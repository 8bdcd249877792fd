// Package output provides styled terminal output helpers (success, error,
// warning, order and feature formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/ordr/internal/features"
	"github.com/marcus/ordr/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	variantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	onStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound       = "not_found"
	ErrCodeInvalidInput   = "invalid_input"
	ErrCodeConflict       = "conflict"
	ErrCodeUnknownFeature = "unknown_feature"
	ErrCodeDatabaseError  = "database_error"
	ErrCodeNotifyError    = "notify_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
	fmt.Println(string(data))
}

// FormatBool renders a toggle state as a colored on/off word.
func FormatBool(enabled bool) string {
	if enabled {
		return onStyle.Render("on")
	}
	return offStyle.Render("off")
}

// maxDescriptionWidth caps feature descriptions in list output, in terminal cells.
const maxDescriptionWidth = 72

// FormatFeature formats one feature with its resolved state and source.
// e.g., "new_awesome_feature  on  (config)  Send a notification..."
func FormatFeature(f features.Feature, enabled bool, source string) string {
	parts := []string{
		titleStyle.Render(f.Name),
		FormatBool(enabled),
		subtleStyle.Render("(" + source + ")"),
	}
	if f.Description != "" {
		parts = append(parts, ansi.Truncate(f.Description, maxDescriptionWidth, "…"))
	}
	return strings.Join(parts, "  ")
}

// FormatVariant formats an order-creation variant name.
func FormatVariant(v string) string {
	return variantStyle.Render("[" + v + "]")
}

// FormatOrderShort formats an order on one line.
// e.g., "order 1  client 1  2 items  qty 35"
func FormatOrderShort(order models.Order) string {
	var parts []string
	parts = append(parts, titleStyle.Render(fmt.Sprintf("order %d", order.ID)))
	parts = append(parts, fmt.Sprintf("client %d", order.ClientID))
	parts = append(parts, subtleStyle.Render(pluralItems(len(order.Items))))
	parts = append(parts, fmt.Sprintf("qty %d", order.TotalQuantity()))
	return strings.Join(parts, "  ")
}

// FormatOrderLong formats an order header followed by one line per item.
func FormatOrderLong(order models.Order) string {
	var sb strings.Builder
	sb.WriteString(FormatOrderShort(order))
	if len(order.Items) == 0 {
		return sb.String()
	}
	sb.WriteString(SectionHeader("items"))
	lines := make([]string, len(order.Items))
	for i, item := range order.Items {
		lines[i] = fmt.Sprintf("#%d product %d x %d", item.ID, item.ProductID, item.Quantity)
	}
	sb.WriteString(strings.Join(BulletList(lines, 2), "\n"))
	return sb.String()
}

func pluralItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nITEMS:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// BulletList formats items as a bulleted list with optional indentation
func BulletList(items []string, indent int) []string {
	prefix := strings.Repeat(" ", indent)
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = prefix + "- " + item
	}
	return result
}
