package features

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownFeature is returned when a toggle name is not in the registry.
var ErrUnknownFeature = errors.New("unknown feature")

// Feature describes a named feature flag.
type Feature struct {
	Name        string
	Default     bool
	Description string
}

var (
	// NewAwesomeFeature gates the creation notice sent after an order is stored.
	NewAwesomeFeature = Feature{
		Name:        "new_awesome_feature",
		Default:     false,
		Description: "Send a notification to the client when an order is created",
	}
)

var allFeatures = []Feature{
	NewAwesomeFeature,
}

var defaultValues = buildDefaultMap()

func buildDefaultMap() map[string]bool {
	values := make(map[string]bool, len(allFeatures))
	for _, feature := range allFeatures {
		values[feature.Name] = feature.Default
	}
	return values
}

// ListAll returns all known features sorted by name.
func ListAll() []Feature {
	items := make([]Feature, len(allFeatures))
	copy(items, allFeatures)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items
}

// IsKnownFeature returns true when the feature exists in the registry.
func IsKnownFeature(name string) bool {
	_, ok := defaultValues[normalizeName(name)]
	return ok
}

// Lookup returns the registered feature with the given name.
func Lookup(name string) (Feature, error) {
	canonical := normalizeName(name)
	for _, f := range allFeatures {
		if f.Name == canonical {
			return f, nil
		}
	}
	return Feature{}, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
}

// NormalizeName returns the canonical form of a toggle name.
func NormalizeName(name string) string {
	return normalizeName(name)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func getDefault(name string) bool {
	if enabled, ok := defaultValues[name]; ok {
		return enabled
	}
	return false
}
