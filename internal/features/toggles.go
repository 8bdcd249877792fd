package features

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/marcus/ordr/internal/config"
)

// Layer names reported by Explain.
const (
	SourceEnv     = "env"
	SourceConfig  = "config"
	SourceDefault = "default"
)

// ToggleSet maps canonical toggle names to their state.
// Sources return a fresh set on every call; callers must not mutate it.
type ToggleSet map[string]bool

// Get returns the toggle state and whether the toggle is present.
func (s ToggleSet) Get(name string) (bool, bool) {
	enabled, ok := s[normalizeName(name)]
	return enabled, ok
}

// Enabled returns the toggle state, or the registry default when absent.
func (s ToggleSet) Enabled(name string) bool {
	canonical := normalizeName(name)
	if enabled, ok := s[canonical]; ok {
		return enabled
	}
	return getDefault(canonical)
}

// Clone returns an independent copy of the set.
func (s ToggleSet) Clone() ToggleSet {
	out := make(ToggleSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ToggleSource supplies raw toggles.
type ToggleSource interface {
	Toggles(ctx context.Context) (ToggleSet, error)
}

// StaticSource is a fixed set of toggles.
type StaticSource ToggleSet

// Toggles returns a normalized copy of the static set.
func (s StaticSource) Toggles(ctx context.Context) (ToggleSet, error) {
	out := make(ToggleSet, len(s))
	for k, v := range s {
		out[normalizeName(k)] = v
	}
	return out, nil
}

// DefaultSource yields the registry default of every known feature.
type DefaultSource struct{}

// Toggles returns the compiled-in defaults.
func (DefaultSource) Toggles(ctx context.Context) (ToggleSet, error) {
	out := make(ToggleSet, len(defaultValues))
	for k, v := range defaultValues {
		out[k] = v
	}
	return out, nil
}

// ConfigSource reads feature_flags from the project config under BaseDir.
type ConfigSource struct {
	BaseDir string
}

// Toggles loads the project config. A missing config yields an empty set.
func (s ConfigSource) Toggles(ctx context.Context) (ToggleSet, error) {
	if s.BaseDir == "" {
		return ToggleSet{}, nil
	}
	cfg, err := config.Load(s.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("load feature flags: %w", err)
	}
	out := make(ToggleSet, len(cfg.FeatureFlags))
	for k, v := range cfg.FeatureFlags {
		out[normalizeName(k)] = v
	}
	return out, nil
}

// EnvSource reads per-feature overrides from the environment.
// Only registered features are reported.
//
//	ORDR_DISABLE_EXPERIMENTAL=1     forces every feature off
//	ORDR_FEATURE_<NAME>=true|false  sets one feature
//	ORDR_DISABLE_FEATURES=a,b       turns the listed features off
//	ORDR_ENABLE_FEATURES=a,b        turns the listed features on
type EnvSource struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Toggles returns the features overridden by the environment.
func (s EnvSource) Toggles(ctx context.Context) (ToggleSet, error) {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	out := make(ToggleSet)
	for _, f := range allFeatures {
		if enabled, ok := resolveEnvOverride(getenv, f.Name); ok {
			out[f.Name] = enabled
		}
	}
	return out, nil
}

// Layer is a named ToggleSource within a Layered source.
type Layer struct {
	Name   string
	Source ToggleSource
}

// Layered merges sources; earlier layers take precedence.
type Layered struct {
	layers []Layer
}

// NewLayered returns a source that consults layers in order.
func NewLayered(layers ...Layer) *Layered {
	return &Layered{layers: layers}
}

// ProjectSource resolves toggles from env, then project config, then defaults.
func ProjectSource(baseDir string) *Layered {
	return NewLayered(
		Layer{Name: SourceEnv, Source: EnvSource{}},
		Layer{Name: SourceConfig, Source: ConfigSource{BaseDir: baseDir}},
		Layer{Name: SourceDefault, Source: DefaultSource{}},
	)
}

// Toggles merges every layer into one snapshot.
func (l *Layered) Toggles(ctx context.Context) (ToggleSet, error) {
	out := make(ToggleSet)
	for i := len(l.layers) - 1; i >= 0; i-- {
		set, err := l.layers[i].Source.Toggles(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s toggles: %w", l.layers[i].Name, err)
		}
		for k, v := range set {
			out[k] = v
		}
	}
	return out, nil
}

// Explain returns the resolved state of name and the layer that supplied it.
// A toggle no layer knows resolves to false from SourceDefault.
func (l *Layered) Explain(ctx context.Context, name string) (bool, string, error) {
	canonical := normalizeName(name)
	for _, layer := range l.layers {
		set, err := layer.Source.Toggles(ctx)
		if err != nil {
			return false, "", fmt.Errorf("%s toggles: %w", layer.Name, err)
		}
		if enabled, ok := set[canonical]; ok {
			return enabled, layer.Name, nil
		}
	}
	return getDefault(canonical), SourceDefault, nil
}

func resolveEnvOverride(getenv func(string) string, name string) (bool, bool) {
	// Emergency kill-switch for all experimental features.
	if disabled, ok := parseBool(getenv("ORDR_DISABLE_EXPERIMENTAL")); ok && disabled {
		return false, true
	}

	if enabled, ok := parseBool(getenv("ORDR_FEATURE_" + normalizeForEnvKey(name))); ok {
		return enabled, true
	}

	if containsFeatureName(getenv("ORDR_DISABLE_FEATURES"), name) {
		return false, true
	}
	if containsFeatureName(getenv("ORDR_ENABLE_FEATURES"), name) {
		return true, true
	}

	return false, false
}

func normalizeForEnvKey(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range upper {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// ParseBool accepts 1/0, true/false, on/off, yes/no.
func ParseBool(value string) (bool, bool) {
	return parseBool(value)
}

func parseBool(value string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "1", "true", "on", "yes":
		return true, true
	case "0", "false", "off", "no":
		return false, true
	default:
		return false, false
	}
}

func containsFeatureName(raw, target string) bool {
	if raw == "" {
		return false
	}
	target = normalizeName(target)
	for _, item := range strings.Split(raw, ",") {
		if normalizeName(item) == target {
			return true
		}
	}
	return false
}
