// Package features resolves raw feature toggles into typed decisions.
//
// Toggles come from a ToggleSource (environment, project config, or
// registry defaults, layered in that order of precedence). A Resolver
// projects one snapshot of those toggles into a Decisions value that
// business code consumes instead of raw toggle names.
package features
