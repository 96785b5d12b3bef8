// Package config loads clockctl settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// CLOCKSTATE_* environment variables. The merged result is checked against
// the embedded CUE schema before it is returned.
package config
