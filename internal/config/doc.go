// Package config loads and validates lessonlink's TOML configuration.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/lessonlink/config.toml, then a project-local lessonlink.toml.
// Missing files fall back to defaults so the tool runs out of the box
// against a manifest in the working directory.
package config
