// Package config handles configuration management for clickhooks.
// It layers the embedded defaults, the system and user TOML files, an
// explicit --config file and CLICKHOOKS_* environment variables with
// koanf, then decodes the result into a Config.
package config
