// Package paths provides centralized path handling for clickhooks.
//
// # Environment Variables
//
//   - CLICKHOOKS_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/clickhooks)
//   - CLICKHOOKS_STATE_DIR: Override XDG state directory (default: $XDG_STATE_HOME/clickhooks)
//
// The hook engine itself never consults these: hooks, frameworks and
// database layers are passed explicitly (see pkg/config).
package paths
