// Package assets embeds the default configuration files written to ~/.sysq
// on first run.
package assets

import _ "embed"

//go:embed defaults/config.yaml
var DefaultConfig []byte

//go:embed defaults/safety.yaml
var DefaultSafetyRules []byte
