// Package presets provides named run configurations embedded at build time.
package presets

import "embed"

// dataFS embeds the preset definitions.
//
//go:embed *.yaml
var dataFS embed.FS
