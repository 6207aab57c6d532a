// Package web holds the embedded browser interface.
package web

import "embed"

//go:embed static
var Static embed.FS
