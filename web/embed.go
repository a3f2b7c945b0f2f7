// Package web holds the console's templates and static assets. In release mode
// they are compiled into the binary; in debug mode the same directory is read
// from disk so template edits show up without a rebuild.
package web

import "embed"

//go:embed templates static
var EmbeddedFS embed.FS
