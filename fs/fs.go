// Package fs exposes the embedded static assets: database migrations,
// email templates and the common-passwords list.
package fs

import "embed"

//go:embed assets migrations
var FS embed.FS
