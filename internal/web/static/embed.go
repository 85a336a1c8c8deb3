package static

import "embed"

// FS holds stylesheets served under /static/
//
//go:embed css
var FS embed.FS
