package templates

import "embed"

// FS holds the page layouts, pages and partials
//
//go:embed layouts/*.html pages/*.html partials/*.html
var FS embed.FS
