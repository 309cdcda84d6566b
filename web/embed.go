// Package web bundles the dashboard's HTML templates and static assets.
package web

import "embed"

// TemplatesFS holds the page templates, parsed once at server start.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the filter script served under /static/.
//
//go:embed static/*
var StaticFS embed.FS
