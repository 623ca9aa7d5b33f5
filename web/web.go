// Package web holds the analysis page template and its static assets.
package web

import "embed"

//go:embed templates/*.html static/*
var FS embed.FS

const IndexTemplate = "templates/index.html"
