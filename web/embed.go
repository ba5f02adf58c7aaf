// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templates embed.FS

//go:embed all:static/dist
var static embed.FS

// Templates returns the template tree rooted at templates/.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static returns the static asset tree rooted at static/dist/.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static/dist")
	if err != nil {
		panic(err)
	}
	return sub
}
