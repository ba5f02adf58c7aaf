// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/themepicker/internal/model"
	"github.com/olegiv/themepicker/internal/testutil"
)

func testCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "themes")
	return NewCatalog(dir, testutil.DiscardLogger()), dir
}

func TestCatalogMissingDirectory(t *testing.T) {
	c, _ := testCatalog(t)

	require.NoError(t, c.Load())
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Options("en"))
}

func TestCatalogLoad(t *testing.T) {
	c, dir := testCatalog(t)

	testutil.WriteFile(t, dir, "ocean/theme.json", `{"title":"Ocean","version":"1.0"}`)
	testutil.WriteFile(t, dir, "forest/theme.yaml", "title: Forest\nauthor: someone\n")
	testutil.WriteFile(t, dir, "custom-dir/theme.yml", "name: sunset\ntitle: Sunset\n")
	testutil.WriteFile(t, dir, "no-manifest/style.css", "body{}")

	require.NoError(t, c.Load())
	assert.Equal(t, 3, c.Len())

	opts := c.Options("en")
	assert.Equal(t, []model.ThemeOption{
		{Name: "forest", Title: "Forest"},
		{Name: "ocean", Title: "Ocean"},
		{Name: "sunset", Title: "Sunset"},
	}, opts)

	th, ok := c.Get("forest")
	require.True(t, ok)
	assert.Equal(t, "someone", th.Manifest.Author)
}

func TestCatalogSkipsInvalidThemes(t *testing.T) {
	c, dir := testCatalog(t)

	testutil.WriteFile(t, dir, "broken/theme.json", `{"title":`)
	testutil.WriteFile(t, dir, "dark/theme.json", `{"title":"Shadow"}`)
	testutil.WriteFile(t, dir, "Bad Name/theme.json", `{"title":"Bad"}`)
	testutil.WriteFile(t, dir, "a/theme.json", `{"name":"twin","title":"A"}`)
	testutil.WriteFile(t, dir, "b/theme.json", `{"name":"twin","title":"B"}`)

	require.NoError(t, c.Load())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("dark")
	assert.False(t, ok)
	_, ok = c.Get("twin")
	assert.True(t, ok)
}

func TestCatalogLocalizedTitles(t *testing.T) {
	c, dir := testCatalog(t)

	testutil.WriteFile(t, dir, "ocean/theme.yaml", `title: Ocean
translations:
  ru:
    title: Океан
`)
	testutil.WriteFile(t, dir, "plain/theme.json", `{}`)

	require.NoError(t, c.Load())

	assert.Equal(t, []model.ThemeOption{
		{Name: "ocean", Title: "Ocean"},
		{Name: "plain", Title: "plain"},
	}, c.Options("en"))

	ru := c.Options("ru")
	require.Len(t, ru, 2)
	assert.Equal(t, "Океан", ru[1].Title)
}

func TestCatalogReloadHook(t *testing.T) {
	c, dir := testCatalog(t)

	var calls atomic.Int32
	c.OnReload(func() { calls.Add(1) })

	require.NoError(t, c.Load())
	assert.Equal(t, int32(1), calls.Load())

	testutil.WriteFile(t, dir, "ocean/theme.json", `{"title":"Ocean"}`)
	require.NoError(t, c.Load())
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 1, c.Len())
}
