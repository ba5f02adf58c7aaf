// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package themeselect

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/olegiv/themepicker/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var fieldTemplate = template.Must(template.ParseFS(templatesFS, "templates/field.html"))

// Field errors.
var (
	ErrReadOnly      = errors.New("theme field is read-only")
	ErrUnknownOption = errors.New("unknown theme option")
)

// Schema is the static field configuration supplied by the form.
type Schema struct {
	Name        string
	Title       string
	Placeholder string
}

// Binding gives the field access to the value it edits.
// SetValue receives nil to clear the value; userChange marks writes
// caused by user interaction.
type Binding interface {
	Value() *string
	SetValue(v *string, userChange bool) error
}

// Config holds the collaborators of a Field.
type Config struct {
	Schema    Schema
	ReadOnly  bool
	Source    Source
	Translate Translator
	Binding   Binding
	Logger    *slog.Logger
}

// Field is a theme picker bound to a single form value.
type Field struct {
	schema   Schema
	readOnly bool
	source   Source
	binding  Binding
	logger   *slog.Logger
	builtins []model.ThemeOption

	mountOnce sync.Once
	done      chan struct{}

	mu      sync.RWMutex
	options []model.ThemeOption
}

// New creates a field. Built-in titles are translated once here.
func New(cfg Config) *Field {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	builtins := BuiltinOptions(cfg.Translate)
	return &Field{
		schema:   cfg.Schema,
		readOnly: cfg.ReadOnly,
		source:   cfg.Source,
		binding:  cfg.Binding,
		logger:   logger,
		builtins: builtins,
		done:     make(chan struct{}),
		options:  Merge(nil, builtins),
	}
}

// Mount starts the one-time fetch of user themes. Later calls are no-ops.
// Until the fetch finishes the field offers the built-ins only.
func (f *Field) Mount(ctx context.Context) {
	f.mountOnce.Do(func() {
		go f.load(ctx)
	})
}

// Load mounts the field and waits for the fetch to finish.
func (f *Field) Load(ctx context.Context) error {
	f.Mount(ctx)
	return f.Wait(ctx)
}

// Wait blocks until the fetch started by Mount has finished.
func (f *Field) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loading reports whether the fetch is still in progress or not started.
func (f *Field) Loading() bool {
	select {
	case <-f.done:
		return false
	default:
		return true
	}
}

func (f *Field) load(ctx context.Context) {
	defer close(f.done)

	fetched := f.fetch(ctx)

	f.mu.Lock()
	f.options = Merge(fetched, f.builtins)
	f.mu.Unlock()
}

// fetch never fails: an unavailable list degrades to no user themes.
func (f *Field) fetch(ctx context.Context) []model.ThemeOption {
	if f.source == nil {
		return nil
	}
	themes, err := f.source.Themes(ctx)
	if err != nil {
		f.logger.Debug("theme list unavailable, using built-in themes",
			"field", f.schema.Name, "error", err)
		return nil
	}
	return themes
}

// Options returns a copy of the merged option list.
func (f *Field) Options() []model.ThemeOption {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.ThemeOption, len(f.options))
	copy(out, f.options)
	return out
}

// ReadOnly reports whether the field renders as a label.
func (f *Field) ReadOnly() bool {
	return f.readOnly
}

func (f *Field) value() *string {
	if f.binding == nil {
		return nil
	}
	return f.binding.Value()
}

// Text returns the title of the option matching the bound value, or "".
func (f *Field) Text() string {
	text, _ := Resolve(f.Options(), f.value())
	return text
}

// Selected returns the option matching the bound value, or nil.
func (f *Field) Selected() *model.ThemeOption {
	_, selected := Resolve(f.Options(), f.value())
	return selected
}

// Select handles a user choice. key is the submitted option key as produced
// by OptionKey; nil or empty clears the value.
func (f *Field) Select(key *string) error {
	if f.readOnly {
		return ErrReadOnly
	}
	if f.binding == nil {
		return fmt.Errorf("theme field %q has no binding", f.schema.Name)
	}

	if key == nil || *key == "" {
		return f.binding.SetValue(nil, true)
	}

	for _, o := range f.Options() {
		if OptionKey(o) == *key {
			return f.binding.SetValue(WriteBackValue(&o), true)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownOption, *key)
}

type optionView struct {
	Key      string
	Title    string
	Selected bool
}

type fieldView struct {
	Name         string
	Title        string
	Placeholder  string
	ReadOnly     bool
	Text         string
	HasSelection bool
	Options      []optionView
}

// Render writes the field markup: a read-only input holding the resolved
// title, or a select listing every option.
func (f *Field) Render(w io.Writer) error {
	options := f.Options()
	value := f.value()
	text, selected := Resolve(options, value)

	view := fieldView{
		Name:         f.schema.Name,
		Title:        f.schema.Title,
		Placeholder:  f.schema.Placeholder,
		ReadOnly:     f.readOnly,
		Text:         text,
		HasSelection: selected != nil,
	}
	if !f.readOnly {
		selectedIdx := -1
		if selected != nil {
			selectedIdx = Index(options, deref(value))
		}
		view.Options = make([]optionView, 0, len(options))
		for i, o := range options {
			view.Options = append(view.Options, optionView{
				Key:      OptionKey(o),
				Title:    o.Title,
				Selected: i == selectedIdx,
			})
		}
	}

	if err := fieldTemplate.ExecuteTemplate(w, "field", view); err != nil {
		return fmt.Errorf("rendering theme field: %w", err)
	}
	return nil
}

// HTML renders the field for embedding in a page template.
func (f *Field) HTML() (template.HTML, error) {
	var sb strings.Builder
	if err := f.Render(&sb); err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil
}
