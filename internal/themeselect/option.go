// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package themeselect implements the theme picker form field: it fetches
// user-defined themes, merges them with the built-in light/dark/auto entries,
// resolves the bound value and renders either a read-only label or a select.
package themeselect

import (
	"github.com/olegiv/themepicker/internal/model"
)

// Translator looks up a display label by message key.
type Translator func(key string) string

// Message keys for the built-in theme titles.
const (
	MsgLight = "Light"
	MsgDark  = "Dark"
	MsgAuto  = "Auto"
)

// BuiltinOptions returns light, dark and auto with translated titles.
// A nil translator leaves the message keys as titles.
func BuiltinOptions(tr Translator) []model.ThemeOption {
	if tr == nil {
		tr = func(key string) string { return key }
	}
	return []model.ThemeOption{
		{Name: model.ThemeLight, Title: tr(MsgLight)},
		{Name: model.ThemeDark, Title: tr(MsgDark)},
		{Name: model.ThemeAuto, Title: tr(MsgAuto)},
	}
}

// Merge returns the fetched options followed by the built-ins.
// Neither input is modified.
func Merge(fetched, builtins []model.ThemeOption) []model.ThemeOption {
	merged := make([]model.ThemeOption, 0, len(fetched)+len(builtins))
	merged = append(merged, fetched...)
	merged = append(merged, builtins...)
	return merged
}

// OptionKey identifies an option: its id if present, else its name.
func OptionKey(o model.ThemeOption) string {
	if o.HasID() {
		return o.ID
	}
	return o.Name
}

// OptionEqual reports whether a and b are the same theme. Two options are
// the same if their ids match or their names match.
func OptionEqual(a, b model.ThemeOption) bool {
	if a.HasID() && a.ID == b.ID {
		return true
	}
	return a.Name == b.Name
}

// matches reports whether o is addressed by the raw field value.
func matches(o model.ThemeOption, value string) bool {
	return (o.HasID() && o.ID == value) || o.Name == value
}

// Index returns the position of the first option whose id or name equals
// value, or -1.
func Index(options []model.ThemeOption, value string) int {
	for i, o := range options {
		if matches(o, value) {
			return i
		}
	}
	return -1
}

// Find returns the first option whose id or name equals value.
func Find(options []model.ThemeOption, value string) (model.ThemeOption, bool) {
	if i := Index(options, value); i >= 0 {
		return options[i], true
	}
	return model.ThemeOption{}, false
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// Resolve maps the bound value to the display title and the selected option.
// A nil value resolves like the empty string. No match gives "" and nil.
func Resolve(options []model.ThemeOption, value *string) (string, *model.ThemeOption) {
	o, ok := Find(options, deref(value))
	if !ok {
		return "", nil
	}
	return o.Title, &o
}

// WriteBackValue is the value stored in the field when o is chosen:
// the id if present, else the name, else nil.
func WriteBackValue(o *model.ThemeOption) *string {
	if o == nil {
		return nil
	}
	switch {
	case o.HasID():
		v := o.ID
		return &v
	case o.Name != "":
		v := o.Name
		return &v
	default:
		return nil
	}
}
