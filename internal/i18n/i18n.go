// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides translations for the field labels and the built-in
// theme titles, and matches request languages against the supported set.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

var catalog *Catalog

// SupportedLanguages lists the UI languages we ship catalogs for.
var SupportedLanguages = []string{"en", "ru"}

// Init loads the embedded catalogs. It may be called again to reset state.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  "en",
		logger:       logger,
	}

	c.supported = make([]language.Tag, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		c.supported = append(c.supported, language.MustParse(lang))
	}
	c.matcher = language.NewMatcher(c.supported)

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(lang); err != nil {
			return fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	messages := make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		messages[msg.ID] = msg.Translation
	}

	c.mu.Lock()
	c.translations[lang] = messages
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(messages))
	}
	return nil
}

// lookup finds key in lang, then in the default language.
func (c *Catalog) lookup(lang, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if msg, ok := c.translations[lang][key]; ok {
		return msg, true
	}
	if msg, ok := c.translations[c.defaultLang][key]; ok {
		if lang != c.defaultLang && c.logger != nil {
			c.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
		return msg, true
	}
	return "", false
}

// T translates key into lang. Unknown keys are returned unchanged.
// Optional args are applied with fmt.Sprintf.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}
	msg, ok := catalog.lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Translator returns a single-argument lookup bound to lang, suitable for
// components that only know message keys.
func Translator(lang string) func(key string) string {
	return func(key string) string {
		return T(lang, key)
	}
}

// DefaultLanguage returns the fallback language code.
func DefaultLanguage() string {
	if catalog == nil {
		return "en"
	}
	return catalog.defaultLang
}

// MatchLanguage finds the best supported language for an Accept-Language
// header value or a bare language code.
func MatchLanguage(acceptLang string) string {
	if catalog == nil {
		return "en"
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return catalog.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, confidence := catalog.matcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(catalog.supported) {
		return catalog.defaultLang
	}
	return catalog.supported[idx].String()
}

// IsSupported checks if a language code has a catalog.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, strings.ToLower(lang))
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}
