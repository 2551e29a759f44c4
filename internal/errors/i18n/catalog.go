// Package i18n renders user-facing error messages per locale.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (string form to avoid a cycle with
// the errors package).
type Code = string

// BaseLocale is the fallback locale when no catalog matches.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Catalog{}
	matcher    language.Matcher
	matcherTag []string
)

func init() {
	Register(BaseLocale, enUS)
}

// Register installs a catalog for a locale, replacing any previous one.
func Register(locale string, messages map[Code]string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[locale] = &Catalog{locale: locale, messages: messages}
	tags := make([]language.Tag, 0, len(registry)+1)
	names := make([]string, 0, len(registry)+1)
	// The base locale must be first so the matcher falls back to it.
	tags = append(tags, language.MustParse(BaseLocale))
	names = append(names, BaseLocale)
	for name := range registry {
		if name == BaseLocale {
			continue
		}
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, name)
	}
	matcher = language.NewMatcher(tags)
	matcherTag = names
}

// GetCatalog returns the best catalog for the requested locale, falling back
// to en-US when the locale is unknown or empty.
func GetCatalog(locale string) *Catalog {
	registryMu.RLock()
	defer registryMu.RUnlock()

	requested := strings.TrimSpace(locale)
	if requested == "" {
		return registry[BaseLocale]
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return registry[BaseLocale]
	}
	_, index, _ := matcher.Match(tag)
	if index < 0 || index >= len(matcherTag) {
		return registry[BaseLocale]
	}
	if c, ok := registry[matcherTag[index]]; ok {
		return c
	}
	return registry[BaseLocale]
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template for a code with the given metadata.
// Falls back to the code itself when no template is registered.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}
