// Package i18n renders user-facing validation, anomaly and report messages
// in English or Korean.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Supported languages.
const (
	English = "en"
	Korean  = "ko"
)

// Message is a deferred, localizable string: a catalog key plus the values
// substituted into its template. Args may themselves be Messages.
type Message struct {
	Key  string `json:"key"`
	Args []any  `json:"args,omitempty"`
}

// M builds a Message.
func M(key string, args ...any) Message {
	return Message{Key: key, Args: args}
}

// Catalog maps keys to per-language templates.
type Catalog struct {
	mu       sync.RWMutex
	fallback string
	entries  map[string]map[string]string
	matcher  language.Matcher
	tags     []string
}

// NewCatalog returns a catalog seeded with the built-in messages. Unknown or
// unsupported languages fall back to fallbackLang.
func NewCatalog(fallbackLang string) *Catalog {
	tags := []language.Tag{language.English, language.Korean}
	names := []string{English, Korean}
	if fallbackLang == Korean {
		tags[0], tags[1] = tags[1], tags[0]
		names[0], names[1] = names[1], names[0]
	}
	c := &Catalog{
		fallback: names[0],
		entries:  make(map[string]map[string]string, len(builtin)),
		matcher:  language.NewMatcher(tags),
		tags:     names,
	}
	for key, translations := range builtin {
		c.entries[key] = translations
	}
	return c
}

// Languages returns the supported language codes, default first.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.tags...)
}

// Default returns the fallback language.
func (c *Catalog) Default() string {
	return c.fallback
}

// Add registers or replaces a key.
func (c *Catalog) Add(key string, translations map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = translations
}

// Resolve picks the best supported language for an explicit code or an
// Accept-Language header value.
func (c *Catalog) Resolve(preference string) string {
	preference = strings.TrimSpace(preference)
	if preference == "" {
		return c.fallback
	}
	desired, _, err := language.ParseAcceptLanguage(preference)
	if err != nil || len(desired) == 0 {
		return c.fallback
	}
	_, index, confidence := c.matcher.Match(desired...)
	if confidence == language.No {
		return c.fallback
	}
	return c.tags[index]
}

// Translate returns the template for key in lang. A key with no entry is
// returned unchanged.
func (c *Catalog) Translate(key, lang string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	translations, ok := c.entries[key]
	if !ok {
		return key
	}
	if text, ok := translations[lang]; ok {
		return text
	}
	if text, ok := translations[c.fallback]; ok {
		return text
	}
	return key
}

// Render formats msg in lang, rendering nested messages first.
func (c *Catalog) Render(msg Message, lang string) string {
	template := c.Translate(msg.Key, lang)
	if len(msg.Args) == 0 {
		return template
	}
	args := make([]any, len(msg.Args))
	for i, arg := range msg.Args {
		if nested, ok := arg.(Message); ok {
			args[i] = c.Render(nested, lang)
			continue
		}
		args[i] = arg
	}
	if template == msg.Key {
		return fmt.Sprint(append([]any{template, ": "}, args...)...)
	}
	return fmt.Sprintf(template, args...)
}

// RenderAll renders a list of messages.
func (c *Catalog) RenderAll(msgs []Message, lang string) []string {
	out := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, c.Render(msg, lang))
	}
	return out
}
