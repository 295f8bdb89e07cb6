package render

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// ErrMissingTranslator is passed to MissingTranslationHandler when no
	// Translator was configured.
	ErrMissingTranslator = errors.New("render: translator not configured")
	// ErrMissingTranslation is returned by Catalog when a key has no entry
	// for the matched locale.
	ErrMissingTranslation = errors.New("render: missing translation")
)

// Translator resolves a message key for a locale. Keys are the English
// message text, so an untranslated key is still a readable message.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a translation fails.
// args carries a map with the "default" fallback text as its first element.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if m, ok := args[0].(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Catalog is an in-memory Translator keyed by language tag. Locale strings
// are matched against the registered tags, so "es-MX" resolves to "es".
type Catalog struct {
	mu       sync.RWMutex
	fallback language.Tag
	tags     []language.Tag
	matcher  language.Matcher
	entries  map[language.Tag]map[string]string
}

// NewCatalog creates an empty catalog whose unmatched locales resolve to
// fallback.
func NewCatalog(fallback language.Tag) *Catalog {
	c := &Catalog{
		fallback: fallback,
		entries:  make(map[language.Tag]map[string]string),
	}
	c.tags = []language.Tag{fallback}
	c.entries[fallback] = make(map[string]string)
	c.matcher = language.NewMatcher(c.tags)
	return c
}

// Set registers messages for tag. Values may carry fmt verbs that are
// filled from Translate args.
func (c *Catalog) Set(tag language.Tag, messages map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bundle, ok := c.entries[tag]
	if !ok {
		bundle = make(map[string]string, len(messages))
		c.entries[tag] = bundle
		c.tags = append(c.tags, tag)
		c.matcher = language.NewMatcher(c.tags)
	}
	for k, v := range messages {
		bundle[k] = v
	}
}

// Match returns the registered tag that best serves locale.
func (c *Catalog) Match(locale string) language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.match(locale)
}

func (c *Catalog) match(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return c.fallback
	}
	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(desired...)
	if conf == language.No {
		return c.fallback
	}
	return c.tags[idx]
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	c.mu.RLock()
	tag := c.match(locale)
	msg, ok := c.entries[tag][key]
	c.mu.RUnlock()
	if !ok {
		return "", ErrMissingTranslation
	}
	if len(args) == 0 {
		return msg, nil
	}
	return message.NewPrinter(tag).Sprintf(msg, args...), nil
}

// Localizer binds a Translator to one locale. The zero value returns every
// message unchanged.
type Localizer struct {
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// Message translates the English message text, falling back to it.
func (l Localizer) Message(text string, args ...any) string {
	if l.Translator == nil && l.OnMissing == nil {
		if len(args) > 0 {
			return message.NewPrinter(language.English).Sprintf(text, args...)
		}
		return text
	}
	onMissing := l.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	fallback := text
	if len(args) > 0 {
		fallback = message.NewPrinter(language.English).Sprintf(text, args...)
	}
	return translate(l.Locale, text, fallback, l.Translator, onMissing, args...)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
