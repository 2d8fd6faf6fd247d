// Package i18n renders localized user-facing messages for error codes.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// BaseLocale is the locale every other catalog falls back to.
const BaseLocale = "en-US"

// Code mirrors errors.Code; importing it would create a cycle.
type Code = string

// Catalog holds the message templates of one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
	// parsed caches compiled templates by code.
	parsed sync.Map
}

// registry is the set of catalogs GetCatalog chooses from.
type registry struct {
	mu       sync.RWMutex
	byLocale map[string]*Catalog
	// order keeps BaseLocale first so the matcher falls back to it.
	order   []string
	matcher language.Matcher
}

var catalogs = newRegistry(enUSCatalog, ptBRCatalog)

func newRegistry(base *Catalog, others ...*Catalog) *registry {
	r := &registry{byLocale: map[string]*Catalog{}}
	r.add(base.locale, base)
	for _, c := range others {
		r.add(c.locale, c)
	}
	return r
}

// add must be called with mu held or before the registry is shared.
func (r *registry) add(locale string, c *Catalog) {
	if _, exists := r.byLocale[locale]; !exists {
		if _, err := language.Parse(locale); err == nil {
			r.order = append(r.order, locale)
		}
	}
	r.byLocale[locale] = c
	r.rebuildMatcher()
}

// remove must be called with mu held.
func (r *registry) remove(locale string) {
	delete(r.byLocale, locale)
	for i, l := range r.order {
		if l == locale {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.rebuildMatcher()
}

func (r *registry) rebuildMatcher() {
	tags := make([]language.Tag, 0, len(r.order))
	for _, l := range r.order {
		tags = append(tags, language.MustParse(l))
	}
	r.matcher = language.NewMatcher(tags)
}

func (r *registry) get(locale string) (*Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byLocale[locale]
	return c, ok
}

func (r *registry) match(tag language.Tag) (*Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, index, confidence := r.matcher.Match(tag)
	if confidence == language.No || index < 0 || index >= len(r.order) {
		return nil, false
	}
	c, ok := r.byLocale[r.order[index]]
	return c, ok
}

// GetCatalog returns the catalog best matching locale, or the en-US catalog
// when nothing registered matches.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}
	if c, ok := catalogs.get(requested); ok {
		return c
	}
	if tag, err := language.Parse(requested); err == nil {
		if c, ok := catalogs.match(tag); ok {
			return c
		}
	}
	return baseCatalog()
}

// RegisterCatalog adds or replaces the catalog for locale.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogs.mu.Lock()
	defer catalogs.mu.Unlock()
	catalogs.add(locale, cat)
}

// NewCatalog copies messages into a catalog for locale.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{locale: locale, messages: cloned}
}

func baseCatalog() *Catalog {
	c, _ := catalogs.get(BaseLocale)
	return c
}

func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the template for code with metadata. Codes missing from a
// regional catalog use the base catalog's template, and codes missing from
// both render as the code itself. Missing metadata keys render as "<no value>".
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	source, ok := c.template(code)
	if !ok {
		return code
	}
	tmpl, err := c.compile(code, source)
	if err != nil {
		return source
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, metadata); err != nil {
		return source
	}
	return out.String()
}

func (c *Catalog) compile(code Code, source string) (*template.Template, error) {
	if cached, ok := c.parsed.Load(code); ok {
		return cached.(*template.Template), nil
	}
	tmpl, err := template.New(code).Parse(source)
	if err != nil {
		return nil, err
	}
	c.parsed.Store(code, tmpl)
	return tmpl, nil
}

func (c *Catalog) template(code Code) (string, bool) {
	if source, ok := c.messages[code]; ok {
		return source, true
	}
	if c.locale == BaseLocale {
		return "", false
	}
	base := baseCatalog()
	if base == nil {
		return "", false
	}
	source, ok := base.messages[code]
	return source, ok
}
