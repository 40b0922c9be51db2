package signup

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyCatalog   = errors.New("signup: message catalog has no locales")
	ErrMissingMessage = errors.New("signup: message missing from catalog")
	ErrUnknownLocale  = errors.New("signup: unknown locale")
)

//go:embed messages.yaml
var defaultCatalogYAML []byte

// DefaultLocale is the locale of the built-in catalog's fallback messages.
const DefaultLocale = "ko"

var requiredKeys = []string{
	MsgPasswordComplexity,
	MsgPasswordMismatch,
	MsgUserIDFormat,
	MsgNameFormat,
	MsgAgeRange,
	MsgEmailFormat,
	MsgSubmitSuccess,
	MsgPageTitle,
	MsgPageSubmit,
	MsgFormConfirm,
}

func init() {
	for _, f := range Fields {
		requiredKeys = append(requiredKeys, labelKey(f))
	}
}

func labelKey(f Field) string { return "label." + string(f) }

// Messages is the resolved message table of one locale.
type Messages struct {
	Tag   language.Tag
	texts map[string]string
}

// Text returns the message for key, or key itself when absent.
func (m Messages) Text(key string) string {
	if t, ok := m.texts[key]; ok {
		return t
	}
	return key
}

// Label returns the display label of f.
func (m Messages) Label(f Field) string { return m.Text(labelKey(f)) }

// Catalog holds the messages of every configured locale.
type Catalog struct {
	tags    []language.Tag // tags[0] is the default
	locales []Messages
	matcher language.Matcher
}

// ParseCatalog decodes a YAML catalog of the form {locale: {key: text}}.
// Every locale must define all message keys. def names the locale used when
// negotiation finds no match.
func ParseCatalog(data []byte, def string) (*Catalog, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("signup: parse catalog: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyCatalog
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &Catalog{}
	defIdx := -1
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("signup: catalog locale %q: %w", name, err)
		}
		texts := raw[name]
		for _, key := range requiredKeys {
			if texts[key] == "" {
				return nil, fmt.Errorf("%w: %s/%s", ErrMissingMessage, name, key)
			}
		}
		if name == def {
			defIdx = len(c.tags)
		}
		c.tags = append(c.tags, tag)
		c.locales = append(c.locales, Messages{Tag: tag, texts: texts})
	}
	if defIdx < 0 {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownLocale, def)
	}

	// The matcher falls back to its first tag.
	c.tags[0], c.tags[defIdx] = c.tags[defIdx], c.tags[0]
	c.locales[0], c.locales[defIdx] = c.locales[defIdx], c.locales[0]
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML, DefaultLocale)
	if err != nil {
		panic(err)
	}
	return c
})

// DefaultCatalog returns the built-in Korean/English catalog.
func DefaultCatalog() *Catalog { return defaultCatalog() }

// DefaultMessages returns the built-in catalog's default locale.
func DefaultMessages() Messages { return DefaultCatalog().Default() }

// Default returns the messages of the default locale.
func (c *Catalog) Default() Messages { return c.locales[0] }

// WithDefault returns a copy of c whose default locale is locale.
func (c *Catalog) WithDefault(locale string) (*Catalog, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	for i, t := range c.tags {
		if t != tag {
			continue
		}
		out := &Catalog{
			tags:    append([]language.Tag(nil), c.tags...),
			locales: append([]Messages(nil), c.locales...),
		}
		out.tags[0], out.tags[i] = out.tags[i], out.tags[0]
		out.locales[0], out.locales[i] = out.locales[i], out.locales[0]
		out.matcher = language.NewMatcher(out.tags)
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
}

// Locales lists the catalog's locales, default first.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

// Match picks the locale that best serves the given preferences. Each entry
// may be a single tag ("en") or an Accept-Language header value. Earlier
// entries take priority; unparsable entries are ignored.
func (c *Catalog) Match(prefs ...string) Messages {
	var want []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		want = append(want, tags...)
	}
	if len(want) == 0 {
		return c.Default()
	}
	_, idx, conf := c.matcher.Match(want...)
	if conf == language.No {
		return c.Default()
	}
	return c.locales[idx]
}
