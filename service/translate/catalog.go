package translate

import (
	"embed"
	"path"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Catalog holds the built-in strings of every shipped locale.
type Catalog struct {
	tags     []language.Tag
	messages map[language.Tag]map[string]string
	matcher  language.Matcher
}

// LoadCatalog parses the embedded locale files. The file named after
// fallback is preferred when no locale matches.
func LoadCatalog(fallback language.Tag) (*Catalog, error) {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	c := &Catalog{messages: make(map[language.Tag]map[string]string)}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		tag, err := language.Parse(name)
		if err != nil {
			return nil, errors.Wrapf(err, "locale file %s", e.Name())
		}
		data, err := localesFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		messages := make(map[string]string)
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, errors.Wrapf(err, "locale file %s", e.Name())
		}
		c.messages[tag] = messages
		if tag == fallback {
			c.tags = append([]language.Tag{tag}, c.tags...)
		} else {
			c.tags = append(c.tags, tag)
		}
	}
	if len(c.tags) == 0 {
		return nil, errors.New("no locale files")
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Match returns the shipped locale closest to tag.
func (c *Catalog) Match(tag language.Tag) language.Tag {
	_, i, _ := c.matcher.Match(tag)
	return c.tags[i]
}

// Lookup returns the built-in string of key in the locale closest to tag.
func (c *Catalog) Lookup(tag language.Tag, key string) (string, bool) {
	s, ok := c.messages[c.Match(tag)][key]
	return s, ok
}

// Tags lists the shipped locales, the fallback first.
func (c *Catalog) Tags() []language.Tag {
	return c.tags
}
