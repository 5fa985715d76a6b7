package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Catalog holds translated copy per locale, addressed by "section.key".
type Catalog struct {
	messages map[string]map[string]string
}

// LoadCatalog parses the embedded catalogs of every supported locale.
func LoadCatalog() (*Catalog, error) {
	c := &Catalog{messages: make(map[string]map[string]string, len(codes))}
	for _, code := range codes {
		data, err := localeFS.ReadFile(path.Join("locales", code+".toml"))
		if err != nil {
			return nil, fmt.Errorf("reading %s catalog: %w", code, err)
		}
		var sections map[string]map[string]string
		if err := toml.Unmarshal(data, &sections); err != nil {
			return nil, fmt.Errorf("parsing %s catalog: %w", code, err)
		}
		flat := make(map[string]string)
		for section, entries := range sections {
			for key, value := range entries {
				flat[section+"."+key] = value
			}
		}
		c.messages[code] = flat
	}
	return c, nil
}

// MustLoadCatalog is LoadCatalog for package initialisation.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// T returns the message for key in the given locale, falling back to the
// default locale and finally to the key itself.
func (c *Catalog) T(code, key string) string {
	if msg, ok := c.messages[Normalize(code)][key]; ok {
		return msg
	}
	if msg, ok := c.messages[Default][key]; ok {
		return msg
	}
	return key
}

// Tf is T followed by substitution of {name} placeholders.
func (c *Catalog) Tf(code, key string, args map[string]string) string {
	msg := c.T(code, key)
	if len(args) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Keys returns every key defined for a locale.
func (c *Catalog) Keys(code string) []string {
	keys := make([]string, 0, len(c.messages[code]))
	for k := range c.messages[code] {
		keys = append(keys, k)
	}
	return keys
}
