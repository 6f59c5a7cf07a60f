// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package site holds the documentation site configuration: branding, header
// navigation, search key and the feature cards shown on the home page. The
// defaults are embedded; a YAML file may replace them at startup.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"bumodocs/internal/locale"
)

//go:embed site.yaml
var defaultYAML []byte

// ErrInvalidConfig is returned when a site config fails validation.
var ErrInvalidConfig = errors.New("site: invalid config")

// maxCardLinks is how many links a feature card lists before "More".
const maxCardLinks = 3

// Config mirrors the documentation site's configuration file.
type Config struct {
	Title            string `yaml:"title"`
	SecTitle         string `yaml:"secTitle"`
	Tagline          string `yaml:"tagline"`
	URL              string `yaml:"url"`
	BaseURL          string `yaml:"baseUrl"`
	ProjectName      string `yaml:"projectName"`
	OrganizationName string `yaml:"organizationName"`
	EditURL          string `yaml:"editUrl"`
	RepoURL          string `yaml:"repoUrl"`
	GetStartedDoc    string `yaml:"getStartedDoc"`

	HeaderLinks []HeaderLink `yaml:"headerLinks"`

	HeaderIcon string `yaml:"headerIcon"`
	FooterIcon string `yaml:"footerIcon"`
	Favicon    string `yaml:"favicon"`

	Colors struct {
		Primary   string `yaml:"primaryColor"`
		Secondary string `yaml:"secondaryColor"`
	} `yaml:"colors"`

	Copyright string `yaml:"copyright"`

	Highlight struct {
		Theme string `yaml:"theme"`
	} `yaml:"highlight"`

	Algolia Algolia `yaml:"algolia"`

	Scripts      []string `yaml:"scripts"`
	CleanURL     bool     `yaml:"cleanUrl"`
	OGImage      string   `yaml:"ogImage"`
	TwitterImage string   `yaml:"twitterImage"`

	Features []FeatureCard `yaml:"features"`
}

// HeaderLink is one entry of the top navigation. Exactly one of Doc, Href,
// Languages or Search is expected to be set.
type HeaderLink struct {
	Doc       string `yaml:"doc,omitempty"`
	Href      string `yaml:"href,omitempty"`
	Label     string `yaml:"label,omitempty"`
	CNLabel   string `yaml:"cnLabel,omitempty"`
	Target    string `yaml:"target,omitempty"`
	Languages bool   `yaml:"languages,omitempty"`
	Search    bool   `yaml:"search,omitempty"`
}

// Algolia holds the DocSearch settings embedded in page markup.
type Algolia struct {
	APIKey       string   `yaml:"apiKey"`
	IndexName    string   `yaml:"indexName"`
	FacetFilters []string `yaml:"facetFilters"`
}

// FeatureCard is a home page card linking into the docs.
type FeatureCard struct {
	Name  string        `yaml:"name"`
	Image string        `yaml:"image"`
	Links []FeatureLink `yaml:"links"`
}

// FeatureLink points at a doc id or an absolute URL.
type FeatureLink struct {
	Doc   string `yaml:"doc,omitempty"`
	URL   string `yaml:"url,omitempty"`
	Label string `yaml:"label"`
}

// Visible returns the links listed on the card.
func (f FeatureCard) Visible() []FeatureLink {
	if len(f.Links) > maxCardLinks {
		return f.Links[:maxCardLinks]
	}
	return f.Links
}

// HasMore reports whether the card needs a "More" link.
func (f FeatureCard) HasMore() bool {
	return len(f.Links) > maxCardLinks
}

// NavItem is a header link resolved for one locale.
type NavItem struct {
	Label        string
	Href         string
	Target       string
	Search       bool
	LocaleSwitch bool // Href is locale.Placeholder
}

// Default returns the embedded site configuration.
func Default() (*Config, error) {
	return parse(defaultYAML)
}

// Load reads the site configuration from path, or the embedded default when
// path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode site config: %w", err)
	}
	if c.BaseURL == "" {
		c.BaseURL = "/"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields the renderer relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidConfig)
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: url must be absolute, got %q", ErrInvalidConfig, c.URL)
	}
	if !strings.HasPrefix(c.BaseURL, "/") || !strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("%w: baseUrl must start and end with '/', got %q", ErrInvalidConfig, c.BaseURL)
	}
	for _, f := range c.Features {
		for _, l := range f.Links {
			if l.Label == "" || (l.Doc == "" && l.URL == "") {
				return fmt.Errorf("%w: feature %q has an incomplete link", ErrInvalidConfig, f.Name)
			}
		}
	}
	return nil
}

// DocURL returns the URL of a doc page in the given locale.
func (c *Config) DocURL(loc locale.Locale, doc string) string {
	return loc.Path(c.BaseURL + "docs/" + doc)
}

// HomeURL returns the home page URL in the given locale.
func (c *Config) HomeURL(loc locale.Locale) string {
	return loc.Path(c.BaseURL)
}

// LinkURL resolves a feature link for the given locale.
func (c *Config) LinkURL(loc locale.Locale, l FeatureLink) string {
	if l.URL != "" {
		return l.URL
	}
	return c.DocURL(loc, l.Doc)
}

// Asset returns the URL of a static asset relative to the base URL.
func (c *Config) Asset(p string) string {
	return c.BaseURL + strings.TrimPrefix(p, "/")
}

// EditLink returns the source edit URL of an English doc. Docs in the
// secondary locale live in a separate repository and get no link.
func (c *Config) EditLink(loc locale.Locale, doc string) string {
	if c.EditURL == "" || loc != locale.English {
		return ""
	}
	return c.EditURL + doc + ".md"
}

// CopyrightFor renders the copyright line for the given year.
func (c *Config) CopyrightFor(year int) string {
	return strings.ReplaceAll(c.Copyright, "{year}", strconv.Itoa(year))
}

// Nav resolves the header links for one locale. The languages entry renders
// nothing: the placeholder link is the language switch.
func (c *Config) Nav(loc locale.Locale) []NavItem {
	items := make([]NavItem, 0, len(c.HeaderLinks))
	for _, h := range c.HeaderLinks {
		label := h.Label
		if loc == locale.Chinese && h.CNLabel != "" {
			label = h.CNLabel
		}
		switch {
		case h.Search:
			items = append(items, NavItem{Search: true})
		case h.Languages:
			continue
		case h.Doc != "":
			items = append(items, NavItem{Label: label, Href: c.DocURL(loc, h.Doc), Target: h.Target})
		case h.Href != "":
			items = append(items, NavItem{
				Label:        label,
				Href:         h.Href,
				Target:       h.Target,
				LocaleSwitch: h.Href == locale.Placeholder,
			})
		}
	}
	return items
}
