// Package portfolio holds the site content: profile, skills and projects.
package portfolio

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// Category groups skills on the About page.
type Category string

const (
	CategoryFrontend Category = "frontend"
	CategoryBackend  Category = "backend"
	CategoryTools    Category = "tools"
)

// Categories lists skill categories in display order.
var Categories = []Category{CategoryFrontend, CategoryBackend, CategoryTools}

// Link is a labelled external link.
type Link struct {
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

// Profile is the biographical part of the site.
type Profile struct {
	Name         string   `yaml:"name" json:"name"`
	Title        string   `yaml:"title" json:"title"`
	Tagline      string   `yaml:"tagline" json:"tagline"`
	About        []string `yaml:"about" json:"about"`
	Email        string   `yaml:"email" json:"email"`
	Location     string   `yaml:"location" json:"location"`
	Availability string   `yaml:"availability" json:"availability"`
	Socials      []Link   `yaml:"socials" json:"socials"`
}

// Skill is one entry of the skills list. Level is a percentage.
type Skill struct {
	Name     string   `yaml:"name" json:"name"`
	Level    int      `yaml:"level" json:"level"`
	Category Category `yaml:"category" json:"category"`
}

// Project is one card of the project gallery.
type Project struct {
	ID           string   `yaml:"id" json:"id"`
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Image        string   `yaml:"image" json:"image"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	GithubURL    string   `yaml:"githubUrl" json:"githubUrl,omitempty"`
	LiveURL      string   `yaml:"liveUrl" json:"liveUrl,omitempty"`
	Featured     bool     `yaml:"featured" json:"featured,omitempty"`
}

// Content is everything the pages render.
type Content struct {
	Profile  Profile   `yaml:"profile" json:"profile"`
	Skills   []Skill   `yaml:"skills" json:"skills"`
	Projects []Project `yaml:"projects" json:"projects"`
}

// ErrInvalidContent is returned by Validate.
var ErrInvalidContent = errors.New("invalid portfolio content")

// Load parses YAML content from r and validates it.
func Load(r io.Reader) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile loads content from a YAML file. An empty path yields the
// embedded default content.
func LoadFile(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening content %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return Load(bytes.NewReader(defaultContent))
}

// Validate checks skill levels, categories and project identity.
func (c *Content) Validate() error {
	if c.Profile.Name == "" {
		return fmt.Errorf("%w: profile name is required", ErrInvalidContent)
	}
	for _, s := range c.Skills {
		if s.Name == "" {
			return fmt.Errorf("%w: skill without a name", ErrInvalidContent)
		}
		if s.Level < 0 || s.Level > 100 {
			return fmt.Errorf("%w: skill %q level %d out of range 0-100", ErrInvalidContent, s.Name, s.Level)
		}
		if !knownCategory(s.Category) {
			return fmt.Errorf("%w: skill %q has unknown category %q", ErrInvalidContent, s.Name, s.Category)
		}
	}
	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.ID == "" || p.Title == "" {
			return fmt.Errorf("%w: project needs an id and a title", ErrInvalidContent)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate project id %q", ErrInvalidContent, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func knownCategory(cat Category) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// SkillsByCategory returns the skills of one category in content order.
func (c *Content) SkillsByCategory(cat Category) []Skill {
	var out []Skill
	for _, s := range c.Skills {
		if s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}

// FeaturedProjects returns the projects flagged as featured.
func (c *Content) FeaturedProjects() []Project {
	var out []Project
	for _, p := range c.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}
