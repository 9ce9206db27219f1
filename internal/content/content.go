// Package content holds the portfolio's static text: hero, about, experience,
// projects, skills and contact details.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed content.toml
var defaultTOML string

type Hero struct {
	Name     string   `toml:"name"`
	Headline string   `toml:"headline"`
	Summary  string   `toml:"summary"`
	Snippets []string `toml:"snippets"`
}

type Education struct {
	Degree      string `toml:"degree"`
	Institution string `toml:"institution"`
	Description string `toml:"description"`
}

type Stat struct {
	Label string `toml:"label"`
	Value string `toml:"value"`
}

type About struct {
	Paragraphs []string    `toml:"paragraphs"`
	Education  []Education `toml:"education"`
	Stats      []Stat      `toml:"stats"`
}

type Experience struct {
	Company      string   `toml:"company"`
	Role         string   `toml:"role"`
	Period       string   `toml:"period"`
	Location     string   `toml:"location"`
	Description  string   `toml:"description"`
	Technologies []string `toml:"technologies"`
	Projects     []string `toml:"projects"`
	Current      bool     `toml:"current"`
}

type Project struct {
	Title        string   `toml:"title"`
	Category     string   `toml:"category"`
	Description  string   `toml:"description"`
	Technologies []string `toml:"technologies"`
	Features     []string `toml:"features"`
}

type Skill struct {
	Name       string `toml:"name"`
	Level      int    `toml:"level"`
	Experience string `toml:"experience"`
}

type SkillCategory struct {
	Title string  `toml:"title"`
	Items []Skill `toml:"items"`
}

type Link struct {
	Title string `toml:"title"`
	Href  string `toml:"href"`
}

type Contact struct {
	Phone    string `toml:"phone"`
	Email    string `toml:"email"`
	Location string `toml:"location"`
	Social   []Link `toml:"social"`
}

// Content is everything the page sections render.
type Content struct {
	Hero       Hero            `toml:"hero"`
	About      About           `toml:"about"`
	Experience []Experience    `toml:"experience"`
	Projects   []Project       `toml:"projects"`
	Skills     []SkillCategory `toml:"skills"`
	Contact    Contact         `toml:"contact"`
}

// Default returns the content bundled with the binary.
func Default() *Content {
	c, err := Parse(defaultTOML)
	if err != nil {
		panic(fmt.Sprintf("content: bundled content.toml is invalid: %v", err))
	}
	return c
}

// Load reads and validates a TOML file. An empty path returns Default.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates TOML content.
func Parse(data string) (*Content, error) {
	var c Content
	md, err := toml.Decode(data, &c)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields the templates rely on.
func (c *Content) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Hero.Name) == "" {
		errs = append(errs, errors.New("hero.name is required"))
	}
	for i, e := range c.Experience {
		if strings.TrimSpace(e.Company) == "" || strings.TrimSpace(e.Role) == "" {
			errs = append(errs, fmt.Errorf("experience[%d]: company and role are required", i))
		}
	}
	for i, p := range c.Projects {
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		}
	}
	for i, cat := range c.Skills {
		for j, s := range cat.Items {
			if strings.TrimSpace(s.Name) == "" {
				errs = append(errs, fmt.Errorf("skills[%d].items[%d]: name is required", i, j))
			}
			if s.Level < 0 || s.Level > 100 {
				errs = append(errs, fmt.Errorf("skills[%d].items[%d]: level %d outside 0..100", i, j, s.Level))
			}
		}
	}
	return errors.Join(errs...)
}

// Section names in page order.
var Sections = []string{"hero", "about", "experience", "projects", "skills", "contact"}

// HasSection reports whether name is a known section.
func HasSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}
