package survey

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/taejunjeon/leadership/internal/scoring"
)

//go:embed questions.yaml
var questionsYAML []byte

// Catalog is the question set shown to respondents.
type Catalog struct {
	Version  string    `yaml:"version" json:"version"`
	Scale    Scale     `yaml:"scale" json:"scale"`
	Sections []Section `yaml:"sections" json:"sections"`
}

// Scale describes the rating scale.
type Scale struct {
	Min    int                 `yaml:"min" json:"min"`
	Max    int                 `yaml:"max" json:"max"`
	Labels map[string][]string `yaml:"labels" json:"labels"`
}

// Section groups questions.
type Section struct {
	ID        string            `yaml:"id" json:"id"`
	Title     map[string]string `yaml:"title" json:"title"`
	Questions []Question        `yaml:"questions" json:"questions"`
}

// Question is one survey item.
type Question struct {
	ID        string            `yaml:"id" json:"id"`
	Dimension string            `yaml:"dimension" json:"dimension,omitempty"`
	Text      map[string]string `yaml:"text" json:"text"`
}

// LocalizedQuestion is a question rendered in one language.
type LocalizedQuestion struct {
	ID      string `json:"id"`
	Section string `json:"section"`
	Text    string `json:"text"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// LoadCatalog parses the embedded catalog and checks it against the scoring
// item configuration.
func LoadCatalog() (*Catalog, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parseCatalog(questionsYAML)
	})
	return loaded, loadErr
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse question catalog: %w", err)
	}
	seen := make(map[string]bool)
	for _, section := range c.Sections {
		for _, q := range section.Questions {
			dim, ok := scoring.DimensionOf(q.ID)
			if !ok {
				return nil, fmt.Errorf("question %s is not a scored item", q.ID)
			}
			if string(dim) != q.Dimension {
				return nil, fmt.Errorf("question %s is filed under %s, scored as %s", q.ID, q.Dimension, dim)
			}
			seen[q.ID] = true
		}
	}
	if len(seen) != scoring.TotalItems() {
		return nil, fmt.Errorf("question catalog has %d items, want %d", len(seen), scoring.TotalItems())
	}
	return &c, nil
}

// Localized flattens the catalog into lang, hiding dimension names.
func (c *Catalog) Localized(lang string) []LocalizedQuestion {
	var out []LocalizedQuestion
	for _, section := range c.Sections {
		for _, q := range section.Questions {
			text, ok := q.Text[lang]
			if !ok {
				text = q.Text["en"]
			}
			out = append(out, LocalizedQuestion{
				ID:      q.ID,
				Section: section.ID,
				Text:    text,
				Min:     c.Scale.Min,
				Max:     c.Scale.Max,
			})
		}
	}
	return out
}
