// Package catalog serves the static character and achievement datasets embedded in the binary.
package catalog

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/eslsoft/nihongo/internal/entity"
)

//go:embed data/*.yaml
var files embed.FS

type achievementDoc struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Icon        string               `yaml:"icon"`
	XPReward    int                  `yaml:"xp_reward"`
	Condition   entity.ConditionSpec `yaml:"condition"`
}

// Catalog is an immutable, indexed view of the embedded datasets.
type Catalog struct {
	characters   []entity.Character
	byID         map[string]entity.Character
	achievements []entity.Achievement
}

// Load parses the embedded datasets.
func Load() (*Catalog, error) {
	chars, err := readCharacters("data/characters.yaml")
	if err != nil {
		return nil, err
	}
	achievements, err := readAchievements("data/achievements.yaml")
	if err != nil {
		return nil, err
	}
	return New(chars, achievements)
}

// MustLoad is Load for package initialisation paths where the embedded data is known good.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// New indexes the given datasets; character ids must be unique.
func New(chars []entity.Character, achievements []entity.Achievement) (*Catalog, error) {
	byID := make(map[string]entity.Character, len(chars))
	for _, ch := range chars {
		if strings.TrimSpace(ch.ID) == "" {
			return nil, fmt.Errorf("character %q has no id", ch.Glyph)
		}
		if _, dup := byID[ch.ID]; dup {
			return nil, fmt.Errorf("duplicate character id %q", ch.ID)
		}
		byID[ch.ID] = ch
	}
	return &Catalog{characters: chars, byID: byID, achievements: achievements}, nil
}

// Characters returns every character in dataset order.
func (c *Catalog) Characters() []entity.Character {
	return append([]entity.Character(nil), c.characters...)
}

// Character looks a character up by id.
func (c *Catalog) Character(id string) (entity.Character, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// Filter returns the characters of one writing system, optionally narrowed to a JLPT level.
// An unspecified writing system matches every character.
func (c *Catalog) Filter(ws entity.WritingSystem, level entity.JLPTLevel) []entity.Character {
	return lo.Filter(c.characters, func(ch entity.Character, _ int) bool {
		if ws != entity.WritingSystemUnspecified && ch.Type != ws {
			return false
		}
		return level == entity.JLPTUnspecified || ch.JLPTLevel == level
	})
}

// IDs returns the ids of chars.
func IDs(chars []entity.Character) []string {
	return lo.Map(chars, func(ch entity.Character, _ int) string { return ch.ID })
}

// Achievements returns the achievement catalog sorted by id.
func (c *Catalog) Achievements() []entity.Achievement {
	return append([]entity.Achievement(nil), c.achievements...)
}

// Achievement looks an achievement up by id.
func (c *Catalog) Achievement(id string) (entity.Achievement, bool) {
	return lo.Find(c.achievements, func(a entity.Achievement) bool { return a.ID == id })
}

func readCharacters(name string) ([]entity.Character, error) {
	raw, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var chars []entity.Character
	if err := yaml.Unmarshal(raw, &chars); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	for i := range chars {
		chars[i].Type = entity.ParseWritingSystem(string(chars[i].Type))
		if chars[i].JLPTLevel != entity.JLPTUnspecified {
			chars[i].JLPTLevel = entity.ParseJLPTLevel(string(chars[i].JLPTLevel))
		}
	}
	return chars, nil
}

func readAchievements(name string) ([]entity.Achievement, error) {
	raw, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	var docs []achievementDoc
	if err := yaml.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	out := make([]entity.Achievement, 0, len(docs))
	for _, doc := range docs {
		cond, err := doc.Condition.Build()
		if err != nil {
			return nil, fmt.Errorf("achievement %s: %w", doc.ID, err)
		}
		out = append(out, entity.Achievement{
			ID:          doc.ID,
			Name:        doc.Name,
			Description: doc.Description,
			Icon:        doc.Icon,
			XPReward:    doc.XPReward,
			Condition:   cond,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
