package entity

import (
	"strings"
	"time"
)

// CustomDeck is a learner-defined group of characters.
type CustomDeck struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CharacterIDs []string   `json:"characterIds"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastStudied  *time.Time `json:"lastStudied"`
	Color        string     `json:"color"`
}

// Normalize ensures defaults & constraints before persistence.
func (d *CustomDeck) Normalize(now time.Time) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.CharacterIDs == nil {
		d.CharacterIDs = []string{}
	}
	if d.Color == "" {
		d.Color = "#667eea"
	}
}
