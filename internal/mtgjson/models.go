// Package mtgjson provides models and a download client for the MTGJSON v5
// AllPrintings card database (https://mtgjson.com).
package mtgjson

import (
	"encoding/json"
	"fmt"
	"os"
)

// Meta describes an MTGJSON data release.
type Meta struct {
	Date    string `json:"date"`
	Version string `json:"version"`
}

// MetaResponse is the payload of the /api/v5/Meta.json endpoint.
type MetaResponse struct {
	Meta Meta `json:"meta"`
	Data Meta `json:"data"`
}

// AllPrintings is the top-level AllPrintings.json document.
type AllPrintings struct {
	Meta Meta            `json:"meta"`
	Data map[string]*Set `json:"data"`
}

// Set is one expansion in AllPrintings.
type Set struct {
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	ReleaseDate string              `json:"releaseDate"`
	BaseSetSize int                 `json:"baseSetSize"`
	Type        string              `json:"type"`
	Cards       []*Card             `json:"cards"`
	Booster     map[string]*Booster `json:"booster,omitempty"`
}

// Card is a single printing of a card.
type Card struct {
	UUID          string      `json:"uuid"`
	Name          string      `json:"name"`
	SetCode       string      `json:"setCode"`
	Number        string      `json:"number"`
	Rarity        string      `json:"rarity"`
	Colors        []string    `json:"colors"`
	ColorIdentity []string    `json:"colorIdentity"`
	Types         []string    `json:"types"`
	Supertypes    []string    `json:"supertypes"`
	Subtypes      []string    `json:"subtypes"`
	Type          string      `json:"type"`
	ManaCost      string      `json:"manaCost,omitempty"`
	HasFoil       bool        `json:"hasFoil"`
	HasNonFoil    bool        `json:"hasNonFoil"`
	PromoTypes    []string    `json:"promoTypes,omitempty"`
	Variations    []string    `json:"variations,omitempty"`
	Identifiers   Identifiers `json:"identifiers"`
}

// Identifiers holds cross-database IDs for a card printing.
type Identifiers struct {
	ScryfallID   string `json:"scryfallId,omitempty"`
	MultiverseID string `json:"multiverseId,omitempty"`
	MTGArenaID   string `json:"mtgArenaId,omitempty"`
}

// Booster describes one booster configuration of a set (e.g., "default",
// "arena"). A configuration declares weighted variant contents and the
// sheets those contents draw from.
type Booster struct {
	Boosters            []BoosterVariant  `json:"boosters"`
	BoostersTotalWeight int               `json:"boostersTotalWeight"`
	Sheets              map[string]*Sheet `json:"sheets"`
	Name                string            `json:"name,omitempty"`
}

// BoosterVariant is one weighted composition of a booster configuration.
// Contents maps sheet names to the number of cards drawn from that sheet.
type BoosterVariant struct {
	Contents map[string]int `json:"contents"`
	Weight   int            `json:"weight"`
}

// Sheet is the weighted pool of card printings eligible for one slot group.
// Cards maps card UUIDs to their print weight on the sheet.
type Sheet struct {
	Cards         map[string]int `json:"cards"`
	TotalWeight   int            `json:"totalWeight"`
	Foil          bool           `json:"foil"`
	BalanceColors bool           `json:"balanceColors,omitempty"`
}

// LoadFile reads and decodes an AllPrintings.json file.
func LoadFile(path string) (*AllPrintings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var all AllPrintings
	if err := json.NewDecoder(f).Decode(&all); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}

	if len(all.Data) == 0 {
		return nil, fmt.Errorf("data file %s contains no sets", path)
	}

	return &all, nil
}

// IsCreature reports whether the card has the Creature type.
func (c *Card) IsCreature() bool {
	for _, t := range c.Types {
		if t == "Creature" {
			return true
		}
	}
	return false
}

// IsPromo reports whether the printing is a promotional variant.
func (c *Card) IsPromo() bool {
	return len(c.PromoTypes) > 0
}

// HasBoosters reports whether the set declares any booster configuration.
func (s *Set) HasBoosters() bool {
	return len(s.Booster) > 0
}

// DefaultBooster returns the booster configuration used for pack
// generation, preferring "default", then "arena", then any.
func (s *Set) DefaultBooster() *Booster {
	if b, ok := s.Booster["default"]; ok {
		return b
	}
	if b, ok := s.Booster["arena"]; ok {
		return b
	}
	for _, b := range s.Booster {
		return b
	}
	return nil
}

// CardByUUID returns the card with the given UUID, or nil.
func (s *Set) CardByUUID(uuid string) *Card {
	for _, c := range s.Cards {
		if c.UUID == uuid {
			return c
		}
	}
	return nil
}
