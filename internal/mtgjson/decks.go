package mtgjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DeckCard is one entry in a preconstructed deck list: a full card printing
// plus how many copies the deck runs.
type DeckCard struct {
	Card
	Count int `json:"count"`
}

// Deck is a preconstructed deck as MTGJSON ships it (e.g., the Jumpstart
// theme decks).
type Deck struct {
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	MainBoard []*DeckCard `json:"mainBoard"`
}

// DeckFile is the top-level document of one MTGJSON deck file.
type DeckFile struct {
	Meta Meta `json:"meta"`
	Data Deck `json:"data"`
}

// LoadDeckFile reads and decodes a single MTGJSON deck file.
func LoadDeckFile(path string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var df DeckFile
	if err := json.NewDecoder(f).Decode(&df); err != nil {
		return nil, fmt.Errorf("parse deck file %s: %w", path, err)
	}

	if len(df.Data.MainBoard) == 0 {
		return nil, fmt.Errorf("deck file %s has an empty main board", path)
	}

	return &df.Data, nil
}

// LoadDeckDir loads every *.json deck file in a directory, sorted by file
// name so the deck order is stable across runs.
func LoadDeckDir(dir string) ([]*Deck, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan deck directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("deck directory %s contains no deck files", dir)
	}
	sort.Strings(paths)

	decks := make([]*Deck, 0, len(paths))
	for _, path := range paths {
		deck, err := LoadDeckFile(path)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	return decks, nil
}
