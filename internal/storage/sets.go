package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ramonehamilton/booster-sim/internal/mtgjson"
)

// Service exposes the card cache repository over a DB.
type Service struct {
	db *DB
}

// NewService creates a storage service.
func NewService(db *DB) *Service {
	return &Service{db: db}
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}

// CachedMeta describes the data release held in the cache.
type CachedMeta struct {
	Version     string
	ReleaseDate string
	CachedAt    time.Time
}

// GetMeta returns the cached release metadata, or nil when the cache is empty.
func (s *Service) GetMeta(ctx context.Context) (*CachedMeta, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT version, release_date, cached_at FROM data_meta WHERE id = 1`)

	var meta CachedMeta
	err := row.Scan(&meta.Version, &meta.ReleaseDate, &meta.CachedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache meta: %w", err)
	}
	return &meta, nil
}

// SaveData replaces the entire cache with the given data snapshot in one
// transaction, so concurrent readers see either the old or the new release,
// never a mix.
func (s *Service) SaveData(ctx context.Context, all *mtgjson.AllPrintings) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM cards`, `DELETE FROM sets`, `DELETE FROM data_meta`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO data_meta (id, version, release_date) VALUES (1, ?, ?)`,
		all.Meta.Version, all.Meta.Date,
	); err != nil {
		return fmt.Errorf("failed to save cache meta: %w", err)
	}

	setStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sets (code, name, release_date, base_set_size, set_type, booster_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare set insert: %w", err)
	}
	defer func() { _ = setStmt.Close() }()

	cardStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (
			uuid, set_code, name, number, rarity,
			colors, color_identity, types, supertypes, subtypes,
			type_line, mana_cost, has_foil, has_non_foil, promo_types,
			scryfall_id, multiverse_id, arena_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer func() { _ = cardStmt.Close() }()

	for _, set := range all.Data {
		boosterJSON := ""
		if len(set.Booster) > 0 {
			data, err := json.Marshal(set.Booster)
			if err != nil {
				return fmt.Errorf("failed to marshal booster config for %s: %w", set.Code, err)
			}
			boosterJSON = string(data)
		}

		if _, err := setStmt.ExecContext(ctx,
			set.Code, set.Name, set.ReleaseDate, set.BaseSetSize, set.Type, boosterJSON,
		); err != nil {
			return fmt.Errorf("failed to save set %s: %w", set.Code, err)
		}

		for _, card := range set.Cards {
			if _, err := cardStmt.ExecContext(ctx,
				card.UUID, set.Code, card.Name, card.Number, card.Rarity,
				marshalStrings(card.Colors), marshalStrings(card.ColorIdentity),
				marshalStrings(card.Types), marshalStrings(card.Supertypes),
				marshalStrings(card.Subtypes),
				card.Type, card.ManaCost, boolToInt(card.HasFoil), boolToInt(card.HasNonFoil),
				marshalStrings(card.PromoTypes),
				card.Identifiers.ScryfallID, card.Identifiers.MultiverseID,
				card.Identifiers.MTGArenaID,
			); err != nil {
				return fmt.Errorf("failed to save card %s: %w", card.UUID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache: %w", err)
	}
	return nil
}

// LoadData reconstructs the full data snapshot from the cache. Returns nil
// when the cache is empty.
func (s *Service) LoadData(ctx context.Context) (*mtgjson.AllPrintings, error) {
	meta, err := s.GetMeta(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, nil
	}

	all := &mtgjson.AllPrintings{
		Meta: mtgjson.Meta{Version: meta.Version, Date: meta.ReleaseDate},
		Data: make(map[string]*mtgjson.Set),
	}

	setRows, err := s.db.Conn().QueryContext(ctx,
		`SELECT code, name, release_date, base_set_size, set_type, booster_json FROM sets`)
	if err != nil {
		return nil, fmt.Errorf("failed to load sets: %w", err)
	}
	defer func() { _ = setRows.Close() }()

	for setRows.Next() {
		var set mtgjson.Set
		var boosterJSON string
		if err := setRows.Scan(
			&set.Code, &set.Name, &set.ReleaseDate, &set.BaseSetSize, &set.Type, &boosterJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan set: %w", err)
		}
		if boosterJSON != "" {
			if err := json.Unmarshal([]byte(boosterJSON), &set.Booster); err != nil {
				return nil, fmt.Errorf("failed to parse booster config for %s: %w", set.Code, err)
			}
		}
		all.Data[set.Code] = &set
	}
	if err := setRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sets: %w", err)
	}

	cardRows, err := s.db.Conn().QueryContext(ctx, `
		SELECT uuid, set_code, name, number, rarity,
			colors, color_identity, types, supertypes, subtypes,
			type_line, mana_cost, has_foil, has_non_foil, promo_types,
			scryfall_id, multiverse_id, arena_id
		FROM cards`)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	defer func() { _ = cardRows.Close() }()

	for cardRows.Next() {
		var (
			card                                          mtgjson.Card
			colors, identity, types, supers, subs, promos string
			hasFoil, hasNonFoil                           int
		)
		if err := cardRows.Scan(
			&card.UUID, &card.SetCode, &card.Name, &card.Number, &card.Rarity,
			&colors, &identity, &types, &supers, &subs,
			&card.Type, &card.ManaCost, &hasFoil, &hasNonFoil, &promos,
			&card.Identifiers.ScryfallID, &card.Identifiers.MultiverseID,
			&card.Identifiers.MTGArenaID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}

		card.Colors = unmarshalStrings(colors)
		card.ColorIdentity = unmarshalStrings(identity)
		card.Types = unmarshalStrings(types)
		card.Supertypes = unmarshalStrings(supers)
		card.Subtypes = unmarshalStrings(subs)
		card.PromoTypes = unmarshalStrings(promos)
		card.HasFoil = hasFoil != 0
		card.HasNonFoil = hasNonFoil != 0

		set, ok := all.Data[card.SetCode]
		if !ok {
			continue
		}
		set.Cards = append(set.Cards, &card)
	}
	if err := cardRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return all, nil
}

func marshalStrings(s []string) string {
	if len(s) == 0 {
		return "[]"
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalStrings(data string) []string {
	if data == "" || data == "[]" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
