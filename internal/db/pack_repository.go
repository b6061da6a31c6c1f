package db

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/blake2b"

	"github.com/luoxiaofei/wulingo/internal/content"
)

// PackRepository stores content packs. Manuals, traits and events live
// in JSONB columns keyed by pack name, so a pack round-trips through the
// same wire shapes the decoder accepts.
type PackRepository struct {
	db *pgxpool.Pool
}

// NewPackRepository creates a new PackRepository.
func NewPackRepository(db *pgxpool.Pool) *PackRepository {
	return &PackRepository{db: db}
}

// PackDigest returns the hex blake2b-256 digest of the pack's canonical
// JSON encoding. Save compares it against the stored digest to detect
// unchanged packs.
func PackDigest(p *content.Pack) (string, error) {
	data, err := p.Encode()
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Save upserts the pack by name. When the stored digest already matches
// the pack's content no write happens. Returns true when the pack was
// written, false when the write was skipped.
func (r *PackRepository) Save(ctx context.Context, p *content.Pack) (bool, error) {
	digest, err := PackDigest(p)
	if err != nil {
		return false, fmt.Errorf("computing digest for pack %q: %w", p.Name, err)
	}

	var stored string
	err = r.db.QueryRow(ctx, `SELECT digest FROM packs WHERE name = $1`, p.Name).Scan(&stored)
	if err != nil && err != pgx.ErrNoRows {
		return false, fmt.Errorf("querying pack %q: %w", p.Name, err)
	}
	if err == nil && stored == digest {
		slog.Debug("pack unchanged, skipping write", "pack", p.Name)
		return false, nil
	}

	manuals, err := json.Marshal(p.Manuals)
	if err != nil {
		return false, fmt.Errorf("encoding manuals for pack %q: %w", p.Name, err)
	}
	traits, err := json.Marshal(p.Traits)
	if err != nil {
		return false, fmt.Errorf("encoding traits for pack %q: %w", p.Name, err)
	}
	events, err := json.Marshal(p.Events)
	if err != nil {
		return false, fmt.Errorf("encoding events for pack %q: %w", p.Name, err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO packs (name, version, author, manuals, traits, events, digest, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (name) DO UPDATE SET
			version = EXCLUDED.version,
			author = EXCLUDED.author,
			manuals = EXCLUDED.manuals,
			traits = EXCLUDED.traits,
			events = EXCLUDED.events,
			digest = EXCLUDED.digest,
			updated_at = now()`,
		p.Name, p.Version, p.Author, manuals, traits, events, digest,
	)
	if err != nil {
		return false, fmt.Errorf("saving pack %q: %w", p.Name, err)
	}

	slog.Debug("pack saved",
		"pack", p.Name,
		"version", p.Version,
		"manuals", len(p.Manuals),
		"traits", len(p.Traits),
		"events", len(p.Events))

	return true, nil
}

// Load returns the pack with the given name.
// Returns nil, nil if the pack does not exist.
func (r *PackRepository) Load(ctx context.Context, name string) (*content.Pack, error) {
	var (
		p       content.Pack
		manuals []byte
		traits  []byte
		events  []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT name, version, author, manuals, traits, events
		 FROM packs WHERE name = $1`, name,
	).Scan(&p.Name, &p.Version, &p.Author, &manuals, &traits, &events)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying pack %q: %w", name, err)
	}

	if err := json.Unmarshal(manuals, &p.Manuals); err != nil {
		return nil, fmt.Errorf("decoding manuals for pack %q: %w", name, err)
	}
	if err := json.Unmarshal(traits, &p.Traits); err != nil {
		return nil, fmt.Errorf("decoding traits for pack %q: %w", name, err)
	}
	if err := json.Unmarshal(events, &p.Events); err != nil {
		return nil, fmt.Errorf("decoding events for pack %q: %w", name, err)
	}
	return &p, nil
}

// List returns all stored packs ordered by name.
func (r *PackRepository) List(ctx context.Context) ([]*content.Pack, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name FROM packs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing packs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning pack name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pack rows: %w", err)
	}

	packs := make([]*content.Pack, 0, len(names))
	for _, name := range names {
		p, err := r.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		if p != nil {
			packs = append(packs, p)
		}
	}
	return packs, nil
}

// Delete removes the pack with the given name. Deleting a missing pack
// is not an error.
func (r *PackRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM packs WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting pack %q: %w", name, err)
	}
	return nil
}
