package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luoxiaofei/wulingo/internal/content"
	"github.com/luoxiaofei/wulingo/internal/model"
)

// Trait slots in character_traits.
const (
	traitSlotOwned     = "owned"
	traitSlotStartPool = "start_pool"
)

// CharacterRepository persists characters with their traits and manual
// progress. Save replaces the trait and manual rows wholesale inside one
// transaction, so a loaded character always matches the last save.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a new CharacterRepository.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Save upserts the character row and replaces its trait and manual rows
// in a single transaction.
func (r *CharacterRepository) Save(ctx context.Context, ch *model.Character) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for character %q: %w", ch.ID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("rollback failed", "characterID", ch.ID, "error", err)
		}
	}()

	if err := saveCharacterRow(ctx, tx, ch); err != nil {
		return err
	}
	if err := saveTraitRows(ctx, tx, ch); err != nil {
		return err
	}
	if err := saveManualRows(ctx, tx, ch); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction for character %q: %w", ch.ID, err)
	}

	slog.Debug("character saved",
		"characterID", ch.ID,
		"name", ch.Name,
		"traits", len(ch.Traits),
		"manualKinds", len(ch.Manuals))

	return nil
}

func saveCharacterRow(ctx context.Context, tx pgx.Tx, ch *model.Character) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO characters (id, name, comprehension, bone_structure, physique, martial_arts_attainment, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			comprehension = EXCLUDED.comprehension,
			bone_structure = EXCLUDED.bone_structure,
			physique = EXCLUDED.physique,
			martial_arts_attainment = EXCLUDED.martial_arts_attainment,
			updated_at = now()`,
		ch.ID, ch.Name, ch.Comprehension, ch.BoneStructure, ch.Physique, ch.MartialArtsAttainment,
	)
	if err != nil {
		return fmt.Errorf("saving character %q: %w", ch.ID, err)
	}
	return nil
}

func saveTraitRows(ctx context.Context, tx pgx.Tx, ch *model.Character) error {
	if _, err := tx.Exec(ctx, `DELETE FROM character_traits WHERE character_id = $1`, ch.ID); err != nil {
		return fmt.Errorf("deleting old traits for character %q: %w", ch.ID, err)
	}

	rows := make([][]any, 0, len(ch.Traits)+len(ch.StartTraitPool))
	for i, id := range ch.Traits {
		rows = append(rows, []any{ch.ID, id, traitSlotOwned, i})
	}
	for i, id := range ch.StartTraitPool {
		rows = append(rows, []any{ch.ID, id, traitSlotStartPool, i})
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"character_traits"},
		[]string{"character_id", "trait_id", "slot", "position"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting traits for character %q: %w", ch.ID, err)
	}
	return nil
}

func saveManualRows(ctx context.Context, tx pgx.Tx, ch *model.Character) error {
	if _, err := tx.Exec(ctx, `DELETE FROM character_manuals WHERE character_id = $1`, ch.ID); err != nil {
		return fmt.Errorf("deleting old manuals for character %q: %w", ch.ID, err)
	}

	var rows [][]any
	for kind, owned := range ch.Manuals {
		for id, prog := range owned {
			rows = append(rows, []any{
				ch.ID, string(kind), id, prog.Level, prog.Exp, ch.Equipped[kind] == id,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"character_manuals"},
		[]string{"character_id", "kind", "manual_id", "level", "exp", "equipped"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting manuals for character %q: %w", ch.ID, err)
	}
	return nil
}

// Load returns the character with the given id, traits and manual
// progress included. Returns nil, nil if the character does not exist.
func (r *CharacterRepository) Load(ctx context.Context, id string) (*model.Character, error) {
	ch := model.NewCharacter("", "")
	err := r.db.QueryRow(ctx,
		`SELECT id, name, comprehension, bone_structure, physique, martial_arts_attainment
		 FROM characters WHERE id = $1`, id,
	).Scan(&ch.ID, &ch.Name, &ch.Comprehension, &ch.BoneStructure, &ch.Physique, &ch.MartialArtsAttainment)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying character %q: %w", id, err)
	}

	if err := r.loadTraits(ctx, ch); err != nil {
		return nil, err
	}
	if err := r.loadManuals(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (r *CharacterRepository) loadTraits(ctx context.Context, ch *model.Character) error {
	rows, err := r.db.Query(ctx,
		`SELECT trait_id, slot FROM character_traits
		 WHERE character_id = $1 ORDER BY slot, position`, ch.ID)
	if err != nil {
		return fmt.Errorf("querying traits for character %q: %w", ch.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var traitID, slot string
		if err := rows.Scan(&traitID, &slot); err != nil {
			return fmt.Errorf("scanning trait row: %w", err)
		}
		switch slot {
		case traitSlotOwned:
			ch.Traits = append(ch.Traits, traitID)
		case traitSlotStartPool:
			ch.StartTraitPool = append(ch.StartTraitPool, traitID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating trait rows: %w", err)
	}
	return nil
}

func (r *CharacterRepository) loadManuals(ctx context.Context, ch *model.Character) error {
	rows, err := r.db.Query(ctx,
		`SELECT kind, manual_id, level, exp, equipped FROM character_manuals
		 WHERE character_id = $1 ORDER BY kind, manual_id`, ch.ID)
	if err != nil {
		return fmt.Errorf("querying manuals for character %q: %w", ch.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind, manualID string
			level, exp     int
			equipped       bool
		)
		if err := rows.Scan(&kind, &manualID, &level, &exp, &equipped); err != nil {
			return fmt.Errorf("scanning manual row: %w", err)
		}
		k := content.ManualKind(kind)
		if ch.Manuals[k] == nil {
			ch.Manuals[k] = make(map[string]*model.OwnedManual)
		}
		ch.Manuals[k][manualID] = &model.OwnedManual{Level: level, Exp: exp}
		if equipped {
			ch.Equipped[k] = manualID
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating manual rows: %w", err)
	}
	return nil
}

// Delete removes the character. Trait and manual rows go with it via
// the cascade. Deleting a missing character is not an error.
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting character %q: %w", id, err)
	}
	return nil
}
