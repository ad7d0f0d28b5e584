package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"skill-match/internal/database"
	"skill-match/internal/domain/taxonomy"

	"github.com/google/uuid"
)

var ErrJDSpecNotFound = errors.New("jd spec not found")

type JDSpec struct {
	ID                uuid.UUID
	Role              string
	LayerWeights      taxonomy.LayerWeights
	Skills            taxonomy.LayerSkills
	DictionaryVersion string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type JDSpecRepository interface {
	Create(ctx context.Context, spec JDSpec) error
	Update(ctx context.Context, spec JDSpec) error
	GetByID(ctx context.Context, id uuid.UUID) (JDSpec, error)
	List(ctx context.Context, limit, offset int) ([]JDSpec, error)
	ListExcept(ctx context.Context, id uuid.UUID) ([]JDSpec, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type PostgresJDSpecRepository struct {
	db database.DB
}

func NewPostgresJDSpecRepository(db database.DB) *PostgresJDSpecRepository {
	return &PostgresJDSpecRepository{db: db}
}

func (r *PostgresJDSpecRepository) Create(ctx context.Context, spec JDSpec) error {
	weights, err := json.Marshal(spec.LayerWeights)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO jd_specs (id, role, layer_weights, dictionary_version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		spec.ID, spec.Role, weights, spec.DictionaryVersion, spec.CreatedAt, spec.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertSpecSkills(ctx, tx, spec.ID, spec.Skills); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresJDSpecRepository) Update(ctx context.Context, spec JDSpec) error {
	weights, err := json.Marshal(spec.LayerWeights)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	affected, err := tx.Exec(ctx,
		`UPDATE jd_specs SET role = $2, layer_weights = $3, dictionary_version = $4, updated_at = $5 WHERE id = $1`,
		spec.ID, spec.Role, weights, spec.DictionaryVersion, spec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJDSpecNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM jd_spec_skills WHERE spec_id = $1`, spec.ID); err != nil {
		return err
	}
	if err := insertSpecSkills(ctx, tx, spec.ID, spec.Skills); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresJDSpecRepository) GetByID(ctx context.Context, id uuid.UUID) (JDSpec, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, role, layer_weights, dictionary_version, created_at, updated_at FROM jd_specs WHERE id = $1`,
		id,
	)

	spec, err := scanSpec(row)
	if err != nil {
		if database.IsNoRows(err) {
			return JDSpec{}, ErrJDSpecNotFound
		}
		return JDSpec{}, err
	}

	skills, err := r.loadSkills(ctx, []uuid.UUID{spec.ID})
	if err != nil {
		return JDSpec{}, err
	}
	spec.Skills = skills[spec.ID]
	if spec.Skills == nil {
		spec.Skills = taxonomy.LayerSkills{}
	}
	return spec, nil
}

func (r *PostgresJDSpecRepository) List(ctx context.Context, limit, offset int) ([]JDSpec, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, role, layer_weights, dictionary_version, created_at, updated_at
		 FROM jd_specs
		 ORDER BY created_at DESC, id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return r.collectSpecs(ctx, rows)
}

func (r *PostgresJDSpecRepository) ListExcept(ctx context.Context, id uuid.UUID) ([]JDSpec, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, role, layer_weights, dictionary_version, created_at, updated_at
		 FROM jd_specs
		 WHERE id <> $1
		 ORDER BY created_at DESC, id`,
		id,
	)
	if err != nil {
		return nil, err
	}
	return r.collectSpecs(ctx, rows)
}

func (r *PostgresJDSpecRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM jd_specs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJDSpecNotFound
	}
	return nil
}

func (r *PostgresJDSpecRepository) Count(ctx context.Context) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jd_specs`)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresJDSpecRepository) collectSpecs(ctx context.Context, rows database.Rows) ([]JDSpec, error) {
	defer rows.Close()

	out := make([]JDSpec, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		spec, err := scanSpec(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
		ids = append(ids, spec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	skills, err := r.loadSkills(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Skills = skills[out[i].ID]
		if out[i].Skills == nil {
			out[i].Skills = taxonomy.LayerSkills{}
		}
	}
	return out, nil
}

func (r *PostgresJDSpecRepository) loadSkills(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]taxonomy.LayerSkills, error) {
	rows, err := r.db.Query(ctx,
		`SELECT spec_id, layer, skill_name, weight, resolved
		 FROM jd_spec_skills
		 WHERE spec_id = ANY($1)
		 ORDER BY spec_id, layer, position`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]taxonomy.LayerSkills, len(ids))
	for rows.Next() {
		var (
			specID   uuid.UUID
			layer    string
			name     string
			weight   float64
			resolved bool
		)
		if err := rows.Scan(&specID, &layer, &name, &weight, &resolved); err != nil {
			return nil, err
		}
		if out[specID] == nil {
			out[specID] = taxonomy.LayerSkills{}
		}
		l := taxonomy.TechLayer(layer)
		out[specID][l] = append(out[specID][l], taxonomy.SkillTerm{Name: name, Weight: weight, Resolved: resolved})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpec(row rowScanner) (JDSpec, error) {
	var (
		spec       JDSpec
		rawWeights []byte
	)
	if err := row.Scan(&spec.ID, &spec.Role, &rawWeights, &spec.DictionaryVersion, &spec.CreatedAt, &spec.UpdatedAt); err != nil {
		return JDSpec{}, err
	}
	if err := json.Unmarshal(rawWeights, &spec.LayerWeights); err != nil {
		return JDSpec{}, err
	}
	return spec, nil
}

func insertSpecSkills(ctx context.Context, tx database.Tx, specID uuid.UUID, skills taxonomy.LayerSkills) error {
	for _, layer := range taxonomy.Layers() {
		for pos, term := range skills[layer] {
			_, err := tx.Exec(ctx,
				`INSERT INTO jd_spec_skills (id, spec_id, layer, skill_name, weight, resolved, position)
				 VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)`,
				specID, string(layer), term.Name, term.Weight, term.Resolved, pos,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
