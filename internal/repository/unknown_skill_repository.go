package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"skill-match/internal/database"
)

var ErrUnknownSkillNotFound = errors.New("unknown skill not found")

// UnknownSkill is one pending review-queue item. NameKey is the folded
// identity; DisplayName keeps the first-seen spelling.
type UnknownSkill struct {
	NameKey     string
	DisplayName string
	Frequency   int
	FirstSeen   time.Time
	LastSeen    time.Time
	Sources     []string
}

type UnknownSkillRepository interface {
	Record(ctx context.Context, displayName, sourceID string, now time.Time) (UnknownSkill, error)
	List(ctx context.Context) ([]UnknownSkill, error)
	GetByName(ctx context.Context, name string) (UnknownSkill, error)
	Delete(ctx context.Context, name string) error
}

type PostgresUnknownSkillRepository struct {
	db database.DB
}

func NewPostgresUnknownSkillRepository(db database.DB) *PostgresUnknownSkillRepository {
	return &PostgresUnknownSkillRepository{db: db}
}

func (r *PostgresUnknownSkillRepository) Record(ctx context.Context, displayName, sourceID string, now time.Time) (UnknownSkill, error) {
	displayName = strings.TrimSpace(displayName)
	key := strings.ToLower(displayName)

	row := r.db.QueryRow(ctx,
		`INSERT INTO unknown_skills (name_key, display_name, frequency, first_seen, last_seen, sources)
		 VALUES ($1, $2, 1, $3, $3, ARRAY[$4::text])
		 ON CONFLICT (name_key) DO UPDATE SET
			frequency = unknown_skills.frequency + 1,
			last_seen = EXCLUDED.last_seen,
			sources = CASE WHEN EXCLUDED.sources[1] = ANY (unknown_skills.sources)
				THEN unknown_skills.sources
				ELSE unknown_skills.sources || EXCLUDED.sources END
		 RETURNING name_key, display_name, frequency, first_seen, last_seen, sources`,
		key, displayName, now, sourceID,
	)

	var item UnknownSkill
	if err := row.Scan(&item.NameKey, &item.DisplayName, &item.Frequency, &item.FirstSeen, &item.LastSeen, &item.Sources); err != nil {
		return UnknownSkill{}, err
	}
	return item, nil
}

func (r *PostgresUnknownSkillRepository) List(ctx context.Context) ([]UnknownSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name_key, display_name, frequency, first_seen, last_seen, sources
		 FROM unknown_skills
		 ORDER BY frequency DESC, name_key ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UnknownSkill, 0)
	for rows.Next() {
		var item UnknownSkill
		if err := rows.Scan(&item.NameKey, &item.DisplayName, &item.Frequency, &item.FirstSeen, &item.LastSeen, &item.Sources); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUnknownSkillRepository) GetByName(ctx context.Context, name string) (UnknownSkill, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	row := r.db.QueryRow(ctx,
		`SELECT name_key, display_name, frequency, first_seen, last_seen, sources
		 FROM unknown_skills WHERE name_key = $1`,
		key,
	)

	var item UnknownSkill
	if err := row.Scan(&item.NameKey, &item.DisplayName, &item.Frequency, &item.FirstSeen, &item.LastSeen, &item.Sources); err != nil {
		if database.IsNoRows(err) {
			return UnknownSkill{}, ErrUnknownSkillNotFound
		}
		return UnknownSkill{}, err
	}
	return item, nil
}

func (r *PostgresUnknownSkillRepository) Delete(ctx context.Context, name string) error {
	key := strings.ToLower(strings.TrimSpace(name))
	affected, err := r.db.Exec(ctx, `DELETE FROM unknown_skills WHERE name_key = $1`, key)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUnknownSkillNotFound
	}
	return nil
}
