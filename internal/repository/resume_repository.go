package repository

import (
	"context"
	"errors"
	"time"

	"skill-match/internal/database"
	"skill-match/internal/domain/taxonomy"

	"github.com/google/uuid"
)

var ErrResumeNotFound = errors.New("resume not found")

type Resume struct {
	ID                uuid.UUID
	CandidateName     string
	Skills            taxonomy.LayerSkills
	DictionaryVersion string
	CreatedAt         time.Time
}

type ResumeRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Resume, error)
	List(ctx context.Context) ([]Resume, error)
}

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (Resume, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, candidate_name, dictionary_version, created_at FROM resumes WHERE id = $1`,
		id,
	)

	var res Resume
	if err := row.Scan(&res.ID, &res.CandidateName, &res.DictionaryVersion, &res.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return Resume{}, ErrResumeNotFound
		}
		return Resume{}, err
	}

	skills, err := r.loadSkills(ctx, []uuid.UUID{res.ID})
	if err != nil {
		return Resume{}, err
	}
	res.Skills = skills[res.ID]
	if res.Skills == nil {
		res.Skills = taxonomy.LayerSkills{}
	}
	return res, nil
}

func (r *PostgresResumeRepository) List(ctx context.Context) ([]Resume, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, candidate_name, dictionary_version, created_at FROM resumes ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var res Resume
		if err := rows.Scan(&res.ID, &res.CandidateName, &res.DictionaryVersion, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
		ids = append(ids, res.ID)
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

func (r *PostgresResumeRepository) loadSkills(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]taxonomy.LayerSkills, error) {
	rows, err := r.db.Query(ctx,
		`SELECT resume_id, layer, skill_name, weight, resolved
		 FROM resume_skills
		 WHERE resume_id = ANY($1)
		 ORDER BY resume_id, layer, position`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]taxonomy.LayerSkills, len(ids))
	for rows.Next() {
		var (
			resumeID uuid.UUID
			layer    string
			name     string
			weight   float64
			resolved bool
		)
		if err := rows.Scan(&resumeID, &layer, &name, &weight, &resolved); err != nil {
			return nil, err
		}
		if out[resumeID] == nil {
			out[resumeID] = taxonomy.LayerSkills{}
		}
		l := taxonomy.TechLayer(layer)
		out[resumeID][l] = append(out[resumeID][l], taxonomy.SkillTerm{Name: name, Weight: weight, Resolved: resolved})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
