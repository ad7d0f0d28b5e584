package repository

import (
	"context"
	"time"

	"skill-match/internal/database"
	"skill-match/internal/domain/taxonomy"
)

// SkillUsage counts one canonical skill across stored JD specs and resumes.
// Unresolved terms never show up here.
type SkillUsage struct {
	SkillName   string
	Layer       taxonomy.TechLayer
	SpecCount   int
	ResumeCount int
}

type SkillStatsRepository interface {
	UsageCounts(ctx context.Context, layer string, from, to *time.Time) ([]SkillUsage, error)
}

type PostgresSkillStatsRepository struct {
	db database.DB
}

func NewPostgresSkillStatsRepository(db database.DB) *PostgresSkillStatsRepository {
	return &PostgresSkillStatsRepository{db: db}
}

func (r *PostgresSkillStatsRepository) UsageCounts(ctx context.Context, layer string, from, to *time.Time) ([]SkillUsage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT skill_name, layer,
			COALESCE(SUM(spec_count), 0)::int,
			COALESCE(SUM(resume_count), 0)::int
		 FROM (
			SELECT s.skill_name, s.layer, 1 AS spec_count, 0 AS resume_count
			FROM jd_spec_skills s
			JOIN jd_specs p ON p.id = s.spec_id
			WHERE s.resolved
			  AND ($1 = '' OR s.layer = $1)
			  AND ($2::timestamptz IS NULL OR p.created_at >= $2)
			  AND ($3::timestamptz IS NULL OR p.created_at <= $3)
			UNION ALL
			SELECT s.skill_name, s.layer, 0, 1
			FROM resume_skills s
			JOIN resumes p ON p.id = s.resume_id
			WHERE s.resolved
			  AND ($1 = '' OR s.layer = $1)
			  AND ($2::timestamptz IS NULL OR p.created_at >= $2)
			  AND ($3::timestamptz IS NULL OR p.created_at <= $3)
		 ) u
		 GROUP BY skill_name, layer
		 ORDER BY SUM(spec_count + resume_count) DESC, skill_name ASC`,
		layer, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillUsage, 0)
	for rows.Next() {
		var (
			u SkillUsage
			l string
		)
		if err := rows.Scan(&u.SkillName, &l, &u.SpecCount, &u.ResumeCount); err != nil {
			return nil, err
		}
		u.Layer = taxonomy.TechLayer(l)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
