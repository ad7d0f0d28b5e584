package seeder

import (
	"context"
	"fmt"

	"skill-match/internal/database"
	"skill-match/internal/domain/dictionary"
	"skill-match/internal/domain/taxonomy"
)

// ResumesSeeder loads a handful of sample candidate profiles for the matching
// endpoints to chew on. Skill names are canonical terms from the starter
// dictionary and every resume is pinned to dictionary version 1. The seeder
// skips entirely once any resume exists.
type ResumesSeeder struct{}

func (ResumesSeeder) Name() string { return "resumes" }

type seedResume struct {
	ID     string
	Name   string
	Skills map[taxonomy.TechLayer][]taxonomy.SkillTerm
}

func (ResumesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "resumes", "id", "candidate_name", "dictionary_version", "created_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "resume_skills", "id", "resume_id", "layer", "skill_name", "weight", "resolved", "position"); err != nil {
		return err
	}

	var existing int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM resumes`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, res := range sampleResumes() {
		_, err := tx.Exec(ctx,
			`INSERT INTO resumes (id, candidate_name, dictionary_version, created_at)
			 VALUES ($1, $2, $3, NOW())`,
			res.ID, res.Name, dictionary.FirstVersion,
		)
		if err != nil {
			return err
		}

		for _, layer := range taxonomy.Layers() {
			for pos, term := range res.Skills[layer] {
				_, err := tx.Exec(ctx,
					`INSERT INTO resume_skills (id, resume_id, layer, skill_name, weight, resolved, position)
					 VALUES (gen_random_uuid(), $1, $2, $3, $4, TRUE, $5)`,
					res.ID, string(layer), term.Name, term.Weight, pos,
				)
				if err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func sampleResumes() []seedResume {
	return []seedResume{
		{
			ID:   "7a1c9f2e-4b3d-4a6e-8c5f-a1b2c3d4e501",
			Name: "Ada Pramesti",
			Skills: map[taxonomy.TechLayer][]taxonomy.SkillTerm{
				taxonomy.LayerFrontend: {
					{Name: "React", Weight: 0.7},
					{Name: "TypeScript", Weight: 0.3},
				},
				taxonomy.LayerBackend: {
					{Name: "Go", Weight: 0.6},
					{Name: "Node.js", Weight: 0.4},
				},
				taxonomy.LayerDatabase: {
					{Name: "PostgreSQL", Weight: 1.0},
				},
			},
		},
		{
			ID:   "7a1c9f2e-4b3d-4a6e-8c5f-a1b2c3d4e502",
			Name: "Bagus Wicaksono",
			Skills: map[taxonomy.TechLayer][]taxonomy.SkillTerm{
				taxonomy.LayerBackend: {
					{Name: "Go", Weight: 0.5},
					{Name: "Python", Weight: 0.5},
				},
				taxonomy.LayerDatabase: {
					{Name: "PostgreSQL", Weight: 0.6},
					{Name: "Redis", Weight: 0.4},
				},
				taxonomy.LayerDevops: {
					{Name: "Docker", Weight: 0.5},
					{Name: "Kubernetes", Weight: 0.5},
				},
			},
		},
		{
			ID:   "7a1c9f2e-4b3d-4a6e-8c5f-a1b2c3d4e503",
			Name: "Citra Maharani",
			Skills: map[taxonomy.TechLayer][]taxonomy.SkillTerm{
				taxonomy.LayerFrontend: {
					{Name: "React", Weight: 0.5},
					{Name: "Vue", Weight: 0.3},
					{Name: "JavaScript", Weight: 0.2},
				},
				taxonomy.LayerOthers: {
					{Name: "Git", Weight: 1.0},
				},
			},
		},
	}
}
