package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"skill-match/internal/database"
	"skill-match/internal/domain/dictionary"
	"skill-match/internal/domain/taxonomy"
)

// DictionarySeeder publishes a starter dictionary as version 1 so a fresh
// install can normalize common terms before anyone curates the queue. It never
// touches a database that already holds a version.
type DictionarySeeder struct{}

func (DictionarySeeder) Name() string { return "dictionary" }

func (DictionarySeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "dictionary_versions", "version", "document", "created_at"); err != nil {
		return err
	}

	var existing int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM dictionary_versions`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	now := time.Now().UTC()
	doc := dictionary.Document{
		Version:   dictionary.FirstVersion,
		Skills:    starterSkills(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Round-trip through the domain builder so a bad seed fails here, not on
	// the first normalize call.
	if _, err := dictionary.FromDocument(doc); err != nil {
		return fmt.Errorf("starter dictionary invalid: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	version, err := strconv.ParseInt(doc.Version, 10, 64)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO dictionary_versions (version, document, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (version) DO NOTHING`,
		version, raw, now,
	)
	return err
}

func starterSkills() []dictionary.CanonicalSkill {
	s := func(name string, layer taxonomy.TechLayer, variations ...string) dictionary.CanonicalSkill {
		if variations == nil {
			variations = []string{}
		}
		return dictionary.CanonicalSkill{Name: name, Category: layer, Variations: variations}
	}

	return []dictionary.CanonicalSkill{
		s("React", taxonomy.LayerFrontend, "react.js", "reactjs"),
		s("Vue", taxonomy.LayerFrontend, "vue.js", "vuejs"),
		s("Angular", taxonomy.LayerFrontend),
		s("JavaScript", taxonomy.LayerFrontend, "js"),
		s("TypeScript", taxonomy.LayerFrontend, "ts"),

		s("Go", taxonomy.LayerBackend, "golang"),
		s("Node.js", taxonomy.LayerBackend, "node", "nodejs"),
		s("Python", taxonomy.LayerBackend),
		s("Java", taxonomy.LayerBackend),

		s("PostgreSQL", taxonomy.LayerDatabase, "postgres", "psql"),
		s("MySQL", taxonomy.LayerDatabase),
		s("MongoDB", taxonomy.LayerDatabase, "mongo"),
		s("Redis", taxonomy.LayerDatabase),

		s("AWS", taxonomy.LayerCloud, "amazon web services"),
		s("GCP", taxonomy.LayerCloud, "google cloud", "google cloud platform"),
		s("Azure", taxonomy.LayerCloud),

		s("Docker", taxonomy.LayerDevops),
		s("Kubernetes", taxonomy.LayerDevops, "k8s"),
		s("Terraform", taxonomy.LayerDevops),

		s("Git", taxonomy.LayerOthers),
		s("GraphQL", taxonomy.LayerOthers),
		s("Linux", taxonomy.LayerOthers),
	}
}
