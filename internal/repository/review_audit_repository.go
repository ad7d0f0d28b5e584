package repository

import (
	"context"
	"time"

	"skill-match/internal/database"

	"github.com/google/uuid"
)

const (
	AuditApprovedCanonical = "approved_canonical"
	AuditApprovedVariation = "approved_variation"
	AuditRejected          = "rejected"
)

type ReviewAudit struct {
	ID        uuid.UUID
	SkillName string
	Action    string
	Detail    string
	CreatedAt time.Time
}

type ReviewAuditRepository interface {
	Insert(ctx context.Context, entry ReviewAudit) error
}

type PostgresReviewAuditRepository struct {
	db database.DB
}

func NewPostgresReviewAuditRepository(db database.DB) *PostgresReviewAuditRepository {
	return &PostgresReviewAuditRepository{db: db}
}

func (r *PostgresReviewAuditRepository) Insert(ctx context.Context, entry ReviewAudit) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO review_audit (id, skill_name, action, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.SkillName, entry.Action, entry.Detail, entry.CreatedAt,
	)
	return err
}
