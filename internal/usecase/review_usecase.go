package usecase

import (
	"context"
	"errors"
	"time"

	"skill-match/internal/pkg/logging"
	"skill-match/internal/repository"
	"skill-match/internal/ws"

	"github.com/google/uuid"
)

var ErrReviewItemNotFound = errors.New("review item not found")

type ReviewItem struct {
	Name      string
	Frequency int
	FirstSeen time.Time
	LastSeen  time.Time
	Sources   []string
}

type ReviewDecision struct {
	SkillName         string
	Action            string
	DictionaryVersion string
}

type ReviewUsecase interface {
	ListPending(ctx context.Context) ([]ReviewItem, error)
	RecordUnknown(ctx context.Context, name, sourceID string) error
	ApproveAsCanonical(ctx context.Context, name, category string) (ReviewDecision, error)
	ApproveAsVariation(ctx context.Context, name, canonicalName string) (ReviewDecision, error)
	Reject(ctx context.Context, name, reason string) (ReviewDecision, error)
}

// Review runs the human-in-the-loop queue for vocabulary the normalizer could
// not resolve. Terminal decisions remove the queue item; only approvals touch
// the dictionary. Specs built before a decision stay pinned to their version.
type Review struct {
	unknowns repository.UnknownSkillRepository
	audits   repository.ReviewAuditRepository
	dict     DictionaryUsecase
	logger   *logging.Logger
}

func NewReviewUsecase(
	unknowns repository.UnknownSkillRepository,
	audits repository.ReviewAuditRepository,
	dict DictionaryUsecase,
	logger *logging.Logger,
) *Review {
	return &Review{unknowns: unknowns, audits: audits, dict: dict, logger: logger}
}

func (u *Review) ListPending(ctx context.Context) ([]ReviewItem, error) {
	items, err := u.unknowns.List(ctx)
	if err != nil {
		u.logger.Error("list unknown skills", "error", err)
		return nil, ErrInternal
	}

	out := make([]ReviewItem, 0, len(items))
	for _, it := range items {
		out = append(out, ReviewItem{
			Name:      it.DisplayName,
			Frequency: it.Frequency,
			FirstSeen: it.FirstSeen,
			LastSeen:  it.LastSeen,
			Sources:   it.Sources,
		})
	}
	return out, nil
}

func (u *Review) RecordUnknown(ctx context.Context, name, sourceID string) error {
	item, err := u.unknowns.Record(ctx, name, sourceID, time.Now().UTC())
	if err != nil {
		u.logger.Error("record unknown skill", "skill", name, "error", err)
		return ErrInternal
	}
	ws.NotifyUnknownRecorded(item.DisplayName, item.Frequency)
	return nil
}

func (u *Review) ApproveAsCanonical(ctx context.Context, name, category string) (ReviewDecision, error) {
	item, err := u.getPending(ctx, name)
	if err != nil {
		return ReviewDecision{}, err
	}

	snap, err := u.dict.AddSkill(ctx, item.DisplayName, category)
	if err != nil {
		return ReviewDecision{}, err
	}

	u.removePending(ctx, item.NameKey)
	u.audit(ctx, item.DisplayName, repository.AuditApprovedCanonical, "category="+category)
	ws.NotifyReviewResolved(item.DisplayName, repository.AuditApprovedCanonical, snap.Version())

	return ReviewDecision{
		SkillName:         item.DisplayName,
		Action:            repository.AuditApprovedCanonical,
		DictionaryVersion: snap.Version(),
	}, nil
}

func (u *Review) ApproveAsVariation(ctx context.Context, name, canonicalName string) (ReviewDecision, error) {
	item, err := u.getPending(ctx, name)
	if err != nil {
		return ReviewDecision{}, err
	}

	snap, err := u.dict.AddVariation(ctx, item.DisplayName, canonicalName)
	if err != nil {
		return ReviewDecision{}, err
	}

	u.removePending(ctx, item.NameKey)
	u.audit(ctx, item.DisplayName, repository.AuditApprovedVariation, "canonical="+canonicalName)
	ws.NotifyReviewResolved(item.DisplayName, repository.AuditApprovedVariation, snap.Version())

	return ReviewDecision{
		SkillName:         item.DisplayName,
		Action:            repository.AuditApprovedVariation,
		DictionaryVersion: snap.Version(),
	}, nil
}

func (u *Review) Reject(ctx context.Context, name, reason string) (ReviewDecision, error) {
	item, err := u.getPending(ctx, name)
	if err != nil {
		return ReviewDecision{}, err
	}

	if err := u.unknowns.Delete(ctx, item.NameKey); err != nil {
		if errors.Is(err, repository.ErrUnknownSkillNotFound) {
			return ReviewDecision{}, ErrReviewItemNotFound
		}
		u.logger.Error("delete unknown skill", "skill", item.NameKey, "error", err)
		return ReviewDecision{}, ErrInternal
	}

	u.audit(ctx, item.DisplayName, repository.AuditRejected, reason)
	ws.NotifyReviewResolved(item.DisplayName, repository.AuditRejected, "")

	return ReviewDecision{SkillName: item.DisplayName, Action: repository.AuditRejected}, nil
}

func (u *Review) getPending(ctx context.Context, name string) (repository.UnknownSkill, error) {
	item, err := u.unknowns.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownSkillNotFound) {
			return repository.UnknownSkill{}, ErrReviewItemNotFound
		}
		u.logger.Error("load unknown skill", "skill", name, "error", err)
		return repository.UnknownSkill{}, ErrInternal
	}
	return item, nil
}

// removePending clears the queue entry after the dictionary mutation has
// committed. A failure here leaves a stale queue row but must not undo the
// published version, so it is logged and swallowed.
func (u *Review) removePending(ctx context.Context, nameKey string) {
	if err := u.unknowns.Delete(ctx, nameKey); err != nil && !errors.Is(err, repository.ErrUnknownSkillNotFound) {
		u.logger.Warn("clear review queue item", "skill", nameKey, "error", err)
	}
}

func (u *Review) audit(ctx context.Context, skillName, action, detail string) {
	err := u.audits.Insert(ctx, repository.ReviewAudit{
		ID:        uuid.New(),
		SkillName: skillName,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		u.logger.Warn("write review audit", "skill", skillName, "action", action, "error", err)
	}
}
