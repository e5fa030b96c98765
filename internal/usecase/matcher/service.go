package matcher

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/simaogato/charityflow-backend/internal/domain"
	"github.com/simaogato/charityflow-backend/internal/usecase/allocator"
)

var tracer = otel.Tracer("github.com/simaogato/charityflow-backend/internal/usecase/matcher")

// MatchService distributes a newly created entity over the open entities of the other kind
type MatchService struct {
	Store     domain.FundStore
	Locker    domain.MatchLocker    // Optional: nil relies on the store isolation alone
	Publisher domain.EventPublisher // Optional: nil disables closure events
	Logger    logrus.FieldLogger
}

// NewMatchService creates a new MatchService instance
func NewMatchService(
	store domain.FundStore,
	locker domain.MatchLocker,
	publisher domain.EventPublisher,
	logger logrus.FieldLogger,
) *MatchService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MatchService{
		Store:     store,
		Locker:    locker,
		Publisher: publisher,
		Logger:    logger,
	}
}

// outcome summarizes a single match run
type outcome struct {
	moved   int64
	touched int
	closed  []domain.Fundable
}

// MatchNew allocates newEntity against every open entity of counterpartKind
// Logic:
//  1. Already closed entities are returned untouched (no store access)
//  2. Re-read newEntity inside the unit of work; a concurrent run may have funded it since insert
//  3. Load open counterparts ordered by (create_date, id)
//  4. Transfer counterpart by counterpart, stopping as soon as newEntity is exhausted
//  5. Commit newEntity and every touched counterpart in one unit of work
//  6. Reload newEntity so the caller sees the committed state
//
// Store failures are returned wrapped and are not retried.
func (s *MatchService) MatchNew(ctx context.Context, newEntity domain.Fundable, counterpartKind domain.FundKind) (domain.Fundable, error) {
	if newEntity.Funding().FullyInvested {
		return newEntity, nil
	}

	if counterpartKind != newEntity.Kind().Counterpart() {
		return nil, fmt.Errorf("%w: cannot match %s against %s", domain.ErrInvalidCounterpart, newEntity.Kind(), counterpartKind)
	}

	matchID := uuid.New()
	log := s.Logger.WithFields(logrus.Fields{
		"match_id":         matchID.String(),
		"kind":             string(newEntity.Kind()),
		"entity_id":        newEntity.Funding().ID,
		"counterpart_kind": string(counterpartKind),
	})

	ctx, span := tracer.Start(ctx, "matcher.MatchNew", trace.WithAttributes(
		attribute.String("match.id", matchID.String()),
		attribute.String("match.kind", string(newEntity.Kind())),
		attribute.Int64("match.entity_id", newEntity.Funding().ID),
	))
	defer span.End()

	if s.Locker != nil {
		unlock, err := s.Locker.Lock(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "lock")
			return nil, fmt.Errorf("failed to acquire match lock: %w", err)
		}
		defer unlock()
	}

	result, err := s.match(ctx, newEntity, counterpartKind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "match")
		log.WithError(err).Error("match run failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("match.moved", result.moved),
		attribute.Int("match.touched", result.touched),
		attribute.Int("match.closed", len(result.closed)),
	)
	log.WithFields(logrus.Fields{
		"moved":   result.moved,
		"touched": result.touched,
		"closed":  len(result.closed),
	}).Info("match run committed")

	refreshed, err := s.Store.Reload(ctx, newEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s %d: %w", newEntity.Kind(), newEntity.Funding().ID, err)
	}

	s.publishClosed(ctx, matchID, result.closed, log)

	return refreshed, nil
}

// match runs the ordered allocation loop inside one unit of work
func (s *MatchService) match(ctx context.Context, newEntity domain.Fundable, counterpartKind domain.FundKind) (*outcome, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin match: %w", err)
	}
	defer tx.Rollback()

	current, err := tx.Get(ctx, newEntity.Kind(), newEntity.Funding().ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", newEntity.Kind(), newEntity.Funding().ID, err)
	}
	newEntity = current

	result := &outcome{}
	if newEntity.Funding().FullyInvested {
		return result, nil
	}

	counterparts, err := tx.ListOpen(ctx, counterpartKind)
	if err != nil {
		return nil, fmt.Errorf("failed to list open %s entities: %w", counterpartKind, err)
	}

	mutated := make([]domain.Fundable, 0, len(counterparts)+1)

	for _, counterpart := range counterparts {
		// Early exit: later counterparts are not touched at all
		if newEntity.Funding().Exhausted() {
			break
		}

		wasClosed := counterpart.Funding().FullyInvested
		result.moved += allocator.Transfer(newEntity, counterpart)
		result.touched++
		if !wasClosed && counterpart.Funding().FullyInvested {
			result.closed = append(result.closed, counterpart)
		}
		mutated = append(mutated, counterpart)
	}

	if newEntity.Funding().FullyInvested {
		result.closed = append(result.closed, newEntity)
	}
	mutated = append(mutated, newEntity)

	if err := tx.Commit(ctx, mutated); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	return result, nil
}

// publishClosed hands closure events to the publisher. The match is already
// committed at this point, so failures are only logged.
func (s *MatchService) publishClosed(ctx context.Context, matchID uuid.UUID, closed []domain.Fundable, log logrus.FieldLogger) {
	if s.Publisher == nil || len(closed) == 0 {
		return
	}

	events := make([]domain.ClosedEvent, 0, len(closed))
	for _, entity := range closed {
		events = append(events, domain.NewClosedEvent(matchID, entity))
	}

	if err := s.Publisher.PublishClosed(ctx, events); err != nil {
		log.WithError(err).Warn("failed to publish closed events")
	}
}
