package posting

import (
	"context"
	"fmt"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/core/tx"
	"heatstock/internal/domain/ledger"
	"heatstock/pkg/logger"
)

// Engine replaces a document's owned movement set on every write.
//
// The projection is replace-not-patch: costing inputs can change between
// writes, so movements are recomputed from current state rather than diffed
// field by field. Delete-then-append makes repeated writes with unchanged
// input converge on the same row set.
type Engine struct {
	txm    tx.Manager
	store  *ledger.Service
	pricer Pricer
	audit  AuditSink
}

// NewEngine creates a derivation engine. audit may be nil.
func NewEngine(txm tx.Manager, store *ledger.Service, pricer Pricer, audit AuditSink) *Engine {
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &Engine{
		txm:    txm,
		store:  store,
		pricer: pricer,
		audit:  audit,
	}
}

// DocumentSaved regenerates the ledger rows for a created or updated
// document. It runs inside the caller's transaction when one is already in
// the context; otherwise it opens its own. Any failure aborts the whole
// transaction, document write included, leaving the ledger untouched.
func (e *Engine) DocumentSaved(ctx context.Context, src Source) error {
	sourceID := src.SourceID()
	if id.IsNil(sourceID) {
		return apperror.NewValidation("document has no source id").
			WithDetail("source_kind", string(src.Kind()))
	}

	return e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		// Serialize racing writers on this document before touching rows.
		for _, kind := range src.OwnedKinds() {
			if err := e.store.LockSource(ctx, kind, sourceID); err != nil {
				return fmt.Errorf("lock source %s: %w", kind, err)
			}
		}

		for _, kind := range src.OwnedKinds() {
			if err := e.store.DeleteBySource(ctx, kind, sourceID); err != nil {
				return fmt.Errorf("delete %s movements: %w", kind, err)
			}
		}

		movements, err := src.Movements(ctx, e.pricer)
		if err != nil {
			return fmt.Errorf("derive movements: %w", err)
		}

		if err := e.checkOwnership(src, movements); err != nil {
			return err
		}

		if err := e.store.Append(ctx, movements); err != nil {
			return err
		}

		if err := e.audit.PostingRecorded(ctx, src.Kind(), sourceID, movements); err != nil {
			return fmt.Errorf("record audit entry: %w", err)
		}

		logger.Info(ctx, "document posted",
			"source_kind", src.Kind(),
			"source_id", sourceID,
			"movements", len(movements),
		)

		return nil
	})
}

// DocumentDeleted removes every movement the document owned. Idempotent.
func (e *Engine) DocumentDeleted(ctx context.Context, kinds []ledger.SourceKind, sourceID id.ID) error {
	if id.IsNil(sourceID) {
		return apperror.NewValidation("document has no source id")
	}
	if len(kinds) == 0 {
		return apperror.NewValidation("no source kinds to remove")
	}

	return e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, kind := range kinds {
			if err := e.store.LockSource(ctx, kind, sourceID); err != nil {
				return fmt.Errorf("lock source %s: %w", kind, err)
			}
		}

		for _, kind := range kinds {
			if err := e.store.DeleteBySource(ctx, kind, sourceID); err != nil {
				return fmt.Errorf("delete %s movements: %w", kind, err)
			}
		}

		if err := e.audit.PostingRemoved(ctx, kinds, sourceID); err != nil {
			return fmt.Errorf("record audit entry: %w", err)
		}

		logger.Info(ctx, "document unposted",
			"source_kinds", kinds,
			"source_id", sourceID,
		)

		return nil
	})
}

// checkOwnership rejects derived rows that stray outside the document's
// ownership partition. Such a row is a derivation bug, never repairable data.
func (e *Engine) checkOwnership(src Source, movements []ledger.StockMovement) error {
	owned := make(map[ledger.SourceKind]bool, len(src.OwnedKinds()))
	for _, k := range src.OwnedKinds() {
		owned[k] = true
	}

	for i := range movements {
		m := &movements[i]
		if m.SourceID != src.SourceID() {
			return apperror.NewConsistency("derived movement references a foreign source id").
				WithDetail("line_id", m.LineID.String()).
				WithDetail("source_id", m.SourceID.String())
		}
		if !owned[m.SourceKind] {
			return apperror.NewConsistency("derived movement uses an unowned source kind").
				WithDetail("line_id", m.LineID.String()).
				WithDetail("source_kind", string(m.SourceKind))
		}
	}

	return nil
}
