// Package posting is the document-to-ledger derivation engine: a
// deterministic, idempotent projection from mutable business documents onto
// the append-only ledger, re-run on every document write.
package posting

import (
	"context"
	"time"

	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/ledger"
)

// Pricer resolves rates for quantities the source document does not price
// itself. Satisfied by costing.Engine.
type Pricer interface {
	CurrentRate(ctx context.Context, itemID id.ID, kind ledger.SourceKind) (types.Money, error)
}

// Source is a committed document snapshot the engine can project onto the
// ledger. Implementations are plain value types owned by the document
// packages; the engine never mutates them.
type Source interface {
	// Kind is the primary source kind of the document.
	Kind() ledger.SourceKind

	// OwnedKinds lists every source kind this document writes under.
	// Melting owns two: MELTING for consumption, MELTING_OUTPUT for yield.
	OwnedKinds() []ledger.SourceKind

	// SourceID identifies the document. Two documents of the same kind must
	// never share one.
	SourceID() id.ID

	// Date is the document's business date.
	Date() time.Time

	// Movements derives the full movement set from the document's current
	// field values, consulting pricer for unpriced quantities.
	Movements(ctx context.Context, pricer Pricer) ([]ledger.StockMovement, error)
}

// AuditSink records posting activity for the audit trail.
// Failures inside the sink abort the posting transaction: an unauditable
// write must not commit.
type AuditSink interface {
	PostingRecorded(ctx context.Context, kind ledger.SourceKind, sourceID id.ID, movements []ledger.StockMovement) error
	PostingRemoved(ctx context.Context, kinds []ledger.SourceKind, sourceID id.ID) error
}

// NopAuditSink discards audit entries. Used in tests.
type NopAuditSink struct{}

func (NopAuditSink) PostingRecorded(context.Context, ledger.SourceKind, id.ID, []ledger.StockMovement) error {
	return nil
}

func (NopAuditSink) PostingRemoved(context.Context, []ledger.SourceKind, id.ID) error {
	return nil
}
