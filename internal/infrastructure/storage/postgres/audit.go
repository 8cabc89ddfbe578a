package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"heatstock/internal/core/appctx"
	"heatstock/internal/core/id"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/posting"
)

// AuditAction represents the type of audited operation.
type AuditAction string

const (
	AuditActionPost   AuditAction = "post"
	AuditActionUnpost AuditAction = "unpost"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry represents a single audit log entry. A posting entry carries
// the full movement set that was written, so the trail can reconstruct any
// historical ledger state for a source.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	SourceKind        string          `db:"source_kind"`
	SourceID          id.ID           `db:"source_id"`
	Action            AuditAction     `db:"action"`
	RequestID         string          `db:"request_id"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService records posting activity into the audit_log table.
// Large payloads are zstd-compressed to keep the trail cheap; a posting of
// a big GRN can carry hundreds of lines.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// PostingRecorded logs the movement set written for a source.
func (s *AuditService) PostingRecorded(ctx context.Context, kind ledger.SourceKind, sourceID id.ID, movements []ledger.StockMovement) error {
	payload, err := json.Marshal(movements)
	if err != nil {
		return fmt.Errorf("marshal movements: %w", err)
	}

	return s.log(ctx, AuditEntry{
		SourceKind: string(kind),
		SourceID:   sourceID,
		Action:     AuditActionPost,
		Payload:    payload,
	})
}

// PostingRemoved logs that the owned set for a source was deleted without
// replacement.
func (s *AuditService) PostingRemoved(ctx context.Context, kinds []ledger.SourceKind, sourceID id.ID) error {
	payload, err := json.Marshal(map[string]any{"kinds": kinds})
	if err != nil {
		return fmt.Errorf("marshal kinds: %w", err)
	}

	primary := ""
	if len(kinds) > 0 {
		primary = string(kinds[0])
	}

	return s.log(ctx, AuditEntry{
		SourceKind: primary,
		SourceID:   sourceID,
		Action:     AuditActionUnpost,
		Payload:    payload,
	})
}

// log records an audit entry inside the caller's transaction.
func (s *AuditService) log(ctx context.Context, entry AuditEntry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.RequestID = appctx.GetRequestID(ctx)

	entry.CompressionAlgo = CompressionNone
	if len(entry.Payload) > s.compressThreshold {
		entry.PayloadCompressed = s.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO audit_log (
			id, source_kind, source_id, action, request_id,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.SourceKind, entry.SourceID, entry.Action, entry.RequestID,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)

	return err
}

// SourceHistory retrieves the posting history for a source, newest first.
func (s *AuditService) SourceHistory(ctx context.Context, kind ledger.SourceKind, sourceID id.ID, limit int) ([]AuditEntry, error) {
	sql := `
		SELECT id, source_kind, source_id, action, request_id,
			   payload, payload_compressed, compression_algo, created_at
		FROM audit_log
		WHERE source_kind = $1 AND source_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, string(kind), sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		err := rows.Scan(
			&e.ID, &e.SourceKind, &e.SourceID, &e.Action, &e.RequestID,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Ensure interface compliance.
var _ posting.AuditSink = (*AuditService)(nil)
