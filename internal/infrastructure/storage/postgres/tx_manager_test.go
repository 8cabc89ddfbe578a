package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

// Posting transactions take the per-source advisory lock first and then
// delete the previous movement set. A writer that blocked on the lock has
// to see the rows the previous holder committed, which requires a fresh
// snapshot per statement. Pinning ReadCommitted here: a stricter level
// would let two racing first-time posts of the same source both append.
func TestDefaultTxOptionsUseReadCommitted(t *testing.T) {
	opts := DefaultTxOptions()

	assert.Equal(t, pgx.ReadCommitted, opts.IsolationLevel)
	assert.Equal(t, pgx.ReadWrite, opts.AccessMode)
	assert.Positive(t, opts.StatementTimeout)
	assert.False(t, opts.UseSavepoint)
}

func TestReadOnlyTxOptionsUseRepeatableRead(t *testing.T) {
	opts := ReadOnlyTxOptions()

	assert.Equal(t, pgx.RepeatableRead, opts.IsolationLevel)
	assert.Equal(t, pgx.ReadOnly, opts.AccessMode)
}

func TestSerializableTxOptions(t *testing.T) {
	opts := SerializableTxOptions()

	assert.Equal(t, pgx.Serializable, opts.IsolationLevel)
	assert.Equal(t, pgx.ReadWrite, opts.AccessMode)
}
