package posting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatstock/internal/core/apperror"
	"heatstock/internal/core/id"
	"heatstock/internal/core/types"
	"heatstock/internal/domain/costing"
	"heatstock/internal/domain/documents/adjustment"
	"heatstock/internal/domain/documents/dispatch"
	"heatstock/internal/domain/documents/heattreatment"
	"heatstock/internal/domain/documents/melting"
	"heatstock/internal/domain/documents/scrapgrn"
	"heatstock/internal/domain/ledger"
	"heatstock/internal/domain/posting"
	"heatstock/internal/infrastructure/storage/memory"
)

type fixture struct {
	store  *memory.LedgerStore
	engine *posting.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewLedgerStore()
	txm := memory.NewTxManager()
	svc := ledger.NewService(store)
	pricer := costing.NewEngine(store, types.MustMoney("10.00"), nil)

	return &fixture{
		store:  store,
		engine: posting.NewEngine(txm, svc, pricer, nil),
	}
}

func (f *fixture) all(t *testing.T) []ledger.StockMovement {
	t.Helper()
	movements, err := f.store.Query(context.Background(), ledger.Filter{})
	require.NoError(t, err)
	return movements
}

func kg(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func testGRN(itemID id.ID, rate string) *scrapgrn.GRN {
	return &scrapgrn.GRN{
		ID:      id.New(),
		GRNDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		GRNNo:   "GRN-001",
		Lines: []scrapgrn.Line{
			{ItemID: itemID, Quantity: kg(500), Rate: types.MustMoney(rate)},
		},
	}
}

func TestRepostConverges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := id.New()
	grn := testGRN(itemID, "12.00")

	require.NoError(t, f.engine.DocumentSaved(ctx, grn))
	require.NoError(t, f.engine.DocumentSaved(ctx, grn))
	require.NoError(t, f.engine.DocumentSaved(ctx, grn))

	movements := f.all(t)
	require.Len(t, movements, 1)
	assert.Equal(t, ledger.SourceScrapGRN, movements[0].SourceKind)
	assert.Equal(t, grn.ID, movements[0].SourceID)
	assert.Equal(t, kg(500), movements[0].Quantity)
}

func TestEditedDocumentLeavesNoLeftovers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wipID, sizeID := id.New(), id.New()

	treatment := &heattreatment.Treatment{
		ID:            id.New(),
		TreatmentDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		FurnaceNo:     "F-2",
		SizeItemID:    sizeID,
		BagsProduced:  45,
		WIPItemID:     wipID,
		FinishedRate:  types.MustMoney("50.00"),
	}
	require.NoError(t, f.engine.DocumentSaved(ctx, treatment))

	// Operator corrects the bag count. The old 1125 kg pair must vanish.
	treatment.BagsProduced = 46
	require.NoError(t, f.engine.DocumentSaved(ctx, treatment))

	movements := f.all(t)
	require.Len(t, movements, 2)

	want := kg(46 * heattreatment.BagWeightKg) // 1150 kg
	for _, m := range movements {
		assert.Equal(t, want, m.Quantity, "movement %s", m.MovementType)
		assert.Equal(t, ledger.SourceHeatTreatment, m.SourceKind)
	}

	var issue, receipt *ledger.StockMovement
	for i := range movements {
		switch movements[i].MovementType {
		case ledger.MovementIssue:
			issue = &movements[i]
		case ledger.MovementReceipt:
			receipt = &movements[i]
		}
	}
	require.NotNil(t, issue)
	require.NotNil(t, receipt)
	assert.Equal(t, wipID, issue.ItemID)
	assert.Equal(t, sizeID, receipt.ItemID)
	assert.True(t, receipt.Rate.Equal(types.MustMoney("50.00")))
	assert.True(t, receipt.Amount.Equal(types.MustMoney("57500.00")), "got %s", receipt.Amount)
}

func TestZeroOutputDocumentClearsRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	treatment := &heattreatment.Treatment{
		ID:            id.New(),
		TreatmentDate: time.Now(),
		SizeItemID:    id.New(),
		BagsProduced:  10,
		WIPItemID:     id.New(),
		FinishedRate:  types.MustMoney("50.00"),
	}
	require.NoError(t, f.engine.DocumentSaved(ctx, treatment))
	require.Len(t, f.all(t), 2)

	treatment.BagsProduced = 0
	require.NoError(t, f.engine.DocumentSaved(ctx, treatment))
	assert.Empty(t, f.all(t))
}

func testMaterials() melting.Materials {
	return melting.Materials{
		ScrapItemID:     id.New(),
		CarbonItemID:    id.New(),
		ManganeseItemID: id.New(),
		SiliconItemID:   id.New(),
		AluminiumItemID: id.New(),
		CalciumItemID:   id.New(),
		WIPItemID:       id.New(),
	}
}

func TestMeltingPostsBothKinds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	materials := testMaterials()

	process := &melting.Process{
		ID:          id.New(),
		MeltingDate: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		HeatNo:      "H-101",
		ScrapTotal:  kg(1000),
		Carbon:      kg(12),
		Manganese:   kg(8),
		Materials:   materials,
	}
	require.NoError(t, f.engine.DocumentSaved(ctx, process))

	movements := f.all(t)
	// scrap, carbon, manganese issues plus one WIP receipt; zero minerals skipped
	require.Len(t, movements, 4)

	var issues, receipts int
	var output types.Quantity
	for _, m := range movements {
		switch m.SourceKind {
		case ledger.SourceMelting:
			issues++
			assert.Equal(t, ledger.MovementIssue, m.MovementType)
		case ledger.SourceMeltingOutput:
			receipts++
			assert.Equal(t, ledger.MovementReceipt, m.MovementType)
			assert.Equal(t, materials.WIPItemID, m.ItemID)
			output = m.Quantity
		}
		assert.Equal(t, process.ID, m.SourceID)
	}
	assert.Equal(t, 3, issues)
	assert.Equal(t, 1, receipts)
	// mass balance of the charge
	assert.Equal(t, kg(1020), output)
}

func TestMeltingDeletionRemovesBothKinds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	process := &melting.Process{
		ID:          id.New(),
		MeltingDate: time.Now(),
		HeatNo:      "H-102",
		ScrapTotal:  kg(900),
		Materials:   testMaterials(),
	}
	require.NoError(t, f.engine.DocumentSaved(ctx, process))
	require.NotEmpty(t, f.all(t))

	require.NoError(t, f.engine.DocumentDeleted(ctx, process.OwnedKinds(), process.ID))
	assert.Empty(t, f.all(t))
}

func TestDeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	docID := id.New()

	kinds := []ledger.SourceKind{ledger.SourceScrapGRN}
	require.NoError(t, f.engine.DocumentDeleted(ctx, kinds, docID))
	require.NoError(t, f.engine.DocumentDeleted(ctx, kinds, docID))
}

func TestDeleteTouchesOnlyOwnedSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	itemID := id.New()

	grnA := testGRN(itemID, "12.00")
	grnB := testGRN(itemID, "14.00")
	require.NoError(t, f.engine.DocumentSaved(ctx, grnA))
	require.NoError(t, f.engine.DocumentSaved(ctx, grnB))

	require.NoError(t, f.engine.DocumentDeleted(ctx, grnA.OwnedKinds(), grnA.ID))

	movements := f.all(t)
	require.Len(t, movements, 1)
	assert.Equal(t, grnB.ID, movements[0].SourceID)
}

func TestDispatchPricesAtHeatTreatmentRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sizeID := id.New()

	// Finished stock enters through heat treatment at 50.00.
	treatment := &heattreatment.Treatment{
		ID:            id.New(),
		TreatmentDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		SizeItemID:    sizeID,
		BagsProduced:  40,
		WIPItemID:     id.New(),
		FinishedRate:  types.MustMoney("50.00"),
	}
	require.NoError(t, f.engine.DocumentSaved(ctx, treatment))

	d := &dispatch.Dispatch{
		ID:           id.New(),
		DispatchDate: time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC),
		InvoiceNo:    "INV-204",
		Lines: []dispatch.Line{
			{ItemID: sizeID, Quantity: kg(600)},
			{ItemID: sizeID, Quantity: kg(0)}, // empty line, skipped
		},
	}
	require.NoError(t, f.engine.DocumentSaved(ctx, d))

	kind := ledger.SourceDispatch
	movements, err := f.store.Query(ctx, ledger.Filter{SourceKind: &kind})
	require.NoError(t, err)
	require.Len(t, movements, 1)

	m := movements[0]
	assert.Equal(t, ledger.MovementIssue, m.MovementType)
	assert.Equal(t, d.ID, m.SourceID)
	assert.Equal(t, sizeID, m.ItemID)
	assert.True(t, m.Rate.Equal(types.MustMoney("50.00")), "got %s", m.Rate)
	assert.True(t, m.Amount.Equal(types.MustMoney("30000.00")), "got %s", m.Amount)
	assert.Equal(t, "invoice INV-204", m.Remarks)
}

func TestDispatchFallsBackToDefaultRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No heat treatment receipts for this item anywhere in the ledger.
	d := &dispatch.Dispatch{
		ID:           id.New(),
		DispatchDate: time.Now(),
		InvoiceNo:    "INV-205",
		Lines: []dispatch.Line{
			{ItemID: id.New(), Quantity: kg(100)},
		},
	}
	require.NoError(t, f.engine.DocumentSaved(ctx, d))

	movements := f.all(t)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Rate.Equal(types.MustMoney("10.00")), "got %s", movements[0].Rate)
	assert.True(t, movements[0].Amount.Equal(types.MustMoney("1000.00")), "got %s", movements[0].Amount)
}

func TestAdjustmentPostsBothDirections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	foundID, lostID := id.New(), id.New()

	adj := &adjustment.Adjustment{
		ID:             id.New(),
		AdjustmentDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Reason:         "physical count",
		Lines: []adjustment.Line{
			{ItemID: foundID, MovementType: ledger.MovementReceipt, Quantity: kg(25), Rate: types.MustMoney("12.50")},
			{ItemID: lostID, MovementType: ledger.MovementIssue, Quantity: kg(10), Rate: types.MustMoney("8.00"), Remarks: "spillage"},
			{ItemID: id.New(), MovementType: ledger.MovementIssue, Quantity: kg(0), Rate: types.MustMoney("1.00")},
		},
	}
	require.NoError(t, f.engine.DocumentSaved(ctx, adj))

	movements := f.all(t)
	require.Len(t, movements, 2)

	var receipt, issue *ledger.StockMovement
	for i := range movements {
		switch movements[i].MovementType {
		case ledger.MovementReceipt:
			receipt = &movements[i]
		case ledger.MovementIssue:
			issue = &movements[i]
		}
		assert.Equal(t, ledger.SourceManual, movements[i].SourceKind)
		assert.Equal(t, adj.ID, movements[i].SourceID)
	}
	require.NotNil(t, receipt)
	require.NotNil(t, issue)

	assert.Equal(t, foundID, receipt.ItemID)
	assert.True(t, receipt.Amount.Equal(types.MustMoney("312.50")), "got %s", receipt.Amount)
	// Line remarks win; empty ones inherit the document reason.
	assert.Equal(t, "physical count", receipt.Remarks)
	assert.Equal(t, lostID, issue.ItemID)
	assert.True(t, issue.Amount.Equal(types.MustMoney("80.00")), "got %s", issue.Amount)
	assert.Equal(t, "spillage", issue.Remarks)
}

// strayingSource derives a movement under a kind it does not own.
type strayingSource struct {
	docID id.ID
}

func (s *strayingSource) Kind() ledger.SourceKind         { return ledger.SourceManual }
func (s *strayingSource) OwnedKinds() []ledger.SourceKind { return []ledger.SourceKind{ledger.SourceManual} }
func (s *strayingSource) SourceID() id.ID                 { return s.docID }
func (s *strayingSource) Date() time.Time                 { return time.Now() }

func (s *strayingSource) Movements(context.Context, posting.Pricer) ([]ledger.StockMovement, error) {
	return []ledger.StockMovement{
		ledger.NewMovement(
			ledger.MovementReceipt, ledger.SourceScrapGRN, s.docID,
			time.Now(), id.New(), kg(1), types.MustMoney("1.00"), "",
		),
	}, nil
}

func TestUnownedKindIsConsistencyFailure(t *testing.T) {
	f := newFixture(t)

	err := f.engine.DocumentSaved(context.Background(), &strayingSource{docID: id.New()})
	require.Error(t, err)
	assert.True(t, apperror.IsConsistency(err))
	assert.Empty(t, f.all(t))
}

func TestNilSourceIDRejected(t *testing.T) {
	f := newFixture(t)

	grn := testGRN(id.New(), "12.00")
	grn.ID = id.Nil()

	err := f.engine.DocumentSaved(context.Background(), grn)
	assert.True(t, apperror.IsValidation(err))
}
