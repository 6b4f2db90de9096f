package filings

import (
	"context"
	"testing"

	"github.com/filinglens/filinglens-backend/internal/data/repos/testutil"
	types "github.com/filinglens/filinglens-backend/internal/domain"
)

func TestSectionSummaryRepo_UpsertIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSectionSummaryRepo(db, testutil.Logger(t))

	row := &types.SectionSummary{
		AccessionNumber:   "0000320193-24-000123",
		SectionKey:        "Business",
		ModelName:         "gpt-4o-mini",
		SummaryText:       "first pass",
		RawChunkSummaries: "a\n\nb",
		ChunkCount:        2,
		Status:            types.StatusReduceComplete,
	}
	if err := repo.Upsert(ctx, tx, row); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Re-run with new content: same key, same row, patched fields.
	rerun := &types.SectionSummary{
		AccessionNumber:   "0000320193-24-000123",
		SectionKey:        "Business",
		ModelName:         "gpt-4o-mini",
		SummaryText:       "second pass",
		RawChunkSummaries: "a\n\nb\n\nc",
		ChunkCount:        3,
		Status:            types.StatusReduceComplete,
	}
	if err := repo.Upsert(ctx, tx, rerun); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&types.SectionSummary{}).
		Where("accession_number = ? AND section_key = ? AND model_name = ?",
			"0000320193-24-000123", "Business", "gpt-4o-mini").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("row count = %d, want 1", count)
	}

	got, err := repo.GetByKey(ctx, tx, "0000320193-24-000123", "Business", "gpt-4o-mini", "")
	if err != nil || got == nil {
		t.Fatalf("GetByKey: err=%v row=%v", err, got)
	}
	if got.SummaryText != "second pass" || got.ChunkCount != 3 {
		t.Fatalf("row not patched: %+v", got)
	}
}

func TestSectionSummaryRepo_UpsertClearsError(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSectionSummaryRepo(db, testutil.Logger(t))

	failed := &types.SectionSummary{
		AccessionNumber: "0000320193-24-000124",
		SectionKey:      "MD&A",
		ModelName:       "gpt-4o-mini",
		Status:          types.StatusReduceFailed,
		ErrorMessage:    "model overloaded",
	}
	if err := repo.Upsert(ctx, tx, failed); err != nil {
		t.Fatalf("failed upsert: %v", err)
	}

	recovered := &types.SectionSummary{
		AccessionNumber: "0000320193-24-000124",
		SectionKey:      "MD&A",
		ModelName:       "gpt-4o-mini",
		SummaryText:     "recovered summary",
		ChunkCount:      4,
		Status:          types.StatusReduceComplete,
	}
	if err := repo.Upsert(ctx, tx, recovered); err != nil {
		t.Fatalf("recovery upsert: %v", err)
	}

	got, err := repo.GetByKey(ctx, tx, "0000320193-24-000124", "MD&A", "gpt-4o-mini", types.StatusReduceComplete)
	if err != nil || got == nil {
		t.Fatalf("GetByKey: err=%v row=%v", err, got)
	}
	if got.ErrorMessage != "" {
		t.Fatalf("retry must clear the error message, got %q", got.ErrorMessage)
	}
}

func TestSectionSummaryRepo_StatusFilter(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSectionSummaryRepo(db, testutil.Logger(t))

	if err := repo.Upsert(ctx, tx, &types.SectionSummary{
		AccessionNumber: "0000320193-24-000125",
		SectionKey:      "Risk Factors",
		ModelName:       "gpt-4o-mini",
		Status:          types.StatusMapFailed,
		ErrorMessage:    "all chunk calls failed",
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetByKey(ctx, tx, "0000320193-24-000125", "Risk Factors", "gpt-4o-mini", types.StatusReduceComplete)
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if got != nil {
		t.Fatalf("map_failed must not satisfy a reduce_complete filter")
	}

	rows, err := repo.GetCompleted(ctx, tx, "0000320193-24-000125", []string{"Risk Factors"}, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("GetCompleted: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("GetCompleted returned %d rows for a failed section", len(rows))
	}
}
