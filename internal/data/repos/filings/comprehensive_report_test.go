package filings

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/filinglens/filinglens-backend/internal/data/repos/testutil"
	types "github.com/filinglens/filinglens-backend/internal/domain"
)

func TestComprehensiveReportRepo_InsertAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewComprehensiveReportRepo(db, testutil.Logger(t))

	scope := types.SectionScope([]string{"Business", "MD&A"})
	meta, err := json.Marshal(types.ReportMetadata{
		AvailableSections: []string{"Business", "MD&A"},
		WordCount:         1200,
		Model:             "gpt-4o",
	})
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}

	inserted, err := repo.Insert(ctx, tx, &types.ComprehensiveReport{
		AccessionNumber: "0000320193-24-000301",
		ModelName:       "gpt-4o",
		SectionScope:    scope,
		ReportText:      "## Revenue and Growth\n...",
		Metadata:        meta,
	})
	if err != nil || inserted == nil {
		t.Fatalf("insert: err=%v row=%v", err, inserted)
	}

	got, err := repo.GetByKey(ctx, tx, "0000320193-24-000301", "gpt-4o", scope)
	if err != nil || got == nil {
		t.Fatalf("GetByKey: err=%v row=%v", err, got)
	}
	var decoded types.ReportMetadata
	if err := json.Unmarshal(got.Metadata, &decoded); err != nil {
		t.Fatalf("unmarshal metadata: %v", err)
	}
	if decoded.WordCount != 1200 || len(decoded.AvailableSections) != 2 {
		t.Fatalf("metadata roundtrip: %+v", decoded)
	}
}

func TestComprehensiveReportRepo_DuplicateInsertReturnsLatest(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewComprehensiveReportRepo(db, testutil.Logger(t))

	scope := types.SectionScope([]string{"Business", "MD&A", "Risk Factors"})

	first, err := repo.Insert(ctx, tx, &types.ComprehensiveReport{
		AccessionNumber: "0000320193-24-000302",
		ModelName:       "gpt-4o",
		SectionScope:    scope,
		ReportText:      "first report",
	})
	if err != nil || first == nil {
		t.Fatalf("first insert: err=%v row=%v", err, first)
	}

	// Unique violation path: the losing writer gets the stored row back
	// instead of an error.
	second, err := repo.Insert(ctx, tx, &types.ComprehensiveReport{
		AccessionNumber: "0000320193-24-000302",
		ModelName:       "gpt-4o",
		SectionScope:    scope,
		ReportText:      "second report",
	})
	if err != nil {
		t.Fatalf("duplicate insert must not error: %v", err)
	}
	if second == nil || second.ID != first.ID {
		t.Fatalf("duplicate insert must return the stored row, got %+v", second)
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&types.ComprehensiveReport{}).
		Where("accession_number = ?", "0000320193-24-000302").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("row count = %d, want 1", count)
	}
}

func TestComprehensiveReportRepo_GetLatestOrdersByCreation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewComprehensiveReportRepo(db, testutil.Logger(t))

	// Two scopes for the same filing and model; latest wins.
	older, err := repo.Insert(ctx, tx, &types.ComprehensiveReport{
		AccessionNumber: "0000320193-24-000303",
		ModelName:       "gpt-4o",
		SectionScope:    types.SectionScope([]string{"Business"}),
		ReportText:      "older",
	})
	if err != nil || older == nil {
		t.Fatalf("older insert: err=%v", err)
	}
	newer := &types.ComprehensiveReport{
		AccessionNumber: "0000320193-24-000303",
		ModelName:       "gpt-4o",
		SectionScope:    types.SectionScope([]string{"Business", "MD&A"}),
		ReportText:      "newer",
		CreatedAt:       older.CreatedAt.Add(1),
	}
	if _, err := repo.Insert(ctx, tx, newer); err != nil {
		t.Fatalf("newer insert: %v", err)
	}

	got, err := repo.GetLatest(ctx, tx, "0000320193-24-000303", "gpt-4o")
	if err != nil || got == nil {
		t.Fatalf("GetLatest: err=%v row=%v", err, got)
	}
	if got.ReportText != "newer" {
		t.Fatalf("GetLatest returned %q, want newer", got.ReportText)
	}
}
