package storage

import (
	"context"
	"path/filepath"
	"testing"

	"awardstats/internal/aggregate"
	"awardstats/internal/core"
)

func TestArchiveAndReadBack(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()

	sc := aggregate.NewScope("CA FY2024")
	aggregate.Fold(core.ClassifiedRecord{
		Recipient:  "ACME CORP",
		Obligation: 150,
		Categories: core.NewCategorySet(core.SmallBusiness),
	}, sc)

	if err := repo.ArchiveStateSummary(ctx, 2024, "CA", sc.Totals()); err != nil {
		t.Fatalf("ArchiveStateSummary: %v", err)
	}

	got, err := repo.GetStateSummary(ctx, 2024, "CA")
	if err != nil {
		t.Fatalf("GetStateSummary: %v", err)
	}
	if fig := got[core.AllRecipients]; fig.Recipients != 1 || fig.Obligations != 150 {
		t.Fatalf("all recipients = %+v", fig)
	}
	if fig := got[core.SmallBusiness]; fig.Recipients != 1 || fig.Obligations != 150 {
		t.Fatalf("small business = %+v", fig)
	}
	if fig := got[core.HBCU]; fig.Recipients != 0 || fig.Obligations != 0 {
		t.Fatalf("hbcu = %+v", fig)
	}
}

func TestArchiveUpsertsOnRerun(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()

	first := aggregate.NewScope("CA FY2024")
	aggregate.Fold(core.ClassifiedRecord{Recipient: "A", Obligation: 10}, first)
	if err := repo.ArchiveStateSummary(ctx, 2024, "CA", first.Totals()); err != nil {
		t.Fatalf("first archive: %v", err)
	}

	second := aggregate.NewScope("CA FY2024")
	aggregate.Fold(core.ClassifiedRecord{Recipient: "A", Obligation: 10}, second)
	aggregate.Fold(core.ClassifiedRecord{Recipient: "B", Obligation: 20}, second)
	if err := repo.ArchiveStateSummary(ctx, 2024, "CA", second.Totals()); err != nil {
		t.Fatalf("second archive: %v", err)
	}

	got, err := repo.GetStateSummary(ctx, 2024, "CA")
	if err != nil {
		t.Fatalf("GetStateSummary: %v", err)
	}
	if fig := got[core.AllRecipients]; fig.Recipients != 2 || fig.Obligations != 30 {
		t.Fatalf("expected rerun to replace figures, got %+v", fig)
	}
}

func TestGetStateSummaryMissing(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	defer repo.Close()

	got, err := repo.GetStateSummary(context.Background(), 1999, "ZZ")
	if err != nil {
		t.Fatalf("GetStateSummary: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
