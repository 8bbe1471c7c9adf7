package repos

import (
	"context"
	"testing"

	"github.com/herdsight/herdsight-backend/internal/repos/testutil"
	"github.com/herdsight/herdsight-backend/internal/types"
)

func TestFarmRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewFarmRepo(db, testutil.Logger(t))

	location := "Pune"
	f := &types.Farm{ID: "FARM-REPO-1", Name: "Green Acres", Location: &location}
	if _, err := repo.Create(ctx, tx, []*types.Farm{f}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, tx, []string{"FARM-REPO-1"})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].Name != "Green Acres" || rows[0].Location == nil || *rows[0].Location != "Pune" {
		t.Fatalf("unexpected farm row: %+v", rows[0])
	}

	if ok, err := repo.IDExists(ctx, tx, "FARM-REPO-1"); err != nil || !ok {
		t.Fatalf("IDExists existing: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.IDExists(ctx, tx, "FARM-REPO-MISSING"); err != nil || ok {
		t.Fatalf("IDExists missing: ok=%v err=%v", ok, err)
	}

	// Duplicate primary key rejected by the store, not by application logic.
	dupe := &types.Farm{ID: "FARM-REPO-1", Name: "Other Name"}
	if _, err := repo.Create(ctx, tx, []*types.Farm{dupe}); err == nil {
		t.Fatalf("expected unique constraint violation on duplicate farm id")
	}
}
