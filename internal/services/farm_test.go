package services

import (
	"context"
	"testing"

	"github.com/herdsight/herdsight-backend/internal/repos"
	"github.com/herdsight/herdsight-backend/internal/repos/testutil"
	"github.com/herdsight/herdsight-backend/internal/types"
)

func TestFarmServiceResolveSkipsWithoutBothFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewFarmService(tx, log, repos.NewFarmRepo(tx, log))
	ctx := context.Background()

	res := svc.Resolve(ctx, "", "Green Acres", "")
	if res.Status != FarmLinkSkipped || res.IDPtr() != nil {
		t.Fatalf("missing id: %+v", res)
	}
	res = svc.Resolve(ctx, "F1", "", "")
	if res.Status != FarmLinkSkipped || res.IDPtr() != nil {
		t.Fatalf("missing name: %+v", res)
	}
	if res.Reason == "" {
		t.Fatalf("skip must carry a reason")
	}
}

func TestFarmServiceResolveCreatesThenLinks(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewFarmService(tx, log, repos.NewFarmRepo(tx, log))
	ctx := context.Background()

	res := svc.Resolve(ctx, "FARM-SVC-1", "Green Acres", "Pune")
	if res.Status != FarmLinkCreated || res.FarmID != "FARM-SVC-1" {
		t.Fatalf("first resolve: %+v", res)
	}

	// Second resolve with the same pair links the existing farm and does not
	// create a second row.
	res = svc.Resolve(ctx, "FARM-SVC-1", "Green Acres", "Pune")
	if res.Status != FarmLinkLinked || res.FarmID != "FARM-SVC-1" {
		t.Fatalf("second resolve: %+v", res)
	}

	var farms []*types.Farm
	if err := tx.Where("id = ?", "FARM-SVC-1").Find(&farms).Error; err != nil {
		t.Fatalf("fetch farms: %v", err)
	}
	if len(farms) != 1 {
		t.Fatalf("expected exactly one farm row, got %d", len(farms))
	}
}

func TestFarmServiceResolveDegradesOnPersistenceFailure(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewFarmService(tx, log, repos.NewFarmRepo(tx, log))
	ctx := context.Background()

	// Replace the farms table with one the insert cannot satisfy: the lookup
	// still succeeds (empty), the create fails. The rollback in cleanup
	// restores the real table.
	if err := tx.Exec("DROP TABLE farms").Error; err != nil {
		t.Fatalf("drop farms: %v", err)
	}
	if err := tx.Exec("CREATE TABLE farms (id text PRIMARY KEY)").Error; err != nil {
		t.Fatalf("recreate farms: %v", err)
	}

	res := svc.Resolve(ctx, "FARM-SVC-ERR", "Broken Farm", "Pune")
	if res.Status != FarmLinkSkipped {
		t.Fatalf("create failure must degrade to skip: %+v", res)
	}
	if res.Reason == "" || res.IDPtr() != nil {
		t.Fatalf("skip must carry a reason and no farm id: %+v", res)
	}

	// With the table gone entirely the lookup itself fails; same contract.
	if err := tx.Exec("DROP TABLE farms").Error; err != nil {
		t.Fatalf("drop farms again: %v", err)
	}
	res = svc.Resolve(ctx, "FARM-SVC-ERR", "Broken Farm", "Pune")
	if res.Status != FarmLinkSkipped || res.IDPtr() != nil {
		t.Fatalf("lookup failure must degrade to skip: %+v", res)
	}
}

func TestFarmServiceResolveFirstWriteWins(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewFarmService(tx, log, repos.NewFarmRepo(tx, log))
	ctx := context.Background()

	if res := svc.Resolve(ctx, "FARM-SVC-2", "Original Name", "Pune"); res.Status != FarmLinkCreated {
		t.Fatalf("seed resolve: %+v", res)
	}

	// Conflicting name/location for an existing id are ignored.
	res := svc.Resolve(ctx, "FARM-SVC-2", "Different Name", "Nashik")
	if res.Status != FarmLinkLinked {
		t.Fatalf("conflicting resolve: %+v", res)
	}

	var farm types.Farm
	if err := tx.Where("id = ?", "FARM-SVC-2").First(&farm).Error; err != nil {
		t.Fatalf("fetch farm: %v", err)
	}
	if farm.Name != "Original Name" {
		t.Fatalf("existing farm overwritten: %q", farm.Name)
	}
	if farm.Location == nil || *farm.Location != "Pune" {
		t.Fatalf("existing location overwritten: %v", farm.Location)
	}
}
