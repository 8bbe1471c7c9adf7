package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/repos"
	"github.com/herdsight/herdsight-backend/internal/types"
)

type FarmLinkStatus string

const (
	// FarmLinkLinked: the supplied farm id already existed and was reused.
	FarmLinkLinked FarmLinkStatus = "linked"
	// FarmLinkCreated: a new farm row was written for the supplied id.
	FarmLinkCreated FarmLinkStatus = "created"
	// FarmLinkSkipped: no farm association; Reason says why.
	FarmLinkSkipped FarmLinkStatus = "skipped"
)

// FarmLinkResult is the typed outcome of farm resolution. Resolution is
// best-effort: persistence failures degrade to Skipped with a reason instead
// of failing the surrounding classification save.
type FarmLinkResult struct {
	Status FarmLinkStatus
	FarmID string
	Reason string
}

// IDPtr returns the resolved farm id in the nullable form the classification
// record stores, nil when resolution was skipped.
func (r FarmLinkResult) IDPtr() *string {
	if r.Status == FarmLinkSkipped || r.FarmID == "" {
		return nil
	}
	id := r.FarmID
	return &id
}

type FarmService interface {
	// Resolve finds or lazily creates the farm for a farmId+farmName pair.
	// An existing farm wins as-is: supplied name/location never overwrite it.
	Resolve(ctx context.Context, farmID, farmName, location string) FarmLinkResult
}

type farmService struct {
	db       *gorm.DB
	log      *logger.Logger
	farmRepo repos.FarmRepo
}

func NewFarmService(db *gorm.DB, log *logger.Logger, farmRepo repos.FarmRepo) FarmService {
	return &farmService{
		db:       db,
		log:      log.With("service", "FarmService"),
		farmRepo: farmRepo,
	}
}

func (fs *farmService) Resolve(ctx context.Context, farmID, farmName, location string) FarmLinkResult {
	if farmID == "" || farmName == "" {
		return FarmLinkResult{Status: FarmLinkSkipped, Reason: "farm id and name not both provided"}
	}

	existing, err := fs.farmRepo.GetByIDs(ctx, nil, []string{farmID})
	if err != nil {
		fs.log.Warn("Farm lookup failed, saving without farm link", "farm_id", farmID, "error", err)
		return FarmLinkResult{Status: FarmLinkSkipped, Reason: "farm lookup failed"}
	}
	if len(existing) > 0 {
		return FarmLinkResult{Status: FarmLinkLinked, FarmID: existing[0].ID}
	}

	farm := &types.Farm{
		ID:   farmID,
		Name: farmName,
	}
	if location != "" {
		farm.Location = &location
	}
	if _, err := fs.farmRepo.Create(ctx, nil, []*types.Farm{farm}); err != nil {
		// Includes losing the unique-constraint race against a concurrent
		// create of the same farm id.
		fs.log.Warn("Farm create failed, saving without farm link", "farm_id", farmID, "error", err)
		return FarmLinkResult{Status: FarmLinkSkipped, Reason: "farm create failed"}
	}
	return FarmLinkResult{Status: FarmLinkCreated, FarmID: farm.ID}
}
