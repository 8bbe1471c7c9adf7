package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herdsight/herdsight-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Username: username,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedFarm(tb testing.TB, ctx context.Context, tx *gorm.DB, id, name string) *types.Farm {
	tb.Helper()
	f := &types.Farm{
		ID:   id,
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed farm: %v", err)
	}
	return f
}

// SeedClassification inserts a minimal valid record. createdAt is spaced by
// the caller when list ordering matters.
func SeedClassification(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, animalType, source string, createdAt time.Time) *types.Classification {
	tb.Helper()
	c := &types.Classification{
		ID:                uuid.New(),
		UserID:            userID,
		AnimalType:        animalType,
		BodyCondition:     5,
		OverallScore:      50,
		BreedScore:        50,
		ConformationScore: 50,
		Confidence:        0.5,
		Source:            source,
		ImageURL:          "http://example.com/img.jpg",
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed classification: %v", err)
	}
	return c
}
