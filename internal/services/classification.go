package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "github.com/herdsight/herdsight-backend/internal/pkg/errors"
	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
	"github.com/herdsight/herdsight-backend/internal/repos"
	"github.com/herdsight/herdsight-backend/internal/types"
)

const defaultPageSize = 20

// CreateClassificationInput carries one classification to persist. Pointer
// fields distinguish "absent" from an explicit zero, which matters for the
// required-field check on the direct save path: a legitimate overallScore of
// 0 is accepted, only a missing one is rejected.
type CreateClassificationInput struct {
	AnimalType string
	ImageURL   *string
	ImagePath  string

	BodyLength      float64
	HeightAtWithers float64
	ChestWidth      float64
	RumpAngle       float64
	BodyCondition   *float64

	OverallScore      *float64
	BreedScore        *float64
	ConformationScore *float64
	Confidence        *float64

	Breed  string
	Gender string
	Age    *int
	Weight *float64

	FarmID        *string
	FarmName      string
	Location      string
	AnalysisNotes string
	Source        string

	AnalysisRaw []byte
}

// ClassificationPatch is the explicit allow-list of patchable fields.
// Identity, ownership and createdAt are not represented here and therefore
// can never be overwritten by a caller.
type ClassificationPatch struct {
	AnimalType *string  `json:"animalType"`
	Breed      *string  `json:"breed"`
	Gender     *string  `json:"gender"`
	Age        *int     `json:"age"`
	Weight     *float64 `json:"weight"`

	BodyLength      *float64 `json:"bodyLength"`
	HeightAtWithers *float64 `json:"heightAtWithers"`
	ChestWidth      *float64 `json:"chestWidth"`
	RumpAngle       *float64 `json:"rumpAngle"`
	BodyCondition   *float64 `json:"bodyCondition"`

	OverallScore      *float64 `json:"overallScore"`
	BreedScore        *float64 `json:"breedScore"`
	ConformationScore *float64 `json:"conformationScore"`
	Confidence        *float64 `json:"confidence"`

	Source        *string `json:"source"`
	FarmName      *string `json:"farmName"`
	Location      *string `json:"location"`
	AnalysisNotes *string `json:"analysisNotes"`
	ImageURL      *string `json:"imageUrl"`
	ImagePath     *string `json:"imagePath"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ClassificationPage struct {
	Data       []*types.Classification `json:"data"`
	Pagination Pagination              `json:"pagination"`
}

type ClassificationService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateClassificationInput) (*types.Classification, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*types.Classification, error)
	List(ctx context.Context, userID uuid.UUID, filter repos.ClassificationFilter, page, limit int) (*ClassificationPage, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch ClassificationPatch) (*types.Classification, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ClearAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type classificationService struct {
	db                 *gorm.DB
	log                *logger.Logger
	classificationRepo repos.ClassificationRepo
	farmRepo           repos.FarmRepo
}

func NewClassificationService(db *gorm.DB, log *logger.Logger, classificationRepo repos.ClassificationRepo, farmRepo repos.FarmRepo) ClassificationService {
	return &classificationService{
		db:                 db,
		log:                log.With("service", "ClassificationService"),
		classificationRepo: classificationRepo,
		farmRepo:           farmRepo,
	}
}

func (cs *classificationService) Create(ctx context.Context, userID uuid.UUID, input CreateClassificationInput) (*types.Classification, error) {
	if input.AnimalType == "" || input.ImageURL == nil || input.OverallScore == nil {
		return nil, fmt.Errorf("%w: missing required fields: animalType, imageUrl, overallScore", apperrors.ErrInvalidArgument)
	}

	// Referential integrity for a supplied farm id is checked up front so a
	// dangling reference surfaces as a validation error, not a driver error.
	if input.FarmID != nil && *input.FarmID != "" {
		exists, err := cs.farmRepo.IDExists(ctx, nil, *input.FarmID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve farm id: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: invalid farm id", apperrors.ErrInvalidArgument)
		}
	}

	source := input.Source
	if source == "" {
		source = types.SourceUpload
	}

	record := &types.Classification{
		ID:         uuid.New(),
		UserID:     userID,
		FarmID:     normalizeFarmID(input.FarmID),
		AnimalType: input.AnimalType,
		Breed:      input.Breed,
		Gender:     input.Gender,
		Age:        input.Age,
		Weight:     input.Weight,

		BodyLength:      input.BodyLength,
		HeightAtWithers: input.HeightAtWithers,
		ChestWidth:      input.ChestWidth,
		RumpAngle:       input.RumpAngle,
		BodyCondition:   valueOrDefault(input.BodyCondition, DefaultBodyCondition),

		OverallScore:      *input.OverallScore,
		BreedScore:        valueOrDefault(input.BreedScore, DefaultScore),
		ConformationScore: valueOrDefault(input.ConformationScore, DefaultScore),
		Confidence:        valueOrDefault(input.Confidence, DefaultConfidence),

		Source:        source,
		FarmName:      input.FarmName,
		Location:      input.Location,
		AnalysisNotes: input.AnalysisNotes,
		ImageURL:      *input.ImageURL,
		ImagePath:     input.ImagePath,
	}
	if len(input.AnalysisRaw) > 0 {
		record.AnalysisRaw = datatypes.JSON(input.AnalysisRaw)
	}

	if _, err := cs.classificationRepo.Create(ctx, nil, []*types.Classification{record}); err != nil {
		return nil, fmt.Errorf("failed to create classification: %w", err)
	}

	if record.FarmID != nil {
		farms, err := cs.farmRepo.GetByIDs(ctx, nil, []string{*record.FarmID})
		if err == nil && len(farms) > 0 {
			record.Farm = farms[0]
		}
	}
	return record, nil
}

func (cs *classificationService) GetByID(ctx context.Context, userID, id uuid.UUID) (*types.Classification, error) {
	record, err := cs.classificationRepo.GetOwned(ctx, nil, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch classification: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: classification", apperrors.ErrNotFound)
	}
	return record, nil
}

func (cs *classificationService) List(ctx context.Context, userID uuid.UUID, filter repos.ClassificationFilter, page, limit int) (*ClassificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	offset := (page - 1) * limit

	rows, total, err := cs.classificationRepo.ListOwned(ctx, nil, userID, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list classifications: %w", err)
	}
	if rows == nil {
		rows = []*types.Classification{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ClassificationPage{
		Data: rows,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (cs *classificationService) Update(ctx context.Context, userID, id uuid.UUID, patch ClassificationPatch) (*types.Classification, error) {
	existing, err := cs.classificationRepo.GetOwned(ctx, nil, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch classification: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: classification", apperrors.ErrNotFound)
	}

	fields := patch.fields()
	fields["updated_at"] = time.Now().UTC()

	if _, err := cs.classificationRepo.UpdateOwnedFields(ctx, nil, userID, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update classification: %w", err)
	}

	updated, err := cs.classificationRepo.GetOwned(ctx, nil, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload classification: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: classification", apperrors.ErrNotFound)
	}
	return updated, nil
}

func (cs *classificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	n, err := cs.classificationRepo.DeleteOwned(ctx, nil, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete classification: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: classification", apperrors.ErrNotFound)
	}
	return nil
}

func (cs *classificationService) ClearAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := cs.classificationRepo.DeleteByUserID(ctx, nil, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear classifications: %w", err)
	}
	return n, nil
}

// InputFromAnalysis maps a normalized analyzer result onto a fully-populated
// create input for the analyze-and-save path. Every required field is
// supplied here (images are not retained, so the image reference is an empty
// string), which is why this path can never hit the direct-save validation.
func InputFromAnalysis(analysis *AnalysisResult, farmID *string, farmName, location, source string) CreateClassificationInput {
	imageURL := ""
	bodyCondition := analysis.Measurements.BodyCondition
	overall := analysis.Scores.OverallScore
	breedScore := analysis.Scores.BreedScore
	conformation := analysis.Scores.ConformationScore
	confidence := analysis.Confidence
	return CreateClassificationInput{
		AnimalType: analysis.AnimalType,
		ImageURL:   &imageURL,

		BodyLength:      analysis.Measurements.BodyLength,
		HeightAtWithers: analysis.Measurements.HeightAtWithers,
		ChestWidth:      analysis.Measurements.ChestWidth,
		RumpAngle:       analysis.Measurements.RumpAngle,
		BodyCondition:   &bodyCondition,

		OverallScore:      &overall,
		BreedScore:        &breedScore,
		ConformationScore: &conformation,
		Confidence:        &confidence,

		Breed:  analysis.Metadata.Breed,
		Gender: analysis.Metadata.Gender,
		Age:    analysis.Metadata.Age,
		Weight: analysis.Metadata.Weight,

		FarmID:        farmID,
		FarmName:      farmName,
		Location:      location,
		AnalysisNotes: analysis.AnalysisNotes,
		Source:        source,

		AnalysisRaw: analysis.Raw,
	}
}

// fields flattens the set entries of a patch into repo update columns.
func (p ClassificationPatch) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	setFloat := func(col string, v *float64) {
		if v != nil {
			fields[col] = *v
		}
	}
	setString("animal_type", p.AnimalType)
	setString("breed", p.Breed)
	setString("gender", p.Gender)
	if p.Age != nil {
		fields["age"] = *p.Age
	}
	setFloat("weight", p.Weight)
	setFloat("body_length", p.BodyLength)
	setFloat("height_at_withers", p.HeightAtWithers)
	setFloat("chest_width", p.ChestWidth)
	setFloat("rump_angle", p.RumpAngle)
	setFloat("body_condition", p.BodyCondition)
	setFloat("overall_score", p.OverallScore)
	setFloat("breed_score", p.BreedScore)
	setFloat("conformation_score", p.ConformationScore)
	setFloat("confidence", p.Confidence)
	setString("source", p.Source)
	setString("farm_name", p.FarmName)
	setString("location", p.Location)
	setString("analysis_notes", p.AnalysisNotes)
	setString("image_url", p.ImageURL)
	setString("image_path", p.ImagePath)
	return fields
}

func normalizeFarmID(farmID *string) *string {
	if farmID == nil || *farmID == "" {
		return nil
	}
	return farmID
}

func valueOrDefault(v *float64, defaultVal float64) float64 {
	if v == nil {
		return defaultVal
	}
	return *v
}
