package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Classification source tags.
const (
	SourceUpload = "upload"
	SourceLive   = "live"
)

// Classification is one stored outcome of analyzing a single image. Numeric
// measurement and score fields are always populated (defaults applied at
// create time), never null. FarmName and Location are denormalized snapshots
// of what the caller supplied at save time and do not track the Farm row.
type Classification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	User   *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	FarmID *string   `gorm:"column:farm_id" json:"farmId"`
	Farm   *Farm     `gorm:"foreignKey:FarmID;constraint:OnDelete:SET NULL" json:"farm,omitempty"`

	AnimalType string   `gorm:"not null;column:animal_type" json:"animalType"`
	Breed      string   `gorm:"column:breed" json:"breed"`
	Gender     string   `gorm:"column:gender" json:"gender"`
	Age        *int     `gorm:"column:age" json:"age"`
	Weight     *float64 `gorm:"column:weight" json:"weight"`

	BodyLength      float64 `gorm:"not null;column:body_length" json:"bodyLength"`
	HeightAtWithers float64 `gorm:"not null;column:height_at_withers" json:"heightAtWithers"`
	ChestWidth      float64 `gorm:"not null;column:chest_width" json:"chestWidth"`
	RumpAngle       float64 `gorm:"not null;column:rump_angle" json:"rumpAngle"`
	BodyCondition   float64 `gorm:"not null;column:body_condition" json:"bodyCondition"`

	OverallScore      float64 `gorm:"not null;column:overall_score" json:"overallScore"`
	BreedScore        float64 `gorm:"not null;column:breed_score" json:"breedScore"`
	ConformationScore float64 `gorm:"not null;column:conformation_score" json:"conformationScore"`
	Confidence        float64 `gorm:"not null;column:confidence" json:"confidence"`

	Source        string `gorm:"not null;default:'upload';column:source" json:"source"`
	FarmName      string `gorm:"column:farm_name" json:"farmName"`
	Location      string `gorm:"column:location" json:"location"`
	AnalysisNotes string `gorm:"column:analysis_notes" json:"analysisNotes"`
	ImageURL      string `gorm:"column:image_url" json:"imageUrl"`
	ImagePath     string `gorm:"column:image_path" json:"imagePath"`

	// Raw analyzer payload as returned by the model, kept for audit.
	AnalysisRaw datatypes.JSON `gorm:"column:analysis_raw" json:"-"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Classification) TableName() string {
	return "animal_classifications"
}
