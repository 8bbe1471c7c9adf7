package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Canonical animal type labels stored on classification records.
const (
	AnimalTypeCattle  = "Cattle"
	AnimalTypeBuffalo = "Buffalo"
	AnimalTypeHuman   = "Human"
)

// Numeric defaults applied whenever the analyzer omits a field, so persisted
// records are always fully populated.
const (
	DefaultScore         = 50.0
	DefaultBodyCondition = 5.0
	DefaultConfidence    = 0.5
)

type AnalysisMeasurements struct {
	BodyLength      float64 `json:"bodyLength"`
	HeightAtWithers float64 `json:"heightAtWithers"`
	ChestWidth      float64 `json:"chestWidth"`
	RumpAngle       float64 `json:"rumpAngle"`
	BodyCondition   float64 `json:"bodyCondition"`
}

type AnalysisScores struct {
	OverallScore      float64 `json:"overallScore"`
	BreedScore        float64 `json:"breedScore"`
	ConformationScore float64 `json:"conformationScore"`
}

type AnalysisMetadata struct {
	Breed  string   `json:"breed"`
	Age    *int     `json:"age,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
	Gender string   `json:"gender"`
}

// AnalysisResult is the normalized output of the vision analyzer. Every
// numeric field is populated; Raw keeps the model's payload verbatim.
type AnalysisResult struct {
	AnimalType    string               `json:"animalType"`
	Measurements  AnalysisMeasurements `json:"measurements"`
	Scores        AnalysisScores       `json:"scores"`
	Metadata      AnalysisMetadata     `json:"metadata"`
	Confidence    float64              `json:"confidence"`
	AnalysisNotes string               `json:"analysisNotes"`
	Raw           json.RawMessage      `json:"-"`
}

// ParseAnalysis extracts and normalizes the JSON object embedded in a model
// response. The model has been observed answering with two key layouts: the
// canonical lowercase schema it is prompted for, and a prose-cased variant
// ("Animal Type", "Physical Measurements (in cm)", "Classification Scores
// (0-100)", "Metadata", "Analysis"). Lookup order per field is fixed:
// prose-cased section first, canonical section second, default last.
func ParseAnalysis(text string) (*AnalysisResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in analyzer response")
	}
	raw := []byte(text[start : end+1])

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON in analyzer response: %w", err)
	}

	measurements := sections(payload, "Physical Measurements (in cm)", "measurements")
	scores := sections(payload, "Classification Scores (0-100)", "scores")
	metadata := sections(payload, "Metadata", "metadata")
	// Confidence and notes live either under an "Analysis" section or at the
	// top level of the payload.
	analysis := append(sections(payload, "Analysis"), payload)

	result := &AnalysisResult{
		AnimalType: NormalizeAnimalType(pickString([]map[string]interface{}{payload}, AnimalTypeHuman, "Animal Type", "animalType")),
		Measurements: AnalysisMeasurements{
			BodyLength:      pickNumber(measurements, 0, "bodyLength"),
			HeightAtWithers: pickNumber(measurements, 0, "heightAtWithers"),
			ChestWidth:      pickNumber(measurements, 0, "chestWidth"),
			RumpAngle:       pickNumber(measurements, 0, "rumpAngle"),
			BodyCondition:   pickNumber(measurements, DefaultBodyCondition, "bodyCondition"),
		},
		Scores: AnalysisScores{
			OverallScore:      pickNumber(scores, DefaultScore, "overallScore"),
			BreedScore:        pickNumber(scores, DefaultScore, "breedScore"),
			ConformationScore: pickNumber(scores, DefaultScore, "conformationScore"),
		},
		Metadata: AnalysisMetadata{
			Breed:  pickString(metadata, "Unknown", "breed"),
			Age:    pickIntPtr(metadata, "age"),
			Weight: pickFloatPtr(metadata, "weight"),
			Gender: pickString(metadata, "Unknown", "gender"),
		},
		Confidence:    pickNumber(analysis, DefaultConfidence, "confidence"),
		AnalysisNotes: pickString(analysis, "Analysis completed", "analysisNotes"),
		Raw:           raw,
	}
	return result, nil
}

// FallbackAnalysis is the last-resort all-defaults result returned when the
// analyzer call fails outright. Confidence is deliberately disclosed as low.
func FallbackAnalysis() *AnalysisResult {
	return &AnalysisResult{
		AnimalType: AnimalTypeHuman,
		Measurements: AnalysisMeasurements{
			BodyCondition: DefaultBodyCondition,
		},
		Scores: AnalysisScores{
			OverallScore:      DefaultScore,
			BreedScore:        DefaultScore,
			ConformationScore: DefaultScore,
		},
		Metadata: AnalysisMetadata{
			Breed:  "Unknown",
			Gender: "Unknown",
		},
		Confidence:    0.1,
		AnalysisNotes: "Analysis failed - using default values",
	}
}

// NormalizeAnimalType maps the model's loosely-cased labels onto the
// canonical stored values; unrecognized labels pass through as given.
func NormalizeAnimalType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cattle", "cow", "bull":
		return AnimalTypeCattle
	case "buffalo":
		return AnimalTypeBuffalo
	case "human", "person":
		return AnimalTypeHuman
	case "":
		return AnimalTypeHuman
	}
	return strings.TrimSpace(raw)
}

// sections collects the nested objects present under keys, in the given
// preference order.
func sections(payload map[string]interface{}, keys ...string) []map[string]interface{} {
	var found []map[string]interface{}
	for _, key := range keys {
		if section, ok := payload[key].(map[string]interface{}); ok {
			found = append(found, section)
		}
	}
	return found
}

func pickNumber(secs []map[string]interface{}, defaultVal float64, key string) float64 {
	for _, sec := range secs {
		if v, ok := sec[key].(float64); ok {
			return v
		}
	}
	return defaultVal
}

func pickString(secs []map[string]interface{}, defaultVal string, keys ...string) string {
	for _, key := range keys {
		for _, sec := range secs {
			if v, ok := sec[key].(string); ok && strings.TrimSpace(v) != "" {
				return v
			}
		}
	}
	return defaultVal
}

func pickIntPtr(secs []map[string]interface{}, key string) *int {
	for _, sec := range secs {
		if v, ok := sec[key].(float64); ok {
			i := int(v)
			return &i
		}
	}
	return nil
}

func pickFloatPtr(secs []map[string]interface{}, key string) *float64 {
	for _, sec := range secs {
		if v, ok := sec[key].(float64); ok {
			return &v
		}
	}
	return nil
}
