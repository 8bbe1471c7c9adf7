package services

import (
	"strings"
	"sync"
	"testing"

	"github.com/herdsight/herdsight-backend/internal/repos/testutil"
)

func TestParseAnalysisCanonicalKeys(t *testing.T) {
	text := `{
		"animalType": "cattle",
		"measurements": {"bodyLength": 182.5, "heightAtWithers": 141, "chestWidth": 61, "rumpAngle": 14, "bodyCondition": 6},
		"scores": {"overallScore": 88, "breedScore": 82, "conformationScore": 91},
		"metadata": {"breed": "Gir", "age": 5, "weight": 480.5, "gender": "female"},
		"confidence": 0.92,
		"analysisNotes": "clear side profile"
	}`
	res, err := ParseAnalysis(text)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if res.AnimalType != AnimalTypeCattle {
		t.Fatalf("animalType: %q", res.AnimalType)
	}
	if res.Measurements.BodyLength != 182.5 || res.Measurements.BodyCondition != 6 {
		t.Fatalf("measurements: %+v", res.Measurements)
	}
	if res.Scores.OverallScore != 88 || res.Scores.BreedScore != 82 || res.Scores.ConformationScore != 91 {
		t.Fatalf("scores: %+v", res.Scores)
	}
	if res.Metadata.Breed != "Gir" || res.Metadata.Age == nil || *res.Metadata.Age != 5 {
		t.Fatalf("metadata: %+v", res.Metadata)
	}
	if res.Metadata.Weight == nil || *res.Metadata.Weight != 480.5 {
		t.Fatalf("weight: %+v", res.Metadata.Weight)
	}
	if res.Confidence != 0.92 || res.AnalysisNotes != "clear side profile" {
		t.Fatalf("analysis: %v %q", res.Confidence, res.AnalysisNotes)
	}
}

func TestParseAnalysisProseCasedKeys(t *testing.T) {
	text := `{
		"Animal Type": "Buffalo",
		"Physical Measurements (in cm)": {"bodyLength": 200, "bodyCondition": 7},
		"Classification Scores (0-100)": {"overallScore": 75},
		"Metadata": {"breed": "Murrah", "gender": "male"},
		"Analysis": {"confidence": 0.7, "analysisNotes": "partial view"}
	}`
	res, err := ParseAnalysis(text)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if res.AnimalType != AnimalTypeBuffalo {
		t.Fatalf("animalType: %q", res.AnimalType)
	}
	if res.Measurements.BodyLength != 200 || res.Measurements.BodyCondition != 7 {
		t.Fatalf("measurements: %+v", res.Measurements)
	}
	// Fields absent from the prose sections take defaults.
	if res.Measurements.HeightAtWithers != 0 {
		t.Fatalf("heightAtWithers default: %v", res.Measurements.HeightAtWithers)
	}
	if res.Scores.OverallScore != 75 || res.Scores.BreedScore != DefaultScore {
		t.Fatalf("scores: %+v", res.Scores)
	}
	if res.Metadata.Breed != "Murrah" || res.Metadata.Age != nil {
		t.Fatalf("metadata: %+v", res.Metadata)
	}
	if res.Confidence != 0.7 || res.AnalysisNotes != "partial view" {
		t.Fatalf("analysis: %v %q", res.Confidence, res.AnalysisNotes)
	}
}

func TestParseAnalysisAppliesAllDefaults(t *testing.T) {
	res, err := ParseAnalysis(`{"animalType": "Cattle"}`)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if res.Measurements.BodyCondition != DefaultBodyCondition {
		t.Fatalf("bodyCondition: %v", res.Measurements.BodyCondition)
	}
	if res.Scores.OverallScore != DefaultScore || res.Scores.BreedScore != DefaultScore || res.Scores.ConformationScore != DefaultScore {
		t.Fatalf("scores: %+v", res.Scores)
	}
	if res.Confidence != DefaultConfidence {
		t.Fatalf("confidence: %v", res.Confidence)
	}
	if res.Metadata.Breed != "Unknown" || res.Metadata.Gender != "Unknown" {
		t.Fatalf("metadata defaults: %+v", res.Metadata)
	}
	if res.AnalysisNotes != "Analysis completed" {
		t.Fatalf("notes default: %q", res.AnalysisNotes)
	}
}

func TestParseAnalysisMarkdownFence(t *testing.T) {
	text := "```json\n{\"animalType\": \"buffalo\", \"confidence\": 0.6}\n```"
	res, err := ParseAnalysis(text)
	if err != nil {
		t.Fatalf("ParseAnalysis: %v", err)
	}
	if res.AnimalType != AnimalTypeBuffalo || res.Confidence != 0.6 {
		t.Fatalf("fenced payload: %q %v", res.AnimalType, res.Confidence)
	}
	if !strings.HasPrefix(string(res.Raw), "{") {
		t.Fatalf("raw payload not captured: %q", res.Raw)
	}
}

func TestParseAnalysisRejectsNonJSON(t *testing.T) {
	if _, err := ParseAnalysis("I could not identify the animal."); err == nil {
		t.Fatalf("expected error for prose-only response")
	}
	if _, err := ParseAnalysis("{not valid json}"); err == nil {
		t.Fatalf("expected error for broken JSON")
	}
}

func TestNormalizeAnimalType(t *testing.T) {
	cases := map[string]string{
		"cattle":  AnimalTypeCattle,
		"Cattle":  AnimalTypeCattle,
		"COW":     AnimalTypeCattle,
		"buffalo": AnimalTypeBuffalo,
		"human":   AnimalTypeHuman,
		"":        AnimalTypeHuman,
		"Goat":    "Goat",
	}
	for in, want := range cases {
		if got := NormalizeAnimalType(in); got != want {
			t.Fatalf("NormalizeAnimalType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFallbackAnalysisIsFullyPopulated(t *testing.T) {
	res := FallbackAnalysis()
	if res.AnimalType != AnimalTypeHuman {
		t.Fatalf("animalType: %q", res.AnimalType)
	}
	if res.Scores.OverallScore != DefaultScore || res.Measurements.BodyCondition != DefaultBodyCondition {
		t.Fatalf("fallback defaults: %+v %+v", res.Scores, res.Measurements)
	}
	if res.Confidence != 0.1 {
		t.Fatalf("fallback confidence must disclose low quality: %v", res.Confidence)
	}
}

func TestMockAnalyzer(t *testing.T) {
	ma := NewMockAnalyzer(testutil.Logger(t))
	res := ma.Analyze(t.Context(), []byte("not-really-an-image"), "image/jpeg")
	switch res.AnimalType {
	case AnimalTypeCattle, AnimalTypeBuffalo, AnimalTypeHuman:
	default:
		t.Fatalf("unexpected animal type %q", res.AnimalType)
	}
	if res.Scores.OverallScore == 0 || res.Confidence == 0 {
		t.Fatalf("mock result not populated: %+v", res)
	}
}

func TestMockAnalyzerConcurrentRequests(t *testing.T) {
	ma := NewMockAnalyzer(testutil.Logger(t))
	ctx := t.Context()

	// The mock serves overlapping classify requests, so it must be safe to
	// call from multiple goroutines.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				res := ma.Analyze(ctx, []byte("frame"), "image/jpeg")
				switch res.AnimalType {
				case AnimalTypeCattle, AnimalTypeBuffalo, AnimalTypeHuman:
				default:
					t.Errorf("unexpected animal type %q", res.AnimalType)
				}
			}
		}()
	}
	wg.Wait()
}
