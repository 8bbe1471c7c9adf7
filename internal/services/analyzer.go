package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"google.golang.org/genai"

	"github.com/herdsight/herdsight-backend/internal/pkg/logger"
)

// Analyzer turns raw image bytes into a normalized classification result.
// Implementations absorb their own failures: callers always receive a usable
// result, degraded to all-defaults low confidence at worst, never an error.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) *AnalysisResult
}

const analysisPrompt = `Analyze this image and classify what you see. This could be a livestock animal (cattle or buffalo) or a human. Provide detailed measurements and classification scores.

Please provide the following information in EXACT JSON format with these exact field names:

{
  "animalType": "Cattle", "Buffalo", or "Human",
  "measurements": {
    "bodyLength": number (length from shoulder to rump in cm),
    "heightAtWithers": number (height at the highest point of the back in cm),
    "chestWidth": number (width of the chest in cm),
    "rumpAngle": number (angle of the rump in degrees),
    "bodyCondition": number (body condition score 1-9 scale)
  },
  "scores": {
    "overallScore": number (0-100 overall quality score),
    "breedScore": number (0-100 breed-specific characteristics score),
    "conformationScore": number (0-100 physical conformation score)
  },
  "metadata": {
    "breed": "string (estimated breed if identifiable)",
    "age": number (estimated age in years),
    "weight": number (estimated weight in kg),
    "gender": "male" or "female"
  },
  "confidence": number (confidence level 0-1),
  "analysisNotes": "string (brief notes about the analysis)"
}

Return ONLY the JSON object without any additional text, markdown formatting, or explanations.`

type geminiAnalyzer struct {
	log        *logger.Logger
	client     *genai.Client
	model      string
	maxRetries int
}

// NewGeminiAnalyzer builds the production analyzer on the Gemini API.
func NewGeminiAnalyzer(log *logger.Logger, apiKey, model string) (Analyzer, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &geminiAnalyzer{
		log:        log.With("service", "GeminiAnalyzer"),
		client:     client,
		model:      model,
		maxRetries: 3,
	}, nil
}

func (ga *geminiAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) *AnalysisResult {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(analysisPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	var lastErr error
	for attempt := 1; attempt <= ga.maxRetries; attempt++ {
		resp, err := ga.client.Models.GenerateContent(ctx, ga.model, contents, nil)
		if err != nil {
			lastErr = err
			if !isRateLimitErr(err) {
				break
			}
			// Rate-limit-class failure: increasing backoff, then retry.
			wait := time.Duration(attempt) * 2 * time.Second
			ga.log.Warn("Gemini rate limited, backing off", "attempt", attempt, "wait", wait, "error", err)
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = ga.maxRetries
			case <-time.After(wait):
			}
			continue
		}

		result, parseErr := ParseAnalysis(resp.Text())
		if parseErr != nil {
			lastErr = parseErr
			break
		}
		return result
	}

	ga.log.Warn("Gemini analysis failed, using fallback result", "error", lastErr)
	return FallbackAnalysis()
}

func isRateLimitErr(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || (apiErr.Code >= 500 && apiErr.Code <= 599)
	}
	return false
}

// mockAnalyzer stands in when no Gemini API key is configured. It answers
// with a plausible fixed profile under a randomly chosen animal type so the
// rest of the pipeline can be exercised end to end.
type mockAnalyzer struct {
	log *logger.Logger
}

func NewMockAnalyzer(log *logger.Logger) Analyzer {
	return &mockAnalyzer{
		log: log.With("service", "MockAnalyzer"),
	}
}

func (ma *mockAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) *AnalysisResult {
	animalTypes := []string{AnimalTypeCattle, AnimalTypeBuffalo, AnimalTypeHuman}
	age := 4
	weight := 650.0
	return &AnalysisResult{
		// The top-level rand functions are safe for concurrent requests.
		AnimalType: animalTypes[rand.Intn(len(animalTypes))],
		Measurements: AnalysisMeasurements{
			BodyLength:      180,
			HeightAtWithers: 140,
			ChestWidth:      60,
			RumpAngle:       15,
			BodyCondition:   7,
		},
		Scores: AnalysisScores{
			OverallScore:      85,
			BreedScore:        80,
			ConformationScore: 90,
		},
		Metadata: AnalysisMetadata{
			Breed:  "Holstein",
			Age:    &age,
			Weight: &weight,
			Gender: "female",
		},
		Confidence:    0.8,
		AnalysisNotes: "Mock analysis - configure GEMINI_API_KEY for real analysis",
	}
}
