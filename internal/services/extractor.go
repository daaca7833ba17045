package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

// RecordExtractor sends all images in a single request and returns the records in
// the order the service produced them.
type RecordExtractor interface {
	Extract(ctx context.Context, parts []models.ImagePart) ([]models.StudentRecord, error)
}

type extractionClient struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	schema        *genai.Schema
}

func NewExtractionClient(gemini GeminiService) RecordExtractor {
	return &extractionClient{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		schema:        StudentRecordSchema(),
	}
}

func (e *extractionClient) Extract(ctx context.Context, parts []models.ImagePart) ([]models.StudentRecord, error) {
	request := make([]*genai.Part, 0, len(parts)+1)
	request = append(request, genai.NewPartFromText(e.promptBuilder.BuildExtractionPrompt()))
	for _, p := range parts {
		request = append(request, genai.NewPartFromBytes(p.Data, p.MimeType))
	}

	log.Info().Int("images", len(parts)).Msg("🤖 Sending extraction request to Gemini")

	response, err := e.gemini.GenerateStructured(ctx, request, e.schema)
	if err != nil {
		kind := ClassifyServiceError(err)
		log.Error().Err(err).Str("kind", string(kind)).Msg("❌ Gemini extraction failed")
		return nil, models.NewExtractionError(kind, err)
	}

	records, err := parseRecords(response)
	if err != nil {
		log.Error().Err(err).Int("response_length", len(response)).Msg("❌ Failed to parse extraction response")
		return nil, models.NewExtractionError(models.KindMalformedResponse, err)
	}

	log.Info().Int("records", len(records)).Msg("✅ Extraction response parsed")
	return records, nil
}

// parseRecords expects a bare JSON array. A surrounding Markdown code fence is tolerated;
// anything else, prose included, is rejected before decoding.
func parseRecords(response string) ([]models.StudentRecord, error) {
	text := stripCodeFence(strings.TrimSpace(response))

	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil, fmt.Errorf("response is not a JSON array: %q", truncate(text, 120))
	}

	var records []models.StudentRecord
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	if records == nil {
		records = []models.StudentRecord{}
	}
	return records, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
