package extractor

import (
	"Relopilot_1.0/backend/go/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const extractionPrompt = `You are the fact extraction engine of a relocation assistant.
Given one conversation turn and the facts already known about the user, extract any new or changed facts about the user's relocation plans.

Recognized fact types: destination, origin, budget, timeline, name, nationality, profession, family_status, language, visa_requirement.

Rules:
- Only extract facts the user actually stated or clearly implied.
- confidence is a number between 0 and 1.
- Set requires_confirmation to true for high-stakes types (destination, origin, budget) and for any value that contradicts a known fact.
- Do not repeat known facts unless the value changed.

Respond with JSON only, in this shape:
{"facts": [{"fact_type": "...", "value": "...", "confidence": 0.0, "requires_confirmation": false, "context": "..."}]}
Return {"facts": []} when there is nothing to extract.
`

// GeminiExtractor is an Extractor backed by the Gemini API in JSON response
// mode.
type GeminiExtractor struct {
	model *genai.GenerativeModel
}

// NewGeminiExtractor creates a new GeminiExtractor.
func NewGeminiExtractor(ctx context.Context, model, apiKey string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	generativeModel := client.GenerativeModel(model)
	generativeModel.ResponseMIMEType = "application/json"

	return &GeminiExtractor{model: generativeModel}, nil
}

// Extract runs one extraction call. API errors are returned for the caller to
// treat as zero candidates; unparseable model output degrades to an empty
// list here.
func (e *GeminiExtractor) Extract(ctx context.Context, turn *models.ConversationTurn, existing []*models.Fact) ([]*models.CandidateFact, error) {
	prompt, err := buildPrompt(turn, existing)
	if err != nil {
		return nil, err
	}

	resp, err := e.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini extraction call failed: %w", err)
	}

	return ParseCandidates(responseText(resp)), nil
}

func buildPrompt(turn *models.ConversationTurn, existing []*models.Fact) (string, error) {
	known := make([]map[string]string, 0, len(existing))
	for _, fact := range existing {
		known = append(known, map[string]string{
			"fact_type": string(fact.FactType),
			"value":     fact.Value,
		})
	}
	knownJSON, err := json.Marshal(known)
	if err != nil {
		return "", fmt.Errorf("failed to encode known facts: %w", err)
	}

	var b strings.Builder
	b.WriteString(extractionPrompt)
	b.WriteString("\nKnown facts:\n")
	b.Write(knownJSON)
	b.WriteString("\n\nUser: ")
	b.WriteString(turn.UserMessage)
	b.WriteString("\nAssistant: ")
	b.WriteString(turn.AssistantResponse)
	return b.String(), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// ParseCandidates decodes the model's JSON output. Anything unparseable, and
// any entry without a type or value, yields no candidates instead of an
// error.
func ParseCandidates(raw string) []*models.CandidateFact {
	raw = stripFences(raw)

	var payload struct {
		Facts []*models.CandidateFact `json:"facts"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}

	candidates := make([]*models.CandidateFact, 0, len(payload.Facts))
	for _, candidate := range payload.Facts {
		if candidate == nil || candidate.FactType == "" || candidate.Value == "" {
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

// stripFences removes a markdown code fence the model sometimes wraps its
// JSON in despite the response MIME type.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
