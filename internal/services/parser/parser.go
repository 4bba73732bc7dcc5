// Package parser extracts structured meeting intent from natural-language
// commands using an OpenAI-compatible chat completion API. The model is a
// field extractor only; the deterministic policy rules attach the status.
package parser

import (
	"context"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/scheduler"
	"github.com/ymatsui/aical/internal/timeutil"
)

const (
	// DefaultModel is the default extraction model.
	DefaultModel = "llama-3.3-70b-versatile"
	// DefaultBaseURL is the default OpenAI-compatible endpoint (Groq).
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultTimeout is the default timeout for extraction calls.
	DefaultTimeout = 30 * time.Second

	// extractionTemperature keeps field extraction near-deterministic.
	extractionTemperature = 0.1
	extractionMaxTokens   = 400
	updateMaxTokens       = 200

	// reasonAPIError marks candidates produced after an API failure.
	reasonAPIError = "ai_error"
	// reasonUnparseable marks candidates produced from a response that
	// carried no decodable JSON object.
	reasonUnparseable = "unparseable_response"
)

// Config carries the extraction endpoint settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// TestAttendee, when set to a valid email, is appended to every
	// extraction's attendee list. Used in staging to exercise invitations.
	TestAttendee string
	DebugMode    bool
}

// MeetingParser talks to the extraction model and normalizes its output.
type MeetingParser struct {
	client       openai.Client
	model        string
	policy       scheduler.PolicyEvaluator
	testAttendee string
	logger       *zap.Logger
	debugMode    bool
	now          func() time.Time
}

// NewMeetingParser creates a parser over the configured endpoint. The policy
// evaluator derives the status attached to each successful extraction.
func NewMeetingParser(cfg Config, policy scheduler.PolicyEvaluator, logger *zap.Logger) *MeetingParser {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &MeetingParser{
		client:       client,
		model:        model,
		policy:       policy,
		testAttendee: cfg.TestAttendee,
		logger:       logger,
		debugMode:    cfg.DebugMode,
		now:          timeutil.NowJST,
	}
}

// Parse extracts a meeting candidate from a command. It never returns an
// error: extraction failures yield a canonical incomplete candidate tagged
// for fallback reconciliation, so a flaky model cannot fail a request.
func (p *MeetingParser) Parse(ctx context.Context, command string, history []string) models.MeetingCandidate {
	now := p.now()
	prompt := buildExtractionPrompt(now, history)

	content, err := p.complete(ctx, "extract_meeting", prompt, command, extractionMaxTokens)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("meeting_extraction_failed", zap.Error(err))
		}
		return emptyCandidate(reasonAPIError)
	}

	raw, err := decodeIntent(content)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("meeting_extraction_unparseable",
				zap.Error(err),
				zap.Int("response_length", len(content)),
			)
		}
		return emptyCandidate(reasonUnparseable)
	}

	candidate := normalize(raw, command, p.testAttendee)
	candidate.Status, candidate.Reason = p.policy.Evaluate(candidate, now)
	candidate.DecisionSource = models.DecisionSourceAI
	return candidate
}

// ParseUpdate extracts the changed fields from an update command. Failures
// yield an empty update, which the caller rejects as changing nothing.
func (p *MeetingParser) ParseUpdate(ctx context.Context, command string) models.MeetingUpdate {
	content, err := p.complete(ctx, "extract_update", buildUpdatePrompt(p.now()), command, updateMaxTokens)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("update_extraction_failed", zap.Error(err))
		}
		return models.MeetingUpdate{}
	}

	raw, err := decodeUpdate(content)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("update_extraction_unparseable", zap.Error(err))
		}
		return models.MeetingUpdate{}
	}
	return normalizeUpdate(raw)
}

// complete sends one system+user exchange and returns the raw response text.
func (p *MeetingParser) complete(ctx context.Context, operation, systemPrompt, command string, maxTokens int64) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(command),
	}
	req := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(extractionTemperature),
		MaxTokens:   openai.Int(maxTokens),
	}

	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", operation),
			zap.String("model", p.model),
			zap.Int("prompt_length", len(systemPrompt)),
			zap.String("command_preview", SanitizePreview(command, false)),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", operation),
				zap.String("model", p.model),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}

	content := resp.Choices[0].Message.Content
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", operation),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizePreview(content, true)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}
	return content, nil
}

// emptyCandidate is the canonical shape for a failed extraction: nothing
// usable was derived, so the reconciler's fallback path takes over.
func emptyCandidate(reason string) models.MeetingCandidate {
	return models.MeetingCandidate{
		DurationMinutes: DefaultDurationMinutes,
		Attendees:       []string{},
		Status:          models.StatusIncomplete,
		Reason:          reason,
		DecisionSource:  models.DecisionSourceFallback,
	}
}
