package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/recipe-chat/backend/internal/apperrors"
	"github.com/pageza/recipe-chat/backend/internal/metrics"
	"github.com/pageza/recipe-chat/backend/internal/model"
)

// UntitledRecipe is the title given to recipes the model did not name.
const UntitledRecipe = "Untitled Recipe"

// ChatRequest is one turn of a client-held conversation.
type ChatRequest struct {
	History []model.ChatMessage
	Options model.GenerationOptions
}

// ChatReply is the assistant's answer with its recipe card and follow-up ideas.
type ChatReply struct {
	Message     model.ChatMessage       `json:"message"`
	Recipe      *model.RecipeSuggestion `json:"recipe,omitempty"`
	Suggestions []string                `json:"suggestions,omitempty"`
}

// ChatServiceConfig tunes provider calls.
type ChatServiceConfig struct {
	Params            GenerationParams
	Parser            Parser
	RequestsPerSecond float64
	Burst             int
}

type chatStage string

const (
	stageReceived     chatStage = "received"
	stagePromptBuilt  chatStage = "prompt_built"
	stageModelInvoked chatStage = "model_invoked"
	stageParsed       chatStage = "parsed"
	stageResponded    chatStage = "responded"
)

// ChatService runs the chat-to-recipe pipeline: build the prompt, call the
// provider once, parse the answer. Failures are never retried.
type ChatService struct {
	provider Provider
	parser   Parser
	params   GenerationParams
	limiter  *rate.Limiter
	metrics  *metrics.Collector
	logger   *zap.Logger
}

func NewChatService(provider Provider, cfg ChatServiceConfig, m *metrics.Collector, logger *zap.Logger) *ChatService {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		provider: provider,
		parser:   cfg.Parser,
		params:   cfg.Params,
		limiter:  limiter,
		metrics:  m,
		logger:   logger,
	}
}

// Chat answers the last user message of req.History.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	s.trace(stageReceived, zap.Int("turns", len(req.History)))

	prompt, err := BuildChatPrompt(req.History, req.Options)
	if err != nil {
		return nil, err
	}
	s.trace(stagePromptBuilt, zap.Int("prompt_bytes", len(prompt)))

	text, err := s.invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}
	s.trace(stageModelInvoked, zap.Int("completion_bytes", len(text)))

	completion, err := s.parser.Parse(text, ParseDefaults{Title: UntitledRecipe, MealType: req.Options.MealType})
	if err != nil {
		s.logger.Warn("unparseable completion", zap.String("provider", s.provider.Name()), zap.Error(err))
		return nil, err
	}
	s.trace(stageParsed, zap.String("title", completion.Recipe.Title))

	draft := completion.Recipe
	suggestion := &model.RecipeSuggestion{
		Title:      draft.Title,
		Time:       FormatMinutes(draft.PrepTime),
		Servings:   FormatServings(draft.Servings),
		FullRecipe: &draft,
	}
	reply := &ChatReply{
		Message: model.ChatMessage{
			Role:    model.RoleAssistant,
			Content: completion.Reply,
			Recipe:  suggestion,
		},
		Recipe:      suggestion,
		Suggestions: followUps(draft, req.Options),
	}

	s.metrics.RecipeGenerated("chat")
	s.trace(stageResponded)
	return reply, nil
}

// GenerateRecipe produces a single recipe from a one-shot prompt.
func (s *ChatService) GenerateRecipe(ctx context.Context, opts model.GenerationOptions) (*model.RecipeDraft, error) {
	prompt, err := BuildGenerationPrompt(opts)
	if err != nil {
		return nil, err
	}

	text, err := s.invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}

	completion, err := s.parser.Parse(text, ParseDefaults{Title: UntitledRecipe, MealType: opts.MealType})
	if err != nil {
		s.logger.Warn("unparseable completion", zap.String("provider", s.provider.Name()), zap.Error(err))
		return nil, err
	}

	s.metrics.RecipeGenerated("generate")
	return &completion.Recipe, nil
}

func (s *ChatService) invoke(ctx context.Context, prompt string) (string, error) {
	name := s.provider.Name()
	if err := s.limiter.Wait(ctx); err != nil {
		return "", apperrors.NewProviderError(name, fmt.Errorf("waiting for provider capacity: %w", err))
	}

	start := time.Now()
	text, err := s.provider.Generate(ctx, prompt, s.params)
	if err != nil {
		s.metrics.AIRequest(name, "error", time.Since(start))
		s.logger.Error("AI provider call failed",
			zap.String("provider", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", apperrors.NewProviderError(name, err)
	}
	s.metrics.AIRequest(name, "ok", time.Since(start))
	return text, nil
}

func (s *ChatService) trace(stage chatStage, fields ...zap.Field) {
	if ce := s.logger.Check(zap.DebugLevel, "chat stage"); ce != nil {
		ce.Write(append(fields, zap.String("stage", string(stage)))...)
	}
}

// FormatMinutes renders a duration in minutes for display, e.g. "1 hr 15 min".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours, rest := minutes/60, minutes%60
	if rest == 0 {
		return fmt.Sprintf("%d hr", hours)
	}
	return fmt.Sprintf("%d hr %d min", hours, rest)
}

// FormatServings renders a serving count for display.
func FormatServings(servings int) string {
	if servings == 1 {
		return "1 serving"
	}
	return fmt.Sprintf("%d servings", servings)
}

func followUps(d model.RecipeDraft, opts model.GenerationOptions) []string {
	var out []string
	if strings.TrimSpace(opts.Dietary) == "" {
		out = append(out, "Make it vegetarian")
	}
	if d.PrepTime > 20 {
		out = append(out, "Can I make this in under 20 minutes?")
	}
	if d.Title != "" && d.Title != UntitledRecipe {
		out = append(out, fmt.Sprintf("What side dish goes well with %s?", d.Title))
	}
	return append(out, "Suggest something different")
}
