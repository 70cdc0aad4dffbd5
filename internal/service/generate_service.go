package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/retoneapp/api/internal/model"
)

// TextGenerator defines the single-turn generation call the service needs
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Number of rewrite attempts before the last result is kept as-is.
const maxRewriteAttempts = 4

// GenerateService rewrites text toward a target length and classifies
// emotion and language using the generation API
type GenerateService struct {
	generator TextGenerator
}

// NewGenerateService creates a new generate service
func NewGenerateService(generator TextGenerator) *GenerateService {
	return &GenerateService{
		generator: generator,
	}
}

// Rewrite runs the bounded rewrite loop. Each attempt feeds the previous
// attempt's measured length back into the prompt; the first result inside
// the tolerance window wins. After the last attempt the most recent text is
// kept regardless of length. Generation errors are propagated, not retried.
func (s *GenerateService) Rewrite(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	text := ""
	previousLength := -1

	for attempt := 0; attempt < maxRewriteAttempts; attempt++ {
		prompt := BuildRewritePrompt(req.BaseText, req.TargetLength, previousLength, req.TargetEmotion, req.TargetLanguage)

		out, err := s.generator.GenerateContent(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("rewrite generation failed: %w", err)
		}

		text = strings.TrimSpace(out)
		length := utf8.RuneCountInString(text)
		if withinTolerance(length, req.TargetLength) {
			break
		}
		previousLength = length
	}

	return &model.GenerateResponse{
		Text:     text,
		Emotion:  s.classifyEmotion(ctx, text),
		Language: s.classifyLanguage(ctx, text),
	}, nil
}

// Analyze classifies the text without rewriting it. The input is echoed
// back unchanged.
func (s *GenerateService) Analyze(ctx context.Context, text string) *model.GenerateResponse {
	return &model.GenerateResponse{
		Text:     text,
		Emotion:  s.classifyEmotion(ctx, text),
		Language: s.classifyLanguage(ctx, text),
	}
}

// classifyEmotion resolves the dominant emotion of text. Generation
// failures are swallowed and resolve to the fallback.
func (s *GenerateService) classifyEmotion(ctx context.Context, text string) string {
	out, err := s.generator.GenerateContent(ctx, BuildEmotionPrompt(text))
	if err != nil {
		return model.EmotionFallback
	}
	return model.MatchEmotion(out)
}

func (s *GenerateService) classifyLanguage(ctx context.Context, text string) string {
	out, err := s.generator.GenerateContent(ctx, BuildLanguagePrompt(text))
	if err != nil {
		return model.LanguageFallback
	}
	return model.MatchLanguage(out)
}
