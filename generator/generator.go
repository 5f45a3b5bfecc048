package generator

import (
	"context"
	"fmt"

	"github.com/rankcraft/backend/logging"
	"github.com/rankcraft/backend/stats"
)

const (
	temperature = 0.7
	topP        = 1.0
	maxTokens   = 2048
)

// Article is a generated draft
type Article struct {
	Keyword  string `json:"keyword"`
	Length   string `json:"length"`
	Tone     string `json:"tone"`
	Template string `json:"template_id,omitempty"`
	Article  string `json:"article"`
}

// BatchResult is one item of a batch run; Error is set when that item failed
type BatchResult struct {
	Keyword string `json:"keyword"`
	Article string `json:"article"`
	Error   string `json:"error,omitempty"`
}

// Generator drafts SEO articles through an LLM
type Generator struct {
	llm   LLMClient
	usage *stats.Storage
}

// New creates a Generator. usage may be nil.
func New(llm LLMClient, usage *stats.Storage) *Generator {
	return &Generator{llm: llm, usage: usage}
}

func (g *Generator) complete(ctx context.Context, user string) (string, error) {
	content, err := g.llm.Complete(ctx, Prompt{
		System:      systemPrompt,
		User:        user,
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if g.usage != nil {
		g.usage.RecordArticles(1)
	}
	return content, nil
}

func (g *Generator) Generate(ctx context.Context, req Request) (Article, error) {
	if err := req.Validate(); err != nil {
		return Article{}, err
	}

	content, err := g.complete(ctx, BuildPrompt(req.Keyword, req.Tone, req.Length))
	if err != nil {
		logging.Log.WithError(err).WithField("keyword", req.Keyword).Error("article generation failed")
		return Article{}, fmt.Errorf("failed to generate article: %w", err)
	}

	return Article{
		Keyword: req.Keyword,
		Length:  req.Length,
		Tone:    req.Tone,
		Article: content,
	}, nil
}

func (g *Generator) GenerateFromTemplate(ctx context.Context, req Request, templateID string) (Article, error) {
	if err := req.Validate(); err != nil {
		return Article{}, err
	}
	tmpl, err := GetTemplate(templateID)
	if err != nil {
		return Article{}, err
	}

	content, err := g.complete(ctx, BuildTemplatePrompt(req.Keyword, req.Tone, req.Length, tmpl))
	if err != nil {
		logging.Log.WithError(err).WithField("template", templateID).Error("template generation failed")
		return Article{}, fmt.Errorf("failed to generate article: %w", err)
	}

	return Article{
		Keyword:  req.Keyword,
		Length:   req.Length,
		Tone:     req.Tone,
		Template: tmpl.ID,
		Article:  content,
	}, nil
}

// GenerateBatch drafts items one after another. A failing item is reported in
// its result and does not stop the batch; a cancelled context does.
func (g *Generator) GenerateBatch(ctx context.Context, items []Request) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := BatchResult{Keyword: item.Keyword}
		article, err := g.Generate(ctx, item)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Article = article.Article
		}
		results = append(results, result)
	}
	return results, nil
}
