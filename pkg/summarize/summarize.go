// Package summarize produces per-file summaries through a language model
// provider and can write them back into source files as marker comment
// blocks.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"promptpack/pkg/bundle"
	"promptpack/pkg/sink"
)

// Summarizer turns admitted file texts into model-written summaries.
type Summarizer struct {
	provider Provider
	logger   *zap.Logger
}

func New(provider Provider, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{provider: provider, logger: logger}
}

// Summarize requests one summary per file, sequentially and in input
// order. texts carries the per-file content, or the per-file diff
// fragment when diffMode is set. A failed request yields an error
// placeholder for that file instead of failing the whole run.
func (s *Summarizer) Summarize(ctx context.Context, files []bundle.AdmittedFile, texts []string, diffMode bool) ([]string, error) {
	if len(files) != len(texts) {
		return nil, fmt.Errorf("%d texts for %d files", len(texts), len(files))
	}

	summaries := make([]string, 0, len(files))
	for i, f := range files {
		prompt := buildPrompt(f.RelPath, texts[i], diffMode)

		resp, err := s.provider.Complete(ctx, Request{Prompt: prompt})
		if err != nil {
			s.logger.Warn("Failed to summarize file",
				zap.String("filePath", f.RelPath),
				zap.String("provider", s.provider.Name()),
				zap.Error(err))
			summaries = append(summaries, fmt.Sprintf("Error: failed to summarize %s: %v", f.RelPath, err))
			continue
		}

		s.logger.Debug("Summarized file",
			zap.String("filePath", f.RelPath),
			zap.String("provider", s.provider.Name()),
			zap.Int("tokensUsed", resp.TokensUsed))
		summaries = append(summaries, resp.Content)
	}
	return summaries, nil
}

// buildPrompt substitutes the file text into the prompt template and
// appends the comment structure the response must follow, so that the
// summary can later be applied to the file verbatim.
func buildPrompt(relPath, text string, diffMode bool) string {
	tmpl := summaryPrompt
	if diffMode {
		tmpl = diffSummaryPrompt
	}
	prompt := strings.ReplaceAll(tmpl, sink.ContentMarker, bundle.StripMarkerBlock(text))

	style, ok := StyleFor(relPath)
	switch {
	case !ok:
		prompt += fmt.Sprintf(genericStructureHint, bundle.MarkerStart, bundle.MarkerEnd)
	case style.End != "":
		prompt += fmt.Sprintf(blockStructureHint, style.Start, bundle.MarkerStart, bundle.MarkerEnd, style.End)
	default:
		prompt += fmt.Sprintf(lineStructureHint,
			style.Start, style.Start, style.Start, bundle.MarkerStart, style.Start, bundle.MarkerEnd, style.Start)
	}
	return prompt
}
