package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/m2rads/e2e/internal/analyzer"
	"github.com/m2rads/e2e/internal/config"
	"github.com/m2rads/e2e/internal/contextpack"
	"github.com/m2rads/e2e/internal/discovery"
	"github.com/m2rads/e2e/internal/framework"
	"github.com/m2rads/e2e/internal/generator"
	"github.com/m2rads/e2e/internal/prompt"
	"github.com/m2rads/e2e/internal/storage"
	"github.com/m2rads/e2e/pkg/types"
)

// Pipeline wires discovery, analysis, chunking and generation together.
// Everything runs sequentially: chunk order matters for reconstructing a
// complete response set, and the generation service enforces a
// request-rate ceiling.
type Pipeline struct {
	cfg       *config.Config
	analyzer  *analyzer.Analyzer
	extractor *contextpack.Extractor
	client    generator.Client
	writer    *generator.Writer
	cache     *storage.Cache // optional
	logger    *slog.Logger
}

// Result carries everything a run produced. Some chunks may have failed
// along the way; callers only see the final artifact list.
type Result struct {
	Analyses     []*types.ComponentAnalysis
	Framework    types.FrameworkInfo
	Chunks       int
	FailedChunks int
	Artifacts    []types.Artifact
	Written      []string
	FailedWrites int
	RunID        string
}

// New assembles a pipeline. The cache may be nil; the client may be nil
// for analysis-only use.
func New(cfg *config.Config, client generator.Client, cache *storage.Cache, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		analyzer:  analyzer.New(logger),
		extractor: contextpack.NewExtractor(logger),
		client:    client,
		writer:    generator.NewWriter(cfg.OutputDir, logger),
		cache:     cache,
		logger:    logger,
	}
}

// Analyze runs discovery, prioritization and structural analysis over
// root and returns the per-file models plus the advisory framework
// classification taken from a representative file.
func (p *Pipeline) Analyze(ctx context.Context, root string) ([]*types.ComponentAnalysis, []string, types.FrameworkInfo, error) {
	files, err := discovery.Discover(root, p.cfg.Include, p.cfg.Exclude)
	if err != nil {
		return nil, nil, types.FrameworkInfo{}, fmt.Errorf("discovering files: %w", err)
	}
	selected := discovery.Prioritize(files)
	p.logger.Info("files selected", "discovered", len(files), "selected", len(selected))

	fw := p.detectFramework(selected)

	var analyses []*types.ComponentAnalysis
	for _, file := range selected {
		analysis, err := p.analyzeOne(ctx, file)
		if err != nil {
			p.logger.Warn("analysis failed, file dropped", "file", file, "error", err)
			continue
		}
		if analysis == nil {
			continue // no UI elements
		}
		analyses = append(analyses, analysis)
	}
	return analyses, selected, fw, nil
}

// analyzeOne consults the cache before parsing. Cache errors degrade to a
// fresh analysis, never to a failed file.
func (p *Pipeline) analyzeOne(ctx context.Context, file string) (*types.ComponentAnalysis, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var hash string
	if p.cache != nil {
		hash = storage.HashContent(src)
		if cached, ok := p.cache.GetAnalysis(file, hash); ok {
			return cached, nil
		}
	}

	analysis, err := p.analyzer.AnalyzeSource(ctx, file, src)
	if err != nil {
		return nil, err
	}
	if analysis != nil && p.cache != nil {
		if err := p.cache.PutAnalysis(file, hash, analysis); err != nil {
			p.logger.Warn("cache write failed", "file", file, "error", err)
		}
	}
	return analysis, nil
}

// detectFramework classifies the dialect from the first UI-indicator
// file, falling back to the first selected file.
func (p *Pipeline) detectFramework(selected []string) types.FrameworkInfo {
	representative := ""
	for _, file := range selected {
		if discovery.IsUIIndicator(file) {
			representative = file
			break
		}
	}
	if representative == "" && len(selected) > 0 {
		representative = selected[0]
	}
	if representative == "" {
		return types.FrameworkInfo{Type: types.FrameworkUnknown}
	}
	src, err := os.ReadFile(representative)
	if err != nil {
		return types.FrameworkInfo{Type: types.FrameworkUnknown}
	}
	return framework.Detect(string(src))
}

// Run executes the full pipeline: analyze, extract contexts, chunk, and
// drive the generation service chunk by chunk. A rate-limit failure
// aborts the remaining chunks and is returned alongside the partial
// result; any other chunk failure is logged and the loop continues.
func (p *Pipeline) Run(ctx context.Context, root string) (*Result, error) {
	started := time.Now()

	analyses, selected, fw, err := p.Analyze(ctx, root)
	if err != nil {
		return nil, err
	}

	contexts := p.extractor.ExtractAll(ctx, selected)
	if len(contexts) == 0 {
		return nil, fmt.Errorf("no analyzable files under %s", root)
	}

	chunks := contextpack.BuildChunks(contexts, contextpack.Budget(p.cfg.MaxTokens))
	systemPrompt := prompt.SystemPrompt(contexts, fw)

	result := &Result{
		Analyses:  analyses,
		Framework: fw,
		Chunks:    len(chunks),
		RunID:     uuid.NewString(),
	}

	var fatal error
	for i, chunk := range chunks {
		userPrompt := prompt.UserPrompt(chunk, i+1, len(chunks))
		response, err := p.client.Generate(ctx, systemPrompt, userPrompt)
		if err != nil {
			if errors.Is(err, generator.ErrRateLimited) {
				p.logger.Error("rate limited, aborting remaining chunks", "chunk", i+1, "total", len(chunks))
				fatal = err
				break
			}
			p.logger.Warn("chunk generation failed", "chunk", i+1, "error", err)
			result.FailedChunks++
			continue
		}
		artifacts := generator.ParseArtifacts(response)
		if len(artifacts) == 0 {
			p.logger.Info("chunk produced no artifacts", "chunk", i+1)
			continue
		}
		result.Artifacts = append(result.Artifacts, artifacts...)
	}

	// Per-artifact write failures are logged by the writer; they never
	// block the other artifacts, but the count surfaces on the result.
	written, writeErrs := p.writer.WriteAll(result.Artifacts)
	result.Written = written
	result.FailedWrites = len(writeErrs)

	p.recordRun(result, root, started)

	if fatal != nil {
		return result, fatal
	}
	return result, nil
}

func (p *Pipeline) recordRun(result *Result, root string, started time.Time) {
	if p.cache == nil {
		return
	}
	run := types.GenerationRun{
		ID:         result.RunID,
		Model:      p.cfg.Model,
		Root:       root,
		Chunks:     result.Chunks,
		Artifacts:  len(result.Artifacts),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err := p.cache.RecordRun(run); err != nil {
		p.logger.Warn("recording run failed", "error", err)
	}
}
