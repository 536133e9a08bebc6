package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"reportgen/internal/events"
	"reportgen/internal/llm/client"
	"reportgen/internal/llm/stream"
	"reportgen/internal/logging"
	"reportgen/internal/models"
	"reportgen/internal/report"
)

// ChatStreamer issues one streaming chat request. *client.Client implements it.
type ChatStreamer interface {
	StreamChat(ctx context.Context, apiKey string, req client.ChatRequest, fn stream.DeltaFunc) error
}

type GenerationService interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error)
	Cancel()
	Output() string
	Running() bool
	Token() uint64
}

type generationService struct {
	settings SettingsService
	chat     ChatStreamer

	mu     sync.Mutex
	token  uint64
	active uint64
	cancel context.CancelFunc
	output strings.Builder
}

func NewGenerationService(settings SettingsService, chat ChatStreamer) GenerationService {
	return &generationService{settings: settings, chat: chat}
}

// Generate runs one report generation. Validation failures leave the current
// output untouched. Starting a generation supersedes any in-flight one: its
// context is canceled and its late deltas are dropped.
func (s *generationService) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	cfg, ok := s.settings.Load(ctx)
	if !ok || !cfg.HasCredential() {
		return nil, ErrMissingCredential
	}
	if strings.TrimSpace(req.Brief) == "" {
		return nil, ErrEmptyBrief
	}
	cat, dep, err := report.Resolve(req.Category, req.Depth)
	if err != nil {
		return nil, err
	}

	model := cfg.Model()
	genCtx, token := s.begin(ctx)
	defer s.finish(token)

	log := logging.Get().With("token", token, "model", model, "category", cat.ID, "depth", dep.ID)
	log.Infow("report generation started", "briefRunes", utf8.RuneCountInString(req.Brief))
	events.Emit(ctx, events.ReportStarted, events.NewStarted(token, model))

	result := &models.GenerationResult{Token: token, Model: model}
	var local strings.Builder

	chatReq := client.ChatRequest{
		Model:    model,
		Messages: report.BuildMessages(report.BuildInstruction(cat, dep), req.Brief),
	}
	streamErr := s.chat.StreamChat(genCtx, cfg.Credential, chatReq, func(delta string) error {
		if err := s.accept(ctx, token, delta); err != nil {
			return err
		}
		local.WriteString(delta)
		result.Deltas++
		return nil
	})

	result.Output = local.String()
	result.Bytes = len(result.Output)
	result.Runes = utf8.RuneCountInString(result.Output)

	superseded, canceled := s.outcome(token)
	switch {
	case superseded:
		result.Superseded = true
		result.Incomplete = true
		log.Infow("report generation superseded", "deltas", result.Deltas)
		return result, ErrSuperseded
	case streamErr != nil && (canceled || errors.Is(streamErr, context.Canceled)):
		result.Incomplete = true
		result.Error = ErrCanceled.Error()
		log.Infow("report generation canceled", "deltas", result.Deltas)
		events.Emit(ctx, events.ReportError, events.NewError(token, result.Error, result.Deltas > 0))
		return result, ErrCanceled
	case streamErr != nil:
		result.Incomplete = true
		result.Error = streamErr.Error()
		log.Warnw("report generation failed", "deltas", result.Deltas, "error", streamErr)
		events.Emit(ctx, events.ReportError, events.NewError(token, result.Error, result.Deltas > 0))
		return result, streamErr
	}

	log.Infow("report generation finished", "deltas", result.Deltas, "bytes", result.Bytes)
	events.Emit(ctx, events.ReportDone, events.NewDone(token))
	return result, nil
}

func (s *generationService) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.token++
	s.active = s.token
	genCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.output.Reset()
	return genCtx, s.token
}

// accept appends delta to the shared output while token is still the active
// generation. The event is emitted under the lock so page order matches buffer order.
func (s *generationService) accept(ctx context.Context, token uint64, delta string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.active {
		return ErrSuperseded
	}
	s.output.WriteString(delta)
	events.Emit(ctx, events.ReportDelta, events.NewDelta(token, delta))
	return nil
}

// outcome reports whether token lost to a newer generation or to Cancel. A
// stream that already ended cleanly is not turned into a cancellation.
func (s *generationService) outcome(token uint64) (superseded, canceled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != token, s.active != token
}

func (s *generationService) finish(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != token {
		return
	}
	s.active = 0
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Cancel stops the in-flight generation, if any. Output assembled so far is kept.
func (s *generationService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == 0 {
		return
	}
	logging.Get().Infow("report generation cancel requested", "token", s.active)
	s.active = 0
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *generationService) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.String()
}

func (s *generationService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != 0
}

func (s *generationService) Token() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}
