package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zinct/zinct/internal/extraction"
	"github.com/zinct/zinct/internal/ledger"
	"github.com/zinct/zinct/internal/sink"
)

const defaultExtractTimeout = 30 * time.Second

// Service runs the capture pipeline: prepare image, build instruction,
// call the model, parse, normalize, append to the session ledger, then
// mirror to the sink. The ledger append and the sink append are
// independently consistent; a sink failure never removes the record
// from the ledger.
type Service struct {
	extractor      extraction.Extractor
	prompt         extraction.PromptSpec
	normalizer     ledger.Normalizer
	sink           sink.Sink
	archive        Archive
	ids            IDGenerator
	timeSource     TimeSource
	extractTimeout time.Duration
}

// NewService creates a Service with a uuid ID generator and the wall
// clock. archive may be nil to skip image archiving.
func NewService(extractor extraction.Extractor, prompt extraction.PromptSpec, normalizer ledger.Normalizer, snk sink.Sink, archive Archive) *Service {
	return &Service{
		extractor:      extractor,
		prompt:         prompt,
		normalizer:     normalizer,
		sink:           snk,
		archive:        archive,
		ids:            uuidGenerator{},
		timeSource:     wallClock{},
		extractTimeout: defaultExtractTimeout,
	}
}

// NewServiceWithDeps creates a Service with custom dependencies for testing.
func NewServiceWithDeps(extractor extraction.Extractor, prompt extraction.PromptSpec, normalizer ledger.Normalizer, snk sink.Sink, archive Archive, ids IDGenerator, timeSource TimeSource) *Service {
	return &Service{
		extractor:      extractor,
		prompt:         prompt,
		normalizer:     normalizer,
		sink:           snk,
		archive:        archive,
		ids:            ids,
		timeSource:     timeSource,
		extractTimeout: defaultExtractTimeout,
	}
}

// CaptureResult is the outcome of one capture. SinkErr is set when the
// ledger append succeeded but mirroring to the sink failed.
type CaptureResult struct {
	Index   int
	Record  ledger.Record
	SinkErr error
}

// ProcessCapture runs one receipt through the pipeline and appends the
// result to the session's ledger. Captures within a session are
// serialized; a failure anywhere before the append leaves the ledger
// untouched.
func (s *Service) ProcessCapture(ctx context.Context, sess *Session, filename string, data []byte, contentType string) (*CaptureResult, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	captureID := s.ids.Generate()
	now := s.timeSource.Now()

	if s.archive != nil {
		name := fmt.Sprintf("%s_%s", captureID, sanitizeFilename(filename))
		if _, err := s.archive.Save(name, data); err != nil {
			return nil, fmt.Errorf("archiving image: %w", err)
		}
	}

	image, err := extraction.PrepareImage(data, contentType)
	if err != nil {
		return nil, fmt.Errorf("preparing image: %w", err)
	}

	extractCtx, cancel := context.WithTimeout(ctx, s.extractTimeout)
	defer cancel()

	rawText, err := s.extractor.Extract(extractCtx, image, s.prompt.Build())
	if err != nil {
		slog.Error("Extraction failed",
			"capture_id", captureID,
			"filename", filename,
			"error", err,
		)
		return nil, fmt.Errorf("extracting receipt: %w", err)
	}

	raw, err := extraction.ParseRawFields(rawText)
	if err != nil {
		// The raw reply travels with the error for diagnosis; the
		// session's ledger and selected model are untouched.
		slog.Error("Malformed model response", "capture_id", captureID, "error", err)
		return nil, err
	}

	rec := s.normalizer.Normalize(raw)
	rec.CaptureID = captureID
	rec.CapturedAt = now

	index := sess.Ledger.Append(rec)

	result := &CaptureResult{Index: index, Record: rec}
	if s.sink != nil {
		if err := s.sink.Append(ctx, rec); err != nil {
			slog.Warn("Sink append failed, record kept in ledger",
				"capture_id", captureID,
				"error", err,
			)
			result.SinkErr = err
		}
	}
	return result, nil
}
