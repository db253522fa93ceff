package toolkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/revkit/revkit"
	"github.com/revkit/revkit/format"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// RunState is the lifecycle of a prospect report run.
type RunState int

const (
	StateIdle RunState = iota
	StateLoading
	StateStreaming
	StateCompleted
	StateCancelled
	StateError
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Done reports whether the state is terminal.
func (s RunState) Done() bool {
	return s == StateCompleted || s == StateCancelled || s == StateError
}

// ProspectSnapshot is the state of a run after one update. Snapshots are
// never modified after they are handed out.
type ProspectSnapshot struct {
	RunID    uuid.UUID
	Company  string
	Model    string
	Markdown string
	Sections []revkit.Section
	State    RunState
	Err      error
}

// ProspectUpdateFunc receives every snapshot of a run, in order. It is called
// on the goroutine running StreamProspectReport and should return quickly.
type ProspectUpdateFunc func(ProspectSnapshot)

// StreamProspectReport streams a Markdown prospect report for company. After
// every content chunk the whole buffer is split into sections again and a
// snapshot is passed to onUpdate; the final snapshot is also returned.
//
// Cancelling ctx stops the run promptly: the returned snapshot keeps the
// content received so far, its state is StateCancelled and the error is
// ctx.Err(). A request timeout ends the run in StateError.
func (s *Service) StreamProspectReport(ctx context.Context, company string, onUpdate ProspectUpdateFunc) (ProspectSnapshot, error) {
	company, err := requireText("company", company)
	if err != nil {
		return ProspectSnapshot{State: StateError, Err: err}, err
	}
	if onUpdate == nil {
		onUpdate = func(ProspectSnapshot) {}
	}

	run := &prospectRun{
		logger:   s.logger.With(zap.String("tool", "prospect")),
		stats:    s.stats,
		onUpdate: onUpdate,
		snap: ProspectSnapshot{
			RunID:   uuid.New(),
			Company: company,
			State:   StateLoading,
		},
	}
	run.logger = run.logger.With(zap.Stringer("run", run.snap.RunID))
	run.emit()

	reqCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	messages := revkit.Messages(s.dated(prospectSystemPrompt), prospectPrompt(company))
	targets := s.candidates(s.reportModel, true)
	for i, model := range targets {
		run.snap.Model = model
		err = run.attempt(reqCtx, s.model, messages,
			llms.WithModel(model),
			llms.WithTemperature(s.temperature),
		)
		if err == nil || reqCtx.Err() != nil || run.snap.Markdown != "" || i == len(targets)-1 {
			break
		}
		s.stats.IncrCounter(revkit.KeySearchFallbacks, 1)
		run.logger.Warn("web search unavailable, retrying without search",
			zap.String("model", model), zap.Error(err))
	}

	switch {
	case reqCtx.Err() != nil && errors.Is(ctx.Err(), context.Canceled):
		return run.finish(StateCancelled, ctx.Err())
	case reqCtx.Err() != nil:
		return run.finish(StateError, fmt.Errorf("prospect: %w", reqCtx.Err()))
	case err != nil:
		return run.finish(StateError, fmt.Errorf("prospect: %w", err))
	case run.snap.Markdown == "":
		return run.finish(StateError, fmt.Errorf("prospect: %w", revkit.ErrEmptyResponse))
	}
	return run.finish(StateCompleted, nil)
}

type prospectRun struct {
	logger   *zap.Logger
	stats    *revkit.Stats
	onUpdate ProspectUpdateFunc
	snap     ProspectSnapshot
	chunks   int
}

// attempt consumes one streaming request. It returns nil when the stream
// completes, the stream's error when it fails, and the context error when ctx
// ends first.
func (r *prospectRun) attempt(
	ctx context.Context,
	model revkit.StreamingModel,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) error {
	stream, err := model.GenerateContentStream(ctx, messages, options...)
	if err != nil {
		return err
	}
	defer stream.Close()

	acc := revkit.NewStreamAccumulator()
	defer func() { r.chunks += acc.ChunkCount() }()

	chunks := stream.Chunks()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				resp, err := stream.Response()
				if resp != nil {
					r.stats.RecordUsage(r.snap.Model, resp.Info)
				}
				return err
			}
			if chunk.Err != nil {
				return chunk.Err
			}
			if !acc.Add(chunk) {
				continue
			}
			r.snap.Markdown = acc.Content()
			r.snap.Sections = format.Sections(r.snap.Markdown)
			r.snap.State = StateStreaming
			r.emit()
		}
	}
}

func (r *prospectRun) finish(state RunState, err error) (ProspectSnapshot, error) {
	r.snap.State = state
	r.snap.Err = err
	r.emit()
	r.stats.RecordCall("prospect", err)

	fields := []zap.Field{
		zap.Stringer("state", state),
		zap.Int("chunks", r.chunks),
		zap.Int("bytes", len(r.snap.Markdown)),
		zap.Int("sections", len(r.snap.Sections)),
	}
	if state == StateError {
		r.logger.Warn("prospect run failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Info("prospect run finished", fields...)
	}
	return r.snap, err
}

func (r *prospectRun) emit() {
	r.onUpdate(r.snap)
}
