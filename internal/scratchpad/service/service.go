package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/sexpad/foundation/core/error"
	"github.com/msto63/sexpad/foundation/sexpr"
	"github.com/msto63/sexpad/foundation/sexpr/ast"
	"github.com/msto63/sexpad/foundation/sexpr/parser"
	"github.com/msto63/sexpad/internal/scratchpad/store"
	"github.com/msto63/sexpad/pkg/core/cache"
	"github.com/msto63/sexpad/pkg/core/logging"
)

// DefaultMaxSourceLength bounds a single submission
const DefaultMaxSourceLength = 64 * 1024

// MaxHistoryLimit caps the page size of History
const MaxHistoryLimit = 200

// Result is the outcome of one submission. A parse failure is a
// successful submission whose Error is set and whose Exprs are empty.
type Result struct {
	ID        string             `json:"id"`
	Exprs     []ast.Expr         `json:"-"`
	Canonical string             `json:"canonical"`
	Dump      []interface{}      `json:"dump"`
	Stats     ast.Stats          `json:"stats"`
	Error     *parser.ParseError `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// OK reports whether the source parsed
func (r *Result) OK() bool {
	return r.Error == nil
}

// Config holds service configuration
type Config struct {
	Store           store.Store  // nil disables history
	Cache           *cache.Cache // caches canonical renderings, optional
	MaxSourceLength int
	Logger          *logging.Logger
}

// Service is the scratchpad: it parses submissions and records them
type Service struct {
	store           store.Store
	cache           *cache.Cache
	logger          *logging.Logger
	maxSourceLength int
	newID           func() string
	now             func() time.Time
}

// NewService creates a new scratchpad service
func NewService(cfg Config) (*Service, error) {
	if cfg.MaxSourceLength < 0 {
		return nil, mdwerror.New(fmt.Sprintf("invalid max source length: %d", cfg.MaxSourceLength)).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("service.NewService")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("scratchpad")
	}
	if cfg.MaxSourceLength == 0 {
		cfg.MaxSourceLength = DefaultMaxSourceLength
	}

	return &Service{
		store:           cfg.Store,
		cache:           cfg.Cache,
		logger:          logger,
		maxSourceLength: cfg.MaxSourceLength,
		newID:           func() string { return uuid.New().String() },
		now:             func() time.Time { return time.Now().UTC() },
	}, nil
}

// Submit parses source, records the submission and returns the result
func (s *Service) Submit(ctx context.Context, source string) (*Result, error) {
	if err := s.checkLength(source, "service.Submit"); err != nil {
		return nil, err
	}

	timer := s.logger.StartTimer("submit")

	result := &Result{
		ID:        s.newID(),
		Exprs:     []ast.Expr{},
		Dump:      []interface{}{},
		CreatedAt: s.now(),
	}

	exprs, err := sexpr.Parse(source)
	if err != nil {
		pe, ok := sexpr.AsParseError(err)
		if !ok {
			timer.StopWithError(err)
			return nil, mdwerror.Wrap(err, "reader failed").
				WithCode(mdwerror.CodeInternal).
				WithOperation("service.Submit")
		}
		result.Error = pe
		s.logger.Info("Submission rejected",
			"id", result.ID,
			"kind", pe.Kind.String(),
			"line", pe.Span.Line,
			"column", pe.Span.Column,
		)
	} else {
		result.Exprs = exprs
		result.Canonical = sexpr.Stringify(exprs)
		result.Dump = sexpr.Dump(exprs)
		result.Stats = ast.Collect(exprs)
		s.logger.Info("Submission parsed",
			"id", result.ID,
			"exprs", len(exprs),
			"length", len(source),
		)
	}

	s.record(ctx, source, result)
	timer.Stop()

	return result, nil
}

// record stores the submission. History is best effort: a store failure
// is logged and does not fail the submission.
func (s *Service) record(ctx context.Context, source string, result *Result) {
	if s.store == nil {
		return
	}

	sub := &store.Submission{
		ID:        result.ID,
		Source:    source,
		Canonical: result.Canonical,
		ExprCount: len(result.Exprs),
		CreatedAt: result.CreatedAt,
	}
	if pe := result.Error; pe != nil {
		sub.ErrorKind = pe.Kind.String()
		sub.ErrorMessage = pe.Error()
		sub.ErrorLine = pe.Span.Line
		sub.ErrorColumn = pe.Span.Column
	}

	if err := s.store.Save(ctx, sub); err != nil {
		s.logger.LogError(mdwerror.Wrap(err, "failed to record submission").WithDetail("id", result.ID))
	}
}

// Format renders expressions canonically
func (s *Service) Format(exprs []ast.Expr) string {
	return sexpr.Stringify(exprs)
}

// FormatSource parses source and renders it canonically.
// Parse failures are returned as *parser.ParseError.
func (s *Service) FormatSource(source string) (string, error) {
	if err := s.checkLength(source, "service.FormatSource"); err != nil {
		return "", err
	}
	if s.cache == nil {
		return sexpr.Canonicalize(source)
	}

	text, err := s.cache.GetOrSet(cache.Key(source), func() (interface{}, error) {
		text, err := sexpr.Canonicalize(source)
		if err != nil {
			return nil, err
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return text.(string), nil
}

// History lists recorded submissions, newest first. limit is capped at
// MaxHistoryLimit.
func (s *Service) History(ctx context.Context, limit, offset int) ([]*store.Submission, error) {
	if s.store == nil {
		return []*store.Submission{}, nil
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.store.List(ctx, limit, offset)
}

// Get returns one recorded submission
func (s *Service) Get(ctx context.Context, id string) (*store.Submission, error) {
	if s.store == nil {
		return nil, mdwerror.New(fmt.Sprintf("submission %s not found", id)).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("service.Get")
	}
	return s.store.Get(ctx, id)
}

// Replay parses a recorded submission again
func (s *Service) Replay(ctx context.Context, id string) (*Result, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, sub.Source)
}

// Stats returns history statistics
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	if s.store == nil {
		return &store.Stats{}, nil
	}
	return s.store.Statistics(ctx)
}

// RunRetention prunes submissions older than keep every interval until
// ctx is cancelled
func (s *Service) RunRetention(ctx context.Context, interval, keep time.Duration) {
	if s.store == nil || interval <= 0 || keep <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.prune(ctx, keep)
		}
	}
}

func (s *Service) prune(ctx context.Context, keep time.Duration) {
	removed, err := s.store.Prune(ctx, s.now().Add(-keep))
	if err != nil {
		s.logger.LogError(err)
		return
	}
	if removed > 0 {
		s.logger.Info("Pruned submission history", "removed", removed)
	}
}

func (s *Service) checkLength(source, operation string) error {
	if len(source) <= s.maxSourceLength {
		return nil
	}
	return mdwerror.New(fmt.Sprintf("source exceeds maximum length: %d > %d", len(source), s.maxSourceLength)).
		WithCode(mdwerror.CodeInvalidLength).
		WithOperation(operation).
		WithDetail("length", len(source)).
		WithDetail("max", s.maxSourceLength)
}
