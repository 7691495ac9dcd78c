package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dangerclosesec/siren/internal/config"
	"github.com/dangerclosesec/siren/internal/domain"
	"github.com/dangerclosesec/siren/internal/model"
	"github.com/dangerclosesec/siren/internal/repository"
	progmodel "github.com/dangerclosesec/siren/program/model"
	"github.com/dangerclosesec/siren/program/parser"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CheckInput struct {
	Name     string `json:"name" validate:"max=255"`
	Source   string `json:"source" validate:"required"`
	ClientIP string `json:"-"`
}

// Diagnostic describes why a program was rejected
type Diagnostic struct {
	Phase   string `json:"phase"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Text    string `json:"text,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// Verdict is the outcome of checking one source
type Verdict struct {
	RunID      string            `json:"run_id,omitempty"`
	Accepted   bool              `json:"accepted"`
	Cached     bool              `json:"cached"`
	Report     *progmodel.Report `json:"report,omitempty"`
	Diagnostic *Diagnostic       `json:"diagnostic,omitempty"`
}

// CheckService runs the Siren checker and keeps a history of runs
type CheckService struct {
	repo     repository.CheckRunRepositoryIface
	cache    *CacheService
	config   *config.Config
	logger   *slog.Logger
	validate *validator.Validate
}

// NewCheckService creates a CheckService. History is recorded only when repo
// is non-nil and enabled in cfg; cache may be nil.
func NewCheckService(
	repo repository.CheckRunRepositoryIface,
	cache *CacheService,
	cfg *config.Config,
	logger *slog.Logger,
) *CheckService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckService{
		repo:     repo,
		cache:    cache,
		config:   cfg,
		logger:   logger,
		validate: validator.New(),
	}
}

// MaxSourceBytes is the largest source Check accepts, 0 when unlimited
func (s *CheckService) MaxSourceBytes() int {
	return s.config.Server.MaxSourceBytes
}

func (s *CheckService) historyEnabled() bool {
	return s.repo != nil && s.config.History.Enabled
}

// Check validates input.Source. A rejected program is a successful call
// whose Verdict carries the diagnostic; errors are reserved for bad input.
func (s *CheckService) Check(ctx context.Context, input CheckInput) (*Verdict, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if limit := s.config.Server.MaxSourceBytes; limit > 0 && len(input.Source) > limit {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", domain.ErrSourceTooLarge, len(input.Source), limit)
	}

	sum := sha256.Sum256([]byte(input.Source))
	hash := hex.EncodeToString(sum[:])
	cacheKey := "verdict:" + hash

	start := time.Now()
	verdict, err := s.cachedVerdict(ctx, cacheKey)
	if err != nil {
		verdict, err = s.run(input.Source)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, cacheKey, verdict); err != nil {
				s.logger.Warn("caching verdict", "error", err)
			}
		}
	}
	elapsed := time.Since(start)

	if verdict.Report != nil {
		verdict.Report.Source = input.Name
	}

	s.logger.Info("program checked",
		"name", input.Name,
		"accepted", verdict.Accepted,
		"cached", verdict.Cached,
		"duration", elapsed,
	)

	if s.historyEnabled() {
		run := &model.CheckRun{
			SourceName: input.Name,
			SourceHash: hash,
			Accepted:   verdict.Accepted,
			DurationUS: elapsed.Microseconds(),
			RequestID:  middleware.GetReqID(ctx),
			ClientIP:   input.ClientIP,
		}
		if verdict.Report != nil {
			run.Statements = verdict.Report.Statements
		}
		if d := verdict.Diagnostic; d != nil {
			run.Phase = d.Phase
			run.Diagnostic = d.Message
			run.Line = d.Line
			run.Column = d.Column
		}

		if err := s.repo.Create(ctx, run); err != nil {
			s.logger.Error("recording check run", "error", err)
		} else {
			verdict.RunID = run.ID.String()
		}
	}

	return verdict, nil
}

func (s *CheckService) cachedVerdict(ctx context.Context, key string) (*Verdict, error) {
	if s.cache == nil {
		return nil, domain.ErrNotFound
	}

	var verdict Verdict
	if err := s.cache.Get(ctx, key, &verdict); err != nil {
		return nil, err
	}
	verdict.Cached = true
	return &verdict, nil
}

func (s *CheckService) run(source string) (*Verdict, error) {
	report, err := parser.Check(source, parser.WithLogger(s.logger))
	if err == nil {
		return &Verdict{Accepted: true, Report: report}, nil
	}

	var checkErr *parser.Error
	if !errors.As(err, &checkErr) {
		return nil, fmt.Errorf("checking source: %w", err)
	}

	return &Verdict{
		Diagnostic: &Diagnostic{
			Phase:   string(checkErr.Phase),
			Rule:    checkErr.Err.Error(),
			Message: checkErr.Error(),
			Text:    checkErr.Text,
			Line:    checkErr.Line,
			Column:  checkErr.Column,
		},
	}, nil
}

// ListRuns retrieves recorded runs matching params
func (s *CheckService) ListRuns(ctx context.Context, params repository.QueryParams) ([]model.CheckRun, int64, error) {
	if !s.historyEnabled() {
		return nil, 0, domain.ErrHistoryDisabled
	}
	return s.repo.Query(ctx, params)
}

// GetRun retrieves a recorded run by ID
func (s *CheckService) GetRun(ctx context.Context, id uuid.UUID) (*model.CheckRun, error) {
	if !s.historyEnabled() {
		return nil, domain.ErrHistoryDisabled
	}

	run, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get check run by ID: %w", err)
	}

	return run, nil
}
