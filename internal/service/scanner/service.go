package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/davidleathers/audit-scanner/internal/domain/audit"
	"github.com/davidleathers/audit-scanner/internal/domain/values"
	"github.com/davidleathers/audit-scanner/internal/infrastructure/telemetry"
	"github.com/davidleathers/audit-scanner/internal/metrics"
)

// Finding is the outcome of inspecting one target
type Finding struct {
	Status       audit.Status
	TargetID     uint32
	MaskedVector values.MaskedVector
	Seal         values.Seal
}

// Report collects the findings of one scan, in target order
type Report struct {
	RunID     uuid.UUID
	AuditedAt int64
	Findings  []Finding
}

// CountByLevel tallies findings per status level
func (r *Report) CountByLevel() map[string]int {
	counts := make(map[string]int, len(audit.AllStatuses()))
	for _, f := range r.Findings {
		counts[f.Status.Level()]++
	}
	return counts
}

// Service runs the classify, seal and mask pass over a set of targets
type Service struct {
	clock   audit.Clock
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *metrics.Registry
}

// Option configures the Service
type Option func(*Service)

func WithClock(c audit.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a scanner. Without options it uses the real clock, a no-op
// logger and tracer, and records no metrics.
func NewService(opts ...Option) *Service {
	s := &Service{
		clock:  audit.RealClock{},
		logger: zap.NewNop(),
		tracer: noop.NewTracerProvider().Tracer(telemetry.TracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan inspects targets in order against a single audit timestamp.
//
// Scan consumes targets: each one is wiped as soon as it has been inspected, and
// any targets left over when ctx is cancelled are wiped before Scan returns.
func (s *Service) Scan(ctx context.Context, targets []audit.Target) (*Report, error) {
	started := time.Now()
	report := &Report{
		RunID:     uuid.New(),
		AuditedAt: s.clock.Now().Unix(),
		Findings:  make([]Finding, 0, len(targets)),
	}

	ctx, span := s.tracer.Start(ctx, "scanner.Scan", trace.WithAttributes(
		attribute.String("scan.run_id", report.RunID.String()),
		attribute.Int("scan.targets", len(targets)),
		attribute.Int64("scan.audited_at", report.AuditedAt),
	))
	defer span.End()

	logger := telemetry.WithTrace(ctx, s.logger).With(zap.String("run_id", report.RunID.String()))
	logger.Info("scan started",
		zap.Int("targets", len(targets)),
		zap.Int64("audited_at", report.AuditedAt))

	for i := range targets {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(targets); j++ {
				targets[j].Wipe()
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "scan aborted")
			logger.Warn("scan aborted", zap.Int("inspected", i), zap.Error(err))
			return nil, fmt.Errorf("scan aborted after %d of %d targets: %w", i, len(targets), err)
		}

		_ = audit.WithTarget(&targets[i], func(t *audit.Target) error {
			report.Findings = append(report.Findings, s.inspect(ctx, logger, t, report.AuditedAt))
			return nil
		})
	}

	elapsed := time.Since(started)
	if s.metrics != nil {
		s.metrics.ObserveRun(report.AuditedAt, elapsed)
	}

	counts := report.CountByLevel()
	span.SetStatus(codes.Ok, "")
	logger.Info("scan completed",
		zap.Int("critical", counts["critical"]),
		zap.Int("warning", counts["warning"]),
		zap.Int("verified", counts["verified"]),
		zap.Duration("duration", elapsed))

	return report, nil
}

func (s *Service) inspect(ctx context.Context, logger *zap.Logger, t *audit.Target, auditedAt int64) Finding {
	_, span := s.tracer.Start(ctx, "scanner.inspect", trace.WithAttributes(
		attribute.String("target.id", t.DisplayID()),
	))
	defer span.End()

	status := t.Status()

	sealStarted := time.Now()
	seal := audit.GenerateSeal(t, auditedAt)
	sealElapsed := time.Since(sealStarted)

	finding := Finding{
		Status:       status,
		TargetID:     t.ID,
		MaskedVector: values.MaskVector(t.ThreatVector),
		Seal:         seal,
	}

	span.SetAttributes(
		attribute.String("target.level", status.Level()),
		attribute.String("target.seal_prefix", seal.Prefix()),
	)
	if s.metrics != nil {
		s.metrics.ObserveTarget(status.Level(), sealElapsed)
	}

	// raw measurements stay out of logs
	logger.Debug("target inspected",
		zap.String("target_id", t.DisplayID()),
		zap.String("level", status.Level()),
		zap.Stringer("vector", finding.MaskedVector),
		zap.String("seal", seal.Prefix()))

	return finding
}
