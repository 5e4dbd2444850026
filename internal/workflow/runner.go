package workflow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/brodkewitz/brphoto-metadata-tools/internal/catalog"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/config"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/logging"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/manifest"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/plan"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/resolve"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/services"
	"github.com/brodkewitz/brphoto-metadata-tools/internal/services/exiftool"
)

// Writer applies one description write. exiftool.Client satisfies it; tests
// substitute stubs.
type Writer interface {
	Write(ctx context.Context, req exiftool.WriteRequest) (exiftool.WriteResult, error)
}

// RunOptions select the input and mode for one run.
type RunOptions struct {
	InputPath string
	DryRun    bool
}

// Runner executes the full pipeline for one invocation.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	writer Writer
}

// NewRunner constructs a runner. The writer may be nil when only dry runs
// are executed.
func NewRunner(cfg *config.Config, logger *slog.Logger, writer Writer) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("workflow requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger, writer: writer}, nil
}

// Run drives parse, scan, resolve, and the write phase. The returned report
// is non-nil whenever the pipeline reached plan building, even if the write
// phase aborted early.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if opts.InputPath == "" {
		return nil, services.Wrap(services.ErrValidation, "input", "", "input path required", nil)
	}
	if !opts.DryRun && r.writer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "write", "", "writer unavailable", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, logging.NewComponentLogger(r.logger, "workflow"))

	started := time.Now()
	log.Info("run starting",
		logging.String("input", opts.InputPath),
		logging.String("search_dir", r.cfg.Paths.SearchDir),
		logging.Bool("dry_run", opts.DryRun))

	doc, err := manifest.ParseFile(opts.InputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "parse", opts.InputPath, "", err)
	}
	for _, warning := range doc.Warnings {
		log.Warn("input warning",
			logging.Int("line", warning.Line),
			logging.String("detail", warning.Message))
	}
	log.Info("input parsed", logging.Int("records", len(doc.Records)))

	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "prepare", "", "create directories", err)
	}

	lock := flock.New(r.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "lock", r.cfg.LockPath(), "acquire lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "lock", r.cfg.LockPath(), "another descwrite run is already active", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	cat, err := catalog.Scan(r.cfg.Paths.SearchDir, catalog.Options{
		MaxItems:             r.cfg.Scan.MaxItems,
		ExcludeDirs:          r.cfg.Scan.ExcludeDirs,
		IgnoreWritableImages: r.cfg.Scan.IgnoreWritableImages,
	})
	if err != nil {
		var limitErr *catalog.LimitExceededError
		switch {
		case errors.As(err, &limitErr):
			return nil, services.Wrap(services.ErrValidation, "scan", r.cfg.Paths.SearchDir, "", err)
		case errors.Is(err, fs.ErrNotExist):
			return nil, services.Wrap(services.ErrConfiguration, "scan", r.cfg.Paths.SearchDir, "", err)
		default:
			return nil, services.Wrap(services.ErrTransient, "scan", r.cfg.Paths.SearchDir, "", err)
		}
	}
	log.Info("catalog built",
		logging.Int("scanned", cat.Scanned),
		logging.Int("indexed", cat.Indexed),
		logging.Int("stems", len(cat.Stems)))

	p := plan.Build(doc.Records, cat)
	for _, entry := range p.Entries {
		switch entry.Outcome.Status {
		case resolve.StatusMatched:
			log.Debug("resolved",
				logging.String(logging.FieldStem, entry.Record.Stem),
				logging.String("action", string(entry.Outcome.Action)),
				logging.String("target", entry.Outcome.Target))
		case resolve.StatusAmbiguous:
			log.Warn("ambiguous record",
				logging.String(logging.FieldStem, entry.Record.Stem),
				logging.String("reason", entry.Outcome.Reason),
				logging.Any("candidates", entry.Outcome.Candidates))
		case resolve.StatusNotFound:
			log.Debug("no matching files",
				logging.String(logging.FieldStem, entry.Record.Stem))
		}
	}

	report := newReport(runID, opts.InputPath, r.cfg.Paths.SearchDir, opts.DryRun, p)
	report.StartedAt = started
	report.Summary.Scanned = cat.Scanned
	report.Summary.Indexed = cat.Indexed

	var runErr error
	if opts.DryRun {
		for i := range report.Records {
			if report.Records[i].Status == string(resolve.StatusMatched) {
				report.Records[i].WriteStatus = WriteStatusPlanned
			}
		}
	} else {
		runErr = r.writePhase(ctx, log, report)
	}

	report.FinishedAt = time.Now()
	report.Finalize()
	log.Info("run finished",
		logging.Int("matched", report.Summary.Matched),
		logging.Int("written", report.Summary.Written),
		logging.Int("skipped", report.Summary.Skipped),
		logging.Int("failed", report.Summary.Failed),
		logging.Int("ambiguous", report.Summary.Ambiguous),
		logging.Int("not_found", report.Summary.NotFound),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))

	return report, runErr
}

// writePhase hands matched records to the writer in input order. A failure
// stops the phase unless continuation is configured; records left behind are
// marked not-attempted.
func (r *Runner) writePhase(ctx context.Context, log *slog.Logger, report *Report) error {
	aborted := false
	var firstErr error

	for i := range report.Records {
		rec := &report.Records[i]
		if rec.Status != string(resolve.StatusMatched) {
			continue
		}
		if aborted {
			rec.WriteStatus = WriteStatusNotAttempted
			continue
		}
		if err := ctx.Err(); err != nil {
			rec.WriteStatus = WriteStatusNotAttempted
			aborted = true
			if firstErr == nil {
				firstErr = services.Wrap(services.ErrTimeout, "write", rec.Stem, "run cancelled", err)
			}
			continue
		}

		result, err := r.writer.Write(ctx, exiftool.WriteRequest{
			Target:               rec.Target,
			Anchor:               rec.Anchor,
			CreateSidecar:        rec.Action == string(resolve.ActionCreateSidecar),
			Description:          rec.Description,
			OverwriteDescription: r.cfg.Write.OverwriteDescriptions,
			OverwriteOriginal:    r.cfg.Write.OverwriteOriginals,
		})
		if err != nil {
			rec.WriteStatus = WriteStatusFailed
			rec.Error = err.Error()
			log.Error("write failed",
				logging.String(logging.FieldStem, rec.Stem),
				logging.String("target", rec.Target),
				logging.Error(err))
			if firstErr == nil {
				firstErr = services.Wrap(services.ErrExternalTool, "write", rec.Stem, "", err)
			}
			if !r.cfg.Write.ContinueOnError {
				aborted = true
			}
			continue
		}

		switch result.Status {
		case exiftool.StatusWritten:
			rec.WriteStatus = WriteStatusWritten
			log.Info("description written",
				logging.String(logging.FieldStem, rec.Stem),
				logging.String("target", rec.Target),
				logging.String("detail", result.Detail))
		case exiftool.StatusSkipped:
			rec.WriteStatus = WriteStatusSkipped
			log.Info("write skipped",
				logging.String(logging.FieldStem, rec.Stem),
				logging.String("target", rec.Target),
				logging.String("detail", result.Detail))
		default:
			rec.WriteStatus = WriteStatusFailed
			rec.Error = fmt.Sprintf("unexpected write status %q", result.Status)
			if firstErr == nil {
				firstErr = services.Wrap(services.ErrExternalTool, "write", rec.Stem, rec.Error, nil)
			}
			if !r.cfg.Write.ContinueOnError {
				aborted = true
			}
		}
		rec.WriteDetail = result.Detail
	}

	if aborted {
		return firstErr
	}
	return nil
}
