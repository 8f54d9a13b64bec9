package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"labscore/internal/checker"
	"labscore/internal/config"
	"labscore/internal/grading"
	"labscore/internal/logging"
	"labscore/internal/outcome"
	"labscore/internal/output"
	"labscore/internal/report"
	"labscore/internal/scoring"
)

// Exit codes of a scoring run.
const (
	ExitOK      = 0
	ExitPartial = 2
	ExitFatal   = 3
)

func exitCodeForRun(fatal, partial bool) int {
	// 0 = every lab was scored
	// 2 = partial failure (some labs could not be scored, were skipped or
	//     their output could not be written)
	// 3 = fatal error (nothing was scored)
	if fatal {
		return ExitFatal
	}
	if partial {
		return ExitPartial
	}
	return ExitOK
}

func setupOutputManager(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	outMgr := output.NewManager()

	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink("console", output.NewConsoleSink(stdout, cfg.Output.ConsoleFormat, cfg.MultiLab())); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}

	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			_ = outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink("out", fs); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}

	if !cfg.MultiLab() {
		return outMgr, nil
	}

	if !cfg.Output.NoLabReports {
		rs, err := output.NewLabReportSink(config.LabReportFileName)
		if err != nil {
			_ = outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink("lab-reports", rs); err != nil {
			_ = outMgr.Close()
			return nil, err
		}
	}

	ss, err := output.NewSummarySink(cfg.Output.Summary)
	if err != nil {
		_ = outMgr.Close()
		return nil, err
	}
	if err := outMgr.AddSink("summary", ss); err != nil {
		_ = outMgr.Close()
		return nil, err
	}

	return outMgr, nil
}

// CheckerRunner produces lab result files before scoring.
type CheckerRunner interface {
	Run(ctx context.Context, req checker.Request) error
}

// Engine drives a scoring run from configuration to outputs.
type Engine struct {
	Logger  *zap.Logger
	Checker CheckerRunner
	// Stdout receives reports and dry-run listings.
	Stdout io.Writer

	// Test seams.
	newRunID  func() string
	loadLab   func(lab LabRef) ([]outcome.Record, error)
	loadGrade func(path string) (*grading.Configuration, error)
}

// NewEngine returns an engine writing reports to stdout. runner may be nil
// when the checker is never requested.
func NewEngine(logger *zap.Logger, runner CheckerRunner) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Logger:  logger,
		Checker: runner,
		Stdout:  os.Stdout,
	}
}

func (e *Engine) runID() string {
	if e.newRunID != nil {
		return e.newRunID()
	}
	return uuid.NewString()
}

func (e *Engine) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

func (e *Engine) loadGrading(path string) (*grading.Configuration, error) {
	if e.loadGrade != nil {
		return e.loadGrade(path)
	}
	return grading.Load(path)
}

func (e *Engine) loadRecords(lab LabRef) ([]outcome.Record, error) {
	if e.loadLab != nil {
		return e.loadLab(lab)
	}
	return outcome.LoadCSV(outcome.ResultsPath(lab.Dir))
}

// scoreLab loads the check records of one lab, scores them and renders the
// report. It never panics on bad input; every failure ends up in Err.
func (e *Engine) scoreLab(plan *ScorePlan, lab LabRef) output.LabOutcome {
	o := output.LabOutcome{RunID: plan.RunID, Lab: lab.Name, Dir: lab.Dir}
	log := e.Logger.With(zap.String("lab", lab.Name))

	records, err := e.loadRecords(lab)
	if err != nil {
		o.Err = err
		log.Error("cannot load check results", zap.Error(err))
		return o
	}
	log.Debug("loaded check results", zap.Int("records", len(records)))

	res, err := scoring.Score(plan.Grading, records, scoring.WithReporter(logging.Reporter{Logger: e.Logger, Lab: lab.Name}))
	if err != nil {
		o.Err = err
		return o
	}
	o.Result = res
	o.Lines = report.Lines(res, plan.ShowAll)
	return o
}

func (e *Engine) maybeDryRun(cfg *config.Config, labs []LabRef) (int, bool) {
	if !cfg.Input.DryRun {
		return 0, false
	}
	w := e.stdout()
	fmt.Fprintln(w, "Resolved labs:")
	for _, l := range labs {
		fmt.Fprintln(w, l.Dir)
	}
	return ExitOK, true
}

func (e *Engine) runChecker(ctx context.Context, cfg *config.Config) error {
	if cfg.Input.CheckerConfig == "" {
		return nil
	}
	if e.Checker == nil {
		return fmt.Errorf("no checker runner configured")
	}
	e.Logger.Info("running kathara-lab-checker", zap.String("config", cfg.Input.CheckerConfig))
	return e.Checker.Run(ctx, checker.Request{
		Config: cfg.Input.CheckerConfig,
		Lab:    cfg.Input.Lab,
		Labs:   cfg.Input.Labs,
	})
}

func (e *Engine) logBatchStats(outcomes []output.LabOutcome) {
	st, ok := Summarize(outcomes)
	if !ok {
		return
	}
	e.Logger.Info("batch statistics",
		zap.Int("labs", st.Labs),
		zap.String("mean", fmt.Sprintf("%.2f%%", st.Mean)),
		zap.String("median", fmt.Sprintf("%.2f%%", st.Median)),
		zap.String("min", fmt.Sprintf("%.2f%%", st.Min)),
		zap.String("max", fmt.Sprintf("%.2f%%", st.Max)),
		zap.String("stddev", fmt.Sprintf("%.2f", st.StdDev)),
	)
}

// Run scores the labs selected by cfg and returns the process exit code.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	e.Logger.Info("loading grading configuration", zap.String("path", cfg.Input.Config))
	gradingCfg, err := e.loadGrading(cfg.Input.Config)
	if err != nil {
		e.Logger.Error("cannot load grading configuration", zap.Error(err))
		return exitCodeForRun(true, false)
	}

	labs, err := ResolveLabs(cfg)
	if err != nil {
		e.Logger.Error("cannot resolve labs", zap.Error(err))
		return exitCodeForRun(true, false)
	}
	if cfg.MultiLab() {
		if len(labs) == 0 {
			e.Logger.Warn("no labs found", zap.String("dir", cfg.Input.Labs))
		} else {
			e.Logger.Info("found labs", zap.Int("count", len(labs)), zap.String("labs", strings.Join(labNames(labs), ", ")))
		}
	}

	if code, ok := e.maybeDryRun(cfg, labs); ok {
		return code
	}

	if err := e.runChecker(ctx, cfg); err != nil {
		e.Logger.Error("checker failed", zap.Error(err))
		return exitCodeForRun(true, false)
	}

	plan, err := NewScorePlan(e.runID(), gradingCfg, labs, cfg.Scoring.ShowHiddenCategories)
	if err != nil {
		e.Logger.Error("cannot plan scoring run", zap.Error(err))
		return exitCodeForRun(true, false)
	}

	sched, err := NewScheduler(func(_ context.Context, lab LabRef) output.LabOutcome {
		return e.scoreLab(plan, lab)
	}, cfg.Runtime.Concurrency, cfg.Runtime.FailFast)
	if err != nil {
		e.Logger.Error("cannot create scheduler", zap.Error(err))
		return exitCodeForRun(true, false)
	}

	outMgr, err := setupOutputManager(cfg, e.stdout())
	if err != nil {
		e.Logger.Error("cannot create output sinks", zap.Error(err))
		return exitCodeForRun(true, false)
	}
	if cfg.MultiLab() {
		if !cfg.Output.NoLabReports {
			e.Logger.Info("writing individual lab reports", zap.String("path", filepath.Join("*", config.LabReportFileName)))
		}
		e.Logger.Info("writing summary", zap.String("path", cfg.Output.Summary))
	}

	outputFailed := false
	writeErr := func(err error) {
		if err != nil {
			outputFailed = true
			e.Logger.Error("output error", zap.Error(err))
		}
	}

	writeErr(outMgr.Write(output.Event{Type: output.EventRunStarted, RunID: plan.RunID, Labs: len(plan.Labs)}))

	outcomes := make([]output.LabOutcome, 0, len(plan.Labs))
	failed := 0
	for o := range sched.Execute(ctx, plan.Labs) {
		writeErr(outMgr.Write(output.Event{Type: output.EventLabStarted, RunID: plan.RunID, Lab: o.Lab}))
		writeErr(outMgr.Write(o))
		if o.Failed() {
			failed++
		}
		outcomes = append(outcomes, o)
	}

	skipped := len(plan.Labs) - len(outcomes)
	if skipped > 0 {
		e.Logger.Warn("labs skipped", zap.Int("count", skipped))
	}
	if cfg.MultiLab() {
		e.logBatchStats(outcomes)
	}

	code := exitCodeForRun(false, failed > 0 || skipped > 0 || outputFailed)
	writeErr(outMgr.Write(output.Event{Type: output.EventRunFinished, RunID: plan.RunID, Labs: len(outcomes), Failed: failed, ExitCode: code}))

	if err := outMgr.Close(); err != nil {
		e.Logger.Error("cannot finalize output", zap.Error(err))
		return exitCodeForRun(false, true)
	}
	return code
}
