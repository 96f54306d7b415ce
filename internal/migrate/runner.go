package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"measurement-migrator/internal/diagnostic"
	"measurement-migrator/internal/legacy"
	"measurement-migrator/internal/logger"
	"measurement-migrator/internal/measure"
	"measurement-migrator/internal/reconcile"
)

const (
	welcomeTitle = "Measurement family migration tool"
	importTitle  = "Start importing file"

	replaceQuestion = "This tool will not merge existing measurement families with the measurement families in this file. " +
		"If your file contains a measurement family with an existing code, it will replace the existing one. " +
		"Do you want to proceed?"
)

var welcomeText = []string{
	"Welcome to this migration tool made to help migrate your measurement families from your custom measurement files.",
	"If you want to automate this process or don't want to use default values, add the --no-interaction flag when you call this command.",
}

// Upserter writes measurement families to the PIM.
type Upserter interface {
	UpsertMeasurementFamilies(ctx context.Context, families []measure.Family) ([]measure.Result, error)
}

// Lister is implemented by upserters that can list the existing families.
// When available, the families about to be replaced are announced before
// the confirmation.
type Lister interface {
	ListMeasurementFamilyCodes(ctx context.Context) ([]string, error)
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string, def bool) (bool, error)
}

// Console is the operator-facing side of a run.
type Console interface {
	diagnostic.Sink
	Confirmer

	Title(title string)
	Text(lines ...string)
	NewLine(n int)
	Table(s reconcile.Summary)
}

// Options configure one run.
type Options struct {
	FilePath        string
	LabelLocale     string
	DryRun          bool
	AlwaysSummarize bool
}

// Report describes what a run did.
type Report struct {
	RunID       string
	Families    []measure.Family
	Existing    []string
	DryRun      bool
	Declined    bool
	Summary     reconcile.Summary
	Diagnostics *diagnostic.Diagnostics
}

// Runner composes the migration stages.
type Runner struct {
	Upserter Upserter
	Console  Console
	Log      logger.Logger

	// Out receives the JSON payload of a dry run. Defaults to stdout.
	Out io.Writer
}

// Run performs one migration. Load and mapping failures abort before any
// network call. A declined confirmation is not an error. Families the PIM
// refused are reported in the summary and never abort the run.
func (r *Runner) Run(ctx context.Context, opts Options) (Report, error) {
	report := Report{
		RunID:       uuid.NewString(),
		DryRun:      opts.DryRun,
		Diagnostics: &diagnostic.Diagnostics{},
	}

	log := r.Log
	if log == nil {
		log = logger.Nop()
	}

	log = log.With(logger.String("run_id", report.RunID), logger.String("file", opts.FilePath))

	sink := diagnostic.Tee(r.Console, report.Diagnostics, logSink{log: log})

	log.Info("migration started", logger.Any("dry_run", opts.DryRun))

	doc, err := legacy.LoadFile(opts.FilePath)
	if err != nil {
		sink.Error(err.Error())
		return report, err
	}

	log.Debug("measurement file loaded", logger.Any("families", doc.FamilyCodes()))

	r.title(welcomeTitle)
	r.text(welcomeText...)

	mapper := measure.NewMapper(opts.LabelLocale, sink)

	families, err := mapper.Map(doc.Families)
	if err != nil {
		sink.Error(err.Error())
		return report, errors.Wrap(err, "failed to map measurement families")
	}

	report.Families = families

	log.Info("measurement families mapped",
		logger.Int("declared", len(doc.Families)),
		logger.Int("mapped", len(families)),
	)

	if opts.DryRun {
		err = r.writePayload(families)
		if err != nil {
			sink.Error(err.Error())
		}

		return report, err
	}

	if r.Upserter == nil {
		err = errors.New("no API client configured")
		sink.Error(err.Error())

		return report, err
	}

	report.Existing = r.existing(ctx, log, families)
	if len(report.Existing) > 0 {
		sink.Warn(fmt.Sprintf("These measurement families already exist and will be replaced: %s", strings.Join(report.Existing, ", ")))
	}

	proceed, err := r.confirm(replaceQuestion)
	if err != nil {
		sink.Error(err.Error())
		return report, err
	}

	if !proceed {
		report.Declined = true
		log.Info("migration declined by operator")

		return report, nil
	}

	r.newLine(2)
	r.title(importTitle)

	if len(families) == 0 {
		sink.Warn("No measurement family to import")
		return report, nil
	}

	results, err := r.Upserter.UpsertMeasurementFamilies(ctx, families)
	if err != nil {
		sink.Error(err.Error())
		return report, err
	}

	report.Summary = reconcile.Reconcile(results, sink, reconcile.AlwaysSummarize(opts.AlwaysSummarize))

	if r.Console != nil {
		r.Console.Table(report.Summary)
	}

	r.newLine(2)

	counts := []logger.Field{
		logger.Int("succeeded", report.Summary.Succeeded),
		logger.Int("failed", report.Summary.Failed),
	}

	if err := report.Diagnostics.Err(); err != nil {
		log.Warn("migration finished with errors", append(counts, logger.Error(err))...)
	} else {
		log.Info("migration finished", counts...)
	}

	return report, nil
}

// existing returns the codes of mapped families already present in the PIM.
// Listing is best effort: a failure is logged and the run goes on.
func (r *Runner) existing(ctx context.Context, log logger.Logger, families []measure.Family) []string {
	lister, ok := r.Upserter.(Lister)
	if !ok {
		return nil
	}

	codes, err := lister.ListMeasurementFamilyCodes(ctx)
	if err != nil {
		log.Warn("could not list existing measurement families", logger.Error(err))
		return nil
	}

	var found []string

	for _, f := range families {
		if slices.Contains(codes, f.Code) {
			found = append(found, f.Code)
		}
	}

	return found
}

func (r *Runner) writePayload(families []measure.Family) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	if families == nil {
		families = []measure.Family{}
	}

	data, err := json.MarshalIndent(families, "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to encode measurement families")
	}

	_, err = fmt.Fprintln(out, string(data))
	if err != nil {
		return errors.Wrap(err, "failed to write measurement families")
	}

	return nil
}

func (r *Runner) confirm(question string) (bool, error) {
	if r.Console == nil {
		return true, nil
	}

	ok, err := r.Console.Confirm(question, true)
	if err != nil {
		return false, errors.Wrap(err, "confirmation failed")
	}

	return ok, nil
}

func (r *Runner) title(s string) {
	if r.Console != nil {
		r.Console.Title(s)
	}
}

func (r *Runner) text(lines ...string) {
	if r.Console != nil {
		r.Console.Text(lines...)
	}
}

func (r *Runner) newLine(n int) {
	if r.Console != nil {
		r.Console.NewLine(n)
	}
}
