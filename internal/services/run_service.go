// Package services orchestrates a full statistics run: fiscal years in
// order, states within a year, lines within a state. Folding into the
// aggregation scopes happens only on this control path, line by line, so
// the per-scope dedup sets never see concurrent mutation; concurrency is
// limited to prefetching exports.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"awardstats/internal/aggregate"
	"awardstats/internal/core"
	"awardstats/internal/normalize"
	"awardstats/internal/npdv"
	"awardstats/internal/report"
)

// headerLine is the 1-based line of an export carrying the column headers.
// Lines before it are the fixed-format preamble; data rows follow it.
const headerLine = 7

// ExportProvider returns the raw export text for one (state, fiscal year)
// request, or wraps npdv.ErrInvalidCombination when it yields no data.
type ExportProvider interface {
	FetchExport(ctx context.Context, fiscalYear int, st npdv.State) (string, error)
}

// SummaryArchiver persists a closed state-year summary.
type SummaryArchiver interface {
	ArchiveStateSummary(ctx context.Context, fiscalYear int, state string, t aggregate.Totals) error
}

// SummaryPublisher announces a closed state-year summary to interested
// consumers.
type SummaryPublisher interface {
	PublishStateSummary(ctx context.Context, fiscalYear int, state string, t aggregate.Totals) error
}

// GrandTotalSink receives the final multi-year totals.
type GrandTotalSink interface {
	AppendGrandTotal(ctx context.Context, span string, t aggregate.Totals) error
}

// RunConfig holds the run-shaping knobs.
type RunConfig struct {
	// BaseFilename is the stem of every output file.
	BaseFilename string

	// FetchWorkers bounds concurrent export fetches per year. 1 keeps the
	// run fully sequential.
	FetchWorkers int
}

// RunService drives one end-to-end statistics run.
type RunService struct {
	provider   ExportProvider
	classifier *core.Classifier
	states     []npdv.State
	writer     *report.Writer
	normalizer *normalize.Normalizer
	config     RunConfig

	archiver  SummaryArchiver
	publisher SummaryPublisher
	sink      GrandTotalSink
}

func NewRunService(
	provider ExportProvider,
	classifier *core.Classifier,
	states []npdv.State,
	writer *report.Writer,
	normalizer *normalize.Normalizer,
	config RunConfig,
) *RunService {
	if config.BaseFilename == "" {
		config.BaseFilename = "nasa_contracts"
	}
	if config.FetchWorkers < 1 {
		config.FetchWorkers = 1
	}
	return &RunService{
		provider:   provider,
		classifier: classifier,
		states:     states,
		writer:     writer,
		normalizer: normalizer,
		config:     config,
	}
}

// SetArchiver enables sqlite archiving of closed state-year summaries.
func (s *RunService) SetArchiver(a SummaryArchiver) { s.archiver = a }

// SetPublisher enables message publication of closed state-year summaries.
func (s *RunService) SetPublisher(p SummaryPublisher) { s.publisher = p }

// SetGrandTotalSink enables forwarding of the final multi-year totals.
func (s *RunService) SetGrandTotalSink(g GrandTotalSink) { s.sink = g }

// Run processes every fiscal year in order and emits the three output
// tiers. A ParseError on any line aborts the run: previously emitted files
// stay intact, the failing state's batch is discarded, and the grand-total
// scope keeps the state of the last successfully folded line.
func (s *RunService) Run(ctx context.Context, fiscalYears []int) error {
	if len(fiscalYears) == 0 {
		return errors.New("no fiscal years requested")
	}

	span := spanLabel(fiscalYears)
	grand := aggregate.NewScope(span)

	for _, year := range fiscalYears {
		if err := s.runYear(ctx, year, grand); err != nil {
			return err
		}
	}

	totals := grand.Totals()
	rows := [][]string{report.GrandTotalHeader(), report.GrandTotalRow(span, totals)}
	name := fmt.Sprintf("%s_%s_totals.tsv", s.config.BaseFilename, strings.ReplaceAll(span, "-", "_"))
	if err := s.writer.WriteFile(name, rows); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Grand totals written", "file", name, "span", span)

	if s.sink != nil {
		if err := s.sink.AppendGrandTotal(ctx, span, totals); err != nil {
			// Files on disk are the source of truth; a sink failure is not.
			slog.ErrorContext(ctx, "Failed to forward grand totals", "error", err)
		}
	}
	return nil
}

func (s *RunService) runYear(ctx context.Context, year int, grand *aggregate.Scope) error {
	results := s.fetchYear(ctx, year)

	dump, err := s.writer.OpenRawDump(fmt.Sprintf("%s_FY%d.tsv", s.config.BaseFilename, year))
	if err != nil {
		return err
	}
	defer dump.Close()

	summaryRows := [][]string{report.StateSummaryHeader()}

	for i, st := range s.states {
		res := results[i]
		if res.err != nil {
			if errors.Is(res.err, npdv.ErrInvalidCombination) {
				slog.WarnContext(ctx, "No data for combination; skipping",
					"state", st.Code, "fiscal_year", year)
				continue
			}
			if ctx.Err() != nil {
				return res.err
			}
			// Transient fetch failures skip the state, as the export
			// endpoint regularly drops single requests mid-run.
			slog.ErrorContext(ctx, "Fetch failed; skipping state",
				"state", st.Code, "fiscal_year", year, "error", res.err)
			continue
		}

		lines := splitLines(res.text)
		if len(lines) < headerLine {
			slog.WarnContext(ctx, "Unexpected response format; skipping state",
				"state", st.Code, "fiscal_year", year, "lines", len(lines))
			continue
		}

		totals, err := s.processState(ctx, year, st, lines, dump, grand)
		if err != nil {
			return err
		}
		summaryRows = append(summaryRows, report.StateSummaryRow(st.Code, totals))

		if s.archiver != nil {
			if err := s.archiver.ArchiveStateSummary(ctx, year, st.Code, totals); err != nil {
				slog.ErrorContext(ctx, "Failed to archive summary",
					"state", st.Code, "fiscal_year", year, "error", err)
			}
		}
		if s.publisher != nil {
			if err := s.publisher.PublishStateSummary(ctx, year, st.Code, totals); err != nil {
				slog.ErrorContext(ctx, "Failed to publish summary",
					"state", st.Code, "fiscal_year", year, "error", err)
			}
		}
	}

	if err := dump.Close(); err != nil {
		return fmt.Errorf("close raw dump FY%d: %w", year, err)
	}

	name := fmt.Sprintf("%s_FY%d_summary.tsv", s.config.BaseFilename, year)
	if err := s.writer.WriteFile(name, summaryRows); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Fiscal year finished",
		"fiscal_year", year, "states", len(summaryRows)-1, "file", name)
	return nil
}

// processState folds one state-year batch. The state-year scope is created
// here and closed into Totals at the end; a parse failure discards it and
// surfaces a *core.ParseError, leaving the grand scope as of the last
// folded line.
func (s *RunService) processState(
	ctx context.Context,
	year int,
	st npdv.State,
	lines []string,
	dump *report.RawDump,
	grand *aggregate.Scope,
) (aggregate.Totals, error) {
	scope := aggregate.NewScope(fmt.Sprintf("%s FY%d", st.Code, year))
	folded := 0

	for idx, line := range lines {
		lineNo := idx + 1
		if lineNo < headerLine {
			continue
		}
		if lineNo == headerLine {
			if err := dump.WriteHeader(strings.Split(line, "\t")); err != nil {
				return aggregate.Totals{}, fmt.Errorf("write dump header: %w", err)
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		raw := core.RawRecord{Fields: fields}

		// District comes off the raw place field before sanitation
		// rewrites casing and quotes.
		district := core.ResolveDistrict(st.Code, raw.Place())
		normalize.SanitizeRow(fields, s.normalizer)

		token, err := raw.ObligationToken()
		if err == nil {
			var amount int64
			amount, err = core.ParseObligation(token)
			if err == nil {
				rec := core.ClassifiedRecord{
					Recipient:  raw.Recipient(),
					District:   district,
					Obligation: amount,
					Categories: s.classifier.Classify(raw.IndicatorBlob(), raw.Recipient(), st.Name),
				}
				aggregate.Fold(rec, scope, grand)
				folded++
			}
		}
		if err != nil {
			return aggregate.Totals{}, &core.ParseError{
				State:      st.Code,
				FiscalYear: year,
				Line:       lineNo,
				Err:        err,
			}
		}

		if err := dump.WriteRow(st.Code, district, fields); err != nil {
			return aggregate.Totals{}, fmt.Errorf("write dump row: %w", err)
		}
	}

	slog.InfoContext(ctx, "State batch closed",
		"state", st.Code, "fiscal_year", year, "contracts", folded)
	return scope.Totals(), nil
}

type fetchResult struct {
	text string
	err  error
}

// fetchYear prefetches every state's export for one year. Fetches may run
// concurrently; results come back in state order so folding stays strictly
// sequential.
func (s *RunService) fetchYear(ctx context.Context, year int) []fetchResult {
	results := make([]fetchResult, len(s.states))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.FetchWorkers)
	for i, st := range s.states {
		g.Go(func() error {
			text, err := s.provider.FetchExport(gctx, year, st)
			results[i] = fetchResult{text: text, err: err}
			return nil
		})
	}
	g.Wait() // goroutines only report through results
	return results
}

func spanLabel(fiscalYears []int) string {
	first, last := fiscalYears[0], fiscalYears[0]
	for _, y := range fiscalYears[1:] {
		if y < first {
			first = y
		}
		if y > last {
			last = y
		}
	}
	if first == last {
		return fmt.Sprintf("FY%d", first)
	}
	return fmt.Sprintf("FY%d-FY%d", first, last)
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
