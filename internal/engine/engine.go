package engine

import (
	"context"
	"fmt"
	"time"

	"trade-report-engine/internal/auditlog"
	"trade-report-engine/internal/daily"
	"trade-report-engine/internal/interfaces"
	"trade-report-engine/internal/logger"
	"trade-report-engine/internal/score"
	"trade-report-engine/internal/store"
	"trade-report-engine/internal/trace"
	"trade-report-engine/internal/types"
	"trade-report-engine/internal/validate"
	"trade-report-engine/internal/weekly"
)

// Engine drives the pipeline: parse, validate, persist, score. The core
// transforms stay pure; all I/O lives behind the collaborator interfaces.
type Engine struct {
	cfg      *store.Config
	reports  interfaces.ReportStore
	prices   interfaces.PriceSource
	notifier interfaces.Notifier
	dailyP   *daily.Parser
	weeklyP  *weekly.Parser
	scorer   *score.Scorer
}

func New(cfg *store.Config, reports interfaces.ReportStore, prices interfaces.PriceSource, notifier interfaces.Notifier) *Engine {
	return &Engine{
		cfg:      cfg,
		reports:  reports,
		prices:   prices,
		notifier: notifier,
		dailyP:   daily.New(cfg.FallbackMode()),
		weeklyP:  weekly.New(),
		scorer:   score.NewScorer(cfg.ModeCaps()),
	}
}

// IngestResult is returned for both accepted and rejected submissions. A
// rejection is not an error: callers surface MissingFields so a human can
// fix the source document and resubmit.
type IngestResult struct {
	Accepted      bool                `json:"accepted"`
	Warnings      []types.Warning     `json:"warnings"`
	Issues        []validate.Issue    `json:"issues,omitempty"`
	MissingFields []string            `json:"missing_fields,omitempty"`
	Daily         *types.DailyReport  `json:"daily,omitempty"`
	Weekly        *types.WeeklyReport `json:"weekly,omitempty"`
}

// IngestDaily parses, validates and persists one daily report.
func (e *Engine) IngestDaily(ctx context.Context, raw types.RawReport) (*IngestResult, error) {
	ctx, span := trace.StartSpan(ctx, "ingest-daily")
	defer span.End()

	dateStr := raw.Date.Format("2006-01-02")
	logger.Debug(ctx, "Parsing daily report", "date", dateStr, "bytes", len(raw.Text))

	record, warns := e.dailyP.Parse(raw.Text)
	record.Date = raw.Date

	issues := validate.Daily(record)
	res := &IngestResult{Warnings: warns, Issues: issues, Daily: record}
	if validate.Blocking(issues) {
		res.MissingFields = validate.StructuralFields(issues)
		logger.Rejected(ctx, string(types.KindDaily), dateStr, res.MissingFields)
		_ = auditlog.Append(auditlog.Entry{Event: "REJECTED", Kind: string(types.KindDaily), ReportDate: dateStr, MissingFields: res.MissingFields})
		return res, nil
	}

	if err := e.reports.SaveRaw(ctx, raw); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist raw report", err, "date", dateStr)
		return nil, err
	}
	if err := e.reports.SaveDaily(ctx, record, warns); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist daily record", err, "date", dateStr)
		return nil, err
	}

	res.Accepted = true
	logger.Parsed(ctx, string(types.KindDaily), dateStr, len(warns), "mode", record.Mode)
	_ = auditlog.Append(auditlog.Entry{Event: "INGESTED", Kind: string(types.KindDaily), ReportDate: dateStr, Warnings: len(warns)})
	return res, nil
}

// IngestWeekly parses, validates and upserts one weekly report. When the
// document itself states no week range, the bounds are derived from the
// submission date's ISO week.
func (e *Engine) IngestWeekly(ctx context.Context, raw types.RawReport) (*IngestResult, error) {
	ctx, span := trace.StartSpan(ctx, "ingest-weekly")
	defer span.End()

	dateStr := raw.Date.Format("2006-01-02")
	logger.Debug(ctx, "Parsing weekly report", "date", dateStr, "bytes", len(raw.Text))

	record, warns := e.weeklyP.Parse(raw.Text)
	if record.WeekStart.IsZero() && !raw.Date.IsZero() {
		record.WeekStart, record.WeekEnd = weekBounds(raw.Date)
		warns = demoteWeekRangeWarning(warns)
	}

	issues := validate.Weekly(record)
	res := &IngestResult{Warnings: warns, Issues: issues, Weekly: record}
	if validate.Blocking(issues) {
		res.MissingFields = validate.StructuralFields(issues)
		logger.Rejected(ctx, string(types.KindWeekly), dateStr, res.MissingFields)
		_ = auditlog.Append(auditlog.Entry{Event: "REJECTED", Kind: string(types.KindWeekly), ReportDate: dateStr, MissingFields: res.MissingFields})
		return res, nil
	}

	if err := e.reports.SaveRaw(ctx, raw); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist raw report", err, "date", dateStr)
		return nil, err
	}
	if err := e.reports.SaveWeekly(ctx, record, warns); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist weekly record", err, "week_start", record.WeekStart.Format("2006-01-02"))
		return nil, err
	}

	res.Accepted = true
	logger.Parsed(ctx, string(types.KindWeekly), dateStr, len(warns), "parser_version", record.ParserVersion)
	_ = auditlog.Append(auditlog.Entry{Event: "INGESTED", Kind: string(types.KindWeekly), ReportDate: dateStr, Warnings: len(warns)})
	return res, nil
}

// ScoreDay loads the stored daily report for a date, fetches the realized
// range and produces the day's accuracy score.
func (e *Engine) ScoreDay(ctx context.Context, date time.Time) (*types.DayAccuracy, error) {
	ctx, span := trace.StartSpan(ctx, "score-day")
	defer span.End()

	dateStr := date.Format("2006-01-02")
	record, _, err := e.reports.GetDaily(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load daily report %s: %w", dateStr, err)
	}

	realized, err := e.prices.DailyRange(ctx, date)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch realized range", err, "date", dateStr)
		return nil, err
	}
	logger.Debug(ctx, "Realized range fetched", "date", dateStr,
		"open", realized.Open, "high", realized.High, "low", realized.Low, "close", realized.Close)

	levels := score.LevelsFromDaily(record)
	outcomes, err := score.Compare(levels, realized)
	if err != nil {
		return nil, fmt.Errorf("compare levels for %s: %w", dateStr, err)
	}

	da := e.scorer.ScoreDay(date, outcomes, record.Mode, record.DailyCapPct, realized)
	if err := e.reports.SaveDayScore(ctx, da); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist day score", err, "date", dateStr)
		return nil, err
	}

	logger.Scored(ctx, dateStr, da.AccuracyPct, string(da.ModeAssessment), "levels", len(da.Levels))
	_ = auditlog.Append(auditlog.Entry{Event: "SCORED", ReportDate: dateStr, AccuracyPct: da.AccuracyPct})
	if err := e.notifier.DayScored(ctx, da); err != nil {
		logger.Warn(ctx, "Notifier failed for day score", "date", dateStr, "error", err)
	}
	return &da, nil
}

// ScoreWeek rolls the stored day scores of one Mon-Fri window into a
// scorecard.
func (e *Engine) ScoreWeek(ctx context.Context, weekStart time.Time) (*types.WeekScorecard, error) {
	ctx, span := trace.StartSpan(ctx, "score-week")
	defer span.End()

	start, end := weekBounds(weekStart)
	days, err := e.reports.DayScoresBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	label := "Week of " + start.Format("2006-01-02")
	if len(days) == 0 {
		// A week nobody scored yet is a lookup miss, not a failure.
		return nil, &interfaces.NotFoundError{Key: "day_scores/" + label}
	}
	card := e.scorer.AggregateWeek(label, days)
	if err := e.reports.SaveWeekScore(ctx, card); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist week scorecard", err, "week", label)
		return nil, err
	}

	logger.Info(ctx, "Week scored", "week", label,
		"weekly_score", card.WeeklyScore, "level_accuracy", card.OverallLevelAccuracy)
	if err := e.notifier.WeekScored(ctx, card); err != nil {
		logger.Warn(ctx, "Notifier failed for week scorecard", "week", label, "error", err)
	}
	return &card, nil
}

// weekBounds returns the Monday and Friday of the ISO week containing d.
func weekBounds(d time.Time) (time.Time, time.Time) {
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	monday := d.AddDate(0, 0, 1-wd)
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
	return monday, monday.AddDate(0, 0, 4)
}

func demoteWeekRangeWarning(warns []types.Warning) []types.Warning {
	out := make([]types.Warning, 0, len(warns))
	for _, w := range warns {
		if w.Field == "week_start" && w.Severity == types.SeverityHard {
			w = types.Warning{Field: "week_start", Message: "week range derived from submission date", Severity: types.SeveritySoft}
		}
		out = append(out, w)
	}
	return out
}
