package weekly

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"trade-report-engine/internal/extract"
	"trade-report-engine/internal/types"
)

// ParserVersion travels with every parsed record. Weekly templates evolve;
// the stored tag tells a later backfill which extraction rules produced a
// given historical record.
const ParserVersion = "w2.1"

// Parser extracts a structured WeeklyReport from raw report text.
type Parser struct{}

func New() *Parser { return &Parser{} }

var (
	weekRangeRe = regexp.MustCompile(`(?im)week of\s+(.+?)(?:\s+(?:to|through|[–—])\s+(.+?))?\s*$`)
	dateRangeRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*(?:to|through|[-–—])\s*(\d{4}-\d{2}-\d{2})`)

	openSpec = extract.Spec("weekly_candle.open",
		`(?i)\bopen(?:ed)?\D{0,8}([0-9][0-9,]*(?:\.[0-9]+)?)`)
	highSpec = extract.Spec("weekly_candle.high",
		`(?i)\bhigh\D{0,8}([0-9][0-9,]*(?:\.[0-9]+)?)`)
	lowSpec = extract.Spec("weekly_candle.low",
		`(?i)\blow\D{0,8}([0-9][0-9,]*(?:\.[0-9]+)?)`)
	closeSpec = extract.Spec("weekly_candle.close",
		`(?i)clos(?:e|ed)(?:\s+at)?\D{0,8}([0-9][0-9,]*(?:\.[0-9]+)?)`)
	changeSpec = extract.Spec("weekly_candle.change_pct",
		`(?i)(?:change|chg)\D{0,8}?([+-]?[0-9]+(?:\.[0-9]+)?)\s*%`,
		`([+-][0-9]+(?:\.[0-9]+)?)\s*%`)

	signalSpec = extract.Spec("signal",
		`(?i)signal\W{0,8}(green|yellow|red)\b`,
		`(?i)\b(green|yellow|red)\b`)
	patternSpec = extract.Spec("pattern",
		`(?i)(?:pattern|trend)\s*[:\-–—]\s*(.+)`)
	maSpec = extract.Spec("ma_position",
		`(?i)\b(?:moving averages?|ma)\b[^:\n]*[:\-–—]\s*(.+)`)
	interpSpec = extract.Spec("interpretation",
		`(?i)(?:read|interpretation|view)\s*[:\-–—]\s*(.+)`)

	statusSpec = extract.Spec("thesis_check.status",
		`(?i)\b(intact|strengthening|weakening|under review)\b`)

	scenarioHeadRe = regexp.MustCompile(`(?i)\b(bull|base|bear)\b\D{0,20}?([0-9]+(?:\.[0-9]+)?)\s*%\s*[:\-–—]?\s*(.*)`)
	labeledLineRe  = regexp.MustCompile(`(?i)^\s*(trigger|response)\s*[:\-–—]\s*(.+)$`)

	keyLevelRe = regexp.MustCompile(`^\s*([^:]+?)\s*:\s*\$?([0-9][0-9,]*(?:\.[0-9]+)?)\s*[:\-–—]*\s*(.*)$`)

	// Separator excludes the plain hyphen so ISO dates survive intact.
	catalystRe = regexp.MustCompile(`^\s*[-•*]?\s*(.+?)\s*[:–—]\s*(.+?)\s*(?:\(([^)]*)\))?\s*$`)
)

// Parse converts weekly report text into a structured record plus warnings.
// A missing section is a warning, never a failure; missing scenario blocks
// are simply omitted rather than padded.
func (p *Parser) Parse(text string) (*types.WeeklyReport, []types.Warning) {
	secs := extract.Sections(text, types.KindWeekly)
	var warns []types.Warning
	warn := func(field, msg string, sev types.Severity) {
		warns = append(warns, types.Warning{Field: field, Message: msg, Severity: sev})
	}

	r := &types.WeeklyReport{ParserVersion: ParserVersion}

	start, end, ok := parseWeekRange(text)
	if ok {
		r.WeekStart, r.WeekEnd = start, end
	} else {
		warn("week_start", "week range not found", types.SeverityHard)
	}

	if body, ok := secs[extract.SecWeeklyCandle]; ok {
		r.Candle = parseCandle(body)
	} else {
		warn("weekly_candle", "weekly candle section not found", types.SeveritySoft)
	}

	// The three tiers share one sub-routine; only the section differs.
	tiers := []struct {
		name string
		sec  string
		dst  **types.TimeframeRead
	}{
		{"monthly", extract.SecMonthlyTier, &r.Monthly},
		{"weekly", extract.SecWeeklyTier, &r.Weekly},
		{"daily", extract.SecDailyTier, &r.Daily},
	}
	for _, tier := range tiers {
		body, ok := secs[tier.sec]
		if !ok {
			warn(tier.name, tier.name+" timeframe section not found", types.SeveritySoft)
			continue
		}
		*tier.dst = parseTier(body)
	}

	if levels := parseKeyLevels(secs[extract.SecKeyLevels]); len(levels) > 0 {
		r.KeyLevels = levels
	} else {
		warn("key_levels", "no key levels found", types.SeveritySoft)
	}

	if body, ok := secs[extract.SecThesisCheck]; ok {
		r.Thesis = parseThesis(body)
	} else {
		warn("thesis_check", "thesis check section not found", types.SeveritySoft)
	}

	if scenarios := parseScenarios(secs[extract.SecScenarios]); len(scenarios) > 0 {
		r.Scenarios = scenarios
	} else {
		warn("scenarios", "no scenario blocks found", types.SeveritySoft)
	}

	if body, ok := secs[extract.SecLessons]; ok {
		r.Lessons = parseLessons(body)
	} else {
		warn("lessons", "lessons section not found", types.SeveritySoft)
	}

	if catalysts := parseCatalysts(secs[extract.SecCatalysts]); len(catalysts) > 0 {
		r.Catalysts = catalysts
	} else {
		warn("catalysts", "no catalysts found", types.SeveritySoft)
	}

	return r, warns
}

func parseWeekRange(text string) (start, end time.Time, ok bool) {
	if m := dateRangeRe.FindStringSubmatch(text); m != nil {
		s, ok1 := extract.ParseDate(m[1])
		e, ok2 := extract.ParseDate(m[2])
		if ok1 && ok2 {
			return s, e, true
		}
	}
	if m := weekRangeRe.FindStringSubmatch(text); m != nil {
		s, ok1 := extract.ParseDate(m[1])
		if !ok1 {
			return start, end, false
		}
		if m[2] != "" {
			if e, ok2 := extract.ParseDate(m[2]); ok2 {
				return s, e, true
			}
		}
		// "Week of <monday>" alone implies a Mon-Fri window.
		return s, s.AddDate(0, 0, 4), true
	}
	return start, end, false
}

func parseCandle(body string) types.WeeklyCandle {
	var c types.WeeklyCandle
	if v, ok := extract.Price(body, openSpec); ok {
		c.Open = v
	}
	if v, ok := extract.Price(body, highSpec); ok {
		c.High = v
	}
	if v, ok := extract.Price(body, lowSpec); ok {
		c.Low = v
	}
	if v, ok := extract.Price(body, closeSpec); ok {
		c.Close = v
	}
	if v, ok := extract.Percent(body, changeSpec); ok {
		c.ChangePct = v
	}
	return c
}

func parseTier(body string) *types.TimeframeRead {
	t := &types.TimeframeRead{}
	if v, ok := extract.Label(body, signalSpec); ok {
		t.Signal = types.SignalColor(strings.ToLower(v))
	}
	if v, ok := extract.Label(body, patternSpec); ok {
		t.Pattern = v
	}
	if v, ok := extract.Label(body, maSpec); ok {
		t.MAPosition = v
	}
	if v, ok := extract.Label(body, interpSpec); ok {
		t.Interpretation = v
	}
	return t
}

// parseKeyLevels keeps source order. A leading emoji or symbol run on the
// line becomes the level's display tag.
func parseKeyLevels(body string) []types.KeyLevel {
	var levels []types.KeyLevel
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimLeft(line, " \t-•*")
		tag, rest := splitLeadingTag(line)
		m := keyLevelRe.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		price, ok := extract.ParsePrice(m[2])
		if !ok {
			continue
		}
		levels = append(levels, types.KeyLevel{
			Name:  strings.TrimSpace(m[1]),
			Price: price,
			Tag:   tag,
		})
	}
	return levels
}

func splitLeadingTag(line string) (tag, rest string) {
	i := 0
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			break
		}
		i += len(string(r))
	}
	return strings.TrimSpace(line[:i]), line[i:]
}

var (
	supportingRe = regexp.MustCompile(`(?i)^\s*supporting\b`)
	concerningRe = regexp.MustCompile(`(?i)^\s*concerning\b`)
	bulletRe     = regexp.MustCompile(`^\s*[-•*]\s*(.+)$`)
)

func parseThesis(body string) *types.ThesisCheck {
	t := &types.ThesisCheck{}
	if v, ok := extract.Label(body, statusSpec); ok {
		t.Status = types.ThesisStatus(strings.ReplaceAll(strings.ToLower(v), " ", "_"))
	}
	var narrative []string
	var current *[]string
	for _, line := range strings.Split(body, "\n") {
		switch {
		case supportingRe.MatchString(line):
			current = &t.Supporting
		case concerningRe.MatchString(line):
			current = &t.Concerning
		case current != nil && bulletRe.MatchString(line):
			m := bulletRe.FindStringSubmatch(line)
			*current = append(*current, strings.TrimSpace(m[1]))
		default:
			if s := strings.TrimSpace(line); s != "" {
				current = nil
				narrative = append(narrative, s)
			}
		}
	}
	t.Narrative = strings.Join(narrative, " ")
	return t
}

// parseScenarios accepts 0-3 blocks. A block opens with a bull/base/bear
// header carrying a probability; trigger and response may follow on labeled
// lines or inline after the header.
func parseScenarios(body string) []types.Scenario {
	var scenarios []types.Scenario
	var cur *types.Scenario
	for _, line := range strings.Split(body, "\n") {
		if m := scenarioHeadRe.FindStringSubmatch(line); m != nil {
			prob, _ := extract.ParsePercent(m[2])
			scenarios = append(scenarios, types.Scenario{
				Kind:        types.ScenarioKind(strings.ToLower(m[1])),
				Probability: prob,
				Trigger:     strings.TrimSpace(m[3]),
			})
			cur = &scenarios[len(scenarios)-1]
			continue
		}
		if cur == nil {
			continue
		}
		if m := labeledLineRe.FindStringSubmatch(line); m != nil {
			val := strings.TrimSpace(m[2])
			if strings.EqualFold(m[1], "trigger") {
				cur.Trigger = val
			} else {
				cur.Response = val
			}
		}
	}
	return scenarios
}

var (
	workedRe  = regexp.MustCompile(`(?i)^\s*what worked\b`)
	didntRe   = regexp.MustCompile(`(?i)^\s*what didn'?t\b`)
	forwardRe = regexp.MustCompile(`(?i)^\s*lessons?(?:\s+(?:forward|for next week))?\b`)
)

func parseLessons(body string) types.Lessons {
	var l types.Lessons
	var current *[]string
	for _, line := range strings.Split(body, "\n") {
		switch {
		case workedRe.MatchString(line):
			current = &l.WhatWorked
		case didntRe.MatchString(line):
			current = &l.WhatDidnt
		case forwardRe.MatchString(line):
			current = &l.LessonsForward
		case current != nil:
			if m := bulletRe.FindStringSubmatch(line); m != nil {
				*current = append(*current, strings.TrimSpace(m[1]))
			}
		}
	}
	return l
}

func parseCatalysts(body string) []types.Catalyst {
	var catalysts []types.Catalyst
	for _, line := range strings.Split(body, "\n") {
		m := catalystRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, ok := extract.ParseDate(m[1])
		if !ok {
			continue
		}
		catalysts = append(catalysts, types.Catalyst{
			Date:   date,
			Event:  strings.TrimSpace(m[2]),
			Impact: strings.TrimSpace(m[3]),
		})
	}
	return catalysts
}
