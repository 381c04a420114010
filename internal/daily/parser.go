package daily

import (
	"fmt"
	"regexp"
	"strings"

	"trade-report-engine/internal/extract"
	"trade-report-engine/internal/types"
)

// DefaultFallbackMode is the conservative middle mode used when a report
// carries no recognizable mode token. A report must always carry a mode for
// downstream consumers.
const DefaultFallbackMode = types.ModeYellow

// Parser extracts a structured DailyReport from raw report text.
type Parser struct {
	fallback types.Mode
}

// New returns a daily parser. An empty fallback selects DefaultFallbackMode.
func New(fallback types.Mode) *Parser {
	if fallback == "" {
		fallback = DefaultFallbackMode
	}
	return &Parser{fallback: fallback}
}

var (
	modeSpec = extract.Spec("mode",
		`(?i)\bmode\b[^a-zA-Z0-9]{0,12}(green|yellow|orange|red)\b`,
		`(?i)\*\*(green|yellow|orange|red)\*\*`,
		`(?i)\b(green|yellow|orange|red)\b`,
	)
	strictModeSpec = extract.Spec("mode",
		`(?i)\bmode\b[^a-zA-Z0-9]{0,12}(green|yellow|orange|red)\b`,
		`(?i)\*\*(green|yellow|orange|red)\*\*`,
	)
	capSpec = extract.Spec("daily_cap_pct",
		`(?i)daily cap\D{0,8}([0-9]+(?:\.[0-9]+)?)\s*%`,
		`(?i)\bcap\D{0,8}([0-9]+(?:\.[0-9]+)?)\s*%`,
	)
	closeSpec = extract.Spec("price.close",
		`(?i)clos(?:e|ed)(?:\s+at)?\D{0,8}([0-9][0-9,]*(?:\.[0-9]+)?)`,
		`(?i)\blast\D{0,8}([0-9][0-9,]*(?:\.[0-9]+)?)`,
	)
	// Lazy gap so a leading minus sign lands in the capture, not the gap.
	changeSpec = extract.Spec("price.change_pct",
		`(?i)(?:change|chg)\D{0,8}?([+-]?[0-9]+(?:\.[0-9]+)?)\s*%`,
		`([+-][0-9]+(?:\.[0-9]+)?)\s*%`,
	)
	highSpec = extract.Spec("price.high",
		`(?i)\bhigh\D{0,8}([0-9][0-9,]*(?:\.[0-9]+)?)`)
	lowSpec = extract.Spec("price.low",
		`(?i)\blow\D{0,8}([0-9][0-9,]*(?:\.[0-9]+)?)`)
	volumeSpec = extract.Spec("price.volume",
		`(?i)\bvol(?:ume)?\D{0,8}([0-9][0-9,]*(?:\.[0-9]+)?)`)

	ejectRe = regexp.MustCompile(`([0-9][0-9,]*(?:\.[0-9]+)?)\s*[:\-–—]*\s*(.*)`)

	// Leading run tolerates bullets and arrow emoji before the direction word.
	alertRe = regexp.MustCompile(`^[^A-Za-z0-9]*(?:(?i:above|below)\s+)?` +
		`([A-Za-z][\w .]*?)\s+\$?([0-9][0-9,]*(?:\.[0-9]+)?)\s*[:\-–—]\s*` +
		`([^()]+?)\s*(?:\(([^)]*)\))?\s*$`)

	levelRe = regexp.MustCompile(`^\s*[-•*]?\s*([^:]+?)\s*:\s*` +
		`\$?([0-9][0-9,]*(?:\.[0-9]+)?)\s*[:\-–—]*\s*(.*)$`)
)

// Parse converts daily report text into a structured record plus warnings.
// Absence of a field is never fatal: every unmatched expected field yields
// exactly one warning naming it, and the record stays usable.
func (p *Parser) Parse(text string) (*types.DailyReport, []types.Warning) {
	secs := extract.Sections(text, types.KindDaily)
	var warns []types.Warning
	warn := func(field, msg string, sev types.Severity) {
		warns = append(warns, types.Warning{Field: field, Message: msg, Severity: sev})
	}

	r := &types.DailyReport{
		Alerts: []types.Alert{},
		Levels: map[string]types.LevelEntry{},
	}

	// Mode: closed vocabulary. Inside a mode section any color token counts;
	// outside one only the stricter phrasings apply, so a stray color word in
	// the prose cannot flip the regime call.
	modeText, hasModeSec := secs[extract.SecMarketMode]
	spec := modeSpec
	if !hasModeSec {
		modeText = text
		spec = strictModeSpec
	}
	if label, ok := extract.Label(modeText, spec); ok {
		r.Mode = types.Mode(strings.ToUpper(label))
	} else {
		r.Mode = p.fallback
		warn("mode", fmt.Sprintf("no mode token found, defaulting to %s", p.fallback), types.SeveritySoft)
	}
	if capPct, ok := extract.Percent(modeText, capSpec); ok && capPct > 0 {
		r.DailyCapPct = &capPct
	}

	// Price snapshot. Close and change are expected; high/low/volume are
	// optional in the template and draw no warning when absent.
	priceText := secs[extract.SecPriceAction]
	if v, ok := extract.Price(priceText, closeSpec); ok {
		r.Price.Close = v
	} else {
		warn("price.close", "close price not found", types.SeveritySoft)
	}
	if v, ok := extract.Percent(priceText, changeSpec); ok {
		r.Price.ChangePct = v
	} else {
		warn("price.change_pct", "change percent not found", types.SeveritySoft)
	}
	if v, ok := extract.Price(priceText, highSpec); ok {
		r.Price.High = &v
	}
	if v, ok := extract.Price(priceText, lowSpec); ok {
		r.Price.Low = &v
	}
	if v, ok := extract.Price(priceText, volumeSpec); ok {
		r.Price.Volume = &v
	}

	// Master eject: capital-protection data must never silently vanish, so
	// absence is a hard warning the validator turns into a rejection.
	if me, ok := parseMasterEject(secs[extract.SecMasterEject]); ok {
		r.MasterEject = me
	} else {
		warn("master_eject", "master eject level not found", types.SeverityHard)
	}

	upsides, badUp := parseAlerts(secs[extract.SecUpsideAlerts], types.DirectionUpside)
	downsides, badDown := parseAlerts(secs[extract.SecDownsideAlerts], types.DirectionDownside)
	r.Alerts = append(r.Alerts, upsides...)
	r.Alerts = append(r.Alerts, downsides...)
	if len(r.Alerts) == 0 {
		warn("alerts", "no alert entries found", types.SeveritySoft)
	} else if n := badUp + badDown; n > 0 {
		warn("alerts", fmt.Sprintf("%d alert line(s) did not match the expected format", n), types.SeveritySoft)
	}

	if levels, ok := parseLevels(secs[extract.SecKeyLevels]); ok {
		r.Levels = levels
	} else {
		warn("levels_map", "no named price levels found", types.SeveritySoft)
	}

	if pos := strings.TrimSpace(secs[extract.SecPositioning]); pos != "" {
		r.Positioning = pos
	} else {
		warn("positioning", "positioning section not found", types.SeveritySoft)
	}

	return r, warns
}

func parseMasterEject(body string) (*types.MasterEject, bool) {
	m := ejectRe.FindStringSubmatch(body)
	if m == nil {
		return nil, false
	}
	price, ok := extract.ParsePrice(m[1])
	if !ok {
		return nil, false
	}
	return &types.MasterEject{Price: price, Action: strings.TrimSpace(m[2])}, true
}

// parseAlerts scans a fixed-format list: optional direction marker, named
// level, price, action clause, optional parenthesized reason. Lines that do
// not match are counted, not fatal.
func parseAlerts(body string, dir types.AlertDirection) ([]types.Alert, int) {
	var alerts []types.Alert
	bad := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := alertRe.FindStringSubmatch(line)
		if m == nil {
			bad++
			continue
		}
		price, ok := extract.ParsePrice(m[2])
		if !ok {
			bad++
			continue
		}
		alerts = append(alerts, types.Alert{
			Direction: dir,
			LevelName: strings.TrimSpace(m[1]),
			Price:     price,
			Action:    strings.TrimSpace(m[3]),
			Reason:    strings.TrimSpace(m[4]),
		})
	}
	return alerts, bad
}

func parseLevels(body string) (map[string]types.LevelEntry, bool) {
	levels := map[string]types.LevelEntry{}
	for _, line := range strings.Split(body, "\n") {
		m := levelRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		price, ok := extract.ParsePrice(m[2])
		if !ok {
			continue
		}
		name := strings.TrimSpace(m[1])
		levels[name] = types.LevelEntry{Price: price, Action: strings.TrimSpace(m[3])}
	}
	return levels, len(levels) > 0
}
