package extract

import (
	"strings"
	"unicode"

	"trade-report-engine/internal/types"
)

// Canonical daily section names.
const (
	SecMarketMode     = "market mode"
	SecPriceAction    = "price action"
	SecMasterEject    = "master eject"
	SecUpsideAlerts   = "upside alerts"
	SecDownsideAlerts = "downside alerts"
	SecKeyLevels      = "key levels"
	SecPositioning    = "positioning"
)

// Canonical weekly section names.
const (
	SecWeeklyCandle = "weekly candle"
	SecMonthlyTier  = "monthly timeframe"
	SecWeeklyTier   = "weekly timeframe"
	SecDailyTier    = "daily timeframe"
	SecThesisCheck  = "thesis check"
	SecScenarios    = "scenarios"
	SecLessons      = "lessons"
	SecCatalysts    = "catalysts"
)

// Heading vocabularies per document kind. Keys are heading aliases as they
// appear (canonicalized), values are the section's canonical name.
var dailyHeadings = map[string]string{
	"market mode":        SecMarketMode,
	"mode":               SecMarketMode,
	"trading mode":       SecMarketMode,
	"current mode":       SecMarketMode,
	"price action":       SecPriceAction,
	"price":              SecPriceAction,
	"market snapshot":    SecPriceAction,
	"master eject":       SecMasterEject,
	"master eject level": SecMasterEject,
	"upside alerts":      SecUpsideAlerts,
	"upside":             SecUpsideAlerts,
	"downside alerts":    SecDownsideAlerts,
	"downside":           SecDownsideAlerts,
	"key levels":         SecKeyLevels,
	"levels":             SecKeyLevels,
	"levels map":         SecKeyLevels,
	"positioning":        SecPositioning,
	"posture":            SecPositioning,
}

var weeklyHeadings = map[string]string{
	"weekly candle":           SecWeeklyCandle,
	"the weekly candle":       SecWeeklyCandle,
	"monthly timeframe":       SecMonthlyTier,
	"monthly":                 SecMonthlyTier,
	"weekly timeframe":        SecWeeklyTier,
	"weekly":                  SecWeeklyTier,
	"daily timeframe":         SecDailyTier,
	"daily":                   SecDailyTier,
	"key levels":              SecKeyLevels,
	"key levels for the week": SecKeyLevels,
	"thesis check":            SecThesisCheck,
	"thesis":                  SecThesisCheck,
	"scenarios":               SecScenarios,
	"scenarios for next week": SecScenarios,
	"lessons":                 SecLessons,
	"lessons learned":         SecLessons,
	"week in review":          SecLessons,
	"catalysts":               SecCatalysts,
	"upcoming catalysts":      SecCatalysts,
	"catalyst calendar":       SecCatalysts,
}

// Sections splits a document into a map from canonical section name to body
// text. Sections not found are simply absent; that is never an error at this
// layer. Source ordering is irrelevant.
func Sections(text string, kind types.ReportKind) map[string]string {
	vocab := dailyHeadings
	if kind == types.KindWeekly {
		vocab = weeklyHeadings
	}

	out := map[string]string{}
	var current string
	var body []string

	flush := func() {
		if current == "" {
			return
		}
		// Later duplicate headings append to the same section.
		joined := strings.TrimSpace(strings.Join(body, "\n"))
		if prev, ok := out[current]; ok && prev != "" && joined != "" {
			out[current] = prev + "\n" + joined
		} else if joined != "" || !ok {
			out[current] = joined
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if name, ok := vocab[CanonicalHeading(line)]; ok {
			flush()
			current = name
			body = body[:0]
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()
	return out
}

// CanonicalHeading strips heading decoration (markdown markers, bullets,
// emoji, trailing colons) and case-folds the remainder. A body line will not
// normally collapse to a known alias because aliases are short noun phrases.
func CanonicalHeading(line string) string {
	var b strings.Builder
	for _, r := range line {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Everything else (markdown, emoji, punctuation) is decoration.
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
