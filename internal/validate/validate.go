// Package validate runs an independent pass over an already-extracted record.
// It never mutates its input and never returns errors through panics or
// exceptions; issues come back as data.
//
// Two categories exist: structural issues (required data absent) block
// acceptance, consistency issues (fields contradicting each other) are
// reported for manual review but do not block. Hand-authored prose drifts,
// and blocking on cross-field drift would make the pipeline too brittle.
package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"trade-report-engine/internal/types"
)

// Kind classifies a validation issue.
type Kind string

const (
	Structural  Kind = "structural"
	Consistency Kind = "consistency"
)

// Issue is one validation finding tied to a named field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Blocking reports whether the issue list contains any structural issue.
func Blocking(issues []Issue) bool {
	for _, is := range issues {
		if is.Kind == Structural {
			return true
		}
	}
	return false
}

// StructuralFields lists the fields behind structural issues, for the
// caller's rejection message.
func StructuralFields(issues []Issue) []string {
	var fields []string
	for _, is := range issues {
		if is.Kind == Structural {
			fields = append(fields, is.Field)
		}
	}
	return fields
}

var structCheck = validator.New(validator.WithRequiredStructEnabled())

// fieldNames maps validator struct paths to the record field names callers
// see in rejection messages.
var fieldNames = map[string]string{
	"DailyReport.Mode":              "mode",
	"DailyReport.MasterEject":       "master_eject",
	"DailyReport.MasterEject.Price": "master_eject.price",
	"WeeklyReport.WeekStart":        "week_start",
	"WeeklyReport.WeekEnd":          "week_end",
}

func structuralIssues(record any) []Issue {
	err := structCheck.Struct(record)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Issue{{Field: "record", Message: err.Error(), Kind: Structural}}
	}
	var issues []Issue
	for _, fe := range verrs {
		field := fieldNames[fe.StructNamespace()]
		if field == "" {
			field = fe.StructNamespace()
		}
		issues = append(issues, Issue{
			Field:   field,
			Message: fmt.Sprintf("required field failed %q check", fe.Tag()),
			Kind:    Structural,
		})
	}
	return issues
}

// Daily validates an extracted daily report.
func Daily(r *types.DailyReport) []Issue {
	issues := structuralIssues(r)

	// Consistency: alert prices should sit on the side of the close their
	// direction implies.
	if r.Price.Close > 0 {
		for _, a := range r.Alerts {
			if a.Direction == types.DirectionUpside && a.Price < r.Price.Close {
				issues = append(issues, Issue{
					Field:   "alerts",
					Message: fmt.Sprintf("upside alert %q priced %.2f below close %.2f", a.LevelName, a.Price, r.Price.Close),
					Kind:    Consistency,
				})
			}
			if a.Direction == types.DirectionDownside && a.Price > r.Price.Close {
				issues = append(issues, Issue{
					Field:   "alerts",
					Message: fmt.Sprintf("downside alert %q priced %.2f above close %.2f", a.LevelName, a.Price, r.Price.Close),
					Kind:    Consistency,
				})
			}
		}
	}

	// Consistency: a resistance (upside) alert priced below a support
	// (downside) alert contradicts the level structure.
	var maxDown float64
	for _, a := range r.Alerts {
		if a.Direction == types.DirectionDownside && a.Price > maxDown {
			maxDown = a.Price
		}
	}
	if maxDown > 0 {
		for _, a := range r.Alerts {
			if a.Direction == types.DirectionUpside && a.Price < maxDown {
				issues = append(issues, Issue{
					Field:   "alerts",
					Message: fmt.Sprintf("resistance level %q (%.2f) priced below support at %.2f", a.LevelName, a.Price, maxDown),
					Kind:    Consistency,
				})
			}
		}
	}

	return issues
}

// Weekly validates an extracted weekly report.
func Weekly(r *types.WeeklyReport) []Issue {
	issues := structuralIssues(r)

	if !r.WeekStart.IsZero() && !r.WeekEnd.IsZero() && r.WeekEnd.Before(r.WeekStart) {
		issues = append(issues, Issue{
			Field:   "week_end",
			Message: fmt.Sprintf("week_end %s before week_start %s", r.WeekEnd.Format("2006-01-02"), r.WeekStart.Format("2006-01-02")),
			Kind:    Consistency,
		})
	}
	for _, s := range r.Scenarios {
		if s.Probability < 0 || s.Probability > 100 {
			issues = append(issues, Issue{
				Field:   "scenarios",
				Message: fmt.Sprintf("%s scenario probability %.1f outside 0-100", s.Kind, s.Probability),
				Kind:    Consistency,
			})
		}
	}
	if c := r.Candle; c.High > 0 && c.Low > 0 && c.High < c.Low {
		issues = append(issues, Issue{
			Field:   "weekly_candle",
			Message: fmt.Sprintf("weekly high %.2f below weekly low %.2f", c.High, c.Low),
			Kind:    Consistency,
		})
	}

	return issues
}
