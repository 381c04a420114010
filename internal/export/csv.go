// Package export renders scorecards into flat files for sharing.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"trade-report-engine/internal/types"
)

func exportDir() string {
	if v := os.Getenv("REPORT_EXPORT_DIR"); v != "" {
		return v
	}
	return filepath.Join("logs", "scorecards")
}

// WeekCSV writes one row per scored trading day plus a TOTAL row, and
// returns the output path.
func WeekCSV(card types.WeekScorecard) (string, error) {
	name := strings.ToLower(strings.ReplaceAll(card.WeekLabel, " ", "-")) + ".csv"
	outPath := filepath.Join(exportDir(), name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	headers := []string{"date", "levels", "hits", "accuracy_pct", "range_pct", "mode_assessment"}
	if err := w.Write(headers); err != nil {
		return "", err
	}
	for _, d := range card.TradingDays {
		hits := 0
		for _, o := range d.Levels {
			if o.Hit {
				hits++
			}
		}
		rec := []string{
			d.Date.Format("2006-01-02"),
			strconv.Itoa(len(d.Levels)),
			strconv.Itoa(hits),
			fmt.Sprintf("%.2f", d.AccuracyPct),
			fmt.Sprintf("%.2f", d.RangePct),
			string(d.ModeAssessment),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	total := []string{"TOTAL", "", "",
		fmt.Sprintf("%.2f", card.OverallLevelAccuracy),
		fmt.Sprintf("%.2f", card.WeeklyScore), ""}
	if err := w.Write(total); err != nil {
		return "", err
	}
	return outPath, nil
}
