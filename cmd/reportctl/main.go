// reportctl parses a report file from disk, validates it and prints the
// structured record as JSON. With -score it also compares the report's
// levels against a realized range given on the command line, so a day can be
// scored without the server or a market-data provider.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trade-report-engine/internal/daily"
	"trade-report-engine/internal/export"
	"trade-report-engine/internal/score"
	"trade-report-engine/internal/types"
	"trade-report-engine/internal/validate"
	"trade-report-engine/internal/weekly"
)

func main() {
	_ = godotenv.Load()

	var (
		file     = flag.String("file", "", "path to the report text file")
		kind     = flag.String("kind", "daily", "report kind: daily or weekly")
		date     = flag.String("date", "", "report date YYYY-MM-DD (defaults to today)")
		doScore  = flag.Bool("score", false, "score the report's levels against a realized range")
		open     = flag.Float64("open", 0, "realized open")
		high     = flag.Float64("high", 0, "realized high")
		low      = flag.Float64("low", 0, "realized low")
		closePx  = flag.Float64("close", 0, "realized close")
		writeCSV = flag.Bool("csv", false, "with -score, also write a one-day scorecard CSV")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	text, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal(err)
	}

	reportDate := time.Now().UTC().Truncate(24 * time.Hour)
	if *date != "" {
		reportDate, err = time.Parse("2006-01-02", *date)
		if err != nil {
			log.Fatalf("invalid -date: %v", err)
		}
	}

	switch types.ReportKind(*kind) {
	case types.KindDaily:
		runDaily(string(text), reportDate, *doScore, *writeCSV, types.PriceRange{
			Open: *open, High: *high, Low: *low, Close: *closePx,
		})
	case types.KindWeekly:
		runWeekly(string(text))
	default:
		log.Fatalf("unknown -kind %q", *kind)
	}
}

func runDaily(text string, date time.Time, doScore, writeCSV bool, realized types.PriceRange) {
	record, warns := daily.New("").Parse(text)
	record.Date = date

	issues := validate.Daily(record)
	printJSON(map[string]any{"record": record, "warnings": warns, "issues": issues})

	if validate.Blocking(issues) {
		fmt.Fprintf(os.Stderr, "rejected: missing fields %v\n", validate.StructuralFields(issues))
		os.Exit(1)
	}
	if !doScore {
		return
	}

	outcomes, err := score.Compare(score.LevelsFromDaily(record), realized)
	if err != nil {
		log.Fatal(err)
	}
	scorer := score.NewScorer(nil)
	da := scorer.ScoreDay(date, outcomes, record.Mode, record.DailyCapPct, realized)
	printJSON(da)

	if writeCSV {
		card := scorer.AggregateWeek("Week of "+date.Format("2006-01-02"), []types.DayAccuracy{da})
		path, err := export.WeekCSV(card)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprintln(os.Stderr, "wrote", path)
	}
}

func runWeekly(text string) {
	record, warns := weekly.New().Parse(text)
	issues := validate.Weekly(record)
	printJSON(map[string]any{"record": record, "warnings": warns, "issues": issues})

	if validate.Blocking(issues) {
		fmt.Fprintf(os.Stderr, "rejected: missing fields %v\n", validate.StructuralFields(issues))
		os.Exit(1)
	}
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(b))
}
