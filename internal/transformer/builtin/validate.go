package builtin

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"seedqa/internal/diag"
	"seedqa/pkg/records"
)

// Average tolerance defaults: a recorded average matches the recomputed one
// when |recomputed - recorded| <= max(AbsTol, RelTol*|recorded|).
const (
	DefaultAbsTol = 1.0
	DefaultRelTol = 0.01
)

// Validate runs the consistency checks over normalized records. It only
// reports; records are never modified or dropped. A zero tolerance selects
// its default.
type Validate struct {
	AbsTol float64
	RelTol float64
}

func (v Validate) tolerances() (abs, rel float64) {
	abs, rel = v.AbsTol, v.RelTol
	if abs == 0 {
		abs = DefaultAbsTol
	}
	if rel == 0 {
		rel = DefaultRelTol
	}
	return abs, rel
}

// Run executes every check. columns are the bound columns of the sheet.
func (v Validate) Run(columns []string, recs []records.Record, rep diag.Reporter) {
	v.CheckColumns(columns, rep)
	v.CheckPopulated(columns, recs, rep)
	v.CheckInterval(recs, rep)
	v.CheckAverage(recs, rep)
}

// CheckColumns compares columns against the expected normalized column set.
func (Validate) CheckColumns(columns []string, rep diag.Reporter) {
	want := records.NormalizedColumns()
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	expected := make(map[string]bool, len(want))
	var missing, extra []string
	for _, c := range want {
		expected[c] = true
		if !have[c] {
			missing = append(missing, c)
		}
	}
	for _, c := range columns {
		if !expected[c] {
			extra = append(extra, c)
		}
	}
	if len(missing) > 0 {
		rep.Report(diag.Issue{
			Kind:    diag.MissingColumns,
			Column:  strings.Join(missing, ","),
			Message: fmt.Sprintf("Expected columns %s missing", setString(missing)),
		})
	}
	if len(extra) > 0 {
		rep.Report(diag.Issue{
			Kind:    diag.ExtraColumns,
			Column:  strings.Join(extra, ","),
			Message: fmt.Sprintf("Unexpected columns %s included", setString(extra)),
		})
	}
}

func setString(cols []string) string {
	s := append([]string(nil), cols...)
	sort.Strings(s)
	return "{" + strings.Join(s, ", ") + "}"
}

// CheckPopulated reports every known column whose values are all empty.
// Unknown columns are left to CheckColumns.
func (Validate) CheckPopulated(columns []string, recs []records.Record, rep diag.Reporter) {
	var blank records.Record
	for _, c := range columns {
		if _, known := blank.Column(c); !known {
			continue
		}
		empty := true
		for i := range recs {
			if val, _ := recs[i].Column(c); !records.IsEmpty(val) {
				empty = false
				break
			}
		}
		if empty {
			rep.Report(diag.Issue{
				Kind:    diag.EmptyColumn,
				Column:  c,
				Message: fmt.Sprintf("Column %s is completely empty!", c),
			})
		}
	}
}

// CalculatedInterval is date_planted - date_treated in days.
func CalculatedInterval(r *records.Record) (float64, bool) {
	d, ok := r.DatePlanted.DaysSince(r.DateTreated)
	return float64(d), ok
}

// CheckInterval reports rows whose recorded days_between_treatment_and_planting
// disagrees with the dates. Two undefined values agree.
func (Validate) CheckInterval(recs []records.Record, rep diag.Reporter) {
	for i := range recs {
		r := &recs[i]
		calc, cok := CalculatedInterval(r)
		rec, rok := LeadingNumber(r.DaysBetweenTreatmentAndPlanting)
		if cok == rok && (!cok || calc == rec) {
			continue
		}
		rep.Report(diag.AtRow(diag.IntervalMismatch, r, records.DaysBetweenTreatmentAndPlanting.String(),
			fmt.Sprintf("Data at barcode: %s, date_received: %s has mismatching days_between_treatment_and_planting (calculated %s, recorded %q)",
				r.Barcode, r.DateReceived, fmtOpt(calc, cok), r.DaysBetweenTreatmentAndPlanting)))
	}
}

// RecomputedAverage is the mean of the numeric, non-zero CFU counts. ok is
// false when no count qualifies.
func RecomputedAverage(cfu [4]string) (avg float64, ok bool) {
	var sum float64
	var n int
	for _, s := range cfu {
		v, good := ParseNumber(s)
		if !good || math.IsNaN(v) || v == 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// AverageAgrees compares a recomputed average with the recorded text.
// checked is false when the recorded value is non-numeric text.
func (v Validate) AverageAgrees(cfu [4]string, recorded string) (agree, checked bool) {
	abs, rel := v.tolerances()
	avg, _ := RecomputedAverage(cfu)
	rec, ok := ParseNumber(recorded)
	if !ok && strings.TrimSpace(recorded) != "" {
		return false, false
	}
	if !ok || math.IsNaN(rec) {
		// An undefined recomputed average compares as 0.
		return avg == 0, true
	}
	return math.Abs(avg-rec) <= math.Max(abs, rel*math.Abs(rec)), true
}

// CheckAverage reports rows whose recorded average_cfu_per_seed is not within
// tolerance of the mean of the CFU counts.
func (v Validate) CheckAverage(recs []records.Record, rep diag.Reporter) {
	for i := range recs {
		r := &recs[i]
		agree, checked := v.AverageAgrees(r.CFU, r.AverageCFUPerSeed)
		if !checked || agree {
			continue
		}
		avg, ok := RecomputedAverage(r.CFU)
		rep.Report(diag.AtRow(diag.AverageMismatch, r, records.AverageCFUPerSeed.String(),
			fmt.Sprintf("Data at barcode: %s, date_received: %s has mismatching average_cfu_per_seed (calculated %s, recorded %q)",
				r.Barcode, r.DateReceived, fmtOpt(avg, ok), r.AverageCFUPerSeed)))
	}
}

func fmtOpt(v float64, ok bool) string {
	if !ok {
		return "none"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
