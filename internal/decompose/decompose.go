// Package decompose splits normalized QA records into the narrow output
// tables: employees, sample_seeds, samples, qa_tests and
// colony_forming_units.
package decompose

import (
	"fmt"

	"seedqa/internal/schema"
	"seedqa/internal/transformer/builtin"
	"seedqa/pkg/records"
)

// Result holds the decomposed tables.
type Result struct {
	Employees   *records.Table
	SampleSeeds *records.Table
	Samples     *records.Table
	QATests     *records.Table
	CFU         *records.Table
}

// Tables returns the tables in schema.OutputTables order.
func (r *Result) Tables() []*records.Table {
	return []*records.Table{r.Employees, r.SampleSeeds, r.Samples, r.QATests, r.CFU}
}

// Decompose builds every output table from recs. Entity and crop tables are
// de-duplicated keeping the first occurrence; all other tables carry one row
// (or four, for CFU) per record in input order.
func Decompose(recs []records.Record) *Result {
	return &Result{
		Employees:   Employees(recs),
		SampleSeeds: SampleSeeds(recs),
		Samples:     project(schema.Samples, schema.SampleFields, recs),
		QATests:     project(schema.QATests, schema.QATestFields, recs),
		CFU:         CFU(recs),
	}
}

var dedup = builtin.DeDup{}

// Employees projects the received-by and tested-by triples onto
// (name, manager, team), received-by first.
func Employees(recs []records.Record) *records.Table {
	t := records.NewTable(schema.Employees.Name, schema.Employees.ColumnNames())
	rows := make([][]any, 0, 2*len(recs))
	for _, r := range recs {
		rows = append(rows, []any{r.ReceivedBy, r.ReceivedByManager, r.ReceivedByTeam})
	}
	for _, r := range recs {
		rows = append(rows, []any{r.TestedBy, r.TestedByManager, r.TestedByTeam})
	}
	t.Rows = dedup.Apply(rows)
	return t
}

// SampleSeeds projects (crop, seed_variety).
func SampleSeeds(recs []records.Record) *records.Table {
	t := records.NewTable(schema.SampleSeeds.Name, schema.SampleSeeds.ColumnNames())
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{r.Crop, r.SeedVariety})
	}
	t.Rows = dedup.Apply(rows)
	return t
}

func project(spec schema.TableSpec, fields []records.Field, recs []records.Record) *records.Table {
	t := records.NewTable(spec.Name, spec.ColumnNames())
	t.Rows = make([][]any, 0, len(recs))
	for i := range recs {
		row := make([]any, 0, len(fields)+1)
		for _, f := range fields {
			row = append(row, recs[i].Value(f))
		}
		t.Append(append(row, recs[i].ID)...)
	}
	return t
}

// CFU unpivots the four dilution counts of each record into
// (count, TCTC, count_type, sample_id) rows.
func CFU(recs []records.Record) *records.Table {
	t := records.NewTable(schema.CFU.Name, schema.CFU.ColumnNames())
	t.Rows = make([][]any, 0, len(records.Dilutions)*len(recs))
	for _, r := range recs {
		for i, d := range records.Dilutions {
			count, tctc := builtin.CountValue(r.CFU[i])
			t.Append(count, tctc, d.Label, r.ID)
		}
	}
	return t
}

// Rejoin rebuilds the wide field map of every sample from the samples,
// qa_tests and colony_forming_units tables, keyed by sample id. Rows without
// a valid id cannot be joined and are skipped.
func Rejoin(res *Result) (map[records.ID]map[string]any, error) {
	out := make(map[records.ID]map[string]any, res.Samples.Len())
	idCol := res.Samples.Index(records.IDColumn)
	for _, row := range res.Samples.Rows {
		id, _ := row[idCol].(records.ID)
		if !id.Valid {
			continue
		}
		m := make(map[string]any, records.NumFields)
		for i, c := range res.Samples.Columns {
			if i != idCol {
				m[c] = row[i]
			}
		}
		out[id] = m
	}

	sid := res.QATests.Index(schema.ColSampleID)
	for _, row := range res.QATests.Rows {
		id, _ := row[sid].(records.ID)
		m, ok := out[id]
		if !id.Valid {
			continue
		}
		if !ok {
			return nil, fmt.Errorf("rejoin: qa_tests sample_id %v has no sample", id)
		}
		for i, c := range res.QATests.Columns {
			if i != sid {
				m[c] = row[i]
			}
		}
	}

	cfuByLabel := make(map[string]string, len(records.Dilutions))
	for _, d := range records.Dilutions {
		cfuByLabel[d.Label] = d.Field.String()
	}
	var (
		cCount = res.CFU.Index(schema.ColCount)
		cTCTC  = res.CFU.Index(schema.ColTCTC)
		cType  = res.CFU.Index(schema.ColCountType)
		cSID   = res.CFU.Index(schema.ColSampleID)
	)
	for _, row := range res.CFU.Rows {
		id, _ := row[cSID].(records.ID)
		m, ok := out[id]
		if !id.Valid {
			continue
		}
		if !ok {
			return nil, fmt.Errorf("rejoin: colony_forming_units sample_id %v has no sample", id)
		}
		col, ok := cfuByLabel[fmt.Sprint(row[cType])]
		if !ok {
			return nil, fmt.Errorf("rejoin: unknown count_type %v", row[cType])
		}
		m[col] = Observation{Count: row[cCount], TCTC: row[cTCTC] == true}
	}
	return out, nil
}

// Observation is a rejoined CFU cell.
type Observation struct {
	Count any
	TCTC  bool
}
