package builtin

import (
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"

	"seedqa/internal/diag"
	"seedqa/pkg/records"
)

// Coerce turns bound raw rows into typed records: date fields are parsed,
// the extracted seed mass is converted to grams and the sample id is
// attached. Values that cannot be coerced are reported and kept, never
// dropped. Duplicate natural keys and id collisions are reported as well.
type Coerce struct {
	Layouts []string
	Units   map[string]float64
	Report  diag.Reporter
	// Hash derives the sample id from the natural key. nil selects
	// xxh3.HashString.
	Hash func(string) uint64
}

// Apply converts in to records in input order.
func (c Coerce) Apply(in []records.Raw) []records.Record {
	out := make([]records.Record, 0, len(in))
	keys := make(map[int64]string, len(in))
	for i := range in {
		r := c.coerce(&in[i])
		if r.ID.Valid {
			key := NaturalKey(r.Barcode, r.DateReceived)
			switch prev, seen := keys[r.ID.N]; {
			case !seen:
				keys[r.ID.N] = key
			case prev == key:
				c.report(diag.AtRow(diag.DuplicateKey, &r, records.IDColumn,
					fmt.Sprintf("Duplicate sample at barcode: %s, date_received: %s", r.Barcode, r.DateReceived)))
			default:
				c.report(diag.AtRow(diag.IDCollision, &r, records.IDColumn,
					fmt.Sprintf("Sample id %d of %q collides with %q", r.ID.N, key, prev)))
			}
		}
		out = append(out, r)
	}
	return out
}

func (c Coerce) hash() func(string) uint64 {
	if c.Hash != nil {
		return c.Hash
	}
	return xxh3.HashString
}

func (c Coerce) report(i diag.Issue) {
	if c.Report != nil {
		c.Report.Report(i)
	}
}

func (c Coerce) coerce(raw *records.Raw) records.Record {
	g := raw.Get
	r := records.Record{
		Line:                            raw.Line,
		ReceivedBy:                      g(records.ReceivedBy),
		ReceivedByManager:               g(records.ReceivedByManager),
		ReceivedByTeam:                  g(records.ReceivedByTeam),
		Barcode:                         g(records.Barcode),
		Farm:                            g(records.Farm),
		TreatmentName:                   g(records.TreatmentName),
		Crop:                            g(records.Crop),
		SeedVariety:                     g(records.SeedVariety),
		DaysBetweenTreatmentAndPlanting: g(records.DaysBetweenTreatmentAndPlanting),
		IsQANeeded:                      g(records.IsQANeeded),
		TestedBy:                        g(records.TestedBy),
		TestedByManager:                 g(records.TestedByManager),
		TestedByTeam:                    g(records.TestedByTeam),
		ChemicalTreatmentVisible:        g(records.ChemicalTreatmentVisible),
		PlatingCode:                     g(records.PlatingCode),
		SeedsG:                          g(records.SeedsG),
		PlatedVolumeML:                  g(records.PlatedVolumeML),
		AverageCFUPerSeed:               g(records.AverageCFUPerSeed),
		Comment:                         g(records.Comment),
	}
	for i, d := range records.Dilutions {
		r.CFU[i] = g(d.Field)
	}

	dates := map[records.Field]*records.Date{
		records.DateReceived:      &r.DateReceived,
		records.DateTaken:         &r.DateTaken,
		records.DateTreated:       &r.DateTreated,
		records.DatePlanted:       &r.DatePlanted,
		records.TestingDatePlated: &r.TestingDatePlated,
	}
	for _, f := range records.DateFields {
		d, err := ParseDate(f.String(), g(f), c.Layouts)
		*dates[f] = d
		if err != nil {
			c.report(diag.Issue{
				Kind: diag.DateParse, Line: r.Line, Column: f.String(),
				Barcode: r.Barcode, Message: err.Error(), Err: err,
			})
		}
	}

	m, err := ParseMass(g(records.MassSeedExtractedG), c.Units)
	r.MassSeedExtractedG = m
	if err != nil {
		c.report(diag.Issue{
			Kind: diag.UnitParse, Line: r.Line, Column: records.MassSeedExtractedG.String(),
			Barcode: r.Barcode, Received: r.DateReceived, Message: err.Error(), Err: err,
		})
	}

	id, err := sampleID(c.hash(), r.Barcode, r.DateReceived)
	r.ID = id
	var mk *MissingKeyError
	if errors.As(err, &mk) {
		c.report(diag.Issue{
			Kind: diag.MissingKey, Line: r.Line, Column: records.IDColumn,
			Barcode: r.Barcode, Received: r.DateReceived, Message: err.Error(), Err: err,
		})
	}
	return r
}
