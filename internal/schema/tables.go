package schema

import "seedqa/pkg/records"

// Logical column kinds. Storage dialects map these onto SQL types.
const (
	KindText  = "text"
	KindInt   = "int"
	KindFloat = "float"
	KindBool  = "bool"
	KindDate  = "date"
)

// Output table names; each is also the base name of its CSV file.
const (
	TableEmployees   = "employees"
	TableSampleSeeds = "sample_seeds"
	TableSamples     = "samples"
	TableQATests     = "qa_tests"
	TableCFU         = "colony_forming_units"
	TableIssues      = "issues"
)

// Column names introduced by decomposition.
const (
	ColName        = "name"
	ColManager     = "manager"
	ColTeam        = "team"
	ColCrop        = "crop"
	ColSeedVariety = "seed_variety"
	ColSampleID    = "sample_id"
	ColCount       = "count"
	ColTCTC        = "TCTC"
	ColCountType   = "count_type"
)

// ColumnSpec is one output column.
type ColumnSpec struct {
	Name string
	Kind string
}

// TableSpec describes an output table.
type TableSpec struct {
	Name    string
	Columns []ColumnSpec
}

// ColumnNames returns the column names in order.
func (t TableSpec) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

func text(names ...string) []ColumnSpec {
	out := make([]ColumnSpec, len(names))
	for i, n := range names {
		out[i] = ColumnSpec{Name: n, Kind: KindText}
	}
	return out
}

func field(f records.Field, kind string) ColumnSpec {
	return ColumnSpec{Name: f.String(), Kind: kind}
}

// SampleFields are projected verbatim into the samples table, before id.
var SampleFields = []records.Field{
	records.ReceivedBy,
	records.ReceivedByManager,
	records.ReceivedByTeam,
	records.Barcode,
	records.Farm,
	records.TreatmentName,
	records.Crop,
	records.SeedVariety,
	records.DateReceived,
	records.DateTaken,
	records.DateTreated,
	records.DatePlanted,
	records.DaysBetweenTreatmentAndPlanting,
	records.IsQANeeded,
}

// QATestFields are projected into the qa_tests table, before sample_id.
var QATestFields = []records.Field{
	records.TestedBy,
	records.TestedByManager,
	records.TestedByTeam,
	records.ChemicalTreatmentVisible,
	records.TestingDatePlated,
	records.PlatingCode,
	records.SeedsG,
	records.MassSeedExtractedG,
	records.PlatedVolumeML,
	records.AverageCFUPerSeed,
	records.Comment,
}

func fieldKind(f records.Field) string {
	switch f {
	case records.DateReceived, records.DateTaken, records.DateTreated,
		records.DatePlanted, records.TestingDatePlated:
		return KindDate
	case records.MassSeedExtractedG:
		return KindFloat
	}
	return KindText
}

func fieldColumns(fs []records.Field) []ColumnSpec {
	out := make([]ColumnSpec, len(fs))
	for i, f := range fs {
		out[i] = field(f, fieldKind(f))
	}
	return out
}

var (
	Employees = TableSpec{
		Name:    TableEmployees,
		Columns: text(ColName, ColManager, ColTeam),
	}
	SampleSeeds = TableSpec{
		Name:    TableSampleSeeds,
		Columns: text(ColCrop, ColSeedVariety),
	}
	Samples = TableSpec{
		Name:    TableSamples,
		Columns: append(fieldColumns(SampleFields), ColumnSpec{Name: records.IDColumn, Kind: KindInt}),
	}
	QATests = TableSpec{
		Name:    TableQATests,
		Columns: append(fieldColumns(QATestFields), ColumnSpec{Name: ColSampleID, Kind: KindInt}),
	}
	CFU = TableSpec{
		Name: TableCFU,
		Columns: []ColumnSpec{
			{Name: ColCount, Kind: KindInt},
			{Name: ColTCTC, Kind: KindBool},
			{Name: ColCountType, Kind: KindText},
			{Name: ColSampleID, Kind: KindInt},
		},
	}
	Issues = TableSpec{
		Name: TableIssues,
		Columns: []ColumnSpec{
			{Name: "kind", Kind: KindText},
			{Name: "line", Kind: KindInt},
			{Name: "column", Kind: KindText},
			{Name: "barcode", Kind: KindText},
			{Name: "date_received", Kind: KindDate},
			{Name: "message", Kind: KindText},
		},
	}
)

// OutputTables lists the decomposed tables in write order.
var OutputTables = []TableSpec{Employees, SampleSeeds, Samples, QATests, CFU}

// Lookup returns the spec for a table name.
func Lookup(name string) (TableSpec, bool) {
	if name == Issues.Name {
		return Issues, true
	}
	for _, t := range OutputTables {
		if t.Name == name {
			return t, true
		}
	}
	return TableSpec{}, false
}
