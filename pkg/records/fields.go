// Package records defines the in-memory shapes that flow through the seed QA
// pipeline: the raw positional sheet, bound raw rows, normalized records and
// the narrow output tables.
package records

// Field enumerates the logical columns of the QA sheet in source order.
// Binding is positional, so the order here is the contract with the workbook.
type Field int

const (
	ReceivedBy Field = iota
	ReceivedByManager
	ReceivedByTeam
	Barcode
	Farm
	TreatmentName
	Crop
	SeedVariety
	DateReceived
	DateTaken
	DateTreated
	DatePlanted
	DaysBetweenTreatmentAndPlanting
	IsQANeeded
	TestedBy
	TestedByManager
	TestedByTeam
	ChemicalTreatmentVisible
	TestingDatePlated
	PlatingCode
	SeedsG
	MassSeedExtractedG
	PlatedVolumeML
	CFU1x
	CFU10x
	CFU100x
	CFU1000x
	AverageCFUPerSeed
	Comment

	// NumFields is the number of bound columns expected in the input sheet.
	NumFields
)

// IDColumn is the synthetic identifier appended by normalization.
const IDColumn = "id"

var fieldNames = [NumFields]string{
	ReceivedBy:                      "sample_received_by",
	ReceivedByManager:               "sample_received_by_employee_manager",
	ReceivedByTeam:                  "sample_received_by_employee_team",
	Barcode:                         "irp_qa_sample_barcode",
	Farm:                            "sample_taken_from_farm",
	TreatmentName:                   "sample_treatment_name",
	Crop:                            "sample_crop",
	SeedVariety:                     "sample_seed_variety",
	DateReceived:                    "date_received_at_qa",
	DateTaken:                       "date_sample_taken",
	DateTreated:                     "date_treated",
	DatePlanted:                     "sample_date_planted",
	DaysBetweenTreatmentAndPlanting: "days_between_treatment_and_planting",
	IsQANeeded:                      "is_qa_needed",
	TestedBy:                        "sample_tested_by",
	TestedByManager:                 "sample_tested_by_employee_manager",
	TestedByTeam:                    "sample_tested_by_employee_team",
	ChemicalTreatmentVisible:        "chemical_treatment_visible",
	TestingDatePlated:               "testing_date_plated",
	PlatingCode:                     "plating_code",
	SeedsG:                          "seeds_g",
	MassSeedExtractedG:              "mass_seed_extracted_g",
	PlatedVolumeML:                  "plated_volume_mL",
	CFU1x:                           "cfu_seed_1x",
	CFU10x:                          "cfu_seed_10x",
	CFU100x:                         "cfu_seed_100x",
	CFU1000x:                        "cfu_seed_1000x",
	AverageCFUPerSeed:               "average_cfu_per_seed",
	Comment:                         "comment",
}

// String returns the logical column name of f.
func (f Field) String() string {
	if f < 0 || f >= NumFields {
		return ""
	}
	return fieldNames[f]
}

// FieldNames returns the bound column names in positional order.
func FieldNames() []string {
	out := make([]string, NumFields)
	copy(out, fieldNames[:])
	return out
}

// NormalizedColumns returns the bound column names followed by IDColumn.
func NormalizedColumns() []string {
	return append(FieldNames(), IDColumn)
}

// FieldByName looks up a Field by its logical column name.
func FieldByName(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// DateFields are coerced to calendar dates during normalization.
var DateFields = []Field{DateReceived, DateTaken, DateTreated, DatePlanted, TestingDatePlated}

// Dilution pairs a raw CFU column with its count_type label.
type Dilution struct {
	Field Field
	Label string
}

// Dilutions lists the CFU columns in unpivot order.
var Dilutions = [4]Dilution{
	{Field: CFU1x, Label: "1x"},
	{Field: CFU10x, Label: "10x"},
	{Field: CFU100x, Label: "100x"},
	{Field: CFU1000x, Label: "1000x"},
}
