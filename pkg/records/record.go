package records

// Record is one normalized QA row: raw text fields cleaned up, dates and the
// extracted mass coerced, and the synthetic ID attached. Numeric cells that
// the validator and decomposer interpret (interval, CFU counts, average) keep
// their cleaned text so that no recorded value is rewritten.
type Record struct {
	Line int

	ReceivedBy        string
	ReceivedByManager string
	ReceivedByTeam    string

	Barcode       string
	Farm          string
	TreatmentName string
	Crop          string
	SeedVariety   string

	DateReceived Date
	DateTaken    Date
	DateTreated  Date
	DatePlanted  Date

	DaysBetweenTreatmentAndPlanting string
	IsQANeeded                      string

	TestedBy        string
	TestedByManager string
	TestedByTeam    string

	ChemicalTreatmentVisible string
	TestingDatePlated        Date
	PlatingCode              string
	SeedsG                   string
	MassSeedExtractedG       Mass
	PlatedVolumeML           string

	// CFU holds the raw counts in Dilutions order.
	CFU               [4]string
	AverageCFUPerSeed string
	Comment           string

	ID ID
}

// Value returns the value stored for f: a string, Date or Mass.
func (r *Record) Value(f Field) any {
	switch f {
	case ReceivedBy:
		return r.ReceivedBy
	case ReceivedByManager:
		return r.ReceivedByManager
	case ReceivedByTeam:
		return r.ReceivedByTeam
	case Barcode:
		return r.Barcode
	case Farm:
		return r.Farm
	case TreatmentName:
		return r.TreatmentName
	case Crop:
		return r.Crop
	case SeedVariety:
		return r.SeedVariety
	case DateReceived:
		return r.DateReceived
	case DateTaken:
		return r.DateTaken
	case DateTreated:
		return r.DateTreated
	case DatePlanted:
		return r.DatePlanted
	case DaysBetweenTreatmentAndPlanting:
		return r.DaysBetweenTreatmentAndPlanting
	case IsQANeeded:
		return r.IsQANeeded
	case TestedBy:
		return r.TestedBy
	case TestedByManager:
		return r.TestedByManager
	case TestedByTeam:
		return r.TestedByTeam
	case ChemicalTreatmentVisible:
		return r.ChemicalTreatmentVisible
	case TestingDatePlated:
		return r.TestingDatePlated
	case PlatingCode:
		return r.PlatingCode
	case SeedsG:
		return r.SeedsG
	case MassSeedExtractedG:
		return r.MassSeedExtractedG
	case PlatedVolumeML:
		return r.PlatedVolumeML
	case CFU1x:
		return r.CFU[0]
	case CFU10x:
		return r.CFU[1]
	case CFU100x:
		return r.CFU[2]
	case CFU1000x:
		return r.CFU[3]
	case AverageCFUPerSeed:
		return r.AverageCFUPerSeed
	case Comment:
		return r.Comment
	}
	return nil
}

// Column returns the value for a normalized column name (a Field name or
// IDColumn). ok is false for unknown names.
func (r *Record) Column(name string) (v any, ok bool) {
	if name == IDColumn {
		return r.ID, true
	}
	f, ok := FieldByName(name)
	if !ok {
		return nil, false
	}
	return r.Value(f), true
}

// IsEmpty reports whether v is "no value" for any of the record value types.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case Date:
		return !t.Valid
	case ID:
		return !t.Valid
	case Mass:
		return !t.Parsed && t.Raw == ""
	}
	return false
}
