package witsml

// LogPatch is a partial update for a log header. Keys are the JSON field
// names of Log. Each field is in one of three states: absent (left
// untouched), present with a nil value (explicitly cleared), or present with
// a value (overwritten). Curve fragments under "logCurveInfo" and bulk rows
// under "logData" use their typed slices as values.
type LogPatch map[string]any

// Patchable field keys.
const (
	FieldName           = "name"
	FieldNameWell       = "nameWell"
	FieldNameWellbore   = "nameWellbore"
	FieldNullValue      = "nullValue"
	FieldCurves         = "logCurveInfo"
	FieldData           = "logData"
	FieldDTimCreation   = "commonData.dTimCreation"
	FieldDTimLastChange = "commonData.dTimLastChange"
)

// Index-range field keys. Never accepted from callers (ranges are derived,
// not trusted); the lifecycle writes them through the update machinery after
// computing them.
const (
	FieldStartIndex         = "startIndex"
	FieldEndIndex           = "endIndex"
	FieldStartDateTimeIndex = "startDateTimeIndex"
	FieldEndDateTimeIndex   = "endDateTimeIndex"
)

// Has reports whether the field participates in the patch at all.
func (p LogPatch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// IsNull reports whether the field is present as an explicit clear.
func (p LogPatch) IsNull(field string) bool {
	v, ok := p[field]
	return ok && v == nil
}

// StringField returns the field's value when it is present and non-null.
func (p LogPatch) StringField(field string) (string, bool) {
	v, ok := p[field]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// CurveFragments returns the curve fragments carried by the patch, or nil
// when the patch does not touch the curve list.
func (p LogPatch) CurveFragments() []*LogCurveInfo {
	v, ok := p[FieldCurves]
	if !ok || v == nil {
		return nil
	}
	curves, _ := v.([]*LogCurveInfo)
	return curves
}

// DataFragments returns the bulk rows carried by the patch, or nil when the
// patch appends no data.
func (p LogPatch) DataFragments() []*LogData {
	v, ok := p[FieldData]
	if !ok || v == nil {
		return nil
	}
	data, _ := v.([]*LogData)
	return data
}

// PatchFromLog flattens an update object into patch form: every non-zero
// header field becomes an overwrite, and curve or data sections come along
// when present. Explicit clears have to be added by the caller, since a
// decoded object cannot distinguish absent from empty.
func PatchFromLog(l *Log) LogPatch {
	p := LogPatch{}
	if l.Name != "" {
		p[FieldName] = l.Name
	}
	if l.NameWell != "" {
		p[FieldNameWell] = l.NameWell
	}
	if l.NameWellbore != "" {
		p[FieldNameWellbore] = l.NameWellbore
	}
	if l.NullValue != "" {
		p[FieldNullValue] = l.NullValue
	}
	if len(l.LogCurveInfo) > 0 {
		p[FieldCurves] = l.LogCurveInfo
	}
	if len(l.LogData) > 0 {
		p[FieldData] = l.LogData
	}
	return p
}
