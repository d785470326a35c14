// Package witsml defines the WITSML 1.4.1.1 Log object model shared by the
// store adapters, plus the index/time helpers the lifecycle algorithms need.
package witsml

import "strings"

// Log index types (logIndexType enumeration, abridged to the values the
// store accepts).
const (
	IndexTypeMeasuredDepth = "measured depth"
	IndexTypeVerticalDepth = "vertical depth"
	IndexTypeDateTime      = "date time"
	IndexTypeElapsedTime   = "elapsed time"
)

// Index directions.
const (
	DirectionIncreasing = "increasing"
	DirectionDecreasing = "decreasing"
)

// DefaultNullValue is the customary WITSML null sentinel used when neither
// the curve nor the header declares one.
const DefaultNullValue = "-999.25"

// Log is a WITSML 1.4.1.1 log: a header describing correlated channel curves
// sampled along one shared index, with the bulk rows carried inline in
// LogData until the adapter detaches them.
type Log struct {
	UIDWell      string `json:"uidWell"`
	UIDWellbore  string `json:"uidWellbore"`
	UID          string `json:"uid"`
	NameWell     string `json:"nameWell,omitempty"`
	NameWellbore string `json:"nameWellbore,omitempty"`
	Name         string `json:"name"`

	IndexType  string `json:"indexType"`
	Direction  string `json:"direction,omitempty"`
	IndexCurve string `json:"indexCurve"`
	NullValue  string `json:"nullValue,omitempty"`

	// Depth-mode index bounds, direction-ordered (start precedes end in the
	// direction of travel).
	StartIndex *float64 `json:"startIndex,omitempty"`
	EndIndex   *float64 `json:"endIndex,omitempty"`

	// Time-mode index bounds, RFC3339 UTC. Written one-way from the raw
	// microsecond representation.
	StartDateTimeIndex string `json:"startDateTimeIndex,omitempty"`
	EndDateTimeIndex   string `json:"endDateTimeIndex,omitempty"`

	LogCurveInfo []*LogCurveInfo `json:"logCurveInfo,omitempty"`
	LogData      []*LogData      `json:"logData,omitempty"`

	CommonData *CommonData `json:"commonData,omitempty"`
}

// LogCurveInfo describes one named, unit-tagged data series within a Log.
type LogCurveInfo struct {
	UID              string `json:"uid,omitempty"`
	Mnemonic         string `json:"mnemonic"`
	Unit             string `json:"unit,omitempty"`
	NullValue        string `json:"nullValue,omitempty"`
	CurveDescription string `json:"curveDescription,omitempty"`
	TypeLogData      string `json:"typeLogData,omitempty"`
	ClassWitsml      string `json:"classWitsml,omitempty"`
	DataSource       string `json:"dataSource,omitempty"`

	// Stored range bounds, numerically normalized (min <= max); display
	// direction is applied by consumers, not baked into storage.
	MinIndex         *float64 `json:"minIndex,omitempty"`
	MaxIndex         *float64 `json:"maxIndex,omitempty"`
	MinDateTimeIndex string   `json:"minDateTimeIndex,omitempty"`
	MaxDateTimeIndex string   `json:"maxDateTimeIndex,omitempty"`
}

// LogData carries inline sample rows: a comma-joined mnemonic list defining
// column order, an optional matching unit list, and CSV data rows.
type LogData struct {
	MnemonicList string   `json:"mnemonicList"`
	UnitList     string   `json:"unitList,omitempty"`
	Data         []string `json:"data"`
}

// CommonData holds the shared audit fields the store maintains.
type CommonData struct {
	DTimCreation   string `json:"dTimCreation,omitempty"`
	DTimLastChange string `json:"dTimLastChange,omitempty"`
	ItemState      string `json:"itemState,omitempty"`
	Comments       string `json:"comments,omitempty"`
}

// IndexRange is a computed (start, end) bound pair. Both sides are optional;
// a nil side means "no constraint yet". Header-level ranges are
// direction-ordered, time-mode values are microseconds since the Unix epoch
// carried as exact floats.
type IndexRange struct {
	Start *float64
	End   *float64
}

// IsEmpty reports whether neither bound is set.
func (r IndexRange) IsEmpty() bool { return r.Start == nil && r.End == nil }

// Float64 returns a pointer to v. Convenience for building ranges and
// optional fields.
func Float64(v float64) *float64 { return &v }

// IsTimeIndexed reports whether the log's shared index is temporal.
func (l *Log) IsTimeIndexed() bool {
	return l.IndexType == IndexTypeDateTime || l.IndexType == IndexTypeElapsedTime
}

// IsIncreasing reports the declared direction of index progression.
// An unset direction means increasing per the 1.4.1.1 default.
func (l *Log) IsIncreasing() bool {
	return l.Direction != DirectionDecreasing
}

// IndexCurveInfo returns the curve matching the declared index mnemonic, or
// nil when the index curve has no entry in the curve list (its range then
// lives only in the dedicated header fields).
func (l *Log) IndexCurveInfo() *LogCurveInfo {
	for _, c := range l.LogCurveInfo {
		if c.Mnemonic == l.IndexCurve {
			return c
		}
	}
	return nil
}

// Curve returns the curve with the given mnemonic, or nil.
func (l *Log) Curve(mnemonic string) *LogCurveInfo {
	for _, c := range l.LogCurveInfo {
		if c.Mnemonic == mnemonic {
			return c
		}
	}
	return nil
}

// CurveByUID returns the curve with the given uid, or nil.
func (l *Log) CurveByUID(uid string) *LogCurveInfo {
	if uid == "" {
		return nil
	}
	for _, c := range l.LogCurveInfo {
		if c.UID == uid {
			return c
		}
	}
	return nil
}

// HeaderRange returns the dedicated header-level index bounds in the raw
// representation (depth value or unix microseconds).
func (l *Log) HeaderRange() IndexRange {
	if l.IsTimeIndexed() {
		var r IndexRange
		if us, err := ParseIndexTime(l.StartDateTimeIndex); err == nil {
			r.Start = Float64(float64(us))
		}
		if us, err := ParseIndexTime(l.EndDateTimeIndex); err == nil {
			r.End = Float64(float64(us))
		}
		return r
	}
	return IndexRange{Start: l.StartIndex, End: l.EndIndex}
}

// SetHeaderRange writes the dedicated header-level index bounds, formatting
// time-mode values one-way into the visible RFC3339 fields.
func (l *Log) SetHeaderRange(r IndexRange) {
	if l.IsTimeIndexed() {
		l.StartIndex, l.EndIndex = nil, nil
		l.StartDateTimeIndex, l.EndDateTimeIndex = "", ""
		if r.Start != nil {
			l.StartDateTimeIndex = FormatIndexTime(int64(*r.Start))
		}
		if r.End != nil {
			l.EndDateTimeIndex = FormatIndexTime(int64(*r.End))
		}
		return
	}
	l.StartDateTimeIndex, l.EndDateTimeIndex = "", ""
	l.StartIndex, l.EndIndex = r.Start, r.End
}

// CurveRange returns the stored bounds for a curve in the raw
// representation. The result is numerically normalized (min <= max).
func (l *Log) CurveRange(c *LogCurveInfo) IndexRange {
	if c == nil {
		return IndexRange{}
	}
	if l.IsTimeIndexed() {
		var r IndexRange
		if us, err := ParseIndexTime(c.MinDateTimeIndex); err == nil {
			r.Start = Float64(float64(us))
		}
		if us, err := ParseIndexTime(c.MaxDateTimeIndex); err == nil {
			r.End = Float64(float64(us))
		}
		return r
	}
	return IndexRange{Start: c.MinIndex, End: c.MaxIndex}
}

// SetCurveRange writes normalized bounds onto a curve, choosing the
// depth or date-time fields to match the log's indexing mode.
func (l *Log) SetCurveRange(c *LogCurveInfo, r IndexRange) {
	if c == nil {
		return
	}
	if l.IsTimeIndexed() {
		c.MinIndex, c.MaxIndex = nil, nil
		c.MinDateTimeIndex, c.MaxDateTimeIndex = "", ""
		if r.Start != nil {
			c.MinDateTimeIndex = FormatIndexTime(int64(*r.Start))
		}
		if r.End != nil {
			c.MaxDateTimeIndex = FormatIndexTime(int64(*r.End))
		}
		return
	}
	c.MinDateTimeIndex, c.MaxDateTimeIndex = "", ""
	c.MinIndex, c.MaxIndex = r.Start, r.End
}

// ClearIndexRanges discards every caller-supplied index bound: the dedicated
// header fields and each curve's min/max. Ranges are always derived from
// stored data, never trusted from input.
func (l *Log) ClearIndexRanges() {
	l.StartIndex, l.EndIndex = nil, nil
	l.StartDateTimeIndex, l.EndDateTimeIndex = "", ""
	for _, c := range l.LogCurveInfo {
		c.MinIndex, c.MaxIndex = nil, nil
		c.MinDateTimeIndex, c.MaxDateTimeIndex = "", ""
	}
}

// NullFor resolves the null sentinel applying to a curve: the curve's own
// value when set, else the header-level default, else the customary WITSML
// sentinel. Blank or whitespace values count as unset.
func (l *Log) NullFor(c *LogCurveInfo) string {
	if c != nil && strings.TrimSpace(c.NullValue) != "" {
		return c.NullValue
	}
	if strings.TrimSpace(l.NullValue) != "" {
		return l.NullValue
	}
	return DefaultNullValue
}

// DetachData removes and returns the inline sample rows so the persisted
// header carries no bulk payload.
func (l *Log) DetachData() []*LogData {
	data := l.LogData
	l.LogData = nil
	return data
}
