package witsml

import "testing"

func depthLog() *Log {
	return &Log{
		UIDWell:     "w1",
		UIDWellbore: "wb1",
		UID:         "l1",
		Name:        "run 7",
		IndexType:   IndexTypeMeasuredDepth,
		Direction:   DirectionIncreasing,
		IndexCurve:  "DEPT",
		LogCurveInfo: []*LogCurveInfo{
			{UID: "c0", Mnemonic: "DEPT", Unit: "m"},
			{UID: "c1", Mnemonic: "GR", Unit: "gAPI"},
		},
	}
}

func timeLog() *Log {
	return &Log{
		UIDWell:     "w1",
		UIDWellbore: "wb1",
		UID:         "l2",
		Name:        "pump log",
		IndexType:   IndexTypeDateTime,
		IndexCurve:  "TIME",
		LogCurveInfo: []*LogCurveInfo{
			{Mnemonic: "TIME"},
			{Mnemonic: "SPM", Unit: "1/min"},
		},
	}
}

func TestIsTimeIndexed(t *testing.T) {
	if depthLog().IsTimeIndexed() {
		t.Fatal("measured depth log reported as time indexed")
	}
	if !timeLog().IsTimeIndexed() {
		t.Fatal("date time log not reported as time indexed")
	}
	elapsed := timeLog()
	elapsed.IndexType = IndexTypeElapsedTime
	if !elapsed.IsTimeIndexed() {
		t.Fatal("elapsed time log not reported as time indexed")
	}
}

func TestIsIncreasingDefault(t *testing.T) {
	l := depthLog()
	l.Direction = ""
	if !l.IsIncreasing() {
		t.Fatal("unset direction should default to increasing")
	}
	l.Direction = DirectionDecreasing
	if l.IsIncreasing() {
		t.Fatal("decreasing log reported as increasing")
	}
}

func TestCurveLookups(t *testing.T) {
	l := depthLog()
	if got := l.IndexCurveInfo(); got == nil || got.Mnemonic != "DEPT" {
		t.Fatalf("IndexCurveInfo = %+v, want DEPT", got)
	}
	if got := l.Curve("GR"); got == nil || got.UID != "c1" {
		t.Fatalf("Curve(GR) = %+v", got)
	}
	if l.Curve("RHOB") != nil {
		t.Fatal("Curve should return nil for unknown mnemonic")
	}
	if got := l.CurveByUID("c0"); got == nil || got.Mnemonic != "DEPT" {
		t.Fatalf("CurveByUID(c0) = %+v", got)
	}
	if l.CurveByUID("") != nil {
		t.Fatal("CurveByUID should return nil for empty uid")
	}
}

func TestIndexCurveWithoutEntry(t *testing.T) {
	l := depthLog()
	l.LogCurveInfo = l.LogCurveInfo[1:]
	if l.IndexCurveInfo() != nil {
		t.Fatal("index curve without a list entry should resolve to nil")
	}
}

func TestHeaderRangeDepth(t *testing.T) {
	l := depthLog()
	l.SetHeaderRange(IndexRange{Start: Float64(100), End: Float64(250.5)})
	r := l.HeaderRange()
	if r.Start == nil || *r.Start != 100 || r.End == nil || *r.End != 250.5 {
		t.Fatalf("HeaderRange = %+v", r)
	}
	if l.StartDateTimeIndex != "" || l.EndDateTimeIndex != "" {
		t.Fatal("depth log must not populate date-time fields")
	}
}

func TestHeaderRangeTime(t *testing.T) {
	l := timeLog()
	l.SetHeaderRange(IndexRange{Start: Float64(1_000_000), End: Float64(2_500_000)})
	if l.StartDateTimeIndex != "1970-01-01T00:00:01Z" {
		t.Fatalf("StartDateTimeIndex = %q", l.StartDateTimeIndex)
	}
	if l.EndDateTimeIndex != "1970-01-01T00:00:02.5Z" {
		t.Fatalf("EndDateTimeIndex = %q", l.EndDateTimeIndex)
	}
	r := l.HeaderRange()
	if r.Start == nil || *r.Start != 1_000_000 || r.End == nil || *r.End != 2_500_000 {
		t.Fatalf("HeaderRange = %+v", r)
	}
	if l.StartIndex != nil || l.EndIndex != nil {
		t.Fatal("time log must not populate numeric index fields")
	}
}

func TestCurveRangeRoundTrip(t *testing.T) {
	l := timeLog()
	c := l.Curve("SPM")
	l.SetCurveRange(c, IndexRange{Start: Float64(0), End: Float64(60_000_000)})
	r := l.CurveRange(c)
	if r.Start == nil || *r.Start != 0 || r.End == nil || *r.End != 60_000_000 {
		t.Fatalf("CurveRange = %+v", r)
	}
	if c.MinDateTimeIndex != "1970-01-01T00:00:00Z" {
		t.Fatalf("MinDateTimeIndex = %q", c.MinDateTimeIndex)
	}
}

func TestClearIndexRanges(t *testing.T) {
	l := depthLog()
	l.StartIndex, l.EndIndex = Float64(1), Float64(2)
	l.StartDateTimeIndex = "1970-01-01T00:00:01Z"
	l.LogCurveInfo[1].MinIndex = Float64(3)
	l.LogCurveInfo[1].MaxDateTimeIndex = "1970-01-01T00:00:02Z"
	l.ClearIndexRanges()
	if l.StartIndex != nil || l.EndIndex != nil || l.StartDateTimeIndex != "" {
		t.Fatal("header bounds survived ClearIndexRanges")
	}
	for _, c := range l.LogCurveInfo {
		if c.MinIndex != nil || c.MaxIndex != nil || c.MinDateTimeIndex != "" || c.MaxDateTimeIndex != "" {
			t.Fatalf("curve %s bounds survived ClearIndexRanges", c.Mnemonic)
		}
	}
}

func TestNullFor(t *testing.T) {
	l := depthLog()
	c := l.Curve("GR")
	if got := l.NullFor(c); got != DefaultNullValue {
		t.Fatalf("NullFor = %q, want default sentinel", got)
	}
	l.NullValue = "-8888"
	if got := l.NullFor(c); got != "-8888" {
		t.Fatalf("NullFor = %q, want header value", got)
	}
	c.NullValue = "  "
	if got := l.NullFor(c); got != "-8888" {
		t.Fatalf("whitespace curve null must fall back, got %q", got)
	}
	c.NullValue = "-9999"
	if got := l.NullFor(c); got != "-9999" {
		t.Fatalf("NullFor = %q, want curve value", got)
	}
	if got := l.NullFor(nil); got != "-8888" {
		t.Fatalf("NullFor(nil) = %q", got)
	}
}

func TestDetachData(t *testing.T) {
	l := depthLog()
	l.LogData = []*LogData{{MnemonicList: "DEPT,GR", Data: []string{"100,55"}}}
	data := l.DetachData()
	if len(data) != 1 || len(data[0].Data) != 1 {
		t.Fatalf("DetachData = %+v", data)
	}
	if l.LogData != nil {
		t.Fatal("log still carries inline data after detach")
	}
}
