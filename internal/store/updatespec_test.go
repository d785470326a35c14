package store

import (
	"testing"
	"time"

	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

func TestFromPatchKeepsFieldOrder(t *testing.T) {
	p := witsml.LogPatch{
		witsml.FieldNullValue: "-9999",
		witsml.FieldName:      "renamed",
		witsml.FieldNameWell:  nil,
		witsml.FieldCurves:    []*witsml.LogCurveInfo{{Mnemonic: "GR"}},
	}
	spec := FromPatch(p)

	ops := spec.Ops()
	if len(ops) != 3 {
		t.Fatalf("ops = %d, want 3", len(ops))
	}
	if ops[0].Field != witsml.FieldName || ops[0].Value != "renamed" {
		t.Errorf("ops[0] = %+v, want set name", ops[0])
	}
	if ops[1].Field != witsml.FieldNameWell || !ops[1].Clear {
		t.Errorf("ops[1] = %+v, want clear nameWell", ops[1])
	}
	if ops[2].Field != witsml.FieldNullValue || ops[2].Value != "-9999" {
		t.Errorf("ops[2] = %+v, want set nullValue", ops[2])
	}
}

func TestFromPatchEmpty(t *testing.T) {
	if spec := FromPatch(witsml.LogPatch{}); !spec.IsEmpty() {
		t.Errorf("spec from empty patch is not empty: %+v", spec.Ops())
	}
	var nilSpec *UpdateSpec
	if !nilSpec.IsEmpty() {
		t.Error("nil spec should be empty")
	}
}

func TestApplyScalars(t *testing.T) {
	l := &witsml.Log{Name: "old", NameWell: "well", NullValue: "-999.25"}

	spec := NewUpdateSpec().
		Set(witsml.FieldName, "new").
		ClearField(witsml.FieldNameWell).
		Set(witsml.FieldStartIndex, 100.5).
		Set(witsml.FieldEndIndex, 200.0)
	if err := spec.Apply(l); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if l.Name != "new" {
		t.Errorf("Name = %q, want new", l.Name)
	}
	if l.NameWell != "" {
		t.Errorf("NameWell = %q, want cleared", l.NameWell)
	}
	if l.StartIndex == nil || *l.StartIndex != 100.5 {
		t.Errorf("StartIndex = %v, want 100.5", l.StartIndex)
	}
	if l.EndIndex == nil || *l.EndIndex != 200.0 {
		t.Errorf("EndIndex = %v, want 200", l.EndIndex)
	}

	if err := NewUpdateSpec().ClearField(witsml.FieldStartIndex).Apply(l); err != nil {
		t.Fatalf("Apply clear: %v", err)
	}
	if l.StartIndex != nil {
		t.Errorf("StartIndex = %v after clear, want nil", l.StartIndex)
	}
}

func TestApplyCommonData(t *testing.T) {
	l := &witsml.Log{}
	spec := NewUpdateSpec().SetTime(witsml.FieldDTimLastChange, time.Date(2024, 3, 9, 11, 30, 0, 0, time.FixedZone("CET", 3600)))
	if err := spec.Apply(l); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if l.CommonData == nil {
		t.Fatal("CommonData not created")
	}
	if got, want := l.CommonData.DTimLastChange, "2024-03-09T10:30:00Z"; got != want {
		t.Errorf("DTimLastChange = %q, want %q", got, want)
	}
}

func TestApplyCurveList(t *testing.T) {
	l := &witsml.Log{LogCurveInfo: []*witsml.LogCurveInfo{{Mnemonic: "DEPTH"}}}
	curves := []*witsml.LogCurveInfo{{Mnemonic: "DEPTH"}, {Mnemonic: "GR"}}

	if err := NewUpdateSpec().Set(witsml.FieldCurves, curves).Apply(l); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(l.LogCurveInfo) != 2 || l.LogCurveInfo[1].Mnemonic != "GR" {
		t.Errorf("curve list = %+v, want replaced with 2 curves", l.LogCurveInfo)
	}

	if err := NewUpdateSpec().ClearField(witsml.FieldCurves).Apply(l); err != nil {
		t.Fatalf("Apply clear: %v", err)
	}
	if l.LogCurveInfo != nil {
		t.Errorf("curve list = %+v after clear, want nil", l.LogCurveInfo)
	}
}

func TestApplyRejectsBadOps(t *testing.T) {
	cases := []struct {
		name string
		spec *UpdateSpec
	}{
		{"unknown field", NewUpdateSpec().Set("bogus", "x")},
		{"mistyped string", NewUpdateSpec().Set(witsml.FieldName, 42)},
		{"mistyped float", NewUpdateSpec().Set(witsml.FieldStartIndex, "100")},
		{"mistyped curves", NewUpdateSpec().Set(witsml.FieldCurves, "GR")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Apply(&witsml.Log{})
			if !witsml.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestApplyMatchesWorkingCopy(t *testing.T) {
	// The same spec applied to two identical headers must yield identical
	// state, so the adapter's working copy stays in step with the store.
	spec := NewUpdateSpec().
		Set(witsml.FieldName, "run-2").
		Set(witsml.FieldStartIndex, 10.0).
		Set(witsml.FieldEndIndex, 90.0).
		SetTime(witsml.FieldDTimLastChange, time.Unix(1700000000, 0))

	a := &witsml.Log{Name: "run-1", UIDWell: "w", UIDWellbore: "wb", UID: "l"}
	b := &witsml.Log{Name: "run-1", UIDWell: "w", UIDWellbore: "wb", UID: "l"}
	if err := spec.Apply(a); err != nil {
		t.Fatalf("Apply a: %v", err)
	}
	if err := spec.Apply(b); err != nil {
		t.Fatalf("Apply b: %v", err)
	}

	if a.Name != b.Name || *a.StartIndex != *b.StartIndex || *a.EndIndex != *b.EndIndex {
		t.Errorf("headers diverged: %+v vs %+v", a, b)
	}
	if a.CommonData.DTimLastChange != b.CommonData.DTimLastChange {
		t.Errorf("timestamps diverged: %q vs %q", a.CommonData.DTimLastChange, b.CommonData.DTimLastChange)
	}
}
