package log

import (
	"testing"

	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

func resolverLog() *witsml.Log {
	return &witsml.Log{
		UIDWell:     "w1",
		UIDWellbore: "wb1",
		UID:         "l1",
		IndexType:   witsml.IndexTypeMeasuredDepth,
		IndexCurve:  "DEPTH",
		NullValue:   "-9999",
		LogCurveInfo: []*witsml.LogCurveInfo{
			{UID: "c0", Mnemonic: "DEPTH", Unit: "m"},
			{UID: "c1", Mnemonic: "GR", Unit: "gAPI", NullValue: "-999.25"},
			{UID: "GR", Mnemonic: "ROP", Unit: "m/h"},
		},
	}
}

func TestResolveUIDBeforeMnemonic(t *testing.T) {
	l := resolverLog()

	// "GR" is both a uid and a mnemonic; the uid match wins.
	c, err := Resolve(l, "GR")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.Mnemonic != "ROP" {
		t.Errorf("resolved %q, want uid match ROP", c.Mnemonic)
	}

	c, err = Resolve(l, "DEPTH")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.UID != "c0" {
		t.Errorf("resolved uid %q, want mnemonic match c0", c.UID)
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve(resolverLog(), "NPHI")
	if !witsml.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found error", err)
	}
	if _, err := Resolve(resolverLog(), ""); !witsml.IsValidation(err) {
		t.Fatalf("err = %v, want validation error for empty identifier", err)
	}
}

func TestColumnDerivation(t *testing.T) {
	l := resolverLog()

	units := ColumnUnits(l)
	if len(units) != 3 || units[0] != "m" || units[2] != "m/h" {
		t.Errorf("units = %v", units)
	}

	nulls := ColumnNullValues(l)
	if nulls[1] != "-999.25" {
		t.Errorf("GR null = %q, want its own sentinel", nulls[1])
	}
	if nulls[0] != "-9999" || nulls[2] != "-9999" {
		t.Errorf("nulls = %v, want header fallback -9999 for DEPTH and ROP", nulls)
	}
}

func TestReconcileUpdatesByUID(t *testing.T) {
	l := resolverLog()
	err := reconcileCurves(l, []*witsml.LogCurveInfo{
		{UID: "c1", Mnemonic: "GRD", Unit: "API"},
	})
	if err != nil {
		t.Fatalf("reconcileCurves: %v", err)
	}
	c := l.CurveByUID("c1")
	if c.Mnemonic != "GRD" || c.Unit != "API" {
		t.Errorf("curve = %+v, want renamed GRD with unit API", c)
	}
	if c.NullValue != "-999.25" {
		t.Errorf("null = %q, want untouched sentinel", c.NullValue)
	}
}

func TestReconcileUpdatesByMnemonic(t *testing.T) {
	l := resolverLog()
	err := reconcileCurves(l, []*witsml.LogCurveInfo{
		{Mnemonic: "ROP", CurveDescription: "rate of penetration"},
	})
	if err != nil {
		t.Fatalf("reconcileCurves: %v", err)
	}
	if got := l.Curve("ROP").CurveDescription; got != "rate of penetration" {
		t.Errorf("description = %q", got)
	}
}

func TestReconcileAppendsNewCurve(t *testing.T) {
	l := resolverLog()
	err := reconcileCurves(l, []*witsml.LogCurveInfo{
		{Mnemonic: "NPHI", Unit: "v/v", MinIndex: witsml.Float64(666), MaxIndex: witsml.Float64(667)},
	})
	if err != nil {
		t.Fatalf("reconcileCurves: %v", err)
	}
	c := l.Curve("NPHI")
	if c == nil {
		t.Fatal("NPHI not appended")
	}
	if c.UID == "" {
		t.Error("appended curve has no minted uid")
	}
	if c.MinIndex != nil || c.MaxIndex != nil {
		t.Errorf("fragment ranges survived: %v..%v", c.MinIndex, c.MaxIndex)
	}
}

func TestReconcileRejectsBadFragments(t *testing.T) {
	cases := []struct {
		name string
		frag *witsml.LogCurveInfo
	}{
		{"no identity", &witsml.LogCurveInfo{Unit: "m"}},
		{"uid mismatch", &witsml.LogCurveInfo{UID: "other", Mnemonic: "GR"}},
		{"rename collision", &witsml.LogCurveInfo{UID: "c1", Mnemonic: "ROP"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := resolverLog()
			err := reconcileCurves(l, []*witsml.LogCurveInfo{tc.frag})
			if !witsml.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}
