package witsml

import "testing"

func TestPatchThreeStates(t *testing.T) {
	p := LogPatch{
		FieldName:      "renamed",
		FieldNullValue: nil,
	}

	if v, ok := p.StringField(FieldName); !ok || v != "renamed" {
		t.Fatalf("StringField(name) = %q, %v", v, ok)
	}

	if !p.Has(FieldNullValue) || !p.IsNull(FieldNullValue) {
		t.Fatal("nullValue should be present as an explicit clear")
	}
	if _, ok := p.StringField(FieldNullValue); ok {
		t.Fatal("explicit null must not read as a value")
	}

	if p.Has(FieldNameWell) || p.IsNull(FieldNameWell) {
		t.Fatal("absent field must be neither present nor null")
	}
}

func TestPatchFragments(t *testing.T) {
	curves := []*LogCurveInfo{{Mnemonic: "GR", Unit: "gAPI"}}
	data := []*LogData{{MnemonicList: "DEPT,GR", Data: []string{"1,2"}}}
	p := LogPatch{FieldCurves: curves, FieldData: data}

	if got := p.CurveFragments(); len(got) != 1 || got[0].Mnemonic != "GR" {
		t.Fatalf("CurveFragments = %+v", got)
	}
	if got := p.DataFragments(); len(got) != 1 || got[0].MnemonicList != "DEPT,GR" {
		t.Fatalf("DataFragments = %+v", got)
	}

	empty := LogPatch{}
	if empty.CurveFragments() != nil || empty.DataFragments() != nil {
		t.Fatal("absent fragments should be nil")
	}
}

func TestPatchFromLog(t *testing.T) {
	l := &Log{
		Name:     "renamed run",
		NameWell: "well A",
		LogData:  []*LogData{{MnemonicList: "DEPT,GR", Data: []string{"1,2"}}},
	}
	p := PatchFromLog(l)
	if v, _ := p.StringField(FieldName); v != "renamed run" {
		t.Fatalf("name = %q", v)
	}
	if v, _ := p.StringField(FieldNameWell); v != "well A" {
		t.Fatalf("nameWell = %q", v)
	}
	if p.Has(FieldNameWellbore) || p.Has(FieldNullValue) || p.Has(FieldCurves) {
		t.Fatal("zero fields must stay absent from the patch")
	}
	if len(p.DataFragments()) != 1 {
		t.Fatal("log data not carried into the patch")
	}
}
