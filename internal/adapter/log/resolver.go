package log

import (
	"github.com/google/uuid"

	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// Resolve finds a curve by identifier, trying a unique-id match first and
// falling back to mnemonic.
func Resolve(l *witsml.Log, identifier string) (*witsml.LogCurveInfo, error) {
	if identifier == "" {
		return nil, witsml.Validationf("curve identifier is required")
	}
	if c := l.CurveByUID(identifier); c != nil {
		return c, nil
	}
	if c := l.Curve(identifier); c != nil {
		return c, nil
	}
	return nil, witsml.NotFoundf("log %s has no curve %q", l.URI(), identifier)
}

// ColumnUnits returns the per-column units of the curve list, in declared
// order.
func ColumnUnits(l *witsml.Log) []string {
	out := make([]string, len(l.LogCurveInfo))
	for i, c := range l.LogCurveInfo {
		out[i] = c.Unit
	}
	return out
}

// ColumnNullValues returns the per-column null sentinels, each falling back
// to the header default when the curve declares none.
func ColumnNullValues(l *witsml.Log) []string {
	out := make([]string, len(l.LogCurveInfo))
	for i, c := range l.LogCurveInfo {
		out[i] = l.NullFor(c)
	}
	return out
}

// reconcileCurves folds update fragments into the stored curve list. A
// fragment matching an existing curve (uid first, then mnemonic) overwrites
// the fields it carries; an unmatched fragment appends a new curve, minted a
// uid when it brings none. Fragment-supplied range bounds are discarded since
// ranges are derived from stored data.
func reconcileCurves(l *witsml.Log, fragments []*witsml.LogCurveInfo) error {
	for _, f := range fragments {
		if err := witsml.CheckCurveFragment(f); err != nil {
			return err
		}
		target := l.CurveByUID(f.UID)
		if target == nil && f.Mnemonic != "" {
			target = l.Curve(f.Mnemonic)
		}
		if target == nil {
			if f.Mnemonic == "" {
				return witsml.Validationf("new curve fragment %q needs a mnemonic", f.UID)
			}
			added := *f
			added.MinIndex, added.MaxIndex = nil, nil
			added.MinDateTimeIndex, added.MaxDateTimeIndex = "", ""
			if added.UID == "" {
				added.UID = uuid.New().String()
			}
			l.LogCurveInfo = append(l.LogCurveInfo, &added)
			continue
		}
		if f.UID != "" && target.UID != "" && f.UID != target.UID {
			return witsml.Validationf("curve %q: fragment uid %q does not match stored uid %q",
				target.Mnemonic, f.UID, target.UID)
		}
		if f.Mnemonic != "" && f.Mnemonic != target.Mnemonic && l.Curve(f.Mnemonic) != nil {
			return witsml.Validationf("renaming curve %q to %q collides with an existing curve",
				target.Mnemonic, f.Mnemonic)
		}
		overlayCurve(target, f)
	}
	return nil
}

// overlayCurve writes the fragment's non-blank descriptive fields onto the
// stored curve. Range bounds stay untouched.
func overlayCurve(dst, src *witsml.LogCurveInfo) {
	if src.UID != "" {
		dst.UID = src.UID
	}
	if src.Mnemonic != "" {
		dst.Mnemonic = src.Mnemonic
	}
	if src.Unit != "" {
		dst.Unit = src.Unit
	}
	if src.NullValue != "" {
		dst.NullValue = src.NullValue
	}
	if src.CurveDescription != "" {
		dst.CurveDescription = src.CurveDescription
	}
	if src.TypeLogData != "" {
		dst.TypeLogData = src.TypeLogData
	}
	if src.ClassWitsml != "" {
		dst.ClassWitsml = src.ClassWitsml
	}
	if src.DataSource != "" {
		dst.DataSource = src.DataSource
	}
}
