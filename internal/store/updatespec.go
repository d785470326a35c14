package store

import (
	"time"

	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// Op is one composable field operation: either a value write or an explicit
// clear. Field names are the JSON names of the header document.
type Op struct {
	Field string
	Value any
	Clear bool
}

// UpdateSpec is an ordered list of field operations applied to a stored
// header inside the caller's transaction. Ops are deterministic writes, so
// applying a spec to the adapter's working copy and to the stored document
// yields the same state.
type UpdateSpec struct {
	ops []Op
}

// NewUpdateSpec creates an empty spec.
func NewUpdateSpec() *UpdateSpec { return &UpdateSpec{} }

// Set appends a value write.
func (s *UpdateSpec) Set(field string, value any) *UpdateSpec {
	s.ops = append(s.ops, Op{Field: field, Value: value})
	return s
}

// ClearField appends an explicit clear.
func (s *UpdateSpec) ClearField(field string) *UpdateSpec {
	s.ops = append(s.ops, Op{Field: field, Clear: true})
	return s
}

// SetTime appends a timestamp write in the fixed RFC3339 UTC rendering used
// for all stored date-time text.
func (s *UpdateSpec) SetTime(field string, t time.Time) *UpdateSpec {
	return s.Set(field, t.UTC().Format(time.RFC3339))
}

// Ops returns the operations in application order.
func (s *UpdateSpec) Ops() []Op { return s.ops }

// IsEmpty reports whether the spec carries no operations.
func (s *UpdateSpec) IsEmpty() bool { return s == nil || len(s.ops) == 0 }

// FromPatch lifts the scalar header fields of a patch into a spec, in a
// fixed field order. Curve and data fragments are reconciled by the
// lifecycle adapter, not here.
func FromPatch(p witsml.LogPatch) *UpdateSpec {
	s := NewUpdateSpec()
	for _, field := range []string{
		witsml.FieldName,
		witsml.FieldNameWell,
		witsml.FieldNameWellbore,
		witsml.FieldNullValue,
		witsml.FieldDTimCreation,
		witsml.FieldDTimLastChange,
	} {
		if !p.Has(field) {
			continue
		}
		if p.IsNull(field) {
			s.ClearField(field)
			continue
		}
		if v, ok := p.StringField(field); ok {
			s.Set(field, v)
		}
	}
	return s
}

// Apply mutates a header document with the spec's operations. Unknown
// fields and mistyped values are validation errors.
func (s *UpdateSpec) Apply(l *witsml.Log) error {
	for _, op := range s.Ops() {
		if err := applyOp(l, op); err != nil {
			return err
		}
	}
	return nil
}

func applyOp(l *witsml.Log, op Op) error {
	switch op.Field {
	case witsml.FieldName:
		return applyString(op, &l.Name)
	case witsml.FieldNameWell:
		return applyString(op, &l.NameWell)
	case witsml.FieldNameWellbore:
		return applyString(op, &l.NameWellbore)
	case witsml.FieldNullValue:
		return applyString(op, &l.NullValue)
	case witsml.FieldStartDateTimeIndex:
		return applyString(op, &l.StartDateTimeIndex)
	case witsml.FieldEndDateTimeIndex:
		return applyString(op, &l.EndDateTimeIndex)
	case witsml.FieldStartIndex:
		return applyFloat(op, &l.StartIndex)
	case witsml.FieldEndIndex:
		return applyFloat(op, &l.EndIndex)
	case witsml.FieldDTimCreation:
		ensureCommonData(l)
		return applyString(op, &l.CommonData.DTimCreation)
	case witsml.FieldDTimLastChange:
		ensureCommonData(l)
		return applyString(op, &l.CommonData.DTimLastChange)
	case witsml.FieldCurves:
		if op.Clear {
			l.LogCurveInfo = nil
			return nil
		}
		curves, ok := op.Value.([]*witsml.LogCurveInfo)
		if !ok {
			return witsml.Validationf("field %s: want curve list, got %T", op.Field, op.Value)
		}
		l.LogCurveInfo = curves
		return nil
	default:
		return witsml.Validationf("unknown update field %q", op.Field)
	}
}

func applyString(op Op, dst *string) error {
	if op.Clear {
		*dst = ""
		return nil
	}
	v, ok := op.Value.(string)
	if !ok {
		return witsml.Validationf("field %s: want string, got %T", op.Field, op.Value)
	}
	*dst = v
	return nil
}

func applyFloat(op Op, dst **float64) error {
	if op.Clear {
		*dst = nil
		return nil
	}
	v, ok := op.Value.(float64)
	if !ok {
		return witsml.Validationf("field %s: want float64, got %T", op.Field, op.Value)
	}
	*dst = witsml.Float64(v)
	return nil
}

func ensureCommonData(l *witsml.Log) {
	if l.CommonData == nil {
		l.CommonData = &witsml.CommonData{}
	}
}
