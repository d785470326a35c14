package log

import (
	"math"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/data"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// bound filters a comparison side: absent and not-a-number values carry no
// constraint and never propagate into a result.
func bound(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) {
		return nil
	}
	return p
}

// normalize returns r in numeric order (Start <= End) regardless of the
// display direction it arrived in.
func normalize(r witsml.IndexRange) witsml.IndexRange {
	s, e := bound(r.Start), bound(r.End)
	if s != nil && e != nil && *s > *e {
		s, e = e, s
	}
	return witsml.IndexRange{Start: s, End: e}
}

// pick chooses between two optional bounds, keeping the lower or the higher
// value. The result is a fresh pointer so merged ranges never alias header
// fields.
func pick(a, b *float64, wantLower bool) *float64 {
	if a == nil && b == nil {
		return nil
	}
	if a == nil {
		return witsml.Float64(*b)
	}
	if b == nil {
		return witsml.Float64(*a)
	}
	v := *a
	if (wantLower && *b < v) || (!wantLower && *b > v) {
		v = *b
	}
	return witsml.Float64(v)
}

// Merge widens current by incoming, keeping the more extreme value in the
// direction of travel: an increasing index can only move start down and end
// up, a decreasing index the reverse. Nil sides mean "no constraint yet".
// Current is read direction-ordered; incoming may arrive either way. The
// result is direction-ordered, so it applies to curve storage (numeric
// min/max) with increasing=true.
func Merge(current, incoming witsml.IndexRange, increasing bool) witsml.IndexRange {
	inc := normalize(incoming)
	cs, ce := bound(current.Start), bound(current.End)
	if increasing {
		return witsml.IndexRange{
			Start: pick(cs, inc.Start, true),
			End:   pick(ce, inc.End, false),
		}
	}
	return witsml.IndexRange{
		Start: pick(cs, inc.End, false),
		End:   pick(ce, inc.Start, true),
	}
}

// applyBatchRanges merges the batch's observed bounds into the header: the
// dedicated start/end fields for the shared index (updated whether or not the
// index curve has a curve-list entry) and min/max on every curve the batch
// constrained. Mnemonics the batch carries nothing for keep their stored
// ranges untouched.
func applyBatchRanges(l *witsml.Log, b *data.Batch) {
	for _, mn := range b.Mnemonics() {
		r, ok := b.MinMax(mn)
		if !ok {
			continue
		}
		if mn == l.IndexCurve {
			l.SetHeaderRange(Merge(l.HeaderRange(), r, l.IsIncreasing()))
			if c := l.IndexCurveInfo(); c != nil {
				l.SetCurveRange(c, Merge(l.CurveRange(c), r, true))
			}
			continue
		}
		if c := l.Curve(mn); c != nil {
			l.SetCurveRange(c, Merge(l.CurveRange(c), r, true))
		}
	}
}
