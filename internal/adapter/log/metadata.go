package log

import (
	"strings"

	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/etp"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// DefaultScale returns the wire scale for the log's indexing mode: three
// decimals for depth values, none for integral microsecond timestamps.
func DefaultScale(l *witsml.Log) int32 {
	if l.IsTimeIndexed() {
		return etp.TimeScale
	}
	return etp.DepthScale
}

// IndexMetadata projects the shared index into its discovery record, with the
// dedicated header bounds encoded as fixed-point integers at the given scale.
func IndexMetadata(l *witsml.Log, scale int32) *etp.IndexMetadataRecord {
	kind := etp.KindDepth
	if l.IsTimeIndexed() {
		kind = etp.KindTime
	}
	direction := witsml.DirectionIncreasing
	if !l.IsIncreasing() {
		direction = witsml.DirectionDecreasing
	}
	uom := ""
	if c := l.IndexCurveInfo(); c != nil {
		uom = c.Unit
	}
	r := l.HeaderRange()
	return &etp.IndexMetadataRecord{
		URI:       witsml.ChannelURI(l.URI(), l.IndexCurve),
		Mnemonic:  l.IndexCurve,
		Kind:      kind,
		UOM:       uom,
		Scale:     scale,
		Direction: direction,
		Start:     etp.ScaleOptional(r.Start, scale),
		End:       etp.ScaleOptional(r.End, scale),
	}
}

// ChannelMetadata projects one curve into its discovery record, encoding its
// current bounds at the index record's scale and applying the log's display
// direction. The curve must appear in the computed-range map; asking for
// metadata before ranges exist is a caller sequencing defect, reported with
// full context and never retried.
func ChannelMetadata(l *witsml.Log, c *witsml.LogCurveInfo, index *etp.IndexMetadataRecord, ranges map[string]witsml.IndexRange) (*etp.ChannelMetadataRecord, error) {
	r, ok := ranges[c.Mnemonic]
	if !ok {
		return nil, witsml.Lookupf("no computed range for curve %q of log %s", c.Mnemonic, l.URI())
	}
	start, end := r.Start, r.End
	if !l.IsIncreasing() && start != nil && end != nil {
		start, end = end, start
	}
	description := c.CurveDescription
	if strings.TrimSpace(description) == "" {
		description = c.Mnemonic
	}
	return &etp.ChannelMetadataRecord{
		ChannelURI:   witsml.ChannelURI(l.URI(), c.Mnemonic),
		ChannelName:  c.Mnemonic,
		UUID:         c.UID,
		ContentType:  etp.ContentTypeLog141,
		DataType:     etp.NormalizeDataType(c.TypeLogData),
		UOM:          c.Unit,
		Description:  description,
		MeasureClass: etp.OrUnknown(c.ClassWitsml),
		Source:       etp.OrUnknown(c.DataSource),
		Status:       etp.ChannelStatusActive,
		Start:        etp.ScaleOptional(start, index.Scale),
		End:          etp.ScaleOptional(end, index.Scale),
		Indexes:      []*etp.IndexMetadataRecord{index},
	}, nil
}

// RangeMap collects the stored bounds per mnemonic, numerically normalized:
// each curve's min/max, and the dedicated header range under the index
// mnemonic. Curves without stored bounds are absent from the map.
func RangeMap(l *witsml.Log) map[string]witsml.IndexRange {
	out := make(map[string]witsml.IndexRange)
	if r := normalize(l.HeaderRange()); !r.IsEmpty() {
		out[l.IndexCurve] = r
	}
	for _, c := range l.LogCurveInfo {
		if c.Mnemonic == l.IndexCurve {
			// The dedicated header fields own the index range.
			continue
		}
		if r := normalize(l.CurveRange(c)); !r.IsEmpty() {
			out[c.Mnemonic] = r
		}
	}
	return out
}
