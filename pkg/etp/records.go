// Package etp holds the discovery-record shapes and wire encodings consumed
// by streaming clients: channel and index metadata projections built on
// demand from a stored log header, never persisted.
package etp

// Index kinds.
const (
	KindTime  = "time"
	KindDepth = "depth"
)

// ChannelStatusActive is the only status the store reports; a log is treated
// as growable until deleted.
const ChannelStatusActive = "active"

// Unknown is the sentinel for channel attributes the header does not carry.
const Unknown = "unknown"

// ContentTypeLog141 identifies the 1.4.1.1 log object behind a channel.
const ContentTypeLog141 = "application/x-witsml+xml;version=1.4.1.1;type=obj_log"

// IndexMetadataRecord describes the shared index of a channel set: its kind,
// direction, unit, and the fixed-point scale used to encode index values as
// integers on the wire.
type IndexMetadataRecord struct {
	URI       string `json:"uri"`
	Mnemonic  string `json:"mnemonic"`
	Kind      string `json:"indexKind"`
	UOM       string `json:"uom,omitempty"`
	Scale     int32  `json:"scale"`
	Direction string `json:"direction"`
	Start     *int64 `json:"startIndex,omitempty"`
	End       *int64 `json:"endIndex,omitempty"`
}

// ChannelMetadataRecord describes one discoverable channel with its current
// extent encoded at the embedded index record's scale. Single-dimension
// indexing only: exactly one index record per channel.
type ChannelMetadataRecord struct {
	ChannelURI   string                 `json:"channelUri"`
	ChannelName  string                 `json:"channelName"`
	UUID         string                 `json:"uuid,omitempty"`
	ContentType  string                 `json:"contentType"`
	DataType     string                 `json:"dataType"`
	UOM          string                 `json:"uom,omitempty"`
	Description  string                 `json:"description"`
	MeasureClass string                 `json:"measureClass"`
	Source       string                 `json:"source"`
	Status       string                 `json:"status"`
	Start        *int64                 `json:"startIndex,omitempty"`
	End          *int64                 `json:"endIndex,omitempty"`
	Indexes      []*IndexMetadataRecord `json:"indexes"`
}
