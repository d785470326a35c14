package witsml

import (
	"fmt"
	"strings"
)

// URIPrefix is the dataspace prefix for canonical 1.4.1.1 object URIs.
const URIPrefix = "eml://witsml14"

// WellURI builds the canonical URI for a well.
func WellURI(uidWell string) string {
	return fmt.Sprintf("%s/well(%s)", URIPrefix, uidWell)
}

// WellboreURI builds the canonical URI for a wellbore.
func WellboreURI(uidWell, uidWellbore string) string {
	return fmt.Sprintf("%s/wellbore(%s)", WellURI(uidWell), uidWellbore)
}

// LogURI builds the canonical URI for a log.
func LogURI(uidWell, uidWellbore, uid string) string {
	return fmt.Sprintf("%s/log(%s)", WellboreURI(uidWell, uidWellbore), uid)
}

// URI returns the log's canonical identity, derived from its uid triplet.
func (l *Log) URI() string {
	return LogURI(l.UIDWell, l.UIDWellbore, l.UID)
}

// ChannelURI builds the canonical URI for one curve of a log.
func ChannelURI(logURI, mnemonic string) string {
	return fmt.Sprintf("%s/channel(%s)", logURI, mnemonic)
}

// ParseLogURI splits a canonical log URI back into its uid triplet.
func ParseLogURI(uri string) (uidWell, uidWellbore, uid string, err error) {
	rest, ok := strings.CutPrefix(uri, URIPrefix+"/")
	if !ok {
		return "", "", "", Validationf("uri %q: missing %s prefix", uri, URIPrefix)
	}
	segs := strings.Split(rest, "/")
	if len(segs) != 3 {
		return "", "", "", Validationf("uri %q: want well/wellbore/log segments", uri)
	}
	parts := make([]string, 3)
	for i, name := range []string{"well", "wellbore", "log"} {
		v, ok := cutSegment(segs[i], name)
		if !ok {
			return "", "", "", Validationf("uri %q: segment %q is not %s(...)", uri, segs[i], name)
		}
		parts[i] = v
	}
	return parts[0], parts[1], parts[2], nil
}

func cutSegment(seg, name string) (string, bool) {
	inner, ok := strings.CutPrefix(seg, name+"(")
	if !ok {
		return "", false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok || inner == "" {
		return "", false
	}
	return inner, true
}
