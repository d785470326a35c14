package witsml

// validIndexTypes and validDirections bound the header enumerations the
// store accepts.
var validIndexTypes = map[string]bool{
	IndexTypeMeasuredDepth: true,
	IndexTypeVerticalDepth: true,
	IndexTypeDateTime:      true,
	IndexTypeElapsedTime:   true,
}

var validDirections = map[string]bool{
	"":                  true,
	DirectionIncreasing: true,
	DirectionDecreasing: true,
}

// CheckLog verifies that a header is well formed enough to persist: parent
// uids and name present, index declarations within their enumerations, and
// a curve list free of duplicate mnemonics. Returns a validation Error.
func CheckLog(l *Log) error {
	if l == nil {
		return Validationf("nil log")
	}
	if l.UIDWell == "" {
		return Validationf("log %q: missing uidWell", l.Name)
	}
	if l.UIDWellbore == "" {
		return Validationf("log %q: missing uidWellbore", l.Name)
	}
	if l.Name == "" {
		return Validationf("log %s: missing name", l.UID)
	}
	if !validIndexTypes[l.IndexType] {
		return Validationf("log %q: unknown indexType %q", l.Name, l.IndexType)
	}
	if !validDirections[l.Direction] {
		return Validationf("log %q: unknown direction %q", l.Name, l.Direction)
	}
	if l.IndexCurve == "" {
		return Validationf("log %q: missing indexCurve", l.Name)
	}
	seen := make(map[string]bool, len(l.LogCurveInfo))
	for _, c := range l.LogCurveInfo {
		if c.Mnemonic == "" {
			return Validationf("log %q: curve with empty mnemonic", l.Name)
		}
		if seen[c.Mnemonic] {
			return Validationf("log %q: duplicate curve mnemonic %q", l.Name, c.Mnemonic)
		}
		seen[c.Mnemonic] = true
	}
	return nil
}

// CheckCurveFragment verifies a patch curve fragment carries enough identity
// to reconcile against the stored curve list.
func CheckCurveFragment(c *LogCurveInfo) error {
	if c == nil {
		return Validationf("nil curve fragment")
	}
	if c.Mnemonic == "" && c.UID == "" {
		return Validationf("curve fragment without mnemonic or uid")
	}
	return nil
}
