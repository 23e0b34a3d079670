package assessment

import (
	"fmt"

	"github.com/abhisek/drdscore/internal/scoring"
)

// Severity grades a sense-check finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// MaxLeap is the largest actual-to-target gap accepted without a warning.
const MaxLeap = 3

// Finding is one result of the sense check.
type Finding struct {
	AxisID   int
	Severity Severity
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("axis %d %s: %s", f.AxisID, f.Severity, f.Message)
}

// SenseCheck flags implausible actual/target combinations on one axis.
// An axis with neither scalar set yields no findings.
func SenseCheck(axisID int, s scoring.Aggregate) []Finding {
	var out []Finding
	add := func(sev Severity, format string, args ...any) {
		out = append(out, Finding{AxisID: axisID, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case s.Actual.IsSet() && !s.Target.IsSet():
		add(SeverityInfo, "actual level %d has no target", s.Actual)
	case !s.Actual.IsSet() && s.Target.IsSet():
		add(SeverityInfo, "target level %d has no actual assessment", s.Target)
	case s.Actual.IsSet() && s.Target.IsSet():
		if s.Target < s.Actual {
			add(SeverityWarning, "target level %d is below actual level %d", s.Target, s.Actual)
		}
		if gap := s.Target - s.Actual; gap > MaxLeap {
			add(SeverityWarning, "ambitious leap of %d levels from %d to %d", gap, s.Actual, s.Target)
		}
	}
	return out
}
