package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/ordersight/report-engine/pkg/logging"
)

// InjectionCheckResult describes a parameter value that matched a SQL
// injection pattern. ParamValue is truncated so flagged payloads are safe
// to log.
type InjectionCheckResult struct {
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string // name of the parameter that failed the check
	ParamValue  string // the value that was checked, truncated for logging
}

// CheckValueForInjection scans a raw parameter value with libinjection.
// Returns nil if the value is clean. Every value is bound as a typed query
// parameter downstream, so this check is defense in depth: it lets the
// service reject hostile input before it reaches the database at all.
func CheckValueForInjection(paramName, value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		Fingerprint: string(fingerprint),
		ParamName:   paramName,
		ParamValue:  logging.TruncateValue(value),
	}
}
