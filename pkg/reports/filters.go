// Package reports defines the validated filter and pagination types accepted
// by the reporting query layer, and the whitelist rules that produce them
// from raw request parameters.
package reports

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	sqlcheck "github.com/ordersight/report-engine/pkg/sql"
)

// Validation bounds. Out-of-range values are rejected, never clamped.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	DefaultTopN  = 10
	MaxTopN      = 50
)

// Params holds raw request parameters by name (absent keys mean absent
// parameters). Parameters the validators do not recognize are ignored.
type Params map[string]string

// ValidationError reports a malformed or out-of-whitelist parameter. A
// single bad parameter fails the whole filter; valid siblings are never
// applied on their own.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// OrderStatuses is the closed set of order status codes. A status parameter
// outside this set is rejected.
var OrderStatuses = []string{"pending", "paid", "shipped", "delivered", "cancelled"}

// Pagination is a validated page request: Page >= 1, 1 <= Limit <= MaxLimit.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the fetch offset for this page. Page >= 1 is guaranteed by
// validation, so the offset is always non-negative.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// DateRange bounds a report by calendar date. Each bound is independently
// optional; a nil bound means unbounded on that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// CategorySalesFilter selects category sales rows.
type CategorySalesFilter struct {
	CategoryID *int64
	Pagination Pagination
}

// ProductRankingFilter selects the top-N ranked products.
type ProductRankingFilter struct {
	TopN       int
	CategoryID *int64
	Pagination Pagination
}

// UserSummaryFilter selects user summary rows.
type UserSummaryFilter struct {
	Pagination Pagination
}

// StatusSummaryFilter optionally narrows the status summary to one status.
type StatusSummaryFilter struct {
	Status *string
}

// DailySummaryFilter selects daily summary rows within a date range.
type DailySummaryFilter struct {
	Dates      DateRange
	Pagination Pagination
}

// ParseCategorySalesFilter validates the category sales parameter family.
func ParseCategorySalesFilter(p Params) (*CategorySalesFilter, error) {
	if err := checkInjection(p, "page", "limit", "categoriaId"); err != nil {
		return nil, err
	}
	pg, err := parsePagination(p)
	if err != nil {
		return nil, err
	}
	categoryID, err := parseCategoryID(p)
	if err != nil {
		return nil, err
	}
	return &CategorySalesFilter{CategoryID: categoryID, Pagination: pg}, nil
}

// ParseProductRankingFilter validates the product ranking parameter family.
func ParseProductRankingFilter(p Params) (*ProductRankingFilter, error) {
	if err := checkInjection(p, "page", "limit", "topN", "categoriaId"); err != nil {
		return nil, err
	}
	pg, err := parsePagination(p)
	if err != nil {
		return nil, err
	}
	topN, err := parseBoundedInt(p, "topN", 1, MaxTopN, DefaultTopN)
	if err != nil {
		return nil, err
	}
	categoryID, err := parseCategoryID(p)
	if err != nil {
		return nil, err
	}
	return &ProductRankingFilter{TopN: topN, CategoryID: categoryID, Pagination: pg}, nil
}

// ParseUserSummaryFilter validates the user summary parameter family.
func ParseUserSummaryFilter(p Params) (*UserSummaryFilter, error) {
	if err := checkInjection(p, "page", "limit"); err != nil {
		return nil, err
	}
	pg, err := parsePagination(p)
	if err != nil {
		return nil, err
	}
	return &UserSummaryFilter{Pagination: pg}, nil
}

// ParseStatusSummaryFilter validates the status summary parameter family.
func ParseStatusSummaryFilter(p Params) (*StatusSummaryFilter, error) {
	if err := checkInjection(p, "status"); err != nil {
		return nil, err
	}
	status, err := parseStatus(p)
	if err != nil {
		return nil, err
	}
	return &StatusSummaryFilter{Status: status}, nil
}

// ParseDailySummaryFilter validates the daily summary parameter family.
func ParseDailySummaryFilter(p Params) (*DailySummaryFilter, error) {
	if err := checkInjection(p, "page", "limit", "startDate", "endDate"); err != nil {
		return nil, err
	}
	pg, err := parsePagination(p)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(p, "startDate")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(p, "endDate")
	if err != nil {
		return nil, err
	}
	return &DailySummaryFilter{Dates: DateRange{Start: start, End: end}, Pagination: pg}, nil
}

// checkInjection scans the raw values of the named parameters for SQL
// injection patterns before any coercion happens. All values are bound as
// typed query parameters downstream, so this is defense in depth, not the
// primary barrier.
func checkInjection(p Params, names ...string) error {
	for _, name := range names {
		raw, ok := p[name]
		if !ok || raw == "" {
			continue
		}
		if result := sqlcheck.CheckValueForInjection(name, raw); result != nil {
			return &ValidationError{Param: name, Reason: "value matches a SQL injection pattern"}
		}
	}
	return nil
}

func parsePagination(p Params) (Pagination, error) {
	page, err := parseBoundedInt(p, "page", 1, 0, DefaultPage)
	if err != nil {
		return Pagination{}, err
	}
	limit, err := parseBoundedInt(p, "limit", 1, MaxLimit, DefaultLimit)
	if err != nil {
		return Pagination{}, err
	}
	return Pagination{Page: page, Limit: limit}, nil
}

// parseBoundedInt parses an optional integer parameter. A max of 0 means
// unbounded above. Absent or empty values yield the default.
func parseBoundedInt(p Params, name string, min, max, def int) (int, error) {
	raw, ok := p[name]
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Param: name, Reason: "must be an integer"}
	}
	if v < min {
		return 0, &ValidationError{Param: name, Reason: fmt.Sprintf("must be at least %d", min)}
	}
	if max > 0 && v > max {
		return 0, &ValidationError{Param: name, Reason: fmt.Sprintf("must be at most %d", max)}
	}
	return v, nil
}

func parseCategoryID(p Params) (*int64, error) {
	raw, ok := p["categoriaId"]
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &ValidationError{Param: "categoriaId", Reason: "must be an integer"}
	}
	if v <= 0 {
		return nil, &ValidationError{Param: "categoriaId", Reason: "must be a positive integer"}
	}
	return &v, nil
}

func parseStatus(p Params) (*string, error) {
	raw, ok := p["status"]
	if !ok || raw == "" {
		return nil, nil
	}
	for _, s := range OrderStatuses {
		if raw == s {
			return &raw, nil
		}
	}
	return nil, &ValidationError{
		Param:  "status",
		Reason: fmt.Sprintf("must be one of: %s", strings.Join(OrderStatuses, ", ")),
	}
}

func parseDate(p Params, name string) (*time.Time, error) {
	raw, ok := p[name]
	if !ok || raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, &ValidationError{Param: name, Reason: "must be an ISO date (YYYY-MM-DD)"}
	}
	return &t, nil
}
