package repositories

import (
	"fmt"

	"github.com/ordersight/report-engine/pkg/apperrors"
	sqlutil "github.com/ordersight/report-engine/pkg/sql"
)

// Report names one of the five whitelisted report queries. The catalog
// below is the entire query surface of the gateway: callers pick a Report
// and validated filters, never query text.
type Report string

const (
	ReportCategorySales  Report = "category_sales"
	ReportProductRanking Report = "product_ranking"
	ReportUserSummary    Report = "user_summary"
	ReportStatusSummary  Report = "status_summary"
	ReportDailySummary   Report = "daily_summary"
)

// queryTemplate is one catalog entry: the data query, its count variant,
// and the deterministic result order appended to the data query.
type queryTemplate struct {
	baseSQL  string
	countSQL string
	orderBy  string
}

// catalog maps each report to its fixed query templates. Every template
// reads from one of the aggregation views; the service credential has
// SELECT on those views only, so these are the only shapes that can run.
var catalog = map[Report]queryTemplate{
	ReportCategorySales: {
		baseSQL: `SELECT category_id, category_name, order_count, units_sold,
		       revenue, avg_line_value, pct_of_total
		FROM vw_category_sales`,
		countSQL: `SELECT COUNT(*) FROM vw_category_sales`,
		orderBy:  `ORDER BY revenue DESC, category_id`,
	},
	ReportProductRanking: {
		baseSQL: `SELECT sales_rank, product_id, product_code, product_name,
		       category_name, units_sold, revenue, order_count,
		       current_price, current_stock
		FROM vw_product_ranking`,
		countSQL: `SELECT COUNT(*) FROM vw_product_ranking`,
		orderBy:  `ORDER BY sales_rank, product_id`,
	},
	ReportUserSummary: {
		baseSQL: `SELECT user_id, user_name, email, order_count, total_spent,
		       avg_per_order, distinct_products, last_purchase, tier
		FROM vw_user_summary`,
		countSQL: `SELECT COUNT(*) FROM vw_user_summary`,
		orderBy:  `ORDER BY total_spent DESC, user_id`,
	},
	ReportStatusSummary: {
		baseSQL: `SELECT status, order_count, total_amount, avg_amount,
		       min_amount, max_amount, pct_of_orders, pct_of_amount
		FROM vw_status_summary`,
		countSQL: `SELECT COUNT(*) FROM vw_status_summary`,
		orderBy:  `ORDER BY status`,
	},
	ReportDailySummary: {
		baseSQL: `SELECT sales_date, order_count, revenue, running_revenue,
		       units_sold, distinct_customers, avg_ticket
		FROM vw_daily_summary`,
		countSQL: `SELECT COUNT(*) FROM vw_daily_summary`,
		orderBy:  `ORDER BY sales_date`,
	},
}

// validateCatalog verifies every template is a single SQL statement. Run
// from NewReportRepository so a malformed template fails at wiring time,
// before any request can reach it.
func validateCatalog() error {
	for name, tpl := range catalog {
		for _, stmt := range []string{tpl.baseSQL, tpl.countSQL} {
			if _, err := sqlutil.ValidateTemplate(stmt); err != nil {
				return fmt.Errorf("%w: %s: %v", apperrors.ErrInvalidTemplate, name, err)
			}
		}
	}
	return nil
}

// lookupTemplate resolves a report name against the closed catalog.
func lookupTemplate(name Report) (queryTemplate, error) {
	tpl, ok := catalog[name]
	if !ok {
		return queryTemplate{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownReport, name)
	}
	return tpl, nil
}
