package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ordersight/report-engine/pkg/database"
	"github.com/ordersight/report-engine/pkg/metrics"
	"github.com/ordersight/report-engine/pkg/models"
	"github.com/ordersight/report-engine/pkg/reports"
	sqlutil "github.com/ordersight/report-engine/pkg/sql"
)

// ReportRepository is the read-only gateway over the aggregation views. One
// typed function per report; each accepts only validated filter types, so
// no raw string can reach query text through this interface.
type ReportRepository interface {
	CategorySales(ctx context.Context, filter *reports.CategorySalesFilter) (*reports.Page[models.CategorySales], error)
	ProductRanking(ctx context.Context, filter *reports.ProductRankingFilter) (*reports.Page[models.ProductRanking], error)
	UserSummary(ctx context.Context, filter *reports.UserSummaryFilter) (*reports.Page[models.UserSummary], error)
	StatusSummary(ctx context.Context, filter *reports.StatusSummaryFilter) ([]models.StatusSummary, error)
	DailySummary(ctx context.Context, filter *reports.DailySummaryFilter) (*reports.Page[models.DailySummary], error)
}

type reportRepository struct {
	db *database.DB
}

// NewReportRepository creates a ReportRepository over the given pool and
// verifies the query catalog before returning it.
func NewReportRepository(db *database.DB) (ReportRepository, error) {
	if err := validateCatalog(); err != nil {
		return nil, err
	}
	return &reportRepository{db: db}, nil
}

var _ ReportRepository = (*reportRepository)(nil)

func (r *reportRepository) CategorySales(ctx context.Context, filter *reports.CategorySalesFilter) (*reports.Page[models.CategorySales], error) {
	tpl, err := lookupTemplate(ReportCategorySales)
	if err != nil {
		return nil, err
	}

	var b sqlutil.ClauseBuilder
	if filter.CategoryID != nil {
		b.Add("category_id =", *filter.CategoryID)
	}

	return fetchPage(ctx, r.db, ReportCategorySales, tpl, &b, filter.Pagination, scanCategorySales)
}

func (r *reportRepository) ProductRanking(ctx context.Context, filter *reports.ProductRankingFilter) (*reports.Page[models.ProductRanking], error) {
	tpl, err := lookupTemplate(ReportProductRanking)
	if err != nil {
		return nil, err
	}

	// Predicate order is fixed: rank cutoff first, then the optional
	// category filter.
	var b sqlutil.ClauseBuilder
	b.Add("sales_rank <=", filter.TopN)
	if filter.CategoryID != nil {
		b.Add("category_id =", *filter.CategoryID)
	}

	return fetchPage(ctx, r.db, ReportProductRanking, tpl, &b, filter.Pagination, scanProductRanking)
}

func (r *reportRepository) UserSummary(ctx context.Context, filter *reports.UserSummaryFilter) (*reports.Page[models.UserSummary], error) {
	tpl, err := lookupTemplate(ReportUserSummary)
	if err != nil {
		return nil, err
	}

	var b sqlutil.ClauseBuilder
	return fetchPage(ctx, r.db, ReportUserSummary, tpl, &b, filter.Pagination, scanUserSummary)
}

// StatusSummary returns one row per status, decorated with the fixed
// description/priority lookup and ordered by priority. The status enum is
// small, so this report is not paginated.
func (r *reportRepository) StatusSummary(ctx context.Context, filter *reports.StatusSummaryFilter) ([]models.StatusSummary, error) {
	tpl, err := lookupTemplate(ReportStatusSummary)
	if err != nil {
		return nil, err
	}

	var b sqlutil.ClauseBuilder
	if filter.Status != nil {
		b.Add("status =", *filter.Status)
	}

	fetchSQL := tpl.baseSQL + b.Where() + " " + tpl.orderBy

	start := time.Now()
	rows, err := r.db.Query(ctx, fetchSQL, b.Args()...)
	metrics.ObserveQuery(string(ReportStatusSummary), "fetch", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status summary: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.StatusSummary, 0, len(reports.OrderStatuses))
	for rows.Next() {
		s, err := scanStatusSummary(rows)
		if err != nil {
			return nil, err
		}
		decorateStatus(&s)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status summary rows: %w", err)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Priority != summaries[j].Priority {
			return summaries[i].Priority < summaries[j].Priority
		}
		return summaries[i].Status < summaries[j].Status
	})

	return summaries, nil
}

func (r *reportRepository) DailySummary(ctx context.Context, filter *reports.DailySummaryFilter) (*reports.Page[models.DailySummary], error) {
	tpl, err := lookupTemplate(ReportDailySummary)
	if err != nil {
		return nil, err
	}

	// Start bound before end bound, always.
	var b sqlutil.ClauseBuilder
	if filter.Dates.Start != nil {
		b.Add("sales_date >=", *filter.Dates.Start)
	}
	if filter.Dates.End != nil {
		b.Add("sales_date <=", *filter.Dates.End)
	}

	return fetchPage(ctx, r.db, ReportDailySummary, tpl, &b, filter.Pagination, scanDailySummary)
}

// ============================================================================
// Two-phase pagination
// ============================================================================

type rowScanner[T any] func(rows pgx.Rows) (T, error)

// buildQueries renders the count and fetch statements for one paginated
// request. Both share the same predicate clause and parameter list; the
// fetch adds two trailing placeholders for limit and offset.
func buildQueries(tpl queryTemplate, b *sqlutil.ClauseBuilder) (countSQL, fetchSQL string) {
	where := b.Where()
	countSQL = tpl.countSQL + where
	fetchSQL = fmt.Sprintf("%s%s %s LIMIT $%d OFFSET $%d",
		tpl.baseSQL, where, tpl.orderBy, b.Next(), b.Next()+1)
	return countSQL, fetchSQL
}

// fetchPage runs the count phase, then the bounded fetch phase. The two
// queries run as independent reads over the pool; they are not wrapped in a
// transaction and may observe different snapshots.
func fetchPage[T any](
	ctx context.Context,
	db *database.DB,
	report Report,
	tpl queryTemplate,
	b *sqlutil.ClauseBuilder,
	pg reports.Pagination,
	scan rowScanner[T],
) (*reports.Page[T], error) {
	countSQL, fetchSQL := buildQueries(tpl, b)
	args := b.Args()

	var total int64
	start := time.Now()
	err := db.QueryRow(ctx, countSQL, args...).Scan(&total)
	metrics.ObserveQuery(string(report), "count", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s rows: %w", report, err)
	}

	fetchArgs := append(append(make([]any, 0, len(args)+2), args...), pg.Limit, pg.Offset())

	start = time.Now()
	rows, err := db.Query(ctx, fetchSQL, fetchArgs...)
	metrics.ObserveQuery(string(report), "fetch", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s rows: %w", report, err)
	}
	defer rows.Close()

	items := make([]T, 0, pg.Limit)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", report, err)
	}

	return reports.NewPage(items, total, pg), nil
}

// ============================================================================
// Status metadata lookup
// ============================================================================

type statusMeta struct {
	description string
	priority    int
}

// statusMetadata maps each known status code to its display description and
// sort priority. Codes outside the map get the unknown fallback and sort
// last.
var statusMetadata = map[string]statusMeta{
	"pending":   {description: "Order received, awaiting payment", priority: 1},
	"paid":      {description: "Payment confirmed", priority: 2},
	"shipped":   {description: "Handed to carrier", priority: 3},
	"delivered": {description: "Delivered to customer", priority: 4},
	"cancelled": {description: "Cancelled before fulfillment", priority: 5},
}

const (
	unknownStatusDescription = "Unrecognized status"
	unknownStatusPriority    = 99
)

func decorateStatus(s *models.StatusSummary) {
	meta, ok := statusMetadata[s.Status]
	if !ok {
		s.Description = unknownStatusDescription
		s.Priority = unknownStatusPriority
		return
	}
	s.Description = meta.description
	s.Priority = meta.priority
}

// ============================================================================
// Helper Functions - Scan
// ============================================================================

func scanCategorySales(rows pgx.Rows) (models.CategorySales, error) {
	var c models.CategorySales
	err := rows.Scan(
		&c.CategoryID, &c.CategoryName, &c.OrderCount, &c.UnitsSold,
		&c.Revenue, &c.AvgLineValue, &c.PctOfTotal,
	)
	if err != nil {
		return models.CategorySales{}, fmt.Errorf("failed to scan category sales row: %w", err)
	}
	return c, nil
}

func scanProductRanking(rows pgx.Rows) (models.ProductRanking, error) {
	var p models.ProductRanking
	err := rows.Scan(
		&p.Rank, &p.ProductID, &p.ProductCode, &p.ProductName,
		&p.CategoryName, &p.UnitsSold, &p.Revenue, &p.OrderCount,
		&p.CurrentPrice, &p.CurrentStock,
	)
	if err != nil {
		return models.ProductRanking{}, fmt.Errorf("failed to scan product ranking row: %w", err)
	}
	return p, nil
}

func scanUserSummary(rows pgx.Rows) (models.UserSummary, error) {
	var u models.UserSummary
	err := rows.Scan(
		&u.UserID, &u.UserName, &u.Email, &u.OrderCount, &u.TotalSpent,
		&u.AvgPerOrder, &u.DistinctProducts, &u.LastPurchase, &u.Tier,
	)
	if err != nil {
		return models.UserSummary{}, fmt.Errorf("failed to scan user summary row: %w", err)
	}
	return u, nil
}

func scanStatusSummary(rows pgx.Rows) (models.StatusSummary, error) {
	var s models.StatusSummary
	err := rows.Scan(
		&s.Status, &s.OrderCount, &s.TotalAmount, &s.AvgAmount,
		&s.MinAmount, &s.MaxAmount, &s.PctOfOrders, &s.PctOfAmount,
	)
	if err != nil {
		return models.StatusSummary{}, fmt.Errorf("failed to scan status summary row: %w", err)
	}
	return s, nil
}

func scanDailySummary(rows pgx.Rows) (models.DailySummary, error) {
	var d models.DailySummary
	err := rows.Scan(
		&d.Date, &d.OrderCount, &d.Revenue, &d.RunningRevenue,
		&d.UnitsSold, &d.DistinctCustomers, &d.AvgTicket,
	)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to scan daily summary row: %w", err)
	}
	return d, nil
}
