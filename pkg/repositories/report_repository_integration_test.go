//go:build integration

package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordersight/report-engine/pkg/reports"
	"github.com/ordersight/report-engine/pkg/testhelpers"
)

var seedOnce sync.Once

// seedReportData loads a small, fully hand-checked order book:
//
//	categories: Electronics (1), Books (2), Outdoor (3, no sales)
//	products:   p1/p2 Electronics, p3 Books, p4 Books (never sold)
//	users:      alice (3 orders), bob (1 order), carol (none)
//	revenue:    Electronics 600, Books 400, global 1000
func seedReportData(t *testing.T, db *testhelpers.TestDB) {
	t.Helper()
	seedOnce.Do(func() {
		ctx := context.Background()

		stmts := []string{
			`TRUNCATE order_lines, orders, users, products, categories RESTART IDENTITY CASCADE`,

			`INSERT INTO categories (id, name) VALUES
				(1, 'Electronics'), (2, 'Books'), (3, 'Outdoor')`,

			`INSERT INTO products (id, code, name, price, stock, category_id) VALUES
				(1, 'EL-001', 'Headphones', 100.00, 5, 1),
				(2, 'EL-002', 'Keyboard', 200.00, 8, 1),
				(3, 'BK-001', 'Novel', 50.00, 20, 2),
				(4, 'BK-002', 'Atlas', 80.00, 3, 2)`,

			`INSERT INTO users (id, name, email) VALUES
				(1, 'Alice', 'alice@example.com'),
				(2, 'Bob', 'bob@example.com'),
				(3, 'Carol', 'carol@example.com')`,

			`INSERT INTO orders (id, user_id, status, total, created_at) VALUES
				(1, 1, 'delivered', 300.00, '2024-01-10 10:00:00+00'),
				(2, 1, 'paid',      200.00, '2024-01-11 09:30:00+00'),
				(3, 1, 'pending',   100.00, '2024-01-12 15:00:00+00'),
				(4, 2, 'shipped',   400.00, '2024-01-11 18:45:00+00')`,

			`INSERT INTO order_lines (order_id, product_id, quantity, subtotal) VALUES
				(1, 1, 2, 200.00),
				(1, 3, 1, 100.00),
				(2, 2, 1, 200.00),
				(3, 3, 2, 100.00),
				(4, 1, 2, 200.00),
				(4, 3, 4, 200.00)`,
		}

		for _, stmt := range stmts {
			if _, err := db.DB.Exec(ctx, stmt); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}
	})
}

func setupIntegration(t *testing.T) ReportRepository {
	t.Helper()
	db := testhelpers.GetTestDB(t)
	seedReportData(t, db)

	repo, err := NewReportRepository(db.DB)
	require.NoError(t, err)
	return repo
}

func defaultPagination() reports.Pagination {
	return reports.Pagination{Page: reports.DefaultPage, Limit: reports.DefaultLimit}
}

func TestCategorySales_Integration(t *testing.T) {
	repo := setupIntegration(t)
	ctx := context.Background()

	page, err := repo.CategorySales(ctx, &reports.CategorySalesFilter{Pagination: defaultPagination()})
	require.NoError(t, err)

	// Outdoor has no revenue, so only two categories appear, revenue
	// descending.
	require.Len(t, page.Rows, 2)
	assert.Equal(t, int64(2), page.Total)

	electronics, books := page.Rows[0], page.Rows[1]
	assert.Equal(t, "Electronics", electronics.CategoryName)
	assert.Equal(t, "Books", books.CategoryName)
	assert.True(t, electronics.Revenue.Equal(decimal.NewFromInt(600)), "got %s", electronics.Revenue)
	assert.True(t, books.Revenue.Equal(decimal.NewFromInt(400)), "got %s", books.Revenue)

	// 600 and 400 of a 1000 global: 60.00 and 40.00, summing to 100.
	require.True(t, electronics.PctOfTotal.Valid)
	require.True(t, books.PctOfTotal.Valid)
	assert.Equal(t, "60.00", electronics.PctOfTotal.Decimal.StringFixed(2))
	assert.Equal(t, "40.00", books.PctOfTotal.Decimal.StringFixed(2))

	sum := electronics.PctOfTotal.Decimal.Add(books.PctOfTotal.Decimal)
	assert.True(t, sum.Sub(decimal.NewFromInt(100)).Abs().LessThan(decimal.NewFromFloat(0.1)),
		"percentages must sum to ~100, got %s", sum)

	assert.Equal(t, int64(3), electronics.OrderCount)
	assert.Equal(t, int64(5), electronics.UnitsSold)
	assert.Equal(t, int64(7), books.UnitsSold)
}

func TestCategorySales_CategoryFilter_Integration(t *testing.T) {
	repo := setupIntegration(t)
	ctx := context.Background()

	booksID := int64(2)
	page, err := repo.CategorySales(ctx, &reports.CategorySalesFilter{
		CategoryID: &booksID,
		Pagination: defaultPagination(),
	})
	require.NoError(t, err)

	require.Len(t, page.Rows, 1)
	assert.Equal(t, int64(1), page.Total, "count phase shares the fetch predicates")
	assert.Equal(t, "Books", page.Rows[0].CategoryName)
}

func TestProductRanking_Integration(t *testing.T) {
	repo := setupIntegration(t)
	ctx := context.Background()

	page, err := repo.ProductRanking(ctx, &reports.ProductRankingFilter{
		TopN:       reports.DefaultTopN,
		Pagination: defaultPagination(),
	})
	require.NoError(t, err)

	// p4 was never sold and must not appear. Ranks are exactly 1..N with
	// units never increasing as rank increases.
	require.Len(t, page.Rows, 3)
	for i, row := range page.Rows {
		assert.Equal(t, int64(i+1), row.Rank)
		if i > 0 {
			assert.LessOrEqual(t, row.UnitsSold, page.Rows[i-1].UnitsSold)
		}
	}

	assert.Equal(t, "Novel", page.Rows[0].ProductName)
	assert.Equal(t, int64(7), page.Rows[0].UnitsSold)
	assert.Equal(t, "Headphones", page.Rows[1].ProductName)
	assert.Equal(t, int64(4), page.Rows[1].UnitsSold)

	// Live snapshot of price and stock, not values at time of sale.
	assert.True(t, page.Rows[0].CurrentPrice.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(20), page.Rows[0].CurrentStock)
}

func TestProductRanking_TopNPagination_Integration(t *testing.T) {
	repo := setupIntegration(t)
	ctx := context.Background()

	// Second page of two within the top five: offset 2, so only rank 3 of
	// our three ranked products, while total still counts all rows with
	// rank <= 5.
	page, err := repo.ProductRanking(ctx, &reports.ProductRankingFilter{
		TopN:       5,
		Pagination: reports.Pagination{Page: 2, Limit: 2},
	})
	require.NoError(t, err)

	require.Len(t, page.Rows, 1)
	assert.Equal(t, int64(3), page.Rows[0].Rank)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestUserSummary_Integration(t *testing.T) {
	repo := setupIntegration(t)
	ctx := context.Background()

	page, err := repo.UserSummary(ctx, &reports.UserSummaryFilter{Pagination: defaultPagination()})
	require.NoError(t, err)

	// All three users appear, including Carol with no orders.
	require.Len(t, page.Rows, 3)

	byName := map[string]int{}
	for i, row := range page.Rows {
		byName[row.UserName] = i
	}

	alice := page.Rows[byName["Alice"]]
	assert.Equal(t, int64(3), alice.OrderCount)
	assert.True(t, alice.TotalSpent.Equal(decimal.NewFromInt(600)), "got %s", alice.TotalSpent)
	assert.True(t, alice.AvgPerOrder.Equal(decimal.NewFromInt(200)), "got %s", alice.AvgPerOrder)
	assert.Equal(t, int64(3), alice.DistinctProducts)
	assert.Equal(t, "frequent", alice.Tier)
	require.NotNil(t, alice.LastPurchase)

	bob := page.Rows[byName["Bob"]]
	assert.Equal(t, int64(1), bob.OrderCount)
	assert.Equal(t, "occasional", bob.Tier)

	carol := page.Rows[byName["Carol"]]
	assert.Equal(t, int64(0), carol.OrderCount)
	assert.True(t, carol.TotalSpent.IsZero(), "zero-order users aggregate to zero, not NULL")
	assert.True(t, carol.AvgPerOrder.IsZero())
	assert.Equal(t, int64(0), carol.DistinctProducts)
	assert.Nil(t, carol.LastPurchase)
	assert.Equal(t, "none", carol.Tier)
}

func TestStatusSummary_Integration(t *testing.T) {
	repo := setupIntegration(t)
	ctx := context.Background()

	summaries, err := repo.StatusSummary(ctx, &reports.StatusSummaryFilter{})
	require.NoError(t, err)

	// Four statuses present, ordered by the fixed priority.
	require.Len(t, summaries, 4)
	assert.Equal(t, "pending", summaries[0].Status)
	assert.Equal(t, "paid", summaries[1].Status)
	assert.Equal(t, "shipped", summaries[2].Status)
	assert.Equal(t, "delivered", summaries[3].Status)

	pctOrders := decimal.Zero
	for _, s := range summaries {
		require.True(t, s.PctOfOrders.Valid)
		require.True(t, s.PctOfAmount.Valid)
		// One order per status out of four: every share is 25.00, which
		// only holds if all rows divide by the same global count.
		assert.Equal(t, "25.00", s.PctOfOrders.Decimal.StringFixed(2))
		pctOrders = pctOrders.Add(s.PctOfOrders.Decimal)
		assert.NotEmpty(t, s.Description)
	}
	assert.True(t, pctOrders.Sub(decimal.NewFromInt(100)).Abs().LessThan(decimal.NewFromFloat(0.1)))

	// Amount shares: 100/200/400/300 of 1000.
	assert.Equal(t, "10.00", summaries[0].PctOfAmount.Decimal.StringFixed(2))
	assert.Equal(t, "20.00", summaries[1].PctOfAmount.Decimal.StringFixed(2))
	assert.Equal(t, "40.00", summaries[2].PctOfAmount.Decimal.StringFixed(2))
	assert.Equal(t, "30.00", summaries[3].PctOfAmount.Decimal.StringFixed(2))
}

func TestStatusSummary_StatusFilter_Integration(t *testing.T) {
	repo := setupIntegration(t)
	ctx := context.Background()

	status := "shipped"
	summaries, err := repo.StatusSummary(ctx, &reports.StatusSummaryFilter{Status: &status})
	require.NoError(t, err)

	require.Len(t, summaries, 1)
	assert.Equal(t, "shipped", summaries[0].Status)
	// Percentages stay shares of the global totals even when filtered.
	assert.Equal(t, "25.00", summaries[0].PctOfOrders.Decimal.StringFixed(2))
	assert.Equal(t, "40.00", summaries[0].PctOfAmount.Decimal.StringFixed(2))
}

func TestDailySummary_Integration(t *testing.T) {
	repo := setupIntegration(t)
	ctx := context.Background()

	page, err := repo.DailySummary(ctx, &reports.DailySummaryFilter{Pagination: defaultPagination()})
	require.NoError(t, err)

	require.Len(t, page.Rows, 3)

	// Dates ascending with a strict prefix-sum running total.
	running := decimal.Zero
	for _, row := range page.Rows {
		running = running.Add(row.Revenue)
		assert.True(t, row.RunningRevenue.Equal(running),
			"running total at %s: got %s, want %s", row.Date, row.RunningRevenue, running)
	}
	assert.True(t, page.Rows[2].RunningRevenue.Equal(decimal.NewFromInt(1000)),
		"final running total equals total revenue")

	assert.Equal(t, int64(1), page.Rows[0].OrderCount)
	assert.Equal(t, int64(2), page.Rows[1].OrderCount)
	assert.Equal(t, int64(2), page.Rows[1].DistinctCustomers)
	assert.Equal(t, int64(3), page.Rows[0].UnitsSold)
	assert.Equal(t, int64(7), page.Rows[1].UnitsSold)
	assert.True(t, page.Rows[1].AvgTicket.Equal(decimal.NewFromInt(300)))
}

func TestDailySummary_DateRange_Integration(t *testing.T) {
	repo := setupIntegration(t)
	ctx := context.Background()

	filter, err := reports.ParseDailySummaryFilter(reports.Params{"startDate": "2024-01-11"})
	require.NoError(t, err)

	page, err := repo.DailySummary(ctx, filter)
	require.NoError(t, err)

	require.Len(t, page.Rows, 2)
	assert.Equal(t, int64(2), page.Total)

	// The running total is computed before the date filter, so the first
	// row of a trimmed window still carries the all-time prefix sum.
	assert.True(t, page.Rows[0].RunningRevenue.Equal(decimal.NewFromInt(900)),
		"got %s", page.Rows[0].RunningRevenue)
	assert.True(t, page.Rows[1].RunningRevenue.Equal(decimal.NewFromInt(1000)))
}
