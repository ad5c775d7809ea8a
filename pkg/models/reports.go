package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySales is one row of the category sales view: one category with
// at least some revenue, plus its share of global revenue.
type CategorySales struct {
	CategoryID   int64               `json:"category_id"`
	CategoryName string              `json:"category_name"`
	OrderCount   int64               `json:"order_count"`
	UnitsSold    int64               `json:"units_sold"`
	Revenue      decimal.Decimal     `json:"revenue"`
	AvgLineValue decimal.Decimal     `json:"avg_line_value"`
	PctOfTotal   decimal.NullDecimal `json:"pct_of_total"`
}

// ProductRanking is one row of the product ranking view. Rank is dense
// (1..N, no gaps) by units sold descending, ties broken by product id.
// Price and stock are live snapshots, not values at time of sale.
type ProductRanking struct {
	Rank         int64           `json:"rank"`
	ProductID    int64           `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	CategoryName string          `json:"category_name"`
	UnitsSold    int64           `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	OrderCount   int64           `json:"order_count"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CurrentStock int64           `json:"current_stock"`
}

// UserSummary is one row per user, including users with no orders. Numeric
// aggregates are zero (never NULL) for zero-order users; LastPurchase stays
// nil when the user has never purchased.
type UserSummary struct {
	UserID           int64           `json:"user_id"`
	UserName         string          `json:"user_name"`
	Email            string          `json:"email"`
	OrderCount       int64           `json:"order_count"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	AvgPerOrder      decimal.Decimal `json:"avg_per_order"`
	DistinctProducts int64           `json:"distinct_products"`
	LastPurchase     *time.Time      `json:"last_purchase"`
	Tier             string          `json:"tier"`
}

// StatusSummary is one row per order status. Both percentage columns are
// computed against the same global totals, so they sum to ~100 across rows.
// Description and Priority come from a fixed lookup, not from the database.
type StatusSummary struct {
	Status      string              `json:"status"`
	Description string              `json:"description"`
	Priority    int                 `json:"priority"`
	OrderCount  int64               `json:"order_count"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	AvgAmount   decimal.Decimal     `json:"avg_amount"`
	MinAmount   decimal.Decimal     `json:"min_amount"`
	MaxAmount   decimal.Decimal     `json:"max_amount"`
	PctOfOrders decimal.NullDecimal `json:"pct_of_orders"`
	PctOfAmount decimal.NullDecimal `json:"pct_of_amount"`
}

// DailySummary is one row per calendar date that had at least one order.
// RunningRevenue is the prefix sum of Revenue over all dates up to and
// including this one, in date order.
type DailySummary struct {
	Date              time.Time       `json:"date"`
	OrderCount        int64           `json:"order_count"`
	Revenue           decimal.Decimal `json:"revenue"`
	RunningRevenue    decimal.Decimal `json:"running_revenue"`
	UnitsSold         int64           `json:"units_sold"`
	DistinctCustomers int64           `json:"distinct_customers"`
	AvgTicket         decimal.Decimal `json:"avg_ticket"`
}
