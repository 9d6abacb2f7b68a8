package usecase

import (
	"context"
	"net/http"
	"sort"
	"time"

	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ReportUsecase は配達済み注文の集計（売上・商品・顧客ランキング）。
// 集計はすべてメモリ上で行う。
type ReportUsecase struct {
	reports repo.ReportRepository
	now     func() time.Time
}

func NewReportUsecase(reports repo.ReportRepository, now func() time.Time) *ReportUsecase {
	return &ReportUsecase{reports: reports, now: now}
}

// 集計期間
const (
	Period3Months = "3months"
	Period6Months = "6months"
	Period1Year   = "1year"
)

type MonthlyBucket struct {
	Month   string `json:"month"`
	Revenue string `json:"revenue"`
	Orders  int64  `json:"orders"`
}

type ProductSales struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	ImageURL     string `json:"image_url"`
	TotalSold    int64  `json:"total_sold"`
	TotalRevenue string `json:"total_revenue"`
}

type CustomerStat struct {
	UserID      int64     `json:"user_id"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	TotalOrders int64     `json:"total_orders"`
	TotalSpent  string    `json:"total_spent"`
	LastOrder   time.Time `json:"last_order"`
}

type MonthStat struct {
	Revenue   string `json:"revenue"`
	Orders    int64  `json:"orders"`
	Customers int64  `json:"customers"`
}

type MonthlyComparison struct {
	CurrentMonth    MonthStat `json:"current_month"`
	PreviousMonth   MonthStat `json:"previous_month"`
	RevenueGrowth   float64   `json:"revenue_growth"`
	OrdersGrowth    float64   `json:"orders_growth"`
	CustomersGrowth float64   `json:"customers_growth"`
}

type ReportOutput struct {
	Sales        []MonthlyBucket   `json:"sales"`
	TopProducts  []ProductSales    `json:"top_products"`
	TopCustomers []CustomerStat    `json:"top_customers"`
	Monthly      MonthlyComparison `json:"monthly"`
}

// Growth は前月比の伸び率（%）。
// 前月0で今月が正なら100%、両方0なら0%。
func Growth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// Build は4本のクエリを並行で発行して、結果をメモリ上で集計する。
func (u *ReportUsecase) Build(ctx context.Context, period string) (ReportOutput, error) {
	since, ok := u.periodStart(period)
	if !ok {
		return ReportOutput{}, NewHTTPError(http.StatusBadRequest, "invalid period")
	}

	now := u.now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	previousMonth := currentMonth.AddDate(0, -1, 0)
	nextMonth := currentMonth.AddDate(0, 1, 0)

	var (
		salesRows    []repo.DeliveredOrderRow
		itemRows     []repo.DeliveredItemRow
		customerRows []repo.DeliveredOrderRow
		currentRows  []repo.DeliveredOrderRow
		previousRows []repo.DeliveredOrderRow
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		salesRows, err = u.reports.DeliveredOrdersSince(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		itemRows, err = u.reports.DeliveredItemsSince(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		customerRows, err = u.reports.DeliveredOrdersSince(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		currentRows, err = u.reports.DeliveredOrdersBetween(gctx, currentMonth, nextMonth)
		if err != nil {
			return err
		}
		previousRows, err = u.reports.DeliveredOrdersBetween(gctx, previousMonth, currentMonth)
		return err
	})

	if err := g.Wait(); err != nil {
		return ReportOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ReportOutput{
		Sales:        buildMonthlyBuckets(salesRows),
		TopProducts:  buildProductRanking(itemRows),
		TopCustomers: buildCustomerRanking(customerRows),
		Monthly:      buildMonthlyComparison(currentRows, previousRows),
	}, nil
}

func (u *ReportUsecase) periodStart(period string) (time.Time, bool) {
	now := u.now()
	monthStart := func(monthsBack int) time.Time {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
			AddDate(0, -monthsBack, 0)
	}

	switch period {
	case "", Period6Months:
		return monthStart(6), true
	case Period3Months:
		return monthStart(3), true
	case Period1Year:
		return monthStart(12), true
	default:
		return time.Time{}, false
	}
}

// 月ラベル（"Jan 2025"）ごとに売上と件数を積み、時系列順に並べる
func buildMonthlyBuckets(rows []repo.DeliveredOrderRow) []MonthlyBucket {
	type bucket struct {
		key     time.Time
		revenue decimal.Decimal
		orders  int64
	}

	byMonth := map[string]*bucket{}
	for _, row := range rows {
		key := time.Date(row.CreatedAt.Year(), row.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		label := key.Format("Jan 2006")

		b, ok := byMonth[label]
		if !ok {
			b = &bucket{key: key, revenue: decimal.Zero}
			byMonth[label] = b
		}
		b.revenue = b.revenue.Add(row.TotalAmount)
		b.orders++
	}

	buckets := make([]*bucket, 0, len(byMonth))
	labels := map[*bucket]string{}
	for label, b := range byMonth {
		buckets = append(buckets, b)
		labels[b] = label
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].key.Before(buckets[j].key) })

	out := make([]MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, MonthlyBucket{
			Month:   labels[b],
			Revenue: b.revenue.StringFixed(2),
			Orders:  b.orders,
		})
	}
	return out
}

// 販売数の多い順トップ10
func buildProductRanking(rows []repo.DeliveredItemRow) []ProductSales {
	type stat struct {
		name    string
		image   string
		sold    int64
		revenue decimal.Decimal
	}

	byProduct := map[int64]*stat{}
	for _, row := range rows {
		s, ok := byProduct[row.ProductID]
		if !ok {
			s = &stat{name: row.ProductName, image: row.ImageURL, revenue: decimal.Zero}
			byProduct[row.ProductID] = s
		}
		s.sold += row.Quantity
		s.revenue = s.revenue.Add(row.UnitPrice.Mul(decimal.NewFromInt(row.Quantity)))
	}

	out := make([]ProductSales, 0, len(byProduct))
	for id, s := range byProduct {
		out = append(out, ProductSales{
			ProductID:    id,
			Name:         s.name,
			ImageURL:     s.image,
			TotalSold:    s.sold,
			TotalRevenue: s.revenue.StringFixed(2),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSold != out[j].TotalSold {
			return out[i].TotalSold > out[j].TotalSold
		}
		return out[i].ProductID < out[j].ProductID
	})

	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// 支払額の多い順トップ10
func buildCustomerRanking(rows []repo.DeliveredOrderRow) []CustomerStat {
	type stat struct {
		name      string
		phone     string
		orders    int64
		spent     decimal.Decimal
		lastOrder time.Time
	}

	byUser := map[int64]*stat{}
	for _, row := range rows {
		s, ok := byUser[row.UserID]
		if !ok {
			s = &stat{name: row.CustomerName, phone: row.Phone, spent: decimal.Zero}
			byUser[row.UserID] = s
		}
		s.orders++
		s.spent = s.spent.Add(row.TotalAmount)
		if row.CreatedAt.After(s.lastOrder) {
			s.lastOrder = row.CreatedAt
		}
	}

	out := make([]CustomerStat, 0, len(byUser))
	for id, s := range byUser {
		out = append(out, CustomerStat{
			UserID:      id,
			FullName:    s.name,
			Phone:       s.phone,
			TotalOrders: s.orders,
			TotalSpent:  s.spent.StringFixed(2),
			LastOrder:   s.lastOrder,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		si, _ := decimal.NewFromString(out[i].TotalSpent)
		sj, _ := decimal.NewFromString(out[j].TotalSpent)
		if !si.Equal(sj) {
			return si.GreaterThan(sj)
		}
		return out[i].UserID < out[j].UserID
	})

	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func buildMonthlyComparison(current, previous []repo.DeliveredOrderRow) MonthlyComparison {
	sum := func(rows []repo.DeliveredOrderRow) (decimal.Decimal, int64, int64) {
		total := decimal.Zero
		users := map[int64]struct{}{}
		for _, row := range rows {
			total = total.Add(row.TotalAmount)
			users[row.UserID] = struct{}{}
		}
		return total, int64(len(rows)), int64(len(users))
	}

	curRevenue, curOrders, curCustomers := sum(current)
	prevRevenue, prevOrders, prevCustomers := sum(previous)

	return MonthlyComparison{
		CurrentMonth: MonthStat{
			Revenue:   curRevenue.StringFixed(2),
			Orders:    curOrders,
			Customers: curCustomers,
		},
		PreviousMonth: MonthStat{
			Revenue:   prevRevenue.StringFixed(2),
			Orders:    prevOrders,
			Customers: prevCustomers,
		},
		RevenueGrowth:   Growth(curRevenue.InexactFloat64(), prevRevenue.InexactFloat64()),
		OrdersGrowth:    Growth(float64(curOrders), float64(prevOrders)),
		CustomersGrowth: Growth(float64(curCustomers), float64(prevCustomers)),
	}
}
