// Package core holds the domain model and the aggregation engine: pure
// functions that project a snapshot of transactions and a period window into
// the derived statistics the presentation layer renders. The engine owns no
// state, never mutates its input, and is recomputed from scratch on every
// relevant change.
package core

import (
	"sort"
	"time"
)

type (
	// Stats summarizes the period-filtered transaction set.
	Stats struct {
		TotalIncome      int64 `json:"totalIncome"`
		TotalExpense     int64 `json:"totalExpense"`
		Balance          int64 `json:"balance"`
		TransactionCount int   `json:"transactionCount"`
	}

	// DailyAggregate is one chart data point. Days without transactions
	// still get a point so charts render a continuous axis.
	DailyAggregate struct {
		Date    Date  `json:"date"`
		Income  int64 `json:"income"`
		Expense int64 `json:"expense"`
		Balance int64 `json:"balance"`
	}

	// BalancePoint carries the period-relative running balance for one day.
	BalancePoint struct {
		Date    Date  `json:"date"`
		Balance int64 `json:"balance"`
	}

	// CategoryAggregate is one slice of a per-category breakdown.
	CategoryAggregate struct {
		CategoryID   string  `json:"categoryId"`
		CategoryName string  `json:"categoryName"`
		Color        string  `json:"color"`
		Icon         string  `json:"icon"`
		Total        int64   `json:"total"`
		Count        int     `json:"count"`
		Percentage   float64 `json:"percentage"`
	}

	// Breakdown holds the two per-type category breakdowns.
	Breakdown struct {
		Expenses []CategoryAggregate `json:"expenses"`
		Income   []CategoryAggregate `json:"income"`
	}

	// Report is the full derived projection for one (snapshot, period, now)
	// triple. It lives for a single recomputation pass and is rebuilt on
	// every transaction or period change.
	Report struct {
		Period       Period           `json:"period"`
		Transactions []Transaction    `json:"transactions"`
		Stats        Stats            `json:"stats"`
		TotalBalance int64            `json:"totalBalance"`
		Daily        []DailyAggregate `json:"dailyAggregates"`
		Cumulative   []BalancePoint   `json:"cumulativeBalance"`
		Categories   Breakdown        `json:"categoryAggregates"`
	}
)

// FilterByPeriod returns the transactions inside the period window containing
// now, sorted by date descending. Date comparison is calendar-day only, with
// no upper bound. Sorting is stable and uses the date as the sole key; the
// createdAt tie-break belongs to the display listing (SortForDisplay), not to
// the set statistics are computed from.
func FilterByPeriod(all []Transaction, p Period, now time.Time) []Transaction {
	start, bounded := ResolveStart(p, now)

	filtered := make([]Transaction, 0, len(all))
	for _, tx := range all {
		if !bounded || tx.Date.OnOrAfter(start) {
			filtered = append(filtered, tx)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[j].Date.Before(filtered[i].Date)
	})
	return filtered
}

// SortForDisplay orders transactions for history rendering: date descending,
// then createdAt descending within a day. The input is not modified.
func SortForDisplay(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[j].Date.Before(out[i].Date)
		}
		return out[j].CreatedAt.Before(out[i].CreatedAt)
	})
	return out
}

// ComputeStats sums the filtered set. Amounts are exact integers, so
// TotalIncome - TotalExpense == Balance always holds.
func ComputeStats(filtered []Transaction) Stats {
	s := Stats{TransactionCount: len(filtered)}
	for _, tx := range filtered {
		switch tx.Type {
		case Income:
			s.TotalIncome += tx.Amount
		case Expense:
			s.TotalExpense += tx.Amount
		}
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s
}

// TotalBalance is the all-time balance over the unfiltered set, independent of
// any selected period.
func TotalBalance(all []Transaction) int64 {
	var balance int64
	for _, tx := range all {
		switch tx.Type {
		case Income:
			balance += tx.Amount
		case Expense:
			balance -= tx.Amount
		}
	}
	return balance
}

// DailySeries produces one point per calendar day from the series start
// through now, inclusive, in chronological order. The start is the period's
// lower bound; for the unbounded period it falls back to the earliest
// transaction date, or 30 days before now when there are no transactions at
// all. Filtered transactions land in their day's bucket by exact date match.
// When now precedes the start the series is empty, never an error.
func DailySeries(all, filtered []Transaction, p Period, now time.Time) []DailyAggregate {
	start, bounded := ResolveStart(p, now)
	if !bounded {
		if earliest, ok := earliestDate(all); ok {
			start = earliest
		} else {
			start = DateOf(now.AddDate(0, 0, -30))
		}
	}

	today := DateOf(now)
	if today.Before(start) {
		return []DailyAggregate{}
	}

	days := int(today.Sub(start.Time)/(24*time.Hour)) + 1
	series := make([]DailyAggregate, 0, days)
	index := make(map[string]int, days)
	for d := start; !today.Before(d); d = d.Next() {
		index[d.String()] = len(series)
		series = append(series, DailyAggregate{Date: d})
	}

	for _, tx := range filtered {
		i, ok := index[tx.Date.String()]
		if !ok {
			continue
		}
		switch tx.Type {
		case Income:
			series[i].Income += tx.Amount
		case Expense:
			series[i].Expense += tx.Amount
		}
	}
	for i := range series {
		series[i].Balance = series[i].Income - series[i].Expense
	}
	return series
}

// CumulativeBalance is the running sum of daily balances in chronological
// order. The sum starts at 0, showing period-relative drift rather than
// absolute balance.
func CumulativeBalance(daily []DailyAggregate) []BalancePoint {
	points := make([]BalancePoint, len(daily))
	var running int64
	for i, d := range daily {
		running += d.Balance
		points[i] = BalancePoint{Date: d.Date, Balance: running}
	}
	return points
}

// BreakdownByCategory groups the filtered set per transaction type and
// resolves display attributes through the catalog. Unknown category ids get
// placeholder attributes instead of failing or dropping the group. Groups are
// sorted by total descending; percentages are 0 when the type's grand total
// is 0.
func BreakdownByCategory(filtered []Transaction, catalog *Catalog) Breakdown {
	return Breakdown{
		Expenses: aggregateByType(filtered, Expense, catalog),
		Income:   aggregateByType(filtered, Income, catalog),
	}
}

func aggregateByType(filtered []Transaction, t TransactionType, catalog *Catalog) []CategoryAggregate {
	type group struct {
		total int64
		count int
	}
	groups := make(map[string]*group)
	var order []string
	var grandTotal int64

	for _, tx := range filtered {
		if tx.Type != t {
			continue
		}
		grandTotal += tx.Amount
		g, ok := groups[tx.CategoryID]
		if !ok {
			g = &group{}
			groups[tx.CategoryID] = g
			order = append(order, tx.CategoryID)
		}
		g.total += tx.Amount
		g.count++
	}

	out := make([]CategoryAggregate, 0, len(groups))
	for _, id := range order {
		g := groups[id]
		cat := catalog.Resolve(id)
		var pct float64
		if grandTotal > 0 {
			pct = float64(g.total) / float64(grandTotal) * 100
		}
		out = append(out, CategoryAggregate{
			CategoryID:   id,
			CategoryName: cat.Name,
			Color:        cat.Color,
			Icon:         cat.Icon,
			Total:        g.total,
			Count:        g.count,
			Percentage:   pct,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// BuildReport runs the whole engine over one immutable snapshot.
func BuildReport(all []Transaction, p Period, now time.Time, catalog *Catalog) Report {
	filtered := FilterByPeriod(all, p, now)
	daily := DailySeries(all, filtered, p, now)
	return Report{
		Period:       p,
		Transactions: filtered,
		Stats:        ComputeStats(filtered),
		TotalBalance: TotalBalance(all),
		Daily:        daily,
		Cumulative:   CumulativeBalance(daily),
		Categories:   BreakdownByCategory(filtered, catalog),
	}
}

func earliestDate(txs []Transaction) (Date, bool) {
	if len(txs) == 0 {
		return Date{}, false
	}
	earliest := txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date.Before(earliest) {
			earliest = tx.Date
		}
	}
	return earliest, true
}
