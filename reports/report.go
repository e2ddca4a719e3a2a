// Package reports turns payments and service-request costs into the monthly
// financial summary shown on the reports page and exported as PDF or XLSX.
package reports

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const monthKeyLayout = "2006-01"

// UnassignedOwner labels revenue from units without an owner.
const UnassignedOwner = "Unassigned"

type Month struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Start time.Time `json:"-"`
}

// ParseMonth accepts "2006-01" or a full "2006-01-02" date.
func ParseMonth(s string) (time.Time, error) {
	if t, err := time.Parse(monthKeyLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return monthStart(t), nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Months returns one bucket per calendar month from the month of from to the
// month of to, inclusive. Reversed bounds are swapped.
func Months(from, to time.Time) []Month {
	start, end := monthStart(from), monthStart(to)
	if start.After(end) {
		start, end = end, start
	}
	var months []Month
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, Month{
			Key:   m.Format(monthKeyLayout),
			Label: m.Format("Jan 2006"),
			Start: m,
		})
	}
	return months
}

// MaxMonths bounds the number of buckets a single report may span.
const MaxMonths = 120

// CheckWindow rejects a window spanning more than MaxMonths months.
func CheckWindow(from, to time.Time) error {
	if n := monthSpan(from, to); n > MaxMonths {
		return fmt.Errorf("report window spans %d months, at most %d allowed", n, MaxMonths)
	}
	return nil
}

// monthSpan counts the calendar months from..to inclusive, in either order.
func monthSpan(from, to time.Time) int {
	n := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if n < 0 {
		n = -n
	}
	return n + 1
}

// LastMonths is the default reporting window: n months ending with now's month.
func LastMonths(now time.Time, n int) (time.Time, time.Time) {
	end := monthStart(now)
	return end.AddDate(0, -(n - 1), 0), end
}

type PaymentRecord struct {
	Amount  float64
	PaidAt  time.Time
	OwnerID *uint
}

type ExpenseRecord struct {
	Amount float64
	At     time.Time
	Kind   string
}

type OwnerInfo struct {
	ID           uint
	Name         string
	RevenueShare float64
}

type Input struct {
	From                 time.Time
	To                   time.Time
	Payments             []PaymentRecord
	Expenses             []ExpenseRecord
	Owners               []OwnerInfo
	ManagementFeePercent float64
	TotalUnits           int
	OccupiedUnits        int
	GeneratedAt          time.Time
}

type MonthlyRow struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
	Payments int     `json:"payments"`
}

// Split is one slice of total revenue. Share is the configured percentage,
// Percent is Amount relative to total revenue. Nothing is paid out on
// Unassigned revenue, so its Percent is its Revenue relative to the total.
type Split struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Share   float64 `json:"share"`
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

type Report struct {
	From          string       `json:"from"`
	To            string       `json:"to"`
	Period        string       `json:"period"`
	Months        []Month      `json:"months"`
	Monthly       []MonthlyRow `json:"monthly"`
	TotalRevenue  float64      `json:"total_revenue"`
	TotalExpenses float64      `json:"total_expenses"`
	NetIncome     float64      `json:"net_income"`
	OccupancyRate float64      `json:"occupancy_rate"`
	ManagementFee Split        `json:"management_fee"`
	Owners        []Split      `json:"owners"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

// Build buckets the input by month and computes totals and revenue splits.
// Records outside the window are ignored.
func Build(in Input) Report {
	months := Months(in.From, in.To)
	rows := make([]MonthlyRow, len(months))
	index := make(map[string]int, len(months))
	for i, m := range months {
		rows[i] = MonthlyRow{Key: m.Key, Label: m.Label}
		index[m.Key] = i
	}

	ownerRevenue := make(map[uint]float64)
	var unassigned float64
	var revenue, expenses float64
	for _, p := range in.Payments {
		i, ok := index[p.PaidAt.UTC().Format(monthKeyLayout)]
		if !ok {
			continue
		}
		rows[i].Revenue += p.Amount
		rows[i].Payments++
		revenue += p.Amount
		if p.OwnerID == nil {
			unassigned += p.Amount
		} else {
			ownerRevenue[*p.OwnerID] += p.Amount
		}
	}
	for _, e := range in.Expenses {
		i, ok := index[e.At.UTC().Format(monthKeyLayout)]
		if !ok {
			continue
		}
		rows[i].Expenses += e.Amount
		expenses += e.Amount
	}
	for i := range rows {
		rows[i].Revenue = round2(rows[i].Revenue)
		rows[i].Expenses = round2(rows[i].Expenses)
		rows[i].Net = round2(rows[i].Revenue - rows[i].Expenses)
	}

	report := Report{
		Months:        months,
		Monthly:       rows,
		TotalRevenue:  round2(revenue),
		TotalExpenses: round2(expenses),
		NetIncome:     round2(revenue - expenses),
		OccupancyRate: percent(float64(in.OccupiedUnits), float64(in.TotalUnits)),
		GeneratedAt:   in.GeneratedAt,
	}
	if len(months) > 0 {
		report.From = months[0].Key
		report.To = months[len(months)-1].Key
		report.Period = months[0].Label
		if len(months) > 1 {
			report.Period += " - " + months[len(months)-1].Label
		}
	}

	fee := revenue * in.ManagementFeePercent / 100
	report.ManagementFee = Split{
		Name:    "Management fee",
		Revenue: round2(revenue),
		Share:   in.ManagementFeePercent,
		Amount:  round2(fee),
		Percent: percent(fee, revenue),
	}

	for _, o := range in.Owners {
		rev := ownerRevenue[o.ID]
		amount := rev * o.RevenueShare / 100
		report.Owners = append(report.Owners, Split{
			Name:    o.Name,
			Revenue: round2(rev),
			Share:   o.RevenueShare,
			Amount:  round2(amount),
			Percent: percent(amount, revenue),
		})
	}
	sort.SliceStable(report.Owners, func(i, j int) bool {
		return report.Owners[i].Revenue > report.Owners[j].Revenue
	})
	if unassigned > 0 {
		report.Owners = append(report.Owners, Split{
			Name:    UnassignedOwner,
			Revenue: round2(unassigned),
			Percent: percent(unassigned, revenue),
		})
	}
	return report
}

// percent is part/whole*100 rounded to 2 decimals, 0 when whole is 0.
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round2(part / whole * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
