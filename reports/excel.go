package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	monthlySheet = "Monthly"
	ownersSheet  = "Owners"

	// built-in "#,##0.00"
	moneyNumFmt = 4
)

// WriteExcel writes the report as a workbook with Summary, Monthly and
// Owners sheets.
func WriteExcel(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for _, name := range []string{monthlySheet, ownersSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return err
	}

	summary := [][]any{
		{"Property report", r.Period},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04 MST")},
		{},
		{"Total revenue", r.TotalRevenue},
		{"Total expenses", r.TotalExpenses},
		{"Net income", r.NetIncome},
		{"Occupancy rate (%)", r.OccupancyRate},
		{"Management fee", r.ManagementFee.Amount},
		{"Management fee (%)", r.ManagementFee.Percent},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A9", header); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "B4", "B6", money); err != nil {
		return err
	}

	monthly := [][]any{{"Month", "Revenue", "Expenses", "Net", "Payments"}}
	for _, row := range r.Monthly {
		monthly = append(monthly, []any{row.Label, row.Revenue, row.Expenses, row.Net, row.Payments})
	}
	monthly = append(monthly, []any{"Total", r.TotalRevenue, r.TotalExpenses, r.NetIncome})
	if err := writeRows(f, monthlySheet, monthly); err != nil {
		return err
	}
	if err := f.SetCellStyle(monthlySheet, "A1", "E1", header); err != nil {
		return err
	}
	if err := f.SetCellStyle(monthlySheet, "B2", fmt.Sprintf("D%d", len(monthly)), money); err != nil {
		return err
	}

	owners := [][]any{{"Owner", "Revenue", "Share (%)", "Payout", "Of total (%)"}}
	for _, o := range r.Owners {
		owners = append(owners, []any{o.Name, o.Revenue, o.Share, o.Amount, o.Percent})
	}
	if err := writeRows(f, ownersSheet, owners); err != nil {
		return err
	}
	if err := f.SetCellStyle(ownersSheet, "A1", "E1", header); err != nil {
		return err
	}

	for _, sheet := range []string{summarySheet, monthlySheet, ownersSheet} {
		if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "B", "E", 16); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
