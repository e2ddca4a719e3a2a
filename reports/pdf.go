package reports

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// WritePDF renders the report as a single A4 document: summary, monthly
// table and owner payouts.
func WritePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Property report "+r.Period, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Property report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Period: "+r.Period, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+r.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Summary")
	table(pdf, []float64{70, 50}, nil, [][]string{
		{"Total revenue", money(r.TotalRevenue)},
		{"Total expenses", money(r.TotalExpenses)},
		{"Net income", money(r.NetIncome)},
		{"Occupancy rate", pct(r.OccupancyRate)},
		{"Management fee", fmt.Sprintf("%s (%s)", money(r.ManagementFee.Amount), pct(r.ManagementFee.Percent))},
	})
	pdf.Ln(4)

	section(pdf, "Monthly breakdown")
	monthly := make([][]string, 0, len(r.Monthly)+1)
	for _, row := range r.Monthly {
		monthly = append(monthly, []string{row.Label, money(row.Revenue), money(row.Expenses), money(row.Net), fmt.Sprint(row.Payments)})
	}
	monthly = append(monthly, []string{"Total", money(r.TotalRevenue), money(r.TotalExpenses), money(r.NetIncome), ""})
	table(pdf, []float64{40, 35, 35, 35, 25}, []string{"Month", "Revenue", "Expenses", "Net", "Payments"}, monthly)
	pdf.Ln(4)

	section(pdf, "Owner payouts")
	owners := make([][]string, 0, len(r.Owners))
	for _, o := range r.Owners {
		owners = append(owners, []string{o.Name, money(o.Revenue), pct(o.Share), money(o.Amount), pct(o.Percent)})
	}
	table(pdf, []float64{55, 35, 25, 35, 25}, []string{"Owner", "Revenue", "Share", "Payout", "Of total"}, owners)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func table(pdf *fpdf.Fpdf, widths []float64, header []string, rows [][]string) {
	if header != nil {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(220, 230, 241)
		for i, h := range header {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
