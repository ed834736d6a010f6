package booking_controller

import (
	"fmt"

	"github.com/joy095/studio/models/booking_models"
	"github.com/joy095/studio/utils"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []string{
	"Booking ID", "Date", "Start", "Package", "Tier", "Customer", "Email", "Phone",
	"Status", "Total", "Paid", "Outstanding", "Payment Method",
}

// BuildBookingWorkbook lays out one row per booking under a bold header, with a totals row.
func BuildBookingWorkbook(bookings []booking_models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	var total, paid float64
	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.ID.String(),
			b.BookingDate.Format(utils.DateLayout),
			b.StartTime,
			b.PackageName,
			b.PackageTier,
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			b.Status,
			b.TotalAmount,
			b.AmountPaid,
			b.Outstanding(),
			b.PaymentMethod,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
		total += b.TotalAmount
		paid += b.AmountPaid
	}

	totalsRow := len(bookings) + 2
	if err := f.SetSheetRow(exportSheet, fmt.Sprintf("I%d", totalsRow), &[]any{"Total", total, paid}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "J2", fmt.Sprintf("L%d", totalsRow), moneyStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "B", lastCol, 14); err != nil {
		return nil, err
	}
	return f, nil
}
