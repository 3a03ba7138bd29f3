package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
)

const restaurantName = "JunkEats Express"

// ReceiptNumber is stable for an order.
func ReceiptNumber(order *models.Order) string {
	short := strings.ToUpper(strings.ReplaceAll(order.ID, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("RCP/%s/%s", order.PlacementTime.Format("20060102"), short)
}

// RenderReceipt draws a one page PDF receipt for order.
func RenderReceipt(order *models.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(fmt.Sprintf("%s receipt %s", restaurantName, order.ID), false)
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, restaurantName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Receipt "+ReceiptNumber(order), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, order.PlacementTime.Format("02 Jan 2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Customer: "+order.CustomerName, "", 1, "L", false, 0, "")
	if order.IsDineIn() {
		pdf.CellFormat(0, 6, "Dine-in, Table "+order.TableNumber, "", 1, "L", false, 0, "")
	} else {
		pdf.MultiCell(0, 6, "Deliver to: "+order.Address, "", "L", false)
	}
	pdf.CellFormat(0, 6, "Payment: "+strings.ToUpper(order.PaymentMethod)+"   Status: "+order.Status, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(70, 7, "Item", "B", 0, "L", true, 0, "")
	pdf.CellFormat(15, 7, "Qty", "B", 0, "C", true, 0, "")
	pdf.CellFormat(0, 7, "Amount", "B", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range order.Items {
		pdf.CellFormat(70, 6, it.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(0, 6, utils.FormatINRPlain(it.LineTotal()), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	line := func(label string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(85, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, utils.FormatINRPlain(amount), "", 1, "R", false, 0, "")
	}
	line("Subtotal", order.Subtotal, false)
	if order.IsDelivery() {
		line("Shipping", order.Shipping, false)
	}
	line("Tax", order.Tax, false)
	line("Total", order.Total, true)
	if order.IsDineIn() {
		line("Advance paid", order.AdvancePaid, false)
		line("Remaining due", order.RemainingDue, true)
	}

	if order.SpecialRequests != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, "Special requests: "+order.SpecialRequests, "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Thanks for eating junk with us!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
