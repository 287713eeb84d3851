// Package payslip renders monthly payslips as PDF documents.
package payslip

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

var frenchMonths = []string{"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre"}

// MonthName returns the French name of m.
func MonthName(m time.Month) string {
	return frenchMonths[m-1]
}

type Line struct {
	Label  string
	Count  int
	Amount decimal.Decimal
	Note   string
}

// Data is everything printed on a payslip.
type Data struct {
	EmployeeNumber int64
	LastName       string
	FirstName      string
	Post           string
	Month          time.Month
	Year           int

	Absences        int
	LateCount       int
	Departures      int
	Deductions      []Line
	BaseSalary      decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	Currency        string
	IssuedAt        time.Time
}

// Filename is the stored name of the payslip, unique per employee and month.
func (d Data) Filename() string {
	return fmt.Sprintf("fiche_de_paie_%04d_%04d_%02d.pdf", d.EmployeeNumber, d.Year, int(d.Month))
}

// VerificationCode is the text encoded in the payslip QR code.
func (d Data) VerificationCode() string {
	return fmt.Sprintf("PAIE|%04d|%04d-%02d|%s|%s", d.EmployeeNumber, d.Year, int(d.Month),
		d.NetSalary.StringFixed(0), d.Currency)
}

// Render builds the PDF document.
func Render(d Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Fiche de paie"), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, tr("Fiche de paie"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Mois : %s %d", MonthName(d.Month), d.Year)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	section := func(title string) {
		pdf.SetFont("Arial", "BU", 14)
		pdf.Cell(0, 9, tr(title))
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 11)
	}
	row := func(label, value string) {
		pdf.Cell(70, 7, tr(label))
		pdf.Cell(0, 7, tr(value))
		pdf.Ln(7)
	}

	section("Informations sur l'employé")
	row("Nom", strings.TrimSpace(d.LastName+" "+d.FirstName))
	row("Poste", d.Post)
	row("Numéro employé", fmt.Sprintf("%d", d.EmployeeNumber))
	pdf.Ln(4)

	section("Performances")
	row("Absences", fmt.Sprintf("%d jour(s)", d.Absences))
	row("Retards notifiables", fmt.Sprintf("%d", d.LateCount))
	row("Sorties non justifiées", fmt.Sprintf("%d fois", d.Departures))
	pdf.Ln(4)

	if len(d.Deductions) > 0 {
		section("Déductions")
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(80, 7, tr("Motif"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, tr("Nombre"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 7, tr("Montant"), "1", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		for _, l := range d.Deductions {
			pdf.CellFormat(80, 7, tr(l.Label), "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 7, fmt.Sprintf("%d", l.Count), "1", 0, "C", false, 0, "")
			pdf.CellFormat(45, 7, tr(FormatAmount(l.Amount)+" "+d.Currency), "1", 1, "R", false, 0, "")
			if l.Note != "" {
				pdf.SetFont("Arial", "I", 9)
				pdf.MultiCell(150, 5, tr(l.Note), "", "L", false)
				pdf.SetFont("Arial", "", 11)
			}
		}
		pdf.Ln(4)
	}

	section("Salaire")
	row("Salaire de base", FormatAmount(d.BaseSalary)+" "+d.Currency)
	row("Déduction", FormatAmount(d.TotalDeductions)+" "+d.Currency)
	pdf.SetFont("Arial", "B", 11)
	row("Salaire net", FormatAmount(d.NetSalary)+" "+d.Currency)
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("Arrêté à la somme de %s Ariary", AmountInWords(d.NetSalary.IntPart()))), "", "L", false)

	code, err := qrcode.Encode(d.VerificationCode(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payslip QR code: %w", err)
	}
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("verification", opt, bytes.NewReader(code))
	pdf.ImageOptions("verification", 160, 250, 35, 35, false, opt, 0, "")

	pdf.SetY(270)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Édité le %s", d.IssuedAt.Format("02/01/2006 15:04"))))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatAmount groups thousands with spaces, French style: 480 000.
func FormatAmount(amount decimal.Decimal) string {
	digits := amount.Abs().StringFixed(0)
	var b strings.Builder
	if amount.IsNegative() && digits != "0" {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
