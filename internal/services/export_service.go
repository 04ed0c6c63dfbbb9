package services

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"sync"

	"dernek-backend/internal/models"
	"dernek-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// cp1254 covers the Turkish letters for the built-in PDF fonts. The map is
// shipped with the binary so renders never depend on a font directory.
//
//go:embed cp1254.map
var cp1254Map []byte

var (
	cp1254Once sync.Once
	cp1254Tr   func(string) string
)

func turkishPDFTranslator() func(string) string {
	cp1254Once.Do(func() {
		tr, err := gofpdf.UnicodeTranslator(bytes.NewReader(cp1254Map))
		if err != nil {
			tr = func(s string) string { return s }
		}
		cp1254Tr = tr
	})
	return cp1254Tr
}

// MemberLister is the export slice of the member repository
type MemberLister interface {
	List(ctx context.Context, search string) ([]*models.Member, error)
}

// ObligationLister feeds the per-dues report and event exports
type ObligationLister interface {
	Get(ctx context.Context, id int) (*models.MemberObligation, error)
	ListByDues(ctx context.Context, duesID int) ([]*models.MemberObligation, error)
}

// RSVPLister feeds the event participant export
type RSVPLister interface {
	ListRSVPs(ctx context.Context, eventID int) ([]*models.EventRSVP, error)
}

// ExportService renders operator downloads: CSV lists and PDF receipts.
// CSVs carry a UTF-8 BOM so Excel opens Turkish text correctly.
type ExportService struct {
	Members     MemberLister
	Obligations ObligationLister
	Debts       DebtStore
	Events      RSVPLister
}

func NewExportService(members MemberLister, obligations ObligationLister, debts DebtStore, events RSVPLister) *ExportService {
	return &ExportService{
		Members:     members,
		Obligations: obligations,
		Debts:       debts,
		Events:      events,
	}
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MembersCSV exports the registry, optionally filtered by search
func (s *ExportService) MembersCSV(ctx context.Context, search string) ([]byte, error) {
	members, err := s.Members.List(ctx, search)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		active := "evet"
		if !m.IsActive {
			active = "hayır"
		}
		rows = append(rows, []string{
			m.Name, m.Email, m.Phone, m.Address, m.Role, active,
			timeutil.ToTRT(m.CreatedAt).Format(timeutil.DateLayout),
		})
	}
	return writeCSV([]string{"İsim", "E-posta", "Telefon", "Adres", "Rol", "Aktif", "Kayıt Tarihi"}, rows)
}

// DebtorsCSV exports the outstanding-balance list
func (s *ExportService) DebtorsCSV(ctx context.Context) ([]byte, error) {
	debtors, err := s.Debts.DebtorList(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(debtors))
	for _, d := range debtors {
		rows = append(rows, []string{
			d.MemberName, d.MemberEmail, d.Phone,
			fmt.Sprintf("%.2f", d.TotalDebt),
			fmt.Sprintf("%d", d.OpenCount),
		})
	}
	return writeCSV([]string{"İsim", "E-posta", "Telefon", "Toplam Borç", "Açık Kayıt"}, rows)
}

// DuesReportCSV exports every obligation against one dues entry
func (s *ExportService) DuesReportCSV(ctx context.Context, duesID int) ([]byte, error) {
	obligations, err := s.Obligations.ListByDues(ctx, duesID)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(obligations))
	for _, o := range obligations {
		paidAt := ""
		if o.PaidAt != nil {
			paidAt = timeutil.ToTRT(*o.PaidAt).Format(timeutil.DisplayLayout)
		}
		rows = append(rows, []string{
			o.MemberName, o.MemberEmail,
			fmt.Sprintf("%.2f", o.DuesAmount),
			fmt.Sprintf("%.2f", o.PaidAmount),
			fmt.Sprintf("%.2f", o.Remaining()),
			o.Status, o.ReceiptNo, paidAt,
		})
	}
	return writeCSV([]string{"İsim", "E-posta", "Tutar", "Ödenen", "Kalan", "Durum", "Makbuz No", "Ödeme Tarihi"}, rows)
}

// EventParticipantsCSV exports the RSVP list for one event
func (s *ExportService) EventParticipantsCSV(ctx context.Context, eventID int) ([]byte, error) {
	rsvps, err := s.Events.ListRSVPs(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(rsvps))
	for _, r := range rsvps {
		rows = append(rows, []string{
			r.MemberName, r.MemberEmail, r.Status,
			timeutil.ToTRT(r.UpdatedAt).Format(timeutil.DisplayLayout),
		})
	}
	return writeCSV([]string{"İsim", "E-posta", "Durum", "Yanıt Tarihi"}, rows)
}

// ReceiptPDF renders a one-page payment receipt for an obligation
func (s *ExportService) ReceiptPDF(ctx context.Context, obligationID int) ([]byte, error) {
	o, err := s.Obligations.Get(ctx, obligationID)
	if err != nil {
		return nil, ErrObligationNotFound
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := turkishPDFTranslator()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(180, 10, tr("Köy Yardımlaşma Derneği"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(180, 8, tr("Ödeme Makbuzu"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(180, 6, tr(fmt.Sprintf("Düzenleme: %s", timeutil.Now().Format(timeutil.DisplayLayout))), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(180, 8, tr("Makbuz Bilgileri"), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	row := func(label, value string) {
		pdf.CellFormat(60, 7, tr(label), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(120, 7, tr(value), "RB", 1, "L", false, 0, "")
	}
	row("Makbuz No", o.ReceiptNo)
	row("Üye", o.MemberName)
	row("E-posta", o.MemberEmail)
	row("Aidat", o.DuesTitle)
	row("Aidat Tutarı", fmt.Sprintf("%.2f TL", o.DuesAmount))
	row("Ödenen", fmt.Sprintf("%.2f TL", o.PaidAmount))
	row("Kalan", fmt.Sprintf("%.2f TL", o.Remaining()))
	row("Durum", o.Status)
	if o.PaymentMethod != "" {
		row("Ödeme Yöntemi", o.PaymentMethod)
	}
	if o.PaidAt != nil {
		row("Ödeme Tarihi", timeutil.ToTRT(*o.PaidAt).Format(timeutil.DisplayLayout))
	}
	if o.Notes != "" {
		row("Not", o.Notes)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// DebtorsPDF renders the outstanding-balance list as a printable table
func (s *ExportService) DebtorsPDF(ctx context.Context) ([]byte, error) {
	debtors, err := s.Debts.DebtorList(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := turkishPDFTranslator()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, tr("Borçlu Üyeler Listesi"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 6, tr(fmt.Sprintf("Düzenleme: %s", timeutil.Now().Format(timeutil.DisplayLayout))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(55, 7, tr("İsim"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, tr("E-posta"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, tr("Telefon"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, tr("Toplam Borç"), "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	var total float64
	for _, d := range debtors {
		pdf.CellFormat(55, 6, tr(d.MemberName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, tr(d.MemberEmail), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, tr(d.Phone), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f TL", d.TotalDebt), "1", 1, "R", false, 0, "")
		total += d.TotalDebt
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(150, 7, tr("Genel Toplam"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, fmt.Sprintf("%.2f TL", total), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render debtors pdf: %w", err)
	}
	return buf.Bytes(), nil
}
