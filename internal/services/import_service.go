package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dernek-backend/internal/auth"
	"dernek-backend/internal/metrics"
	"dernek-backend/internal/models"
	"dernek-backend/internal/timeutil"
)

// Import batch kinds
const (
	ImportDebts    = "debts"
	ImportPayments = "payments"
	ImportMembers  = "members"
)

// Header synonyms, matched case-insensitively by substring. Operators upload
// spreadsheets with Turkish or English headers and we accept both. Order
// matters: "adres" must be tried before the name synonym "ad" grabs it.
var headerSynonyms = []struct {
	field    string
	synonyms []string
}{
	{"amount", []string{"tutar", "amount"}},
	{"email", []string{"eposta", "e-posta", "email", "mail"}},
	{"title", []string{"başlık", "baslik", "title", "açıklama"}},
	{"date", []string{"tarih", "date"}},
	{"password", []string{"şifre", "sifre", "password"}},
	{"phone", []string{"telefon", "phone"}},
	{"address", []string{"adres", "address"}},
	{"name", []string{"isim", "ad", "name"}},
}

// ImportService runs bulk CSV uploads. Rows are processed strictly in file
// order; a bad row is tallied and skipped, never aborts the batch. There is
// no cancellation of a started batch and no retry of failed rows.
type ImportService struct {
	Members     MemberStore
	Dues        DuesStore
	Obligations ObligationStore
	Payments    *PaymentService
}

func NewImportService(members MemberStore, dues DuesStore, obligations ObligationStore, payments *PaymentService) *ImportService {
	return &ImportService{
		Members:     members,
		Dues:        dues,
		Obligations: obligations,
		Payments:    payments,
	}
}

// columnIndex maps logical field names to CSV column positions
type columnIndex map[string]int

// Dotted and dotless I lower differently in Turkish; strings.ToLower alone
// turns "İsim" into "i̇sim" with a combining dot that breaks substring match
var turkishLower = strings.NewReplacer("İ", "i", "I", "ı")

func matchHeaders(header []string) columnIndex {
	idx := columnIndex{}
	for i, col := range header {
		normalized := strings.ToLower(turkishLower.Replace(strings.TrimSpace(col)))
		for _, entry := range headerSynonyms {
			if _, seen := idx[entry.field]; seen {
				continue
			}
			claimed := false
			for _, syn := range entry.synonyms {
				if strings.Contains(normalized, syn) {
					idx[entry.field] = i
					claimed = true
					break
				}
			}
			if claimed {
				break
			}
		}
	}
	return idx
}

func (c columnIndex) get(record []string, field string) string {
	i, ok := c[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c columnIndex) require(fields ...string) error {
	var missing []string
	for _, f := range fields {
		if _, ok := c[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required column(s) not found in header: %s", strings.Join(missing, ", "))
	}
	return nil
}

// parseAmount accepts both "1.234,56" (Turkish) and "1234.56"
func parseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}

// Run parses the CSV and dispatches each row according to kind. The header
// row must resolve all required columns or the whole upload is rejected
// before any row is touched; after that, failures are per-row.
func (s *ImportService) Run(ctx context.Context, kind string, r io.Reader) (*models.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	// Strip a UTF-8 BOM exported by Excel
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	cols := matchHeaders(header)

	switch kind {
	case ImportDebts:
		if err := cols.require("email", "title", "amount"); err != nil {
			return nil, err
		}
	case ImportPayments:
		if err := cols.require("email", "amount"); err != nil {
			return nil, err
		}
	case ImportMembers:
		if err := cols.require("name", "email", "password"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown import kind %q", kind)
	}

	result := &models.ImportResult{Errors: []string{}}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			s.fail(result, kind, line, err)
			continue
		}
		if isBlank(record) {
			continue
		}

		switch kind {
		case ImportDebts:
			err = s.importDebtRow(ctx, cols, record)
		case ImportPayments:
			err = s.importPaymentRow(ctx, cols, record)
		case ImportMembers:
			err = s.importMemberRow(ctx, cols, record)
		}
		if err != nil {
			s.fail(result, kind, line, err)
			continue
		}
		result.SuccessCount++
		metrics.ImportRowsProcessed.WithLabelValues(kind, "ok").Inc()
	}
	return result, nil
}

func (s *ImportService) fail(result *models.ImportResult, kind string, line int, err error) {
	result.FailCount++
	result.Errors = append(result.Errors, fmt.Sprintf("satır %d: %v", line, err))
	metrics.ImportRowsProcessed.WithLabelValues(kind, "error").Inc()
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// importDebtRow creates a dues entry plus a zero-paid obligation for the
// member. Each row gets its own dues entry even when titles repeat, matching
// how the books record individually assessed charges.
func (s *ImportService) importDebtRow(ctx context.Context, cols columnIndex, record []string) error {
	emailAddr := cols.get(record, "email")
	member, err := s.Members.GetByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("member %q not found", emailAddr)
	}

	amount, err := parseAmount(cols.get(record, "amount"))
	if err != nil {
		return err
	}

	dues := &models.Dues{
		Title:      cols.get(record, "title"),
		Amount:     amount,
		PeriodYear: timeutil.Now().Year(),
	}
	if raw := cols.get(record, "date"); raw != "" {
		if due, perr := timeutil.ParseInTRT(timeutil.DateLayout, raw); perr == nil {
			dues.DueDate = &due
		}
	}
	if err := s.Dues.Create(ctx, dues); err != nil {
		return err
	}

	obligation := &models.MemberObligation{
		MemberID: member.ID,
		DuesID:   dues.ID,
		Status:   models.ObligationPending,
	}
	return s.Obligations.Create(ctx, obligation)
}

// importPaymentRow posts the amount against the member's oldest open
// obligation, oldest-by-created-at across all dues entries. A member with
// nothing open is a row failure.
func (s *ImportService) importPaymentRow(ctx context.Context, cols columnIndex, record []string) error {
	emailAddr := cols.get(record, "email")
	member, err := s.Members.GetByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("member %q not found", emailAddr)
	}

	amount, err := parseAmount(cols.get(record, "amount"))
	if err != nil {
		return err
	}

	open, err := s.Obligations.FindOldestOpenByMember(ctx, member.ID)
	if err != nil {
		return err
	}
	if open == nil {
		return fmt.Errorf("member %q has no open obligation", emailAddr)
	}

	_, err = s.Payments.PostPayment(ctx, &models.PostPaymentRequest{
		MemberID:      member.ID,
		DuesID:        open.DuesID,
		Amount:        amount,
		PaymentMethod: "toplu aktarım",
	})
	return err
}

func (s *ImportService) importMemberRow(ctx context.Context, cols columnIndex, record []string) error {
	emailAddr := cols.get(record, "email")
	if emailAddr == "" {
		return fmt.Errorf("empty email")
	}
	if existing, _ := s.Members.GetByEmail(ctx, emailAddr); existing != nil {
		return fmt.Errorf("member %q already exists", emailAddr)
	}

	password := cols.get(record, "password")
	if password == "" {
		return fmt.Errorf("empty password")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	member := &models.Member{
		Name:         cols.get(record, "name"),
		Email:        strings.ToLower(emailAddr),
		Phone:        cols.get(record, "phone"),
		Address:      cols.get(record, "address"),
		PasswordHash: hash,
		Role:         models.RoleMember,
		IsActive:     true,
	}
	return s.Members.Create(ctx, member)
}
