package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"dernek-backend/internal/cache"
	"dernek-backend/internal/email"
	"dernek-backend/internal/metrics"
	"dernek-backend/internal/models"
	"dernek-backend/internal/timeutil"
)

var (
	ErrInvalidAmount      = errors.New("payment amount must be positive")
	ErrObligationNotFound = errors.New("obligation not found")
	ErrDuesNotFound       = errors.New("dues entry not found")
	ErrMemberNotFound     = errors.New("member not found")
)

// ObligationStore is the slice of the obligation repository the payment
// poster needs. Satisfied by *repositories.ObligationRepository.
type ObligationStore interface {
	GenerateReceiptNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, o *models.MemberObligation) error
	Get(ctx context.Context, id int) (*models.MemberObligation, error)
	FindOldestOpen(ctx context.Context, memberID, duesID int) (*models.MemberObligation, error)
	FindOldestOpenByMember(ctx context.Context, memberID int) (*models.MemberObligation, error)
	UpdatePayment(ctx context.Context, o *models.MemberObligation) error
	Delete(ctx context.Context, id int) error
}

// DuesStore resolves dues catalog entries for the reference amount
type DuesStore interface {
	Get(ctx context.Context, id int) (*models.Dues, error)
	Create(ctx context.Context, d *models.Dues) error
}

// MemberStore resolves members for receipt delivery and import lookups
type MemberStore interface {
	Get(ctx context.Context, id int) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	Create(ctx context.Context, m *models.Member) error
}

// TransactionStore records the treasury side of a posted payment
type TransactionStore interface {
	Create(ctx context.Context, t *models.Transaction) error
}

// Publisher pushes change-feed events to connected dashboards
type Publisher interface {
	Publish(eventType string, payload interface{})
}

// PaymentService applies payments to member obligations. Posting is additive
// against the oldest open obligation for the (member, dues) pair; editing
// replaces the stored amount outright.
type PaymentService struct {
	Obligations  ObligationStore
	Dues         DuesStore
	Members      MemberStore
	Transactions TransactionStore
	Email        email.Provider
	Hub          Publisher
	now          func() time.Time
}

func NewPaymentService(obligations ObligationStore, dues DuesStore, members MemberStore,
	transactions TransactionStore, provider email.Provider, hub Publisher) *PaymentService {
	return &PaymentService{
		Obligations:  obligations,
		Dues:         dues,
		Members:      members,
		Transactions: transactions,
		Email:        provider,
		Hub:          hub,
		now:          timeutil.Now,
	}
}

// PostPayment records a payment of req.Amount for (member, dues). If an open
// obligation exists for the pair it is continued additively; otherwise a new
// obligation row is created. Status flips to paid exactly when the running
// total reaches the dues amount; once paid, a row is never reopened, so a
// later payment for the same pair starts a fresh row.
//
// Reads and the final write are separate statements with no version guard.
// Two operators posting against the same obligation can both read the same
// paid_amount and the second write wins. Accepted, matches how the books are
// actually kept (one treasurer at a time).
func (s *PaymentService) PostPayment(ctx context.Context, req *models.PostPaymentRequest) (*models.MemberObligation, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	dues, err := s.Dues.Get(ctx, req.DuesID)
	if err != nil {
		dues = nil
	}

	existing, err := s.Obligations.FindOldestOpen(ctx, req.MemberID, req.DuesID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up open obligation: %w", err)
	}
	if dues == nil {
		if existing == nil {
			return nil, ErrDuesNotFound
		}
		// Orphaned continuation: the catalog entry was deleted, so the
		// reference amount is 0 and any payment settles the row
		dues = &models.Dues{ID: req.DuesID}
	}

	receiptNo := req.ReceiptNo
	if receiptNo == "" {
		receiptNo, err = s.Obligations.GenerateReceiptNumber(ctx)
		if err != nil {
			return nil, err
		}
	}

	var obligation *models.MemberObligation
	if existing != nil {
		// Continuation: add to the running total, keep prior notes and
		// receipt number unless the caller supplied replacements
		existing.PaidAmount += req.Amount
		existing.Status = deriveStatus(existing.PaidAmount, dues.Amount)
		if existing.Status == models.ObligationPaid {
			now := s.now()
			existing.PaidAt = &now
		}
		if req.PaymentMethod != "" {
			existing.PaymentMethod = req.PaymentMethod
		}
		if req.Notes != "" {
			existing.Notes = req.Notes
		}
		if req.ReceiptNo != "" || existing.ReceiptNo == "" {
			existing.ReceiptNo = receiptNo
		}
		if err := s.Obligations.UpdatePayment(ctx, existing); err != nil {
			return nil, err
		}
		obligation = existing
	} else {
		obligation = &models.MemberObligation{
			MemberID:      req.MemberID,
			DuesID:        req.DuesID,
			PaidAmount:    req.Amount,
			Status:        deriveStatus(req.Amount, dues.Amount),
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			ReceiptNo:     receiptNo,
		}
		if obligation.Status == models.ObligationPaid {
			now := s.now()
			obligation.PaidAt = &now
		}
		if err := s.Obligations.Create(ctx, obligation); err != nil {
			return nil, err
		}
	}
	obligation.DuesTitle = dues.Title
	obligation.DuesAmount = dues.Amount

	metrics.PaymentsPosted.Inc()
	cache.InvalidateDebtSummaries(ctx, req.MemberID)

	s.recordIncome(ctx, obligation, dues, req.Amount, req.PostedBy)

	// Receipt email is fire-and-forget: the payment is durably recorded
	// whether or not the notification goes out
	go s.sendReceipt(obligation, dues, req.Amount)

	if s.Hub != nil {
		s.Hub.Publish("payment_posted", obligation)
	}
	return obligation, nil
}

// EditPayment replaces the stored paid amount outright and re-derives status
// from the edited total. Any admin may edit; only root may delete.
func (s *PaymentService) EditPayment(ctx context.Context, id int, req *models.EditPaymentRequest) (*models.MemberObligation, error) {
	if req.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	obligation, err := s.Obligations.Get(ctx, id)
	if err != nil {
		return nil, ErrObligationNotFound
	}

	dues, err := s.Dues.Get(ctx, obligation.DuesID)
	refAmount := obligation.DuesAmount
	if err == nil {
		refAmount = dues.Amount
	}

	obligation.PaidAmount = req.Amount
	obligation.Status = deriveStatus(req.Amount, refAmount)
	if obligation.Status == models.ObligationPaid {
		if obligation.PaidAt == nil {
			now := s.now()
			obligation.PaidAt = &now
		}
	} else {
		obligation.PaidAt = nil
	}
	if req.PaymentMethod != "" {
		obligation.PaymentMethod = req.PaymentMethod
	}
	if req.Notes != "" {
		obligation.Notes = req.Notes
	}
	if req.ReceiptNo != "" {
		obligation.ReceiptNo = req.ReceiptNo
	}

	if err := s.Obligations.UpdatePayment(ctx, obligation); err != nil {
		return nil, err
	}
	cache.InvalidateDebtSummaries(ctx, obligation.MemberID)
	return obligation, nil
}

// DeletePayment removes an obligation row. The handler restricts this to the
// root role.
func (s *PaymentService) DeletePayment(ctx context.Context, id int) error {
	obligation, err := s.Obligations.Get(ctx, id)
	if err != nil {
		return ErrObligationNotFound
	}
	if err := s.Obligations.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateDebtSummaries(ctx, obligation.MemberID)
	return nil
}

// deriveStatus implements the one status rule in the ledger: paid exactly
// when the running total reaches the reference amount. Editing the dues
// amount later does not re-run this rule over existing rows.
func deriveStatus(paidAmount, duesAmount float64) string {
	if paidAmount >= duesAmount {
		return models.ObligationPaid
	}
	return models.ObligationPending
}

// recordIncome mirrors the posted payment into the treasury book.
// Best-effort: a failed transaction insert is logged, not surfaced, since the
// obligation write already succeeded.
func (s *PaymentService) recordIncome(ctx context.Context, o *models.MemberObligation, dues *models.Dues, amount float64, postedBy int) {
	if s.Transactions == nil {
		return
	}
	if postedBy == 0 {
		postedBy = o.MemberID
	}
	refID := o.ID
	txn := &models.Transaction{
		TxnType:       models.TxnIncome,
		Category:      "dues",
		Amount:        amount,
		Description:   fmt.Sprintf("%s - makbuz %s", dues.Title, o.ReceiptNo),
		OccurredOn:    s.now(),
		ReferenceType: models.RefDuesPayment,
		ReferenceID:   &refID,
		CreatedBy:     postedBy,
	}
	if err := s.Transactions.Create(ctx, txn); err != nil {
		log.Printf("[Payment] Failed to record income transaction for obligation %d: %v", o.ID, err)
	}
}

func (s *PaymentService) sendReceipt(o *models.MemberObligation, dues *models.Dues, amount float64) {
	if s.Email == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	member, err := s.Members.Get(ctx, o.MemberID)
	if err != nil || member.Email == "" {
		return
	}

	remaining := dues.Amount - o.PaidAmount
	if remaining < 0 {
		remaining = 0
	}
	html := fmt.Sprintf(`
		<h2>Ödeme Makbuzu</h2>
		<p>Sayın %s,</p>
		<p><b>%s</b> aidatı için %.2f TL ödemeniz kaydedilmiştir.</p>
		<table>
			<tr><td>Makbuz No</td><td>%s</td></tr>
			<tr><td>Toplam Ödenen</td><td>%.2f TL</td></tr>
			<tr><td>Kalan Borç</td><td>%.2f TL</td></tr>
			<tr><td>Tarih</td><td>%s</td></tr>
		</table>
		<p>Teşekkür ederiz.</p>
	`, member.Name, dues.Title, amount, o.ReceiptNo, o.PaidAmount, remaining,
		timeutil.Now().Format(timeutil.DisplayLayout))

	msg := email.Message{
		To:            member.Email,
		RecipientName: member.Name,
		Subject:       fmt.Sprintf("Ödeme Makbuzu - %s", o.ReceiptNo),
		HTML:          html,
	}
	if err := s.Email.Send(ctx, msg); err != nil {
		log.Printf("[Payment] Receipt email to %s failed: %v", member.Email, err)
	}
}
