package service

import (
	"context"
	"log/slog"
	"time"

	"printshop-backend/internal/domain"
)

// InstallmentService owns splitting a payable into dated rows and the
// later per-row and whole-purchase mutations. A purchase is just the
// set of rows created together; they share supplier, description and
// total amount but no foreign key.
type InstallmentService struct {
	Installments InstallmentStore
	Logger       *slog.Logger

	Now func() time.Time
}

type SplitPurchaseInput struct {
	TotalAmount  domain.Money
	Count        int
	FirstDueDate time.Time
	// DueDates overrides the monthly schedule when the caller supplies
	// one date per installment.
	DueDates     []time.Time
	SupplierID   *int64
	SupplierName string
	Description  string
	Category     string
	Notes        string
}

type EditInstallmentInput struct {
	SupplierID   *int64
	SupplierName *string
	Description  *string
	Category     *string
	Amount       *domain.Money
	DueDate      *time.Time
	Notes        *string
}

type ReplanPurchaseInput struct {
	IDs            []int64
	NewTotalAmount *domain.Money
	NewCount       *int
	NewDates       []time.Time
	CommonEdits    EditInstallmentInput
	// RowOverrides applies per-row amount/due-date changes on the
	// edit-only path, keyed by installment id.
	RowOverrides map[int64]RowOverride
}

type RowOverride struct {
	Amount  *domain.Money
	DueDate *time.Time
}

func (s InstallmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SplitPurchase creates count rows whose amounts sum to the total
// exactly: rows 1..n-1 take the floored even share, the last row
// absorbs the division remainder.
func (s InstallmentService) SplitPurchase(ctx context.Context, in SplitPurchaseInput) ([]domain.PendingInstallment, error) {
	if !in.TotalAmount.IsPositive() {
		return nil, domain.Validationf("total amount must be positive")
	}
	if in.Count < 1 {
		return nil, domain.Validationf("installment count must be at least 1")
	}
	if len(in.DueDates) > 0 && len(in.DueDates) != in.Count {
		return nil, domain.Validationf("expected %d due dates, got %d", in.Count, len(in.DueDates))
	}

	amounts := in.TotalAmount.Split(in.Count)
	now := s.now()
	rows := make([]domain.PendingInstallment, in.Count)
	for i := 0; i < in.Count; i++ {
		due := in.FirstDueDate.AddDate(0, i, 0)
		if len(in.DueDates) > 0 {
			due = in.DueDates[i]
		}
		rows[i] = domain.PendingInstallment{
			SupplierID:        in.SupplierID,
			SupplierName:      in.SupplierName,
			Description:       in.Description,
			Category:          in.Category,
			InstallmentNumber: i + 1,
			TotalInstallments: in.Count,
			Amount:            amounts[i],
			TotalAmount:       in.TotalAmount,
			DueDate:           due,
			Notes:             in.Notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}

	created, err := s.Installments.CreateBatch(ctx, rows)
	if err != nil {
		return nil, domain.StoreErr("create installments", err)
	}
	return created, nil
}

// PayInstallment marks one row paid. Paying an already-paid row is a
// no-op, so a double-tap never double-counts in pending totals.
func (s InstallmentService) PayInstallment(ctx context.Context, id int64) (*domain.PendingInstallment, error) {
	row, err := s.Installments.Get(ctx, id)
	if err != nil {
		return nil, domain.StoreErr("load installment", err)
	}
	if row.Paid {
		return row, nil
	}
	now := s.now()
	row.Paid = true
	row.PaidAt = &now
	row.UpdatedAt = now
	if err := s.Installments.Update(ctx, row); err != nil {
		return nil, domain.StoreErr("pay installment", err)
	}
	return row, nil
}

// EditInstallment updates one row in place without touching siblings.
// Changing an amount can break the purchase-sum invariant; that is
// accepted and logged, not rejected.
func (s InstallmentService) EditInstallment(ctx context.Context, id int64, in EditInstallmentInput) (*domain.PendingInstallment, error) {
	row, err := s.Installments.Get(ctx, id)
	if err != nil {
		return nil, domain.StoreErr("load installment", err)
	}

	if in.Amount != nil && in.Amount.Cents != row.Amount.Cents && s.Logger != nil {
		s.Logger.Warn("installment edit changes purchase sum",
			"installmentId", row.ID,
			"oldAmount", row.Amount.Decimal(),
			"newAmount", in.Amount.Decimal(),
			"purchaseTotal", row.TotalAmount.Decimal())
	}
	applyEdits(row, in)
	row.UpdatedAt = s.now()

	if err := s.Installments.Update(ctx, row); err != nil {
		return nil, domain.StoreErr("edit installment", err)
	}
	return row, nil
}

// ReplanPurchase either regenerates the whole purchase (when the total
// or count changes: delete every named row and re-split, losing
// installment identities and paid flags) or applies field edits to the
// named rows without any invariant re-check.
func (s InstallmentService) ReplanPurchase(ctx context.Context, in ReplanPurchaseInput) ([]domain.PendingInstallment, error) {
	if len(in.IDs) == 0 {
		return nil, domain.Validationf("no installments named")
	}

	rows, err := s.Installments.GetBatch(ctx, in.IDs)
	if err != nil {
		return nil, domain.StoreErr("load installments", err)
	}
	if len(rows) == 0 {
		return nil, domain.NotFoundf("installments %v not found", in.IDs)
	}

	if in.NewTotalAmount != nil || in.NewCount != nil {
		return s.regenerate(ctx, rows, in)
	}

	out := make([]domain.PendingInstallment, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		applyEdits(row, in.CommonEdits)
		if ov, ok := in.RowOverrides[row.ID]; ok {
			if ov.Amount != nil {
				row.Amount = *ov.Amount
			}
			if ov.DueDate != nil {
				row.DueDate = *ov.DueDate
			}
		}
		row.UpdatedAt = s.now()
		if err := s.Installments.Update(ctx, row); err != nil {
			return nil, domain.StoreErr("update installment", err)
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s InstallmentService) regenerate(ctx context.Context, rows []domain.PendingInstallment, in ReplanPurchaseInput) ([]domain.PendingInstallment, error) {
	template := rows[0]
	firstDue := rows[0].DueDate
	paidCount := 0
	for _, r := range rows {
		if r.InstallmentNumber < template.InstallmentNumber {
			template = r
		}
		if r.DueDate.Before(firstDue) {
			firstDue = r.DueDate
		}
		if r.Paid {
			paidCount++
		}
	}

	total := template.TotalAmount
	if in.NewTotalAmount != nil {
		total = *in.NewTotalAmount
	}
	count := template.TotalInstallments
	if in.NewCount != nil {
		count = *in.NewCount
	}

	// The delete below is irreversible, so every split precondition is
	// checked first; a bad replan must leave the purchase untouched.
	if !total.IsPositive() {
		return nil, domain.Validationf("total amount must be positive")
	}
	if count < 1 {
		return nil, domain.Validationf("installment count must be at least 1")
	}
	if len(in.NewDates) > 0 && len(in.NewDates) != count {
		return nil, domain.Validationf("expected %d due dates, got %d", count, len(in.NewDates))
	}

	if paidCount > 0 && s.Logger != nil {
		s.Logger.Warn("replanning discards paid installments",
			"purchase", template.Description,
			"paidRowsDiscarded", paidCount)
	}

	split := SplitPurchaseInput{
		TotalAmount:  total,
		Count:        count,
		FirstDueDate: firstDue,
		DueDates:     in.NewDates,
		SupplierID:   template.SupplierID,
		SupplierName: template.SupplierName,
		Description:  template.Description,
		Category:     template.Category,
		Notes:        template.Notes,
	}
	e := in.CommonEdits
	if e.SupplierID != nil {
		split.SupplierID = e.SupplierID
	}
	if e.SupplierName != nil {
		split.SupplierName = *e.SupplierName
	}
	if e.Description != nil {
		split.Description = *e.Description
	}
	if e.Category != nil {
		split.Category = *e.Category
	}
	if e.Notes != nil {
		split.Notes = *e.Notes
	}

	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if err := s.Installments.DeleteBatch(ctx, ids); err != nil {
		return nil, domain.StoreErr("delete installments", err)
	}
	return s.SplitPurchase(ctx, split)
}

// DeletePurchase removes the named rows. The originating expense
// record, if any, is untouched.
func (s InstallmentService) DeletePurchase(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return domain.Validationf("no installments named")
	}
	if err := s.Installments.DeleteBatch(ctx, ids); err != nil {
		return domain.StoreErr("delete installments", err)
	}
	return nil
}

func applyEdits(row *domain.PendingInstallment, in EditInstallmentInput) {
	if in.SupplierID != nil {
		row.SupplierID = in.SupplierID
	}
	if in.SupplierName != nil {
		row.SupplierName = *in.SupplierName
	}
	if in.Description != nil {
		row.Description = *in.Description
	}
	if in.Category != nil {
		row.Category = *in.Category
	}
	if in.Amount != nil {
		row.Amount = *in.Amount
	}
	if in.DueDate != nil {
		row.DueDate = *in.DueDate
	}
	if in.Notes != nil {
		row.Notes = *in.Notes
	}
}
