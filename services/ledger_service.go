package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/leaguetab/leaguetab-backend/models"
	"github.com/leaguetab/leaguetab-backend/repository"
	"github.com/leaguetab/leaguetab-backend/utils"
)

// LedgerStore is the persistence port the debt ledger needs from the
// surrounding system. IncrementManualBalance must be an atomic increment
// at the storage layer; SetChargeStatus must be a compare-and-set on the
// prior status.
type LedgerStore interface {
	GetCharge(chargeID string) (*models.Charge, error)
	ListPendingCharges(playerID string, groupID string) ([]models.Charge, error)
	GetManualBalance(playerID string) (decimal.Decimal, error)
	SetChargeStatus(chargeID string, fromStatus string, toStatus string) (bool, error)
	IncrementManualBalance(playerID string, delta decimal.Decimal) (decimal.Decimal, error)
}

// LedgerService computes player balances and applies payments against
// outstanding charges. All mutable ledger state lives behind the store;
// the service keeps no cache of its own.
type LedgerService struct {
	store LedgerStore
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store LedgerStore) *LedgerService {
	return &LedgerService{store: store}
}

// ComputeBalance computes the balance breakdown from a manual balance
// and a set of pending charges. Pure function; the caller is responsible
// for passing pending charges only.
func (s *LedgerService) ComputeBalance(manualBalance decimal.Decimal, pendingCharges []models.Charge) models.LedgerBalance {
	matchesDebt := decimal.Zero
	for _, charge := range pendingCharges {
		matchesDebt = matchesDebt.Add(charge.Amount)
	}

	return models.LedgerBalance{
		MatchesDebt: matchesDebt,
		ManualDebt:  manualBalance,
		TotalDebt:   matchesDebt.Add(manualBalance),
	}
}

// GetPlayerDebts loads a player's ledger view. A non-empty groupID
// restricts the charges to that group; the manual balance is global.
func (s *LedgerService) GetPlayerDebts(playerID string, groupID string) (*models.PlayerDebts, error) {
	if err := utils.ValidateRequired(playerID, "playerId"); err != nil {
		return nil, err
	}

	manualBalance, err := s.store.GetManualBalance(playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("Player")
		}
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}

	pending, err := s.store.ListPendingCharges(playerID, groupID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	sortChargesOldestFirst(pending)

	balance := s.ComputeBalance(manualBalance, pending)

	if pending == nil {
		pending = []models.Charge{}
	}

	return &models.PlayerDebts{
		PlayerID:       playerID,
		GroupID:        groupID,
		MatchesDebt:    balance.MatchesDebt,
		ManualDebt:     balance.ManualDebt,
		TotalDebt:      balance.TotalDebt,
		PendingCharges: pending,
	}, nil
}

// SettleCharge transitions a single charge to an explicit target status.
// A retried call whose charge already holds the target status is a
// no-op, not a double toggle. The manual balance is never touched here.
func (s *LedgerService) SettleCharge(chargeID string, targetStatus string) (*models.Charge, error) {
	if err := utils.ValidateRequired(chargeID, "chargeId"); err != nil {
		return nil, err
	}
	if err := utils.ValidateChargeStatus(targetStatus); err != nil {
		return nil, err
	}

	fromStatus := utils.ChargeStatusPending
	if targetStatus == utils.ChargeStatusPending {
		fromStatus = utils.ChargeStatusPaid
	}

	if _, err := s.store.SetChargeStatus(chargeID, fromStatus, targetStatus); err != nil {
		return nil, utils.NewInternalError("Failed to update charge status")
	}

	// Re-read so the caller sees the store's acknowledged state, whether
	// the write landed or the charge was already at the target.
	charge, err := s.store.GetCharge(chargeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("Charge")
		}
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}

	return charge, nil
}

// AdjustManualBalance applies a signed delta to a player's manual
// balance. A debt-reducing delta for a player who still has pending
// charges is rejected unless the caller confirmed a manual-only
// adjustment, so a payment meant to clear match charges is not silently
// recorded as manual.
func (s *LedgerService) AdjustManualBalance(playerID string, delta decimal.Decimal, manualOnly bool) (decimal.Decimal, error) {
	if err := utils.ValidateRequired(playerID, "playerId"); err != nil {
		return decimal.Zero, err
	}
	delta = utils.RoundMoney(delta)
	if delta.IsZero() {
		return decimal.Zero, utils.NewValidationError("delta cannot be zero")
	}

	if delta.IsNegative() && !manualOnly {
		pending, err := s.store.ListPendingCharges(playerID, "")
		if err != nil {
			return decimal.Zero, utils.NewInternalError(utils.ErrFailedToRetrieve)
		}
		if len(pending) > 0 {
			return decimal.Zero, utils.NewConflictError(fmt.Sprintf(
				"player has %d pending charges; use a smart payment or confirm a manual-only adjustment", len(pending)))
		}
	}

	balance, err := s.store.IncrementManualBalance(playerID, delta)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return decimal.Zero, utils.NewNotFoundError("Player")
		}
		return decimal.Zero, utils.NewInternalError("Failed to adjust manual balance")
	}

	return balance, nil
}

// ProcessSmartPayment applies a lump payment against a player's pending
// charges, oldest first, settling each charge whole or not at all. Any
// remainder reduces the manual balance and may drive it negative
// (credit). A non-empty groupID restricts the eligible charges to that
// group.
//
// A write failure mid-loop does not roll back charges already settled;
// the result reports which charges succeeded, which failed, and the
// amount not yet applied, for manual reconciliation.
func (s *LedgerService) ProcessSmartPayment(playerID string, amount decimal.Decimal, groupID string) (*models.SettlementResult, error) {
	if err := utils.ValidateRequired(playerID, "playerId"); err != nil {
		return nil, err
	}
	amount = utils.RoundMoney(amount)
	if err := utils.ValidatePositiveAmount(amount, "amount"); err != nil {
		return nil, err
	}

	// Existence check before any mutation
	manualBalance, err := s.store.GetManualBalance(playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("Player")
		}
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}

	pending, err := s.store.ListPendingCharges(playerID, groupID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	sortChargesOldestFirst(pending)

	result := &models.SettlementResult{
		PlayerID:         playerID,
		PaidChargeIDs:    []string{},
		AppliedToCharges: decimal.Zero,
		AppliedToManual:  decimal.Zero,
		Unapplied:        decimal.Zero,
		ManualBalance:    manualBalance,
	}

	remaining := amount
	for _, charge := range pending {
		if remaining.IsZero() {
			break
		}
		if remaining.LessThan(charge.Amount) {
			// Charges are atomic: no partial payment of a single charge
			break
		}

		applied, err := s.store.SetChargeStatus(charge.ID, utils.ChargeStatusPending, utils.ChargeStatusPaid)
		if err != nil {
			// Already-settled charges stay settled; reversing a charge a
			// human may believe is paid is worse than reporting the
			// inconsistency.
			result.FailedChargeIDs = append(result.FailedChargeIDs, charge.ID)
			result.Partial = true
			result.Unapplied = remaining
			return result, nil
		}
		if !applied {
			// Lost a race with a manual settle. Nothing was deducted for
			// this charge, so the money moves on to the next one.
			continue
		}

		result.PaidChargeIDs = append(result.PaidChargeIDs, charge.ID)
		result.AppliedToCharges = result.AppliedToCharges.Add(charge.Amount)
		remaining = remaining.Sub(charge.Amount)
	}

	if remaining.IsPositive() {
		balance, err := s.store.IncrementManualBalance(playerID, remaining.Neg())
		if err != nil {
			result.Partial = true
			result.Unapplied = remaining
			return result, nil
		}
		result.AppliedToManual = remaining
		result.ManualBalance = balance
	}

	return result, nil
}

// sortChargesOldestFirst orders charges by occurredAt ascending, with id
// as the tie-break so equal timestamps settle in a deterministic order.
func sortChargesOldestFirst(charges []models.Charge) {
	sort.SliceStable(charges, func(i, j int) bool {
		if charges[i].OccurredAt.Equal(charges[j].OccurredAt) {
			return charges[i].ID < charges[j].ID
		}
		return charges[i].OccurredAt.Before(charges[j].OccurredAt)
	})
}
