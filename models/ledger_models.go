package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Charge represents one player's financial obligation for one match.
// The amount is frozen at charge-creation time; later edits to the
// match's price never alter existing charges.
type Charge struct {
	ID         string          `json:"_id"`
	PlayerID   string          `json:"playerId"`
	MatchID    string          `json:"matchId"`
	GroupID    string          `json:"groupId"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurredAt"`
	Status     string          `json:"status"`
}

// LedgerBalance is the computed balance breakdown for one player
type LedgerBalance struct {
	MatchesDebt decimal.Decimal `json:"matchesDebt"`
	ManualDebt  decimal.Decimal `json:"manualDebt"`
	TotalDebt   decimal.Decimal `json:"totalDebt"`
}

// PlayerDebts is the derived ledger view for one player, optionally
// scoped to a single group. TotalDebt > 0 means the player owes money,
// < 0 means the player holds credit.
type PlayerDebts struct {
	PlayerID       string          `json:"playerId"`
	GroupID        string          `json:"groupId,omitempty"`
	MatchesDebt    decimal.Decimal `json:"matchesDebt"`
	ManualDebt     decimal.Decimal `json:"manualDebt"`
	TotalDebt      decimal.Decimal `json:"totalDebt"`
	PendingCharges []Charge        `json:"pendingCharges"`
}

// MemberDebt pairs a group member with their ledger view
type MemberDebt struct {
	Player      *Player         `json:"player"`
	MatchesDebt decimal.Decimal `json:"matchesDebt"`
	ManualDebt  decimal.Decimal `json:"manualDebt"`
	TotalDebt   decimal.Decimal `json:"totalDebt"`
}

// SettlementResult enumerates the outcome of a smart payment: which
// charges were marked paid, how much went to charges, how much spilled
// into the manual balance, and anything left unapplied after a failed
// write. AppliedToCharges + AppliedToManual + Unapplied always equals
// the payment amount.
type SettlementResult struct {
	PlayerID         string          `json:"playerId"`
	PaidChargeIDs    []string        `json:"paidChargeIds"`
	FailedChargeIDs  []string        `json:"failedChargeIds,omitempty"`
	AppliedToCharges decimal.Decimal `json:"appliedToCharges"`
	AppliedToManual  decimal.Decimal `json:"appliedToManual"`
	Unapplied        decimal.Decimal `json:"unapplied"`
	Partial          bool            `json:"partial"`
	ManualBalance    decimal.Decimal `json:"manualBalance"`
}

// SettleChargeRequest request model. TargetStatus is explicit so a
// retried call is a no-op rather than a double toggle.
type SettleChargeRequest struct {
	ChargeID     string `json:"chargeId" binding:"required"`
	TargetStatus string `json:"targetStatus" binding:"required"`
}

// GetDebtsRequest request model. Code scopes the charges to one group
// when present; manual balance is always global.
type GetDebtsRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	Code     string `json:"code"`
}

// AdjustBalanceRequest request model. A negative delta for a player
// with pending charges is rejected unless ManualOnly is set, forcing
// the caller to choose between a smart payment and a pure manual
// adjustment.
type AdjustBalanceRequest struct {
	PlayerID   string          `json:"playerId" binding:"required"`
	Delta      decimal.Decimal `json:"delta" binding:"required"`
	ManualOnly bool            `json:"manualOnly"`
}

// SmartPaymentRequest request model
type SmartPaymentRequest struct {
	PlayerID string          `json:"playerId" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Code     string          `json:"code"`
}

// AdjustBalanceResponse response model
type AdjustBalanceResponse struct {
	PlayerID      string          `json:"playerId"`
	ManualBalance decimal.Decimal `json:"manualBalance"`
}

// NewCharge creates a new pending Charge for a player in a match
func NewCharge(id, playerID, matchID, groupID string, amount decimal.Decimal, occurredAt time.Time) *Charge {
	return &Charge{
		ID:         id,
		PlayerID:   playerID,
		MatchID:    matchID,
		GroupID:    groupID,
		Amount:     amount,
		OccurredAt: occurredAt,
		Status:     "PENDING",
	}
}
