// repository/ledger_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/leaguetab/leaguetab-backend/models"
)

// LedgerRepository is the persistence port of the debt ledger: pending
// charge reads, compare-and-set charge status writes, and the atomic
// manual balance increment.
type LedgerRepository struct {
	DB *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// GetCharge retrieves a charge by ID
func (r *LedgerRepository) GetCharge(chargeID string) (*models.Charge, error) {
	var charge models.Charge
	err := r.DB.QueryRow(
		`SELECT id, player_id, match_id, group_id, amount, occurred_at, status
         FROM charges WHERE id = $1`,
		chargeID,
	).Scan(&charge.ID, &charge.PlayerID, &charge.MatchID, &charge.GroupID,
		&charge.Amount, &charge.OccurredAt, &charge.Status)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get charge: %v", err)
	}

	return &charge, nil
}

// ListPendingCharges retrieves a player's pending charges, oldest first.
// Ties on occurred_at break on id so the order is deterministic. An
// empty groupID lists pending charges across all groups.
func (r *LedgerRepository) ListPendingCharges(playerID string, groupID string) ([]models.Charge, error) {
	query := `SELECT id, player_id, match_id, group_id, amount, occurred_at, status
              FROM charges WHERE player_id = $1 AND status = 'PENDING'`
	args := []interface{}{playerID}

	if groupID != "" {
		query += " AND group_id = $2"
		args = append(args, groupID)
	}
	query += " ORDER BY occurred_at ASC, id ASC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending charges: %v", err)
	}
	defer rows.Close()

	var charges []models.Charge
	for rows.Next() {
		var charge models.Charge
		err = rows.Scan(&charge.ID, &charge.PlayerID, &charge.MatchID, &charge.GroupID,
			&charge.Amount, &charge.OccurredAt, &charge.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan charge: %v", err)
		}
		charges = append(charges, charge)
	}

	return charges, nil
}

// ListPendingChargesForGroup retrieves every pending charge in a group,
// oldest first
func (r *LedgerRepository) ListPendingChargesForGroup(groupID string) ([]models.Charge, error) {
	rows, err := r.DB.Query(
		`SELECT id, player_id, match_id, group_id, amount, occurred_at, status
         FROM charges WHERE group_id = $1 AND status = 'PENDING'
         ORDER BY occurred_at ASC, id ASC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group charges: %v", err)
	}
	defer rows.Close()

	var charges []models.Charge
	for rows.Next() {
		var charge models.Charge
		err = rows.Scan(&charge.ID, &charge.PlayerID, &charge.MatchID, &charge.GroupID,
			&charge.Amount, &charge.OccurredAt, &charge.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan charge: %v", err)
		}
		charges = append(charges, charge)
	}

	return charges, nil
}

// GetManualBalance retrieves a player's manual balance
func (r *LedgerRepository) GetManualBalance(playerID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.DB.QueryRow(
		"SELECT manual_balance FROM players WHERE id = $1",
		playerID,
	).Scan(&balance)

	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to get manual balance: %v", err)
	}

	return balance, nil
}

// SetChargeStatus transitions a charge's status with a compare-and-set:
// the write only lands if the stored status still equals fromStatus.
// Returns false when no row matched, which the caller disambiguates
// into "already at target" or "not found".
func (r *LedgerRepository) SetChargeStatus(chargeID string, fromStatus string, toStatus string) (bool, error) {
	result, err := r.DB.Exec(
		"UPDATE charges SET status = $1 WHERE id = $2 AND status = $3",
		toStatus, chargeID, fromStatus,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update charge status: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %v", err)
	}

	return affected > 0, nil
}

// IncrementManualBalance applies a signed delta to a player's manual
// balance as a single atomic UPDATE. Concurrent increments are
// commutative; there is no read-modify-write window to lose.
func (r *LedgerRepository) IncrementManualBalance(playerID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.DB.QueryRow(
		`UPDATE players
         SET manual_balance = manual_balance + $2
         WHERE id = $1
         RETURNING manual_balance`,
		playerID, delta,
	).Scan(&balance)

	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to increment manual balance: %v", err)
	}

	return balance, nil
}
