package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguetab/leaguetab-backend/utils"
)

// Walks a month of a five-a-side group through the ledger: weekly match
// charges, a couple of payments, a fine, and a settle correction, the
// way treasurers actually use the app.
func TestLedger_SeasonScenario(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("anna", decimal.Zero)
	store.addPlayer("ben", decimal.Zero)

	// Three Friday matches at €12.50 a head; Ben missed week 3
	store.addCharge(pendingCharge("w1-anna", "anna", "g1", "12.50", day(7)))
	store.addCharge(pendingCharge("w2-anna", "anna", "g1", "12.50", day(14)))
	store.addCharge(pendingCharge("w3-anna", "anna", "g1", "12.50", day(21)))
	store.addCharge(pendingCharge("w1-ben", "ben", "g1", "12.50", day(7)))
	store.addCharge(pendingCharge("w2-ben", "ben", "g1", "12.50", day(14)))

	service := NewLedgerService(store)

	// Anna starts the month owing three matches
	debts, err := service.GetPlayerDebts("anna", "g1")
	require.NoError(t, err)
	assert.True(t, debts.TotalDebt.Equal(d("37.50")))

	// She hands the treasurer €25: exactly the two oldest charges
	result, err := service.ProcessSmartPayment("anna", d("25"), "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"w1-anna", "w2-anna"}, result.PaidChargeIDs)
	assert.True(t, result.AppliedToManual.IsZero())

	// A €5 fine for a missed cleanup duty
	_, err = service.AdjustManualBalance("anna", d("5"), false)
	require.NoError(t, err)

	debts, err = service.GetPlayerDebts("anna", "g1")
	require.NoError(t, err)
	assert.True(t, debts.MatchesDebt.Equal(d("12.50")))
	assert.True(t, debts.ManualDebt.Equal(d("5")))
	assert.True(t, debts.TotalDebt.Equal(d("17.50")))

	// She pays €20: week 3 clears, the rest eats into the fine and
	// leaves her €2.50 in credit
	result, err = service.ProcessSmartPayment("anna", d("20"), "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"w3-anna"}, result.PaidChargeIDs)
	assert.True(t, result.AppliedToManual.Equal(d("7.50")))
	assert.True(t, result.ManualBalance.Equal(d("-2.50")))

	debts, err = service.GetPlayerDebts("anna", "g1")
	require.NoError(t, err)
	assert.True(t, debts.MatchesDebt.IsZero())
	assert.True(t, debts.TotalDebt.Equal(d("-2.50")))

	// Week 3 was recorded against the wrong player; the treasurer
	// un-settles it
	charge, err := service.SettleCharge("w3-anna", utils.ChargeStatusPending)
	require.NoError(t, err)
	assert.Equal(t, utils.ChargeStatusPending, charge.Status)

	debts, err = service.GetPlayerDebts("anna", "g1")
	require.NoError(t, err)
	assert.True(t, debts.MatchesDebt.Equal(d("12.50")))
	assert.True(t, debts.TotalDebt.Equal(d("10")))

	// Ben settles up for the month with a round €30
	result, err = service.ProcessSmartPayment("ben", d("30"), "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"w1-ben", "w2-ben"}, result.PaidChargeIDs)
	assert.True(t, result.AppliedToCharges.Equal(d("25")))
	assert.True(t, result.ManualBalance.Equal(d("-5")))

	debts, err = service.GetPlayerDebts("ben", "g1")
	require.NoError(t, err)
	assert.True(t, debts.TotalDebt.Equal(d("-5")))
}
