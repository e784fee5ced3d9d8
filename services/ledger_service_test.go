package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguetab/leaguetab-backend/models"
	"github.com/leaguetab/leaguetab-backend/repository"
	"github.com/leaguetab/leaguetab-backend/utils"
)

// fakeLedgerStore is an in-memory LedgerStore double. Balance increments
// and status writes happen under a lock, mirroring the atomicity the SQL
// implementation gets from single UPDATE statements.
type fakeLedgerStore struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	charges  map[string]*models.Charge

	failStatusWrites map[string]bool // charge IDs whose status writes fail
	failIncrement    bool
	writes           int

	// afterList runs once after the next ListPendingCharges, with the
	// lock held, to simulate writes racing the read
	afterList func(charges map[string]*models.Charge)
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		balances:         make(map[string]decimal.Decimal),
		charges:          make(map[string]*models.Charge),
		failStatusWrites: make(map[string]bool),
	}
}

func (f *fakeLedgerStore) addPlayer(playerID string, balance decimal.Decimal) {
	f.balances[playerID] = balance
}

func (f *fakeLedgerStore) addCharge(charge models.Charge) {
	c := charge
	f.charges[c.ID] = &c
}

func (f *fakeLedgerStore) GetCharge(chargeID string) (*models.Charge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	charge, ok := f.charges[chargeID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *charge
	return &c, nil
}

func (f *fakeLedgerStore) ListPendingCharges(playerID string, groupID string) ([]models.Charge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var pending []models.Charge
	for _, charge := range f.charges {
		if charge.PlayerID != playerID || charge.Status != utils.ChargeStatusPending {
			continue
		}
		if groupID != "" && charge.GroupID != groupID {
			continue
		}
		pending = append(pending, *charge)
	}

	if f.afterList != nil {
		hook := f.afterList
		f.afterList = nil
		hook(f.charges)
	}

	return pending, nil
}

func (f *fakeLedgerStore) GetManualBalance(playerID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	balance, ok := f.balances[playerID]
	if !ok {
		return decimal.Zero, repository.ErrNotFound
	}
	return balance, nil
}

func (f *fakeLedgerStore) SetChargeStatus(chargeID string, fromStatus string, toStatus string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failStatusWrites[chargeID] {
		return false, errors.New("write failed")
	}

	charge, ok := f.charges[chargeID]
	if !ok || charge.Status != fromStatus {
		return false, nil
	}

	charge.Status = toStatus
	f.writes++
	return true, nil
}

func (f *fakeLedgerStore) IncrementManualBalance(playerID string, delta decimal.Decimal) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failIncrement {
		return decimal.Zero, errors.New("write failed")
	}

	balance, ok := f.balances[playerID]
	if !ok {
		return decimal.Zero, repository.ErrNotFound
	}

	balance = balance.Add(delta)
	f.balances[playerID] = balance
	f.writes++
	return balance, nil
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func day(n int) time.Time {
	return time.Date(2025, 3, n, 20, 0, 0, 0, time.UTC)
}

func pendingCharge(id, playerID, groupID, amount string, occurredAt time.Time) models.Charge {
	return models.Charge{
		ID:         id,
		PlayerID:   playerID,
		MatchID:    "match-" + id,
		GroupID:    groupID,
		Amount:     d(amount),
		OccurredAt: occurredAt,
		Status:     utils.ChargeStatusPending,
	}
}

func TestComputeBalance_Additivity(t *testing.T) {
	service := NewLedgerService(newFakeLedgerStore())

	tests := []struct {
		name          string
		manualBalance string
		amounts       []string
		matchesDebt   string
		totalDebt     string
	}{
		{"no charges", "0", nil, "0", "0"},
		{"charges only", "0", []string{"10", "15", "20"}, "45", "45"},
		{"manual debt on top", "7.50", []string{"10", "15"}, "25", "32.50"},
		{"credit offsets charges", "-12.25", []string{"10"}, "10", "-2.25"},
		{"pure credit", "-30", nil, "0", "-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var charges []models.Charge
			for i, amount := range tt.amounts {
				charges = append(charges, pendingCharge(string(rune('a'+i)), "p1", "g1", amount, day(i+1)))
			}

			balance := service.ComputeBalance(d(tt.manualBalance), charges)

			assert.True(t, balance.MatchesDebt.Equal(d(tt.matchesDebt)),
				"matchesDebt = %s, want %s", balance.MatchesDebt, tt.matchesDebt)
			assert.True(t, balance.ManualDebt.Equal(d(tt.manualBalance)),
				"manualDebt = %s, want %s", balance.ManualDebt, tt.manualBalance)
			assert.True(t, balance.TotalDebt.Equal(d(tt.totalDebt)),
				"totalDebt = %s, want %s", balance.TotalDebt, tt.totalDebt)
		})
	}
}

func TestGetPlayerDebts_SortsPendingChargesOldestFirst(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", d("5"))
	store.addCharge(pendingCharge("c3", "p1", "g1", "20", day(3)))
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))
	store.addCharge(pendingCharge("c2", "p1", "g1", "15", day(2)))

	service := NewLedgerService(store)

	debts, err := service.GetPlayerDebts("p1", "")
	require.NoError(t, err)

	require.Len(t, debts.PendingCharges, 3)
	assert.Equal(t, "c1", debts.PendingCharges[0].ID)
	assert.Equal(t, "c2", debts.PendingCharges[1].ID)
	assert.Equal(t, "c3", debts.PendingCharges[2].ID)
	assert.True(t, debts.MatchesDebt.Equal(d("45")))
	assert.True(t, debts.TotalDebt.Equal(d("50")))
}

func TestGetPlayerDebts_PlayerNotFound(t *testing.T) {
	service := NewLedgerService(newFakeLedgerStore())

	_, err := service.GetPlayerDebts("ghost", "")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestSettleCharge_MarkPaidIsIdempotent(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))

	service := NewLedgerService(store)

	charge, err := service.SettleCharge("c1", utils.ChargeStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, utils.ChargeStatusPaid, charge.Status)

	// Retrying the same transition is a safe no-op
	charge, err = service.SettleCharge("c1", utils.ChargeStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, utils.ChargeStatusPaid, charge.Status)
}

func TestSettleCharge_Unsettle(t *testing.T) {
	store := newFakeLedgerStore()
	charge := pendingCharge("c1", "p1", "g1", "10", day(1))
	charge.Status = utils.ChargeStatusPaid
	store.addCharge(charge)

	service := NewLedgerService(store)

	updated, err := service.SettleCharge("c1", utils.ChargeStatusPending)
	require.NoError(t, err)
	assert.Equal(t, utils.ChargeStatusPending, updated.Status)
}

func TestSettleCharge_DoesNotTouchManualBalance(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", d("8"))
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))

	service := NewLedgerService(store)

	_, err := service.SettleCharge("c1", utils.ChargeStatusPaid)
	require.NoError(t, err)

	balance, err := store.GetManualBalance("p1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("8")))
}

func TestSettleCharge_NotFound(t *testing.T) {
	service := NewLedgerService(newFakeLedgerStore())

	_, err := service.SettleCharge("missing", utils.ChargeStatusPaid)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestSettleCharge_RejectsUnknownStatus(t *testing.T) {
	service := NewLedgerService(newFakeLedgerStore())

	_, err := service.SettleCharge("c1", "SETTLED")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestSmartPayment_FIFOExactCover(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))
	store.addCharge(pendingCharge("c2", "p1", "g1", "15", day(2)))
	store.addCharge(pendingCharge("c3", "p1", "g1", "20", day(3)))

	service := NewLedgerService(store)

	result, err := service.ProcessSmartPayment("p1", d("25"), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2"}, result.PaidChargeIDs)
	assert.True(t, result.AppliedToCharges.Equal(d("25")))
	assert.True(t, result.AppliedToManual.IsZero())
	assert.False(t, result.Partial)

	// Day-3 charge stays pending, manual balance untouched
	c3, _ := store.GetCharge("c3")
	assert.Equal(t, utils.ChargeStatusPending, c3.Status)
	balance, _ := store.GetManualBalance("p1")
	assert.True(t, balance.IsZero())
}

func TestSmartPayment_RemainderBecomesCredit(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))
	store.addCharge(pendingCharge("c2", "p1", "g1", "15", day(2)))
	store.addCharge(pendingCharge("c3", "p1", "g1", "20", day(3)))

	service := NewLedgerService(store)

	result, err := service.ProcessSmartPayment("p1", d("30"), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2"}, result.PaidChargeIDs)
	assert.True(t, result.AppliedToCharges.Equal(d("25")))
	assert.True(t, result.AppliedToManual.Equal(d("5")))
	assert.True(t, result.ManualBalance.Equal(d("-5")))

	c3, _ := store.GetCharge("c3")
	assert.Equal(t, utils.ChargeStatusPending, c3.Status)
}

func TestSmartPayment_SmallerThanOldestCharge(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))

	service := NewLedgerService(store)

	result, err := service.ProcessSmartPayment("p1", d("5"), "")
	require.NoError(t, err)

	assert.Empty(t, result.PaidChargeIDs)
	assert.True(t, result.AppliedToCharges.IsZero())
	assert.True(t, result.AppliedToManual.Equal(d("5")))
	assert.True(t, result.ManualBalance.Equal(d("-5")))

	c1, _ := store.GetCharge("c1")
	assert.Equal(t, utils.ChargeStatusPending, c1.Status)
}

func TestSmartPayment_NoPendingCharges(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", d("20"))

	service := NewLedgerService(store)

	result, err := service.ProcessSmartPayment("p1", d("12"), "")
	require.NoError(t, err)

	assert.Empty(t, result.PaidChargeIDs)
	assert.True(t, result.AppliedToManual.Equal(d("12")))
	assert.True(t, result.ManualBalance.Equal(d("8")))
}

func TestSmartPayment_SurplusDrivesBalanceNegative(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))
	store.addCharge(pendingCharge("c2", "p1", "g1", "15", day(2)))

	service := NewLedgerService(store)

	result, err := service.ProcessSmartPayment("p1", d("40"), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2"}, result.PaidChargeIDs)
	assert.True(t, result.AppliedToCharges.Equal(d("25")))
	assert.True(t, result.AppliedToManual.Equal(d("15")))
	assert.True(t, result.ManualBalance.Equal(d("-15")))
}

func TestSmartPayment_TieBreaksOnChargeID(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)
	store.addCharge(pendingCharge("c-b", "p1", "g1", "10", day(1)))
	store.addCharge(pendingCharge("c-a", "p1", "g1", "10", day(1)))

	service := NewLedgerService(store)

	result, err := service.ProcessSmartPayment("p1", d("10"), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"c-a"}, result.PaidChargeIDs)

	cb, _ := store.GetCharge("c-b")
	assert.Equal(t, utils.ChargeStatusPending, cb.Status)
}

func TestSmartPayment_ScopeRestrictsCharges(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))
	store.addCharge(pendingCharge("c2", "p1", "g2", "10", day(2)))

	service := NewLedgerService(store)

	result, err := service.ProcessSmartPayment("p1", d("20"), "g1")
	require.NoError(t, err)

	// Only the g1 charge is eligible; the rest is credit
	assert.Equal(t, []string{"c1"}, result.PaidChargeIDs)
	assert.True(t, result.AppliedToManual.Equal(d("10")))

	c2, _ := store.GetCharge("c2")
	assert.Equal(t, utils.ChargeStatusPending, c2.Status)
}

func TestSmartPayment_Conservation(t *testing.T) {
	amounts := []string{"1", "9.99", "10", "12.50", "25", "30", "45", "100"}

	for _, amount := range amounts {
		t.Run(amount, func(t *testing.T) {
			store := newFakeLedgerStore()
			store.addPlayer("p1", d("3.75"))
			store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))
			store.addCharge(pendingCharge("c2", "p1", "g1", "15", day(2)))
			store.addCharge(pendingCharge("c3", "p1", "g1", "20", day(3)))

			service := NewLedgerService(store)

			result, err := service.ProcessSmartPayment("p1", d(amount), "")
			require.NoError(t, err)

			total := result.AppliedToCharges.Add(result.AppliedToManual).Add(result.Unapplied)
			assert.True(t, total.Equal(d(amount)),
				"charges %s + manual %s + unapplied %s != %s",
				result.AppliedToCharges, result.AppliedToManual, result.Unapplied, amount)
		})
	}
}

func TestSmartPayment_RejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-5"} {
		t.Run(amount, func(t *testing.T) {
			store := newFakeLedgerStore()
			store.addPlayer("p1", decimal.Zero)
			store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))

			service := NewLedgerService(store)

			_, err := service.ProcessSmartPayment("p1", d(amount), "")

			var appErr *utils.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.Code)
			assert.Zero(t, store.writes, "rejected payment must not write")
		})
	}
}

func TestSmartPayment_PlayerNotFound(t *testing.T) {
	service := NewLedgerService(newFakeLedgerStore())

	_, err := service.ProcessSmartPayment("ghost", d("10"), "")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestSmartPayment_PartialFailureReportsState(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))
	store.addCharge(pendingCharge("c2", "p1", "g1", "15", day(2)))
	store.addCharge(pendingCharge("c3", "p1", "g1", "20", day(3)))
	store.failStatusWrites["c2"] = true

	service := NewLedgerService(store)

	result, err := service.ProcessSmartPayment("p1", d("45"), "")
	require.NoError(t, err)

	assert.True(t, result.Partial)
	assert.Equal(t, []string{"c1"}, result.PaidChargeIDs)
	assert.Equal(t, []string{"c2"}, result.FailedChargeIDs)
	assert.True(t, result.AppliedToCharges.Equal(d("10")))
	assert.True(t, result.Unapplied.Equal(d("35")))

	// The settled charge stays settled, nothing flows to manual balance
	c1, _ := store.GetCharge("c1")
	assert.Equal(t, utils.ChargeStatusPaid, c1.Status)
	balance, _ := store.GetManualBalance("p1")
	assert.True(t, balance.IsZero())

	total := result.AppliedToCharges.Add(result.AppliedToManual).Add(result.Unapplied)
	assert.True(t, total.Equal(d("45")))
}

func TestSmartPayment_SkipsChargeSettledConcurrently(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)
	store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))
	store.addCharge(pendingCharge("c2", "p1", "g1", "15", day(2)))

	service := NewLedgerService(store)

	// c1 gets settled between the pending read and the payment loop
	store.afterList = func(charges map[string]*models.Charge) {
		charges["c1"].Status = utils.ChargeStatusPaid
	}

	result, err := service.ProcessSmartPayment("p1", d("25"), "")
	require.NoError(t, err)

	// The €10 that would have gone to c1 pays c2 and the rest is credit
	assert.Equal(t, []string{"c2"}, result.PaidChargeIDs)
	assert.True(t, result.AppliedToCharges.Equal(d("15")))
	assert.True(t, result.AppliedToManual.Equal(d("10")))
}

func TestAdjustManualBalance(t *testing.T) {
	t.Run("adds debt", func(t *testing.T) {
		store := newFakeLedgerStore()
		store.addPlayer("p1", d("2"))

		service := NewLedgerService(store)

		balance, err := service.AdjustManualBalance("p1", d("5"), false)
		require.NoError(t, err)
		assert.True(t, balance.Equal(d("7")))
	})

	t.Run("records manual payment", func(t *testing.T) {
		store := newFakeLedgerStore()
		store.addPlayer("p1", d("10"))

		service := NewLedgerService(store)

		balance, err := service.AdjustManualBalance("p1", d("-4"), false)
		require.NoError(t, err)
		assert.True(t, balance.Equal(d("6")))
	})

	t.Run("balance may go negative", func(t *testing.T) {
		store := newFakeLedgerStore()
		store.addPlayer("p1", d("3"))

		service := NewLedgerService(store)

		balance, err := service.AdjustManualBalance("p1", d("-10"), false)
		require.NoError(t, err)
		assert.True(t, balance.Equal(d("-7")))
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		store := newFakeLedgerStore()
		store.addPlayer("p1", decimal.Zero)

		service := NewLedgerService(store)

		_, err := service.AdjustManualBalance("p1", decimal.Zero, false)

		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("player not found", func(t *testing.T) {
		service := NewLedgerService(newFakeLedgerStore())

		_, err := service.AdjustManualBalance("ghost", d("5"), false)

		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestAdjustManualBalance_ConfirmationGate(t *testing.T) {
	t.Run("negative delta with pending charges requires confirmation", func(t *testing.T) {
		store := newFakeLedgerStore()
		store.addPlayer("p1", d("5"))
		store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))

		service := NewLedgerService(store)

		_, err := service.AdjustManualBalance("p1", d("-5"), false)

		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 409, appErr.Code)

		// Nothing was written
		balance, _ := store.GetManualBalance("p1")
		assert.True(t, balance.Equal(d("5")))
	})

	t.Run("confirmed manual-only adjustment ignores pending charges", func(t *testing.T) {
		store := newFakeLedgerStore()
		store.addPlayer("p1", d("5"))
		store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))

		service := NewLedgerService(store)

		balance, err := service.AdjustManualBalance("p1", d("-5"), true)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())

		c1, _ := store.GetCharge("c1")
		assert.Equal(t, utils.ChargeStatusPending, c1.Status)
	})

	t.Run("positive delta never needs confirmation", func(t *testing.T) {
		store := newFakeLedgerStore()
		store.addPlayer("p1", d("5"))
		store.addCharge(pendingCharge("c1", "p1", "g1", "10", day(1)))

		service := NewLedgerService(store)

		balance, err := service.AdjustManualBalance("p1", d("3"), false)
		require.NoError(t, err)
		assert.True(t, balance.Equal(d("8")))
	})
}

func TestAdjustManualBalance_ConcurrentAdjustmentsConverge(t *testing.T) {
	store := newFakeLedgerStore()
	store.addPlayer("p1", decimal.Zero)

	service := NewLedgerService(store)

	const pairs = 50
	var wg sync.WaitGroup
	wg.Add(2 * pairs)

	for i := 0; i < pairs; i++ {
		go func() {
			defer wg.Done()
			_, err := service.AdjustManualBalance("p1", d("5"), true)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := service.AdjustManualBalance("p1", d("-3"), true)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 50 * (+5 - 3) regardless of interleaving
	balance, err := store.GetManualBalance("p1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(d("100")), "balance = %s", balance)
}
