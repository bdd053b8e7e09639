package transaction

import (
	"sync"
	"testing"

	"realestate_system/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := newRecord("p", "b", "s", amount)
		assert.Equal(t, domain.KindInvalidAmount, domain.KindOf(err))
	}
}

func TestRecordClaimIsExclusive(t *testing.T) {
	rec, err := newRecord("p", "b", "s", decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.True(t, rec.claim())
	assert.False(t, rec.claim(), "second claim must lose")
	assert.Equal(t, domain.StatusProcessing, rec.status())
}

func TestClaimAndCancelRace(t *testing.T) {
	// A worker claim and a cancellation race on the same pending record;
	// exactly one of them may win, every time.
	for i := 0; i < 200; i++ {
		rec, err := newRecord("p", "b", "s", decimal.NewFromInt(100))
		require.NoError(t, err)

		var claimed, cancelled bool
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			claimed = rec.claim()
		}()
		go func() {
			defer wg.Done()
			cancelled = rec.cancel() == nil
		}()
		wg.Wait()

		require.NotEqual(t, claimed, cancelled, "exactly one of claim/cancel must win")
		if claimed {
			assert.Equal(t, domain.StatusProcessing, rec.status())
		} else {
			assert.Equal(t, domain.StatusCancelled, rec.status())
		}
	}
}

func TestTerminalTransitionsKeepNotesAndStatusTogether(t *testing.T) {
	rec, err := newRecord("p", "b", "s", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.True(t, rec.claim())

	rec.fail("property p is no longer available")
	snap := rec.snapshot()
	assert.Equal(t, domain.StatusFailed, snap.Status)
	assert.Equal(t, "property p is no longer available", snap.Notes)

	// Terminal states reject further cancellation
	assert.Equal(t, domain.KindInvalidState, domain.KindOf(rec.cancel()))
}

func TestCompleteRecordsCommission(t *testing.T) {
	rec, err := newRecord("p", "b", "s", decimal.NewFromInt(800_000))
	require.NoError(t, err)
	require.True(t, rec.claim())

	rec.complete(decimal.NewFromInt(24_000))
	snap := rec.snapshot()
	assert.Equal(t, domain.StatusCompleted, snap.Status)
	assert.True(t, snap.Commission.Equal(decimal.NewFromInt(24_000)))
}
