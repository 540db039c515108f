package services

import (
	"math/rand"
	"sort"
	"testing"

	"lottery-ticket-system/models"

	"github.com/stretchr/testify/require"
)

func seededAllocator(seed int64) *PrizeAllocator {
	return NewPrizeAllocator(rand.New(rand.NewSource(seed)))
}

func TestFixedAmounts(t *testing.T) {
	a := seededAllocator(1)

	expected := map[models.PrizeTier]int{
		models.PrizeTierFirst:  5200,
		models.PrizeTierSecond: 3000,
		models.PrizeTierThird:  1000,
		models.PrizeTierFourth: 500,
		models.PrizeTierFifth:  400,
		models.PrizeTierSixth:  300,
	}
	for tier, want := range expected {
		amount, ok := a.FixedAmount(tier)
		require.True(t, ok, "tier %d should have a fixed amount", tier)
		require.Equal(t, want, amount)
	}

	_, ok := a.FixedAmount(models.PrizeTierSeventh)
	require.False(t, ok, "tier 7 is randomized, not fixed")
}

func TestRollSeventhAmountRange(t *testing.T) {
	a := seededAllocator(42)
	for i := 0; i < 1000; i++ {
		amount := a.RollSeventhAmount()
		require.GreaterOrEqual(t, amount, 1)
		require.LessOrEqual(t, amount, MaxSeventhPrize)
	}
}

func TestBreakdownChunking(t *testing.T) {
	a := seededAllocator(7)

	cases := []struct {
		amount int
		parts  []int // meaningful parts, descending
	}{
		{5200, []int{1000, 1000, 1000, 1000, 1000, 200}},
		{3000, []int{1000, 1000, 1000}},
		{1000, []int{1000}},
		{500, []int{500}},
		{301, []int{301}},
		{300, []int{300}},
		{1, []int{1}},
	}
	for _, tc := range cases {
		got := a.Breakdown(tc.amount)
		require.Len(t, got, BreakdownSlots, "amount %d", tc.amount)

		sum := 0
		var meaningful []int
		for _, part := range got {
			require.GreaterOrEqual(t, part, 0)
			sum += part
			if part > 0 {
				meaningful = append(meaningful, part)
			}
		}
		require.Equal(t, tc.amount, sum, "breakdown of %d must sum back", tc.amount)

		sort.Sort(sort.Reverse(sort.IntSlice(meaningful)))
		require.Equal(t, tc.parts, meaningful, "amount %d", tc.amount)
	}
}

func TestBreakdownNonPositiveAmounts(t *testing.T) {
	a := seededAllocator(7)
	for _, amount := range []int{0, -1, -500} {
		got := a.Breakdown(amount)
		require.Len(t, got, BreakdownSlots)
		for _, part := range got {
			require.Zero(t, part)
		}
	}
}

func TestBreakdownDeterministicWithSeed(t *testing.T) {
	first := seededAllocator(99).Breakdown(5200)
	second := seededAllocator(99).Breakdown(5200)
	require.Equal(t, first, second)
}

func TestApplyMinimumGuaranteeSpread(t *testing.T) {
	specs := make([]TicketSpec, 0, TicketsPerBook)
	for tier := models.PrizeTierFirst; tier <= models.PrizeTierSixth; tier++ {
		specs = append(specs, TicketSpec{Tier: tier, Amount: 0})
	}
	for i := 0; i < SeventhTierCount; i++ {
		specs = append(specs, TicketSpec{Tier: models.PrizeTierSeventh, Amount: 10})
	}

	// total 140, deficit 2860 → ceil(2860/14) = 205 added to every
	// tier-7 ticket, overshooting the floor by 10.
	ApplyMinimumGuarantee(specs)

	total := 0
	for _, spec := range specs {
		total += spec.Amount
		if spec.Tier == models.PrizeTierSeventh {
			require.Equal(t, 215, spec.Amount)
		} else {
			require.Zero(t, spec.Amount, "fixed tiers are never topped up")
		}
	}
	require.Equal(t, 3010, total)
	require.LessOrEqual(t, total-MinBookTotal, SeventhTierCount-1)
}

func TestApplyMinimumGuaranteeNoOp(t *testing.T) {
	specs := []TicketSpec{
		{Tier: models.PrizeTierFirst, Amount: 5200},
		{Tier: models.PrizeTierSeventh, Amount: 50},
	}
	ApplyMinimumGuarantee(specs)
	require.Equal(t, 5200, specs[0].Amount)
	require.Equal(t, 50, specs[1].Amount)
}

func TestBuildBookSpecs(t *testing.T) {
	a := seededAllocator(2026)
	specs := a.BuildBookSpecs()
	require.Len(t, specs, TicketsPerBook)

	tierCounts := map[models.PrizeTier]int{}
	total := 0
	for _, spec := range specs {
		tierCounts[spec.Tier]++
		total += spec.Amount

		require.Len(t, spec.Breakdown, BreakdownSlots)
		sum := 0
		for _, part := range spec.Breakdown {
			require.GreaterOrEqual(t, part, 0)
			sum += part
		}
		require.Equal(t, spec.Amount, sum, "breakdown must sum to the final amount")
	}

	for tier := models.PrizeTierFirst; tier <= models.PrizeTierSixth; tier++ {
		require.Equal(t, 1, tierCounts[tier], "tier %d", tier)
	}
	require.Equal(t, SeventhTierCount, tierCounts[models.PrizeTierSeventh])
	require.GreaterOrEqual(t, total, MinBookTotal)
}
