package services

import (
	"math/rand"
	"sync"
	"time"

	"lottery-ticket-system/models"
)

const (
	// ExchangeCost is the flat point price of scratching one ticket.
	ExchangeCost = 300

	// MinBookTotal is the guaranteed minimum aggregate payout per book.
	MinBookTotal = 3000

	// TicketsPerBook = 6 fixed-tier tickets + SeventhTierCount random ones.
	TicketsPerBook   = 20
	SeventhTierCount = 14

	// MaxSeventhPrize bounds the randomized tier-7 amount (inclusive, from 1).
	MaxSeventhPrize = 200

	// BreakdownSlots is the fixed length of a ticket's scratch pattern.
	BreakdownSlots = 24

	// breakdownChunk is the greedy split size for large prize amounts.
	breakdownChunk = 1000
)

// FixedPrizeAmounts maps tiers 1-6 to their fixed payouts. Tier 7 is
// absent on purpose: its amount is rolled per ticket.
var FixedPrizeAmounts = map[models.PrizeTier]int{
	models.PrizeTierFirst:  5200,
	models.PrizeTierSecond: 3000,
	models.PrizeTierThird:  1000,
	models.PrizeTierFourth: 500,
	models.PrizeTierFifth:  400,
	models.PrizeTierSixth:  300,
}

// TicketSpec is one ticket's worth of prize data before persistence.
type TicketSpec struct {
	Tier      models.PrizeTier
	Amount    int
	Breakdown []int
}

// PrizeAllocator is the pure prize-math side of the lottery: fixed tier
// amounts, randomized tier-7 rolls, scratch-pattern breakdowns and
// shuffles. All randomness flows through the injected source so tests
// can pin a seed.
type PrizeAllocator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPrizeAllocator builds an allocator around rng; pass nil for a
// time-seeded source.
func NewPrizeAllocator(rng *rand.Rand) *PrizeAllocator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &PrizeAllocator{rng: rng}
}

// FixedAmount returns the fixed payout for tiers 1-6. The second return
// is false for tier 7 (and anything out of range), whose amount is
// randomized instead.
func (a *PrizeAllocator) FixedAmount(tier models.PrizeTier) (int, bool) {
	amount, ok := FixedPrizeAmounts[tier]
	return amount, ok
}

// RollSeventhAmount draws a tier-7 prize uniformly from [1, MaxSeventhPrize].
func (a *PrizeAllocator) RollSeventhAmount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Intn(MaxSeventhPrize) + 1
}

// Breakdown splits amount into BreakdownSlots non-negative parts that sum
// back to amount, shuffled for presentation:
//   - amount > 300: greedy 1000-point chunks plus one remainder part
//   - 0 < amount <= 300: a single part
//   - amount <= 0: all zeros
func (a *PrizeAllocator) Breakdown(amount int) []int {
	parts := make([]int, 0, BreakdownSlots)
	if amount > 0 {
		if amount > 300 {
			for amount >= breakdownChunk {
				parts = append(parts, breakdownChunk)
				amount -= breakdownChunk
			}
			if amount > 0 {
				parts = append(parts, amount)
			}
		} else {
			parts = append(parts, amount)
		}
	}
	for len(parts) < BreakdownSlots {
		parts = append(parts, 0)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng.Shuffle(len(parts), func(i, j int) {
		parts[i], parts[j] = parts[j], parts[i]
	})
	return parts
}

// BuildBookSpecs produces the 20 ticket specs for a fresh book: one per
// fixed tier, SeventhTierCount independent tier-7 rolls, the minimum
// payout guarantee applied, breakdowns attached, and the whole set
// shuffled so tier does not correlate with position.
func (a *PrizeAllocator) BuildBookSpecs() []TicketSpec {
	specs := make([]TicketSpec, 0, TicketsPerBook)
	for tier := models.PrizeTierFirst; tier <= models.PrizeTierSixth; tier++ {
		amount, _ := a.FixedAmount(tier)
		specs = append(specs, TicketSpec{Tier: tier, Amount: amount})
	}
	for i := 0; i < SeventhTierCount; i++ {
		specs = append(specs, TicketSpec{
			Tier:   models.PrizeTierSeventh,
			Amount: a.RollSeventhAmount(),
		})
	}

	ApplyMinimumGuarantee(specs)

	// Breakdowns must be computed after the guarantee top-up so every
	// pattern still sums to its ticket's final amount.
	for i := range specs {
		specs[i].Breakdown = a.Breakdown(specs[i].Amount)
	}

	a.mu.Lock()
	a.rng.Shuffle(len(specs), func(i, j int) {
		specs[i], specs[j] = specs[j], specs[i]
	})
	a.mu.Unlock()

	return specs
}

// ApplyMinimumGuarantee tops up the tier-7 tickets when the book total
// falls short of MinBookTotal. Every tier-7 ticket gets the same
// ceil(deficit / count) increment, so the realized total may overshoot
// the floor by up to count-1 points. That overshoot is intentional.
func ApplyMinimumGuarantee(specs []TicketSpec) {
	total := 0
	for _, spec := range specs {
		total += spec.Amount
	}
	if total >= MinBookTotal {
		return
	}

	var seventh []int
	for i, spec := range specs {
		if spec.Tier == models.PrizeTierSeventh {
			seventh = append(seventh, i)
		}
	}
	if len(seventh) == 0 {
		return
	}

	deficit := MinBookTotal - total
	perTicket := (deficit + len(seventh) - 1) / len(seventh)
	for _, i := range seventh {
		specs[i].Amount += perTicket
	}
}
