package allocator

import (
	"github.com/simaogato/charityflow-backend/internal/domain"
)

// Transfer moves as much as both sides can take from one fundable entity to the other
// Returns the amount moved
// Logic:
//  1. If either side is already fully invested, do nothing
//  2. Amount = min(Remaining(a), Remaining(b))
//  3. Add the SAME amount to both invested amounts (a donation applied to a project)
//  4. Close whichever side reached its full amount
//
// Safety: the min() bound keeps 0 <= invested <= full on both sides, so there is nothing to reject
func Transfer(a, b domain.Fundable) int64 {
	fa, fb := a.Funding(), b.Funding()

	// Closed entities are filtered out by the open-counterpart query as well
	if fa.FullyInvested || fb.FullyInvested {
		return 0
	}

	amount := min(fa.Remaining(), fb.Remaining())
	if amount <= 0 {
		return 0
	}

	fa.InvestedAmount += amount
	fb.InvestedAmount += amount

	fa.CloseIfExhausted()
	fb.CloseIfExhausted()

	return amount
}
