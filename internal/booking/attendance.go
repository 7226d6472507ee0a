package booking

import "github.com/moradaviva/amenity-reservation/internal/model"

// CountPresent tallies the guests of a ledger whose presence flag is
// set.  The ledger is an unordered map keyed by guest id, so the result
// cannot depend on iteration order; the function is pure and idempotent,
// and callers re-run it on every observed ledger change instead of ever
// trusting a stored counter.
func CountPresent(ledger model.GuestLedger) int {
    n := 0
    for _, g := range ledger {
        if g.Presente {
            n++
        }
    }
    return n
}
