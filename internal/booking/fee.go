package booking

import "github.com/moradaviva/amenity-reservation/internal/model"

// Fee tier bands in cents.  Three discrete bands with inclusive lower
// bounds: up to 15 attendees, 16 to 30, and 31 or more.
const (
    FeeTierSmallCents  uint32 = 3000 // 0–15 attendees
    FeeTierMediumCents uint32 = 5000 // 16–30 attendees
    FeeTierLargeCents  uint32 = 7000 // 31+ attendees
)

// FeeForCents maps an attendee count to the flat usage fee in cents.  It
// is a total, pure step function over non-negative counts: it applies
// the tier table to whatever count it is given and never decides itself
// whether the requester is part of that count (see AttendeeCount).
func FeeForCents(attendeeCount int) uint32 {
    switch {
    case attendeeCount <= 15:
        return FeeTierSmallCents
    case attendeeCount <= 30:
        return FeeTierMediumCents
    default:
        return FeeTierLargeCents
    }
}

// FeeApplicable reports whether a reservation category is billed at all.
// Callers pass it to the fee path instead of the engine hardcoding
// category names deep in the calculator.
type FeeApplicable func(tipo string) bool

// EventOnlyFee is the suite's billing rule: events pay the tier fee,
// moves are feeless.
func EventOnlyFee(tipo string) bool {
    return model.NormalizeCategory(tipo) == model.NormalizeCategory(model.CategoryEvent)
}

// AttendeeCount converts a present-guest tally into the count fed to the
// tier table.  The two legacy screens disagreed on whether the requester
// joins the tally, so the choice is configuration
// (FEE_INCLUDE_REQUESTER), not code.
func AttendeeCount(presentGuests int, includeRequester bool) int {
    if includeRequester {
        return presentGuests + 1
    }
    return presentGuests
}
