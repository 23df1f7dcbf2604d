// Package reputationengine implements user trust profiles and peer reviews
// inside the community-experience context.
//
// The module owns profile registration (explicit and implicit), the bounded
// trust score with its named adjustment deltas, one-review-per-booking
// submission, booking outcome counters fed by authorized platform callers,
// owner verification, and reputation event production through the
// outbox-backed worker relay. It keeps business rules in application/domain
// layers and isolates infrastructure concerns behind ports and adapters.
package reputationengine
