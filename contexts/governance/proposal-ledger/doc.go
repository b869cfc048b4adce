// Package proposalledger implements the park-removal governance ledger inside
// the governance context.
//
// The module owns the proposal registry, the one-vote-per-account voting
// ledger, administrator-gated status resolution, and the post-acceptance
// fundraising escrow with treasury-backed withdrawal. Every mutation is
// mirrored to an audit outbox drained by a relay worker. Business rules live
// in application/domain layers; infrastructure sits behind ports and
// adapters.
package proposalledger
