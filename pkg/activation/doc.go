// Package activation performs the durable account mutations that follow a
// verified payment: marking the trial email as used, flipping the account to
// the paid tier, and re-applying any prepaid balance captured before an
// upgrade began.
//
// All three mutations must happen at most once per successful checkout. The
// backend treats the first two as idempotent overwrites and keys the credit
// by a reference id, so re-issuing the calls is always safe; the committer
// additionally latches per reference so a webhook callback and a concurrent
// poll result funneling into the same activation cannot double-issue.
//
// Activation failures after a verified payment are not surfaced to the user
// path: the payment is already confirmed, and reconciling account state is
// retryable backend-side work.
package activation
