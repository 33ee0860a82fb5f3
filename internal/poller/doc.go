// Package poller drives repeated snapshot cycles.
//
// Execution is strictly sequential: one fetch at a time, blocking sleeps
// between cycles, no overlap between a cycle's retries and other work.
package poller
