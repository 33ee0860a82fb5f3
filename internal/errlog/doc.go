// Package errlog implements the per-run error recorder.
//
// Components record recoverable failures (failed fetch attempts, body parse
// errors) as structured lines keyed by subject and step. The buffer lives
// in memory for the duration of one run and is drained to an append-mode
// log file at the end, including after configuration failures.
package errlog
