// Package writer implements the snapshot table sinks.
//
// Sinks:
//   - CSV: append-mode, date-partitioned files
//   - Excel: date-partitioned workbook, fixed sheet name
//   - Postgres: optional, batched append-only inserts
//   - Bars CSV: one-shot historical daily-bar exports
//
// All sinks receive the same fixed-schema table and skip empty tables, so
// a zero-row run writes no output.
package writer
