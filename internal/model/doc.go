// Package model defines the shared data types flowing through the gatherer.
//
// Conventions:
//   - Optional provider fields are pointers; nil means the provider omitted
//     or blanked the value.
//   - The quote schema is a fixed, ordered column list (Schema); sinks
//     receive the same columns whether a table holds zero or many rows.
//   - Raw date/time tokens are kept alongside the parsed timestamp so sinks
//     can reproduce the wire values exactly.
package model
