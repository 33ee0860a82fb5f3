// Package decode converts the quote endpoint's compact string tokens into
// typed values.
//
// Conventions:
//   - Decoders are total: malformed or absent input degrades to nil, never
//     to an error. The endpoint blanks fields outside trading hours, so
//     absence is expected and is not logged per field.
//   - Ladders: underscore-delimited, up to five levels, trailing empty
//     slots padded by the provider.
//   - Timestamps: provider-local time (Asia/Taipei), split into separate
//     date and time tokens on the wire.
package decode
