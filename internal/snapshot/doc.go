// Package snapshot implements the quote snapshot assembly pipeline.
//
// A cycle classifies every requested code to its venue, partitions the list
// into endpoint-sized batches, fetches each batch in order with a hard
// minimum spacing between requests, decodes the returned messages into the
// fixed row schema, and concatenates the results. One batch exhausting its
// retry budget drops that batch's codes for the cycle; it never aborts the
// run or disturbs sibling batches.
package snapshot
