package snapshot

import (
	"strings"

	"github.com/jchliao/twse-data/internal/market"
)

// DefaultBatchSize is the maximum number of codes the quote endpoint
// accepts in one request.
const DefaultBatchSize = 50

// Pair is one venue-qualified ticker code.
type Pair struct {
	Code  string
	Venue market.Venue
}

// Batch is an ordered group of pairs fetched in a single request.
type Batch []Pair

// Partition splits pairs into consecutive batches of at most size elements,
// preserving input order within and across batches. The last batch may be
// smaller.
func Partition(pairs []Pair, size int) []Batch {
	if size < 1 || len(pairs) == 0 {
		return nil
	}
	batches := make([]Batch, 0, (len(pairs)+size-1)/size)
	for start := 0; start < len(pairs); start += size {
		end := start + size
		if end > len(pairs) {
			end = len(pairs)
		}
		batches = append(batches, Batch(pairs[start:end]))
	}
	return batches
}

// BuildQuery emits the endpoint's ex_ch filter string for a batch, joining
// each pair as {venue}_{code}.tw with "|". The string deterministically
// encodes every requested code exactly once, in input order; results are
// keyed by the code field in each returned item, not by position.
func BuildQuery(b Batch) string {
	parts := make([]string, len(b))
	for i, p := range b {
		parts[i] = string(p.Venue) + "_" + p.Code + ".tw"
	}
	return strings.Join(parts, "|")
}
