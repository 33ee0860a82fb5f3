package market

// Venue identifies the exchange segment a ticker trades on.
type Venue string

const (
	// VenueListed is the TWSE main board ("tse" in the wire protocol).
	VenueListed Venue = "tse"
	// VenueOTC is the TPEX over-the-counter board ("otc" in the wire protocol).
	VenueOTC Venue = "otc"
)

// Directory resolves ticker codes to venues. Classification must be total:
// every code yields exactly one venue. Implementations backed by a fuller
// venue source (e.g. the exchange's ISIN directory) can be swapped in
// without touching the batcher or fetcher.
type Directory interface {
	Classify(code string) Venue
}

// StaticDirectory classifies codes from a fixed lookup table, defaulting to
// the listed board for unmapped codes.
type StaticDirectory struct {
	venues map[string]Venue
}

// NewStaticDirectory creates a directory from the given table. The map is
// copied; a nil map yields a directory that classifies everything as listed.
func NewStaticDirectory(venues map[string]Venue) *StaticDirectory {
	m := make(map[string]Venue, len(venues))
	for code, v := range venues {
		m[code] = v
	}
	return &StaticDirectory{venues: m}
}

// DefaultDirectory returns a directory seeded with a small set of known
// codes. Placeholder until a richer venue source is wired in.
func DefaultDirectory() *StaticDirectory {
	return NewStaticDirectory(map[string]Venue{
		"2330": VenueListed,
		"2317": VenueListed,
		"2603": VenueListed,
		"3008": VenueOTC,
	})
}

// Classify returns the venue for a code, defaulting to VenueListed.
func (d *StaticDirectory) Classify(code string) Venue {
	if v, ok := d.venues[code]; ok {
		return v
	}
	return VenueListed
}

// HistorySuffix returns the ticker suffix convention used by the
// historical-bars provider for this venue.
func (v Venue) HistorySuffix() string {
	if v == VenueOTC {
		return ".TWO"
	}
	return ".TW"
}
