package market

import "testing"

func TestStaticDirectoryClassify(t *testing.T) {
	dir := NewStaticDirectory(map[string]Venue{
		"2330": VenueListed,
		"3008": VenueOTC,
	})

	tests := []struct {
		code string
		want Venue
	}{
		{"2330", VenueListed},
		{"3008", VenueOTC},
		{"9999", VenueListed}, // unmapped defaults to listed
		{"", VenueListed},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := dir.Classify(tt.code); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	dir := DefaultDirectory()
	for i := 0; i < 3; i++ {
		if got := dir.Classify("2330"); got != VenueListed {
			t.Fatalf("Classify(2330) = %q on call %d, want tse", got, i+1)
		}
	}
}

func TestNilTableDefaultsListed(t *testing.T) {
	dir := NewStaticDirectory(nil)
	if got := dir.Classify("3008"); got != VenueListed {
		t.Errorf("Classify with nil table = %q, want tse", got)
	}
}

func TestHistorySuffix(t *testing.T) {
	if got := VenueListed.HistorySuffix(); got != ".TW" {
		t.Errorf("listed suffix = %q, want .TW", got)
	}
	if got := VenueOTC.HistorySuffix(); got != ".TWO" {
		t.Errorf("otc suffix = %q, want .TWO", got)
	}
}
