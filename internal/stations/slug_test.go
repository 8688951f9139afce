package stations

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Alpha Peiraias", "alpha-peiraias"},
		{"  Station -- North  ", "station-north"},
		{"Depot #3 (Port)", "depot-3-port"},
		{"ALL CAPS NAME", "all-caps-name"},
		{"already-slugged", "already-slugged"},
		{"trailing punctuation!!!", "trailing-punctuation"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.name); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSlugifyDropsNonASCIILetters(t *testing.T) {
	// Greek station names transliterate upstream; the slugger only keeps
	// what survives as ASCII.
	if got := Slugify("Σταθμός Αθήνα 12"); got != "12" {
		t.Errorf("Slugify greek = %q, want %q", got, "12")
	}
}
