package identity

import (
	"reflect"
	"testing"
)

var (
	livingRoom = MustParseAddress("4C:24:98:6D:AC:E6")
	kitchen    = MustParseAddress("4C:24:98:6E:AC:E6")
	bedroom    = MustParseAddress("4C:24:98:70:AC:E6")
)

func testRegistry() []Entry {
	return []Entry{
		{Address: livingRoom, Aliases: []string{"Wohnzimmer", "WZ", "LRWFK"}},
		{Address: kitchen, Aliases: []string{"Kueche", "Licht"}},
		{Address: bedroom, Aliases: []string{"Schlafzimmer", "Licht"}},
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"upper case", "4C:24:98:6D:AC:E6", "4C:24:98:6D:AC:E6", false},
		{"lower case is canonicalised", "4c:24:98:6d:ac:e6", "4C:24:98:6D:AC:E6", false},
		{"too few bytes", "4C:24:98:6D:AC", "", true},
		{"too many bytes", "4C:24:98:6D:AC:E6:00", "", true},
		{"single digit byte", "4C:24:98:6D:AC:E", "", true},
		{"not hex", "4C:24:98:6D:AC:ZZ", "", true},
		{"dash separated", "4C-24-98-6D-AC-E6", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAddress(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseAddress(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestAddressIsPlaybulb(t *testing.T) {
	if !livingRoom.IsPlaybulb() {
		t.Errorf("%s should be recognised as a Playbulb", livingRoom)
	}
	other := MustParseAddress("11:22:33:44:55:66")
	if other.IsPlaybulb() {
		t.Errorf("%s should not be recognised as a Playbulb", other)
	}
}

func TestResolve(t *testing.T) {
	registry := testRegistry()

	tests := []struct {
		name  string
		token string
		want  []Address
	}{
		{"alias token", "WZ", []Address{livingRoom}},
		{"alias substring", "Wohn", []Address{livingRoom}},
		{"no match", "Zzz", nil},
		{"case sensitive", "wz", nil},
		{"shared alias selects both in registry order", "Licht", []Address{kitchen, bedroom}},
		{"address substring", "6E:AC", []Address{kitchen}},
		{"common suffix selects all", "AC:E6", []Address{livingRoom, kitchen, bedroom}},
		{"full address bypasses registry", "11:22:33:44:55:66", []Address{MustParseAddress("11:22:33:44:55:66")}},
		{"lower case address is still an address", "4c:24:98:6d:ac:e6", []Address{livingRoom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.token, registry)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestResolveAll(t *testing.T) {
	registry := testRegistry()

	got, unmatched := ResolveAll([]string{"Schlaf", "Licht", "WZ", "nowhere"}, registry)

	want := []Address{bedroom, kitchen, livingRoom}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveAll() addresses = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(unmatched, []string{"nowhere"}) {
		t.Errorf("ResolveAll() unmatched = %v, want [nowhere]", unmatched)
	}
}

func TestResolveIgnoresDuplicateEntries(t *testing.T) {
	registry := append(testRegistry(), Entry{Address: livingRoom, Aliases: []string{"WZ-Decke"}})

	got := Resolve("WZ", registry)
	if len(got) != 1 || got[0] != livingRoom {
		t.Errorf("Resolve(WZ) = %v, want [%s]", got, livingRoom)
	}
}

func TestSplitAliases(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Wohnzimmer|WZ|LRWFK", []string{"Wohnzimmer", "WZ", "LRWFK"}},
		{" Kueche | Licht ", []string{"Kueche", "Licht"}},
		{"single", []string{"single"}},
		{"a||b|", []string{"a", "b"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SplitAliases(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitAliases(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
