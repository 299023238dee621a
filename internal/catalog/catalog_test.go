package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamancini/badlock/internal/types"
)

func TestBuiltinIsValid(t *testing.T) {
	entries := Builtin()
	require.NotEmpty(t, entries)
	assert.NoError(t, Validate(entries))
}

func TestBuiltinReturnsCopy(t *testing.T) {
	first := Builtin()
	first[0].Name = "mutated"

	second := Builtin()
	assert.NotEqual(t, "mutated", second[0].Name)
}

func TestIconKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Home Up", "home_up"},
		{"LockStar", "lockstar"},
		{"Edge lighting+", "edge_lighting"},
		{"One Hand Operation+", "one_hand_operation"},
		{"Routines+", "routines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Entry{Name: tt.name}.IconKey())
		})
	}
}

func TestMerge(t *testing.T) {
	base := []Entry{
		{Name: "A", Package: "com.example.a", Category: types.CategoryMakeUp, InfoURL: "https://example.com/a/"},
		{Name: "B", Package: "com.example.b", Category: types.CategoryLifeUp, InfoURL: "https://example.com/b/"},
	}
	extra := []Entry{
		{Name: "B2", Package: "com.example.b", Category: types.CategoryMakeUp, InfoURL: "https://example.com/b2/"},
		{Name: "C", Package: "com.example.c", Category: types.CategoryLifeUp, InfoURL: "https://example.com/c/"},
	}

	merged := Merge(base, extra)

	require.Len(t, merged, 3)
	assert.Equal(t, "A", merged[0].Name)
	assert.Equal(t, "B2", merged[1].Name, "extra entry should replace base entry in place")
	assert.Equal(t, types.CategoryMakeUp, merged[1].Category)
	assert.Equal(t, "C", merged[2].Name)
	assert.Equal(t, "B", base[1].Name, "base must not be modified")
}

func TestFind(t *testing.T) {
	entries := Builtin()

	tests := []struct {
		name    string
		query   string
		want    string
		wantErr string
	}{
		{"exact name", "LockStar", "LockStar", ""},
		{"case insensitive", "lockstar", "LockStar", ""},
		{"spaces ignored", "homeup", "Home Up", ""},
		{"package id", "com.samsung.android.goodlock", "Good Lock", ""},
		{"unique prefix", "noti", "NotiStar", ""},
		{"plus sign kept", "routines+", "Routines+", ""},
		{"ambiguous prefix", "nice", "", "ambiguous"},
		{"not found", "doesnotexist", "", "not found"},
		{"empty", "  ", "", "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(entries, tt.query)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names([]Entry{{Name: "b"}, {Name: "a"}, {Name: "c"}})
	assert.Equal(t, []string{"a", "b", "c"}, names)
}
