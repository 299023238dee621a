package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamancini/badlock/internal/types"
)

func validEntry() Entry {
	return Entry{
		Name:     "LockStar",
		Package:  "com.samsung.systemui.lockstar",
		Category: types.CategoryMakeUp,
		InfoURL:  "https://www.apkmirror.com/apk/samsung-electronics-co-ltd/lockstar/",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Entry)
		wantErr string
	}{
		{"valid", func(e *Entry) {}, ""},
		{"missing name", func(e *Entry) { e.Name = "" }, "modules[0].name"},
		{"single segment package", func(e *Entry) { e.Package = "lockstar" }, "invalid package identifier"},
		{"package with dash", func(e *Entry) { e.Package = "com.samsung.lock-star" }, "invalid package identifier"},
		{"missing category", func(e *Entry) { e.Category = "" }, "category is required"},
		{"relative url", func(e *Entry) { e.InfoURL = "/apk/lockstar/" }, "info_url"},
		{"non http url", func(e *Entry) { e.InfoURL = "ftp://example.com/" }, "info_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)
			err := Validate([]Entry{e})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDuplicatePackage(t *testing.T) {
	err := Validate([]Entry{validEntry(), validEntry()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate package")
	assert.Contains(t, err.Error(), "modules[1].package")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	a := validEntry()
	a.Name = ""
	b := validEntry()
	b.Package = "bad"

	err := Validate([]Entry{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modules[0].name")
	assert.Contains(t, err.Error(), "modules[1].package")
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "modules[2].name", Message: "name is required"}
	assert.Equal(t, "modules[2].name: name is required", err.Error())
}
