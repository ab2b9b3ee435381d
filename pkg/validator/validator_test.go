package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		ok   bool
		want string
	}{
		{"float", 10.5, true, "10.5"},
		{"zero", 0.0, true, "0"},
		{"json number", json.Number("3.25"), true, "3.25"},
		{"negative", -1.0, false, ""},
		{"string", "10", false, ""},
		{"nil", nil, false, ""},
		{"bool", true, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestParseIntegers(t *testing.T) {
	n, ok := ParseNonNegativeInt(5.0)
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = ParseNonNegativeInt(2.5)
	assert.False(t, ok)

	n, ok = ParseNonNegativeInt(0.0)
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	_, ok = ParseNonNegativeInt(-3.0)
	assert.False(t, ok)

	_, ok = ParsePositiveInt(0.0)
	assert.False(t, ok)

	_, ok = ParsePositiveInt("3")
	assert.False(t, ok)

	n, ok = ParsePositiveInt(json.Number("7"))
	assert.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestParseID(t *testing.T) {
	n, ok := ParseID("5")
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	n, ok = ParseID(12.0)
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	for _, bad := range []any{"0", "-2", "5.5", "abc", "", 0.0, nil, true} {
		_, ok = ParseID(bad)
		assert.False(t, ok, "%#v", bad)
	}
}

func TestFirstError(t *testing.T) {
	type req struct {
		Username string `validate:"required,min=3,username"`
	}
	assert.Equal(t, "", FirstError(req{Username: "ana"}))
	assert.Contains(t, FirstError(req{Username: "an"}), "min=3")
	assert.Contains(t, FirstError(req{Username: "a b c"}), "username")
}
