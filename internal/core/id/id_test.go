package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Unique(t *testing.T) {
	a := New()
	b := New()
	assert.NotEqual(t, a, b)
	assert.False(t, IsNil(a))
}

func TestNil_IsValueUsableInReturns(t *testing.T) {
	lookup := func(found bool) (ID, bool) {
		if !found {
			return Nil, false
		}
		return New(), true
	}

	missing, ok := lookup(false)
	assert.False(t, ok)
	assert.True(t, IsNil(missing))
}

func TestParse_RoundTrip(t *testing.T) {
	a := New()
	parsed, err := Parse(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = Parse("not-a-uuid")
	assert.Error(t, err)
}
