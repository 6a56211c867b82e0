package wavetable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAtExactTableIndexMatchesSample(t *testing.T) {
	tbl := &StaticWavetable{
		Samples:    []float64{0, 1, 2, 3, 4, 5, 6, 7},
		OutputComp: 2.0,
	}
	for k := 0; k < len(tbl.Samples); k++ {
		phase := float64(k) / float64(len(tbl.Samples))
		got := tbl.Read(phase)
		want := tbl.Samples[k] * tbl.OutputComp
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestFromBitsRoundTrips(t *testing.T) {
	want := []float64{0, 1.5, -2.25, 3.125}
	bits := make([]uint64, len(want))
	for i, v := range want {
		bits[i] = math.Float64bits(v)
	}
	got := FromBits(bits)
	assert.Equal(t, want, got)
}



func TestDatabaseDuplicateRegistrationKeepsExisting(t *testing.T) {
	db := NewDatabase()
	first := &Set{Name: "saw"}
	second := &Set{Name: "saw"}

	h1, err := db.Register(first)
	require.NoError(t, err)

	h2, err := db.Register(second)
	assert.Error(t, err)
	assert.Equal(t, h1, h2)

	got, err := db.LookupHandle(h1)
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestLookupMissingTableReturnsTableNotFound(t *testing.T) {
	db := NewDatabase()
	_, err := db.Lookup("nope")
	assert.Error(t, err)
}
