package calendar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorOf_FirstSlots(t *testing.T) {
	assert.Equal(t, "purple", ColorOf(1).Name)
	assert.Equal(t, "indigo", ColorOf(2).Name)
	assert.Equal(t, "teal", ColorOf(7).Name)
	assert.Equal(t, "purple", ColorOf(8).Name)
}

func TestColorOf_Cyclic(t *testing.T) {
	k := len(PaletteV1)
	for id := 1; id <= 50; id++ {
		assert.Equal(t, ColorOf(id), ColorOf(id+k), "id %d", id)
		assert.Equal(t, ColorOf(id), ColorOf(id), "id %d", id)
	}
}

func TestPaletteIndex_AlwaysInRange(t *testing.T) {
	palettes := map[string]Palette{
		"v1":    PaletteV1,
		"two":   PaletteV1[:2],
		"one":   PaletteV1[:1],
		"empty": nil,
	}
	for name, p := range palettes {
		t.Run(name, func(t *testing.T) {
			k := len(p)
			if k == 0 {
				k = len(PaletteV1)
			}
			for _, id := range []int{math.MinInt, -15, -1, 0, 1, 2, 6, 7, 8, 1000, math.MaxInt} {
				i := p.Index(id)
				assert.GreaterOrEqual(t, i, 0, "id %d", id)
				assert.Less(t, i, k, "id %d", id)
				assert.NotPanics(t, func() { p.ColorOf(id) })
			}
		})
	}
}

func TestPaletteIndex_NonPositiveIDs(t *testing.T) {
	// 0 sits just before 1 in the cycle, so it takes the last slot.
	assert.Equal(t, 6, PaletteV1.Index(0))
	assert.Equal(t, 5, PaletteV1.Index(-1))
	assert.Equal(t, PaletteV1.Index(-6), PaletteV1.Index(1))
}
