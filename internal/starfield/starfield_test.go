package starfield

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"github.com/rook-computer/starmap/internal/rng"
)

var white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

func TestReferenceSeed(t *testing.T) {
	f := Generate(780, 780, rng.New(12345), white)
	require.Len(t, f.Stars, 1141)

	want := []vec.Vec2{
		{X: 239.26676630973816, Y: 377.6802287902683},
		{X: 57.53088262863457, Y: 597.7892445260659},
		{X: 737.758465083316, Y: 694.68597213272},
		{X: 369.20741454698145, Y: 237.9352155374363},
		{X: 608.5166482301429, Y: 614.1095250891522},
	}
	for i, p := range want {
		assert.InDelta(t, p.X, f.Stars[i].Pos.X, 1e-9, "star %d x", i)
		assert.InDelta(t, p.Y, f.Stars[i].Pos.Y, 1e-9, "star %d y", i)
	}

	bright := 0
	for _, s := range f.Stars {
		if s.Bright {
			bright++
		}
	}
	assert.Equal(t, 136, bright)
	assert.Equal(t, white, f.Color)
}

func TestDeterministic(t *testing.T) {
	a := Generate(640, 480, rng.New(99), white)
	b := Generate(640, 480, rng.New(99), white)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different fields (-a +b):\n%s", diff)
	}
}

func TestBandsAcrossSeeds(t *testing.T) {
	for seed := uint32(0); seed < 200; seed++ {
		f := Generate(500, 300, rng.New(seed*7919), white)
		require.GreaterOrEqual(t, len(f.Stars), MinStars, "seed %d", seed)
		require.LessOrEqual(t, len(f.Stars), MaxStars, "seed %d", seed)
		for _, s := range f.Stars {
			require.True(t, s.Pos.X >= 0 && s.Pos.X < 500)
			require.True(t, s.Pos.Y >= 0 && s.Pos.Y < 300)
			require.True(t, s.Alpha >= 0 && s.Alpha <= 1)
			if s.Bright {
				require.True(t, s.Radius >= brightRadiusMin && s.Radius < brightRadiusMin+brightRadiusSpan)
				require.True(t, s.Alpha >= brightAlphaMin)
			} else {
				require.True(t, s.Radius >= dimRadiusMin && s.Radius < dimRadiusMin+dimRadiusSpan)
				require.True(t, s.Alpha < dimAlphaMin+dimAlphaSpan)
			}
		}
	}
}

func TestEvery(t *testing.T) {
	f := Field{Stars: make([]Star, 10)}
	for i := range f.Stars {
		f.Stars[i].Radius = float64(i)
	}
	got := f.Every(4)
	require.Len(t, got, 3)
	assert.Equal(t, []float64{0, 4, 8}, []float64{got[0].Radius, got[1].Radius, got[2].Radius})
	assert.Len(t, f.Every(0), 10)
}
