package globe

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

func TestIsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		run  []vec.Vec2
		want bool
	}{
		{
			name: "flat box",
			run:  []vec.Vec2{{X: 0, Y: 0}, {X: 20, Y: 0.5}, {X: 40, Y: 0.2}},
			want: true,
		},
		{
			name: "near vertical is protected",
			run:  []vec.Vec2{{X: 0, Y: 0}, {X: 0.5, Y: 15}, {X: 0.2, Y: 30}},
			want: false,
		},
		{
			name: "flat chord with small deviation",
			run:  []vec.Vec2{{X: 0, Y: 0}, {X: 20, Y: 1.6}, {X: 40, Y: 0.9}},
			want: true,
		},
		{
			name: "flat chord with visible bulge",
			run:  []vec.Vec2{{X: 0, Y: 0}, {X: 20, Y: 2.0}, {X: 40, Y: 0.9}},
			want: false,
		},
		{
			name: "short flat run",
			run:  []vec.Vec2{{X: 0, Y: 0}, {X: 8, Y: 0.5}, {X: 16, Y: 0.2}},
			want: false,
		},
		{
			name: "two points skip the checks",
			run:  []vec.Vec2{{X: 0, Y: 0}, {X: 40, Y: 0.5}},
			want: false,
		},
		{
			name: "diagonal",
			run:  []vec.Vec2{{X: 0, Y: 0}, {X: 20, Y: 20}, {X: 40, Y: 40}},
			want: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDegenerate(tc.run))
		})
	}
}

func TestProject(t *testing.T) {
	center := vec.Vec2{X: 390, Y: 390}
	const radius = 390.0
	c := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	g := Project(center, radius, c)

	require.NotEmpty(t, g.Front)
	require.NotEmpty(t, g.Back)
	assert.Equal(t, c, g.Color)
	assert.Equal(t, Boundary{Center: center, Radius: radius, Opacity: boundaryOpacity, Width: boundaryWidth}, g.Boundary)

	for _, r := range g.Runs() {
		require.GreaterOrEqual(t, len(r.Points), 2)
		assert.False(t, IsDegenerate(r.Points))
		for _, p := range r.Points {
			assert.LessOrEqual(t, p.Sub(center).Length(), radius+1e-9)
		}
		switch r.Side {
		case Front:
			assert.Equal(t, frontOpacity, r.Opacity)
			assert.Equal(t, frontWidth, r.Width)
		case Back:
			assert.Equal(t, backOpacity, r.Opacity)
			assert.Equal(t, backWidth, r.Width)
		}
	}
	for _, run := range g.Culled {
		assert.True(t, IsDegenerate(run))
	}

	runs := g.Runs()
	assert.Equal(t, Back, runs[0].Side, "back runs are drawn first")
	assert.Equal(t, Front, runs[len(runs)-1].Side)
	assert.Greater(t, frontOpacity, backOpacity)
	assert.Greater(t, frontWidth, backWidth)
}

func TestProjectDeterministic(t *testing.T) {
	a := Project(vec.Vec2{X: 300, Y: 250}, 240, color.RGBA{A: 0xFF})
	b := Project(vec.Vec2{X: 300, Y: 250}, 240, color.RGBA{A: 0xFF})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("projection differs:\n%s", diff)
	}
}

func TestEquatorFrontCrossesCenter(t *testing.T) {
	center := vec.Vec2{X: 100, Y: 100}
	pr := projector{center: center, radius: 50}
	pr.sinT, pr.cosT = 0, 1
	s := pr.project(0, 0)
	assert.InDelta(t, 100, s.p.X, 1e-12)
	assert.InDelta(t, 100, s.p.Y, 1e-12)
	assert.InDelta(t, 1, s.depth, 1e-12)

	s = pr.project(0, 180)
	assert.Less(t, s.depth, 0.0, "far side has negative depth")

	s = pr.project(90, 0)
	assert.InDelta(t, 50, s.p.Y, 1e-12, "north pole at the top without tilt")
}

func TestParallelsKeepOneArcPerSide(t *testing.T) {
	const radius = 390.0
	center := vec.Vec2{X: radius, Y: radius}
	tilt := tiltDegrees * math.Pi / 180
	pr := projector{center: center, radius: radius, sinT: math.Sin(tilt), cosT: math.Cos(tilt)}
	maxStep := 2*math.Pi*radius/parallelSteps + 1e-9

	for _, lat := range parallels {
		curve := make([]sample, 0, parallelSteps+1)
		for i := 0; i <= parallelSteps; i++ {
			curve = append(curve, pr.project(lat, 360*float64(i)/parallelSteps))
		}
		var g Grid
		g.addCurve(curve, true)

		assert.LessOrEqual(t, len(g.Front), 1, "lat %v", lat)
		assert.LessOrEqual(t, len(g.Back), 1, "lat %v", lat)
		assert.Equal(t, 2, len(g.Front)+len(g.Back)+len(g.Culled), "lat %v", lat)
		for _, r := range g.Runs() {
			for i := 1; i < len(r.Points); i++ {
				assert.LessOrEqual(t, r.Points[i].Sub(r.Points[i-1]).Length(), maxStep, "lat %v %v", lat, r.Side)
			}
		}
	}

	equator := make([]sample, 0, parallelSteps+1)
	for i := 0; i <= parallelSteps; i++ {
		equator = append(equator, pr.project(0, 360*float64(i)/parallelSteps))
	}
	var g Grid
	g.addCurve(equator, true)
	require.Len(t, g.Front, 1)
	assert.Len(t, g.Front[0].Points, parallelSteps/2)
}

func TestOpenCurveIsNotJoined(t *testing.T) {
	curve := []sample{
		{p: vec.Vec2{X: 0, Y: 30}, depth: 1},
		{p: vec.Vec2{X: 0, Y: 60}, depth: 1},
		{p: vec.Vec2{X: 0, Y: 90}, depth: -1},
		{p: vec.Vec2{X: 0, Y: 120}, depth: -1},
		{p: vec.Vec2{X: 0, Y: 0}, depth: 1},
		{p: vec.Vec2{X: 0, Y: 30}, depth: 1},
	}
	var open Grid
	open.addCurve(curve, false)
	assert.Len(t, open.Front, 2)
	assert.Len(t, open.Back, 1)

	var closed Grid
	closed.addCurve(curve, true)
	require.Len(t, closed.Front, 1)
	want := []vec.Vec2{{X: 0, Y: 0}, {X: 0, Y: 30}, {X: 0, Y: 60}}
	if diff := cmp.Diff(want, closed.Front[0].Points); diff != "" {
		t.Errorf("joined arc mismatch (-want +got):\n%s", diff)
	}
}
