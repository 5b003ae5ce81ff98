package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(600, 600, 600, 600)

	if cam.X != 300 || cam.Y != 300 {
		t.Errorf("got camera at (%f, %f), want (300, 300)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("got zoom %f, want 1.0", cam.Zoom)
	}
	if cam.MinZoom != 1.0 {
		t.Errorf("got MinZoom %f, want 1.0", cam.MinZoom)
	}
}

func TestIdentityAtMinZoom(t *testing.T) {
	cam := New(600, 400, 600, 400)

	for _, p := range []struct{ x, y float32 }{{0, 0}, {123, 45}, {599, 399}} {
		sx, sy := cam.WorldToScreen(p.x, p.y)
		if !near(sx, p.x) || !near(sy, p.y) {
			t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want identity", p.x, p.y, sx, sy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(600, 600, 600, 600)
	cam.ZoomAt(100, 100, 3)

	for _, tc := range []struct{ sx, sy float32 }{
		{300, 300},
		{10, 10},
		{590, 420},
	} {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip (%f,%f) -> (%f,%f) -> (%f,%f)", tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(600, 600, 600, 600)

	cam.ZoomAt(300, 300, 2)
	wx, wy := cam.ScreenToWorld(300, 300)
	if !near(wx, 300) || !near(wy, 300) {
		t.Errorf("world under cursor = (%v, %v), want (300, 300)", wx, wy)
	}

	cam.ZoomAt(150, 150, 2)
	wx, wy = cam.ScreenToWorld(150, 150)
	if !near(wx, 225) || !near(wy, 225) {
		t.Errorf("world under cursor = (%v, %v), want (225, 225)", wx, wy)
	}
}

func TestPanStaysInBounds(t *testing.T) {
	tests := []struct {
		name   string
		zoom   float32
		dx, dy float32
		wantX  float32
		wantY  float32
	}{
		{"min zoom cannot pan", 1, 200, -200, 300, 300},
		{"zoomed pan", 2, 100, 0, 350, 300},
		{"zoomed pan past edge", 2, 1000, -1000, 450, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(600, 600, 600, 600)
			cam.SetZoom(tt.zoom)
			cam.Pan(tt.dx, tt.dy)
			if !near(cam.X, tt.wantX) || !near(cam.Y, tt.wantY) {
				t.Errorf("got (%v, %v), want (%v, %v)", cam.X, cam.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(600, 600, 600, 600)

	cam.SetZoom(0.1)
	if cam.Zoom != 1.0 {
		t.Errorf("got zoom %f, want 1.0", cam.Zoom)
	}

	cam.SetZoom(20)
	if cam.Zoom != 8.0 {
		t.Errorf("got zoom %f, want 8.0", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(600, 600, 600, 600)
	cam.SetZoom(2)

	// Visible range is (150,150)-(450,450)
	if !cam.IsVisible(300, 300, 5, 5) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(10, 10, 5, 5) {
		t.Error("corner cell should not be visible")
	}
	if !cam.IsVisible(140, 300, 15, 5) {
		t.Error("cell overlapping the edge should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(600, 600, 600, 600)
	cam.ZoomAt(50, 50, 4)

	cam.Reset()

	if cam.X != 300 || cam.Y != 300 {
		t.Errorf("got position (%f, %f), want (300, 300)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("got zoom %f, want 1.0", cam.Zoom)
	}
}
