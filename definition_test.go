package twisty

import (
	"math"
	"slices"
	"testing"
)

func TestDefinitionTableComplete(t *testing.T) {
	faces := Faces()
	if len(faces) != 18 {
		t.Fatalf("Faces() returned %d faces, want 18", len(faces))
	}

	for _, f := range faces {
		d, ok := Lookup(f)
		if !ok {
			t.Errorf("Lookup(%q) missing", f)
			continue
		}
		if d.Face != f {
			t.Errorf("Lookup(%q).Face = %q", f, d.Face)
		}
		if math.Abs(d.Angle) != QuarterTurn {
			t.Errorf("%s angle = %v, want a signed quarter turn", f, d.Angle)
		}
		if !slices.Contains(d.Layers, d.Slice) {
			t.Errorf("%s layers %v do not include slice %d", f, d.Layers, d.Slice)
		}
	}
}

func TestDefinitionLayers(t *testing.T) {
	tests := []struct {
		face   Face
		axis   Axis
		layers int
	}{
		{FaceR, AxisX, 1},
		{FaceU, AxisY, 1},
		{FaceB, AxisZ, 1},
		{FaceM, AxisX, 1},
		{FaceE, AxisY, 1},
		{FaceS, AxisZ, 1},
		{FaceRw, AxisX, 2},
		{FaceDw, AxisY, 2},
		{FaceX, AxisX, 3},
		{FaceY, AxisY, 3},
		{FaceZ, AxisZ, 3},
	}
	for _, tt := range tests {
		d := MustLookup(tt.face)
		if d.Axis != tt.axis {
			t.Errorf("%s axis = %s, want %s", tt.face, d.Axis, tt.axis)
		}
		if len(d.Layers) != tt.layers {
			t.Errorf("%s turns %d layers, want %d", tt.face, len(d.Layers), tt.layers)
		}
	}
}

func TestSliceMovesFollowTheirFace(t *testing.T) {
	pairs := [][2]Face{{FaceM, FaceL}, {FaceE, FaceD}, {FaceS, FaceF}}
	for _, p := range pairs {
		if MustLookup(p[0]).Angle != MustLookup(p[1]).Angle {
			t.Errorf("%s should turn the same way as %s", p[0], p[1])
		}
	}
}

func TestTurnAngle(t *testing.T) {
	d := MustLookup(FaceR)
	if got := d.TurnAngle(R2); got != -math.Pi {
		t.Errorf("R2 turn angle = %v, want -pi", got)
	}
	if got := d.TurnAngle(RPrime); got != QuarterTurn {
		t.Errorf("R' turn angle = %v, want pi/2", got)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	d, _ := Lookup(FaceR)
	d.Layers[0] = 0
	m := MustLookup(FaceX)
	m.Layers[0] = 5

	if got, _ := Lookup(FaceR); !slices.Equal(got.Layers, []int{1}) {
		t.Errorf("Lookup(R).Layers = %v after caller edit, want [1]", got.Layers)
	}
	if got := MustLookup(FaceX); !slices.Equal(got.Layers, []int{-1, 0, 1}) {
		t.Errorf("MustLookup(x).Layers = %v after caller edit, want [-1 0 1]", got.Layers)
	}
}

func TestMustLookupPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLookup should panic on an unknown face")
		}
	}()
	MustLookup(Face("Q"))
}
