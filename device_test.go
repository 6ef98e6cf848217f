package twisty

import (
	"errors"
	"testing"

	"github.com/SeamusWaldron/twisty/internal/protocol"
)

func newTestCube() *SmartCube {
	return newSmartCube(nil, Device{Name: "GoCube_test"}, defaultConfig())
}

func TestRotationMessage(t *testing.T) {
	c := newTestCube()
	in := NewInbox()
	c.Forward(in)

	c.handleMessage(&protocol.Message{
		Type:    protocol.MsgTypeRotation,
		Payload: []byte{0x08, 0x00, 0x05, 0x00},
	})

	got := in.Take()
	if FormatMoves(got) != "R U'" {
		t.Errorf("forwarded moves = %s, want R U'", FormatMoves(got))
	}
	if FormatMoves(c.Moves()) != "R U'" {
		t.Errorf("Moves() = %s, want R U'", FormatMoves(c.Moves()))
	}

	c.ClearHistory()
	if len(c.Moves()) != 0 {
		t.Error("ClearHistory should empty the history")
	}
}

func TestRotationMessageBadPayload(t *testing.T) {
	c := newTestCube()
	var moves []Move
	c.OnMove(func(m Move) { moves = append(moves, m) })

	c.handleMessage(&protocol.Message{Type: protocol.MsgTypeRotation, Payload: []byte{0x08}})
	if len(moves) != 0 {
		t.Errorf("malformed payload produced moves %v", moves)
	}
}

func TestColorMapping(t *testing.T) {
	tests := []struct {
		color string
		want  Face
	}{
		{"white", FaceU},
		{"yellow", FaceD},
		{"green", FaceF},
		{"blue", FaceB},
		{"red", FaceR},
		{"orange", FaceL},
	}
	for _, tt := range tests {
		m, ok := rotationToMove(protocol.RotationEvent{Color: tt.color, Clockwise: true})
		if !ok || m.Face != tt.want || m.Direction != CW {
			t.Errorf("%s -> %v, %v, want %s", tt.color, m, ok, tt.want)
		}
	}
	if _, ok := rotationToMove(protocol.RotationEvent{Color: "purple"}); ok {
		t.Error("unknown color should not map to a move")
	}
}

func TestOrientationMessage(t *testing.T) {
	c := newTestCube()
	var got Orientation
	c.OnOrientationChange(func(o Orientation) { got = o })

	c.handleMessage(&protocol.Message{
		Type:    protocol.MsgTypeOrientation,
		Payload: []byte("0#0#0#1"),
	})
	if got.UpFace != FaceU || got.FrontFace != FaceF {
		t.Errorf("orientation = %s/%s, want U/F", got.UpFace, got.FrontFace)
	}
}

func TestBatteryMessage(t *testing.T) {
	c := newTestCube()
	level := -1
	c.OnBattery(func(l int) { level = l })

	c.handleMessage(&protocol.Message{Type: protocol.MsgTypeBattery, Payload: []byte{80}})
	if level != 80 {
		t.Errorf("battery = %d, want 80", level)
	}
}

func TestDisconnectedCube(t *testing.T) {
	c := newTestCube()
	if c.IsConnected() {
		t.Error("cube without a client should not be connected")
	}
	if c.Battery() != -1 {
		t.Errorf("Battery() = %d, want -1", c.Battery())
	}
	if c.DeviceName() != "GoCube_test" {
		t.Errorf("DeviceName() = %q", c.DeviceName())
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
	for name, fn := range map[string]func() error{
		"FlashBacklight":     c.FlashBacklight,
		"ResetSolved":        c.ResetSolved,
		"EnableOrientation":  c.EnableOrientation,
		"DisableOrientation": c.DisableOrientation,
	} {
		if err := fn(); !errors.Is(err, ErrNotConnected) {
			t.Errorf("%s() = %v, want ErrNotConnected", name, err)
		}
	}
}
