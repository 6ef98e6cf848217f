package protocol

import (
	"errors"
	"math"
	"testing"
)

func TestFrameParse(t *testing.T) {
	data := Frame(MsgTypeRotation, []byte{0x08, 0x00, 0x05, 0x03})

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if msg.Type != MsgTypeRotation {
		t.Errorf("Type = 0x%02X, want 0x%02X", msg.Type, MsgTypeRotation)
	}
	if string(msg.Payload) != string([]byte{0x08, 0x00, 0x05, 0x03}) {
		t.Errorf("Payload = % X", msg.Payload)
	}
	if msg.RawBase64 == "" {
		t.Error("RawBase64 should be set")
	}
}

func TestParseIgnoresTrailingBytes(t *testing.T) {
	data := append(Frame(MsgTypeBattery, []byte{77}), 0xFF, 0xFF)

	msg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(msg.Payload) != 1 || msg.Payload[0] != 77 {
		t.Errorf("Payload = % X, want 4D", msg.Payload)
	}
}

func TestParseErrors(t *testing.T) {
	good := Frame(MsgTypeBattery, []byte{50})

	badPrefix := append([]byte{}, good...)
	badPrefix[0] = 0x00

	badChecksum := append([]byte{}, good...)
	badChecksum[len(badChecksum)-3]++

	badSuffix := append([]byte{}, good...)
	badSuffix[len(badSuffix)-1] = 0x00

	truncated := good[:len(good)-1]

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", []byte{FramePrefix, 4}, ErrMessageTooShort},
		{"prefix", badPrefix, ErrInvalidPrefix},
		{"checksum", badChecksum, ErrInvalidChecksum},
		{"suffix", badSuffix, ErrInvalidSuffix},
		{"truncated", truncated, ErrInvalidLength},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.data); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	cmd := BuildCommand(CmdRequestBattery)
	want := []byte{0x2A, 0x01, 0x32, 0x2A + 0x01 + 0x32, 0x0D, 0x0A}
	if string(cmd) != string(want) {
		t.Errorf("BuildCommand = % X, want % X", cmd, want)
	}
}

func TestDecodeRotation(t *testing.T) {
	events, err := DecodeRotation([]byte{0x08, 0x00, 0x05, 0x03})
	if err != nil {
		t.Fatalf("DecodeRotation: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Color != "red" || !events[0].Clockwise {
		t.Errorf("event 0 = %+v, want red clockwise", events[0])
	}
	if events[1].Color != "white" || events[1].Clockwise {
		t.Errorf("event 1 = %+v, want white counter-clockwise", events[1])
	}
	if events[1].CenterOrientation != 0x03 {
		t.Errorf("CenterOrientation = %d, want 3", events[1].CenterOrientation)
	}

	if _, err := DecodeRotation([]byte{0x08}); err == nil {
		t.Error("odd-length payload should fail")
	}
	if _, err := DecodeRotation([]byte{0x0C, 0x00}); err == nil {
		t.Error("unknown color should fail")
	}
}

func TestDecodeBattery(t *testing.T) {
	b, err := DecodeBattery([]byte{64})
	if err != nil {
		t.Fatalf("DecodeBattery: %v", err)
	}
	if b.Level != 64 {
		t.Errorf("Level = %d, want 64", b.Level)
	}
	if _, err := DecodeBattery(nil); err == nil {
		t.Error("empty payload should fail")
	}
}

func TestDecodeOrientation(t *testing.T) {
	// Identity, scaled the way the device sends raw integers.
	o, err := DecodeOrientation([]byte("0#0#0#1000"))
	if err != nil {
		t.Fatalf("DecodeOrientation: %v", err)
	}
	if math.Abs(o.Quat.Len()-1) > 1e-9 {
		t.Errorf("quaternion not normalized: %v", o.Quat)
	}
	if o.UpFace != "U" || o.FrontFace != "F" {
		t.Errorf("faces = %s/%s, want U/F", o.UpFace, o.FrontFace)
	}

	// Quarter turn about X: up points to front, front points down.
	o, err = DecodeOrientation([]byte("707#0#0#707"))
	if err != nil {
		t.Fatalf("DecodeOrientation: %v", err)
	}
	if o.UpFace != "F" || o.FrontFace != "D" {
		t.Errorf("faces = %s/%s, want F/D", o.UpFace, o.FrontFace)
	}

	if _, err := DecodeOrientation([]byte("1#2#3")); err == nil {
		t.Error("three parts should fail")
	}
	if _, err := DecodeOrientation([]byte("0#0#0#0")); err == nil {
		t.Error("zero quaternion should fail")
	}
}
