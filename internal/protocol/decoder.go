package protocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// RotationEvent represents a single face rotation from the cube.
type RotationEvent struct {
	FaceCode          byte   // Raw face+direction code (0x00-0x0B)
	CenterOrientation byte   // Center piece orientation
	Clockwise         bool   // Direction of rotation
	Color             string // Color name (blue, green, white, yellow, red, orange)
}

// BatteryEvent represents a battery level notification.
type BatteryEvent struct {
	Level int // 0-100 percentage
}

// OrientationEvent is one gyroscope sample.
type OrientationEvent struct {
	Quat mgl64.Quat // Normalized rotation from the reference pose

	// Derived discrete orientation
	UpFace    string // Which face is pointing up (U, D, F, B, R, L)
	FrontFace string // Which face is facing the solver
}

// Color to face code mapping based on GoCube protocol
var colorNames = map[byte]string{
	0: "blue",
	1: "green",
	2: "white",
	3: "yellow",
	4: "red",
	5: "orange",
}

// DecodeRotation decodes a rotation message payload into rotation events.
// Rotation payloads contain pairs of bytes: [face_dir] [center_orientation]
func DecodeRotation(payload []byte) ([]RotationEvent, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("rotation payload must have even length, got %d", len(payload))
	}

	var events []RotationEvent
	for i := 0; i < len(payload); i += 2 {
		faceCode := payload[i]

		// Even codes are clockwise, odd codes counter-clockwise.
		colorIdx := faceCode / 2
		colorName, ok := colorNames[colorIdx]
		if !ok {
			return nil, fmt.Errorf("unknown color index %d from face code 0x%02X", colorIdx, faceCode)
		}

		events = append(events, RotationEvent{
			FaceCode:          faceCode,
			CenterOrientation: payload[i+1],
			Clockwise:         faceCode%2 == 0,
			Color:             colorName,
		})
	}

	return events, nil
}

// DecodeBattery decodes a battery message payload.
func DecodeBattery(payload []byte) (*BatteryEvent, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("battery payload too short")
	}
	return &BatteryEvent{
		Level: int(payload[0]),
	}, nil
}

// DecodeOrientation decodes an orientation message payload.
// Format: ASCII string "x#y#z#w" where # is the separator. The device sends
// raw integer components; the result is normalized.
func DecodeOrientation(payload []byte) (*OrientationEvent, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 4 {
		return nil, fmt.Errorf("orientation payload must have 4 parts, got %d", len(parts))
	}

	var v [4]float64
	for i, name := range []string{"x", "y", "z", "w"} {
		f, err := strconv.ParseFloat(extractNumeric(parts[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", name, err)
		}
		v[i] = f
	}

	q := mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
	if q.Len() == 0 {
		return nil, fmt.Errorf("orientation quaternion has zero length")
	}
	q = q.Normalize()

	event := &OrientationEvent{Quat: q}
	event.UpFace = vectorToFace(q.Rotate(mgl64.Vec3{0, 1, 0}))
	event.FrontFace = vectorToFace(q.Rotate(mgl64.Vec3{0, 0, 1}))

	return event, nil
}

// extractNumeric extracts the leading numeric portion (including optional minus sign) from a string.
func extractNumeric(s string) string {
	var result strings.Builder
	for i, r := range s {
		if r == '-' && i == 0 {
			result.WriteRune(r)
		} else if (r >= '0' && r <= '9') || r == '.' {
			result.WriteRune(r)
		} else {
			break
		}
	}
	return result.String()
}

// vectorToFace determines which cube face a vector points to.
func vectorToFace(v mgl64.Vec3) string {
	x, y, z := v[0], v[1], v[2]
	absX, absY, absZ := math.Abs(x), math.Abs(y), math.Abs(z)

	if absY >= absX && absY >= absZ {
		if y > 0 {
			return "U"
		}
		return "D"
	}
	if absZ >= absX && absZ >= absY {
		if z > 0 {
			return "F"
		}
		return "B"
	}
	if x > 0 {
		return "R"
	}
	return "L"
}
