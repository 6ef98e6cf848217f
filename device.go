package twisty

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SeamusWaldron/twisty/internal/ble"
	"github.com/SeamusWaldron/twisty/internal/protocol"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultScanTimeout is how long ConnectFirst scans before giving up.
const DefaultScanTimeout = 10 * time.Second

// Device represents a discovered smart cube.
// Devices are returned by the Scan function and can be passed to Connect.
type Device struct {
	Name   string // Device name (e.g., "GoCube_XXXX")
	UUID   string // Device address for connection
	RSSI   int16  // Signal strength in dBm
	result ble.ScanResult
}

// Orientation is the physical orientation of a smart cube.
type Orientation struct {
	Quat      mgl64.Quat // Rotation from the device's reference pose
	UpFace    Face       // Which face is pointing up
	FrontFace Face       // Which face is facing the user
}

// SmartCube is a connected GoCube. It decodes the device's notifications
// into Moves and fires callbacks on the BLE goroutine.
//
// To animate a physical cube, forward its moves into an Inbox and flush the
// inbox from the frame loop:
//
//	inbox := twisty.NewInbox()
//	cube.Forward(inbox)
type SmartCube struct {
	client *ble.Client
	device Device
	logger *slog.Logger
	config *config

	mu    sync.RWMutex
	moves []Move

	// Callbacks
	onMove        func(Move)
	onOrientation func(Orientation)
	onBattery     func(int)
	onDisconnect  func(error)
}

// Scan discovers nearby smart cubes.
//
// Note: On macOS, BLE scanning sometimes requires multiple attempts.
// Ensure the cube is not connected to another device (e.g., phone app).
func Scan(ctx context.Context, timeout time.Duration, opts ...Option) ([]Device, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := ble.NewClient(cfg.logger)
	if err != nil {
		return nil, err
	}

	results, err := client.Scan(ctx, timeout)
	if err != nil {
		return nil, err
	}

	devices := make([]Device, len(results))
	for i, r := range results {
		devices[i] = Device{
			Name:   r.Name,
			UUID:   r.UUID,
			RSSI:   r.RSSI,
			result: r,
		}
	}
	return devices, nil
}

// Connect connects to a specific smart cube.
func Connect(ctx context.Context, device Device, opts ...Option) (*SmartCube, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := ble.NewClient(cfg.logger)
	if err != nil {
		return nil, err
	}

	c := newSmartCube(client, device, cfg)
	client.SetMessageCallback(c.handleMessage)

	if err := client.Connect(ctx, device.result); err != nil {
		return nil, err
	}
	return c, nil
}

// ConnectFirst scans and connects to the first smart cube found.
func ConnectFirst(ctx context.Context, opts ...Option) (*SmartCube, error) {
	devices, err := Scan(ctx, DefaultScanTimeout, opts...)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrDeviceNotFound
	}
	return Connect(ctx, devices[0], opts...)
}

func newSmartCube(client *ble.Client, device Device, cfg *config) *SmartCube {
	return &SmartCube{
		client: client,
		device: device,
		logger: cfg.logger.With("device", device.Name),
		config: cfg,
	}
}

// Close disconnects from the cube.
func (c *SmartCube) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect()

	c.mu.RLock()
	cb := c.onDisconnect
	c.mu.RUnlock()
	if cb != nil {
		cb(err)
	}
	return err
}

// IsConnected returns true if still connected to the cube.
func (c *SmartCube) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}

// DeviceName returns the connected device name.
func (c *SmartCube) DeviceName() string {
	return c.device.Name
}

// Battery returns the last known battery level (0-100), or -1 if unknown.
func (c *SmartCube) Battery() int {
	if c.client == nil {
		return -1
	}
	return c.client.Battery()
}

// Moves returns the moves received since connection or the last
// ClearHistory. It is empty when move history is disabled.
func (c *SmartCube) Moves() []Move {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Move, len(c.moves))
	copy(out, c.moves)
	return out
}

// ClearHistory clears the received move history.
func (c *SmartCube) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moves = nil
}

// Event callbacks

// OnMove sets a callback that fires for each move detected.
func (c *SmartCube) OnMove(cb func(Move)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMove = cb
}

// Forward posts every detected move to in. It replaces any OnMove callback.
func (c *SmartCube) Forward(in *Inbox) {
	c.OnMove(func(m Move) { in.Post(m) })
}

// OnOrientationChange sets a callback for cube orientation changes.
func (c *SmartCube) OnOrientationChange(cb func(Orientation)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onOrientation = cb
}

// OnBattery sets a callback for battery level updates.
func (c *SmartCube) OnBattery(cb func(int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onBattery = cb
}

// OnDisconnect sets a callback for disconnection events.
func (c *SmartCube) OnDisconnect(cb func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnect = cb
}

// Control

// FlashBacklight flashes the cube backlight.
func (c *SmartCube) FlashBacklight() error {
	if c.client == nil {
		return ErrNotConnected
	}
	return c.client.FlashBacklight()
}

// ResetSolved tells the device its current physical state is solved.
func (c *SmartCube) ResetSolved() error {
	if c.client == nil {
		return ErrNotConnected
	}
	return c.client.ResetSolved()
}

// EnableOrientation enables orientation tracking.
func (c *SmartCube) EnableOrientation() error {
	if c.client == nil {
		return ErrNotConnected
	}
	return c.client.EnableOrientation()
}

// DisableOrientation disables orientation tracking.
func (c *SmartCube) DisableOrientation() error {
	if c.client == nil {
		return ErrNotConnected
	}
	return c.client.DisableOrientation()
}

// Internal message handling

func (c *SmartCube) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgTypeRotation:
		c.handleRotation(msg)
	case protocol.MsgTypeBattery:
		c.handleBattery(msg)
	case protocol.MsgTypeOrientation:
		c.handleOrientation(msg)
	default:
		c.logger.Debug("ignoring message", "type", protocol.MessageTypeName(msg.Type))
	}
}

func (c *SmartCube) handleRotation(msg *protocol.Message) {
	rotations, err := protocol.DecodeRotation(msg.Payload)
	if err != nil {
		c.logger.Warn("bad rotation payload", "error", err)
		return
	}

	for _, rot := range rotations {
		m, ok := rotationToMove(rot)
		if !ok {
			continue
		}

		c.mu.Lock()
		if c.config.moveHistory {
			c.moves = append(c.moves, m)
		}
		cb := c.onMove
		c.mu.Unlock()

		// Fire callbacks outside the lock
		if cb != nil {
			cb(m)
		}
	}
}

func (c *SmartCube) handleBattery(msg *protocol.Message) {
	battery, err := protocol.DecodeBattery(msg.Payload)
	if err != nil {
		return
	}

	c.mu.RLock()
	cb := c.onBattery
	c.mu.RUnlock()

	if cb != nil {
		cb(battery.Level)
	}
}

func (c *SmartCube) handleOrientation(msg *protocol.Message) {
	orient, err := protocol.DecodeOrientation(msg.Payload)
	if err != nil {
		c.logger.Debug("bad orientation payload", "error", err)
		return
	}

	c.mu.RLock()
	cb := c.onOrientation
	c.mu.RUnlock()

	if cb != nil {
		cb(Orientation{
			Quat:      orient.Quat,
			UpFace:    Face(orient.UpFace),
			FrontFace: Face(orient.FrontFace),
		})
	}
}

// Color to face mapping based on the GoCube's center colors.
var colorToFace = map[string]Face{
	"white":  FaceU,
	"yellow": FaceD,
	"green":  FaceF,
	"blue":   FaceB,
	"red":    FaceR,
	"orange": FaceL,
}

func rotationToMove(rot protocol.RotationEvent) (Move, bool) {
	face, ok := colorToFace[rot.Color]
	if !ok {
		return Move{}, false
	}

	dir := CCW
	if rot.Clockwise {
		dir = CW
	}
	return Move{Face: face, Direction: dir}, true
}
