// Package ble provides low-level BLE communication with GoCube devices.
package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SeamusWaldron/twisty/internal/protocol"
	"tinygo.org/x/bluetooth"
)

// Errors
var (
	ErrNotConnected     = errors.New("ble: not connected to device")
	ErrAlreadyConnected = errors.New("ble: already connected to a device")
	ErrDeviceNotFound   = errors.New("ble: device not found")
	ErrServiceNotFound  = errors.New("ble: GoCube service not found")
)

// namePrefix selects GoCube advertisements.
const namePrefix = "gocube"

// BLE UUIDs
var (
	serviceUUID = mustParseUUID(protocol.ServiceUUID)
	txCharUUID  = mustParseUUID(protocol.TxCharUUID)
	rxCharUUID  = mustParseUUID(protocol.RxCharUUID)
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(fmt.Sprintf("ble: bad UUID %q: %v", s, err))
	}
	return u
}

// ScanResult represents a discovered GoCube device.
type ScanResult struct {
	Name    string
	UUID    string
	RSSI    int16
	Address bluetooth.Address
}

// Client manages the BLE connection to a GoCube device.
type Client struct {
	adapter *bluetooth.Adapter
	device  bluetooth.Device
	rxChar  bluetooth.DeviceCharacteristic
	logger  *slog.Logger

	mu         sync.RWMutex
	connected  bool
	deviceName string
	deviceUUID string
	battery    int

	onMessage func(*protocol.Message)
}

// NewClient enables the default adapter and returns a client.
func NewClient(logger *slog.Logger) (*Client, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		adapter: adapter,
		logger:  logger,
		battery: -1,
	}, nil
}

// SetMessageCallback sets the callback for incoming messages. It runs on
// the adapter's notification goroutine.
func (c *Client) SetMessageCallback(cb func(*protocol.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = cb
}

// Scan collects GoCube advertisements until the timeout or ctx ends.
func (c *Client) Scan(ctx context.Context, timeout time.Duration) ([]ScanResult, error) {
	if c.IsConnected() {
		return nil, ErrAlreadyConnected
	}

	var (
		mu      sync.Mutex
		results []ScanResult
		seen    = make(map[string]bool)
		done    = make(chan error, 1)
	)

	go func() {
		done <- c.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			name := result.LocalName()
			if !strings.HasPrefix(strings.ToLower(name), namePrefix) {
				return
			}
			addr := result.Address.String()

			mu.Lock()
			defer mu.Unlock()
			if seen[addr] {
				return
			}
			seen[addr] = true
			results = append(results, ScanResult{
				Name:    name,
				UUID:    addr,
				RSSI:    result.RSSI,
				Address: result.Address,
			})
			c.logger.Debug("device discovered", "name", name, "address", addr, "rssi", result.RSSI)
		})
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	if err := c.adapter.StopScan(); err != nil {
		c.logger.Warn("stop scan failed", "error", err)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

// Connect connects to a device from a scan result and subscribes to its
// notifications.
func (c *Client) Connect(ctx context.Context, result ScanResult) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	device, err := c.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	rxChar, err := c.subscribe(device)
	if err != nil {
		device.Disconnect()
		return err
	}

	c.mu.Lock()
	c.device = device
	c.rxChar = rxChar
	c.connected = true
	c.deviceName = result.Name
	c.deviceUUID = result.UUID
	c.mu.Unlock()

	c.logger.Info("connected", "name", result.Name, "address", result.UUID)
	return c.RequestBattery()
}

// subscribe discovers the GoCube service, enables TX notifications and
// returns the RX characteristic used for commands.
func (c *Client) subscribe(device bluetooth.Device) (bluetooth.DeviceCharacteristic, error) {
	var rx bluetooth.DeviceCharacteristic

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil {
		return rx, fmt.Errorf("failed to discover services: %w", err)
	}
	if len(services) == 0 {
		return rx, ErrServiceNotFound
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		return rx, fmt.Errorf("failed to discover characteristics: %w", err)
	}

	var tx bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			tx = ch
		case rxCharUUID:
			rx = ch
		}
	}

	if err := tx.EnableNotifications(c.handleNotification); err != nil {
		return rx, fmt.Errorf("failed to enable notifications: %w", err)
	}
	return rx, nil
}

// Disconnect disconnects from the current device.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	err := c.device.Disconnect()
	c.connected = false
	c.deviceName = ""
	c.deviceUUID = ""
	c.battery = -1

	return err
}

// IsConnected returns true if connected to a device.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// DeviceName returns the connected device name.
func (c *Client) DeviceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceName
}

// Battery returns the last known battery level (-1 if unknown).
func (c *Client) Battery() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.battery
}

// SendCommand sends a command to the cube.
func (c *Client) SendCommand(cmd byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return ErrNotConnected
	}

	data := protocol.BuildCommand(cmd)
	if _, err := c.rxChar.WriteWithoutResponse(data); err != nil {
		_, err = c.rxChar.Write(data)
		return err
	}
	return nil
}

// RequestBattery requests the battery level from the cube.
func (c *Client) RequestBattery() error {
	return c.SendCommand(protocol.CmdRequestBattery)
}

// EnableOrientation enables orientation tracking on the cube.
func (c *Client) EnableOrientation() error {
	return c.SendCommand(protocol.CmdEnableOrientation)
}

// DisableOrientation disables orientation tracking on the cube.
func (c *Client) DisableOrientation() error {
	return c.SendCommand(protocol.CmdDisableOrientation)
}

// FlashBacklight flashes the cube backlight.
func (c *Client) FlashBacklight() error {
	return c.SendCommand(protocol.CmdFlashBacklight)
}

// ResetSolved tells the cube its current state is solved.
func (c *Client) ResetSolved() error {
	return c.SendCommand(protocol.CmdResetSolved)
}

// handleNotification handles incoming BLE notifications.
func (c *Client) handleNotification(data []byte) {
	msg, err := protocol.Parse(data)
	if err != nil {
		c.logger.Debug("dropping malformed frame", "error", err, "len", len(data))
		return
	}

	// Handle battery updates internally
	if msg.Type == protocol.MsgTypeBattery {
		if battery, err := protocol.DecodeBattery(msg.Payload); err == nil {
			c.mu.Lock()
			c.battery = battery.Level
			c.mu.Unlock()
		}
	}

	c.mu.RLock()
	cb := c.onMessage
	c.mu.RUnlock()

	if cb != nil {
		cb(msg)
	}
}
