// Package adb wraps the Android Debug Bridge binary for device enumeration and
// console-command dispatch. Unreal titles built with the console-command
// receiver plugin listen for a broadcast intent carrying the command text; this
// package builds and ships that broadcast over `adb shell`.
package adb

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Broadcast contract the engine-side receiver listens on.
const (
	DefaultBroadcastAction = "android.intent.action.RUN"
	DefaultExtraKey        = "cmd"
)

// Device is one entry from `adb devices -l`.
type Device struct {
	Serial  string
	State   string // device, offline, unauthorized, ...
	Product string
	Model   string
}

// Connected reports whether the device is in a usable state.
func (d Device) Connected() bool { return d.State == "device" }

// Runner executes the adb binary. The default shells out via os/exec; tests
// substitute a fake.
type Runner func(ctx context.Context, binary string, args ...string) (string, error)

func execRunner(ctx context.Context, binary string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w: %s", binary, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Client talks to adb. Zero-value-ish construction via New; all methods take a
// context and honor the configured per-call timeout.
type Client struct {
	binary          string
	broadcastAction string
	extraKey        string
	timeout         time.Duration
	run             Runner
	log             *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBinary overrides the adb executable name or path.
func WithBinary(bin string) Option {
	return func(c *Client) {
		if bin != "" {
			c.binary = bin
		}
	}
}

// WithBroadcast overrides the intent action and extra key of the engine contract.
func WithBroadcast(action, extraKey string) Option {
	return func(c *Client) {
		if action != "" {
			c.broadcastAction = action
		}
		if extraKey != "" {
			c.extraKey = extraKey
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRunner substitutes the process runner (tests).
func WithRunner(r Runner) Option {
	return func(c *Client) {
		if r != nil {
			c.run = r
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New builds a Client with defaults: `adb` on PATH, the engine's broadcast
// contract, a 10 second per-call timeout.
func New(opts ...Option) *Client {
	c := &Client{
		binary:          "adb",
		broadcastAction: DefaultBroadcastAction,
		extraKey:        DefaultExtraKey,
		timeout:         10 * time.Second,
		run:             execRunner,
		log:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// Devices returns every device adb knows about, connected or not.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	out, err := c.run(ctx, c.binary, "devices", "-l")
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	devices := parseDeviceList(out)
	c.log.Debug("adb devices", zap.Int("count", len(devices)))
	return devices, nil
}

// DefaultDevice returns the first connected device.
func (c *Client) DefaultDevice(ctx context.Context) (Device, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return Device{}, err
	}
	for _, d := range devices {
		if d.Connected() {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("no connected devices")
}

// Shell runs a shell command on the given device. Empty serial targets adb's
// default device.
func (c *Client) Shell(ctx context.Context, serial, command string) (string, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	args := make([]string, 0, 4)
	if serial != "" {
		args = append(args, "-s", serial)
	}
	args = append(args, "shell", command)
	out, err := c.run(ctx, c.binary, args...)
	if err != nil {
		return "", fmt.Errorf("shell on %q: %w", serial, err)
	}
	return strings.TrimSpace(out), nil
}

// SendConsoleCommand delivers an engine console command to the device by
// wrapping it in the broadcast intent the receiver plugin listens for.
func (c *Client) SendConsoleCommand(ctx context.Context, serial, command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("empty console command")
	}
	broadcast := fmt.Sprintf("am broadcast -a %s -e %s %s", c.broadcastAction, c.extraKey, quoteShell(command))
	c.log.Info("sending console command",
		zap.String("serial", serial),
		zap.String("command", command))
	return c.Shell(ctx, serial, broadcast)
}

// SendResult is the per-device outcome of SendToAll.
type SendResult struct {
	Device Device
	Output string
	Err    error
}

// SendToAll broadcasts the console command to every connected device
// concurrently. The returned slice matches device order; per-device failures
// land in SendResult.Err rather than aborting the fan-out.
func (c *Client) SendToAll(ctx context.Context, command string) ([]SendResult, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, err
	}
	connected := devices[:0]
	for _, d := range devices {
		if d.Connected() {
			connected = append(connected, d)
		}
	}
	if len(connected) == 0 {
		return nil, fmt.Errorf("no connected devices")
	}

	results := make([]SendResult, len(connected))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range connected {
		i, d := i, d // per-iteration copies; required while go.mod targets go 1.21
		g.Go(func() error {
			out, err := c.SendConsoleCommand(gctx, d.Serial, command)
			results[i] = SendResult{Device: d, Output: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

// EnsureAvailable checks that the adb server answers and reports how many
// connected devices it sees.
func (c *Client) EnsureAvailable(ctx context.Context) (int, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return 0, fmt.Errorf("adb not available: %w", err)
	}
	n := 0
	for _, d := range devices {
		if d.Connected() {
			n++
		}
	}
	return n, nil
}

// parseDeviceList parses `adb devices -l` output. The first line is the
// "List of devices attached" banner; each following non-empty line is
// "<serial> <state> [key:value ...]".
func parseDeviceList(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{Serial: fields[0], State: fields[1]}
		for _, kv := range fields[2:] {
			if k, v, ok := strings.Cut(kv, ":"); ok {
				switch k {
				case "product":
					d.Product = v
				case "model":
					d.Model = v
				}
			}
		}
		devices = append(devices, d)
	}
	return devices
}

// quoteShell single-quotes s for the Android shell, which is POSIX enough that
// '\'' splicing is the safe way to embed quotes.
func quoteShell(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'`$\\!&|;<>()*?[]#~%{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
