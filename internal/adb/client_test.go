package adb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deviceListOutput = `List of devices attached
R58M123ABC             device product:beyond1q model:SM_G973F device:beyond1
emulator-5554          offline
192.168.1.20:5555      unauthorized

`

func fakeRunner(t *testing.T, fn func(args []string) (string, error)) Runner {
	t.Helper()
	return func(_ context.Context, binary string, args ...string) (string, error) {
		require.Equal(t, "adb", binary)
		return fn(args)
	}
}

func TestParseDeviceList(t *testing.T) {
	devices := parseDeviceList(deviceListOutput)
	require.Len(t, devices, 3)

	assert.Equal(t, "R58M123ABC", devices[0].Serial)
	assert.Equal(t, "device", devices[0].State)
	assert.Equal(t, "beyond1q", devices[0].Product)
	assert.Equal(t, "SM_G973F", devices[0].Model)
	assert.True(t, devices[0].Connected())

	assert.Equal(t, "emulator-5554", devices[1].Serial)
	assert.False(t, devices[1].Connected())
	assert.Equal(t, "unauthorized", devices[2].State)
}

func TestParseDeviceListEmpty(t *testing.T) {
	assert.Empty(t, parseDeviceList("List of devices attached\n\n"))
	assert.Empty(t, parseDeviceList(""))
}

func TestDefaultDeviceSkipsOffline(t *testing.T) {
	c := New(WithRunner(fakeRunner(t, func(args []string) (string, error) {
		return "List of devices attached\nA\toffline\nB\tdevice\n", nil
	})))
	d, err := c.DefaultDevice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B", d.Serial)
}

func TestDefaultDeviceNoneConnected(t *testing.T) {
	c := New(WithRunner(fakeRunner(t, func(args []string) (string, error) {
		return "List of devices attached\n", nil
	})))
	_, err := c.DefaultDevice(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no connected devices")
}

func TestSendConsoleCommandBuildsBroadcast(t *testing.T) {
	var gotArgs []string
	c := New(WithRunner(fakeRunner(t, func(args []string) (string, error) {
		gotArgs = args
		return "Broadcast completed: result=0", nil
	})))

	out, err := c.SendConsoleCommand(context.Background(), "SERIAL1", "stat fps")
	require.NoError(t, err)
	assert.Equal(t, "Broadcast completed: result=0", out)

	require.Len(t, gotArgs, 4)
	assert.Equal(t, []string{"-s", "SERIAL1", "shell"}, gotArgs[:3])
	assert.Equal(t, `am broadcast -a android.intent.action.RUN -e cmd 'stat fps'`, gotArgs[3])
}

func TestSendConsoleCommandRejectsEmpty(t *testing.T) {
	c := New(WithRunner(fakeRunner(t, func(args []string) (string, error) {
		t.Fatal("runner should not be invoked for an empty command")
		return "", nil
	})))
	_, err := c.SendConsoleCommand(context.Background(), "", "   ")
	require.Error(t, err)
}

func TestSendConsoleCommandCustomBroadcast(t *testing.T) {
	var gotArgs []string
	c := New(
		WithBroadcast("com.example.CONSOLE", "payload"),
		WithRunner(fakeRunner(t, func(args []string) (string, error) {
			gotArgs = args
			return "", nil
		})),
	)
	_, err := c.SendConsoleCommand(context.Background(), "", "t.MaxFPS 60")
	require.NoError(t, err)
	require.Len(t, gotArgs, 2)
	assert.Equal(t, "shell", gotArgs[0])
	assert.Equal(t, `am broadcast -a com.example.CONSOLE -e payload 't.MaxFPS 60'`, gotArgs[1])
}

func TestSendToAllFansOutToConnectedDevices(t *testing.T) {
	var mu sync.Mutex
	sent := map[string]bool{}
	c := New(WithRunner(fakeRunner(t, func(args []string) (string, error) {
		if args[0] == "devices" {
			return "List of devices attached\nA\tdevice\nB\toffline\nC\tdevice\n", nil
		}
		mu.Lock()
		sent[args[1]] = true // args: -s <serial> shell <cmd>
		mu.Unlock()
		return "ok", nil
	})))

	results, err := c.SendToAll(context.Background(), "stat unit")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, sent["A"])
	assert.True(t, sent["C"])
	assert.False(t, sent["B"])
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, "ok", r.Output)
	}
}

func TestSendToAllKeepsPerDeviceFailures(t *testing.T) {
	c := New(WithRunner(fakeRunner(t, func(args []string) (string, error) {
		if args[0] == "devices" {
			return "List of devices attached\nA\tdevice\nB\tdevice\n", nil
		}
		if args[1] == "A" {
			return "", fmt.Errorf("device went away")
		}
		return "ok", nil
	})))

	results, err := c.SendToAll(context.Background(), "stat unit")
	require.NoError(t, err)
	require.Len(t, results, 2)

	var failed, succeeded int
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, succeeded)
}

func TestEnsureAvailable(t *testing.T) {
	c := New(WithRunner(fakeRunner(t, func(args []string) (string, error) {
		return "List of devices attached\nA\tdevice\nB\toffline\n", nil
	})))
	n, err := c.EnsureAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c = New(WithRunner(fakeRunner(t, func(args []string) (string, error) {
		return "", fmt.Errorf("adb server not running")
	})))
	_, err = c.EnsureAvailable(context.Background())
	require.Error(t, err)
}

func TestQuoteShell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "''"},
		{"statunit", "statunit"},
		{"stat fps", "'stat fps'"},
		{`say "hi"`, `'say "hi"'`},
		{"it's", `'it'\''s'`},
		{"a;rm -rf /", `'a;rm -rf /'`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quoteShell(tt.in), "input %q", tt.in)
	}
	// Quoted output never leaves a metacharacter bare.
	assert.False(t, strings.Contains(quoteShell("$HOME"), `"$`))
}
