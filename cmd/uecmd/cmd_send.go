package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendSerial string
	sendAll    bool
)

var sendCmd = &cobra.Command{
	Use:   "send [command...]",
	Short: "Send a console command to a device",
	Long: `Dispatches an Unreal console command to a connected device and records it
in history.

Examples:
  uecmd send stat fps
  uecmd send --serial R58M123ABC r.MSAACount 4
  uecmd send --all t.MaxFPS 60`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendSerial, "serial", "s", "", "Target device serial (default: first connected)")
	sendCmd.Flags().BoolVar(&sendAll, "all", false, "Send to every connected device")
}

func runSend(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")
	ctx := context.Background()
	client := newClient()

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if sendAll {
		results, err := client.SendToAll(ctx, command)
		if err != nil {
			return err
		}
		failures := 0
		for _, r := range results {
			if r.Err != nil {
				failures++
				fmt.Printf("%s: ERROR: %v\n", r.Device.Serial, r.Err)
				continue
			}
			fmt.Printf("%s: %s\n", r.Device.Serial, r.Output)
			if err := st.AddHistory(command, r.Device.Serial); err != nil {
				logger.Warn("history write failed", zap.Error(err))
			}
		}
		if failures > 0 {
			return fmt.Errorf("%d of %d devices failed", failures, len(results))
		}
		return nil
	}

	serial := sendSerial
	if serial == "" {
		device, err := client.DefaultDevice(ctx)
		if err != nil {
			return err
		}
		serial = device.Serial
	}

	out, err := client.SendConsoleCommand(ctx, serial, command)
	if err != nil {
		return err
	}
	if err := st.AddHistory(command, serial); err != nil {
		logger.Warn("history write failed", zap.Error(err))
	}
	fmt.Println(out)
	return nil
}
