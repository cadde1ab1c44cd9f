package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage send history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sent commands, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.History()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("History is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SENT\tDEVICE\tCOMMAND")
		for _, e := range entries {
			serial := e.DeviceSerial
			if serial == "" {
				serial = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.SentAt.Format("2006-01-02 15:04:05"), serial, e.Command)
		}
		return w.Flush()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ClearHistory(); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
