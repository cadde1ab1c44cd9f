package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"uecmd/internal/catalog"
)

var (
	commandsFilter string
	commandsNames  bool
	commandsJSON   bool
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Browse the console command catalog",
	Long: `Lists the commands recovered from the engine's ConsoleHelp.html dump.

The dump is produced on-device by the in-game Help command; when it is missing
the catalog is simply empty, and sending commands still works.`,
	RunE: runCommands,
}

var commandsShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show one catalog entry in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommandsShow,
}

func init() {
	commandsCmd.Flags().StringVarP(&commandsFilter, "filter", "f", "", "Case-insensitive substring filter on name and help")
	commandsCmd.Flags().BoolVar(&commandsNames, "names", false, "Print names only")
	commandsCmd.Flags().BoolVar(&commandsJSON, "json", false, "Emit the catalog as JSON")
	commandsCmd.AddCommand(commandsShowCmd)
}

func runCommands(cmd *cobra.Command, args []string) error {
	entries := catalog.LoadCommands(cfg.Catalog.Path)
	entries = filterCatalog(entries, commandsFilter)

	if commandsJSON {
		type record struct {
			Name string `json:"name"`
			Help string `json:"help"`
			Type string `json:"type"`
		}
		out := make([]record, 0, len(entries))
		for _, e := range entries {
			out = append(out, record{Name: e.Name, Help: e.Help, Type: e.Type})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(entries) == 0 {
		fmt.Printf("No catalog entries. Looked at: %s\n", catalog.ResolvePath(cfg.Catalog.Path))
		fmt.Println("Run the in-game `Help` command to export ConsoleHelp.html, or pass --catalog.")
		return nil
	}

	if commandsNames {
		for _, e := range entries {
			fmt.Println(e.Name)
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMMAND\tTYPE\tHELP")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Type, truncate(e.Help, 100))
	}
	return w.Flush()
}

func runCommandsShow(cmd *cobra.Command, args []string) error {
	name := args[0]
	for _, e := range catalog.LoadCommands(cfg.Catalog.Path) {
		if !strings.EqualFold(e.Name, name) {
			continue
		}
		md := fmt.Sprintf("# %s\n\n**Type:** %s\n\n%s\n", e.Name, orDash(e.Type), orDash(e.Help))
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			fmt.Print(md)
			return nil
		}
		out, err := renderer.Render(md)
		if err != nil {
			fmt.Print(md)
			return nil
		}
		fmt.Print(out)
		return nil
	}
	return fmt.Errorf("command %q not found in catalog", name)
}

func filterCatalog(entries []catalog.Command, term string) []catalog.Command {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return entries
	}
	var out []catalog.Command
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), term) || strings.Contains(strings.ToLower(e.Help), term) {
			out = append(out, e)
		}
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
