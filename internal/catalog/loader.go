// Package catalog recovers the Unreal console command catalog from an
// engine-generated ConsoleHelp.html dump.
//
// The dump is an HTML page produced by the in-game `Help` command. Somewhere in
// its body it embeds a JavaScript array literal:
//
//	var cvars = [ {name: "...", help: "...", type: "..."}, ... ];
//
// This package locates that block, parses each record, and returns the commands
// in source order. The catalog is autocomplete data, not critical-path state:
// every failure mode (missing file, unreadable file, missing markers, zero
// records) collapses to an empty result, and no error ever crosses the package
// boundary.
package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Command is one entry recovered from the help dump. Type is the engine's own
// classification tag (e.g. Cmd, Exec, Var) and is carried verbatim, not as an
// enum: the engine's vocabulary is not ours to pin down.
type Command struct {
	Name string
	Help string
	Type string
}

// DefaultDumpRelative is the engine's Saved-directory export location,
// relative to the deployed binary.
var DefaultDumpRelative = filepath.Join("..", "..", "..", "Saved", "ConsoleHelp.html")

var (
	// Start of the embedded array. Case-insensitive: the dump generator has
	// not been consistent about casing across engine versions.
	arrayStartRe = regexp.MustCompile(`(?i)var\s+cvars\s*=\s*\[`)

	// One record literal. Each quoted field tolerates backslash-escaped
	// characters (including escaped quotes), and dotall mode lets help text
	// span literal newlines.
	entryRe = regexp.MustCompile(`(?s)\{\s*name\s*:\s*"((?:\\.|[^"])*)"\s*,\s*help\s*:\s*"((?:\\.|[^"])*)"\s*,\s*type\s*:\s*"((?:\\.|[^"])*)"\s*\}`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

const arrayEndMarker = "];"

// ResolvePath maps an optional caller-supplied path to an absolute one.
// An empty path selects the default Saved export; a relative path is resolved
// against the executable's directory rather than the process working directory,
// so the Saved convention holds no matter where the tool is launched from.
// Pure path computation: no I/O, cannot fail.
func ResolvePath(path string) string {
	return resolveFrom(baseDir(), path)
}

func resolveFrom(base, path string) string {
	if path == "" {
		path = DefaultDumpRelative
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

func baseDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	wd, _ := os.Getwd()
	return wd
}

// LoadCommands reads the help dump at path (or the default location when path
// is empty) and returns the catalog in source order. Duplicate names are kept;
// collapsing them is consumer policy. The returned slice is freshly built on
// every call. On any failure the result is simply empty.
func LoadCommands(path string) []Command {
	raw, err := os.ReadFile(ResolvePath(path))
	if err != nil {
		return nil
	}
	// The dump's encoding is whatever the external tool felt like emitting.
	// Replace invalid sequences rather than refusing the file.
	content := string(bytes.ToValidUTF8(raw, []byte("�")))

	loc := arrayStartRe.FindStringIndex(content)
	if loc == nil {
		return nil
	}
	rest := content[loc[1]:]
	end := strings.Index(rest, arrayEndMarker)
	if end < 0 {
		return nil
	}

	matches := entryRe.FindAllStringSubmatch(rest[:end], -1)
	commands := make([]Command, 0, len(matches))
	for _, m := range matches {
		commands = append(commands, Command{
			Name: decodeJSString(m[1]),
			Help: normalizeHelp(decodeJSString(m[2])),
			Type: decodeJSString(m[3]),
		})
	}
	return commands
}

// LoadCommandNames returns just the Name of each catalog entry, same order.
func LoadCommandNames(path string) []string {
	commands := LoadCommands(path)
	if len(commands) == 0 {
		return nil
	}
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return names
}

// decodeJSString resolves backslash escapes in a captured JS string literal.
// Unrecognized two-character escapes are kept literally; a truncated or
// malformed escape abandons decoding and returns the raw capture unchanged.
// A garbled field beats losing the record.
func decodeJSString(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return s
		}
		esc := s[i+1]
		i += 2
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '"', '\'', '\\', '/':
			b.WriteByte(esc)
		case 'x':
			if i+2 > len(s) {
				return s
			}
			v, err := strconv.ParseUint(s[i:i+2], 16, 8)
			if err != nil {
				return s
			}
			// Interpreted as a raw byte, matching the dump generator's
			// latin-1-flavoured escapes. Multi-byte sequences split across
			// \x escapes will come out mangled; the original tool had the
			// same blind spot and nobody has hit it in practice.
			b.WriteByte(byte(v))
			i += 2
		case 'u':
			if i+4 > len(s) {
				return s
			}
			v, err := strconv.ParseUint(s[i:i+4], 16, 32)
			if err != nil {
				return s
			}
			b.WriteRune(rune(v))
			i += 4
		default:
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}
	return b.String()
}

// normalizeHelp collapses every whitespace run (including the literal newlines
// the dump embeds inside help strings) to a single space and trims the ends.
func normalizeHelp(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
