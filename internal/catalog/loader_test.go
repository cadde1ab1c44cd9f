package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `<html><body>
<script>
var cvars = [
{name: "stat unit", help: "Displays frame times.", type: "Cmd"},
{name: "r.MSAACount", help: "Sets the \"quality\" level.\nDefault: 2", type: "Var"},
{name: "stat fps", help: "  Shows   the
current framerate.  ", type: "Cmd"}
];
</script>
</body></html>`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ConsoleHelp.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCommandsWellFormed(t *testing.T) {
	path := writeDump(t, sampleDump)

	got := LoadCommands(path)
	want := []Command{
		{Name: "stat unit", Help: "Displays frame times.", Type: "Cmd"},
		{Name: "r.MSAACount", Help: `Sets the "quality" level. Default: 2`, Type: "Var"},
		{Name: "stat fps", Help: "Shows the current framerate.", Type: "Cmd"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCommandsMarkerCaseInsensitive(t *testing.T) {
	path := writeDump(t, `VAR CVARS = [ {name: "a", help: "b", type: "Cmd"} ];`)
	got := LoadCommands(path)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}

func TestLoadCommandsMissingStartMarker(t *testing.T) {
	path := writeDump(t, `<html>no array here {name: "a", help: "b", type: "c"} ];</html>`)
	assert.Empty(t, LoadCommands(path))
}

func TestLoadCommandsMissingTerminator(t *testing.T) {
	path := writeDump(t, `var cvars = [ {name: "a", help: "b", type: "c"}`)
	assert.Empty(t, LoadCommands(path))
}

func TestLoadCommandsNonexistentPath(t *testing.T) {
	assert.Empty(t, LoadCommands(filepath.Join(t.TempDir(), "nope.html")))
}

func TestLoadCommandsEmptyArray(t *testing.T) {
	path := writeDump(t, `var cvars = [ ];`)
	assert.Empty(t, LoadCommands(path))
}

func TestLoadCommandsPreservesDuplicatesAndOrder(t *testing.T) {
	path := writeDump(t, `var cvars = [
{name: "dup", help: "first", type: "Cmd"},
{name: "dup", help: "second", type: "Cmd"}
];`)
	got := LoadCommands(path)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Help)
	assert.Equal(t, "second", got[1].Help)
}

func TestLoadCommandsMalformedEscapeFallsBackPerField(t *testing.T) {
	// The second record's help has a truncated \x escape: its raw text is kept,
	// and the surrounding records still parse.
	path := writeDump(t, `var cvars = [
{name: "good.one", help: "fine", type: "Cmd"},
{name: "bad.escape", help: "broken \xZZ here", type: "Cmd"},
{name: "good.two", help: "also fine", type: "Cmd"}
];`)
	got := LoadCommands(path)
	require.Len(t, got, 3)
	assert.Equal(t, "good.one", got[0].Name)
	assert.Equal(t, `broken \xZZ here`, got[1].Help)
	assert.Equal(t, "good.two", got[2].Name)
}

func TestLoadCommandsUnknownEscapeKeptLiterally(t *testing.T) {
	path := writeDump(t, `var cvars = [ {name: "a", help: "odd \q escape", type: "Cmd"} ];`)
	got := LoadCommands(path)
	require.Len(t, got, 1)
	assert.Equal(t, `odd \q escape`, got[0].Help)
}

func TestLoadCommandsInvalidUTF8Tolerated(t *testing.T) {
	content := "var cvars = [ {name: \"a\", help: \"caf\xff test\", type: \"Cmd\"} ];"
	path := writeDump(t, content)
	got := LoadCommands(path)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)
}

func TestLoadCommandsIdempotent(t *testing.T) {
	path := writeDump(t, sampleDump)
	first := LoadCommands(path)
	second := LoadCommands(path)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("two loads of an unmodified file differ:\n%s", diff)
	}
}

func TestLoadCommandNamesProjection(t *testing.T) {
	path := writeDump(t, sampleDump)
	commands := LoadCommands(path)
	names := LoadCommandNames(path)
	require.Len(t, names, len(commands))
	for i, c := range commands {
		assert.Equal(t, c.Name, names[i])
	}
}

func TestLoadCommandNamesEmptyOnFailure(t *testing.T) {
	assert.Empty(t, LoadCommandNames(filepath.Join(t.TempDir(), "missing.html")))
}

func TestResolveFrom(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "opt", "tool", "bin")

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "default location",
			path: "",
			want: filepath.Join(string(filepath.Separator), "Saved", "ConsoleHelp.html"),
		},
		{
			name: "relative resolved against base",
			path: filepath.Join("dumps", "help.html"),
			want: filepath.Join(base, "dumps", "help.html"),
		},
		{
			name: "absolute passes through",
			path: filepath.Join(string(filepath.Separator), "tmp", "x.html"),
			want: filepath.Join(string(filepath.Separator), "tmp", "x.html"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveFrom(base, tt.path))
		})
	}
}

func TestDecodeJSString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`plain`, `plain`},
		{`a\nb`, "a\nb"},
		{`a\tb`, "a\tb"},
		{`say \"hi\"`, `say "hi"`},
		{`back\\slash`, `back\slash`},
		{`unit\x20sep`, "unit sep"},
		{`arrow → here`, "arrow → here"},
		{`dangling\`, `dangling\`},
		{`bad \u12`, `bad \u12`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeJSString(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeHelp(t *testing.T) {
	assert.Equal(t, "a b c", normalizeHelp("  a\n\tb   c\r\n"))
	assert.Equal(t, "", normalizeHelp("   \n\t "))
}
