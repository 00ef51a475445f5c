package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/varmap/internal/paths"
	"github.com/mesh-intelligence/varmap/internal/sqlite"
)

// env is an isolated pair of configuration and data directories.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDataDir, "")
	dir := t.TempDir()
	return env{
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

// varmap runs a fresh root command against e and returns trimmed stdout,
// stderr and the exit code.
func (e env) varmap(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := run(root, full)
	return strings.TrimSpace(stdout.String()), stderr.String(), code
}

// mustRun runs args and fails the test on a non-zero exit.
func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, code := e.varmap(t, args...)
	require.Equal(t, exitSuccess, code, "varmap %v: %s", args, errOut)
	return out
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "version")
	assert.Contains(t, out, "varmap v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "init")
	assert.Equal(t, "varmap initialized", out)

	data, err := os.ReadFile(filepath.Join(e.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "- int")

	_, err = os.Stat(filepath.Join(e.dataDir, sqlite.DBFileName))
	assert.NoError(t, err)

	// A second init leaves the existing config alone.
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte("backend: sqlite\nkinds: [string]\n"), 0o644))
	e.mustRun(t, "init")
	data, err = os.ReadFile(filepath.Join(e.configDir, configFileExt))
	require.NoError(t, err)
	assert.Equal(t, "backend: sqlite\nkinds: [string]\n", string(data))
}

func TestInit_RelativeDataDirRecordedAbsolute(t *testing.T) {
	e := newEnv(t)
	work := t.TempDir()
	chdir(t, work)
	cwd, err := os.Getwd()
	require.NoError(t, err)

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.Equal(t, exitSuccess, run(root, []string{"--config-dir", e.configDir, "--data-dir", "rel-data", "init"}))

	data, err := os.ReadFile(filepath.Join(e.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "data_dir: "+filepath.Join(cwd, "rel-data"))

	// Another working directory still resolves to the recorded store.
	chdir(t, t.TempDir())
	cfg, err := loadConfig(e.configDir)
	require.NoError(t, err)
	got, err := paths.ResolveDataDir("", cfg.DataDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "rel-data"), got)
}

func TestCast(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"int to text", []string{"cast", "string", "int", "42"}, "42"},
		{"text prefix to int", []string{"cast", "int", "string", "12abc"}, "12"},
		{"text to float", []string{"cast", "float64", "string", "3.5kg"}, "3.5"},
		{"strict bool", []string{"cast", "bool", "string", "yes"}, "false"},
		{"bool to int", []string{"cast", "int", "bool", "true"}, "1"},
		{"same kind", []string{"cast", "int", "int", "7"}, "7"},
		{"default used", []string{"cast", "int", "string", "abc", "--default=-1"}, "-1"},
		{"default unused", []string{"cast", "int", "string", "5", "--default=-1"}, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.mustRun(t, tt.args...))
		})
	}
}

func TestCast_Errors(t *testing.T) {
	e := newEnv(t)

	_, errOut, code := e.varmap(t, "cast", "int", "string", "abc")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "varmap:")

	_, _, code = e.varmap(t, "cast", "complex", "string", "1")
	assert.Equal(t, exitUserError, code)

	_, _, code = e.varmap(t, "cast", "int", "string", "abc", "--default", "x")
	assert.Equal(t, exitUserError, code, "default must parse as the target kind")
}

func TestSetGet(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, "stored", e.mustRun(t, "set", "cfg", "count", "int", "42"))
	assert.Equal(t, "stored", e.mustRun(t, "set", "cfg", "name", "string", "12abc"))
	assert.Equal(t, "stored", e.mustRun(t, "set", "cfg", "on", "bool", "true"))

	assert.Equal(t, "42", e.mustRun(t, "get", "cfg", "count", "int"))
	assert.Equal(t, "12abc", e.mustRun(t, "get", "cfg", "name", "string"))
	assert.Equal(t, "true", e.mustRun(t, "get", "cfg", "on", "bool"))

	// get is exact.
	_, _, code := e.varmap(t, "get", "cfg", "count", "string")
	assert.Equal(t, exitUserError, code)
	assert.Equal(t, "0", e.mustRun(t, "get", "cfg", "count", "float64", "--default", "0"))

	// cast-get converts.
	assert.Equal(t, "42", e.mustRun(t, "cast-get", "cfg", "count", "string"))
	assert.Equal(t, "12", e.mustRun(t, "cast-get", "cfg", "name", "int"))
	assert.Equal(t, "1", e.mustRun(t, "cast-get", "cfg", "on", "int"))
	assert.Equal(t, "12", e.mustRun(t, "cast-get", "cfg", "name", "float64"))
	_, _, code = e.varmap(t, "cast-get", "cfg", "name", "bool")
	assert.Equal(t, exitSuccess, code, "text to bool never fails")
	assert.Equal(t, "9", e.mustRun(t, "cast-get", "cfg", "missing", "int", "--default", "9"))

	// set replaces.
	e.mustRun(t, "set", "cfg", "count", "float64", "2.5")
	assert.Equal(t, "2.5", e.mustRun(t, "get", "cfg", "count", "float64"))
}

func TestSet_Errors(t *testing.T) {
	e := newEnv(t)

	_, _, code := e.varmap(t, "set", "cfg", "n", "uint", "1")
	assert.Equal(t, exitUserError, code, "uint is not a configured kind")

	_, _, code = e.varmap(t, "set", "cfg", "n", "int", "abc")
	assert.Equal(t, exitUserError, code)

	_, _, code = e.varmap(t, "get", "nope", "n", "int")
	assert.Equal(t, exitUserError, code)
	assert.Equal(t, "3", e.mustRun(t, "get", "nope", "n", "int", "--default", "3"))
}

func TestEmplace(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, "stored", e.mustRun(t, "emplace", "cfg", "n", "int", "1"))
	assert.Equal(t, "exists", e.mustRun(t, "emplace", "cfg", "n", "string", "two"))
	assert.Equal(t, "1", e.mustRun(t, "get", "cfg", "n", "int"))
}

func TestIndex(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "set", "cfg", "n", "int", "1")
	e.mustRun(t, "set", "cfg", "s", "string", "x")

	assert.Equal(t, "0 int", e.mustRun(t, "index", "cfg", "n"))
	assert.Equal(t, "3 string", e.mustRun(t, "index", "cfg", "s"))

	_, _, code := e.varmap(t, "index", "cfg", "missing")
	assert.Equal(t, exitUserError, code)
}

func TestListAndDelete(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "set", "b", "n", "int", "1")
	e.mustRun(t, "set", "b", "f", "float64", "0.25")
	e.mustRun(t, "set", "a", "s", "string", "x")

	assert.Equal(t, "a\tint,float64,bool,string\t1\nb\tint,float64,bool,string\t2", e.mustRun(t, "list"))
	assert.Equal(t, "f\tfloat64\t0.25\nn\tint\t1", e.mustRun(t, "list", "b"))

	assert.Equal(t, "deleted", e.mustRun(t, "delete", "b"))
	assert.Equal(t, "a\tint,float64,bool,string\t1", e.mustRun(t, "list"))

	_, _, code := e.varmap(t, "delete", "b")
	assert.Equal(t, exitUserError, code)
	_, _, code = e.varmap(t, "list", "b")
	assert.Equal(t, exitUserError, code)
}

func TestJSONOutput(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "set", "cfg", "n", "int", "7")

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "--json", "get", "cfg", "n", "int")), &got))
	assert.Equal(t, map[string]string{"key": "n", "kind": "int", "value": "7"}, got)

	var infos []sqlite.MapInfo
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "--json", "list")), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "cfg", infos[0].Name)
	assert.Equal(t, 1, infos[0].Entries)

	var entries []entryView
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "--json", "list", "cfg")), &entries))
	assert.Equal(t, []entryView{{Key: "n", Kind: "int", Index: 0, Value: "7"}}, entries)
}

func TestConfigKinds(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt),
		[]byte("backend: sqlite\nkinds:\n  - string\n  - uint\n"), 0o644))

	e.mustRun(t, "set", "cfg", "n", "uint", "+5")
	assert.Equal(t, "1 uint", e.mustRun(t, "index", "cfg", "n"))

	_, _, code := e.varmap(t, "set", "cfg", "i", "int", "1")
	assert.Equal(t, exitUserError, code)
}

func TestConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend", "backend: postgres\n"},
		{"unknown kind", "backend: sqlite\nkinds: [int, decimal]\n"},
		{"duplicate kind", "backend: sqlite\nkinds: [int, int]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			require.NoError(t, os.MkdirAll(e.configDir, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte(tt.content), 0o644))

			_, errOut, code := e.varmap(t, "list")
			assert.Equal(t, exitUserError, code)
			assert.Contains(t, errOut, "invalid config")
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, defaultConfig("").Validate())
	assert.ErrorIs(t, Config{}.Validate(), ErrBackendEmpty)
	assert.ErrorIs(t, Config{Backend: "x", Kinds: []string{"int"}}.Validate(), ErrBackendUnknown)
	assert.ErrorIs(t, Config{Backend: backendSQLite}.Validate(), ErrNoKinds)
}

func TestSystemErrorExitCode(t *testing.T) {
	e := newEnv(t)
	// A regular file where the data directory should be.
	require.NoError(t, os.WriteFile(e.dataDir, []byte("x"), 0o644))

	_, _, code := e.varmap(t, "list")
	assert.Equal(t, exitSysError, code)
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir for Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
