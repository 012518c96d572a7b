package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/dealscout/internal/core/prefs"
	"github.com/hay-kot/dealscout/internal/core/search"
	"github.com/hay-kot/dealscout/internal/printer"
	"github.com/hay-kot/dealscout/pkg/executil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const testConfig = `browser:
  command: [firefox, --new-tab]
dispatch:
  stagger: 1ms
defaults:
  postal_code: "90210"
  radius: 25
`

type testApp struct {
	flags  *Flags
	exec   *executil.RecordingExecutor
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithConfig(t, testConfig)
}

// defaultsConfig leaves browser.command unset so config validation does not
// look up a real executable.
const defaultsConfig = `dispatch:
  stagger: 1ms
defaults:
  postal_code: "90210"
`

func newTestAppWithConfig(t *testing.T, cfg string) *testApp {
	t.Helper()
	t.Setenv("DISPLAY", ":0")

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))

	flags := &Flags{ConfigPath: configPath, DataDir: filepath.Join(dir, "data")}
	rec := &executil.RecordingExecutor{}
	require.NoError(t, flags.Setup(rec, prefs.ThemeDark))

	return &testApp{flags: flags, exec: rec, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
}

// run executes one command line and resets the captured output first.
func (a *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	a.stdout.Reset()
	a.stderr.Reset()

	app := &cli.Command{
		Name:           "dealscout",
		Writer:         a.stdout,
		ErrWriter:      a.stderr,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	app = NewSearchCmd(a.flags).Register(app)
	app = NewProvidersCmd(a.flags).Register(app)
	app = NewFavCmd(a.flags).Register(app)
	app = NewRecentCmd(a.flags).Register(app)
	app = NewPermissionCmd(a.flags).Register(app)
	app = NewThemeCmd(a.flags).Register(app)
	app = NewConfigCmd(a.flags).Register(app)
	app = NewDoctorCmd(a.flags).Register(app)

	ctx := printer.NewContext(context.Background(), printer.New(a.stderr))
	return app.Run(ctx, append([]string{"dealscout"}, args...))
}

func TestProvidersCmd(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "providers"))

	out := app.stdout.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "SELECTED")
	assert.Contains(t, out, "craigslist")
	assert.Contains(t, out, "Nextdoor")
}

func TestSearchCmd_Print(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "search", "--print", "--provider", "craigslist", "--provider", "ebay", "lawn", "mower"))

	assert.Equal(t,
		"https://craigslist.org/search/sss?query=lawn%20mower&postal=90210&search_distance=25\n"+
			"https://www.ebay.com/sch/i.html?_nkw=lawn%20mower&LH_PrefLoc=99&_stpos=90210&_sadis=25\n",
		app.stdout.String(),
	)
	assert.Empty(t, app.exec.Started(), "--print must not launch the browser")

	require.NoError(t, app.run(t, "recent", "ls"))
	assert.Contains(t, app.stdout.String(), "lawn mower")
	assert.Contains(t, app.stdout.String(), "craigslist,ebay")
}

func TestSearchCmd_OpensBrowser(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "search", "--zip", "10001", "--radius", "50", "--provider", "mercari", "--provider", "govdeals", "desk"))

	started := app.exec.Started()
	require.Len(t, started, 2)
	assert.Equal(t, "firefox", started[0].Cmd)
	assert.Equal(t, []string{"--new-tab", "https://www.mercari.com/search/?keyword=desk"}, started[0].Args)
	assert.Equal(t, []string{"--new-tab", "https://www.govdeals.com/index.cfm?fa=Main.AdvSearch&searchtext=desk&zipcode=10001&miles=50"}, started[1].Args)
	assert.Contains(t, app.stderr.String(), "Opened 2 sites")
}

func TestSearchCmd_InvalidInput(t *testing.T) {
	app := newTestApp(t)

	err := app.run(t, "search", "--zip", "abc", "bike")
	require.ErrorIs(t, err, search.ErrValidation)
	assert.Empty(t, app.exec.Started())
}

func TestSearchCmd_UnknownProvider(t *testing.T) {
	app := newTestApp(t)

	err := app.run(t, "search", "--provider", "nope*", "bike")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no provider matches")
}

func TestFavCmd_Lifecycle(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "fav", "add", "--provider", "ebay", "bike"))
	assert.Contains(t, app.stderr.String(), "Saved")

	require.NoError(t, app.run(t, "fav", "add", "--provider", "ebay", "bike"))
	assert.Contains(t, app.stderr.String(), "Already in favorites")

	require.NoError(t, app.run(t, "fav", "ls"))
	assert.Contains(t, app.stdout.String(), "bike")
	assert.Contains(t, app.stdout.String(), "25 mi")

	require.NoError(t, app.run(t, "fav", "run", "1"))
	started := app.exec.Started()
	require.Len(t, started, 1)
	assert.Contains(t, started[0].Args[1], "_nkw=bike")

	err := app.run(t, "fav", "rm", "5")
	require.Error(t, err)
	assert.Contains(t, app.stderr.String(), "No such entry")

	require.NoError(t, app.run(t, "fav", "rm", "1"))
	require.NoError(t, app.run(t, "fav", "ls"))
	assert.Contains(t, app.stderr.String(), "No favorites yet")
}

func TestRecentCmd_Clear(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "search", "--print", "--all", "chair"))
	require.NoError(t, app.run(t, "recent", "clear"))
	require.NoError(t, app.run(t, "recent", "ls"))
	assert.Contains(t, app.stderr.String(), "No recent searches yet")
}

func TestIndexArg_Invalid(t *testing.T) {
	app := newTestApp(t)

	for _, arg := range []string{"0", "x"} {
		err := app.run(t, "recent", "rm", arg)
		require.Error(t, err, arg)
		assert.Contains(t, err.Error(), "invalid entry number", arg)
	}

	err := app.run(t, "recent", "rm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry number is required")
}

func TestThemeCmd(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "theme"))
	assert.Contains(t, app.stderr.String(), "dark")

	require.NoError(t, app.run(t, "theme", "toggle"))
	assert.Contains(t, app.stderr.String(), "Theme set to light")

	require.NoError(t, app.run(t, "theme", "dark"))
	assert.Equal(t, prefs.ThemeDark, app.flags.Service.Theme(context.Background()))

	require.Error(t, app.run(t, "theme", "purple"))
}

func TestPermissionCmd(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.run(t, "permission", "status"))
	assert.Contains(t, app.stderr.String(), "allowed")
	assert.Contains(t, app.stderr.String(), "firefox")

	require.NoError(t, app.run(t, "permission", "help", "--raw"))
	assert.Contains(t, app.stdout.String(), "dealscout permission request")
}

func TestPermissionCmd_Blocked(t *testing.T) {
	app := newTestApp(t)
	app.exec.Paths = map[string]string{}

	err := app.run(t, "permission", "status")
	require.Error(t, err)
	assert.Contains(t, app.stderr.String(), "blocked")

	err = app.run(t, "search", "--provider", "ebay", "bike")
	require.Error(t, err)
	assert.Contains(t, app.stderr.String(), "dealscout permission request")
	assert.Empty(t, app.exec.Started())
}

func TestConfigCmd_Show(t *testing.T) {
	app := newTestAppWithConfig(t, defaultsConfig)

	require.NoError(t, app.run(t, "config", "show"))

	out := app.stdout.String()
	assert.Contains(t, out, "command: [")
	assert.Contains(t, out, "stagger: 1ms")
	assert.Contains(t, out, `postal_code: "90210"`)
	assert.Contains(t, out, "data_dir: ")
}

func TestConfigCmd_ValidateJSON(t *testing.T) {
	app := newTestAppWithConfig(t, defaultsConfig)

	require.NoError(t, app.run(t, "config", "validate", "--format", "json"))

	var out struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(app.stdout.Bytes(), &out))
	assert.True(t, out.Valid)
}

func TestDoctorCmd(t *testing.T) {
	app := newTestAppWithConfig(t, defaultsConfig)

	require.NoError(t, app.run(t, "doctor", "--format", "json"))

	var out struct {
		Healthy bool `json:"healthy"`
		Checks  []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(app.stdout.Bytes(), &out))
	assert.True(t, out.Healthy)
	require.Len(t, out.Checks, 3)
	assert.Equal(t, "Configuration", out.Checks[0].Name)
	assert.Equal(t, "Browser", out.Checks[1].Name)
	assert.Equal(t, "Storage", out.Checks[2].Name)
	assert.Empty(t, app.exec.Started(), "doctor must not open a window")

	require.Error(t, app.run(t, "doctor", "--format", "xml"))
}

func TestTuiCmd_Options(t *testing.T) {
	app := newTestApp(t)

	cmd := NewTuiCmd(app.flags)
	opts, err := cmd.options()
	require.NoError(t, err)
	assert.Equal(t, "90210", opts.PostalCode)
	assert.Equal(t, search.Radius(25), opts.Radius)

	cmd.zip, cmd.radius = "10001", "50mi"
	opts, err = cmd.options()
	require.NoError(t, err)
	assert.Equal(t, "10001", opts.PostalCode)
	assert.Equal(t, search.Radius(50), opts.Radius)

	cmd.zip, cmd.radius = "1000", ""
	_, err = cmd.options()
	require.Error(t, err)

	cmd.zip, cmd.radius = "", "7"
	_, err = cmd.options()
	require.Error(t, err)
}
