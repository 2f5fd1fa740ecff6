package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/cardpipe/config"
)

// isolate runs the test from an empty directory with no user config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	c, err := config.Load(viper.New())
	require.NoError(t, err)
	require.Equal(t, "", c.BaseURL)
	require.Equal(t, ".", c.SiteDir)
	require.Equal(t, "data/announcements.json", c.AnnouncementsPath)
	require.Equal(t, "data/policies", c.PoliciesDir)
	require.Equal(t, "en", c.DefaultLang)
	require.Equal(t, 30*time.Second, c.FetchTimeout)
	require.Equal(t, "v", c.CacheBustParam)
	require.Equal(t, ":8080", c.ServeAddr)
	require.Equal(t, "info", c.LogLevel)
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	yaml := "policies:\n  default_lang: fr\nfetch:\n  timeout: 5s\nserve:\n  addr: \":9000\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cardpipe.yaml"), []byte(yaml), 0o644))
	t.Setenv("CARDPIPE_FETCH_TIMEOUT", "2s")

	v := viper.New()
	v.Set("serve.addr", ":7000")

	c, err := config.Load(v)
	require.NoError(t, err)
	require.Equal(t, "fr", c.DefaultLang)
	require.Equal(t, 2*time.Second, c.FetchTimeout)
	require.Equal(t, ":7000", c.ServeAddr)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]func(v *viper.Viper){
		"zero timeout":       func(v *viper.Viper) { v.Set("fetch.timeout", "0s") },
		"bad default lang":   func(v *viper.Viper) { v.Set("policies.default_lang", "not a tag!") },
		"empty default lang": func(v *viper.Viper) { v.Set("policies.default_lang", " ") },
		"no announcements":   func(v *viper.Viper) { v.Set("announcements.path", "") },
		"no site": func(v *viper.Viper) {
			v.Set("site.dir", "")
			v.Set("site.base_url", "")
		},
	}
	for name, set := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			v := viper.New()
			set(v)
			_, err := config.Load(v)
			require.Error(t, err)
		})
	}
}

func TestOptionsHaveUniqueKeys(t *testing.T) {
	seen := map[string]bool{}
	for _, o := range config.Options() {
		require.False(t, seen[o.Key], o.Key)
		seen[o.Key] = true
		require.NotEmpty(t, o.Comment)
	}
}
