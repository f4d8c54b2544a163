package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigCreatesDefault(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := InitConfig(fs, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, cfg)

	exist, err := afero.Exists(fs, DefaultConfigPath)
	require.NoError(t, err)
	assert.True(t, exist)

	exist, err = afero.DirExists(fs, DefaultStorageDir)
	require.NoError(t, err)
	assert.True(t, exist)
}

func TestInitConfigFromFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/kd.yaml", []byte(`
StoragePath: /var/kd
System: WaniKani
Drill: Reading
WaniKaniLevels: [1, 2, 3]
Count: 20
LogLevel: DEBUG
`), 0644))

	cfg, err := InitConfig(fs, "/etc/kd.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/var/kd", cfg.StoragePath)
	assert.Equal(t, "/var/kd/kanjidrill.db", cfg.DbFile())
	assert.Equal(t, "/var/kd/kanjidrill.log", cfg.LogFile())
	assert.Equal(t, []int{1, 2, 3}, cfg.Levels())
	assert.Equal(t, 20, cfg.Count)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1500, cfg.FeedbackDelay, "missing keys keep defaults")
	assert.Equal(t, []int{5}, cfg.JLPTLevels)
}

func TestInitConfigLenient(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/empty.yaml", nil, 0644))
	cfg, err := InitConfig(fs, "/empty.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, cfg)

	require.NoError(t, afero.WriteFile(fs, "/lower.yaml", []byte("System: wk\nDrill: reading\nWaniKaniLevels: [2]\n"), 0644))
	cfg, err = InitConfig(fs, "/lower.yaml")
	require.NoError(t, err)
	assert.Equal(t, "WaniKani", cfg.System)
	assert.Equal(t, "Reading", cfg.Drill)
	assert.Equal(t, []int{2}, cfg.Levels())
}

func TestDataset(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := New("/var/kd")
	assert.Equal(t, "/var/kd/kanji.json", cfg.DatasetFile())
	assert.Equal(t, "", cfg.Dataset(fs))

	require.NoError(t, afero.WriteFile(fs, "/var/kd/kanji.json", []byte("{}"), 0644))
	assert.Equal(t, "/var/kd/kanji.json", cfg.Dataset(fs))

	cfg.DatasetPath = "/mine.json"
	assert.Equal(t, "/mine.json", cfg.Dataset(fs))
}

func TestInitConfigErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := InitConfig(fs, "/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not exist")

	bad := map[string]string{
		"/system.yaml": "System: Kanken\n",
		"/level.yaml":  "JLPTLevels: [6]\n",
		"/count.yaml":  "Count: 0\n",
		"/url.yaml":    "LookupURL: not a url\n",
		"/log.yaml":    "LogLevel: loud\n",
		"/yaml.yaml":   "Count: [\n",
	}
	for p, content := range bad {
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0644))
		_, err := InitConfig(fs, p)
		assert.Error(t, err, p)
		var initErr *initConfigErr
		assert.ErrorAs(t, err, &initErr, p)
	}
}

func TestOptions(t *testing.T) {
	assert.Equal(t, "a", GetStringOption("a", "b"))
	assert.Equal(t, "b", GetStringOption("", "b"))
	assert.Equal(t, 3, GetIntOption(3, 4))
	assert.Equal(t, 4, GetIntOption(0, 4))
}
