package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lai323/kanjidrill/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStats(t *testing.T) {
	cfg = config.New(t.TempDir())
	mem := afero.NewMemMapFs()
	osfs := fs
	fs = mem
	defer func() {
		fs = osfs
		statsOpt = statsOptions{}
	}()

	require.NoError(t, afero.WriteFile(mem, "/kanji_stats.json", []byte(`{
  "火": {
    "total_encounters": 2,
    "JLPT": {"Meaning": {"right": 1, "wrong": 1, "streak": 0}, "Reading": {"right": 0, "wrong": 0, "streak": 0}},
    "WaniKani": {"Meaning": {"right": 0, "wrong": 0, "streak": 0}, "Reading": {"right": 0, "wrong": 0, "streak": 0}}
  }
}`), 0644))

	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)

	statsOpt = statsOptions{Import: "/kanji_stats.json"}
	require.NoError(t, runStats(c, nil))
	assert.Contains(t, buf.String(), "imported stats of 1 kanji")

	buf.Reset()
	statsOpt = statsOptions{}
	require.NoError(t, runStats(c, nil))
	assert.Contains(t, buf.String(), "火")
	assert.Contains(t, buf.String(), "2       1       1       0")

	buf.Reset()
	statsOpt = statsOptions{System: "wk", Drill: "reading"}
	require.NoError(t, runStats(c, nil))
	assert.Contains(t, buf.String(), "2       0       0       0")

	statsOpt = statsOptions{Export: "/out.json"}
	require.NoError(t, runStats(c, nil))
	exported, err := afero.ReadFile(mem, "/out.json")
	require.NoError(t, err)
	assert.Contains(t, string(exported), "火")

	statsOpt = statsOptions{Clean: true}
	require.NoError(t, runStats(c, nil))
	buf.Reset()
	statsOpt = statsOptions{}
	require.NoError(t, runStats(c, nil))
	assert.NotContains(t, buf.String(), "火")

	statsOpt = statsOptions{System: "kanken"}
	assert.Error(t, runStats(c, nil))
}

func TestCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, n := range []string{"drill", "count", "profile", "stats", "history", "lookup", "dataset"} {
		assert.True(t, names[n], n)
	}
	assert.NotNil(t, drillCmd.Flags().Lookup("weak"))
	assert.NotNil(t, countCmd.Flags().Lookup("level"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRunDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
  "氏": {"strokes": 4, "jlpt_new": 1, "meanings": ["Surname"], "readings_on": ["し"], "readings_kun": ["うじ"], "wk_level": 10},
  "統": {"strokes": 12, "jlpt_new": 1, "meanings": ["Overall"], "readings_on": ["とう"], "readings_kun": ["す.べる"], "wk_level": 30}
}`))
	}))
	defer srv.Close()

	cfg = config.New("/kd")
	cfg.DatasetURL = srv.URL
	mem := afero.NewMemMapFs()
	osfs := fs
	fs = mem
	defer func() {
		fs = osfs
		update = false
	}()

	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)

	require.NoError(t, runDataset(c, nil))
	assert.Contains(t, buf.String(), "bundled subset: 64 kanji")
	assert.Contains(t, buf.String(), "1:5 2:6 3:6 4:7 5:39")

	buf.Reset()
	update = true
	require.NoError(t, runDataset(c, nil))
	assert.Contains(t, buf.String(), "saved 2 kanji to /kd/kanji.json")

	buf.Reset()
	update = false
	require.NoError(t, runDataset(c, nil))
	assert.Contains(t, buf.String(), "/kd/kanji.json: 2 kanji")
	assert.Contains(t, buf.String(), "10:1 30:1")

	cfg.DatasetURL = ""
	update = true
	assert.Error(t, runDataset(c, nil))
}
