package lookup

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lai323/kanjidrill/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html><body>
<div class="kanji details">
  <h1 class="character" lang="ja">日</h1>
  <div class="kanji-details__stroke_count"><strong>4</strong> strokes</div>
  <div class="kanji-details__main-meanings">
    day, sun, Japan, counter for days
  </div>
  <div class="kanji-details__main-readings">
    <dl class="dictionary_entry kun_yomi">
      <dt>Kun:</dt>
      <dd class="kanji-details__main-readings-list" lang="ja"><a href="#">ひ</a>、 <a href="#">-び</a>、 <a href="#">-か</a></dd>
    </dl>
    <dl class="dictionary_entry on_yomi">
      <dt>On:</dt>
      <dd class="kanji-details__main-readings-list" lang="ja"><a href="#">ニチ</a>、 <a href="#">ジツ</a></dd>
    </dl>
  </div>
  <div class="kanji_stats">
    <div class="grade">Taught in <strong>grade 1</strong></div>
    <div class="jlpt">JLPT level <strong>N5</strong></div>
    <div class="frequency"><strong>1</strong> of 2500 most used kanji in newspapers</div>
  </div>
</div>
</body></html>`

func TestParse(t *testing.T) {
	e, err := Parse(strings.NewReader(page), "text/html; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "日", e.Character)
	assert.Equal(t, []string{"day", "sun", "Japan", "counter for days"}, e.Meanings)
	assert.Equal(t, []string{"ひ", "-び", "-か"}, e.Kun)
	assert.Equal(t, []string{"ニチ", "ジツ"}, e.On)
	assert.Equal(t, 4, e.Strokes)
	assert.Equal(t, "N5", e.JLPT)
	assert.Equal(t, "grade 1", e.Grade)
	assert.Equal(t, "1", e.Frequency)

	_, err = Parse(strings.NewReader("<html><body>No matches</body></html>"), "text/html")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookup(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if strings.Contains(r.URL.Path, "日") {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(page))
			return
		}
		if strings.Contains(r.URL.Path, "月") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, err := NewJishoClient(srv.URL+"/", "")
	require.NoError(t, err)

	e, err := c.Lookup(context.Background(), " 日 ")
	require.NoError(t, err)
	assert.Equal(t, "/search/日 #kanji", gotPath)
	assert.Equal(t, srv.URL+"/search/%E6%97%A5%20%23kanji", e.URL)
	assert.Equal(t, []string{"ニチ", "ジツ"}, e.On)

	_, err = c.Lookup(context.Background(), "木")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Lookup(context.Background(), "月")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	_, err = c.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Lookup(ctx, "日")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewJishoClientProxy(t *testing.T) {
	_, err := NewJishoClient("", "://bad")
	assert.Error(t, err)

	c, err := NewJishoClient("", "http://127.0.0.1:8080")
	require.NoError(t, err)
	assert.Equal(t, "https://jisho.org", c.BaseURL)
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	cfg := config.New(t.TempDir())
	cfg.LookupURL = srv.URL
	fs := afero.NewMemMapFs()

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, Run(&cfg, fs, &Options{})(cmd, []string{"日"}))
	assert.Contains(t, buf.String(), "Day, Sun, Japan")
	assert.NotContains(t, buf.String(), "counter for days")

	buf.Reset()
	require.NoError(t, Run(&cfg, fs, &Options{Online: true})(cmd, []string{"日"}))
	assert.Contains(t, buf.String(), "counter for days")
	assert.Contains(t, buf.String(), "ニチ、ジツ")
	assert.Contains(t, buf.String(), "/search/%E6%97%A5%20%23kanji")

	buf.Reset()
	err := Run(&cfg, fs, &Options{})(cmd, []string{"龍"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, buf.String())

	assert.Error(t, Run(&cfg, fs, &Options{})(cmd, []string{"日", "月"}))
}
