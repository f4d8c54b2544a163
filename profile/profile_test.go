package profile

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lai323/kanjidrill/db"
	"github.com/lai323/kanjidrill/kanji"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	p     db.Profile
	total int
	puts  int
}

func (s *memStore) ProfileGet() (db.Profile, error) { return s.p, nil }
func (s *memStore) ProfilePut(p db.Profile) error {
	s.p = p
	s.puts++
	return nil
}
func (s *memStore) TotalAnswered() (int, error) { return s.total, nil }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRename(t *testing.T) {
	s := &memStore{p: db.DefaultProfile()}

	p, err := Rename(s, "  Hanako ")
	require.NoError(t, err)
	assert.Equal(t, "Hanako", p.Username)
	assert.Equal(t, "Hanako", s.p.Username)

	_, err = Rename(s, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, "Hanako", s.p.Username)
	assert.Equal(t, 1, s.puts)
}

func TestAvatarAllowed(t *testing.T) {
	for _, name := range []string{"a.png", "/x/b.JPG", "c.jpeg", "d.webp", "e.bmp", "f.GIF"} {
		assert.True(t, AvatarAllowed(name), name)
	}
	for _, name := range []string{"a.txt", "png", "/x/b.png.exe", "c.tiff"} {
		assert.False(t, AvatarAllowed(name), name)
	}
}

func TestSetAvatar(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := &memStore{p: db.DefaultProfile()}
	data := pngBytes(t)
	require.NoError(t, afero.WriteFile(fs, "/home/me/Me.PNG", data, 0644))

	p, err := SetAvatar(fs, s, "/data", "/home/me/Me.PNG")
	require.NoError(t, err)
	assert.Equal(t, "/data/pfp.png", p.AvatarPath)
	assert.Equal(t, "/data/pfp.png", s.p.AvatarPath)
	copied, err := afero.ReadFile(fs, "/data/pfp.png")
	require.NoError(t, err)
	assert.Equal(t, data, copied)

	require.NoError(t, afero.WriteFile(fs, "/notes.txt", []byte("hi"), 0644))
	_, err = SetAvatar(fs, s, "/data", "/notes.txt")
	assert.ErrorIs(t, err, ErrAvatarType)

	require.NoError(t, afero.WriteFile(fs, "/fake.jpg", []byte("hi"), 0644))
	_, err = SetAvatar(fs, s, "/data", "/fake.jpg")
	assert.ErrorIs(t, err, ErrAvatarImage)

	_, err = SetAvatar(fs, s, "/data", "/missing.png")
	assert.Error(t, err)
	assert.Equal(t, "/data/pfp.png", s.p.AvatarPath)
}

func TestSetAvatarStoredCopy(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := &memStore{p: db.DefaultProfile()}
	data := pngBytes(t)
	require.NoError(t, afero.WriteFile(fs, "/data/pfp.png", data, 0644))

	p, err := SetAvatar(fs, s, "/data", "/data/pfp.png")
	require.NoError(t, err)
	assert.Equal(t, "/data/pfp.png", p.AvatarPath)
	kept, err := afero.ReadFile(fs, "/data/pfp.png")
	require.NoError(t, err)
	assert.Equal(t, data, kept)

	_, err = SetAvatar(fs, s, "/data/", "/data/../data/pfp.png")
	require.NoError(t, err)
	kept, err = afero.ReadFile(fs, "/data/pfp.png")
	require.NoError(t, err)
	assert.Equal(t, data, kept)
}

func TestSetAvatarOtherType(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := &memStore{p: db.DefaultProfile()}
	require.NoError(t, afero.WriteFile(fs, "/home/me/a.jpg", jpegBytes(t), 0644))
	data := pngBytes(t)
	require.NoError(t, afero.WriteFile(fs, "/home/me/b.png", data, 0644))

	_, err := SetAvatar(fs, s, "/data", "/home/me/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/data/pfp.jpg", s.p.AvatarPath)

	p, err := SetAvatar(fs, s, "/data", "/home/me/b.png")
	require.NoError(t, err)
	assert.Equal(t, "/data/pfp.png", p.AvatarPath)
	assert.Equal(t, "/data/pfp.png", s.p.AvatarPath)
	copied, err := afero.ReadFile(fs, "/data/pfp.png")
	require.NoError(t, err)
	assert.Equal(t, data, copied)
	exist, err := afero.Exists(fs, "/data/pfp.png.part")
	require.NoError(t, err)
	assert.False(t, exist)

	m, err := New(fs, s)
	require.NoError(t, err)
	assert.NotNil(t, m.avatar)
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/pfp.png", pngBytes(t), 0644))
	p := db.DefaultProfile()
	p.AvatarPath = "/data/pfp.png"
	require.NoError(t, p.XP.Add(kanji.JLPT, kanji.Meaning, 620))
	s := &memStore{p: p, total: 62}

	m, err := New(fs, s)
	require.NoError(t, err)
	require.NotNil(t, m.avatar)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "User")
	assert.Contains(t, view, "62 questions answered")
	assert.Contains(t, view, "level 2")
	assert.Contains(t, view, "120/500 XP")
	assert.Contains(t, view, "▀")

	m.Update(key("r"))
	assert.True(t, m.renaming)
	m.input.SetValue("   ")
	m.Update(key("enter"))
	assert.ErrorIs(t, m.err, ErrEmptyName)
	assert.True(t, m.renaming)

	m.input.SetValue("Kenji")
	m.Update(key("enter"))
	assert.NoError(t, m.err)
	assert.False(t, m.renaming)
	assert.Equal(t, "Kenji", s.p.Username)
	assert.Contains(t, m.View(), "Kenji")

	m.Update(key("r"))
	m.input.SetValue("Other")
	m.Update(key("esc"))
	assert.False(t, m.renaming)
	assert.Equal(t, "Kenji", s.p.Username)

	m.Update(key("?"))
	assert.Contains(t, m.View(), "rename")
	m.Update(key("?"))

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelMissingAvatar(t *testing.T) {
	p := db.DefaultProfile()
	p.AvatarPath = "/gone.png"
	m, err := New(afero.NewMemMapFs(), &memStore{p: p})
	require.NoError(t, err)
	assert.Nil(t, m.avatar)
	assert.NotContains(t, m.View(), "▀")
}

func TestApply(t *testing.T) {
	d, err := db.NewBoltDrillDB(filepath.Join(t.TempDir(), "kanjidrill.db"))
	require.NoError(t, err)
	defer d.Close()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/profile.json", []byte(`{"username": "Aki", "pfp_path": "", "xp": {"JLPT": {"Meaning": 30, "Reading": 0}, "WaniKani": {"Meaning": 0, "Reading": 0}}}`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/in/me.gif", gifBytes(t), 0644))

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	err = apply(cmd, fs, d, "/data", Options{
		Import: "/in/profile.json",
		Name:   "Yuki",
		Avatar: "/in/me.gif",
		Export: "/out.json",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "imported profile of Aki")
	assert.Contains(t, buf.String(), "username set to Yuki")
	assert.Contains(t, buf.String(), "avatar saved to /data/pfp.gif")

	p, err := d.ProfileGet()
	require.NoError(t, err)
	assert.Equal(t, "Yuki", p.Username)
	assert.Equal(t, "/data/pfp.gif", p.AvatarPath)
	assert.Equal(t, 30, p.XP.Get(kanji.JLPT, kanji.Meaning))

	exported, err := afero.ReadFile(fs, "/out.json")
	require.NoError(t, err)
	assert.Contains(t, string(exported), `"username": "Yuki"`)
	assert.Contains(t, string(exported), `"pfp_path": "/data/pfp.gif"`)

	assert.ErrorIs(t, apply(cmd, fs, d, "/data", Options{Name: " "}), ErrEmptyName)
	assert.True(t, Options{Export: "x"}.edits())
	assert.False(t, Options{}.edits())
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}
