// Package profile edits the user's profile and shows it in the terminal.
package profile

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/lai323/kanjidrill/db"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyName   = errors.New("username can not be empty")
	ErrAvatarType  = errors.New("avatar must be a png, jpg, jpeg, webp, bmp or gif image")
	ErrAvatarImage = errors.New("avatar is not a readable image")
)

const avatarPattern = "*.{png,jpg,jpeg,webp,bmp,gif}"

type Store interface {
	ProfileGet() (db.Profile, error)
	ProfilePut(db.Profile) error
	TotalAnswered() (int, error)
}

func Rename(s Store, name string) (db.Profile, error) {
	name = strings.TrimSpace(name)
	p, err := s.ProfileGet()
	if err != nil {
		return p, err
	}
	if name == "" {
		return p, ErrEmptyName
	}
	p.Username = name
	if err := s.ProfilePut(p); err != nil {
		return p, err
	}
	slog.Info("profile renamed", "username", name)
	return p, nil
}

// AvatarAllowed reports whether the file name carries an image extension the
// profile accepts.
func AvatarAllowed(name string) bool {
	ok, _ := doublestar.Match(avatarPattern, strings.ToLower(path.Base(name)))
	return ok
}

// SetAvatar checks that src is an image and copies it into storageDir as
// pfp<ext>. The profile then points at the copy.
func SetAvatar(fs afero.Fs, s Store, storageDir, src string) (db.Profile, error) {
	p, err := s.ProfileGet()
	if err != nil {
		return p, err
	}
	if !AvatarAllowed(src) {
		return p, ErrAvatarType
	}

	in, err := fs.Open(src)
	if err != nil {
		return p, err
	}
	defer in.Close()
	if _, _, err := image.DecodeConfig(in); err != nil {
		return p, fmt.Errorf("%w: %s", ErrAvatarImage, err)
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return p, err
	}

	if err := fs.MkdirAll(storageDir, 0755); err != nil {
		return p, err
	}
	dst := path.Join(storageDir, "pfp"+strings.ToLower(path.Ext(src)))
	if samePath(src, dst) {
		slog.Debug("avatar already in storage", "path", dst)
	} else if err := copyFile(fs, in, dst); err != nil {
		return p, err
	}

	p.AvatarPath = dst
	if err := s.ProfilePut(p); err != nil {
		return p, err
	}
	slog.Info("avatar updated", "path", dst)
	return p, nil
}

func samePath(a, b string) bool {
	a, errA := filepath.Abs(a)
	b, errB := filepath.Abs(b)
	return errA == nil && errB == nil && a == b
}

// copyFile writes next to dst first so a failed copy leaves the old avatar.
func copyFile(fs afero.Fs, in io.Reader, dst string) error {
	tmp := dst + ".part"
	out, err := fs.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		fs.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		fs.Remove(tmp)
		return err
	}
	return fs.Rename(tmp, dst)
}
