package avatar_test

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/okellen/contactbook-be/internal/avatar"
)

func TestGravatarURL(t *testing.T) {
	// md5("alice@mail.com")
	require.Equal(t,
		"https://www.gravatar.com/avatar/7bae794ae414a192da370a24b80cd55a",
		avatar.GravatarURL("alice@mail.com"))

	// Address is trimmed and lowercased before hashing.
	require.Equal(t,
		avatar.GravatarURL("alice@mail.com"),
		avatar.GravatarURL("  Alice@Mail.Com  "))
}

func TestNormalize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	dst := filepath.Join(dir, "dst.png")

	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 640, 480))))
	require.NoError(t, f.Close())

	require.NoError(t, avatar.Normalize(src, dst))

	img, err := imaging.Open(dst)
	require.NoError(t, err)
	require.Equal(t, avatar.Size, img.Bounds().Dx())
	require.Equal(t, avatar.Size, img.Bounds().Dy())
}

func TestNormalizeRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("not an image"), 0o644))

	err := avatar.Normalize(src, filepath.Join(dir, "dst.png"))
	require.Error(t, err)
}
