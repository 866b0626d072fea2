// Package avatar derives and processes user avatar images.
package avatar

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Size is the edge length avatars are normalized to before serving.
const Size = 250

// GravatarURL returns the gravatar URL for an email address, used as the
// default avatar until the user uploads their own.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x", md5.Sum([]byte(normalized)))
}

// Normalize reads the image at src, resizes it to Size x Size and writes the
// result to dst. The destination format follows the dst extension.
func Normalize(src, dst string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("open avatar image: %w", err)
	}
	resized := imaging.Resize(img, Size, Size, imaging.Lanczos)
	if err := imaging.Save(resized, dst); err != nil {
		return fmt.Errorf("save avatar image: %w", err)
	}
	return nil
}
