package chef

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"net/http"
	"os"

	"github.com/hammamikhairi/chefai/internal/domain"
)

// MaxImageBytes caps uploads and files read from disk.
const MaxImageBytes = 20 << 20

// LoadImage reads a JPEG or PNG photo from disk.
func LoadImage(path string) (domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("reading image %s: %w", path, err)
	}
	return DecodeImage(data)
}

// DecodeImage sniffs and validates raw image bytes. Only JPEG and PNG
// are accepted; anything else wraps domain.ErrUnsupportedImage.
func DecodeImage(data []byte) (domain.Image, error) {
	if len(data) == 0 {
		return domain.Image{}, fmt.Errorf("%w: empty file", domain.ErrUnsupportedImage)
	}
	if len(data) > MaxImageBytes {
		return domain.Image{}, fmt.Errorf("%w: larger than %d bytes", domain.ErrUnsupportedImage, MaxImageBytes)
	}

	mime := http.DetectContentType(data)
	if mime != "image/jpeg" && mime != "image/png" {
		return domain.Image{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mime)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	return domain.Image{Data: data, MIMEType: mime}, nil
}
