package cardapi

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/logger"
)

const jpegQuality = 85

// fitImage returns the image unchanged when it is within the upload limit,
// otherwise a downscaled JPEG re-encoding of it.
func (c *Client) fitImage(ctx context.Context, image []byte, filename string) ([]byte, string, error) {
	if filename == "" {
		filename = "image.jpg"
	}
	if int64(len(image)) <= c.maxImageBytes {
		return image, filename, nil
	}

	log := logger.FromContext(ctx).WithPrefix("cardapi")
	log.Debug("image is %d bytes, downscaling to fit %d", len(image), c.maxImageBytes)

	img, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", errors.NewValidationError("image", fmt.Sprintf("cannot decode: %v", err))
	}

	resized := imaging.Fit(img, c.maxDimension, c.maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", errors.NewInternalError(err)
	}
	if int64(buf.Len()) > c.maxImageBytes {
		return nil, "", errors.NewValidationError("image", fmt.Sprintf("must be at most %d bytes", c.maxImageBytes))
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	log.Info("image downscaled from %d to %d bytes", len(image), buf.Len())
	return buf.Bytes(), name, nil
}
