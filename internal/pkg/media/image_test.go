package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestToWebP(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		opt          ImageOptions
		wantW, wantH int
	}{
		{name: "downsized to fit width", w: 400, h: 200, opt: ImageOptions{MaxWidth: 100, MaxHeight: 100}, wantW: 100, wantH: 50},
		{name: "downsized to fit height", w: 200, h: 400, opt: ImageOptions{MaxWidth: 100, MaxHeight: 100}, wantW: 50, wantH: 100},
		{name: "small image kept", w: 60, h: 40, opt: DefaultImageOptions, wantW: 60, wantH: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ToWebP(pngOf(t, tt.w, tt.h), tt.opt)
			require.NoError(t, err)

			cfg, err := webp.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)
		})
	}
}

func TestToWebP_NotAnImage(t *testing.T) {
	_, err := ToWebP([]byte("definitely not an image"), DefaultImageOptions)
	assert.ErrorIs(t, err, ErrUndecodableImage)
}

func TestOSSHost_PublicURL(t *testing.T) {
	h := &OSSHost{endpoint: "https://oss-ap-southeast-1.aliyuncs.com", bucketName: "campus", prefix: "events"}
	assert.Equal(t, "events/users/u-1/abc.webp", h.objectKey("/users/u-1/abc"))
	assert.Equal(t, "https://campus.oss-ap-southeast-1.aliyuncs.com/events/x.webp", h.PublicURL("events/x.webp"))

	h.publicBase = "https://cdn.campus.edu"
	assert.Equal(t, "https://cdn.campus.edu/events/x.webp", h.PublicURL("events/x.webp"))
}
