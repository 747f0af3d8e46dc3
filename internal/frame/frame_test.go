package frame

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emotune/emotune/internal/domain"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecode(t *testing.T) {
	t.Run("valid png", func(t *testing.T) {
		raw := encodePNG(t, solid(40, 30, color.NRGBA{R: 200, G: 10, B: 10, A: 255}))

		f, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, 40, f.Width())
		assert.Equal(t, 30, f.Height())
		assert.Equal(t, raw, f.Raw)
	})

	malformed := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"text", []byte("definitely not an image")},
		{"truncated png header", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}},
		{"jpeg magic only", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}},
	}

	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(tt.raw)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, ErrUndecodable)
		})
	}

	t.Run("truncated valid png", func(t *testing.T) {
		raw := encodePNG(t, solid(64, 64, color.White))
		_, err := Decode(raw[:len(raw)/2])
		assert.ErrorIs(t, err, ErrUndecodable)
	})
}

// pngHeader returns a PNG signature and IHDR chunk declaring w x h RGB
// pixels, with no image data behind it.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	chunk := make([]byte, 4+13)
	copy(chunk, "IHDR")
	binary.BigEndian.PutUint32(chunk[4:], w)
	binary.BigEndian.PutUint32(chunk[8:], h)
	chunk[12] = 8 // bit depth
	chunk[13] = 2 // truecolor

	_ = binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecode_RejectsOversizedHeader(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
	}{
		{"one terapixel", 1 << 20, 1 << 20},
		{"just over the limit", 10_000, 5_001},
		{"very wide strip", 1 << 30, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := pngHeader(tt.w, tt.h)
			require.Less(t, len(raw), 100)

			f, err := Decode(raw)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, ErrUndecodable)
			assert.Contains(t, err.Error(), "exceeds")
		})
	}
}

func TestDecode_HeaderWithinLimitStillNeedsPixels(t *testing.T) {
	_, err := Decode(pngHeader(100, 100))
	assert.ErrorIs(t, err, ErrUndecodable)
	assert.NotContains(t, err.Error(), "exceeds")
}

func TestFrame_Gray(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.NRGBA{A: 255})

	gray := FromImage(img).Gray()
	require.Len(t, gray, 2)
	assert.Equal(t, byte(255), gray[0])
	assert.Equal(t, byte(0), gray[1])
}

func TestFrame_Crop(t *testing.T) {
	img := solid(100, 100, color.Black)
	img.Set(20, 30, color.NRGBA{R: 255, A: 255})
	f := FromImage(img)

	crop := f.Crop(domain.FaceRegion{X: 20, Y: 30, Width: 10, Height: 5})
	assert.Equal(t, 10, crop.Bounds().Dx())
	assert.Equal(t, 5, crop.Bounds().Dy())
	assert.Equal(t, uint8(255), crop.NRGBAAt(0, 0).R)

	clamped := f.Crop(domain.FaceRegion{X: 90, Y: 90, Width: 50, Height: 50})
	assert.Equal(t, 10, clamped.Bounds().Dx())
	assert.Equal(t, 10, clamped.Bounds().Dy())
}

func TestFrame_Clip(t *testing.T) {
	f := FromImage(solid(100, 100, color.Black))

	tests := []struct {
		name   string
		region domain.FaceRegion
		want   domain.FaceRegion
		wantOK bool
	}{
		{"inside", domain.FaceRegion{X: 10, Y: 10, Width: 60, Height: 60}, domain.FaceRegion{X: 10, Y: 10, Width: 60, Height: 60}, true},
		{"overhangs corner", domain.FaceRegion{X: 80, Y: 70, Width: 80, Height: 80}, domain.FaceRegion{X: 80, Y: 70, Width: 20, Height: 30}, true},
		{"negative origin", domain.FaceRegion{X: -20, Y: -10, Width: 50, Height: 40}, domain.FaceRegion{X: 0, Y: 0, Width: 30, Height: 30}, true},
		{"outside", domain.FaceRegion{X: 500, Y: 500, Width: 80, Height: 80}, domain.FaceRegion{}, false},
		{"touching edge only", domain.FaceRegion{X: 100, Y: 0, Width: 10, Height: 10}, domain.FaceRegion{}, false},
		{"zero size", domain.FaceRegion{X: 10, Y: 10}, domain.FaceRegion{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := f.Clip(tt.region)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
