package texture

import (
	"image/color"
	"testing"
)

// buildTGA creates a minimal uncompressed 24-bit top-to-bottom TGA.
func buildTGA(width, height int, rgb [3]byte) []byte {
	header := make([]byte, 18)
	header[2] = TGATypeUncompressed
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = 24
	header[17] = 0x20 // top-to-bottom

	data := header
	for i := 0; i < width*height; i++ {
		data = append(data, rgb[2], rgb[1], rgb[0]) // BGR
	}
	return data
}

func TestDecodeTGA(t *testing.T) {
	data := buildTGA(4, 2, [3]byte{10, 20, 30})
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 4x2", b)
	}
	want := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	if got := img.RGBAAt(0, 0); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{1, 2, 3}},
		{"color-mapped", func() []byte {
			d := buildTGA(1, 1, [3]byte{0, 0, 0})
			d[1] = 1
			return d
		}()},
		{"unsupported type", func() []byte {
			d := buildTGA(1, 1, [3]byte{0, 0, 0})
			d[2] = 3 // grayscale
			return d
		}()},
		{"truncated pixels", buildTGA(8, 8, [3]byte{0, 0, 0})[:30]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}
