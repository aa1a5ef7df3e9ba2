package resource

import (
	"fmt"

	"github.com/nordlys3d/nordlys/internal/engine/texture"
)

// Material wraps a texture used for shading. For terrains the texture doubles
// as the height/color map whose dimensions define the terrain's logical size.
type Material struct {
	base
	tex *Texture
}

// Texture returns the material's backing texture, nil until the material
// is ready.
func (m *Material) Texture() *Texture {
	return m.tex
}

// load decodes the material's texture from raw file data.
func (m *Material) load(data []byte) error {
	img, err := texture.DecodeTGA(data)
	if err != nil {
		return fmt.Errorf("decoding texture %s: %w", m.path, err)
	}
	b := img.Bounds()
	m.tex = &Texture{
		Width:  int32(b.Dx()),
		Height: int32(b.Dy()),
		Pixels: img,
	}
	return nil
}
