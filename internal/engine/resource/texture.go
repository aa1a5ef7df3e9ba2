package resource

import "image"

// Texture holds decoded pixel data for a material.
// Terrain reads Width to size its quadtree; the render device uploads Pixels.
type Texture struct {
	Width  int32
	Height int32
	Pixels *image.RGBA
}
