// Package device implements the OpenGL render device consumed by the scene:
// camera and uniform state, geometry upload, ranged indexed draws for
// terrain patches, renderable meshes and debug lines.
package device

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/nordlys3d/nordlys/internal/engine/resource"
	"github.com/nordlys3d/nordlys/internal/engine/scene"
	"github.com/nordlys3d/nordlys/internal/engine/shader"
	"github.com/nordlys3d/nordlys/internal/logger"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// Config holds device configuration.
type Config struct {
	Width  int
	Height int
}

// geometryBuffers is the uploaded GPU state of one resource.Geometry.
type geometryBuffers struct {
	vao uint32
	vbo uint32
	ebo uint32
}

// GL is the OpenGL render device. Must be created after a GL context exists
// and used only from the context's thread.
type GL struct {
	config Config

	terrainProgram uint32
	modelProgram   uint32
	lineProgram    uint32
	current        uint32

	projection math.Mat4
	view       math.Mat4

	geometries map[*resource.Geometry]geometryBuffers
	textures   map[*resource.Material]uint32

	lineVAO uint32
	lineVBO uint32
}

// New initializes OpenGL and compiles the device's shader programs.
func New(cfg Config) (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	d := &GL{
		config:     cfg,
		projection: math.Identity(),
		view:       math.Identity(),
		geometries: make(map[*resource.Geometry]geometryBuffers),
		textures:   make(map[*resource.Material]uint32),
	}

	var err error
	if d.terrainProgram, err = shader.CompileProgram(terrainVertexShader, terrainFragmentShader); err != nil {
		return nil, fmt.Errorf("terrain program: %w", err)
	}
	if d.modelProgram, err = shader.CompileProgram(modelVertexShader, modelFragmentShader); err != nil {
		return nil, fmt.Errorf("model program: %w", err)
	}
	if d.lineProgram, err = shader.CompileProgram(lineVertexShader, lineFragmentShader); err != nil {
		return nil, fmt.Errorf("line program: %w", err)
	}

	gl.GenVertexArrays(1, &d.lineVAO)
	gl.BindVertexArray(d.lineVAO)
	gl.GenBuffers(1, &d.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.lineVBO)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	return d, nil
}

// Close releases every GPU object the device owns.
func (d *GL) Close() {
	logger.Info("closing render device")
	for _, b := range d.geometries {
		gl.DeleteVertexArrays(1, &b.vao)
		gl.DeleteBuffers(1, &b.vbo)
		gl.DeleteBuffers(1, &b.ebo)
	}
	for _, tex := range d.textures {
		gl.DeleteTextures(1, &tex)
	}
	if d.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &d.lineVAO)
		gl.DeleteBuffers(1, &d.lineVBO)
	}
	for _, p := range []uint32{d.terrainProgram, d.modelProgram, d.lineProgram} {
		if p != 0 {
			gl.DeleteProgram(p)
		}
	}
}

// Resize updates the viewport.
func (d *GL) Resize(width, height int) {
	d.config.Width = width
	d.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Begin starts a new frame.
func (d *GL) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (d *GL) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	d.current = 0
}

// SetProjection stores the projection matrix for subsequent draws.
func (d *GL) SetProjection(m math.Mat4) {
	d.projection = m
}

// SetView stores the view matrix for subsequent draws.
func (d *GL) SetView(m math.Mat4) {
	d.view = m
}

// SetUniformFloat sets a float uniform on the active program.
func (d *GL) SetUniformFloat(name string, v float32) {
	gl.Uniform1f(shader.GetUniform(d.current, name), v)
}

// SetUniformVec3 sets a vec3 uniform on the active program.
func (d *GL) SetUniformVec3(name string, v math.Vec3) {
	gl.Uniform3f(shader.GetUniform(d.current, name), v.X, v.Y, v.Z)
}

func (d *GL) useProgram(program uint32) {
	if d.current != program {
		gl.UseProgram(program)
		d.current = program
	}
	gl.UniformMatrix4fv(shader.GetUniform(program, "uProj"), 1, false, d.projection.Ptr())
	gl.UniformMatrix4fv(shader.GetUniform(program, "uView"), 1, false, d.view.Ptr())
}

// buffers returns the uploaded state of a geometry, uploading on first use.
// The CPU copy stays authoritative; geometries are treated as immutable once
// drawn.
func (d *GL) buffers(g *resource.Geometry) geometryBuffers {
	if b, ok := d.geometries[g]; ok {
		return b
	}
	var b geometryBuffers
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Vertices)*3*4, gl.Ptr(g.Vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	d.geometries[g] = b
	return b
}

// texture returns the GL texture of a material, uploading on first use.
func (d *GL) texture(m *resource.Material) uint32 {
	if tex, ok := d.textures[m]; ok {
		return tex
	}
	t := m.Texture()
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, t.Width, t.Height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.Pixels.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	d.textures[m] = tex
	return tex
}

// BeginTerrain activates the terrain program for one terrain: heightmap
// texture and vertical scale. The scene then streams per-quadrant uniforms
// and DrawIndexed calls.
func (d *GL) BeginTerrain(info scene.TerrainInfo) {
	d.useProgram(d.terrainProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.texture(info.Material))
	gl.Uniform1i(shader.GetUniform(d.terrainProgram, "uHeightmap"), 0)
	gl.Uniform1f(shader.GetUniform(d.terrainProgram, "uYScale"), info.YScale)
}

// DrawIndexed draws a range of a geometry's index buffer with the active
// program.
func (d *GL) DrawIndexed(geometry *resource.Geometry, first, count int32) {
	b := d.buffers(geometry)
	gl.BindVertexArray(b.vao)
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, unsafe.Pointer(uintptr(first*4)))
}

// DrawRenderables draws the mesh list produced by Scene.RenderableInfos.
func (d *GL) DrawRenderables(infos []scene.RenderableInfo) {
	if len(infos) == 0 {
		return
	}
	d.useProgram(d.modelProgram)
	for _, info := range infos {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, d.texture(info.Mesh.Material()))
		gl.Uniform1i(shader.GetUniform(d.modelProgram, "uTexture"), 0)
		gl.UniformMatrix4fv(shader.GetUniform(d.modelProgram, "uModel"), 1, false, info.Matrix.Ptr())
		gl.Uniform1f(shader.GetUniform(d.modelProgram, "uScale"), info.Scale)
		d.DrawIndexed(info.Geometry, info.Mesh.First(), info.Mesh.Count())
	}
}

// DrawDebugLines streams and draws the scene's debug lines.
func (d *GL) DrawDebugLines(lines []scene.DebugLine) {
	if len(lines) == 0 {
		return
	}
	verts := make([]float32, 0, len(lines)*12)
	for _, l := range lines {
		verts = append(verts,
			l.From.X, l.From.Y, l.From.Z, l.Color.X, l.Color.Y, l.Color.Z,
			l.To.X, l.To.Y, l.To.Z, l.Color.X, l.Color.Y, l.Color.Z,
		)
	}
	d.useProgram(d.lineProgram)
	gl.BindVertexArray(d.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(lines)*2))
}
