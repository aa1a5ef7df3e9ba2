// Package viewer implements the scene viewer: window, render device, scene
// wiring and the frame loop.
package viewer

import (
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/nordlys3d/nordlys/internal/assets"
	"github.com/nordlys3d/nordlys/internal/config"
	"github.com/nordlys3d/nordlys/internal/engine/camera"
	"github.com/nordlys3d/nordlys/internal/engine/device"
	"github.com/nordlys3d/nordlys/internal/engine/input"
	"github.com/nordlys3d/nordlys/internal/engine/resource"
	"github.com/nordlys3d/nordlys/internal/engine/scene"
	"github.com/nordlys3d/nordlys/internal/engine/serializer"
	"github.com/nordlys3d/nordlys/internal/engine/universe"
	"github.com/nordlys3d/nordlys/internal/engine/window"
	"github.com/nordlys3d/nordlys/internal/logger"
	"github.com/nordlys3d/nordlys/pkg/math"
)

// Viewer is the running application: it owns the platform objects and the
// scene, and drives them once per frame.
type Viewer struct {
	cfg     *config.Config
	running bool

	window *window.Window
	dev    *device.GL
	input  *input.Input

	assets    *assets.Manager
	resources *resource.Manager
	universe  *universe.Universe
	scene     *scene.Scene
	camCmp    universe.Component

	orbit    *camera.OrbitCamera
	dragging bool
	lastX    int
	lastY    int
	held     map[sdl.Scancode]bool
}

// New creates the viewer: window and GL context first, then the device, then
// the scene graph. If the config names a scene file it is deserialized,
// otherwise a small demo scene is built.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:   cfg,
		orbit: camera.NewOrbitCamera(),
		held:  make(map[sdl.Scancode]bool),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "Nordlys Scene Viewer",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.dev, err = device.New(device.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create render device: %w", err)
	}

	v.input = input.New()
	v.assets = assets.NewManager(cfg.Assets.Root)
	v.resources = resource.NewManager(v.assets.Load)
	v.universe = universe.New()
	v.scene = scene.New(v.universe, v.resources)

	if cfg.Scene.File != "" {
		if err := v.loadScene(cfg.Scene.File); err != nil {
			v.Close()
			return nil, fmt.Errorf("failed to load scene %s: %w", cfg.Scene.File, err)
		}
	} else {
		v.buildDemoScene()
	}

	// The viewer drives its own camera regardless of what the scene carries.
	camEntity := v.universe.CreateEntity()
	v.camCmp = v.scene.CreateComponent(scene.CameraType, camEntity)
	v.scene.SetCameraSlot(v.camCmp, "viewer")
	v.scene.SetCameraSize(v.camCmp, cfg.Graphics.Width, cfg.Graphics.Height)
	v.scene.SetCameraActive(v.camCmp, true)

	logger.Info("viewer initialized",
		zap.String("scene", cfg.Scene.File),
		zap.Int64("layer_mask", cfg.Scene.LayerMask),
	)
	return v, nil
}

// loadScene restores a serialized scene from disk.
func (v *Viewer) loadScene(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := v.scene.Deserialize(serializer.NewReader(f)); err != nil {
		return err
	}
	logger.Info("scene loaded", zap.String("path", path))
	return nil
}

// SaveScene serializes the current scene to disk.
func (v *Viewer) SaveScene(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := v.scene.Serialize(serializer.NewWriter(f)); err != nil {
		return err
	}
	logger.Info("scene saved", zap.String("path", path))
	return nil
}

// buildDemoScene populates an empty universe with a terrain and a few
// renderables so the viewer shows something without a scene file.
func (v *Viewer) buildDemoScene() {
	terrain := v.scene.CreateComponent(scene.TerrainType, v.universe.CreateEntity())
	v.scene.SetTerrainMaterial(terrain, "textures/heightmap.tga")
	v.scene.SetTerrainYScale(terrain, 20)

	crate := v.universe.CreateEntity()
	v.universe.SetPosition(crate, math.Vec3{X: 32, Y: 2, Z: 32})
	cmp := v.scene.CreateComponent(scene.RenderableType, crate)
	v.scene.SetRenderablePath(cmp, "models/crate.mdl")

	v.scene.CreateComponent(scene.LightType, v.universe.CreateEntity())
	v.orbit.SetCenter(32, 0, 32)
}

// Run starts the main loop. It returns when the window is closed or ESC is
// pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.update(dt)
		v.render()
		v.window.SwapBuffers()

		if limit := v.cfg.Graphics.FPSLimit; limit > 0 {
			if budget := time.Second / time.Duration(limit); time.Since(now) < budget {
				time.Sleep(budget - time.Since(now))
			}
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.dev.Resize(event.Width, event.Height)
			v.scene.SetCameraSize(v.camCmp, event.Width, event.Height)

		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F5:
				path := v.cfg.Scene.File
				if path == "" {
					path = "scene.nsc"
				}
				if err := v.SaveScene(path); err != nil {
					logger.Error("scene save failed", zap.Error(err))
				}
			}
			v.held[event.Key] = true

		case input.EventKeyUp:
			delete(v.held, event.Key)

		case input.EventMouseDown:
			switch event.Button {
			case sdl.BUTTON_RIGHT:
				v.dragging = true
				v.lastX = event.MouseX
				v.lastY = event.MouseY
			case sdl.BUTTON_LEFT:
				v.pick(event.MouseX, event.MouseY)
			}

		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_RIGHT {
				v.dragging = false
			}

		case input.EventMouseMove:
			if v.dragging {
				v.orbit.HandleDrag(
					float32(event.MouseX-v.lastX),
					float32(event.MouseY-v.lastY),
				)
				v.lastX = event.MouseX
				v.lastY = event.MouseY
			}

		case input.EventMouseWheel:
			v.orbit.HandleZoom(event.WheelY)
		}
	}

	var forward, right, up float32
	if v.held[sdl.SCANCODE_W] {
		forward++
	}
	if v.held[sdl.SCANCODE_S] {
		forward--
	}
	if v.held[sdl.SCANCODE_D] {
		right++
	}
	if v.held[sdl.SCANCODE_A] {
		right--
	}
	if v.held[sdl.SCANCODE_E] {
		up++
	}
	if v.held[sdl.SCANCODE_Q] {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		v.orbit.HandleMovement(forward, right, up)
	}
}

// pick casts a ray through the cursor and marks the nearest hit.
func (v *Viewer) pick(x, y int) {
	origin, dir := v.scene.GetRay(v.camCmp, float32(x), float32(y))
	hit := v.scene.CastRay(origin, dir)
	if !hit.Hit {
		return
	}
	v.scene.AddDebugCube(hit.Position, 0.5, math.Vec3{X: 1, Y: 0.4, Z: 0}, 3)
	logger.Debug("ray hit",
		zap.Float32("t", hit.T),
		zap.Float32("x", hit.Position.X),
		zap.Float32("y", hit.Position.Y),
		zap.Float32("z", hit.Position.Z),
	)
}

func (v *Viewer) update(dt float32) {
	// The orbit camera owns the view; push it onto the camera entity so the
	// scene's camera queries see the same transform.
	v.universe.SetMatrix(v.camCmp.Entity, v.orbit.ViewMatrix().Inverse())

	v.scene.Update(dt)
	v.resources.Pump()
}

func (v *Viewer) render() {
	v.dev.Begin()
	v.scene.ApplyCamera(v.camCmp, v.dev)

	camPos := v.orbit.Position()
	for _, info := range v.scene.TerrainInfos(v.cfg.Scene.LayerMask) {
		if info.Material == nil || !info.Material.IsReady() {
			continue
		}
		v.dev.BeginTerrain(info)
		v.scene.RenderTerrain(info, v.dev, camPos)
	}

	v.dev.DrawRenderables(v.scene.RenderableInfos(v.cfg.Scene.LayerMask))
	v.dev.DrawDebugLines(v.scene.DebugLines())
	v.dev.End()
}

// Close tears the viewer down in reverse creation order.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.scene != nil {
		v.scene.Destroy()
	}
	if v.assets != nil {
		v.assets.Close()
	}
	if v.dev != nil {
		v.dev.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
