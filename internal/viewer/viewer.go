// Package viewer shows a quaternion-driven axis gizmo in an OpenGL window.
package viewer

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"k8s.io/klog/v2"

	"hypercomplex/internal/viewer/gizmo"
	"hypercomplex/math"
)

type Config struct {
	Width  int
	Height int
	Axis   math.Vec3
	Speed  float32 // radians per second
	VSync  bool
}

func DefaultConfig() Config {
	return Config{
		Width:  960,
		Height: 720,
		Axis:   math.NewVec3(0, 1, 1),
		Speed:  1,
		VSync:  true,
	}
}

var eye = math.Vec3{X: 2.4, Y: 1.8, Z: 3.2}

// Run opens the window and blocks until it is closed or Escape is pressed.
func Run(cfg Config) error {
	g, err := gizmo.New(cfg.Axis, cfg.Speed)
	if err != nil {
		return err
	}

	window, err := NewWindow(WindowConfig{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Title:     "quatview",
		Resizable: true,
		VSync:     cfg.VSync,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := NewRenderer()
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	view := math.Mat4LookAt(eye, math.Vec3Zero, math.Vec3Up)
	lastFrame := time.Now()
	lastTitle := lastFrame
	frames := 0

	for !window.ShouldClose() {
		window.PollEvents()
		if window.IsKeyPressed(glfw.KeyEscape) {
			break
		}

		now := time.Now()
		// Cap the step so a stalled frame doesn't jump the gizmo.
		dt := math32.Min(float32(now.Sub(lastFrame).Seconds()), 0.05)
		lastFrame = now
		g.Update(dt)

		width, height := window.GetFramebufferSize()
		if width == 0 || height == 0 {
			continue
		}
		renderer.SetViewport(width, height)

		proj := math.Mat4Perspective(math32.Pi/4, float32(width)/float32(height), 0.1, 100)
		mvp := view.Mul(proj)

		renderer.BeginFrame(0.08, 0.09, 0.11)
		renderer.DrawLines(g.Lines(), mvp)
		window.SwapBuffers()

		frames++
		if now.Sub(lastTitle) >= time.Second {
			window.SetTitle(fmt.Sprintf("quatview | FPS: %d | %v", frames, g.Orientation))
			klog.V(1).Infof("orientation %v euler %v", g.Orientation, g.Orientation.ToEuler())
			frames = 0
			lastTitle = now
		}
	}
	return nil
}
