package util

import (
	"fmt"
	"math"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// GlApplication drives a glfw window. Run must be called from inside mainthread.Run;
// every frame executes on the main thread.
type GlApplication struct {
	Window          *glfw.Window
	TerminateFunc   func()
	UpdateFunc      func(elapsed float64)
	DrawFunc        func(elapsed float64)
	KeyHandler      func(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey)
	MousePosHandler func(xpos float64, ypos float64)
	ScrollHandler   func(xoff float64, yoff float64)
	WindowWidth     int
	WindowHeight    int
	ticks           uint64
	FramesPerSecond float64
	FPSRunningAvg   float64
	FPSMin          float64
	FPSMax          float64
}

func (a *GlApplication) KeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if a.KeyHandler != nil {
		a.KeyHandler(key, scancode, action, mods)
	}
}

func (a *GlApplication) MousePosCallback(w *glfw.Window, xpos float64, ypos float64) {
	if a.MousePosHandler != nil {
		a.MousePosHandler(xpos, ypos)
	}
}

func (a *GlApplication) ScrollCallback(w *glfw.Window, xoff float64, yoff float64) {
	if a.ScrollHandler != nil {
		a.ScrollHandler(xoff, yoff)
	}
}

func (a *GlApplication) Run() {
	defer mainthread.Call(a.TerminateFunc)
	var previousTime float64
	mainthread.Call(func() { previousTime = glfw.GetTime() })
	shouldQuit := false
	for !shouldQuit {
		mainthread.Call(func() {
			shouldQuit = a.Window.ShouldClose()

			gl.ClearColor(0.55, 0.7, 0.9, 1)
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

			now := glfw.GetTime()
			elapsed := now - previousTime
			previousTime = now
			a.UpdateFunc(elapsed)
			a.DrawFunc(elapsed)
			a.trackFPS(elapsed)

			a.Window.SwapBuffers()
			glfw.PollEvents()
		})
	}
}

func (a *GlApplication) trackFPS(elapsed float64) {
	if elapsed <= 0 {
		return
	}
	a.FramesPerSecond = 1.0 / elapsed
	if a.ticks%60 == 0 {
		a.Window.SetTitle(fmt.Sprintf("FPS: %.0f (Avg: %.0f, Min: %.0f, Max: %.0f) / Elapsed: %.3f", a.FramesPerSecond, a.FPSRunningAvg, a.FPSMin, a.FPSMax, elapsed*1000))
		a.FPSRunningAvg = a.FramesPerSecond * (1.0 / 60.0)
		a.FPSMin = math.MaxFloat64
		a.FPSMax = 0
	} else {
		a.FPSRunningAvg += a.FramesPerSecond * (1.0 / 60.0)
		a.FPSMin = math.Min(a.FPSMin, a.FramesPerSecond)
		a.FPSMax = math.Max(a.FPSMax, a.FramesPerSecond)
	}
	a.ticks++
}

// InitOpenGL creates a window with a 3.3 core context and makes it current. Call it on the main thread.
func InitOpenGL(title string, width, height int) (*glfw.Window, func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, errors.Wrap(err, "initialize glfw")
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, errors.Wrap(err, "create window")
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1) // enable (1) vsync

	return win, func() {
		glfw.Terminate()
	}, nil
}

// SetupDepthState enables depth testing and back-face culling. Requires loaded GL function pointers.
func SetupDepthState() {
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
}
