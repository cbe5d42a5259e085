// Command editor runs the greenside map editor: an SDL2 window around
// the editor core, talking to the map server for persistence.
package main

import (
	"context"
	"errors"
	"fmt"
	gomath "math"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/fairwaylab/greenside/internal/config"
	"github.com/fairwaylab/greenside/internal/editor"
	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/internal/engine/camera"
	"github.com/fairwaylab/greenside/internal/engine/input"
	"github.com/fairwaylab/greenside/internal/engine/picking"
	"github.com/fairwaylab/greenside/internal/engine/render"
	"github.com/fairwaylab/greenside/internal/engine/window"
	"github.com/fairwaylab/greenside/internal/logger"
	"github.com/fairwaylab/greenside/internal/persist"
	"github.com/fairwaylab/greenside/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := newApp(cfg)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer app.close()

	app.run()
}

// app owns the window, render backend and editor core and drives the
// frame loop.
type app struct {
	cfg     *config.Config
	win     *window.Window
	backend *render.Backend
	in      *input.Input
	cam     *camera.OrbitCamera
	ed      *editor.Editor
	client  *persist.Client
	host    *appHost

	width, height int
	lastX, lastY  int
	running       bool

	// Transient window-title overlays: a notice line for messages and
	// the altitude indicator, each with its own fade deadline.
	notice      string
	noticeUntil time.Time
	altText     string
	altFade     time.Time
	lastTitle   string
}

func newApp(cfg *config.Config) (*app, error) {
	win, err := window.New(window.Config{
		Title:      "Greenside Editor",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, err
	}

	backend, err := render.New(render.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		win.Close()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		win:     win,
		backend: backend,
		in:      input.New(),
		cam:     camera.New(),
		client:  persist.NewClient(cfg.Server.URL),
		width:   cfg.Graphics.Width,
		height:  cfg.Graphics.Height,
		running: true,
	}
	a.host = &appHost{app: a}
	a.ed = editor.New(a.host, backend)
	a.ed.SetGridSnap(cfg.Editor.GridSnap)
	a.ed.SetGridSize(cfg.Editor.GridSize)
	return a, nil
}

func (a *app) close() {
	if a.ed != nil {
		a.ed.Close()
	}
	if a.backend != nil {
		a.backend.Close()
	}
	if a.win != nil {
		a.win.Close()
	}
}

func (a *app) run() {
	if name := a.cfg.Editor.StartupMap; name != "" {
		a.loadMap(name)
	}

	last := time.Now()
	for a.running {
		if a.in.Update() {
			a.running = false
			break
		}
		for _, e := range a.in.Events() {
			a.handle(e)
		}

		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		a.ed.Tick(dt)
		a.refreshTitle(now)

		a.draw()
	}
}

// refreshTitle recomposes the window title from the map name and any
// live overlays, dropping overlays past their fade deadline.
func (a *app) refreshTitle(now time.Time) {
	if a.notice != "" && now.After(a.noticeUntil) {
		a.notice = ""
	}
	if a.altText != "" && !a.altFade.IsZero() && now.After(a.altFade) {
		a.altText = ""
	}
	title := "Greenside Editor - " + a.ed.Doc().Name
	if a.notice != "" {
		title += " | " + a.notice
	}
	if a.altText != "" {
		title += " | " + a.altText
	}
	if title != a.lastTitle {
		a.win.SetTitle(title)
		a.lastTitle = title
	}
}

func (a *app) setNotice(msg string) {
	a.notice = msg
	a.noticeUntil = time.Now().Add(4 * time.Second)
}

func (a *app) draw() {
	view := a.cam.ViewMatrix()
	proj := math.Perspective(gomath.Pi/4, float64(a.width)/float64(a.height), 0.1, 1000)

	a.backend.Begin()
	a.backend.DrawScene(a.ed.Mirror().Nodes(), a.ed.Overlays(), view, proj)
	a.win.SwapBuffers()
}

// mouseRay unprojects a cursor position into a world ray.
func (a *app) mouseRay(x, y int) picking.Ray {
	view := a.cam.ViewMatrix()
	proj := math.Perspective(gomath.Pi/4, float64(a.width)/float64(a.height), 0.1, 1000)
	inv := proj.Mul(view).Inverse()
	return picking.ScreenToRay(float64(x), float64(y), float64(a.width), float64(a.height), inv)
}

func (a *app) pointerEvent(e input.Event, btn editor.Button) editor.PointerEvent {
	return editor.PointerEvent{
		Ray:    a.mouseRay(e.MouseX, e.MouseY),
		Button: btn,
		Ctrl:   e.Ctrl,
		Shift:  e.Shift,
	}
}

func (a *app) handle(e input.Event) {
	switch e.Type {
	case input.EventQuit:
		a.running = false

	case input.EventWindowResize:
		a.width, a.height = e.Width, e.Height
		a.backend.Resize(e.Width, e.Height)

	case input.EventMouseDown:
		switch e.Button {
		case sdl.BUTTON_LEFT:
			a.ed.PointerDown(a.pointerEvent(e, editor.ButtonLeft))
		}
		a.lastX, a.lastY = e.MouseX, e.MouseY

	case input.EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT {
			a.ed.PointerUp(a.pointerEvent(e, editor.ButtonLeft))
		}

	case input.EventMouseMove:
		dx := float64(e.MouseX - a.lastX)
		dy := float64(e.MouseY - a.lastY)
		a.lastX, a.lastY = e.MouseX, e.MouseY
		if a.in.IsButtonHeld(sdl.BUTTON_RIGHT) {
			a.cam.HandleDrag(dx, dy)
			return
		}
		if a.in.IsButtonHeld(sdl.BUTTON_MIDDLE) {
			a.cam.HandlePan(dy*0.2, dx*0.2)
			return
		}
		a.ed.PointerMove(a.pointerEvent(e, editor.ButtonLeft))

	case input.EventWheel:
		if e.Ctrl {
			a.ed.Wheel(e.Wheel, true)
		} else {
			a.cam.HandleZoom(e.Wheel)
		}

	case input.EventKeyDown:
		a.handleKey(e)
	}
}

func (a *app) handleKey(e input.Event) {
	// Palette and tool shortcuts.
	switch e.Key {
	case sdl.SCANCODE_1:
		a.ed.SetPlaceKind(document.KindWall)
		return
	case sdl.SCANCODE_2:
		a.ed.SetPlaceKind(document.KindRamp)
		return
	case sdl.SCANCODE_3:
		a.ed.SetPlaceKind(document.KindSpawn)
		return
	case sdl.SCANCODE_4:
		a.ed.SetPlaceKind(document.KindFan)
		return
	case sdl.SCANCODE_5:
		a.ed.SetPlaceKind(document.KindStart)
		return
	case sdl.SCANCODE_6:
		a.ed.SetPlaceKind(document.KindHole)
		return
	case sdl.SCANCODE_Q:
		a.ed.SetTool(editor.ToolSelect)
		return
	case sdl.SCANCODE_W:
		a.ed.SetTool(editor.ToolMove)
		return
	case sdl.SCANCODE_E:
		a.ed.SetTool(editor.ToolExtrude)
		return
	case sdl.SCANCODE_R:
		a.ed.SetTool(editor.ToolPaint)
		return
	case sdl.SCANCODE_X:
		a.ed.SetTool(editor.ToolDelete)
		return
	}

	// Persistence shortcuts.
	if e.Ctrl {
		switch e.Key {
		case sdl.SCANCODE_S:
			a.saveMap()
			return
		case sdl.SCANCODE_L:
			a.loadNextMap()
			return
		case sdl.SCANCODE_P:
			a.playtest()
			return
		case sdl.SCANCODE_N:
			a.ed.NewMap()
			return
		}
	}

	if key, ok := editorKey(e.Key); ok {
		a.ed.KeyDown(key, e.Ctrl, e.Shift)
	}
}

// editorKey maps SDL scancodes to editor shortcut keys.
func editorKey(sc sdl.Scancode) (editor.Key, bool) {
	switch sc {
	case sdl.SCANCODE_DELETE, sdl.SCANCODE_BACKSPACE:
		return editor.KeyDelete, true
	case sdl.SCANCODE_SPACE:
		return editor.KeySpace, true
	case sdl.SCANCODE_ESCAPE:
		return editor.KeyEscape, true
	case sdl.SCANCODE_Z:
		return editor.KeyZ, true
	case sdl.SCANCODE_Y:
		return editor.KeyY, true
	case sdl.SCANCODE_C:
		return editor.KeyC, true
	case sdl.SCANCODE_V:
		return editor.KeyV, true
	}
	return editor.KeyNone, false
}

func (a *app) saveMap() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.client.SaveMap(ctx, a.ed.Doc()); err != nil {
		logger.Error("save failed", zap.Error(err))
		a.host.ShowMessage("Save failed: " + err.Error())
		return
	}
	a.setNotice("saved " + a.ed.Doc().Name)
}

func (a *app) playtest() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	url, err := a.client.Playtest(ctx, a.ed.Doc())
	if err != nil {
		logger.Error("playtest failed", zap.Error(err))
		a.host.ShowMessage("Play-test failed: " + err.Error())
		return
	}
	a.host.OpenURL(url)
}

// loadMap fetches a map from the server and replaces the open document.
func (a *app) loadMap(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	doc, err := a.client.LoadMap(ctx, name)
	if errors.Is(err, persist.ErrMapNotFound) {
		a.host.ShowMessage("Map not found: " + name)
		return
	}
	if err != nil {
		logger.Error("load failed", zap.String("name", name), zap.Error(err))
		a.host.ShowMessage("Load failed: " + err.Error())
		return
	}
	a.ed.LoadDocument(doc)
	a.setNotice("loaded " + name)
}

// loadNextMap cycles through the server's maps, loading the one after
// the current document in the listing.
func (a *app) loadNextMap() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	maps, err := a.client.ListMaps(ctx)
	if err != nil {
		logger.Error("list maps failed", zap.Error(err))
		a.host.ShowMessage("Load failed: " + err.Error())
		return
	}
	name, ok := nextMapName(maps, a.ed.Doc().Name)
	if !ok {
		a.host.ShowMessage("No maps on the server.")
		return
	}
	a.loadMap(name)
}

// nextMapName picks the entry after current in the listing, wrapping
// around; an unknown current name starts at the first entry.
func nextMapName(maps []persist.MapInfo, current string) (string, bool) {
	if len(maps) == 0 {
		return "", false
	}
	for i, m := range maps {
		if m.Name == current {
			return maps[(i+1)%len(maps)].Name, true
		}
	}
	return maps[0].Name, true
}

// appHost surfaces editor feedback through the window and log.
type appHost struct {
	app *app
}

func (h *appHost) ShowMessage(msg string) {
	logger.Warn(msg)
	h.app.setNotice(msg)
}

func (h *appHost) AltitudeChanged(altitude float64) {
	logger.Debug("placement altitude", zap.Float64("altitude", altitude))
	h.app.altText, h.app.altFade = altitudeNotice(altitude, time.Now())
}

// altitudeNotice formats the altitude indicator and its fade deadline:
// nonzero altitudes stay on screen, zero fades out after two seconds.
func altitudeNotice(altitude float64, now time.Time) (string, time.Time) {
	text := fmt.Sprintf("altitude %+g", altitude)
	if altitude == 0 {
		return text, now.Add(2 * time.Second)
	}
	return text, time.Time{}
}

func (h *appHost) Refresh() {
	// The frame loop redraws continuously; nothing to invalidate.
}

func (h *appHost) OpenURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.Error("open url failed", zap.String("url", url), zap.Error(err))
	}
}
