package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/tlanfk/bag-map/assets"
	"github.com/tlanfk/bag-map/settings"
	"github.com/tlanfk/bag-map/viewport"
)

const (
	windowTitle  = "bag-map"
	windowWidth  = 1400
	windowHeight = 900

	zoomSensitivityStep = 0.01
	panSensitivityStep  = 0.1
)

var background = sdl.Color{R: 18, G: 18, B: 18, A: 255}

type ViewerConfig struct {
	Store        *assets.Store
	Settings     *settings.Settings
	SettingsPath string
	Initial      *assets.Key
}

type MapViewer struct {
	window   *sdl.Window
	renderer *sdl.Renderer

	windowSize WindowSize

	store        *assets.Store
	settings     *settings.Settings
	settingsPath string
	textures     map[assets.Key]*sdl.Texture

	controller *viewport.Controller

	// selected is the zero Key until the user picks a map.
	selected assets.Key
	dirty    bool
}

type WindowSize struct {
	Width, Height int32
}

func NewMapViewer(cfg ViewerConfig) (*MapViewer, error) {
	window, err := sdl.CreateWindow(windowTitle, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		windowWidth, windowHeight, sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	this := &MapViewer{
		window:       window,
		renderer:     renderer,
		store:        cfg.Store,
		settings:     cfg.Settings,
		settingsPath: cfg.SettingsPath,
		textures:     make(map[assets.Key]*sdl.Texture),
		dirty:        true,
	}
	w, h := window.GetSize()
	this.windowSize = WindowSize{w, h}

	vc := viewport.DefaultConfig()
	vc.ZoomSensitivity = cfg.Settings.Sensitivity.Zoom
	vc.PanSensitivity = cfg.Settings.Sensitivity.Pan
	this.controller = viewport.NewController(vc, viewport.WithRedraw(func() { this.dirty = true }))

	if cfg.Initial != nil {
		this.show(*cfg.Initial)
	}
	this.updateTitle()
	return this, nil
}

func (this *MapViewer) containerSize() viewport.Size {
	return viewport.Size{W: float64(this.windowSize.Width), H: float64(this.windowSize.Height)}
}

func toButton(b uint8) (viewport.Button, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return viewport.ButtonPrimary, true
	case sdl.BUTTON_RIGHT:
		return viewport.ButtonSecondary, true
	case sdl.BUTTON_MIDDLE:
		return viewport.ButtonMiddle, true
	}
	return 0, false
}

func (this *MapViewer) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			this.windowSize.Width = e.Data1
			this.windowSize.Height = e.Data2
			this.controller.Resize(this.containerSize())
		}
		this.dirty = true

	case *sdl.MouseMotionEvent:
		this.controller.OnPointerMove(viewport.Point{X: float64(e.X), Y: float64(e.Y)})

	case *sdl.MouseWheelEvent:
		mx, my, _ := sdl.GetMouseState()
		delta := float64(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			delta = -delta
		}
		if this.controller.OnWheel(delta, viewport.Point{X: float64(mx), Y: float64(my)}, time.Now()) {
			this.updateTitle()
		}

	case *sdl.MouseButtonEvent:
		button, ok := toButton(e.Button)
		if !ok {
			return
		}
		pos := viewport.Point{X: float64(e.X), Y: float64(e.Y)}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			this.controller.OnPointerDown(pos, button)
		} else if e.Type == sdl.MOUSEBUTTONUP {
			this.controller.OnPointerUp(button)
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			this.handleKey(e.Keysym.Sym, e.Repeat != 0)
		}

	case *sdl.DropEvent:
		if e.Type == sdl.DROPFILE {
			this.replaceSelected(e.File)
		}
	}
}

func (this *MapViewer) handleKey(sym sdl.Keycode, repeat bool) {
	switch sym {
	case sdl.K_ESCAPE:
		sdl.PushEvent(&sdl.QuitEvent{Type: sdl.QUIT})
	case sdl.K_1, sdl.K_2, sdl.K_3, sdl.K_4, sdl.K_5, sdl.K_6, sdl.K_7:
		if repeat {
			return
		}
		m := assets.Maps[int(sym-sdl.K_1)]
		this.show(assets.Key{Map: m.ID, Layer: assets.LayerMap})
	case sdl.K_F1:
		this.selectLayer(assets.LayerMap)
	case sdl.K_F2:
		this.selectLayer(assets.LayerHeatmap1)
	case sdl.K_F3:
		this.selectLayer(assets.LayerHeatmap2)
	case sdl.K_TAB:
		this.cycleLayer()
	case sdl.K_LEFTBRACKET:
		this.adjustSensitivity(-zoomSensitivityStep, 0)
	case sdl.K_RIGHTBRACKET:
		this.adjustSensitivity(zoomSensitivityStep, 0)
	case sdl.K_COMMA:
		this.adjustSensitivity(0, -panSensitivityStep)
	case sdl.K_PERIOD:
		this.adjustSensitivity(0, panSensitivityStep)
	case sdl.K_BACKSPACE:
		this.settings.ResetSensitivity()
		this.applySensitivity()
	}
}

func (this *MapViewer) selectLayer(layer assets.LayerID) {
	m, ok := assets.LookupMap(this.selected.Map)
	if !ok {
		return
	}
	if !m.HasLayer(layer) {
		log.Debugf("%s has no %s layer", m.Title, layer.Title())
		return
	}
	if this.selected.Layer == layer && this.controller.Loaded() {
		return
	}
	this.show(assets.Key{Map: m.ID, Layer: layer})
}

func (this *MapViewer) cycleLayer() {
	m, ok := assets.LookupMap(this.selected.Map)
	if !ok {
		return
	}
	for i, l := range m.Layers {
		if l == this.selected.Layer {
			this.selectLayer(m.Layers[(i+1)%len(m.Layers)])
			return
		}
	}
}

// show switches to key and resets the view for its image.
func (this *MapViewer) show(key assets.Key) {
	this.selected = key
	defer this.updateTitle()

	img, err := this.store.Image(key)
	if err != nil {
		log.Warnf("Cannot show %s: %v", key.Title(), err)
		this.controller.Unload()
		return
	}
	if _, err := this.texture(key, img); err != nil {
		log.Errorf("Cannot upload %s: %v", key.Title(), err)
		this.controller.Unload()
		return
	}
	w, h := img.Size()
	this.controller.Load(viewport.Size{W: float64(w), H: float64(h)}, this.containerSize())
	log.Infof("Showing %s (%dx%d, %s)", key.Title(), w, h, img.Source)
}

func (this *MapViewer) texture(key assets.Key, img *assets.Image) (*sdl.Texture, error) {
	if t, ok := this.textures[key]; ok {
		return t, nil
	}
	t, err := newTexture(this.renderer, img.Pixels)
	if err != nil {
		return nil, err
	}
	this.textures[key] = t
	return t, nil
}

func (this *MapViewer) dropTexture(key assets.Key) {
	if t, ok := this.textures[key]; ok {
		t.Destroy()
		delete(this.textures, key)
	}
}

// replaceSelected makes the dropped file the image of the current layer and
// saves the override.
func (this *MapViewer) replaceSelected(path string) {
	key := this.selected
	if key.Validate() != nil {
		this.report("Pick a map before dropping an image.")
		return
	}
	if _, err := this.store.Replace(key, path); err != nil {
		this.report(fmt.Sprintf("Cannot use %s: %v", path, err))
		return
	}
	this.dropTexture(key)
	this.settings.Overrides[key] = path
	this.saveSettings()
	this.show(key)
}

func (this *MapViewer) adjustSensitivity(zoom, pan float64) {
	s := this.settings.Sensitivity
	s.Zoom += zoom
	s.Pan += pan
	this.settings.Sensitivity = s.Clamp()
	this.applySensitivity()
}

func (this *MapViewer) applySensitivity() {
	s := this.settings.Sensitivity
	this.controller.SetSensitivity(s.Zoom, s.Pan)
	this.saveSettings()
	this.updateTitle()
}

func (this *MapViewer) saveSettings() {
	if err := settings.Save(this.settingsPath, this.settings); err != nil {
		this.report(fmt.Sprintf("Cannot save settings: %v", err))
	}
}

// report logs msg and shows it to the user.
func (this *MapViewer) report(msg string) {
	log.Warn(msg)
	if err := sdl.ShowSimpleMessageBox(sdl.MESSAGEBOX_WARNING, windowTitle, msg, this.window); err != nil {
		log.Debugf("Cannot show message box: %v", err)
	}
}

func (this *MapViewer) updateTitle() {
	title := windowTitle + " - press 1-7 to pick a map"
	if this.selected.Validate() == nil {
		title = fmt.Sprintf("%s - %s", windowTitle, this.selected.Title())
		if this.controller.Loaded() {
			title += fmt.Sprintf(" | zoom %.2f", this.controller.UserZoom())
		} else {
			title += " | image not found"
		}
	}
	title += fmt.Sprintf(" | sensitivity %v", this.settings.Sensitivity)
	this.window.SetTitle(title)
}

// Frame advances timers and draws when something changed.
func (this *MapViewer) Frame(now time.Time) {
	this.controller.Tick(now)
	if this.dirty {
		this.Render()
	}
}

func (this *MapViewer) Render() {
	this.renderer.SetDrawColor(background.R, background.G, background.B, background.A)
	this.renderer.Clear()

	if t, ok := this.textures[this.selected]; ok && this.controller.Loaded() {
		if err := this.controller.Render(&textureSurface{this.renderer, t}); err != nil {
			log.Warnf("Render failed: %v", err)
		}
	}

	this.renderer.Present()
	this.dirty = false
}

func (this *MapViewer) Destroy() {
	for k := range this.textures {
		this.dropTexture(k)
	}
	this.renderer.Destroy()
	this.window.Destroy()
}
