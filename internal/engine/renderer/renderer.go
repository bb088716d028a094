// Package renderer draws the room view with OpenGL: a floor grid, hotspot
// outlines and labels, the focused content panel and the loading indicator.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/vrtherapy/internal/app/states"
	"github.com/Faultbox/vrtherapy/internal/content"
	"github.com/Faultbox/vrtherapy/internal/engine/debug"
	"github.com/Faultbox/vrtherapy/internal/engine/shader"
	"github.com/Faultbox/vrtherapy/internal/logger"
)

const (
	floorY      = -1
	gridExtent  = 20
	gridStep    = 1
	panelMargin = 24
	barWidth    = 320
	barHeight   = 12

	labelPx      = 18
	titleLabelPx = 32
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	lines *shader.Program
	quad  *shader.Program

	gridVAO, gridVBO   uint32
	gridCount          int32
	proxyVAO, proxyVBO uint32
	quadVAO, quadVBO   uint32
	whiteTex           uint32

	panel  overlay
	label  overlay
	labels map[string]*overlay

	text *content.Rasterizer
	log  *zap.Logger
}

// overlay is a screen-space texture uploaded from an RGBA image.
type overlay struct {
	tex  uint32
	key  uint64
	text string
	w, h int
}

// New creates a renderer. The OpenGL context must be current and gl.Init
// must already have run.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		labels: make(map[string]*overlay),
		log:    logger.Named("renderer"),
	}

	var err error
	if r.lines, err = shader.New(lineVertexSrc, lineFragmentSrc); err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	if r.quad, err = shader.New(quadVertexSrc, quadFragmentSrc); err != nil {
		r.Close()
		return nil, fmt.Errorf("quad shader: %w", err)
	}
	if r.text, err = content.NewRasterizer(nil, barWidth); err != nil {
		r.Close()
		return nil, fmt.Errorf("label font: %w", err)
	}

	grid := debug.FloorGrid(gridExtent, gridStep, floorY)
	r.gridVAO, r.gridVBO = newLineBuffers(grid, gl.STATIC_DRAW)
	r.gridCount = int32(len(grid) / 3)
	r.proxyVAO, r.proxyVBO = newLineBuffers(nil, gl.DYNAMIC_DRAW)
	r.createQuadBuffers()
	r.whiteTex = uploadTexture(0, image.NewRGBA(image.Rect(0, 0, 1, 1)), true)

	gl.ClearColor(0x22/255.0, 0x22/255.0, 0x22/255.0, 1)
	r.log.Debug("renderer created", zap.Int32("grid_vertices", r.gridCount))
	return r, nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// DrawLoading draws the progress bar and status line.
func (r *Renderer) DrawLoading(percent int, status string, failed bool) {
	gl.Disable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	x := float32(r.config.Width-barWidth) / 2
	y := float32(r.config.Height) / 2

	r.beginOverlay()
	r.drawQuad(r.whiteTex, x, y, barWidth, barHeight, [4]float32{0.3, 0.3, 0.3, 1})
	fill := [4]float32{0.2, 0.6, 0.9, 1}
	if failed {
		fill = [4]float32{0.8, 0.2, 0.2, 1}
	}
	r.drawQuad(r.whiteTex, x, y, float32(barWidth*percent)/100, barHeight, fill)

	if status != r.label.text {
		img, err := r.text.Render(content.Panel{Title: status, Light: true}, nil)
		if err == nil {
			r.label.set(img, 0)
			r.label.text = status
		}
	}
	if r.label.tex != 0 {
		r.drawQuad(r.label.tex, x, y-float32(r.label.h)-8, float32(r.label.w), float32(r.label.h), [4]float32{1, 1, 1, 1})
	}
	r.endOverlay()
}

// DrawScene draws the room: floor grid, hotspot outlines, labels and the
// focused panel.
func (r *Renderer) DrawScene(scene states.Scene) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	cam := scene.Camera
	r.lines.Use()
	r.lines.SetMat4("uMVP", cam.ViewProjection())

	r.lines.SetVec4("uColor", 0.35, 0.35, 0.35, 1)
	gl.BindVertexArray(r.gridVAO)
	gl.DrawArrays(gl.LINES, 0, r.gridCount)

	r.drawOutlines(scene)
	gl.BindVertexArray(0)

	r.beginOverlay()
	r.drawLabels(scene)
	if scene.PanelKey != r.panel.key {
		if scene.Panel == nil {
			r.panel.clear()
		} else {
			r.panel.set(scene.Panel, scene.PanelKey)
		}
		r.panel.key = scene.PanelKey
	}
	if r.panel.tex != 0 {
		w, h := fit(r.panel.w, r.panel.h, r.config.Height-2*panelMargin)
		x := float32(r.config.Width - w - panelMargin)
		r.drawQuad(r.panel.tex, x, panelMargin, float32(w), float32(h), [4]float32{1, 1, 1, 1})
	}
	r.endOverlay()
}

// drawOutlines draws every hotspot volume as a wireframe. Debug mode uses
// bright outlines; the focused hotspot is always highlighted.
func (r *Renderer) drawOutlines(scene states.Scene) {
	if len(scene.Hotspots) == 0 {
		return
	}
	verts := debug.HotspotWireframes(scene.Hotspots)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.proxyVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.DYNAMIC_DRAW)
	gl.BindVertexArray(r.proxyVAO)

	for i, h := range scene.Hotspots {
		switch {
		case h.ID == scene.Focused:
			r.lines.SetVec4("uColor", 1, 0.75, 0.2, 1)
		case scene.Debug:
			r.lines.SetVec4("uColor", 0.2, 0.9, 0.4, 1)
		default:
			r.lines.SetVec4("uColor", 0.55, 0.6, 0.7, 1)
		}
		gl.DrawArrays(gl.LINES, int32(i*debug.BoxWireframeVertexCount), debug.BoxWireframeVertexCount)
	}
}

// drawLabels draws each label centred above its projected anchor. Labels
// behind the camera are skipped; the focused hotspot's label is hidden
// while its panel is up.
func (r *Renderer) drawLabels(scene states.Scene) {
	vw, vh := float32(r.config.Width), float32(r.config.Height)
	for _, l := range scene.Labels {
		if l.ID == scene.Focused && scene.Panel != nil {
			continue
		}
		x, y, ok := scene.Camera.Project(l.Anchor, vw, vh)
		if !ok {
			continue
		}
		o := r.labelTexture(l)
		if o == nil {
			continue
		}
		w, h := float32(o.w), float32(o.h)
		r.drawQuad(o.tex, x-w/2, y-h, w, h, [4]float32{1, 1, 1, 1})
	}
}

// labelTexture returns the cached texture for l, rasterizing it on first use.
func (r *Renderer) labelTexture(l states.Label) *overlay {
	px := labelPx
	if l.Title {
		px = titleLabelPx
	}
	key := fmt.Sprintf("%d:%s", px, l.Text)
	if o, ok := r.labels[key]; ok {
		return o
	}
	img, err := r.text.Label(l.Text, px)
	if err != nil {
		r.log.Warn("label not rendered", zap.String("id", l.ID), zap.Error(err))
		r.labels[key] = nil
		return nil
	}
	o := &overlay{}
	o.set(img, 0)
	r.labels[key] = o
	return o
}

// fit scales w×h down to at most maxH pixels tall.
func fit(w, h, maxH int) (int, int) {
	if h <= maxH || h == 0 || maxH <= 0 {
		return w, h
	}
	return w * maxH / h, maxH
}

// Capture reads back the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) Capture() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.panel.clear()
	r.label.clear()
	for key, o := range r.labels {
		if o != nil {
			o.clear()
		}
		delete(r.labels, key)
	}
	for _, vao := range []*uint32{&r.gridVAO, &r.proxyVAO, &r.quadVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.gridVBO, &r.proxyVBO, &r.quadVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	if r.whiteTex != 0 {
		gl.DeleteTextures(1, &r.whiteTex)
	}
	if r.lines != nil {
		r.lines.Delete()
	}
	if r.quad != nil {
		r.quad.Delete()
	}
	if r.text != nil {
		r.text.Close()
	}
}

func (o *overlay) set(img *image.RGBA, key uint64) {
	o.tex = uploadTexture(o.tex, img, false)
	o.key = key
	o.w, o.h = img.Bounds().Dx(), img.Bounds().Dy()
}

func (o *overlay) clear() {
	if o.tex != 0 {
		gl.DeleteTextures(1, &o.tex)
		o.tex = 0
	}
	o.w, o.h = 0, 0
	o.text = ""
}

// beginOverlay sets up premultiplied-alpha blending without depth.
func (r *Renderer) beginOverlay() {
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	r.quad.Use()
	r.quad.SetInt("uTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.quadVAO)
}

func (r *Renderer) endOverlay() {
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
	gl.UseProgram(0)
}

// drawQuad draws tex over the pixel rectangle x,y,w,h (origin top-left),
// multiplied by tint.
func (r *Renderer) drawQuad(tex uint32, x, y, w, h float32, tint [4]float32) {
	sw, sh := float32(r.config.Width), float32(r.config.Height)
	x0, x1 := 2*x/sw-1, 2*(x+w)/sw-1
	y0, y1 := 1-2*y/sh, 1-2*(y+h)/sh

	// Vertex format: x, y, u, v (4 floats)
	verts := [24]float32{
		x0, y0, 0, 0,
		x1, y0, 1, 0,
		x1, y1, 1, 1,
		x0, y0, 0, 0,
		x1, y1, 1, 1,
		x0, y1, 0, 1,
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	r.quad.SetVec4("uTint", tint[0], tint[1], tint[2], tint[3])
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, unsafe.Pointer(&verts[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func (r *Renderer) createQuadBuffers() {
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 24*4, nil, gl.DYNAMIC_DRAW)

	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// newLineBuffers creates a VAO/VBO pair of xyz line vertices.
func newLineBuffers(verts []float32, usage uint32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(verts) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), usage)
	}
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

// uploadTexture uploads img into tex, creating it when tex is 0. A white
// image is used when fill is set.
func uploadTexture(tex uint32, img *image.RGBA, fill bool) uint32 {
	if fill {
		for i := range img.Pix {
			img.Pix[i] = 0xff
		}
	}
	if tex == 0 {
		gl.GenTextures(1, &tex)
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}
