// Package render is the OpenGL backend: it owns shape meshes, the
// shader program and the per-frame draw of the scene mirror. It
// implements scene.Resources so the mirror's lifecycle discipline holds
// against real GPU state.
package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/fairwaylab/greenside/internal/editor/scene"
	"github.com/fairwaylab/greenside/internal/logger"
	"github.com/fairwaylab/greenside/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Backend handles all OpenGL rendering.
type Backend struct {
	config Config

	program uint32
	meshes  map[scene.Shape]mesh

	uModel    int32
	uView     int32
	uProj     int32
	uColor    int32
	uEmissive int32
	uOpacity  int32

	nextHandle scene.Handle
	refs       map[scene.Shape]int
}

// New creates the backend. Must be called after the OpenGL context
// exists.
func New(cfg Config) (*Backend, error) {
	b := &Backend{
		config:     cfg,
		meshes:     make(map[scene.Shape]mesh),
		refs:       make(map[scene.Shape]int),
		nextHandle: 1,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.35, 0.6, 0.3, 1.0) // course green

	var err error
	b.program, err = createShaderProgram()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	b.uModel = gl.GetUniformLocation(b.program, gl.Str("uModel\x00"))
	b.uView = gl.GetUniformLocation(b.program, gl.Str("uView\x00"))
	b.uProj = gl.GetUniformLocation(b.program, gl.Str("uProj\x00"))
	b.uColor = gl.GetUniformLocation(b.program, gl.Str("uColor\x00"))
	b.uEmissive = gl.GetUniformLocation(b.program, gl.Str("uEmissive\x00"))
	b.uOpacity = gl.GetUniformLocation(b.program, gl.Str("uOpacity\x00"))

	b.meshes[scene.ShapeBox] = uploadMesh(boxVertices())
	b.meshes[scene.ShapeSphere] = uploadMesh(sphereVertices())
	b.meshes[scene.ShapeCylinder] = uploadMesh(cylinderVertices())
	b.meshes[scene.ShapePlane] = uploadMesh(planeVertices())

	return b, nil
}

// Close cleans up GPU resources.
func (b *Backend) Close() {
	logger.Info("closing renderer")
	for shape, m := range b.meshes {
		m.delete()
		delete(b.meshes, shape)
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
	}
}

// AcquireGeometry hands out a handle onto the shared mesh for a shape.
func (b *Backend) AcquireGeometry(shape scene.Shape) scene.Handle {
	b.refs[shape]++
	h := b.nextHandle
	b.nextHandle++
	return h
}

// AcquireMaterial hands out a material handle. Materials are plain
// uniform sets here, so the handle only tracks liveness.
func (b *Backend) AcquireMaterial() scene.Handle {
	h := b.nextHandle
	b.nextHandle++
	return h
}

// Release returns a handle. Meshes are shared and survive until Close.
func (b *Backend) Release(h scene.Handle) {}

// Resize handles window resize.
func (b *Backend) Resize(width, height int) {
	b.config.Width = width
	b.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (b *Backend) Size() (int, int) {
	return b.config.Width, b.config.Height
}

// Begin starts a new frame.
func (b *Backend) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawScene renders the mirror's nodes and then the transient overlays.
// Opaque nodes draw first; translucent ones follow with blending so
// ghosts and face overlays layer over the course.
func (b *Backend) DrawScene(nodes, overlays []*scene.Node, view, proj math.Mat4) {
	gl.UseProgram(b.program)
	viewF := view.Floats32()
	projF := proj.Floats32()
	gl.UniformMatrix4fv(b.uView, 1, false, &viewF[0])
	gl.UniformMatrix4fv(b.uProj, 1, false, &projF[0])

	var translucent []drawItem
	collect := func(list []*scene.Node) {
		for _, n := range list {
			b.walk(n, math.Identity(), &translucent)
		}
	}
	collect(nodes)
	collect(overlays)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, item := range translucent {
		b.drawMesh(item.shape, item.model, item.color, item.emissive, item.opacity)
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

type drawItem struct {
	shape    scene.Shape
	model    math.Mat4
	color    uint32
	emissive uint32
	opacity  float64
}

// walk draws a node tree, accumulating parent transforms. Translucent
// pieces are deferred to the blended pass.
func (b *Backend) walk(n *scene.Node, parent math.Mat4, translucent *[]drawItem) {
	local := math.Translate(n.Position.X, n.Position.Y, n.Position.Z).
		Mul(math.RotateY(math.Radians(n.RotationY))).
		Mul(math.RotateX(math.Radians(n.Tilt)))
	if n.Spin != 0 {
		local = local.Mul(math.RotateZ(math.Radians(n.Spin)))
	}
	world := parent.Mul(local)

	if n.Shape != scene.ShapeNone {
		size := n.Size
		if size == (math.Vec3{}) {
			size = math.Vec3{X: 1, Y: 1, Z: 1}
		}
		model := world.Mul(math.Scale(size.X, size.Y, size.Z))
		opacity := n.Opacity
		if opacity == 0 {
			opacity = 1
		}
		if opacity < 1 {
			*translucent = append(*translucent, drawItem{n.Shape, model, n.Color, n.Emissive, opacity})
		} else {
			b.drawMesh(n.Shape, model, n.Color, n.Emissive, 1)
		}
	}

	for _, c := range n.Children {
		b.walk(c, world, translucent)
	}

	if n.Particles != nil {
		b.drawParticles(n, world, translucent)
	}
}

// drawParticles renders a fan's airflow as small translucent spheres.
func (b *Backend) drawParticles(n *scene.Node, world math.Mat4, translucent *[]drawItem) {
	for _, p := range n.Particles.Points {
		model := world.
			Mul(math.Translate(p.Offset.X, p.Offset.Y, p.Offset.Z)).
			Mul(math.Scale(0.15, 0.15, 0.15))
		*translucent = append(*translucent, drawItem{scene.ShapeSphere, model, 0xCCEEFF, 0, 0.35})
	}
}

func (b *Backend) drawMesh(shape scene.Shape, model math.Mat4, color, emissive uint32, opacity float64) {
	m, ok := b.meshes[shape]
	if !ok {
		return
	}
	modelF := model.Floats32()
	gl.UniformMatrix4fv(b.uModel, 1, false, &modelF[0])
	r, g, bl := unpackColor(color)
	gl.Uniform3f(b.uColor, r, g, bl)
	er, eg, eb := unpackColor(emissive)
	gl.Uniform3f(b.uEmissive, er, eg, eb)
	gl.Uniform1f(b.uOpacity, float32(opacity))

	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	gl.BindVertexArray(0)
}

func unpackColor(c uint32) (float32, float32, float32) {
	return float32((c>>16)&0xFF) / 255,
		float32((c>>8)&0xFF) / 255,
		float32(c&0xFF) / 255
}

// createShaderProgram compiles and links the lit color shader.
func createShaderProgram() (uint32, error) {
	vertexShaderSource := `
		#version 410 core

		layout (location = 0) in vec3 aPos;
		layout (location = 1) in vec3 aNormal;

		uniform mat4 uModel;
		uniform mat4 uView;
		uniform mat4 uProj;

		out vec3 worldNormal;

		void main() {
			gl_Position = uProj * uView * uModel * vec4(aPos, 1.0);
			worldNormal = mat3(uModel) * aNormal;
		}
	` + "\x00"

	fragmentShaderSource := `
		#version 410 core

		in vec3 worldNormal;
		out vec4 FragColor;

		uniform vec3 uColor;
		uniform vec3 uEmissive;
		uniform float uOpacity;

		void main() {
			vec3 lightDir = normalize(vec3(0.4, 1.0, 0.3));
			float diffuse = max(dot(normalize(worldNormal), lightDir), 0.0);
			vec3 lit = uColor * (0.35 + 0.65 * diffuse) + uEmissive;
			FragColor = vec4(lit, uOpacity);
		}
	` + "\x00"

	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %s", log)
	}

	logger.Debug("shader program created", zap.Uint32("program", program))
	return program, nil
}

// compileShader compiles a shader from source.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %s", log)
	}

	return shader, nil
}
