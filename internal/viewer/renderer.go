package viewer

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"k8s.io/klog/v2"

	"hypercomplex/internal/viewer/gizmo"
	"hypercomplex/math"
)

// Renderer draws coloured line lists with a single MVP transform.
type Renderer struct {
	program  uint32
	mvpLoc   int32
	vao      uint32
	vbo      uint32
	capacity int // vertices the VBO can hold
}

const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inColor;

uniform mat4 mvp;

out vec3 fragColor;

void main() {
    gl_Position = mvp * vec4(inPosition, 1.0);
    fragColor   = inColor;
}
` + "\x00"

const fragSrc = `
#version 410 core
in vec3 fragColor;

out vec4 outColor;

void main() {
    outColor = vec4(fragColor, 1.0);
}
` + "\x00"

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	klog.Infof("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	r := &Renderer{
		program: prog,
		mvpLoc:  gl.GetUniformLocation(prog, gl.Str("mvp\x00")),
	}

	stride := int32(unsafe.Sizeof(gizmo.Vertex{}))
	var v gizmo.Vertex

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Position))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(v.Color))))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) BeginFrame(red, green, blue float32) {
	gl.ClearColor(red, green, blue, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawLines streams vertices into the dynamic buffer and draws them as a
// line list. The buffer only grows.
func (r *Renderer) DrawLines(vertices []gizmo.Vertex, mvp math.Mat4) {
	if len(vertices) == 0 {
		return
	}
	size := len(vertices) * int(unsafe.Sizeof(gizmo.Vertex{}))

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	if len(vertices) > r.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
		r.capacity = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(vertices))
	}

	gl.UseProgram(r.program)
	// Mat4 is row-vector, which is already OpenGL's column-major layout.
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)))
	gl.BindVertexArray(0)
}

func (r *Renderer) Destroy() {
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteProgram(r.program)
}

const (
	vertexShader   = gl.VERTEX_SHADER
	fragmentShader = gl.FRAGMENT_SHADER
)

// shaderBackend is the slice of the GL API that program building needs.
type shaderBackend interface {
	CompileShader(src string, shaderType uint32) (uint32, error)
	LinkProgram(vert, frag uint32) (uint32, error)
	DeleteShader(shader uint32)
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	return buildProgram(glBackend{}, vertSrc, fragSrc)
}

// buildProgram compiles and links both stages. Compiled shaders are released
// on every path, including a failed fragment compile or link.
func buildProgram(b shaderBackend, vertSrc, fragSrc string) (uint32, error) {
	vert, err := b.CompileShader(vertSrc, vertexShader)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := b.CompileShader(fragSrc, fragmentShader)
	if err != nil {
		b.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog, err := b.LinkProgram(vert, frag)
	b.DeleteShader(vert)
	b.DeleteShader(frag)
	if err != nil {
		return 0, err
	}
	return prog, nil
}

type glBackend struct{}

func (glBackend) LinkProgram(vert, frag uint32) (uint32, error) {
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func (glBackend) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (glBackend) CompileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
