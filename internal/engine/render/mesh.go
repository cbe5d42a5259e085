package render

import (
	gomath "math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// mesh is one uploaded unit geometry: interleaved position + normal.
type mesh struct {
	vao   uint32
	vbo   uint32
	count int32
}

// uploadMesh creates a VAO/VBO pair from interleaved vertex data
// (x, y, z, nx, ny, nz per vertex).
func uploadMesh(vertices []float32) mesh {
	var m mesh
	m.count = int32(len(vertices) / 6)

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return m
}

func (m *mesh) delete() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
}

// boxVertices builds a unit cube centered at the origin.
func boxVertices() []float32 {
	// Six faces, two triangles each. h is the half extent.
	const h = 0.5
	faces := []struct {
		n [3]float32    // face normal
		v [4][3]float32 // corners, counter-clockwise from outside
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	out := make([]float32, 0, 36*6)
	for _, f := range faces {
		quad := [6][3]float32{f.v[0], f.v[1], f.v[2], f.v[0], f.v[2], f.v[3]}
		for _, p := range quad {
			out = append(out, p[0], p[1], p[2], f.n[0], f.n[1], f.n[2])
		}
	}
	return out
}

// planeVertices builds a unit quad in the XY plane facing +Z.
func planeVertices() []float32 {
	const h = 0.5
	corners := [6][2]float32{
		{-h, -h}, {h, -h}, {h, h},
		{-h, -h}, {h, h}, {-h, h},
	}
	out := make([]float32, 0, 6*6)
	for _, c := range corners {
		out = append(out, c[0], c[1], 0, 0, 0, 1)
	}
	return out
}

// sphereVertices builds a unit-diameter lat/long sphere.
func sphereVertices() []float32 {
	const (
		stacks = 12
		slices = 16
		r      = 0.5
	)
	point := func(stack, slice int) [3]float32 {
		phi := gomath.Pi * float64(stack) / stacks // 0..pi from the north pole
		theta := 2 * gomath.Pi * float64(slice) / slices
		sp, cp := gomath.Sincos(phi)
		st, ct := gomath.Sincos(theta)
		return [3]float32{
			float32(r * sp * ct),
			float32(r * cp),
			float32(r * sp * st),
		}
	}

	var out []float32
	push := func(p [3]float32) {
		// The normal of a unit sphere point is the point itself.
		n := [3]float32{p[0] * 2, p[1] * 2, p[2] * 2}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	for stack := 0; stack < stacks; stack++ {
		for slice := 0; slice < slices; slice++ {
			a := point(stack, slice)
			b := point(stack+1, slice)
			c := point(stack+1, slice+1)
			d := point(stack, slice+1)
			push(a)
			push(b)
			push(c)
			push(a)
			push(c)
			push(d)
		}
	}
	return out
}

// cylinderVertices builds a unit cylinder: diameter 1, height 1, axis Y.
func cylinderVertices() []float32 {
	const (
		segments = 24
		r        = 0.5
		h        = 0.5
	)
	rim := func(i int) (float32, float32) {
		theta := 2 * gomath.Pi * float64(i) / segments
		s, c := gomath.Sincos(theta)
		return float32(r * c), float32(r * s)
	}

	var out []float32
	push := func(x, y, z, nx, ny, nz float32) {
		out = append(out, x, y, z, nx, ny, nz)
	}
	for i := 0; i < segments; i++ {
		x0, z0 := rim(i)
		x1, z1 := rim(i + 1)
		n0x, n0z := x0/r, z0/r
		n1x, n1z := x1/r, z1/r

		// Side quad.
		push(x0, -h, z0, n0x, 0, n0z)
		push(x1, -h, z1, n1x, 0, n1z)
		push(x1, h, z1, n1x, 0, n1z)
		push(x0, -h, z0, n0x, 0, n0z)
		push(x1, h, z1, n1x, 0, n1z)
		push(x0, h, z0, n0x, 0, n0z)

		// Top cap.
		push(0, h, 0, 0, 1, 0)
		push(x0, h, z0, 0, 1, 0)
		push(x1, h, z1, 0, 1, 0)

		// Bottom cap.
		push(0, -h, 0, 0, -1, 0)
		push(x1, -h, z1, 0, -1, 0)
		push(x0, -h, z0, 0, -1, 0)
	}
	return out
}
