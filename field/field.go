// Package field provides the scalar and vector grid types shared by all
// climate stages, with bilinear sampling across mismatched resolutions.
package field

// Scalar is a row-major 2D grid of float32 values, normally in [0,1].
// Once a stage publishes a Scalar, consumers treat it as read-only.
type Scalar struct {
	W, H int
	Data []float32
}

// NewScalar allocates a zeroed scalar field.
func NewScalar(w, h int) *Scalar {
	return &Scalar{W: w, H: h, Data: make([]float32, w*h)}
}

// At returns the value at grid cell (x, y). No bounds check.
func (f *Scalar) At(x, y int) float32 {
	return f.Data[y*f.W+x]
}

// Set writes the value at grid cell (x, y). No bounds check.
func (f *Scalar) Set(x, y int, v float32) {
	f.Data[y*f.W+x] = v
}

// Fill sets every cell to v.
func (f *Scalar) Fill(v float32) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// Clone returns a deep copy. Stages that read-modify-write an upstream field
// operate on a clone so the published buffer stays immutable.
func (f *Scalar) Clone() *Scalar {
	c := NewScalar(f.W, f.H)
	copy(c.Data, f.Data)
	return c
}

// Sample bilinearly interpolates at normalized coordinates (u, v) in [0,1].
// Coordinates are scaled by (dimension-1), so u=1 addresses the last column
// exactly and u=0 the first; the footprint is clamped, never wrapped. Stages
// running at different resolutions rely on this contract to stay seam-free.
func (f *Scalar) Sample(u, v float32) float32 {
	x0, y0, x1, y1, fx, fy := bilinear(u, v, f.W, f.H)
	top := lerp(f.Data[y0*f.W+x0], f.Data[y0*f.W+x1], fx)
	bot := lerp(f.Data[y1*f.W+x0], f.Data[y1*f.W+x1], fx)
	return lerp(top, bot, fy)
}

// Resample produces a new scalar field at the given resolution by sampling
// this one.
func (f *Scalar) Resample(w, h int) *Scalar {
	out := NewScalar(w, h)
	for y := 0; y < h; y++ {
		v := normCoord(y, h)
		for x := 0; x < w; x++ {
			out.Data[y*w+x] = f.Sample(normCoord(x, w), v)
		}
	}
	return out
}

// Vector is a row-major 2D grid of 2-component vectors stored as parallel
// component planes. Magnitude is an unbounded physical quantity; it is
// clamped to [0,1] only at export, never internally.
type Vector struct {
	W, H int
	X, Y []float32
}

// NewVector allocates a zeroed vector field.
func NewVector(w, h int) *Vector {
	return &Vector{W: w, H: h, X: make([]float32, w*h), Y: make([]float32, w*h)}
}

// At returns the vector at grid cell (x, y). No bounds check.
func (f *Vector) At(x, y int) (vx, vy float32) {
	i := y*f.W + x
	return f.X[i], f.Y[i]
}

// Set writes the vector at grid cell (x, y). No bounds check.
func (f *Vector) Set(x, y int, vx, vy float32) {
	i := y*f.W + x
	f.X[i] = vx
	f.Y[i] = vy
}

// Clone returns a deep copy.
func (f *Vector) Clone() *Vector {
	c := NewVector(f.W, f.H)
	copy(c.X, f.X)
	copy(c.Y, f.Y)
	return c
}

// Sample bilinearly interpolates both components at normalized (u, v),
// with the same edge contract as Scalar.Sample.
func (f *Vector) Sample(u, v float32) (vx, vy float32) {
	x0, y0, x1, y1, fx, fy := bilinear(u, v, f.W, f.H)
	i00 := y0*f.W + x0
	i01 := y0*f.W + x1
	i10 := y1*f.W + x0
	i11 := y1*f.W + x1
	vx = lerp(lerp(f.X[i00], f.X[i01], fx), lerp(f.X[i10], f.X[i11], fx), fy)
	vy = lerp(lerp(f.Y[i00], f.Y[i01], fx), lerp(f.Y[i10], f.Y[i11], fx), fy)
	return vx, vy
}

// Resample produces a new vector field at the given resolution.
func (f *Vector) Resample(w, h int) *Vector {
	out := NewVector(w, h)
	for y := 0; y < h; y++ {
		v := normCoord(y, h)
		for x := 0; x < w; x++ {
			vx, vy := f.Sample(normCoord(x, w), v)
			out.Set(x, y, vx, vy)
		}
	}
	return out
}

// bilinear resolves normalized (u, v) into the four corner indices and
// fractional weights shared by scalar and vector sampling.
func bilinear(u, v float32, w, h int) (x0, y0, x1, y1 int, fx, fy float32) {
	fx = clamp01(u) * float32(w-1)
	fy = clamp01(v) * float32(h-1)
	x0 = int(fx)
	y0 = int(fy)
	if x0 > w-2 {
		x0 = w - 2
	}
	if y0 > h-2 {
		y0 = h - 2
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	x1 = x0 + 1
	y1 = y0 + 1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	fx -= float32(x0)
	fy -= float32(y0)
	return
}

// normCoord maps a cell index to the normalized coordinate of its center
// under the (dimension-1) scaling contract.
func normCoord(i, dim int) float32 {
	if dim <= 1 {
		return 0
	}
	return float32(i) / float32(dim-1)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp01 restricts v to the unit interval. Exported for consumers that
// clamp magnitudes at the display boundary.
func Clamp01(v float32) float32 {
	return clamp01(v)
}

// NormCoord maps a cell index to its normalized coordinate under the
// (dimension-1) scaling contract, so index dim-1 maps to exactly 1.
func NormCoord(i, dim int) float32 {
	return normCoord(i, dim)
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return lerp(a, b, t)
}
