package climate

import (
	"log/slog"

	"github.com/pthm-cable/atmo/config"
	"github.com/pthm-cable/atmo/field"
)

// SmoothStage runs an iterated separable box blur over the wind field, then
// blends blurred against original with an edge-aware strength: sharp
// original-vs-blurred discontinuities get proportionally more smoothing,
// which hides the seams a plain box blur leaves.
type SmoothStage struct {
	cfg  *config.Config
	log  *slog.Logger
	prop *PropagationStage

	wind *field.Vector
}

// NewSmoothStage wires the smoother after propagation.
func NewSmoothStage(cfg *config.Config, log *slog.Logger, prop *PropagationStage) *SmoothStage {
	return &SmoothStage{cfg: cfg, log: log, prop: prop}
}

// boxBlurRow blurs one row-major plane horizontally into dst with a sliding
// window sum: one add and one remove per pixel, clamped at the edges by
// shrinking the window.
func boxBlurRow(src, dst []float32, w, h, r int) {
	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		out := dst[y*w : (y+1)*w]
		sum := float32(0)
		count := 0
		hi := r
		if hi > w-1 {
			hi = w - 1
		}
		for i := 0; i <= hi; i++ {
			sum += row[i]
			count++
		}
		for x := 0; x < w; x++ {
			out[x] = sum / float32(count)
			if add := x + r + 1; add < w {
				sum += row[add]
				count++
			}
			if rem := x - r; rem >= 0 {
				sum -= row[rem]
				count--
			}
		}
	}
}

// boxBlurCol is the vertical pass of the separable blur.
func boxBlurCol(src, dst []float32, w, h, r int) {
	for x := 0; x < w; x++ {
		sum := float32(0)
		count := 0
		hi := r
		if hi > h-1 {
			hi = h - 1
		}
		for i := 0; i <= hi; i++ {
			sum += src[i*w+x]
			count++
		}
		for y := 0; y < h; y++ {
			dst[y*w+x] = sum / float32(count)
			if add := y + r + 1; add < h {
				sum += src[add*w+x]
				count++
			}
			if rem := y - r; rem >= 0 {
				sum -= src[rem*w+x]
				count--
			}
		}
	}
}

// blurPlane applies n iterations of the separable blur to a copy of src and
// returns it.
func blurPlane(src []float32, w, h, r, n int) []float32 {
	cur := make([]float32, len(src))
	copy(cur, src)
	tmp := make([]float32, len(src))
	for i := 0; i < n; i++ {
		boxBlurRow(cur, tmp, w, h, r)
		boxBlurCol(tmp, cur, w, h, r)
	}
	return cur
}

// Generate recomputes the smoothed wind field.
func (s *SmoothStage) Generate() error {
	if s.prop.Wind() == nil {
		s.log.Warn("smoothing stage regenerating missing propagated wind")
		if err := s.prop.Generate(); err != nil {
			return err
		}
		if s.prop.Wind() == nil {
			return ErrMissingUpstream
		}
	}

	src := s.prop.Wind()
	w, h := src.W, src.H
	sm := s.cfg.Smoothing
	if sm.Iterations < 1 || sm.RadiusPx < 1 {
		// Nothing to do; publish a copy so downstream still owns a buffer.
		s.wind = src.Clone()
		return nil
	}
	if sm.EdgeSensitivity <= 0 {
		return ErrInvalidConfig
	}

	bx := blurPlane(src.X, w, h, sm.RadiusPx, sm.Iterations)
	by := blurPlane(src.Y, w, h, sm.RadiusPx, sm.Iterations)

	out := field.NewVector(w, h)
	base := float32(sm.BaseBlend)
	boost := float32(sm.EdgeBoost)
	invSens := 1 / float32(sm.EdgeSensitivity)

	parallelFor(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				dx := src.X[i] - bx[i]
				dy := src.Y[i] - by[i]
				edge := clamp01(hypot32(dx, dy) * invSens)
				blend := clamp01(base + boost*edge)
				out.X[i] = lerp32(src.X[i], bx[i], blend)
				out.Y[i] = lerp32(src.Y[i], by[i], blend)
			}
		}
	})

	s.wind = out
	return nil
}

// Wind returns the final smoothed wind field.
func (s *SmoothStage) Wind() *field.Vector { return s.wind }
