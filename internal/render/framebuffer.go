package render

// opaque is OR-ed into every pixel written to a Framebuffer.
const opaque = 0xFF000000

// Framebuffer is a width x height surface of packed 0xAARRGGBB pixels.
type Framebuffer struct {
	width  int
	height int
	pix    []uint32
	rgba   []byte
}

// NewFramebuffer allocates a black, fully transparent surface.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}
}

// Width returns the surface width in pixels.
func (f *Framebuffer) Width() int { return f.width }

// Height returns the surface height in pixels.
func (f *Framebuffer) Height() int { return f.height }

// Set writes pixel (x, y) with alpha forced to 0xFF.
func (f *Framebuffer) Set(x, y int, c uint32) {
	f.pix[y*f.width+x] = c | opaque
}

// At returns pixel (x, y).
func (f *Framebuffer) At(x, y int) uint32 {
	return f.pix[y*f.width+x]
}

// Fill sets every pixel to c with alpha forced to 0xFF.
func (f *Framebuffer) Fill(c uint32) {
	c |= opaque
	for i := range f.pix {
		f.pix[i] = c
	}
}

// RGBA returns the surface as R, G, B, A bytes in row-major order, the layout
// ebiten's WritePixels expects. The slice is reused by the next call.
func (f *Framebuffer) RGBA() []byte {
	if len(f.rgba) != 4*len(f.pix) {
		f.rgba = make([]byte, 4*len(f.pix))
	}
	for i, c := range f.pix {
		o := 4 * i
		f.rgba[o] = byte(c >> 16)
		f.rgba[o+1] = byte(c >> 8)
		f.rgba[o+2] = byte(c)
		f.rgba[o+3] = byte(c >> 24)
	}
	return f.rgba
}

// DepthBuffer holds the perpendicular wall distance of every screen column
// from the last wall pass.
type DepthBuffer []float64

// At returns the depth of column x.
func (d DepthBuffer) At(x int) float64 { return d[x] }

// span is the half-open row range [start, end) a column's wall occupies.
type span struct {
	start, end int
}

func (s span) contains(y int) bool {
	return y >= s.start && y < s.end
}
