// Package noise implements seeded 2D Perlin noise for terrain synthesis.
package noise

import "math"

// Perlin is a 2D gradient noise generator with a seeded permutation table.
type Perlin struct {
	perm [512]int
}

// New creates a Perlin noise generator from a seed.
func New(seed int64) *Perlin {
	p := &Perlin{}

	var base [256]int
	for i := range base {
		base[i] = i
	}

	// Fisher-Yates shuffle driven by an LCG seeded from the input
	s := seed
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int(uint64(s>>16) % uint64(i+1))
		base[i], base[j] = base[j], base[i]
	}

	for i := 0; i < 256; i++ {
		p.perm[i] = base[i]
		p.perm[i+256] = base[i]
	}
	return p
}

// fade applies the quintic 6t^5 - 15t^4 + 10t^3 ease.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad returns the dot product of a pseudo-random gradient and the
// distance vector.
func grad(hash int, x, y float64) float64 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}

// Noise2D computes 2D Perlin noise at (x, y). Returns a value roughly
// in [-1, 1].
func (p *Perlin) Noise2D(x, y float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255

	xf := x - math.Floor(x)
	yf := y - math.Floor(y)

	u := fade(xf)
	v := fade(yf)

	aa := p.perm[p.perm[xi]+yi]
	ab := p.perm[p.perm[xi]+yi+1]
	ba := p.perm[p.perm[xi+1]+yi]
	bb := p.perm[p.perm[xi+1]+yi+1]

	x1 := lerp(u, grad(aa, xf, yf), grad(ba, xf-1, yf))
	x2 := lerp(u, grad(ab, xf, yf-1), grad(bb, xf-1, yf-1))

	return lerp(v, x1, x2)
}

// FBM sums octaves of Noise2D, halving amplitude and scaling frequency by
// lacunarity each octave, normalized by the total amplitude so the result
// stays roughly in [-1, 1].
func (p *Perlin) FBM(x, y float64, octaves int, lacunarity, persistence float64) float64 {
	sum := 0.0
	amplitude := 1.0
	frequency := 1.0
	norm := 0.0

	for i := 0; i < octaves; i++ {
		sum += p.Noise2D(x*frequency, y*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}

	if norm == 0 {
		return 0
	}
	return sum / norm
}
