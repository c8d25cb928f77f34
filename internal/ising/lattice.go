package ising

// Lattice is a periodic square grid of spins in {-1, +1}, stored flat in
// row-major order.
type Lattice struct {
	L     int
	spins []int8
}

// NewLattice returns an L x L lattice with every spin up. The uniform start
// matters: the T=0 limit of the sweep must stay fully aligned.
func NewLattice(L int) *Lattice {
	spins := make([]int8, L*L)
	for i := range spins {
		spins[i] = 1
	}
	return &Lattice{L: L, spins: spins}
}

func (l *Lattice) At(i, j int) int8 { return l.spins[i*l.L+j] }

func (l *Lattice) flip(i, j int) { l.spins[i*l.L+j] = -l.spins[i*l.L+j] }

// NeighborSum returns the sum of the four periodic nearest-neighbor spins.
func (l *Lattice) NeighborSum(i, j int) int {
	L := l.L
	up := l.spins[((i-1+L)%L)*L+j]
	down := l.spins[((i+1)%L)*L+j]
	left := l.spins[i*L+(j-1+L)%L]
	right := l.spins[i*L+(j+1)%L]
	return int(up) + int(down) + int(left) + int(right)
}

// Magnetization returns the mean spin, in [-1, 1].
func (l *Lattice) Magnetization() float64 {
	sum := 0
	for _, s := range l.spins {
		sum += int(s)
	}
	return float64(sum) / float64(len(l.spins))
}

// Energy returns the total coupling energy in units of J, counting each
// nearest-neighbor bond once. Only used by tests to cross-check deltaE.
func (l *Lattice) Energy() float64 {
	L := l.L
	e := 0
	for i := 0; i < L; i++ {
		for j := 0; j < L; j++ {
			s := int(l.spins[i*L+j])
			right := int(l.spins[i*L+(j+1)%L])
			down := int(l.spins[((i+1)%L)*L+j])
			e -= s * (right + down)
		}
	}
	return float64(e)
}

// Snapshot returns a copy of the spin grid.
func (l *Lattice) Snapshot() []int8 {
	out := make([]int8, len(l.spins))
	copy(out, l.spins)
	return out
}

// Valid reports whether every spin is exactly -1 or +1.
func (l *Lattice) Valid() bool {
	for _, s := range l.spins {
		if s != 1 && s != -1 {
			return false
		}
	}
	return true
}
