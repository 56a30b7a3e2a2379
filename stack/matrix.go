package stack

// Matrix is the local (per-worker) or global (post-reduction) complex stack:
// Spec[b] holds the accumulated cross-spectrum for distance bin b on
// [0,I2), only [I1,I2) of which is ever written; Count[b] is the number of
// pairs that landed in that bin.
type Matrix struct {
	Spec  [][]complex128
	Count []int32
	Plan  *Plan
}

// NewMatrix allocates a zeroed stack matrix sized by plan.
func NewMatrix(plan *Plan) *Matrix {
	spec := make([][]complex128, plan.B)
	for b := range spec {
		spec[b] = make([]complex128, plan.I2)
	}
	return &Matrix{
		Spec:  spec,
		Count: make([]int32, plan.B),
		Plan:  plan,
	}
}

// Add performs an elementwise sum-reduction of other into m, the operation
// cluster.LocalWorld.Run applies to the workers' partial matrices. Both matrices must share the
// same Plan (same B and I2).
func (m *Matrix) Add(other *Matrix) {
	for b := range m.Spec {
		row, otherRow := m.Spec[b], other.Spec[b]
		for k := range row {
			row[k] += otherRow[k]
		}
		m.Count[b] += other.Count[b]
	}
}

// Clone returns a deep copy of m with the same Plan.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.Plan)
	for b := range m.Spec {
		copy(out.Spec[b], m.Spec[b])
	}
	copy(out.Count, m.Count)
	return out
}
