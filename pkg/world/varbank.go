package world

// VarBank is a bounded array of numeric script variables. Writes saturate
// at the bank's bounds; out-of-range indices read as 0 and ignore writes.
type VarBank struct {
	vals     []int
	min, max int
}

// NewVarBank creates a bank of n variables constrained to [min, max].
func NewVarBank(n, min, max int) *VarBank {
	if min > max {
		min, max = max, min
	}
	return &VarBank{vals: make([]int, n), min: min, max: max}
}

// Len returns the number of variables.
func (b *VarBank) Len() int {
	return len(b.vals)
}

// Bounds returns the saturation bounds.
func (b *VarBank) Bounds() (min, max int) {
	return b.min, b.max
}

// Get returns variable i, or 0 when i is out of range.
func (b *VarBank) Get(i int) int {
	if i < 0 || i >= len(b.vals) {
		return 0
	}
	return b.vals[i]
}

// Set stores v in variable i, saturated to the bank's bounds.
func (b *VarBank) Set(i, v int) {
	if i < 0 || i >= len(b.vals) {
		return
	}
	b.vals[i] = b.clamp(v)
}

// Add adds d to variable i with the same saturation as Set.
func (b *VarBank) Add(i, d int) {
	b.Set(i, b.Get(i)+d)
}

// Values returns a copy of the bank.
func (b *VarBank) Values() []int {
	out := make([]int, len(b.vals))
	copy(out, b.vals)
	return out
}

// Load overwrites the bank from vals, clamping each value. Extra values are
// dropped and missing ones reset to 0.
func (b *VarBank) Load(vals []int) {
	for i := range b.vals {
		if i < len(vals) {
			b.vals[i] = b.clamp(vals[i])
		} else {
			b.vals[i] = 0
		}
	}
}

func (b *VarBank) clamp(v int) int {
	if v < b.min {
		return b.min
	}
	if v > b.max {
		return b.max
	}
	return v
}
