package placement

// seededRand is a small deterministic generator seeded from a string hash.
// It is not safe for concurrent use; each marker gets its own instance.
type seededRand struct {
	state uint32
}

func newSeededRand(seed string) *seededRand {
	return &seededRand{state: HashCode(seed)}
}

// Float returns the next value in [0, 1].
func (r *seededRand) Float() float64 {
	h := r.state
	h ^= h >> 16
	h *= 2246822507
	h ^= h >> 13
	h *= 3266489909
	h ^= h >> 16
	r.state = h
	return float64(h) / 4294967295
}
