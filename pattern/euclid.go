package pattern

// Euclid distributes k onsets of p as evenly as possible over n steps
// within one cycle, optionally rotated left by rot steps. k == 0 (or
// n <= 0) is silence; k == n fires every step.
func Euclid[T any](k, n, rot int, p Pattern[T]) Pattern[T] {
	if n <= 0 || k <= 0 {
		return Silence[T]()
	}
	if k > n {
		k = n
	}
	onsets := bjorklund(k, n)
	if rot != 0 {
		onsets = rotate(onsets, rot)
	}
	steps := make([]Pattern[T], n)
	for i, on := range onsets {
		if on {
			steps[i] = p
		} else {
			steps[i] = Silence[T]()
		}
	}
	return Fastcat(steps...)
}

// bjorklund computes the Euclidean rhythm onset vector by repeatedly
// pairing onset runs with rest runs until at most one remainder run is
// left. E(3,8) = x..x..x. and E(5,8) = x.xx.xx.
func bjorklund(k, n int) []bool {
	a := make([][]bool, k)
	for i := range a {
		a[i] = []bool{true}
	}
	b := make([][]bool, n-k)
	for i := range b {
		b[i] = []bool{false}
	}
	for len(b) > 1 {
		m := min(len(a), len(b))
		if len(a) <= len(b) {
			for i := 0; i < m; i++ {
				a[i] = append(a[i], b[i]...)
			}
			b = b[m:]
		} else {
			for i := 0; i < m; i++ {
				a[i] = append(a[i], b[i]...)
			}
			a, b = a[:m], a[m:]
		}
	}
	out := make([]bool, 0, n)
	for _, run := range a {
		out = append(out, run...)
	}
	for _, run := range b {
		out = append(out, run...)
	}
	return out
}

// rotate shifts the vector left by rot steps (negative rotates right).
func rotate(v []bool, rot int) []bool {
	n := len(v)
	rot = ((rot % n) + n) % n
	if rot == 0 {
		return v
	}
	out := make([]bool, n)
	for i := range v {
		out[i] = v[(i+rot)%n]
	}
	return out
}
