package utils

// SliceRotate returns a copy of x rotated left by n positions. n is reduced modulo the slice length.
func SliceRotate[T any](x []T, n int) []T {
	r := make([]T, len(x))
	if len(x) == 0 {
		return r
	}
	n = ((n % len(x)) + len(x)) % len(x)
	copy(r, x[n:])
	copy(r[len(x)-n:], x[:n])
	return r
}

// SliceRotations returns every distinct left rotation of x, starting with x itself.
func SliceRotations[T any](x []T) [][]T {
	r := make([][]T, len(x))
	for i := 0; i < len(x); i++ {
		r[i] = SliceRotate(x, i)
	}
	return r
}

// SliceSelect provides a way of querying a specific element from a slice's elements into a slice of its own.
func SliceSelect[T any, K any](x []T, f func(x T) K) []K {
	r := make([]K, len(x))
	for i := 0; i < len(x); i++ {
		r[i] = f(x[i])
	}
	return r
}
