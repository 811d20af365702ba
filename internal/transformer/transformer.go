package transformer

// Transformer is a partial function from A to B. The second return value
// reports whether the transformer matched its input. Providers and type
// interpreters are both instances of this shape and are composed with the
// combinators below.
type Transformer[A, B any] func(A) (B, bool)

// Identity matches every input and returns it unchanged.
func Identity[A any]() Transformer[A, A] {
	return func(a A) (A, bool) {
		return a, true
	}
}

// Or tries t first and falls back to other when t does not match.
func (t Transformer[A, B]) Or(other Transformer[A, B]) Transformer[A, B] {
	return func(a A) (B, bool) {
		if res, ok := t(a); ok {
			return res, true
		}
		return other(a)
	}
}

// Then feeds the output of first into second. The composition matches only
// when both stages match.
func Then[A, B, C any](first Transformer[A, B], second Transformer[B, C]) Transformer[A, C] {
	return func(a A) (C, bool) {
		mid, ok := first(a)
		if !ok {
			var zero C
			return zero, false
		}
		return second(mid)
	}
}

// Lifted applies t elementwise over a slice. It matches only when t matches
// every element. The result is a plain function of the Transformer shape.
func (t Transformer[A, B]) Lifted() func([]A) ([]B, bool) {
	return func(as []A) ([]B, bool) {
		res := make([]B, len(as))
		for i, a := range as {
			b, ok := t(a)
			if !ok {
				return nil, false
			}
			res[i] = b
		}
		return res, true
	}
}

// Pair holds the results of two transformers run on the same input.
type Pair[B, C any] struct {
	Fst B
	Snd C
}

// Both runs left and right on the same input and pairs their results.
func Both[A, B, C any](left Transformer[A, B], right Transformer[A, C]) Transformer[A, Pair[B, C]] {
	return func(a A) (Pair[B, C], bool) {
		b, okB := left(a)
		if !okB {
			return Pair[B, C]{}, false
		}
		c, okC := right(a)
		if !okC {
			return Pair[B, C]{}, false
		}
		return Pair[B, C]{Fst: b, Snd: c}, true
	}
}

type memoEntry[B any] struct {
	res B
	ok  bool
}

// Memoized caches the results of t, including misses, keyed by key.
func Memoized[A, B any, K comparable](t Transformer[A, B], key func(A) K) Transformer[A, B] {
	cache := make(map[K]memoEntry[B])
	return func(a A) (B, bool) {
		k := key(a)
		if e, hit := cache[k]; hit {
			return e.res, e.ok
		}
		res, ok := t(a)
		cache[k] = memoEntry[B]{res: res, ok: ok}
		return res, ok
	}
}

// FromBuilder defers construction of a transformer until its first use.
// This is how recursive chains (an interpreter that references itself for
// nested types) are tied without initialization cycles.
func FromBuilder[A, B any](build func() Transformer[A, B]) Transformer[A, B] {
	var built Transformer[A, B]
	return func(a A) (B, bool) {
		if built == nil {
			built = build()
		}
		return built(a)
	}
}
