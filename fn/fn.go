// Package fn provides small generic helpers for building functions out of
// other functions: composition, argument flipping, currying and partial
// application.
package fn

// Identity returns its argument.
func Identity[T any](v T) T { return v }

// Const returns a function that ignores its argument and returns v.
func Const[T, A any](v T) func(A) T {
	return func(A) T { return v }
}

// Compose returns a function that applies f, then g.
func Compose[A, B, C any](f func(A) B, g func(B) C) func(A) C {
	return func(a A) C { return g(f(a)) }
}

// Pipe composes a chain of same-typed functions, applied left to right.
// With no functions it returns Identity.
func Pipe[T any](fns ...func(T) T) func(T) T {
	return func(v T) T {
		for _, f := range fns {
			v = f(v)
		}
		return v
	}
}

// Flip swaps the arguments of a two-argument function.
func Flip[A, B, C any](f func(A, B) C) func(B, A) C {
	return func(b B, a A) C { return f(a, b) }
}

// Curry turns a two-argument function into a chain of one-argument functions.
func Curry[A, B, C any](f func(A, B) C) func(A) func(B) C {
	return func(a A) func(B) C {
		return func(b B) C { return f(a, b) }
	}
}

// Uncurry is the inverse of Curry.
func Uncurry[A, B, C any](f func(A) func(B) C) func(A, B) C {
	return func(a A, b B) C { return f(a)(b) }
}

// Partial fixes the first argument of a two-argument function.
func Partial[A, B, C any](f func(A, B) C, a A) func(B) C {
	return func(b B) C { return f(a, b) }
}
