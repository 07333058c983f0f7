package rx

import (
	stderrors "errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/outcome"
)

var errBoom = stderrors.New("boom")

func TestTryMap_ShortCircuits(t *testing.T) {
	calls := 0
	p := TryMap(FromSlice([]int{1, 2, 3}), func(n int) (int, error) {
		calls++
		if n == 2 {
			return 0, errBoom
		}
		return n * 10, nil
	})

	var r recorder[int]
	r.subscribe(p)

	if calls != 2 {
		t.Errorf("got %d calls, want 2", calls)
	}
	if want := []int{10}; !reflect.DeepEqual(r.values, want) {
		t.Errorf("got %v, want %v", r.values, want)
	}
	if len(r.completions) != 1 {
		t.Fatalf("got %d completions, want 1", len(r.completions))
	}
	if !stderrors.Is(r.completions[0].Err(), errBoom) {
		t.Errorf("got %v, want %v", r.completions[0].Err(), errBoom)
	}
}

func TestTryMap_DetachesFromSubject(t *testing.T) {
	s := NewSubject[string]()
	var r recorder[int]
	sub := r.subscribe(TryMap(s.Publisher(), strconv.Atoi))

	s.Send("1")
	s.Send("x")
	s.Send("3")

	if want := []int{1}; !reflect.DeepEqual(r.values, want) {
		t.Errorf("got %v, want %v", r.values, want)
	}
	if len(r.completions) != 1 || r.completions[0].IsSuccess() {
		t.Errorf("got %v, want one failure", r.completions)
	}
	if sub.State() != StateCompleted {
		t.Errorf("got state %v, want %v", sub.State(), StateCompleted)
	}
	if s.Len() != 0 {
		t.Errorf("got %d registrations, want 0", s.Len())
	}
}

func TestFlatMap(t *testing.T) {
	half := func(n int) outcome.Outcome[int] {
		if n%2 != 0 {
			return outcome.Failure[int](errors.InvalidInput("n", "odd"))
		}
		return outcome.Success(n / 2)
	}

	got, err := Collect(FlatMap(Just(4, 8, 3, 10), half))
	if want := []int{2, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestFilterSwallowsSilently(t *testing.T) {
	var r recorder[int]
	r.subscribe(Filter(FromSlice([]int{1, 2, 3, 4}), func(n int) bool { return n%2 == 0 }))

	if want := []int{2, 4}; !reflect.DeepEqual(r.values, want) {
		t.Errorf("got %v, want %v", r.values, want)
	}
	if len(r.completions) != 1 || !r.completions[0].IsSuccess() {
		t.Errorf("got %v, want a single success", r.completions)
	}
}

func TestMapError(t *testing.T) {
	p := MapError(Fail[int](errBoom), func(err error) error {
		return errors.Transform("decode", err)
	})

	_, err := Collect(p)
	if !stderrors.Is(err, errBoom) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeTransformFailed {
		t.Errorf("got %v, want TRANSFORM_FAILED", err)
	}

	got, err := Collect(MapError(Just(1), func(error) error { return errBoom }))
	if err != nil || !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("got %v, %v; want [1] and no error", got, err)
	}
}

func TestCatchError(t *testing.T) {
	t.Run("switches to fallback", func(t *testing.T) {
		s := NewSubject[int]()
		var seen error
		p := CatchError(s.Publisher(), func(err error) *Publisher[int] {
			seen = err
			return Just(7, 8)
		})

		var r recorder[int]
		r.subscribe(p)
		s.Send(1)
		s.Fail(errBoom)

		if want := []int{1, 7, 8}; !reflect.DeepEqual(r.values, want) {
			t.Errorf("got %v, want %v", r.values, want)
		}
		if seen != errBoom {
			t.Errorf("handler got %v, want %v", seen, errBoom)
		}
		if len(r.completions) != 1 || !r.completions[0].IsSuccess() {
			t.Errorf("got %v, want a single success", r.completions)
		}
	})

	t.Run("nil fallback passes failure", func(t *testing.T) {
		_, err := Collect(CatchError(Fail[int](errBoom), func(error) *Publisher[int] { return nil }))
		if err != errBoom {
			t.Errorf("got %v, want %v", err, errBoom)
		}
	})

	t.Run("success is untouched", func(t *testing.T) {
		called := false
		got, err := Collect(CatchError(Just(1, 2), func(error) *Publisher[int] {
			called = true
			return nil
		}))
		if err != nil || called || !reflect.DeepEqual(got, []int{1, 2}) {
			t.Errorf("got %v, %v, handler called %v", got, err, called)
		}
	})
}

func TestReplaceError(t *testing.T) {
	src := TryMap(Just("1", "x", "3"), strconv.Atoi)
	got, err := Collect(ReplaceError(src, -1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []int{1, -1}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name         string
		attempts     int
		wantValues   []int
		wantErr      bool
		wantAttempts int
	}{
		{"recovers within budget", 2, []int{0, 1, 2, 42}, false, 3},
		{"gives up", 1, []int{0, 1}, true, 2},
		{"no retries", 0, []int{0}, true, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			runs := 0
			flaky := Defer(func() *Publisher[int] {
				run := runs
				runs++
				if run < 2 {
					return newPublisher(func(_ *control, down sink[int]) {
						down.next(run)
						down.complete(Failed(errBoom))
					})
				}
				return Just(run, 42)
			})

			got, err := Collect(Retry(flaky, tc.attempts))
			if !reflect.DeepEqual(got, tc.wantValues) {
				t.Errorf("got %v, want %v", got, tc.wantValues)
			}
			if (err != nil) != tc.wantErr {
				t.Errorf("got error %v, wantErr %v", err, tc.wantErr)
			}
			if runs != tc.wantAttempts {
				t.Errorf("got %d attempts, want %d", runs, tc.wantAttempts)
			}
		})
	}
}

func TestTap(t *testing.T) {
	var seen []int
	var done bool
	got, err := Collect(Tap(Just(1, 2), func(n int) { seen = append(seen, n) }, func(Completion) { done = true }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(seen, got) || !done {
		t.Errorf("got side effects %v (done=%v), want %v", seen, done, got)
	}

	if _, err := Collect(Tap(Just(1), nil, nil)); err != nil {
		t.Errorf("nil side effects: unexpected error %v", err)
	}
}

func TestScanAndReduce(t *testing.T) {
	sum := func(acc, n int) int { return acc + n }

	got, _ := Collect(Scan(Just(1, 2, 3, 4), 0, sum))
	if want := []int{1, 3, 6, 10}; !reflect.DeepEqual(got, want) {
		t.Errorf("scan: got %v, want %v", got, want)
	}

	got, _ = Collect(Reduce(Just(1, 2, 3, 4), 0, sum))
	if want := []int{10}; !reflect.DeepEqual(got, want) {
		t.Errorf("reduce: got %v, want %v", got, want)
	}

	got, err := Collect(Reduce(Fail[int](errBoom), 0, sum))
	if len(got) != 0 || err != errBoom {
		t.Errorf("reduce failure: got %v, %v", got, err)
	}
}

func TestTake(t *testing.T) {
	t.Run("detaches after n", func(t *testing.T) {
		s := NewSubject[int]()
		var r recorder[int]
		r.subscribe(Take(s.Publisher(), 2))

		for i := 1; i <= 4; i++ {
			s.Send(i)
		}
		if want := []int{1, 2}; !reflect.DeepEqual(r.values, want) {
			t.Errorf("got %v, want %v", r.values, want)
		}
		if len(r.completions) != 1 || !r.completions[0].IsSuccess() {
			t.Errorf("got %v, want a single success", r.completions)
		}
		if s.Len() != 0 {
			t.Errorf("got %d registrations, want 0", s.Len())
		}
	})

	t.Run("zero never attaches", func(t *testing.T) {
		s := NewSubject[int]()
		got, err := Collect(Take(s.Publisher(), 0))
		if err != nil || len(got) != 0 {
			t.Errorf("got %v, %v; want no values and no error", got, err)
		}
		if s.Len() != 0 {
			t.Errorf("got %d registrations, want 0", s.Len())
		}
	})

	t.Run("short source", func(t *testing.T) {
		got, _ := Collect(Take(Just(1), 5))
		if want := []int{1}; !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestReceiveOn(t *testing.T) {
	t.Run("immediate", func(t *testing.T) {
		got, _ := Collect(ReceiveOn(Just(1, 2), Immediate))
		if want := []int{1, 2}; !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("deferred delivers on drain", func(t *testing.T) {
		d := NewDeferred()
		s := NewSubject[int]()
		var r recorder[int]
		r.subscribe(ReceiveOn(s.Publisher(), d))

		s.Send(1)
		s.Send(2)
		s.Finish()
		if len(r.values) != 0 {
			t.Fatalf("got %v before drain, want nothing", r.values)
		}
		if d.Pending() != 3 {
			t.Errorf("got %d pending, want 3", d.Pending())
		}
		if n := d.Drain(); n != 3 {
			t.Errorf("drained %d, want 3", n)
		}
		if want := []int{1, 2}; !reflect.DeepEqual(r.values, want) {
			t.Errorf("got %v, want %v", r.values, want)
		}
		if len(r.completions) != 1 {
			t.Errorf("got %d completions, want 1", len(r.completions))
		}
	})

	t.Run("deferred drops after cancel", func(t *testing.T) {
		d := NewDeferred()
		s := NewSubject[int]()
		var r recorder[int]
		sub := r.subscribe(ReceiveOn(s.Publisher(), d))

		s.Send(1)
		d.Drain()
		s.Send(2)
		sub.Cancel()
		d.Drain()

		if want := []int{1}; !reflect.DeepEqual(r.values, want) {
			t.Errorf("got %v, want %v", r.values, want)
		}
	})
}
