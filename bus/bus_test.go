package bus

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/kbukum/rxkit/component"
	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/rx"
)

func newTestBus() *Bus {
	return New("test", Options{Logger: logger.Nop()})
}

func TestTopic_ReturnsSameSubject(t *testing.T) {
	b := newTestBus()

	first, err := Topic[int](b, "ticks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Topic[int](b, "ticks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("expected the same subject for the same topic")
	}
	if first.Name() != "ticks" {
		t.Errorf("got name %q, want ticks", first.Name())
	}
}

func TestTopic_TypeMismatch(t *testing.T) {
	b := newTestBus()
	if _, err := Topic[int](b, "ticks"); err != nil {
		t.Fatal(err)
	}

	_, err := Topic[string](b, "ticks")
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeTypeMismatch {
		t.Fatalf("got %v, want TYPE_MISMATCH", err)
	}
	if appErr.Details["have"] != "int" || appErr.Details["want"] != "string" {
		t.Errorf("unexpected details %v", appErr.Details)
	}
}

func TestPublish(t *testing.T) {
	b := newTestBus()
	ticks, _ := Topic[int](b, "ticks")

	var got []int
	ticks.Publisher().Sink(func(n int) { got = append(got, n) })

	for i := 1; i <= 3; i++ {
		if err := Publish(b, "ticks", i); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if err := Publish(b, "ticks", "four"); err == nil {
		t.Error("expected type mismatch publishing a string")
	}
}

func TestStopFinishesTopics(t *testing.T) {
	b := newTestBus()
	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatal(err)
	}

	ticks, _ := Topic[int](b, "ticks")
	var completions []rx.Completion
	ticks.Publisher().Subscribe(nil, func(c rx.Completion) { completions = append(completions, c) })

	if err := b.Stop(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Stop(ctx); err != nil {
		t.Fatalf("second stop: unexpected error: %v", err)
	}

	if len(completions) != 1 || !completions[0].IsSuccess() {
		t.Errorf("got %v, want a single success", completions)
	}
	if !ticks.IsFinished() {
		t.Error("expected topic to be finished")
	}

	_, err := Topic[int](b, "other")
	if !stderrors.Is(err, errors.BusStopped("test")) {
		t.Errorf("got %v, want BUS_STOPPED", err)
	}
	if err := b.Start(ctx); err == nil {
		t.Error("expected start after stop to fail")
	}
}

func TestHealthAndDescribe(t *testing.T) {
	b := newTestBus()
	ctx := context.Background()

	if h := b.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("got %s before start, want unhealthy", h.Status)
	}

	b.Start(ctx)
	ticks, _ := Topic[int](b, "ticks")
	Topic[string](b, "labels")
	ticks.Publisher().Sink(func(int) {})

	h := b.Health(ctx)
	if h.Status != component.StatusHealthy {
		t.Errorf("got %s, want healthy", h.Status)
	}
	if h.Message != "2 topics, 1 subscriptions" {
		t.Errorf("got message %q", h.Message)
	}
	if d := b.Describe(); d.Details != "topics=2" {
		t.Errorf("got details %q, want topics=2", d.Details)
	}
	if want := []string{"labels", "ticks"}; !reflect.DeepEqual(b.Topics(), want) {
		t.Errorf("got %v, want %v", b.Topics(), want)
	}
}

func TestRegistryLifecycle(t *testing.T) {
	b := newTestBus()
	r := component.NewRegistry()
	if err := r.Register(b); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatal(err)
	}
	ticks, _ := Topic[int](b, "ticks")
	if err := r.StopAll(ctx); err != nil {
		t.Fatal(err)
	}
	if !ticks.IsFinished() {
		t.Error("expected registry stop to finish topics")
	}
}
