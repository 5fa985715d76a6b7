package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) deliver(v string) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestDebouncer_DeliversOnlyLatestValue(t *testing.T) {
	rec := &recorder{}
	d := New(30*time.Millisecond, rec.deliver)
	defer d.Stop()

	d.Push("s")
	d.Push("st")
	d.Push("sto")

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"sto"}, rec.snapshot())
}

func TestDebouncer_NothingDeliveredWhileInputKeepsChanging(t *testing.T) {
	rec := &recorder{}
	d := New(80*time.Millisecond, rec.deliver)
	defer d.Stop()

	for _, v := range []string{"c", "ch", "cha", "chai", "chair"} {
		d.Push(v)
		time.Sleep(10 * time.Millisecond)
		assert.Empty(t, rec.snapshot())
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"chair"}, rec.snapshot())
}

func TestDebouncer_RepeatedValueDoesNotReschedule(t *testing.T) {
	rec := &recorder{}
	d := New(20*time.Millisecond, rec.deliver)
	defer d.Stop()

	d.Push("lamp")
	d.Push("lamp")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	d.Push("lamp")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"lamp"}, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestDebouncer_ZeroDelayIsAsynchronous(t *testing.T) {
	got := make(chan string)
	d := New(0, func(v string) { got <- v })
	defer d.Stop()

	// an unbuffered send inside Push would block forever
	d.Push("x")

	select {
	case v := <-got:
		assert.Equal(t, "x", v)
	case <-time.After(time.Second):
		t.Fatal("value was not delivered")
	}
}

func TestDebouncer_StopPreventsDelivery(t *testing.T) {
	rec := &recorder{}
	d := New(20*time.Millisecond, rec.deliver)

	d.Push("sofa")
	d.Stop()
	d.Push("table")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.False(t, d.Pending())
}

func TestDebouncer_CancelWaitsForInFlightDelivery(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	finished := false

	d := New(0, func(string) {
		close(started)
		<-release
		mu.Lock()
		finished = true
		mu.Unlock()
	})
	defer d.Stop()

	d.Push("desk")
	<-started

	done := make(chan struct{})
	go func() {
		d.Cancel()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Cancel returned while a delivery was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-done
	mu.Lock()
	assert.True(t, finished)
	mu.Unlock()
}

func TestDebouncer_CancelForgetsLastValue(t *testing.T) {
	rec := &recorder{}
	d := New(20*time.Millisecond, rec.deliver)
	defer d.Stop()

	d.Push("rug")
	d.Cancel()
	assert.False(t, d.Pending())

	d.Push("rug")
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"rug"}, rec.snapshot())
}

func TestDebouncer_ComparableStructValues(t *testing.T) {
	type query struct {
		text   string
		locale string
	}
	got := make(chan query, 1)
	d := New(5*time.Millisecond, func(q query) { got <- q })
	defer d.Stop()

	d.Push(query{text: "vase", locale: "en"})
	d.Push(query{text: "vase", locale: "nl"})

	select {
	case q := <-got:
		assert.Equal(t, "nl", q.locale)
	case <-time.After(time.Second):
		t.Fatal("value was not delivered")
	}
}
