package state

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetNotifiesSubscribers(t *testing.T) {
	f := Comparable(0)
	var got []int
	f.Subscribe(func(v int) { got = append(got, v) })

	f.Set(1)
	f.Set(2)

	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 2, f.Value())
	assert.Equal(t, uint64(2), f.Version())
}

func TestSubscriberDoesNotSeeInitialValue(t *testing.T) {
	f := Comparable("initial")
	calls := 0
	f.Subscribe(func(string) { calls++ })

	assert.Equal(t, 0, calls)
}

func TestEqualValuesAreConflated(t *testing.T) {
	f := New([]int{1}, slices.Equal[[]int])
	calls := 0
	f.Subscribe(func([]int) { calls++ })

	assert.False(t, f.Set([]int{1}))
	assert.True(t, f.Set([]int{1, 2}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), f.Version())
}

func TestNilEqualEmitsEverySet(t *testing.T) {
	f := New(1, nil)
	calls := 0
	f.Subscribe(func(int) { calls++ })

	f.Set(1)
	f.Set(1)
	assert.Equal(t, 2, calls)
}

func TestUnsubscribe(t *testing.T) {
	f := Comparable(0)
	var a, b int
	unsubA := f.Subscribe(func(v int) { a = v })
	f.Subscribe(func(v int) { b = v })

	f.Set(1)
	unsubA()
	f.Set(2)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestSubscribersRunInOrder(t *testing.T) {
	f := Comparable(0)
	var order []string
	f.Subscribe(func(int) { order = append(order, "first") })
	f.Subscribe(func(int) { order = append(order, "second") })

	f.Set(1)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSubscriberCanReadValue(t *testing.T) {
	f := Comparable(0)
	var seen int
	f.Subscribe(func(int) { seen = f.Value() })

	f.Set(5)
	assert.Equal(t, 5, seen)
}

func TestUpdate(t *testing.T) {
	f := Comparable(1)
	f.Update(func(v int) int { return v + 1 })
	assert.Equal(t, 2, f.Value())
}

func TestReadOnlyView(t *testing.T) {
	f := Comparable(3)
	ro := f.ReadOnly()

	_, isMutable := ro.(*MutableStateFlow[int])
	assert.False(t, isMutable)

	f.Set(4)
	assert.Equal(t, 4, ro.Value())
}

func TestConcurrentReaders(t *testing.T) {
	f := Comparable(0)
	ro := f.ReadOnly()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = ro.Value()
			}
		}()
	}
	for i := 1; i <= 100; i++ {
		f.Set(i)
	}
	wg.Wait()

	assert.Equal(t, 100, f.Value())
	assert.Equal(t, uint64(100), f.Version())
}
