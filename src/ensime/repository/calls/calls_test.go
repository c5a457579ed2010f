package calls

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally/v4"
	"github.com/uber/ensime-client/src/ensime/entity"
)

func newTestRepository() Repository {
	return New(Params{Stats: tally.NoopScope})
}

func TestNextCallIDStartsAtZero(t *testing.T) {
	r := newTestRepository()
	assert.Equal(t, 0, r.NextCallID())
	assert.Equal(t, 1, r.NextCallID())
	assert.Equal(t, 2, r.NextCallID())
}

func TestNextCallIDConcurrent(t *testing.T) {
	r := newTestRepository()

	const n = 100
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- r.NextCallID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate call id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestOptionsRoundTrip(t *testing.T) {
	r := newTestRepository()

	id := r.NextCallID()
	r.RecordOptions(id, entity.CallOptions{"silent": true, "word": "printLn"})

	opts := r.Options(id)
	assert.True(t, opts.Bool("silent"))
	assert.Equal(t, "printLn", opts.String("word"))

	assert.Nil(t, r.Options(id+1))

	r.Forget(id)
	assert.Nil(t, r.Options(id))
}
