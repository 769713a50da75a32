package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLocker_ExclusionPorClave(t *testing.T) {
	l := NewKeyedLocker()
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "a")
	require.NoError(t, err)

	// Otra clave no espera.
	unlockB, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()

	acquired := make(chan struct{})
	go func() {
		u, err := l.Lock(ctx, "a")
		if err == nil {
			close(acquired)
			u()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("la clave se tomó dos veces")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("la clave no se liberó")
	}
	require.Eventually(t, func() bool { return l.size() == 0 }, time.Second, 5*time.Millisecond)
}

func TestKeyedLocker_CancelacionLiberaEntrada(t *testing.T) {
	l := NewKeyedLocker()
	unlock, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "a")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.Equal(t, 0, l.size())
}

func TestKeyedLocker_ContadorConcurrente(t *testing.T) {
	l := NewKeyedLocker()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "k")
			if err != nil {
				return
			}
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.size())
}

type recordingLocker struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingLocker) Lock(_ context.Context, key string) (func(), error) {
	r.mu.Lock()
	r.events = append(r.events, "lock:"+key)
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.events = append(r.events, "unlock:"+key)
		r.mu.Unlock()
	}, nil
}

func TestLockAll_OrdenadoSinRepetidos(t *testing.T) {
	rec := &recordingLocker{}
	unlock, err := lockAll(context.Background(), rec, []string{"c", "a", "c", "b"})
	require.NoError(t, err)
	unlock()
	assert.Equal(t, []string{"lock:a", "lock:b", "lock:c", "unlock:c", "unlock:b", "unlock:a"}, rec.events)
}

func TestLockAll_ErrorLiberaLoTomado(t *testing.T) {
	l := NewKeyedLocker()
	held, err := l.Lock(context.Background(), "b")
	require.NoError(t, err)
	defer held()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = lockAll(ctx, l, []string{"a", "b"})
	require.Error(t, err)

	// "a" quedó libre.
	u, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	u()
}
