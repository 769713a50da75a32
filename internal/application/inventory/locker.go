package inventory

import (
	"context"
	"sort"
	"sync"
)

// KeyedLocker implementación en proceso de ItemLocker: un mutex por clave, creado bajo demanda
// y liberado cuando no quedan interesados.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	ch   chan struct{} // capacidad 1: lleno = tomado
	refs int
}

var _ ItemLocker = (*KeyedLocker)(nil)

// NewKeyedLocker construye el locker en memoria.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*keyedEntry)}
}

// Lock toma la clave respetando la cancelación de ctx.
func (l *KeyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *KeyedLocker) release(key string, e *keyedEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// size número de claves vivas (tests).
func (l *KeyedLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// lockAll toma las claves en orden lexicográfico, sin repetir, para que dos solicitudes con
// ítems en común no se bloqueen mutuamente. Ante error libera lo ya tomado.
func lockAll(ctx context.Context, locker ItemLocker, keys []string) (func(), error) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	sort.Strings(uniq)

	unlocks := make([]func(), 0, len(uniq))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, k := range uniq {
		unlock, err := locker.Lock(ctx, k)
		if err != nil {
			releaseAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return releaseAll, nil
}

func itemLockKey(itemID string) string {
	return "inventory:item:" + itemID
}

func submissionLockKey(submissionID string) string {
	return "inventory:submission:" + submissionID
}
