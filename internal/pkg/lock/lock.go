// Package lock provides per-key locking so that two events touching the same
// game session are applied one after the other.
package lock

import (
	"context"
	"sync"
	"time"
)

// keyMutex wraps a mutex with reference counting for cleanup.
type keyMutex struct {
	mu       sync.Mutex
	refCount int
}

// KeyLock serializes work per string key (usually a session id).
type KeyLock struct {
	locks sync.Map // map[string]*keyMutex
	pool  sync.Pool
}

// NewKeyLock creates a new KeyLock instance.
func NewKeyLock() *KeyLock {
	return &KeyLock{
		pool: sync.Pool{
			New: func() any {
				return &keyMutex{}
			},
		},
	}
}

// getLock retrieves or creates the mutex for key.
func (kl *KeyLock) getLock(key string) *keyMutex {
	if v, ok := kl.locks.Load(key); ok {
		return v.(*keyMutex)
	}

	newLock := kl.pool.Get().(*keyMutex)
	newLock.refCount = 0

	// Another goroutine may have stored a mutex in the meantime.
	actual, loaded := kl.locks.LoadOrStore(key, newLock)
	if loaded {
		kl.pool.Put(newLock)
	}
	return actual.(*keyMutex)
}

// Lock acquires the lock for key.
func (kl *KeyLock) Lock(key string) {
	l := kl.getLock(key)
	l.mu.Lock()
	l.refCount++
}

// Unlock releases the lock for key.
func (kl *KeyLock) Unlock(key string) {
	if v, ok := kl.locks.Load(key); ok {
		l := v.(*keyMutex)
		l.refCount--
		l.mu.Unlock()
	}
}

// lockWithTimeout waits for the lock until timeout or ctx expires.
// Returns true if the lock was acquired.
func (kl *KeyLock) lockWithTimeout(ctx context.Context, key string, timeout time.Duration) bool {
	l := kl.getLock(key)

	done := make(chan struct{})
	go func() {
		l.mu.Lock()
		close(done)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-done:
		l.refCount++
		return true
	case <-timeoutCtx.Done():
		// The waiter still gets the mutex eventually; hand it straight back.
		go func() {
			<-done
			l.mu.Unlock()
		}()
		return false
	}
}

// WithLockContext runs fn while holding the lock for key. It returns
// ErrLockTimeout if the lock could not be taken in time and ctx.Err() if ctx
// was cancelled while waiting.
func (kl *KeyLock) WithLockContext(ctx context.Context, key string, timeout time.Duration, fn func() error) error {
	if !kl.lockWithTimeout(ctx, key, timeout) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrLockTimeout
	}
	defer kl.Unlock(key)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn()
	}
}

// Forget drops the mutex for key once nobody holds it. Finished sessions
// call this so the map does not grow with every game ever played.
func (kl *KeyLock) Forget(key string) {
	v, ok := kl.locks.Load(key)
	if !ok {
		return
	}
	l := v.(*keyMutex)
	if !l.mu.TryLock() {
		return
	}
	if l.refCount == 0 {
		kl.locks.Delete(key)
	}
	l.mu.Unlock()
}
