package presence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	mu      sync.Mutex
	online  map[string]string
	offline []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{online: make(map[string]string)}
}

func (s *fakeStore) SetOnline(ctx context.Context, userID, socketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[userID] = socketID
	return nil
}

func (s *fakeStore) SetOffline(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.online, userID)
	s.offline = append(s.offline, userID)
	return nil
}

type fakeConn struct {
	id     string
	mu     sync.Mutex
	events []string
	fail   bool
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(event string, payload interface{}) error {
	if c.fail {
		return errors.New("connection gone")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *fakeConn) Close() error { return nil }

func TestRegistry_RegisterResolveRelease(t *testing.T) {
	store := newFakeStore()
	reg := NewRegistry(store)
	conn := &fakeConn{id: "sock-1"}

	reg.Register(context.Background(), "user-1", conn)

	got, ok := reg.Resolve("user-1")
	assert.True(t, ok)
	assert.Equal(t, conn, got)
	assert.Equal(t, "sock-1", store.online["user-1"])

	reg.Release(context.Background(), "user-1", conn)

	_, ok = reg.Resolve("user-1")
	assert.False(t, ok)
	assert.Equal(t, []string{"user-1"}, store.offline)
}

func TestRegistry_ResolveUnknownUser(t *testing.T) {
	reg := NewRegistry(newFakeStore())

	_, ok := reg.Resolve("nobody")
	assert.False(t, ok)
}

func TestRegistry_StaleReleaseKeepsFreshConnection(t *testing.T) {
	store := newFakeStore()
	reg := NewRegistry(store)

	old := &fakeConn{id: "sock-old"}
	reg.Register(context.Background(), "user-1", old)

	fresh := &fakeConn{id: "sock-new"}
	reg.Register(context.Background(), "user-1", fresh)

	// the old connection's teardown must not evict the reconnect
	reg.Release(context.Background(), "user-1", old)

	got, ok := reg.Resolve("user-1")
	assert.True(t, ok)
	assert.Equal(t, fresh, got)
	assert.Empty(t, store.offline)
}

func TestRegistry_DeliverBestEffort(t *testing.T) {
	reg := NewRegistry(newFakeStore())
	conn := &fakeConn{id: "sock-1"}
	reg.Register(context.Background(), "user-1", conn)

	assert.True(t, reg.Deliver("user-1", "new_message", map[string]string{"text": "hi"}))
	assert.Equal(t, []string{"new_message"}, conn.events)

	// unreachable recipient drops silently
	assert.False(t, reg.Deliver("user-2", "new_message", nil))
}

func TestRegistry_DeliverSendFailure(t *testing.T) {
	reg := NewRegistry(newFakeStore())
	reg.Register(context.Background(), "user-1", &fakeConn{id: "sock-1", fail: true})

	assert.False(t, reg.Deliver("user-1", "new_message", nil))
}

func TestRegistry_DeliverAll(t *testing.T) {
	reg := NewRegistry(newFakeStore())
	a := &fakeConn{id: "sock-a"}
	reg.Register(context.Background(), "user-a", a)

	delivered := reg.DeliverAll([]string{"user-a", "user-b"}, "new_message_group", nil)
	assert.Equal(t, 1, delivered)
	assert.Equal(t, []string{"new_message_group"}, a.events)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry(newFakeStore())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			conn := &fakeConn{id: "sock"}
			reg.Register(context.Background(), "user-1", conn)
			reg.Deliver("user-1", "new_message", nil)
			reg.Release(context.Background(), "user-1", conn)
		}(i)
	}
	wg.Wait()
}
