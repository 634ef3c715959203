package realtime

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_sync/internal/domain"
)

type fakeConn struct {
	*hub
	closed int
}

func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

type fakeDialer struct {
	dialed []string
	conns  []*fakeConn
	err    error
}

func (d *fakeDialer) Dial(_ context.Context, credential string) (Conn, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.dialed = append(d.dialed, credential)
	c := &fakeConn{hub: newHub(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))}
	d.conns = append(d.conns, c)
	return c, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestManager_ConnectReusesConnectionForSameCredential(t *testing.T) {
	d := &fakeDialer{}
	m := NewManager(d, testLogger())

	first, err := m.Connect(context.Background(), "tok")
	require.NoError(t, err)
	second, err := m.Connect(context.Background(), "tok")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []string{"tok"}, d.dialed)
}

func TestManager_ConnectReplacesConnectionOnNewCredential(t *testing.T) {
	d := &fakeDialer{}
	m := NewManager(d, testLogger())

	_, err := m.Connect(context.Background(), "a")
	require.NoError(t, err)
	_, err = m.Connect(context.Background(), "b")
	require.NoError(t, err)

	assert.Equal(t, 1, d.conns[0].closed)
	conn, ok := m.Current()
	require.True(t, ok)
	assert.Same(t, d.conns[1], conn)
}

func TestManager_Disconnect(t *testing.T) {
	d := &fakeDialer{}
	m := NewManager(d, testLogger())

	_, ok := m.Current()
	assert.False(t, ok)

	_, err := m.Connect(context.Background(), "tok")
	require.NoError(t, err)
	m.Disconnect()
	m.Disconnect()

	_, ok = m.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, d.conns[0].closed)
}

func TestManager_DialError(t *testing.T) {
	m := NewManager(&fakeDialer{err: errors.New("refused")}, testLogger())

	_, err := m.Connect(context.Background(), "tok")
	assert.ErrorContains(t, err, "refused")
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestHub_DispatchDropsBadPayloads(t *testing.T) {
	h := newHub(testLogger())
	var got []domain.Event
	unsubscribe := h.Subscribe(func(ev domain.Event) { got = append(got, ev) })

	h.dispatch("news:deleted", []byte(`{"id":1}`))
	h.dispatch("news:deleted", []byte(`{}`))
	h.dispatch("chat:message", []byte(`{"id":1}`))
	unsubscribe()
	h.dispatch("news:deleted", []byte(`{"id":2}`))

	assert.Equal(t, []domain.Event{domain.NewsDeleted{ID: 1}}, got)
}

func TestBackoff_Doubles(t *testing.T) {
	b := Backoff{Initial: 100, Max: 350}
	assert.EqualValues(t, 100, b.delay(1))
	assert.EqualValues(t, 200, b.delay(2))
	assert.EqualValues(t, 350, b.delay(3))
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "news:paused", eventName(amqp.Delivery{RoutingKey: "news.paused"}))
	assert.Equal(t, "news:updated", eventName(amqp.Delivery{Type: "news:updated", RoutingKey: "news.anything"}))
}
