package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBotServer(t *testing.T, sent *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"collab","username":"collab_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			require.NoError(t, r.ParseForm())
			*sent = append(*sent, r.Form.Get("chat_id")+":"+r.Form.Get("text"))
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":5,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		}
	}))
}

func TestPushSendsMessage(t *testing.T) {
	var sent []string
	server := newBotServer(t, &sent)
	defer server.Close()

	pusher, err := NewPusher("token", server.URL+"/bot%s/%s", server.Client())
	require.NoError(t, err)
	require.NoError(t, pusher.Push(context.Background(), 42, "Olivia invited you"))
	assert.Equal(t, []string{"42:Olivia invited you"}, sent)
}

func TestPushHonoursCancelledContext(t *testing.T) {
	var sent []string
	server := newBotServer(t, &sent)
	defer server.Close()

	pusher, err := NewPusher("token", server.URL+"/bot%s/%s", server.Client())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pusher.Push(ctx, 42, "late"), context.Canceled)
	assert.Empty(t, sent)
}

func TestNewPusherFailsOnBadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer server.Close()

	_, err := NewPusher("bad", server.URL+"/bot%s/%s", server.Client())
	assert.Error(t, err)
}
