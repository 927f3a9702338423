package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDingTalkWebhook_Send(t *testing.T) {
	var (
		gotToken string
		gotMsg   dingTalkMessage
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("access_token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotMsg))
		w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	defer srv.Close()

	hook := NewDingTalkWebhook(srv.URL, "robot-key")
	require.True(t, hook.Enabled())
	require.NoError(t, hook.Send(context.Background(), "hello"))

	require.Equal(t, "robot-key", gotToken)
	require.Equal(t, "text", gotMsg.MsgType)
	require.Equal(t, "hello", gotMsg.Text.Content)
}

func TestDingTalkWebhook_ErrCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errcode":310000,"errmsg":"keywords not in content"}`))
	}))
	defer srv.Close()

	err := NewDingTalkWebhook(srv.URL, "robot-key").Send(context.Background(), "hello")
	require.ErrorIs(t, err, ErrDingTalk)
	require.Contains(t, err.Error(), "keywords not in content")
}

func TestDingTalkWebhook_DisabledIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	hook := NewDingTalkWebhook(srv.URL, "")
	require.False(t, hook.Enabled())
	require.NoError(t, hook.Send(context.Background(), "hello"))
	require.False(t, called)
}
