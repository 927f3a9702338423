package connectors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"anchor-sync/internal/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc) *WalletConnector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewWalletConnector(&config.Config{
		APIBaseURL: srv.URL,
		CSRFToken:  "csrf-token",
		PageSize:   100,
	}, zap.NewNop())
}

func TestFetchPage_SendsWalletQuery(t *testing.T) {
	var got *http.Request
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"success":true,"data":{"orderPage":{"dataList":[],"totalCount":0}}}`))
	})

	res := c.FetchPage(context.Background(), PageRequest{
		AnchorName: "alice",
		Cookie:     "sid=abc",
		PageNo:     2,
		StartTime:  "20250101 00:00:00",
		EndTime:    "20250131 23:59:59",
	})
	require.True(t, res.Success)

	q := got.URL.Query()
	require.Equal(t, "csrf-token", q.Get("_csrf"))
	require.Equal(t, "0", q.Get("dateType"))
	require.Equal(t, "-1", q.Get("orderStatus"))
	require.Equal(t, "2", q.Get("pageNo"))
	require.Equal(t, "100", q.Get("pageSize"))
	require.Equal(t, "1", q.Get("type"))
	require.Equal(t, "20250101 00:00:00", q.Get("startTime"))
	require.Equal(t, "20250131 23:59:59", q.Get("endTime"))
	require.Equal(t, "sid=abc", got.Header.Get("Cookie"))
	require.Equal(t, "csrf-token", got.Header.Get("X-XSRF-TOKEN"))
}

func TestFetchPage_Classification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantOK    bool
		wantKind  ErrorKind
		wantMsg   string
		wantCount int
		wantRows  int
	}{
		{
			name:      "orders",
			status:    http.StatusOK,
			body:      `{"success":true,"data":{"orderPage":{"dataList":[{"bizOrderId":"1"},{"bizOrderId":2}],"totalCount":"250"}}}`,
			wantOK:    true,
			wantCount: 250,
			wantRows:  2,
		},
		{
			name:     "http error",
			status:   http.StatusBadGateway,
			body:     `upstream down`,
			wantKind: KindHTTP,
			wantMsg:  "HTTP 502: Bad Gateway",
		},
		{
			name:     "login page",
			status:   http.StatusOK,
			body:     `<!DOCTYPE html><html><body>login</body></html>`,
			wantKind: KindCredentialExpired,
			wantMsg:  "NOT_LOGIN: cookie invalid, login required",
		},
		{
			name:     "broken json",
			status:   http.StatusOK,
			body:     `{"success":`,
			wantKind: KindParse,
		},
		{
			name:     "ret array",
			status:   http.StatusOK,
			body:     `{"success":false,"ret":["FAIL_SYS_SESSION_EXPIRED","NOT_LOGIN"]}`,
			wantKind: KindCredentialExpired,
			wantMsg:  "FAIL_SYS_SESSION_EXPIRED: NOT_LOGIN",
		},
		{
			name:     "msg",
			status:   http.StatusOK,
			body:     `{"success":false,"msg":"rate limited"}`,
			wantKind: KindService,
			wantMsg:  "rate limited",
		},
		{
			name:     "no detail",
			status:   http.StatusOK,
			body:     `{"success":false}`,
			wantKind: KindService,
			wantMsg:  "unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			res := c.FetchPage(context.Background(), PageRequest{PageNo: 1})
			require.Equal(t, tt.wantOK, res.Success)
			if tt.wantOK {
				require.Nil(t, res.Err)
				require.Len(t, res.Orders, tt.wantRows)
				require.Equal(t, tt.wantCount, res.TotalCount)
				return
			}

			require.NotNil(t, res.Err)
			require.Empty(t, res.Orders)
			require.Equal(t, tt.wantKind, res.Err.Kind)
			if tt.wantMsg != "" {
				require.Equal(t, tt.wantMsg, res.ErrorMessage())
			}
		})
	}
}

func TestFetchPage_TransportError(t *testing.T) {
	c := NewWalletConnector(&config.Config{APIBaseURL: "http://127.0.0.1:1", PageSize: 100}, zap.NewNop())

	res := c.FetchPage(context.Background(), PageRequest{PageNo: 1})
	require.False(t, res.Success)
	require.Equal(t, KindTransport, res.Err.Kind)
}

func TestIsCredentialExpired(t *testing.T) {
	require.True(t, IsCredentialExpired("FAIL_SYS: NOT_LOGIN"))
	require.False(t, IsCredentialExpired("HTTP 500: Internal Server Error"))
	require.False(t, IsCredentialExpired(""))
}
