package feishu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToLarkMD(t *testing.T) {
	assert.Equal(t, "📂 **Đơn hàng A đang thiếu file**", htmlToLarkMD("📂 <b>Đơn hàng A đang thiếu file</b>"))
	assert.Equal(t, "x", htmlToLarkMD("<i>x</i>"))
}

func TestAlertNotifierSendsCard(t *testing.T) {
	tokenCalls := 0
	var sent map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/app_access_token/internal"):
			tokenCalls++
			_, _ = w.Write([]byte(`{"code":0,"app_access_token":"tok","expire":7200}`))
		case r.URL.Path == "/open-apis/im/v1/messages":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "chat_id", r.URL.Query().Get("receive_id_type"))
			_ = json.NewDecoder(r.Body).Decode(&sent)
			_, _ = w.Write([]byte(`{"code":0,"data":{"message_id":"m1"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	n := NewAlertNotifier(NewClient("app", "secret", WithBaseURL(srv.URL)), "oc_1")
	require.NoError(t, n.Notify(context.Background(), "ORD-1", "<b>hết phôi</b>"))
	require.NoError(t, n.Notify(context.Background(), "ORD-2", "<b>thiếu file</b>"))

	assert.Equal(t, 1, tokenCalls)
	assert.Equal(t, "oc_1", sent["receive_id"])
	assert.Contains(t, sent["content"], "ORD-2")
	assert.Contains(t, sent["content"], "**thiếu file**")
}

func TestDoRequestSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/app_access_token/internal") {
			_, _ = w.Write([]byte(`{"code":0,"app_access_token":"tok","expire":7200}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":230002,"msg":"bot not in chat"}`))
	}))
	defer srv.Close()

	err := NewClient("app", "secret", WithBaseURL(srv.URL)).SendCard(context.Background(), "oc_x", NewOrderAlertCard("A", "m"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "230002")
}
