package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHTML(t *testing.T) {
	var got sendMessageReq
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	bot := NewBot("TOKEN", "-100", time.Second, WithBaseURL(srv.URL))
	require.NoError(t, bot.Notify(context.Background(), "ORD-1", "<b>hi</b>"))

	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "-100", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Equal(t, "<b>hi</b>", got.Text)
}

func TestSendHTMLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	err := NewBot("T", "1", time.Second, WithBaseURL(srv.URL)).SendHTML(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")

	assert.Error(t, NewBot("", "", 0).SendHTML(context.Background(), "x"))
	assert.False(t, NewBot("T", "", 0).Configured())
}
