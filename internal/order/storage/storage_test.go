package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := ObjectName("ORD-0102/1504", "Logo.PNG", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(name, "orders/2024/01/ORD-0102_1504/"), name)
	assert.True(t, strings.HasSuffix(name, ".png"), name)
}

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads/")

	url, err := store.Put(context.Background(), "orders/2024/01/A/x.png", strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/orders/2024/01/A/x.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "orders", "2024", "01", "A", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
}

func TestNewMinIOStoreDefaultsPublicURL(t *testing.T) {
	s, err := NewMinIOStore("localhost:9000", "k", "s", "stitch", false, "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/stitch", s.publicURL)
}
