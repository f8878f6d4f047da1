package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quanghuydn8/app-theu/internal/order/entity"
	"github.com/quanghuydn8/app-theu/internal/order/service"
	"github.com/quanghuydn8/app-theu/internal/order/testutil"
	"github.com/quanghuydn8/app-theu/internal/shared/sse"
)

type urlImages struct{ n int }

func (u *urlImages) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	u.n++
	return fmt.Sprintf("/img/%d/%s", u.n, path.Base(name)), nil
}

func setupOrderRouter(t *testing.T) (*gin.Engine, *testutil.MemStore) {
	t.Helper()
	store := testutil.NewMemStore()
	svc := service.NewServices(service.Deps{
		Orders:    store,
		Customers: store,
		Images:    &urlImages{},
		Logger:    zap.NewNop(),
		Now:       func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC) },
	})
	router := testutil.SetupRouter()
	NewHandlers(svc, sse.NewHub(zap.NewNop())).Register(testutil.AuthGroup(router, "/api/v1"))
	return router, store
}

func createOrder(t *testing.T, router *gin.Engine, body gin.H) map[string]interface{} {
	t.Helper()
	if _, ok := body["items"]; !ok {
		body["items"] = []gin.H{{"product_name": "Áo thun"}}
	}
	w := testutil.DoRequest(router, "POST", "/api/v1/orders", body, testutil.DefaultTestToken())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.ParseResponse(w)["data"].(map[string]interface{})
}

func TestOrderHandler_RequiresToken(t *testing.T) {
	router, _ := setupOrderRouter(t)
	w := testutil.DoRequest(router, "GET", "/api/v1/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandler_CreateGetList(t *testing.T) {
	router, _ := setupOrderRouter(t)
	token := testutil.DefaultTestToken()

	created := createOrder(t, router, gin.H{
		"order_code":    "ORD-A",
		"customer_name": "Lan",
		"phone":         "0901234567",
		"shop":          "lc",
		"total_amount":  300000,
		"items":         []gin.H{{"product_name": "Hoodie"}},
	})
	assert.Equal(t, "ORD-A", created["order_code"])
	assert.Equal(t, "LANH_CANH", created["shop"])
	assert.Equal(t, "NEW", created["status"])

	w := testutil.DoRequest(router, "GET", "/api/v1/orders/ORD-A", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Len(t, data["items"], 1)

	w = testutil.DoRequest(router, "GET", "/api/v1/orders?keyword=lan&shop=LANH_CANH", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	list := testutil.ParseResponse(w)["data"].(map[string]interface{})
	pagination := list["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])
	assert.Equal(t, float64(1), pagination["total_pages"])
}

func TestOrderHandler_ErrorMapping(t *testing.T) {
	router, _ := setupOrderRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "GET", "/api/v1/orders/NOPE", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(40400), testutil.ParseResponse(w)["code"])

	w = testutil.DoRequest(router, "POST", "/api/v1/orders", gin.H{
		"order_code":     "ORD-B",
		"customer_name":  "Lan",
		"total_amount":   100000,
		"deposit_amount": 200000,
		"items":          []gin.H{{"product_name": "Polo"}},
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, float64(40000), testutil.ParseResponse(w)["code"])

	w = testutil.DoRequest(router, "GET", "/api/v1/orders?status=bogus", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.DoRequest(router, "POST", "/api/v1/orders", []byte("{not json"), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_StatusAndPrint(t *testing.T) {
	router, store := setupOrderRouter(t)
	token := testutil.DefaultTestToken()
	createOrder(t, router, gin.H{"order_code": "ORD-C", "customer_name": "Minh", "shop": "lc"})

	w := testutil.DoRequest(router, "GET", "/api/v1/orders/ORD-C/print-check", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	check := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Equal(t, false, check["allowed"])
	assert.NotEmpty(t, check["reason"])

	w = testutil.DoRequest(router, "POST", "/api/v1/orders/ORD-C/print", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = testutil.DoRequest(router, "POST", "/api/v1/orders/ORD-404/print", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoRequest(router, "PUT", "/api/v1/orders/ORD-C/status", gin.H{"status": "QUEUED"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.DoRequest(router, "POST", "/api/v1/orders/ORD-C/print", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "ORD-C")

	o, err := store.GetOrder(context.Background(), "ORD-C")
	require.NoError(t, err)
	assert.True(t, o.Printed)
}

func TestOrderHandler_PrintBatchRejectsWhole(t *testing.T) {
	router, store := setupOrderRouter(t)
	token := testutil.DefaultTestToken()
	createOrder(t, router, gin.H{"order_code": "ORD-D", "customer_name": "A", "shop": "lc"})
	createOrder(t, router, gin.H{"order_code": "ORD-E", "customer_name": "B", "shop": "lc"})
	testutil.DoRequest(router, "PUT", "/api/v1/orders/ORD-D/status", gin.H{"status": "QUEUED"}, token)

	w := testutil.DoRequest(router, "POST", "/api/v1/orders/print-batch", gin.H{"codes": []string{"ORD-D", "ORD-E", "ORD-X"}}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := testutil.ParseResponse(w)
	assert.Equal(t, float64(42200), resp["code"])
	rejections := resp["data"].(map[string]interface{})["rejections"].([]interface{})
	require.Len(t, rejections, 2)
	codes := []string{
		rejections[0].(map[string]interface{})["order_code"].(string),
		rejections[1].(map[string]interface{})["order_code"].(string),
	}
	assert.ElementsMatch(t, []string{"ORD-E", "ORD-X"}, codes)

	o, err := store.GetOrder(context.Background(), "ORD-D")
	require.NoError(t, err)
	assert.False(t, o.Printed)

	w = testutil.DoRequest(router, "POST", "/api/v1/orders/print-batch?format=json", gin.H{"codes": []string{"ORD-D"}}, token)
	require.Equal(t, http.StatusOK, w.Code)
	entries := testutil.ParseResponse(w)["data"].(map[string]interface{})["entries"].([]interface{})
	assert.Len(t, entries, 1)
}

func TestOrderHandler_Export(t *testing.T) {
	router, store := setupOrderRouter(t)
	createOrder(t, router, gin.H{"order_code": "ORD-F", "customer_name": "A", "shop": "inside"})

	w := testutil.DoRequest(router, "POST", "/api/v1/orders/export", gin.H{"codes": []string{"ORD-F"}}, testutil.DefaultTestToken())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Excel_Nobita_02_01.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	o, err := store.GetOrder(context.Background(), "ORD-F")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusQueued, o.Status)
}

func TestOrderHandler_UploadImage(t *testing.T) {
	router, store := setupOrderRouter(t)
	createOrder(t, router, gin.H{"order_code": "ORD-G", "customer_name": "A", "shop": "tgtd", "items": []gin.H{{"product_name": "Hoodie"}}})
	items, err := store.ListItems(context.Background(), "ORD-G")
	require.NoError(t, err)
	require.Len(t, items, 1)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range []string{"a.png", "b.png"} {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, _ = part.Write([]byte("png"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/v1/items/"+items[0].ID+"/images/design", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testutil.DefaultTestToken())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	item, err := store.GetItem(context.Background(), items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, len(strings.Split(item.ImgDesign, entity.MultiFileSeparator)))
}

func TestCustomerHandler_ReconcileNeedsRole(t *testing.T) {
	router, _ := setupOrderRouter(t)
	staff := testutil.GenerateTestToken("u-2", "Staff", []string{"staff"})

	w := testutil.DoRequest(router, "POST", "/api/v1/customers/reconcile", nil, staff)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.DoRequest(router, "POST", "/api/v1/customers/reconcile", nil, testutil.DefaultTestToken())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), testutil.ParseResponse(w)["data"].(map[string]interface{})["changed"])
}

func TestCustomerHandler_ListAndHistory(t *testing.T) {
	router, store := setupOrderRouter(t)
	token := testutil.DefaultTestToken()
	createOrder(t, router, gin.H{"order_code": "ORD-H", "customer_name": "Lan", "phone": "0909", "total_amount": 500000})

	c, err := store.GetCustomerByPhone(context.Background(), "0909")
	require.NoError(t, err)

	w := testutil.DoRequest(router, "GET", "/api/v1/customers?keyword=0909", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	list := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Len(t, list["items"], 1)

	w = testutil.DoRequest(router, "GET", "/api/v1/customers/"+c.ID+"/orders", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	history := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Len(t, history["items"], 1)

	w = testutil.DoRequest(router, "GET", "/api/v1/customers/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntakeHandler_Normalize(t *testing.T) {
	router, _ := setupOrderRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "POST", "/api/v1/intake/normalize", gin.H{
		"payload": gin.H{"customer_info": gin.H{"ten_khach": "Lan", "shop": "TGTD"}, "products": []gin.H{{"ten_sp": "Polo"}}},
		"text":    "gấp nhé",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	draft := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Equal(t, "TGTD", draft["shop"])
	assert.Equal(t, true, draft["has_fixed_deadline"])

	w = testutil.DoRequest(router, "POST", "/api/v1/intake/normalize", gin.H{"payload": "just text"}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, float64(42201), testutil.ParseResponse(w)["code"])

	w = testutil.DoRequest(router, "POST", "/api/v1/intake/parse", gin.H{"text": "xin chào"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler(t *testing.T) {
	router, _ := setupOrderRouter(t)
	token := testutil.DefaultTestToken()
	createOrder(t, router, gin.H{"order_code": "ORD-I", "customer_name": "A"})

	w := testutil.DoRequest(router, "GET", "/api/v1/dashboard/summary", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoRequest(router, "GET", "/api/v1/dashboard/reminders", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoRequest(router, "GET", "/api/v1/shops", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Len(t, data["shops"], 3)
	assert.Len(t, data["tags"], 5)
}

func TestGetPagination(t *testing.T) {
	router := testutil.SetupRouter()
	router.GET("/p", func(c *gin.Context) {
		page, size := GetPagination(c)
		Success(c, gin.H{"page": page, "size": size})
	})
	w := testutil.DoRequest(router, "GET", "/p?page=3&page_size=500", nil, "")
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["page"])
	assert.Equal(t, float64(20), data["size"])
}
