package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"food-ordering-system/internal/logger"
)

func newTestProxy(t *testing.T, coreURL string, nodes []string) *Proxy {
	t.Helper()
	table := NewRoutingTable(coreURL, nodes)
	return NewProxy(table, 2*time.Second, logger.New("gateway-test"))
}

func invoke(p *Proxy, method, uri string, body []byte) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		req.SetBody(body)
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	p.Handler(&ctx)
	return &ctx
}

func TestProxy_RelaysStaticRoute(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hotel/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"id":1}]`))
	}))
	defer upstream.Close()

	p := newTestProxy(t, upstream.URL, []string{"http://unused"})
	ctx := invoke(p, "GET", "http://gateway/hotel/list", nil)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, `[{"id":1}]`, string(ctx.Response.Body()))
	assert.Equal(t, upstream.URL+"/hotel/list", string(ctx.Response.Header.Peek("X-Handled-By")))
}

func TestProxy_ForwardsMethodAndBody(t *testing.T) {
	var gotMethod, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	p := newTestProxy(t, "http://unused", []string{upstream.URL})
	payload := []byte(`{"restaurant_name":"Spice Villa"}`)
	ctx := invoke(p, "POST", "http://gateway/order/create", payload)

	assert.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, string(payload), gotBody)
}

func TestProxy_RotatesTransactionPool(t *testing.T) {
	makeUpstream := func(tag string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tag))
		}))
	}

	a := makeUpstream("node-a")
	defer a.Close()
	b := makeUpstream("node-b")
	defer b.Close()

	p := newTestProxy(t, "http://unused", []string{a.URL, b.URL})

	want := []string{"node-a", "node-b", "node-a", "node-b"}
	for i, tag := range want {
		ctx := invoke(p, "POST", "http://gateway/payment/process", []byte(`{}`))
		assert.Equal(t, tag, string(ctx.Response.Body()), "request %d", i)
	}
}

func TestProxy_UnknownServiceIs404AndSkipsPool(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("node-a"))
	}))
	defer upstream.Close()

	p := newTestProxy(t, "http://unused", []string{upstream.URL, "http://dead"})

	ctx := invoke(p, "GET", "http://gateway/inventory/list", nil)
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	var body map[string]string
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.Equal(t, "Service not found", body["error"])

	// The failed lookup must not have advanced the rotation.
	next := invoke(p, "POST", "http://gateway/order/create", []byte(`{}`))
	assert.Equal(t, "node-a", string(next.Response.Body()))
}

func TestProxy_DeadUpstreamIs502(t *testing.T) {
	p := newTestProxy(t, "http://unused", []string{"http://127.0.0.1:1"})

	ctx := invoke(p, "POST", "http://gateway/order/create", []byte(`{}`))
	assert.Equal(t, fasthttp.StatusBadGateway, ctx.Response.StatusCode())

	var body map[string]string
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestProxy_StripsHopHeaders(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Custom", "kept")
		w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	p := newTestProxy(t, upstream.URL, []string{"http://unused"})
	ctx := invoke(p, "GET", "http://gateway/hotel/list", nil)

	assert.Equal(t, "kept", string(ctx.Response.Header.Peek("X-Custom")))
	assert.Empty(t, string(ctx.Response.Header.Peek("Transfer-Encoding")))
	assert.Empty(t, string(ctx.Response.Header.Peek("Content-Encoding")))
}

func TestProxy_ForwardsQueryString(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	p := newTestProxy(t, upstream.URL, []string{"http://unused"})
	invoke(p, "GET", "http://gateway/hotel/list?city=Pune", nil)

	assert.Equal(t, "city=Pune", gotQuery)
}

func TestSplitServicePath(t *testing.T) {
	tests := []struct {
		path    string
		service string
		subPath string
	}{
		{"/order/create", "order", "create"},
		{"/order/123", "order", "123"},
		{"/auth/user/alice", "auth", "user/alice"},
		{"/hotel", "hotel", ""},
		{"/", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			service, subPath := splitServicePath(tt.path)
			assert.Equal(t, tt.service, service)
			assert.Equal(t, tt.subPath, subPath)
		})
	}
}
