package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"food-ordering-system/internal/logger"
)

// handledByHeader names the upstream that served a proxied request.
const handledByHeader = "X-Handled-By"

// Headers never copied onto the outbound request. Content-Length is
// recomputed from the forwarded body.
var skippedRequestHeaders = map[string]bool{
	"host":           true,
	"content-length": true,
}

// Headers stripped from the relayed response. The proxy re-frames the
// body itself, so passing these through would produce length and
// encoding mismatches at the client.
var skippedResponseHeaders = map[string]bool{
	"content-length":    true,
	"transfer-encoding": true,
	"connection":        true,
	"content-encoding":  true,
}

// Proxy forwards inbound requests to the service resolved from the
// routing table and relays the upstream response verbatim. Failed
// forwards are reported to the caller; there is no retry or failover.
type Proxy struct {
	table   *RoutingTable
	client  *fasthttp.Client
	timeout time.Duration
	logger  *logger.Logger
}

// NewProxy creates a proxy over the given routing table. Every
// forwarded call is bounded by timeout.
func NewProxy(table *RoutingTable, timeout time.Duration, log *logger.Logger) *Proxy {
	return &Proxy{
		table: table,
		client: &fasthttp.Client{
			MaxIdleConnDuration: time.Minute,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		timeout: timeout,
		logger:  log,
	}
}

// Handler is the fasthttp entry point for METHOD /{service}/{path...}.
func (p *Proxy) Handler(ctx *fasthttp.RequestCtx) {
	requestID := logger.GenerateRequestID()

	service, subPath := splitServicePath(string(ctx.Path()))
	if service == "" {
		p.writeError(ctx, fasthttp.StatusNotFound, "Service not found")
		return
	}

	target, err := p.table.Resolve(service, subPath)
	if err != nil {
		p.logger.Debug("route_not_found", "No route for service", requestID, map[string]interface{}{
			"service": service,
		})
		p.writeError(ctx, fasthttp.StatusNotFound, "Service not found")
		return
	}
	if query := ctx.QueryArgs().QueryString(); len(query) > 0 {
		target = target + "?" + string(query)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethodBytes(ctx.Method())
	ctx.Request.Header.VisitAll(func(key, value []byte) {
		if !skippedRequestHeaders[strings.ToLower(string(key))] {
			req.Header.AddBytesKV(key, value)
		}
	})
	req.SetRequestURI(target)
	req.SetBody(ctx.Request.Body())

	if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
		p.logger.Error("proxy_failed", "Upstream call failed", requestID, err, map[string]interface{}{
			"service": service,
			"target":  target,
		})
		p.writeError(ctx, fasthttp.StatusBadGateway, err.Error())
		return
	}

	p.relay(ctx, resp, target)

	p.logger.Debug("request_proxied", fmt.Sprintf("%s /%s/%s -> %d", ctx.Method(), service, subPath, resp.StatusCode()),
		requestID, map[string]interface{}{
			"service": service,
			"target":  target,
			"status":  resp.StatusCode(),
		})
}

// relay copies the upstream response onto the inbound context. Upstream
// 4xx/5xx are opaque pass-through, never gateway errors.
func (p *Proxy) relay(ctx *fasthttp.RequestCtx, resp *fasthttp.Response, target string) {
	ctx.SetStatusCode(resp.StatusCode())

	resp.Header.VisitAll(func(key, value []byte) {
		if !skippedResponseHeaders[strings.ToLower(string(key))] {
			ctx.Response.Header.AddBytesKV(key, value)
		}
	})
	ctx.Response.Header.Set(handledByHeader, target)

	body, err := resp.BodyUncompressed()
	if err != nil {
		body = resp.Body()
	}
	ctx.SetBody(append([]byte(nil), body...))
}

func (p *Proxy) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	fmt.Fprintf(ctx, `{"error":%q}`, message)
}

// Server mounts the proxy on a fasthttp server.
func (p *Proxy) Server() *fasthttp.Server {
	return &fasthttp.Server{
		Handler:      p.Handler,
		Name:         "food-ordering-gateway",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// splitServicePath splits "/order/create" into ("order", "create").
func splitServicePath(path string) (service, subPath string) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
