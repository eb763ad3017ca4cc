package web

// proxy.go implements the same-origin pass-through used by browser
// hosts to dodge cross-origin restrictions when testing enrichment
// rules. It is a dumb forwarder with guardrails: http/https only, no
// loopback/link-local/private-range/cloud-metadata destinations, a hard
// timeout, and a response size cap. Only a small allow-list of upstream
// headers is echoed back.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// blockedHosts are denied outright, including any subdomain.
var blockedHosts = []string{
	"localhost",
	"127.0.0.1",
	"0.0.0.0",
	"::1",
	"169.254.169.254",          // AWS metadata
	"metadata.google.internal", // GCP metadata
}

// safeResponseHeaders is the allow-list echoed back to the caller.
var safeResponseHeaders = []string{
	"Content-Type", "Content-Length", "Etag", "Last-Modified", "Cache-Control",
}

// validateURL is a hook so tests can point the proxy at loopback
// upstreams, which the real validator refuses.
var validateURL = validateProxyURL

// proxyRequest is the client-supplied description of the upstream call.
type proxyRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body"`
}

// proxyResponse wraps the upstream result.
type proxyResponse struct {
	Data    any               `json:"data"`
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
}

// handleProxy forwards one request to an external API and relays the
// response with the upstream status code.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	var req proxyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.URL == "" {
		writeError(w, r, http.StatusBadRequest, "url is required")
		return
	}
	if err := validateURL(req.URL); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Proxy.Timeout)
	defer cancel()

	var body io.Reader
	if method != http.MethodGet && req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
			return
		}
		body = bytes.NewReader(encoded)
	}

	upstream, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	upstream.Header.Set("Content-Type", "application/json")
	for k, v := range req.Headers {
		upstream.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(upstream)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			writeError(w, r, http.StatusGatewayTimeout, "request timeout: the upstream server took too long to respond")
			return
		}
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.Proxy.MaxResponseSize+1))
	if err != nil {
		writeError(w, r, http.StatusBadGateway, fmt.Sprintf("read upstream response: %v", err))
		return
	}
	if int64(len(raw)) > s.cfg.Proxy.MaxResponseSize {
		writeError(w, r, http.StatusRequestEntityTooLarge, "response too large")
		return
	}

	var data any
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &data); err != nil {
			data = string(raw)
		}
	} else {
		data = string(raw)
	}

	headers := make(map[string]string)
	for _, name := range safeResponseHeaders {
		if v := resp.Header.Get(name); v != "" {
			headers[name] = v
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	json.NewEncoder(w).Encode(proxyResponse{
		Data:    data,
		Status:  resp.StatusCode,
		Headers: headers,
	})
}

// validateProxyURL rejects destinations that could reach internal
// infrastructure (basic SSRF protection).
func validateProxyURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("only HTTP/HTTPS protocols are allowed")
	}

	hostname := strings.ToLower(parsed.Hostname())
	if hostname == "" {
		return fmt.Errorf("invalid URL format")
	}

	for _, blocked := range blockedHosts {
		if hostname == blocked || strings.HasSuffix(hostname, "."+blocked) {
			return fmt.Errorf("access to local/private addresses is not allowed")
		}
	}

	if ip := net.ParseIP(hostname); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
			ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return fmt.Errorf("access to private IP addresses is not allowed")
		}
	}

	return nil
}
