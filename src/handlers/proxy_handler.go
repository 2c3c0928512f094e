// backend/src/handlers/proxy_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/username/kuyumcu/backend/src/logger"
	"github.com/username/kuyumcu/backend/src/metrics"
	"github.com/username/kuyumcu/backend/src/utils"
	"golang.org/x/net/http/httpguts"
)

const proxyCopyBufferSize = 32 * 1024

// Request headers that describe the client connection rather than the request.
var droppedRequestHeaders = []string{"Host", "Connection", "Upgrade", "Accept-Encoding", "Content-Length"}

// Response headers that no longer match the re-framed, decoded body.
var droppedResponseHeaders = map[string]bool{
	"Transfer-Encoding": true,
	"Content-Encoding":  true,
	"Content-Length":    true,
}

// ProxyHandler forwards requests under a path prefix to a fixed origin.
type ProxyHandler struct {
	name   string
	target *url.URL
	prefix string
	client *http.Client
}

// NewProxyHandler builds a proxy for prefix (e.g. "/api") to target. timeout bounds the wait for
// upstream response headers only, so long bodies keep streaming.
func NewProxyHandler(name, target, prefix string, timeout time.Duration) (*ProxyHandler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid %s target %q: %w", name, target, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid %s target %q: need an absolute http(s) URL", name, target)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &ProxyHandler{
		name:   name,
		target: u,
		prefix: strings.TrimSuffix(prefix, "/"),
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// Matches reports whether path is the prefix itself or lies below it.
func (h *ProxyHandler) Matches(path string) bool {
	return path == h.prefix || strings.HasPrefix(path, h.prefix+"/")
}

// targetURL places the prefix-stripped path and the query on the origin. The path is set as a
// field, never re-parsed, so a request path cannot change the origin's authority.
func (h *ProxyHandler) targetURL(r *http.Request) (*url.URL, error) {
	escaped := r.URL.EscapedPath()
	if h.Matches(r.URL.Path) {
		if strings.HasPrefix(escaped, h.prefix) {
			escaped = strings.TrimPrefix(escaped, h.prefix)
		} else {
			// The prefix itself arrived percent-encoded.
			escaped = (&url.URL{Path: strings.TrimPrefix(r.URL.Path, h.prefix)}).EscapedPath()
		}
	}
	if !strings.HasPrefix(escaped, "/") {
		escaped = "/" + escaped
	}
	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, err
	}

	u := *h.target
	u.Path = decoded
	u.RawPath = escaped
	u.RawQuery = r.URL.RawQuery
	u.Fragment = ""
	u.RawFragment = ""
	return &u, nil
}

func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	start := time.Now()

	target, err := h.targetURL(r)
	if err != nil {
		h.fail(w, r, start, err)
		return
	}

	var body io.Reader
	if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Body != nil {
		buf, err := io.ReadAll(r.Body)
		if err != nil {
			h.fail(w, r, start, fmt.Errorf("reading request body: %w", err))
			return
		}
		if len(buf) > 0 {
			body = bytes.NewReader(buf)
		}
	}

	outReq, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), body)
	if err != nil {
		h.fail(w, r, start, err)
		return
	}
	for key, values := range r.Header {
		for _, v := range values {
			outReq.Header.Add(key, v)
		}
	}
	for _, key := range droppedRequestHeaders {
		outReq.Header.Del(key)
	}

	resp, err := h.client.Do(outReq)
	if err != nil {
		h.fail(w, r, start, err)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if droppedResponseHeaders[http.CanonicalHeaderKey(key)] || !httpguts.ValidHeaderFieldName(key) {
			continue
		}
		for _, v := range values {
			if httpguts.ValidHeaderFieldValue(v) {
				w.Header().Add(key, v)
			}
		}
	}
	w.WriteHeader(resp.StatusCode)
	metrics.RecordProxyRequest(h.name, resp.StatusCode, time.Since(start))
	ctxLogger.Debug("Proxied request", "upstream", h.name, "method", r.Method, "path", r.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if err := streamBody(w, resp.Body); err != nil && !errors.Is(err, r.Context().Err()) {
		// Headers are already sent; the client sees a truncated body.
		ctxLogger.Warn("Proxy stream interrupted", "upstream", h.name, "path", r.URL.Path, "error", err)
	}
}

func (h *ProxyHandler) fail(w http.ResponseWriter, r *http.Request, start time.Time, err error) {
	metrics.RecordProxyRequest(h.name, 0, time.Since(start))
	logger.FromContext(r.Context()).Warn("Proxy error", "upstream", h.name, "method", r.Method,
		"path", r.URL.Path, "error", err)
	utils.SendText(w, "Proxy error: "+err.Error(), http.StatusBadGateway)
}

// streamBody copies src to w chunk by chunk, flushing after every write.
func streamBody(w http.ResponseWriter, src io.Reader) error {
	rc := http.NewResponseController(w)
	buf := make([]byte, proxyCopyBufferSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return err
			}
			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
