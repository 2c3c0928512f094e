// backend/src/handlers/static_handler.go
package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/username/kuyumcu/backend/src/logger"
	"github.com/username/kuyumcu/backend/src/security/validation"
	"github.com/username/kuyumcu/backend/src/utils"
)

var mimeTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".map":   "application/json; charset=utf-8",
}

const defaultMimeType = "application/octet-stream"

// ContentType returns the served content type for a file name.
func ContentType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return defaultMimeType
}

// StaticHandler serves the frontend bundle with a single-page-app fallback to index.html.
type StaticHandler struct {
	root string
}

func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestPath := r.URL.Path
	if requestPath == "" || requestPath == "/" {
		requestPath = "/index.html"
	}

	filePath, err := validation.SafeJoin(h.root, requestPath)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Rejected static path", "path", r.URL.Path, "error", err)
		utils.SendText(w, "Bad path", http.StatusBadRequest)
		return
	}

	if isRegularFile(filePath) {
		serveFile(w, r, filePath)
		return
	}

	index := filepath.Join(h.root, "index.html")
	if isRegularFile(index) {
		serveFile(w, r, index)
		return
	}
	utils.SendText(w, "Not Found", http.StatusNotFound)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func serveFile(w http.ResponseWriter, r *http.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to open static file", "path", path, "error", err)
		utils.SendText(w, "Not Found", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", ContentType(path))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, f); err != nil {
		logger.FromContext(r.Context()).Debug("Static file copy interrupted", "path", path, "error", err)
	}
}

// BundleExists reports whether the bundle root is an existing directory.
func BundleExists(root string) bool {
	info, err := os.Stat(root)
	return err == nil && info.IsDir()
}
