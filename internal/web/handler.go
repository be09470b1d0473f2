// AngelaMos | 2026
// handler.go

package web

import (
	"bytes"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/propsunday/classifieds-api/internal/core"
)

const indexFile = "index.html"

// Handler serves the bundled frontend. Paths that do not name a file fall
// back to index.html so client-side routes survive a reload. Anything
// under apiPrefix is never answered with HTML.
type Handler struct {
	files     fs.FS
	server    http.Handler
	apiPrefix string
}

func NewHandler(staticDir, apiPrefix string) *Handler {
	return NewFSHandler(os.DirFS(staticDir), apiPrefix)
}

func NewFSHandler(files fs.FS, apiPrefix string) *Handler {
	return &Handler{
		files:     files,
		server:    http.FileServerFS(files),
		apiPrefix: strings.TrimSuffix(apiPrefix, "/"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.isAPI(r.URL.Path) {
		core.Fail(w, http.StatusNotFound, "NOT_FOUND",
			"API endpoint not found. Please check the URL.", nil)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		core.Fail(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"Method not allowed", nil)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" && name != indexFile {
		if info, err := fs.Stat(h.files, name); err == nil && !info.IsDir() {
			h.server.ServeHTTP(w, r)
			return
		}
	}

	h.serveIndex(w, r)
}

// serveIndex writes index.html for any unmatched path. The request path
// is ignored, so traversal segments cannot reach outside the bundle.
func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	info, err := fs.Stat(h.files, indexFile)
	if err != nil {
		core.NotFound(w, indexFile)
		return
	}
	data, err := fs.ReadFile(h.files, indexFile)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, indexFile, info.ModTime(), bytes.NewReader(data))
}

func (h *Handler) isAPI(p string) bool {
	return h.apiPrefix != "" &&
		(p == h.apiPrefix || strings.HasPrefix(p, h.apiPrefix+"/"))
}
