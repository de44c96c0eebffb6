package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"learnpath-backend/internal/repository"
	"learnpath-backend/internal/services"
)

// FileHandler serves stored files under the stable pluginfile URL
// shape: /pluginfile.php/{contextid}/{component}/{area}/{itemid}/{path}.
type FileHandler struct {
	files *repository.FileRepo
	store *services.FileStore
}

func NewFileHandler(files *repository.FileRepo, store *services.FileStore) *FileHandler {
	return &FileHandler{files: files, store: store}
}

func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/pluginfile.php/")
	parts := strings.SplitN(rest, "/", 5)
	if len(parts) < 5 {
		http.NotFound(w, r)
		return
	}

	contextID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	component, area := parts[1], parts[2]
	itemID, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	filePath := "/"
	fileName := parts[4]
	if idx := strings.LastIndex(parts[4], "/"); idx >= 0 {
		filePath = "/" + parts[4][:idx+1]
		fileName = parts[4][idx+1:]
	}

	f, err := h.files.GetByPath(r.Context(), contextID, component, area, itemID, filePath, fileName)
	if err != nil || f == nil {
		http.NotFound(w, r)
		return
	}

	content, err := h.store.Open(f)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", f.MimeType)
	if r.URL.Query().Get("forcedownload") == "1" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+f.FileName+`"`)
	}
	// ServeContent handles range requests, which video playback needs.
	http.ServeContent(w, r, f.FileName, f.TimeModified, content)
}
