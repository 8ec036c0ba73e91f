package media

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"gorelay/internal/dbmongo"
)

// HTTPServer serves uploaded files back out of durable storage. The file
// URLs stored on messages point here.
type HTTPServer struct {
	storage *dbmongo.MediaStorage
}

func NewHTTPServer(storage *dbmongo.MediaStorage) *HTTPServer {
	return &HTTPServer{storage: storage}
}

// RegisterRoutes mounts the media endpoints on the shared router
func (s *HTTPServer) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/media/{fileId}", s.serveFile).Methods("GET")
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fileID := vars["fileId"]

	fileReader, mediaFile, err := s.storage.DownloadFile(r.Context(), fileID)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(mediaFile.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", mediaFile.Size))

	if _, err := io.Copy(w, fileReader); err != nil {
		log.Printf("media: error streaming file %s: %v", fileID, err)
	}
}

func contentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	default:
		return "application/octet-stream"
	}
}
