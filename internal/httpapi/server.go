package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bgremover/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	// Upload starts a new session; processing continues after the call
	// returns and is bounded by ctx.
	Upload(ctx context.Context, name string, data []byte) types.UploadResponse
	Status() types.SessionStatus
	Blob(id string) (contentType string, data []byte, ok bool)
	Download() (name string, data []byte, ok bool)
	Unload() int
	// Keepalive records that the page is still open and returns the delay
	// before the next call is due (0 when idle teardown is off).
	Keepalive() time.Duration
	Ready() bool
	ModelStatus() types.ModelStatus
}

// uploadField is the multipart field carrying the image.
const uploadField = "image"

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})

	r.Post("/upload", func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		name, data, status, err := readUpload(r)
		if err != nil {
			IncrementUploadRejected(http.StatusText(status))
			writeJSONError(w, status, err.Error())
			return
		}
		resp := svc.Upload(serverBaseCtx, name, data)
		writeJSON(w, http.StatusAccepted, resp)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/blob/{id}", func(w http.ResponseWriter, r *http.Request) {
		ct, data, ok := svc.Blob(chi.URLParam(r, "id"))
		if !ok {
			writeJSONError(w, http.StatusNotFound, "reference revoked or unknown")
			return
		}
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(data)
	})

	r.Get("/download", func(w http.ResponseWriter, r *http.Request) {
		name, data, ok := svc.Download()
		if !ok {
			writeJSONError(w, http.StatusNotFound, "no result available")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(data)
	})

	r.Post("/unload", func(w http.ResponseWriter, r *http.Request) {
		svc.Unload()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/keepalive", func(w http.ResponseWriter, r *http.Request) {
		next := svc.Keepalive()
		writeJSON(w, http.StatusOK, types.KeepaliveResponse{NextMS: next.Milliseconds()})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			writeJSON(w, http.StatusOK, svc.ModelStatus())
			return
		}
		writeJSON(w, http.StatusServiceUnavailable, svc.ModelStatus())
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// readUpload extracts the image part. The returned status is meaningful only
// when err is non-nil.
func readUpload(r *http.Request) (string, []byte, int, error) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "multipart/form-data") {
		return "", nil, http.StatusUnsupportedMediaType, errors.New("Content-Type must be multipart/form-data")
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			return "", nil, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", maxBodyBytes)
		}
		return "", nil, http.StatusBadRequest, errors.New("invalid multipart body")
	}
	defer r.MultipartForm.RemoveAll()
	f, hdr, err := r.FormFile(uploadField)
	if err != nil {
		return "", nil, http.StatusBadRequest, errors.New("image field is required")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, http.StatusBadRequest, errors.New("failed to read upload")
	}
	if len(data) == 0 {
		return "", nil, http.StatusBadRequest, errors.New("image is empty")
	}
	return hdr.Filename, data, 0, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
