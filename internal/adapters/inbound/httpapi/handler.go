package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sufield/mapgw/internal/debug"
	"github.com/sufield/mapgw/internal/domain"
	"github.com/sufield/mapgw/internal/mapfile"
	"github.com/sufield/mapgw/internal/observability"
	"github.com/sufield/mapgw/internal/ports"
)

// Options configures the HTTP handler.
type Options struct {
	// ImagePath and ImageURL are passed to every image render.
	ImagePath string
	ImageURL  string

	// Metrics enables request metrics and the /metrics route when set.
	Metrics *observability.Metrics
}

// handler serves the gateway routes.
type handler struct {
	gateway  ports.MapService
	registry ports.MapRegistry
	opts     Options
}

// mapInfo is the JSON view of a map record.
type mapInfo struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Mapfile        string    `json:"mapfile"`
	Template       string    `json:"template"`
	OnlineResource string    `json:"online_resource,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// statusInfo is the JSON view of the installation status.
type statusInfo struct {
	Endpoint  string `json:"endpoint"`
	Installed bool   `json:"installed"`
	Mapscript bool   `json:"mapscript"`
	Version   int    `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      int    `json:"code,omitempty"`
}

// NewHandler returns the chi router serving gw and reg.
func NewHandler(gw ports.MapService, reg ports.MapRegistry, opts Options) http.Handler {
	h := &handler{gateway: gw, registry: reg, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/healthz", h.healthz)
	r.Get("/status", h.status)

	r.Route("/maps", func(r chi.Router) {
		r.Get("/", h.listMaps)
		r.Route("/{name}", func(r chi.Router) {
			r.Post("/", h.createMap)
			r.Get("/", h.getMap)
			r.Delete("/", h.deleteMap)
			r.Get("/capabilities", h.capabilities)
			r.Get("/image", h.image)
		})
	})
	return r
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	info := statusInfo{
		Endpoint:  h.gateway.Path(),
		Mapscript: h.gateway.MapscriptExists(),
	}

	installed, err := h.gateway.IsInstalled(r.Context())
	info.Installed = installed
	if err != nil {
		info.Error = err.Error()
		info.Code = domain.Code(err)
	}
	if h.opts.Metrics != nil {
		h.opts.Metrics.SetInstalled(installed)
	}

	if v, err := h.gateway.Version(r.Context()); err == nil {
		info.Version = v
	} else {
		debug.GetLogger().Debugf("engine version unavailable: %v", err)
	}

	status := http.StatusOK
	if !installed {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, info)
}

func (h *handler) listMaps(w http.ResponseWriter, r *http.Request) {
	records, err := h.registry.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]mapInfo, 0, len(records))
	for _, rec := range records {
		out = append(out, toMapInfo(rec, ""))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) createMap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := domain.ValidateMapName(name); err != nil {
		writeError(w, r, err)
		return
	}

	storage := h.gateway.StoragePath()
	if err := os.MkdirAll(storage, 0o755); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", domain.ErrConfigWriteFailed, err))
		return
	}
	mapfilePath, templatePath := domain.StorageFiles(storage, name)

	m, err := h.gateway.CreateMap(r.Context(), name, mapfilePath, templatePath)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := domain.NewMapRecord(name, mapfilePath, templatePath)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stored, err := h.registry.Put(r.Context(), *rec)
	if err != nil {
		writeError(w, r, err)
		return
	}

	debug.GetLogger().Debugf("map %s created at %s", name, mapfilePath)
	writeJSON(w, http.StatusCreated, toMapInfo(stored, m.MetaData("wms_onlineresource")))
}

func (h *handler) getMap(w http.ResponseWriter, r *http.Request) {
	rec, err := h.lookup(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMapInfo(rec, ""))
}

func (h *handler) deleteMap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := domain.ValidateMapName(name); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.registry.Delete(r.Context(), name); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) capabilities(w http.ResponseWriter, r *http.Request) {
	m, err := h.open(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.gateway.CapabilitiesResponse(r.Context(), m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.ServeHTTP(w, r)
}

func (h *handler) image(w http.ResponseWriter, r *http.Request) {
	m, err := h.open(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := h.gateway.ImageResponse(r.Context(), m, h.opts.ImagePath, h.opts.ImageURL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.ServeHTTP(w, r)
}

// lookup returns the registry record named in the URL.
func (h *handler) lookup(r *http.Request) (domain.MapRecord, error) {
	name := chi.URLParam(r, "name")
	if err := domain.ValidateMapName(name); err != nil {
		return domain.MapRecord{}, err
	}
	return h.registry.Get(r.Context(), name)
}

// open loads the registered map named in the URL without rewriting it.
func (h *handler) open(r *http.Request) (*mapfile.Map, error) {
	rec, err := h.lookup(r)
	if err != nil {
		return nil, err
	}
	return h.gateway.OpenMap(r.Context(), rec.Name, rec.MapfilePath, rec.TemplatePath)
}

func toMapInfo(rec domain.MapRecord, onlineResource string) mapInfo {
	return mapInfo{
		ID:             rec.ID,
		Name:           rec.Name,
		Mapfile:        rec.MapfilePath,
		Template:       rec.TemplatePath,
		OnlineResource: onlineResource,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}
