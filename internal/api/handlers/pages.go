package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RMahshie/medvis/internal/attention"
	"github.com/RMahshie/medvis/internal/content"
	"github.com/RMahshie/medvis/internal/gaze"
	"github.com/RMahshie/medvis/internal/lvef"
	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/internal/web"
	"github.com/RMahshie/medvis/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PageConfig holds settings of the HTML pages
type PageConfig struct {
	// BasePath is the public prefix links are generated with.
	BasePath    string
	Width       int
	Height      int
	DotRadius   int
	FadeRefresh time.Duration
}

// PageHandler renders the HTML pages
type PageHandler struct {
	content   repository.ContentRepository
	assets    content.AssetResolver
	renderer  *web.Renderer
	attention attention.Service
	cfg       PageConfig
}

// NewPageHandler creates a new page handler
func NewPageHandler(repo repository.ContentRepository, assets content.AssetResolver, renderer *web.Renderer, svc attention.Service, cfg PageConfig) *PageHandler {
	return &PageHandler{
		content:   repo,
		assets:    assets,
		renderer:  renderer,
		attention: svc,
		cfg:       cfg,
	}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.TemplateHome, content.PageMain, "", nil)
}

// LVEF shows the calculator with an empty form
func (h *PageHandler) LVEF(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.TemplateLVEF, content.PageLVEF, "LVEF", web.LVEFForm{Bands: lvef.Bands()})
}

// SubmitLVEF computes the ejection fraction from the posted form
func (h *PageHandler) SubmitLVEF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := web.LVEFForm{
		EDV:   r.PostFormValue("edv"),
		ESV:   r.PostFormValue("esv"),
		Bands: lvef.Bands(),
	}

	status := http.StatusOK
	result, err := computeForm(form.EDV, form.ESV)
	if err != nil {
		form.Error = err.Error()
		status = http.StatusBadRequest
		if errors.Is(err, lvef.ErrRangeViolation) {
			status = http.StatusUnprocessableEntity
		}
	} else {
		form.Result = &result
	}

	h.render(w, r, status, web.TemplateLVEF, content.PageLVEF, "LVEF", form)
}

func computeForm(edvText, esvText string) (lvef.Result, error) {
	in, err := lvef.ParseInput(edvText, esvText)
	if err != nil {
		return lvef.Result{}, err
	}
	return lvef.Compute(in.EDV, in.ESV)
}

// Attention shows the gaze demo; the page script opens its own session
func (h *PageHandler) Attention(w http.ResponseWriter, r *http.Request) {
	surface := web.AttentionSurface{
		APIBase:       h.cfg.BasePath + "/api/attention/sessions",
		Width:         h.cfg.Width,
		Height:        h.cfg.Height,
		DotRadius:     gaze.ClampRadius(h.cfg.DotRadius),
		MinRadius:     gaze.MinDotRadius,
		MaxRadius:     gaze.MaxDotRadius,
		RefreshMillis: h.cfg.FadeRefresh.Milliseconds(),
	}
	h.render(w, r, http.StatusOK, web.TemplateAttention, content.PageAttention, "Attention", surface)
}

func (h *PageHandler) OpenMirai(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.TemplateOpenMirai, content.PageOpenMirai, "OpenMirai", nil)
}

func (h *PageHandler) LimAyutthaya(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, web.TemplateLimAyutthaya, content.PageLimAyutthaya, "Lim Ayutthaya", nil)
}

// FramePNG serves the current frame of a session as an image
func (h *PageHandler) FramePNG(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.attention.FramePNG(r.Context(), id, &buf); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("session_id", id.String()).Msg("Failed to render frame")
		http.Error(w, "Failed to render frame", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, tmpl, page, title string, data any) {
	ctx := r.Context()

	main, err := h.content.GetPage(ctx, content.PageMain)
	if err != nil {
		h.pageError(w, content.PageMain, err)
		return
	}
	labels := main
	if page != content.PageMain {
		if labels, err = h.content.GetPage(ctx, page); err != nil {
			h.pageError(w, page, err)
			return
		}
	}

	var buf bytes.Buffer
	err = h.renderer.Render(&buf, tmpl, web.Page{
		Title:    title,
		BasePath: h.cfg.BasePath,
		Main:     main,
		Labels:   labels,
		Images:   h.images(ctx, main, labels),
		Data:     data,
	})
	if err != nil {
		log.Error().Err(err).Str("template", tmpl).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// images resolves the image references of both documents; the page's own
// names win over the shared ones.
func (h *PageHandler) images(ctx context.Context, main, labels models.PageContent) map[string]string {
	paths := main.Images()
	for name, path := range labels.Images() {
		paths[name] = path
	}
	return content.ResolveAll(ctx, h.assets, paths)
}

func (h *PageHandler) pageError(w http.ResponseWriter, page string, err error) {
	if errors.Is(err, repository.ErrPageNotFound) {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	log.Error().Err(err).Str("page", page).Msg("Failed to load page content")
	http.Error(w, "Failed to load page content", http.StatusInternalServerError)
}
