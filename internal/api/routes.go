package api

import (
	"net/http"

	"github.com/RMahshie/medvis/internal/api/handlers"
	"github.com/RMahshie/medvis/internal/attention"
	"github.com/RMahshie/medvis/internal/content"
	"github.com/RMahshie/medvis/internal/repository"
	"github.com/RMahshie/medvis/internal/web"
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// RegisterAPI sets up all JSON operations
func RegisterAPI(api huma.API, attentionSvc attention.Service, contentRepo repository.ContentRepository, assets content.AssetResolver) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(attentionSvc)
	lvefHandler := handlers.NewLVEFHandler()
	contentHandler := handlers.NewContentHandler(contentRepo, assets)
	attentionHandler := handlers.NewAttentionHandler(attentionSvc)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, healthHandler.Health)

	// Register LVEF routes
	huma.Register(api, huma.Operation{
		OperationID: "computeLVEF",
		Method:      http.MethodPost,
		Path:        "/api/lvef",
		Summary:     "Compute ejection fraction",
		Description: "Computes LVEF from end-diastolic and end-systolic volumes and classifies it",
		Tags:        []string{"LVEF"},
	}, lvefHandler.Compute)

	huma.Register(api, huma.Operation{
		OperationID: "listLVEFCategories",
		Method:      http.MethodGet,
		Path:        "/api/lvef/categories",
		Summary:     "List LVEF categories",
		Description: "Returns the classification bands, highest first",
		Tags:        []string{"LVEF"},
	}, lvefHandler.ListCategories)

	huma.Register(api, huma.Operation{
		OperationID: "getContent",
		Method:      http.MethodGet,
		Path:        "/api/content/{page}",
		Summary:     "Get page content",
		Description: "Returns the display labels of a page with image URLs resolved",
		Tags:        []string{"Content"},
	}, contentHandler.GetContent)

	// Register attention routes
	huma.Register(api, huma.Operation{
		OperationID:   "startAttentionSession",
		Method:        http.MethodPost,
		Path:          "/api/attention/sessions",
		Summary:       "Start a session",
		Description:   "Opens an attention demo session with an empty point log",
		Tags:          []string{"Attention"},
		DefaultStatus: http.StatusCreated,
	}, attentionHandler.StartSession)

	huma.Register(api, huma.Operation{
		OperationID: "getAttentionSession",
		Method:      http.MethodGet,
		Path:        "/api/attention/sessions/{id}",
		Summary:     "Get a session",
		Description: "Returns the session settings and point statistics",
		Tags:        []string{"Attention"},
	}, attentionHandler.GetSession)

	huma.Register(api, huma.Operation{
		OperationID: "endAttentionSession",
		Method:      http.MethodDelete,
		Path:        "/api/attention/sessions/{id}",
		Summary:     "End a session",
		Description: "Discards the session and its points",
		Tags:        []string{"Attention"},
	}, attentionHandler.EndSession)

	huma.Register(api, huma.Operation{
		OperationID: "recordAttentionPoint",
		Method:      http.MethodPost,
		Path:        "/api/attention/sessions/{id}/points",
		Summary:     "Record a point",
		Description: "Records a click in client coordinates and returns the new frame",
		Tags:        []string{"Attention"},
	}, attentionHandler.RecordPoint)

	huma.Register(api, huma.Operation{
		OperationID: "clearAttentionPoints",
		Method:      http.MethodPost,
		Path:        "/api/attention/sessions/{id}/clear",
		Summary:     "Clear points",
		Description: "Drops every recorded point and returns the new frame",
		Tags:        []string{"Attention"},
	}, attentionHandler.ClearPoints)

	huma.Register(api, huma.Operation{
		OperationID: "setAttentionRadius",
		Method:      http.MethodPut,
		Path:        "/api/attention/sessions/{id}/radius",
		Summary:     "Set dot radius",
		Description: "Sets the dot radius, clamped to 5..30, and returns the new frame",
		Tags:        []string{"Attention"},
	}, attentionHandler.SetRadius)

	huma.Register(api, huma.Operation{
		OperationID: "toggleAttentionHeatmap",
		Method:      http.MethodPost,
		Path:        "/api/attention/sessions/{id}/heatmap",
		Summary:     "Toggle heatmap",
		Description: "Switches between dot and heatmap rendering and returns the new frame",
		Tags:        []string{"Attention"},
	}, attentionHandler.ToggleHeatmap)

	huma.Register(api, huma.Operation{
		OperationID: "getAttentionFrame",
		Method:      http.MethodGet,
		Path:        "/api/attention/sessions/{id}/frame",
		Summary:     "Render frame",
		Description: "Renders the session at the current time as a display list",
		Tags:        []string{"Attention"},
	}, attentionHandler.GetFrame)

	huma.Register(api, huma.Operation{
		OperationID: "exportAttentionPoints",
		Method:      http.MethodGet,
		Path:        "/api/attention/sessions/{id}/export",
		Summary:     "Export points",
		Description: "Returns the recorded points as a JSON download",
		Tags:        []string{"Attention"},
	}, attentionHandler.ExportPoints)
}

// RegisterPages sets up the HTML pages and static files. assetsDir is
// served under /assets when set.
func RegisterPages(router chi.Router, pages *handlers.PageHandler, assetsDir string) {
	router.Get("/", pages.Home)
	router.Get("/lvef", pages.LVEF)
	router.Post("/lvef", pages.SubmitLVEF)
	router.Get("/attention", pages.Attention)
	router.Get("/openmirai", pages.OpenMirai)
	router.Get("/limayutthaya", pages.LimAyutthaya)
	router.Get("/attention/sessions/{id}/frame.png", pages.FramePNG)

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	if assetsDir != "" {
		router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(assetsDir))))
	}
}
