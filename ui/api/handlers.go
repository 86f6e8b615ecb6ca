package api

import (
	"net/http"
	"strings"

	"github.com/youssefsiam38/admindash"
	"github.com/youssefsiam38/admindash/datatable"
	"github.com/youssefsiam38/admindash/ui/service"
)

// Dashboard handlers

func (rt *router[TTx]) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := rt.svc.Dashboard(r.Context())
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (rt *router[TTx]) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r, "limit", admindash.DefaultActivityLimit)
	if limit < 1 || limit > 500 {
		limit = admindash.DefaultActivityLimit
	}
	events, err := rt.svc.Client().RecentActivity(r.Context(), limit)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Table handlers

func writeTable(w http.ResponseWriter, view *service.TableView) {
	records := make([]datatable.Record, len(view.Rows))
	for i, row := range view.Rows {
		records[i] = row.Record
	}
	writeJSONWithMeta(w, http.StatusOK, records, &Meta{
		TotalCount: view.Paging.TotalCount,
		Page:       view.Paging.CurrentPage,
		TotalPages: view.Paging.TotalPages,
		PageSize:   view.Paging.PageSize,
		HasMore:    view.Paging.HasNext,
		Sort:       view.Params.Sort,
		Dir:        view.Params.Dir,
		Search:     view.Params.Search,
	})
}

// User handlers

func (rt *router[TTx]) handleListUsers(w http.ResponseWriter, r *http.Request) {
	view, err := rt.svc.Users(r.Context(), service.ParseListParams(r.URL.Query()))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeTable(w, view)
}

func (rt *router[TTx]) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	user, err := rt.svc.Client().GetUser(r.Context(), id)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (rt *router[TTx]) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in admindash.UserInput
	if !decodeBody(w, r, &in) {
		return
	}
	user, err := rt.svc.Client().CreateUser(r.Context(), in)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (rt *router[TTx]) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var in admindash.UserInput
	if !decodeBody(w, r, &in) {
		return
	}
	user, err := rt.svc.Client().UpdateUser(r.Context(), id, in)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (rt *router[TTx]) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := rt.svc.Client().DeleteUser(r.Context(), id); err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Product handlers

func (rt *router[TTx]) handleListProducts(w http.ResponseWriter, r *http.Request) {
	view, err := rt.svc.Products(r.Context(), service.ParseListParams(r.URL.Query()))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeTable(w, view)
}

func (rt *router[TTx]) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	product, err := rt.svc.Client().GetProduct(r.Context(), id)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (rt *router[TTx]) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in admindash.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	product, err := rt.svc.Client().CreateProduct(r.Context(), in)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (rt *router[TTx]) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	var in admindash.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	product, err := rt.svc.Client().UpdateProduct(r.Context(), id, in)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (rt *router[TTx]) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := rt.svc.Client().DeleteProduct(r.Context(), id); err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Analytics handlers

func (rt *router[TTx]) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := rt.svc.Client().Analytics(r.Context())
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func (rt *router[TTx]) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := admindash.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}

	// Rendered into memory so a failure can still produce a JSON error.
	var buf strings.Builder
	if err := rt.svc.Client().ExportAnalytics(r.Context(), &buf, format); err != nil {
		rt.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(rt.svc.Client().Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(buf.String()))
}

func (rt *router[TTx]) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("name"), ".png")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "charts are served as .png")
		return
	}

	png, err := rt.svc.ChartPNG(r.Context(), name, service.ChartOptions{
		Theme:      r.URL.Query().Get("theme"),
		Width:      parseFloat(r, "width"),
		Height:     parseFloat(r, "height"),
		PixelRatio: parseFloat(r, "ratio"),
	})
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Settings handlers

type roleBody struct {
	Role string `json:"role"`
}

func (rt *router[TTx]) handleSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := rt.svc.Settings(r.Context())
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (rt *router[TTx]) handleGetRole(w http.ResponseWriter, r *http.Request) {
	role, err := rt.svc.Client().Role(r.Context())
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roleBody{Role: string(role)})
}

func (rt *router[TTx]) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var body roleBody
	if !decodeBody(w, r, &body) {
		return
	}
	role, err := admindash.ParseRole(body.Role)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	if err := rt.svc.Client().SetRole(r.Context(), role); err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roleBody{Role: string(role)})
}

func (rt *router[TTx]) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := rt.svc.Client().ResetData(r.Context()); err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	rt.handleSettings(w, r)
}

func (rt *router[TTx]) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := rt.svc.Client().ClearAllData(r.Context()); err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	rt.handleSettings(w, r)
}
