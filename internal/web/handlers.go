package web

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/hmchef/internal/config"
	"github.com/hpungsan/hmchef/internal/errors"
	"github.com/hpungsan/hmchef/internal/media"
	"github.com/hpungsan/hmchef/internal/ops"
	"github.com/hpungsan/hmchef/internal/planner"
	"github.com/hpungsan/hmchef/internal/store"
)

// keepAlive is the interval between comment lines on idle event streams.
const keepAlive = 25 * time.Second

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	store    *store.Store
	catalog  ops.Catalog
	media    *media.Library
	cfg      *config.Config
	renderer *Renderer
	logger   *zap.Logger
	now      func() time.Time
}

// HandleHome handles GET /: the landing tab.
func (h *Handlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "home", h.renderer.page("The Crazy HM Chef", "home"))
}

// HandleNewRecipe handles GET /recipes/new: an empty creation form.
func (h *Handlers) HandleNewRecipe(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "create", h.createPage(ops.Draft{}, "", r.URL.Query().Get("saved")))
}

func (h *Handlers) createPage(d ops.Draft, alert, saved string) CreatePageData {
	return CreatePageData{
		PageData:     h.renderer.page("New Recipe", "create"),
		Draft:        d,
		Alert:        alert,
		Saved:        saved,
		MediaAllowed: h.media != nil && h.media.Granted(),
		MaxUpload:    h.cfg.MaxUploadBytes,
	}
}

// HandleCreateRecipe handles POST /recipes: pick the uploaded image and save.
func (h *Handlers) HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	// Room for the text fields on top of the image
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+(64<<10))

	var file io.Reader
	if isMultipart(r) {
		if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
			h.renderer.renderError(w, r, formError(err, h.cfg.MaxUploadBytes))
			return
		}
		f, _, err := r.FormFile("image")
		switch {
		case err == nil:
			defer f.Close()
			file = f
		case stderrors.Is(err, http.ErrMissingFile):
			// No image picked
		default:
			h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid image upload"))
			return
		}
	} else if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, formError(err, h.cfg.MaxUploadBytes))
		return
	}

	draft := ops.Draft{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	ctx := r.Context()
	if file != nil {
		if err := draft.PickImage(ctx, media.UploadPicker{Library: h.media, File: file}); err != nil {
			h.createFailed(w, r, draft, err)
			return
		}
	}

	saved, err := draft.Save(ctx, store.From(ctx))
	if err != nil {
		h.createFailed(w, r, draft, err)
		return
	}

	h.logger.Info("recipe saved", zap.Int("id", saved.ID), zap.Bool("image", saved.HasImage()))

	if wantsJSON(r) {
		renderJSON(w, http.StatusCreated, saved)
		return
	}

	next := "/recipes/new?saved=" + url.QueryEscape(saved.Title)

	// htmx request: redirect via HX-Redirect header
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", next)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

// createFailed re-renders the form with its fields intact and the error as an alert.
func (h *Handlers) createFailed(w http.ResponseWriter, r *http.Request, d ops.Draft, err error) {
	var cErr *errors.ChefError
	if wantsJSON(r) || !stderrors.As(err, &cErr) || cErr.Status >= 500 {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderer.renderPageStatus(w, r, cErr.Status, "create", h.createPage(d, cErr.Message, ""))
}

// HandleList handles GET /recipes: the saved recipes tab.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListRecipes(r.Context(), store.From(r.Context()))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data := ListPageData{
		PageData: h.renderer.page("My Recipes", "recipes"),
		Items:    result.Items,
		Empty:    result.Empty,
		Message:  result.Message,
	}

	// If htmx targets the list, render only the list fragment
	if r.Header.Get("HX-Target") == "recipe-list" {
		h.renderer.renderBlock(w, http.StatusOK, "list", "recipe-list", data)
		return
	}

	h.renderer.renderPage(w, r, "list", data)
}

// HandleRecipeEvents handles GET /recipes/events: re-renders the list on every save.
func (h *Handlers) HandleRecipeEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	acc := store.From(ctx)

	changes, cancel := acc.Subscribe()
	defer cancel()

	sse, err := startEvents(w)
	if err != nil {
		h.logger.Warn("event stream unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		return
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sse.comment("ping"); err != nil {
				return
			}
		case _, ok := <-changes:
			if !ok {
				return
			}
			result, err := ops.ListRecipes(ctx, acc)
			if err != nil {
				h.logger.Warn("recipe stream read failed", zap.Error(err))
				continue
			}
			html, err := h.renderer.fragment("list", "recipe-list", ListPageData{
				Items:   result.Items,
				Empty:   result.Empty,
				Message: result.Message,
			})
			if err != nil {
				h.logger.Error("recipe stream render failed", zap.Error(err))
				return
			}
			if err := sse.send("recipes", "", map[string]any{"total": result.Total, "html": string(html)}); err != nil {
				return
			}
		}
	}
}

// HandleSearch handles GET /search: query the remote catalog.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	data := SearchPageData{
		PageData: h.renderer.page("Search", "search"),
		Query:    q.Get("q"),
		HasQuery: q.Has("q"),
	}

	if data.HasQuery {
		result := ops.SearchCatalog(r.Context(), h.catalog, h.logger, data.Query)
		if wantsJSON(r) {
			renderJSON(w, http.StatusOK, result)
			return
		}
		data.Query = result.Query
		data.Items = result.Items
		data.NoResults = result.NoResults
		data.Message = result.Message
	}

	// If htmx targets #results, render only the results fragment
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "search", "search-results", data)
		return
	}

	h.renderer.renderPage(w, r, "search", data)
}

// HandlePlanner handles GET /planner: the weekly plan. HTML starts with
// placeholders and fills from the event stream; JSON waits for the fill.
func (h *Handlers) HandlePlanner(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, ops.PlanWeek(r.Context(), h.source(), h.logger, h.now()))
		return
	}

	h.renderer.renderPage(w, r, "planner", PlannerPageData{
		PageData: h.renderer.page("Meal Planner", "planner"),
		Slots:    planner.New(h.now(), h.logger).Slots(),
	})
}

// HandlePlannerEvents handles GET /planner/events: one event per resolved day.
// The stream lives as long as the planner screen; closing it drops late results.
func (h *Handlers) HandlePlannerEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sse, err := startEvents(w)
	if err != nil {
		h.logger.Warn("event stream unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		return
	}

	plan := planner.New(h.now(), h.logger)
	slots := plan.Fill(ctx, h.source())

	for {
		select {
		case <-ctx.Done():
			return
		case slot, ok := <-slots:
			if !ok {
				_ = sse.send("done", "", map[string]any{"complete": plan.Complete()})
				return
			}
			html, err := h.renderer.fragment("planner", "planner-slot", slot)
			if err != nil {
				h.logger.Error("planner stream render failed", zap.Error(err))
				return
			}
			if err := sse.send("slot", fmt.Sprint(slot.Day), map[string]any{"day": slot.Day, "html": string(html)}); err != nil {
				return
			}
		}
	}
}

func (h *Handlers) source() planner.Source {
	return planner.CatalogSource{Catalog: h.catalog}
}

// HandleMedia handles GET /media/{name}: serve an uploaded image.
func (h *Handlers) HandleMedia(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		h.renderer.renderError(w, r, errors.NewNotFound(r.PathValue("name")))
		return
	}

	f, err := h.media.Open(r.PathValue("name"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formError maps a body parse failure to a client error.
func formError(err error, maxBytes int64) *errors.ChefError {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.NewPayloadTooLarge(maxBytes)
	}
	return errors.NewInvalidRequest("invalid form data")
}

// eventStream writes server-sent events.
type eventStream struct {
	w  io.Writer
	rc *http.ResponseController
}

func startEvents(w http.ResponseWriter) (*eventStream, error) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s := &eventStream{w: w, rc: rc}
	if err := s.comment("connected"); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *eventStream) send(event, id string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if id != "" {
		if _, err := fmt.Fprintf(s.w, "id: %s\n", id); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return s.rc.Flush()
}

func (s *eventStream) comment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return err
	}
	return s.rc.Flush()
}
