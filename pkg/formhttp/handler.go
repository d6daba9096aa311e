package formhttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/mitchelllharris/formkit/pkg/form"
	"github.com/mitchelllharris/formkit/pkg/formstore"
	"github.com/mitchelllharris/formkit/pkg/i18n"
	"github.com/mitchelllharris/formkit/pkg/logger"
	"github.com/mitchelllharris/formkit/pkg/requestid"
	"github.com/mitchelllharris/formkit/pkg/schema"
	"github.com/mitchelllharris/formkit/pkg/submit"
)

// Handler hosts server-rendered forms. Every request restores the draft from
// the store, drives one engine transition and saves the result.
type Handler struct {
	defs       map[string]*schema.Definition
	store      formstore.Store
	submitter  form.SubmitFunc
	submitters map[string]form.SubmitFunc
	translator *i18n.Translator
	logger     *slog.Logger
	metrics    *Metrics
	base       string
	script     string
	router     chi.Router
}

// New builds a handler for defs, keeping drafts in store. Without a submitter
// submissions are only logged.
func New(defs map[string]*schema.Definition, store formstore.Store, opts ...Option) *Handler {
	h := &Handler{
		defs:       defs,
		store:      store,
		submitters: make(map[string]form.SubmitFunc),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.submitter == nil {
		h.submitter = submit.Log(h.logger)
	}
	h.router = h.routes()
	return h
}

// Routes returns the router. Mount it under the base path given to
// WithBasePath.
func (h *Handler) Routes() chi.Router {
	return h.router
}

func (h *Handler) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	if h.translator != nil {
		r.Use(i18n.Middleware(h.translator))
	}

	r.Get("/{form}", h.newDraft)
	r.Route("/{form}/{id}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Post("/fields/{field}/change", h.change)
		r.Post("/fields/{field}/blur", h.blur)
		r.Post("/submit", h.submit)
		r.Post("/reset", h.reset)
	})
	return r
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// draft is one restored form instance.
type draft struct {
	def  *schema.Definition
	id   string
	form *form.Form
	lang string
}

func (h *Handler) formOptions(lang string) []form.Option {
	opts := []form.Option{form.WithLogger(h.logger)}
	if h.translator != nil {
		opts = append(opts, form.WithTranslator(h.translator.ForLanguage(lang)))
	}
	return opts
}

func (h *Handler) definition(w http.ResponseWriter, r *http.Request) (*schema.Definition, bool) {
	def, ok := h.defs[chi.URLParam(r, "form")]
	if !ok {
		h.fail(w, r, http.StatusNotFound, "form not found")
		return nil, false
	}
	return def, true
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*draft, bool) {
	def, ok := h.definition(w, r)
	if !ok {
		return nil, false
	}

	ctx := r.Context()
	id := chi.URLParam(r, "id")
	snap, err := h.store.Load(ctx, id)
	switch {
	case errors.Is(err, formstore.ErrNotFound):
		h.fail(w, r, http.StatusNotFound, "draft not found")
		return nil, false
	case errors.Is(err, formstore.ErrExpired):
		h.fail(w, r, http.StatusGone, "draft expired")
		return nil, false
	case err != nil:
		h.logger.ErrorContext(ctx, "load draft", logger.FormID(id), logger.Error(err))
		h.fail(w, r, http.StatusInternalServerError, "could not load draft")
		return nil, false
	}
	if snap.Form != def.Name {
		h.fail(w, r, http.StatusNotFound, "draft not found")
		return nil, false
	}

	lang := h.lang(r)
	f, err := def.Restore(snap.State, h.formOptions(lang)...)
	if err != nil {
		h.logger.ErrorContext(ctx, "restore draft", logger.Form(def.Name), logger.Error(err))
		h.fail(w, r, http.StatusInternalServerError, "could not restore draft")
		return nil, false
	}
	return &draft{def: def, id: id, form: f, lang: lang}, true
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, d *draft) bool {
	if err := h.store.Save(r.Context(), formstore.Capture(d.id, d.form)); err != nil {
		h.logger.ErrorContext(r.Context(), "save draft",
			logger.Form(d.def.Name), logger.FormID(d.id), logger.Error(err))
		h.fail(w, r, http.StatusInternalServerError, "could not save draft")
		return false
	}
	return true
}

func (h *Handler) newDraft(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}

	lang := h.lang(r)
	f, err := def.NewForm(h.formOptions(lang)...)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "build form", logger.Form(def.Name), logger.Error(err))
		h.fail(w, r, http.StatusInternalServerError, "could not build form")
		return
	}
	d := &draft{def: def, id: formstore.NewID(), form: f, lang: lang}
	if !h.save(w, r, d) {
		return
	}
	h.metrics.draftCreated(def.Name)
	h.logger.DebugContext(r.Context(), "draft created", logger.Form(def.Name), logger.FormID(d.id))

	w.Header().Set("Location", h.base+"/"+def.Name+"/"+d.id)
	h.respond(w, r, http.StatusCreated, d, StatusEditing, Page(h.view(d, StatusEditing)))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	h.respond(w, r, http.StatusOK, d, StatusEditing, Page(h.view(d, StatusEditing)))
}

func (h *Handler) change(w http.ResponseWriter, r *http.Request) {
	h.fieldEvent(w, r, "change")
}

func (h *Handler) blur(w http.ResponseWriter, r *http.Request) {
	h.fieldEvent(w, r, "blur")
}

func (h *Handler) fieldEvent(w http.ResponseWriter, r *http.Request, event string) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	field, ok := d.def.Field(chi.URLParam(r, "field"))
	if !ok {
		h.fail(w, r, http.StatusNotFound, "field not found")
		return
	}

	switch event {
	case "change":
		value, present, err := readFieldValue(w, r, field)
		if err != nil {
			h.fail(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if !present {
			h.fail(w, r, http.StatusBadRequest, "missing field value")
			return
		}
		d.form.FieldProps(field.Name).OnChange(value)
	case "blur":
		d.form.FieldProps(field.Name).OnBlur()
	}
	if !h.save(w, r, d) {
		return
	}
	h.metrics.fieldEvent(d.def.Name, event)

	v := h.view(d, StatusEditing)
	var c templ.Component = FieldView(v, field)
	if !partial(r) {
		c = Page(v)
	}
	h.respond(w, r, http.StatusOK, d, StatusEditing, c)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}

	values, err := readValues(w, r, d.def)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	for _, name := range d.def.Order() {
		if v, ok := values[name]; ok {
			d.form.SetValue(name, v)
		}
	}

	ctx := logger.WithFormID(r.Context(), d.id)
	ctx = submit.WithMeta(ctx, submit.Meta{Form: d.def.Name, ID: d.id})
	err = d.form.HandleSubmit(h.submitterFor(d.def.Name))(ctx)

	switch {
	case form.IsBlocked(err):
		h.metrics.submit(d.def.Name, OutcomeBlocked)
		if !h.save(w, r, d) {
			return
		}
		h.respondForm(w, r, http.StatusUnprocessableEntity, d, StatusEditing)
	case err != nil:
		h.metrics.submit(d.def.Name, OutcomeFailed)
		h.logger.WarnContext(ctx, "submit failed", logger.Form(d.def.Name), logger.Error(err))
		if !h.save(w, r, d) {
			return
		}
		h.respondForm(w, r, http.StatusBadGateway, d, StatusFailed)
	default:
		h.metrics.submit(d.def.Name, OutcomeSuccess)
		if err := h.store.Delete(ctx, d.id); err != nil {
			h.logger.WarnContext(ctx, "delete submitted draft", logger.Error(err))
		}
		h.logger.InfoContext(ctx, "form submitted", logger.Form(d.def.Name))
		h.respondForm(w, r, http.StatusOK, d, StatusSubmitted)
	}
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r)
	if !ok {
		return
	}
	d.form.Reset()
	if !h.save(w, r, d) {
		return
	}
	h.metrics.fieldEvent(d.def.Name, "reset")
	h.respondForm(w, r, http.StatusOK, d, StatusEditing)
}

func (h *Handler) submitterFor(formName string) form.SubmitFunc {
	if fn, ok := h.submitters[formName]; ok {
		return fn
	}
	return h.submitter
}

func (h *Handler) lang(r *http.Request) string {
	if h.translator == nil {
		return i18n.DefaultLanguage
	}
	return i18n.GetLocale(r.Context())
}

func (h *Handler) view(d *draft, status string) View {
	v := View{
		Def:    d.def,
		Form:   d.form,
		ID:     d.id,
		Base:   h.base,
		Script: h.script,
		Lang:   d.lang,
		Labels: DefaultLabels,
		Status: status,
	}
	if h.translator != nil {
		v.Labels = Labels{
			Submit:       h.translator.T(d.lang, "form.submit"),
			Reset:        h.translator.T(d.lang, "form.reset"),
			Submitting:   h.translator.T(d.lang, "form.submitting"),
			Submitted:    h.translator.T(d.lang, "form.submitted"),
			SubmitFailed: h.translator.T(d.lang, "form.submit_failed"),
		}
	}
	return v
}

func (h *Handler) respondForm(w http.ResponseWriter, r *http.Request, status int, d *draft, formStatus string) {
	v := h.view(d, formStatus)
	var c templ.Component = FormView(v)
	if !partial(r) {
		c = Page(v)
	}
	h.respond(w, r, status, d, formStatus, c)
}

// StateResponse is the JSON rendition of a draft.
type StateResponse struct {
	ID           string     `json:"id"`
	Form         string     `json:"form"`
	Status       string     `json:"status,omitempty"`
	State        form.State `json:"state"`
	Valid        bool       `json:"valid"`
	FirstInvalid string     `json:"first_invalid,omitempty"`
}

// respond writes c as HTML, as a DataStar element patch, or the draft state
// as JSON, depending on what the client asked for. DataStar responses are
// always 200 since the status line precedes the event stream.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, d *draft, formStatus string, c templ.Component) {
	switch {
	case WantsJSON(r):
		writeJSON(w, status, StateResponse{
			ID:           d.id,
			Form:         d.def.Name,
			Status:       formStatus,
			State:        d.form.State(),
			Valid:        d.form.IsValid(),
			FirstInvalid: d.form.FirstInvalid(),
		})
	case IsDataStar(r):
		sse := datastar.NewSSE(w, r)
		if err := sse.PatchElementTempl(c); err != nil {
			h.logger.WarnContext(r.Context(), "patch elements", logger.Error(err))
		}
	default:
		templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if WantsJSON(r) {
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}
	http.Error(w, msg, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
