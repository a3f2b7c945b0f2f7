package entityadmin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mechashelf/admin/internal/catalog"
	"github.com/mechashelf/admin/internal/controller"
	"github.com/mechashelf/admin/internal/domain"
	"github.com/mechashelf/admin/internal/middleware"
	"github.com/mechashelf/admin/internal/notify"
)

const defaultPageSize = 10

// maxUploadBytes bounds a single image upload.
const maxUploadBytes = 10 << 20

// PageHandler renders one entity's admin screens and drives its controllers.
// Controllers are built per request; the page and search term travel in the
// URL so the screen state survives redirects.
type PageHandler struct {
	res       *catalog.Resource
	resources map[string]*catalog.Resource
	desc      domain.EntityDescriptor
	activity  domain.ActivityService
	pageSize  int
}

// NewPageHandler creates a PageHandler for one entity. resources provides the
// referenced collections foreign-key selects load their options from; activity
// may be nil when the log is disabled.
func NewPageHandler(res *catalog.Resource, resources map[string]*catalog.Resource, activity domain.ActivityService, pageSize int) *PageHandler {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &PageHandler{
		res:       res,
		resources: resources,
		desc:      res.Descriptor(),
		activity:  activity,
		pageSize:  pageSize,
	}
}

// ListPage renders the entity list with pagination and search.
// GET /<slug>?page=N&search=term
//
// htmx search and paging requests get just the table fragment; everything
// else gets the full page.
func (h *PageHandler) ListPage(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	search := strings.TrimSpace(c.Query("search"))

	rec := &notify.Recorder{}
	lc := controller.NewListController(h.res, rec, h.pageSize, 0)
	state := lc.Load(c.Request.Context(), page, search)
	h.sendToast(c, rec)

	tmpl := "entity/list.html"
	if c.GetHeader("HX-Request") == "true" {
		tmpl = "entity/table.html"
	}
	c.HTML(http.StatusOK, tmpl, gin.H{
		"Desc":      h.desc,
		"State":     state,
		"Loaded":    state.Status == controller.StatusLoaded,
		"Failed":    state.Status == controller.StatusError,
		"Pages":     pageNumbers(state.TotalPages()),
		"BaseURL":   "/" + h.desc.Slug,
		"CSRFToken": middleware.GetCSRFToken(c),
	})
}

// NewPage renders the create form.
// GET /<slug>/new
func (h *PageHandler) NewPage(c *gin.Context) {
	options, err := h.fieldOptions(c)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	h.renderForm(c, formView{Options: options, Values: map[string]string{}})
}

// EditPage renders the edit form prefilled from the backend.
// GET /<slug>/:id/edit?page=N&search=term
func (h *PageHandler) EditPage(c *gin.Context) {
	id := c.Param("id")

	fc := controller.NewFormController(h.res, h.desc, nil)
	record, err := fc.Prefill(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
			return
		}
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	options, err := h.fieldOptions(c)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	h.renderForm(c, formView{
		IsEdit:  true,
		ID:      id,
		Record:  record,
		Values:  h.displayValues(record),
		Options: options,
	})
}

// CreateHTMX handles create form submission.
// POST /<slug>
//
// On success the list is re-entered at page 1 with the search cleared, so the
// new record's position is never misrepresented by a stale filter.
func (h *PageHandler) CreateHTMX(c *gin.Context) {
	values := h.formValues(c)
	file := h.formFile(c)

	rec := &notify.Recorder{}
	fc := controller.NewFormController(h.res, h.desc, rec)
	result := fc.Create(c.Request.Context(), values, file)
	if !result.OK() {
		h.sendToast(c, rec)
		options, err := h.fieldOptions(c)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
			return
		}
		h.renderForm(c, formView{
			Values:      values,
			Options:     options,
			FieldErrors: result.FieldErrors,
			FormError:   result.FormError,
		})
		return
	}

	h.recordActivity(c, result.Record, domain.ActionCreate)
	h.sendToast(c, rec)
	c.Header("HX-Redirect", "/"+h.desc.Slug)
	c.Status(http.StatusOK)
}

// UpdateHTMX handles edit form submission.
// POST /<slug>/:id
//
// On success the list is re-entered at the page and search term the user came
// from, carried through the form as hidden fields.
func (h *PageHandler) UpdateHTMX(c *gin.Context) {
	id := c.Param("id")

	fc := controller.NewFormController(h.res, h.desc, nil)
	original, err := fc.Prefill(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
			return
		}
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
		return
	}

	values := h.formValues(c)
	file := h.formFile(c)

	rec := &notify.Recorder{}
	fc = controller.NewFormController(h.res, h.desc, rec)
	result := fc.Update(c.Request.Context(), id, original, values, file)
	if !result.OK() {
		h.sendToast(c, rec)
		options, optErr := h.fieldOptions(c)
		if optErr != nil {
			c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{})
			return
		}
		h.renderForm(c, formView{
			IsEdit:      true,
			ID:          id,
			Record:      original,
			Values:      values,
			Options:     options,
			FieldErrors: result.FieldErrors,
			FormError:   result.FormError,
		})
		return
	}

	h.recordActivity(c, result.Record, domain.ActionUpdate)
	h.sendToast(c, rec)
	c.Header("HX-Redirect", h.listURL(c.PostForm("return_page"), c.PostForm("return_search")))
	c.Status(http.StatusOK)
}

// DeleteHTMX soft-deletes one record and redirects to the reconciled page.
// DELETE /<slug>/:id?page=N&search=term
func (h *PageHandler) DeleteHTMX(c *gin.Context) {
	id := c.Param("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	search := strings.TrimSpace(c.Query("search"))

	rec := &notify.Recorder{}
	lc := controller.NewListController(h.res, rec, h.pageSize, 0)
	state := lc.Load(c.Request.Context(), page, search)
	if state.Status != controller.StatusLoaded {
		c.Header("HX-Reswap", "none")
		h.sendToast(c, rec)
		c.Status(http.StatusOK)
		return
	}
	label := h.labelFor(state.Items, id)

	state, err := lc.SoftDelete(c.Request.Context(), id)
	h.sendToast(c, rec)
	if err != nil {
		c.Header("HX-Reswap", "none")
		c.Status(http.StatusOK)
		return
	}

	h.activityRecord(c, id, label, domain.ActionSoftDelete)
	c.Header("HX-Redirect", h.listURL(strconv.Itoa(state.Page), state.SearchTerm))
	c.Status(http.StatusOK)
}

// formView is the template payload for the create/edit form.
type formView struct {
	IsEdit      bool
	ID          string
	Record      domain.Record
	Values      map[string]string
	Options     map[string][]catalog.Option
	FieldErrors map[string]string
	FormError   string
}

// renderForm renders the entity form with the shared payload fields filled in.
func (h *PageHandler) renderForm(c *gin.Context, view formView) {
	c.HTML(http.StatusOK, "entity/form.html", gin.H{
		"Desc":         h.desc,
		"IsEdit":       view.IsEdit,
		"ID":           view.ID,
		"Record":       view.Record,
		"Values":       view.Values,
		"Options":      view.Options,
		"FieldErrors":  view.FieldErrors,
		"FormError":    view.FormError,
		"ReturnPage":   c.DefaultQuery("page", c.DefaultPostForm("return_page", "1")),
		"ReturnSearch": firstNonEmpty(c.Query("search"), c.PostForm("return_search")),
		"BaseURL":      "/" + h.desc.Slug,
		"CSRFToken":    middleware.GetCSRFToken(c),
	})
}

// formValues collects the submitted form fields the descriptor names. Month
// inputs submit "2006-01"; the backend stores the first of the month.
func (h *PageHandler) formValues(c *gin.Context) map[string]string {
	values := make(map[string]string, len(h.desc.Fields))
	for _, field := range h.desc.Fields {
		if field.Kind == domain.FieldFile {
			continue
		}
		value := strings.TrimSpace(c.PostForm(field.Key))
		if field.Kind == domain.FieldMonth && len(value) == 7 {
			value += "-01"
		}
		values[field.Key] = value
	}
	return values
}

// formFile extracts the descriptor's file field from the multipart body.
// A missing or unreadable file means "no new image": the backend keeps the
// stored one on update, and create simply omits it.
func (h *PageHandler) formFile(c *gin.Context) *catalog.FileUpload {
	for _, field := range h.desc.Fields {
		if field.Kind != domain.FieldFile {
			continue
		}
		header, err := c.FormFile(field.Key)
		if err != nil {
			return nil
		}
		if header.Size > maxUploadBytes {
			return nil
		}
		f, err := header.Open()
		if err != nil {
			return nil
		}
		defer f.Close()
		content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			return nil
		}
		return &catalog.FileUpload{Field: field.Key, Filename: header.Filename, Content: content}
	}
	return nil
}

// displayValues renders a record as form input values. Month fields come back
// from the backend as full dates and are trimmed to the input's format.
func (h *PageHandler) displayValues(record domain.Record) map[string]string {
	values := make(map[string]string, len(h.desc.Fields))
	for _, field := range h.desc.Fields {
		if field.Kind == domain.FieldFile {
			continue
		}
		value := record.String(field.Key)
		if field.Kind == domain.FieldMonth && len(value) >= 7 {
			value = value[:7]
		}
		values[field.Key] = value
	}
	return values
}

// fieldOptions loads the select options for every foreign-key field.
func (h *PageHandler) fieldOptions(c *gin.Context) (map[string][]catalog.Option, error) {
	options := make(map[string][]catalog.Option)
	for _, field := range h.desc.Fields {
		if field.Kind != domain.FieldSelect {
			continue
		}
		ref, ok := h.resources[field.Ref]
		if !ok {
			continue
		}
		opts, err := ref.Options(c.Request.Context())
		if err != nil {
			slog.Error("load select options", "entity", h.desc.Slug, "field", field.Key, "error", err)
			return nil, err
		}
		options[field.Key] = opts
	}
	return options, nil
}

// recordActivity logs a mutation using the saved record for id and label.
func (h *PageHandler) recordActivity(c *gin.Context, record domain.Record, action string) {
	h.activityRecord(c, h.desc.ID(record), h.desc.Label(record), action)
}

func (h *PageHandler) activityRecord(c *gin.Context, id, label, action string) {
	if h.activity == nil {
		return
	}
	h.activity.Record(c.Request.Context(), h.desc.Slug, id, label, action, "")
}

// labelFor finds the display name of a record in the loaded page.
func (h *PageHandler) labelFor(items []domain.Record, id string) string {
	for _, item := range items {
		if h.desc.ID(item) == id {
			return h.desc.Label(item)
		}
	}
	return ""
}

// listURL builds the list page URL for a page number and search term.
func (h *PageHandler) listURL(page, search string) string {
	query := url.Values{}
	if page != "" && page != "1" {
		query.Set("page", page)
	}
	if search != "" {
		query.Set("search", search)
	}
	u := "/" + h.desc.Slug
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// sendToast translates the request's recorded notifications into the htmx
// showToast trigger header. Only the latest one is shown; a new toast always
// replaces whatever was visible.
func (h *PageHandler) sendToast(c *gin.Context, rec *notify.Recorder) {
	n, ok := rec.Last()
	if !ok {
		return
	}
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{
			"message": n.Message,
			"type":    string(n.Severity),
		},
	})
	c.Header("HX-Trigger", string(trigger))
}

// pageNumbers lists 1..n for the pagination links.
func pageNumbers(n int) []int {
	pages := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, i)
	}
	return pages
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
