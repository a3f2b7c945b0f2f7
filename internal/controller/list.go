// Package controller implements the screen-facing state machines of the admin
// console: the paginated, searchable, mutable list every entity screen shows,
// and the create/edit form round trip. Both are generic over an entity
// descriptor; no entity has controller code of its own.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mechashelf/admin/internal/catalog"
	"github.com/mechashelf/admin/internal/domain"
	"github.com/mechashelf/admin/internal/notify"
)

// Status is the list screen's lifecycle state.
type Status int

const (
	StatusLoading Status = iota
	StatusLoaded
	StatusError
)

// Defaults observed in the console's configuration.
const (
	DefaultPageSize = 10
	DefaultDebounce = 500 * time.Millisecond
)

// EntityAPI is what the controllers need from a catalog resource.
// *catalog.Resource satisfies it; tests substitute fakes.
type EntityAPI interface {
	List(ctx context.Context, page, limit int, search string) (*domain.Page, error)
	Fetch(ctx context.Context, id string) (domain.Record, error)
	Create(ctx context.Context, values map[string]string, file *catalog.FileUpload) (domain.Record, error)
	Update(ctx context.Context, id string, values map[string]string, file *catalog.FileUpload) (domain.Record, error)
	SoftDelete(ctx context.Context, id string) error
}

// ListState is the complete observable state of one entity list screen.
type ListState struct {
	Items        []domain.Record
	Page         int
	PageSize     int
	TotalCount   int
	SearchTerm   string
	Status       Status
	ErrorMessage string
}

// TotalPages is ceil(TotalCount/PageSize); zero when the result set is empty.
func (s ListState) TotalPages() int {
	return domain.PageCount(s.TotalCount, s.PageSize)
}

// ListController owns one screen's collection state and keeps it consistent
// through paging, searching, and soft deletes. It lives as long as its screen.
type ListController struct {
	api      EntityAPI
	notifier notify.Notifier
	pageSize int
	debounce time.Duration

	mu          sync.Mutex
	state       ListState
	seq         uint64 // latest issued load; stale completions are discarded
	searchTimer *time.Timer
}

// NewListController creates a controller with the given page size and search
// debounce window; non-positive values fall back to the defaults. A nil
// notifier is replaced with a no-op.
func NewListController(api EntityAPI, notifier notify.Notifier, pageSize int, debounce time.Duration) *ListController {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &ListController{
		api:      api,
		notifier: notifier,
		pageSize: pageSize,
		debounce: debounce,
		state:    ListState{Page: 1, PageSize: pageSize, Status: StatusLoading},
	}
}

// State returns a snapshot of the current list state.
func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches the given page for the given search term and replaces the list
// state with the outcome.
//
// A 404 on a page beyond the first means the page no longer exists (deletes
// shrank the result set); it is absorbed by stepping one page back rather than
// surfaced. Any other failure discards the displayed items, enters the error
// state, and publishes a notification.
//
// Completions that are no longer the latest issued load are discarded, so a
// slow early request can never overwrite the result of a later one.
func (c *ListController) Load(ctx context.Context, page int, term string) ListState {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state.Status = StatusLoading
	c.state.ErrorMessage = ""
	c.mu.Unlock()

	result, err := c.api.List(ctx, page, c.pageSize, term)
	for err != nil && domain.IsNotFound(err) && page > 1 {
		page--
		result, err = c.api.List(ctx, page, c.pageSize, term)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return c.state
	}

	if err != nil {
		msg := failureMessage(err)
		c.state = ListState{
			Page:         page,
			PageSize:     c.pageSize,
			SearchTerm:   term,
			Status:       StatusError,
			ErrorMessage: msg,
		}
		c.notifier.Notify("Failed to load data: "+msg, notify.Error)
		return c.state
	}

	c.state = ListState{
		Items:      result.Results,
		Page:       page,
		PageSize:   c.pageSize,
		TotalCount: result.Count,
		SearchTerm: term,
		Status:     StatusLoaded,
	}
	return c.state
}

// ChangePage loads page n at the current search term. Page numbers outside
// 1..TotalPages are silently ignored.
func (c *ListController) ChangePage(ctx context.Context, n int) ListState {
	c.mu.Lock()
	totalPages := c.state.TotalPages()
	term := c.state.SearchTerm
	c.mu.Unlock()

	if n < 1 || n > totalPages {
		return c.State()
	}
	return c.Load(ctx, n, term)
}

// Search schedules a debounced load of page 1 for the given term. Rapid
// successive calls within the debounce window collapse to the last term;
// earlier pending terms never reach the network.
func (c *ListController) Search(ctx context.Context, term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	c.searchTimer = time.AfterFunc(c.debounce, func() {
		c.Load(ctx, 1, term)
	})
}

// SearchNow loads page 1 for the given term immediately. The web layer uses
// it because the browser already debounced the input.
func (c *ListController) SearchNow(ctx context.Context, term string) ListState {
	return c.Load(ctx, 1, term)
}

// Close cancels any pending debounced search. Called on screen unmount.
func (c *ListController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
}

// SoftDelete marks the record inactive and reconciles the page:
//
//   - the set is now empty: reset to an empty, page-1, unfiltered state
//   - the deleted row was the last on a page beyond the first: step back a page
//   - otherwise: reload in place, letting the backend backfill the freed slot
//
// On failure the state is left untouched and an error notification is
// published; the row stays visible and the delete is not retried.
func (c *ListController) SoftDelete(ctx context.Context, id string) (ListState, error) {
	c.mu.Lock()
	itemsOnPage := len(c.state.Items)
	page := c.state.Page
	total := c.state.TotalCount
	term := c.state.SearchTerm
	c.mu.Unlock()

	if err := c.api.SoftDelete(ctx, id); err != nil {
		c.notifier.Notify("Failed to delete: "+failureMessage(err), notify.Error)
		return c.State(), err
	}
	c.notifier.Notify("Delete success!", notify.Success)

	switch {
	case total-1 <= 0:
		c.mu.Lock()
		c.seq++
		c.state = ListState{Page: 1, PageSize: c.pageSize, Status: StatusLoaded}
		state := c.state
		c.mu.Unlock()
		return state, nil
	case itemsOnPage == 1 && page > 1:
		return c.Load(ctx, page-1, term), nil
	default:
		return c.Load(ctx, page, term), nil
	}
}

// failureMessage extracts the human-readable message for a failed call.
func failureMessage(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.FlattenFields()
	}
	if err != nil {
		return err.Error()
	}
	return "unknown error"
}
