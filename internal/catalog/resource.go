package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mechashelf/admin/internal/domain"
)

// optionsLimit bounds how many records a foreign-key select loads.
const optionsLimit = 200

// Resource is one remote collection bound to its entity descriptor. All seven
// entities are Resource instances; there is no per-entity client code.
type Resource struct {
	client *Client
	desc   domain.EntityDescriptor
}

// Option is one foreign-key choice for a select field.
type Option struct {
	Value string
	Label string
}

// NewResource binds a descriptor to a client.
func NewResource(client *Client, desc domain.EntityDescriptor) *Resource {
	return &Resource{client: client, desc: desc}
}

// Descriptor returns the entity configuration this resource serves.
func (r *Resource) Descriptor() domain.EntityDescriptor {
	return r.desc
}

// List fetches one page of records. The search parameter is omitted from the
// query string when empty, matching the backend's contract.
func (r *Resource) List(ctx context.Context, page, limit int, search string) (*domain.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if search != "" {
		query.Set("search", search)
	}

	var result domain.Page
	if err := r.client.Get(ctx, r.desc.Path, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Fetch retrieves a single record by id, as used for edit-form prefill.
func (r *Resource) Fetch(ctx context.Context, id string) (domain.Record, error) {
	var record domain.Record
	if err := r.client.Get(ctx, r.desc.Path+id+"/", nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Create posts a new record. The body is multipart whenever the entity has a
// file field, JSON otherwise; file may be nil even for multipart entities.
func (r *Resource) Create(ctx context.Context, values map[string]string, file *FileUpload) (domain.Record, error) {
	var record domain.Record
	if r.desc.HasFileField() {
		if err := r.client.PostMultipart(ctx, r.desc.Path, values, file, &record); err != nil {
			return nil, err
		}
		return record, nil
	}
	if err := r.client.PostJSON(ctx, r.desc.Path, values, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Update patches an existing record with only the provided fields.
func (r *Resource) Update(ctx context.Context, id string, values map[string]string, file *FileUpload) (domain.Record, error) {
	var record domain.Record
	path := r.desc.Path + id + "/"
	if r.desc.HasFileField() {
		if err := r.client.PatchMultipart(ctx, path, values, file, &record); err != nil {
			return nil, err
		}
		return record, nil
	}
	if err := r.client.PatchJSON(ctx, path, values, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// SoftDelete marks a record inactive. The record stays in the backend's
// storage and disappears from subsequent list responses.
func (r *Resource) SoftDelete(ctx context.Context, id string) error {
	payload := map[string]any{"is_active": false}
	return r.client.PatchJSON(ctx, r.desc.Path+id+"/", payload, nil)
}

// Options fetches the id/label pairs a foreign-key select offers.
func (r *Resource) Options(ctx context.Context) ([]Option, error) {
	page, err := r.List(ctx, 1, optionsLimit, "")
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(page.Results))
	for _, record := range page.Results {
		options = append(options, Option{
			Value: r.desc.ID(record),
			Label: r.desc.Label(record),
		})
	}
	return options, nil
}

// Resources builds a Resource for every configured entity, keyed by slug.
func Resources(client *Client) map[string]*Resource {
	out := make(map[string]*Resource, len(domain.Entities))
	for _, desc := range domain.Entities {
		out[desc.Slug] = NewResource(client, desc)
	}
	return out
}
