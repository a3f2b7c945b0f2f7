package domain

// FieldKind tells the form layer which widget and coercion a field needs.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
	FieldSelect FieldKind = "select" // foreign key, options from Ref entity
	FieldMonth  FieldKind = "month"  // year-month picker, stored as YYYY-MM-01
	FieldFile   FieldKind = "file"   // image upload, multipart only
)

// FieldSpec describes one editable field of an entity's create/edit form.
type FieldSpec struct {
	Key       string    // backend field name, e.g. "grade_name"
	Label     string    // human label, e.g. "Grade Name"
	Kind      FieldKind
	Required  bool
	MaxLength int    // 0 = unlimited; applies to text fields
	Ref       string // entity slug the select options come from
}

// Column describes one cell of an entity's list table.
type Column struct {
	Key   string
	Label string
}

// EntityDescriptor is the full configuration for one catalog entity. All seven
// admin screens are instances of the same list/form machinery parameterized by
// a descriptor; adding an entity is adding a descriptor, not code.
type EntityDescriptor struct {
	Name      string // "Grade"
	Slug      string // "grade", used in console URLs
	Path      string // remote collection path, e.g. "/grade/"
	IDField   string // "grade_id"
	NameField string // "grade_name"
	Image     string // read-variant image field, "" when the entity has none
	Fields    []FieldSpec
	Columns   []Column
}

// ID returns the record's identifier as a string, empty when absent.
func (d EntityDescriptor) ID(r Record) string {
	return r.String(d.IDField)
}

// Label returns the record's display name.
func (d EntityDescriptor) Label(r Record) string {
	return r.String(d.NameField)
}

// Field returns the field spec for key and whether it exists.
func (d EntityDescriptor) Field(key string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// HasFileField reports whether any form field is a file upload.
func (d EntityDescriptor) HasFileField() bool {
	for _, f := range d.Fields {
		if f.Kind == FieldFile {
			return true
		}
	}
	return false
}

// Entities lists every catalog entity the console manages, in sidebar order.
// Paths mirror the backend's historically uneven URL layout: some collections
// live at the root, others under /gundam_data/.
var Entities = []EntityDescriptor{
	{
		Name: "Grade", Slug: "grade", Path: "/grade/",
		IDField: "grade_id", NameField: "grade_name",
		Fields: []FieldSpec{
			{Key: "grade_name", Label: "Grade Name", Kind: FieldText, Required: true, MaxLength: 10},
		},
		Columns: []Column{{Key: "grade_name", Label: "Grade Name"}},
	},
	{
		Name: "Universe", Slug: "universe", Path: "/universe/",
		IDField: "universe_id", NameField: "universe_name",
		Fields: []FieldSpec{
			{Key: "universe_name", Label: "Universe Name", Kind: FieldText, Required: true, MaxLength: 100},
		},
		Columns: []Column{{Key: "universe_name", Label: "Universe Name"}},
	},
	{
		Name: "Series", Slug: "series", Path: "/series/",
		IDField: "series_id", NameField: "series_name", Image: "series_image",
		Fields: []FieldSpec{
			{Key: "series_name", Label: "Series Name", Kind: FieldText, Required: true, MaxLength: 100},
			{Key: "series_universe", Label: "Universe", Kind: FieldSelect, Required: true, Ref: "universe"},
			{Key: "series_image", Label: "Series Image", Kind: FieldFile},
		},
		Columns: []Column{
			{Key: "series_name", Label: "Series Name"},
			{Key: "series_universe_name", Label: "Universe"},
		},
	},
	{
		Name: "Pilot", Slug: "pilot", Path: "/pilot/",
		IDField: "pilot_id", NameField: "pilot_name", Image: "pilot_images",
		Fields: []FieldSpec{
			{Key: "pilot_name", Label: "Pilot Name", Kind: FieldText, Required: true, MaxLength: 100},
			{Key: "pilot_universe", Label: "Universe", Kind: FieldSelect, Required: true, Ref: "universe"},
			{Key: "pilot_images", Label: "Pilot Image", Kind: FieldFile},
		},
		Columns: []Column{
			{Key: "pilot_name", Label: "Pilot Name"},
			{Key: "pilot_universe_name", Label: "Universe"},
		},
	},
	{
		Name: "Mobilesuit", Slug: "mobilesuit", Path: "/gundam_data/",
		IDField: "model_id", NameField: "model_name", Image: "main_image",
		Fields: []FieldSpec{
			{Key: "model_name", Label: "Model Name", Kind: FieldText, Required: true, MaxLength: 100},
			{Key: "model_grade", Label: "Grade", Kind: FieldSelect, Required: true, Ref: "grade"},
			{Key: "model_seller", Label: "Seller", Kind: FieldSelect, Ref: "seller"},
			{Key: "model_type", Label: "Type", Kind: FieldSelect, Ref: "type"},
			{Key: "model_length", Label: "Box Length", Kind: FieldNumber},
			{Key: "model_width", Label: "Box Width", Kind: FieldNumber},
			{Key: "model_height", Label: "Box Height", Kind: FieldNumber},
			{Key: "model_initial", Label: "Release Month", Kind: FieldMonth},
			{Key: "mobilesuit_image", Label: "Box Art", Kind: FieldFile},
		},
		Columns: []Column{
			{Key: "model_name", Label: "Model Name"},
			{Key: "model_grade_name", Label: "Grade"},
			{Key: "model_seller_name", Label: "Seller"},
			{Key: "model_type_name", Label: "Type"},
		},
	},
	{
		Name: "Type", Slug: "type", Path: "/gundam_data/types/",
		IDField: "types_id", NameField: "types_name",
		Fields: []FieldSpec{
			{Key: "types_name", Label: "Type Name", Kind: FieldText, Required: true, MaxLength: 100},
		},
		Columns: []Column{{Key: "types_name", Label: "Type Name"}},
	},
	{
		Name: "Seller", Slug: "seller", Path: "/gundam_data/seller/",
		IDField: "seller_id", NameField: "seller_name",
		Fields: []FieldSpec{
			{Key: "seller_name", Label: "Seller Name", Kind: FieldText, Required: true, MaxLength: 100},
		},
		Columns: []Column{{Key: "seller_name", Label: "Seller Name"}},
	},
}

// EntityBySlug returns the descriptor for a console URL slug.
func EntityBySlug(slug string) (EntityDescriptor, bool) {
	for _, d := range Entities {
		if d.Slug == slug {
			return d, true
		}
	}
	return EntityDescriptor{}, false
}
