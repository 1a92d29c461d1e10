package registry

func floatPtr(v float64) *float64 {
	return &v
}

type catalogEntry struct {
	name   string
	fields []FieldDescriptor
}

var headingTags = []SelectOption{
	{Value: "h1", Label: "H1"},
	{Value: "h2", Label: "H2"},
	{Value: "h3", Label: "H3"},
	{Value: "h4", Label: "H4"},
	{Value: "h5", Label: "H5"},
	{Value: "h6", Label: "H6"},
}

var alignments = []SelectOption{
	{Value: "left", Label: "Left"},
	{Value: "center", Label: "Center"},
	{Value: "right", Label: "Right"},
}

// builtinCatalog declares the settings schema for every shipped widget type.
// Adding a widget type means one entry here plus one renderer in the render
// package; nothing else changes.
var builtinCatalog = []catalogEntry{
	{
		name: "text",
		fields: []FieldDescriptor{
			{Name: "content", Label: "Content", Kind: KindTextarea, Default: "", Description: "Markdown is supported"},
			{Name: "align", Label: "Alignment", Kind: KindSelect, Options: alignments, Default: "left"},
		},
	},
	{
		name: "heading",
		fields: []FieldDescriptor{
			{Name: "title", Label: "Title", Kind: KindText, Default: "", Required: true},
			{Name: "tag", Label: "Tag", Kind: KindSelect, Options: headingTags, Default: "h2"},
			{Name: "color", Label: "Color", Kind: KindColor, Default: "#222222"},
			{Name: "align", Label: "Alignment", Kind: KindSelect, Options: alignments, Default: "left"},
		},
	},
	{
		name: "button",
		fields: []FieldDescriptor{
			{Name: "label", Label: "Label", Kind: KindText, Default: "Learn more", Required: true},
			{Name: "url", Label: "URL", Kind: KindURL, Default: "#"},
			{Name: "style", Label: "Style", Kind: KindSelect, Default: "primary", Options: []SelectOption{
				{Value: "primary", Label: "Primary"},
				{Value: "secondary", Label: "Secondary"},
				{Value: "outline", Label: "Outline"},
			}},
			{Name: "new_tab", Label: "Open in new tab", Kind: KindCheckbox, Default: false},
		},
	},
	{
		name: "image",
		fields: []FieldDescriptor{
			{Name: "src", Label: "Image", Kind: KindImage, Required: true},
			{Name: "alt", Label: "Alt text", Kind: KindText, Default: ""},
			{Name: "width", Label: "Width %", Kind: KindNumber, Min: floatPtr(1), Max: floatPtr(100), Step: floatPtr(1), Default: float64(100)},
			{Name: "link", Label: "Link", Kind: KindURL},
		},
	},
	{
		name: "video",
		fields: []FieldDescriptor{
			{Name: "url", Label: "Video URL", Kind: KindURL, Required: true},
			{Name: "autoplay", Label: "Autoplay", Kind: KindCheckbox, Default: false},
			{Name: "loop", Label: "Loop", Kind: KindCheckbox, Default: false},
		},
	},
	{
		name: "columns",
		fields: []FieldDescriptor{
			{Name: "gap", Label: "Gap px", Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100), Step: floatPtr(1), Default: float64(16)},
		},
	},
	{
		name: "course_card",
		fields: []FieldDescriptor{
			{Name: "course_id", Label: "Course", Kind: KindText, Required: true},
			{Name: "show_excerpt", Label: "Show excerpt", Kind: KindCheckbox, Default: true},
			{Name: "show_teacher", Label: "Show teacher", Kind: KindCheckbox, Default: true},
		},
	},
	{
		name: "course_filter",
		fields: []FieldDescriptor{
			{Name: "taxonomy", Label: "Filter by", Kind: KindSelect, Default: "category", Options: []SelectOption{
				{Value: "category", Label: "Category"},
				{Value: "level", Label: "Level"},
				{Value: "subject", Label: "Subject"},
			}},
			{Name: "show_search", Label: "Show search box", Kind: KindCheckbox, Default: true},
		},
	},
	{
		name: "course_register",
		fields: []FieldDescriptor{
			{Name: "heading", Label: "Heading", Kind: KindText, Default: "Register"},
			{Name: "button_label", Label: "Button label", Kind: KindText, Default: "Sign up"},
			{Name: "notify_email", Label: "Notification email", Kind: KindEmail},
			{Name: "success_message", Label: "Success message", Kind: KindTextarea, Default: "Thank you for registering."},
		},
	},
}
