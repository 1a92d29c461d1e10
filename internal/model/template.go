package model

// LayoutTemplate is a prebuilt section/column/widget arrangement that can be
// instantiated into a page's builder document. Content holds the serialized
// document JSON; node IDs are re-minted on instantiation.
type LayoutTemplate struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
	BuiltIn     int    `json:"built_in"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}

type LayoutTemplateMeta struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BuiltIn     int    `json:"built_in"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}
