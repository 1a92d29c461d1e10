package model

// Revision is a point-in-time copy of a page's builder document, written on
// every save. Content holds the serialized document JSON.
type Revision struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	PageID   string `json:"page_id"`
	Revision int    `json:"revision"`
	Content  string `json:"content"`
	Ctime    int64  `json:"ctime"`
}

type RevisionSummary struct {
	ID       string `json:"id"`
	PageID   string `json:"page_id"`
	Revision int    `json:"revision"`
	Ctime    int64  `json:"ctime"`
}
