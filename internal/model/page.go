package model

// Page is one content item: a course, a program, a teacher profile, or a plain
// page. The builder document for a page lives in page_meta, keyed by page ID.
type Page struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Excerpt        string `json:"excerpt"`
	Status         string `json:"status"`
	BuilderEnabled int    `json:"builder_enabled"`
	State          int    `json:"state"`
	Ctime          int64  `json:"ctime"`
	Mtime          int64  `json:"mtime"`
}

const (
	PageTypeCourse  = "course"
	PageTypeProgram = "program"
	PageTypeTeacher = "teacher"
	PageTypePage    = "page"
)

const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

func ValidPageType(pageType string) bool {
	switch pageType {
	case PageTypeCourse, PageTypeProgram, PageTypeTeacher, PageTypePage:
		return true
	}
	return false
}
