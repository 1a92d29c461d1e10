package model

// Term is a taxonomy term (category, level, subject) a page can be filed
// under.
type Term struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Ctime    int64  `json:"ctime"`
}

const (
	TaxonomyCategory = "category"
	TaxonomyLevel    = "level"
	TaxonomySubject  = "subject"
)

func ValidTaxonomy(taxonomy string) bool {
	switch taxonomy {
	case TaxonomyCategory, TaxonomyLevel, TaxonomySubject:
		return true
	}
	return false
}
