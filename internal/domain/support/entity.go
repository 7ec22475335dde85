package support

// Category enum
type Category string

const (
	CategoryEmergency     Category = "emergency"
	CategoryGovernment    Category = "government"
	CategoryNGO           Category = "ngo"
	CategoryLegal         Category = "legal"
	CategoryPsychological Category = "psychological"
)

// Categories in display order.
var Categories = []Category{
	CategoryEmergency,
	CategoryGovernment,
	CategoryNGO,
	CategoryLegal,
	CategoryPsychological,
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Org is a support organization directory entry.
type Org struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     Category `json:"category"`
	Phone        string   `json:"phone"`
	Description  string   `json:"description"`
	Region       string   `json:"region"`
	Website      string   `json:"website,omitempty"`
	Available24h bool     `json:"available24h"`
}

// Group is one category section of the directory.
type Group struct {
	Category Category `json:"category"`
	Orgs     []Org    `json:"organizations"`
}
