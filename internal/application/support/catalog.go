package support

import (
	"github.com/google/uuid"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/support"
)

var orgNamespace = uuid.MustParse("8f0c6f4e-3c1b-4d7a-9a53-5b6f2f0e1c2d")

// Catalog is the read-only support directory. It is seeded once and safe
// for concurrent use because nothing mutates it afterwards.
type Catalog struct {
	orgs []domain.Org
}

// NewCatalog copies orgs, drops entries with an unknown category and
// assigns stable ids to entries without one.
func NewCatalog(orgs []domain.Org) *Catalog {
	out := make([]domain.Org, 0, len(orgs))
	for _, o := range orgs {
		if !o.Category.Valid() {
			continue
		}
		if o.ID == "" {
			o.ID = uuid.NewSHA1(orgNamespace, []byte(o.Name)).String()
		}
		out = append(out, o)
	}
	return &Catalog{orgs: out}
}

// Default returns the catalog built from the seeded directory.
func Default() *Catalog { return NewCatalog(domain.Seed) }

func (c *Catalog) All() []domain.Org {
	out := make([]domain.Org, len(c.orgs))
	copy(out, c.orgs)
	return out
}

// ByCategory never fails; an unknown category yields an empty slice.
func (c *Catalog) ByCategory(category string) []domain.Org {
	out := []domain.Org{}
	for _, o := range c.orgs {
		if string(o.Category) == category {
			out = append(out, o)
		}
	}
	return out
}

// Grouped lists non-empty known categories in display order.
func (c *Catalog) Grouped() []domain.Group {
	var groups []domain.Group
	for _, cat := range domain.Categories {
		orgs := c.ByCategory(string(cat))
		if len(orgs) == 0 {
			continue
		}
		groups = append(groups, domain.Group{Category: cat, Orgs: orgs})
	}
	return groups
}

func (c *Catalog) Len() int { return len(c.orgs) }
