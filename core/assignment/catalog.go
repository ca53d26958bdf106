package assignment

import (
	"github.com/projeval/projeval/core"
	"github.com/projeval/projeval/core/rubric"
)

// Catalog holds the duty subtype catalogs and the supervisor allow-list.
// It is built from configuration; nothing here is hard-coded at use sites.
type Catalog struct {
	eligibleStaffPosts   []string
	presentationSubTypes []string
	reportSubTypes       []string
}

func NewCatalog(conf core.DutyConfig) Catalog {
	return Catalog{
		eligibleStaffPosts:   conf.EligibleStaffPosts,
		presentationSubTypes: conf.PresentationSubTypes,
		reportSubTypes:       conf.ReportSubTypes,
	}
}

// SubTypes returns the subtype catalog for the given artifact type.
func (c Catalog) SubTypes(typ string) []string {
	switch typ {
	case rubric.TypePresentation:
		return c.presentationSubTypes
	case rubric.TypeReport:
		return c.reportSubTypes
	}
	return nil
}

// ValidSubType reports whether subType belongs to the catalog keyed by typ.
func (c Catalog) ValidSubType(typ, subType string) bool {
	for _, st := range c.SubTypes(typ) {
		if st == subType {
			return true
		}
	}
	return false
}

// EligibleStaffPost reports whether post is a senior academic title
// permitted to hold supervisor duty.
func (c Catalog) EligibleStaffPost(post string) bool {
	for _, p := range c.eligibleStaffPosts {
		if p == post {
			return true
		}
	}
	return false
}
