package domain

// LinkKind names a parent/child relation between records.
type LinkKind string

const (
	// OrganizationProposals links an organization to proposal metadata.
	OrganizationProposals LinkKind = "organization_proposals"
	// AggregatorOrganizations links an aggregator to organizations.
	AggregatorOrganizations LinkKind = "aggregator_organizations"
)

// MaxPageSize caps a single listing.
const MaxPageSize = 100

// Window clamps offset/limit against total and returns the half-open range
// [start, end) to read. An offset past the end yields an empty window.
func Window(offset, limit, total int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset >= total {
		return total, total
	}
	end = offset + limit
	if end > total {
		end = total
	}
	return offset, end
}

// Page is one slice of a listing plus the full count.
type Page[T any] struct {
	Items  []T `json:"items"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}
