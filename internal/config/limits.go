package config

const (
	// MaxTitleLength is the maximum length for course, chapter, module and
	// video titles. Fits in PostgreSQL VARCHAR(255).
	MaxTitleLength = 255

	// MaxReorderItems caps the number of ids accepted by one reorder request.
	// Collections are hand-curated lists; anything larger is a client bug.
	MaxReorderItems = 1000

	// DefaultMembershipPageLimit is the page size used when listing a
	// principal's organization memberships. 100 is the identity provider's
	// maximum page size.
	DefaultMembershipPageLimit = 100

	// DefaultMembershipMaxPages bounds how many membership pages the admin gate
	// reads before giving up and denying.
	DefaultMembershipMaxPages = 10
)
