package constants

// Link categories. Every category key is always present in link output,
// defaulting to an empty list.
const (
	CategoryWeb           = "web"
	CategoryLinkedIn      = "linkedin"
	CategoryGitHub        = "github"
	CategoryStackOverflow = "stackoverflow"
	CategoryEmail         = "email"
	CategoryAnnotation    = "annotation"
)

// LinkCategories is the fixed output key set for link extraction.
var LinkCategories = []string{
	CategoryWeb,
	CategoryLinkedIn,
	CategoryGitHub,
	CategoryStackOverflow,
	CategoryEmail,
	CategoryAnnotation,
}

// Link origins.
const (
	OriginAnnotation = "annotation"
	OriginText       = "text"
)
