package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures into stable machine-readable kinds.
// Callers (CLI, any external router) map these to user-facing results
// without inspecting messages.
var (
	// TagInvalidInput marks caller-fixable validation failures. No side
	// effects have occurred when an error carries this tag.
	TagInvalidInput = goerr.NewTag("invalid_input")

	// TagEmbedding marks embedding provider failures surfaced after the
	// retry budget, including unexpected output dimensions.
	TagEmbedding = goerr.NewTag("embedding")

	// TagCollectionConfig marks dimension/metric drift of the vector
	// collection. Fatal at startup, never retried per request.
	TagCollectionConfig = goerr.NewTag("collection_config")

	// TagStorage marks vector store failures after validation and
	// embedding succeeded.
	TagStorage = goerr.NewTag("storage")

	// TagNotFound marks a lookup or delete miss.
	TagNotFound = goerr.NewTag("not_found")

	// TagUnsupported marks operations unavailable in the active backend
	// mode, e.g. similarity search on the embedded store.
	TagUnsupported = goerr.NewTag("unsupported")
)

var (
	ErrCardNotFound = goerr.New("card not found", goerr.T(TagNotFound))

	ErrSearchUnsupported = goerr.New("similarity search is not supported by this store", goerr.T(TagUnsupported))
)
