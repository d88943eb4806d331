package blob

// Service defines the minimal interface the rest of the server needs from the blob layer
type Service interface {
	// Backend returns the underlying blob storage backend
	Backend() IBlobBackend

	// Bucket returns the name of the bucket every key lives in
	Bucket() string
}
