package output

// Directory is the storage backend of the card registry: owner → card ID,
// surface message → owner, with a reverse index from owner to messages.
// Callers serialize access.
type Directory interface {
	PutOwner(ownerID, cardID string)
	Owner(ownerID string) (cardID string, ok bool)
	DeleteOwner(ownerID string)

	PutSurface(messageID, ownerID string)
	SurfaceOwner(messageID string) (ownerID string, ok bool)
	// DeleteSurfaces removes every surface mapped to ownerID and returns
	// their message IDs.
	DeleteSurfaces(ownerID string) []string
}
