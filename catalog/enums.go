package catalog

//go:generate go tool go-enum --names --marshal

// Stage of catalog loading as seen by the session.
// ENUM(pending, loaded, failed)
type LoadStatus int
