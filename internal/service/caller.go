// Package service implements the application's business operations on top of the store.
package service

// Caller is the authenticated identity performing an operation,
// as delivered by the auth layer.
type Caller struct {
	ID    string
	Admin bool
}

// CanModify returns true if the caller owns the resource or is an admin.
func (c Caller) CanModify(ownerID string) bool {
	return c.Admin || c.ID == ownerID
}
