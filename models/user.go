package models

// User is a local account. Sync runs are always performed on behalf of one
// acting user: pulled replicas are assigned to them, and push candidate
// selection is scoped to the records they own.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}
