// Package hobbies implements CRUD for the hobby catalog. Reads are open to
// any authenticated student; mutations are admin-only.
package hobbies

// Hobby is one row of the hobbies table.
type Hobby struct {
	HobbyID int    `json:"hobby_id"`
	Hobby   string `json:"hobby"`
}
