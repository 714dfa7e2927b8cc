package model

// Repository identifies the GitHub repository a run operates on.
type Repository struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form of the repository.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
