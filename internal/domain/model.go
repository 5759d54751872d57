package domain

// Model is a selectable language model advertised by the server.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Label falls back to the ID when the server gave no display name.
func (m Model) Label() string {
	if m.Name == "" {
		return m.ID
	}
	return m.Name
}
