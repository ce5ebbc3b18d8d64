package domain

// Domain contains core models shared by the API client and the runtime.

// Friend is a single entry of a friends.get response requested with name fields.
type Friend struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName renders the friend as "First Last".
func (f Friend) DisplayName() string {
	return f.FirstName + " " + f.LastName
}

// Album is a single entry of a photos.getAlbums response.
type Album struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Title   string `json:"title"`
	Size    int    `json:"size"`
}
