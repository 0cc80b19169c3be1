package content

// Activity is one community activity managed through the admin surface. The
// image slot holds at most one live stored-object URL.
type Activity struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	EventDate   string  `json:"event_date"`
	ImageURL    *string `json:"image_url"`
	CreatedAt   string  `json:"created_at"`
}

// GalleryImage is one gallery entry; the row owns exactly one stored object.
type GalleryImage struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	CreatedAt string `json:"created_at"`
}
