package dto

type CreatePostRequest struct {
	Title        string   `json:"title"`
	Message      string   `json:"message"`
	SelectedFile string   `json:"selectedFile"`
	Creator      string   `json:"creator"`
	Tags         []string `json:"tags"`
}

// UpdatePostRequest replaces only the fields that are present.
type UpdatePostRequest struct {
	Title        *string   `json:"title"`
	Message      *string   `json:"message"`
	SelectedFile *string   `json:"selectedFile"`
	Tags         *[]string `json:"tags"`
}

// LikePostRequest sets the like state explicitly. Without it the like is toggled.
type LikePostRequest struct {
	Liked *bool `json:"liked"`
}
