package api

// Post is the read projection returned by the list and single-post endpoints.
// The client never mutates it locally; every render re-fetches from the server.
type Post struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
	Date    string `json:"date"`
	ImgFile string `json:"img_file"`
	Author  string `json:"author"`
}

// ListQuery names one page of a server-paginated list.
type ListQuery struct {
	Page    int
	PerPage int
	// Search is sent as a filter only when non-empty after trimming.
	Search string
}

// ListResult is one page of posts plus pagination metadata.
type ListResult struct {
	Posts       []Post
	CurrentPage int
	TotalPages  int
	TotalPosts  int
}

// User is the profile projection returned by GET /profile.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PostDraft carries the fields for creating or updating a post.
// ImagePath is optional on update: when empty, the img_file part is omitted
// entirely, which the server reads as "keep the existing image".
type PostDraft struct {
	Title     string
	Content   string
	ImagePath string
}

// Registration carries the multipart profile fields for POST /register.
type Registration struct {
	Name      string
	DOB       string
	Place     string
	Address   string
	Email     string
	Password  string
	ImagePath string
}

// ContactMessage is the JSON body for POST /contact.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Wire envelopes. The backend wraps everything in a status/error envelope;
// list endpoints add pagination metadata.

type listResponse struct {
	Status      bool   `json:"status"`
	Posts       []Post `json:"posts"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	TotalPosts  int    `json:"total_posts"`
	Error       string `json:"error"`
}

type singlePostResponse struct {
	Status bool `json:"status"`
	// The backend returns the post as a single-element array, not a bare object.
	Post  []Post `json:"post"`
	Error string `json:"error"`
}

type editPostResponse struct {
	Post  *Post  `json:"post"`
	Error string `json:"error"`
}

type profileResponse struct {
	Status bool   `json:"status"`
	User   User   `json:"user"`
	Error  string `json:"error"`
}

type statusResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

type registerResponse struct {
	Status bool              `json:"status"`
	Errors map[string]string `json:"errors"`
	Error  string            `json:"error"`
}

type contactResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}
