package models

// Article is a community post.
type Article struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    ID        `json:"user,omitempty"`
	CreatedAt Timestamp `json:"created_at,omitempty"`
	UpdatedAt Timestamp `json:"updated_at,omitempty"`
}

// ArticlePayload is the create/update body.
type ArticlePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
