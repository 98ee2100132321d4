package domain

// Article is the input shape supplied by the catalog layer (or directly
// by API clients) when bookmarking. Only Link is required; everything
// else is metadata that gets denormalized into the record.
type Article struct {
	Link        string `json:"link" yaml:"link"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail"`
	CoverImage  string `json:"coverImage" yaml:"coverImage"`
	PublishedAt string `json:"publishedAt" yaml:"publishedAt"`
	Source      string `json:"source" yaml:"source"`
	ArticleID   string `json:"articleId" yaml:"articleId"`
	Category    string `json:"category" yaml:"category"`
}
