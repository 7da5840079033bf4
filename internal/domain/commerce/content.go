package commerce

import "time"

// MenuItem is a navigation link with a storefront-relative path
type MenuItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Page is a merchant-authored CMS page
type Page struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Body        string    `json:"body"`
	BodySummary string    `json:"bodySummary"`
	SEO         SEO       `json:"seo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Article is a blog post
type Article struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	BlogHandle  string    `json:"blogHandle"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	ContentHTML string    `json:"contentHtml"`
	PublishedAt time.Time `json:"publishedAt"`
	Tags        []string  `json:"tags"`
	Author      string    `json:"author"`
	Image       *Image    `json:"image,omitempty"`
	SEO         SEO       `json:"seo"`
}

// Path returns the storefront URL path of the article
func (a *Article) Path() string {
	return "/blog/" + a.BlogHandle + "/" + a.Handle
}

// Blog is a named list of articles
type Blog struct {
	Handle string `json:"handle"`
	Title  string `json:"title"`
	SEO    SEO    `json:"seo"`
}

// ArticlePage is one page of a blog's articles
type ArticlePage struct {
	Blog     Blog      `json:"blog"`
	Articles []Article `json:"articles"`
	PageInfo PageInfo  `json:"pageInfo"`
}
