package model

import "time"

const (
	DefaultBlogAuthor   = "Inflecto Technologies"
	DefaultBlogCategory = "AI & Automation"
)

// Blog is a stored blog post
type Blog struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"blog_title" bson:"title"`
	Author      string    `json:"author,omitempty" bson:"author,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Keywords    []string  `json:"blog_keywords,omitempty" bson:"keywords,omitempty"`
	TitleImage  string    `json:"title_image,omitempty" bson:"titleImage,omitempty"`
	Images      []string  `json:"images,omitempty" bson:"images,omitempty"`
	Description string    `json:"blog_description" bson:"description"`
	Points      []any     `json:"blog_points,omitempty" bson:"points,omitempty"` // Free-form, as authored
	CreatedAt   time.Time `json:"created_at" bson:"createdAt"`
}

// BlogView is the public representation of a blog post
type BlogView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Image       string    `json:"image,omitempty"`
	Content     string    `json:"content"`
	Points      []any     `json:"points"`
}

// View maps a stored post to its public shape, filling defaults
func (b *Blog) View() BlogView {
	v := BlogView{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Category:    b.Category,
		Date:        b.CreatedAt,
		Description: b.Description,
		Tags:        b.Keywords,
		Image:       b.TitleImage,
		Content:     b.Description,
		Points:      b.Points,
	}
	if v.Author == "" {
		v.Author = DefaultBlogAuthor
	}
	if v.Category == "" {
		v.Category = DefaultBlogCategory
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if v.Points == nil {
		v.Points = []any{}
	}
	return v
}
