package models

import "time"

// Blog is a content source owning posts.
type Blog struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	WebsiteURL string    `json:"websiteUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Post belongs to exactly one blog. BlogName is denormalized at write time.
type Post struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Content          string    `json:"content"`
	BlogID           string    `json:"blogId"`
	BlogName         string    `json:"blogName"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Comment belongs to a post and carries the author's identity.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	UserLogin string    `json:"userLogin"`
	PostID    string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
