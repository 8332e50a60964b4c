package models

import "time"

type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Announcement struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Image     MediaRef  `db:"image" json:"image"`
	Audience  []Role    `db:"audience" json:"audience"`
	CreatedBy int64     `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type GalleryEvent struct {
	ID     int64      `db:"id" json:"id"`
	Title  string     `db:"title" json:"title"`
	Images []MediaRef `db:"images" json:"images"`
}

type Alumnus struct {
	ID    int64    `db:"id" json:"id"`
	Name  string   `db:"name" json:"name"`
	Photo MediaRef `db:"photo" json:"photo"`
}

type TeamMember struct {
	ID    int64    `db:"id" json:"id"`
	Name  string   `db:"name" json:"name"`
	Photo MediaRef `db:"photo" json:"photo"`
}

type AboutUs struct {
	ID    int64    `db:"id" json:"id"`
	Image MediaRef `db:"image" json:"image"`
}
