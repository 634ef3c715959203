package domain

import (
	"strings"
	"time"
)

type LikeState struct {
	NewsID     int64 `json:"newsId"`
	LikesCount int   `json:"likesCount"`
	IsLiked    bool  `json:"isLiked"`
}

// Toggled returns the state expected after the viewer flips their like.
func (l LikeState) Toggled() LikeState {
	if l.IsLiked {
		l.IsLiked = false
		if l.LikesCount > 0 {
			l.LikesCount--
		}
		return l
	}
	l.IsLiked = true
	l.LikesCount++
	return l
}

type Bookmark struct {
	ID        int64     `json:"id"`
	NewsID    int64     `json:"newsId"`
	CreatedAt time.Time `json:"createdAt"`
	News      *NewsItem `json:"News,omitempty"`
}

// BookmarkedNews turns a raw bookmark response into a displayable list.
// Bookmarks without an embedded, titled, eligible news item are dropped,
// as are duplicates.
func BookmarkedNews(bookmarks []Bookmark) []NewsItem {
	items := make([]NewsItem, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.News == nil || b.News.Title == "" {
			continue
		}
		item := *b.News
		item.BookmarkedAt = b.CreatedAt
		items = append(items, item)
	}
	return FilterFeed(items)
}

type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

type CommentAuthor struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type Comment struct {
	ID        int64         `json:"id"`
	NewsID    int64         `json:"newsId"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	Author    CommentAuthor `json:"User"`
	Status    CommentStatus `json:"status"`
}

type CommentPage struct {
	Comments   []Comment `json:"comments"`
	TotalCount int       `json:"totalCount"`
}

// Visible returns the comments a viewer may see. Privileged viewers see
// every status, everyone else only approved comments.
func (p CommentPage) Visible(privileged bool) CommentPage {
	if privileged {
		return p
	}
	out := CommentPage{TotalCount: p.TotalCount}
	for _, c := range p.Comments {
		if c.Status == CommentApproved {
			out.Comments = append(out.Comments, c)
		}
	}
	return out
}

// Without returns a copy of the page with the comment removed and the
// total adjusted.
func (p CommentPage) Without(commentID int64) CommentPage {
	out := CommentPage{TotalCount: p.TotalCount}
	removed := false
	for _, c := range p.Comments {
		if c.ID == commentID {
			removed = true
			continue
		}
		out.Comments = append(out.Comments, c)
	}
	if removed && out.TotalCount > 0 {
		out.TotalCount--
	}
	return out
}

const RoleAdmin = "admin"

type User struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Gender         string `json:"gender,omitempty"`
	Role           string `json:"role"`
	Faculty        string `json:"faculty,omitempty"`
	ProfilePicture string `json:"profilePicture"`
	DateOfBirth    string `json:"dateOfBirth"`
}

func (u User) Privileged() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// Birthday parses DateOfBirth. Both full timestamps and plain dates are
// accepted.
func (u User) Birthday() (time.Time, bool) {
	if u.DateOfBirth == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, u.DateOfBirth); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Session is the signed-in state persisted between launches.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != 0
}
