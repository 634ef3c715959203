package service

import "news_sync/internal/cache"

// Cache key families. Keys that embed the credential are dropped from use
// when the session changes.

func BreakingNewsKey(userID int64, token string) cache.Key {
	return cache.NewKey("breakingNews", userID, token)
}

// FeedKey addresses the paged feed of one category; 0 is all categories.
func FeedKey(userID int64, token string, categoryID int64) cache.Key {
	return cache.NewKey("allNews", userID, token, categoryID)
}

func BookmarksKey(userID int64) cache.Key {
	return cache.NewKey("bookmarks", userID)
}

// BookmarkFlagKey holds whether the user bookmarked one item.
func BookmarkFlagKey(newsID, userID int64) cache.Key {
	return cache.NewKey("bookmark", newsID, userID)
}

func NewsKey(id int64) cache.Key {
	return cache.NewKey("news", id)
}

func LikesKey(newsID int64) cache.Key {
	return cache.NewKey("likes", newsID)
}

func CommentsKey(newsID int64, page int) cache.Key {
	return cache.NewKey("comments", newsID, page)
}

// CommentsPrefix matches every loaded comment page of one item.
func CommentsPrefix(newsID int64) cache.Key {
	return cache.NewKey("comments", newsID)
}

func SearchKey(query, token string) cache.Key {
	return cache.NewKey("searchNews", query, token)
}

func CategoriesKey() cache.Key {
	return cache.NewKey("categories")
}
