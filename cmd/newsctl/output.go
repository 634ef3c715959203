package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"news_sync/internal/domain"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func categoryName(item domain.NewsItem) string {
	if item.Category == nil {
		return ""
	}
	return item.Category.Name
}

func printBreaking(out io.Writer, items []domain.NewsItem, slide int) {
	fmt.Fprintln(out, "BREAKING")
	if len(items) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	if slide < 0 || slide >= len(items) {
		slide = 0
	}
	for i, item := range items {
		marker := " "
		if i == slide {
			marker = ">"
		}
		fmt.Fprintf(out, "%s %d  %s\n", marker, item.ID, item.Title)
	}
}

func printNews(out io.Writer, items []domain.NewsItem) error {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tCATEGORY\tPUBLISHED\tTITLE")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.ID, categoryName(item), item.CreatedAt.Format("2006-01-02"), item.Title)
	}
	return w.Flush()
}

func printDetail(out io.Writer, item domain.NewsItem, likes domain.LikeState, bookmarked bool) {
	fmt.Fprintf(out, "%s\n%s · %s\n\n", item.Title, categoryName(item), item.CreatedAt.Format("2006-01-02 15:04"))
	if item.Content != "" {
		fmt.Fprintf(out, "%s\n\n", item.Content)
	}
	liked := ""
	if likes.IsLiked {
		liked = " (you liked this)"
	}
	fmt.Fprintf(out, "likes: %d%s\n", likes.LikesCount, liked)
	if bookmarked {
		fmt.Fprintln(out, "saved")
	}
}

func printComments(out io.Writer, page domain.CommentPage) error {
	fmt.Fprintf(out, "\ncomments (%d)\n", page.TotalCount)
	w := newTable(out)
	for _, c := range page.Comments {
		fmt.Fprintf(w, "%d\t%s %s\t%s\t%s\n", c.ID, c.Author.FirstName, c.Author.LastName, c.Status, c.Content)
	}
	return w.Flush()
}
