package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
	flagCategory int64
	flagPages    int
	flagSlide    int
	flagPage     int
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := flagPassword
		if password == "" {
			password = os.Getenv("NEWSCTL_PASSWORD")
		}
		if flagEmail == "" || password == "" {
			return fmt.Errorf("email and password are required")
		}

		sess, err := current.service.Login(cmd.Context(), flagEmail, password)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "signed in as %s %s (%s)\n", sess.User.FirstName, sess.User.LastName, sess.User.Role)

		if ok, err := current.service.ShouldShowBirthday(cmd.Context()); err != nil {
			current.logger.Warn("birthday check", "error", err)
		} else if ok {
			fmt.Fprintf(out, "Happy birthday, %s!\n", sess.User.FirstName)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.service.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "signed out")
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List news categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := current.service.Categories(cmd.Context())
		if err != nil {
			return err
		}
		w := newTable(cmd.OutOrStdout())
		fmt.Fprintln(w, "ID\tNAME")
		for _, c := range categories {
			fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
		}
		return w.Flush()
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show breaking news and the news feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		slide, err := svc.SlideIndex(ctx)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("slide") {
			if err := svc.SetSlideIndex(ctx, flagSlide); err != nil {
				return err
			}
			slide = flagSlide
		}
		breaking, err := svc.BreakingNews(ctx)
		if err != nil {
			return err
		}
		printBreaking(out, breaking, slide)

		paged, err := svc.Feed(ctx, flagCategory)
		if err != nil {
			return err
		}
		for i := 1; i < flagPages && paged.HasMore(); i++ {
			if paged, err = svc.FetchNextPage(ctx, flagCategory); err != nil {
				return err
			}
		}
		fmt.Fprintln(out)
		if err := printNews(out, paged.Items()); err != nil {
			return err
		}
		if paged.HasMore() {
			fmt.Fprintf(out, "more available: --pages %d\n", len(paged.Pages)+1)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search news by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		items, err := svc.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printNews(cmd.OutOrStdout(), items)
	},
}

var showCmd = &cobra.Command{
	Use:   "show NEWS_ID",
	Short: "Show one news item with likes and comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		detail, err := svc.Detail(ctx, id)
		if err != nil {
			return err
		}
		if detail.Unavailable || detail.Item == nil {
			fmt.Fprintf(out, "news %d is no longer available\n", id)
			return nil
		}
		likes, err := svc.Likes(ctx, id)
		if err != nil {
			return err
		}
		bookmarked, err := svc.IsBookmarked(ctx, id)
		if err != nil {
			return err
		}
		printDetail(out, *detail.Item, likes, bookmarked)

		comments, err := svc.Comments(ctx, id, 1)
		if err != nil {
			return err
		}
		return printComments(out, comments)
	},
}

var likeCmd = &cobra.Command{
	Use:   "like NEWS_ID",
	Short: "Toggle your like on a news item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		state, err := svc.ToggleLike(cmd.Context(), id)
		if err != nil {
			return err
		}
		verb := "unliked"
		if state.IsLiked {
			verb = "liked"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s news %d (%d likes)\n", verb, id, state.LikesCount)
		return nil
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List saved news",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		items, err := svc.Bookmarks(cmd.Context())
		if err != nil {
			return err
		}
		return printNews(cmd.OutOrStdout(), items)
	},
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add NEWS_ID",
	Short: "Save a news item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := svc.AddBookmark(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved news %d\n", id)
		return nil
	},
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:   "remove NEWS_ID",
	Short: "Remove a saved news item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := svc.RemoveBookmark(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed news %d from saved\n", id)
		return nil
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments NEWS_ID",
	Short: "List comments of a news item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		comments, err := svc.Comments(cmd.Context(), id, flagPage)
		if err != nil {
			return err
		}
		return printComments(cmd.OutOrStdout(), comments)
	},
}

var commentAddCmd = &cobra.Command{
	Use:   "add NEWS_ID TEXT...",
	Short: "Post a comment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := svc.AddComment(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "comment posted, awaiting approval")
		return nil
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit NEWS_ID COMMENT_ID TEXT...",
	Short: "Edit one of your comments",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		newsID, commentID, err := parseIDPair(args[0], args[1])
		if err != nil {
			return err
		}
		return svc.EditComment(cmd.Context(), newsID, commentID, strings.Join(args[2:], " "))
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete NEWS_ID COMMENT_ID",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		newsID, commentID, err := parseIDPair(args[0], args[1])
		if err != nil {
			return err
		}
		return svc.DeleteComment(cmd.Context(), newsID, flagPage, commentID)
	},
}

var commentApproveCmd = &cobra.Command{
	Use:   "approve NEWS_ID COMMENT_ID",
	Short: "Approve a pending comment (admin only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		newsID, commentID, err := parseIDPair(args[0], args[1])
		if err != nil {
			return err
		}
		return svc.ApproveComment(cmd.Context(), newsID, commentID)
	},
}

var stateCmd = &cobra.Command{
	Use:   "state [PREFIX]",
	Short: "List locally persisted state keys",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		keys, err := current.kv.Keys(cmd.Context(), prefix)
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "account password (or NEWSCTL_PASSWORD)")

	feedCmd.Flags().Int64Var(&flagCategory, "category", 0, "category id, 0 for all")
	feedCmd.Flags().IntVar(&flagPages, "pages", 1, "number of feed pages to load")
	feedCmd.Flags().IntVar(&flagSlide, "slide", 0, "move the breaking news carousel to this position")

	bookmarksCmd.AddCommand(bookmarkAddCmd, bookmarkRemoveCmd)

	commentsCmd.PersistentFlags().IntVar(&flagPage, "page", 1, "comment page")
	commentsCmd.AddCommand(commentAddCmd, commentEditCmd, commentDeleteCmd, commentApproveCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDPair(a, b string) (int64, int64, error) {
	first, err := parseID(a)
	if err != nil {
		return 0, 0, err
	}
	second, err := parseID(b)
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}
