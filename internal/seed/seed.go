// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"driftboard/internal/models"
	"driftboard/internal/search"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var demoBoards = []models.Board{
	{Name: "Free Talk", Slug: "free", Description: "Anything goes"},
	{Name: "Q&A", Slug: "qna", Description: "Questions and answers"},
	{Name: "Notices", Slug: "notice", Description: "Operator announcements"},
}

var sampleLinks = []string{
	"https://go.dev/blog/",
	"https://www.sqlite.org/fts5.html",
	"https://owasp.org/www-project-top-ten/",
	"https://fiber.wiki/",
}

// Run populates the database with demo users, boards, posts, comments,
// likes and views. Counters and the search index are kept consistent with
// the rows they mirror, so a seeded database satisfies the same invariants
// as a live one.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	var existing int64
	if err := db.Model(&models.User{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		log.Println("Database already seeded, skipping")
		return nil
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	boards := make([]*models.Board, 0, len(demoBoards))
	for i := range demoBoards {
		board := demoBoards[i]
		if err := db.Create(&board).Error; err != nil {
			return fmt.Errorf("seeding boards: %w", err)
		}
		boards = append(boards, &board)
	}

	posts, err := seedPosts(db, rng, users, boards, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}
	if err := seedComments(db, rng, users, posts); err != nil {
		return fmt.Errorf("seeding comments: %w", err)
	}
	if err := seedLikes(db, rng, users, posts); err != nil {
		return fmt.Errorf("seeding likes: %w", err)
	}
	if err := seedViews(db, rng, users, posts); err != nil {
		return fmt.Errorf("seeding views: %w", err)
	}

	log.Printf("Seeded %d users, %d boards, %d posts", len(users), len(boards), len(posts))
	return nil
}

func clean(db *gorm.DB) error {
	for _, model := range []any{
		&models.SearchEntry{}, &models.PostView{}, &models.Like{},
		&models.Comment{}, &models.Post{}, &models.Board{}, &models.User{},
	} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedUsers creates the fixed demo accounts plus n random ones. The fixed
// accounts (admin/alice/bob) keep well-known credentials for local work.
func seedUsers(db *gorm.DB, n int) ([]*models.User, error) {
	fixed := []struct {
		nickname string
		password string
		isAdmin  bool
	}{
		{"admin", "admin123", true},
		{"alice", "alice123", false},
		{"bob", "bob123", false},
	}

	var users []*models.User
	for _, f := range fixed {
		hash, err := bcrypt.GenerateFromPassword([]byte(f.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user := &models.User{Nickname: f.nickname, Password: string(hash), IsAdmin: f.isAdmin}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	// One shared hash for generated users keeps large seeds fast.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	for i := len(users); i < n; i++ {
		user := &models.User{
			Nickname: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Password: string(hash),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func seedPosts(db *gorm.DB, rng *rand.Rand, users []*models.User, boards []*models.Board, n int) ([]*models.Post, error) {
	if n <= 0 {
		n = 30
	}

	var posts []*models.Post
	for i := 0; i < n; i++ {
		body := gofakeit.Paragraph(2, 4, 8, "\n")
		var ogURL *string
		if rng.Intn(3) == 0 {
			link := sampleLinks[rng.Intn(len(sampleLinks))]
			body += "\n" + link
			ogURL = &link
		}

		post := &models.Post{
			BoardID:   boards[rng.Intn(len(boards))].ID,
			UserID:    users[rng.Intn(len(users))].ID,
			Title:     gofakeit.Sentence(rng.Intn(6) + 3),
			Body:      body,
			OGURL:     ogURL,
			CreatedAt: spreadBack(rng, 90),
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(post).Error; err != nil {
				return err
			}
			return search.UpsertEntry(tx, post)
		})
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// seedComments builds small threads: roots plus some replies, with the odd
// soft-deleted comment to exercise the placeholder path.
func seedComments(db *gorm.DB, rng *rand.Rand, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		var roots []*models.Comment
		for i := 0; i < rng.Intn(4); i++ {
			comment := &models.Comment{
				PostID:    post.ID,
				UserID:    users[rng.Intn(len(users))].ID,
				Body:      gofakeit.Sentence(rng.Intn(10) + 3),
				CreatedAt: post.CreatedAt.Add(time.Duration(i+1) * time.Hour),
			}
			if err := db.Create(comment).Error; err != nil {
				return err
			}
			roots = append(roots, comment)
		}

		for i, root := range roots {
			if rng.Intn(2) == 0 {
				continue
			}
			reply := &models.Comment{
				PostID:    post.ID,
				UserID:    users[rng.Intn(len(users))].ID,
				ParentID:  &root.ID,
				Body:      gofakeit.Sentence(rng.Intn(8) + 3),
				CreatedAt: root.CreatedAt.Add(time.Duration(i+1) * time.Minute),
			}
			if err := db.Create(reply).Error; err != nil {
				return err
			}
		}

		if len(roots) > 0 && rng.Intn(5) == 0 {
			err := db.Model(roots[0]).Updates(map[string]any{
				"is_deleted": true,
				"body":       models.DeletedCommentBody,
			}).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// seedLikes inserts Like rows and sets like_count to the exact row count.
func seedLikes(db *gorm.DB, rng *rand.Rand, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		count := 0
		for _, user := range users {
			if rng.Intn(4) != 0 {
				continue
			}
			like := &models.Like{PostID: post.ID, UserID: user.ID}
			if err := db.Create(like).Error; err != nil {
				return err
			}
			count++
		}
		if count > 0 {
			if err := db.Model(post).UpdateColumn("like_count", count).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// seedViews inserts PostView rows and sets view_count to the exact row count.
func seedViews(db *gorm.DB, rng *rand.Rand, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		count := 0
		for _, user := range users {
			if rng.Intn(2) != 0 {
				continue
			}
			view := &models.PostView{
				PostID:    post.ID,
				ViewerKey: fmt.Sprintf("user:%d", user.ID),
			}
			if err := db.Create(view).Error; err != nil {
				return err
			}
			count++
		}
		if count > 0 {
			if err := db.Model(post).UpdateColumn("view_count", count).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func spreadBack(rng *rand.Rand, maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(rng.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(rng.Intn(24)) * time.Hour).
		Add(-time.Duration(rng.Intn(60)) * time.Minute)
}
