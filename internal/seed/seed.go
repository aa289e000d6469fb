package seed

import (
	"context"
	"fmt"
	"log"

	"brewhub/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
}

// Result counts what a Seed run created.
type Result struct {
	Users   int
	Bags    int
	Posts   int
	Follows int
}

// demoTables are cleared by --clean, children first.
var demoTables = []string{"comments", "likes", "posts", "follows", "tasting_records", "coffee_bags", "users"}

// Seed populates the database with demo identities, bags, posts and a follow mesh.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)
	db = db.WithContext(ctx)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f := NewFactory(db, opts.SkipBcrypt)
	res := &Result{}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return res, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
		if _, err := f.CreateBag(user); err != nil {
			return res, fmt.Errorf("failed to create bag: %w", err)
		}
		res.Bags++
	}
	res.Users = len(users)
	log.Printf("✓ %d users with bags created", res.Users)
	if len(users) == 0 {
		return res, nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		if _, err := f.CreatePost(users[f.rng.Intn(len(users))]); err != nil {
			return res, fmt.Errorf("failed to create post: %w", err)
		}
		res.Posts++
	}
	log.Printf("✓ %d posts created", res.Posts)

	// Ring mesh: everyone follows the next two users, so every following feed is non-empty.
	for i, user := range users {
		for step := 1; step <= 2 && step < len(users); step++ {
			if err := f.CreateFollow(user, users[(i+step)%len(users)]); err != nil {
				return res, fmt.Errorf("failed to create follow: %w", err)
			}
			res.Follows++
		}
	}
	log.Printf("✓ %d follows created", res.Follows)

	log.Println("🎉 Database seeding completed successfully!")
	return res, nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		return db.Exec("TRUNCATE TABLE comments, likes, posts, follows, tasting_records, coffee_bags, users RESTART IDENTITY CASCADE").Error
	}
	// User recipes go with their owners. Built-in recipes stay.
	if err := db.Exec("DELETE FROM recipes WHERE owner_kind = ?", "user").Error; err != nil {
		return err
	}
	for _, table := range demoTables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
