package seed

import (
	"fmt"
	"log"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers      int
	NumCategories int
	NumPosts      int
	ShouldClean   bool
}

// Seeder populates the database with demo content.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded content. Children go first so the deletes
// also work on databases that enforce foreign keys strictly.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []interface{}{
		&models.Comment{},
		&models.Post{},
		&models.Location{},
		&models.Category{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Run populates the database: users, categories, locations, posts with
// realistic publication spread, and comments.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	categories := make([]*models.Category, 0, opts.NumCategories)
	for i := 0; i < opts.NumCategories; i++ {
		// One unpublished category in the mix keeps the visibility rules
		// honest in demo data.
		category, err := s.factory.CreateCategory(func(c *models.Category) {
			c.IsPublished = i != 0
		})
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		categories = append(categories, category)
	}
	log.Printf("created %d categories", len(categories))

	locations := make([]*models.Location, 0, 5)
	for i := 0; i < 5; i++ {
		location, err := s.factory.CreateLocation()
		if err != nil {
			return fmt.Errorf("failed to create location: %w", err)
		}
		locations = append(locations, location)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[i%len(users)]
		category := categories[i%len(categories)]
		location := locations[i%len(locations)]
		posts = append(posts, s.factory.BuildPost(author, category, location))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	comments := 0
	for i, post := range posts {
		for j := 0; j < (i%4)+1; j++ {
			commenter := users[(i+j+1)%len(users)]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("created %d comments", comments)

	return nil
}
