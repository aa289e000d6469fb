// Package seed provides helpers to create built-in and demo data for the
// application database. Demo data is intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"brewhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "password123"

var (
	origins   = []string{"Huila", "Nariño", "Cauca", "Yirgacheffe", "Sidamo", "Antigua", "Tarrazú", "Cajamarca", "Kiambu"}
	varietals = []string{"Caturra", "Castillo", "Geisha", "Bourbon", "Typica", "SL28", "Pacamara"}
	methods   = []string{"V60", "Chemex", "Aeropress", "Prensa Francesa", "Espresso"}
	tasting   = []string{"chocolate", "caramelo", "frutos rojos", "cítricos", "panela", "jazmín", "durazno", "nuez"}
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed and tests.
type Factory struct {
	db         *gorm.DB
	skipBcrypt bool
	rng        *rand.Rand
	hashed     string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, skipBcrypt bool) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:         db,
		skipBcrypt: skipBcrypt,
		//nolint:gosec // Weak random number generator is fine for seeding
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *Factory) password() (string, error) {
	if f.skipBcrypt {
		return demoPassword, nil
	}
	if f.hashed == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("hash demo password: %w", err)
		}
		f.hashed = string(hashed)
	}
	return f.hashed, nil
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	password, err := f.password()
	if err != nil {
		return nil, err
	}
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	user := &models.User{
		DisplayName: first + " " + last,
		Email:       strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, gofakeit.Number(100, 9999))),
		Password:    password,
		Role:        "user",
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateBag persists a partially used coffee bag owned by user.
func (f *Factory) CreateBag(user *models.User, overrides ...func(*models.CoffeeBag)) (*models.CoffeeBag, error) {
	initial := float64(gofakeit.RandomInt([]int{250, 340, 500, 1000}))
	used := models.RoundGrams(f.rng.Float64() * initial * 0.8)
	bag := &models.CoffeeBag{
		UserID:          user.ID,
		Name:            fmt.Sprintf("%s %s", gofakeit.RandomString(origins), gofakeit.RandomString(varietals)),
		Origin:          gofakeit.RandomString(origins),
		Roaster:         gofakeit.Company(),
		Varietal:        gofakeit.RandomString(varietals),
		Notes:           strings.Join([]string{gofakeit.RandomString(tasting), gofakeit.RandomString(tasting)}, ", "),
		GrindSuggestion: "media",
		InitialWeight:   initial,
		RemainingWeight: models.RoundGrams(initial - used),
	}
	for _, override := range overrides {
		override(bag)
	}

	if err := f.db.Create(bag).Error; err != nil {
		return nil, err
	}
	return bag, nil
}

// CreatePost constructs and persists a sample `models.Post` for the given user,
// spread over the last 90 days.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		UserID:      user.ID,
		AuthorName:  user.DisplayName,
		AuthorEmail: user.Email,
		Content: fmt.Sprintf("%s hoy con notas de %s. %s",
			gofakeit.RandomString(methods), gofakeit.RandomString(tasting), gofakeit.Sentence(8)),
		CreatedAt: time.Now().Add(-time.Duration(f.rng.Intn(90*24*60)) * time.Minute),
	}
	if f.rng.Float32() < 0.4 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateFollow persists the edge follower -> following.
func (f *Factory) CreateFollow(follower, following *models.User) error {
	return f.db.Create(&models.Follow{FollowerID: follower.ID, FollowingID: following.ID}).Error
}
