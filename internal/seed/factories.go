// Package seed creates demo accounts and posts for development databases.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"bloghub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password1234"

// Factory builds accounts and posts with fake content. It does not persist.
type Factory struct {
	faker *gofakeit.Faker
	rnd   *rand.Rand
	hash  string
}

// NewFactory returns a Factory. A zero seed picks a time-based one.
// Every account shares one bcrypt hash of DefaultPassword.
func NewFactory(seed int64, bcryptCost int) (*Factory, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{
		faker: gofakeit.New(seed),
		rnd:   rand.New(rand.NewSource(seed)), // #nosec G404: demo data only
		hash:  string(hash),
	}, nil
}

// Account builds the n-th account. The index keeps usernames and emails unique.
func (f *Factory) Account(n int) *models.Account {
	username := usernameFor(f.faker.Username(), n)
	return &models.Account{
		Username: username,
		Email:    username + "@example.com",
		Password: f.hash,
	}
}

// Post builds a post owned by owner with a created_at spread over the last maxDays.
func (f *Factory) Post(owner *models.Account, maxDays int) *models.Post {
	if maxDays <= 0 {
		maxDays = 90
	}
	age := time.Duration(f.rnd.Intn(maxDays*24*60)) * time.Minute
	created := time.Now().Add(-age)

	title := strings.TrimSuffix(f.faker.Sentence(f.rnd.Intn(6)+3), ".")
	if len(title) > 200 {
		title = title[:200]
	}

	return &models.Post{
		Title:     title,
		Paragraph: f.faker.Paragraph(1, f.rnd.Intn(4)+2, 12, " "),
		UserID:    owner.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// usernameFor keeps letters and digits of base and appends n, giving 5 to 20 chars.
func usernameFor(base string, n int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	suffix := fmt.Sprintf("%d", n)
	name := b.String()
	if limit := 20 - len(suffix); len(name) > limit {
		name = name[:limit]
	}
	name += suffix
	for len(name) < 5 {
		name = "u" + name
	}
	return name
}
