package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"miniblog/internal/model"
	"miniblog/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A pooled :memory: connection per goroutine would mean a database per
	// connection; keep a single one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Post{}))
	return db
}

func createTestUser(t *testing.T, repo *repository.UserRepository, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, PasswordHash: "hashed"}
	require.NoError(t, repo.Create(user))
	return user
}

func createTestPost(t *testing.T, repo *repository.PostRepository, authorID, title string, published bool, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{
		AuthorID:  authorID,
		Title:     title,
		Content:   "content of " + title,
		Published: published,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(post))
	return post
}

func TestUserRepository_CreateAssignsID(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)

	user := createTestUser(t, repo, "Ann", "ann@x.com")
	assert.NotEmpty(t, user.ID)

	found, err := repo.GetByEmail("ann@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "Ann", found.Name)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)

	createTestUser(t, repo, "Ann", "ann@x.com")

	err := repo.Create(&model.User{Name: "Other Ann", Email: "ann@x.com", PasswordHash: "hashed"})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestUserRepository_GetByEmailMissing(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)

	user, err := repo.GetByEmail("nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_DeleteCascadesPosts(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	user := createTestUser(t, userRepo, "Ann", "ann@x.com")
	other := createTestUser(t, userRepo, "Bob", "bob@x.com")
	createTestPost(t, postRepo, user.ID, "First", true, time.Now())
	createTestPost(t, postRepo, user.ID, "Second", false, time.Now())
	keep := createTestPost(t, postRepo, other.ID, "Bob's", true, time.Now())

	require.NoError(t, userRepo.Delete(user.ID))

	_, total, err := postRepo.List(repository.PostFilter{AuthorID: user.ID}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	found, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// Other authors keep their posts.
	still, err := postRepo.GetByID(keep.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)
}

func TestUserRepository_DeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)

	err := repo.Delete("no-such-id")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_ListOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	user := createTestUser(t, userRepo, "Ann", "ann@x.com")
	base := time.Now().Add(-time.Hour)
	createTestPost(t, postRepo, user.ID, "oldest", true, base)
	createTestPost(t, postRepo, user.ID, "middle", true, base.Add(time.Minute))
	createTestPost(t, postRepo, user.ID, "newest", true, base.Add(2*time.Minute))

	posts, total, err := postRepo.List(repository.PostFilter{}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Title)
	assert.Equal(t, "middle", posts[1].Title)
	assert.Equal(t, "oldest", posts[2].Title)
}

func TestPostRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	ann := createTestUser(t, userRepo, "Ann", "ann@x.com")
	bob := createTestUser(t, userRepo, "Bob", "bob@x.com")
	base := time.Now().Add(-time.Hour)
	createTestPost(t, postRepo, ann.ID, "ann draft", false, base)
	createTestPost(t, postRepo, ann.ID, "ann published", true, base.Add(time.Minute))
	createTestPost(t, postRepo, bob.ID, "bob published", true, base.Add(2*time.Minute))

	published := true
	posts, total, err := postRepo.List(repository.PostFilter{Published: &published}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)

	posts, total, err = postRepo.List(repository.PostFilter{AuthorID: ann.ID}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)

	posts, total, err = postRepo.List(repository.PostFilter{Published: &published, AuthorID: ann.ID}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "ann published", posts[0].Title)
}

func TestPostRepository_ListPagination(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	user := createTestUser(t, userRepo, "Ann", "ann@x.com")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		createTestPost(t, postRepo, user.ID, "post", true, base.Add(time.Duration(i)*time.Minute))
	}

	posts, total, err := postRepo.List(repository.PostFilter{}, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, posts, 2)

	posts, _, err = postRepo.List(repository.PostFilter{}, 2, 4)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPostRepository_CreateResolvesAuthor(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	user := createTestUser(t, userRepo, "Ann", "ann@x.com")
	post := createTestPost(t, postRepo, user.ID, "Hi", false, time.Now())

	require.NotNil(t, post.Author)
	assert.Equal(t, user.ID, post.Author.ID)
	assert.Equal(t, "Ann", post.Author.Name)
}

func TestPostRepository_GetByIDAndAuthorID(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	ann := createTestUser(t, userRepo, "Ann", "ann@x.com")
	bob := createTestUser(t, userRepo, "Bob", "bob@x.com")
	post := createTestPost(t, postRepo, ann.ID, "Hi", false, time.Now())

	found, err := postRepo.GetByIDAndAuthorID(post.ID, ann.ID)
	require.NoError(t, err)
	assert.NotNil(t, found)

	found, err = postRepo.GetByIDAndAuthorID(post.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestPostRepository_DeleteMissing(t *testing.T) {
	db := newTestDB(t)
	postRepo := repository.NewPostRepository(db)

	err := postRepo.Delete("no-such-id")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_CountByAuthor(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	user := createTestUser(t, userRepo, "Ann", "ann@x.com")
	base := time.Now().Add(-time.Hour)
	createTestPost(t, postRepo, user.ID, "draft one", false, base)
	createTestPost(t, postRepo, user.ID, "draft two", false, base.Add(time.Minute))
	createTestPost(t, postRepo, user.ID, "published", true, base.Add(2*time.Minute))

	total, err := postRepo.CountByAuthor(user.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	published := true
	count, err := postRepo.CountByAuthor(user.ID, &published)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	draft := false
	count, err = postRepo.CountByAuthor(user.ID, &draft)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestPostRepository_ListRecentByAuthor(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	user := createTestUser(t, userRepo, "Ann", "ann@x.com")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		createTestPost(t, postRepo, user.ID, "post", i%2 == 0, base.Add(time.Duration(i)*time.Minute))
	}

	recent, err := postRepo.ListRecentByAuthor(user.ID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].CreatedAt.After(recent[i-1].CreatedAt))
	}
}
