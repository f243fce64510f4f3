package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"yumbook/internal/domain/entity"
	"yumbook/internal/domain/repository"

	"github.com/google/uuid"
)

// In-memory test doubles for the repository and service interfaces. They
// reproduce the store's uniqueness semantics so conflict paths behave the
// same as against PostgreSQL.

type likeKey struct {
	userID   uuid.UUID
	recipeID uuid.UUID
}

type followKey struct {
	followerID uuid.UUID
	followedID uuid.UUID
}

type fakeStore struct {
	users         map[uuid.UUID]*entity.User
	recipes       map[uuid.UUID]*entity.Recipe
	likes         map[likeKey]time.Time
	follows       map[followKey]time.Time
	comments      []*entity.Comment
	notifications []*entity.Notification

	likeInserts   int
	followInserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[uuid.UUID]*entity.User),
		recipes: make(map[uuid.UUID]*entity.Recipe),
		likes:   make(map[likeKey]time.Time),
		follows: make(map[followKey]time.Time),
	}
}

// --- user repository ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.Username == username {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	if user, err := r.FindByUsername(ctx, login); err == nil {
		return user, nil
	}

	return r.FindByEmail(ctx, login)
}

func (r *fakeUserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, user := range r.store.users {
		if user.Email == email || user.Username == username {
			return true, nil
		}
	}

	return false, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	for _, existing := range r.store.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repository.ErrDuplicateUser
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for _, existing := range r.store.users {
		if existing.ID != user.ID && (existing.Email == user.Email || existing.Username == user.Username) {
			return repository.ErrDuplicateUser
		}
	}

	user.UpdatedAt = time.Now()
	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

// --- recipe repository ---

type fakeRecipeRepo struct {
	store *fakeStore
}

func (r *fakeRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Recipe, error) {
	recipe, ok := r.store.recipes[id]
	if !ok {
		return nil, repository.ErrRecipeNotFound
	}
	copied := *recipe

	return &copied, nil
}

func (r *fakeRecipeRepo) Create(_ context.Context, recipe *entity.Recipe) error {
	recipe.ID = uuid.New()
	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = recipe.CreatedAt
	copied := *recipe
	r.store.recipes[recipe.ID] = &copied

	return nil
}

func (r *fakeRecipeRepo) Update(_ context.Context, recipe *entity.Recipe) error {
	stored, ok := r.store.recipes[recipe.ID]
	if !ok {
		return repository.ErrRecipeNotFound
	}

	recipe.LikesCount = stored.LikesCount
	recipe.UpdatedAt = time.Now()
	copied := *recipe
	r.store.recipes[recipe.ID] = &copied

	return nil
}

func (r *fakeRecipeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.recipes[id]; !ok {
		return repository.ErrRecipeNotFound
	}
	delete(r.store.recipes, id)

	return nil
}

func (r *fakeRecipeRepo) List(_ context.Context, offset, limit int) ([]*entity.Recipe, error) {
	all := r.sortedByNewest()
	if offset >= len(all) {
		return []*entity.Recipe{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], nil
}

func (r *fakeRecipeRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Recipe, error) {
	var owned []*entity.Recipe
	for _, recipe := range r.sortedByNewest() {
		if recipe.OwnerID == ownerID {
			owned = append(owned, recipe)
		}
	}

	return owned, nil
}

func (r *fakeRecipeRepo) Search(_ context.Context, filter repository.SearchFilter) ([]*entity.Recipe, error) {
	var matched []*entity.Recipe
	for _, recipe := range r.sortedByNewest() {
		if filter.Query != "" &&
			!strings.Contains(strings.ToLower(recipe.Name), strings.ToLower(filter.Query)) &&
			!strings.Contains(strings.ToLower(recipe.Description), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.Cuisine != "" && !strings.EqualFold(recipe.Cuisine, filter.Cuisine) {
			continue
		}
		if filter.MaxCookingTime != nil && recipe.CookingTime > *filter.MaxCookingTime {
			continue
		}
		matched = append(matched, recipe)
	}

	return matched, nil
}

func (r *fakeRecipeRepo) Trending(_ context.Context, limit int) ([]*entity.Recipe, error) {
	all := r.sortedByNewest()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].LikesCount > all[j].LikesCount
	})
	if len(all) > limit {
		all = all[:limit]
	}

	return all, nil
}

func (r *fakeRecipeRepo) SimilarByCuisine(_ context.Context, cuisine string, exclude uuid.UUID, limit int) ([]*entity.Recipe, error) {
	var similar []*entity.Recipe
	for _, recipe := range r.sortedByNewest() {
		if recipe.ID == exclude || !strings.EqualFold(recipe.Cuisine, cuisine) {
			continue
		}
		similar = append(similar, recipe)
		if len(similar) == limit {
			break
		}
	}

	return similar, nil
}

func (r *fakeRecipeRepo) AddLikesCount(_ context.Context, id uuid.UUID, delta int) error {
	recipe, ok := r.store.recipes[id]
	if !ok {
		return repository.ErrRecipeNotFound
	}

	recipe.LikesCount += delta
	if recipe.LikesCount < 0 {
		recipe.LikesCount = 0
	}

	return nil
}

func (r *fakeRecipeRepo) sortedByNewest() []*entity.Recipe {
	all := make([]*entity.Recipe, 0, len(r.store.recipes))
	for _, recipe := range r.store.recipes {
		copied := *recipe
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return all
}

// --- like repository ---

type fakeLikeRepo struct {
	store *fakeStore
}

func (r *fakeLikeRepo) Exists(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	_, ok := r.store.likes[likeKey{userID, recipeID}]

	return ok, nil
}

func (r *fakeLikeRepo) Create(_ context.Context, like *entity.Like) error {
	r.store.likeInserts++
	key := likeKey{like.UserID, like.RecipeID}
	if _, ok := r.store.likes[key]; ok {
		return repository.ErrDuplicateLike
	}
	r.store.likes[key] = time.Now()

	return nil
}

func (r *fakeLikeRepo) Delete(_ context.Context, userID, recipeID uuid.UUID) error {
	key := likeKey{userID, recipeID}
	if _, ok := r.store.likes[key]; !ok {
		return repository.ErrLikeNotFound
	}
	delete(r.store.likes, key)

	return nil
}

// --- comment repository ---

type fakeCommentRepo struct {
	store *fakeStore
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *entity.Comment) error {
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	copied := *comment
	r.store.comments = append(r.store.comments, &copied)

	return nil
}

func (r *fakeCommentRepo) ListByRecipe(_ context.Context, recipeID uuid.UUID) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	for _, comment := range r.store.comments {
		if comment.RecipeID == recipeID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}

	return comments, nil
}

// --- follow repository ---

type fakeFollowRepo struct {
	store *fakeStore
}

func (r *fakeFollowRepo) Exists(_ context.Context, followerID, followedID uuid.UUID) (bool, error) {
	_, ok := r.store.follows[followKey{followerID, followedID}]

	return ok, nil
}

func (r *fakeFollowRepo) Create(_ context.Context, follow *entity.Follow) error {
	r.store.followInserts++
	key := followKey{follow.FollowerID, follow.FollowedID}
	if _, ok := r.store.follows[key]; ok {
		return repository.ErrDuplicateFollow
	}
	r.store.follows[key] = time.Now()

	return nil
}

func (r *fakeFollowRepo) Delete(_ context.Context, followerID, followedID uuid.UUID) error {
	key := followKey{followerID, followedID}
	if _, ok := r.store.follows[key]; !ok {
		return repository.ErrFollowNotFound
	}
	delete(r.store.follows, key)

	return nil
}

// --- notification repository ---

type fakeNotificationRepo struct {
	store *fakeStore
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *entity.Notification) error {
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	copied := *notification
	r.store.notifications = append(r.store.notifications, &copied)

	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, limit int) ([]*entity.Notification, error) {
	var notifications []*entity.Notification
	for i := len(r.store.notifications) - 1; i >= 0 && len(notifications) < limit; i-- {
		if r.store.notifications[i].RecipientID == recipientID {
			copied := *r.store.notifications[i]
			notifications = append(notifications, &copied)
		}
	}

	return notifications, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID uuid.UUID) error {
	for _, notification := range r.store.notifications {
		if notification.RecipientID == recipientID {
			notification.Read = true
		}
	}

	return nil
}

// --- transaction manager ---

type fakeRepoFactory struct {
	store *fakeStore
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{f.store} }
func (f *fakeRepoFactory) RecipeRepo() repository.RecipeRepository {
	return &fakeRecipeRepo{f.store}
}
func (f *fakeRepoFactory) LikeRepo() repository.LikeRepository { return &fakeLikeRepo{f.store} }
func (f *fakeRepoFactory) CommentRepo() repository.CommentRepository {
	return &fakeCommentRepo{f.store}
}
func (f *fakeRepoFactory) FollowRepo() repository.FollowRepository {
	return &fakeFollowRepo{f.store}
}
func (f *fakeRepoFactory) NotificationRepo() repository.NotificationRepository {
	return &fakeNotificationRepo{f.store}
}

type fakeTxManager struct {
	store *fakeStore
}

func (tm *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{store: tm.store})
}

// --- domain services ---

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (stubHasher) Check(password, hash string) bool     { return hash == "hashed:"+password }

type stubTokenService struct {
	accessTTL time.Duration
	resetTTL  time.Duration
}

func (s stubTokenService) Issue(subject uuid.UUID, _ time.Duration) (string, error) {
	return "token:" + subject.String(), nil
}

func (s stubTokenService) Verify(token string) (uuid.UUID, error) {
	raw, ok := strings.CutPrefix(token, "token:")
	if !ok {
		return uuid.Nil, repository.ErrUserNotFound
	}

	return uuid.Parse(raw)
}

func (s stubTokenService) AccessTokenTTL() time.Duration { return s.accessTTL }
func (s stubTokenService) ResetTokenTTL() time.Duration  { return s.resetTTL }

type fakeImageStore struct {
	files     map[string][]byte
	removeErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{files: make(map[string][]byte)}
}

func (s *fakeImageStore) Save(_ context.Context, dir, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	path := dir + "/" + filename
	s.files[path] = data

	return path, nil
}

func (s *fakeImageStore) Remove(_ context.Context, path string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.files, path)

	return nil
}

func (s *fakeImageStore) PublicURL(path string) string { return "/static/" + path }

type stubQRService struct{}

func (stubQRService) GenerateRecipeShareQR(_ uuid.UUID) ([]byte, error) {
	return bytes.Clone([]byte{0x89, 'P', 'N', 'G'}), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
