package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Page selects a window of a list. Number starts at 1.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// UserService manages accounts and follows.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates an account. Field errors come back as *ValidationError.
func (s *UserService) Register(ctx context.Context, req types.RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	err := validation.ValidateStruct(&req,
		validation.Field(&req.Email,
			validation.Required.Error(msgRequired),
			maxLen(254),
			is.EmailFormat.Error(msgEmailInvalid),
		),
		validation.Field(&req.Username,
			validation.Required.Error(msgRequired),
			maxLen(150),
			validation.Match(usernamePattern).Error(msgUsernamePattern),
		),
		validation.Field(&req.FirstName, validation.Required.Error(msgRequired), maxLen(150)),
		validation.Field(&req.LastName, validation.Required.Error(msgRequired), maxLen(150)),
		validation.Field(&req.Password,
			validation.Required.Error(msgRequired),
			validation.RuneLength(8, 128).Error(msgPasswordShort),
		),
	)
	if err != nil {
		return nil, fromValidation(err)
	}

	db := s.db.WithContext(ctx)
	verr := &ValidationError{}
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		verr.Add("username", msgUsernameTaken)
	}
	if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		verr.Add("email", msgEmailTaken)
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, NewValidationError("username", msgUsernameTaken)
		}
		return nil, err
	}
	return user, nil
}

// GetUser loads a user by id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ListUsers returns a page of users ordered by id, filtered by a username
// substring when search is set.
func (s *UserService) ListUsers(ctx context.Context, search string, page Page) ([]models.User, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Order("id").Offset(page.Offset()).Limit(page.Size).Find(&users).Error
	return users, total, err
}

// SetPassword replaces the password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, userID uint, req types.SetPasswordRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.CurrentPassword, validation.Required.Error(msgRequired)),
		validation.Field(&req.NewPassword,
			validation.Required.Error(msgRequired),
			validation.RuneLength(8, 128).Error(msgPasswordShort),
		),
	)
	if err != nil {
		return fromValidation(err)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return NewValidationError("current_password", msgWrongPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error
}

// SubscribedTo reports which of authorIDs the viewer follows. A zero viewer
// follows nobody.
func (s *UserService) SubscribedTo(ctx context.Context, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(authorIDs))
	if viewerID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// Subscribe makes userID follow authorID and returns the author.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uint) (author *models.User, err error) {
	defer func() { metrics.RecordToggle("subscription", "add", err) }()

	author, err = s.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, &ConflictError{Message: MsgSubscribeFailed}
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Follow{}).Where("user_id = ? AND author_id = ?", userID, authorID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: MsgSubscribeFailed}
	}

	if err := db.Create(&models.Follow{UserID: userID, AuthorID: authorID}).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, &ConflictError{Message: MsgSubscribeFailed}
		}
		return nil, err
	}
	return author, nil
}

// Unsubscribe removes the follow of authorID by userID.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uint) (err error) {
	defer func() { metrics.RecordToggle("subscription", "remove", err) }()

	if _, err := s.GetUser(ctx, authorID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ConflictError{Message: MsgUnsubscribeFailed, Missing: true}
	}
	return nil
}

// Subscriptions returns a page of the authors userID follows.
func (s *UserService) Subscriptions(ctx context.Context, userID uint, page Page) ([]models.User, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Select("users.*").Order("follows.id").Offset(page.Offset()).Limit(page.Size).Find(&users).Error
	return users, total, err
}

// AuthorRecipes holds the newest recipes of an author and how many they have.
type AuthorRecipes struct {
	Recipes []models.Recipe
	Count   int64
}

// RecipesByAuthors loads, per author, the newest recipes capped by limit
// (nil means no cap) and the total recipe count.
func (s *UserService) RecipesByAuthors(ctx context.Context, authorIDs []uint, limit *int) (map[uint]*AuthorRecipes, error) {
	out := make(map[uint]*AuthorRecipes, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	for _, id := range authorIDs {
		out[id] = &AuthorRecipes{}
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("pub_date DESC, id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	for _, r := range recipes {
		ar := out[r.AuthorID]
		ar.Count++
		if limit == nil || len(ar.Recipes) < *limit {
			ar.Recipes = append(ar.Recipes, r)
		}
	}
	return out, nil
}

