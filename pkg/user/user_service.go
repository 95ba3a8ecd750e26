package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"
	"foodgram-backend/internal/utils/mailing"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/links"
	"foodgram-backend/pkg/recipe"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUser(ctx context.Context, id, viewerID uuid.UUID) (domain.UserResponse, error)
		GetUsers(ctx context.Context, viewerID uuid.UUID, page, limit int) ([]domain.UserResponse, int64, error)
		SetPassword(ctx context.Context, userID uuid.UUID, req domain.SetPasswordRequest) error

		Subscribe(ctx context.Context, userID, authorID uuid.UUID) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
		GetSubscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.SubscriptionResponse, int64, error)
	}

	userService struct {
		userRepository   UserRepository
		recipeRepository recipe.RecipeRepository
		follows          links.Registry
		jwtService       jwt.JWTService
		mailer           mailing.Mailer
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeRepository recipe.RecipeRepository,
	follows links.Registry,
	jwtService jwt.JWTService,
	mailer mailing.Mailer,
) UserService {
	return &userService{
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		follows:          follows,
		jwtService:       jwtService,
		mailer:           mailer,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if !usernamePattern.MatchString(username) {
		return domain.UserResponse{}, domain.NewValidationError("username", "username contains invalid characters")
	}
	if strings.EqualFold(username, "me") {
		return domain.UserResponse{}, domain.NewValidationError("username", `username "me" is reserved`)
	}
	if strings.EqualFold(username, req.Email) {
		return domain.UserResponse{}, domain.NewValidationError("username", "username must differ from email")
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserResponse{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.UserResponse{}, err
	}
	if _, err := s.userRepository.GetUserByUsername(ctx, username); err == nil {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      entities.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.UserResponse{}, domain.ErrEmailTaken
		}
		return domain.UserResponse{}, err
	}

	// Best effort; registration does not fail on mail trouble.
	if s.mailer != nil {
		body := fmt.Sprintf("<p>Hi %s, welcome to Foodgram!</p>", user.Username)
		_ = s.mailer.Send(user.Email, "Welcome to Foodgram", body)
	}

	return toUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{Token: token}, nil
}

func (s *userService) GetUser(ctx context.Context, id, viewerID uuid.UUID) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	isSubscribed, err := s.follows.Exists(ctx, viewerID, user.ID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user, isSubscribed), nil
}

func (s *userService) GetUsers(ctx context.Context, viewerID uuid.UUID, page, limit int) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		isSubscribed, err := s.follows.Exists(ctx, viewerID, u.ID)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, toUserResponse(u, isSubscribed))
	}
	return result, count, nil
}

func (s *userService) SetPassword(ctx context.Context, userID uuid.UUID, req domain.SetPasswordRequest) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.NewValidationError("current_password", "current password is incorrect")
	}
	if req.CurrentPassword == req.NewPassword {
		return domain.NewValidationError("new_password", "new password must differ from the current one")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, userID, string(hashed))
}

func (s *userService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (domain.SubscriptionResponse, error) {
	if userID == authorID {
		return domain.SubscriptionResponse{}, domain.NewValidationError("author", "cannot follow self")
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	if err := s.follows.Add(ctx, userID, authorID); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.SubscriptionResponse{}, domain.ErrAlreadySubscribed
		}
		return domain.SubscriptionResponse{}, err
	}

	return s.toSubscriptionResponse(ctx, author)
}

func (s *userService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.userRepository.GetUserByID(ctx, authorID); err != nil {
		return err
	}
	if err := s.follows.Remove(ctx, userID, authorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetSubscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.SubscriptionResponse, int64, error) {
	authors, count, err := s.userRepository.GetSubscriptions(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		res, err := s.toSubscriptionResponse(ctx, author)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, res)
	}
	return result, count, nil
}

// toSubscriptionResponse renders an author the way the subscriptions listing
// wants them: profile, their recipes in short form, and the recipe count.
// Callers only reach this for authors the user follows (or just followed),
// so is_subscribed is true by construction.
func (s *userService) toSubscriptionResponse(ctx context.Context, author *entities.User) (domain.SubscriptionResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	count, err := s.recipeRepository.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}

	short := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, domain.RecipeShortResponse{
			ID:          r.ID.String(),
			Name:        r.Name,
			Image:       r.Image,
			CookingTime: r.CookingTime,
		})
	}

	return domain.SubscriptionResponse{
		UserResponse: toUserResponse(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

func toUserResponse(u *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}
