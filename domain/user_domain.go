package domain

import (
	"fmt"
)

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetMe            = "success get current user"
	MessageSuccessGetUsers         = "success get users"
	MessageSuccessSetPassword      = "password changed successfully"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetMe            = "failed to get current user"
	MessageFailedGetUsers         = "failed to get users"
	MessageFailedSetPassword      = "failed to change password"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrEmailTaken           = fmt.Errorf("email %w", ErrAlreadyExists)
	ErrUsernameTaken        = fmt.Errorf("username %w", ErrAlreadyExists)
	ErrAlreadySubscribed    = fmt.Errorf("subscription %w", ErrAlreadyExists)
	ErrSubscriptionNotFound = fmt.Errorf("subscription %w", ErrNotFound)
	ErrCredentialsInvalid   = NewValidationError("password", "invalid email or password")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"omitempty,max=150"`
		LastName  string `json:"last_name" validate:"omitempty,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=150"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// SubscriptionResponse is a followed author together with their recipes,
	// the shape the subscriptions listing returns.
	SubscriptionResponse struct {
		UserResponse
		Recipes      []RecipeShortResponse `json:"recipes"`
		RecipesCount int64                 `json:"recipes_count"`
	}
)
