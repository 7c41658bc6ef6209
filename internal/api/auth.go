package api

import "google.golang.org/protobuf/types/known/timestamppb"

type User struct {
	Id          string                 `json:"id"`
	Email       string                 `json:"email"`
	DisplayName string                 `json:"displayName"`
	CreatedAt   *timestamppb.Timestamp `json:"createdAt,omitempty"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

type RegisterResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt *timestamppb.Timestamp `json:"expiresAt,omitempty"`
	User      *User                  `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt *timestamppb.Timestamp `json:"expiresAt,omitempty"`
	User      *User                  `json:"user"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
