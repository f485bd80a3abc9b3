package auth

import (
	"Linklytics-Backend/internal/repository"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AuthHandlers serves registration, login, logout and profile updates.
type AuthHandlers struct {
	storage         repository.Storage
	jwtService      *JWTService
	passwordService *PasswordService
	blacklist       *TokenBlacklist
	log             *zap.Logger
}

// NewAuthHandlers creates the authentication handlers.
func NewAuthHandlers(storage repository.Storage, jwtService *JWTService, passwordService *PasswordService, blacklist *TokenBlacklist, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		storage:         storage,
		jwtService:      jwtService,
		passwordService: passwordService,
		blacklist:       blacklist,
		log:             log,
	}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries optional profile changes.
type UpdateProfileRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserInfo is the public view of a user.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ErrorResponse is the error payload shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Register creates a new user account.
//
//	@Summary		Register a new user
//	@Description	Create a new user account and receive a bearer token
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Registration request"
//	@Success		201		{object}	AuthResponse	"User registered successfully"
//	@Failure		400		{object}	ErrorResponse	"Invalid request data"
//	@Failure		409		{object}	ErrorResponse	"User already exists"
//	@Router			/api/auth/register [post]
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid registration request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		h.writeError(w, "Username must not be empty", http.StatusBadRequest)
		return
	}
	if !isValidEmail(req.Email) {
		h.writeError(w, "Invalid email format", http.StatusBadRequest)
		return
	}
	if err := IsValidPassword(req.Password); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	hashedPassword, err := h.passwordService.HashPassword(req.Password)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.storage.CreateUser(r.Context(), req.Username, req.Email, hashedPassword)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			h.writeError(w, "User with this email already exists", http.StatusConflict)
			return
		}
		h.log.Error("failed to create user", zap.String("email", req.Email), zap.Error(err))
		h.writeError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.log.Error("failed to generate token", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("user registered successfully", zap.Int64("user_id", user.ID), zap.String("email", req.Email))
	h.writeJSON(w, AuthResponse{
		Token: token,
		User:  UserInfo{ID: user.ID, Username: user.Username, Email: user.Email},
	}, http.StatusCreated)
}

// Login authenticates a user and issues a bearer token.
//
//	@Summary		Login user
//	@Description	Authenticate user and receive a bearer token
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login request"
//	@Success		200		{object}	AuthResponse	"Login successful"
//	@Failure		401		{object}	ErrorResponse	"Invalid credentials"
//	@Router			/api/auth/login [post]
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid login request", zap.Error(err))
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.storage.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.log.Debug("user not found for login", zap.String("email", req.Email))
		h.writeError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := h.passwordService.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.log.Debug("invalid password for user", zap.String("email", req.Email))
		h.writeError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.log.Error("failed to generate token", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("user logged in successfully", zap.Int64("user_id", user.ID))
	h.writeJSON(w, AuthResponse{
		Token: token,
		User:  UserInfo{ID: user.ID, Username: user.Username, Email: user.Email},
	}, http.StatusOK)
}

// Logout revokes the presented token and stamps the user's last logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}
	token, ok := GetTokenFromContext(r.Context())
	if !ok {
		h.writeError(w, "Token not found in context", http.StatusUnauthorized)
		return
	}

	user, err := h.storage.GetUserByID(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to load user for logout", zap.Int64("user_id", userID), zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user.LastLogout = &now
	if err := h.storage.UpdateUser(r.Context(), user); err != nil {
		h.log.Warn("failed to stamp last logout", zap.Int64("user_id", userID), zap.Error(err))
	}

	if err := h.blacklist.Add(r.Context(), token); err != nil {
		h.log.Error("failed to blacklist token", zap.Int64("user_id", userID), zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("user logged out", zap.Int64("user_id", userID))
	h.writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// UpdateProfile changes the user's username and/or email.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, "User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	user, err := h.storage.GetUserByID(r.Context(), userID)
	if err != nil {
		h.log.Error("failed to load user for profile update", zap.Int64("user_id", userID), zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if req.Username != "" {
		user.Username = strings.TrimSpace(req.Username)
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if !isValidEmail(email) {
			h.writeError(w, "Invalid email format", http.StatusBadRequest)
			return
		}
		user.Email = email
	}

	if err := h.storage.UpdateUser(r.Context(), user); err != nil {
		h.log.Error("failed to update profile", zap.Int64("user_id", userID), zap.Error(err))
		h.writeError(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	h.log.Info("profile updated", zap.Int64("user_id", userID))
	h.writeJSON(w, UserInfo{ID: user.ID, Username: user.Username, Email: user.Email}, http.StatusOK)
}

// Helper methods

func (h *AuthHandlers) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *AuthHandlers) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func isValidEmail(email string) bool {
	return strings.Contains(email, "@") && len(email) > 3 && len(email) < 255
}
