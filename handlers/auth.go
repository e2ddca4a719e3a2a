package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"property-service/config"
	"property-service/dto"
	"property-service/helper"
	"property-service/middlewares"
	"property-service/models"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 24 * time.Hour
)

type AuthHandler struct {
	db   *gorm.DB
	keys *helper.KeyPair
}

func SetupAuthRoutes(mux *http.ServeMux, db *gorm.DB, auth *middlewares.AuthMiddleware) {
	handler := AuthHandler{
		db:   db,
		keys: auth.Keys,
	}
	mux.HandleFunc("POST /auth/login", handler.login)
	mux.HandleFunc("GET /auth/self", auth.RequireAuth(handler.self))
	mux.HandleFunc("GET /auth/refresh", handler.refresh)
	mux.HandleFunc("GET /auth/logout", handler.logout)
	mux.HandleFunc("GET /.well-known/jwks.json", handler.jwks)
}

func userBody(user *models.User) map[string]any {
	return map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"role":      user.Role,
	}
}

func (u *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var payload dto.LoginUserDto
	if !helper.DecodeAndValidate(w, r, &payload) {
		return
	}

	config.Config.Logger.Infof("New login request for email: %s", payload.Email)

	var user models.User
	result := u.db.WithContext(r.Context()).Where("email = ?", payload.Email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			helper.WriteJsonError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		config.Config.Logger.Errorf("Database error during login: %v", result.Error)
		helper.WriteJsonError(w, http.StatusInternalServerError, "database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		helper.WriteJsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	accessTokenRaw, refreshTokenRaw, err := u.generateTokens(&user)
	if err != nil {
		config.Config.Logger.Errorf("Token generation error: %v", err)
		helper.WriteJsonError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	setCookies(w, accessTokenRaw, refreshTokenRaw)

	config.Config.Logger.Infof("User logged in successfully: %s", user.Email)
	helper.WriteJson(w, http.StatusOK, userBody(&user))
}

func (u *AuthHandler) self(w http.ResponseWriter, r *http.Request) {
	user := middlewares.GetUserFromContext(r.Context())
	if user == nil {
		helper.WriteJsonError(w, http.StatusUnauthorized, "user not found")
		return
	}
	helper.WriteJson(w, http.StatusOK, userBody(user))
}

func (u *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	refreshTokenFromCookie, err := r.Cookie("refresh_token")
	if err != nil {
		helper.WriteJsonError(w, http.StatusUnauthorized, "refresh token not found")
		return
	}

	token, err := jwt.Parse([]byte(refreshTokenFromCookie.Value),
		jwt.WithKey(jwa.HS256(), []byte(config.Config.RefreshTokenSecret)), jwt.WithValidate(true))
	if err != nil {
		helper.WriteJsonError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	tokenIdStr, ok := token.Subject()
	if !ok {
		helper.WriteJsonError(w, http.StatusUnauthorized, "invalid token format")
		return
	}
	tokenId, err := strconv.ParseUint(tokenIdStr, 10, 64)
	if err != nil {
		helper.WriteJsonError(w, http.StatusUnauthorized, "invalid token ID")
		return
	}

	db := u.db.WithContext(r.Context())
	var tokenFromDB models.RefreshToken
	result := db.Where("id = ?", tokenId).First(&tokenFromDB)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			helper.WriteJsonError(w, http.StatusUnauthorized, "refresh token not found")
			return
		}
		config.Config.Logger.Errorf("Database error finding refresh token: %v", result.Error)
		helper.WriteJsonError(w, http.StatusInternalServerError, "database error")
		return
	}

	if time.Now().Unix() > tokenFromDB.ExpiresAt {
		db.Delete(&tokenFromDB)
		helper.WriteJsonError(w, http.StatusUnauthorized, "refresh token expired")
		return
	}

	if err := consumeRefreshToken(db, tokenFromDB.ID); err != nil {
		if errors.Is(err, errRefreshTokenUsed) {
			helper.WriteJsonError(w, http.StatusUnauthorized, "refresh token already used")
			return
		}
		config.Config.Logger.Errorf("Error deleting old refresh token: %v", err)
		helper.WriteJsonError(w, http.StatusInternalServerError, "database error")
		return
	}

	var user models.User
	result = db.Where("id = ?", tokenFromDB.UserID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			helper.WriteJsonError(w, http.StatusUnauthorized, "user not found")
			return
		}
		config.Config.Logger.Errorf("Error finding user: %v", result.Error)
		helper.WriteJsonError(w, http.StatusInternalServerError, "database error")
		return
	}

	accessTokenRaw, refreshTokenRaw, err := u.generateTokens(&user)
	if err != nil {
		config.Config.Logger.Errorf("Token generation error: %v", err)
		helper.WriteJsonError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	setCookies(w, accessTokenRaw, refreshTokenRaw)

	helper.WriteJson(w, http.StatusOK, map[string]any{
		"message": "tokens refreshed successfully",
	})
}

var errRefreshTokenUsed = errors.New("refresh token already used")

// consumeRefreshToken deletes the row so the token is single use. Of two
// requests racing on the same token only one affects the row.
func consumeRefreshToken(db *gorm.DB, id uint) error {
	result := db.Delete(&models.RefreshToken{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errRefreshTokenUsed
	}
	return nil
}

func (u *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	defer func() {
		clearCookies(w)
		helper.WriteJson(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
	}()

	refreshTokenFromCookie, err := r.Cookie("refresh_token")
	if err != nil {
		return
	}
	token, err := jwt.Parse([]byte(refreshTokenFromCookie.Value),
		jwt.WithKey(jwa.HS256(), []byte(config.Config.RefreshTokenSecret)))
	if err != nil {
		return
	}
	if tokenIdStr, ok := token.Subject(); ok {
		if tokenId, err := strconv.ParseUint(tokenIdStr, 10, 64); err == nil {
			u.db.WithContext(r.Context()).Delete(&models.RefreshToken{}, tokenId)
		}
	}
}

func (u *AuthHandler) jwks(w http.ResponseWriter, r *http.Request) {
	helper.WriteJson(w, http.StatusOK, u.keys.PublicSet())
}

// generateTokens signs an RS256 access token and persists + signs an HS256
// refresh token.
func (u *AuthHandler) generateTokens(user *models.User) ([]byte, []byte, error) {
	userIDStr := strconv.FormatUint(uint64(user.ID), 10)
	accessToken, err := jwt.NewBuilder().
		Subject(userIDStr).
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(accessTokenTTL)).
		Claim("email", user.Email).
		Claim("role", string(user.Role)).
		Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build access token: %w", err)
	}
	accessTokenRaw, err := jwt.Sign(accessToken, jwt.WithKey(jwa.RS256(), u.keys.Private))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshTokenDB := models.RefreshToken{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(refreshTokenTTL).Unix(),
	}
	if err := u.db.Create(&refreshTokenDB).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create refresh token in database: %w", err)
	}

	refreshTokenIDStr := strconv.FormatUint(uint64(refreshTokenDB.ID), 10)
	refreshToken, err := jwt.NewBuilder().
		Subject(refreshTokenIDStr).
		Expiration(time.Now().Add(refreshTokenTTL)).
		Claim("email", user.Email).
		Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build refresh token: %w", err)
	}
	refreshTokenRaw, err := jwt.Sign(refreshToken, jwt.WithKey(jwa.HS256(), []byte(config.Config.RefreshTokenSecret)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return accessTokenRaw, refreshTokenRaw, nil
}

func setCookies(w http.ResponseWriter, accessToken, refreshToken []byte) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    string(accessToken),
		Expires:  time.Now().Add(accessTokenTTL),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Secure:   false, // Set to true in production with HTTPS
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    string(refreshToken),
		Expires:  time.Now().Add(refreshTokenTTL),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Secure:   false, // Set to true in production with HTTPS
	})
}

func clearCookies(w http.ResponseWriter) {
	cookies := []string{"access_token", "refresh_token"}
	for _, cookieName := range cookies {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}
