package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"property-service/config"
	"property-service/helper"
	"property-service/models"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"gorm.io/gorm"
)

type AuthMiddleware struct {
	Db   *gorm.DB
	Keys *helper.KeyPair
}

func (am *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := accessToken(r)
		if raw == "" {
			helper.WriteJsonError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		// Parse and verify token
		token, err := jwt.Parse(
			[]byte(raw),
			jwt.WithKey(jwa.RS256(), am.Keys.Public),
			jwt.WithValidate(true),
		)
		if err != nil {
			config.Config.Logger.Debugf("rejected access token: %v", err)
			helper.WriteJsonError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		userIDStr, ok := token.Subject()
		if !ok {
			helper.WriteJsonError(w, http.StatusUnauthorized, "Invalid token")
			config.Config.Logger.Debug("UserID does not exist in the token")
			return
		}
		userID, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			helper.WriteJsonError(w, http.StatusUnauthorized, "Invalid token")
			config.Config.Logger.Debug("Error while parsing UserID received from the token")
			return
		}

		var user models.User
		err = am.Db.WithContext(r.Context()).First(&user, userID).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				config.Config.Logger.Errorf("Database error loading user %d: %v", userID, err)
			}
			helper.WriteJsonError(w, http.StatusUnauthorized, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, TokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// accessToken prefers the cookie the console sets, then a bearer header.
func accessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(UserContextKey).(models.User); ok {
		return &user
	}
	return nil
}
