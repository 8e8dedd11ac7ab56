package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aljannat-dev/aljannat/shared/errors"
	jwt_internal "github.com/aljannat-dev/aljannat/shared/jwt"
	"github.com/aljannat-dev/aljannat/shared/utils"
)

const AccessTokenCookie = "accessToken"

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

// UserLookup loads the stored account behind a token.
type UserLookup interface {
	User(ctx context.Context, email domain.Email) (domain.User, error)
}

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService jwt_internal.JwtService
	users      UserLookup
}

func NewAuth(jwtService jwt_internal.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// WithRoleCheck makes AdminOnly confirm the role against stored accounts, so
// a demoted admin loses access before the token expires.
func (a *Auth) WithRoleCheck(users UserLookup) *Auth {
	a.users = users
	return a
}

// NeedAuth returns middleware that requires a valid session token
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires a session token with the Admin role
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

var errNoToken = stderrors.New("no token")

// extractUser reads the token from the accessToken cookie (browsers) or the
// Authorization header (API clients) and returns the identity it carries.
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	var tokenString string
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		tokenString = cookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = strings.TrimSpace(token)
	}
	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}
	return jwt_internal.UserFromToken(token)
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				if err == errNoToken {
					utils.WriteErrorAndStatusCode(w, errors.ErrUnauthenticated)
					return
				}
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			if adminOnly && !user.IsAdmin() {
				utils.WriteErrorAndStatusCode(w, errors.ErrForbidden)
				return
			}
			if adminOnly && a.users != nil {
				stored, err := a.users.User(r.Context(), user.Email)
				if err != nil {
					if errors.IsNotFound(err) {
						utils.WriteErrorAndStatusCode(w, errors.ErrUnauthenticated)
						return
					}
					utils.WriteErrorAndStatusCode(w, err)
					return
				}
				if !stored.IsAdmin() {
					utils.WriteErrorAndStatusCode(w, errors.ErrForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the user placed by NeedAuth/AdminOnly, or nil.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
