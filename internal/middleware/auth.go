package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/defect-service/internal/errs"
	"github.com/deppfellow/defect-service/internal/lib/response"
	"github.com/deppfellow/defect-service/internal/lib/session"
	"github.com/deppfellow/defect-service/internal/server"
	"github.com/labstack/echo/v4"
)

type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// Authenticate verifies the Clerk session token in the Authorization header
// when one is sent. Requests without a token pass through anonymously; the
// services decide whether an operation needs a caller. An invalid token is
// answered with NOT_LOGIN_ERROR.
func (auth *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.writeUnauthorized)),
		),
	)(func(c echo.Context) error {
		claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
		if ok && claims.Subject != "" {
			c.Set(UserIDKey, claims.Subject)
			c.Set(UserRoleKey, claims.ActiveOrganizationRole)

			requestLogger := GetLogger(c).With().Str("user_id", claims.Subject).Logger()
			c.Set(LoggerKey, &requestLogger)

			ctx := session.WithSubject(c.Request().Context(), claims.Subject)
			c.SetRequest(c.Request().WithContext(requestLogger.WithContext(ctx)))

			requestLogger.Debug().
				Str("function", "Authenticate").
				Msg("session verified")
		}
		return next(c)
	})
}

func (auth *AuthMiddleware) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(http.StatusUnauthorized)

	body := response.Failure(errs.CodeNotLogin, "Invalid or expired session", nil)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		auth.server.Logger.Error().
			Err(err).
			Str("function", "Authenticate").
			Msg("failed to write JSON response")
		return
	}

	auth.server.Logger.Warn().
		Str("function", "Authenticate").
		Str("request_id", w.Header().Get(RequestIDHeader)).
		Msg("rejected invalid session token")
}
