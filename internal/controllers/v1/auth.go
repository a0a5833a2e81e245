package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/finadvisor/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

const (
	contextOwner  = "owner"
	contextUserID = "userID"
)

// tokenClaims carries the username next to the registered claims, the
// subject is the user ID.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Credentials is the request body for register and login.
type Credentials struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
}

// RegisterAuthRoutes registers the authentication routes with the
// RouterGroup that is passed.
func RegisterAuthRoutes(r *gin.RouterGroup, secret []byte) {
	r.POST("/register", Register(secret))
	r.POST("/login", Login(secret))
}

func mintToken(secret []byte, user models.User) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    "finadvisor",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	})

	return token.SignedString(secret)
}

// @Summary      Register
// @Description  Creates a new user and returns a token for it
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      Credentials  true  "Username and password"
// @Success      201          {object}  TokenResponse
// @Failure      400          {object}  httpError
// @Failure      409          {object}  httpError
// @Router       /v1/auth/register [post]
func Register(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var credentials Credentials
		if err := bindData(c, &credentials); err != nil {
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
		if err != nil {
			serviceError(c, err)
			return
		}

		user := models.User{Username: credentials.Username, PasswordHash: string(hash)}
		if err := models.DB.Create(&user).Error; err != nil {
			serviceError(c, err)
			return
		}

		token, err := mintToken(secret, user)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, TokenResponse{Token: token, UserID: user.ID, Username: user.Username})
	}
}

// @Summary      Login
// @Description  Verifies the credentials and returns a token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      Credentials  true  "Username and password"
// @Success      200          {object}  TokenResponse
// @Failure      401          {object}  httpError
// @Router       /v1/auth/login [post]
func Login(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var credentials Credentials
		if err := bindData(c, &credentials); err != nil {
			return
		}

		var user models.User
		if err := models.DB.Where(&models.User{Username: credentials.Username}).First(&user).Error; err != nil {
			// wrong username and wrong password are indistinguishable
			newError(c, http.StatusUnauthorized, ErrCredentials)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
			newError(c, http.StatusUnauthorized, ErrCredentials)
			return
		}

		token, err := mintToken(secret, user)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(http.StatusOK, TokenResponse{Token: token, UserID: user.ID, Username: user.Username})
	}
}

// RequireAuth parses the Bearer token and puts the owner and user ID
// into the gin context. Requests without a valid token get a 401.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			newError(c, http.StatusUnauthorized, ErrAuthRequired)
			c.Abort()
			return
		}

		claims := &tokenClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil || !token.Valid || claims.Username == "" {
			newError(c, http.StatusUnauthorized, ErrAuthRequired)
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			newError(c, http.StatusUnauthorized, ErrAuthRequired)
			c.Abort()
			return
		}

		c.Set(contextOwner, claims.Username)
		c.Set(contextUserID, userID)
		c.Next()
	}
}

// owner returns the username RequireAuth stored in the context.
func owner(c *gin.Context) string {
	return c.GetString(contextOwner)
}

// userID returns the authenticated user's ID.
func userID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(contextUserID).(uuid.UUID)
	return id
}
