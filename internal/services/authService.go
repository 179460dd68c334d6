package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/tanmaybh/CityMate/internal/db"
	"github.com/tanmaybh/CityMate/internal/httperr"
	"github.com/tanmaybh/CityMate/internal/models"
)

// AuthService owns registration, login and the JWT lifecycle.
type AuthService struct {
	database   *mongo.Database
	jwtSecret  []byte
	expiresIn  time.Duration
	bcryptCost int
}

func NewAuthService(database *mongo.Database, jwtSecret string, expiresIn time.Duration, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		database:   database,
		jwtSecret:  []byte(jwtSecret),
		expiresIn:  expiresIn,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) users() *mongo.Collection {
	return s.database.Collection(db.ColUsers)
}

// HashPassword hashes a password using bcrypt.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password.
func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken issues a signed JWT with the user id as subject.
func (s *AuthService) GenerateToken(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken verifies the signature and expiry and returns the subject and
// role claims.
func (s *AuthService) ParseToken(tokenString string) (userID, role string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, httperr.Unauthorized("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", httperr.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", httperr.Unauthorized("invalid token claims")
	}
	userID, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if userID == "" {
		return "", "", httperr.Unauthorized("invalid token payload")
	}
	return userID, role, nil
}

// Register creates a new user and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, password, path string) (models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return models.User{}, "", httperr.Validation("name, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return models.User{}, "", httperr.Validation("invalid email address")
	}
	if len(password) < 6 {
		return models.User{}, "", httperr.Validation("password must be at least 6 characters")
	}
	if path != "" && !models.ValidPath(path) {
		return models.User{}, "", httperr.Validation("unknown professional path")
	}

	hashed, err := s.HashPassword(password)
	if err != nil {
		return models.User{}, "", httperr.Internal(err)
	}

	user := models.User{
		ID:               primitive.NewObjectID(),
		Name:             name,
		Email:            email,
		Password:         hashed,
		Role:             models.RoleUser,
		ProfessionalPath: path,
		CreatedAt:        time.Now(),
	}

	// The unique index on email is the real guard; checking first would
	// still race with a concurrent register.
	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if db.IsDuplicateKey(err) {
			return models.User{}, "", httperr.Conflict("email already in use")
		}
		return models.User{}, "", httperr.Internal(err)
	}

	token, err := s.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return models.User{}, "", httperr.Internal(err)
	}
	user.Password = ""
	return user, token, nil
}

// Login authenticates a user and returns it with a token. Credential
// failures are indistinguishable on purpose.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, "", httperr.Validation("email and password are required")
	}

	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, "", httperr.Unauthorized("invalid credentials")
	}
	if !s.VerifyPassword(password, user.Password) {
		return models.User{}, "", httperr.Unauthorized("invalid credentials")
	}

	token, err := s.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return models.User{}, "", httperr.Internal(err)
	}
	user.Password = ""
	return user, token, nil
}

// UserByID loads a user for the auth middleware and profile endpoints.
func (s *AuthService) UserByID(ctx context.Context, id string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, httperr.Unauthorized("invalid user id in token")
	}
	var user models.User
	if err := s.users().FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return models.User{}, httperr.Unauthorized("user no longer exists")
	}
	user.Password = ""
	return user, nil
}
