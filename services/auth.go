package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	jwtSecret   []byte
	tokenExpiry time.Duration
}

func NewAuthService() *AuthService {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-default-secret-key-change-in-production"
	}

	// 8 hours keeps a working session alive without re-login
	expiry := 8 * time.Hour
	if minutes := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); minutes != "" {
		if m, err := strconv.Atoi(minutes); err == nil && m > 0 {
			expiry = time.Duration(m) * time.Minute
		}
	}

	return &AuthService{
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: expiry,
	}
}

// HashPassword hashes a plaintext password for storage
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash
func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateToken generates a JWT token for a user
func (s *AuthService) CreateToken(userID int64) (string, error) {
	// Create token with claims
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": time.Now().Add(s.tokenExpiry).Unix(),
	})

	// Sign the token
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken verifies a JWT token and returns the user id
func (s *AuthService) VerifyToken(tokenString string) (int64, error) {
	// Parse the token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}

	// Check if token is valid
	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	// Extract claims
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	// Get user id from claims
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("subject claim missing")
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("invalid subject claim")
	}

	return userID, nil
}
