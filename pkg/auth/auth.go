package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shiftwise/shiftwise-api/pkg/database"
)

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))
var jwtAlgorithm = jwt.SigningMethodHS256

// Claims represents the JWT claims for a manager session
type Claims struct {
	Username   string `json:"username"`
	BusinessID string `json:"business_id"`
	jwt.RegisteredClaims
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for a manager
func CreateToken(username, businessID string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		Username:   username,
		BusinessID: businessID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(jwtSecret)
}

// VerifyToken verifies a JWT token
func VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// EnsureManagerExists checks if any manager exists, if not create one from
// environment variables.
func EnsureManagerExists(db *gorm.DB) error {
	var count int64
	db.Model(&database.ManagerUser{}).Count(&count)

	if count == 0 {
		username := os.Getenv("ADMIN_USERNAME")
		if username == "" {
			username = "admin"
		}
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}

		hash, err := HashPassword(password)
		if err != nil {
			return err
		}

		user := database.ManagerUser{
			Username:     username,
			PasswordHash: hash,
		}

		err = db.Create(&user).Error
		if err == nil {
			println("Default manager user created: " + username)
		}
		return err
	}
	return nil
}

// GenerateWorkerToken creates a signed worker token using HMAC-SHA256.
// Workers submit availability with this token instead of a full account;
// it is distributed out of band (e.g. in the invite email).
func GenerateWorkerToken(workerID string) string {
	secret := os.Getenv("WORKER_TOKEN_SECRET")
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(workerID))
	signature := hex.EncodeToString(h.Sum(nil))
	return workerID + "." + signature
}

// VerifyWorkerToken validates an HMAC-signed worker token and returns the
// worker id it was issued for.
func VerifyWorkerToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", errors.New("invalid token format")
	}

	workerID := parts[0]
	providedSignature := parts[1]

	secret := os.Getenv("WORKER_TOKEN_SECRET")
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(workerID))
	expectedSignature := hex.EncodeToString(h.Sum(nil))

	// Use constant-time comparison to prevent timing attacks
	if !hmac.Equal([]byte(providedSignature), []byte(expectedSignature)) {
		return "", errors.New("invalid signature")
	}

	return workerID, nil
}
