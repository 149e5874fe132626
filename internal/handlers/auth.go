package handlers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/createex/circle/internal/database"
	"github.com/createex/circle/internal/handlers/dto"
	"github.com/createex/circle/internal/models"
	"github.com/createex/circle/pkg/auth"
)

const verificationCodeTTL = 2 * time.Minute

// SMSSender delivers a text to a phone number. Production wires a gateway;
// tests and development log the message.
type SMSSender func(phone, message string) error

func LogSMS(phone, message string) error {
	log.Printf("SMS to %s: %s", phone, message)
	return nil
}

type AuthHandler struct {
	db         *database.Database
	jwtManager *auth.JWTManager
	redis      *redis.Client
	sms        SMSSender
}

func NewAuthHandler(db *database.Database, jwtMgr *auth.JWTManager, rdb *redis.Client, sms SMSSender) *AuthHandler {
	if sms == nil {
		sms = LogSMS
	}
	return &AuthHandler{db: db, jwtManager: jwtMgr, redis: rdb, sms: sms}
}

// Signup registers an unverified account and sends a verification code.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.db.EmailOrPhoneExists(req.Email, req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or phone number already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	code := sixDigitCode()
	user := &models.User{
		Name:             req.Name,
		Email:            req.Email,
		PasswordHash:     string(hash),
		PhoneNumber:      req.PhoneNumber,
		VerificationCode: code,
		CodeExpiresAt:    time.Now().Add(verificationCodeTTL),
		CreatedAt:        time.Now(),
	}

	if err := h.db.SaveUser(user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create user"})
		return
	}

	if err := h.sms(req.PhoneNumber, "Your verification code is "+code); err != nil {
		log.Printf("Failed to send verification SMS to %s: %v", req.PhoneNumber, err)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "user registered"})
}

// Verify checks the SMS code and issues the first token.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.FindUserByPhone(req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if user.VerificationCode != req.Code || time.Now().After(user.CodeExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired verification code"})
		return
	}

	user.IsVerified = true
	user.VerificationCode = ""
	if err := h.db.UpdateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify user"})
		return
	}

	token, err := h.jwtManager.Generate(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// Login issues a JWT for verified accounts and updates last_seen.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.FindUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !user.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not verified"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := h.db.UpdateLastSeen(user.ID.String()); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update last seen"})
		return
	}

	token, err := h.jwtManager.Generate(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout blacklists the token in redis until it expires on its own.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	// An already-expired token needs no blacklist entry
	if ttl := time.Until(exp); ttl > 0 {
		if err := h.redis.Set(context.Background(), "blacklist:"+rawToken, 1, ttl).Err(); err != nil {
			log.Printf("Failed to blacklist token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
			return
		}
	}

	c.Status(http.StatusOK)
}

func sixDigitCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}
