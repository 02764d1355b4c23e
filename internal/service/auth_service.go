package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/config"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/model"
	"github.com/vuminh/examplatform/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims is the JWT payload: the user id as subject plus the admin
// flag, so the admin gate never needs a DB round trip.
type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(req dto.RegisterRequestDTO) (*dto.UserResponseDTO, error)
	Login(req dto.LoginRequestDTO) (*dto.LoginResponseDTO, error)
	ParseToken(tokenStr string) (*Claims, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, secret: []byte(cfg.Auth.JWTSecret)}
}

func (s *authService) Register(req dto.RegisterRequestDTO) (*dto.UserResponseDTO, error) {
	if existing, err := s.userRepo.FindByUsername(req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %q is already taken", req.Username)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := model.User{Username: req.Username, PasswordHash: string(hash)}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Register: failed to create user")
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &dto.UserResponseDTO{
		ID:        user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *authService) Login(req dto.LoginRequestDTO) (*dto.LoginResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Login: failed to sign token")
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &dto.LoginResponseDTO{
		Token: token,
		User: dto.UserResponseDTO{
			ID:        user.ID,
			Username:  user.Username,
			IsAdmin:   user.IsAdmin,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

// Logins stay valid for 24 hours.
func (s *authService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "examplatform",
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return claims, nil
}
