package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/model"
	"github.com/vuminh/examplatform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	GetAll() ([]dto.UserResponseDTO, error)
	Create(req dto.UserCreateDTO) (*dto.UserResponseDTO, error)
	Update(id uint, req dto.UserUpdateDTO) (*dto.UserResponseDTO, error)
	Delete(id uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAll() ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch users")
		return nil, fmt.Errorf("error fetching users: %w", err)
	}
	dtos := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserResponseDTO(&users[i]))
	}
	return dtos, nil
}

func (s *userService) Create(req dto.UserCreateDTO) (*dto.UserResponseDTO, error) {
	if existing, err := s.userRepo.FindByUsername(req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %q is already taken", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := model.User{Username: req.Username, PasswordHash: string(hash), IsAdmin: req.IsAdmin}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	resp := toUserResponseDTO(&user)
	return &resp, nil
}

func (s *userService) Update(id uint, req dto.UserUpdateDTO) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("user not found with ID %d: %w", id, err)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if err := s.userRepo.Update(user); err != nil {
		log.Error().Err(err).Uint("userID", id).Msg("Failed to update user")
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	resp := toUserResponseDTO(user)
	return &resp, nil
}

func (s *userService) Delete(id uint) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return fmt.Errorf("user not found with ID %d: %w", id, err)
	}
	if err := s.userRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("userID", id).Msg("Failed to delete user")
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

func toUserResponseDTO(user *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		ID:        user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}
