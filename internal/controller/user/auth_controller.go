package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new account
// @Description Create an account with a unique username. New accounts are regular users, never admins.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.RegisterRequestDTO true "Username and password"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or username taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Register: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	userResp, err := c.authService.Register(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Registration failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, userResp)
}

// Login godoc
// @Summary Log in
// @Description Exchange credentials for a bearer token valid for 24 hours.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequestDTO true "Username and password"
// @Success 200 {object} dto.LoginResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Wrong username or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	loginResp, err := c.authService.Login(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid username or password"})
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Login: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Login failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, loginResp)
}
