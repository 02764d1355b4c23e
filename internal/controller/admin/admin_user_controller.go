package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/service"
)

type AdminUserController struct {
	userService service.UserService
}

func NewAdminUserController(userService service.UserService) *AdminUserController {
	return &AdminUserController{userService: userService}
}

// GetUsers godoc
// @Summary (Admin) List all users
// @Tags Admin - Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users [get]
func (c *AdminUserController) GetUsers(ctx *gin.Context) {
	users, err := c.userService.GetAll()
	if err != nil {
		log.Error().Err(err).Msg("Admin GetUsers: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve users", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary (Admin) Create a user
// @Description Provision an account directly, optionally with the admin flag set.
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body dto.UserCreateDTO true "Username, password and admin flag"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or username taken"
// @Router /admin/users [post]
func (c *AdminUserController) CreateUser(ctx *gin.Context) {
	var req dto.UserCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateUser: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	userResp, err := c.userService.Create(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create user", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, userResp)
}

// UpdateUser godoc
// @Summary (Admin) Update a user
// @Description Reset the password and/or flip the admin flag. Absent fields are left alone.
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body dto.UserUpdateDTO true "Fields to change"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [put]
func (c *AdminUserController) UpdateUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}

	var req dto.UserUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	userResp, err := c.userService.Update(uint(id), req)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to update user", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, userResp)
}

// DeleteUser godoc
// @Summary (Admin) Delete a user
// @Tags Admin - Users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID format"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *AdminUserController) DeleteUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}

	if err := c.userService.Delete(uint(id)); err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to delete user", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}
