package handlers

import (
	"github.com/gin-gonic/gin"

	"selenex/internal/models"
	"selenex/pkg/database"
	"selenex/pkg/response"
	"selenex/pkg/utils"
)

func GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		response.InternalServerError(c, "failed to load user")
		return
	}
	response.Success(c, user)
}

func UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Email    string `json:"email" binding:"omitempty,email"`
		Password string `json:"password" binding:"omitempty,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		response.InternalServerError(c, "failed to load user")
		return
	}

	if req.Email != "" && req.Email != user.Email {
		var existingUser models.User
		err := database.DB.Where("email = ? AND id != ?", req.Email, userID).First(&existingUser).Error
		if err == nil {
			response.Conflict(c, "email already in use")
			return
		}
		user.Email = req.Email
	}

	if req.Password != "" {
		hashedPassword, err := utils.HashPassword(req.Password)
		if err != nil {
			response.InternalServerError(c, "failed to hash password")
			return
		}
		user.Password = hashedPassword
	}

	if err := database.DB.Save(&user).Error; err != nil {
		response.InternalServerError(c, "failed to update user")
		return
	}
	response.SuccessWithMessage(c, "profile updated", user)
}

// AdminChangePassword lets the admin reset any user's password.
func AdminChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !utils.IsAdmin(userID) {
		response.Forbidden(c, "only the admin can change user passwords")
		return
	}

	targetID, ok := idParam(c)
	if !ok {
		return
	}

	var req struct {
		Password string `json:"password" binding:"required,min=6,max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "password must be 6-50 characters")
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetID).Error; err != nil {
		response.NotFound(c, "user not found")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		response.InternalServerError(c, "failed to hash password")
		return
	}
	if err := database.DB.Model(&target).Update("password", hashedPassword).Error; err != nil {
		response.InternalServerError(c, "failed to update password")
		return
	}

	response.SuccessWithMessage(c, "password changed", nil)
}
