package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moodz/moodzapi/internal/models"
	"github.com/moodz/moodzapi/internal/social"
)

func (r *Router) listUsers(c *gin.Context) {
	users, err := r.service.ListUsers(c.Request.Context())
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (r *Router) getUser(c *gin.Context) {
	user, err := r.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		abortWithError(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

type createUserRequest struct {
	Email         string `json:"email" binding:"required"`
	Name          string `json:"name" binding:"required"`
	ProfilePicURL string `json:"profilePicUrl"`
	IsPrivate     bool   `json:"isPrivate"`
}

func (r *Router) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := r.service.CreateUser(c.Request.Context(), &models.User{
		Email:         req.Email,
		Name:          req.Name,
		ProfilePicURL: req.ProfilePicURL,
		IsPrivate:     req.IsPrivate,
	})
	if err != nil {
		if errors.Is(err, social.ErrInvalidEmail) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		r.logger.Error("failed to create user", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (r *Router) updateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	user.ID = c.Param("id")

	if err := r.service.UpdateUser(c.Request.Context(), &user); err != nil {
		switch {
		case errors.Is(err, social.ErrInvalidEmail):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, social.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			r.logger.Error("failed to update user", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (r *Router) deleteUser(c *gin.Context) {
	removed, err := r.service.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to delete user")
		return
	}
	if !removed {
		abortWithError(c, http.StatusNotFound, "user not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) getEntries(c *gin.Context) {
	entries, err := r.service.GetEntries(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

type addEntryRequest struct {
	Text     string       `json:"text"`
	Likes    int          `json:"likes"`
	Track    models.Track `json:"track"`
	PostedAt *time.Time   `json:"postedAt"`
}

func (r *Router) addEntry(c *gin.Context) {
	var req addEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ok := r.service.AddContentEntry(c.Request.Context(), c.Param("id"), &models.Entry{
		Text:     req.Text,
		Likes:    req.Likes,
		Track:    req.Track,
		PostedAt: req.PostedAt,
	})
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

func (r *Router) removeEntry(c *gin.Context) {
	postedAt, err := time.Parse(time.RFC3339, c.Query("postedAt"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "postedAt must be RFC3339")
		return
	}

	ok := r.service.RemoveContentEntry(c.Request.Context(), c.Param("id"), postedAt)
	c.JSON(http.StatusOK, gin.H{"success": ok})
}
