package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moodz/moodzapi/pkg/telemetry"
)

// relationRequest is the body of every graph mutation call.
type relationRequest struct {
	FromUserID string `json:"fromUserId" binding:"required"`
	ToUserID   string `json:"toUserId" binding:"required"`
}

func (r *Router) follow(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "social.follow")
	defer span.End()

	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ok := r.service.Follow(ctx, req.FromUserID, req.ToUserID)
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

func (r *Router) unfollow(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "social.unfollow")
	defer span.End()

	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ok := r.service.Unfollow(ctx, req.FromUserID, req.ToUserID)
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

func (r *Router) acceptRequest(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "social.accept_request")
	defer span.End()

	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ok := r.service.AcceptFollowRequest(ctx, req.FromUserID, req.ToUserID)
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

func (r *Router) declineRequest(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "social.decline_request")
	defer span.End()

	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ok := r.service.DeclineOrCancelFollowRequest(ctx, req.FromUserID, req.ToUserID)
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

func (r *Router) getFollowers(c *gin.Context) {
	ids, err := r.service.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list followers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": ids})
}

func (r *Router) getFollowing(c *gin.Context) {
	ids, err := r.service.Following(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list following")
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": ids})
}

func (r *Router) getPendingRequests(c *gin.Context) {
	requests, err := r.service.PendingRequests(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
