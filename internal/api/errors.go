package api

import "github.com/gin-gonic/gin"

// abortWithError writes the standard error envelope and stops the
// handler chain.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
