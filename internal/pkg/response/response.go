// Package response renders the JSON envelope every handler replies with:
// {"success": true, "data": ...} on the happy path, or {"success": false,
// "error": {"code", "message", ...}} for failures. Codes are stable
// machine-readable strings (BOOKING_CONFLICT, INVALID_INTERVAL, ...) that
// clients branch on; messages are for humans and may change.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails attaches structured context to the error, such as the
// first conflicting day of a rejected rental range.
func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
