// Package httpapi exposes the question-service HTTP surface: the
// GET/POST /questions/* endpoints, auth-gated with the same
// gin+golang-jwt/v5 idiom kaandesu-founders-toolkit-api uses. The core
// pipeline itself runs as a batch job rather than a REST service, so this
// surface follows kaandesu-founders-toolkit-api's router idiom instead.
package httpapi

import "github.com/gin-gonic/gin"

// Respond writes a uniform {message, data} envelope, matching
// internal/response.Respond in kaandesu-founders-toolkit-api.
func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}
