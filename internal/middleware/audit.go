package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teamtrack/backend/internal/services"
)

// AuditLog records write operations (POST/PUT/DELETE) to activity_logs.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "DELETE" {
			c.Next()
			return
		}

		// Capture request body (up to 2000 chars for Extra)
		var bodySnippet string
		if c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = string(bodyBytes)
			if len(bodySnippet) > 2000 {
				bodySnippet = bodySnippet[:2000] + "...[truncated]"
			}
			bodySnippet = maskSensitiveFields(bodySnippet)
		}

		c.Next()

		userID := GetUserID(c)
		username := GetUsername(c)
		ip := c.ClientIP()
		userAgent := c.Request.UserAgent()
		status := c.Writer.Status()

		module, action := parseRouteInfo(c.FullPath(), method)
		message := fmt.Sprintf("%s %s %s -> %d", username, method, c.Request.URL.Path, status)

		var uid *uint
		if userID > 0 {
			uid = &userID
		}

		services.LogInfo(module, action, message, uid, ip, userAgent, map[string]interface{}{
			"method": method,
			"path":   c.Request.URL.Path,
			"status": status,
			"body":   bodySnippet,
			"audit":  true,
		})
	}
}

// parseRouteInfo derives a module/action pair from the route template.
func parseRouteInfo(fullPath, method string) (module, action string) {
	module = "api"
	switch {
	case strings.Contains(fullPath, "/auth"):
		module = "auth"
	case strings.Contains(fullPath, "/memberships") || strings.Contains(fullPath, "/members") || strings.Contains(fullPath, "/invitations"):
		module = "membership"
	case strings.Contains(fullPath, "/labels"):
		module = "label"
	case strings.Contains(fullPath, "/assignments"):
		module = "assignment"
	case strings.Contains(fullPath, "/tasks"):
		module = "task"
	case strings.Contains(fullPath, "/comments"):
		module = "comment"
	case strings.Contains(fullPath, "/projects"):
		module = "project"
	case strings.Contains(fullPath, "/admin"):
		module = "admin"
	}

	switch method {
	case "POST":
		action = "create"
	case "PUT":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	return module, action
}

// maskSensitiveFields blanks password and token values in a JSON body
// snippet before it is stored.
func maskSensitiveFields(body string) string {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return body
	}

	masked := false
	for key := range payload {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") || strings.Contains(lower, "secret") {
			payload[key] = "***"
			masked = true
		}
	}
	if !masked {
		return body
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return body
	}
	return string(out)
}
