package middleware

import (
	"strings"
	"testing"
)

func TestParseRouteInfo(t *testing.T) {
	cases := []struct {
		path   string
		method string
		module string
		action string
	}{
		{"/api/projects", "POST", "project", "create"},
		{"/api/projects/:id", "PUT", "project", "update"},
		{"/api/projects/:id/tasks/:taskID", "DELETE", "task", "delete"},
		{"/api/memberships/:id/accept", "POST", "membership", "create"},
		{"/api/projects/:id/invitations", "POST", "membership", "create"},
		{"/api/projects/:id/labels", "POST", "label", "create"},
		{"/api/projects/:id/labels/:labelId", "DELETE", "label", "delete"},
		{"/api/projects/:id/tasks/:taskId/assignments", "POST", "assignment", "create"},
		{"/api/comments/:id", "PUT", "comment", "update"},
		{"/api/auth/login", "POST", "auth", "create"},
	}

	for _, tc := range cases {
		module, action := parseRouteInfo(tc.path, tc.method)
		if module != tc.module {
			t.Errorf("parseRouteInfo(%q, %q) module = %q, expected %q", tc.path, tc.method, module, tc.module)
		}
		if action != tc.action {
			t.Errorf("parseRouteInfo(%q, %q) action = %q, expected %q", tc.path, tc.method, action, tc.action)
		}
	}
}

func TestMaskSensitiveFields(t *testing.T) {
	body := `{"username":"alice","password":"hunter2","refresh_token":"abc"}`
	masked := maskSensitiveFields(body)

	if strings.Contains(masked, "hunter2") {
		t.Error("password value should be masked")
	}
	if strings.Contains(masked, "abc") {
		t.Error("token value should be masked")
	}
	if !strings.Contains(masked, "alice") {
		t.Error("non-sensitive values should be kept")
	}
}

func TestMaskSensitiveFields_NotJSON(t *testing.T) {
	body := "plain text body"
	if got := maskSensitiveFields(body); got != body {
		t.Errorf("non-JSON body should pass through, got %q", got)
	}
}
