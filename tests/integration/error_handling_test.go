//go:build integration
// +build integration

package integration

import (
	"net/http"
	"testing"
)

func TestUnauthorizedAccess(t *testing.T) {
	for _, path := range []string{"/v1/users/me", "/v1/dashboard", "/v1/users/me/results"} {
		resp := doJSON(t, http.MethodGet, baseURL()+path, "", nil)
		var errResp map[string]interface{}
		decode(t, resp, &errResp)

		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.StatusCode)
		}
		if errResp["error"] != "authentication_required" {
			t.Fatalf("%s: unexpected error code %v", path, errResp["error"])
		}
	}
}

func TestValidationErrors(t *testing.T) {
	user := registerUser(t, "Validate")

	testCases := []struct {
		name    string
		method  string
		path    string
		token   string
		payload interface{}
		status  int
	}{
		{"register bad email", http.MethodPost, "/v1/auth/register", "", map[string]string{"name": "x", "email": "nope", "password": "rahasia123"}, http.StatusBadRequest},
		{"progress over 100", http.MethodPut, "/v1/modules/module-1/progress", user.AccessToken, map[string]int{"progress": 101}, http.StatusBadRequest},
		{"unknown module", http.MethodGet, "/v1/modules/does-not-exist", "", nil, http.StatusNotFound},
		{"unknown quiz", http.MethodGet, "/v1/quizzes/does-not-exist", "", nil, http.StatusNotFound},
		{"unknown window", http.MethodGet, "/v1/leaderboards/yearly", "", nil, http.StatusNotFound},
		{"bad scan payload", http.MethodPost, "/v1/scan", "", map[string]string{"payload": "ftp://nowhere"}, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, tc.method, baseURL()+tc.path, tc.token, tc.payload)
			var errResp map[string]interface{}
			decode(t, resp, &errResp)

			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d (%v)", tc.status, resp.StatusCode, errResp)
			}
			if errResp["error"] == nil {
				t.Fatal("error field is missing")
			}
		})
	}
}
