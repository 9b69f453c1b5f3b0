package httpHandler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"recipe-server/entities"

	"github.com/google/go-cmp/cmp"
)

func TestCreateUser(t *testing.T) {
	t.Run("it creates a user and never returns the password", func(t *testing.T) {
		api := newTestAPI(t)
		payload := map[string]string{"email": "test@example.com", "password": "testpass123", "name": "Test Name"}

		w := api.do(http.MethodPost, "/user/create/", "", payload)
		expectStatus(t, w, http.StatusCreated)

		got := decode[map[string]interface{}](t, w)
		want := map[string]interface{}{"email": "test@example.com", "name": "Test Name"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("response mismatch (-want +got):\n%s", diff)
		}

		var user entities.User
		if err := api.db.Where("email = ?", "test@example.com").First(&user).Error; err != nil {
			t.Fatalf("user not stored: %v", err)
		}
		if !user.CheckPassword("testpass123") {
			t.Error("stored password does not verify")
		}
	})

	t.Run("it rejects an existing email", func(t *testing.T) {
		api := newTestAPI(t)
		api.user("test@example.com")

		w := api.do(http.MethodPost, "/user/create/", "", map[string]string{"email": "test@example.com", "password": "testpass123"})
		expectStatus(t, w, http.StatusBadRequest)
		if body := decode[errorBody](t, w); len(body.Fields["email"]) == 0 {
			t.Errorf("no email error in %+v", body)
		}
	})

	t.Run("it rejects a short password and stores nothing", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(http.MethodPost, "/user/create/", "", map[string]string{"email": "test@example.com", "password": "pw", "name": "Test"})
		expectStatus(t, w, http.StatusBadRequest)
		if body := decode[errorBody](t, w); len(body.Fields["password"]) == 0 {
			t.Errorf("no password error in %+v", body)
		}

		var count int64
		api.db.Model(&entities.User{}).Where("email = ?", "test@example.com").Count(&count)
		if count != 0 {
			t.Errorf("user was stored")
		}
	})

	t.Run("it accepts a form encoded body", func(t *testing.T) {
		api := newTestAPI(t)
		form := url.Values{"email": {"test@example.com"}, "password": {"testpass123"}, "name": {"Test Name"}}

		w := api.form(http.MethodPost, "/user/create/", "", form)
		expectStatus(t, w, http.StatusCreated)
		want := map[string]string{"email": "test@example.com", "name": "Test Name"}
		if diff := cmp.Diff(want, decode[map[string]string](t, w)); diff != "" {
			t.Errorf("response mismatch (-want +got):\n%s", diff)
		}

		w = api.form(http.MethodPost, "/user/create/", "", url.Values{"email": {"other@example.com"}, "password": {"pw"}})
		expectStatus(t, w, http.StatusBadRequest)
		if body := decode[errorBody](t, w); len(body.Fields["password"]) == 0 {
			t.Errorf("no password error in %+v", body)
		}
	})
}

func TestCreateToken(t *testing.T) {
	t.Run("it returns the same token for valid credentials", func(t *testing.T) {
		api := newTestAPI(t)
		api.user("test@example.com")
		payload := map[string]string{"email": "test@example.com", "password": "testpass123"}

		first := api.do(http.MethodPost, "/user/token/", "", payload)
		expectStatus(t, first, http.StatusOK)
		second := api.do(http.MethodPost, "/user/token/", "", payload)
		expectStatus(t, second, http.StatusOK)

		a, b := decode[map[string]string](t, first), decode[map[string]string](t, second)
		if a["token"] == "" || a["token"] != b["token"] {
			t.Errorf("tokens = %q and %q, want equal and non-empty", a["token"], b["token"])
		}
	})

	t.Run("it accepts form encoded credentials", func(t *testing.T) {
		api := newTestAPI(t)
		api.user("test@example.com")

		form := url.Values{"email": {"test@example.com"}, "password": {"testpass123"}}
		req := httptest.NewRequest(http.MethodPost, "/user/token/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := api.send(req, "")
		expectStatus(t, w, http.StatusOK)
	})

	t.Run("it refuses bad credentials without a token", func(t *testing.T) {
		api := newTestAPI(t)
		api.user("test@example.com")

		tests := []struct {
			name    string
			payload map[string]string
		}{
			{"wrong password", map[string]string{"email": "test@example.com", "password": "badpass"}},
			{"blank password", map[string]string{"email": "test@example.com", "password": ""}},
			{"unknown email", map[string]string{"email": "nobody@example.com", "password": "testpass123"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := api.do(http.MethodPost, "/user/token/", "", tt.payload)
				expectStatus(t, w, http.StatusBadRequest)
				if body := decode[map[string]interface{}](t, w); body["token"] != nil {
					t.Errorf("token present in %v", body)
				}
			})
		}
	})
}

func TestProfile(t *testing.T) {
	t.Run("it requires authentication", func(t *testing.T) {
		api := newTestAPI(t)

		for _, token := range []string{"", "not-a-token"} {
			w := api.do(http.MethodGet, "/user/me/", token, nil)
			expectStatus(t, w, http.StatusUnauthorized)
		}
	})

	t.Run("authentication is checked before the method", func(t *testing.T) {
		api := newTestAPI(t)

		for _, tt := range []struct{ method, path string }{
			{http.MethodPost, "/user/me/"},
			{http.MethodPost, "/recipe/recipes/1/"},
			{http.MethodDelete, "/admin/users/"},
		} {
			w := api.do(tt.method, tt.path, "", nil)
			expectStatus(t, w, http.StatusUnauthorized)
			if w.Header().Get("WWW-Authenticate") != "Token" {
				t.Errorf("%s %s: missing WWW-Authenticate header", tt.method, tt.path)
			}
		}

		w := api.do(http.MethodGet, "/user/create/", "", nil)
		expectStatus(t, w, http.StatusMethodNotAllowed)
	})

	t.Run("it accepts bearer tokens", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.user("test@example.com")

		req := httptest.NewRequest(http.MethodGet, "/user/me/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		api.handler.ServeHTTP(w, req)
		expectStatus(t, w, http.StatusOK)
	})

	t.Run("it returns the profile and refuses POST", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.user("test@example.com")

		w := api.do(http.MethodGet, "/user/me/", token, nil)
		expectStatus(t, w, http.StatusOK)
		want := map[string]string{"name": "Test User", "email": "test@example.com"}
		if diff := cmp.Diff(want, decode[map[string]string](t, w)); diff != "" {
			t.Errorf("profile mismatch (-want +got):\n%s", diff)
		}

		w = api.do(http.MethodPost, "/user/me/", token, map[string]string{})
		expectStatus(t, w, http.StatusMethodNotAllowed)
	})

	t.Run("it updates name and password", func(t *testing.T) {
		api := newTestAPI(t)
		user, token := api.user("test@example.com")

		w := api.do(http.MethodPatch, "/user/me/", token, map[string]string{"name": "Updated name", "password": "newpassword123"})
		expectStatus(t, w, http.StatusOK)

		var stored entities.User
		api.db.First(&stored, user.ID)
		if stored.Name != "Updated name" || !stored.CheckPassword("newpassword123") {
			t.Errorf("profile not updated: name %q", stored.Name)
		}
	})

	t.Run("it updates from a form body", func(t *testing.T) {
		api := newTestAPI(t)
		user, token := api.user("test@example.com")

		w := api.form(http.MethodPatch, "/user/me/", token, url.Values{"name": {"Form name"}, "password": {"newpassword123"}})
		expectStatus(t, w, http.StatusOK)

		var stored entities.User
		api.db.First(&stored, user.ID)
		if stored.Name != "Form name" || !stored.CheckPassword("newpassword123") || stored.Email != "test@example.com" {
			t.Errorf("profile not updated: %+v", stored)
		}
	})

	t.Run("a full update needs email and password", func(t *testing.T) {
		api := newTestAPI(t)
		_, token := api.user("test@example.com")

		w := api.do(http.MethodPut, "/user/me/", token, map[string]string{"name": "Only name"})
		expectStatus(t, w, http.StatusBadRequest)
		body := decode[errorBody](t, w)
		if len(body.Fields["email"]) == 0 || len(body.Fields["password"]) == 0 {
			t.Errorf("fields = %v, want email and password", body.Fields)
		}
	})
}
