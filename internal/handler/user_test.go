package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Misakaaaaaz/Parent-Portal/internal/account"
	"github.com/Misakaaaaaz/Parent-Portal/internal/auth"
	"github.com/Misakaaaaaz/Parent-Portal/internal/handler"
	"github.com/Misakaaaaaz/Parent-Portal/internal/linking"
	"github.com/Misakaaaaaz/Parent-Portal/internal/student"
)

type memUsers struct {
	users  []account.User
	nextID int
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*account.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*account.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *memUsers) FindByLinkingCode(_ context.Context, code string) (*account.User, error) {
	for i := range m.users {
		if m.users[i].LinkingCode == code {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, user account.User) (*account.User, error) {
	for i := range m.users {
		if m.users[i].Email == user.Email {
			return nil, account.ErrDuplicateEmail
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	m.users = append(m.users, user)
	return &user, nil
}

func (m *memUsers) Save(_ context.Context, user account.User) (*account.User, error) {
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i] = user
			return &user, nil
		}
	}
	return nil, account.ErrNotFound
}

func (m *memUsers) ListAll(_ context.Context) ([]account.User, error) {
	return append([]account.User(nil), m.users...), nil
}

type memStudents struct {
	students []student.Student
}

func (m *memStudents) FindByLinkingCode(_ context.Context, code string) (*student.Student, error) {
	for i := range m.students {
		if m.students[i].LinkingCode == code {
			s := m.students[i]
			return &s, nil
		}
	}
	return nil, student.ErrNotFound
}

func (m *memStudents) FindByID(_ context.Context, id string) (*student.Student, error) {
	for i := range m.students {
		if m.students[i].ID == id {
			s := m.students[i]
			return &s, nil
		}
	}
	return nil, student.ErrNotFound
}

func (m *memStudents) AddParent(_ context.Context, studentID, userID string) error {
	for i := range m.students {
		if m.students[i].ID == studentID {
			m.students[i].Parents = append(m.students[i].Parents, userID)
			return nil
		}
	}
	return student.ErrNotFound
}

func (m *memStudents) List(_ context.Context) ([]student.Student, error) {
	return append([]student.Student(nil), m.students...), nil
}

func (m *memStudents) Create(_ context.Context, s student.Student) (*student.Student, error) {
	m.students = append(m.students, s)
	return &s, nil
}

func newTestServer(t *testing.T) (*gin.Engine, *memUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUsers{}
	students := &memStudents{students: []student.Student{
		{ID: "stu-1", Name: "Billy", LinkingCode: "ABC123"},
	}}
	issuer := auth.NewIssuer("test-secret")
	accounts := account.NewService(users, linking.NewResolver(students), issuer, nil)

	h := handler.New(accounts, students, nil, nil, nil, nil, issuer, nil, nil, nil)
	r := gin.New()
	h.Register(r)
	return r, users
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %s", w.Body.String())
	}
	return body.Message
}

func register(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/users/register", "", gin.H{
		"name": "Ann", "email": "ann@x.com", "password": "pw1", "linkingCode": "ABC123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("register: expected a token, got %s", w.Body.String())
	}
	return resp.Token
}

func TestRegisterEndpoint(t *testing.T) {
	r, users := newTestServer(t)

	register(t, r)
	if len(users.users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users.users))
	}

	w := doJSON(r, http.MethodPost, "/users/register", "", gin.H{
		"name": "Bob", "email": "bob@x.com", "password": "pw1", "linkingCode": "NOPE",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := message(t, w); got != "Invalid linking code. Registration failed." {
		t.Fatalf("unexpected message: %q", got)
	}

	w = doJSON(r, http.MethodPost, "/users/register", "", gin.H{
		"name": "Ann", "email": "ann@x.com", "password": "pw1", "linkingCode": "ABC123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate email, got %d", w.Code)
	}
}

func TestSignInEndpoint(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r)

	w := doJSON(r, http.MethodPost, "/users/signin", "", gin.H{"email": "ann@x.com", "password": "pw1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"token"`) {
		t.Fatalf("expected a token in the profile: %s", w.Body.String())
	}

	for _, creds := range []gin.H{
		{"email": "ann@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "pw1"},
	} {
		w := doJSON(r, http.MethodPost, "/users/signin", "", creds)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if got := message(t, w); got != "Invalid email or password" {
			t.Fatalf("unexpected message: %q", got)
		}
	}
}

func TestAuthGuard(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(r, http.MethodPut, "/users/profile", "", gin.H{"notes": "x"})
	if w.Code != http.StatusUnauthorized || message(t, w) != "No Token" {
		t.Fatalf("expected 401 No Token, got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPut, "/users/profile", "not-a-jwt", gin.H{"notes": "x"})
	if w.Code != http.StatusUnauthorized || message(t, w) != "Invalid Token" {
		t.Fatalf("expected 401 Invalid Token, got %d %s", w.Code, w.Body.String())
	}
}

func TestUpdateProfileEndpoint(t *testing.T) {
	r, users := newTestServer(t)
	token := register(t, r)

	w := doJSON(r, http.MethodPut, "/users/profile", token, gin.H{"mobileNumber": "0400000000"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var profile struct {
		MobileNumber string `json:"mobileNumber"`
		Name         string `json:"name"`
		Token        string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.MobileNumber != "0400000000" || profile.Name != "Ann" || profile.Token == "" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if users.users[0].MobileNumber != "0400000000" {
		t.Fatal("update not persisted")
	}
}

func TestChangePasswordEndpoint(t *testing.T) {
	r, users := newTestServer(t)
	token := register(t, r)
	id := users.users[0].ID

	w := doJSON(r, http.MethodPut, "/users/change-password", token, gin.H{
		"userId": id, "oldPassword": "wrong", "newPassword": "pw2",
	})
	if w.Code != http.StatusBadRequest || message(t, w) != "Old password is incorrect" {
		t.Fatalf("expected 400 Old password is incorrect, got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPut, "/users/change-password", token, gin.H{
		"userId": id, "oldPassword": "pw1", "newPassword": "pw2",
	})
	if w.Code != http.StatusOK || message(t, w) != "Password updated successfully" {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/users/signin", "", gin.H{"email": "ann@x.com", "password": "pw2"})
	if w.Code != http.StatusOK {
		t.Fatalf("signin with new password: expected 200, got %d", w.Code)
	}
}

func TestResetPasswordEndpoint(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r)

	w := doJSON(r, http.MethodPut, "/users/reset-password", "", gin.H{
		"email": "nobody@x.com", "newPassword": "pw3",
	})
	if w.Code != http.StatusNotFound || message(t, w) != "User not found with this email." {
		t.Fatalf("expected 404, got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPut, "/users/reset-password", "", gin.H{
		"email": "ann@x.com", "newPassword": "pw3",
	})
	if w.Code != http.StatusOK || message(t, w) != "Password updated successfully." {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/users/signin", "", gin.H{"email": "ann@x.com", "password": "pw3"})
	if w.Code != http.StatusOK {
		t.Fatalf("signin with reset password: expected 200, got %d", w.Code)
	}
}

func TestGetUserEndpoint(t *testing.T) {
	r, users := newTestServer(t)
	register(t, r)

	w := doJSON(r, http.MethodGet, "/users/"+users.users[0].ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "pw1") {
		t.Fatal("response must not leak the password")
	}

	w = doJSON(r, http.MethodGet, "/users/ghost", "", nil)
	if w.Code != http.StatusNotFound || message(t, w) != "User Not Found" {
		t.Fatalf("expected 404 User Not Found, got %d %s", w.Code, w.Body.String())
	}
}

func TestUserByLinkingCodeEndpoint(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r)

	w := doJSON(r, http.MethodGet, "/users/linkingCode/ABC123", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var profile struct {
		Children []struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		} `json:"children"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if len(profile.Children) != 1 || profile.Children[0].Name != "Billy" {
		t.Fatalf("expected populated child, got %s", w.Body.String())
	}
	if profile.Token != "" {
		t.Fatal("linking-code lookup must not mint a token")
	}

	w = doJSON(r, http.MethodGet, "/users/linkingCode/NOPE", "", nil)
	if w.Code != http.StatusNotFound || message(t, w) != "User Not Found" {
		t.Fatalf("expected 404 User Not Found, got %d %s", w.Code, w.Body.String())
	}
}

func TestSectionTestEndpoint(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(r, http.MethodGet, "/api/sections/test", "", nil)
	if w.Code != http.StatusOK || message(t, w) != "API is working!" {
		t.Fatalf("expected 200 API is working!, got %d %s", w.Code, w.Body.String())
	}
}
