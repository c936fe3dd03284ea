package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenhouse_control/internal/service"
)

func TestAuthHandlers_LoginSetsCookieAndReturnsToken(t *testing.T) {
	session := &mockSession{loginToken: "tok123"}
	s := &service.Service{Session: session}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"password":"gr33nhouse"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if session.lastLoginPassword != "gr33nhouse" {
		t.Fatalf("password passed = %q", session.lastLoginPassword)
	}

	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["success"] != true || m["logged_in"] != true || m["token"] != "tok123" {
		t.Fatalf("body = %v", m)
	}

	var sessionSet bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == sessionCookie && cookie.Value == "tok123" {
			sessionSet = true
			if !cookie.HttpOnly {
				t.Fatalf("session cookie not HttpOnly")
			}
		}
	}
	if !sessionSet {
		t.Fatalf("session cookie not set; headers=%v", w.Header())
	}
}

func TestAuthHandlers_LoginWrongPassword(t *testing.T) {
	s := &service.Service{Session: &mockSession{loginErr: service.ErrInvalidPassword}}
	r := newTestRouter(s)

	body := bytes.NewBufferString(`{"password":"nope"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}

	var m map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["error"] != "Invalid password" {
		t.Fatalf("error = %q", m["error"])
	}
}

func TestAuthHandlers_LoginMissingPassword(t *testing.T) {
	s := &service.Service{Session: &mockSession{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestAuthHandlers_LogoutClearsCookie(t *testing.T) {
	s := &service.Service{Session: &mockSession{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	var cleared bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == sessionCookie && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("session cookie not cleared; headers=%v", w.Header())
	}
}

func TestAuthHandlers_AuthCheck(t *testing.T) {
	session := &mockSession{}
	s := &service.Service{Session: session}
	r := newTestRouter(s)

	// anonymous
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth-check", nil))
	var m map[string]bool
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if w.Code != http.StatusOK || m["logged_in"] {
		t.Fatalf("anonymous auth-check = %d %v", w.Code, m)
	}

	// valid session cookie
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth-check", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "tok"})
	r.ServeHTTP(w, req)
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if w.Code != http.StatusOK || !m["logged_in"] {
		t.Fatalf("cookie auth-check = %d %v", w.Code, m)
	}
}
