package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testAuthService() *AuthService {
	return NewAuthService(&AuthConfig{
		JWTSecret:     "test-secret",
		TokenDuration: time.Hour,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	service := testAuthService()

	token, err := service.GenerateToken("u1", "u1@example.com", true)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.UserID != "u1" || claims.Email != "u1@example.com" || !claims.Admin {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "eshop-reports-api" {
		t.Errorf("unexpected issuer: %q", claims.Issuer)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := testAuthService().GenerateToken("u1", "u1@example.com", false)
	if err != nil {
		t.Fatal(err)
	}

	other := NewAuthService(&AuthConfig{JWTSecret: "different-secret"})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation failure for wrong secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	service := NewAuthService(&AuthConfig{
		JWTSecret:     "test-secret",
		TokenDuration: -time.Hour,
	})

	token, err := service.GenerateToken("u1", "u1@example.com", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := service.ValidateToken(token); err == nil {
		t.Error("expected validation failure for expired token")
	}
}

func TestAuthenticationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := testAuthService()

	router := gin.New()
	router.GET("/protected", Authentication(service), func(c *gin.Context) {
		userID, email, ok := GetUserFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": email, "admin": IsAdmin(c)})
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for invalid token, got %d", recorder.Code)
	}

	token, err := service.GenerateToken("u1", "u1@example.com", true)
	if err != nil {
		t.Fatal(err)
	}
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", recorder.Code)
	}
}

func TestOptionalAuthenticationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := testAuthService()

	router := gin.New()
	router.GET("/reports", OptionalAuthentication(service), func(c *gin.Context) {
		if userID, _, ok := GetUserFromContext(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": userID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})

	// Anonymous requests pass through
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 without token, got %d", recorder.Code)
	}

	// Broken tokens do not block the request either
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 for invalid token, got %d", recorder.Code)
	}

	// A valid token attaches the identity
	token, err := service.GenerateToken("u1", "u1@example.com", false)
	if err != nil {
		t.Fatal(err)
	}
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", recorder.Code)
	}
	if body := recorder.Body.String(); body != `{"user_id":"u1"}` {
		t.Errorf("expected attached identity, got %s", body)
	}
}
