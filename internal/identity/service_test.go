package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buildwithfavas/mind-merge/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pashagolub/pgxmock/v3"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func testClaims(uid string) Claims {
	return Claims{
		Email:   "ada@example.com",
		Name:    "Ada Lovelace",
		Picture: "https://photos.example/ada.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifyValidToken(t *testing.T) {
	svc := NewService(testSecret, nil, nil)
	token := signToken(t, testSecret, testClaims("user-1"))

	caller, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if caller.UID != "user-1" || caller.Email != "ada@example.com" || caller.Name != "Ada Lovelace" {
		t.Fatalf("unexpected caller %+v", caller)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	svc := NewService(testSecret, nil, nil)
	token := signToken(t, "other-secret", testClaims("user-1"))

	if _, err := svc.Verify(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	svc := NewService(testSecret, nil, nil)
	token := signToken(t, testSecret, testClaims(""))

	if _, err := svc.Verify(token); err == nil {
		t.Fatalf("expected error for missing subject")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewService(testSecret, nil, nil)
	claims := testClaims("user-1")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, testSecret, claims)

	if _, err := svc.Verify(token); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestResolveUpsertsAndBackfills(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	caller := Caller{UID: "user-1", Email: "ada@example.com", Name: "Ada", Picture: "https://photos.example/ada.png"}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(caller.UID, caller.Email, caller.Name, caller.Picture).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE users SET name=").
		WithArgs(caller.UID, caller.Name).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("UPDATE users SET photo_url=").
		WithArgs(caller.UID, caller.Picture).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT role, blocked").
		WithArgs(caller.UID).
		WillReturnRows(pgxmock.NewRows([]string{"role", "blocked", "blocked_reason"}).AddRow("user", false, ""))

	svc := NewService(testSecret, nil, mock)
	resolved, err := svc.Resolve(context.Background(), caller)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Role != "user" {
		t.Fatalf("expected role user, got %q", resolved.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResolveSkipsBackfillForEmptyClaims(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	caller := Caller{UID: "user-1", Email: "ada@example.com"}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(caller.UID, caller.Email, "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT role, blocked").
		WithArgs(caller.UID).
		WillReturnRows(pgxmock.NewRows([]string{"role", "blocked", "blocked_reason"}).AddRow("user", false, ""))

	svc := NewService(testSecret, nil, mock)
	if _, err := svc.Resolve(context.Background(), caller); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResolveBlockedUser(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	caller := Caller{UID: "user-1", Email: "ada@example.com"}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(caller.UID, caller.Email, "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT role, blocked").
		WithArgs(caller.UID).
		WillReturnRows(pgxmock.NewRows([]string{"role", "blocked", "blocked_reason"}).AddRow("user", true, "spam"))

	svc := NewService(testSecret, nil, mock)
	_, err = svc.Resolve(context.Background(), caller)

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindBlocked {
		t.Fatalf("expected blocked error, got %v", err)
	}
	if appErr.Message != "account blocked: spam" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestResolvePromotesAllowListedAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	caller := Caller{UID: "user-1", Email: "Boss@Example.com"}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(caller.UID, caller.Email, "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT role, blocked").
		WithArgs(caller.UID).
		WillReturnRows(pgxmock.NewRows([]string{"role", "blocked", "blocked_reason"}).AddRow("user", false, ""))
	mock.ExpectExec("UPDATE users SET role='admin'").
		WithArgs(caller.UID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(testSecret, map[string]bool{"boss@example.com": true}, mock)
	resolved, err := svc.Resolve(context.Background(), caller)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Role != "admin" {
		t.Fatalf("expected admin role, got %q", resolved.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResolveKeepsExistingAdmin(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	caller := Caller{UID: "user-1", Email: "boss@example.com"}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(caller.UID, caller.Email, "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT role, blocked").
		WithArgs(caller.UID).
		WillReturnRows(pgxmock.NewRows([]string{"role", "blocked", "blocked_reason"}).AddRow("admin", false, ""))

	svc := NewService(testSecret, map[string]bool{"boss@example.com": true}, mock)
	resolved, err := svc.Resolve(context.Background(), caller)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Role != "admin" {
		t.Fatalf("expected admin role, got %q", resolved.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
