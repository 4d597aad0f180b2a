package user

import (
	"context"
	"errors"
	"testing"

	"github.com/buildwithfavas/mind-merge/internal/apperr"
	"github.com/buildwithfavas/mind-merge/internal/identity"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != kind {
		t.Fatalf("expected kind %d, got %v", kind, err)
	}
}

func TestMeMergesStoredAttributes(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT role, blocked").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"role", "blocked", "blocked_reason", "linkedin_url"}).
			AddRow("admin", false, "", "https://linkedin.com/in/ada"))

	svc := NewService(mock)
	me, err := svc.Me(context.Background(), identity.Caller{UID: "user-1", Email: "ada@example.com", Name: "Ada"})
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Role != "admin" || me.LinkedinURL != "https://linkedin.com/in/ada" || me.Email != "ada@example.com" {
		t.Fatalf("unexpected me %+v", me)
	}
}

func TestMeToleratesMissingRow(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT role, blocked").
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock)
	me, err := svc.Me(context.Background(), identity.Caller{UID: "user-1", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Role != "user" || me.Blocked {
		t.Fatalf("expected defaults, got %+v", me)
	}
}

func TestProfileNotFoundWithoutRow(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock)
	_, err := svc.Profile(context.Background(), "user-1")
	expectKind(t, err, apperr.KindNotFound)
}

func TestProfileNotFoundWithoutLinkedinURL(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"name", "linkedin_url", "photo_url"}).
			AddRow("Ada", "", ""))

	svc := NewService(mock)
	_, err := svc.Profile(context.Background(), "user-1")
	expectKind(t, err, apperr.KindNotFound)
}

func TestProfileReturnsSavedProfile(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"name", "linkedin_url", "photo_url"}).
			AddRow("Ada", "https://linkedin.com/in/ada", "https://photos.example/ada.png"))

	svc := NewService(mock)
	p, err := svc.Profile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Name != "Ada" || p.LinkedinURL != "https://linkedin.com/in/ada" {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestSaveProfileValidation(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	expectKind(t, svc.SaveProfile(ctx, "user-1", "", "https://linkedin.com/in/ada", ""), apperr.KindInvalidInput)
	expectKind(t, svc.SaveProfile(ctx, "user-1", "Ada", "", ""), apperr.KindInvalidInput)
	expectKind(t, svc.SaveProfile(ctx, "user-1", "Ada", "https://example.com/in/ada", ""), apperr.KindInvalidInput)
	expectKind(t, svc.SaveProfile(ctx, "user-1", "Ada", "https://linkedin.com/in/ada", "http://plain.example/x.png"), apperr.KindInvalidInput)
}

func TestSaveProfileUpserts(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("user-1", "Ada", "https://linkedin.com/in/ada", "https://photos.example/ada.png").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock)
	err := svc.SaveProfile(context.Background(), "user-1", "  Ada  ", " https://linkedin.com/in/ada ", "https://photos.example/ada.png")
	if err != nil {
		t.Fatalf("save profile: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDirectoryExcludesSelfAndRelated(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT u.id, COALESCE").
		WithArgs("user-1", 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "linkedin_url", "photo_url"}).
			AddRow("user-2", "Bea", "https://linkedin.com/in/bea", "").
			AddRow("user-3", "Cal", "https://linkedin.com/in/cal", ""))

	svc := NewService(mock)
	page, err := svc.Directory(context.Background(), "user-1", 1, 20)
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 || page.HasMore {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Items[0].ID != "user-2" {
		t.Fatalf("unexpected first member %+v", page.Items[0])
	}
}
