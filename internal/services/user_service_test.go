package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Dalab21/emotunes/internal/models"
)

func newMockUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return NewUserService(db), mock
}

func TestGetProfile(t *testing.T) {
	service, mock := newMockUserService(t)

	userRows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role_id"}).
		AddRow(3, "alice", "alice@example.com", "hash", models.RolePremium)
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows)

	roleRows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(models.RolePremium, "premium")
	mock.ExpectQuery(`SELECT \* FROM "roles"`).WillReturnRows(roleRows)

	user, err := service.GetProfile(3)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected username alice, got %q", user.Username)
	}
	if user.Role.Name != "premium" {
		t.Errorf("expected role relation loaded, got %q", user.Role.Name)
	}
	if user.RoleName() != "premium" {
		t.Errorf("expected role name premium, got %q", user.RoleName())
	}
}

func TestGetProfileNotFound(t *testing.T) {
	service, mock := newMockUserService(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := service.GetProfile(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProfile() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	service, mock := newMockUserService(t)

	if err := service.UpdateRole(1, 42); !errors.Is(err, ErrValidation) {
		t.Errorf("UpdateRole() error = %v, want ErrValidation", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database access: %v", err)
	}
}

func TestUpdateRoleUserNotFound(t *testing.T) {
	service, mock := newMockUserService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := service.UpdateRole(99, models.RolePremium); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateRole() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateRoleSuccess(t *testing.T) {
	service, mock := newMockUserService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := service.UpdateRole(1, models.RolePremium); err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
