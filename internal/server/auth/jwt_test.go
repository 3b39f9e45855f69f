package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/streamhive/streamhive/internal/common"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	userID := "user-123"

	access, err := m.IssueAccess(userID)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	refresh, err := m.IssueRefresh(userID)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}

	gotAccess, err := m.Verify(access, KindAccess)
	if err != nil {
		t.Fatalf("Verify(access) error: %v", err)
	}
	gotRefresh, err := m.Verify(refresh, KindRefresh)
	if err != nil {
		t.Fatalf("Verify(refresh) error: %v", err)
	}
	if gotAccess != userID || gotRefresh != userID {
		t.Fatalf("userID mismatch: access=%q refresh=%q want %q", gotAccess, gotRefresh, userID)
	}
}

func TestIssue_ConsecutiveTokensDiffer(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	first, err := m.IssueRefresh("u1")
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	second, err := m.IssueRefresh("u1")
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	if first == second {
		t.Fatalf("tokens minted back to back must not be identical")
	}
}

func TestVerify_KindsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	access, err := m.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	if _, err := m.Verify(access, KindRefresh); err == nil {
		t.Fatalf("expected error verifying access token as refresh, got nil")
	}

	refresh, err := m.IssueRefresh("u1")
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	if _, err := m.Verify(refresh, KindAccess); err == nil {
		t.Fatalf("expected error verifying refresh token as access, got nil")
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := NewManager("a", "r", -1*time.Second, -1*time.Second)

	tok, err := m.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	_, err = m.Verify(tok, KindAccess)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newTestManager().IssueAccess("u2")
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	other := NewManager("different", "secrets", time.Hour, time.Hour)
	_, err = other.Verify(tok, KindAccess)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := newTestManager().Verify("not.a.jwt", KindAccess)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
