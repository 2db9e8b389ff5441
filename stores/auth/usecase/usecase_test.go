package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	bCtx "github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/account"
)

// stubAccounts registers lazily like the real usecase does
type stubAccounts struct {
	registered map[domain.UserId]*account.Account
}

func (s *stubAccounts) Get(c bCtx.Ctx, userId domain.UserId) (*account.Account, error) {
	if a, ok := s.registered[userId]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubAccounts) Register(c bCtx.Ctx, userId domain.UserId, displayName string) (*account.Account, error) {
	a := &account.Account{UserId: userId, DisplayName: displayName, CreatedAt: time.Now()}
	s.registered[userId] = a
	return a, nil
}

func (s *stubAccounts) Suspend(c bCtx.Ctx, userId domain.UserId, reason string) error {
	return nil
}

func (s *stubAccounts) Reinstate(c bCtx.Ctx, userId domain.UserId) error {
	return nil
}

func (s *stubAccounts) IsSuspended(c bCtx.Ctx, userId domain.UserId) (bool, error) {
	return false, nil
}

func TestIssueAndParseToken(t *testing.T) {
	accounts := &stubAccounts{registered: map[domain.UserId]*account.Account{}}
	ctx := bCtx.Background()
	u := New("jwt-secret", accounts)

	tkn, err := u.IssueToken(ctx, "user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)

	// issuing registers the account on first use
	assert.Contains(t, accounts.registered, domain.UserId("user-1"))

	userId, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, domain.UserId("user-1"), userId)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	accounts := &stubAccounts{registered: map[domain.UserId]*account.Account{}}
	ctx := bCtx.Background()
	u := New("jwt-secret", accounts)

	_, err := u.ParseToken(ctx, "not-a-token")
	assert.Error(t, err)

	// a token signed with another secret fails validation
	other := New("other-secret", accounts)
	tkn, err := other.IssueToken(ctx, "user-2")
	assert.NoError(t, err)
	_, err = u.ParseToken(ctx, tkn)
	assert.Error(t, err)
}
