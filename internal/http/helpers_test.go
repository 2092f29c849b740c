package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/target/sharelink-gateway/internal/domain/guest"
	mocks "github.com/target/sharelink-gateway/internal/mocks/share"
	"github.com/target/sharelink-gateway/internal/service"
)

// loginFixture bundles a real login service over in-memory doubles, so
// handler tests exercise the same login path production uses.
type loginFixture struct {
	Login     *service.LoginService
	Directory *mocks.StubDirectory
	Sessions  *mocks.MemorySessionStore
}

func newLoginFixture(t *testing.T) *loginFixture {
	t.Helper()
	directory := mocks.NewStubDirectory()
	sessions := mocks.NewMemorySessionStore()
	login := service.NewLoginService(service.LoginServiceOptions{
		Directory:  directory,
		Sessions:   sessions,
		SessionTTL: 30 * time.Minute,
	})
	return &loginFixture{Login: login, Directory: directory, Sessions: sessions}
}

// addGuestUser registers the context and user records backing a guest.
func (f *loginFixture) addGuestUser(u guest.User) {
	f.Directory.AddContext(guest.Context{ID: u.ContextID, Name: "ctx-" + u.ContextID})
	f.Directory.AddUser(u)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// totalDeletes sums Delete calls across all session IDs.
func (f *loginFixture) totalDeletes() int {
	n := 0
	for _, c := range f.Sessions.Deletes {
		n += c
	}
	return n
}
