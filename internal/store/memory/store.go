package memory

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-hub/loginsession"
	"github.com/jrsteele09/go-auth-hub/users"
)

// Store is a thread-safe in-memory backing store. It mirrors the relational
// constraints of the postgres store: sessions reference users, grants
// reference sessions, and deletes cascade.
type Store struct {
	mu sync.RWMutex

	users     map[string]*users.User // id -> user
	usernames map[string]string      // username -> id

	sessions map[string]*loginsession.LoginSession // id -> session
	tokens   map[string]string                     // raw token -> session id
	grants   map[string]map[string]struct{}        // session id -> hosts

	hosts     map[string]struct{}
	secrets   map[string][]byte
	lastSwept time.Time
}

func New() *Store {
	return &Store{
		users:     make(map[string]*users.User),
		usernames: make(map[string]string),
		sessions:  make(map[string]*loginsession.LoginSession),
		tokens:    make(map[string]string),
		grants:    make(map[string]map[string]struct{}),
		hosts:     make(map[string]struct{}),
		secrets:   make(map[string][]byte),
	}
}

func (s *Store) Users() *UserRepo {
	return &UserRepo{s: s}
}

func (s *Store) Sessions() *SessionRepo {
	return &SessionRepo{s: s}
}

func (s *Store) Grants() *GrantRepo {
	return &GrantRepo{s: s}
}

func (s *Store) Hosts() *HostRepo {
	return &HostRepo{s: s}
}

func (s *Store) Secrets() *SecretRepo {
	return &SecretRepo{s: s}
}

// deleteSessionLocked removes a session and its grants. Callers hold s.mu.
func (s *Store) deleteSessionLocked(id string) {
	session, ok := s.sessions[id]
	if !ok {
		return
	}
	for token, sid := range s.tokens {
		if sid == session.ID {
			delete(s.tokens, token)
		}
	}
	delete(s.sessions, id)
	delete(s.grants, id)
}
