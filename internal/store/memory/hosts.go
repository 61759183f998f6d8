package memory

import (
	"context"
	"sort"

	"github.com/jrsteele09/go-auth-hub/hosts"
)

var _ hosts.Repo = (*HostRepo)(nil)

type HostRepo struct {
	s *Store
}

func (r *HostRepo) Exists(_ context.Context, host string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.hosts[host]
	return ok, nil
}

func (r *HostRepo) List(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]string, 0, len(r.s.hosts))
	for host := range r.s.hosts {
		list = append(list, host)
	}
	sort.Strings(list)
	return list, nil
}

func (r *HostRepo) Add(_ context.Context, host string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.hosts[host] = struct{}{}
	return nil
}

func (r *HostRepo) Delete(_ context.Context, host string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.hosts, host)
	return nil
}
