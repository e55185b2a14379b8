package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	clientv3 "go.etcd.io/etcd/client/v3"
)

type etcdClient interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error)
	Close() error
}

// EtcdVersionStore keeps the marker under a single etcd key so several
// hosts can share it.
type EtcdVersionStore struct {
	client etcdClient
	key    string
	logger zerolog.Logger
}

func NewEtcdVersionStore(client etcdClient, key string, logger zerolog.Logger) *EtcdVersionStore {
	return &EtcdVersionStore{client: client, key: key, logger: logger}
}

func (s *EtcdVersionStore) Load(ctx context.Context) (string, bool, error) {
	resp, err := s.client.Get(ctx, s.key)
	if err != nil {
		return "", false, NewReadError(s.key, err)
	}
	if len(resp.Kvs) == 0 {
		s.logger.Debug().Str("key", s.key).Msg("[etcd_store] No stored marker")
		return "", false, nil
	}
	marker := strings.TrimSpace(string(resp.Kvs[0].Value))
	if marker == "" {
		return "", false, nil
	}
	return marker, true, nil
}

// Save is a single Put, which etcd applies atomically.
func (s *EtcdVersionStore) Save(ctx context.Context, marker string) error {
	if _, err := s.client.Put(ctx, s.key, marker); err != nil {
		return NewWriteError(TargetMarker, s.key, fmt.Errorf("etcd put: %w", err))
	}
	s.logger.Debug().Str("key", s.key).Msg("[etcd_store] Saved marker")
	return nil
}

func (s *EtcdVersionStore) Close() error {
	return s.client.Close()
}
