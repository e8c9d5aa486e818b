package store

import (
	"sort"
	"sync"

	"github.com/Qthai16/go-dlist/common/dlist"
	"github.com/Qthai16/go-dlist/utils/hashkit"
	"github.com/pkg/errors"
)

var (
	ErrNoSuchList  = errors.New("no such list")
	ErrInvalidName = errors.New("invalid list name")
)

const (
	DefaultShards = 16
	MaxShards     = 1 << 12
	MaxNameLen    = 256
)

type (
	IntList = dlist.List[int64]

	StoreConfig struct {
		Shards uint32 // rounded up to a power of two
		Hash32 hashkit.HashFn
	}

	shard struct {
		lists map[string]*IntList
		mu    sync.Mutex
	}

	// Store keeps named lists in shards picked by hashing the name. A list is
	// only touched while its shard lock is held.
	Store struct {
		StoreConfig
		shards []shard
		mask   uint32
	}
)

func roundPow2(n uint32) uint32 {
	p := uint32(1)
	for p < n && p < MaxShards {
		p <<= 1
	}
	return p
}

func NewStore(conf StoreConfig) *Store {
	if conf.Shards == 0 {
		conf.Shards = DefaultShards
	}
	conf.Shards = roundPow2(conf.Shards)
	if conf.Hash32 == nil {
		conf.Hash32 = hashkit.Jenkins
	}
	s := &Store{
		StoreConfig: conf,
		shards:      make([]shard, conf.Shards),
		mask:        conf.Shards - 1,
	}
	for i := range s.shards {
		s.shards[i].lists = make(map[string]*IntList)
	}
	return s
}

func (s *Store) shardOf(name string) *shard {
	return &s.shards[s.Hash32([]byte(name))&s.mask]
}

func validName(name string) error {
	if len(name) == 0 || len(name) > MaxNameLen {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// Do runs fn on the named list under its shard lock. With create set a
// missing list is created first, otherwise ErrNoSuchList is returned.
func (s *Store) Do(name string, create bool, fn func(l *IntList) error) error {
	if err := validName(name); err != nil {
		return err
	}
	sh := s.shardOf(name)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	l, ok := sh.lists[name]
	if !ok {
		if !create {
			return errors.Wrapf(ErrNoSuchList, "%q", name)
		}
		l = dlist.New[int64]()
		sh.lists[name] = l
	}
	return fn(l)
}

// Drop clears the named list and forgets it. It reports whether it existed.
func (s *Store) Drop(name string) bool {
	sh := s.shardOf(name)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	l, ok := sh.lists[name]
	if !ok {
		return false
	}
	l.Clear()
	delete(sh.lists, name)
	return true
}

func (s *Store) Names() []string {
	names := make([]string, 0)
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for name := range sh.lists {
			names = append(names, name)
		}
		sh.mu.Unlock()
	}
	sort.Strings(names)
	return names
}

// Purge drops every list.
func (s *Store) Purge() (cnt int) {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for name, l := range sh.lists {
			l.Clear()
			delete(sh.lists, name)
			cnt++
		}
		sh.mu.Unlock()
	}
	return cnt
}
