package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process Cache bounded by size and TTL.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates an in-process cache. A size of 0 means unbounded.
func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := m.lru.Get(key)
	if !ok {
		return false, nil
	}
	if err := decode(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	b, err := encode(value)
	if err != nil {
		return err
	}
	m.lru.Add(key, b)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.lru.Purge()
	return nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}
