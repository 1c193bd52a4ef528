// Package metadata is the client's string-keyed key/value store. It keeps
// session state ("isLoggedIn", "userProfile") and is backed by either the
// local SQLite file or Redis.
package metadata

import (
	"context"
)

// Repository is the key/value store contract. Get returns (nil, nil) for an
// absent key and Delete of an absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	// Apply runs every operation of b or none of them.
	Apply(ctx context.Context, b *Batch) error
}

// OpKind tells a batch operation apart.
type OpKind int

const (
	OpSet OpKind = iota
	OpDelete
)

type Op struct {
	Kind  OpKind
	Key   string
	Value []byte
}

// Batch is an ordered list of writes applied atomically by Repository.Apply.
type Batch struct {
	ops []Op
}

func NewBatch() *Batch { return &Batch{} }

func (b *Batch) Set(key string, value []byte) *Batch {
	b.ops = append(b.ops, Op{Kind: OpSet, Key: key, Value: value})
	return b
}

func (b *Batch) Delete(key string) *Batch {
	b.ops = append(b.ops, Op{Kind: OpDelete, Key: key})
	return b
}

func (b *Batch) Ops() []Op { return b.ops }

func (b *Batch) Len() int { return len(b.ops) }
