package pool

import (
	"bytes"
	"sync"
)

type TPoolConfig[T any] struct {
	Generate func() *T // contructor, new(T) is used if nil
	Reset    func(*T)  // called after get T* from pool
	Cleanup  func(*T)  // called before put T* to pool
}

// generic sync.Pool wrapper, refer from thrift.pool
type TPool[T any] struct {
	pool sync.Pool
	Conf TPoolConfig[T]
}

func NewTPool[T any](conf TPoolConfig[T]) *TPool[T] {
	if conf.Generate == nil {
		conf.Generate = func() *T {
			return new(T)
		}
	}
	p := &TPool[T]{Conf: conf}
	p.pool.New = func() any {
		return p.Conf.Generate()
	}
	return p
}

func (p *TPool[T]) Get() *T {
	r := p.pool.Get().(*T)
	if p.Conf.Reset != nil {
		p.Conf.Reset(r)
	}
	return r
}

// Put returns *r to the pool and nils the caller's pointer so it cannot be
// used after release.
func (p *TPool[T]) Put(r **T) {
	if r == nil || *r == nil {
		return
	}
	if p.Conf.Cleanup != nil {
		p.Conf.Cleanup(*r)
	}
	p.pool.Put(*r)
	*r = nil
}

// buffers larger than this are dropped instead of pooled
const maxPooledBufferCap = 64 * 1024

// BufferPool hands out empty buffers; Reset keeps the backing array.
var BufferPool = NewTPool(TPoolConfig[bytes.Buffer]{
	Reset: func(b *bytes.Buffer) {
		b.Reset()
	},
	Cleanup: func(b *bytes.Buffer) {
		if b.Cap() > maxPooledBufferCap {
			*b = bytes.Buffer{}
		}
	},
})
