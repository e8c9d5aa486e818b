package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Qthai16/go-dlist/common"
	"github.com/Qthai16/go-dlist/utils"
	"github.com/pkg/errors"
)

var (
	ErrInvalidParam   = errors.New("invalid param")
	ErrMaxConnReached = errors.New("max connection reached")
	ErrPoolClosed     = errors.New("pool is closed")
	ErrNoConnection   = errors.New("no connection")
)

const (
	DefaultMaxOpenConn = 32
	DefaultMaxIdleConn = 8
	DefaultWaitTimeout = 3 * time.Second
)

type Conn interface {
	Close() error
}

// ConnFactory dials a new, already opened connection.
type ConnFactory[C Conn] func(ctx context.Context) (C, error)

type ConnPoolConfig struct {
	Name        string        // used in logs only
	MaxOpenConn int32         // idle + borrowed
	MaxIdleConn int32         // idle conns kept for reuse
	WaitTimeout time.Duration // max wait for a conn once MaxOpenConn is reached
}

func (c *ConnPoolConfig) normalize() {
	if c.MaxOpenConn <= 0 {
		c.MaxOpenConn = DefaultMaxOpenConn
	}
	if c.MaxIdleConn <= 0 || c.MaxIdleConn > c.MaxOpenConn {
		c.MaxIdleConn = min(DefaultMaxIdleConn, c.MaxOpenConn)
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
}

// ConnPool is a bounded pool of client connections.
type ConnPool[C Conn] struct {
	ConnPoolConfig
	factory     ConnFactory[C]
	idle        chan C
	freed       chan struct{} // signalled when an open slot is released
	mu          sync.RWMutex // guards idle against close while putting
	numOpenConn atomic.Int32
	isClosed    atomic.Bool
}

func NewConnPool[C Conn](conf ConnPoolConfig, factory ConnFactory[C]) (*ConnPool[C], error) {
	if factory == nil {
		return nil, ErrInvalidParam
	}
	conf.normalize()
	return &ConnPool[C]{
		ConnPoolConfig: conf,
		factory:        factory,
		idle:           make(chan C, conf.MaxIdleConn),
		freed:          make(chan struct{}, conf.MaxOpenConn),
	}, nil
}

func (p *ConnPool[C]) Get(ctx context.Context) (C, error) {
	var zero C
	var t *time.Timer
	defer func() {
		if t != nil {
			common.ReturnTimer(t)
		}
	}()
	for {
		if p.isClosed.Load() {
			return zero, ErrPoolClosed
		}
		select {
		case conn, ok := <-p.idle:
			if !ok {
				return zero, ErrPoolClosed
			}
			return conn, nil
		default:
		}
		if p.numOpenConn.Add(1) <= p.MaxOpenConn {
			conn, err := p.factory(ctx)
			if err != nil {
				p.release()
				utils.LogWarn("[conn_pool][%v] dial failed: %v", p.Name, err)
				return zero, errors.WithMessage(ErrNoConnection, err.Error())
			}
			return conn, nil
		}
		p.numOpenConn.Add(-1)
		if t == nil {
			t = common.BorrowTimer(p.WaitTimeout)
		}
		select {
		case conn, ok := <-p.idle:
			if !ok {
				return zero, ErrPoolClosed
			}
			return conn, nil
		case <-p.freed:
			// a slot was released, try dialing again
		case <-t.C:
			return zero, ErrMaxConnReached
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// release gives back an open slot and wakes one waiter, if any.
func (p *ConnPool[C]) release() {
	p.numOpenConn.Add(-1)
	select {
	case p.freed <- struct{}{}:
	default:
	}
}

// Put hands a healthy conn back. It is closed instead when the pool is closed
// or already holds MaxIdleConn idle conns.
func (p *ConnPool[C]) Put(conn C) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.isClosed.Load() {
		select {
		case p.idle <- conn:
			return
		default:
		}
	}
	p.Discard(conn)
}

// Discard closes a conn that must not be reused, eg. after a transport error.
func (p *ConnPool[C]) Discard(conn C) {
	conn.Close()
	p.release()
}

// PutIfValid puts conn back when err is nil, discards it otherwise.
func (p *ConnPool[C]) PutIfValid(conn C, err error) {
	if err != nil {
		p.Discard(conn)
		return
	}
	p.Put(conn)
}

func (p *ConnPool[C]) NumOpen() int32 {
	return p.numOpenConn.Load()
}

func (p *ConnPool[C]) NumIdle() int {
	return len(p.idle)
}

func (p *ConnPool[C]) Close() {
	if !p.isClosed.CompareAndSwap(false, true) {
		return
	}
	p.mu.Lock()
	close(p.idle)
	p.mu.Unlock()
	for conn := range p.idle {
		p.Discard(conn)
	}
	utils.LogInfo("[conn_pool][%v] pool is closed", p.Name)
}
