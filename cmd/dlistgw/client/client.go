// Package client talks to dlistgw over framed binary thrift, borrowing
// connections from a pool.
package client

import (
	"context"
	"time"

	"github.com/Qthai16/go-dlist/cmd/dlistgw/message"
	"github.com/Qthai16/go-dlist/common/dlist"
	"github.com/Qthai16/go-dlist/common/pool"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/pkg/errors"
)

var (
	ErrNoSuchList = errors.New("no such list")
	ErrBadRequest = errors.New("bad request")
)

type Config struct {
	Addr     string
	ConnConf *thrift.TConfiguration
	Pool     pool.ConnPoolConfig
}

func DefaultConnConf() *thrift.TConfiguration {
	return &thrift.TConfiguration{
		ConnectTimeout:     5 * time.Second,
		SocketTimeout:      5 * time.Second,
		MaxFrameSize:       1024 * 1024 * 16,
		TBinaryStrictRead:  thrift.BoolPtr(true),
		TBinaryStrictWrite: thrift.BoolPtr(true),
	}
}

type conn struct {
	trans thrift.TTransport
	iprot thrift.TProtocol
	oprot thrift.TProtocol
	core  *thrift.TStandardClient
	seqId int32
}

// invoke sends one request and reads its reply. sent is false when the
// request never left the client, so the gateway cannot have applied it.
func (c *conn) invoke(ctx context.Context, method string, req *message.ListRequest, resp *message.ListResponse) (sent bool, err error) {
	c.seqId++
	if err = c.core.Send(ctx, c.oprot, c.seqId, method, req); err != nil {
		return false, err
	}
	return true, c.core.Recv(ctx, c.iprot, c.seqId, method, resp)
}

func (c *conn) Close() error {
	if c.trans != nil {
		return c.trans.Close()
	}
	return nil
}

func dial(addr string, connConf *thrift.TConfiguration) (*conn, error) {
	socket := thrift.NewTSocketConf(addr, connConf)
	trans := thrift.NewTFramedTransportConf(socket, connConf)
	if err := trans.Open(); err != nil {
		return nil, err
	}
	iprot := thrift.NewTBinaryProtocolConf(trans, connConf)
	oprot := thrift.NewTBinaryProtocolConf(trans, connConf)
	return &conn{trans: trans, iprot: iprot, oprot: oprot, core: thrift.NewTStandardClient(iprot, oprot)}, nil
}

type Client struct {
	Config
	pool *pool.ConnPool[*conn]
}

func NewClient(conf Config) (*Client, error) {
	if conf.Addr == "" {
		return nil, pool.ErrInvalidParam
	}
	if conf.ConnConf == nil {
		conf.ConnConf = DefaultConnConf()
	}
	if conf.Pool.Name == "" {
		conf.Pool.Name = conf.Addr
	}
	connConf := conf.ConnConf
	p, err := pool.NewConnPool[*conn](conf.Pool, func(ctx context.Context) (*conn, error) {
		return dial(conf.Addr, connConf)
	})
	if err != nil {
		return nil, err
	}
	return &Client{Config: conf, pool: p}, nil
}

func (c *Client) Close() {
	c.pool.Close()
}

func isTransportErr(err error) bool {
	var te thrift.TTransportException
	return errors.As(err, &te)
}

func toError(le *message.ListError) error {
	switch le.Code {
	case message.CodeOutOfRange:
		return errors.WithMessage(dlist.ErrOutOfRange, le.Message)
	case message.CodeNoSuchList:
		return errors.WithMessage(ErrNoSuchList, le.Message)
	case message.CodeBadRequest:
		return errors.WithMessage(ErrBadRequest, le.Message)
	}
	return le
}

// call retries once on a transport error, the pooled conn may have been
// closed by the gateway while idle. Writes are retried only when the request
// was never sent, a lost reply must not apply them twice.
func (c *Client) call(ctx context.Context, method string, req *message.ListRequest) (*message.ListResponse, error) {
	var (
		resp *message.ListResponse
		err  error
	)
	for attempt := 0; attempt < 2; attempt++ {
		var cn *conn
		if cn, err = c.pool.Get(ctx); err != nil {
			return nil, err
		}
		var sent bool
		resp = message.NewListResponse()
		sent, err = cn.invoke(ctx, method, req, resp)
		c.pool.PutIfValid(cn, err)
		if err == nil || !isTransportErr(err) {
			break
		}
		if sent && !message.ReadOnly(method) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return resp, toError(resp.Err)
	}
	return resp, nil
}

func (c *Client) PushFront(ctx context.Context, name string, v int64) error {
	_, err := c.call(ctx, message.MethodPushFront, &message.ListRequest{Name: name, Value: v})
	return err
}

func (c *Client) PushBack(ctx context.Context, name string, v int64) error {
	_, err := c.call(ctx, message.MethodPushBack, &message.ListRequest{Name: name, Value: v})
	return err
}

func (c *Client) DeleteFirst(ctx context.Context, name string) error {
	_, err := c.call(ctx, message.MethodDeleteFirst, &message.ListRequest{Name: name})
	return err
}

func (c *Client) DeleteLast(ctx context.Context, name string) error {
	_, err := c.call(ctx, message.MethodDeleteLast, &message.ListRequest{Name: name})
	return err
}

func (c *Client) Get(ctx context.Context, name string, index int) (int64, error) {
	resp, err := c.call(ctx, message.MethodGet, &message.ListRequest{Name: name, Index: int64(index)})
	if err != nil {
		return 0, err
	}
	return resp.GetValue(), nil
}

// Set overwrites the value at index and returns the previous one.
func (c *Client) Set(ctx context.Context, name string, index int, v int64) (int64, error) {
	resp, err := c.call(ctx, message.MethodSet, &message.ListRequest{Name: name, Index: int64(index), Value: v})
	if err != nil {
		return 0, err
	}
	return resp.GetValue(), nil
}

func (c *Client) Insert(ctx context.Context, name string, index int, v int64) error {
	_, err := c.call(ctx, message.MethodInsert, &message.ListRequest{Name: name, Index: int64(index), Value: v})
	return err
}

func (c *Client) Remove(ctx context.Context, name string, index int) error {
	_, err := c.call(ctx, message.MethodRemove, &message.ListRequest{Name: name, Index: int64(index)})
	return err
}

func (c *Client) RemoveAllInstances(ctx context.Context, name string, v int64) (int, error) {
	resp, err := c.call(ctx, message.MethodRemoveAll, &message.ListRequest{Name: name, Value: v})
	if err != nil {
		return 0, err
	}
	return int(resp.GetValue()), nil
}

func (c *Client) ForwardString(ctx context.Context, name string) (string, error) {
	resp, err := c.call(ctx, message.MethodForward, &message.ListRequest{Name: name})
	if err != nil {
		return "", err
	}
	return resp.GetText(), nil
}

func (c *Client) BackwardString(ctx context.Context, name string) (string, error) {
	resp, err := c.call(ctx, message.MethodBackward, &message.ListRequest{Name: name})
	if err != nil {
		return "", err
	}
	return resp.GetText(), nil
}

func (c *Client) Len(ctx context.Context, name string) (int, error) {
	resp, err := c.call(ctx, message.MethodLength, &message.ListRequest{Name: name})
	if err != nil {
		return 0, err
	}
	return int(resp.GetValue()), nil
}

func (c *Client) Drop(ctx context.Context, name string) error {
	_, err := c.call(ctx, message.MethodDrop, &message.ListRequest{Name: name})
	return err
}
