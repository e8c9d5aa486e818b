package gateway

import (
	"context"
	"net"
	"time"

	"github.com/Qthai16/go-dlist/cmd/dlistgw/gwstat"
	"github.com/Qthai16/go-dlist/cmd/dlistgw/handler"
	"github.com/Qthai16/go-dlist/cmd/dlistgw/store"
	"github.com/Qthai16/go-dlist/utils"
	"github.com/Qthai16/go-dlist/utils/hashkit"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/pkg/errors"
)

const (
	DefaultAddr          = ":18100"
	DefaultClientTimeout = 5 * time.Minute
	DefaultMaxFrameSize  = 1024 * 1024 * 16
)

type Config struct {
	Addr          string
	Shards        uint32
	Hash          string        // jenkins, fnv or murmur
	ClientTimeout time.Duration // idle connections are closed after this
	ConnConf      *thrift.TConfiguration
}

func DefaultConnConf() *thrift.TConfiguration {
	return &thrift.TConfiguration{
		MaxFrameSize:       DefaultMaxFrameSize,
		TBinaryStrictRead:  thrift.BoolPtr(true),
		TBinaryStrictWrite: thrift.BoolPtr(true),
	}
}

// Server serves the list service over framed binary thrift.
type Server struct {
	Config
	store   *store.Store
	handler *handler.ListHandler
	socket  *thrift.TServerSocket
	server  *thrift.TSimpleServer
}

func NewServer(conf Config) (*Server, error) {
	if conf.Addr == "" {
		conf.Addr = DefaultAddr
	}
	if conf.ClientTimeout <= 0 {
		conf.ClientTimeout = DefaultClientTimeout
	}
	if conf.ConnConf == nil {
		conf.ConnConf = DefaultConnConf()
	}
	hashFn, err := hashkit.ByName(conf.Hash)
	if err != nil {
		return nil, errors.WithMessagef(err, "hash %q", conf.Hash)
	}
	socket, err := thrift.NewTServerSocketTimeout(conf.Addr, conf.ClientTimeout)
	if err != nil {
		return nil, err
	}
	s := store.NewStore(store.StoreConfig{Shards: conf.Shards, Hash32: hashFn})
	h := handler.NewListHandler(s, gwstat.NewGWStats())
	transFactory := thrift.NewTFramedTransportFactoryConf(thrift.NewTTransportFactory(), conf.ConnConf)
	protoFactory := thrift.NewTBinaryProtocolFactoryConf(conf.ConnConf)
	server := thrift.NewTSimpleServer4(handler.NewProcessor(h), socket, transFactory, protoFactory)
	// AcceptLoop logs failed connections through this context, it must be set
	// before the first accept
	server.SetLogContext(context.Background())
	return &Server{
		Config:  conf,
		store:   s,
		handler: h,
		socket:  socket,
		server:  server,
	}, nil
}

func (s *Server) Listen() error {
	return s.server.Listen()
}

// Addr is the bound address, only valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.socket.Addr()
}

// Serve accepts connections until Stop is called.
func (s *Server) Serve() error {
	if err := s.server.Listen(); err != nil {
		return err
	}
	utils.LogInfo("[gateway] listening on %v, shards: %v, hash: %q", s.Addr(), s.store.Shards, s.Hash)
	return s.server.AcceptLoop()
}

func (s *Server) Stop() error {
	err := s.server.Stop()
	utils.LogInfo("[gateway] stopped, lists: %v\n%v", len(s.store.Names()), s.handler.Stats())
	return err
}

func (s *Server) Store() *store.Store {
	return s.store
}

func (s *Server) Stats() *gwstat.GWStats {
	return s.handler.Stats()
}
