package handler

import (
	"context"

	"github.com/Qthai16/go-dlist/cmd/dlistgw/gwstat"
	"github.com/Qthai16/go-dlist/cmd/dlistgw/message"
	"github.com/apache/thrift/lib/go/thrift"
)

// Processor is the thrift.TProcessor of the list service.
type Processor struct {
	handler      *ListHandler
	processorMap map[string]thrift.TProcessorFunction
}

var _ thrift.TProcessor = (*Processor)(nil)

func NewProcessor(h *ListHandler) *Processor {
	p := &Processor{
		handler:      h,
		processorMap: make(map[string]thrift.TProcessorFunction, len(ops)),
	}
	for name, op := range ops {
		p.AddToProcessorMap(name, &processorFunction{name: name, handler: h, op: op})
	}
	return p
}

func (p *Processor) AddToProcessorMap(key string, processor thrift.TProcessorFunction) {
	p.processorMap[key] = processor
}

func (p *Processor) GetProcessorFunction(key string) (processor thrift.TProcessorFunction, ok bool) {
	processor, ok = p.processorMap[key]
	return processor, ok
}

func (p *Processor) ProcessorMap() map[string]thrift.TProcessorFunction {
	return p.processorMap
}

func (p *Processor) Process(ctx context.Context, iprot, oprot thrift.TProtocol) (success bool, err thrift.TException) {
	name, _, seqId, err2 := iprot.ReadMessageBegin(ctx)
	if err2 != nil {
		return false, thrift.WrapTException(err2)
	}
	if processor, ok := p.GetProcessorFunction(name); ok {
		return processor.Process(ctx, seqId, iprot, oprot)
	}
	iprot.Skip(ctx, thrift.STRUCT)
	iprot.ReadMessageEnd(ctx)
	p.handler.stats.IncErrStat(gwstat.UnknownMethodErrKey)
	x := thrift.NewTApplicationException(thrift.UNKNOWN_METHOD, "Unknown function "+name)
	writeException(ctx, oprot, name, seqId, x)
	return false, x
}

type processorFunction struct {
	name    string
	handler *ListHandler
	op      opFunc
}

func (f *processorFunction) Process(ctx context.Context, seqId int32, iprot, oprot thrift.TProtocol) (success bool, err thrift.TException) {
	req := message.NewListRequest("")
	if err2 := req.Read(ctx, iprot); err2 != nil {
		iprot.ReadMessageEnd(ctx)
		f.handler.stats.IncErrStat(gwstat.MsgParseErrKey)
		x := thrift.NewTApplicationException(thrift.PROTOCOL_ERROR, err2.Error())
		writeException(ctx, oprot, f.name, seqId, x)
		return false, thrift.WrapTException(err2)
	}
	iprot.ReadMessageEnd(ctx)
	f.handler.stats.AddMethodStat(f.name)

	resp := f.op(f.handler, req)
	if err2 := writeReply(ctx, oprot, f.name, seqId, resp); err2 != nil {
		return false, thrift.WrapTException(err2)
	}
	return true, nil
}

func writeReply(ctx context.Context, oprot thrift.TProtocol, name string, seqId int32, resp *message.ListResponse) error {
	if err := oprot.WriteMessageBegin(ctx, name, thrift.REPLY, seqId); err != nil {
		return err
	}
	if err := resp.Write(ctx, oprot); err != nil {
		return err
	}
	if err := oprot.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return oprot.Flush(ctx)
}

func writeException(ctx context.Context, oprot thrift.TProtocol, name string, seqId int32, x thrift.TApplicationException) {
	oprot.WriteMessageBegin(ctx, name, thrift.EXCEPTION, seqId)
	x.Write(ctx, oprot)
	oprot.WriteMessageEnd(ctx)
	oprot.Flush(ctx)
}
