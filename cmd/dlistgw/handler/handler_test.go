package handler

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/Qthai16/go-dlist/cmd/dlistgw/gwstat"
	"github.com/Qthai16/go-dlist/cmd/dlistgw/message"
	"github.com/Qthai16/go-dlist/cmd/dlistgw/store"
	"github.com/Qthai16/go-dlist/common/dlist"
	"github.com/Qthai16/go-dlist/utils"
	"github.com/apache/thrift/lib/go/thrift"
)

func init() {
	utils.SetLogLevel(utils.LevelSilent)
}

type testGateway struct {
	t     *testing.T
	p     *Processor
	store *store.Store
	seqId int32
}

func newTestGateway(t *testing.T) *testGateway {
	s := store.NewStore(store.StoreConfig{Shards: 4})
	return &testGateway{t: t, p: NewProcessor(NewListHandler(s, nil)), store: s}
}

// call pushes one CALL message through the processor and decodes the answer.
// Application exceptions are returned as the error.
func (g *testGateway) call(method string, req *message.ListRequest) (*message.ListResponse, error) {
	g.t.Helper()
	ctx := context.Background()
	iprot := thrift.NewTBinaryProtocolConf(thrift.NewTMemoryBuffer(), nil)
	oprot := thrift.NewTBinaryProtocolConf(thrift.NewTMemoryBuffer(), nil)
	g.seqId++
	iprot.WriteMessageBegin(ctx, method, thrift.CALL, g.seqId)
	req.Write(ctx, iprot)
	iprot.WriteMessageEnd(ctx)
	iprot.Flush(ctx)

	g.p.Process(ctx, iprot, oprot)

	name, typeId, seqId, err := oprot.ReadMessageBegin(ctx)
	if err != nil {
		g.t.Fatalf("%v: read reply failed: %v", method, err)
	}
	if name != method || seqId != g.seqId {
		g.t.Fatalf("reply header mismatch, got: %v/%v", name, seqId)
	}
	if typeId == thrift.EXCEPTION {
		x := thrift.NewTApplicationException(thrift.UNKNOWN_APPLICATION_EXCEPTION, "")
		if err := x.Read(ctx, oprot); err != nil {
			g.t.Fatal(err)
		}
		return nil, x
	}
	resp := message.NewListResponse()
	if err := resp.Read(ctx, oprot); err != nil {
		g.t.Fatalf("%v: read response failed: %v", method, err)
	}
	oprot.ReadMessageEnd(ctx)
	if resp.Err != nil {
		return resp, resp.Err
	}
	return resp, nil
}

func (g *testGateway) must(method, name string, index, value int64) *message.ListResponse {
	g.t.Helper()
	resp, err := g.call(method, &message.ListRequest{Name: name, Index: index, Value: value})
	if err != nil {
		g.t.Fatalf("%v(%v, %v, %v) failed: %v", method, name, index, value, err)
	}
	return resp
}

func (g *testGateway) expectText(name, forward, backward string) {
	g.t.Helper()
	if got := g.must(message.MethodForward, name, 0, 0).GetText(); got != forward {
		g.t.Errorf("forward expect: [%v], got: [%v]", forward, got)
	}
	if got := g.must(message.MethodBackward, name, 0, 0).GetText(); got != backward {
		g.t.Errorf("backward expect: [%v], got: [%v]", backward, got)
	}
}

func expectCode(t *testing.T, err error, code int32) {
	t.Helper()
	le, ok := err.(*message.ListError)
	if !ok || le.Code != code {
		t.Errorf("expect list error code %v, got: %v", code, err)
	}
}

func TestPushAndRender(t *testing.T) {
	g := newTestGateway(t)
	g.expectText("nums", dlist.EmptyListText, dlist.EmptyListText)
	for i := int64(10); i < 20; i++ {
		g.must(message.MethodPushBack, "nums", 0, i)
	}
	g.must(message.MethodPushFront, "nums", 0, 9)
	g.expectText("nums", "9 10 11 12 13 14 15 16 17 18 19", "19 18 17 16 15 14 13 12 11 10 9")
	if n := g.must(message.MethodLength, "nums", 0, 0).GetValue(); n != 11 {
		t.Errorf("length expect: [11], got: [%v]", n)
	}
	g.must(message.MethodDeleteFirst, "nums", 0, 0)
	g.must(message.MethodDeleteLast, "nums", 0, 0)
	g.expectText("nums", "10 11 12 13 14 15 16 17 18", "18 17 16 15 14 13 12 11 10")
}

func TestGetSetInsert(t *testing.T) {
	g := newTestGateway(t)
	for i := int64(10); i < 20; i++ {
		g.must(message.MethodPushBack, "nums", 0, i)
	}
	if v := g.must(message.MethodGet, "nums", 5, 0).GetValue(); v != 15 {
		t.Errorf("get(5) expect: [15], got: [%v]", v)
	}
	_, err := g.call(message.MethodGet, &message.ListRequest{Name: "nums", Index: 100})
	expectCode(t, err, message.CodeOutOfRange)
	_, err = g.call(message.MethodGet, &message.ListRequest{Name: "nums", Index: -1})
	expectCode(t, err, message.CodeOutOfRange)

	if old := g.must(message.MethodSet, "nums", 1, 1000).GetValue(); old != 11 {
		t.Errorf("set should return the old value 11, got: [%v]", old)
	}
	g.expectText("nums", "10 1000 12 13 14 15 16 17 18 19", "19 18 17 16 15 14 13 12 1000 10")

	g.must(message.MethodInsert, "nums", 3, 33)
	g.must(message.MethodInsert, "nums", 11, 20)
	g.expectText("nums", "10 1000 12 33 13 14 15 16 17 18 19 20", "20 19 18 17 16 15 14 13 33 12 1000 10")
	_, err = g.call(message.MethodInsert, &message.ListRequest{Name: "nums", Index: 50, Value: 1})
	expectCode(t, err, message.CodeOutOfRange)

	_, err = g.call(message.MethodInsert, &message.ListRequest{Name: "fresh", Index: 1, Value: 82})
	expectCode(t, err, message.CodeOutOfRange)
	if names := g.store.Names(); fmt.Sprint(names) != "[nums]" {
		t.Errorf("failed insert must not create a list, names: %v", names)
	}
	g.must(message.MethodInsert, "fresh", 0, 42)
	g.must(message.MethodInsert, "fresh", 1, 82)
	g.expectText("fresh", "42 82", "82 42")

	if g.p.handler.Stats().ErrCount(gwstat.OutOfRangeErrKey) != 4 {
		t.Errorf("out of range counter: %v", g.p.handler.Stats())
	}
}

func TestWideIndex(t *testing.T) {
	g := newTestGateway(t)
	g.must(message.MethodPushBack, "nums", 0, 10)
	g.must(message.MethodPushBack, "nums", 0, 11)
	for _, index := range []int64{math.MaxInt64, math.MinInt64, 1 << 32} {
		for _, method := range []string{message.MethodGet, message.MethodSet, message.MethodInsert} {
			_, err := g.call(method, &message.ListRequest{Name: "nums", Index: index, Value: 1})
			expectCode(t, err, message.CodeOutOfRange)
		}
		g.must(message.MethodRemove, "nums", index, 0)
	}
	g.expectText("nums", "10 11", "11 10")

	if idx, ok := listIndex(1); !ok || idx != 1 {
		t.Errorf("listIndex(1) expect: [1 true], got: [%v %v]", idx, ok)
	}
	_, ok := listIndex(math.MaxInt64)
	if ok != (strconv.IntSize == 64) {
		t.Errorf("listIndex(MaxInt64) on a %d-bit build, got ok: %v", strconv.IntSize, ok)
	}
}

func TestRemoveSequence(t *testing.T) {
	g := newTestGateway(t)
	for i := int64(10); i < 17; i++ {
		g.must(message.MethodPushBack, "nums", 0, i)
	}
	for _, index := range []int64{0, 0, 2, 3, 2, 500, 1, 1} {
		g.must(message.MethodRemove, "nums", index, 0)
	}
	g.expectText("nums", "12", "12")
	g.must(message.MethodRemove, "nums", 0, 0)
	g.expectText("nums", dlist.EmptyListText, dlist.EmptyListText)
	g.must(message.MethodRemove, "nums", 0, 0)
	g.must(message.MethodRemove, "missing", 0, 0)
	g.must(message.MethodDeleteFirst, "missing", 0, 0)
}

func TestRemoveAll(t *testing.T) {
	g := newTestGateway(t)
	for _, v := range []int64{9, 9, 4, 2, 9, 9, 5, 1, 9, 2, 9, 9} {
		g.must(message.MethodPushBack, "nines", 0, v)
	}
	if n := g.must(message.MethodRemoveAll, "nines", 0, 9).GetValue(); n != 7 {
		t.Errorf("removed expect: [7], got: [%v]", n)
	}
	g.expectText("nines", "4 2 5 1 2", "2 1 5 2 4")
	if n := g.must(message.MethodRemoveAll, "nines", 0, 7).GetValue(); n != 0 {
		t.Errorf("removing an absent value reported %v", n)
	}
}

func TestDropAndErrors(t *testing.T) {
	g := newTestGateway(t)
	g.must(message.MethodPushBack, "tmp", 0, 1)
	g.must(message.MethodDrop, "tmp", 0, 0)
	_, err := g.call(message.MethodDrop, &message.ListRequest{Name: "tmp"})
	expectCode(t, err, message.CodeNoSuchList)
	_, err = g.call(message.MethodPushBack, &message.ListRequest{Name: ""})
	expectCode(t, err, message.CodeBadRequest)

	_, err = g.call("popMiddle", &message.ListRequest{Name: "tmp"})
	x, ok := err.(thrift.TApplicationException)
	if !ok || x.TypeId() != thrift.UNKNOWN_METHOD {
		t.Errorf("expect UNKNOWN_METHOD exception, got: %v", err)
	}
	stats := g.p.handler.Stats()
	if stats.ErrCount(gwstat.UnknownMethodErrKey) != 1 || stats.MethodCount(message.MethodDrop) != 2 {
		t.Errorf("unexpected stats: %v", stats)
	}
}

func TestMalformedRequest(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	in := thrift.NewTMemoryBuffer()
	iprot := thrift.NewTBinaryProtocolConf(in, nil)
	oprot := thrift.NewTBinaryProtocolConf(thrift.NewTMemoryBuffer(), nil)
	iprot.WriteMessageBegin(ctx, message.MethodPushBack, thrift.CALL, 1)
	iprot.WriteStructBegin(ctx, "ListRequest")
	iprot.WriteFieldBegin(ctx, "name", thrift.STRING, 1)
	iprot.Flush(ctx)
	in.Write([]byte{0, 0, 0, 9, 'a'}) // string claims 9 bytes, has 1

	ok, err := g.p.Process(ctx, iprot, oprot)
	if ok || err == nil {
		t.Fatalf("expect failure on malformed request")
	}
	_, typeId, _, _ := oprot.ReadMessageBegin(ctx)
	if typeId != thrift.EXCEPTION {
		t.Errorf("expect EXCEPTION reply, got: %v", typeId)
	}
	if g.p.handler.Stats().ErrCount(gwstat.MsgParseErrKey) != 1 {
		t.Errorf("msg parse counter not increased")
	}
}
