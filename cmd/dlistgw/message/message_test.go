package message

import (
	"context"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"
)

func newProto() (*thrift.TMemoryBuffer, thrift.TProtocol) {
	buf := thrift.NewTMemoryBuffer()
	return buf, thrift.NewTBinaryProtocolConf(buf, nil)
}

func TestOptionalFields(t *testing.T) {
	ctx := context.Background()
	_, proto := newProto()
	if err := NewListResponse().SetText("4 2 5 9").Write(ctx, proto); err != nil {
		t.Fatal(err)
	}
	got := NewListResponse()
	if err := got.Read(ctx, proto); err != nil {
		t.Fatal(err)
	}
	if got.Value != nil || got.Err != nil || got.GetText() != "4 2 5 9" {
		t.Errorf("unset fields leaked, got: %v", got)
	}

	if err := NewListResponse().SetErr(CodeOutOfRange, "index 100, length 10").Write(ctx, proto); err != nil {
		t.Fatal(err)
	}
	got = NewListResponse()
	if err := got.Read(ctx, proto); err != nil {
		t.Fatal(err)
	}
	if got.Err == nil || got.Err.Code != CodeOutOfRange || got.Err.Message != "index 100, length 10" {
		t.Errorf("error field expect code %v, got: %v", CodeOutOfRange, got)
	}
	if got.GetValue() != 0 {
		t.Errorf("unset value should read as 0")
	}
}

// a newer peer may send fields this version does not know
func TestUnknownFieldSkipped(t *testing.T) {
	ctx := context.Background()
	_, proto := newProto()
	proto.WriteStructBegin(ctx, "ListRequest")
	writeString(ctx, proto, "name", 1, "orders")
	proto.WriteFieldBegin(ctx, "tags", thrift.LIST, 9)
	proto.WriteListBegin(ctx, thrift.STRING, 2)
	proto.WriteString(ctx, "a")
	proto.WriteString(ctx, "b")
	proto.WriteListEnd(ctx)
	proto.WriteFieldEnd(ctx)
	writeI64(ctx, proto, "value", 3, 42)
	writeStructEnd(ctx, proto)

	req := NewListRequest("")
	if err := req.Read(ctx, proto); err != nil {
		t.Fatal(err)
	}
	if req.Name != "orders" || req.Value != 42 || req.Index != 0 {
		t.Errorf("unexpected request: %v", req)
	}
}

func TestTruncatedInput(t *testing.T) {
	ctx := context.Background()
	buf, proto := newProto()
	req := &ListRequest{Name: "orders", Index: 3, Value: 7}
	if err := req.Write(ctx, proto); err != nil {
		t.Fatal(err)
	}
	buf.Truncate(buf.Len() - 4)
	if err := NewListRequest("").Read(ctx, proto); err == nil {
		t.Errorf("expect error on truncated struct")
	}
}
