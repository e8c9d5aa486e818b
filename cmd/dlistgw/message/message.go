// Package message holds the thrift structs spoken between dlistgw and its
// clients. They are written by hand, the equivalent IDL is:
//
//	struct ListRequest {
//	  1: string name
//	  2: i64 index
//	  3: i64 value
//	}
//	exception ListError {
//	  1: i32 code
//	  2: string message
//	}
//	struct ListResponse {
//	  1: optional i64 value
//	  2: optional string text
//	  3: optional ListError err
//	}
//
// Every service method takes a ListRequest and replies with a ListResponse.
package message

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

const (
	MethodPushFront   = "pushFront"
	MethodPushBack    = "pushBack"
	MethodDeleteFirst = "deleteFirst"
	MethodDeleteLast  = "deleteLast"
	MethodGet         = "get"
	MethodSet         = "set"
	MethodInsert      = "insert"
	MethodRemove      = "remove"
	MethodRemoveAll   = "removeAll"
	MethodForward     = "forward"
	MethodBackward    = "backward"
	MethodLength      = "length"
	MethodDrop        = "drop"
)

// ReadOnly reports whether method leaves the list untouched, so sending it
// twice is harmless.
func ReadOnly(method string) bool {
	switch method {
	case MethodGet, MethodForward, MethodBackward, MethodLength:
		return true
	}
	return false
}

// ListError codes
const (
	CodeUnknown int32 = iota
	CodeOutOfRange
	CodeNoSuchList
	CodeBadRequest
)

type ListRequest struct {
	Name  string
	Index int64
	Value int64
}

func NewListRequest(name string) *ListRequest {
	return &ListRequest{Name: name}
}

func (p *ListRequest) Reset() {
	p.Name = ""
	p.Index = 0
	p.Value = 0
}

func (p *ListRequest) String() string {
	return fmt.Sprintf("ListRequest(name: %v, index: %v, value: %v)", p.Name, p.Index, p.Value)
}

func (p *ListRequest) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "ListRequest"); err != nil {
		return thrift.PrependError("write struct begin error: ", err)
	}
	if err := writeString(ctx, oprot, "name", 1, p.Name); err != nil {
		return err
	}
	if err := writeI64(ctx, oprot, "index", 2, p.Index); err != nil {
		return err
	}
	if err := writeI64(ctx, oprot, "value", 3, p.Value); err != nil {
		return err
	}
	return writeStructEnd(ctx, oprot)
}

func (p *ListRequest) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typeId thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typeId == thrift.STRING:
			p.Name, err = iprot.ReadString(ctx)
		case id == 2 && typeId == thrift.I64:
			p.Index, err = iprot.ReadI64(ctx)
		case id == 3 && typeId == thrift.I64:
			p.Value, err = iprot.ReadI64(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

type ListError struct {
	Code    int32
	Message string
}

func NewListError(code int32, msg string) *ListError {
	return &ListError{Code: code, Message: msg}
}

func (p *ListError) Error() string {
	return fmt.Sprintf("list error %v: %v", p.Code, p.Message)
}

func (p *ListError) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "ListError"); err != nil {
		return thrift.PrependError("write struct begin error: ", err)
	}
	if err := oprot.WriteFieldBegin(ctx, "code", thrift.I32, 1); err != nil {
		return thrift.PrependError("write field begin error 1:code: ", err)
	}
	if err := oprot.WriteI32(ctx, p.Code); err != nil {
		return thrift.PrependError("write field 1:code: ", err)
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := writeString(ctx, oprot, "message", 2, p.Message); err != nil {
		return err
	}
	return writeStructEnd(ctx, oprot)
}

func (p *ListError) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typeId thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typeId == thrift.I32:
			p.Code, err = iprot.ReadI32(ctx)
		case id == 2 && typeId == thrift.STRING:
			p.Message, err = iprot.ReadString(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

// ListResponse fields are optional, nil pointers are not written.
type ListResponse struct {
	Value *int64
	Text  *string
	Err   *ListError
}

func NewListResponse() *ListResponse {
	return &ListResponse{}
}

func (p *ListResponse) SetValue(v int64) *ListResponse {
	p.Value = &v
	return p
}

func (p *ListResponse) SetText(s string) *ListResponse {
	p.Text = &s
	return p
}

func (p *ListResponse) SetErr(code int32, msg string) *ListResponse {
	p.Err = NewListError(code, msg)
	return p
}

func (p *ListResponse) GetValue() int64 {
	if p.Value == nil {
		return 0
	}
	return *p.Value
}

func (p *ListResponse) GetText() string {
	if p.Text == nil {
		return ""
	}
	return *p.Text
}

func (p *ListResponse) String() string {
	s := "ListResponse("
	if p.Value != nil {
		s += fmt.Sprintf("value: %v ", *p.Value)
	}
	if p.Text != nil {
		s += fmt.Sprintf("text: %q ", *p.Text)
	}
	if p.Err != nil {
		s += fmt.Sprintf("err: %v", p.Err)
	}
	return s + ")"
}

func (p *ListResponse) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "ListResponse"); err != nil {
		return thrift.PrependError("write struct begin error: ", err)
	}
	if p.Value != nil {
		if err := writeI64(ctx, oprot, "value", 1, *p.Value); err != nil {
			return err
		}
	}
	if p.Text != nil {
		if err := writeString(ctx, oprot, "text", 2, *p.Text); err != nil {
			return err
		}
	}
	if p.Err != nil {
		if err := oprot.WriteFieldBegin(ctx, "err", thrift.STRUCT, 3); err != nil {
			return thrift.PrependError("write field begin error 3:err: ", err)
		}
		if err := p.Err.Write(ctx, oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	return writeStructEnd(ctx, oprot)
}

func (p *ListResponse) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typeId thrift.TType) (bool, error) {
		switch {
		case id == 1 && typeId == thrift.I64:
			v, err := iprot.ReadI64(ctx)
			if err == nil {
				p.Value = &v
			}
			return true, err
		case id == 2 && typeId == thrift.STRING:
			s, err := iprot.ReadString(ctx)
			if err == nil {
				p.Text = &s
			}
			return true, err
		case id == 3 && typeId == thrift.STRUCT:
			p.Err = &ListError{}
			return true, p.Err.Read(ctx, iprot)
		}
		return false, nil
	})
}

var (
	_ thrift.TStruct = (*ListRequest)(nil)
	_ thrift.TStruct = (*ListError)(nil)
	_ thrift.TStruct = (*ListResponse)(nil)
)
