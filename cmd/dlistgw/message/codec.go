package message

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// fieldReader reads one field body. It reports false for fields it does not
// know, those are skipped.
type fieldReader func(id int16, typeId thrift.TType) (bool, error)

func readStruct(ctx context.Context, iprot thrift.TProtocol, readField fieldReader) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError("read struct begin error: ", err)
	}
	for {
		_, typeId, id, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("field %d read error: ", id), err)
		}
		if typeId == thrift.STOP {
			break
		}
		known, err := readField(id, typeId)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("field %d read error: ", id), err)
		}
		if !known {
			if err := iprot.Skip(ctx, typeId); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := iprot.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError("read struct end error: ", err)
	}
	return nil
}

func writeStructEnd(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return thrift.PrependError("write field stop error: ", err)
	}
	if err := oprot.WriteStructEnd(ctx); err != nil {
		return thrift.PrependError("write struct stop error: ", err)
	}
	return nil
}

func writeI64(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v int64) error {
	if err := oprot.WriteFieldBegin(ctx, name, thrift.I64, id); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field begin error %d:%s: ", id, name), err)
	}
	if err := oprot.WriteI64(ctx, v); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field %d:%s: ", id, name), err)
	}
	return oprot.WriteFieldEnd(ctx)
}

func writeString(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v string) error {
	if err := oprot.WriteFieldBegin(ctx, name, thrift.STRING, id); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field begin error %d:%s: ", id, name), err)
	}
	if err := oprot.WriteString(ctx, v); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field %d:%s: ", id, name), err)
	}
	return oprot.WriteFieldEnd(ctx)
}
