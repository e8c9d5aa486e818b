package handler

import (
	"math"

	"github.com/Qthai16/go-dlist/cmd/dlistgw/gwstat"
	"github.com/Qthai16/go-dlist/cmd/dlistgw/message"
	"github.com/Qthai16/go-dlist/cmd/dlistgw/store"
	"github.com/Qthai16/go-dlist/common/dlist"
	"github.com/Qthai16/go-dlist/utils"
	"github.com/pkg/errors"
)

type opFunc func(h *ListHandler, req *message.ListRequest) *message.ListResponse

// ListHandler runs one gateway method against the store. A list that was
// never created behaves like an empty one, except for drop.
type ListHandler struct {
	store *store.Store
	stats *gwstat.GWStats
}

func NewListHandler(s *store.Store, stats *gwstat.GWStats) *ListHandler {
	if stats == nil {
		stats = gwstat.NewGWStats()
	}
	return &ListHandler{store: s, stats: stats}
}

func (h *ListHandler) Stats() *gwstat.GWStats {
	return h.stats
}

// update runs fn on the named list, creating it when create is set.
func (h *ListHandler) update(req *message.ListRequest, create bool, fn func(l *store.IntList) error) error {
	return h.store.Do(req.Name, create, fn)
}

// view runs fn on the named list or on a throwaway empty list if the name is
// unknown.
func (h *ListHandler) view(req *message.ListRequest, fn func(l *store.IntList) error) error {
	err := h.store.Do(req.Name, false, fn)
	if errors.Is(err, store.ErrNoSuchList) {
		return fn(dlist.New[int64]())
	}
	return err
}

func (h *ListHandler) errResponse(resp *message.ListResponse, err error) *message.ListResponse {
	switch {
	case errors.Is(err, dlist.ErrOutOfRange):
		h.stats.IncErrStat(gwstat.OutOfRangeErrKey)
		return resp.SetErr(message.CodeOutOfRange, err.Error())
	case errors.Is(err, store.ErrNoSuchList):
		h.stats.IncErrStat(gwstat.NoSuchListErrKey)
		return resp.SetErr(message.CodeNoSuchList, err.Error())
	case errors.Is(err, store.ErrInvalidName):
		h.stats.IncErrStat(gwstat.BadRequestErrKey)
		return resp.SetErr(message.CodeBadRequest, err.Error())
	}
	utils.LogErro("[handler] unexpected error: %v", err)
	return resp.SetErr(message.CodeUnknown, err.Error())
}

func (h *ListHandler) respond(resp *message.ListResponse, err error) *message.ListResponse {
	if err != nil {
		return h.errResponse(resp, err)
	}
	return resp
}

// listIndex narrows a wire index to int. ok is false when it does not fit,
// which can only happen on 32-bit builds.
func listIndex(i int64) (idx int, ok bool) {
	if i > math.MaxInt || i < math.MinInt {
		return 0, false
	}
	return int(i), true
}

func indexOf(req *message.ListRequest) (int, error) {
	idx, ok := listIndex(req.Index)
	if !ok {
		return 0, errors.Wrapf(dlist.ErrOutOfRange, "index %d", req.Index)
	}
	return idx, nil
}

func pushFront(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	return h.respond(message.NewListResponse(), h.update(req, true, func(l *store.IntList) error {
		l.PushFront(req.Value)
		return nil
	}))
}

func pushBack(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	return h.respond(message.NewListResponse(), h.update(req, true, func(l *store.IntList) error {
		l.PushBack(req.Value)
		return nil
	}))
}

func deleteFirst(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	return h.respond(message.NewListResponse(), h.view(req, func(l *store.IntList) error {
		l.DeleteFirst()
		return nil
	}))
}

func deleteLast(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	return h.respond(message.NewListResponse(), h.view(req, func(l *store.IntList) error {
		l.DeleteLast()
		return nil
	}))
}

func get(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	resp := message.NewListResponse()
	return h.respond(resp, h.view(req, func(l *store.IntList) error {
		idx, err := indexOf(req)
		if err != nil {
			return err
		}
		v, err := l.Get(idx)
		if err == nil {
			resp.SetValue(v)
		}
		return err
	}))
}

// set writes req.Value in place through dlist.List.At.
func set(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	resp := message.NewListResponse()
	return h.respond(resp, h.view(req, func(l *store.IntList) error {
		idx, err := indexOf(req)
		if err != nil {
			return err
		}
		p, err := l.At(idx)
		if err != nil {
			return err
		}
		resp.SetValue(*p)
		*p = req.Value
		return nil
	}))
}

func insert(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	fn := func(l *store.IntList) error {
		idx, err := indexOf(req)
		if err != nil {
			return err
		}
		return l.Insert(idx, req.Value)
	}
	// only a head insert may bring a list into existence
	if req.Index == 0 {
		return h.respond(message.NewListResponse(), h.update(req, true, fn))
	}
	return h.respond(message.NewListResponse(), h.view(req, fn))
}

func remove(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	return h.respond(message.NewListResponse(), h.view(req, func(l *store.IntList) error {
		if idx, ok := listIndex(req.Index); ok {
			l.Remove(idx)
		}
		return nil
	}))
}

func removeAll(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	resp := message.NewListResponse()
	return h.respond(resp, h.view(req, func(l *store.IntList) error {
		resp.SetValue(int64(l.RemoveAllInstances(req.Value)))
		return nil
	}))
}

func forward(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	resp := message.NewListResponse()
	return h.respond(resp, h.view(req, func(l *store.IntList) error {
		resp.SetText(l.ForwardString())
		return nil
	}))
}

func backward(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	resp := message.NewListResponse()
	return h.respond(resp, h.view(req, func(l *store.IntList) error {
		resp.SetText(l.BackwardString())
		return nil
	}))
}

func length(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	resp := message.NewListResponse()
	return h.respond(resp, h.view(req, func(l *store.IntList) error {
		resp.SetValue(int64(l.Len()))
		return nil
	}))
}

func drop(h *ListHandler, req *message.ListRequest) *message.ListResponse {
	if !h.store.Drop(req.Name) {
		return h.errResponse(message.NewListResponse(), errors.Wrapf(store.ErrNoSuchList, "%q", req.Name))
	}
	utils.LogInfo("[handler] dropped list %q", req.Name)
	return message.NewListResponse()
}

var ops = map[string]opFunc{
	message.MethodPushFront:   pushFront,
	message.MethodPushBack:    pushBack,
	message.MethodDeleteFirst: deleteFirst,
	message.MethodDeleteLast:  deleteLast,
	message.MethodGet:         get,
	message.MethodSet:         set,
	message.MethodInsert:      insert,
	message.MethodRemove:      remove,
	message.MethodRemoveAll:   removeAll,
	message.MethodForward:     forward,
	message.MethodBackward:    backward,
	message.MethodLength:      length,
	message.MethodDrop:        drop,
}
