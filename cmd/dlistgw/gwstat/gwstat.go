package gwstat

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	OutOfRangeErrKey    = "out_of_range"
	NoSuchListErrKey    = "no_such_list"
	BadRequestErrKey    = "bad_request"
	MsgParseErrKey      = "msg_parse"
	UnknownMethodErrKey = "unknown_method"
)

type (
	JSONAtomicI64 struct {
		atomic.Int64
	}
	MethodStat struct {
		Method string        `json:"name"`
		Count  JSONAtomicI64 `json:"count"`
	}
	// GWStats counts calls per method and failures per error kind.
	GWStats struct {
		Methods  []*MethodStat             `json:"methods"` // sorted by Method
		ErrorMap map[string]*JSONAtomicI64 `json:"errors"`
		rwMu     sync.RWMutex
	}
)

func (f *JSONAtomicI64) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%v", f.Load())), nil
}

func NewMethodStat(method string) *MethodStat {
	return &MethodStat{Method: method}
}

func (p *MethodStat) String() string {
	return fmt.Sprintf("\"%v\": %v", p.Method, p.Count.Load())
}

func NewGWStats() *GWStats {
	return &GWStats{
		Methods: make([]*MethodStat, 0),
		ErrorMap: map[string]*JSONAtomicI64{
			OutOfRangeErrKey:    {},
			NoSuchListErrKey:    {},
			BadRequestErrKey:    {},
			MsgParseErrKey:      {},
			UnknownMethodErrKey: {},
		},
	}
}

func searchMethod(methods []*MethodStat, method string) (int, bool) {
	return slices.BinarySearchFunc(methods, method, func(m *MethodStat, target string) int {
		return strings.Compare(m.Method, target)
	})
}

func (gws *GWStats) AddMethodStat(method string) {
	gws.rwMu.RLock()
	if ind, found := searchMethod(gws.Methods, method); found {
		gws.Methods[ind].Count.Add(1)
		gws.rwMu.RUnlock()
		return
	}
	gws.rwMu.RUnlock()
	gws.rwMu.Lock()
	defer gws.rwMu.Unlock()
	ind, found := searchMethod(gws.Methods, method)
	if !found {
		gws.Methods = slices.Insert(gws.Methods, ind, NewMethodStat(method))
	}
	gws.Methods[ind].Count.Add(1)
}

func (gws *GWStats) MethodCount(method string) int64 {
	gws.rwMu.RLock()
	defer gws.rwMu.RUnlock()
	if ind, found := searchMethod(gws.Methods, method); found {
		return gws.Methods[ind].Count.Load()
	}
	return 0
}

func (gws *GWStats) IncErrStat(key string) {
	if c, ok := gws.ErrorMap[key]; ok {
		c.Add(1)
	}
}

func (gws *GWStats) ErrCount(key string) int64 {
	if c, ok := gws.ErrorMap[key]; ok {
		return c.Load()
	}
	return 0
}

func (gws *GWStats) String() string {
	gws.rwMu.RLock()
	defer gws.rwMu.RUnlock()
	s := "Methods: "
	if len(gws.Methods) == 0 {
		s += "[]\n"
	} else {
		s += "\n"
		for _, m := range gws.Methods {
			s += "    " + m.String() + "\n"
		}
	}
	keys := make([]string, 0, len(gws.ErrorMap))
	for k := range gws.ErrorMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s += "Errors: {"
	for i, k := range keys {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("\"%v\": %v", k, gws.ErrorMap[k].Load())
	}
	return s + "}\n"
}

func (gws *GWStats) JSON() ([]byte, error) {
	gws.rwMu.RLock()
	defer gws.rwMu.RUnlock()
	return json.Marshal(gws)
}
