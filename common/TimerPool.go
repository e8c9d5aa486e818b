package common

import (
	"sync"
	"time"

	"github.com/Qthai16/go-dlist/utils"
)

var _TimerPool sync.Pool

// BorrowTimer returns a stopped-then-armed timer firing after d. Give it back
// with ReturnTimer once the caller stops selecting on it.
func BorrowTimer(d time.Duration) *time.Timer {
	x := _TimerPool.Get()
	if x == nil {
		return time.NewTimer(d)
	}
	t := x.(*time.Timer)
	if t.Reset(d) {
		utils.LogFatal("[timer_pool] pool returned an active timer")
	}
	return t
}

func ReturnTimer(t *time.Timer) {
	if t == nil {
		return
	}
	if !t.Stop() && len(t.C) != 0 {
		<-t.C
	}
	_TimerPool.Put(t)
}
