package main

import (
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

// consoleReporter renders progress.Reporter events as a single rewriting
// status line with human-readable byte counts.
type consoleReporter struct {
	status atomic.Value // string
	total  int64
	amount int64
}

func newConsoleReporter() *consoleReporter {
	r := &consoleReporter{}
	r.status.Store("")
	return r
}

func (r *consoleReporter) Setup(status string, total *int64) {
	r.status.Store(status)
	if total != nil {
		atomic.StoreInt64(&r.total, *total)
	}
	atomic.StoreInt64(&r.amount, 0)
	r.print()
}

func (r *consoleReporter) Status(status string) {
	r.status.Store(status)
	r.print()
}

func (r *consoleReporter) Total(total int64) {
	atomic.StoreInt64(&r.total, total)
	r.print()
}

func (r *consoleReporter) Progress(current int64) {
	atomic.StoreInt64(&r.amount, current)
	r.print()
}

func (r *consoleReporter) Done() {
	fmt.Println()
}

func (r *consoleReporter) print() {
	status, _ := r.status.Load().(string)
	total := atomic.LoadInt64(&r.total)
	amount := atomic.LoadInt64(&r.amount)
	if total > 0 {
		fmt.Printf("\r%s: %s / %s        ", status, humanize.Bytes(uint64(amount)), humanize.Bytes(uint64(total)))
		return
	}
	fmt.Printf("\r%s        ", status)
}
