// Package gpio watches the interrupt / data ready line of an i2c device.
package gpio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mazen160/go-random"
	"go.uber.org/zap"

	"github.com/mbalug7/go-i2cdev/pkg/hal"
)

// ErrTimeout is returned by Wait when the line stays low.
var ErrTimeout = errors.New("data ready wait timed out")

type inputLine interface {
	Value() (int, error)
	Close() error
}

// DataReadyLine tracks rising edges on an active high input line.
type DataReadyLine struct {
	line      inputLine
	logger    *zap.Logger
	waiters   map[string]chan struct{} // released on the next rising edge
	muWaiters sync.Mutex               // waiters map protection
	muCb      sync.Mutex
	onReadyCb hal.OnDataReadyCb
}

var _ hal.DataReadyLine = (*DataReadyLine)(nil)

func newDataReadyLine(logger *zap.Logger) *DataReadyLine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataReadyLine{
		logger:  logger,
		waiters: make(map[string]chan struct{}),
	}
}

func (obj *DataReadyLine) RegisterOnDataReadyCb(cb hal.OnDataReadyCb) error {
	obj.muCb.Lock()
	defer obj.muCb.Unlock()
	if obj.onReadyCb != nil {
		return fmt.Errorf("on data ready callback already registered")
	}
	obj.onReadyCb = cb
	return nil
}

// Wait returns at once if the line is already high, otherwise it waits for
// the next rising edge.
func (obj *DataReadyLine) Wait(timeout time.Duration) error {
	id, err := random.String(16)
	if err != nil {
		return fmt.Errorf("failed to generate random id: %w", err)
	}
	ch := make(chan struct{})
	obj.muWaiters.Lock()
	obj.waiters[id] = ch
	obj.muWaiters.Unlock()

	// registered before sampling so an edge in between is not lost
	val, err := obj.line.Value()
	if err != nil {
		obj.removeWaiter(id)
		return fmt.Errorf("failed to read data ready line: %w", err)
	}
	if val == 1 {
		obj.removeWaiter(id)
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
		obj.removeWaiter(id)
		return ErrTimeout
	case <-ch:
		return nil
	}
}

func (obj *DataReadyLine) removeWaiter(id string) {
	obj.muWaiters.Lock()
	defer obj.muWaiters.Unlock()
	delete(obj.waiters, id)
}

func (obj *DataReadyLine) onRisingEdge(timestamp time.Duration) {
	defer obj.notifyWaiters()

	obj.muCb.Lock()
	cb := obj.onReadyCb
	obj.muCb.Unlock()
	if cb != nil {
		cb(timestamp)
	}
}

func (obj *DataReadyLine) notifyWaiters() {
	obj.muWaiters.Lock()
	defer obj.muWaiters.Unlock()
	for id, ch := range obj.waiters {
		close(ch)
		delete(obj.waiters, id)
	}
}

func (obj *DataReadyLine) Close() error {
	if err := obj.line.Close(); err != nil {
		return fmt.Errorf("failed to close data ready line: %w", err)
	}
	return nil
}
