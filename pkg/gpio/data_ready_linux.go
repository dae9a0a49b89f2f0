//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/gpiod"
	"go.uber.org/zap"
)

// NewDataReadyLine requests offset on gpioChip (e.g. "gpiochip0") as a rising
// edge input.
func NewDataReadyLine(gpioChip string, offset int, logger *zap.Logger) (*DataReadyLine, error) {
	obj := newDataReadyLine(logger)
	c, err := gpiod.NewChip(gpioChip, gpiod.WithConsumer("go-i2cdev"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GPIO chip: %w", err)
	}
	// requested lines stay valid after the chip is closed
	defer c.Close()

	line, err := c.RequestLine(offset, gpiod.WithEventHandler(obj.onLineEvent), gpiod.WithRisingEdge)
	if err != nil {
		return nil, fmt.Errorf("failed to request data ready GPIO line %d: %w", offset, err)
	}
	obj.line = line
	obj.logger.Debug("data ready line requested", zap.String("chip", gpioChip), zap.Int("offset", offset))
	return obj, nil
}

func (obj *DataReadyLine) onLineEvent(evt gpiod.LineEvent) {
	if evt.Type != gpiod.LineEventRisingEdge {
		return
	}
	obj.onRisingEdge(evt.Timestamp)
}
