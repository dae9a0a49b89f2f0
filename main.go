package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mbalug7/go-i2cdev/pkg/config"
	"github.com/mbalug7/go-i2cdev/pkg/gpio"
	"github.com/mbalug7/go-i2cdev/pkg/i2c"
)

const (
	flagConfig  = "config"
	flagBus     = "bus"
	flagAddress = "address"
	flagDebug   = "debug"
	flagRaw     = "raw"
	flagFrom    = "from"
	flagTo      = "to"
	flagTimeout = "timeout"
)

func main() {
	app := &cli.App{
		Name:  "i2cdev",
		Usage: "read and write registers of an i2c device",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "YAML config with bus table and device"},
			&cli.IntFlag{Name: flagBus, Aliases: []string{"b"}, Usage: "bus id, index into the bus table (overrides config)"},
			&cli.IntFlag{Name: flagAddress, Aliases: []string{"a"}, Usage: "device address, e.g. 0x68 (overrides config)"},
			&cli.BoolFlag{Name: flagDebug, Usage: "debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:      "read",
				Usage:     "read one register",
				ArgsUsage: "<register>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: flagRaw, Usage: "print the unsigned byte instead of the sign extended value"},
				},
				Action: readAction,
			},
			{
				Name:      "write",
				Usage:     "write one register",
				ArgsUsage: "<register> <value>",
				Action:    writeAction,
			},
			{
				Name:  "dump",
				Usage: "read a range of registers",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: flagFrom, Value: 0x00},
					&cli.IntFlag{Name: flagTo, Value: 0xff},
				},
				Action: dumpAction,
			},
			{
				Name:      "watch",
				Usage:     "read a register on every rising edge of the data ready line",
				ArgsUsage: "<register>",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: flagTimeout, Value: 2 * time.Second},
				},
				Action: watchAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool(flagDebug) {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if p := c.String(flagConfig); p != "" {
		var err error
		cfg, err = config.Load(p)
		if err != nil {
			return nil, err
		}
	}
	if c.IsSet(flagBus) {
		cfg.Device.Bus = c.Int(flagBus)
	}
	if c.IsSet(flagAddress) {
		cfg.Device.Address = c.Int(flagAddress)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

type session struct {
	cfg    *config.Config
	dev    *i2c.Device
	logger *zap.Logger
}

func openSession(c *cli.Context) (*session, error) {
	logger, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	dev, err := i2c.New(cfg.Device.Address, cfg.Device.Bus,
		i2c.WithBusTable(cfg.BusTable()),
		i2c.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, dev: dev, logger: logger}, nil
}

func (s *session) Close() error {
	err := s.dev.Close()
	// stderr sync fails on some terminals, ignore it
	_ = s.logger.Sync()
	return err
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q: %w", s, err)
	}
	return byte(v), nil
}

func readAction(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return errors.New("usage: read <register>")
	}
	reg, err := parseByte(c.Args().Get(0))
	if err != nil {
		return err
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, s.Close()) }()

	if c.Bool(flagRaw) {
		v, err := s.dev.ReadRegister(reg)
		if err != nil {
			return err
		}
		fmt.Printf("0x%02x: 0x%02x\n", reg, v)
		return nil
	}
	v, err := s.dev.GetValueFromRegister(reg)
	if err != nil {
		return err
	}
	fmt.Printf("0x%02x: %d\n", reg, v)
	return nil
}

func writeAction(c *cli.Context) (err error) {
	if c.NArg() != 2 {
		return errors.New("usage: write <register> <value>")
	}
	reg, err := parseByte(c.Args().Get(0))
	if err != nil {
		return err
	}
	value, err := parseByte(c.Args().Get(1))
	if err != nil {
		return err
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, s.Close()) }()

	s.dev.SetRegisterAddress(reg)
	s.dev.SetRegisterValue(value)
	_, err = s.dev.WriteToDevice(i2c.WriteSize)
	return err
}

func dumpAction(c *cli.Context) (err error) {
	from, to := c.Int(flagFrom), c.Int(flagTo)
	if from < 0 || to > 0xff || from > to {
		return fmt.Errorf("invalid register range 0x%02x-0x%02x", from, to)
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, s.Close()) }()

	for reg := from; reg <= to; reg++ {
		v, err := s.dev.ReadRegister(byte(reg))
		if err != nil {
			// keep going, unreadable registers are common
			fmt.Printf("0x%02x: --\n", reg)
			continue
		}
		fmt.Printf("0x%02x: 0x%02x\n", reg, v)
	}
	return nil
}

func watchAction(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return errors.New("usage: watch <register>")
	}
	reg, err := parseByte(c.Args().Get(0))
	if err != nil {
		return err
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, s.Close()) }()

	dr := s.cfg.Device.DataReady
	if dr == nil {
		return errors.New("watch needs device.data_ready in the config")
	}
	line, err := gpio.NewDataReadyLine(dr.Chip, dr.Line, s.logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, line.Close()) }()

	signalInterruptChan := make(chan os.Signal, 1)
	signal.Notify(signalInterruptChan, os.Interrupt, syscall.SIGTERM)
	timeout := c.Duration(flagTimeout)
	for {
		select {
		case <-signalInterruptChan:
			return nil
		default:
		}
		if err := line.Wait(timeout); err != nil {
			if errors.Is(err, gpio.ErrTimeout) {
				s.logger.Info("no data ready", zap.Duration("timeout", timeout))
				continue
			}
			return err
		}
		v, err := s.dev.GetValueFromRegister(reg)
		if err != nil {
			s.logger.Warn("read failed", zap.Error(err))
			continue
		}
		fmt.Printf("%s 0x%02x: %d\n", time.Now().Format(time.RFC3339Nano), reg, v)
	}
}
