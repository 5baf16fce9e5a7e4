package config

import (
	"flag"
	"time"

	"github.com/flamescale/flamescale/pkg/log"
)

const (
	defaultAddr        = ":10200"
	defaultExitTimeout = 5 * time.Second
)

type Config struct {
	Addr        string
	ExitTimeout time.Duration
	Logger      log.Config
	Badger      BadgerConfig
}

func (conf *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&conf.Addr, "addr", defaultAddr, "address to listen")
	f.DurationVar(&conf.ExitTimeout, "exit-timeout", defaultExitTimeout, "server shutdown timeout")

	conf.Logger.RegisterFlags(f)
	conf.Badger.RegisterFlags(f)
}

type BadgerConfig struct {
	Dir      string
	TraceTTL time.Duration
}

func (conf *BadgerConfig) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&conf.Dir, "badger.dir", "", "badger data dir; empty runs with the in-memory store")
	f.DurationVar(&conf.TraceTTL, "badger.trace-ttl", 0, "badger trace data ttl, 0 keeps traces forever")
}
