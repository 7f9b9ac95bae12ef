/*
xidledger is the command-line front end of the transaction ledger.

	xidledger [-config file] [-base path] <command> [args]

Commands:

	create          create the new ledger file
	inspect         print xid counter, file length and the state of every transaction
	begin           allocate the new transaction id
	commit <xid>    record the transaction as committed
	abort <xid>     record the transaction as aborted
	status <xid>    print the state of the transaction
	shell           run the commands above interactively against one open ledger

The ledger file is located by appending the suffix (".xid" by default) to the base path.
Any ledger error terminates the process.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/HayatoShiba/xidledger/config"
	"github.com/HayatoShiba/xidledger/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path of the yaml configuration file")
	basePath   = flag.String("base", "", "Base path of the ledger file (overrides the configuration)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [-base path] <command> [args]\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "commands: create, inspect, begin, commit <xid>, abort <xid>, status <xid>, shell")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *basePath != "" {
		cfg.Ledger.BasePath = *basePath
	}

	l, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer l.Sync()

	if err := run(l, cfg.LedgerPath(), flag.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			os.Exit(2)
		}
		// the ledger cannot be trusted anymore. never continue.
		l.Fatal("ledger failed", zap.String("path", cfg.LedgerPath()), zap.Error(err))
	}
}
