//go:build !tinygo && !baremetal

// Command nrfmulti runs the transmitter scheduler on a host against the stub
// radio, fed from a serial console or standard input.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/ystepanoff/nrfmulti/config"
	"github.com/ystepanoff/nrfmulti/diag"
	"github.com/ystepanoff/nrfmulti/driver/stub"
	"github.com/ystepanoff/nrfmulti/eeprom"
	"github.com/ystepanoff/nrfmulti/metrics"
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/ppm/serial"
	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/scheduler"
	"github.com/ystepanoff/nrfmulti/selection"
	"github.com/ystepanoff/nrfmulti/txid"
)

var configFlag = flag.String("config", "", "Config file; defaults to $NRFMULTI_CONFIG or ./nrfmulti.yaml.")

type runCmd struct {
	input string
	proto string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Run the scheduler against the stub radio." }
func (*runCmd) Usage() string {
	return `run [-input <tty>] [-protocol <name>]:
  Read channel lines from a tty (or stdin) and transmit until interrupted.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.input, "input", "", "Serial device carrying channel lines; overrides input.device.")
	f.StringVar(&r.proto, "protocol", "", "Static protocol; overrides protocol.default and disables gestures.")
}

func (r *runCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	if r.input != "" {
		cfg.Input.Device = r.input
	}
	if r.proto != "" {
		cfg.Protocol.Selection = "static"
		cfg.Protocol.Default = r.proto
		if err := cfg.Validate(); err != nil {
			log.Print(err)
			return subcommands.ExitUsageError
		}
	}

	logger, err := diag.NewLogger(cfg.Logging)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	policy, err := cfg.Protocol.Policy()
	if err != nil {
		return err
	}

	mem, err := eeprom.OpenFile(cfg.Storage.File)
	if err != nil {
		return err
	}
	defer mem.Close()

	sampler := ppm.NewSampler()
	go func() {
		var (
			stats ppm.LineStats
			err   error
		)
		if cfg.Input.Device != "" {
			stats, err = serial.Feed(ctx, cfg.Input.Device, cfg.Input.Baud, sampler)
		} else {
			stats, err = ppm.ReadLines(ctx, os.Stdin, sampler)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("input stopped", zap.Error(err))
		}
		logger.Info("input closed",
			zap.Int("frames", stats.Frames),
			zap.Int("skipped", stats.Skipped))
	}()

	observers := scheduler.Observers{
		diag.NewZap(logger.Named("scheduler"), cfg.Diag.OverrunLinesPerSecond, cfg.Diag.Burst),
	}
	if cfg.Metrics.Enable {
		reg := metrics.NewRegistry()
		observers = append(observers, metrics.NewObserver(reg))

		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler(reg))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.Metrics.Addr), zap.String("path", cfg.Metrics.Path))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	s := scheduler.New(scheduler.Options{
		Sampler:          sampler,
		Radio:            stub.New(),
		Storage:          mem,
		Policy:           policy,
		Observer:         observers,
		WaitSafeThrottle: cfg.Protocol.WaitSafeThrottle,
	})

	err = s.Run(ctx)
	logger.Info("scheduler stopped",
		zap.Uint64("ticks", s.Ticks()),
		zap.Stringer("protocol", s.Active()))
	if ioErr := mem.Err(); ioErr != nil {
		logger.Warn("eeprom image", zap.Error(ioErr))
	}
	return err
}

type protocolsCmd struct{}

func (*protocolsCmd) Name() string             { return "protocols" }
func (*protocolsCmd) Synopsis() string         { return "List the supported protocols." }
func (*protocolsCmd) Usage() string            { return "protocols\n" }
func (*protocolsCmd) SetFlags(f *flag.FlagSet) {}

func (*protocolsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tw := new(tabwriter.Writer)
	tw.Init(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "#\tname\tperiod\tpacket\tbind\tframing\tradio\n")
	for _, sel := range protocol.Selectors() {
		info := protocol.Lookup(sel)
		framing := "native"
		if info.XN297 {
			framing = "xn297"
		}
		fmt.Fprintf(tw, "%d\t%s\t%dus\t%d\t%d\t%s\t%s\n",
			sel, info.Name, info.Period, info.PacketSize, info.BindPackets, framing, info.Config)
	}

	tw.Flush()
	return subcommands.ExitSuccess
}

type txidCmd struct {
	renew bool
}

func (*txidCmd) Name() string     { return "txid" }
func (*txidCmd) Synopsis() string { return "Show or renew the stored transmitter id." }
func (*txidCmd) Usage() string {
	return `txid [-renew]:
  Print the transmitter id and last protocol held in the eeprom image.
`
}

func (t *txidCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&t.renew, "renew", false, "Draw and store a fresh id.")
}

func (t *txidCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}

	mem, err := eeprom.OpenFile(cfg.Storage.File)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	defer mem.Close()

	store := txid.NewStore(mem, txid.NewRand(txid.NoiseSeed()))
	var id txid.ID
	if t.renew {
		id = store.Renew()
	} else {
		id = store.Load()
	}
	if err := mem.Err(); err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}

	tw := new(tabwriter.Writer)
	tw.Init(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "image\t%s\n", cfg.Storage.File)
	fmt.Fprintf(tw, "txid\t%s\n", id)
	fmt.Fprintf(tw, "protocol\t%s\n", protocol.Clamp(mem.Read(eeprom.ProtocolID)))
	tw.Flush()

	return subcommands.ExitSuccess
}

type gesturesCmd struct{}

func (*gesturesCmd) Name() string             { return "gestures" }
func (*gesturesCmd) Synopsis() string         { return "Print the gesture table in effect." }
func (*gesturesCmd) Usage() string            { return "gestures\n" }
func (*gesturesCmd) SetFlags(f *flag.FlagSet) {}

func (*gesturesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}

	table := selection.DefaultTable()
	if cfg.Protocol.Gestures != "" {
		if table, err = selection.LoadTable(cfg.Protocol.Gestures); err != nil {
			log.Print(err)
			return subcommands.ExitFailure
		}
	}

	out, err := selection.EncodeTable(table)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	os.Stdout.Write(out)
	return subcommands.ExitSuccess
}

func main() {
	log.SetPrefix("")
	log.SetFlags(0)

	subcommands.ImportantFlag("config")
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&protocolsCmd{}, "")
	subcommands.Register(&txidCmd{}, "")
	subcommands.Register(&gesturesCmd{}, "")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := subcommands.Execute(ctx)
	stop()
	os.Exit(int(status))
}
