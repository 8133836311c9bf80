package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kingpin"

	"kastelo.dev/iak/batch"
	"kastelo.dev/iak/config"
	"kastelo.dev/iak/ledger"
	"kastelo.dev/iak/logging"
	"kastelo.dev/iak/office"
	"kastelo.dev/iak/report"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)
	os.Exit(run())
}

func run() int {
	cmdPI := kingpin.Command(report.KindPI, "Populate and export the PI rapportage of every object")
	cmdBijlage3 := kingpin.Command(report.KindBijlage3, "Export the ORA of every object as Bijlage 3")
	cmdBijlage9 := kingpin.Command(report.KindBijlage9, "Generate Bijlage 9, the attention points for the manager")
	cmdRisks := kingpin.Command(report.KindRisks, "Generate the highest risks overview of the werkpakket")
	cmdCombine := kingpin.Command(report.KindCombined, "Combine PI rapportage, Bijlage 3 and Bijlage 9 per object")
	cmdObjects := kingpin.Command("objects", "List the objects of the werkpakket")
	cfgFile := kingpin.Flag("config", "Configuration file (JSON or YAML)").Default("config.json").Envar("IAK_CONFIG").String()
	failed := kingpin.Flag("failed", "Only process the objects that failed in the last run of this command (needs a ledger)").Bool()
	cmd := kingpin.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Println(err)
		return 1
	}

	if cmd == cmdObjects.FullCommand() {
		env := &report.Env{Config: cfg}
		wp, err := env.Werkpakket()
		if err != nil {
			log.Println(err)
			return 1
		}
		for _, obj := range wp.Objects {
			fmt.Printf("%s\t%s\n", obj.Code, obj.Dir)
		}
		return 0
	}

	l, logFile, err := logging.Setup(cfg.Log, cmd, time.Now())
	if err != nil {
		log.Println(err)
		return 1
	}
	defer logFile.Close()
	slog.SetDefault(l)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	conv, err := office.New(cfg.Export, l)
	if err != nil {
		l.Error("Setting up export", "error", err)
		return 1
	}
	env := &report.Env{
		Config: cfg,
		Logger: l,
		Office: conv,
	}
	if cfg.Ledger.DSN != "" {
		led, err := ledger.Open(ctx, cfg.Ledger.DSN)
		if err != nil {
			l.Warn("Ledger unavailable", "error", err)
		} else {
			defer led.Close()
			env.Ledger = led
		}
	}
	if *failed {
		objs, err := env.RetryFailed(ctx, cmd)
		if err != nil {
			l.Error("Looking up failed objects", "command", cmd, "error", err)
			return 1
		}
		if len(objs) == 0 {
			l.Info("No failed objects", "command", cmd)
			return 0
		}
		l.Info("Rerunning failed objects", "command", cmd, "objects", objs)
	}

	var step func(context.Context) (batch.Summary, error)
	switch cmd {
	case cmdPI.FullCommand():
		step = env.PI
	case cmdBijlage3.FullCommand():
		step = env.Bijlage3
	case cmdBijlage9.FullCommand():
		step = env.Bijlage9
	case cmdRisks.FullCommand():
		step = env.Risks
	case cmdCombine.FullCommand():
		step = env.Combine
	}

	l.Info("Starting", "command", cmd, "config", *cfgFile)
	s, err := step(ctx)
	for _, doc := range env.Documents {
		l.Debug("Generated", "kind", doc.Kind, "object", doc.Object, "document", doc.Document, "pdf", doc.PDF)
	}
	if err != nil {
		l.Error("Command failed", "command", cmd, "error", err)
		return 1
	}
	if err := s.Err(); err != nil {
		l.Error("Command finished with failures", "command", cmd, "error", err)
		return 2
	}
	l.Info("Done", "command", cmd, "documents", len(env.Documents))
	return 0
}
