package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/picket-dev/picket/cmd/loops/metrics"
	"github.com/picket-dev/picket/cmd/loops/recurring"
	pconf "github.com/picket-dev/picket/pkg/configs/server"
	kpg "github.com/picket-dev/picket/pkg/conn/db/postgres"
	"github.com/picket-dev/picket/pkg/domain/artifact/blob/fs"
	"github.com/picket-dev/picket/pkg/domain/retention"
	"github.com/picket-dev/picket/pkg/utils/args"
	"github.com/picket-dev/picket/pkg/utils/filewatch"
	"github.com/picket-dev/picket/pkg/utils/try"
)

func main() {
	logger := log.Default()
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM,
	)
	// call cancel() when this function exits
	defer cancel()

	// define command line flags
	//-- path to config file
	pconfig := flag.String(
		"config", os.Getenv("PICKET_CONFIG"), "path to config file",
	)
	//-- loop policy
	policy := args.Parser(recurring.ParsePolicy)
	flag.Var(
		policy, "policy",
		`loop policy (syntax: forever[:COOLDOWN]|backlog).`+
			` "forever[:COOLDOWN]" = run forever until error. When backlog is over, `+
			`wait COOLDOWN (optional duration. default: retention cooldown from config) as interval.`+
			` "backlog" = run until error or backlog is over.`,
	)
	// parse command line flags
	flag.Parse()

	{
		// watch config
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			logger.Fatal(err)
		}
		defer cancel()
		ctx = wctx
	}

	conf := try.To(pconf.LoadServerConfig(*pconfig)).OrFatal(logger)
	governance := conf.Governance()

	db := try.To(kpg.New(ctx, governance.Database())).OrFatal(logger)
	defer db.Close()
	if err := db.Init(ctx); err != nil {
		logger.Fatal(err)
	}

	collector := retention.New(fs.New(governance.BlobRoot()), db.Artifacts())

	manifest := LoopManifest{
		TTL: governance.Retention().TTL(),
	}
	if policy.IsSet() {
		manifest.Policy = recurring.UntilError(policy.Value())
	} else {
		// scheduled cleanup: one pass per cooldown
		manifest.Policy = recurring.UntilError(
			recurring.Forever(governance.Retention().Cooldown()),
		)
	}

	if port := conf.MetricsPort(); 0 < port {
		reg := prometheus.NewRegistry()
		manifest.Metrics = metrics.NewRetention(reg)
		go func() {
			logger.Printf("serving /metrics on :%d", port)
			if err := metrics.Serve(port, reg); err != nil {
				logger.Printf("metrics listener stopped: %s", err)
			}
		}()
	}

	logger.Printf(`start loop "retention" /w policy "%s"`, manifest.Policy.String())

	err := StartRetentionLoop(ctx, logger, collector, manifest)

	if err == nil {
		return
	} else if errors.Is(err, context.Canceled) {
		logger.Fatal(err, "(loop context is cancelled by:", context.Cause(ctx), ")")
	}

	if ctx.Err() != nil {
		logger.Fatal(err)
	}
	logger.Fatal(err)
}
