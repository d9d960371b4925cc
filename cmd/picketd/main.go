package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/picket-dev/picket/cmd/picketd/handlers"
	"github.com/picket-dev/picket/pkg/auth"
	pconf "github.com/picket-dev/picket/pkg/configs/server"
	kpg "github.com/picket-dev/picket/pkg/conn/db/postgres"
	"github.com/picket-dev/picket/pkg/domain/artifact/blob/fs"
	"github.com/picket-dev/picket/pkg/domain/retention"
	"github.com/picket-dev/picket/pkg/domain/upload"
	"github.com/picket-dev/picket/pkg/utils/clock"
	"github.com/picket-dev/picket/pkg/utils/echoutil"
	"github.com/picket-dev/picket/pkg/utils/filewatch"
)

func main() {

	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// read configfile
	conf, err := pconf.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	// restart (via the process supervisor) on config change
	{
		ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(ctx, func() {
			log.Println("config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by config update: %s", err)
			}
		})
	}

	governance := conf.Governance()

	ctx := context.Background()
	db, err := kpg.New(ctx, governance.Database())
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer db.Close()
	if err := db.Init(ctx); err != nil {
		log.Fatalf("can not initialize database: %s", err)
	}

	wallclock := clock.System()
	blobStore := fs.New(governance.BlobRoot())
	registry := upload.New(blobStore, db.Artifacts(), wallclock)
	collector := retention.New(blobStore, db.Artifacts())
	tokens := auth.New(governance.SignKey(), wallclock)

	// handlers
	{
		uploads := e.Group("/api/uploads", tokens.Middleware())
		uploads.POST("/", handlers.PostUploadHandler(registry))
		uploads.GET("/", handlers.GetUploadsHandler(db.Artifacts()))
		uploads.DELETE("/:uploadId/", handlers.DeleteUploadHandler(registry, "uploadId"))
	}
	{
		quotaPolicy := e.Group("/api/quota", tokens.Middleware())
		quotaPolicy.GET("/", handlers.GetQuotaPolicyHandler(governance.Quota().Limits()))
	}
	{
		ttl := governance.Retention().TTL()
		cleanup := e.Group("/api/cleanup", tokens.Middleware())
		cleanup.POST("/", handlers.PostCleanupHandler(collector, ttl, wallclock))
		cleanup.GET("/", handlers.GetCleanupHandler(collector, ttl, wallclock))
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(fmt.Sprintf(":%d", conf.Port()), cert, key))
	} else {
		e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", conf.Port())))
	}
}
