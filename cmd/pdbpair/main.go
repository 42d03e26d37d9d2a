package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jgbaldwinbrown/pdbpair/config/pkg"
	"github.com/jgbaldwinbrown/pdbpair/pipeline/pkg"
)

func main() {
	cfgPath := flag.String("c", "pdbpair.toml", "Run configuration (TOML)")
	envPath := flag.String("e", ".env", "Environment file, ignored if missing")
	flag.Parse()

	cfg, e := config.Load(*cfgPath, *envPath)
	if e != nil {
		log.Fatal(e)
	}

	ctx, stop := pipeline.WithSignals(context.Background())
	defer stop()

	rep, e := pipeline.Run(ctx, cfg, pipeline.Options{})
	if rep != nil {
		if e := pipeline.WriteReport(os.Stdout, rep); e != nil {
			log.Print(e)
		}
	}
	if e != nil {
		stop()
		log.Fatal(e)
	}
}
