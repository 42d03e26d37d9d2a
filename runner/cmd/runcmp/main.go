package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jgbaldwinbrown/pdbpair/runner/pkg"
)

func main() {
	threads := flag.Int("t", -1, "Threads to use (default one per CPU).")
	flag.Parse()

	jobs, e := runner.LoadJobs(os.Stdin)
	if e != nil {
		log.Fatal(e)
	}
	for _, j := range jobs {
		if e := j.Validate(); e != nil {
			log.Fatal(e)
		}
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	failed := 0
	for _, res := range runner.RunMulti(context.Background(), *threads, jobs...) {
		if res.Err != nil {
			log.Printf("%v: %v", res.Job.ToolName(), res.Err)
			failed++
			continue
		}
		fmt.Fprint(stdout, res.Output)
	}
	if failed > 0 {
		stdout.Flush()
		log.Fatalf("%v of %v jobs failed", failed, len(jobs))
	}
}
