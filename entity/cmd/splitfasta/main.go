package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jgbaldwinbrown/pdbpair/entity/pkg"
)

func main() {
	outdir := flag.String("o", ".", "Directory to write one <ID>.fasta per entity")
	flag.Parse()

	entries, e := entity.SplitFasta(bufio.NewReader(os.Stdin), *outdir)
	if e != nil {
		log.Fatal(e)
	}
	for _, en := range entries {
		fmt.Println(en.Path)
	}
}
