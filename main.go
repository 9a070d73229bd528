package main

import (
	"fmt"
	"os"
	"runtime"

	"exifimage/signalhandler"
)

func main() {
	runtime.GOMAXPROCS(signalhandler.GetOptimalProcs())
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
