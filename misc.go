package dotter

import (
	"flag"
	"fmt"
	"os"
)

// Verbose controls whether Vprint/Vprintf/Vprintln emit anything to stderr.
var Verbose = false

func Vprint(s string) {
	if !Verbose {
		return
	}
	fmt.Fprint(os.Stderr, s)
}

func Vprintf(format string, v ...interface{}) {
	if !Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, format, v...)
}

func Vprintln(s string) {
	if !Verbose {
		return
	}
	fmt.Fprintln(os.Stderr, s)
}

// Criticalf reports a critical diagnostic to stderr regardless of Verbose.
func Criticalf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}

// PrintFlagDefaults prints every registered flag and its default value, in
// the same "--name=default" shape the CLI's -help output uses.
func PrintFlagDefaults() {
	flag.VisitAll(func(fg *flag.Flag) {
		fmt.Printf("--%s=\"%s\"\n\t%s\n", fg.Name, fg.DefValue, fg.Usage)
	})
}
