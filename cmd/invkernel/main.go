// Command invkernel exposes the kernel operations on the command line.
//
//	invkernel digest intelligence
//	invkernel bond a b IMP
//	invkernel metrics --bit cat
//	invkernel crystallize --mode approx --top-k 8 --threshold 0.8 vectors.json
//	invkernel blocks document.txt
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
