// log.go - boot/runtime diagnostics.
//
// The teacher logs with plain fmt.Printf/Println (boilerPlate, printFeatures)
// rather than a structured logging library; this wraps the same idiom in a
// small log.Logger so backend start failures, the headless-build notice and
// console errors get a timestamp without reaching for a third-party logging
// package the rest of the retrieval pack never imports either. The NIC and
// file I/O controllers do not log; they report through their status registers.
package main

import (
	"log"
	"os"
)

var logger = log.New(os.Stderr, "novavm: ", log.LstdFlags)

func logf(format string, args ...any) {
	logger.Printf(format, args...)
}
