// Command binstruct generates EncodeBinary/DecodeBinary methods for Go
// structures annotated with @binstruct.
//
//	//go:generate binstruct generate $GOFILE
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
