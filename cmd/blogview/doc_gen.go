//go:build ignore
// +build ignore

package main

import (
	"log"

	blogview "github.com/mithrel/blogview/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	root := blogview.NewRootCmd()

	if err := doc.GenMarkdownTree(root, "./docs/markdown"); err != nil {
		log.Fatal(err)
	}

	header := &doc.GenManHeader{
		Title:   "BLOGVIEW",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, "./docs/man"); err != nil {
		log.Fatal(err)
	}
}
