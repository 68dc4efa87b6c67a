//go:build ignore

// mock_api serves deterministic sample posts for local development:
//
//	go run scripts/mock_api.go -addr :5000
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mithrel/blogview/internal/mockapi"
)

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	n := flag.Int("n", 20, "number of sample posts")
	dump := flag.Bool("dump", false, "print the posts as JSON and exit")
	flag.Parse()

	// Deterministic seed for reproducible output
	posts := mockapi.SamplePosts(*n, 42, time.Now().UTC())

	if *dump {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(posts); err != nil {
			log.Fatal(err)
		}
		return
	}
	for _, p := range posts[:min(3, len(posts))] {
		fmt.Printf("/blogpost/%s/%s\n", p.ID, mockapi.Slug(p.Title))
	}
	log.Printf("posts API listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mockapi.Handler(posts)))
}
