// Command hiko-sync ingests DOC hiking assets (tracks, huts, campsites,
// alerts) into Hiko's document and blob stores.
package main

import "github.com/hikoapp/doc-sync/internal/cli"

func main() {
	cli.Execute()
}
