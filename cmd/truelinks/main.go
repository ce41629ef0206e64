// truelinks scores links for phishing and abuse indicators.
package main

import "github.com/ppiankov/truelinks/internal/cli"

func main() {
	cli.Execute()
}
