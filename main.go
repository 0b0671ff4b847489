package main

import (
	"github.com/lehigh-university-libraries/bibstats/cmd"

	// Register format plugins
	_ "github.com/lehigh-university-libraries/bibstats/format/csv"
	_ "github.com/lehigh-university-libraries/bibstats/format/json"
)

func main() {
	cmd.Execute()
}
