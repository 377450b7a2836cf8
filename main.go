package main

import (
	"github.com/chanscout/chanscout/cmd"
	"github.com/chanscout/chanscout/config"
	"github.com/chanscout/chanscout/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
