package cmd

import (
	"github.com/Cem-Kaya/bvh-article-fork/log"
	"github.com/urfave/cli"
)

var logger = log.New("bvh-article-fork")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
